package domain

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
)

// CreatePayload is the normalized create/update request body. Recurrence
// fields are present only while recurrence is active.
type CreatePayload struct {
	CustomerID          string           `json:"customer_id"`
	IssueDate           string           `json:"issue_date"`
	DueDate             string           `json:"due_date"`
	Currency            string           `json:"currency"`
	Status              string           `json:"status"`
	BankAccountID       string           `json:"bank_account_id,omitempty"`
	Services            []ServicePayload `json:"services"`
	Notes               string           `json:"notes,omitempty"`
	IsRecurrent         bool             `json:"is_recurrent"`
	RecurrenceFrequency *string          `json:"recurrence_frequency,omitempty"`
	RecurrenceDay       *int             `json:"recurrence_day,omitempty"`
}

// ServicePayload is one line of a create/update request.
type ServicePayload struct {
	ServiceTitle       string          `json:"service_title"`
	ServiceDescription string          `json:"service_description,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	SortOrder          int             `json:"sort_order"`
}

// ListRequest filters the invoice listing.
type ListRequest struct {
	Status        string
	CustomerID    string
	IssueDateFrom *time.Time
	IssueDateTo   *time.Time
}

// ListItem is the condensed row returned by List.
type ListItem struct {
	ID                  string                   `json:"id"`
	InvoiceNumber       string                   `json:"invoice_number"`
	Customer            *customerdomain.Response `json:"customer"`
	IssueDate           string                   `json:"issue_date"`
	DueDate             string                   `json:"due_date"`
	Status              Status                   `json:"status"`
	TotalAmount         decimal.Decimal          `json:"total_amount"`
	Currency            string                   `json:"currency"`
	IsRecurrent         bool                     `json:"is_recurrent"`
	RecurrenceFrequency *Frequency               `json:"recurrence_frequency"`
}

// ServiceResponse is one persisted line in a read response.
type ServiceResponse struct {
	ID                 string          `json:"id"`
	ServiceTitle       string          `json:"service_title"`
	ServiceDescription *string         `json:"service_description"`
	Amount             decimal.Decimal `json:"amount"`
	SortOrder          int             `json:"sort_order"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Response is the fully-hydrated invoice read model, with the expanded
// customer and bank account and the server-computed total.
type Response struct {
	ID                  string                      `json:"id"`
	InvoiceNumber       string                      `json:"invoice_number"`
	Customer            *customerdomain.Response    `json:"customer"`
	BankAccount         *bankaccountdomain.Response `json:"bank_account"`
	IssueDate           string                      `json:"issue_date"`
	DueDate             string                      `json:"due_date"`
	Currency            string                      `json:"currency"`
	Status              Status                      `json:"status"`
	TotalAmount         decimal.Decimal             `json:"total_amount"`
	Services            []ServiceResponse           `json:"services"`
	Notes               *string                     `json:"notes"`
	IsRecurrent         bool                        `json:"is_recurrent"`
	RecurrenceFrequency *Frequency                  `json:"recurrence_frequency"`
	RecurrenceDay       *int                        `json:"recurrence_day"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]ListItem, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, payload CreatePayload) (*Response, error)
	Update(ctx context.Context, id string, payload CreatePayload) (*Response, error)
	Delete(ctx context.Context, id string) error
	RenderDocument(ctx context.Context, id string) (string, error)
}

// ParseID parses a wire-level invoice identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
