package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
)

var (
	ErrInvalidID          = errors.New("invalid_transaction_id")
	ErrInvalidType        = errors.New("invalid_type")
	ErrInvalidContext     = errors.New("invalid_context")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrNotFound           = errors.New("transaction_not_found")
)

// CreateRequest carries the fields for a new ledger entry.
type CreateRequest struct {
	Type          string
	Context       string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	Date          string
	CategoryID    string
	BankAccountID string
	Notes         *string
}

// UpdateRequest carries optional field updates for an existing entry.
type UpdateRequest struct {
	Type          *string
	Context       *string
	Description   *string
	Amount        *decimal.Decimal
	Currency      *string
	Date          *string
	CategoryID    *string
	BankAccountID *string
	Notes         *string
}

// Filters narrows listing and reporting queries.
type Filters struct {
	Type          string
	Context       string
	CategoryID    string
	BankAccountID string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Response is the transaction read model with expanded references.
type Response struct {
	ID          string                       `json:"id"`
	Type        Type                         `json:"type"`
	Context     Context                      `json:"context"`
	Description string                       `json:"description"`
	Amount      decimal.Decimal              `json:"amount"`
	Currency    string                       `json:"currency"`
	Date        string                       `json:"date"`
	Category    *categorydomain.Response     `json:"category"`
	BankAccount *bankaccountdomain.Response  `json:"bank_account"`
	Notes       *string                      `json:"notes"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// Summary aggregates the filtered ledger.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TransactionCount int64           `json:"transaction_count"`
}

// BankBalance is the per-account net position.
type BankBalance struct {
	BankAccountID    string          `json:"bank_account_id"`
	BankAccountLabel string          `json:"bank_account_label"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Balance          decimal.Decimal `json:"balance"`
}

type Service interface {
	List(ctx context.Context, filters Filters) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	GetSummary(ctx context.Context, filters Filters) (Summary, error)
	GetBankBalances(ctx context.Context, txContext string) ([]BankBalance, error)
}

// ParseID parses a wire-level transaction identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
