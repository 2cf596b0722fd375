package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID     = errors.New("invalid_service_id")
	ErrInvalidTitle  = errors.New("invalid_service_title")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrNotFound      = errors.New("service_not_found")
)

// minAmount is the smallest accepted amount, one cent.
var minAmount = decimal.New(1, -2)

// CreateRequest carries the fields for a new catalog service.
type CreateRequest struct {
	ServiceTitle       string          `json:"service_title"`
	ServiceDescription *string         `json:"service_description"`
	Amount             decimal.Decimal `json:"amount"`
}

// UpdateRequest carries optional field updates.
type UpdateRequest struct {
	ServiceTitle       *string          `json:"service_title"`
	ServiceDescription *string          `json:"service_description"`
	Amount             *decimal.Decimal `json:"amount"`
}

// Response is the catalog service read model.
type Response struct {
	ID                 string          `json:"id"`
	ServiceTitle       string          `json:"service_title"`
	ServiceDescription *string         `json:"service_description"`
	Amount             decimal.Decimal `json:"amount"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToResponse maps a CatalogService row to its read model.
func ToResponse(s CatalogService) Response {
	return Response{
		ID:                 s.ID.String(),
		ServiceTitle:       s.ServiceTitle,
		ServiceDescription: s.ServiceDescription,
		Amount:             s.Amount,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// ValidateAmount enforces the strictly-positive, two-decimal money rule.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Cmp(minAmount) < 0 {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

type Service interface {
	List(ctx context.Context, query string) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// ParseID parses a wire-level catalog service identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
