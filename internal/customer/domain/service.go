package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidID        = errors.New("invalid_customer_id")
	ErrInvalidLegalName = errors.New("invalid_legal_name")
	ErrNotFound         = errors.New("customer_not_found")
)

// CreateRequest carries the fields for a new customer.
type CreateRequest struct {
	LegalName    string  `json:"legal_name"`
	DisplayName  *string `json:"display_name"`
	TaxID        *string `json:"tax_id"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Zip          *string `json:"zip"`
	Country      *string `json:"country"`
}

// UpdateRequest carries optional field updates for an existing customer.
type UpdateRequest struct {
	LegalName    *string `json:"legal_name"`
	DisplayName  *string `json:"display_name"`
	TaxID        *string `json:"tax_id"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Zip          *string `json:"zip"`
	Country      *string `json:"country"`
}

// Response is the customer read model.
type Response struct {
	ID           string    `json:"id"`
	LegalName    string    `json:"legal_name"`
	DisplayName  *string   `json:"display_name"`
	TaxID        *string   `json:"tax_id"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	AddressLine1 *string   `json:"address_line_1"`
	AddressLine2 *string   `json:"address_line_2"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	Zip          *string   `json:"zip"`
	Country      *string   `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse maps a Customer row to its read model.
func ToResponse(c Customer) Response {
	return Response{
		ID:           c.ID.String(),
		LegalName:    c.LegalName,
		DisplayName:  c.DisplayName,
		TaxID:        c.TaxID,
		Email:        c.Email,
		Phone:        c.Phone,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
		City:         c.City,
		State:        c.State,
		Zip:          c.Zip,
		Country:      c.Country,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type Service interface {
	List(ctx context.Context, query string) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// ParseID parses a wire-level customer identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
