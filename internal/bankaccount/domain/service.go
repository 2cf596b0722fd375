package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidID            = errors.New("invalid_bank_account_id")
	ErrInvalidLabel         = errors.New("invalid_label")
	ErrInvalidBeneficiary   = errors.New("invalid_beneficiary_full_name")
	ErrInvalidAccountNumber = errors.New("invalid_beneficiary_account_number")
	ErrInvalidSwiftCode     = errors.New("invalid_swift_code")
	ErrNotFound             = errors.New("bank_account_not_found")
)

// CreateRequest carries the fields for a new bank account.
type CreateRequest struct {
	Label                    string  `json:"label"`
	BeneficiaryFullName      string  `json:"beneficiary_full_name"`
	BeneficiaryFullAddress   *string `json:"beneficiary_full_address"`
	BeneficiaryAccountNumber string  `json:"beneficiary_account_number"`
	SwiftCode                string  `json:"swift_code"`
	BankName                 *string `json:"bank_name"`
	BankAddress              *string `json:"bank_address"`
	IntermediaryBankInfo     *string `json:"intermediary_bank_info"`
}

// UpdateRequest carries optional field updates.
type UpdateRequest struct {
	Label                    *string `json:"label"`
	BeneficiaryFullName      *string `json:"beneficiary_full_name"`
	BeneficiaryFullAddress   *string `json:"beneficiary_full_address"`
	BeneficiaryAccountNumber *string `json:"beneficiary_account_number"`
	SwiftCode                *string `json:"swift_code"`
	BankName                 *string `json:"bank_name"`
	BankAddress              *string `json:"bank_address"`
	IntermediaryBankInfo     *string `json:"intermediary_bank_info"`
}

// Response is the bank account read model.
type Response struct {
	ID                       string    `json:"id"`
	Label                    string    `json:"label"`
	BeneficiaryFullName      string    `json:"beneficiary_full_name"`
	BeneficiaryFullAddress   *string   `json:"beneficiary_full_address"`
	BeneficiaryAccountNumber string    `json:"beneficiary_account_number"`
	SwiftCode                string    `json:"swift_code"`
	BankName                 *string   `json:"bank_name"`
	BankAddress              *string   `json:"bank_address"`
	IntermediaryBankInfo     *string   `json:"intermediary_bank_info"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// ToResponse maps a BankAccount row to its read model.
func ToResponse(b BankAccount) Response {
	return Response{
		ID:                       b.ID.String(),
		Label:                    b.Label,
		BeneficiaryFullName:      b.BeneficiaryFullName,
		BeneficiaryFullAddress:   b.BeneficiaryFullAddress,
		BeneficiaryAccountNumber: b.BeneficiaryAccountNumber,
		SwiftCode:                b.SwiftCode,
		BankName:                 b.BankName,
		BankAddress:              b.BankAddress,
		IntermediaryBankInfo:     b.IntermediaryBankInfo,
		CreatedAt:                b.CreatedAt,
		UpdatedAt:                b.UpdatedAt,
	}
}

type Service interface {
	List(ctx context.Context) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

// ParseID parses a wire-level bank account identifier.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
