package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BankAccount holds the remittance details shown on an invoice.
type BankAccount struct {
	ID                       snowflake.ID `gorm:"primaryKey"`
	Label                    string       `gorm:"type:text;not null"`
	BeneficiaryFullName      string       `gorm:"type:text;not null"`
	BeneficiaryFullAddress   *string      `gorm:"type:text"`
	BeneficiaryAccountNumber string       `gorm:"type:text;not null"`
	SwiftCode                string       `gorm:"type:text;not null"`
	BankName                 *string      `gorm:"type:text"`
	BankAddress              *string      `gorm:"type:text"`
	IntermediaryBankInfo     *string      `gorm:"type:text"`
	CreatedAt                time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BankAccount) TableName() string { return "bank_accounts" }
