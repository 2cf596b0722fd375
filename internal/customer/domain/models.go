package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer is a billable counterparty in the catalog.
type Customer struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	LegalName    string       `gorm:"type:text;not null;index"`
	DisplayName  *string      `gorm:"type:text"`
	TaxID        *string      `gorm:"column:tax_id;type:text"`
	Email        *string      `gorm:"type:text"`
	Phone        *string      `gorm:"type:text"`
	AddressLine1 *string      `gorm:"column:address_line_1;type:text"`
	AddressLine2 *string      `gorm:"column:address_line_2;type:text"`
	City         *string      `gorm:"type:text"`
	State        *string      `gorm:"type:text"`
	Zip          *string      `gorm:"type:text"`
	Country      *string      `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
