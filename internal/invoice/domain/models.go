package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
	StatusPaid  Status = "paid"
	StatusVoid  Status = "void"
)

// ParseStatus validates a wire-level status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusSent:
		return StatusSent, nil
	case StatusPaid:
		return StatusPaid, nil
	case StatusVoid:
		return StatusVoid, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Frequency is the recurrence cadence of a recurring invoice.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency validates a wire-level frequency value.
func ParseFrequency(raw string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(raw))) {
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	default:
		return "", ErrInvalidRecurrenceFrequency
	}
}

// Invoice is the persisted invoice header.
type Invoice struct {
	ID                  snowflake.ID    `gorm:"primaryKey"`
	InvoiceSeq          int64           `gorm:"not null;uniqueIndex"`
	InvoiceNumber       string          `gorm:"type:text;not null;uniqueIndex"`
	CustomerID          snowflake.ID    `gorm:"not null;index"`
	Customer            *customerdomain.Customer `gorm:"foreignKey:CustomerID"`
	BankAccountID       *snowflake.ID   `gorm:"index"`
	BankAccount         *bankaccountdomain.BankAccount `gorm:"foreignKey:BankAccountID"`
	IssueDate           time.Time       `gorm:"type:date;not null;index"`
	DueDate             time.Time       `gorm:"type:date;not null"`
	Currency            string          `gorm:"type:text;not null;default:'USD'"`
	Status              Status          `gorm:"type:text;not null;default:'draft';index"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Notes               *string         `gorm:"type:text"`
	IsRecurrent         bool            `gorm:"not null;default:false;index"`
	RecurrenceFrequency *Frequency      `gorm:"type:text"`
	RecurrenceDay       *int
	LastGeneratedAt     *time.Time
	GeneratedFrom       *snowflake.ID
	Services            []InvoiceService `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceService is a persisted billable line belonging to one invoice.
type InvoiceService struct {
	ID                 snowflake.ID    `gorm:"primaryKey"`
	InvoiceID          snowflake.ID    `gorm:"not null;index"`
	ServiceTitle       string          `gorm:"type:text;not null"`
	ServiceDescription *string         `gorm:"type:text"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SortOrder          int             `gorm:"not null;default:0"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceService) TableName() string { return "invoice_services" }
