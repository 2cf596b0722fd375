package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
)

// Type distinguishes money in from money out.
type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
)

// ParseType validates a wire-level transaction type.
func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeExpense:
		return TypeExpense, nil
	case TypeIncome:
		return TypeIncome, nil
	default:
		return "", ErrInvalidType
	}
}

// Context separates business bookkeeping from personal entries.
type Context string

const (
	ContextBusiness Context = "business"
	ContextPersonal Context = "personal"
)

// ParseContext validates a wire-level transaction context.
func ParseContext(raw string) (Context, error) {
	switch Context(strings.ToLower(strings.TrimSpace(raw))) {
	case ContextBusiness:
		return ContextBusiness, nil
	case ContextPersonal:
		return ContextPersonal, nil
	default:
		return "", ErrInvalidContext
	}
}

// Transaction is one ledger entry.
type Transaction struct {
	ID            snowflake.ID    `gorm:"primaryKey"`
	Type          Type            `gorm:"type:text;not null;index"`
	Context       Context         `gorm:"type:text;not null;default:'business'"`
	Description   string          `gorm:"type:text;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"type:text;not null;default:'USD'"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	CategoryID    *snowflake.ID   `gorm:"index"`
	Category      *categorydomain.TransactionCategory `gorm:"foreignKey:CategoryID"`
	BankAccountID *snowflake.ID   `gorm:"index"`
	BankAccount   *bankaccountdomain.BankAccount `gorm:"foreignKey:BankAccountID"`
	Notes         *string         `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
