package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CatalogService is a reusable billable item used to seed invoice lines.
type CatalogService struct {
	ID                 snowflake.ID    `gorm:"primaryKey"`
	ServiceTitle       string          `gorm:"type:text;not null"`
	ServiceDescription *string         `gorm:"type:text"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CatalogService) TableName() string { return "catalog_services" }
