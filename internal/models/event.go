package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogEvent is an audit row written by the worker for every catalog event
// consumed from Kafka.
type CatalogEvent struct {
	ID         string          `json:"id" gorm:"type:uuid;primary_key"`
	Type       string          `json:"type" gorm:"not null"`
	ProductID  string          `json:"product_id" gorm:"type:uuid;not null"`
	SKU        string          `json:"sku" gorm:"not null"`
	Title      string          `json:"title" gorm:"not null"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	OccurredAt time.Time       `json:"occurred_at" gorm:"not null"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (e *CatalogEvent) TableName() string {
	return "catalog_events"
}

func (e *CatalogEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
