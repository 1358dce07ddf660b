package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BrandExternal marks products mirrored from the external API, which has no
// brand concept of its own.
const BrandExternal = "External API"

type Category struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type Product struct {
	ID         string           `json:"id" gorm:"type:uuid;primary_key"`
	ExternalID int64            `json:"external_id" gorm:"not null"`
	Title      string           `json:"title" gorm:"not null"`
	Brand      string           `json:"brand"`
	CategoryID string           `json:"category_id" gorm:"type:uuid;not null"`
	Category   Category         `json:"category" gorm:"foreignKey:CategoryID"`
	Variants   []ProductVariant `json:"variants" gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type ProductVariant struct {
	ID        string          `json:"id" gorm:"type:uuid;primary_key"`
	ProductID string          `json:"product_id" gorm:"type:uuid;not null"`
	SKU       string          `json:"sku" gorm:"uniqueIndex;not null"`
	Size      string          `json:"size" gorm:"not null"`
	Color     string          `json:"color" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL  string          `json:"image_url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (v *ProductVariant) TableName() string {
	return "product_variants"
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
