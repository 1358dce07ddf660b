package fakestore

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"storemirror/internal/models"
)

const (
	skuPrefix = "API-"

	// The external schema carries neither size nor color.
	defaultSize  = "M"
	defaultColor = "N/A"
)

type Transformer struct {
	titleCaser cases.Caser
}

func NewTransformer() *Transformer {
	return &Transformer{
		titleCaser: cases.Title(language.English),
	}
}

// CategoryName normalizes an external category name to its local form.
func (t *Transformer) CategoryName(raw string) string {
	return t.titleCaser.String(raw)
}

// TransformProduct converts an external record into a local Product, owned by
// the given category. The variant is built separately once the product id is
// known.
func (t *Transformer) TransformProduct(record *Product, categoryID string) *models.Product {
	return &models.Product{
		ExternalID: record.ID,
		Title:      record.Title,
		Brand:      models.BrandExternal,
		CategoryID: categoryID,
	}
}

// TransformVariant builds the single variant an external record yields.
func (t *Transformer) TransformVariant(record *Product, productID string) *models.ProductVariant {
	return &models.ProductVariant{
		ProductID: productID,
		SKU:       SKU(record.ID),
		Size:      defaultSize,
		Color:     defaultColor,
		Price:     decimal.NewFromFloat(record.Price),
		ImageURL:  record.Image,
	}
}

// SKU derives the deterministic local SKU for an external product id.
func SKU(externalID int64) string {
	return fmt.Sprintf("%s%d", skuPrefix, externalID)
}
