package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The pricing engine only reads it;
// GlobalWholesalePrice is the system-wide default base price.
type Product struct {
	ID                   string          `gorm:"primaryKey"`
	Title                string          `gorm:"index;not null"`
	SKUCode              string          `gorm:"column:sku_code;uniqueIndex;not null"`
	Brand                string          `gorm:"index;not null;default:''"`
	CategoryID           string          `gorm:"index;not null;default:''"`
	SubCategoryID        string          `gorm:"index;not null;default:''"`
	SegmentID            string          `gorm:"index;not null;default:''"`
	GlobalWholesalePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ImageURL             *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Product) TableName() string { return "products" }
