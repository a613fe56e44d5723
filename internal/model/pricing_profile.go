package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType selects how the adjustment magnitude is read:
// a currency amount (fixed) or a percentage of the base price (dynamic).
type AdjustmentType string

const (
	AdjustmentFixed   AdjustmentType = "fixed"
	AdjustmentDynamic AdjustmentType = "dynamic"
)

func (t AdjustmentType) Valid() bool {
	return t == AdjustmentFixed || t == AdjustmentDynamic
}

// IncrementType is the direction of an adjustment.
type IncrementType string

const (
	IncrementIncrease IncrementType = "increase"
	IncrementDecrease IncrementType = "decrease"
)

func (t IncrementType) Valid() bool {
	return t == IncrementIncrease || t == IncrementDecrease
}

// AdjustmentSpec is the full set of parameters fed to the calculator.
type AdjustmentSpec struct {
	AdjustmentType  AdjustmentType
	IncrementType   IncrementType
	AdjustmentValue decimal.Decimal
}

// PricingProfile is an immutable, append-only record of prices derived from a basis.
// BasedOnProfileID nil means the global wholesale price was the basis.
// BasedOnProfileID carries no FK: deleting an ancestor leaves descendants
// and their frozen Items untouched.
type PricingProfile struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name             string      `gorm:"not null"`
	BasedOnProfileID *uuid.UUID  `gorm:"type:uuid;index"`
	Items            []PriceItem `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time   `gorm:"not null;index"`
}

func (PricingProfile) TableName() string { return "pricing_profiles" }

// MaxPrice is the largest value a decimal(12,2) price column holds. Adjustment
// values and resolved prices above it are rejected before they reach the store.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// PriceItem is one product's line inside a profile.
// Adjustment holds the resolved price frozen at save time; the other
// fields record the formula inputs that produced it. AdjustmentValue is stored
// unscaled so a percentage like 12.345 reads back exactly as sent.
type PriceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProfileID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_profile_product"`
	ProductID       string          `gorm:"not null;uniqueIndex:idx_profile_product;index"`
	AdjustmentType  AdjustmentType  `gorm:"type:varchar(16);not null"`
	IncrementType   IncrementType   `gorm:"type:varchar(16);not null"`
	AdjustmentValue decimal.Decimal `gorm:"type:numeric;not null"`
	Adjustment      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Profile *PricingProfile `gorm:"foreignKey:ProfileID"`
}

func (PriceItem) TableName() string { return "price_items" }

// Spec returns the adjustment parameters recorded on the item.
func (i PriceItem) Spec() AdjustmentSpec {
	return AdjustmentSpec{
		AdjustmentType:  i.AdjustmentType,
		IncrementType:   i.IncrementType,
		AdjustmentValue: i.AdjustmentValue,
	}
}
