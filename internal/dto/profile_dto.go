package dto

import (
	"foboh/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaveProfileRequest struct {
	Name           string               `json:"name"           validate:"required,min=2,max=120"`
	BasisProfileID *string              `json:"basisProfileId"`
	AdjustmentType model.AdjustmentType `json:"adjustmentType" validate:"required,oneof=fixed dynamic"`
	IncrementType  model.IncrementType  `json:"incrementType"  validate:"required,oneof=increase decrease"`
	Rows           []PricingRow         `json:"rows"           validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceItemResponse struct {
	ProductID       string               `json:"productId"`
	AdjustmentType  model.AdjustmentType `json:"adjustmentType"`
	IncrementType   model.IncrementType  `json:"incrementType"`
	AdjustmentValue decimal.Decimal      `json:"adjustmentValue"`
	Adjustment      decimal.Decimal      `json:"adjustment"` // resolved price frozen at save time
}

type ProfileResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	BasedOnProfileID *string             `json:"basedOnProfileId"`
	Items            []PriceItemResponse `json:"items"`
	CreatedAt        string              `json:"createdAt"`
}

// ProfilePriceEntry is one row of a product's price history across profiles.
type ProfilePriceEntry struct {
	ProfileID       string               `json:"profileId"`
	ProfileName     string               `json:"profileName"`
	AdjustmentType  model.AdjustmentType `json:"adjustmentType"`
	IncrementType   model.IncrementType  `json:"incrementType"`
	AdjustmentValue decimal.Decimal      `json:"adjustmentValue"`
	Adjustment      decimal.Decimal      `json:"adjustment"`
	CreatedAt       string               `json:"createdAt"`
}

// ProfilePriceListResponse is returned by GET /v1/products/:id/profile-prices.
type ProfilePriceListResponse struct {
	Data  []ProfilePriceEntry `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
