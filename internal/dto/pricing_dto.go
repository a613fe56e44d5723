package dto

import (
	"foboh/internal/model"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PricingRow is one product in a preview or save batch. Type and direction
// default to the batch values when omitted.
type PricingRow struct {
	ProductID       string                `json:"productId"       validate:"required"`
	AdjustmentValue decimal.Decimal       `json:"adjustmentValue" validate:"min=0"`
	AdjustmentType  *model.AdjustmentType `json:"adjustmentType,omitempty" validate:"omitempty,oneof=fixed dynamic"`
	IncrementType   *model.IncrementType  `json:"incrementType,omitempty"  validate:"omitempty,oneof=increase decrease"`
}

// PreviewRequest: basisProfileId null, "" or "global" selects the global
// wholesale price.
type PreviewRequest struct {
	BasisProfileID *string              `json:"basisProfileId"`
	AdjustmentType model.AdjustmentType `json:"adjustmentType" validate:"required,oneof=fixed dynamic"`
	IncrementType  model.IncrementType  `json:"incrementType"  validate:"required,oneof=increase decrease"`
	Rows           []PricingRow         `json:"rows"           validate:"dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PreviewRow struct {
	ProductID string          `json:"productId"`
	BasePrice decimal.Decimal `json:"basePrice"`
	NewPrice  decimal.Decimal `json:"newPrice"`
}

// PriceCheckResponse is returned by GET /v1/pricing/check/:productId.
type PriceCheckResponse struct {
	ProductID string          `json:"productId"`
	Basis     string          `json:"basis"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"` // global | profile
}
