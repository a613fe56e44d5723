// Package pricing holds the adjustment calculator and the profile resolver.
// Everything here is pure: callers load products and profiles and hand them in.
package pricing

import (
	"foboh/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputePrice applies spec to base and returns the final price,
// clamped at zero and rounded half-up to cents.
//
// A non-positive base or magnitude leaves the base unchanged (still rounded).
// Any type other than fixed is read as a percentage and any direction other
// than increase subtracts; request validation rejects such values earlier.
func ComputePrice(base decimal.Decimal, spec model.AdjustmentSpec) decimal.Decimal {
	if !base.IsPositive() || !spec.AdjustmentValue.IsPositive() {
		return roundAndClamp(base)
	}

	delta := spec.AdjustmentValue
	if spec.AdjustmentType != model.AdjustmentFixed {
		delta = base.Mul(spec.AdjustmentValue).Div(hundred)
	}

	price := base.Sub(delta)
	if spec.IncrementType == model.IncrementIncrease {
		price = base.Add(delta)
	}
	return roundAndClamp(price)
}

// roundAndClamp floors v at zero, then rounds to 2 places. Once clamped the
// value is non-negative, so decimal's half-away-from-zero is half-up.
func roundAndClamp(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return v.Round(2)
}
