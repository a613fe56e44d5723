package pricing

import (
	"testing"

	"foboh/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func spec(t model.AdjustmentType, inc model.IncrementType, v string) model.AdjustmentSpec {
	return model.AdjustmentSpec{AdjustmentType: t, IncrementType: inc, AdjustmentValue: d(v)}
}

func TestComputePrice(t *testing.T) {
	cases := []struct {
		name string
		base string
		spec model.AdjustmentSpec
		want string
	}{
		{"fixed increase", "100", spec(model.AdjustmentFixed, model.IncrementIncrease, "20"), "120.00"},
		{"fixed decrease", "100", spec(model.AdjustmentFixed, model.IncrementDecrease, "20"), "80.00"},
		{"dynamic increase", "100", spec(model.AdjustmentDynamic, model.IncrementIncrease, "25"), "125.00"},
		{"dynamic decrease", "100", spec(model.AdjustmentDynamic, model.IncrementDecrease, "25"), "75.00"},
		{"dynamic rounds half up", "279.06", spec(model.AdjustmentDynamic, model.IncrementIncrease, "10"), "306.97"},
		{"exact half cent rounds up", "0.10", spec(model.AdjustmentDynamic, model.IncrementIncrease, "5"), "0.11"},
		{"fixed decrease clamps at zero", "10", spec(model.AdjustmentFixed, model.IncrementDecrease, "25"), "0.00"},
		{"dynamic decrease over 100 percent clamps", "50", spec(model.AdjustmentDynamic, model.IncrementDecrease, "150"), "0.00"},
		{"zero magnitude leaves base", "85.5", spec(model.AdjustmentFixed, model.IncrementIncrease, "0"), "85.50"},
		{"negative magnitude leaves base", "85.5", spec(model.AdjustmentDynamic, model.IncrementDecrease, "-10"), "85.50"},
		{"zero base is untouched", "0", spec(model.AdjustmentFixed, model.IncrementIncrease, "10"), "0.00"},
		{"negative base clamps to zero", "-4", spec(model.AdjustmentFixed, model.IncrementIncrease, "10"), "0.00"},
		{"base with more than two decimals is rounded", "12.345", spec(model.AdjustmentFixed, model.IncrementIncrease, "0"), "12.35"},
		{"fixed with fractional magnitude", "19.99", spec(model.AdjustmentFixed, model.IncrementIncrease, "0.015"), "20.01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputePrice(d(tc.base), tc.spec)
			assert.True(t, d(tc.want).Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestComputePrice_NonPositiveMagnitudeIsIdentity(t *testing.T) {
	bases := []string{"0", "0.01", "1", "85.5", "279.06", "1000000.99"}
	magnitudes := []string{"0", "-0.01", "-1", "-100"}
	types := []model.AdjustmentType{model.AdjustmentFixed, model.AdjustmentDynamic}
	incs := []model.IncrementType{model.IncrementIncrease, model.IncrementDecrease}

	for _, b := range bases {
		for _, m := range magnitudes {
			for _, at := range types {
				for _, it := range incs {
					got := ComputePrice(d(b), spec(at, it, m))
					assert.True(t, d(b).Round(2).Equal(got), "base=%s mag=%s %s/%s got %s", b, m, at, it, got)
				}
			}
		}
	}
}

func TestComputePrice_NeverNegativeAndAtMostTwoDecimals(t *testing.T) {
	bases := []string{"0", "0.01", "3.333", "99.995", "279.06", "1234.5678"}
	magnitudes := []string{"0.001", "1", "7.5", "33.333", "99.99", "100", "250"}
	types := []model.AdjustmentType{model.AdjustmentFixed, model.AdjustmentDynamic}
	incs := []model.IncrementType{model.IncrementIncrease, model.IncrementDecrease}

	for _, b := range bases {
		for _, m := range magnitudes {
			for _, at := range types {
				for _, it := range incs {
					got := ComputePrice(d(b), spec(at, it, m))
					assert.False(t, got.IsNegative(), "negative result for %s %s %s/%s", b, m, at, it)
					assert.LessOrEqual(t, -got.Exponent(), int32(2), "more than 2 decimals: %s", got)
				}
			}
		}
	}
}

func TestComputePrice_IsDeterministic(t *testing.T) {
	s := spec(model.AdjustmentDynamic, model.IncrementIncrease, "12.5")
	first := ComputePrice(d("48.88"), s)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(ComputePrice(d("48.88"), s)))
	}
}
