package pricing

import (
	"foboh/internal/model"

	"github.com/shopspring/decimal"
)

// Source tells where a base price came from.
type Source string

const (
	SourceGlobal  Source = "global"
	SourceProfile Source = "profile"
)

// Resolver answers base-price lookups for one basis. The basis profile is
// located once at construction and its items indexed by product id, so each
// lookup is independent of the others and of call order.
type Resolver struct {
	basis   Basis
	profile *model.PricingProfile
	frozen  map[string]decimal.Decimal
}

// NewResolver picks the basis profile out of profiles. A reference that does
// not match any profile degrades to the global wholesale price.
func NewResolver(basis Basis, profiles []model.PricingProfile) *Resolver {
	r := &Resolver{basis: basis}
	id, ok := basis.ProfileID()
	if !ok {
		return r
	}
	for i := range profiles {
		if profiles[i].ID != id {
			continue
		}
		r.profile = &profiles[i]
		r.frozen = make(map[string]decimal.Decimal, len(profiles[i].Items))
		for _, it := range profiles[i].Items {
			r.frozen[it.ProductID] = it.Adjustment
		}
		break
	}
	return r
}

func (r *Resolver) Basis() Basis { return r.basis }

// Profile returns the resolved basis profile, or nil when the basis is global
// or the reference did not resolve.
func (r *Resolver) Profile() *model.PricingProfile { return r.profile }

// Resolve returns the product's base price and where it came from. The
// profile's stored price is used as-is; it is never recomputed from the
// profile's own basis.
func (r *Resolver) Resolve(p model.Product) (decimal.Decimal, Source) {
	if price, ok := r.frozen[p.ID]; ok {
		return price, SourceProfile
	}
	return p.GlobalWholesalePrice, SourceGlobal
}

func (r *Resolver) Source(p model.Product) Source {
	_, src := r.Resolve(p)
	return src
}

func (r *Resolver) BasePrice(p model.Product) decimal.Decimal {
	price, _ := r.Resolve(p)
	return price
}

// ResolveBasePrice is the one-shot form of NewResolver(...).BasePrice(product).
func ResolveBasePrice(product model.Product, basis Basis, profiles []model.PricingProfile) decimal.Decimal {
	return NewResolver(basis, profiles).BasePrice(product)
}

// Quote is a single priced row.
type Quote struct {
	ProductID string
	BasePrice decimal.Decimal
	NewPrice  decimal.Decimal
	Source    Source
}

// Line pairs a product with the adjustment requested for it.
type Line struct {
	Product model.Product
	Spec    model.AdjustmentSpec
}

// Quote prices one line against the resolver's basis.
func (r *Resolver) Quote(l Line) Quote {
	base, src := r.Resolve(l.Product)
	return Quote{
		ProductID: l.Product.ID,
		BasePrice: base,
		NewPrice:  ComputePrice(base, l.Spec),
		Source:    src,
	}
}

// QuoteAll prices lines in order; the result has one entry per line.
func (r *Resolver) QuoteAll(lines []Line) []Quote {
	out := make([]Quote, len(lines))
	for i, l := range lines {
		out[i] = r.Quote(l)
	}
	return out
}

// BuildItems freezes each line's computed price together with the parameters
// that produced it. Ids and the owning profile id are left for the caller.
func BuildItems(r *Resolver, lines []Line) []model.PriceItem {
	items := make([]model.PriceItem, 0, len(lines))
	for _, l := range lines {
		q := r.Quote(l)
		items = append(items, model.PriceItem{
			ProductID:       l.Product.ID,
			AdjustmentType:  l.Spec.AdjustmentType,
			IncrementType:   l.Spec.IncrementType,
			AdjustmentValue: l.Spec.AdjustmentValue,
			Adjustment:      q.NewPrice,
		})
	}
	return items
}
