package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"foboh/internal/dto"
	"foboh/internal/model"

	"github.com/google/uuid"
)

// ─── Products ────────────────────────────────────────────────────────────────

type memoryProductRepo struct {
	mu       sync.RWMutex
	products map[string]model.Product
}

// NewMemoryProductRepository returns a catalog held in process memory,
// pre-loaded with seed. Used when STORE_DRIVER=memory and in tests.
func NewMemoryProductRepository(seed []model.Product) ProductRepository {
	r := &memoryProductRepo{products: make(map[string]model.Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *memoryProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Q))
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.SKUCode), q) {
			continue
		}
		if filter.Category != "" && p.CategoryID != filter.Category {
			continue
		}
		if filter.SubCategory != "" && p.SubCategoryID != filter.SubCategory {
			continue
		}
		if filter.Segment != "" && p.SegmentID != filter.Segment {
			continue
		}
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memoryProductRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryProductRepo) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) Facets(_ context.Context) (dto.CatalogFacets, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cats, subs, segs, brands := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	for _, p := range r.products {
		cats[p.CategoryID] = struct{}{}
		subs[p.SubCategoryID] = struct{}{}
		segs[p.SegmentID] = struct{}{}
		brands[p.Brand] = struct{}{}
	}
	return dto.CatalogFacets{
		Categories:    sortedKeys(cats),
		SubCategories: sortedKeys(subs),
		Segments:      sortedKeys(segs),
		Brands:        sortedKeys(brands),
	}, nil
}

func (r *memoryProductRepo) Upsert(_ context.Context, products []model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = p
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ─── Profiles ────────────────────────────────────────────────────────────────

type memoryProfileRepo struct {
	mu       sync.RWMutex
	profiles []model.PricingProfile // insertion order
}

// NewMemoryProfileRepository returns an empty profile store. Every read hands
// out copies, so callers can never mutate stored items.
func NewMemoryProfileRepository() ProfileRepository {
	return &memoryProfileRepo{}
}

func cloneProfile(p model.PricingProfile) model.PricingProfile {
	c := p
	if p.BasedOnProfileID != nil {
		id := *p.BasedOnProfileID
		c.BasedOnProfileID = &id
	}
	c.Items = make([]model.PriceItem, len(p.Items))
	copy(c.Items, p.Items)
	for i := range c.Items {
		c.Items[i].Profile = nil
	}
	return c
}

func (r *memoryProfileRepo) List(_ context.Context) ([]model.PricingProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.PricingProfile, 0, len(r.profiles))
	for i := len(r.profiles) - 1; i >= 0; i-- {
		out = append(out, cloneProfile(r.profiles[i]))
	}
	return out, nil
}

func (r *memoryProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PricingProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.ID == id {
			c := cloneProfile(p)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryProfileRepo) Create(_ context.Context, p *model.PricingProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range p.Items {
		p.Items[i].ProfileID = p.ID
	}
	r.profiles = append(r.profiles, cloneProfile(*p))
	return nil
}

func (r *memoryProfileRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.profiles {
		if p.ID == id {
			r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryProfileRepo) ListItemsByProduct(_ context.Context, productID string, page, limit int) ([]model.PriceItem, int64, error) {
	page, limit = NormalizePage(page, limit)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []model.PriceItem
	for i := len(r.profiles) - 1; i >= 0; i-- {
		p := r.profiles[i]
		for _, it := range p.Items {
			if it.ProductID != productID {
				continue
			}
			owner := cloneProfile(p)
			owner.Items = nil
			it.Profile = &owner
			all = append(all, it)
		}
	}

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.PriceItem{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
