package repository

import (
	"context"
	"errors"
	"strings"

	"foboh/internal/dto"
	"foboh/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by every repository implementation when a lookup
// by key finds nothing.
var ErrNotFound = errors.New("record not found")

// ProductRepository is the catalog collaborator. Services depend on this
// interface; the GORM and in-memory implementations are interchangeable.
type ProductRepository interface {
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// FindByIDs returns the products that exist; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	Facets(ctx context.Context) (dto.CatalogFacets, error)
	Upsert(ctx context.Context, products []model.Product) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if s := strings.TrimSpace(filter.Q); s != "" {
		like := "%" + s + "%"
		q = q.Where("title ILIKE ? OR sku_code ILIKE ?", like, like)
	}
	if filter.Category != "" {
		q = q.Where("category_id = ?", filter.Category)
	}
	if filter.SubCategory != "" {
		q = q.Where("sub_category_id = ?", filter.SubCategory)
	}
	if filter.Segment != "" {
		q = q.Where("segment_id = ?", filter.Segment)
	}
	if filter.Brand != "" {
		q = q.Where("brand = ?", filter.Brand)
	}

	var products []model.Product
	err := q.Order("title ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) Facets(ctx context.Context) (dto.CatalogFacets, error) {
	var f dto.CatalogFacets
	cols := []struct {
		column string
		dest   *[]string
	}{
		{"category_id", &f.Categories},
		{"sub_category_id", &f.SubCategories},
		{"segment_id", &f.Segments},
		{"brand", &f.Brands},
	}
	for _, c := range cols {
		err := r.db.WithContext(ctx).Model(&model.Product{}).
			Distinct(c.column).
			Where(c.column+" <> ''").
			Order(c.column + " ASC").
			Pluck(c.column, c.dest).Error
		if err != nil {
			return dto.CatalogFacets{}, err
		}
	}
	return f, nil
}

// Upsert inserts products or overwrites them by id (used by the catalog seed).
func (r *productRepo) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&products).Error
}
