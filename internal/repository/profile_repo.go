package repository

import (
	"context"
	"errors"

	"foboh/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository is the pricing profile store. Profiles are append-only:
// there is Create and Delete, never Update.
type ProfileRepository interface {
	// List returns every profile, newest first, with items loaded.
	List(ctx context.Context) ([]model.PricingProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PricingProfile, error)
	// Create persists the profile and all of its items, or nothing.
	Create(ctx context.Context, p *model.PricingProfile) error
	// Delete reports false when no profile had that id.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// ListItemsByProduct pages through a product's frozen prices across
	// profiles, newest profile first, with Profile populated on each item.
	ListItemsByProduct(ctx context.Context, productID string, page, limit int) ([]model.PriceItem, int64, error)
}

type profileRepo struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &profileRepo{db: db} }

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("product_id ASC") }

func (r *profileRepo) List(ctx context.Context) ([]model.PricingProfile, error) {
	var profiles []model.PricingProfile
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at DESC").
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PricingProfile, error) {
	var p model.PricingProfile
	err := r.db.WithContext(ctx).Preload("Items", orderedItems).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, p *model.PricingProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(p).Error; err != nil {
			return err
		}
		if len(p.Items) == 0 {
			return nil
		}
		for i := range p.Items {
			p.Items[i].ProfileID = p.ID
		}
		return tx.Create(&p.Items).Error
	})
}

func (r *profileRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&model.PriceItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.PricingProfile{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *profileRepo) ListItemsByProduct(ctx context.Context, productID string, page, limit int) ([]model.PriceItem, int64, error) {
	page, limit = NormalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.PriceItem{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.PriceItem
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Joins("Profile").
		Where("price_items.product_id = ?", productID).
		Order(`"Profile"."created_at" DESC`).
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// NormalizePage clamps paging input to page >= 1 and 1 <= limit <= 200,
// defaulting limit to 50.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
