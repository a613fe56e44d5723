package infra

import (
	"fmt"

	"foboh/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and brings the schema up
// to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table, then applies the constraints
// AutoMigrate cannot express. Safe to run repeatedly; integration tests call
// it directly.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.PricingProfile{},
		&model.PriceItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL guarded by existence checks.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"products non-negative wholesale price", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_price_nonneg') THEN
    ALTER TABLE products
      ADD CONSTRAINT chk_products_price_nonneg CHECK (global_wholesale_price >= 0);
  END IF;
END $$`},
		{"price_items unscaled adjustment_value", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.columns
             WHERE table_name = 'price_items' AND column_name = 'adjustment_value'
               AND numeric_scale IS NOT NULL) THEN
    ALTER TABLE price_items ALTER COLUMN adjustment_value TYPE numeric;
  END IF;
END $$`},
		{"price_items non-negative values", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_price_items_nonneg') THEN
    ALTER TABLE price_items
      ADD CONSTRAINT chk_price_items_nonneg CHECK (adjustment >= 0 AND adjustment_value >= 0);
  END IF;
END $$`},
		{"price_items enum values", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_price_items_enums') THEN
    ALTER TABLE price_items
      ADD CONSTRAINT chk_price_items_enums CHECK (
        adjustment_type IN ('fixed', 'dynamic') AND increment_type IN ('increase', 'decrease'));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
