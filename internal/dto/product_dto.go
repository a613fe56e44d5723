package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

// ProductFilter mirrors the catalog search: Q matches title or SKU
// (case-insensitive substring), the rest are exact matches.
type ProductFilter struct {
	Q           string `form:"q"`
	Category    string `form:"category"`
	SubCategory string `form:"subCategory"`
	Segment     string `form:"segment"`
	Brand       string `form:"brand"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	SKUCode              string          `json:"skuCode"`
	Brand                string          `json:"brand"`
	CategoryID           string          `json:"categoryId"`
	SubCategoryID        string          `json:"subCategoryId"`
	SegmentID            string          `json:"segmentId"`
	GlobalWholesalePrice decimal.Decimal `json:"globalWholesalePrice"`
	ImageURL             *string         `json:"imageUrl,omitempty"`
}

// CatalogFacets lists the distinct filter values present in the catalog.
type CatalogFacets struct {
	Categories    []string `json:"categories"`
	SubCategories []string `json:"subCategories"`
	Segments      []string `json:"segments"`
	Brands        []string `json:"brands"`
}
