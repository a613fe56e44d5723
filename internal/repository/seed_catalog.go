package repository

import (
	"foboh/internal/model"

	"github.com/shopspring/decimal"
)

// SeedProducts is the starter wine catalog loaded by the memory store and
// by cmd/seedcatalog.
func SeedProducts() []model.Product {
	return []model.Product{
		{
			ID:                   "1",
			Title:                "HighGarden Pinot Noir 2021",
			SKUCode:              "HGVPIN216",
			Brand:                "High Garden",
			CategoryID:           "Alcoholic Beverage",
			SubCategoryID:        "Wine",
			SegmentID:            "Red",
			GlobalWholesalePrice: decimal.RequireFromString("279.06"),
		},
		{
			ID:                   "2",
			Title:                "Koyama Methode",
			SKUCode:              "KOYBRUNV6",
			Brand:                "Koyama Wines",
			CategoryID:           "Alcoholic Beverage",
			SubCategoryID:        "Wine",
			SegmentID:            "Sparkling",
			GlobalWholesalePrice: decimal.RequireFromString("120"),
		},
		{
			ID:                   "3",
			Title:                "Lacourte-Godbillon",
			SKUCode:              "LACGOD123",
			Brand:                "Lacourte-Godbillon",
			CategoryID:           "Alcoholic Beverage",
			SubCategoryID:        "Wine",
			SegmentID:            "Rose",
			GlobalWholesalePrice: decimal.RequireFromString("85.5"),
		},
	}
}
