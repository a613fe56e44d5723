package service

import (
	"time"

	"foboh/internal/dto"
	"foboh/internal/model"
)

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func nowUTC() time.Time { return time.Now().UTC() }

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                   p.ID,
		Title:                p.Title,
		SKUCode:              p.SKUCode,
		Brand:                p.Brand,
		CategoryID:           p.CategoryID,
		SubCategoryID:        p.SubCategoryID,
		SegmentID:            p.SegmentID,
		GlobalWholesalePrice: p.GlobalWholesalePrice,
		ImageURL:             p.ImageURL,
	}
}

func toProfileResponse(p model.PricingProfile) dto.ProfileResponse {
	var basedOn *string
	if p.BasedOnProfileID != nil {
		s := p.BasedOnProfileID.String()
		basedOn = &s
	}
	items := make([]dto.PriceItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = dto.PriceItemResponse{
			ProductID:       it.ProductID,
			AdjustmentType:  it.AdjustmentType,
			IncrementType:   it.IncrementType,
			AdjustmentValue: it.AdjustmentValue,
			Adjustment:      it.Adjustment,
		}
	}
	return dto.ProfileResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		BasedOnProfileID: basedOn,
		Items:            items,
		CreatedAt:        formatTime(p.CreatedAt),
	}
}

func toProfilePriceEntry(it model.PriceItem) dto.ProfilePriceEntry {
	e := dto.ProfilePriceEntry{
		ProfileID:       it.ProfileID.String(),
		AdjustmentType:  it.AdjustmentType,
		IncrementType:   it.IncrementType,
		AdjustmentValue: it.AdjustmentValue,
		Adjustment:      it.Adjustment,
	}
	if it.Profile != nil {
		e.ProfileName = it.Profile.Name
		e.CreatedAt = formatTime(it.Profile.CreatedAt)
	}
	return e
}
