package service

import (
	"context"
	"errors"
	"fmt"

	"foboh/internal/dto"
	"foboh/internal/infra"
	"foboh/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileService reads and deletes saved pricing profiles. Profiles are
// created through PricingService.SaveProfile and never updated.
type ProfileService interface {
	List(ctx context.Context) ([]dto.ProfileResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListProductPrices(ctx context.Context, productID string, page, limit int) (*dto.ProfilePriceListResponse, error)
	// PriceSheet renders the profile as a PDF and returns it with a file name.
	PriceSheet(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	products repository.ProductRepository
	events   infra.EventPublisher
}

func NewProfileService(
	profiles repository.ProfileRepository,
	products repository.ProductRepository,
	events infra.EventPublisher,
) ProfileService {
	if events == nil {
		events = infra.NopPublisher{}
	}
	return &profileService{profiles: profiles, products: products, events: events}
}

func (s *profileService) List(ctx context.Context) ([]dto.ProfileResponse, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list profiles: %w", ErrPersistence, err)
	}
	resp := make([]dto.ProfileResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = toProfileResponse(p)
	}
	return resp, nil
}

func (s *profileService) Get(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %w", ErrPersistence, err)
	}
	resp := toProfileResponse(*p)
	return &resp, nil
}

// Delete removes the profile and its items. Profiles saved on top of it keep
// their own frozen prices.
func (s *profileService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.profiles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete profile: %w", ErrPersistence, err)
	}
	if !deleted {
		return ErrProfileNotFound
	}
	log.Info().Str("profile_id", id.String()).Msg("pricing profile deleted")

	ev := infra.ProfileEvent{Type: infra.EventProfileDeleted, ProfileID: id.String(), OccurredAt: nowUTC()}
	publishEvent(ctx, s.events, ev)
	return nil
}

func (s *profileService) ListProductPrices(ctx context.Context, productID string, page, limit int) (*dto.ProfilePriceListResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: load product: %w", ErrPersistence, err)
	}

	page, limit = repository.NormalizePage(page, limit)
	items, total, err := s.profiles.ListItemsByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list profile prices: %w", ErrPersistence, err)
	}
	data := make([]dto.ProfilePriceEntry, len(items))
	for i, it := range items {
		data[i] = toProfilePriceEntry(it)
	}
	return &dto.ProfilePriceListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *profileService) PriceSheet(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrProfileNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: load profile: %w", ErrPersistence, err)
	}

	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ProductID
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load products: %w", ErrPersistence, err)
	}

	pdf, err := infra.RenderPriceSheet(infra.NewPriceSheet(*p, products))
	if err != nil {
		return nil, "", err
	}
	return pdf, infra.PriceSheetFileName(p.ID.String()), nil
}
