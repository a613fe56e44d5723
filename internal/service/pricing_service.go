package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"foboh/internal/dto"
	"foboh/internal/infra"
	"foboh/internal/model"
	"foboh/internal/pricing"
	"foboh/internal/repository"
	"foboh/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	profileNameMin = 2
	profileNameMax = 120

	// eventPublishTimeout bounds a broker write made after the response is
	// already decided.
	eventPublishTimeout = 5 * time.Second
)

// PricingService previews adjustments, saves them as profiles and answers
// single-product price checks.
type PricingService interface {
	// Preview is side-effect free; the result has one row per request row,
	// in request order.
	Preview(ctx context.Context, req dto.PreviewRequest) ([]dto.PreviewRow, error)
	SaveProfile(ctx context.Context, req dto.SaveProfileRequest) (*dto.ProfileResponse, error)
	CheckPrice(ctx context.Context, productID string, basis pricing.Basis) (*dto.PriceCheckResponse, error)
}

type pricingService struct {
	products   repository.ProductRepository
	profiles   repository.ProfileRepository
	events     infra.EventPublisher
	dispatcher *worker.Dispatcher

	now   func() time.Time
	newID func() uuid.UUID
}

// NewPricingService wires the service. events may be nil (events are then
// dropped) and dispatcher may be nil (no price sheet is generated on save).
func NewPricingService(
	products repository.ProductRepository,
	profiles repository.ProfileRepository,
	events infra.EventPublisher,
	dispatcher *worker.Dispatcher,
) PricingService {
	if events == nil {
		events = infra.NopPublisher{}
	}
	return &pricingService{
		products:   products,
		profiles:   profiles,
		events:     events,
		dispatcher: dispatcher,
		now:        time.Now,
		newID:      uuid.New,
	}
}

func (s *pricingService) Preview(ctx context.Context, req dto.PreviewRequest) ([]dto.PreviewRow, error) {
	fields := fieldErrors{}
	batch := batchSpec(fields, req.AdjustmentType, req.IncrementType)
	lines, err := s.buildLines(ctx, fields, req.Rows, batch, false)
	if err != nil {
		return nil, err
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	resolver, err := s.loadResolver(ctx, pricing.ParseBasis(req.BasisProfileID))
	if err != nil {
		return nil, err
	}

	quotes := resolver.QuoteAll(lines)
	out := make([]dto.PreviewRow, len(quotes))
	for i, q := range quotes {
		out[i] = dto.PreviewRow{ProductID: q.ProductID, BasePrice: q.BasePrice, NewPrice: q.NewPrice}
	}
	return out, nil
}

func (s *pricingService) SaveProfile(ctx context.Context, req dto.SaveProfileRequest) (*dto.ProfileResponse, error) {
	fields := fieldErrors{}
	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n < profileNameMin || n > profileNameMax {
		fields.add("name", fmt.Sprintf("must be %d to %d characters", profileNameMin, profileNameMax))
	}
	batch := batchSpec(fields, req.AdjustmentType, req.IncrementType)
	lines, err := s.buildLines(ctx, fields, req.Rows, batch, true)
	if err != nil {
		return nil, err
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	resolver, err := s.loadResolver(ctx, pricing.ParseBasis(req.BasisProfileID))
	if err != nil {
		return nil, err
	}

	profile := model.PricingProfile{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now().UTC(),
		Items:     pricing.BuildItems(resolver, lines),
	}
	// Rows and items line up one to one once buildLines reported no errors.
	for i, item := range profile.Items {
		if item.Adjustment.GreaterThan(model.MaxPrice) {
			fields.add(fmt.Sprintf("rows[%d].adjustmentValue", i),
				"resulting price exceeds "+model.MaxPrice.StringFixed(2))
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	// Only a basis that actually resolved is recorded; otherwise the prices
	// above were computed from the global wholesale price.
	if basisProfile := resolver.Profile(); basisProfile != nil {
		id := basisProfile.ID
		profile.BasedOnProfileID = &id
	}
	for i := range profile.Items {
		profile.Items[i].ID = s.newID()
		profile.Items[i].ProfileID = profile.ID
	}

	if err := s.profiles.Create(ctx, &profile); err != nil {
		return nil, fmt.Errorf("%w: create profile: %w", ErrPersistence, err)
	}
	log.Info().
		Str("profile_id", profile.ID.String()).
		Str("basis", resolver.Basis().String()).
		Int("items", len(profile.Items)).
		Msg("pricing profile saved")

	s.afterSave(ctx, profile)

	resp := toProfileResponse(profile)
	return &resp, nil
}

// afterSave fires the best-effort side effects of a save. Failures are logged;
// the profile is already committed.
func (s *pricingService) afterSave(ctx context.Context, p model.PricingProfile) {
	ev := infra.ProfileEvent{
		Type:       infra.EventProfileCreated,
		ProfileID:  p.ID.String(),
		Name:       p.Name,
		ItemCount:  len(p.Items),
		OccurredAt: p.CreatedAt,
	}
	if p.BasedOnProfileID != nil {
		b := p.BasedOnProfileID.String()
		ev.BasedOnProfileID = &b
	}
	publishEvent(ctx, s.events, ev)

	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueuePriceSheet(ctx, worker.PriceSheetJobPayload{ProfileID: ev.ProfileID}); err != nil {
		log.Warn().Err(err).Str("profile_id", ev.ProfileID).Msg("failed to enqueue price sheet job")
	}
}

// publishEvent writes ev outside the caller's cancellation: a client that
// disconnects after commit must not drop the event. The write is still bounded
// so a stalled broker cannot hold the request open.
func publishEvent(ctx context.Context, events infra.EventPublisher, ev infra.ProfileEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := events.Publish(pubCtx, ev); err != nil {
		log.Warn().Err(err).Str("profile_id", ev.ProfileID).Msg("failed to publish profile event")
	}
}

func (s *pricingService) CheckPrice(ctx context.Context, productID string, basis pricing.Basis) (*dto.PriceCheckResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load product: %w", ErrPersistence, err)
	}

	resolver, err := s.loadResolver(ctx, basis)
	if err != nil {
		return nil, err
	}
	price, src := resolver.Resolve(*product)
	return &dto.PriceCheckResponse{
		ProductID: product.ID,
		Basis:     basis.String(),
		Price:     price,
		Source:    string(src),
	}, nil
}

// loadResolver fetches at most the one profile the basis names. A reference
// that does not resolve is not an error: every product falls back to its
// global wholesale price.
func (s *pricingService) loadResolver(ctx context.Context, basis pricing.Basis) (*pricing.Resolver, error) {
	if basis.IsGlobal() {
		return pricing.NewResolver(basis, nil), nil
	}
	id, ok := basis.ProfileID()
	if !ok {
		log.Debug().Str("basis", basis.String()).Msg("basis is not a profile id, using global prices")
		return pricing.NewResolver(basis, nil), nil
	}

	p, err := s.profiles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug().Str("basis", basis.String()).Msg("basis profile not found, using global prices")
		return pricing.NewResolver(basis, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load basis profile: %w", ErrPersistence, err)
	}
	return pricing.NewResolver(basis, []model.PricingProfile{*p}), nil
}

func batchSpec(fields fieldErrors, at model.AdjustmentType, it model.IncrementType) model.AdjustmentSpec {
	if !at.Valid() {
		fields.add("adjustmentType", "must be fixed or dynamic")
	}
	if !it.Valid() {
		fields.add("incrementType", "must be increase or decrease")
	}
	return model.AdjustmentSpec{AdjustmentType: at, IncrementType: it}
}

// buildLines checks every row against the catalog and pairs it with its
// effective spec. Problems are recorded in fields; only store failures are
// returned as errors.
func (s *pricingService) buildLines(
	ctx context.Context,
	fields fieldErrors,
	rows []dto.PricingRow,
	batch model.AdjustmentSpec,
	rejectDuplicates bool,
) ([]pricing.Line, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.ProductID != "" {
			ids = append(ids, r.ProductID)
		}
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load products: %w", ErrPersistence, err)
	}
	catalog := make(map[string]model.Product, len(found))
	for _, p := range found {
		catalog[p.ID] = p
	}

	seen := make(map[string]int, len(rows))
	lines := make([]pricing.Line, 0, len(rows))
	for i, r := range rows {
		path := fmt.Sprintf("rows[%d]", i)

		spec := batch
		spec.AdjustmentValue = r.AdjustmentValue
		if r.AdjustmentType != nil {
			if !r.AdjustmentType.Valid() {
				fields.add(path+".adjustmentType", "must be fixed or dynamic")
			}
			spec.AdjustmentType = *r.AdjustmentType
		}
		if r.IncrementType != nil {
			if !r.IncrementType.Valid() {
				fields.add(path+".incrementType", "must be increase or decrease")
			}
			spec.IncrementType = *r.IncrementType
		}
		if r.AdjustmentValue.IsNegative() {
			fields.add(path+".adjustmentValue", "must be zero or greater")
		} else if r.AdjustmentValue.GreaterThan(model.MaxPrice) {
			fields.add(path+".adjustmentValue", "must not exceed "+model.MaxPrice.StringFixed(2))
		}

		if r.ProductID == "" {
			fields.add(path+".productId", "required")
			continue
		}
		product, ok := catalog[r.ProductID]
		if !ok {
			fields.add(path+".productId", "unknown product")
			continue
		}
		if first, dup := seen[r.ProductID]; dup && rejectDuplicates {
			fields.add(path+".productId", fmt.Sprintf("duplicate of rows[%d]", first))
			continue
		}
		if _, dup := seen[r.ProductID]; !dup {
			seen[r.ProductID] = i
		}
		lines = append(lines, pricing.Line{Product: product, Spec: spec})
	}
	return lines, nil
}
