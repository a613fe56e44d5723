package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"foboh/internal/dto"
	"foboh/internal/infra"
	"foboh/internal/model"
	"foboh/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

var errStoreDown = errors.New("connection refused")

// failingProfileRepo fails every call; used for persistence-error paths.
type failingProfileRepo struct{}

var _ repository.ProfileRepository = failingProfileRepo{}

func (failingProfileRepo) List(context.Context) ([]model.PricingProfile, error) {
	return nil, errStoreDown
}
func (failingProfileRepo) FindByID(context.Context, uuid.UUID) (*model.PricingProfile, error) {
	return nil, errStoreDown
}
func (failingProfileRepo) Create(context.Context, *model.PricingProfile) error { return errStoreDown }
func (failingProfileRepo) Delete(context.Context, uuid.UUID) (bool, error)     { return false, errStoreDown }
func (failingProfileRepo) ListItemsByProduct(context.Context, string, int, int) ([]model.PriceItem, int64, error) {
	return nil, 0, errStoreDown
}

// createFailsProfileRepo reads from an inner store but refuses writes.
type createFailsProfileRepo struct {
	repository.ProfileRepository
}

func (createFailsProfileRepo) Create(context.Context, *model.PricingProfile) error { return errStoreDown }

type recordingPublisher struct {
	mu     sync.Mutex
	events []infra.ProfileEvent
	err    error

	// ctxErrs and deadlines capture the context each Publish ran under.
	ctxErrs   []error
	deadlines []bool
}

// cancelAfterCreate cancels the request context once the inner store has
// committed, as a client disconnecting right after the write would.
type cancelAfterCreate struct {
	repository.ProfileRepository
	cancel context.CancelFunc
}

func (r cancelAfterCreate) Create(ctx context.Context, p *model.PricingProfile) error {
	err := r.ProfileRepository.Create(ctx, p)
	r.cancel()
	return err
}

var _ infra.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(ctx context.Context, ev infra.ProfileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	_, hasDeadline := ctx.Deadline()
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	p.deadlines = append(p.deadlines, hasDeadline)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// ── Fixtures ──────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strptr(s string) *string { return &s }

func row(productID, value string) dto.PricingRow {
	return dto.PricingRow{ProductID: productID, AdjustmentValue: d(value)}
}

type fixture struct {
	products repository.ProductRepository
	profiles repository.ProfileRepository
	events   *recordingPublisher
	pricing  *pricingService
	profile  ProfileService
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		products: repository.NewMemoryProductRepository(repository.SeedProducts()),
		profiles: repository.NewMemoryProfileRepository(),
		events:   &recordingPublisher{},
	}
	f.pricing = NewPricingService(f.products, f.profiles, f.events, nil).(*pricingService)
	f.pricing.now = func() time.Time { return fixedNow }
	f.profile = NewProfileService(f.profiles, f.products, f.events)
	return f
}

func (f *fixture) save(t *testing.T, req dto.SaveProfileRequest) *dto.ProfileResponse {
	t.Helper()
	resp, err := f.pricing.SaveProfile(context.Background(), req)
	if err != nil {
		t.Fatalf("save %q: %v", req.Name, err)
	}
	return resp
}
