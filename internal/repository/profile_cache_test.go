package repository

import (
	"context"
	"testing"
	"time"

	"foboh/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProfileRepo counts FindByID calls reaching the inner store.
type countingProfileRepo struct {
	ProfileRepository
	finds int
}

func (r *countingProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PricingProfile, error) {
	r.finds++
	return r.ProfileRepository.FindByID(ctx, id)
}

// racingProfileRepo runs onFind after the inner read returns, before the
// cache fill, so a concurrent Delete can be slotted in between.
type racingProfileRepo struct {
	ProfileRepository
	onFind func()
}

func (r *racingProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PricingProfile, error) {
	p, err := r.ProfileRepository.FindByID(ctx, id)
	if r.onFind != nil {
		hook := r.onFind
		r.onFind = nil
		hook()
	}
	return p, err
}

func newCacheFixture(t *testing.T) (*countingProfileRepo, ProfileRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &countingProfileRepo{ProfileRepository: NewMemoryProfileRepository()}
	return inner, NewCachedProfileRepository(inner, rdb, time.Hour), mr
}

func TestCachedProfiles_ReadThrough(t *testing.T) {
	inner, repo, mr := newCacheFixture(t)
	ctx := context.Background()

	p := newProfile("Cached", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), item("1", "42.50"))
	require.NoError(t, repo.Create(ctx, p))

	first, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.finds)
	assert.True(t, mr.Exists("profile:"+p.ID.String()))
	assert.Equal(t, first.Name, second.Name)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "42.5", second.Items[0].Adjustment.String())
}

func TestCachedProfiles_DeleteInvalidates(t *testing.T) {
	_, repo, mr := newCacheFixture(t)
	ctx := context.Background()

	p := newProfile("Gone", time.Now().UTC(), item("1", "1"))
	require.NoError(t, repo.Create(ctx, p))
	_, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists("profile:"+p.ID.String()))

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedProfiles_RedisDownFallsThrough(t *testing.T) {
	inner, repo, mr := newCacheFixture(t)
	ctx := context.Background()

	p := newProfile("Resilient", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, p))
	mr.Close()

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resilient", got.Name)
	assert.Equal(t, 1, inner.finds)
}

func TestCachedProfiles_NotFoundIsNotCached(t *testing.T) {
	_, repo, mr := newCacheFixture(t)
	id := uuid.New()

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("profile:"+id.String()))
}

func TestCachedProfiles_StaleFillAfterDeleteIsRefused(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()

	inner := &racingProfileRepo{ProfileRepository: NewMemoryProfileRepository()}
	repo := NewCachedProfileRepository(inner, rdb, time.Hour)

	p := newProfile("Racing", time.Now().UTC(), item("1", "1"))
	require.NoError(t, repo.Create(ctx, p))

	inner.onFind = func() {
		ok, err := repo.Delete(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// The reader loaded the row before the Delete landed.
	stale, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Racing", stale.Name)

	assert.False(t, mr.Exists("profile:"+p.ID.String()))
	assert.True(t, mr.Exists("profile:deleted:"+p.ID.String()))

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedProfiles_DeleteMissingLeavesNoTombstone(t *testing.T) {
	_, repo, mr := newCacheFixture(t)
	id := uuid.New()

	ok, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("profile:deleted:"+id.String()))
}
