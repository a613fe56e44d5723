package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"foboh/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	profileCachePrefix     = "profile:"
	profileTombstonePrefix = "profile:deleted:"
)

// setUnlessDeleted fills the cache only while no tombstone exists for the
// profile. A read that loaded the row just before a concurrent Delete would
// otherwise write the stale profile back after the invalidation.
var setUnlessDeleted = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
  redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// cachedProfileRepo is a read-through cache over another ProfileRepository.
// Profiles never change after Create, so entries only need dropping on Delete.
// Delete leaves a tombstone for one ttl so in-flight reads cannot revive the
// entry.
// Redis failures are logged and fall through to the inner store.
type cachedProfileRepo struct {
	ProfileRepository
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedProfileRepository(inner ProfileRepository, rdb *redis.Client, ttl time.Duration) ProfileRepository {
	return &cachedProfileRepo{ProfileRepository: inner, rdb: rdb, ttl: ttl}
}

func profileCacheKey(id uuid.UUID) string { return profileCachePrefix + id.String() }

func profileTombstoneKey(id uuid.UUID) string { return profileTombstonePrefix + id.String() }

func (r *cachedProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PricingProfile, error) {
	key := profileCacheKey(id)

	if cached, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var p model.PricingProfile
		if jsonErr := json.Unmarshal(cached, &p); jsonErr == nil {
			return &p, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("profile cache: get failed")
	}

	p, err := r.ProfileRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b, jsonErr := json.Marshal(p); jsonErr == nil {
		keys := []string{key, profileTombstoneKey(id)}
		if err := setUnlessDeleted.Run(context.WithoutCancel(ctx), r.rdb, keys, b, r.ttl.Milliseconds()).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("profile cache: set failed")
		}
	}
	return p, nil
}

func (r *cachedProfileRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := r.ProfileRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}
	// Tombstone first: a fill racing with this Delete either lands before the
	// Del below or is refused by the script.
	bg := context.WithoutCancel(ctx)
	pipe := r.rdb.TxPipeline()
	pipe.Set(bg, profileTombstoneKey(id), 1, r.tombstoneTTL())
	pipe.Del(bg, profileCacheKey(id))
	if _, err := pipe.Exec(bg); err != nil {
		log.Warn().Err(err).Str("profile_id", id.String()).Msg("profile cache: invalidate failed")
	}
	return true, nil
}

func (r *cachedProfileRepo) tombstoneTTL() time.Duration {
	if r.ttl > 0 {
		return r.ttl
	}
	return time.Hour
}
