package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
)

const cacheKeyPrefix = "datafaker:geocode:"

// Cached memoises successful lookups of the wrapped geocoder in Redis. Failures are
// never cached, and Redis errors degrade to a direct lookup.
type Cached struct {
	next   Geocoder
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with a Redis-backed cache. A zero ttl keeps entries forever.
func NewCached(next Geocoder, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *Cached) Resolve(ctx context.Context, address string) (domain.Location, error) {
	key := cacheKey(address)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc domain.Location
		if err := json.Unmarshal(raw, &loc); err == nil {
			return loc, nil
		}
		c.logger.Warn("discarding corrupt geocode cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("geocode cache read failed", zap.Error(err))
	}

	loc, err := c.next.Resolve(ctx, address)
	if err != nil {
		return domain.Location{}, err
	}

	payload, err := json.Marshal(loc)
	if err != nil {
		return loc, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("geocode cache write failed", zap.Error(err))
	}
	return loc, nil
}

func cacheKey(address string) string {
	sum := sha256.Sum256([]byte(normalizeAddress(address)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
