package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/recurrence-api/schema"
)

const (
	cacheLogPrefix = "watermark-cache"

	DefaultWatermarkCacheTTL = time.Minute
)

type cachedWatermark struct {
	Watermark *schema.ResetWatermark `json:"watermark"`
}

// CachedWatermarkStore is a read-through redis cache in front of another
// watermark store. Reads may be stale for at most the cache ttl. A write
// goes to the backing store first and then drops the cached entry.
type CachedWatermarkStore struct {
	client *redis.Client
	next   WatermarkStore
	ttl    time.Duration
}

func NewCachedWatermarkStore(client *redis.Client, next WatermarkStore, ttl time.Duration) *CachedWatermarkStore {
	if ttl <= 0 {
		ttl = DefaultWatermarkCacheTTL
	}
	return &CachedWatermarkStore{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

func cacheKey(key watermarkKey) string {
	return fmt.Sprintf("watermark:%q:%q:%q", key.userID, key.bodyPart, key.condition)
}

func (s *CachedWatermarkStore) GetWatermark(ctx context.Context, userID, bodyPart, condition string) (*schema.ResetWatermark, error) {
	k := cacheKey(newWatermarkKey(userID, bodyPart, condition))

	data, err := s.client.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		var cached cachedWatermark
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.Watermark, nil
		}
		log.WithField("prefix", cacheLogPrefix).Warnf("drop malformed cache entry %s", k)
	case err != redis.Nil:
		// cache errors are not fatal, the backing store answers
		log.WithField("prefix", cacheLogPrefix).WithError(err).Warn("fail to read watermark cache")
	}

	w, err := s.next.GetWatermark(ctx, userID, bodyPart, condition)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cachedWatermark{Watermark: w}); err == nil {
		if err := s.client.Set(ctx, k, data, s.ttl).Err(); err != nil {
			log.WithField("prefix", cacheLogPrefix).WithError(err).Warn("fail to write watermark cache")
		}
	}
	return w, nil
}

func (s *CachedWatermarkStore) SetWatermark(ctx context.Context, userID, bodyPart, condition string, resetAt time.Time, expiresAt *time.Time) error {
	if err := s.next.SetWatermark(ctx, userID, bodyPart, condition, resetAt, expiresAt); err != nil {
		return err
	}

	k := cacheKey(newWatermarkKey(userID, bodyPart, condition))
	if err := s.client.Del(ctx, k).Err(); err != nil {
		log.WithField("prefix", cacheLogPrefix).WithError(err).Warnf("fail to invalidate %s", k)
	}
	return nil
}
