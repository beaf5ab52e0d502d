package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SurveyCache caches public survey payloads by slug so the take-page
// does not hit MySQL on every load. Writes go through Invalidate.
type SurveyCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSurveyCache(rdb *redis.Client, ttl time.Duration) *SurveyCache {
	return &SurveyCache{rdb: rdb, ttl: ttl}
}

func (c *SurveyCache) key(slug string) string {
	return fmt.Sprintf("survey:slug:%s", slug)
}

// Get unmarshals the cached payload into dest. Returns false on a miss
// or any redis error, so callers always fall back to the database.
func (c *SurveyCache) Get(ctx context.Context, slug string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, c.key(slug)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *SurveyCache) Set(ctx context.Context, slug string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(slug), data, c.ttl)
}

func (c *SurveyCache) Invalidate(ctx context.Context, slug string) {
	if c == nil || c.rdb == nil || slug == "" {
		return
	}
	c.rdb.Del(ctx, c.key(slug))
}
