package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"leaguebot/internal/storage"
)

const currentWeekKey = "current_week"

// WeekCache memoizes the persisted current-week value for a short TTL
// so that nearly every command doesn't hit storage for the same scalar.
// An explicit week change must call Invalidate so readers never observe
// a stale week beyond the admin action itself.
type WeekCache struct {
	cache *expirable.LRU[string, int]
}

// NewWeekCache creates a cache whose entries expire after ttl.
func NewWeekCache(ttl time.Duration) *WeekCache {
	return &WeekCache{cache: expirable.NewLRU[string, int](1, nil, ttl)}
}

// Current returns the current league week, from cache when fresh,
// otherwise re-read from storage and re-cached.
func (c *WeekCache) Current() (int, error) {
	if week, ok := c.cache.Get(currentWeekKey); ok {
		return week, nil
	}
	week, err := storage.GetCurrentWeek()
	if err != nil {
		return 0, err
	}
	c.cache.Add(currentWeekKey, week)
	return week, nil
}

// Invalidate drops the cached value immediately. Call after any
// explicit week change.
func (c *WeekCache) Invalidate() {
	c.cache.Remove(currentWeekKey)
}
