package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/pkg/metrics"
)

const cacheCheckPeriod = 10 * time.Second

// LeaderboardCacheInterface defines the cache operations services depend on
type LeaderboardCacheInterface interface {
	Get(year, month, limit int) (*models.Leaderboard, bool)
	Set(year, month, limit int, lb *models.Leaderboard)
	Invalidate()
}

var _ LeaderboardCacheInterface = (*LeaderboardCache)(nil)

// LeaderboardCache holds computed standings per period. The leaderboard is
// the hottest read path (it is public and the client polls it), while the
// underlying aggregation touches three tables, so results are kept for a
// short TTL and flushed whenever points move.
type LeaderboardCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewLeaderboardCache creates a leaderboard cache with the given TTL
func NewLeaderboardCache(ttlSeconds int) *LeaderboardCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &LeaderboardCache{
		cache: gocache.New(ttl, cacheCheckPeriod),
		ttl:   ttl,
	}
}

func periodKey(year, month, limit int) string {
	return fmt.Sprintf("leaderboard:%d:%02d:%d", year, month, limit)
}

// Get returns the cached standings for a period, if present
func (c *LeaderboardCache) Get(year, month, limit int) (*models.Leaderboard, bool) {
	data, found := c.cache.Get(periodKey(year, month, limit))
	if !found {
		metrics.CacheMisses.WithLabelValues("leaderboard").Inc()
		return nil, false
	}

	lb, ok := data.(*models.Leaderboard)
	if !ok {
		c.cache.Delete(periodKey(year, month, limit))
		metrics.CacheMisses.WithLabelValues("leaderboard").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("leaderboard").Inc()
	return lb, true
}

// Set stores the standings for a period
func (c *LeaderboardCache) Set(year, month, limit int, lb *models.Leaderboard) {
	c.cache.Set(periodKey(year, month, limit), lb, c.ttl)
}

// Invalidate drops every cached period. Called whenever a rating lands or
// points are adjusted, since both move the standings.
func (c *LeaderboardCache) Invalidate() {
	c.cache.Flush()
}
