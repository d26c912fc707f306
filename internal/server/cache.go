package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps rendered top-ten responses in Redis for a short
// window. Ranking is advisory, so a read lagging one completion behind is
// acceptable; completions and username claims invalidate eagerly anyway.
// A nil Redis client disables the cache and every method becomes a no-op.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLeaderboardCache(rdb *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, ttl: 30 * time.Second}
}

func (c *LeaderboardCache) key(sceneID int64) string {
	return fmt.Sprintf("topten:%d", sceneID)
}

func (c *LeaderboardCache) Get(ctx context.Context, sceneID int64) (TopTenResponse, bool) {
	if c.rdb == nil {
		return TopTenResponse{}, false
	}
	raw, err := c.rdb.Get(ctx, c.key(sceneID)).Bytes()
	if err != nil {
		return TopTenResponse{}, false
	}
	var resp TopTenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return TopTenResponse{}, false
	}
	return resp, true
}

func (c *LeaderboardCache) Set(ctx context.Context, sceneID int64, resp TopTenResponse) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(sceneID), raw, c.ttl)
}

func (c *LeaderboardCache) Invalidate(ctx context.Context, sceneID int64) {
	if c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, c.key(sceneID))
}
