package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
	"github.com/oksasatya/go-posts-api/pkg/helpers"
)

const keyPrefix = "post:votes:"

// PostCache stores aggregated posts as JSON in Redis.
type PostCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewPostCache(rdb redis.UniversalClient, ttl time.Duration) *PostCache {
	return &PostCache{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (c *PostCache) Get(ctx context.Context, id string) (*entity.PostWithVotes, bool, error) {
	var pv entity.PostWithVotes
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, key(id), &pv)
	if err != nil || !ok {
		return nil, false, err
	}
	return &pv, true, nil
}

func (c *PostCache) Set(ctx context.Context, pv *entity.PostWithVotes) error {
	return helpers.RedisSetJSON(ctx, c.rdb, key(pv.Post.ID), pv, c.ttl)
}

func (c *PostCache) Invalidate(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, c.rdb, key(id))
}

// InvalidateAll drops every cached post. Used when a user deletion cascades
// to an unknown set of posts and votes.
func (c *PostCache) InvalidateAll(ctx context.Context) error {
	_, err := helpers.RedisDelPattern(ctx, c.rdb, keyPrefix+"*", 100)
	return err
}
