package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-posts-api/internal/domain/entity"
)

func newTestCache(t *testing.T) (*PostCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPostCache(rdb, time.Minute), mr
}

func TestSetGetInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	pv := &entity.PostWithVotes{
		Post:  entity.Post{ID: "p1", Title: "T", UserID: "u1"},
		Owner: entity.PostOwner{ID: "u1", Email: "a@x.com"},
		Votes: 3,
	}

	if _, ok, err := c.Get(ctx, "p1"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, pv); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("post:votes:p1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	got, ok, err := c.Get(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Votes != 3 || got.Owner.Email != "a@x.com" {
		t.Fatalf("unexpected value %#v", got)
	}
	if err := c.Invalidate(ctx, "p1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if mr.Exists("post:votes:p1") {
		t.Fatal("key still present")
	}
}

func TestInvalidateAllKeepsOtherKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, &entity.PostWithVotes{Post: entity.Post{ID: id}}); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	_ = mr.Set("rate:login:1.2.3.4", "1")

	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "rate:login:1.2.3.4" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
