package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisJSONRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	var got sample
	ok, err := RedisGetJSON(ctx, rdb, "missing", &got)
	if err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}

	if err := RedisSetJSON(ctx, rdb, "k", sample{Name: "a", Count: 2}, time.Minute); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Fatalf("ttl = %s", ttl)
	}
	ok, err = RedisGetJSON(ctx, rdb, "k", &got)
	if err != nil || !ok || got != (sample{Name: "a", Count: 2}) {
		t.Fatalf("hit: ok=%v err=%v got=%+v", ok, err, got)
	}
}

func TestRedisGetJSONBadPayload(t *testing.T) {
	mr, rdb := newTestRedis(t)
	_ = mr.Set("k", "not json")
	var got sample
	if _, err := RedisGetJSON(context.Background(), rdb, "k", &got); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRedisDelPattern(t *testing.T) {
	mr, rdb := newTestRedis(t)
	for i := 0; i < 7; i++ {
		_ = mr.Set(fmt.Sprintf("post:votes:%d", i), "x")
	}
	_ = mr.Set("other:1", "y")

	n, err := RedisDelPattern(context.Background(), rdb, "post:votes:*", 3)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("removed %d keys, want 7", n)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "other:1" {
		t.Fatalf("remaining keys = %v", keys)
	}
}

func TestRedisDelNoKeys(t *testing.T) {
	_, rdb := newTestRedis(t)
	if err := RedisDel(context.Background(), rdb); err != nil {
		t.Fatal(err)
	}
}
