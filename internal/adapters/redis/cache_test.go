package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "listing_brochure/internal/adapters/redis"
	"listing_brochure/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:"), mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var p domain.Property
	if ok, err := c.Get(ctx, "property:1", &p); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Property{ID: "1", Title: "Loft", Areas: []domain.Area{{ID: "a", ImageIDs: []string{"x"}}}}
	if err := c.Set(ctx, "property:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("test:property:1") {
		t.Fatalf("expected prefixed key in redis")
	}
	if ok, err := c.Get(ctx, "property:1", &p); !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if p.Title != "Loft" || p.Areas[0].ImageIDs[0] != "x" {
		t.Fatalf("unexpected value: %+v", p)
	}

	if err := c.Del(ctx, "property:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "property:1", &p); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "viewer:s1", map[string]int{"current": 2}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)
	var v map[string]int
	if ok, _ := c.Get(ctx, "viewer:s1", &v); ok {
		t.Fatalf("expected expiry")
	}
}

func TestCache_CorruptValue(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("test:settings", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var s domain.AgencySettings
	if ok, err := c.Get(context.Background(), "settings", &s); ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
