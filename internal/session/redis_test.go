package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/albitskyd51/qa-interview-bot/internal/config"
	"github.com/albitskyd51/qa-interview-bot/internal/session"
)

func newTestRedisCache(t *testing.T) (*session.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := session.NewRedisCache(context.Background(), config.SessionConfig{
		Backend:   "redis",
		TTL:       time.Hour,
		RedisAddr: mr.Addr(),
	})
	if err != nil {
		t.Fatalf("NewRedisCache() failed: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	got, err := cache.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() on empty cache failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Get() on empty cache = %+v, want nil", got)
	}

	state := testState()
	if err := cache.Set(ctx, 1, state); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err = cache.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if diff := cmp.Diff(state, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	if err := cache.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	got, err = cache.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() after delete failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get() after delete = %+v, want nil", got)
	}
}

func TestRedisCacheTTL(t *testing.T) {
	t.Parallel()

	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, 2, testState()); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	got, err := cache.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get() after expiry failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get() after expiry = %+v, want nil", got)
	}
}

func TestNewRedisCacheFromURL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cache, err := session.NewRedisCache(context.Background(), config.SessionConfig{
		Backend:  "redis",
		TTL:      time.Hour,
		RedisURL: "redis://" + mr.Addr(),
	})
	if err != nil {
		t.Fatalf("NewRedisCache() from URL failed: %v", err)
	}
	defer cache.Close()

	if err := cache.Set(context.Background(), 3, testState()); err != nil {
		t.Errorf("Set() failed: %v", err)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	t.Parallel()

	_, err := session.NewRedisCache(context.Background(), config.SessionConfig{
		Backend:   "redis",
		TTL:       time.Hour,
		RedisAddr: "127.0.0.1:1",
	})
	if err == nil {
		t.Fatal("NewRedisCache() to unreachable addr = nil error, want error")
	}
}
