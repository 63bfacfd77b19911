package infra

import (
	"context"
	"testing"
	"time"

	"casino-gateway/middleware/ratelimit/domain"

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

func TestRedisStore_RemainingDecreasesThenDenies(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	ctx := context.Background()

	for i, want := range []int{2, 1, 0} {
		dec, err := s.Take(ctx, "1.2.3.4:/api/reviews", reviewCfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dec.Success || dec.Remaining != want {
			t.Fatalf("call %d: expected success with remaining=%d, got %+v", i+1, want, dec)
		}
	}

	dec, err := s.Take(ctx, "1.2.3.4:/api/reviews", reviewCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Success || dec.Remaining != 0 {
		t.Fatalf("expected denial, got %+v", dec)
	}
	if got := dec.ResetInSeconds(); got <= 0 || got > 60 {
		t.Fatalf("expected reset hint within the window, got %d", got)
	}
}

func TestRedisStore_ResetsAfterExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, WithKeyPrefix("rl:"))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = s.Take(ctx, "k", reviewCfg)
	}
	if !mr.Exists("rl:k") {
		t.Fatalf("expected prefixed key to exist")
	}

	mr.FastForward(reviewCfg.Window + time.Millisecond)

	dec, err := s.Take(ctx, "k", reviewCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dec.Success || dec.Remaining != reviewCfg.MaxRequests-1 {
		t.Fatalf("expected full reset, got %+v", dec)
	}
}

func TestRedisStore_DeniedCallsDoNotIncrement(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, _ = s.Take(ctx, "k", reviewCfg)
	}
	got, err := mr.Get("ratelimit:k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "3" {
		t.Fatalf("expected counter to stop at 3, got %q", got)
	}
}

func TestRedisStore_ReturnsErrorWhenUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	mr.Close()

	if _, err := s.Take(context.Background(), "k", domain.Config{Window: time.Second, MaxRequests: 1}); err == nil {
		t.Fatalf("expected error with redis down")
	}
}
