package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_sentiment/internal/adapters/redis"
	"hotel_sentiment/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t)

	var miss domain.HotelSummary
	ok, err := c.Get(ctx, "summary:1", &miss)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	in := domain.HotelSummary{HotelID: 1, ReviewCount: 2, AverageRating: 3.5, AverageSentiment: 0.2, PositiveRatio: 0.5}
	if err := c.Set(ctx, "summary:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.HotelSummary
	ok, err = c.Get(ctx, "summary:1", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}

	if err := c.Del(ctx, "summary:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "summary:1", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	if err := c.Set(ctx, "summary:9", domain.HotelSummary{HotelID: 9}, 5); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(6 * time.Second)

	var out domain.HotelSummary
	if ok, _ := c.Get(ctx, "summary:9", &out); ok {
		t.Fatalf("expected key to expire")
	}
}

func TestCache_GetErrorWhenServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	mr.Close()

	var out domain.HotelSummary
	if _, err := c.Get(ctx, "summary:1", &out); err == nil {
		t.Fatalf("expected error with server down")
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping error with server down")
	}
}
