package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_sentiment/internal/app"
	"hotel_sentiment/internal/domain"
	"hotel_sentiment/internal/sentiment"
	"hotel_sentiment/internal/storage/memory"
)

// ---- fakes ----

type fakeRepo struct {
	hs       domain.HotelSummary
	rp       domain.ReviewsPage
	err      error
	calls    int
	lastPage domain.PageQuery
}

func (f *fakeRepo) GetSummary(ctx context.Context, id int64) (domain.HotelSummary, error) {
	f.calls++
	if f.err != nil {
		return domain.HotelSummary{}, f.err
	}
	return f.hs, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, id int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	f.calls++
	f.lastPage = pg
	return f.rp, f.err
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.HotelSummary:
		*d = v.(domain.HotelSummary)
	case *domain.ReviewsPage:
		*d = v.(domain.ReviewsPage)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// mapScorer returns a fixed score per text and panics on "boom".
type mapScorer map[string]float64

func (m mapScorer) Score(text string) float64 {
	if text == "boom" {
		panic("scorer exploded")
	}
	return m[text]
}

func newDispatcher() *sentiment.Dispatcher {
	return sentiment.NewDispatcher(
		sentiment.NewResolver(nil, sentiment.DefaultFallbackLanguage),
		sentiment.NewLexiconScorer(sentiment.DefaultVietnameseLexicon()),
		mapScorer{"great stay": 0.8, "fine": 0.1},
	)
}

// ---- tests ----

func TestGetSummary_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{hs: domain.HotelSummary{HotelID: 42, ReviewCount: 3, AverageSentiment: 0.4}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, newDispatcher(), 10*time.Minute)

	// Miss (first time, populates cache)
	hs, err := q.GetSummary(context.Background(), 42)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if hs.HotelID != 42 || hs.ReviewCount != 3 {
		t.Fatalf("unexpected summary: %+v", hs)
	}

	// Mutate repo to ensure second read indeed comes from cache
	repo.hs.ReviewCount = 99

	hs2, err := q.GetSummary(context.Background(), 42)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if hs2.ReviewCount != 3 || repo.calls != 1 {
		t.Fatalf("expected cached summary, got %+v after %d repo calls", hs2, repo.calls)
	}
}

func TestGetSummary_NotFoundIsNotCached(t *testing.T) {
	repo := &fakeRepo{err: domain.ErrNotFound}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, newDispatcher(), time.Minute)

	if _, err := q.GetSummary(context.Background(), 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(cache.store) != 0 {
		t.Fatalf("miss must not be cached: %v", cache.store)
	}
}

func TestListReviews_Cache(t *testing.T) {
	repo := &fakeRepo{
		rp: domain.ReviewsPage{Items: []domain.Review{
			{PropertyID: 1, Author: ptr("Ana"), Rating: ptr(9.0), Sentiment: ptr(0.5)},
		}},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, newDispatcher(), 10*time.Minute)

	out, err := q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 10})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Items) != 1 || deref(out.Items[0].Author) != "Ana" {
		t.Fatalf("unexpected reviews: %+v", out.Items)
	}
	if _, ok := cache.store["reviews:1:50:-created_at"]; !ok {
		t.Fatalf("expected page size 50 and default sort in cache key, have %v", cache.store)
	}

	// Change repo, call again -> should come from cache
	repo.rp.Items[0].Author = ptr("Changed")
	out2, _ := q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 10})
	if deref(out2.Items[0].Author) != "Ana" {
		t.Fatalf("expected cached author Ana, got %s", deref(out2.Items[0].Author))
	}
}

func TestListReviews_OddLimitsShareEvictedPages(t *testing.T) {
	repo := &fakeRepo{
		rp: domain.ReviewsPage{Items: []domain.Review{{ID: 3}, {ID: 2}, {ID: 1}}},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, newDispatcher(), time.Minute)

	out, err := q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 2})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Items) != 2 || out.Items[0].ID != 3 {
		t.Fatalf("expected first 2 reviews, got %+v", out.Items)
	}
	if repo.lastPage.Limit != 50 {
		t.Fatalf("expected repo page size 50, got %d", repo.lastPage.Limit)
	}

	// limit 37 is served from the same cached page
	out, _ = q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 37})
	if len(out.Items) != 3 || repo.calls != 1 {
		t.Fatalf("expected cached page of 3, got %d items after %d repo calls", len(out.Items), repo.calls)
	}

	// a run evicts every cached page size, so limit 37 reads fresh data
	store := memory.New(domain.Review{ID: 1, PropertyID: 1, Lang: ptr("en"), Text: ptr("great stay")})
	if _, err := app.NewSentimentService(store, newDispatcher(), cache, 1).Run(context.Background(), app.RunOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	repo.rp.Items = repo.rp.Items[:1]
	out, _ = q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 37})
	if len(out.Items) != 1 || repo.calls != 2 {
		t.Fatalf("expected fresh page after run, got %d items after %d repo calls", len(out.Items), repo.calls)
	}

	_, _ = q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 120})
	if repo.lastPage.Limit != 200 {
		t.Fatalf("expected page size 200 for limit 120, got %d", repo.lastPage.Limit)
	}
}

func TestQueryService_NilCache(t *testing.T) {
	repo := &fakeRepo{hs: domain.HotelSummary{HotelID: 1}}
	q := app.NewQueryService(repo, nil, newDispatcher(), time.Minute)
	if _, err := q.GetSummary(context.Background(), 1); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 5}); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestScoreText(t *testing.T) {
	q := app.NewQueryService(&fakeRepo{}, nil, newDispatcher(), time.Minute)

	vi := q.ScoreText(" vi ", "phòng bẩn")
	if vi.Score != -0.4 || vi.Language != "vi" || vi.Strategy != sentiment.StrategyLexicon {
		t.Fatalf("unexpected vi score: %+v", vi)
	}
	en := q.ScoreText("", "great stay")
	if en.Score != 0.8 || en.Language != "en" || en.Strategy != sentiment.StrategyVader {
		t.Fatalf("unexpected fallback score: %+v", en)
	}
}

func ptr[T any](v T) *T { return &v }
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
