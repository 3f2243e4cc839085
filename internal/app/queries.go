package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hotel_sentiment/internal/domain"
	"hotel_sentiment/internal/sentiment"
)

const (
	defaultReviewSort  = "-created_at"
	defaultReviewLimit = 50
)

func summaryKey(id int64) string { return fmt.Sprintf("summary:%d", id) }

// reviewPageSizes are the only page sizes fetched and cached; a request is
// served from the smallest one that covers it so a run can evict them all.
var reviewPageSizes = []int{defaultReviewLimit, 100, 200}

func pageBucket(limit int) int {
	for _, b := range reviewPageSizes {
		if limit <= b {
			return b
		}
	}
	return limit
}

func reviewsKey(id int64, limit int, sort string) string {
	return fmt.Sprintf("reviews:%d:%d:%s", id, limit, sort)
}

// TextScore is the result of scoring ad-hoc text.
type TextScore struct {
	Score    float64 `json:"score"`
	Language string  `json:"language"`
	Strategy string  `json:"strategy"`
}

type QueryService struct {
	repo     domain.SummaryRepository
	cache    domain.Cache
	dispatch *sentiment.Dispatcher
	cacheTTL time.Duration
}

func NewQueryService(r domain.SummaryRepository, c domain.Cache, d *sentiment.Dispatcher, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, dispatch: d, cacheTTL: ttl}
}

func (s *QueryService) GetSummary(ctx context.Context, id int64) (domain.HotelSummary, error) {
	key := summaryKey(id)
	var hs domain.HotelSummary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &hs); ok {
			return hs, nil
		}
	}
	hs, err := s.repo.GetSummary(ctx, id)
	if err != nil {
		return domain.HotelSummary{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, hs, int(s.cacheTTL.Seconds()))
	}
	return hs, nil
}

func (s *QueryService) ListReviews(ctx context.Context, id int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	if pg.Sort == "" {
		pg.Sort = defaultReviewSort
	}
	if pg.Limit <= 0 {
		pg.Limit = defaultReviewLimit
	}
	want := pg.Limit
	pg.Limit = pageBucket(want)
	key := reviewsKey(id, pg.Limit, pg.Sort)
	var out domain.ReviewsPage
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return truncatePage(out, want), nil
		}
	}

	rs, err := s.repo.ListReviews(ctx, id, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	copyRS := deepCopyReviewsPage(rs)

	// optional size guard
	if s.cache != nil {
		if b, _ := json.Marshal(copyRS); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, copyRS, int(s.cacheTTL.Seconds()))
		}
	}
	return truncatePage(copyRS, want), nil
}

// truncatePage returns a copy holding at most n items.
func truncatePage(in domain.ReviewsPage, n int) domain.ReviewsPage {
	if len(in.Items) > n {
		in.Items = in.Items[:n]
	}
	return deepCopyReviewsPage(in)
}

// ScoreText scores text that is not stored anywhere. An empty lang means
// detect.
func (s *QueryService) ScoreText(lang, text string) TextScore {
	o := s.dispatch.DispatchText(strings.TrimSpace(lang), text)
	return TextScore{Score: o.Score, Language: o.Language.String(), Strategy: o.Strategy}
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	out := domain.ReviewsPage{}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Review, n)
		copy(out.Items, in.Items)
	}
	return out
}
