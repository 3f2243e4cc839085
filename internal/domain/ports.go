package domain

import "context"

// ReviewQuery selects the review snapshot for a run.
type ReviewQuery struct {
	RequireText bool // skip rows whose text is NULL
	Limit       int  // 0 = no cap
}

type ReviewSource interface {
	FetchReviews(ctx context.Context, q ReviewQuery) ([]Review, error)
}

// ScoreSink merge-upserts sentiment scores by review ID. Only the score column
// is written on existing rows.
type ScoreSink interface {
	UpsertScores(ctx context.Context, us []ScoreUpdate) error
}

// SummarySink merge-upserts hotel summaries by hotel ID. Columns not owned by
// the pipeline are left untouched.
type SummarySink interface {
	UpsertSummaries(ctx context.Context, ss []HotelSummary) error
}

type ReviewStore interface {
	ReviewSource
	ScoreSink
	SummarySink
}

type SummaryRepository interface {
	GetSummary(ctx context.Context, hotelID int64) (HotelSummary, error)
	ListReviews(ctx context.Context, hotelID int64, pg PageQuery) (ReviewsPage, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PageQuery selects one page of a hotel's reviews. Only the newest-first
// order ("-created_at") is supported.
type PageQuery struct {
	Limit int
	Sort  string
}

type ReviewsPage struct {
	Items []Review `json:"items"`
}
