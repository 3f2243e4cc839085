package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel_sentiment/internal/adapters/observability"
	"hotel_sentiment/internal/domain"
)

const selectReviewsSQL = `
SELECT id, property_id, source_id, author, rating, lang, title, text, created_at, sentiment_score
FROM reviews
`

// Both upserts ship the rows as parallel arrays, so each call is one statement.
const upsertScoresSQL = `
INSERT INTO reviews (id, property_id, sentiment_score)
SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::double precision[])
ON CONFLICT (id) DO UPDATE SET
	sentiment_score = EXCLUDED.sentiment_score
`

const upsertSummariesSQL = `
INSERT INTO hotel_metrics (hotel_id, review_count, average_rating, average_sentiment, positive_ratio)
SELECT * FROM unnest($1::bigint[], $2::integer[], $3::double precision[], $4::double precision[], $5::double precision[])
ON CONFLICT (hotel_id) DO UPDATE SET
	review_count = EXCLUDED.review_count,
	average_rating = EXCLUDED.average_rating,
	average_sentiment = EXCLUDED.average_sentiment,
	positive_ratio = EXCLUDED.positive_ratio
`

const getSummarySQL = `
SELECT hotel_id, review_count, average_rating, average_sentiment, positive_ratio
FROM hotel_metrics
WHERE hotel_id = $1
`

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func track(op string) func(*error) {
	start := time.Now()
	return func(err *error) {
		observability.ObserveStore("postgres", op, *err, time.Since(start))
	}
}

func (r *Repo) FetchReviews(ctx context.Context, q domain.ReviewQuery) (out []domain.Review, err error) {
	defer track("fetch_reviews")(&err)

	query := selectReviewsSQL
	var args []any
	if q.RequireText {
		query += "WHERE text IS NOT NULL\n"
	}
	query += "ORDER BY id"
	if q.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, q.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	out, err = collectReviews(rows)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	return out, nil
}

func (r *Repo) UpsertScores(ctx context.Context, us []domain.ScoreUpdate) (err error) {
	if len(us) == 0 {
		return nil
	}
	defer track("upsert_scores")(&err)

	ids := make([]int64, len(us))
	props := make([]int64, len(us))
	scores := make([]float64, len(us))
	for i, u := range us {
		ids[i], props[i], scores[i] = u.ReviewID, u.PropertyID, u.Score
	}
	if _, err := r.pool.Exec(ctx, upsertScoresSQL, ids, props, scores); err != nil {
		return fmt.Errorf("upsert scores: %w", err)
	}
	return nil
}

func (r *Repo) UpsertSummaries(ctx context.Context, ss []domain.HotelSummary) (err error) {
	if len(ss) == 0 {
		return nil
	}
	defer track("upsert_summaries")(&err)

	n := len(ss)
	ids, counts := make([]int64, n), make([]int32, n)
	ratings, sentiments, ratios := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, s := range ss {
		ids[i] = s.HotelID
		counts[i] = int32(s.ReviewCount)
		ratings[i] = s.AverageRating
		sentiments[i] = s.AverageSentiment
		ratios[i] = s.PositiveRatio
	}
	if _, err := r.pool.Exec(ctx, upsertSummariesSQL, ids, counts, ratings, sentiments, ratios); err != nil {
		return fmt.Errorf("upsert summaries: %w", err)
	}
	return nil
}

func (r *Repo) GetSummary(ctx context.Context, hotelID int64) (domain.HotelSummary, error) {
	var s domain.HotelSummary
	var avgRating, avgSent, ratio *float64
	err := r.pool.QueryRow(ctx, getSummarySQL, hotelID).
		Scan(&s.HotelID, &s.ReviewCount, &avgRating, &avgSent, &ratio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HotelSummary{}, domain.ErrNotFound
		}
		return domain.HotelSummary{}, err
	}
	if avgRating != nil {
		s.AverageRating = *avgRating
	}
	if avgSent != nil {
		s.AverageSentiment = *avgSent
	}
	if ratio != nil {
		s.PositiveRatio = *ratio
	}
	return s, nil
}

func (r *Repo) ListReviews(ctx context.Context, hotelID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	rows, err := r.pool.Query(ctx, selectReviewsSQL+`WHERE property_id = $1
ORDER BY created_at DESC NULLS LAST, id DESC
LIMIT $2`, hotelID, pg.Limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	out, err := collectReviews(rows)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Review, error) {
		var rv domain.Review
		err := row.Scan(
			&rv.ID,
			&rv.PropertyID,
			&rv.SourceID,
			&rv.Author,
			&rv.Rating,
			&rv.Lang,
			&rv.Title,
			&rv.Text,
			&rv.CreatedAt,
			&rv.Sentiment,
		)
		return rv, err
	})
}
