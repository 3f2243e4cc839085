package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel_sentiment/internal/adapters/observability"
	"hotel_sentiment/internal/domain"
)

const defaultBatchSize = 500

type Repo struct {
	db    *sql.DB
	batch int
}

// New wraps db. batch caps the rows per INSERT statement; every Upsert call
// still runs in a single transaction.
func New(db *sql.DB, batch int) *Repo {
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Repo{db: db, batch: batch}
}

// track records latency and outcome of one store call: defer track(op)(&err).
func track(op string) func(*error) {
	start := time.Now()
	return func(err *error) {
		observability.ObserveStore("mysql", op, *err, time.Since(start))
	}
}

func (r *Repo) FetchReviews(ctx context.Context, q domain.ReviewQuery) (out []domain.Review, err error) {
	defer track("fetch_reviews")(&err)

	query := selectReviewsSQL
	var args []any
	if q.RequireText {
		query += "WHERE `text` IS NOT NULL\n"
	}
	query += "ORDER BY id"
	if q.Limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	defer rows.Close()
	out, err = scanReviews(rows)
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

	return r.inTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(us); start += r.batch {
			chunk := us[start:min(start+r.batch, len(us))]
			values := make([]string, 0, len(chunk))
			args := make([]any, 0, len(chunk)*3)
			for _, u := range chunk {
				values = append(values, "(?,?,?)")
				args = append(args, u.ReviewID, u.PropertyID, u.Score)
			}
			stmt := upsertScoresPrefix + strings.Join(values, ",") + upsertScoresOnDup
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("upsert scores: %w", err)
			}
		}
		return nil
	})
}

func (r *Repo) UpsertSummaries(ctx context.Context, ss []domain.HotelSummary) (err error) {
	if len(ss) == 0 {
		return nil
	}
	defer track("upsert_summaries")(&err)

	return r.inTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(ss); start += r.batch {
			chunk := ss[start:min(start+r.batch, len(ss))]
			values := make([]string, 0, len(chunk))
			args := make([]any, 0, len(chunk)*5)
			for _, s := range chunk {
				values = append(values, "(?,?,?,?,?)")
				args = append(args, s.HotelID, s.ReviewCount, s.AverageRating, s.AverageSentiment, s.PositiveRatio)
			}
			stmt := upsertSummariesPrefix + strings.Join(values, ",") + upsertSummariesOnDup
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("upsert summaries: %w", err)
			}
		}
		return nil
	})
}

// inTx commits fn's work or none of it.
func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) GetSummary(ctx context.Context, hotelID int64) (domain.HotelSummary, error) {
	var s domain.HotelSummary
	var avgRating, avgSent, ratio sql.NullFloat64
	err := r.db.QueryRowContext(ctx, getSummarySQL, hotelID).
		Scan(&s.HotelID, &s.ReviewCount, &avgRating, &avgSent, &ratio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HotelSummary{}, domain.ErrNotFound
		}
		return domain.HotelSummary{}, err
	}
	s.AverageRating = avgRating.Float64
	s.AverageSentiment = avgSent.Float64
	s.PositiveRatio = ratio.Float64
	return s, nil
}

func (r *Repo) ListReviews(ctx context.Context, hotelID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, hotelID, pg.Limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()
	out, err := scanReviews(rows)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}

func scanReviews(rows *sql.Rows) ([]domain.Review, error) {
	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			sourceID  sql.NullString
			author    sql.NullString
			rating    sql.NullFloat64
			lang      sql.NullString
			title     sql.NullString
			text      sql.NullString
			createdAt sql.NullTime
			score     sql.NullFloat64
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.PropertyID,
			&sourceID,
			&author,
			&rating,
			&lang,
			&title,
			&text,
			&createdAt,
			&score,
		); err != nil {
			return nil, err
		}

		if sourceID.Valid {
			s := sourceID.String
			rv.SourceID = &s
		}
		if author.Valid {
			s := author.String
			rv.Author = &s
		}
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if lang.Valid {
			s := lang.String
			rv.Lang = &s
		}
		if title.Valid {
			s := title.String
			rv.Title = &s
		}
		if text.Valid {
			s := text.String
			rv.Text = &s
		}
		if createdAt.Valid {
			ts := createdAt.Time
			rv.CreatedAt = &ts
		}
		if score.Valid {
			f := score.Float64
			rv.Sentiment = &f
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
