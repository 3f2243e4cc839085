// Package memory is an in-process review store with the same merge-upsert
// semantics as the SQL stores. It backs file runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"hotel_sentiment/internal/domain"
)

// SummaryRow is a stored summary plus the columns other writers own.
type SummaryRow struct {
	domain.HotelSummary
	Extra map[string]any
}

type Store struct {
	mu        sync.RWMutex
	reviews   map[int64]domain.Review
	summaries map[int64]SummaryRow
}

func New(seed ...domain.Review) *Store {
	s := &Store{
		reviews:   make(map[int64]domain.Review, len(seed)),
		summaries: map[int64]SummaryRow{},
	}
	for _, rv := range seed {
		s.reviews[rv.ID] = rv
	}
	return s
}

// FetchReviews returns reviews ordered by ID.
func (s *Store) FetchReviews(ctx context.Context, q domain.ReviewQuery) ([]domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.reviews))
	for id, rv := range s.reviews {
		if q.RequireText && rv.Text == nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if q.Limit > 0 && len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}
	out := make([]domain.Review, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.reviews[id])
	}
	return out, nil
}

func (s *Store) UpsertScores(ctx context.Context, us []domain.ScoreUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range us {
		score := u.Score
		rv, ok := s.reviews[u.ReviewID]
		if !ok {
			rv = domain.Review{ID: u.ReviewID, PropertyID: u.PropertyID}
		}
		rv.Sentiment = &score
		s.reviews[u.ReviewID] = rv
	}
	return nil
}

func (s *Store) UpsertSummaries(ctx context.Context, ss []domain.HotelSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sum := range ss {
		row := s.summaries[sum.HotelID]
		row.HotelSummary = sum
		s.summaries[sum.HotelID] = row
	}
	return nil
}

// PutSummaryExtra sets a column the pipeline does not own.
func (s *Store) PutSummaryExtra(hotelID int64, key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.summaries[hotelID]
	row.HotelID = hotelID
	if row.Extra == nil {
		row.Extra = map[string]any{}
	}
	row.Extra[key] = v
	s.summaries[hotelID] = row
}

func (s *Store) SummaryRow(hotelID int64) (SummaryRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.summaries[hotelID]
	return row, ok
}

func (s *Store) GetSummary(ctx context.Context, hotelID int64) (domain.HotelSummary, error) {
	row, ok := s.SummaryRow(hotelID)
	if !ok {
		return domain.HotelSummary{}, domain.ErrNotFound
	}
	return row.HotelSummary, nil
}

// ListReviews returns a hotel's reviews newest first.
func (s *Store) ListReviews(ctx context.Context, hotelID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	s.mu.RLock()
	var out []domain.Review
	for _, rv := range s.reviews {
		if rv.PropertyID == hotelID {
			out = append(out, rv)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt) {
			return a.CreatedAt.After(*b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if pg.Limit > 0 && len(out) > pg.Limit {
		out = out[:pg.Limit]
	}
	return domain.ReviewsPage{Items: out}, nil
}

// Summaries returns every stored summary ordered by hotel ID.
func (s *Store) Summaries() []domain.HotelSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HotelSummary, 0, len(s.summaries))
	for _, row := range s.summaries {
		out = append(out, row.HotelSummary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HotelID < out[j].HotelID })
	return out
}
