package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_sentiment/internal/adapters/observability"
	"hotel_sentiment/internal/domain"
	"hotel_sentiment/internal/sentiment"
)

type RunOptions struct {
	Limit  int  // cap on fetched reviews, 0 = all
	DryRun bool // score and aggregate, write nothing
}

// RunReport describes one pipeline run.
type RunReport struct {
	Fetched   int
	Scored    int
	Recovered int
	Summaries []domain.HotelSummary
	Scores    []domain.ScoreUpdate
	Duration  time.Duration
}

// SentimentService scores every review in a snapshot and rewrites the
// per-hotel summaries.
type SentimentService struct {
	store    domain.ReviewStore
	dispatch *sentiment.Dispatcher
	cache    domain.Cache
	workers  int
}

func NewSentimentService(store domain.ReviewStore, d *sentiment.Dispatcher, cache domain.Cache, workers int) *SentimentService {
	if workers <= 0 {
		workers = 1
	}
	return &SentimentService{store: store, dispatch: d, cache: cache, workers: workers}
}

// Run executes fetch, score, write scores, re-read, aggregate and write
// summaries, in that order. A failed run leaves nothing half-written inside a
// single write call and can be restarted from scratch.
func (s *SentimentService) Run(ctx context.Context, opt RunOptions) (rep RunReport, err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		rep.Duration = time.Since(start)
		if err != nil {
			outcome = "error"
		}
		observability.ObserveRun(outcome, rep.Duration)
	}()

	// 1) snapshot
	reviews, err := s.store.FetchReviews(ctx, domain.ReviewQuery{RequireText: true, Limit: opt.Limit})
	if err != nil {
		return rep, fmt.Errorf("fetch reviews: %w", err)
	}
	rep.Fetched = len(reviews)
	log.Info().Int("fetched", rep.Fetched).Int("limit", opt.Limit).Msg("reviews fetched")
	if len(reviews) == 0 {
		outcome = "empty"
		log.Info().Msg("no reviews to score")
		return rep, nil
	}

	// 2) score
	updates, recovered, err := s.scoreAll(ctx, reviews)
	if err != nil {
		return rep, err
	}
	rep.Scores = updates
	rep.Scored = len(updates)
	rep.Recovered = recovered

	if opt.DryRun {
		outcome = "dry_run"
		for i := range reviews {
			sc := updates[i].Score
			reviews[i].Sentiment = &sc
		}
		rep.Summaries = sentiment.SortedSummaries(sentiment.Aggregate(reviews))
		log.Info().Int("scored", rep.Scored).Int("hotels", len(rep.Summaries)).Msg("dry run, nothing written")
		return rep, nil
	}

	// 3) write scores
	if err := s.store.UpsertScores(ctx, updates); err != nil {
		return rep, fmt.Errorf("upsert scores: %w", err)
	}
	log.Info().Int("scored", rep.Scored).Int("recovered", recovered).Msg("scores written")

	// 4) aggregate over the full scored set, not just this snapshot
	scored, err := s.store.FetchReviews(ctx, domain.ReviewQuery{RequireText: true})
	if err != nil {
		return rep, fmt.Errorf("re-read reviews: %w", err)
	}
	rep.Summaries = sentiment.SortedSummaries(sentiment.Aggregate(scored))
	log.Info().Int("reviews", len(scored)).Int("hotels", len(rep.Summaries)).Msg("summaries aggregated")

	// 5) write summaries
	if err := s.store.UpsertSummaries(ctx, rep.Summaries); err != nil {
		return rep, fmt.Errorf("upsert summaries: %w", err)
	}

	s.invalidate(ctx, rep.Summaries)
	log.Info().Dur("took", time.Since(start)).Msg("sentiment run completed")
	return rep, nil
}

// scoreAll fans scoring out over a bounded pool. Results are written by
// index so the output order matches the input order.
func (s *SentimentService) scoreAll(ctx context.Context, reviews []domain.Review) ([]domain.ScoreUpdate, int, error) {
	out := make([]domain.ScoreUpdate, len(reviews))
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		recovered int
	)

	for i := range reviews {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, 0, fmt.Errorf("score reviews: %w", err)
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)

			rv := reviews[i]
			o, ok := s.scoreOne(rv)
			if !ok {
				mu.Lock()
				recovered++
				mu.Unlock()
			}
			out[i] = domain.ScoreUpdate{ReviewID: rv.ID, PropertyID: rv.PropertyID, Score: o.Score}
		}(i)
	}
	wg.Wait()
	return out, recovered, nil
}

// scoreOne never lets a scorer panic escape; the review gets an explicit
// neutral score instead.
func (s *SentimentService) scoreOne(rv domain.Review) (o sentiment.Outcome, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			observability.ScoreRecovered.Inc()
			log.Warn().Int64("review_id", rv.ID).Interface("panic", r).Msg("scoring failed, using neutral score")
			o, ok = sentiment.Outcome{Score: 0, Language: sentiment.LangOther}, false
		}
	}()
	o = s.dispatch.Dispatch(rv)
	observability.ObserveScore(o.Language.String(), o.Strategy)
	return o, true
}

func (s *SentimentService) invalidate(ctx context.Context, ss []domain.HotelSummary) {
	if s.cache == nil {
		return
	}
	for _, h := range ss {
		_ = s.cache.Del(ctx, summaryKey(h.HotelID))
		for _, lim := range reviewPageSizes {
			_ = s.cache.Del(ctx, reviewsKey(h.HotelID, lim, defaultReviewSort))
		}
	}
}
