package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_sentiment/internal/adapters/jsonl"
	"hotel_sentiment/internal/adapters/observability"
	redisad "hotel_sentiment/internal/adapters/redis"
	"hotel_sentiment/internal/app"
	"hotel_sentiment/internal/bootstrap"
	"hotel_sentiment/internal/domain"
	"hotel_sentiment/internal/shared"
	"hotel_sentiment/internal/storage/memory"
)

func newRunCmd(cfg shared.Config) *cobra.Command {
	var (
		limit   int
		dryRun  bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score every stored review and rewrite the hotel summaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			observability.RegisterDefault()
			observability.Serve(cfg.MetricsAddr)

			log.Info().
				Str("driver", cfg.StoreDriver).
				Int("workers", workers).
				Int("limit", limit).
				Bool("dry_run", dryRun).
				Msg("scorer starting")

			store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			d, err := bootstrap.Dispatcher(cfg)
			if err != nil {
				return err
			}

			var cache domain.Cache
			if cfg.RedisAddr != "" {
				rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
				defer rc.Close()
				if err := rc.Ping(ctx); err != nil {
					log.Warn().Err(err).Msg("redis unreachable, skipping cache invalidation")
				} else {
					cache = rc
				}
			}

			rep, err := app.NewSentimentService(store, d, cache, workers).
				Run(ctx, app.RunOptions{Limit: limit, DryRun: dryRun})
			if err != nil {
				return err
			}
			log.Info().
				Int("fetched", rep.Fetched).
				Int("recovered", rep.Recovered).
				Int("hotels", len(rep.Summaries)).
				Dur("took", rep.Duration).
				Msg("scoring completed")
			if dryRun {
				return jsonl.Write(cmd.OutOrStdout(), rep.Summaries)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", cfg.FetchLimit, "maximum number of reviews to score (0 = all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "score and aggregate without writing; print summaries")
	cmd.Flags().IntVar(&workers, "workers", cfg.Workers, "concurrent scoring workers")
	return cmd
}

func newFileCmd(cfg shared.Config) *cobra.Command {
	var (
		outPath     string
		summaryPath string
		workers     int
	)
	cmd := &cobra.Command{
		Use:   "file <reviews.jsonl|->",
		Short: "Score reviews from a JSON-lines file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := jsonl.ReadReviewsFile(args[0])
			if err != nil {
				return err
			}
			d, err := bootstrap.Dispatcher(cfg)
			if err != nil {
				return err
			}

			store := memory.New(reviews...)
			rep, err := app.NewSentimentService(store, d, nil, workers).Run(cmd.Context(), app.RunOptions{})
			if err != nil {
				return err
			}

			scored, err := store.FetchReviews(cmd.Context(), domain.ReviewQuery{})
			if err != nil {
				return err
			}
			if err := writeTo(outPath, cmd.OutOrStdout(), scored); err != nil {
				return fmt.Errorf("write scored reviews: %w", err)
			}
			if summaryPath != "" {
				if err := writeTo(summaryPath, cmd.OutOrStdout(), store.Summaries()); err != nil {
					return fmt.Errorf("write summaries: %w", err)
				}
			}
			log.Info().Int("reviews", len(scored)).Int("scored", rep.Scored).Int("hotels", len(rep.Summaries)).Msg("file scored")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "scored reviews output (JSON lines, - = stdout)")
	cmd.Flags().StringVar(&summaryPath, "summaries", "", "hotel summaries output (JSON lines, - = stdout)")
	cmd.Flags().IntVar(&workers, "workers", cfg.Workers, "concurrent scoring workers")
	return cmd
}

func newTextCmd(cfg shared.Config) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "text <review text>",
		Short: "Score a single text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := bootstrap.Dispatcher(cfg)
			if err != nil {
				return err
			}
			q := app.NewQueryService(nil, nil, d, 0)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return enc.Encode(q.ScoreText(lang, args[0]))
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language tag (empty = detect)")
	return cmd
}

func writeTo[T any](path string, stdout io.Writer, items []T) error {
	if path == "" || path == "-" {
		return jsonl.Write(stdout, items)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jsonl.Write(f, items); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
