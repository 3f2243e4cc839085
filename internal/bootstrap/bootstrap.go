// Package bootstrap builds the scoring components and review store from Config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_sentiment/internal/domain"
	"hotel_sentiment/internal/sentiment"
	"hotel_sentiment/internal/shared"
	mysqlrepo "hotel_sentiment/internal/storage/mysql"
	"hotel_sentiment/internal/storage/postgres"
)

// Store is what the binaries need from a review store: the pipeline side
// and the read side.
type Store interface {
	domain.ReviewStore
	domain.SummaryRepository
}

// Dispatcher wires language detection, the Vietnamese lexicon (embedded or
// LEXICON_PATH) and the VADER scorer.
func Dispatcher(cfg shared.Config) (*sentiment.Dispatcher, error) {
	lex := sentiment.DefaultVietnameseLexicon()
	if cfg.LexiconPath != "" {
		l, err := sentiment.LoadLexiconFile(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon %s: %w", cfg.LexiconPath, err)
		}
		lex = l
	}
	log.Info().Int("entries", lex.Len()).Str("path", cfg.LexiconPath).Msg("lexicon loaded")

	res := sentiment.NewResolver(sentiment.NewWhatlangDetector(cfg.DetectMinConfidence), cfg.FallbackLanguage)
	return sentiment.NewDispatcher(res, sentiment.NewLexiconScorer(lex), sentiment.NewVaderScorer()), nil
}

// OpenStore connects to the store named by STORE_DRIVER. The returned func
// releases the connection.
func OpenStore(ctx context.Context, cfg shared.Config) (Store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.PostgresURL, MaxConnections: int32(cfg.Workers) + 2})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("postgres connection ok")
		return postgres.New(pool), pool.Close, nil
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("mysql connection ok")
		return mysqlrepo.New(db, cfg.WriteBatchSize), func() { _ = db.Close() }, nil
	}
}
