package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_sentiment/internal/adapters/observability"
	"hotel_sentiment/internal/shared"
)

func main() {
	cfg := shared.Load()

	// stdout carries results for some commands; logs go to stderr
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv)

	rootCmd := &cobra.Command{
		Use:           "scorer",
		Short:         "Score hotel reviews and rebuild per-hotel sentiment summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd(cfg), newFileCmd(cfg), newTextCmd(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
