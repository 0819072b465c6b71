package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avelor/settler/internal/config"
	"github.com/avelor/settler/internal/engine"
	"github.com/avelor/settler/internal/ingest"
	"github.com/avelor/settler/internal/report"
	"github.com/avelor/settler/internal/version"
)

func main() {
	// The one positional argument is the input path. Tuning lives in the
	// environment (SETTLER_*), not in flags.
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <transactions.csv>\n", os.Args[0])
		os.Exit(1)
	}
	inputPath := os.Args[1]

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "settler: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries the report, so all logging goes to stderr.
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "settler: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting settler",
		"version", version.String(),
		"input", inputPath,
		"shards", cfg.Engine.Shards,
	)

	input, err := os.Open(inputPath)
	if err != nil {
		logger.Error("failed to open input", "error", err)
		os.Exit(1)
	}
	defer input.Close()

	eng, err := engine.New(engine.Config{
		Shards:        cfg.Engine.Shards,
		QueueCapacity: cfg.Engine.QueueCapacity,
	}, logger)
	if err != nil {
		logger.Error("failed to start engine", "error", err)
		os.Exit(1)
	}

	// SIGINT/SIGTERM cut the feed short; whatever is already queued still
	// drains and the report still covers it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	feedErr := feed(ctx, eng, input, logger)

	eng.InitiateShutdown()
	if err := eng.AwaitCompletion(context.Background()); err != nil {
		logger.Error("failed waiting for workers", "error", err)
		os.Exit(1)
	}

	stats := eng.Stats()
	logger.Info("engine drained",
		"routed", stats.Routed,
		"applied", stats.Applied,
		"failed", stats.Failed,
		"refused", stats.Refused,
	)

	w := report.NewWriter(os.Stdout, logger)
	if err := w.WriteAccounts(eng.SnapshotAccounts()); err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}

	if feedErr != nil {
		logger.Error("input feed failed", "error", feedErr)
		os.Exit(1)
	}

	logger.Info("settler finished")
}

// feed streams the input into the engine until EOF, cancellation or an
// unrecoverable read error. Bad records and rejected routes are logged and
// skipped; only an input-level failure is returned.
func feed(ctx context.Context, eng *engine.Engine, input io.Reader, logger *slog.Logger) error {
	r := ingest.NewReader(input)
	for {
		select {
		case <-ctx.Done():
			logger.Warn("input feed interrupted")
			return nil
		default:
		}

		tx, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var recErr *ingest.RecordError
		if errors.As(err, &recErr) {
			logger.Warn("skipping bad record",
				"record", recErr.Record,
				"error", recErr,
			)
			continue
		}
		if err != nil {
			return err
		}

		if err := eng.Route(tx); err != nil {
			logger.Warn("transaction not routed",
				"kind", tx.Kind.String(),
				"client", tx.ClientID,
				"tx", tx.TxID,
				"error", err,
			)
		}
	}
}
