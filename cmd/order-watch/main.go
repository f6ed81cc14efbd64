package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/order-intake/internal/async"
	"github.com/joseph-ayodele/order-intake/internal/catalog"
	"github.com/joseph-ayodele/order-intake/internal/common"
	"github.com/joseph-ayodele/order-intake/internal/export"
	"github.com/joseph-ayodele/order-intake/internal/extract"
	"github.com/joseph-ayodele/order-intake/internal/ingest"
	"github.com/joseph-ayodele/order-intake/internal/pipeline"
	"github.com/joseph-ayodele/order-intake/internal/reconcile"
)

func main() {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	var (
		dir     = flag.String("dir", cfg.Intake.MessagesDir, "directory to watch for .txt messages")
		catPath = flag.String("catalog", cfg.Intake.CatalogPath, "product catalog file (.csv or .xlsx)")
		out     = flag.String("out", cfg.Intake.OutputDir, "output directory for the JSON documents")
		initial = flag.Bool("initial-scan", true, "process messages already present at startup")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The catalog is loaded once and shared read-only by all workers.
	snap, err := catalog.Load(*catPath, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog ready", "entries", snap.Len())

	exportService, err := export.NewService(logger)
	if err != nil {
		logger.Error("failed to build export service", "error", err)
		os.Exit(1)
	}
	store := export.NewStore(*out, exportService)

	processor := pipeline.NewProcessor(
		logger,
		extract.NewExtractor(extract.Config{ItemOrder: itemOrder(cfg.Intake.ItemOrder)}),
		reconcile.NewReconciler(snap, logger, reconcile.WithCutoff(cfg.Intake.MatchCutoff)),
	)
	queue := async.NewProcessorQueue(processor, store, logger,
		async.WithWorkers(cfg.Watch.Workers),
		async.WithQueueSize(cfg.Watch.QueueSize),
	)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:        *dir,
		InitialScan: *initial,
		Debounce:    cfg.Watch.Debounce,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for messages", "dir", *dir, "out", *out)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down...")
			drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			queue.Shutdown(drainCtx)
			cancel()
			logger.Info("stopped", "messages_processed", store.Size())
			fmt.Println("stopped.")
			return
		case path, ok := <-events:
			if !ok {
				continue
			}
			_ = queue.Enqueue(ctx, async.Job{
				Path:        path,
				SubmittedAt: time.Now(),
				TraceID:     uuid.NewString(),
			})
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Error("watch error", "error", err)
			}
		}
	}
}

func itemOrder(s string) extract.ItemOrder {
	if s == "document" {
		return extract.DocumentOrder
	}
	return extract.PatternOrder
}
