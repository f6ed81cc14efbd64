package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/order-intake/internal/catalog"
	"github.com/joseph-ayodele/order-intake/internal/common"
	"github.com/joseph-ayodele/order-intake/internal/export"
	"github.com/joseph-ayodele/order-intake/internal/extract"
	"github.com/joseph-ayodele/order-intake/internal/ingest"
	"github.com/joseph-ayodele/order-intake/internal/pipeline"
	"github.com/joseph-ayodele/order-intake/internal/reconcile"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Optional .env for local runs; flags and env still win.
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	var (
		dir     = flag.String("dir", cfg.Intake.MessagesDir, "directory of .txt purchase-request messages")
		catPath = flag.String("catalog", cfg.Intake.CatalogPath, "product catalog file (.csv or .xlsx)")
		out     = flag.String("out", cfg.Intake.OutputDir, "output directory for the JSON documents")
		xlsxOut = flag.String("xlsx", "", "optional XLSX order-summary output path")
		order   = flag.String("order", cfg.Intake.ItemOrder, "line-item ordering: pattern or document")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *catPath == "" {
		printError("Error: --catalog is required\n")
		os.Exit(1)
	}

	itemOrder := extract.PatternOrder
	switch *order {
	case "pattern":
	case "document":
		itemOrder = extract.DocumentOrder
	default:
		printError("Error: --order must be pattern or document\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	batchID := uuid.New()
	logger.Info("starting batch", "batch_id", batchID, "dir", *dir, "catalog", *catPath)

	// Catalog snapshot: loaded once, read-only for the rest of the run.
	snap, err := catalog.Load(*catPath, logger)
	if err != nil {
		logger.Error("failed to load catalog", "batch_id", batchID, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog ready", "batch_id", batchID, "entries", snap.Len())

	// Ingest messages. Unreadable files are reported, never fatal.
	msgs, results, stats, err := ingest.ScanDirectory(*dir, logger)
	if err != nil {
		logger.Error("failed to scan messages directory", "batch_id", batchID, "error", err)
		os.Exit(1)
	}
	var failed []string
	for _, r := range results {
		if r.Err != "" {
			failed = append(failed, r.ID)
		}
	}

	// Extract and reconcile.
	processor := pipeline.NewProcessor(
		logger,
		extract.NewExtractor(extract.Config{ItemOrder: itemOrder}),
		reconcile.NewReconciler(snap, logger, reconcile.WithCutoff(cfg.Intake.MatchCutoff)),
	)
	res := processor.ProcessAll(msgs)

	// Write outputs.
	exportService, err := export.NewService(logger)
	if err != nil {
		logger.Error("failed to build export service", "batch_id", batchID, "error", err)
		os.Exit(1)
	}
	if err := exportService.WriteBatch(*out, res); err != nil {
		logger.Error("failed to write batch output", "batch_id", batchID, "error", err)
		os.Exit(1)
	}
	if *xlsxOut != "" {
		if err := exportService.WriteSummariesXLSX(*xlsxOut, res.Summaries); err != nil {
			logger.Error("failed to write XLSX summary", "batch_id", batchID, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch complete",
		"batch_id", batchID,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"processed", len(msgs),
		"failed", len(failed),
		"output_dir", *out,
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Messages processed: %d\n", len(msgs))
	fmt.Printf("- Failures: %d\n", len(failed))
	for _, id := range failed {
		fmt.Printf("  - failed: %s\n", id)
	}
	fmt.Printf("- Output: %s\n", *out)
}
