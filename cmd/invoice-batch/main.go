package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/einvoice-tools/extractor/internal/async"
	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/document"
	"github.com/einvoice-tools/extractor/internal/export"
	"github.com/einvoice-tools/extractor/internal/extract"
	"github.com/einvoice-tools/extractor/internal/ingest"
	"github.com/einvoice-tools/extractor/internal/pipeline"
	repo "github.com/einvoice-tools/extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir   = flag.String("dir", "", "directory to process documents from (required)")
		out   = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		dsn   = flag.String("store", "", "archive DSN (optional, overrides STORE_DSN)")
		watch = flag.Bool("watch", false, "keep running and process files as they appear")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, "invoices.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load() // best-effort; a missing .env is not an error

	cfg := common.LoadConfig()
	if *dsn != "" {
		cfg.Store.DSN = *dsn
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := repo.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open archive", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Wire repositories and the pipeline
	docsRepo := repo.NewDocumentRepository(store, logger)
	jobsRepo := repo.NewExtractJobRepository(store, logger)
	recordsRepo := repo.NewRecordRepository(store, logger)

	decoder := document.NewFileDecoder(logger)
	extractor := extract.NewExtractor(cfg.Batch.TaxRate, logger)
	processor := pipeline.NewProcessor(decoder, extractor, jobsRepo, recordsRepo, logger)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Batch.Workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.ProcessTimeout),
	)

	ingestor := ingest.NewFSIngestor(docsRepo, logger)

	// Ingest directory
	logger.Info("starting ingestion", "dir", *dir)
	results, stats, err := ingestor.IngestDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated)

	enqueued := 0
	for _, r := range results {
		if r.Err != "" || r.Deduplicated {
			continue
		}
		docID, err := uuid.Parse(r.DocumentID)
		if err != nil {
			logger.Error("failed to parse document ID", "document_id", r.DocumentID, "error", err)
			continue
		}
		if err := queue.Enqueue(ctx, async.Job{
			DocumentID:  docID,
			SourcePath:  r.SourcePath,
			SubmittedAt: time.Now(),
		}); err != nil {
			logger.Error("enqueue failed", "document_id", r.DocumentID, "error", err)
			continue
		}
		enqueued++
	}

	if *watch {
		runWatch(ctx, cfg, ingestor, queue, logger)
	}

	// Drain the queue before exporting
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	queue.Shutdown(shutdownCtx)
	cancel()
	succeeded, failed := queue.Stats()

	// Export to XLSX
	logger.Info("exporting to XLSX", "output", *out)
	exportService := export.NewService(recordsRepo, cfg.Export.SheetName, logger)
	xlsxBytes, err := exportService.ExportRecordsXLSX(context.Background())
	if err != nil {
		logger.Error("failed to export records", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"enqueued", enqueued,
		"processed", succeeded,
		"failures", failed,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents enqueued: %d\n", enqueued)
	fmt.Printf("- Documents processed: %d\n", succeeded)
	fmt.Printf("- Failures: %d\n", failed)
	fmt.Printf("- Output: %s\n", *out)
}

// runWatch keeps enqueueing documents as they appear under --dir until
// the process is interrupted.
func runWatch(ctx context.Context, cfg *common.Config, ingestor *ingest.FSIngestor, queue *async.ProcessorQueue, logger *slog.Logger) {
	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    flagDirRoots(),
		Debounce: cfg.Batch.WatchDebounce,
	})
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		return
	}
	logger.Info("watching for new documents")

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
		case path, ok := <-evCh:
			if !ok {
				return
			}
			r, err := ingestor.IngestPath(ctx, path)
			if err != nil {
				logger.Error("watch ingest failed", "path", path, "error", err)
				continue
			}
			if r.Deduplicated {
				logger.Info("skipping duplicate", "path", path)
				continue
			}
			docID, err := uuid.Parse(r.DocumentID)
			if err != nil {
				logger.Error("failed to parse document ID", "document_id", r.DocumentID, "error", err)
				continue
			}
			_ = queue.Enqueue(ctx, async.Job{
				DocumentID:  docID,
				SourcePath:  r.SourcePath,
				SubmittedAt: time.Now(),
			})
		}
	}
}

func flagDirRoots() []string {
	if f := flag.Lookup("dir"); f != nil {
		return []string{f.Value.String()}
	}
	return nil
}
