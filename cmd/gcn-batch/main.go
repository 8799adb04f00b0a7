package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/KhanhD1nh/compare-gcn/constants"
	"github.com/KhanhD1nh/compare-gcn/internal/cache"
	"github.com/KhanhD1nh/compare-gcn/internal/common"
	"github.com/KhanhD1nh/compare-gcn/internal/core"
	"github.com/KhanhD1nh/compare-gcn/internal/export"
	"github.com/KhanhD1nh/compare-gcn/internal/ingest"
	"github.com/KhanhD1nh/compare-gcn/internal/llm"
	"github.com/KhanhD1nh/compare-gcn/internal/pdf"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir     = flag.String("dir", "", "directory of certificate PDFs to process (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		workers = flag.Int("workers", 0, "concurrent workers (overrides GCN_MAX_WORKERS)")
		timeout = flag.Duration("timeout", 0, "per-file recognition timeout (overrides GCN_API_TIMEOUT)")
		llmURL  = flag.String("llm-url", "", "chat-completions endpoint URL (overrides GCN_LLM_URL)")
		model   = flag.String("model", "", "vision model name (overrides GCN_MODEL)")
		limit   = flag.Int("limit", 0, "process at most N files (0 = no limit)")
		noCache = flag.Bool("no-cache", false, "ignore the result cache and reprocess everything")
	)
	flag.Parse()

	// Validate required flags
	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	// If output file not specified, use parent directory with default filename
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, "gcn_comparison.xlsx")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Load configuration, then apply flag overrides
	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Batch.MaxWorkers = *workers
	}
	if *timeout > 0 {
		cfg.Recognition.Timeout = *timeout
	}
	if *llmURL != "" {
		cfg.Recognition.URL = *llmURL
	}
	if *model != "" {
		cfg.Recognition.Model = *model
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Open the result cache; a broken cache degrades to a full reprocess
	var store *cache.Store
	if cfg.Cache.Enabled {
		s, err := cache.Open(cfg.Cache.DBPath, logger)
		if err != nil {
			logger.Warn("cache unavailable, processing without it", "db_path", cfg.Cache.DBPath, "error", err)
		} else {
			store = s
			defer func() {
				if cerr := store.Close(); cerr != nil {
					logger.Warn("cache close failed", "error", cerr)
				}
			}()
		}
	}

	// Discover certificate PDFs
	files, err := ingest.FindCertificatePDFs(*dir, logger)
	if err != nil {
		logger.Error("directory scan failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if *limit > 0 {
		files = ingest.Limit(files, *limit)
	}
	if len(files) == 0 {
		fmt.Printf("No certificate PDFs found under %s\n", *dir)
		return
	}
	logger.Info("batch.start", "dir", *dir, "files", len(files), "workers", cfg.Batch.MaxWorkers)

	// Wire the pipeline
	renderer := pdf.NewRenderer(pdf.Config{
		Pdfinfo:  cfg.Render.Pdfinfo,
		Pdftoppm: cfg.Render.Pdftoppm,
		DPI:      cfg.Render.DPI,
	}, logger)
	recognizer := llm.NewClient(llm.Config{
		URL:         cfg.Recognition.URL,
		Model:       cfg.Recognition.Model,
		Temperature: cfg.Recognition.Temperature,
		Timeout:     cfg.Recognition.Timeout,
	}, logger)

	var resultCache core.ResultCache
	if store != nil {
		resultCache = store
	}
	processor := core.NewProcessor(logger, renderer, recognizer, resultCache)
	done := 0
	total := len(files)
	orchestrator := core.NewOrchestrator(processor, logger,
		core.WithWorkers(cfg.Batch.MaxWorkers),
		core.WithCache(store != nil && cfg.Cache.Enabled),
		core.WithResultHook(func(r core.Result) {
			done++
			fmt.Printf("[%d/%d] %s: %s\n", done, total, r.FileName, r.Status)
		}),
	)

	start := time.Now()
	results := orchestrator.RunBatch(ctx, core.NewTasks(files, cfg.Batch.MaxWorkers))
	summary := core.Summarize(results)

	logger.Info("batch.done",
		"total", summary.Total,
		"success", summary.PerStatus[constants.StatusSuccess],
		"cached", summary.PerStatus[constants.StatusCached],
		"skip", summary.PerStatus[constants.StatusSkip],
		"error", summary.PerStatus[constants.StatusError],
		"matches", summary.Matches,
		"mismatches", summary.Mismatches,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	// Export to XLSX
	xlsxBytes, err := export.ResultsXLSX(results, logger)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", summary.Total)
	fmt.Printf("- Matches: %d\n", summary.Matches)
	fmt.Printf("- Mismatches: %d\n", summary.Mismatches)
	fmt.Printf("- Skipped: %d\n", summary.PerStatus[constants.StatusSkip])
	fmt.Printf("- Errors: %d\n", summary.PerStatus[constants.StatusError])
	if summary.Accuracy != nil {
		fmt.Printf("- Accuracy: %.1f%%\n", *summary.Accuracy*100)
	}
	fmt.Printf("- Output: %s\n", *out)
}
