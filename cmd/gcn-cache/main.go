// Command gcn-cache inspects and maintains the persistent result cache used
// by gcn-batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/KhanhD1nh/compare-gcn/internal/cache"
	"github.com/KhanhD1nh/compare-gcn/internal/common"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func usage() {
	printError("Usage: gcn-cache [--db PATH] <stats|clear|remove FILE>\n")
	os.Exit(1)
}

func main() {
	dbPath := flag.String("db", "", "cache database path (overrides GCN_CACHE_DB)")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg := common.LoadConfig()
	path := cfg.Cache.DBPath
	if *dbPath != "" {
		path = *dbPath
	}

	store, err := cache.Open(path, logger)
	if err != nil {
		printError("Error: cannot open cache %s: %v\n", path, err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	switch flag.Arg(0) {
	case "stats":
		stats, err := store.CacheStats(ctx)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cache: %s\n", path)
		fmt.Printf("- Entries: %d\n", stats.Total)
		for status, n := range stats.PerStatus {
			fmt.Printf("- %s: %d\n", status, n)
		}

	case "clear":
		if err := store.Clear(ctx); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cache cleared.")

	case "remove":
		if flag.NArg() < 2 {
			printError("Error: remove requires a file path\n")
			os.Exit(1)
		}
		file := flag.Arg(1)
		fp := cache.Fingerprint(file)
		if err := store.Remove(ctx, fp); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed cache entry for %s\n", file)

	default:
		usage()
	}
}
