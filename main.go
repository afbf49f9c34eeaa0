package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"financeimporter/internal/alphavantage"
	"financeimporter/internal/config"
	"financeimporter/internal/coordinator"
	"financeimporter/internal/datasource"
	"financeimporter/internal/importer"
	"financeimporter/internal/ratelimit"
	"financeimporter/internal/yahoo"
)

// source is a DataSource holding network resources
type source interface {
	datasource.DataSource
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	src, err := buildSource(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create %s source: %v", cfg.Source, err)
	}
	defer src.Close()

	imp, err := importer.New(src)
	if err != nil {
		log.Fatalf("Failed to create importer: %v", err)
	}

	if cfg.ClearCache {
		if err := imp.ClearCache(ctx); err != nil {
			log.Fatalf("Failed to clear cache: %v", err)
		}
	}

	coord := coordinator.New(imp, buildJobs(cfg, time.Now()))

	// Add timeout to prevent hanging indefinitely
	runCtx, runCancel := context.WithTimeout(ctx, 30*time.Second)
	defer runCancel()

	fmt.Printf("Importing market data from %s...\n", src.Name())
	fmt.Println("================================================")
	if _, err := coord.Run(runCtx, os.Stdout); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Println("================================================")
	fmt.Println("All imports completed!")
}

// buildSource creates the configured provider adapter
func buildSource(cfg *config.Config, logger *slog.Logger) (source, error) {
	switch cfg.Source {
	case config.SourceAlphaVantage:
		opts := []alphavantage.Option{
			alphavantage.WithBaseURL(cfg.AlphavantageBaseURL),
			alphavantage.WithCacheDir(cfg.AlphavantageCacheDir),
			alphavantage.WithTimeout(cfg.HTTPTimeout),
			alphavantage.WithLogger(logger),
		}
		if cfg.AlphavantageRequestsPerMinute > 0 {
			limiter := ratelimit.New()
			limiter.SetPerMinute(ratelimit.APIAlphaVantage, cfg.AlphavantageRequestsPerMinute, 1)
			opts = append(opts, alphavantage.WithLimiter(limiter))
		}
		src, err := alphavantage.New(cfg.AlphavantageAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceYahoo:
		src, err := yahoo.New(
			yahoo.WithBaseURL(cfg.YahooBaseURL),
			yahoo.WithCacheDir(cfg.CacheDir),
			yahoo.WithTimeout(cfg.HTTPTimeout),
			yahoo.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// buildJobs turns the configured symbols into one job each
func buildJobs(cfg *config.Config, now time.Time) []coordinator.Job {
	start, end := cfg.DateRange(now)

	jobs := make([]coordinator.Job, 0, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		jobs = append(jobs, coordinator.Job{
			Symbol:       symbol,
			Start:        start,
			End:          end,
			Fundamentals: cfg.Fundamentals,
		})
	}
	return jobs
}
