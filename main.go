package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stockscraper/internal/config"
	"stockscraper/internal/coordinator"
	"stockscraper/internal/fetcher"
	"stockscraper/internal/logging"
	"stockscraper/internal/ratelimit"
	"stockscraper/internal/screener"
	"stockscraper/internal/symbol"
	"stockscraper/internal/table"
	"stockscraper/internal/yahoo"
)

func main() {
	// Load configuration; positional arguments are [input] [output]
	cfg, err := config.Load(os.Args[1:]...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Run failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Interrupts cancel in-flight requests; remaining rows then degrade quickly
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Received interrupt signal, shutting down...")
		cancel()
	}()

	input, err := table.ReadFile(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	limiter := ratelimit.New(map[ratelimit.API]float64{
		ratelimit.APIYahoo:    cfg.YahooRateLimit,
		ratelimit.APIScreener: cfg.ScreenerRateLimit,
	})

	market := yahoo.NewQuoteFetcher(fetcher.ClientOptions{
		BaseURL:   cfg.YahooBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	}, limiter, logger.Named("yahoo"))

	fundamentals := screener.NewFundamentalsFetcher(fetcher.ClientOptions{
		BaseURL:   cfg.ScreenerBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	}, limiter, logger.Named("screener"))

	coord := coordinator.New(
		symbol.NewResolver(cfg.SymbolOverrides, cfg.ExchangeSuffix),
		market,
		fundamentals,
		coordinator.WithRowDelay(cfg.RowDelay),
		coordinator.WithLogger(logger),
		coordinator.WithProgress(func(f float64) {
			logger.Debug("progress", zap.String("done", fmt.Sprintf("%.0f%%", f*100)))
		}),
	)

	logger.Info("Processing stocks", zap.String("input", cfg.InputFile), zap.Int("rows", len(input.Rows)))
	batch, err := coord.Run(ctx, input)
	if err != nil {
		return err
	}

	if len(batch.Results) == 0 {
		logger.Warn("No stocks to write")
		return nil
	}

	if err := table.WriteFile(cfg.OutputFile, batch.Columns(), batch.Records()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("Analysis complete", zap.String("output", cfg.OutputFile), zap.Int("stocks", len(batch.Results)))
	return nil
}
