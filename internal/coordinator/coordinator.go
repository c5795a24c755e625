package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockscraper/internal/fetcher"
	"stockscraper/internal/symbol"
	"stockscraper/internal/table"
)

// DefaultRowDelay is the pause after each row, for the fundamentals site's sake.
const DefaultRowDelay = time.Second

// ProgressFunc receives the fraction of input rows handled so far.
type ProgressFunc func(fraction float64)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRowDelay sets the pause applied after every processed row.
func WithRowDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		c.delay = d
	}
}

// WithSleep replaces the function used to pause between rows.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Coordinator) {
		c.sleep = sleep
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Coordinator) {
		c.progress = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// Coordinator runs each input row through symbol resolution and both data
// sources, one row at a time, and collects the results in input order.
type Coordinator struct {
	resolver     *symbol.Resolver
	market       fetcher.MarketDataFetcher
	fundamentals fetcher.FundamentalsFetcher

	delay    time.Duration
	sleep    func(time.Duration)
	progress ProgressFunc
	logger   *zap.Logger
}

// New creates a new Coordinator with the given resolver and sources
func New(resolver *symbol.Resolver, market fetcher.MarketDataFetcher, fundamentals fetcher.FundamentalsFetcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		resolver:     resolver,
		market:       market,
		fundamentals: fundamentals,
		delay:        DefaultRowDelay,
		sleep:        time.Sleep,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes every row of the dataset sequentially.
//
// The only error Run returns is a structural one: a dataset that lacks the
// stock-name column is rejected before any row is touched. Per-row source
// failures are logged as warnings and surface as unavailable fields.
//
// Rows whose stock name is blank are skipped and produce no result. After
// each processed row Run sleeps for the configured delay; the pause is not
// interrupted by ctx.
func (c *Coordinator) Run(ctx context.Context, data *table.Dataset) (*Batch, error) {
	if c.resolver == nil || c.market == nil || c.fundamentals == nil {
		return nil, fmt.Errorf("coordinator is missing a resolver or data source")
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}

	batch := &Batch{
		inputColumns: append([]string(nil), data.Columns...),
	}
	total := len(data.Rows)

	for i, row := range data.Rows {
		name := strings.TrimSpace(row[table.StockNameColumn])
		if name == "" {
			batch.Skipped++
			c.logger.Debug("skipping row without stock name", zap.Int("row", i+1))
			c.reportProgress(i+1, total)
			continue
		}

		result := c.processRow(ctx, i+1, name, row)
		batch.Results = append(batch.Results, result)

		c.reportProgress(i+1, total)

		if c.delay > 0 {
			c.sleep(c.delay)
		}
	}

	c.logger.Info("batch complete",
		zap.Int("rows", total),
		zap.Int("processed", len(batch.Results)),
		zap.Int("skipped", batch.Skipped),
		zap.Int("degraded_fields", batch.DegradedFields()))

	return batch, nil
}

// processRow resolves symbols, queries both sources and merges the outcome
// with the original columns. The two fetches are isolated: an error from
// one never affects the other's fields.
func (c *Coordinator) processRow(ctx context.Context, index int, name string, row table.Row) Result {
	resolved := c.resolver.Resolve(name)

	log := c.logger.With(
		zap.Int("row", index),
		zap.String("stock", symbol.Canonical(name)),
	)
	log.Info("processing stock",
		zap.String("symbol", resolved.MarketDataSymbol),
		zap.String("identifier", resolved.FundamentalsIdentifier),
		zap.Bool("override", c.resolver.IsOverride(name)))

	market, err := c.market.FetchMarketData(ctx, resolved.MarketDataSymbol)
	if err != nil {
		log.Warn("market data unavailable", sourceFields(fetcher.SourceMarketData, resolved.MarketDataSymbol, err)...)
		market = fetcher.UnavailableMarketData()
	}

	fundamentals, err := c.fundamentals.FetchFundamentals(ctx, resolved.FundamentalsIdentifier)
	if err != nil {
		log.Warn("fundamentals unavailable", sourceFields(fetcher.SourceFundamentals, resolved.FundamentalsIdentifier, err)...)
		fundamentals = fetcher.UnavailableFundamentals()
	}

	return newResult(row, resolved.MarketDataSymbol, market, fundamentals)
}

func sourceFields(source, key string, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("source", source),
		zap.String("key", key),
		zap.Error(err),
	}
	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		fields = append(fields, zap.String("error_type", string(fe.Type)))
		if fe.StatusCode > 0 {
			fields = append(fields, zap.Int("status_code", fe.StatusCode))
		}
	}
	return fields
}

func (c *Coordinator) reportProgress(done, total int) {
	if c.progress == nil || total == 0 {
		return
	}
	c.progress(float64(done) / float64(total))
}
