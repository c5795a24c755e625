package fetcher

import "context"

// Source names used in logs and errors.
const (
	SourceMarketData   = "yahoo"
	SourceFundamentals = "screener"
)

// MarketDataFetcher retrieves a live quote snapshot for a market-data symbol.
type MarketDataFetcher interface {
	// FetchMarketData returns price and normalized market cap for symbol.
	// On error the returned MarketData is fully unavailable and still usable;
	// the error only describes why.
	FetchMarketData(ctx context.Context, symbol string) (MarketData, error)
}

// FundamentalsFetcher retrieves ratio and statement figures for a
// fundamentals-site identifier.
type FundamentalsFetcher interface {
	// FetchFundamentals follows the same contract as FetchMarketData: a
	// failed fetch yields unavailable fields plus a descriptive error.
	FetchFundamentals(ctx context.Context, identifier string) (Fundamentals, error)
}
