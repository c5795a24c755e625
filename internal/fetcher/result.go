package fetcher

import "stockscraper/internal/metric"

// MarketData is the outcome of a market-data fetch for one row.
type MarketData struct {
	CurrentPrice metric.Value

	// MarketCap is the raw capitalization divided by 10,000,000 and
	// rounded to two decimals.
	MarketCap metric.Value
}

// Fundamentals is the outcome of a fundamentals fetch for one row.
type Fundamentals struct {
	PERatio         metric.Value
	InterestExpense metric.Value
}

// UnavailableMarketData returns a MarketData with every field unavailable.
func UnavailableMarketData() MarketData {
	return MarketData{
		CurrentPrice: metric.Unavailable(),
		MarketCap:    metric.Unavailable(),
	}
}

// UnavailableFundamentals returns a Fundamentals with every field unavailable.
func UnavailableFundamentals() Fundamentals {
	return Fundamentals{
		PERatio:         metric.Unavailable(),
		InterestExpense: metric.Unavailable(),
	}
}
