package testutil

import (
	"context"
	"sync"

	"stockscraper/internal/fetcher"
	"stockscraper/internal/metric"
)

// MockMarketData is a mock implementation of fetcher.MarketDataFetcher for testing
type MockMarketData struct {
	FetchFunc func(ctx context.Context, symbol string) (fetcher.MarketData, error)

	mu    sync.Mutex
	calls []string
}

// FetchMarketData implements fetcher.MarketDataFetcher
func (m *MockMarketData) FetchMarketData(ctx context.Context, symbol string) (fetcher.MarketData, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return fetcher.UnavailableMarketData(), nil
}

// Calls returns the symbols requested so far, in order
func (m *MockMarketData) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockFundamentals is a mock implementation of fetcher.FundamentalsFetcher for testing
type MockFundamentals struct {
	FetchFunc func(ctx context.Context, identifier string) (fetcher.Fundamentals, error)

	mu    sync.Mutex
	calls []string
}

// FetchFundamentals implements fetcher.FundamentalsFetcher
func (m *MockFundamentals) FetchFundamentals(ctx context.Context, identifier string) (fetcher.Fundamentals, error) {
	m.mu.Lock()
	m.calls = append(m.calls, identifier)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, identifier)
	}
	return fetcher.UnavailableFundamentals(), nil
}

// Calls returns the identifiers requested so far, in order
func (m *MockFundamentals) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewMockMarketData creates a mock that always returns the given price and market cap
func NewMockMarketData(price, marketCap float64, err error) *MockMarketData {
	return &MockMarketData{
		FetchFunc: func(ctx context.Context, symbol string) (fetcher.MarketData, error) {
			if err != nil {
				return fetcher.UnavailableMarketData(), err
			}
			return fetcher.MarketData{
				CurrentPrice: metric.Of(price),
				MarketCap:    metric.Of(marketCap),
			}, nil
		},
	}
}

// NewMockFundamentals creates a mock that always returns the given P/E and interest
func NewMockFundamentals(pe, interest float64, err error) *MockFundamentals {
	return &MockFundamentals{
		FetchFunc: func(ctx context.Context, identifier string) (fetcher.Fundamentals, error) {
			if err != nil {
				return fetcher.UnavailableFundamentals(), err
			}
			return fetcher.Fundamentals{
				PERatio:         metric.Of(pe),
				InterestExpense: metric.Of(interest),
			}, nil
		},
	}
}
