// Package yahoo reads live quote snapshots from the Yahoo Finance quoteSummary API.
package yahoo

import (
	"context"
	"encoding/json"
	"net/url"

	"go.uber.org/zap"
	"resty.dev/v3"

	"stockscraper/internal/fetcher"
	"stockscraper/internal/metric"
	"stockscraper/internal/ratelimit"
)

const (
	// DefaultBaseURL is the production quote API host.
	DefaultBaseURL = "https://query2.finance.yahoo.com"

	// marketCapDivisor converts rupees to crores.
	marketCapDivisor = 10_000_000
)

// rawField is a quoteSummary figure. Yahoo sends {} for figures it does not
// have, and Raw is left untyped so any other shape is treated as absent.
type rawField struct {
	Raw any    `json:"raw"`
	Fmt string `json:"fmt"`
}

// QuoteSummaryResponse represents the quoteSummary API response
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				CurrentPrice *rawField `json:"currentPrice"`
			} `json:"financialData"`
			Price struct {
				Symbol             string    `json:"symbol"`
				Currency           string    `json:"currency"`
				MarketCap          *rawField `json:"marketCap"`
				RegularMarketPrice *rawField `json:"regularMarketPrice"`
			} `json:"price"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteFetcher fetches live quote snapshots
type QuoteFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewQuoteFetcher creates a new quote snapshot fetcher
func NewQuoteFetcher(opts fetcher.ClientOptions, limiter *ratelimit.Limiter, logger *zap.Logger) *QuoteFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Accept == "" {
		opts.Accept = "application/json"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &QuoteFetcher{
		client:  fetcher.NewHTTPClient(opts, logger),
		limiter: limiter,
		logger:  logger,
	}
}

// FetchMarketData retrieves the current price and the market cap in crores
func (f *QuoteFetcher) FetchMarketData(ctx context.Context, symbol string) (fetcher.MarketData, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return fetcher.UnavailableMarketData(), fetcher.ClassifyTransportError(fetcher.SourceMarketData, err)
	}

	var result QuoteSummaryResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("modules", "financialData,price").
		Get("/v10/finance/quoteSummary/" + url.PathEscape(symbol))
	if err != nil {
		return fetcher.UnavailableMarketData(), fetcher.ClassifyTransportError(fetcher.SourceMarketData, err)
	}

	if !resp.IsSuccess() {
		return fetcher.UnavailableMarketData(), fetcher.ClassifyHTTPError(fetcher.SourceMarketData, resp.StatusCode())
	}

	if err := json.Unmarshal([]byte(resp.String()), &result); err != nil {
		return fetcher.UnavailableMarketData(), fetcher.NewParseError(fetcher.SourceMarketData, err)
	}

	if e := result.QuoteSummary.Error; e != nil {
		return fetcher.UnavailableMarketData(), fetcher.NewValidationError(fetcher.SourceMarketData, e.Code+": "+e.Description)
	}

	if len(result.QuoteSummary.Result) == 0 {
		return fetcher.UnavailableMarketData(), fetcher.NewValidationError(fetcher.SourceMarketData, "no quote found for "+symbol)
	}

	quote := result.QuoteSummary.Result[0]
	return fetcher.MarketData{
		CurrentPrice: fieldValue(quote.FinancialData.CurrentPrice),
		MarketCap:    NormalizeMarketCap(fieldValue(quote.Price.MarketCap)),
	}, nil
}

// fieldValue returns the raw number of a field, or unavailable when the
// field is absent or not numeric.
func fieldValue(field *rawField) metric.Value {
	if field == nil {
		return metric.Unavailable()
	}
	f, ok := field.Raw.(float64)
	if !ok {
		return metric.Unavailable()
	}
	return metric.Of(f)
}

// NormalizeMarketCap divides a raw market cap by 10,000,000 and rounds it to
// two decimals. Unavailable input stays unavailable.
func NormalizeMarketCap(raw metric.Value) metric.Value {
	f, ok := raw.Float()
	if !ok {
		return metric.Unavailable()
	}
	return metric.Of(metric.Round(f/marketCapDivisor, 2))
}
