// Package screener fetches company pages from the fundamentals site and
// extracts ratio and statement figures from them.
package screener

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"resty.dev/v3"

	"stockscraper/internal/fetcher"
	"stockscraper/internal/ratelimit"
)

// DefaultBaseURL is the production fundamentals site.
const DefaultBaseURL = "https://www.screener.in"

// FundamentalsFetcher retrieves consolidated company pages.
type FundamentalsFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewFundamentalsFetcher creates a fetcher for the site at opts.BaseURL.
func NewFundamentalsFetcher(opts fetcher.ClientOptions, limiter *ratelimit.Limiter, logger *zap.Logger) *FundamentalsFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Accept == "" {
		opts.Accept = "text/html"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FundamentalsFetcher{
		client:  fetcher.NewHTTPClient(opts, logger),
		limiter: limiter,
		logger:  logger,
	}
}

// PagePath returns the consolidated company page path for an identifier.
// Spaces become hyphens and ampersands are percent-encoded.
func PagePath(identifier string) string {
	slug := strings.ReplaceAll(identifier, " ", "-")
	slug = strings.ReplaceAll(slug, "&", "%26")
	return "/company/" + slug + "/consolidated/"
}

// FetchFundamentals retrieves the company page and extracts P/E and the
// latest interest expense. Any failure leaves both fields unavailable.
func (f *FundamentalsFetcher) FetchFundamentals(ctx context.Context, identifier string) (fetcher.Fundamentals, error) {
	doc, err := f.fetchPage(ctx, identifier)
	if err != nil {
		return fetcher.UnavailableFundamentals(), err
	}

	pe, interest := ExtractFundamentals(doc)
	if !pe.Available() {
		f.logger.Info("field not found on page", zap.String("identifier", identifier), zap.String("field", PERatioLabel))
	}
	if !interest.Available() {
		f.logger.Info("field not found on page", zap.String("identifier", identifier), zap.String("field", InterestLabel))
	}

	return fetcher.Fundamentals{
		PERatio:         pe,
		InterestExpense: interest,
	}, nil
}

func (f *FundamentalsFetcher) fetchPage(ctx context.Context, identifier string) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIScreener); err != nil {
		return nil, fetcher.ClassifyTransportError(fetcher.SourceFundamentals, err)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get(PagePath(identifier))
	if err != nil {
		return nil, fetcher.ClassifyTransportError(fetcher.SourceFundamentals, err)
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(fetcher.SourceFundamentals, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fetcher.NewParseError(fetcher.SourceFundamentals, err)
	}

	return doc, nil
}
