package fetcher

import (
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	// DefaultTimeout bounds every request to a remote source.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is a browser-like identifier; the fundamentals site
	// rejects requests without one.
	DefaultUserAgent = "Mozilla/5.0"
)

// ClientOptions configures a source HTTP client.
type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Accept    string
	Timeout   time.Duration
}

// NewHTTPClient creates a resty client for one source. Requests are never
// retried; a failed request degrades that row's fields instead.
func NewHTTPClient(opts ClientOptions, logger *zap.Logger) *resty.Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("User-Agent", opts.UserAgent).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
			logger.Debug("source response",
				zap.Any("url", resp.Request.URL),
				zap.Int("status_code", resp.StatusCode()))
			return nil
		})

	if opts.Accept != "" {
		client.SetHeader("Accept", opts.Accept)
	}

	return client
}
