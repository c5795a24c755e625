package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status   int
		wantType ErrorType
	}{
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServer},
		{503, ErrorTypeServer},
		{404, ErrorTypeClient},
		{403, ErrorTypeClient},
		{302, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := ClassifyHTTPError(SourceFundamentals, tt.status)
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if !strings.HasPrefix(err.Error(), "screener ") {
				t.Errorf("Error() = %q, want source prefix", err.Error())
			}
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	timeout := ClassifyTransportError(SourceMarketData, fmt.Errorf("get: %w", context.DeadlineExceeded))
	if timeout.Type != ErrorTypeTimeout {
		t.Errorf("Type = %q, want %q", timeout.Type, ErrorTypeTimeout)
	}
	if !errors.Is(timeout, context.DeadlineExceeded) {
		t.Error("timeout error does not unwrap to context.DeadlineExceeded")
	}

	refused := ClassifyTransportError(SourceMarketData, errors.New("connection refused"))
	if refused.Type != ErrorTypeNetwork {
		t.Errorf("Type = %q, want %q", refused.Type, ErrorTypeNetwork)
	}
}

func TestFetchError_AsFromWrapped(t *testing.T) {
	err := fmt.Errorf("row 3: %w", NewValidationError(SourceMarketData, "no quote in response"))

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatal("errors.As() failed to find FetchError")
	}
	if fe.Source != SourceMarketData {
		t.Errorf("Source = %q, want %q", fe.Source, SourceMarketData)
	}
	if got := fe.Error(); got != "yahoo validation error: no quote in response" {
		t.Errorf("Error() = %q", got)
	}
}
