package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnvVars = []string{
	"INPUT_FILE", "OUTPUT_FILE",
	"YAHOO_BASE_URL", "SCREENER_BASE_URL",
	"USER_AGENT", "REQUEST_TIMEOUT", "ROW_DELAY",
	"YAHOO_RATE_LIMIT", "SCREENER_RATE_LIMIT",
	"EXCHANGE_SUFFIX", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv runs the test from an empty directory with no scraper variables set.
func clearEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range allEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)

	envVars := map[string]string{
		"INPUT_FILE":          "stocks.xlsx",
		"OUTPUT_FILE":         "out.csv",
		"YAHOO_BASE_URL":      "https://test.yahoo.local",
		"SCREENER_BASE_URL":   "https://test.screener.local",
		"USER_AGENT":          "Mozilla/5.0 (X11)",
		"REQUEST_TIMEOUT":     "3s",
		"ROW_DELAY":           "250ms",
		"YAHOO_RATE_LIMIT":    "5",
		"SCREENER_RATE_LIMIT": "0.5",
		"EXCHANGE_SUFFIX":     ".BO",
		"LOG_LEVEL":           "debug",
		"LOG_FORMAT":          "json",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"InputFile", cfg.InputFile, "stocks.xlsx"},
		{"OutputFile", cfg.OutputFile, "out.csv"},
		{"YahooBaseURL", cfg.YahooBaseURL, "https://test.yahoo.local"},
		{"ScreenerBaseURL", cfg.ScreenerBaseURL, "https://test.screener.local"},
		{"UserAgent", cfg.UserAgent, "Mozilla/5.0 (X11)"},
		{"ExchangeSuffix", cfg.ExchangeSuffix, ".BO"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"LogFormat", cfg.LogFormat, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.RowDelay != 250*time.Millisecond {
		t.Errorf("RowDelay = %v, want 250ms", cfg.RowDelay)
	}
	if cfg.YahooRateLimit != 5 {
		t.Errorf("YahooRateLimit = %v, want 5", cfg.YahooRateLimit)
	}
	if cfg.ScreenerRateLimit != 0.5 {
		t.Errorf("ScreenerRateLimit = %v, want 0.5", cfg.ScreenerRateLimit)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FILE", "stocks.xlsx")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"OutputFile", cfg.OutputFile, "stocks_updated.xlsx"},
		{"YahooBaseURL", cfg.YahooBaseURL, "https://query2.finance.yahoo.com"},
		{"ScreenerBaseURL", cfg.ScreenerBaseURL, "https://www.screener.in"},
		{"UserAgent", cfg.UserAgent, "Mozilla/5.0"},
		{"ExchangeSuffix", cfg.ExchangeSuffix, ".NS"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}

	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.RowDelay != time.Second {
		t.Errorf("RowDelay = %v, want 1s", cfg.RowDelay)
	}
}

func TestLoad_PositionalArgsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FILE", "from-env.xlsx")

	cfg, err := Load("from-args.csv", "result.csv")
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.InputFile != "from-args.csv" {
		t.Errorf("InputFile = %q, want from-args.csv", cfg.InputFile)
	}
	if cfg.OutputFile != "result.csv" {
		t.Errorf("OutputFile = %q, want result.csv", cfg.OutputFile)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}

	if !strings.Contains(err.Error(), "missing required configuration") || !strings.Contains(err.Error(), "INPUT_FILE") {
		t.Errorf("Load() error = %q, want error naming INPUT_FILE", err.Error())
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErrText string
	}{
		{
			name:        "zero timeout",
			env:         map[string]string{"REQUEST_TIMEOUT": "0s"},
			wantErrText: "REQUEST_TIMEOUT",
		},
		{
			name:        "negative delay",
			env:         map[string]string{"ROW_DELAY": "-1s"},
			wantErrText: "ROW_DELAY",
		},
		{
			name:        "negative rate limit",
			env:         map[string]string{"SCREENER_RATE_LIMIT": "-2"},
			wantErrText: "rate limits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("INPUT_FILE", "stocks.xlsx")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrText) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrText)
			}
		})
	}
}

func TestLoad_SymbolOverridesFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_FILE", "stocks.xlsx")

	yaml := `symbol_overrides:
  RELIANCE:
    yfinance: RELIANCE.NS
    screener_name: RELIANCE
  bajaj finance:
    yfinance: BAJFINANCE.NS
    screener_name: BAJFINANCE
row_delay: 2s
`
	if err := os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.RowDelay != 2*time.Second {
		t.Errorf("RowDelay = %v, want 2s", cfg.RowDelay)
	}
	if len(cfg.SymbolOverrides) != 2 {
		t.Fatalf("len(SymbolOverrides) = %d, want 2", len(cfg.SymbolOverrides))
	}

	// viper lowercases map keys; the resolver canonicalizes them again.
	m, ok := cfg.SymbolOverrides["bajaj finance"]
	if !ok {
		t.Fatalf("SymbolOverrides missing %q: %+v", "bajaj finance", cfg.SymbolOverrides)
	}
	if m.MarketDataSymbol != "BAJFINANCE.NS" || m.FundamentalsIdentifier != "BAJFINANCE" {
		t.Errorf("override = %+v, want BAJFINANCE.NS/BAJFINANCE", m)
	}
}
