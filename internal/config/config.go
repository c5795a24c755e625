package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stockscraper/internal/symbol"
)

// Config holds all configuration for the stock scraper.
type Config struct {
	// Files
	InputFile  string `mapstructure:"input_file"`
	OutputFile string `mapstructure:"output_file"`

	// Base URLs for the data sources (configurable for testing)
	YahooBaseURL    string `mapstructure:"yahoo_base_url"`
	ScreenerBaseURL string `mapstructure:"screener_base_url"`

	// Request behaviour
	UserAgent         string        `mapstructure:"user_agent"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RowDelay          time.Duration `mapstructure:"row_delay"`
	YahooRateLimit    float64       `mapstructure:"yahoo_rate_limit"`
	ScreenerRateLimit float64       `mapstructure:"screener_rate_limit"`

	// Symbol resolution
	ExchangeSuffix  string                    `mapstructure:"exchange_suffix"`
	SymbolOverrides map[string]symbol.Mapping `mapstructure:"symbol_overrides"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file. Environment variables take precedence over
// config file values.
//
// Recognised environment variables:
//   - INPUT_FILE (required unless passed on the command line)
//   - OUTPUT_FILE
//   - YAHOO_BASE_URL, SCREENER_BASE_URL
//   - USER_AGENT, REQUEST_TIMEOUT, ROW_DELAY
//   - YAHOO_RATE_LIMIT, SCREENER_RATE_LIMIT
//   - EXCHANGE_SUFFIX
//   - LOG_LEVEL, LOG_FORMAT
//
// Symbol overrides can only be given in the config file.
func Load(args ...string) (*Config, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("output_file", "stocks_updated.xlsx")
	v.SetDefault("yahoo_base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("screener_base_url", "https://www.screener.in")
	v.SetDefault("user_agent", "Mozilla/5.0")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("row_delay", "1s")
	v.SetDefault("yahoo_rate_limit", 2.0)
	v.SetDefault("screener_rate_limit", 1.0)
	v.SetDefault("exchange_suffix", symbol.DefaultExchangeSuffix)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockscraper")
	_ = v.ReadInConfig()

	for _, key := range []string{
		"input_file", "output_file",
		"yahoo_base_url", "screener_base_url",
		"user_agent", "request_timeout", "row_delay",
		"yahoo_rate_limit", "screener_rate_limit",
		"exchange_suffix", "log_level", "log_format",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Positional arguments: [input] [output]
	if len(args) > 0 && args[0] != "" {
		v.Set("input_file", args[0])
	}
	if len(args) > 1 && args[1] != "" {
		v.Set("output_file", args[1])
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.InputFile == "" {
		missing = append(missing, "INPUT_FILE")
	}
	if c.OutputFile == "" {
		missing = append(missing, "OUTPUT_FILE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid configuration: REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RowDelay < 0 {
		return fmt.Errorf("invalid configuration: ROW_DELAY must not be negative, got %s", c.RowDelay)
	}
	if c.YahooRateLimit < 0 || c.ScreenerRateLimit < 0 {
		return fmt.Errorf("invalid configuration: rate limits must not be negative")
	}
	return nil
}
