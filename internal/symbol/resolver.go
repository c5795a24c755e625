// Package symbol maps free-text stock names to the identifiers each data
// source understands.
package symbol

import (
	"strings"
	"unicode"
)

// DefaultExchangeSuffix is appended to unmapped names to form a market-data symbol.
const DefaultExchangeSuffix = ".NS"

// Mapping is an override entry for a single stock.
type Mapping struct {
	MarketDataSymbol       string `mapstructure:"yfinance"`
	FundamentalsIdentifier string `mapstructure:"screener_name"`
}

// Resolved is the pair of identifiers used for one row.
type Resolved struct {
	MarketDataSymbol       string
	FundamentalsIdentifier string
}

// DefaultOverrides returns the built-in override table.
func DefaultOverrides() map[string]Mapping {
	return map[string]Mapping{
		"INFOSYS": {MarketDataSymbol: "INFY.NS", FundamentalsIdentifier: "INFOSYS"},
		"HDFC":    {MarketDataSymbol: "HDFCBANK.NS", FundamentalsIdentifier: "HDFCBANK"},
		"L&T":     {MarketDataSymbol: "LT.NS", FundamentalsIdentifier: "LT"},
	}
}

// Resolver looks names up in an immutable override table and falls back to
// a deterministic rule for everything else.
type Resolver struct {
	overrides map[string]Mapping
	suffix    string
}

// NewResolver builds a resolver from the built-in table with extra entries
// layered on top. Keys are canonicalized, so callers may pass any case.
func NewResolver(extra map[string]Mapping, exchangeSuffix string) *Resolver {
	overrides := make(map[string]Mapping)
	for name, m := range DefaultOverrides() {
		overrides[Canonical(name)] = m
	}
	for name, m := range extra {
		overrides[Canonical(name)] = m
	}

	if exchangeSuffix == "" {
		exchangeSuffix = DefaultExchangeSuffix
	}

	return &Resolver{
		overrides: overrides,
		suffix:    exchangeSuffix,
	}
}

// Canonical trims and uppercases a stock name.
func Canonical(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Resolve returns the identifiers for a stock name. It never fails: names
// missing from the override table get the fallback pair.
func (r *Resolver) Resolve(stockName string) Resolved {
	name := Canonical(stockName)
	if m, ok := r.overrides[name]; ok {
		return Resolved{
			MarketDataSymbol:       m.MarketDataSymbol,
			FundamentalsIdentifier: m.FundamentalsIdentifier,
		}
	}
	return r.fallback(name)
}

// IsOverride reports whether the name resolves through the override table.
func (r *Resolver) IsOverride(stockName string) bool {
	_, ok := r.overrides[Canonical(stockName)]
	return ok
}

// fallback keeps the fundamentals identifier as the canonical name itself,
// even where the site's own slug differs.
func (r *Resolver) fallback(name string) Resolved {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)

	return Resolved{
		MarketDataSymbol:       compact + r.suffix,
		FundamentalsIdentifier: name,
	}
}
