package coordinator

import (
	"stockscraper/internal/fetcher"
	"stockscraper/internal/metric"
	"stockscraper/internal/table"
)

// Output column names, in the order they lead the output table.
const (
	ColumnStockName    = table.StockNameColumn
	ColumnSymbolUsed   = "YF Symbol Used"
	ColumnCurrentPrice = "Current Price (Rs.)"
	ColumnMarketCap    = "Market Cap (Cr.)"
	ColumnPERatio      = "P/E Ratio"
	ColumnInterest     = "Interest (Cr.)"
)

// ExtractedColumns lists the leading output columns.
var ExtractedColumns = []string{
	ColumnStockName,
	ColumnSymbolUsed,
	ColumnCurrentPrice,
	ColumnMarketCap,
	ColumnPERatio,
	ColumnInterest,
}

func isExtracted(column string) bool {
	for _, c := range ExtractedColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Result is the enriched record for one input row. It is built once and
// not modified afterwards.
type Result struct {
	// StockName is the original cell text, untrimmed.
	StockName       string
	SymbolUsed      string
	CurrentPrice    metric.Value
	MarketCap       metric.Value
	PERatio         metric.Value
	InterestExpense metric.Value

	// passthrough holds the original columns that are not extracted columns.
	passthrough map[string]string
}

func newResult(row table.Row, symbolUsed string, market fetcher.MarketData, fundamentals fetcher.Fundamentals) Result {
	passthrough := make(map[string]string, len(row))
	for col, val := range row {
		if !isExtracted(col) {
			passthrough[col] = val
		}
	}

	return Result{
		StockName:       row[table.StockNameColumn],
		SymbolUsed:      symbolUsed,
		CurrentPrice:    market.CurrentPrice,
		MarketCap:       market.MarketCap,
		PERatio:         fundamentals.PERatio,
		InterestExpense: fundamentals.InterestExpense,
		passthrough:     passthrough,
	}
}

// Original returns a passed-through input column.
func (r Result) Original(column string) (string, bool) {
	v, ok := r.passthrough[column]
	return v, ok
}

func (r Result) degradedFields() int {
	n := 0
	for _, v := range []metric.Value{r.CurrentPrice, r.MarketCap, r.PERatio, r.InterestExpense} {
		if !v.Available() {
			n++
		}
	}
	return n
}

// Batch is the ordered output of a run, one Result per non-blank input row.
type Batch struct {
	Results []Result
	Skipped int

	inputColumns []string
}

// DegradedFields counts unavailable metrics across all results.
func (b *Batch) DegradedFields() int {
	n := 0
	for _, r := range b.Results {
		n += r.degradedFields()
	}
	return n
}

// Columns returns the output header: the extracted columns followed by the
// remaining input columns in input order.
func (b *Batch) Columns() []string {
	cols := append([]string(nil), ExtractedColumns...)
	for _, c := range b.inputColumns {
		if !isExtracted(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Records returns one output row per result, aligned with Columns.
// Metrics are float64 cells or the unavailable text.
func (b *Batch) Records() [][]any {
	cols := b.Columns()
	records := make([][]any, 0, len(b.Results))
	for _, r := range b.Results {
		rec := make([]any, 0, len(cols))
		rec = append(rec,
			r.StockName,
			r.SymbolUsed,
			r.CurrentPrice.Cell(),
			r.MarketCap.Cell(),
			r.PERatio.Cell(),
			r.InterestExpense.Cell(),
		)
		for _, c := range cols[len(ExtractedColumns):] {
			rec = append(rec, r.passthrough[c])
		}
		records = append(records, rec)
	}
	return records
}
