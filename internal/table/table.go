// Package table reads the input stock list and writes the enriched result.
// Workbooks (.xlsx) go through excelize; anything ending in .csv is read and
// written as comma-separated text.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// StockNameColumn is the one column every input must have.
const StockNameColumn = "Stock Name"

// ErrMissingColumn is returned when the input lacks StockNameColumn.
var ErrMissingColumn = errors.New("missing required column")

// Row maps column names to cell text for one input record.
type Row map[string]string

// Dataset is an ordered input table.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Validate reports a structural failure: no header or no stock-name column.
func (d *Dataset) Validate() error {
	if d == nil || len(d.Columns) == 0 {
		return fmt.Errorf("%w %q: input has no header row", ErrMissingColumn, StockNameColumn)
	}
	for _, c := range d.Columns {
		if c == StockNameColumn {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrMissingColumn, StockNameColumn)
}

// FromRecords builds a dataset from a header row followed by data rows.
// Short rows are padded with empty cells; blank or repeated header names get
// positional names so no column is lost.
func FromRecords(records [][]string) *Dataset {
	d := &Dataset{}
	if len(records) == 0 {
		return d
	}

	seen := make(map[string]bool)
	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			name = fmt.Sprintf("Column %d", i+1)
		}
		seen[name] = true
		d.Columns = append(d.Columns, name)
	}

	for _, rec := range records[1:] {
		row := make(Row, len(d.Columns))
		for i, col := range d.Columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// ReadFile loads a dataset from an .xlsx or .csv file. Only the first sheet
// of a workbook is read.
func ReadFile(path string) (*Dataset, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return FromRecords(records), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	return rows, nil
}

// WriteFile writes a header and records to an .xlsx or .csv file. Cells may
// be strings, numbers or anything with a String method.
func WriteFile(path string, columns []string, records [][]any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, columns, records)
	case ".xlsx":
		return writeWorkbook(path, columns, records)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

func writeCSV(path string, columns []string, records [][]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		line := make([]string, len(rec))
		for i, cell := range rec {
			line[i] = cellText(cell)
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

func writeWorkbook(path string, columns []string, records [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = workbookCell(v)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// workbookCell keeps numbers numeric and turns everything else into text.
func workbookCell(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case string, float64, float32, int, int64:
		return v
	default:
		return cellText(v)
	}
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case fmt.Stringer:
		return c.String()
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
