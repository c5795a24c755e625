package screener

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stockscraper/internal/metric"
)

const (
	// ratioListSelector is the summary list of label/value pairs at the top of a company page.
	ratioListSelector = "div.company-ratios > ul"

	// ProfitLossSection is the id of the profit-and-loss statement section.
	ProfitLossSection = "profit-loss"
	// PERatioLabel matches "Stock P/E" in the ratio list.
	PERatioLabel = "P/E"
	// InterestLabel is the profit-and-loss row holding interest expense.
	InterestLabel = "Interest"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeLabel collapses whitespace and uppercases a label for comparison.
func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " ")))
}

// ExtractRatio returns the value of the first ratio-list entry whose label
// contains fieldName, ignoring case and whitespace differences. A missing
// list, entry or numeric value yields unavailable.
func ExtractRatio(doc *goquery.Document, fieldName string) metric.Value {
	if doc == nil {
		return metric.Unavailable()
	}

	want := normalizeLabel(fieldName)
	if want == "" {
		return metric.Unavailable()
	}

	result := metric.Unavailable()
	doc.Find(ratioListSelector).First().Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		name := li.Find("span.name").First()
		value := li.Find("span.value").First()
		if name.Length() == 0 || value.Length() == 0 {
			return true
		}
		if !strings.Contains(normalizeLabel(name.Text()), want) {
			return true
		}
		result = metric.Parse(value.Text())
		return false
	})

	return result
}

// ExtractStatementRow finds the table inside section#sectionID, locates the
// first cell whose text contains rowLabel as a whole word, and parses the
// last cell of that row, which holds the most recent reporting period.
func ExtractStatementRow(doc *goquery.Document, sectionID, rowLabel string) metric.Value {
	if doc == nil || sectionID == "" || strings.TrimSpace(rowLabel) == "" {
		return metric.Unavailable()
	}

	// The id is compared literally rather than spliced into a selector.
	table := doc.Find("section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == sectionID
	}).First().Find("table").First()
	if table.Length() == 0 {
		return metric.Unavailable()
	}

	labelPattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(rowLabel)) + `\b`)

	var labelCell *goquery.Selection
	table.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if labelPattern.MatchString(td.Text()) {
			labelCell = td
			return false
		}
		return true
	})
	if labelCell == nil {
		return metric.Unavailable()
	}

	cells := labelCell.Closest("tr").ChildrenFiltered("td")
	if cells.Length() == 0 {
		return metric.Unavailable()
	}

	return metric.Parse(cells.Last().Text())
}

// ExtractFundamentals pulls every fundamentals field out of a company page.
// Each field degrades on its own.
func ExtractFundamentals(doc *goquery.Document) (pe, interest metric.Value) {
	return ExtractRatio(doc, PERatioLabel), ExtractStatementRow(doc, ProfitLossSection, InterestLabel)
}
