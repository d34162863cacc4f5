package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/features"
	"github.com/shopspring/decimal"
)

// Missing is the cell content of a missing value.
const Missing = "-"

// Report is a markdown report made of table sections.
type Report struct {
	Title    string
	RunID    string
	Currency string // currency of the amounts
	Sections []*Section
}

// Section is a titled markdown table, cells are already formatted.
type Section struct {
	Title   string
	Note    string
	Columns []string
	Rows    [][]string
}

// NewReport creates a report of every table in the pipeline result. Amounts are formatted in 'currency'.
func NewReport(res *features.Result, currency string) *Report {
	r := &Report{Title: "Features", RunID: res.RunID, Currency: currency}
	if res.Monthly != nil {
		r.Sections = append(r.Sections, NewMonthlySection(res.Monthly, currency))
	}
	if res.Prices != nil {
		r.Sections = append(r.Sections, NewPriceSection(res.Prices))
	}
	if res.Combined != nil {
		r.Sections = append(r.Sections, NewCombinedSection(res.Combined, currency))
	}
	return r
}

// NewMonthlySection creates the section of the monthly transaction features.
func NewMonthlySection(t *features.MonthlyTable, currency string) *Section {
	return tableSection("Monthly Transaction Features", t, currency)
}

// NewCombinedSection creates the section of the combined features.
func NewCombinedSection(t *features.CombinedTable, currency string) *Section {
	return tableSection(fmt.Sprintf("Combined Features (%s)", t.Benchmark), t, currency)
}

// NewPriceSection creates a section with the latest features of each symbol.
//
// The daily table is too long for a report, only the last quote of each symbol is shown.
func NewPriceSection(t *features.PriceTable) *Section {
	s := &Section{
		Title: "Latest Price Features",
		Columns: []string{
			features.ColSymbol, "quotes", "from", "to", features.ColClose,
			features.ColDailyReturn, features.ColRollMean5, features.ColRollStd5, features.ColRSI14,
		},
	}
	for _, symbol := range t.Symbols() {
		rows := t.Symbol(symbol)
		first, last := rows[0], rows[len(rows)-1]
		s.Rows = append(s.Rows, []string{
			escape(symbol),
			strconv.Itoa(len(rows)),
			first.Date.String(),
			last.Date.String(),
			strconv.FormatFloat(last.Close, 'f', 2, 64),
			cell(last.DailyReturn, ""),
			cell(last.RollMean5, ""),
			cell(last.RollStd5, ""),
			cell(last.RSI14, ""),
		})
	}
	if len(s.Rows) == 0 {
		s.Note = "No quotes."
	}
	return s
}

// tableSection formats every cell of a feature table.
func tableSection(title string, t features.Table, currency string) *Section {
	s := &Section{Title: title}
	for _, c := range t.Columns() {
		s.Columns = append(s.Columns, escape(c))
	}
	for i := range t.Len() {
		values := t.Row(i)
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = cell(v, currency)
		}
		s.Rows = append(s.Rows, row)
	}
	if len(s.Rows) == 0 {
		s.Note = "No data."
	}
	return s
}

// cell formats a table value: decimals are amounts, float64 are ratios and
// *float64 are indicators.
func cell(v any, currency string) string {
	switch v := v.(type) {
	case string:
		return escape(v)
	case int:
		return strconv.Itoa(v)
	case decimal.Decimal:
		return FormatMoney(v, currency)
	case decimal.NullDecimal:
		if !v.Valid {
			return Missing
		}
		return FormatMoney(v.Decimal, currency)
	case float64:
		return FormatPercent(v)
	case *float64:
		if v == nil {
			return Missing
		}
		return strconv.FormatFloat(*v, 'f', 4, 64)
	default:
		return escape(fmt.Sprint(v))
	}
}

// escape protects the table delimiter.
func escape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }
