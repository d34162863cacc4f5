package features

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Output column names.
const (
	ColYearMonth        = "year_month"
	ColTotalIncome      = "total_income"
	ColTotalExpenses    = "total_expenses"
	ColNetFlow          = "net_flow"
	ColTransactionCount = "transaction_count"
	ColNetFlowLag1      = "net_flow_lag1"
	ColNetFlow3MA       = "net_flow_3ma"
	ColDailyReturn      = "daily_return"
	ColLogReturn        = "log_return"
	ColRollMean5        = "roll_mean_5"
	ColRollStd5         = "roll_std_5"
	ColRSI14            = "rsi_14"
	ColAvgDailyReturn   = "avg_daily_return"
	ColAvgLogReturn     = "avg_log_return"
	ColAvgRSI14         = "avg_rsi_14"

	ratioSuffix = "_ratio"
)

// RatioColumn returns the name of the ratio column of a category.
func RatioColumn(category string) string { return category + ratioSuffix }

// Table is a feature table as a sequence of rows with named columns.
//
// Row values are strings, ints, decimal.Decimal, decimal.NullDecimal, float64
// or *float64. A nil *float64 or an invalid decimal.NullDecimal is a missing value.
type Table interface {
	Columns() []string
	Len() int
	Row(i int) []any
}

var (
	_ Table = (*MonthlyTable)(nil)
	_ Table = (*PriceTable)(nil)
	_ Table = (*CombinedTable)(nil)
)

// Columns returns the column names of the monthly transaction feature table.
func (t *MonthlyTable) Columns() []string { return monthlyColumns(t.Categories) }

func monthlyColumns(categories []string) []string {
	cols := []string{ColYearMonth, ColTotalIncome, ColTotalExpenses, ColNetFlow, ColTransactionCount}
	cols = append(cols, categories...)
	for _, c := range categories {
		cols = append(cols, RatioColumn(c))
	}
	return append(cols, ColNetFlowLag1, ColNetFlow3MA)
}

// Row returns the values of the i-th month, in the order of Columns.
func (t *MonthlyTable) Row(i int) []any { return monthlyRow(t.Categories, t.Rows[i]) }

func monthlyRow(categories []string, r MonthlyFeatures) []any {
	row := []any{r.Month.String(), r.TotalIncome, r.TotalExpenses, r.NetFlow, r.TransactionCount}
	for _, c := range categories {
		row = append(row, r.Expenses[c])
	}
	for _, c := range categories {
		row = append(row, r.Ratios[c])
	}
	return append(row, r.NetFlowLag1, r.NetFlow3MA)
}

// Columns returns the column names of the daily price feature table.
func (t *PriceTable) Columns() []string {
	cols := []string{ColSymbol, ColDate, ColOpen, ColClose}
	cols = append(cols, t.Extra...)
	return append(cols, ColDailyReturn, ColLogReturn, ColRollMean5, ColRollStd5, ColRSI14)
}

// Row returns the values of the i-th quote, in the order of Columns.
func (t *PriceTable) Row(i int) []any {
	r := t.Rows[i]
	row := []any{r.Symbol, r.Date.String(), r.Open, r.Close}
	for _, name := range t.Extra {
		if v, ok := r.Extra[name]; ok {
			row = append(row, &v)
		} else {
			row = append(row, (*float64)(nil))
		}
	}
	return append(row, r.DailyReturn, r.LogReturn, r.RollMean5, r.RollStd5, r.RSI14)
}

// Columns returns the column names of the combined feature table.
func (t *CombinedTable) Columns() []string {
	return append(monthlyColumns(t.Categories), ColAvgDailyReturn, ColAvgLogReturn, ColAvgRSI14)
}

// Row returns the values of the i-th month, in the order of Columns.
func (t *CombinedTable) Row(i int) []any {
	r := t.Rows[i]
	return append(monthlyRow(t.Categories, r.MonthlyFeatures), r.AvgDailyReturn, r.AvgLogReturn, r.AvgRSI14)
}

// Format is a serialization format for feature tables.
type Format string

const (
	CSV   Format = "csv"   // header line, then one line per row, missing values are empty
	JSONL Format = "jsonl" // one JSON object per row, missing values are null
)

// ParseFormat parses a Format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q want %q or %q: %w", s, CSV, JSONL, ErrInvalidValue)
	}
}

// Ext returns the file extension for the format, including the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// Encode writes the table to 'w' in the given format.
//
// Column names must be unique: a category named like a fixed column is an error.
func Encode(w io.Writer, t Table, f Format) error {
	columns := t.Columns()
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return fmt.Errorf("duplicate column %q: %w", c, ErrInvalidValue)
		}
		seen[c] = true
	}
	switch f {
	case CSV:
		return encodeCSV(w, columns, t)
	case JSONL:
		return encodeJSONL(w, columns, t)
	default:
		return fmt.Errorf("unknown format %q: %w", f, ErrInvalidValue)
	}
}

func encodeCSV(w io.Writer, columns []string, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("cannot write header: %w", err)
	}
	record := make([]string, len(columns))
	for i := range t.Len() {
		for j, v := range t.Row(i) {
			record[j] = csvCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeJSONL(w io.Writer, columns []string, t Table) error {
	bw := bufio.NewWriter(w)
	for i := range t.Len() {
		var obj jsonObjectWriter
		for j, v := range t.Row(i) {
			obj.Append(columns[j], jsonCell(v))
		}
		data, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot marshal row %d: %w", i, err)
		}
		bw.Write(data)
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("cannot write row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// csvCell formats a value as a CSV cell, a missing value is an empty cell.
func csvCell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case decimal.Decimal:
		return v.String()
	case decimal.NullDecimal:
		if !v.Valid {
			return ""
		}
		return v.Decimal.String()
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// jsonCell converts a value to its JSON representation, numbers stay numbers
// and a missing or non finite value is null.
func jsonCell(v any) any {
	switch v := v.(type) {
	case decimal.Decimal:
		return json.Number(v.String())
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		return json.Number(v.Decimal.String())
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case *float64:
		if v == nil {
			return nil
		}
		return jsonCell(*v)
	default:
		return v
	}
}
