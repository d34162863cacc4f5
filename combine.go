package features

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/features/date"
)

// DefaultBenchmark is the symbol used as market context when none is configured.
const DefaultBenchmark = "SPY"

// MarketMonth is the monthly aggregate of the daily price features of a symbol.
//
// Means only use non missing daily values, a mean without any value is missing.
type MarketMonth struct {
	Symbol         string
	Month          date.Month
	AvgDailyReturn *float64
	AvgLogReturn   *float64
	AvgRSI14       *float64
}

// AggregateMonthlyPrices averages the daily price features per symbol and calendar month.
//
// The result is sorted by symbol, then month. There is no row for a month
// without any quote.
func AggregateMonthlyPrices(t *PriceTable) []MarketMonth {
	if t == nil {
		return nil
	}
	type key struct {
		symbol string
		month  date.Month
	}
	type group struct{ daily, log, rsi []*float64 }

	var keys []key // rows are sorted by symbol then date, so are keys.
	groups := make(map[key]*group)
	for _, r := range t.Rows {
		k := key{r.Symbol, r.Date.YearMonth()}
		g, ok := groups[k]
		if !ok {
			g = new(group)
			groups[k] = g
			keys = append(keys, k)
		}
		g.daily = append(g.daily, r.DailyReturn)
		g.log = append(g.log, r.LogReturn)
		g.rsi = append(g.rsi, r.RSI14)
	}

	months := make([]MarketMonth, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		months = append(months, MarketMonth{
			Symbol:         k.symbol,
			Month:          k.month,
			AvgDailyReturn: meanOf(g.daily),
			AvgLogReturn:   meanOf(g.log),
			AvgRSI14:       meanOf(g.rsi),
		})
	}
	return months
}

// CombinedFeatures is a month of transaction features joined with the benchmark market month.
type CombinedFeatures struct {
	MonthlyFeatures
	AvgDailyReturn *float64
	AvgLogReturn   *float64
	AvgRSI14       *float64
}

// CombinedTable is the monthly transaction table left joined with the benchmark monthly prices.
type CombinedTable struct {
	Benchmark  string
	Categories []string
	Rows       []CombinedFeatures // sorted by month
}

// Len returns the number of months in the table.
func (t *CombinedTable) Len() int { return len(t.Rows) }

// Combine left joins the monthly price aggregate of the benchmark symbol onto the monthly transaction features.
//
// Every transaction month is kept, months without benchmark quotes have
// missing market columns.
func Combine(monthly *MonthlyTable, prices *PriceTable, benchmark string) (*CombinedTable, error) {
	if strings.TrimSpace(benchmark) == "" {
		return nil, fmt.Errorf("benchmark symbol: %w", ErrMissingField)
	}
	if monthly == nil {
		return nil, fmt.Errorf("monthly features: %w", ErrMissingField)
	}

	market := make(map[date.Month]MarketMonth)
	for _, m := range AggregateMonthlyPrices(prices) {
		if m.Symbol == benchmark {
			market[m.Month] = m
		}
	}

	table := &CombinedTable{
		Benchmark:  benchmark,
		Categories: slices.Clone(monthly.Categories),
		Rows:       make([]CombinedFeatures, 0, len(monthly.Rows)),
	}
	for _, r := range monthly.Rows {
		r.Expenses = maps.Clone(r.Expenses)
		r.Ratios = maps.Clone(r.Ratios)
		row := CombinedFeatures{MonthlyFeatures: r}
		if m, ok := market[r.Month]; ok {
			row.AvgDailyReturn = m.AvgDailyReturn
			row.AvgLogReturn = m.AvgLogReturn
			row.AvgRSI14 = m.AvgRSI14
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
