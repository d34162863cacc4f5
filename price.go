package features

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/etnz/features/date"
)

// Price is a daily quote of a symbol.
type Price struct {
	Symbol string
	Date   date.Date
	Open   float64
	Close  float64
	Extra  map[string]float64 // other numeric columns (high, low, volume...)
}

// Validate checks that the fields required to compute features are present.
func (p Price) Validate() error {
	if strings.TrimSpace(p.Symbol) == "" {
		return fmt.Errorf("symbol: %w", ErrMissingField)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%s: date: %w", p.Symbol, ErrMissingField)
	}
	if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
		return fmt.Errorf("%s on %s: close %v: %w", p.Symbol, p.Date, p.Close, ErrInvalidValue)
	}
	return nil
}

// PriceFeatures is a daily quote and the features computed within its symbol.
//
// A nil feature is missing, there is not enough history before that quote to compute it.
type PriceFeatures struct {
	Price
	DailyReturn *float64 // close[t]/close[t-1] - 1
	LogReturn   *float64 // ln(close[t]) - ln(close[t-1])
	RollMean5   *float64 // mean of the last 5 closes
	RollStd5    *float64 // sample standard deviation of the last 5 closes
	RSI14       *float64 // relative strength index over the last 14 deltas
}

// PriceTable is the daily price feature table.
type PriceTable struct {
	Extra []string        // extra numeric columns observed in the input, sorted
	Rows  []PriceFeatures // sorted by symbol, then date
}

// Len returns the number of quotes in the table.
func (t *PriceTable) Len() int { return len(t.Rows) }

// Symbol returns the rows of a single symbol, in chronological order.
func (t *PriceTable) Symbol(symbol string) []PriceFeatures {
	start := slices.IndexFunc(t.Rows, func(r PriceFeatures) bool { return r.Symbol == symbol })
	if start < 0 {
		return nil
	}
	end := start
	for end < len(t.Rows) && t.Rows[end].Symbol == symbol {
		end++
	}
	return t.Rows[start:end]
}

// Symbols returns the symbols in the table, sorted.
func (t *PriceTable) Symbols() []string {
	var symbols []string
	for _, r := range t.Rows {
		if n := len(symbols); n == 0 || symbols[n-1] != r.Symbol {
			symbols = append(symbols, r.Symbol)
		}
	}
	return symbols
}

// BuildPriceFeatures computes returns, rolling statistics and RSI for each quote.
//
// Quotes are partitioned by symbol and sorted by date before any computation,
// windows never cross a symbol boundary. Two quotes for the same symbol and
// day are rejected.
func BuildPriceFeatures(prices []Price) (*PriceTable, error) {
	series := make(map[string]*date.History[Price])
	extra := make(map[string]struct{})

	for i, p := range prices {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("price #%d: %w", i, err)
		}
		h, ok := series[p.Symbol]
		if !ok {
			h = new(date.History[Price])
			series[p.Symbol] = h
		}
		p.Extra = maps.Clone(p.Extra)
		if !h.Insert(p.Date, p) {
			return nil, fmt.Errorf("price #%d: %s on %s: %w", i, p.Symbol, p.Date, ErrDuplicate)
		}
		for k := range p.Extra {
			extra[k] = struct{}{}
		}
	}

	table := &PriceTable{
		Extra: slices.Sorted(maps.Keys(extra)),
		Rows:  make([]PriceFeatures, 0, len(prices)),
	}
	for _, symbol := range slices.Sorted(maps.Keys(series)) {
		table.Rows = append(table.Rows, symbolFeatures(series[symbol])...)
	}
	return table, nil
}

// symbolFeatures runs the windowed pass over the chronological quotes of a single symbol.
func symbolFeatures(h *date.History[Price]) []PriceFeatures {
	rows := make([]PriceFeatures, 0, h.Len())
	closes := make([]float64, 0, h.Len())
	gains := make([]float64, 0, h.Len())
	losses := make([]float64, 0, h.Len())

	for _, p := range h.Values() {
		row := PriceFeatures{Price: p}
		// the first quote has no delta, it counts as neither a gain nor a loss.
		var gain, loss float64
		if n := len(closes); n > 0 {
			prev := closes[n-1]
			row.DailyReturn = ptr(p.Close/prev - 1)
			row.LogReturn = ptr(math.Log(p.Close) - math.Log(prev))
			delta := p.Close - prev
			gain, loss = max(delta, 0), max(-delta, 0)
		}
		closes = append(closes, p.Close)
		gains = append(gains, gain)
		losses = append(losses, loss)

		row.RollMean5 = rollingMean(closes, RollingWindow)
		row.RollStd5 = rollingStd(closes, RollingWindow)
		row.RSI14 = rsi(gains, losses, RSIWindow)
		rows = append(rows, row)
	}
	return rows
}
