package features

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/features/date"
	"github.com/shopspring/decimal"
)

// NetFlowWindow is the number of months averaged by the net flow trend column.
const NetFlowWindow = 3

// MonthlyFeatures holds the features of a single calendar month of transactions.
type MonthlyFeatures struct {
	Month            date.Month
	TotalIncome      decimal.Decimal // sum of positive amounts
	TotalExpenses    decimal.Decimal // absolute sum of negative amounts
	NetFlow          decimal.Decimal // sum of all amounts
	TransactionCount int

	// Expenses and Ratios are keyed by normalized category, they contain every
	// category of the table, zero filled.
	Expenses map[string]decimal.Decimal
	Ratios   map[string]float64

	NetFlowLag1 decimal.NullDecimal // previous month net flow
	NetFlow3MA  decimal.NullDecimal // trailing 3 months mean of net flow
}

// MonthlyTable is the monthly transaction feature table.
type MonthlyTable struct {
	Categories []string          // observed expense categories, sorted
	Rows       []MonthlyFeatures // sorted by month
}

// Len returns the number of months in the table.
func (t *MonthlyTable) Len() int { return len(t.Rows) }

// Get returns the features of month m.
func (t *MonthlyTable) Get(m date.Month) (MonthlyFeatures, bool) {
	i, found := slices.BinarySearchFunc(t.Rows, m, func(r MonthlyFeatures, m date.Month) int {
		return r.Month.Compare(m)
	})
	if !found {
		return MonthlyFeatures{}, false
	}
	return t.Rows[i], true
}

// BuildMonthlyFeatures aggregates transactions into one feature row per calendar month.
//
// Transactions can be in any order. A month without expenses has zero total
// expenses and zero ratios. A category only seen in one month still has a
// column for every month, zero filled.
func BuildMonthlyFeatures(txs []Transaction) (*MonthlyTable, error) {
	buckets := make(map[date.Month]*MonthlyFeatures)
	categories := make(map[string]struct{})

	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i, err)
		}
		m := tx.Date.YearMonth()
		b, ok := buckets[m]
		if !ok {
			b = &MonthlyFeatures{Month: m, Expenses: make(map[string]decimal.Decimal)}
			buckets[m] = b
		}
		b.TransactionCount++
		b.NetFlow = b.NetFlow.Add(tx.Amount)
		switch {
		case tx.IsIncome():
			b.TotalIncome = b.TotalIncome.Add(tx.Amount)
		case tx.IsExpense():
			spent := tx.Amount.Neg()
			b.TotalExpenses = b.TotalExpenses.Add(spent)
			c := NormalizeCategory(tx.Category)
			b.Expenses[c] = b.Expenses[c].Add(spent)
			categories[c] = struct{}{}
		}
	}

	table := &MonthlyTable{
		Categories: slices.Sorted(maps.Keys(categories)),
		Rows:       make([]MonthlyFeatures, 0, len(buckets)),
	}
	for _, m := range slices.SortedFunc(maps.Keys(buckets), date.Month.Compare) {
		b := buckets[m]
		b.Ratios = make(map[string]float64, len(table.Categories))
		for _, c := range table.Categories {
			spent := b.Expenses[c] // zero value when absent
			b.Expenses[c] = spent
			b.Ratios[c] = ratio(spent, b.TotalExpenses)
		}
		table.Rows = append(table.Rows, *b)
	}

	window := decimal.NewFromInt(NetFlowWindow)
	for i := range table.Rows {
		if i >= 1 {
			table.Rows[i].NetFlowLag1 = decimal.NewNullDecimal(table.Rows[i-1].NetFlow)
		}
		if i >= NetFlowWindow-1 {
			sum := decimal.Zero
			for _, r := range table.Rows[i-NetFlowWindow+1 : i+1] {
				sum = sum.Add(r.NetFlow)
			}
			table.Rows[i].NetFlow3MA = decimal.NewNullDecimal(sum.Div(window))
		}
	}
	return table, nil
}

// ratio returns part/total, and 0 when total is 0.
func ratio(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).InexactFloat64()
}
