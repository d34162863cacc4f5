package features

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAggregateMonthlyPrices(t *testing.T) {
	prices := []Price{
		px("SPY", "2023-01-30", 100),
		px("SPY", "2023-01-31", 110),
		px("SPY", "2023-02-01", 99),
		px("QQQ", "2023-01-31", 50),
	}
	table, err := BuildPriceFeatures(prices)
	if err != nil {
		t.Fatalf("BuildPriceFeatures() error: %v", err)
	}
	months := AggregateMonthlyPrices(table)
	if len(months) != 3 {
		t.Fatalf("AggregateMonthlyPrices() = %d rows, want 3", len(months))
	}
	qqq, spyJan, spyFeb := months[0], months[1], months[2]
	if qqq.Symbol != "QQQ" || spyJan.Symbol != "SPY" || spyJan.Month != month("2023-01") || spyFeb.Month != month("2023-02") {
		t.Fatalf("AggregateMonthlyPrices() not sorted by symbol then month: %+v", months)
	}
	// A single quote gives no return at all: the mean is missing, not zero.
	if qqq.AvgDailyReturn != nil || qqq.AvgLogReturn != nil {
		t.Errorf("QQQ avg_daily_return = %v, want missing", qqq.AvgDailyReturn)
	}
	// January only has one return, the first quote is skipped.
	if spyJan.AvgDailyReturn == nil || !near(*spyJan.AvgDailyReturn, 0.1) {
		t.Errorf("SPY 2023-01 avg_daily_return = %v, want 0.1", spyJan.AvgDailyReturn)
	}
	if spyFeb.AvgDailyReturn == nil || !near(*spyFeb.AvgDailyReturn, 0.9-1) {
		t.Errorf("SPY 2023-02 avg_daily_return = %v, want -0.1", spyFeb.AvgDailyReturn)
	}
	if spyJan.AvgRSI14 != nil {
		t.Errorf("SPY 2023-01 avg_rsi_14 = %v, want missing", *spyJan.AvgRSI14)
	}
	if AggregateMonthlyPrices(nil) != nil {
		t.Errorf("AggregateMonthlyPrices(nil) should be empty")
	}
}

func TestCombine(t *testing.T) {
	monthly, err := BuildMonthlyFeatures([]Transaction{
		tx("1", "2023-01-05", 1000, "income"),
		tx("2", "2023-01-10", -200, "groceries"),
		tx("3", "2023-02-01", -50, "groceries"),
		tx("4", "2023-03-01", -25, "travel"),
	})
	if err != nil {
		t.Fatalf("BuildMonthlyFeatures() error: %v", err)
	}
	prices, err := BuildPriceFeatures([]Price{
		px("SPY", "2023-01-02", 100),
		px("SPY", "2023-01-03", 101),
		px("SPY", "2023-03-01", 102),
		px("QQQ", "2023-02-01", 10),
		px("QQQ", "2023-02-02", 11),
	})
	if err != nil {
		t.Fatalf("BuildPriceFeatures() error: %v", err)
	}

	combined, err := Combine(monthly, prices, "SPY")
	if err != nil {
		t.Fatalf("Combine() error: %v", err)
	}
	if combined.Len() != monthly.Len() {
		t.Fatalf("Combine() = %d rows, want %d", combined.Len(), monthly.Len())
	}
	jan, feb, mar := combined.Rows[0], combined.Rows[1], combined.Rows[2]
	if jan.AvgDailyReturn == nil || !near(*jan.AvgDailyReturn, 0.01) {
		t.Errorf("2023-01 avg_daily_return = %v, want 0.01", jan.AvgDailyReturn)
	}
	// QQQ has February quotes but it is not the benchmark.
	if feb.AvgDailyReturn != nil || feb.AvgLogReturn != nil || feb.AvgRSI14 != nil {
		t.Errorf("2023-02 market columns should be missing, got %+v", feb)
	}
	if !feb.TotalExpenses.Equal(decimal.NewFromInt(50)) || !feb.NetFlowLag1.Valid || feb.Ratios["groceries"] != 1 {
		t.Errorf("2023-02 transaction columns should be intact, got %+v", feb.MonthlyFeatures)
	}
	if mar.AvgDailyReturn == nil || !near(*mar.AvgDailyReturn, 102.0/101-1) {
		t.Errorf("2023-03 avg_daily_return = %v, want %v", mar.AvgDailyReturn, 102.0/101-1)
	}
	if combined.Benchmark != "SPY" || len(combined.Categories) != 2 {
		t.Errorf("Combine() = benchmark %q categories %v", combined.Benchmark, combined.Categories)
	}

	// the combined table does not share its maps with the monthly table.
	combined.Rows[0].Ratios["groceries"] = 42
	if monthly.Rows[0].Ratios["groceries"] != 1 {
		t.Errorf("monthly table was modified through the combined table")
	}
}

func TestCombine_NoBenchmarkData(t *testing.T) {
	monthly, err := BuildMonthlyFeatures([]Transaction{tx("1", "2023-01-05", -5, "food"), tx("2", "2023-05-05", -5, "food")})
	if err != nil {
		t.Fatalf("BuildMonthlyFeatures() error: %v", err)
	}
	for _, prices := range []*PriceTable{nil, {}} {
		combined, err := Combine(monthly, prices, "SPY")
		if err != nil {
			t.Fatalf("Combine() error: %v", err)
		}
		if combined.Len() != 2 {
			t.Errorf("Combine() = %d rows, want 2", combined.Len())
		}
		for _, r := range combined.Rows {
			if r.AvgDailyReturn != nil || r.AvgLogReturn != nil || r.AvgRSI14 != nil {
				t.Errorf("%v market columns should be missing", r.Month)
			}
		}
	}
}

func TestCombine_Invalid(t *testing.T) {
	monthly := &MonthlyTable{}
	if _, err := Combine(monthly, nil, ""); !errors.Is(err, ErrMissingField) {
		t.Errorf("Combine(benchmark \"\") error = %v, want %v", err, ErrMissingField)
	}
	if _, err := Combine(nil, nil, "SPY"); !errors.Is(err, ErrMissingField) {
		t.Errorf("Combine(nil monthly) error = %v, want %v", err, ErrMissingField)
	}
}
