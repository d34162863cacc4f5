package features

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/features/date"
	"github.com/shopspring/decimal"
)

// tx is a convenient factory for Transaction in tests.
func tx(id, day string, amount int64, category string) Transaction {
	return Transaction{ID: id, Date: date.MustParse(day), Amount: decimal.NewFromInt(amount), Category: category}
}

// px is a convenient factory for Price in tests.
func px(symbol, day string, close float64) Price {
	return Price{Symbol: symbol, Date: date.MustParse(day), Open: close, Close: close}
}

// closes returns quotes of symbol on consecutive days starting on 2023-01-02.
func closes(symbol string, values ...float64) []Price {
	start := date.New(2023, 1, 2)
	prices := make([]Price, 0, len(values))
	for i, v := range values {
		prices = append(prices, Price{Symbol: symbol, Date: start.Add(i), Open: v, Close: v})
	}
	return prices
}

func month(s string) date.Month {
	m, err := date.ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// writeFile writes a test file in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write %s: %v", path, err)
	}
	return path
}
