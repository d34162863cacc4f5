package features

import (
	"fmt"
	"strings"

	"github.com/etnz/features/date"
	"github.com/shopspring/decimal"
)

// Uncategorized is the category given to expenses without a category label.
const Uncategorized = "uncategorized"

// Transaction is a single cash movement of the user.
//
// A positive Amount is an income, a negative one is an expense.
type Transaction struct {
	ID       string
	Date     date.Date
	Amount   decimal.Decimal
	Category string
}

// NewTransaction creates a Transaction, the date can be any date-like text accepted by [date.Parse].
func NewTransaction(id, day string, amount decimal.Decimal, category string) (Transaction, error) {
	on, err := date.Parse(day)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %q: %w", id, err)
	}
	return Transaction{ID: id, Date: on, Amount: amount, Category: category}, nil
}

// IsIncome reports whether the transaction brings money in.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether the transaction takes money out.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// Validate checks that the fields required to compute features are present.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction_id: %w", ErrMissingField)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %q: date: %w", t.ID, ErrMissingField)
	}
	return nil
}

// NormalizeCategory returns the canonical label of a category, used to name feature columns.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return Uncategorized
	}
	return c
}
