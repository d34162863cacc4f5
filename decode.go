package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/features/date"
	"github.com/shopspring/decimal"
)

// Input column names.
const (
	ColTransactionID = "transaction_id"
	ColDate          = "date"
	ColAmount        = "amount"
	ColCategory      = "category"
	ColSymbol        = "symbol"
	ColOpen          = "open"
	ColClose         = "close"
)

// header indexes the columns of a CSV file by their lower-cased name.
type header struct {
	names []string
	index map[string]int
}

// readHeader reads the first record of 'r' and checks that every required column is present.
func readHeader(r *csv.Reader, required ...string) (*header, error) {
	record, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file, want columns %v: %w", required, ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	h := &header{index: make(map[string]int, len(record))}
	for i, name := range record {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		h.names = append(h.names, name)
		if _, exists := h.index[name]; !exists {
			h.index[name] = i
		}
	}
	for _, name := range required {
		if _, ok := h.index[name]; !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrMissingColumn)
		}
	}
	return h, nil
}

// get returns the trimmed value of column 'name' in 'record'.
func (h *header) get(record []string, name string) string {
	return strings.TrimSpace(record[h.index[name]])
}

// newCSVReader returns a CSV reader configured for the feature input files.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return cr
}

// DecodeTransactions reads transactions from a CSV file with a header line.
//
// The columns transaction_id, date, amount and category are required, in any
// order and case. Other columns are ignored. Dates can be any text accepted
// by [date.Parse].
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	cr := newCSVReader(r)
	h, err := readHeader(cr, ColTransactionID, ColDate, ColAmount, ColCategory)
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	var txs []Transaction
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("transactions: %w", err)
		}
		line, _ := cr.FieldPos(0)

		on, err := date.Parse(h.get(record, ColDate))
		if err != nil {
			return nil, fmt.Errorf("transactions line %d: %w", line, err)
		}
		value := h.get(record, ColAmount)
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("transactions line %d: amount %q: %w: %w", line, value, ErrInvalidValue, err)
		}
		tx := Transaction{
			ID:       h.get(record, ColTransactionID),
			Date:     on,
			Amount:   amount,
			Category: h.get(record, ColCategory),
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transactions line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// DecodePrices reads daily quotes from a CSV file with a header line.
//
// The columns symbol, date, open and close are required. Any other column is
// read as an extra numeric field, an empty cell is an absent value.
func DecodePrices(r io.Reader) ([]Price, error) {
	cr := newCSVReader(r)
	h, err := readHeader(cr, ColSymbol, ColDate, ColOpen, ColClose)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	required := map[string]bool{ColSymbol: true, ColDate: true, ColOpen: true, ColClose: true}

	var prices []Price
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		line, _ := cr.FieldPos(0)

		on, err := date.Parse(h.get(record, ColDate))
		if err != nil {
			return nil, fmt.Errorf("prices line %d: %w", line, err)
		}
		open, err := parseFloat(ColOpen, h.get(record, ColOpen))
		if err != nil {
			return nil, fmt.Errorf("prices line %d: %w", line, err)
		}
		closing, err := parseFloat(ColClose, h.get(record, ColClose))
		if err != nil {
			return nil, fmt.Errorf("prices line %d: %w", line, err)
		}
		p := Price{Symbol: h.get(record, ColSymbol), Date: on, Open: open, Close: closing}

		for i, name := range h.names {
			if required[name] || name == "" || h.index[name] != i {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value == "" {
				continue
			}
			v, err := parseFloat(name, value)
			if err != nil {
				return nil, fmt.Errorf("prices line %d: %w", line, err)
			}
			if p.Extra == nil {
				p.Extra = make(map[string]float64)
			}
			p.Extra[name] = v
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("prices line %d: %w", line, err)
		}
		prices = append(prices, p)
	}
	return prices, nil
}

func parseFloat(column, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", column, value, ErrInvalidValue)
	}
	return v, nil
}
