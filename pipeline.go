package features

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/features/logger"
	"github.com/google/uuid"
)

// Base names of the files written by Run.
const (
	MonthlyFile  = "user_features"
	PriceFile    = "stock_features"
	CombinedFile = "combined_features"
)

// Job describes a single run of the feature pipeline.
type Job struct {
	Transactions string // transactions CSV file or pattern, empty to skip the transaction features
	Prices       string // prices CSV file or pattern, empty to skip the price features
	OutputDir    string // folder receiving the feature files, empty for none
	Benchmark    string
	Format       Format
}

// Result holds the tables built by Run, a skipped table is nil.
type Result struct {
	RunID    string
	Monthly  *MonthlyTable
	Prices   *PriceTable
	Combined *CombinedTable
	Files    []string // files written, in order
}

// Run decodes the job input files, builds the feature tables and writes them to the output folder.
//
// The combined table is only built when both transactions and prices are
// available. Any error stops the run, there is no partial result.
func Run(ctx context.Context, job Job) (*Result, error) {
	if job.Transactions == "" && job.Prices == "" {
		return nil, errors.New("nothing to do: neither transactions nor prices file")
	}
	if job.Benchmark == "" {
		job.Benchmark = DefaultBenchmark
	}
	if job.Format == "" {
		job.Format = CSV
	}

	res := &Result{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With().Str("run_id", res.RunID).Logger()

	if job.Transactions != "" {
		txs, err := decodeInputs(job.Transactions, DecodeTransactions)
		if err != nil {
			return nil, err
		}
		if res.Monthly, err = BuildMonthlyFeatures(txs); err != nil {
			return nil, fmt.Errorf("%s: %w", job.Transactions, err)
		}
		log.Info().Str("file", job.Transactions).Int("transactions", len(txs)).
			Int("months", res.Monthly.Len()).Strs("categories", res.Monthly.Categories).
			Msg("built monthly transaction features")
	} else {
		log.Warn().Msg("no transactions file, skipping transaction features")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if job.Prices != "" {
		prices, err := decodeInputs(job.Prices, DecodePrices)
		if err != nil {
			return nil, err
		}
		if res.Prices, err = BuildPriceFeatures(prices); err != nil {
			return nil, fmt.Errorf("%s: %w", job.Prices, err)
		}
		log.Info().Str("file", job.Prices).Int("quotes", res.Prices.Len()).
			Strs("symbols", res.Prices.Symbols()).Msg("built daily price features")
	} else {
		log.Warn().Msg("no prices file, skipping price features")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if res.Monthly != nil && res.Prices != nil {
		var err error
		if res.Combined, err = Combine(res.Monthly, res.Prices, job.Benchmark); err != nil {
			return nil, err
		}
		if len(res.Prices.Symbol(job.Benchmark)) == 0 {
			log.Warn().Str("benchmark", job.Benchmark).Msg("benchmark symbol has no quotes, market columns are missing")
		}
		log.Info().Str("benchmark", job.Benchmark).Int("months", res.Combined.Len()).Msg("combined features")
	} else {
		log.Warn().Msg("combined features need both transactions and prices, skipping")
	}

	if job.OutputDir == "" {
		return res, nil
	}
	outputs := []struct {
		name  string
		table Table
		ok    bool
	}{
		{MonthlyFile, res.Monthly, res.Monthly != nil},
		{PriceFile, res.Prices, res.Prices != nil},
		{CombinedFile, res.Combined, res.Combined != nil},
	}
	for _, out := range outputs {
		if !out.ok {
			continue
		}
		filename := filepath.Join(job.OutputDir, out.name+job.Format.Ext())
		if err := encodeFile(filename, out.table, job.Format); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, filename)
		log.Info().Str("file", filename).Int("rows", out.table.Len()).Msg("written")
	}
	return res, nil
}

// decodeInputs decodes and concatenates the records of every file of an input path.
func decodeInputs[T any](path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	files, err := Inputs(path)
	if err != nil {
		return nil, err
	}
	var records []T
	for _, file := range files {
		r, err := decodeFile(file, decode)
		if err != nil {
			return nil, err
		}
		records = append(records, r...)
	}
	return records, nil
}

// decodeFile opens 'filename' and decodes its records.
func decodeFile[T any](filename string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer r.Close()
	records, err := decode(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return records, nil
}

// encodeFile writes a table into 'filename', creating its folder if needed.
func encodeFile(filename string, t Table, f Format) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("cannot create folder for %q: %w", filename, err)
	}
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", filename, err)
	}
	if err := Encode(w, t, f); err != nil {
		w.Close()
		return fmt.Errorf("cannot encode %q: %w", filename, err)
	}
	return w.Close()
}
