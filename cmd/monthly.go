package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/features"
	"github.com/google/subcommands"
)

type monthlyCmd struct {
	job    jobFlags
	output string
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "build the monthly transaction features" }
func (*monthlyCmd) Usage() string {
	return `featgen monthly [-t <transactions.csv>] [-f csv|jsonl] [-o <file>]

  Aggregates transactions into one row per calendar month: income, expenses,
  net flow, expenses and ratio per category, previous month and 3 months mean
  net flow. Writes to stdout unless -o is set.
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	c.job.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
}

func (c *monthlyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, err := c.job.init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if cfg.Transactions == "" {
		fmt.Fprintln(os.Stderr, "Error: missing transactions file, use -t")
		return subcommands.ExitUsageError
	}

	res, err := features.Run(ctx, features.Job{Transactions: cfg.Transactions, Benchmark: cfg.Benchmark})
	if err != nil {
		return fail("building monthly features", err)
	}
	if err := writeTable(c.output, res.Monthly, cfg.Format); err != nil {
		return fail("writing monthly features", err)
	}
	return subcommands.ExitSuccess
}
