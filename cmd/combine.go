package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/features"
	"github.com/google/subcommands"
)

type combineCmd struct {
	job    jobFlags
	output string
}

func (*combineCmd) Name() string     { return "combine" }
func (*combineCmd) Synopsis() string { return "join the benchmark monthly prices onto the monthly features" }
func (*combineCmd) Usage() string {
	return `featgen combine [-t <transactions.csv>] [-p <prices.csv>] [-b <symbol>] [-f csv|jsonl] [-o <file>]

  Builds the monthly transaction features and the daily price features, then
  adds the monthly mean daily return, log return and RSI of the benchmark
  symbol to every transaction month. Writes to stdout unless -o is set.
`
}

func (c *combineCmd) SetFlags(f *flag.FlagSet) {
	c.job.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
}

func (c *combineCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, err := c.job.init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if cfg.Transactions == "" || cfg.Prices == "" {
		fmt.Fprintln(os.Stderr, "Error: combine needs both a transactions (-t) and a prices (-p) file")
		return subcommands.ExitUsageError
	}

	res, err := features.Run(ctx, features.Job{
		Transactions: cfg.Transactions,
		Prices:       cfg.Prices,
		Benchmark:    cfg.Benchmark,
	})
	if err != nil {
		return fail("combining features", err)
	}
	if err := writeTable(c.output, res.Combined, cfg.Format); err != nil {
		return fail("writing combined features", err)
	}
	return subcommands.ExitSuccess
}
