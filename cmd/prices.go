package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/features"
	"github.com/google/subcommands"
)

type pricesCmd struct {
	job    jobFlags
	output string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "build the daily price features" }
func (*pricesCmd) Usage() string {
	return `featgen prices [-p <prices.csv>] [-f csv|jsonl] [-o <file>]

  Computes daily return, log return, 5 days rolling mean and standard
  deviation and 14 days RSI for each quote, per symbol. Writes to stdout
  unless -o is set.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	c.job.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout)")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, err := c.job.init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if cfg.Prices == "" {
		fmt.Fprintln(os.Stderr, "Error: missing prices file, use -p")
		return subcommands.ExitUsageError
	}

	res, err := features.Run(ctx, features.Job{Prices: cfg.Prices, Benchmark: cfg.Benchmark})
	if err != nil {
		return fail("building price features", err)
	}
	if err := writeTable(c.output, res.Prices, cfg.Format); err != nil {
		return fail("writing price features", err)
	}
	return subcommands.ExitSuccess
}
