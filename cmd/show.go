package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/features"
	"github.com/etnz/features/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	job   jobFlags
	plain bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the feature tables as a report" }
func (*showCmd) Usage() string {
	return `featgen show [-t <transactions.csv>] [-p <prices.csv>] [-b <symbol>] [-plain]

  Builds the feature tables and displays them as a markdown report, with
  amounts in the configured currency. Nothing is written to disk.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	c.job.SetFlags(f)
	f.BoolVar(&c.plain, "plain", false, "print raw markdown instead of rendering it for the terminal")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, err := c.job.init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	res, err := features.Run(ctx, features.Job{
		Transactions: cfg.Transactions,
		Prices:       cfg.Prices,
		Benchmark:    cfg.Benchmark,
	})
	if err != nil {
		return fail("building features", err)
	}

	md := renderer.RenderReport(renderer.NewReport(res, cfg.Currency))
	if c.plain {
		fmt.Fprint(stdout, md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
