package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/features"
	"github.com/google/subcommands"
)

type runCmd struct {
	job    jobFlags
	output string
	watch  bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "build and write every feature table" }
func (*runCmd) Usage() string {
	return `featgen run [-t <transactions.csv>] [-p <prices.csv>] [-b <symbol>] [-f csv|jsonl] [-o <dir>]

  Runs the whole pipeline and writes user_features, stock_features and
  combined_features into the output folder. A table is skipped when its
  input is not configured. Inputs can be glob patterns like "exports/**/*.csv".
  With -watch, the pipeline runs again each time an input file changes, until
  interrupted.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	c.job.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Output folder (overrides the configuration)")
	f.BoolVar(&c.watch, "watch", false, "run again when an input file changes")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cfg, err := c.job.init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.output != "" {
		cfg.OutputDir = c.output
	}
	job, err := cfg.Job()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		err := features.Watch(ctx, job, func(res *features.Result, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running the pipeline: %v\n", err)
				return
			}
			printFiles(res)
		})
		if err != nil {
			return fail("watching inputs", err)
		}
		return subcommands.ExitSuccess
	}

	res, err := features.Run(ctx, job)
	if err != nil {
		return fail("running the pipeline", err)
	}
	printFiles(res)
	return subcommands.ExitSuccess
}

func printFiles(res *features.Result) {
	for _, file := range res.Files {
		fmt.Fprintln(stdout, file)
	}
}
