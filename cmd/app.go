// Package cmd implements the featgen command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/features"
	"github.com/etnz/features/config"
	"github.com/etnz/features/logger"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&monthlyCmd{}, "features")
	c.Register(&pricesCmd{}, "features")
	c.Register(&combineCmd{}, "features")
	c.Register(&runCmd{}, "features")

	c.Register(&showCmd{}, "reports")
	c.Register(&topicCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// LoadConfig loads the application configuration from the -config file and the environment.
func LoadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, nil
}

// withLogger returns a context carrying a logger writing to stderr at the configured level.
func withLogger(ctx context.Context, cfg config.Config) (context.Context, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, logger.New(os.Stderr, level)), nil
}

// jobFlags are the flags shared by the commands running the pipeline, they
// override the configuration when set.
type jobFlags struct {
	transactions string
	prices       string
	benchmark    string
	format       string
}

func (j *jobFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&j.transactions, "t", "", "Transactions CSV file")
	f.StringVar(&j.prices, "p", "", "Prices CSV file")
	f.StringVar(&j.benchmark, "b", "", "Benchmark symbol joined with the monthly features")
	f.StringVar(&j.format, "f", "", "Output format (csv, jsonl)")
}

// init loads the configuration, applies the flags and returns the context
// with a logger and the resulting configuration.
func (j *jobFlags) init(ctx context.Context) (context.Context, config.Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return ctx, cfg, err
	}
	for _, o := range []struct{ flag, field *string }{
		{&j.transactions, &cfg.Transactions},
		{&j.prices, &cfg.Prices},
		{&j.benchmark, &cfg.Benchmark},
		{&j.format, &cfg.Format},
	} {
		if *o.flag != "" {
			*o.field = *o.flag
		}
	}
	if err := cfg.Validate(); err != nil {
		return ctx, cfg, err
	}
	ctx, err = withLogger(ctx, cfg)
	return ctx, cfg, err
}

// writeTable encodes a table into 'filename', or to stdout when empty.
func writeTable(filename string, t features.Table, format string) error {
	f, err := features.ParseFormat(format)
	if err != nil {
		return err
	}
	if filename == "" {
		return features.Encode(stdout, t, f)
	}
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", filename, err)
	}
	if err := features.Encode(w, t, f); err != nil {
		w.Close()
		return fmt.Errorf("cannot encode %q: %w", filename, err)
	}
	return w.Close()
}

// fail prints what failed and returns the failure status.
func fail(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
