// Command featgen builds model features from transactions and stock prices.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/features/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// unknown subcommands are looked up as featgen-<name> binaries.
	if name := flag.Arg(0); name != "" && !cmd.Known(commander, name) {
		cfg, err := cmd.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(int(subcommands.ExitUsageError))
		}
		if ok, code := cmd.RunExtension(cfg, name, flag.Args()[1:]); ok {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}
