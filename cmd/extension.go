package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/etnz/features/config"
	"github.com/google/subcommands"
)

// ExtensionPrefix prefixes the name of external subcommand binaries.
const ExtensionPrefix = "featgen-"

// Known reports whether 'name' is a subcommand registered in the commander.
func Known(c *subcommands.Commander, name string) bool {
	known := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			known = true
		}
	})
	return known
}

// RunExtension attempts to find and execute an external featgen-<subcommand> binary.
//
// The configuration is passed as FEATURES_* environment variables. It returns
// (true, exitCode) if an extension was found and executed, and (false, 0)
// if no extension was found.
func RunExtension(cfg config.Config, subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", name, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), cfg.Environ()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
