package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

const testTransactions = `transaction_id,date,amount,category
t1,2023-01-05,1000,Salary
t2,2023-01-10,-200,Food
`

const testPrices = `symbol,date,open,close
SPY,2023-01-03,100,100
SPY,2023-01-04,100,110
`

// execute runs a subcommand with the given arguments and returns its status and output.
func execute(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var out bytes.Buffer
	oldStdout, oldLevel := stdout, *logLevel
	stdout, *logLevel = &out, "error"
	defer func() { stdout, *logLevel = oldStdout, oldLevel }()

	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return c.Execute(context.Background(), f), out.String()
}

// inputs writes the test input files and returns their paths.
func inputs(t *testing.T) (tx, prices string) {
	t.Helper()
	dir := t.TempDir()
	tx, prices = filepath.Join(dir, "tx.csv"), filepath.Join(dir, "prices.csv")
	if err := os.WriteFile(tx, []byte(testTransactions), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(prices, []byte(testPrices), 0644); err != nil {
		t.Fatal(err)
	}
	return tx, prices
}

func TestMonthlyCmd(t *testing.T) {
	tx, _ := inputs(t)
	status, out := execute(t, &monthlyCmd{}, "-t", tx, "-f", "jsonl")
	if status != subcommands.ExitSuccess {
		t.Fatalf("monthly status = %v, want success", status)
	}
	want := `{"year_month":"2023-01","total_income":1000,"total_expenses":200,"net_flow":800,"transaction_count":2,"food":200,"food_ratio":1,"net_flow_lag1":null,"net_flow_3ma":null}` + "\n"
	if out != want {
		t.Errorf("monthly output = %q, want %q", out, want)
	}
}

func TestMonthlyCmdMissingInput(t *testing.T) {
	if status, _ := execute(t, &monthlyCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("monthly without transactions status = %v, want usage error", status)
	}
}

func TestPricesCmdToFile(t *testing.T) {
	_, prices := inputs(t)
	output := filepath.Join(t.TempDir(), "stock.csv")
	status, out := execute(t, &pricesCmd{}, "-p", prices, "-o", output)
	if status != subcommands.ExitSuccess {
		t.Fatalf("prices status = %v, want success", status)
	}
	if out != "" {
		t.Errorf("prices wrote %q to stdout, want nothing", out)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[0] != "symbol,date,open,close,daily_return,log_return,roll_mean_5,roll_std_5,rsi_14" {
		t.Errorf("prices file = %q", data)
	}
	if want := "SPY,2023-01-03,100,100,,,,,"; lines[1] != want {
		t.Errorf("first quote = %q, want %q", lines[1], want)
	}
}

func TestCombineCmd(t *testing.T) {
	tx, prices := inputs(t)
	status, out := execute(t, &combineCmd{}, "-t", tx, "-p", prices)
	if status != subcommands.ExitSuccess {
		t.Fatalf("combine status = %v, want success", status)
	}
	header, _, _ := strings.Cut(out, "\n")
	if !strings.HasSuffix(header, ",avg_daily_return,avg_log_return,avg_rsi_14") {
		t.Errorf("combine header = %q", header)
	}

	if status, _ := execute(t, &combineCmd{}, "-t", tx); status != subcommands.ExitUsageError {
		t.Errorf("combine without prices status = %v, want usage error", status)
	}
}

func TestCombineCmdUnknownFormat(t *testing.T) {
	tx, prices := inputs(t)
	if status, _ := execute(t, &combineCmd{}, "-t", tx, "-p", prices, "-f", "xml"); status != subcommands.ExitUsageError {
		t.Errorf("combine -f xml status = %v, want usage error", status)
	}
}

func TestRunCmd(t *testing.T) {
	tx, prices := inputs(t)
	dir := filepath.Join(t.TempDir(), "out")
	status, out := execute(t, &runCmd{}, "-t", tx, "-p", prices, "-o", dir)
	if status != subcommands.ExitSuccess {
		t.Fatalf("run status = %v, want success", status)
	}
	want := strings.Join([]string{
		filepath.Join(dir, "user_features.csv"),
		filepath.Join(dir, "stock_features.csv"),
		filepath.Join(dir, "combined_features.csv"),
	}, "\n") + "\n"
	if out != want {
		t.Errorf("run output = %q, want %q", out, want)
	}
	for _, file := range strings.Fields(out) {
		if _, err := os.Stat(file); err != nil {
			t.Errorf("run did not write %s: %v", file, err)
		}
	}
}

func TestRunCmdFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	if status, _ := execute(t, &runCmd{}, "-t", missing, "-o", t.TempDir()); status != subcommands.ExitFailure {
		t.Errorf("run with a missing file status = %v, want failure", status)
	}
}

func TestShowCmdPlain(t *testing.T) {
	tx, prices := inputs(t)
	status, out := execute(t, &showCmd{}, "-t", tx, "-p", prices, "-plain")
	if status != subcommands.ExitSuccess {
		t.Fatalf("show status = %v, want success", status)
	}
	for _, want := range []string{
		"### Monthly Transaction Features",
		"| 2023-01 | $1,000.00 | $200.00 | $800.00 | 2 | $200.00 | 100.00% | - | - |",
		"### Latest Price Features",
		"### Combined Features (SPY)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output is missing %q:\n%s", want, out)
		}
	}
}

func TestTopicCmdPlain(t *testing.T) {
	status, out := execute(t, &topicCmd{}, "-plain", "transactions")
	if status != subcommands.ExitSuccess {
		t.Fatalf("topic status = %v, want success", status)
	}
	if !strings.HasPrefix(out, "# Transactions") {
		t.Errorf("topic output = %q", out)
	}
	if status, _ := execute(t, &topicCmd{}, "-plain", "nope"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic status = %v, want failure", status)
	}
}

func TestKnown(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("featgen", flag.ContinueOnError), "featgen")
	Register(c)
	for _, name := range []string{"monthly", "prices", "combine", "run", "show", "topic"} {
		if !Known(c, name) {
			t.Errorf("Known(%q) = false, want true", name)
		}
	}
	if Known(c, "hello") {
		t.Errorf("Known(hello) = true, want false")
	}
}
