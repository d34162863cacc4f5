package features

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInputs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "2023", "q1"), 0755); err != nil {
		t.Fatal(err)
	}
	a := writeFile(t, dir, "a.csv", "")
	b := writeFile(t, filepath.Join(dir, "2023"), "b.csv", "")
	c := writeFile(t, filepath.Join(dir, "2023", "q1"), "c.csv", "")
	writeFile(t, dir, "notes.txt", "")

	testCases := []struct {
		path string
		want []string
	}{
		{a, []string{a}},
		{filepath.Join(dir, "missing.csv"), []string{filepath.Join(dir, "missing.csv")}},
		{filepath.Join(dir, "*.csv"), []string{a}},
		{filepath.Join(dir, "**", "*.csv"), []string{b, c, a}},
		{filepath.Join(dir, "2023", "*", "*.csv"), []string{c}},
	}
	for _, tc := range testCases {
		got, err := Inputs(tc.path)
		if err != nil {
			t.Errorf("Inputs(%q) error: %v", tc.path, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Inputs(%q) mismatch (-want +got):\n%s", tc.path, diff)
		}
	}

	if _, err := Inputs(filepath.Join(dir, "*.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Inputs(no match) error = %v, want fs.ErrNotExist", err)
	}
}

func TestInputDirAndMatch(t *testing.T) {
	testCases := []struct {
		path, dir, name string
		match           bool
	}{
		{"data/tx.csv", "data", "data/tx.csv", true},
		{"data/tx.csv", "data", "data/other.csv", false},
		{"tx.csv", ".", "./tx.csv", true},
		{"data/*.csv", "data", "data/jan.csv", true},
		{"data/*.csv", "data", "data/jan.txt", false},
		{"data/**/*.csv", "data", "data/2023/jan.csv", true},
		{"*.csv", ".", "./jan.csv", true},
	}
	for _, tc := range testCases {
		if got := inputDir(filepath.FromSlash(tc.path)); got != filepath.FromSlash(tc.dir) {
			t.Errorf("inputDir(%q) = %q, want %q", tc.path, got, tc.dir)
		}
		if got := matchInput(filepath.FromSlash(tc.path), filepath.FromSlash(tc.name)); got != tc.match {
			t.Errorf("matchInput(%q, %q) = %v, want %v", tc.path, tc.name, got, tc.match)
		}
	}
}

func TestRunConcatenatesInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "jan.csv", "transaction_id,date,amount,category\nt1,2023-01-05,1000,salary\n")
	writeFile(t, dir, "feb.csv", "transaction_id,date,amount,category\nt2,2023-02-05,-20,food\n")

	res, err := Run(t.Context(), Job{Transactions: filepath.Join(dir, "*.csv")})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Monthly.Len() != 2 {
		t.Errorf("Run() built %d months, want 2", res.Monthly.Len())
	}
}
