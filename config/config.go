// Package config loads the configuration of the feature pipeline.
//
// Values come, by increasing priority, from the defaults, an optional YAML
// file, a .env file and FEATURES_* environment variables. Command-line flags
// are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/features"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "FEATURES_"

// Config holds the pipeline configuration.
type Config struct {
	Transactions string `yaml:"transactions"` // path of the transactions CSV file
	Prices       string `yaml:"prices"`       // path of the prices CSV file
	OutputDir    string `yaml:"output_dir"`   // folder receiving the feature files
	Benchmark    string `yaml:"benchmark"`    // symbol joined with the monthly transaction features
	Format       string `yaml:"format"`       // csv or jsonl
	Currency     string `yaml:"currency"`     // ISO 4217 code used to display amounts
	LogLevel     string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		OutputDir: ".",
		Benchmark: features.DefaultBenchmark,
		Format:    string(features.CSV),
		Currency:  money.USD,
		LogLevel:  "info",
	}
}

// Load returns the configuration read from the YAML file at 'path' (optional
// when empty), the .env file of the working directory and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("cannot read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("cannot parse config file %q: %w", path, err)
		}
	}

	// godotenv never overrides a variable already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cannot load .env file: %v", err)
	}
	cfg.applyEnv(os.LookupEnv)

	return cfg, cfg.Validate()
}

// fields returns the configuration fields by environment variable suffix.
func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"TRANSACTIONS": &c.Transactions,
		"PRICES":       &c.Prices,
		"OUTPUT_DIR":   &c.OutputDir,
		"BENCHMARK":    &c.Benchmark,
		"FORMAT":       &c.Format,
		"CURRENCY":     &c.Currency,
		"LOG_LEVEL":    &c.LogLevel,
	}
}

// applyEnv overrides the fields whose FEATURES_* variable is set.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for name, field := range c.fields() {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = strings.TrimSpace(v)
		}
	}
}

// Environ returns the configuration as sorted "FEATURES_NAME=value" entries,
// the form read back by Load.
func (c Config) Environ() []string {
	var env []string
	for name, field := range c.fields() {
		env = append(env, EnvPrefix+name+"="+*field)
	}
	slices.Sort(env)
	return env
}

// Validate checks that the configuration can be used by the pipeline.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Benchmark) == "" {
		return errors.New("benchmark symbol cannot be empty")
	}
	if _, err := features.ParseFormat(c.Format); err != nil {
		return err
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}
	return nil
}

// Job returns the pipeline job described by the configuration.
func (c Config) Job() (features.Job, error) {
	format, err := features.ParseFormat(c.Format)
	if err != nil {
		return features.Job{}, err
	}
	return features.Job{
		Transactions: c.Transactions,
		Prices:       c.Prices,
		OutputDir:    c.OutputDir,
		Benchmark:    c.Benchmark,
		Format:       format,
	}, nil
}
