// Package config layers command-line flags over environment variables
// into an immutable Config, the shape cmd/xlr's subcommands and
// internal/telemetry's optional recorder both read from.
//
// Defaults come first, then a `.env` file if present, then process
// environment variables, then command-line flags — each layer only
// overrides the previous one when it actually sets a value.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	envMaxDepth    = "XLR_MAX_DEPTH"
	envTelemetry   = "XLR_TELEMETRY_DSN"
	envLogLevel    = "XLR_LOG_LEVEL"
	envTraceColors = "XLR_TRACE_COLOR"
)

// Config is the resolved, read-only configuration for one process
// invocation: recursion-depth limit, optional telemetry sink, and
// diagnostic/trace verbosity.
type Config struct {
	MaxDepth     int
	TelemetryDSN string
	LogLevel     string
	TraceColor   bool
}

// defaults gives every field a usable value with no flags and no .env
// file at all.
func defaults() Config {
	return Config{
		MaxDepth:     4096,
		TelemetryDSN: "",
		LogLevel:     "info",
		TraceColor:   true,
	}
}

// Load resolves a Config from (in ascending priority) built-in defaults,
// a `.env` file if present in the working directory, process environment
// variables, then command-line flags parsed from args. A missing .env
// file is not an error — godotenv.Load()'s result is intentionally
// discarded.
func Load(args []string) (*Config, []string, error) {
	_ = godotenv.Load()

	cfg := defaults()
	applyEnv(&cfg)

	fs := pflag.NewFlagSet("xlr", pflag.ContinueOnError)
	maxDepth := fs.Int("max-depth", cfg.MaxDepth, "maximum rewrite recursion depth before a fatal stack-overflow diagnostic")
	telemetryDSN := fs.String("telemetry", cfg.TelemetryDSN, "SQLite file path for the optional session recorder; empty disables it")
	logLevel := fs.String("log-level", cfg.LogLevel, "debug, info, or warn")
	traceColor := fs.Bool("color", cfg.TraceColor, "colorize trace and diagnostic output when attached to a terminal")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg.MaxDepth = *maxDepth
	cfg.TelemetryDSN = *telemetryDSN
	cfg.LogLevel = *logLevel
	cfg.TraceColor = *traceColor

	return &cfg, fs.Args(), nil
}

// Resolve returns the defaults layered with `.env` and environment
// variable overrides, without parsing any command-line flags. Callers
// that parse flags through their own flag library (cobra's subcommand
// trees, for instance) use this as the pre-flag baseline and apply their
// own flag values on top.
func Resolve() Config {
	_ = godotenv.Load()
	cfg := defaults()
	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(envMaxDepth); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxDepth = n
		}
	}
	if v := os.Getenv(envTelemetry); v != "" {
		cfg.TelemetryDSN = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envTraceColors); v != "" {
		cfg.TraceColor = v != "0" && v != "false"
	}
}
