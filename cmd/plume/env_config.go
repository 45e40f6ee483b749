package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/hints"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // PLUME_CONFIG: config file name or path
	Style      string        // PLUME_STYLE: stylesheet name or CSS file path
	Timeout    time.Duration // PLUME_TIMEOUT: per-export timeout

	// Tier 2 - I/O and identity
	Library   string // PLUME_LIBRARY: library database path
	OutputDir string // PLUME_OUTPUT_DIR: default export directory
	Author    string // PLUME_AUTHOR: author name
	Language  string // PLUME_LANGUAGE: book language (BCP 47 tag)

	// Tier 3 - Extended
	PageSize  string // PLUME_PAGE_SIZE: a4, letter, legal
	Watermark string // PLUME_WATERMARK: watermark text
	Workers   int    // PLUME_WORKERS: parallel exports
}

// knownEnvVars lists valid PLUME_* environment variables.
// Used to detect typos and warn users about unknown variables.
// PLUME_BROWSER_BIN, PLUME_NO_SANDBOX, and PLUME_CONTAINER are consumed by
// the PDF converter and the doctor command rather than by this file.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"PLUME_CONFIG":  true,
	"PLUME_STYLE":   true,
	"PLUME_TIMEOUT": true,
	// Tier 2 - I/O and identity
	"PLUME_LIBRARY":    true,
	"PLUME_OUTPUT_DIR": true,
	"PLUME_AUTHOR":     true,
	"PLUME_LANGUAGE":   true,
	// Tier 3 - Extended
	"PLUME_PAGE_SIZE": true,
	"PLUME_WATERMARK": true,
	"PLUME_WORKERS":   true,
	// Browser and environment detection
	"PLUME_BROWSER_BIN": true,
	"PLUME_NO_SANDBOX":  true,
	"PLUME_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized PLUME_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("PLUME_CONFIG"),
		Style:      os.Getenv("PLUME_STYLE"),
		// Tier 2
		Library:   os.Getenv("PLUME_LIBRARY"),
		OutputDir: os.Getenv("PLUME_OUTPUT_DIR"),
		Author:    os.Getenv("PLUME_AUTHOR"),
		Language:  os.Getenv("PLUME_LANGUAGE"),
		// Tier 3
		PageSize:  os.Getenv("PLUME_PAGE_SIZE"),
		Watermark: os.Getenv("PLUME_WATERMARK"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("PLUME_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("PLUME_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PLUME_* variables.
// Helps catch typos like PLUME_AUTOR instead of PLUME_AUTHOR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PLUME_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file, giving the merge order
// defaults < config file < env vars < CLI flags.
// (CLI flags are applied later via mergeExportFlags.)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Style (timeout is resolved separately in resolveTimeoutWithEnv)
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}

	// Tier 2 - I/O
	if env.Library != "" {
		cfg.Library.Path = env.Library
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}

	// Tier 2 - Identity
	if env.Author != "" {
		cfg.Book.Author = env.Author
	}
	if env.Language != "" {
		cfg.Book.Language = env.Language
	}

	// Tier 3
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Watermark != "" {
		cfg.Watermark = env.Watermark
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
}

// loadConfig resolves the effective configuration: defaults, then the config
// file named by the flag or PLUME_CONFIG, then PLUME_* overrides.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	var cfg *config.Config
	var err error
	if name != "" {
		cfg, err = config.LoadConfig(name)
	} else {
		cfg, err = config.LoadDefault()
	}
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}
