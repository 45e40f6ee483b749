package main

// Notes:
// - loadEnvConfig: we test all environment variables across 3 tiers.
//   Invalid/negative values for timeout and workers are tested to verify
//   graceful handling (ignored, not errors).
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test priority behavior (env overrides the config file,
//   flags override env later) and that empty env values leave config alone.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"testing"
	"time"

	"github.com/jojo1992341/plume/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("Tier 1 - Essential", func(t *testing.T) {
		t.Setenv("PLUME_CONFIG", "/path/to/plume.yaml")
		t.Setenv("PLUME_STYLE", "elegant")
		t.Setenv("PLUME_TIMEOUT", "2m")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/plume.yaml" {
			t.Errorf("ConfigPath = %q, want /path/to/plume.yaml", cfg.ConfigPath)
		}
		if cfg.Style != "elegant" {
			t.Errorf("Style = %q, want elegant", cfg.Style)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
	})

	t.Run("Tier 2 - I/O and identity", func(t *testing.T) {
		t.Setenv("PLUME_LIBRARY", "/books/library.db")
		t.Setenv("PLUME_OUTPUT_DIR", "/output")
		t.Setenv("PLUME_AUTHOR", "Jeanne Dupont")
		t.Setenv("PLUME_LANGUAGE", "fr-CA")

		cfg := loadEnvConfig()

		if cfg.Library != "/books/library.db" {
			t.Errorf("Library = %q, want /books/library.db", cfg.Library)
		}
		if cfg.OutputDir != "/output" {
			t.Errorf("OutputDir = %q, want /output", cfg.OutputDir)
		}
		if cfg.Author != "Jeanne Dupont" {
			t.Errorf("Author = %q, want Jeanne Dupont", cfg.Author)
		}
		if cfg.Language != "fr-CA" {
			t.Errorf("Language = %q, want fr-CA", cfg.Language)
		}
	})

	t.Run("Tier 3 - Extended", func(t *testing.T) {
		t.Setenv("PLUME_PAGE_SIZE", "a4")
		t.Setenv("PLUME_WATERMARK", "BROUILLON")
		t.Setenv("PLUME_WORKERS", "4")

		cfg := loadEnvConfig()

		if cfg.PageSize != "a4" {
			t.Errorf("PageSize = %q, want a4", cfg.PageSize)
		}
		if cfg.Watermark != "BROUILLON" {
			t.Errorf("Watermark = %q, want BROUILLON", cfg.Watermark)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("invalid timeout ignored", func(t *testing.T) {
		t.Setenv("PLUME_TIMEOUT", "invalid")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (invalid value ignored)", cfg.Timeout)
		}
	})

	t.Run("negative timeout ignored", func(t *testing.T) {
		t.Setenv("PLUME_TIMEOUT", "-5s")

		cfg := loadEnvConfig()

		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 (negative value ignored)", cfg.Timeout)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		t.Setenv("PLUME_WORKERS", "abc")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 (invalid value ignored)", cfg.Workers)
		}
	})

	t.Run("negative workers ignored", func(t *testing.T) {
		t.Setenv("PLUME_WORKERS", "-2")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0 (negative value ignored)", cfg.Workers)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Unknown variable detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("warns on unknown PLUME_ vars", func(t *testing.T) {
		t.Setenv("PLUME_TYPO", "value")
		t.Setenv("PLUME_AUTOR", "typo")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		output := buf.String()
		if !bytes.Contains(buf.Bytes(), []byte("PLUME_TYPO")) {
			t.Errorf("should warn about PLUME_TYPO, got: %s", output)
		}
		if !bytes.Contains(buf.Bytes(), []byte("PLUME_AUTOR")) {
			t.Errorf("should warn about PLUME_AUTOR, got: %s", output)
		}
		if !bytes.Contains(buf.Bytes(), []byte("typo?")) {
			t.Errorf("should suggest typo, got: %s", output)
		}
	})

	t.Run("no warning for known vars", func(t *testing.T) {
		t.Setenv("PLUME_CONFIG", "/path")
		t.Setenv("PLUME_STYLE", "elegant")
		t.Setenv("PLUME_TIMEOUT", "2m")
		t.Setenv("PLUME_LIBRARY", "/books.db")
		t.Setenv("PLUME_OUTPUT_DIR", "/output")
		t.Setenv("PLUME_AUTHOR", "Jeanne")
		t.Setenv("PLUME_LANGUAGE", "fr")
		t.Setenv("PLUME_PAGE_SIZE", "a4")
		t.Setenv("PLUME_WATERMARK", "BROUILLON")
		t.Setenv("PLUME_WORKERS", "4")
		t.Setenv("PLUME_BROWSER_BIN", "/usr/bin/chromium")
		t.Setenv("PLUME_NO_SANDBOX", "1")
		t.Setenv("PLUME_CONTAINER", "1")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if buf.Len() > 0 {
			t.Errorf("should not warn for known vars, got: %s", buf.String())
		}
	})

	t.Run("ignores non-PLUME vars", func(t *testing.T) {
		t.Setenv("SOME_OTHER_VAR", "value")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if bytes.Contains(buf.Bytes(), []byte("SOME_OTHER_VAR")) {
			t.Errorf("should not warn about SOME_OTHER_VAR")
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Config application with priority
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("applies env to default config", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Style:     "elegant",
			Library:   "/books.db",
			OutputDir: "/output",
			Author:    "Jeanne Dupont",
			Language:  "fr-CA",
			PageSize:  "letter",
			Watermark: "BROUILLON",
			Workers:   4,
		}
		cfg := config.DefaultConfig()

		applyEnvConfig(env, cfg)

		if cfg.Style.Name != "elegant" {
			t.Errorf("Style.Name = %q, want elegant", cfg.Style.Name)
		}
		if cfg.Library.Path != "/books.db" {
			t.Errorf("Library.Path = %q, want /books.db", cfg.Library.Path)
		}
		if cfg.Output.Dir != "/output" {
			t.Errorf("Output.Dir = %q, want /output", cfg.Output.Dir)
		}
		if cfg.Book.Author != "Jeanne Dupont" {
			t.Errorf("Book.Author = %q, want Jeanne Dupont", cfg.Book.Author)
		}
		if cfg.Book.Language != "fr-CA" {
			t.Errorf("Book.Language = %q, want fr-CA", cfg.Book.Language)
		}
		if cfg.Page.Size != "letter" {
			t.Errorf("Page.Size = %q, want letter", cfg.Page.Size)
		}
		if cfg.Watermark != "BROUILLON" {
			t.Errorf("Watermark = %q, want BROUILLON", cfg.Watermark)
		}
		if cfg.Export.Workers != 4 {
			t.Errorf("Export.Workers = %d, want 4", cfg.Export.Workers)
		}
	})

	t.Run("env overrides config file values", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Style:  "env-style",
			Author: "Env Author",
		}
		cfg := config.DefaultConfig()
		cfg.Style.Name = "config-style"
		cfg.Book.Author = "Config Author"

		applyEnvConfig(env, cfg)

		if cfg.Style.Name != "env-style" {
			t.Errorf("Style.Name = %q, want env-style (env overrides config)", cfg.Style.Name)
		}
		if cfg.Book.Author != "Env Author" {
			t.Errorf("Book.Author = %q, want Env Author (env overrides config)", cfg.Book.Author)
		}
	})

	t.Run("empty env values do not affect config", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{} // All empty
		cfg := config.DefaultConfig()
		cfg.Style.Name = "existing"
		cfg.Book.Author = "Existing Author"
		cfg.Export.Workers = 2

		applyEnvConfig(env, cfg)

		if cfg.Style.Name != "existing" {
			t.Errorf("Style.Name = %q, want existing", cfg.Style.Name)
		}
		if cfg.Book.Author != "Existing Author" {
			t.Errorf("Book.Author = %q, want Existing Author", cfg.Book.Author)
		}
		if cfg.Export.Workers != 2 {
			t.Errorf("Export.Workers = %d, want 2", cfg.Export.Workers)
		}
	})

	t.Run("timeout is not applied to config", func(t *testing.T) {
		t.Parallel()

		// The timeout merges later in resolveTimeoutWithEnv, where the
		// flag value can still win.
		env := &envConfig{Timeout: time.Minute}
		cfg := config.DefaultConfig()

		applyEnvConfig(env, cfg)

		if cfg.Export.TimeoutSeconds != 0 {
			t.Errorf("Export.TimeoutSeconds = %d, want 0", cfg.Export.TimeoutSeconds)
		}
	})
}

// ---------------------------------------------------------------------------
// TestKnownEnvVars - Known variable list completeness
// ---------------------------------------------------------------------------

func TestKnownEnvVars(t *testing.T) {
	t.Parallel()

	expected := []string{
		"PLUME_CONFIG",
		"PLUME_STYLE",
		"PLUME_TIMEOUT",
		"PLUME_LIBRARY",
		"PLUME_OUTPUT_DIR",
		"PLUME_AUTHOR",
		"PLUME_LANGUAGE",
		"PLUME_PAGE_SIZE",
		"PLUME_WATERMARK",
		"PLUME_WORKERS",
		"PLUME_BROWSER_BIN",
		"PLUME_NO_SANDBOX",
		"PLUME_CONTAINER",
	}

	for _, name := range expected {
		if !knownEnvVars[name] {
			t.Errorf("knownEnvVars missing %s", name)
		}
	}

	if len(knownEnvVars) != len(expected) {
		t.Errorf("knownEnvVars has %d entries, want %d", len(knownEnvVars), len(expected))
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config resolution with env fallback
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("missing default config falls back to defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir()) // No config anywhere
		t.Setenv("XDG_CONFIG_HOME", "")

		cfg, err := loadConfig("", &envConfig{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Book.Language != "fr" {
			t.Errorf("Book.Language = %q, want fr (default)", cfg.Book.Language)
		}
	})

	t.Run("explicit missing config errors with hint", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig("does-not-exist", &envConfig{})
		if err == nil {
			t.Fatal("expected error for missing explicit config")
		}
		if !bytes.Contains([]byte(err.Error()), []byte("hint")) {
			t.Errorf("error should carry a hint, got: %v", err)
		}
	})

	t.Run("env config path used when flag empty", func(t *testing.T) {
		t.Parallel()

		_, err := loadConfig("", &envConfig{ConfigPath: "also-missing"})
		if err == nil {
			t.Fatal("expected error for missing env config")
		}
	})
}
