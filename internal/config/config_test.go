package config

import (
	"os"
	"path/filepath"
	"testing"

	"agesync/internal/logs"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func isolate(t *testing.T, configFile string) {
	t.Helper()
	for _, key := range []string{"AGESYNC_DATA", "AGESYNC_DOC", "AGESYNC_TZ", "AGESYNC_LABEL", "AGESYNC_LOG_DIR", "AGESYNC_CONFIG"} {
		t.Setenv(key, "")
	}
	if configFile == "" {
		configFile = filepath.Join(t.TempDir(), "missing.yaml")
	}
	configPathOverride = configFile
	t.Cleanup(func() { configPathOverride = "" })
}

func TestLoad_Default(t *testing.T) {
	isolate(t, "")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataFile != "ages.json" {
		t.Errorf("expected default data file 'ages.json', got %q", cfg.DataFile)
	}
	if cfg.DocFile != "README.md" {
		t.Errorf("expected default doc file 'README.md', got %q", cfg.DocFile)
	}
	if cfg.TimeZone != "Asia/Makassar" {
		t.Errorf("expected default zone, got %q", cfg.TimeZone)
	}
	if cfg.Label != "Denpasar, WITA Time (UTC+8)" {
		t.Errorf("unexpected default label %q", cfg.Label)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "data_file: pets.json\ndoc_file: PETS.md\ntime_zone: UTC\nlabel: UTC time\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	isolate(t, path)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataFile != "pets.json" {
		t.Errorf("expected pets.json, got %q", cfg.DataFile)
	}
	if cfg.DocFile != "PETS.md" {
		t.Errorf("expected PETS.md, got %q", cfg.DocFile)
	}
	if cfg.TimeZone != "UTC" || cfg.Label != "UTC time" {
		t.Errorf("unexpected zone/label %q / %q", cfg.TimeZone, cfg.Label)
	}
}

func TestLoad_InvalidConfigFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_file: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	isolate(t, path)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataFile != "ages.json" {
		t.Errorf("expected default data file, got %q", cfg.DataFile)
	}
}

func TestLoad_EnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("data_file: from-file.json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	isolate(t, path)
	t.Setenv("AGESYNC_DATA", "/tmp/env-ages.json")
	t.Setenv("AGESYNC_TZ", "UTC")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataFile != "/tmp/env-ages.json" {
		t.Errorf("expected env var to override config file, got %q", cfg.DataFile)
	}
	if cfg.TimeZone != "UTC" {
		t.Errorf("expected UTC, got %q", cfg.TimeZone)
	}
}

func TestLoad_CLIFlags(t *testing.T) {
	isolate(t, "")
	t.Setenv("AGESYNC_DOC", "/tmp/env-README.md")

	cfg, err := Load(CLIFlags{
		DocFile: "/tmp/cli-README.md",
		Label:   "custom",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// CLI flags should override env vars
	if cfg.DocFile != "/tmp/cli-README.md" {
		t.Errorf("expected /tmp/cli-README.md, got %q", cfg.DocFile)
	}
	if cfg.Label != "custom" {
		t.Errorf("expected custom label, got %q", cfg.Label)
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	isolate(t, "")

	cfg, err := Load(CLIFlags{
		DataFile: "~/pets/ages.json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(homeDir, "pets", "ages.json")
	if cfg.DataFile != expected {
		t.Errorf("expected %q, got %q", expected, cfg.DataFile)
	}
}

func TestLoad_InvalidTimeZone(t *testing.T) {
	isolate(t, "")

	if _, err := Load(CLIFlags{TimeZone: "Mars/Olympus"}); err == nil {
		t.Error("expected error for unknown time zone")
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{TimeZone: "Asia/Makassar"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "Asia/Makassar" {
		t.Errorf("expected Asia/Makassar, got %q", loc.String())
	}
}

func TestLoad_MalformedDotEnvWarns(t *testing.T) {
	isolate(t, "")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	core, recorded := observer.New(zapcore.WarnLevel)
	t.Cleanup(logs.Use(zap.New(core)))

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataFile != "ages.json" {
		t.Errorf("expected defaults to survive a bad .env, got %q", cfg.DataFile)
	}
	if recorded.FilterMessage("ignoring .env file").Len() != 1 {
		t.Errorf("expected a warning for the malformed .env, got %v", recorded.All())
	}
}

func TestLoad_MissingDotEnvIsSilent(t *testing.T) {
	isolate(t, "")
	chdir(t, t.TempDir())

	core, recorded := observer.New(zapcore.WarnLevel)
	t.Cleanup(logs.Use(zap.New(core)))

	if _, err := Load(CLIFlags{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorded.Len() != 0 {
		t.Errorf("expected no warnings without a .env file, got %v", recorded.All())
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
