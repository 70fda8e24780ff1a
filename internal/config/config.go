package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agesync/internal/document"
	"agesync/internal/logs"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataFile = "ages.json"
	DefaultDocFile  = "README.md"
)

// Config holds the unified application configuration
type Config struct {
	DataFile string
	DocFile  string
	TimeZone string
	Label    string
	LogDir   string
}

// Settings represents the config file structure
type Settings struct {
	DataFile string `yaml:"data_file,omitempty"`
	DocFile  string `yaml:"doc_file,omitempty"`
	TimeZone string `yaml:"time_zone,omitempty"`
	Label    string `yaml:"label,omitempty"`
	LogDir   string `yaml:"log_dir,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	DataFile string
	DocFile  string
	TimeZone string
	Label    string
	LogDir   string
}

// configPathOverride lets tests point Load at a fixture file
var configPathOverride string

// Load loads configuration with priority: CLI flags > env vars > .env > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := &Config{
		DataFile: DefaultDataFile,
		DocFile:  DefaultDocFile,
		TimeZone: document.DefaultZone,
		Label:    document.DefaultLabel,
	}

	// Config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			cfg.apply(*fileConfig)
		}
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logs.Logger.Warnw("ignoring .env file", "error", err)
	}

	cfg.apply(Settings{
		DataFile: os.Getenv("AGESYNC_DATA"),
		DocFile:  os.Getenv("AGESYNC_DOC"),
		TimeZone: os.Getenv("AGESYNC_TZ"),
		Label:    os.Getenv("AGESYNC_LABEL"),
		LogDir:   os.Getenv("AGESYNC_LOG_DIR"),
	})

	cfg.apply(Settings(flags))

	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.DocFile = expandPath(cfg.DocFile)
	cfg.LogDir = expandPath(cfg.LogDir)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(s Settings) {
	if v := strings.TrimSpace(s.DataFile); v != "" {
		c.DataFile = v
	}
	if v := strings.TrimSpace(s.DocFile); v != "" {
		c.DocFile = v
	}
	if v := strings.TrimSpace(s.TimeZone); v != "" {
		c.TimeZone = v
	}
	if v := strings.TrimSpace(s.Label); v != "" {
		c.Label = v
	}
	if v := strings.TrimSpace(s.LogDir); v != "" {
		c.LogDir = v
	}
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	return document.LoadLocation(c.TimeZone)
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	if configPathOverride != "" {
		return configPathOverride, nil
	}
	if p := os.Getenv("AGESYNC_CONFIG"); p != "" {
		return expandPath(p), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "agesync", "config.yaml"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
