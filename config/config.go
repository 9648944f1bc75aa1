// Package config provides CLI configuration management for the studtrack
// command-line tool. It supports loading configuration from YAML files,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultOutputFormat = OutputFormatText
	DefaultReportPath   = "studtrack_report.txt"
	DefaultConfigDir    = ".studtrack"
	DefaultConfigFile   = "config.yaml"
)

// CLIConfig holds the studtrack CLI configuration.
type CLIConfig struct {
	// OutputFormat controls how structured results are rendered.
	OutputFormat OutputFormat `yaml:"output_format"`

	// ReportPath is the default destination for generated report files.
	ReportPath string `yaml:"report_path"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug"`

	// LogJSON emits logs as JSON instead of console lines.
	LogJSON bool `yaml:"log_json"`

	// SkipInvalid continues batch processing past meetings that fail
	// validation instead of aborting the whole run.
	SkipInvalid bool `yaml:"skip_invalid"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		OutputFormat: DefaultOutputFormat,
		ReportPath:   DefaultReportPath,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $STUDTRACK_CONFIG_DIR if set, otherwise ~/.studtrack
func ConfigDir() (string, error) {
	if dir := os.Getenv("STUDTRACK_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.studtrack/config.yaml or $STUDTRACK_CONFIG_DIR/config.yaml)
// 3. Environment variables (STUDTRACK_OUTPUT_FORMAT, STUDTRACK_REPORT_PATH, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromPath loads configuration from an explicit file path,
// still applying environment overrides on top. The file must exist.
func LoadConfigFromPath(path string) (*CLIConfig, error) {
	cfg := DefaultConfig()

	if err := loadFromFile(cfg, expandPath(path)); err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Temp struct so that absent keys don't clobber defaults.
	type configFile struct {
		OutputFormat OutputFormat `yaml:"output_format"`
		ReportPath   string       `yaml:"report_path"`
		Debug        bool         `yaml:"debug"`
		LogJSON      bool         `yaml:"log_json"`
		SkipInvalid  bool         `yaml:"skip_invalid"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.ReportPath != "" {
		cfg.ReportPath = fileCfg.ReportPath
	}
	cfg.Debug = fileCfg.Debug
	cfg.LogJSON = fileCfg.LogJSON
	cfg.SkipInvalid = fileCfg.SkipInvalid

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("STUDTRACK_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("STUDTRACK_REPORT_PATH"); v != "" {
		cfg.ReportPath = v
	}

	if v := os.Getenv("STUDTRACK_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("STUDTRACK_LOG_JSON"); v == "true" || v == "1" {
		cfg.LogJSON = true
	}

	if v := os.Getenv("STUDTRACK_SKIP_INVALID"); v == "true" || v == "1" {
		cfg.SkipInvalid = true
	}
}

// Validate checks the configuration for invalid values.
func (c *CLIConfig) Validate() error {
	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	if c.ReportPath == "" {
		return fmt.Errorf("report_path is required")
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// expandPath expands a leading ~/ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
