// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/lexgen/internal/gen"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "lexgen.yaml"

// Config is the root configuration structure.
type Config struct {
	Input   string        `yaml:"input"`  // Lexicon directory, git URL or owner/repo
	Output  string        `yaml:"output"` // Output directory (default: ./generated)
	Prefix  string        `yaml:"prefix"` // Namespace prefix for generated modules
	Target  string        `yaml:"target"` // python, go or jsonschema (default: python)
	Only    []string      `yaml:"only"`   // NSID prefixes to emit
	Strict  bool          `yaml:"strict"` // Fail on unresolved references
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig configures the generation cache.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled"`
	Dir      string `yaml:"dir"` // Cache root (default: user cache dir)
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	LEXGEN_INPUT          - Lexicon source (default: ./lexicons or .)
//	LEXGEN_OUTPUT         - Output directory (default: ./generated)
//	LEXGEN_PREFIX         - Namespace prefix
//	LEXGEN_TARGET         - python, go or jsonschema (default: python)
//	LEXGEN_ONLY           - Comma separated NSID prefixes
//	LEXGEN_STRICT         - Fail on unresolved references
//	LEXGEN_CACHE_DISABLED - Always regenerate
//	LEXGEN_CACHE_DIR      - Cache root
//	LEXGEN_LOG_LEVEL      - debug, info, warn, error (default: info)
//	LEXGEN_LOG_FORMAT     - json or console (default: console)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to the
// environment otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies LEXGEN_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEXGEN_INPUT"); v != "" {
		cfg.Input = v
	}
	if v := os.Getenv("LEXGEN_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("LEXGEN_PREFIX"); v != "" {
		cfg.Prefix = v
	}
	if v := os.Getenv("LEXGEN_TARGET"); v != "" {
		cfg.Target = v
	}
	if v := os.Getenv("LEXGEN_ONLY"); v != "" {
		cfg.Only = splitList(v)
	}
	if v := os.Getenv("LEXGEN_STRICT"); v != "" {
		cfg.Strict = parseBool(v)
	}

	if v := os.Getenv("LEXGEN_CACHE_DISABLED"); v != "" {
		cfg.Cache.Disabled = parseBool(v)
	}
	if v := os.Getenv("LEXGEN_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}

	if v := os.Getenv("LEXGEN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEXGEN_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = "./generated"
	}
	if cfg.Target == "" {
		cfg.Target = gen.DefaultTarget
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validate(cfg *Config) error {
	if targets := gen.Available(); !slices.Contains(targets, cfg.Target) {
		return fmt.Errorf("target must be one of: %s, got %q", strings.Join(targets, ", "), cfg.Target)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	for _, p := range cfg.Only {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("only must not contain empty prefixes")
		}
	}
	return nil
}
