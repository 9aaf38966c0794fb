// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for aura.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, AURA_* environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.aura/config.toml
//   - ~/.aura/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DevBackendURL is the backend origin used in development when none is set.
const DevBackendURL = "http://localhost:8000"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "AURA_"

// Config represents the complete aura configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Environment selects the backend origin default: "development" or "production".
	Environment string `toml:"environment" json:"environment" env:"ENV" validate:"required,oneof=development production"`

	Backend BackendConfig `toml:"backend" json:"backend" envPrefix:"BACKEND_"`
	Logging LoggingConfig `toml:"logging" json:"logging" envPrefix:"LOG_"`
	UI      UIConfig      `toml:"ui" json:"ui" envPrefix:"UI_"`
	Watch   WatchConfig   `toml:"watch" json:"watch" envPrefix:"WATCH_"`
}

// BackendConfig describes the RAG backend.
type BackendConfig struct {
	// URL is the backend origin. Empty means DevBackendURL in development.
	URL string `toml:"url" json:"url" env:"URL" validate:"omitempty,url"`
	// Timeout bounds each request. Zero disables the timeout.
	Timeout time.Duration `toml:"timeout" json:"timeout" env:"TIMEOUT" validate:"gte=0"`
	// Token is sent as a bearer token when set.
	Token string `toml:"token,omitempty" json:"token,omitempty" env:"TOKEN"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	File       string `toml:"file" json:"file" env:"FILE"`
	Level      string `toml:"level" json:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" env:"MAX_SIZE_MB" validate:"gte=1,lte=1024"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" env:"MAX_BACKUPS" validate:"gte=0,lte=100"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme     string `toml:"theme" json:"theme" env:"THEME" validate:"oneof=auto dark light"`
	Mouse     bool   `toml:"mouse" json:"mouse" env:"MOUSE"`
	ExportDir string `toml:"export_dir" json:"export_dir" env:"EXPORT_DIR"`
}

// WatchConfig configures the directory auto-ingest command.
type WatchConfig struct {
	Debounce   time.Duration `toml:"debounce" json:"debounce" env:"DEBOUNCE" validate:"gt=0"`
	Extensions []string      `toml:"extensions" json:"extensions" env:"EXTENSIONS" envSeparator:"," validate:"min=1,dive,startswith=."`
	// UploadsPerSecond caps how fast a burst of new files is sent to the backend.
	UploadsPerSecond float64 `toml:"uploads_per_second" json:"uploads_per_second" env:"UPLOADS_PER_SECOND" validate:"gt=0"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Version:     "1",
		Environment: EnvDevelopment,
		Backend: BackendConfig{
			URL:     "",
			Timeout: 0,
		},
		Logging: LoggingConfig{
			File:       "",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
		UI: UIConfig{
			Theme:     "auto",
			Mouse:     true,
			ExportDir: ".",
		},
		Watch: WatchConfig{
			Debounce:         500 * time.Millisecond,
			Extensions:       []string{".pdf", ".txt", ".md"},
			UploadsPerSecond: 2,
		},
	}
}

// BaseURL resolves the backend origin for the configured environment.
// Returns an empty string in production when no URL is configured.
func (c *Config) BaseURL() string {
	if u := strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/"); u != "" {
		return u
	}
	if c.Environment == EnvProduction {
		return ""
	}
	return DevBackendURL
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aura configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aura"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogPath returns ~/.aura/logs/aura.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "aura.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// The .env file and AURA_* environment overrides are applied last.
func Load() (*Config, error) {
	if path, err := ConfigPathTOML(); err == nil && fileExists(path) {
		return LoadFromPath(path)
	}
	if path, err := ConfigPathJSON(); err == nil && fileExists(path) {
		return LoadFromPath(path)
	}
	return finish(Default())
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Files ending in .json are decoded as JSON, anything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadTOML decodes a TOML file onto cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file onto cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// finish applies environment overrides, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides loads ./.env (if present) and applies AURA_* variables.
// Variables already set in the process environment win over the .env file.
//
// Supported environment variables:
//   - AURA_ENV: development or production
//   - AURA_BACKEND_URL, AURA_BACKEND_TIMEOUT, AURA_BACKEND_TOKEN
//   - AURA_LOG_FILE, AURA_LOG_LEVEL, AURA_LOG_MAX_SIZE_MB, AURA_LOG_MAX_BACKUPS
//   - AURA_UI_THEME, AURA_UI_MOUSE, AURA_UI_EXPORT_DIR
//   - AURA_WATCH_DEBOUNCE, AURA_WATCH_EXTENSIONS, AURA_WATCH_UPLOADS_PER_SECOND
func (c *Config) ApplyEnvOverrides() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
}

// SetDefaults fills zero values that would otherwise fail validation.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	c.Environment = normalizeEnvironment(c.Environment)

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.ExportDir == "" {
		c.UI.ExportDir = defaults.UI.ExportDir
	}

	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = defaults.Watch.Extensions
	}
	for i, ext := range c.Watch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Watch.Extensions[i] = ext
	}
	if c.Watch.UploadsPerSecond == 0 {
		c.Watch.UploadsPerSecond = defaults.Watch.UploadsPerSecond
	}
}

func normalizeEnvironment(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dev", "local", EnvDevelopment:
		return EnvDevelopment
	case "prod", EnvProduction:
		return EnvProduction
	default:
		return name
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# aura configuration file")
	fmt.Fprintln(file, "# Environment variables prefixed with AURA_ override these values.")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their TOML keys.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := structValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Message: describeTag(fe),
			})
		}
	}

	if c.Environment == EnvProduction && strings.TrimSpace(c.Backend.URL) == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: "required in production (no same-origin backend for a terminal client)",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// fieldPath strips the root struct name: "Config.backend.url" -> "backend.url".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("invalid value '%v', must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("invalid URL '%v'", fe.Value())
	case "startswith":
		return fmt.Sprintf("'%v' must start with '%s'", fe.Value(), fe.Param())
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("value %v violates %s=%s", fe.Value(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// String returns a JSON representation of the config with the token redacted.
func (c *Config) String() string {
	safe := *c
	safe.Watch.Extensions = append([]string(nil), c.Watch.Extensions...)
	if safe.Backend.Token != "" {
		safe.Backend.Token = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access and falls back to defaults on error.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
