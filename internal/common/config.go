package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Whitelist source tokens accepted in whitelists.order
const (
	WhitelistPlayerLog   = "player_log"
	WhitelistCollections = "collections"
)

// Config represents the application configuration
type Config struct {
	Stripping  StrippingConfig  `toml:"stripping"`
	Whitelists WhitelistsConfig `toml:"whitelists"`
	Report     ReportConfig     `toml:"report"`
	Storage    StorageConfig    `toml:"storage"`
	Logging    LoggingConfig    `toml:"logging"`
}

// StrippingConfig holds the classification policy inputs
type StrippingConfig struct {
	StripAssetBundles        bool     `toml:"strip_asset_bundles"`         // Strip during the asset bundles (pre-final) stage
	StripPlayer              bool     `toml:"strip_player"`                // Strip during the player (final) stage
	SkipNotRegisteredShaders bool     `toml:"skip_not_registered_shaders"` // Keep shaders no whitelist knows about
	AlwaysIncluded           []string `toml:"always_included"`             // Shader names never stripped
	AlwaysExcluded           []string `toml:"always_excluded"`             // Shader names always stripped
}

// WhitelistsConfig locates the evidence sources and their evaluation order
type WhitelistsConfig struct {
	PlayerLog   string   `toml:"player_log"`                                              // Captured player log (empty = none)
	Collections []string `toml:"collections"`                                             // YAML variant collection files
	Order       []string `toml:"order" validate:"required,unique,dive,oneof=player_log collections"` // First match wins
}

// ReportConfig controls the stripping report
type ReportConfig struct {
	Enabled bool   `toml:"enabled"`
	Name    string `toml:"name" validate:"required"`
	Dir     string `toml:"dir" validate:"required"`
	History bool   `toml:"history"` // Persist run summaries in badger
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output" validate:"dive,oneof=stdout console file"`
	TimeFormat string   `toml:"time_format"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Stripping: StrippingConfig{
			StripAssetBundles: true,
			StripPlayer:       true,
		},
		Whitelists: WhitelistsConfig{
			Order: []string{WhitelistPlayerLog, WhitelistCollections},
		},
		Report: ReportConfig{
			Enabled: true,
			Name:    "ShaderStripper",
			Dir:     "./ShaderStrippingReports",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/history",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SHADERSTRIP_STRIP_ASSET_BUNDLES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Stripping.StripAssetBundles = b
		}
	}
	if v := os.Getenv("SHADERSTRIP_STRIP_PLAYER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Stripping.StripPlayer = b
		}
	}
	if v := os.Getenv("SHADERSTRIP_SKIP_NOT_REGISTERED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Stripping.SkipNotRegisteredShaders = b
		}
	}
	if v := os.Getenv("SHADERSTRIP_ALWAYS_INCLUDED"); v != "" {
		config.Stripping.AlwaysIncluded = splitList(v)
	}
	if v := os.Getenv("SHADERSTRIP_ALWAYS_EXCLUDED"); v != "" {
		config.Stripping.AlwaysExcluded = splitList(v)
	}

	if v := os.Getenv("SHADERSTRIP_PLAYER_LOG"); v != "" {
		config.Whitelists.PlayerLog = v
	}
	if v := os.Getenv("SHADERSTRIP_COLLECTIONS"); v != "" {
		config.Whitelists.Collections = splitList(v)
	}

	if v := os.Getenv("SHADERSTRIP_REPORT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Report.Enabled = b
		}
	}
	if v := os.Getenv("SHADERSTRIP_REPORT_DIR"); v != "" {
		config.Report.Dir = v
	}
	if v := os.Getenv("SHADERSTRIP_REPORT_HISTORY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Report.History = b
		}
	}

	if v := os.Getenv("SHADERSTRIP_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}

	if v := os.Getenv("SHADERSTRIP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("SHADERSTRIP_LOG_OUTPUT"); v != "" {
		config.Logging.Output = splitList(v)
	}
}

// FlagOverrides carries command-line values; zero values leave config untouched
type FlagOverrides struct {
	PlayerLog   string
	Collections []string
	ReportDir   string
	LogLevel    string
	NoReport    bool
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, flags FlagOverrides) {
	// Command-line flags have highest priority
	if flags.PlayerLog != "" {
		config.Whitelists.PlayerLog = flags.PlayerLog
	}
	if len(flags.Collections) > 0 {
		config.Whitelists.Collections = flags.Collections
	}
	if flags.ReportDir != "" {
		config.Report.Dir = flags.ReportDir
	}
	if flags.LogLevel != "" {
		config.Logging.Level = flags.LogLevel
	}
	if flags.NoReport {
		config.Report.Enabled = false
	}
	config.normalize()
}

// normalize drops empty shader names and collection paths, as the settings UI did
func (c *Config) normalize() {
	c.Stripping.AlwaysIncluded = compact(c.Stripping.AlwaysIncluded)
	c.Stripping.AlwaysExcluded = compact(c.Stripping.AlwaysExcluded)
	c.Whitelists.Collections = compact(c.Whitelists.Collections)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// Validate checks the configuration using go-playground/validator
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// HasWhitelist reports whether a whitelist source token is enabled in the order list
func (c *Config) HasWhitelist(name string) bool {
	for _, n := range c.Whitelists.Order {
		if n == name {
			return true
		}
	}
	return false
}

// DeepCloneConfig creates a deep copy of the Config struct
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Stripping.AlwaysIncluded = cloneStrings(c.Stripping.AlwaysIncluded)
	clone.Stripping.AlwaysExcluded = cloneStrings(c.Stripping.AlwaysExcluded)
	clone.Whitelists.Collections = cloneStrings(c.Whitelists.Collections)
	clone.Whitelists.Order = cloneStrings(c.Whitelists.Order)
	clone.Logging.Output = cloneStrings(c.Logging.Output)
	return &clone
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func splitList(value string) []string {
	return compact(strings.Split(value, ","))
}

func compact(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
