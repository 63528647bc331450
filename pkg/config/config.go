// Package config loads zhcc.toml
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/Retryixagi/ZHCL/pkg/dump"
)

// FileName is the configuration file looked up in the working directory
const FileName = "zhcc.toml"

// Config is the root of zhcc.toml
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// ParserConfig selects parser behavior
type ParserConfig struct {
	// LegacyPrecedence drops the equality level from the expression chain
	LegacyPrecedence bool `toml:"legacy_precedence"`
}

// OutputConfig selects how dumps are rendered
type OutputConfig struct {
	Format dump.Format `toml:"format"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: dump.C},
		Log:    LogConfig{Level: "warn"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional loads path, or FileName when path is empty. A missing
// default file yields Default(); a missing explicit path is an error.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(FileName)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	if _, err := dump.ParseFormat(string(c.Output.Format)); err != nil {
		return fmt.Errorf("[output] %w", err)
	}
	if _, err := c.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// ZapLevel parses Log.Level
func (c *Config) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return lvl, nil
}
