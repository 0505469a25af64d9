// Package config loads the scanner settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/esimov/docscan/export"
	"github.com/esimov/docscan/filter"
	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"
)

// Config holds every configurable aspect of the scanner.
type Config struct {
	Enhance filter.Options `yaml:"enhance"`
	Burst   BurstConfig    `yaml:"burst"`
	Export  ExportConfig   `yaml:"export"`
	Server  ServerConfig   `yaml:"server"`
	Logging LoggingConfig  `yaml:"logging"`
}

// BurstConfig configures the continuous capture mode.
type BurstConfig struct {
	// Interval between two captures, in seconds.
	Interval float64 `yaml:"interval"`
}

// ExportConfig configures the zip and PDF export.
type ExportConfig struct {
	Quality int `yaml:"quality"`
}

// ServerConfig configures the static and export web server.
type ServerConfig struct {
	Address string `yaml:"address"`
	Root    string `yaml:"root"`
	// MaxUpload limits the size of an export request body, in megabytes.
	MaxUpload int64 `yaml:"max_upload"`
}

// LoggingConfig configures the log output.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Limits of the user adjustable settings.
const (
	MinBrightness = -100
	MaxBrightness = 100
	MinContrast   = 50
	MaxContrast   = 200
	MinSharpness  = 0
	MaxSharpness  = 100
	MinInterval   = 0.5
	MaxInterval   = 10
)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Enhance: filter.DefaultOptions(),
		Burst:   BurstConfig{Interval: 2},
		Export:  ExportConfig{Quality: export.DefaultQuality},
		Server: ServerConfig{
			Address:   "localhost:5000",
			Root:      ".",
			MaxUpload: 64,
		},
	}
}

// Load reads the configuration file found at path on top of the defaults.
// A missing file is not an error: the defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("cannot read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvOverrides()
	cfg.Validate()

	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate clamps every setting to its accepted range.
func (c *Config) Validate() {
	e := &c.Enhance
	e.Brightness = clamp(e.Brightness, MinBrightness, MaxBrightness)
	e.Contrast = clamp(e.Contrast, MinContrast, MaxContrast)
	e.Sharpness = clamp(e.Sharpness, MinSharpness, MaxSharpness)

	c.Burst.Interval = clamp(c.Burst.Interval, MinInterval, MaxInterval)
	c.Export.Quality = clamp(c.Export.Quality, 1, 100)

	if c.Server.Address == "" {
		c.Server.Address = Defaults().Server.Address
	}
	if c.Server.Root == "" {
		c.Server.Root = "."
	}
	if c.Server.MaxUpload <= 0 {
		c.Server.MaxUpload = Defaults().Server.MaxUpload
	}
}

// BurstInterval returns the continuous capture interval as a duration.
func (c *Config) BurstInterval() time.Duration {
	return time.Duration(c.Burst.Interval * float64(time.Second))
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DOCSCAN_ADDR"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("DOCSCAN_ROOT"); v != "" {
		c.Server.Root = v
	}
	if v := os.Getenv("DOCSCAN_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
