// Package config loads snputil defaults from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-rf/deembed/ieeep370"
	"github.com/cwbudde/algo-rf/measure/quality"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/mixedmode"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/touchstone"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "snputil.yaml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the CLI defaults. Flags override loaded values.
type Config struct {
	OutDir          string  `yaml:"out_dir"`
	Format          string  `yaml:"format"`
	Z0              float64 `yaml:"z0"`
	PassCriterion   float64 `yaml:"pass_criterion"`
	Order           string  `yaml:"order"`
	FreqUnit        string  `yaml:"freq_unit"`
	NoPlot          bool    `yaml:"no_plot"`
	PreResponseTime float64 `yaml:"pre_response_time"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		OutDir:          ".",
		Format:          "ri",
		Z0:              network.DefaultZ0,
		PassCriterion:   quality.DefaultPassCriterion,
		Order:           mixedmode.OrderSides.String(),
		FreqUnit:        frequency.Hz.String(),
		PreResponseTime: ieeep370.DefaultPreResponseTime,
	}
}

// Load reads path on top of the defaults. An empty path tries DefaultFile
// and falls back to the defaults when it does not exist. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SNPUTIL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SNPUTIL_OUT_DIR"); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv("SNPUTIL_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("SNPUTIL_PASS_CRITERION"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: SNPUTIL_PASS_CRITERION=%q", ErrInvalid, v)
		}
		c.PassCriterion = p
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := touchstone.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Format)
	}
	if _, err := mixedmode.ParseOrder(c.Order); err != nil {
		return fmt.Errorf("%w: order %q", ErrInvalid, c.Order)
	}
	if _, err := frequency.ParseUnit(c.FreqUnit); err != nil {
		return fmt.Errorf("%w: freq_unit %q", ErrInvalid, c.FreqUnit)
	}
	if !(c.Z0 > 0) {
		return fmt.Errorf("%w: z0 must be positive, got %g", ErrInvalid, c.Z0)
	}
	if c.PassCriterion < 0 || c.PassCriterion > 100 {
		return fmt.Errorf("%w: pass_criterion must be within [0, 100], got %g", ErrInvalid, c.PassCriterion)
	}
	if c.PreResponseTime < 0 {
		return fmt.Errorf("%w: pre_response_time must not be negative", ErrInvalid)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir is empty", ErrInvalid)
	}
	return nil
}
