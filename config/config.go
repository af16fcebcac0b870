// Package config loads engine settings from defaults, an optional YAML file
// and FOURMATION_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fourmation/fourmation/eval"
	"github.com/fourmation/fourmation/search"
	"github.com/fourmation/fourmation/thermal"
)

type Config struct {
	// Search settings for the normal thermal band; LimitedDepth is the
	// depth used once the machine runs hot.
	Depth        int `mapstructure:"depth"`
	LimitedDepth int `mapstructure:"limited-depth"`
	TimeBudgetMs int `mapstructure:"time-budget-ms"`

	// Thermal thresholds in degrees Celsius.
	NormalMaxTemp    float64 `mapstructure:"normal-max-temp"`
	ElevatedMaxTemp  float64 `mapstructure:"elevated-max-temp"`
	HysteresisMargin float64 `mapstructure:"hysteresis-margin"`
	SampleIntervalMs int     `mapstructure:"sample-interval-ms"`

	Debug bool `mapstructure:"debug"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("depth", 8)
	v.SetDefault("limited-depth", 4)
	v.SetDefault("time-budget-ms", 5000)
	v.SetDefault("normal-max-temp", thermal.DefaultThresholds.NormalMax)
	v.SetDefault("elevated-max-temp", thermal.DefaultThresholds.ElevatedMax)
	v.SetDefault("hysteresis-margin", thermal.DefaultThresholds.Margin)
	v.SetDefault("sample-interval-ms", int(thermal.DefaultSampleInterval/time.Millisecond))
	v.SetDefault("debug", false)
}

// Load reads the configuration. path names a YAML file and may be empty, in
// which case only defaults and environment variables apply.
func (c *Config) Load(path string) error {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("fourmation")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Depth < 1 || c.Depth > search.MaxDepth {
		return fmt.Errorf("depth %d out of range 1..%d", c.Depth, search.MaxDepth)
	}
	if c.LimitedDepth < 1 || c.LimitedDepth > c.Depth {
		return fmt.Errorf("limited-depth %d out of range 1..%d", c.LimitedDepth, c.Depth)
	}
	if c.NormalMaxTemp >= c.ElevatedMaxTemp {
		return fmt.Errorf("normal-max-temp %.1f must be below elevated-max-temp %.1f",
			c.NormalMaxTemp, c.ElevatedMaxTemp)
	}
	if c.HysteresisMargin < 0 {
		return fmt.Errorf("hysteresis-margin %.1f must not be negative", c.HysteresisMargin)
	}
	return nil
}

// Thresholds converts the loaded temperatures into selector thresholds.
func (c *Config) Thresholds() thermal.Thresholds {
	return thermal.Thresholds{
		NormalMax:   c.NormalMaxTemp,
		ElevatedMax: c.ElevatedMaxTemp,
		Margin:      c.HysteresisMargin,
	}
}

// SampleInterval returns the monitor cadence.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalMs) * time.Millisecond
}

// ConfigTable builds the per-band search configurations from the loaded
// depths and time budget. The critical band halves the limited depth (never
// below one) and evaluates with the cheaper weights.
func (c *Config) ConfigTable() thermal.ConfigTable {
	budget := time.Duration(c.TimeBudgetMs) * time.Millisecond
	criticalDepth := c.LimitedDepth / 2
	if criticalDepth < 1 {
		criticalDepth = 1
	}
	return thermal.ConfigTable{
		thermal.Normal:   {Depth: c.Depth, TimeBudget: budget, Weights: eval.DefaultWeights},
		thermal.Elevated: {Depth: c.LimitedDepth, TimeBudget: budget / 2, Weights: eval.DefaultWeights},
		thermal.Critical: {Depth: criticalDepth, TimeBudget: budget / 4, Weights: eval.ReducedWeights},
	}
}
