// Package config provides the configuration system for strata.
// It defines a single Config structure used by the analysis engine,
// organized into logical sections:
//   - Decision: strategy thresholds and the safety margin
//   - Sampling: caps on how much of a file is read during profiling
//   - Overhead: estimator tuning knobs and fallback policy
//   - Logging: structured logging settings
//
// The threshold constants are empirically tuned defaults; they are carried
// in configuration so they can be recalibrated without touching the
// estimation logic.
//
// Example usage:
//
//	cfg := config.NewDefaultConfig()
//	cfg.Decision.EagerThreshold = 0.5
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import "fmt"

// Config is the configuration structure for a strata analysis engine.
type Config struct {
	// Decision controls how the estimated/usable memory ratio maps to a
	// load strategy.
	Decision DecisionConfig `yaml:"decision" json:"decision"`

	// Sampling bounds file reads during profiling so analysis latency is
	// independent of total file size.
	Sampling SamplingConfig `yaml:"sampling" json:"sampling"`

	// Overhead tunes the overhead estimators.
	Overhead OverheadConfig `yaml:"overhead" json:"overhead"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DecisionConfig contains the strategy thresholds.
type DecisionConfig struct {
	// EagerThreshold is the maximum ratio at which a file is loaded eagerly.
	EagerThreshold float64 `yaml:"eager_threshold" json:"eager_threshold"`
	// LazyThreshold is the maximum ratio at which a deferred plan is used.
	// Above it the file is streamed.
	LazyThreshold float64 `yaml:"lazy_threshold" json:"lazy_threshold"`
	// SafetyMarginFraction is the fraction of total system memory reserved
	// for the OS and other processes when computing usable memory.
	SafetyMarginFraction float64 `yaml:"safety_margin_fraction" json:"safety_margin_fraction"`
}

// SamplingConfig contains sampling bounds for the schema and sample reader.
type SamplingConfig struct {
	// MaxRows caps the number of data rows read from a CSV file when
	// inferring column types and string widths.
	MaxRows int `yaml:"max_rows" json:"max_rows"`
	// MaxStringValues caps the number of values decoded from a columnar
	// string column chunk when sampling string lengths.
	MaxStringValues int `yaml:"max_string_values" json:"max_string_values"`
	// MaxCountBytes caps the bytes scanned by the CSV row-count pass for
	// compressed inputs, where counting requires decompression.
	MaxCountBytes int64 `yaml:"max_count_bytes" json:"max_count_bytes"`
}

// OverheadConfig contains estimator tuning knobs.
type OverheadConfig struct {
	// FallbackMultiplier, when positive, is used for column types absent
	// from the overhead tables instead of failing the analysis. Zero means
	// unknown types are fatal.
	FallbackMultiplier float64 `yaml:"fallback_multiplier" json:"fallback_multiplier"`
	// ColumnarStringFactor is the k in the columnar string overhead curve
	// 1.0 + k/avgLen.
	ColumnarStringFactor float64 `yaml:"columnar_string_factor" json:"columnar_string_factor"`
	// DecompressionRatio estimates uncompressed size from compressed size
	// when columnar metadata does not record uncompressed totals.
	DecompressionRatio float64 `yaml:"decompression_ratio" json:"decompression_ratio"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level sets logging verbosity (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`
	// Development enables human-readable console output
	Development bool `yaml:"development" json:"development"`
	// Encoding selects the log encoder (json or console)
	Encoding string `yaml:"encoding" json:"encoding"`
}

// NewDefaultConfig creates a Config with the tuned defaults. The decision
// thresholds (0.65, 2.0) and the 30% safety margin encode an explicit risk
// tolerance: eager only when comfortably under available memory, streaming
// only when the estimate would more than double usable memory.
func NewDefaultConfig() *Config {
	return &Config{
		Decision: DecisionConfig{
			EagerThreshold:       0.65,
			LazyThreshold:        2.0,
			SafetyMarginFraction: 0.30,
		},
		Sampling: SamplingConfig{
			MaxRows:         1000,
			MaxStringValues: 1000,
			MaxCountBytes:   256 * 1024 * 1024,
		},
		Overhead: OverheadConfig{
			FallbackMultiplier:   0,
			ColumnarStringFactor: 4.0,
			DecompressionRatio:   3.0,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate validates the configuration for correctness. It checks that the
// thresholds are ordered and that every tuning knob is within its
// acceptable range. Callers should validate after loading configuration to
// catch errors early.
func (c *Config) Validate() error {
	if c.Decision.EagerThreshold <= 0 {
		return fmt.Errorf("eager_threshold must be positive")
	}
	if c.Decision.LazyThreshold <= c.Decision.EagerThreshold {
		return fmt.Errorf("lazy_threshold must exceed eager_threshold")
	}
	if c.Decision.SafetyMarginFraction < 0 || c.Decision.SafetyMarginFraction >= 1 {
		return fmt.Errorf("safety_margin_fraction must be in [0, 1)")
	}
	if c.Sampling.MaxRows <= 0 {
		return fmt.Errorf("max_rows must be positive")
	}
	if c.Sampling.MaxStringValues <= 0 {
		return fmt.Errorf("max_string_values must be positive")
	}
	if c.Sampling.MaxCountBytes <= 0 {
		return fmt.Errorf("max_count_bytes must be positive")
	}
	if c.Overhead.FallbackMultiplier < 0 {
		return fmt.Errorf("fallback_multiplier cannot be negative")
	}
	if c.Overhead.FallbackMultiplier > 0 && c.Overhead.FallbackMultiplier < 1.0 {
		return fmt.Errorf("fallback_multiplier must be at least 1.0 when set")
	}
	if c.Overhead.ColumnarStringFactor <= 0 {
		return fmt.Errorf("columnar_string_factor must be positive")
	}
	if c.Overhead.DecompressionRatio < 1.0 {
		return fmt.Errorf("decompression_ratio must be at least 1.0")
	}
	return nil
}

// HasFallback reports whether unknown column types fall back to a
// conservative multiplier instead of failing the analysis.
func (o *OverheadConfig) HasFallback() bool {
	return o.FallbackMultiplier > 0
}
