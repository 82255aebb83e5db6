// Package config loads the pdt tool configuration from pdt.yaml via Viper.
package config

// Config is the root pdt configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
}

// AnalysisConfig carries the engine settings shared by every stackup unless
// overridden per file or per flag.
type AnalysisConfig struct {
	// SigmaLevel is the number of standard deviations a tolerance band
	// represents (default: 6.0, band = +/-3 sigma)
	SigmaLevel float64 `mapstructure:"sigma_level"`

	// MeanShiftK is the Bender drift factor for Cpk; 0 disables the shift
	MeanShiftK float64 `mapstructure:"mean_shift_k"`

	// IncludeGDT folds position tolerances into statistical bands
	IncludeGDT bool `mapstructure:"include_gdt"`

	MonteCarloIterations int `mapstructure:"monte_carlo_iterations"`
	MonteCarloBatches    int `mapstructure:"monte_carlo_batches"`

	// Seed pins the Monte Carlo seed; nil draws a fresh one per run
	Seed *uint64 `mapstructure:"seed"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	// JSON switches log output to JSON encoding
	JSON bool `mapstructure:"json"`
	// Units is the display unit label for dimensions (default: mm)
	Units string `mapstructure:"units"`
}
