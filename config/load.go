package config

import (
	"github.com/spf13/viper"

	"github.com/jackhale98/PDT/errors"
	"github.com/jackhale98/PDT/stackup"
)

// SetDefaults configures default values on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("analysis.sigma_level", stackup.DefaultSigmaLevel)
	v.SetDefault("analysis.mean_shift_k", 0.0)
	v.SetDefault("analysis.include_gdt", false)
	v.SetDefault("analysis.monte_carlo_iterations", stackup.DefaultMonteCarloIterations)
	v.SetDefault("analysis.monte_carlo_batches", stackup.DefaultMonteCarloBatches)

	v.SetDefault("output.json", false)
	v.SetDefault("output.units", "mm")
}

// Load reads pdt.yaml from the working directory, falling back to defaults
// when no file exists.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("pdt")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading pdt config")
		}
	}

	return LoadWithViper(v)
}

// LoadFromFile reads configuration from an explicit path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from a provided Viper
// instance. Useful for tests that need isolation from the filesystem.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling pdt config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the engine would refuse anyway, so bad config
// surfaces at load time rather than mid-analysis.
func (c *Config) Validate() error {
	if c.Analysis.SigmaLevel <= 0 {
		return errors.NewConfigError(
			"analysis.sigma_level must be > 0, got %g", c.Analysis.SigmaLevel)
	}
	if c.Analysis.MeanShiftK < 0 {
		return errors.NewConfigError(
			"analysis.mean_shift_k must be >= 0, got %g", c.Analysis.MeanShiftK)
	}
	if c.Analysis.MonteCarloIterations <= 0 {
		return errors.NewConfigError(
			"analysis.monte_carlo_iterations must be > 0, got %d", c.Analysis.MonteCarloIterations)
	}
	if c.Analysis.MonteCarloBatches <= 0 {
		return errors.NewConfigError(
			"analysis.monte_carlo_batches must be > 0, got %d", c.Analysis.MonteCarloBatches)
	}
	return nil
}

// MonteCarloConfig converts the analysis settings to an engine simulation
// config.
func (c *Config) MonteCarloConfig() stackup.MonteCarloConfig {
	return stackup.MonteCarloConfig{
		Iterations: c.Analysis.MonteCarloIterations,
		Batches:    c.Analysis.MonteCarloBatches,
		Seed:       c.Analysis.Seed,
	}
}
