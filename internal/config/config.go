// Package config loads the service's runtime settings through viper,
// the pack's configuration library, bound to the cobra flags defined in
// internal/cli (SPEC_FULL §6.1).
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting the HTTP surface and CLI need. The core
// scheduling packages take none of these directly — they are threaded
// in from here by internal/cli and internal/httpapi.
type Config struct {
	Port          string `mapstructure:"port"`
	LogLevel      string `mapstructure:"log_level"`
	DefaultSeed   int64  `mapstructure:"default_seed"`
	UseDefaultSeed bool  `mapstructure:"use_default_seed"`
	Parallel      bool   `mapstructure:"parallel"`
	Workers       int    `mapstructure:"workers"`
}

// Default returns the settings used when no flag, environment variable,
// or config file overrides them.
func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Parallel: false,
		Workers:  4,
	}
}

// Bind registers the flags Load reads from onto fs, with defaults taken
// from Default().
func Bind(fs *pflag.FlagSet) {
	d := Default()
	fs.String("port", d.Port, "HTTP listen port")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.Int64("default-seed", 0, "PRNG seed used when a request omits one")
	fs.Bool("use-default-seed", false, "apply --default-seed when a request omits seed")
	fs.Bool("parallel", d.Parallel, "enable per-particle/per-ant worker parallelism in PSO/ACO")
	fs.Int("workers", d.Workers, "worker pool size when --parallel is set")
}

// Load reads FOGSCHED_-prefixed environment variables and any bound
// flags into a Config, applying Default() for anything unset.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("fogsched")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("workers", d.Workers)

	if fs != nil {
		if err := v.BindPFlag("port", fs.Lookup("port")); err != nil {
			return Config{}, fmt.Errorf("bind port flag: %w", err)
		}
		if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
			return Config{}, fmt.Errorf("bind log-level flag: %w", err)
		}
		if err := v.BindPFlag("default_seed", fs.Lookup("default-seed")); err != nil {
			return Config{}, fmt.Errorf("bind default-seed flag: %w", err)
		}
		if err := v.BindPFlag("use_default_seed", fs.Lookup("use-default-seed")); err != nil {
			return Config{}, fmt.Errorf("bind use-default-seed flag: %w", err)
		}
		if err := v.BindPFlag("parallel", fs.Lookup("parallel")); err != nil {
			return Config{}, fmt.Errorf("bind parallel flag: %w", err)
		}
		if err := v.BindPFlag("workers", fs.Lookup("workers")); err != nil {
			return Config{}, fmt.Errorf("bind workers flag: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
