// SPDX-License-Identifier: MIT

// Package config loads meanval settings with viper.
//
// Precedence (lowest to highest): defaults, the config file (TOML, YAML or
// JSON by extension), environment variables MEANVAL_<SECTION>_<KEY>, and
// values set explicitly by the caller (CLI flags).
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/holder"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/store"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "MEANVAL"

// Config is the resolved configuration.
type Config struct {
	Workers   int             `mapstructure:"workers"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Lambda    LambdaConfig    `mapstructure:"lambda"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
}

// LogConfig selects the CLI log output.
type LogConfig struct {
	JSON    bool `mapstructure:"json"`
	Verbose bool `mapstructure:"verbose"`
}

// StoreConfig selects the table store.
type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

// LambdaConfig tunes the λ recursion.
type LambdaConfig struct {
	GridSearch bool `mapstructure:"grid_search"`
	GridPoints int  `mapstructure:"grid_points"`
}

// OptimizerConfig tunes the coefficient optimizer.
type OptimizerConfig struct {
	MaxIterations int     `mapstructure:"max_iterations"`
	Epsilon       float64 `mapstructure:"epsilon"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workers", 0) // GOMAXPROCS

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbose", false)

	v.SetDefault("store.kind", store.KindMemory)
	v.SetDefault("store.path", "")

	v.SetDefault("lambda.grid_search", false)
	v.SetDefault("lambda.grid_points", lambda.DefaultGridPoints)

	v.SetDefault("optimizer.max_iterations", holder.DefaultMaxIterations)
	v.SetDefault("optimizer.epsilon", holder.DefaultEpsilon)
}

// New returns a viper instance with defaults and environment binding. When
// path is non-empty the file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errs.Wrapf(err, "config: read %s", path)
		}
	}

	return v, nil
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errs.Wrap(err, "config: unmarshal")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate rejects values the engine would panic or fail on later.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case store.KindMemory:
	case store.KindDir, store.KindSQLite:
		if c.Store.Path == "" {
			return errs.Wrapf(errs.ErrInvalidParameter, "config: store.path required for %q", c.Store.Kind)
		}
	default:
		return errs.Wrapf(errs.ErrInvalidParameter, "config: unknown store.kind %q", c.Store.Kind)
	}
	if c.Workers < 0 {
		return errs.Wrapf(errs.ErrInvalidParameter, "config: workers=%d", c.Workers)
	}
	if c.Lambda.GridSearch && c.Lambda.GridPoints < 1 {
		return errs.Wrapf(errs.ErrInvalidParameter, "config: lambda.grid_points=%d", c.Lambda.GridPoints)
	}
	if c.Optimizer.MaxIterations < 1 {
		return errs.Wrapf(errs.ErrInvalidParameter, "config: optimizer.max_iterations=%d", c.Optimizer.MaxIterations)
	}
	if c.Optimizer.Epsilon < 0 {
		return errs.Wrapf(errs.ErrInvalidParameter, "config: optimizer.epsilon=%g", c.Optimizer.Epsilon)
	}

	return nil
}

// LambdaOptions translates the λ settings into recursion options.
func (c *Config) LambdaOptions() []lambda.Option {
	if !c.Lambda.GridSearch {
		return nil
	}

	return []lambda.Option{lambda.WithGridSearch(c.Lambda.GridPoints)}
}

// HolderOptions translates the optimizer settings into optimizer options.
func (c *Config) HolderOptions() []holder.Option {
	return []holder.Option{
		holder.WithMaxIterations(c.Optimizer.MaxIterations),
		holder.WithEpsilon(c.Optimizer.Epsilon),
	}
}

// OpenStore opens the configured table store.
func (c *Config) OpenStore() (store.Store, error) {
	return store.Open(c.Store.Kind, c.Store.Path)
}
