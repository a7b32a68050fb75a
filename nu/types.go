// SPDX-License-Identifier: MIT

package nu

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/meanval/table"
)

// Parameter limits.
const (
	// MinK is the smallest exponent the ν recursion accepts.
	MinK = 5

	// MinH is the smallest admissible h; the largest is k − 1.
	MinH = 2

	// splitTol merges split candidates that differ only by rounding.
	splitTol = 1e-12
)

// Choice is the minimizing (a, θ) pair behind a committed ν value.
type Choice struct {
	Value float64 // ν(h, k, c)
	A     float64 // split parameter a ∈ (0, 1/2]
	Theta float64 // auxiliary parameter θ ∈ [0, 1/k]
}

// Options configures Build and Extend.
type Options struct {
	Logger     *zap.Logger // per-stage debug logging
	Checkpoint *table.Row  // resume point when no seed table is given
}

// Option represents a functional option for Build.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Logger: zap.NewNop()}
}

// WithLogger sets the logger; nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.Logger = l
	}
}

// WithCheckpoint resumes from a known (stage, value) pair instead of the
// base cases. Ignored when a seed table is passed to Build.
func WithCheckpoint(stage int, value float64) Option {
	if stage < 0 {
		panic("nu: checkpoint stage must be non-negative")
	}

	return func(o *Options) {
		o.Checkpoint = &table.Row{Stage: stage, Value: value}
	}
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
