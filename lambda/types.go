// SPDX-License-Identifier: MIT

package lambda

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/meanval/table"
)

// Parameter limits and numeric policy.
const (
	// MinK is the smallest exponent the recursion accepts.
	MinK = 4

	// DefaultGridPoints is the number of θ samples used by Grid.
	DefaultGridPoints = 64

	// GridMaxJ bounds the integer exponent j scanned by Grid.
	GridMaxJ = 16

	// applicabilityTol absorbs rounding when Δ reaches the 0 or k boundary.
	applicabilityTol = 1e-9
)

// Method proposes a bound for stage prevStage+1 from the committed bound
// prev at prevStage. ok == false means the method does not apply at this
// (k, stage); it is not an error.
type Method interface {
	Name() string
	Candidate(k, prevStage int, prev float64) (value float64, ok bool, err error)
}

// Options configures Build and Extend.
type Options struct {
	Methods    []Method    // candidate set, reduced by minimum
	Logger     *zap.Logger // per-stage debug logging
	Checkpoint *table.Row  // resume point when no seed table is given
}

// Option represents a functional option for Build.
type Option func(*Options)

// DefaultMethods returns the default candidate set: Smooth, Iterative and
// Quadratic. Grid is left out.
func DefaultMethods() []Method {
	return []Method{Smooth{}, Iterative{}, Quadratic{}}
}

// DefaultOptions returns the options used when none are given.
//
// Defaults:
//   - Methods:    DefaultMethods()
//   - Logger:     zap.NewNop()
//   - Checkpoint: nil (start from the base cases)
func DefaultOptions() Options {
	return Options{
		Methods: DefaultMethods(),
		Logger:  zap.NewNop(),
	}
}

// WithMethods replaces the candidate set. An empty set is rejected.
func WithMethods(ms ...Method) Option {
	if len(ms) == 0 {
		panic("lambda: WithMethods requires at least one method")
	}

	return func(o *Options) {
		o.Methods = append([]Method(nil), ms...)
	}
}

// WithGridSearch adds the Grid method with the given number of θ samples.
func WithGridSearch(points int) Option {
	if points < 1 {
		panic("lambda: grid search needs at least one point")
	}

	return func(o *Options) {
		o.Methods = append(o.Methods, Grid{Points: points})
	}
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

// WithCheckpoint resumes the recursion from a known (stage, value) pair
// instead of the base cases. Ignored when a seed table is passed to Build.
func WithCheckpoint(stage int, value float64) Option {
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
