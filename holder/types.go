// SPDX-License-Identifier: MIT

package holder

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Optimizer defaults and numeric policy.
const (
	// DefaultMaxIterations caps the swap loop.
	DefaultMaxIterations = 10000

	// DefaultEpsilon is the stopping threshold on the derivative gap.
	DefaultEpsilon = 1e-12

	// intTol decides when a weight sits on an integer.
	intTol = 1e-9
)

// Coefficient is one coordinate of a Hölder assignment: the base exponent K
// and its weight, Weight ≥ 1.
type Coefficient struct {
	K      int     `json:"k" yaml:"k"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Result is the outcome of Optimize.
type Result struct {
	Coefficients []Coefficient
	Iterations   int     // swaps performed
	Gap          float64 // last measured left/right derivative gap
	Converged    bool    // Gap ≤ epsilon before the iteration cap
}

// Decision tags which pair the swap loop picked.
type Decision int

const (
	// SwapDistinct: the smallest right and largest left derivative belong to
	// different coordinates.
	SwapDistinct Decision = iota

	// SwapSharedLeft: both extremes hit the same coordinate; it keeps the
	// left role and the runner-up right derivative supplies the other side.
	SwapSharedLeft

	// SwapSharedRight: both extremes hit the same coordinate; it keeps the
	// right role and the runner-up left derivative supplies the other side.
	SwapSharedRight
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case SwapDistinct:
		return "distinct"
	case SwapSharedLeft:
		return "shared-left"
	case SwapSharedRight:
		return "shared-right"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Step describes one performed swap.
type Step struct {
	Iteration int       // 1-based
	I, J      int       // I gains reciprocal mass, J gives it up
	Decision  Decision  // how (I, J) was chosen
	Gap       float64   // left(J) − right(I) before the swap
	Weights   []float64 // weights after the swap (a copy)
}

// Options configures Optimize.
type Options struct {
	MaxIterations int
	Epsilon       float64
	Logger        *zap.Logger
	Trace         func(Step)
}

// Option represents a functional option for Optimize.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
//
// Defaults:
//   - MaxIterations: DefaultMaxIterations
//   - Epsilon:       DefaultEpsilon
//   - Logger:        zap.NewNop()
//   - Trace:         nil
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
		Logger:        zap.NewNop(),
	}
}

// WithMaxIterations sets the iteration cap. n must be positive.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("holder: MaxIterations must be positive")
	}

	return func(o *Options) { o.MaxIterations = n }
}

// WithEpsilon sets the stopping threshold. eps must be finite and ≥ 0.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic("holder: epsilon must be finite and non-negative")
	}

	return func(o *Options) { o.Epsilon = eps }
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

// WithTrace registers a callback invoked after every swap.
func WithTrace(fn func(Step)) Option {
	return func(o *Options) { o.Trace = fn }
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
