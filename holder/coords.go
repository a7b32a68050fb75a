// SPDX-License-Identifier: MIT

package holder

import (
	"math"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
)

// Coordinates is the view the swap loop works against. The λ- and ν-based
// variants differ only in the lookup behind it.
type Coordinates interface {
	Len() int
	DerivativeRight(i int) (float64, error)
	DerivativeLeft(i int) (float64, error)
	Rebalance(i, j int) error
}

// Assignment is a mutable coefficient assignment over a bound lookup B.
//
// For g_k(x) = x·B(k, 1/x)/k, g is linear in x on [1/(n+1), 1/n] with slope
// σ_k(n) = ((n+1)·B(k,n) − n·B(k,n+1))/k. The derivatives below are the
// one-sided slopes of g at x = 1/a.
type Assignment struct {
	ks      []int
	weights []float64
	lookup  interp.Lookup
}

var _ Coordinates = (*Assignment)(nil)

// NewAssignment returns an assignment over copies of ks and weights.
func NewAssignment(ks []int, weights []float64, lookup interp.Lookup) (*Assignment, error) {
	if len(ks) == 0 || len(ks) != len(weights) {
		return nil, errs.Wrapf(errs.ErrInvalidParameter, "holder: %d exponents, %d weights", len(ks), len(weights))
	}
	if lookup == nil {
		return nil, errs.Wrap(errs.ErrInvalidParameter, "holder: nil lookup")
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 1-intTol {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "holder: weight %d = %g below 1", i, w)
		}
	}

	return &Assignment{
		ks:      append([]int(nil), ks...),
		weights: append([]float64(nil), weights...),
		lookup:  lookup,
	}, nil
}

// Seed returns the equal-contribution assignment a_i = k_i·Σ_j 1/k_j, for
// which Σ 1/a_i = 1.
func Seed(ks []int, lookup interp.Lookup) (*Assignment, error) {
	var sum float64
	for _, k := range ks {
		if k < 1 {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "holder: exponent %d", k)
		}
		sum += 1 / float64(k)
	}
	weights := make([]float64, len(ks))
	for i, k := range ks {
		weights[i] = float64(k) * sum
	}

	return NewAssignment(ks, weights, lookup)
}

// Len implements Coordinates.
func (a *Assignment) Len() int { return len(a.ks) }

// Weights returns a copy of the current weights.
func (a *Assignment) Weights() []float64 {
	return append([]float64(nil), a.weights...)
}

// Coefficients returns the assignment as (k, weight) pairs.
func (a *Assignment) Coefficients() []Coefficient {
	out := make([]Coefficient, len(a.ks))
	for i, k := range a.ks {
		out[i] = Coefficient{K: k, Weight: a.weights[i]}
	}

	return out
}

// DerivativeRight is the slope used when weight i shrinks: σ(⌈a_i⌉ − 1), or
// +Inf when a_i ≤ 1 and cannot shrink.
func (a *Assignment) DerivativeRight(i int) (float64, error) {
	n := ceilish(a.weights[i]) - 1
	if n < 1 {
		return math.Inf(1), nil
	}

	return a.slope(a.ks[i], n)
}

// DerivativeLeft is the slope used when weight i grows: σ(⌊a_i⌋).
func (a *Assignment) DerivativeLeft(i int) (float64, error) {
	return a.slope(a.ks[i], floorish(a.weights[i]))
}

// Rebalance moves reciprocal mass from j to i: a_i shrinks towards
// ⌈a_i⌉ − 1 and a_j grows towards ⌊a_j⌋ + 1 by the same reciprocal amount.
// Whichever coordinate reaches its integer first lands on it exactly; every
// other weight is left untouched.
func (a *Assignment) Rebalance(i, j int) error {
	if i == j {
		return errs.AssertionFailure(errs.ErrInvalidParameter, "holder: rebalance of coordinate %d with itself", i)
	}
	ai, aj := a.weights[i], a.weights[j]
	ni := ceilish(ai) - 1
	nj := floorish(aj) + 1
	if ni < 1 {
		return errs.AssertionFailure(errs.ErrInvalidParameter, "holder: weight %d = %g cannot shrink", i, ai)
	}

	di := 1/float64(ni) - 1/ai
	dj := 1/aj - 1/float64(nj)
	if di <= dj {
		a.weights[i] = float64(ni)
		a.weights[j] = 1 / (1/aj - di)
	} else {
		a.weights[j] = float64(nj)
		a.weights[i] = 1 / (1/ai + dj)
	}

	return nil
}

// Exponent returns φ = Σ B(k_i, a_i)/(k_i·a_i) for the current weights.
func (a *Assignment) Exponent() (float64, error) {
	return Exponent(a.Coefficients(), a.lookup)
}

func (a *Assignment) slope(k, n int) (float64, error) {
	b0, err := a.lookup(k, float64(n))
	if err != nil {
		return 0, errs.Wrapf(err, "holder: B(k=%d, %d)", k, n)
	}
	b1, err := a.lookup(k, float64(n+1))
	if err != nil {
		return 0, errs.Wrapf(err, "holder: B(k=%d, %d)", k, n+1)
	}
	nf := float64(n)

	return ((nf+1)*b0 - nf*b1) / float64(k), nil
}

// ceilish is ⌈x⌉ with values within intTol of an integer snapped to it.
func ceilish(x float64) int {
	if r := math.Round(x); math.Abs(x-r) <= intTol {
		return int(r)
	}

	return int(math.Ceil(x))
}

// floorish is ⌊x⌋ with values within intTol of an integer snapped to it.
func floorish(x float64) int {
	if r := math.Round(x); math.Abs(x-r) <= intTol {
		return int(r)
	}

	return int(math.Floor(x))
}
