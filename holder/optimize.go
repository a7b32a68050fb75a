// SPDX-License-Identifier: MIT

package holder

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
)

// Optimize searches a locally optimal Hölder assignment for the base
// exponents ks against the bound lookup B.
//
// Starting from Seed, each iteration picks the coordinate i with the smallest
// right derivative and j with the largest left derivative (see Decision for
// the shared case) and rebalances mass from j to i while the gap
// left(j) − right(i) exceeds the epsilon. Σ 1/a_i is conserved throughout.
//
// When the iteration cap is reached the current assignment is returned
// together with errs.ErrDidNotConverge.
func Optimize(ks []int, lookup interp.Lookup, opts ...Option) (Result, error) {
	o := gatherOptions(opts)

	// Stage 1: seed.
	a, err := Seed(ks, lookup)
	if err != nil {
		return Result{}, err
	}

	// Stage 2: swap loop.
	return run(a, o)
}

// Run drives the swap loop on an existing assignment, which it mutates.
func Run(a *Assignment, opts ...Option) (Result, error) {
	return run(a, gatherOptions(opts))
}

func run(a *Assignment, o Options) (Result, error) {
	res := Result{Gap: math.Inf(-1)}

	// A single coordinate is pinned by the constraint.
	if a.Len() < 2 {
		res.Coefficients, res.Converged = a.Coefficients(), true
		return res, nil
	}

	for {
		i, j, d, gap, err := choose(a)
		if err != nil {
			return Result{}, err
		}
		res.Gap = gap
		if gap <= o.Epsilon {
			res.Coefficients, res.Converged = a.Coefficients(), true
			return res, nil
		}
		if res.Iterations >= o.MaxIterations {
			o.Logger.Warn("holder: optimizer did not converge",
				zap.Int("iterations", res.Iterations),
				zap.Float64("gap", gap),
				zap.Float64s("weights", a.Weights()))
			res.Coefficients = a.Coefficients()
			return res, errs.Wrapf(errs.ErrDidNotConverge, "holder: gap %g after %d iterations", gap, res.Iterations)
		}

		if err = a.Rebalance(i, j); err != nil {
			return Result{}, err
		}
		res.Iterations++
		if o.Trace != nil {
			o.Trace(Step{
				Iteration: res.Iterations,
				I:         i,
				J:         j,
				Decision:  d,
				Gap:       gap,
				Weights:   a.Weights(),
			})
		}
	}
}

// choose selects the pair to rebalance and the gap between its derivatives.
func choose(c Coordinates) (i, j int, d Decision, gap float64, err error) {
	n := c.Len()
	right := make([]float64, n)
	left := make([]float64, n)
	for q := 0; q < n; q++ {
		if right[q], err = c.DerivativeRight(q); err != nil {
			return 0, 0, 0, 0, err
		}
		if left[q], err = c.DerivativeLeft(q); err != nil {
			return 0, 0, 0, 0, err
		}
	}

	i = argMin(right, -1)
	j = argMax(left, -1)
	d = SwapDistinct
	if i == j {
		i2 := argMin(right, j)
		j2 := argMax(left, i)
		if left[j]-right[i2] >= left[j2]-right[i] {
			i, d = i2, SwapSharedLeft
		} else {
			j, d = j2, SwapSharedRight
		}
	}

	return i, j, d, left[j] - right[i], nil
}

// argMin returns the first index of the smallest value, skipping skip.
func argMin(v []float64, skip int) int {
	best := -1
	for q := range v {
		if q == skip {
			continue
		}
		if best < 0 || v[q] < v[best] {
			best = q
		}
	}

	return best
}

// argMax returns the first index of the largest value, skipping skip.
func argMax(v []float64, skip int) int {
	best := -1
	for q := range v {
		if q == skip {
			continue
		}
		if best < 0 || v[q] > v[best] {
			best = q
		}
	}

	return best
}
