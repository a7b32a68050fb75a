// SPDX-License-Identifier: MIT

package holder

import (
	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
)

// Exponent returns the aggregate φ = Σ B(k_i, a_i)/(k_i·a_i).
func Exponent(coeffs []Coefficient, lookup interp.Lookup) (float64, error) {
	if lookup == nil {
		return 0, errs.Wrap(errs.ErrInvalidParameter, "holder: nil lookup")
	}
	var phi float64
	for _, c := range coeffs {
		if c.K < 1 || c.Weight <= 0 {
			return 0, errs.Wrapf(errs.ErrInvalidParameter, "holder: coefficient %+v", c)
		}
		b, err := lookup(c.K, c.Weight)
		if err != nil {
			return 0, errs.Wrapf(err, "holder: B(k=%d, %g)", c.K, c.Weight)
		}
		phi += b / (float64(c.K) * c.Weight)
	}

	return phi, nil
}

// ComputeExponent optimizes the assignment for ks and returns φ at the
// optimum. On errs.ErrDidNotConverge φ is still evaluated at the last
// assignment and returned alongside the error.
func ComputeExponent(ks []int, lookup interp.Lookup, opts ...Option) (float64, Result, error) {
	res, err := Optimize(ks, lookup, opts...)
	if err != nil && !errs.Is(err, errs.ErrDidNotConverge) {
		return 0, res, err
	}
	phi, perr := Exponent(res.Coefficients, lookup)
	if perr != nil {
		return 0, res, perr
	}

	return phi, res, err
}
