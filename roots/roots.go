// SPDX-License-Identifier: MIT

package roots

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/meanval/errs"
)

// Numeric policy.
const (
	// MaxDegree is the largest supported polynomial degree.
	MaxDegree = 4

	// ImagTol is the relative bound on |Im(z)| under which z counts as real.
	ImagTol = 1e-9

	// PositiveTol is the threshold a real root must exceed to count as positive.
	PositiveTol = 1e-12

	// polishSteps is the number of Newton refinements applied to real roots.
	polishSteps = 2
)

// SmallestPositive returns the smallest real root strictly greater than zero of
// the polynomial c[0] + c[1]·x + … + c[d]·x^d.
func SmallestPositive(c []float64) (float64, error) {
	// Stage 1: validate and trim.
	poly, err := normalize(c)
	if err != nil {
		return 0, err
	}

	// Stage 2: all complex roots from the companion matrix.
	zs, err := All(poly)
	if err != nil {
		return 0, err
	}

	// Stage 3: keep real, positive roots; polish and pick the smallest.
	var (
		best  = math.Inf(1)
		found bool
		re    float64
	)
	for _, z := range zs {
		re = real(z)
		if math.Abs(imag(z)) > ImagTol*math.Max(1, math.Abs(re)) {
			continue
		}
		re = polish(poly, re)
		if re <= PositiveTol {
			continue
		}
		if re < best {
			best = re
			found = true
		}
	}
	if !found {
		return 0, errs.Wrapf(errs.ErrNoPositiveRoot, "roots: coefficients %v", poly)
	}

	return best, nil
}

// All returns every complex root of the polynomial (ascending coefficients),
// in the order produced by the eigen solver.
func All(c []float64) ([]complex128, error) {
	poly, err := normalize(c)
	if err != nil {
		return nil, err
	}
	d := len(poly) - 1
	lead := poly[d]

	// Companion matrix of the monic polynomial: ones on the sub-diagonal,
	// the negated normalized coefficients in the last column.
	comp := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		if i > 0 {
			comp.Set(i, i-1, 1)
		}
		comp.Set(i, d-1, -poly[i]/lead)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		return nil, errs.Wrapf(errs.ErrNoPositiveRoot, "roots: eigen factorization failed for %v", poly)
	}

	return eig.Values(nil), nil
}

// Eval evaluates the polynomial at x with Horner's scheme.
func Eval(c []float64, x float64) float64 {
	var acc float64
	for i := len(c) - 1; i >= 0; i-- {
		acc = acc*x + c[i]
	}

	return acc
}

// EvalComplex evaluates the polynomial at a complex point.
func EvalComplex(c []float64, z complex128) complex128 {
	var acc complex128
	for i := len(c) - 1; i >= 0; i-- {
		acc = acc*z + complex(c[i], 0)
	}

	return acc
}

// Residual reports |p(z)| for diagnostics and tests.
func Residual(c []float64, z complex128) float64 {
	return cmplx.Abs(EvalComplex(c, z))
}

// normalize validates the coefficients and trims zero leading terms.
func normalize(c []float64) ([]float64, error) {
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "roots: coefficient %d is %v", i, v)
		}
	}
	d := len(c) - 1
	for d >= 0 && c[d] == 0 {
		d--
	}
	if d < 1 || d > MaxDegree {
		return nil, errs.Wrapf(errs.ErrInvalidParameter, "roots: degree %d outside [1, %d]", d, MaxDegree)
	}

	out := make([]float64, d+1)
	copy(out, c[:d+1])

	return out, nil
}

// polish refines a real root estimate with a few Newton steps.
func polish(c []float64, x float64) float64 {
	var (
		p, dp float64 // p(x) and p'(x)
		i, s  int
	)
	for s = 0; s < polishSteps; s++ {
		p, dp = 0, 0
		for i = len(c) - 1; i >= 0; i-- {
			dp = dp*x + p
			p = p*x + c[i]
		}
		if dp == 0 || math.IsNaN(p) {
			break
		}
		x -= p / dp
	}

	return x
}
