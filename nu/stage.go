// SPDX-License-Identifier: MIT

package nu

import (
	"math"
	"sort"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
)

// Stage computes ν(h, k, c) for c ≥ 2 from the committed value prev at
// c − 1. Inputs are assumed validated by the caller.
//
// Complexity: O(c) splits, each with two λ lookups and at most five θ
// candidates.
func Stage(h, k, c int, prev float64, lookup interp.Lookup) (Choice, error) {
	var (
		kf   = float64(k)
		hk   = float64(h) / kf
		best = Choice{Value: math.Inf(1)}
	)

	// Stage 1: λ at the current stage and the upper cap U.
	l0, err := lookup(k, float64(c))
	if err != nil {
		return Choice{}, errs.Wrapf(err, "nu: λ(k=%d) at stage %d", k, c)
	}
	upper := math.Min(l0+hk, prev+2)

	// Stage 2: every split a, then the best θ for it.
	for _, a := range Splits(h, c) {
		x := float64(c) / (1 - a)
		l1, err := lookup(k, x)
		if err != nil {
			return Choice{}, errs.Wrapf(err, "nu: λ(k=%d) at %g for stage %d", k, x, c)
		}
		d := math.Max(0, l0-(1-a)*l1+a*kf)
		w := splitWeight(a)

		// T_i(θ) = alpha[i] + beta[i]·θ
		alpha := [3]float64{upper, l0 + a*hk, l0 + hk*w}
		beta := [3]float64{-float64(h) * (1 - a), kf * d, -hk * w * kf / 2}

		for _, theta := range thetaCandidates(alpha, beta, 1/kf) {
			v := alpha[0] + beta[0]*theta
			v = math.Max(v, alpha[1]+beta[1]*theta)
			v = math.Max(v, alpha[2]+beta[2]*theta)
			if v < best.Value {
				best = Choice{Value: v, A: a, Theta: theta}
			}
		}
	}

	return best, nil
}

// Splits returns the split parameters tried at stage c, ascending and free
// of duplicates: 1/2; 1/3 and 1/4 when h ≥ 3; 1/8 when h ≥ 4; and 1 − c/z
// for every integer z in [⌈c/(1 − 2^{1−h})⌉, 2c].
func Splits(h, c int) []float64 {
	out := []float64{0.5}
	if h >= 3 {
		out = append(out, 1.0/3, 0.25)
	}
	if h >= 4 {
		out = append(out, 0.125)
	}

	cf := float64(c)
	zmin := int(math.Ceil(cf / (1 - math.Ldexp(1, 1-h))))
	if zmin <= c {
		zmin = c + 1
	}
	for z := zmin; z <= 2*c; z++ {
		out = append(out, 1-cf/float64(z))
	}

	sort.Float64s(out)
	uniq := out[:1]
	for _, a := range out[1:] {
		if a-uniq[len(uniq)-1] > splitTol {
			uniq = append(uniq, a)
		}
	}

	return uniq
}

// splitWeight returns w = a(j−1) + 2^{1−j} with 2^{j−1} ≤ 1/a < 2^j.
func splitWeight(a float64) float64 {
	inv := 1 / a
	j := 1
	for math.Ldexp(1, j) <= inv {
		j++
	}

	return a*float64(j-1) + math.Ldexp(1, 1-j)
}

// thetaCandidates returns 0, hi and every pairwise crossing of the three
// lines that falls inside [0, hi].
func thetaCandidates(alpha, beta [3]float64, hi float64) []float64 {
	out := make([]float64, 0, 5)
	out = append(out, 0, hi)
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if beta[i] == beta[j] {
				continue
			}
			theta := (alpha[j] - alpha[i]) / (beta[i] - beta[j])
			if theta >= 0 && theta <= hi {
				out = append(out, theta)
			}
		}
	}

	return out
}
