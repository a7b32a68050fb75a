// SPDX-License-Identifier: MIT

package lambda

import "math"

// Grid is the grid-search method. It is kept as an optional estimator and is
// not part of DefaultMethods.
//
// For θ_i = i/(Points·k), i = 1..Points, and each j ≤ GridMaxJ with 2^j ≥ s:
//
//	E1 = μ + 2 − 2Δθ
//	E2 = μ + 2 − 2Δ/k + Δ²θ/k
//	E3 = 2s − j·s/2^j + kθ·s/2^j
//
// the candidate is min over (θ, j) of max(E1, E2, E3).
type Grid struct {
	Points int // number of θ samples; DefaultGridPoints when ≤ 0
}

// Name implements Method.
func (Grid) Name() string { return "grid" }

// Candidate implements Method.
func (g Grid) Candidate(k, prevStage int, prev float64) (float64, bool, error) {
	if k < MinK || !inWindow(k, prevStage, prev) {
		return 0, false, nil
	}
	points := g.Points
	if points <= 0 {
		points = DefaultGridPoints
	}

	var (
		kf    = float64(k)
		s     = prevStage + 1
		sf    = float64(s)
		delta = clampDelta(prev-float64(2*prevStage)+kf, kf)
		best  = math.Inf(1)
		found bool
	)
	for j := 1; j <= GridMaxJ; j++ {
		pow := math.Ldexp(1, j) // 2^j
		if pow < sf {
			continue
		}
		found = true
		for i := 1; i <= points; i++ {
			theta := float64(i) / (float64(points) * kf)
			e1 := prev + 2 - 2*delta*theta
			e2 := prev + 2 - 2*delta/kf + delta*delta*theta/kf
			e3 := 2*sf - float64(j)*sf/pow + kf*theta*sf/pow
			if v := math.Max(e1, math.Max(e2, e3)); v < best {
				best = v
			}
		}
	}
	if !found {
		return 0, false, nil
	}

	return best, true, nil
}
