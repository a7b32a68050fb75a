// SPDX-License-Identifier: MIT

package lambda

import "math"

// Iterative is the iterative-improvement method with a single step. It is
// applicable whenever 2t − k < μ ≤ 2t, which the recursion maintains.
type Iterative struct{}

// Name implements Method.
func (Iterative) Name() string { return "iterative" }

// Candidate implements Method.
func (Iterative) Candidate(k, prevStage int, prev float64) (float64, bool, error) {
	_, mu, _, ok := IterativeStep(k, prevStage, prev, 1)

	return mu, ok, nil
}

// IterativeStep applies n ≥ 1 steps of the Δ-recurrence to a bound mu at
// stage t:
//
//	Δ  = μ − 2t + k
//	θ  = 1/(k + Δ)
//	Δ' = Δ(1 − 2θ)
//	μ' = 2(t+1) − k + Δ'
//
// It returns the θ of the last step, the new bound, the new stage and
// whether the input was inside the validity window 2t − k < μ ≤ 2t.
func IterativeStep(k, t int, mu float64, n int) (theta, bound float64, stage int, ok bool) {
	if n < 1 || !inWindow(k, t, mu) {
		return 0, 0, 0, false
	}

	var (
		kf    = float64(k)
		delta float64
	)
	for i := 0; i < n; i++ {
		delta = clampDelta(mu-float64(2*t)+kf, kf)
		theta = 1 / (kf + delta)
		delta *= 1 - 2*theta
		t++
		mu = float64(2*t) - kf + delta
	}

	return theta, mu, t, true
}

// Quadratic is the quadratic-correction method. It applies once the prior
// stage reaches k − 1 and uses the fixed θ = 2/(k−1).
type Quadratic struct{}

// Name implements Method.
func (Quadratic) Name() string { return "quadratic" }

// Candidate implements Method.
func (Quadratic) Candidate(k, prevStage int, prev float64) (float64, bool, error) {
	if k < MinK || prevStage < k-1 || !inWindow(k, prevStage, prev) {
		return 0, false, nil
	}
	kf := float64(k)
	theta := QuadraticTheta(k)
	delta := clampDelta(prev-float64(2*prevStage)+kf, kf)
	next := delta*(1-theta) + theta*delta*delta/kf

	return float64(2*(prevStage+1)) - kf + next, true, nil
}

// QuadraticTheta is the fixed auxiliary parameter 2/(k−1).
func QuadraticTheta(k int) float64 {
	return 2 / float64(k-1)
}

// inWindow reports 2t − k < μ ≤ 2t up to applicabilityTol.
func inWindow(k, t int, mu float64) bool {
	lo := float64(2*t - k)
	hi := float64(2 * t)

	return mu > lo-applicabilityTol && mu <= hi+applicabilityTol
}

// clampDelta keeps Δ inside [0, k] after rounding.
func clampDelta(delta, k float64) float64 {
	return math.Min(math.Max(delta, 0), k)
}
