// SPDX-License-Identifier: MIT

package lambda

import (
	"github.com/katalvlaran/meanval/roots"
)

// Smooth is the smooth-iteration method. It only proposes bounds for
// stages 3 and 4 and only for k ≥ MinK.
type Smooth struct{}

// Name implements Method.
func (Smooth) Name() string { return "smooth" }

// Candidate implements Method.
func (Smooth) Candidate(k, prevStage int, _ float64) (float64, bool, error) {
	s := prevStage + 1
	if k < MinK || (s != 3 && s != 4) {
		return 0, false, nil
	}
	if s == 3 && k == 4 {
		return 25.0 / 8.0, true, nil
	}

	theta, err := SmoothTheta(k)
	if err != nil {
		return 0, false, err
	}
	if s == 3 {
		return 3 + float64(k-2)*theta*theta/2, true, nil
	}

	return 4 + 2*theta, true, nil
}

// SmoothCorrection is the parity/size correction ε(k) of the smooth cubic:
// −2/k − 3/(2k³) for even k ≥ 8, zero otherwise.
func SmoothCorrection(k int) float64 {
	if k >= 8 && k%2 == 0 {
		kf := float64(k)
		return -2/kf - 3/(2*kf*kf*kf)
	}

	return 0
}

// SmoothCubic returns the ascending coefficients of
// k²θ³ − kθ² + (k+ε)θ − 1.
//
// Without the correction the cubic factors as (kθ−1)(kθ²+1), so θ = 1/k.
func SmoothCubic(k int) []float64 {
	kf := float64(k)

	return []float64{-1, kf + SmoothCorrection(k), -kf, kf * kf}
}

// SmoothTheta returns θ(k), the smallest positive root of SmoothCubic(k).
func SmoothTheta(k int) (float64, error) {
	return roots.SmallestPositive(SmoothCubic(k))
}
