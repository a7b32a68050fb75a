// SPDX-License-Identifier: MIT

// Package lambda builds the λ(k,·) bound table: for a fixed exponent k, the
// value at stage s is an exponent λ such that the 2s-th moment of the
// underlying smooth Weyl sum is bounded by P^λ.
//
// 🚀 How the table grows:
//
//	stage 1 → 1 and stage 2 → 2 are fixed. For every later stage all enabled
//	candidate methods receive the committed value of the previous stage and
//	may propose a new bound; the smallest proposal is committed. Methods that
//	are not applicable at (k, s) simply abstain.
//
// ✨ Candidate methods (Δ = μ − 2t + k for a bound μ at stage t):
//   - Smooth:     stages 3 and 4 only. θ(k) is the smallest positive root of
//     k²θ³ − kθ² + (k+ε)θ − 1 with ε = −2/k − 3/(2k³) for even k ≥ 8 and
//     ε = 0 otherwise; stage 3 gives
//     3 + (k−2)θ²/2 (25/8 when k = 4), stage 4 gives 4 + 2θ.
//   - Iterative:  valid when 2t − k < μ ≤ 2t: θ = 1/(k+Δ), Δ' = Δ(1−2θ).
//     Always applicable, so every stage has at least one candidate.
//   - Quadratic:  prior stage t ≥ k−1: θ = 2/(k−1), Δ' = Δ(1−θ) + θΔ²/k.
//   - Grid:       optional (WithGridSearch): min over a θ grid in (0, 1/k]
//     and j with 2^j ≥ s of the max of three linear bounds.
//
// ⚙️ Usage:
//
//	tb, err := lambda.Build(8, 1, 200, nil)        // λ(8,1..200)
//	more, err := lambda.Build(8, 201, 400, tb)     // resume from a prefix
//	v, _ := tb.Value(3)                            // ≈ 3.04961
//
// Determinism: the result depends only on k, the seed prefix and the enabled
// method set; the minimum does not depend on method order.
//
// Errors:
//   - errs.ErrInvalidParameter:   k < MinK, bad stage range, seed key mismatch.
//     MinK is 4, one below nu.MinK: k = 4 is accepted and its stage 3 is
//     the closed form λ(4,3) = 25/8. Any k ≤ 3 is rejected.
//   - errs.ErrNoApplicableMethod: assertion failure, never expected.
//   - errs.ErrNoPositiveRoot:     smooth cubic without a positive root.
package lambda
