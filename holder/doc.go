// SPDX-License-Identifier: MIT

// Package holder finds a near-optimal Hölder weighting across a list of base
// exponents and evaluates the aggregate exponent φ it produces.
//
// 🚀 Problem:
//
//	Given K = [k_1, …, k_r] and a bound B(k, x) (a λ or ν table behind an
//	interp.Lookup), choose weights a_i ≥ 1 with Σ 1/a_i fixed so that
//	φ = Σ B(k_i, a_i)/(k_i·a_i) is small.
//
// ✨ Local search:
//   - seed a_i = k_i·Σ_j 1/k_j (equal contribution, Σ 1/a_i = 1);
//   - g_k(x) = x·B(k,1/x)/k is piecewise linear between reciprocal integers,
//     so each coordinate has a right and a left derivative read from B at the
//     integers around a_i;
//   - move reciprocal mass from the coordinate with the largest left
//     derivative to the one with the smallest right derivative until the two
//     meet (gap ≤ Epsilon). Every move stops at the first integer crossing,
//     so each step stays on one linear piece.
//
// The result is a local optimum; it is not certified to be global.
//
// ⚙️ Usage:
//
//	src, _ := interp.NewLambdaSource(nil)
//	phi, res, err := holder.ComputeExponent([]int{5, 7, 8, 9}, src.Lookup)
//
// Errors:
//   - errs.ErrInvalidParameter: empty K, exponent < 1, nil lookup.
//   - errs.ErrDidNotConverge: iteration cap reached; the last assignment is
//     still returned.
//   - lookup errors, wrapped with the (k, x) that failed.
package holder
