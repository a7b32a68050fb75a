// SPDX-License-Identifier: MIT

// Package nu builds the ν(h,k,·) table, the refined bound obtained by
// splitting each stage against the λ(k,·) bounds.
//
// 🚀 Recursion:
//
//	ν(0) = 1 and ν(1) = 1 + h/k. For c ≥ 2, with L0 = λ(k,c) and the prior
//	value p = ν(c−1), every split a and auxiliary θ ∈ [0, 1/k] yield three
//	linear bounds in θ
//
//	  T1 = U − h(1−a)θ                  U = min(L0 + h/k, p + 2)
//	  T2 = L0 + ah/k + kDθ              D = max(0, L0 − (1−a)·λ(k, c/(1−a)) + ak)
//	  T3 = L0 + (h/k)·w·(1 − kθ/2)      w = a(j−1) + 2^{1−j}, 2^{j−1} ≤ 1/a < 2^j
//
//	and ν(c) is the smallest max(T1, T2, T3) over all candidates. For fixed a
//	the maximum is piecewise linear in θ, so only the interval ends and the
//	pairwise crossings are tried.
//
// ✨ Properties:
//   - λ(k,c) < ν(c) ≤ min(λ(k,c) + h/k, ν(c−1) + 2);
//   - the table is non-decreasing in c;
//   - λ values come only through an interp.Lookup, which must cover stages
//     up to 2c.
//
// ⚙️ Usage:
//
//	src, _ := interp.NewLambdaSource(nil)             // λ on demand
//	tb, err := nu.Build(3, 8, 0, 100, src.Lookup, nil) // ν(3,8,0..100)
//
// Errors:
//   - errs.ErrInvalidParameter: k < MinK, h outside [MinH, k−1], bad range,
//     nil lookup, or a seed with the wrong key.
//   - any lookup error, wrapped with the (k, x, stage) that triggered it.
package nu
