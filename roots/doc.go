// SPDX-License-Identifier: MIT

// Package roots locates the smallest strictly positive real root of a
// low-degree polynomial with real coefficients.
//
// 🚀 What is it for?
//
//	The smooth-iteration estimator of package lambda needs the positive
//	root θ(k) of a cubic whose coefficients depend on k. The root must be
//	the smallest positive one, and complex roots must be ignored.
//
// ✨ How it works:
//   - coefficients are given in ascending order c0 + c1·x + … + cd·x^d;
//     zero leading coefficients are trimmed, 1 ≤ d ≤ MaxDegree;
//   - all roots are the eigenvalues of the companion matrix, computed with
//     gonum's mat.Eigen;
//   - roots with |Im| ≤ ImagTol·max(1,|Re|) are treated as real and polished
//     with two Newton steps (Horner evaluation);
//   - the smallest real root above PositiveTol is returned.
//
// ⚙️ Usage:
//
//	// θ for k = 6: 36θ³ − 6θ² + 6θ − 1 = 0
//	theta, err := roots.SmallestPositive([]float64{-1, 6, -6, 36})
//
// Errors:
//   - errs.ErrInvalidParameter: degree outside [1, MaxDegree] or NaN/Inf input.
//   - errs.ErrNoPositiveRoot:   every real root is ≤ 0, or there is none.
//
// Complexity: O(d³) for the eigen decomposition, d ≤ 4.
package roots
