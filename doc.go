// SPDX-License-Identifier: MIT

// Package meanval computes mean value exponent bounds by running competing
// recursive estimators and keeping the smallest bound at every stage.
//
// 🚀 What is meanval?
//
//	A small engine plus thin collaborators:
//		• roots:  smallest positive root of a low degree polynomial
//		• table:  owned, append-only (stage, value) sequences
//		• lambda: min over candidate methods producing λ(k, s)
//		• nu:     min-max over an auxiliary split producing ν(h, k, s)
//		• interp: piecewise-linear queries between integer stages
//		• holder: derivative-balancing search for a Hölder weighting and φ
//		• store, batch, config: persistence, parallel builds and settings
//
// ✨ Guarantees
//
//   - every committed table is non-decreasing and never rewritten
//   - results depend only on the key, the stage range and the seed prefix
//   - parallelism lives in batch; the recursions are sequential and pure
//
// ⚙️ Usage
//
//	lam, _ := lambda.Build(8, 1, 200, nil)
//	src, _ := interp.NewLambdaSource([]*table.Table{lam})
//	phi, res, err := holder.ComputeExponent([]int{8, 9, 10}, src.Lookup)
//
// The meanval command in cmd/meanval wraps the same calls.
package meanval
