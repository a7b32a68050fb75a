// SPDX-License-Identifier: MIT

// Package errs is the shared error taxonomy of the bound engine.
//
// It re-exports github.com/cockroachdb/errors so every package wraps and
// inspects errors the same way, and it defines the sentinel set used across
// roots, lambda, interp, nu, holder and store:
//
//   - ErrInvalidParameter   caller error, rejected before any computation.
//   - ErrNoApplicableMethod internal; carries an assertion-failure marker.
//   - ErrNoPositiveRoot     malformed polynomial for the requested k.
//   - ErrDidNotConverge     optimizer hit its iteration cap.
//   - ErrNotFound           table store has no rows for the key.
//
// Usage:
//
//	if k < MinK {
//	    return nil, errs.Wrapf(errs.ErrInvalidParameter, "lambda: k=%d below %d", k, MinK)
//	}
//
//	if errs.Is(err, errs.ErrInvalidParameter) { ... }
package errs

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping.
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetailf   = crdb.WithDetailf
	CombineErrors = crdb.CombineErrors
)

// Inspection.
var (
	Is                  = crdb.Is
	As                  = crdb.As
	Unwrap              = crdb.Unwrap
	UnwrapAll           = crdb.UnwrapAll
	FlattenHints        = crdb.FlattenHints
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinels. Match with Is; wrap with Wrapf to add context.
var (
	// ErrInvalidParameter marks a caller error (k too small, empty range,
	// query outside a table, mismatched table key).
	ErrInvalidParameter = New("meanval: invalid parameter")

	// ErrNoApplicableMethod means no candidate method produced a value for a
	// stage. The iterative method is always applicable, so this is a bug.
	ErrNoApplicableMethod = New("meanval: no applicable candidate method")

	// ErrNoPositiveRoot means a polynomial had no strictly positive real root.
	ErrNoPositiveRoot = New("meanval: no positive real root")

	// ErrDidNotConverge is returned together with a usable result when the
	// coefficient optimizer exhausts its iteration budget.
	ErrDidNotConverge = New("meanval: did not converge")

	// ErrNotFound is returned by table stores for keys they do not hold.
	ErrNotFound = New("meanval: table not found")
)

// AssertionFailure wraps err with context and marks it as an assertion
// failure while keeping it matchable through Is.
func AssertionFailure(err error, format string, args ...interface{}) error {
	return crdb.WithAssertionFailure(crdb.Wrapf(err, format, args...))
}
