// SPDX-License-Identifier: MIT

// Package interp evaluates bound tables at real stages.
//
// On a tabulated stage the stored value is returned unchanged; between two
// consecutive stages s < x < s+1 the value is (1−θ)·v(s) + θ·v(s+1) with
// θ = x − s. Queries outside [first stage, last stage] fail with
// errs.ErrInvalidParameter instead of extrapolating.
//
// The package also provides Lookup sources that turn a set of tables into
// the λ or ν oracle consumed by packages nu and holder.
package interp

import (
	"math"
	"sort"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/table"
)

// Lookup maps an exponent k and a real stage x to a bound.
type Lookup func(k int, x float64) (float64, error)

// Query interpolates t at the real stage x.
//
// Complexity: O(log n) for n rows.
func Query(t *table.Table, x float64) (float64, error) {
	// Stage 1: validate input.
	if t == nil || t.Empty() {
		return 0, errs.Wrap(errs.ErrInvalidParameter, "interp: empty table")
	}
	if math.IsNaN(x) {
		return 0, errs.Wrapf(errs.ErrInvalidParameter, "interp: %s at NaN", t.Key())
	}
	first, _ := t.First()
	last, _ := t.Last()
	if x < float64(first.Stage) || x > float64(last.Stage) {
		return 0, errs.Wrapf(errs.ErrInvalidParameter,
			"interp: %s at %g outside [%d, %d]", t.Key(), x, first.Stage, last.Stage)
	}

	// Stage 2: first row whose stage is ≥ x.
	i := sort.Search(t.Len(), func(i int) bool {
		return float64(t.At(i).Stage) >= x
	})
	hi := t.At(i)
	if float64(hi.Stage) == x {
		return hi.Value, nil
	}

	// Stage 3: linear blend with the row below; i > 0 because x > first stage.
	lo := t.At(i - 1)
	theta := (x - float64(lo.Stage)) / float64(hi.Stage-lo.Stage)

	return (1-theta)*lo.Value + theta*hi.Value, nil
}

// QueryLambda is Query restricted to the λ(k,·) table.
func QueryLambda(t *table.Table, k int, x float64) (float64, error) {
	if err := expectKey(t, table.LambdaKey(k)); err != nil {
		return 0, err
	}

	return Query(t, x)
}

// QueryNu is Query restricted to the ν(h,k,·) table.
func QueryNu(t *table.Table, h, k int, x float64) (float64, error) {
	if err := expectKey(t, table.NuKey(h, k)); err != nil {
		return 0, err
	}

	return Query(t, x)
}

func expectKey(t *table.Table, want table.Key) error {
	if t == nil {
		return errs.Wrapf(errs.ErrInvalidParameter, "interp: nil table for %s", want)
	}
	if t.Key() != want {
		return errs.Wrapf(errs.ErrInvalidParameter, "interp: table %s queried as %s", t.Key(), want)
	}

	return nil
}
