// SPDX-License-Identifier: MIT

// Package table defines the owned, append-only bound table shared by the
// λ and ν recursions, the interpolator and the table stores.
//
// A Table is keyed by (H, K): H = 0 marks a λ(k,·) table, H ≥ 1 a ν(h,k,·)
// table. Rows hold (Stage, Value) pairs with contiguous, strictly increasing
// stages. Once a row is appended it is never modified; later stages only
// append. Tables are not safe for concurrent mutation; each build owns its
// table, readers receive it after the build returns.
package table

import (
	"fmt"
	"math"

	"github.com/katalvlaran/meanval/errs"
)

// Key identifies a table. H is zero for λ tables.
type Key struct {
	H int `yaml:"h" json:"h"`
	K int `yaml:"k" json:"k"`
}

// LambdaKey returns the key of the λ(k,·) table.
func LambdaKey(k int) Key { return Key{K: k} }

// NuKey returns the key of the ν(h,k,·) table.
func NuKey(h, k int) Key { return Key{H: h, K: k} }

// IsLambda reports whether the key addresses a λ table.
func (k Key) IsLambda() bool { return k.H == 0 }

// String renders the key as "lambda(k=8)" or "nu(h=3,k=8)".
func (k Key) String() string {
	if k.IsLambda() {
		return fmt.Sprintf("lambda(k=%d)", k.K)
	}

	return fmt.Sprintf("nu(h=%d,k=%d)", k.H, k.K)
}

// Row is one committed (stage, value) pair.
type Row struct {
	Stage int     `yaml:"stage" json:"stage"`
	Value float64 `yaml:"value" json:"value"`
}

// Table is an append-only sequence of rows for one key.
type Table struct {
	key  Key
	rows []Row
}

// New returns an empty table for key.
func New(key Key) *Table {
	return &Table{key: key}
}

// FromRows builds a table from rows, validating contiguity and finiteness.
func FromRows(key Key, rows []Row) (*Table, error) {
	t := &Table{key: key, rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		if err := t.Append(r.Stage, r.Value); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Key returns the table key.
func (t *Table) Key() Key { return t.key }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

// At returns the i-th row (0-based). It panics on out-of-range i like a slice.
func (t *Table) At(i int) Row { return t.rows[i] }

// First returns the first row and false if the table is empty.
func (t *Table) First() (Row, bool) {
	if len(t.rows) == 0 {
		return Row{}, false
	}

	return t.rows[0], true
}

// Last returns the last row and false if the table is empty.
func (t *Table) Last() (Row, bool) {
	if len(t.rows) == 0 {
		return Row{}, false
	}

	return t.rows[len(t.rows)-1], true
}

// Value returns the stored value of an integer stage.
func (t *Table) Value(stage int) (float64, bool) {
	if len(t.rows) == 0 {
		return 0, false
	}
	i := stage - t.rows[0].Stage
	if i < 0 || i >= len(t.rows) {
		return 0, false
	}

	return t.rows[i].Value, true
}

// Append commits the next row. The stage must equal last+1 (any stage is
// accepted for an empty table) and the value must be finite.
func (t *Table) Append(stage int, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errs.Wrapf(errs.ErrInvalidParameter, "table %s: non-finite value at stage %d", t.key, stage)
	}
	if last, ok := t.Last(); ok && stage != last.Stage+1 {
		return errs.Wrapf(errs.ErrInvalidParameter, "table %s: stage %d does not follow %d", t.key, stage, last.Stage)
	}
	t.rows = append(t.rows, Row{Stage: stage, Value: value})

	return nil
}

// Rows returns a copy of all rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)

	return out
}

// Slice returns a new table holding the rows with from ≤ stage ≤ to.
func (t *Table) Slice(from, to int) *Table {
	out := New(t.key)
	for _, r := range t.rows {
		if r.Stage >= from && r.Stage <= to {
			out.rows = append(out.rows, r)
		}
	}

	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return &Table{key: t.key, rows: t.Rows()}
}

// Monotone reports whether values never decrease by more than tol.
func (t *Table) Monotone(tol float64) bool {
	for i := 1; i < len(t.rows); i++ {
		if t.rows[i].Value < t.rows[i-1].Value-tol {
			return false
		}
	}

	return true
}
