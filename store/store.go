// SPDX-License-Identifier: MIT

// Package store persists bound tables between runs.
//
// Three implementations share the Store interface:
//   - Dir: one YAML document per key in a directory;
//   - SQLite: a single bound_rows table (pure-Go driver, no cgo);
//   - Memory: an in-process map, used by tests and one-shot CLI runs.
//
// Save merges: committed rows are never rewritten, a saved row must agree
// with the stored row of the same stage, and the union must stay contiguous
// and non-decreasing. Load validates what it reads, so a corrupted backend
// surfaces as errs.ErrInvalidParameter instead of a silently wrong table. A
// missing key is errs.ErrNotFound.
package store

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/table"
)

// Store loads and saves bound tables by key.
type Store interface {
	Load(ctx context.Context, key table.Key) (*table.Table, error)
	Save(ctx context.Context, t *table.Table) error
	Close() error
}

// conflictTol is the relative difference under which a re-saved row counts
// as equal to the committed one.
const conflictTol = 1e-12

// Kinds accepted by Open.
const (
	KindDir    = "dir"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open returns the store of the given kind rooted at path.
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindDir:
		return NewDir(path)
	case KindSQLite:
		return NewSQLite(path)
	case KindMemory, "":
		return NewMemory(), nil
	default:
		return nil, errs.Wrapf(errs.ErrInvalidParameter, "store: unknown kind %q", kind)
	}
}

// FileName is the Dir file name of a key: lambda_k8.yaml or nu_h3_k8.yaml.
func FileName(key table.Key) string {
	if key.IsLambda() {
		return fmt.Sprintf("lambda_k%d.yaml", key.K)
	}

	return fmt.Sprintf("nu_h%d_k%d.yaml", key.H, key.K)
}

// merge adds the rows of t missing from existing (which may be nil) and
// returns a new table. Stored rows win on overlap; a disagreeing value is
// rejected.
func merge(existing, t *table.Table) (*table.Table, error) {
	if existing == nil || existing.Empty() {
		if err := checkMonotone(t); err != nil {
			return nil, err
		}
		return t.Clone(), nil
	}
	if existing.Key() != t.Key() {
		return nil, errs.Wrapf(errs.ErrInvalidParameter, "store: merge %s into %s", t.Key(), existing.Key())
	}
	if t.Empty() {
		return existing.Clone(), nil
	}

	oldFirst, _ := existing.First()
	oldLast, _ := existing.Last()
	newFirst, _ := t.First()
	newLast, _ := t.Last()
	if newFirst.Stage > oldLast.Stage+1 || newLast.Stage < oldFirst.Stage-1 {
		return nil, errs.Wrapf(errs.ErrInvalidParameter,
			"store: %s rows [%d, %d] leave a gap to stored [%d, %d]",
			t.Key(), newFirst.Stage, newLast.Stage, oldFirst.Stage, oldLast.Stage)
	}

	out := table.New(t.Key())
	lo := min(oldFirst.Stage, newFirst.Stage)
	hi := max(oldLast.Stage, newLast.Stage)
	for s := lo; s <= hi; s++ {
		v, ok := existing.Value(s)
		nv, saved := t.Value(s)
		switch {
		case !ok:
			v = nv
		case saved && math.Abs(nv-v) > conflictTol*math.Max(1, math.Abs(v)):
			return nil, errs.Wrapf(errs.ErrInvalidParameter,
				"store: %s stage %d: saved value %g conflicts with committed %g", t.Key(), s, nv, v)
		}
		if err := out.Append(s, v); err != nil {
			return nil, err
		}
	}
	if err := checkMonotone(out); err != nil {
		return nil, err
	}

	return out, nil
}

// checkMonotone rejects tables whose values decrease anywhere.
func checkMonotone(t *table.Table) error {
	if !t.Monotone(0) {
		return errs.Wrapf(errs.ErrInvalidParameter, "store: %s is not non-decreasing", t.Key())
	}

	return nil
}

func notFound(key table.Key) error {
	return errs.Wrapf(errs.ErrNotFound, "store: %s", key)
}

func checkSave(t *table.Table) error {
	if t == nil {
		return errs.Wrap(errs.ErrInvalidParameter, "store: nil table")
	}

	return nil
}
