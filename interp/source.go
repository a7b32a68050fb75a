// SPDX-License-Identifier: MIT

package interp

import (
	"math"
	"sync"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/table"
)

// LambdaSource serves λ(k, x) from a set of per-k tables.
//
// With fallback enabled (the default) a missing or too short table is built
// or extended on demand with lambda.Extend and cached. A LambdaSource is safe
// for concurrent use.
type LambdaSource struct {
	mu       sync.RWMutex
	tables   map[int]*table.Table
	fallback bool
	opts     []lambda.Option
}

// SourceOption configures a LambdaSource.
type SourceOption func(*LambdaSource)

// WithFallback toggles on-demand construction of missing λ rows.
func WithFallback(on bool) SourceOption {
	return func(s *LambdaSource) { s.fallback = on }
}

// WithLambdaOptions forwards options to the fallback recursion.
func WithLambdaOptions(opts ...lambda.Option) SourceOption {
	return func(s *LambdaSource) { s.opts = append(s.opts, opts...) }
}

// NewLambdaSource returns a source holding clones of the given λ tables.
func NewLambdaSource(tables []*table.Table, opts ...SourceOption) (*LambdaSource, error) {
	s := &LambdaSource{
		tables:   make(map[int]*table.Table, len(tables)),
		fallback: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, t := range tables {
		if err := s.Add(t); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add stores a clone of t, replacing any table with the same k.
func (s *LambdaSource) Add(t *table.Table) error {
	if t == nil || t.Empty() {
		return errs.Wrap(errs.ErrInvalidParameter, "interp: empty λ table")
	}
	if !t.Key().IsLambda() {
		return errs.Wrapf(errs.ErrInvalidParameter, "interp: %s is not a λ table", t.Key())
	}
	s.mu.Lock()
	s.tables[t.Key().K] = t.Clone()
	s.mu.Unlock()

	return nil
}

// Table returns a clone of the current λ(k,·) table.
func (s *LambdaSource) Table(k int) (*table.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[k]
	if !ok {
		return nil, false
	}

	return t.Clone(), true
}

// Lookup returns λ(k, x). It has the Lookup signature.
func (s *LambdaSource) Lookup(k int, x float64) (float64, error) {
	s.mu.RLock()
	t, ok := s.tables[k]
	if ok && covers(t, x) {
		v, err := Query(t, x)
		s.mu.RUnlock()
		return v, err
	}
	s.mu.RUnlock()

	if !s.fallback || math.IsNaN(x) || math.IsInf(x, 0) || x < 1 {
		if !ok {
			return 0, errs.Wrapf(errs.ErrInvalidParameter, "interp: no λ table for k=%d", k)
		}
		return QueryLambda(t, k, x)
	}

	return s.extend(k, x)
}

// extend grows (or creates) the λ(k,·) table so that it covers x.
func (s *LambdaSource) extend(k int, x float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[k]
	if !ok {
		t = table.New(table.LambdaKey(k))
	}
	if !covers(t, x) {
		if err := lambda.Extend(t, int(math.Ceil(x)), s.opts...); err != nil {
			return 0, errs.Wrapf(err, "interp: fallback λ(k=%d) up to %g", k, x)
		}
		s.tables[k] = t
	}

	return Query(t, x)
}

// covers reports whether x lies inside t's stage range.
func covers(t *table.Table, x float64) bool {
	first, ok := t.First()
	if !ok {
		return false
	}
	last, _ := t.Last()

	return x >= float64(first.Stage) && x <= float64(last.Stage)
}

// NuSource serves ν(h, k, x) for a fixed h from precomputed tables. There is
// no fallback: a missing table or an uncovered stage is an error.
type NuSource struct {
	h      int
	tables map[int]*table.Table
}

// NewNuSource returns a source over clones of ν tables that all share h.
func NewNuSource(h int, tables []*table.Table) (*NuSource, error) {
	s := &NuSource{h: h, tables: make(map[int]*table.Table, len(tables))}
	for _, t := range tables {
		if t == nil || t.Empty() {
			return nil, errs.Wrap(errs.ErrInvalidParameter, "interp: empty ν table")
		}
		if t.Key().H != h {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "interp: %s does not have h=%d", t.Key(), h)
		}
		s.tables[t.Key().K] = t.Clone()
	}

	return s, nil
}

// H returns the fixed h of the source.
func (s *NuSource) H() int { return s.h }

// Lookup returns ν(h, k, x). It has the Lookup signature.
func (s *NuSource) Lookup(k int, x float64) (float64, error) {
	t, ok := s.tables[k]
	if !ok {
		return 0, errs.Wrapf(errs.ErrInvalidParameter, "interp: no ν table for h=%d k=%d", s.h, k)
	}

	return QueryNu(t, s.h, k, x)
}
