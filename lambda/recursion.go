// SPDX-License-Identifier: MIT

package lambda

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/table"
)

// Build returns a new table holding λ(k, from..to).
//
// When seed is non-empty the recursion resumes from its last row and the
// seed rows inside [from, to] are copied verbatim; the seed must start at or
// before from. Without a seed, a WithCheckpoint option plays the same role,
// otherwise the recursion starts from the base cases. The seed is never
// modified.
//
// Complexity: O((to − start)·M) candidate evaluations for M methods.
func Build(k, from, to int, seed *table.Table, opts ...Option) (*table.Table, error) {
	o := gatherOptions(opts)

	// Stage 1: validate parameters.
	if err := validate(k, from, to); err != nil {
		return nil, err
	}

	// Stage 2: establish the working prefix (seed, checkpoint or empty).
	work, err := startTable(k, from, seed, o.Checkpoint)
	if err != nil {
		return nil, err
	}

	// Stage 3: extend to the requested stage and cut the window.
	if err = extend(work, to, o); err != nil {
		return nil, err
	}

	return work.Slice(from, to), nil
}

// Extend appends λ rows to t until its last stage reaches to. An empty table
// starts at the base cases. Rows already present are left untouched.
func Extend(t *table.Table, to int, opts ...Option) error {
	if t == nil {
		return errs.Wrap(errs.ErrInvalidParameter, "lambda: nil table")
	}
	key := t.Key()
	if !key.IsLambda() {
		return errs.Wrapf(errs.ErrInvalidParameter, "lambda: cannot extend %s", key)
	}
	if err := validate(key.K, 1, to); err != nil {
		return err
	}

	return extend(t, to, gatherOptions(opts))
}

// Next computes λ(k, stage) from the committed value at stage−1 using the
// given method set. It exposes the min-over-candidates rule to callers that
// keep their own state.
func Next(k, stage int, prev float64, methods []Method) (float64, string, error) {
	switch stage {
	case 1:
		return 1, "base", nil
	case 2:
		return 2, "base", nil
	}

	var (
		best = math.Inf(1)
		name string
	)
	for _, m := range methods {
		v, ok, err := m.Candidate(k, stage-1, prev)
		if err != nil {
			return 0, "", errs.Wrapf(err, "lambda: method %s at k=%d stage=%d", m.Name(), k, stage)
		}
		if ok && v < best {
			best, name = v, m.Name()
		}
	}
	if name == "" {
		return 0, "", errs.AssertionFailure(errs.ErrNoApplicableMethod, "lambda: k=%d stage=%d prev=%g", k, stage, prev)
	}

	return best, name, nil
}

// extend drives Next stage by stage, appending into t.
func extend(t *table.Table, to int, o Options) error {
	// stage is the next stage to compute, prev the value committed before it.
	var (
		k     = t.Key().K
		stage = 1
		prev  float64
	)
	if last, ok := t.Last(); ok {
		stage, prev = last.Stage+1, last.Value
	}

	for ; stage <= to; stage++ {
		v, method, err := Next(k, stage, prev, o.Methods)
		if err != nil {
			if errs.Is(err, errs.ErrNoPositiveRoot) {
				o.Logger.Error("precondition violation: smooth cubic has no positive root",
					zap.Int("k", k), zap.Int("stage", stage), zap.Error(err))
			}
			return err
		}
		if err = t.Append(stage, v); err != nil {
			return err
		}
		o.Logger.Debug("lambda stage committed",
			zap.Int("k", k),
			zap.Int("stage", stage),
			zap.Float64("value", v),
			zap.String("method", method))
		prev = v
	}

	return nil
}

// startTable returns the owned working table the recursion appends to.
func startTable(k, from int, seed *table.Table, cp *table.Row) (*table.Table, error) {
	key := table.LambdaKey(k)

	if seed != nil && !seed.Empty() {
		if seed.Key() != key {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "lambda: seed %s does not match %s", seed.Key(), key)
		}
		first, _ := seed.First()
		if first.Stage > from {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "lambda: seed starts at stage %d after from=%d", first.Stage, from)
		}
		return seed.Clone(), nil
	}

	work := table.New(key)
	if cp != nil {
		if cp.Stage < 1 || cp.Stage > from {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "lambda: checkpoint stage %d outside [1, %d]", cp.Stage, from)
		}
		if err := work.Append(cp.Stage, cp.Value); err != nil {
			return nil, err
		}
	}

	return work, nil
}

func validate(k, from, to int) error {
	if k < MinK {
		return errs.Wrapf(errs.ErrInvalidParameter, "lambda: k=%d below minimum %d", k, MinK)
	}
	if from < 1 || to < from {
		return errs.Wrapf(errs.ErrInvalidParameter, "lambda: stage range [%d, %d]", from, to)
	}

	return nil
}
