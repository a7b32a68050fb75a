// SPDX-License-Identifier: MIT

package nu

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/table"
)

// Build returns a new table holding ν(h, k, from..to).
//
// λ values are taken only from lookup, which must cover stages up to 2·to.
// Seed and checkpoint handling mirror lambda.Build: a non-empty seed must
// start at or before from and is never modified.
func Build(h, k, from, to int, lookup interp.Lookup, seed *table.Table, opts ...Option) (*table.Table, error) {
	o := gatherOptions(opts)

	// Stage 1: validate parameters.
	if err := validate(h, k, from, to, lookup); err != nil {
		return nil, err
	}

	// Stage 2: working prefix.
	work, err := startTable(h, k, from, seed, o.Checkpoint)
	if err != nil {
		return nil, err
	}

	// Stage 3: extend and cut.
	if err = extend(work, to, lookup, o); err != nil {
		return nil, err
	}

	return work.Slice(from, to), nil
}

// Extend appends ν rows to t until its last stage reaches to.
func Extend(t *table.Table, to int, lookup interp.Lookup, opts ...Option) error {
	if t == nil {
		return errs.Wrap(errs.ErrInvalidParameter, "nu: nil table")
	}
	key := t.Key()
	if key.IsLambda() {
		return errs.Wrapf(errs.ErrInvalidParameter, "nu: cannot extend %s", key)
	}
	if err := validate(key.H, key.K, 0, to, lookup); err != nil {
		return err
	}

	return extend(t, to, lookup, gatherOptions(opts))
}

func extend(t *table.Table, to int, lookup interp.Lookup, o Options) error {
	var (
		key   = t.Key()
		stage = 0
		prev  float64
	)
	if last, ok := t.Last(); ok {
		stage, prev = last.Stage+1, last.Value
	}

	for ; stage <= to; stage++ {
		var ch Choice
		switch stage {
		case 0:
			ch = Choice{Value: 1}
		case 1:
			ch = Choice{Value: 1 + float64(key.H)/float64(key.K)}
		default:
			var err error
			if ch, err = Stage(key.H, key.K, stage, prev, lookup); err != nil {
				return err
			}
		}
		if err := t.Append(stage, ch.Value); err != nil {
			return err
		}
		o.Logger.Debug("nu stage committed",
			zap.Int("h", key.H),
			zap.Int("k", key.K),
			zap.Int("stage", stage),
			zap.Float64("value", ch.Value),
			zap.Float64("a", ch.A),
			zap.Float64("theta", ch.Theta))
		prev = ch.Value
	}

	return nil
}

func startTable(h, k, from int, seed *table.Table, cp *table.Row) (*table.Table, error) {
	key := table.NuKey(h, k)

	if seed != nil && !seed.Empty() {
		if seed.Key() != key {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "nu: seed %s does not match %s", seed.Key(), key)
		}
		first, _ := seed.First()
		if first.Stage > from {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "nu: seed starts at stage %d after from=%d", first.Stage, from)
		}
		return seed.Clone(), nil
	}

	work := table.New(key)
	if cp != nil {
		if cp.Stage > from {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "nu: checkpoint stage %d after from=%d", cp.Stage, from)
		}
		if err := work.Append(cp.Stage, cp.Value); err != nil {
			return nil, err
		}
	}

	return work, nil
}

func validate(h, k, from, to int, lookup interp.Lookup) error {
	if k < MinK {
		return errs.Wrapf(errs.ErrInvalidParameter, "nu: k=%d below minimum %d", k, MinK)
	}
	if h < MinH || h > k-1 {
		return errs.Wrapf(errs.ErrInvalidParameter, "nu: h=%d outside [%d, %d]", h, MinH, k-1)
	}
	if from < 0 || to < from {
		return errs.Wrapf(errs.ErrInvalidParameter, "nu: stage range [%d, %d]", from, to)
	}
	if lookup == nil {
		return errs.Wrap(errs.ErrInvalidParameter, "nu: nil λ lookup")
	}

	return nil
}
