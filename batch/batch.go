// SPDX-License-Identifier: MIT

// Package batch builds many independent bound tables in parallel.
//
// Each key is one sequential recursion; the Runner fans keys out over a
// bounded errgroup, resumes from whatever prefix the Store already holds and
// saves the extended table back. The first failing key cancels the rest.
package batch

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/nu"
	"github.com/katalvlaran/meanval/store"
	"github.com/katalvlaran/meanval/table"
)

// Runner drives batch builds. The zero value runs with GOMAXPROCS workers,
// no persistence and a no-op logger.
type Runner struct {
	Store         store.Store // optional; nil disables load and save
	Workers       int         // ≤ 0 means runtime.GOMAXPROCS(0)
	Logger        *zap.Logger
	LambdaOptions []lambda.Option
	NuOptions     []nu.Option
}

// Lambda builds λ(k, 1..to) for every k in ks.
func (r *Runner) Lambda(ctx context.Context, ks []int, to int) (map[int]*table.Table, error) {
	keys := make([]table.Key, 0, len(ks))
	for _, k := range ks {
		keys = append(keys, table.LambdaKey(k))
	}
	built, err := r.run(ctx, "lambda", keys, func(key table.Key, seed *table.Table) (*table.Table, error) {
		return lambda.Build(key.K, 1, to, seed, r.LambdaOptions...)
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int]*table.Table, len(built))
	for key, t := range built {
		out[key.K] = t
	}

	return out, nil
}

// Nu builds ν(h, k, 0..to) for every key, reading λ through source. The
// source must be safe for concurrent use (interp.LambdaSource is).
func (r *Runner) Nu(ctx context.Context, keys []table.Key, to int, source interp.Lookup) (map[table.Key]*table.Table, error) {
	for _, key := range keys {
		if key.IsLambda() {
			return nil, errs.Wrapf(errs.ErrInvalidParameter, "batch: %s is not a ν key", key)
		}
	}

	return r.run(ctx, "nu", keys, func(key table.Key, seed *table.Table) (*table.Table, error) {
		return nu.Build(key.H, key.K, 0, to, source, seed, r.NuOptions...)
	})
}

// buildFunc builds one full table, resuming from seed when non-nil.
type buildFunc func(key table.Key, seed *table.Table) (*table.Table, error)

func (r *Runner) run(ctx context.Context, kind string, keys []table.Key, build buildFunc) (map[table.Key]*table.Table, error) {
	var (
		log   = r.logger().With(zap.String("run", uuid.NewString()), zap.String("kind", kind))
		uniq  = dedup(keys)
		out   = make(map[table.Key]*table.Table, len(uniq))
		mu    sync.Mutex
		start = time.Now()
	)
	log.Info("batch started", zap.Int("keys", len(uniq)), zap.Int("workers", r.workers()))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for _, key := range uniq {
		key := key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			keyStart := time.Now()

			seed, err := r.load(gctx, key, log)
			if err != nil {
				return err
			}
			t, err := build(key, seed)
			if err != nil {
				return errs.Wrapf(err, "batch: build %s", key)
			}
			if r.Store != nil {
				if err = r.Store.Save(gctx, t); err != nil {
					return errs.Wrapf(err, "batch: save %s", key)
				}
			}

			mu.Lock()
			out[key] = t
			mu.Unlock()
			log.Debug("key done",
				zap.Stringer("key", key),
				zap.Int("rows", t.Len()),
				zap.Bool("resumed", seed != nil),
				zap.Duration("elapsed", time.Since(keyStart)))

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("batch failed", zap.Error(err))
		return nil, err
	}
	log.Info("batch finished", zap.Duration("elapsed", time.Since(start)))

	return out, nil
}

// load returns the stored prefix of key, or nil when there is nothing
// usable to resume from.
func (r *Runner) load(ctx context.Context, key table.Key, log *zap.Logger) (*table.Table, error) {
	if r.Store == nil {
		return nil, nil
	}
	t, err := r.Store.Load(ctx, key)
	if errs.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrapf(err, "batch: load %s", key)
	}

	base := 1
	if !key.IsLambda() {
		base = 0
	}
	if first, _ := t.First(); first.Stage != base {
		log.Warn("stored table does not start at the base case; rebuilding",
			zap.Stringer("key", key), zap.Int("first", first.Stage))
		return nil, nil
	}

	return t, nil
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}

	return runtime.GOMAXPROCS(0)
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}

	return r.Logger
}

// dedup returns the distinct keys in a stable order.
func dedup(keys []table.Key) []table.Key {
	seen := make(map[table.Key]struct{}, len(keys))
	out := make([]table.Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].H != out[j].H {
			return out[i].H < out[j].H
		}
		return out[i].K < out[j].K
	})

	return out
}
