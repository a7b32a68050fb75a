package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/meanval/batch"
	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/nu"
	"github.com/katalvlaran/meanval/store"
	"github.com/katalvlaran/meanval/table"
)

func TestLambda_MatchesSequential(t *testing.T) {
	r := &batch.Runner{Workers: 3}
	got, err := r.Lambda(context.Background(), []int{4, 5, 6, 7, 8, 9, 10, 10}, 80)
	require.NoError(t, err)
	require.Len(t, got, 7)

	for k, tb := range got {
		want, err := lambda.Build(k, 1, 80, nil)
		require.NoError(t, err)
		assert.Equal(t, want.Rows(), tb.Rows(), "k=%d", k)
	}
}

func TestLambda_ResumesFromStore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	prefix, err := lambda.Build(8, 1, 30, nil)
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, prefix))

	core, logs := observer.New(zapcore.DebugLevel)
	r := &batch.Runner{Store: mem, Workers: 2, Logger: zap.New(core)}
	got, err := r.Lambda(ctx, []int{8, 9}, 60)
	require.NoError(t, err)

	want, err := lambda.Build(8, 1, 60, nil)
	require.NoError(t, err)
	assert.Equal(t, want.Rows(), got[8].Rows())

	stored, err := mem.Load(ctx, table.LambdaKey(9))
	require.NoError(t, err)
	assert.Equal(t, 60, stored.Len())

	resumed := map[string]bool{}
	for _, e := range logs.FilterMessage("key done").All() {
		resumed[e.ContextMap()["key"].(string)] = e.ContextMap()["resumed"].(bool)
	}
	assert.True(t, resumed["lambda(k=8)"])
	assert.False(t, resumed["lambda(k=9)"])
	assert.Equal(t, 1, logs.FilterMessage("batch finished").Len())
	run := logs.FilterMessage("batch started").All()[0].ContextMap()["run"]
	assert.NotEmpty(t, run)
}

func TestLambda_RebuildsUnanchoredPrefix(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	full, err := lambda.Build(7, 1, 40, nil)
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, full.Slice(20, 40)))

	core, logs := observer.New(zapcore.WarnLevel)
	r := &batch.Runner{Store: mem, Logger: zap.New(core)}
	got, err := r.Lambda(ctx, []int{7}, 40)
	require.NoError(t, err)
	assert.Equal(t, full.Rows(), got[7].Rows())
	assert.Equal(t, 1, logs.Len())
}

func TestLambda_Errors(t *testing.T) {
	r := &batch.Runner{}
	_, err := r.Lambda(context.Background(), []int{6, 3}, 10)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Lambda(ctx, []int{6, 7}, 10)
	assert.ErrorIs(t, err, context.Canceled)

	got, err := r.Lambda(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNu_MatchesSequential(t *testing.T) {
	ctx := context.Background()
	src, err := interp.NewLambdaSource(nil)
	require.NoError(t, err)

	keys := []table.Key{table.NuKey(2, 6), table.NuKey(3, 6), table.NuKey(3, 8), table.NuKey(4, 9)}
	mem := store.NewMemory()
	r := &batch.Runner{Store: mem, Workers: 4}
	got, err := r.Nu(ctx, keys, 40, src.Lookup)
	require.NoError(t, err)
	require.Len(t, got, len(keys))

	for _, key := range keys {
		want, err := nu.Build(key.H, key.K, 0, 40, src.Lookup, nil)
		require.NoError(t, err)
		assert.Equal(t, want.Rows(), got[key].Rows(), "%s", key)

		stored, err := mem.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want.Rows(), stored.Rows())
	}

	_, err = r.Nu(ctx, []table.Key{table.LambdaKey(8)}, 10, src.Lookup)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}
