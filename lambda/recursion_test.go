package lambda_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/table"
)

// rootless always fails the way a smooth cubic without a positive root would.
type rootless struct{}

func (rootless) Name() string { return "rootless" }

func (rootless) Candidate(int, int, float64) (float64, bool, error) {
	return 0, false, errs.Wrap(errs.ErrNoPositiveRoot, "stub")
}

// TestBuild_BaseCases: λ(k,1) = 1 and λ(k,2) = 2 for every k.
func TestBuild_BaseCases(t *testing.T) {
	for k := lambda.MinK; k <= 12; k++ {
		tbl, err := lambda.Build(k, 1, 2, nil)
		require.NoError(t, err)
		require.Equal(t, 2, tbl.Len())
		assert.Equal(t, table.Row{Stage: 1, Value: 1}, tbl.At(0))
		assert.Equal(t, table.Row{Stage: 2, Value: 2}, tbl.At(1))
		assert.Equal(t, table.LambdaKey(k), tbl.Key())
	}
}

// TestBuild_ReferenceValues pins the published anchors.
func TestBuild_ReferenceValues(t *testing.T) {
	tbl, err := lambda.Build(6, 1, 4, nil)
	require.NoError(t, err)
	v, ok := tbl.Value(4)
	require.True(t, ok)
	assert.InDelta(t, 4.33333, v, 1e-5, "λ(6,4)")

	tbl, err = lambda.Build(8, 3, 3, nil)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.InDelta(t, 3.04961, tbl.At(0).Value, 1e-5, "λ(8,3)")

	require.Equal(t, 4, lambda.MinK)
	tbl, err = lambda.Build(4, 3, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 25.0/8.0, tbl.At(0).Value, "λ(4,3)")
	assert.InDelta(t, 4.5, tbl.At(1).Value, 1e-12, "λ(4,4)")
}

// TestBuild_MonotoneAndBounded: λ is non-decreasing with increments in [1, 2]
// and stays inside (2t − k, 2t].
func TestBuild_MonotoneAndBounded(t *testing.T) {
	for k := lambda.MinK; k <= 16; k++ {
		tbl, err := lambda.Build(k, 1, 200, nil)
		require.NoError(t, err, "k=%d", k)
		require.Equal(t, 200, tbl.Len())
		assert.True(t, tbl.Monotone(0), "k=%d", k)

		rows := tbl.Rows()
		for i := 1; i < len(rows); i++ {
			step := rows[i].Value - rows[i-1].Value
			assert.GreaterOrEqual(t, step, 1.0-1e-9, "k=%d stage=%d", k, rows[i].Stage)
			assert.LessOrEqual(t, step, 2.0+1e-9, "k=%d stage=%d", k, rows[i].Stage)
			assert.LessOrEqual(t, rows[i].Value, float64(2*rows[i].Stage)+1e-9)
		}
	}
}

// TestBuild_WindowSlice returns exactly [from, to].
func TestBuild_WindowSlice(t *testing.T) {
	tbl, err := lambda.Build(7, 10, 25, nil)
	require.NoError(t, err)
	require.Equal(t, 16, tbl.Len())
	first, _ := tbl.First()
	last, _ := tbl.Last()
	assert.Equal(t, 10, first.Stage)
	assert.Equal(t, 25, last.Stage)
}

// TestBuild_ResumeFromSeed: resuming reproduces the uninterrupted run.
func TestBuild_ResumeFromSeed(t *testing.T) {
	full, err := lambda.Build(8, 1, 60, nil)
	require.NoError(t, err)

	seed, err := lambda.Build(8, 1, 30, nil)
	require.NoError(t, err)
	resumed, err := lambda.Build(8, 31, 60, seed)
	require.NoError(t, err)

	assert.Equal(t, full.Slice(31, 60).Rows(), resumed.Rows())
	assert.Equal(t, 30, seed.Len(), "seed must not be modified")

	// Overlapping request copies seed rows verbatim.
	overlap, err := lambda.Build(8, 20, 60, seed)
	require.NoError(t, err)
	assert.Equal(t, full.Slice(20, 60).Rows(), overlap.Rows())
}

// TestBuild_Checkpoint resumes from a single (stage, value) pair.
func TestBuild_Checkpoint(t *testing.T) {
	full, err := lambda.Build(9, 1, 50, nil)
	require.NoError(t, err)
	v30, ok := full.Value(30)
	require.True(t, ok)

	resumed, err := lambda.Build(9, 31, 50, nil, lambda.WithCheckpoint(30, v30))
	require.NoError(t, err)
	assert.Equal(t, full.Slice(31, 50).Rows(), resumed.Rows())

	_, err = lambda.Build(9, 31, 50, nil, lambda.WithCheckpoint(40, v30))
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

// TestExtend grows a table in place.
func TestExtend(t *testing.T) {
	tbl := table.New(table.LambdaKey(10))
	require.NoError(t, lambda.Extend(tbl, 12))
	require.NoError(t, lambda.Extend(tbl, 40))
	assert.Equal(t, 40, tbl.Len())

	want, err := lambda.Build(10, 1, 40, nil)
	require.NoError(t, err)
	assert.Equal(t, want.Rows(), tbl.Rows())

	// Extending below the last stage is a no-op.
	require.NoError(t, lambda.Extend(tbl, 5))
	assert.Equal(t, 40, tbl.Len())

	assert.ErrorIs(t, lambda.Extend(nil, 5), errs.ErrInvalidParameter)
	assert.ErrorIs(t, lambda.Extend(table.New(table.NuKey(3, 8)), 5), errs.ErrInvalidParameter)
}

// TestBuild_InvalidParameters covers parameter and seed validation.
func TestBuild_InvalidParameters(t *testing.T) {
	cases := []struct {
		name     string
		k, f, to int
	}{
		{"k below minimum", 3, 1, 5},
		{"from zero", 6, 0, 5},
		{"to before from", 6, 5, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := lambda.Build(c.k, c.f, c.to, nil)
			assert.ErrorIs(t, err, errs.ErrInvalidParameter)
		})
	}

	wrongKey, err := lambda.Build(7, 1, 10, nil)
	require.NoError(t, err)
	_, err = lambda.Build(8, 5, 20, wrongKey)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	late, err := lambda.Build(8, 5, 10, nil)
	require.NoError(t, err)
	_, err = lambda.Build(8, 3, 20, late)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

// TestNext_NoApplicableMethod is an internal-consistency failure.
func TestNext_NoApplicableMethod(t *testing.T) {
	_, _, err := lambda.Next(8, 5, 6.5, []lambda.Method{lambda.Smooth{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNoApplicableMethod)
	assert.True(t, errs.HasAssertionFailure(err))

	_, err = lambda.Build(8, 1, 10, nil, lambda.WithMethods(lambda.Smooth{}))
	assert.ErrorIs(t, err, errs.ErrNoApplicableMethod)
}

// TestBuild_NoPositiveRootIsLogged: the precondition violation surfaces as an
// error log and an ErrNoPositiveRoot.
func TestBuild_NoPositiveRootIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	_, err := lambda.Build(8, 1, 5, nil,
		lambda.WithMethods(rootless{}),
		lambda.WithLogger(zap.New(core)))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNoPositiveRoot)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, int64(3), entry.ContextMap()["stage"])
}

// TestBuild_GridSearchNeverRaises: adding a method can only lower a step.
func TestBuild_GridSearchNeverRaises(t *testing.T) {
	base, err := lambda.Build(8, 1, 40, nil)
	require.NoError(t, err)

	with := append(lambda.DefaultMethods(), lambda.Grid{Points: 16})
	rows := base.Rows()
	for i := 2; i < len(rows); i++ {
		prev := rows[i-1]
		def, _, err := lambda.Next(8, prev.Stage+1, prev.Value, lambda.DefaultMethods())
		require.NoError(t, err)
		got, _, err := lambda.Next(8, prev.Stage+1, prev.Value, with)
		require.NoError(t, err)
		assert.LessOrEqual(t, got, def)
	}

	grid, err := lambda.Build(8, 1, 40, nil, lambda.WithGridSearch(16))
	require.NoError(t, err)
	assert.True(t, grid.Monotone(0))
	assert.Equal(t, 40, grid.Len())
}

// TestOptions_Panics on nonsensical option values.
func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { lambda.WithMethods() })
	assert.Panics(t, func() { lambda.WithGridSearch(0) })
	assert.NotPanics(t, func() { lambda.WithLogger(nil) })
}
