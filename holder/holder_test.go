package holder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/holder"
	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/nu"
	"github.com/katalvlaran/meanval/table"
)

var referenceK = []int{5, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

func lambdaSource(t testing.TB) *interp.LambdaSource {
	t.Helper()
	src, err := interp.NewLambdaSource(nil)
	require.NoError(t, err)

	return src
}

func reciprocalSum(w []float64) float64 {
	var s float64
	for _, a := range w {
		s += 1 / a
	}

	return s
}

// TestSeed is the equal-contribution point.
func TestSeed(t *testing.T) {
	a, err := holder.Seed([]int{2, 3, 6}, lambdaSource(t).Lookup)
	require.NoError(t, err)
	w := a.Weights()
	assert.InDelta(t, 2.0, w[0], 1e-12)
	assert.InDelta(t, 3.0, w[1], 1e-12)
	assert.InDelta(t, 6.0, w[2], 1e-12)
	assert.InDelta(t, 1.0, reciprocalSum(w), 1e-12)
}

// TestDerivatives reads slopes from the integers around a_i.
func TestDerivatives(t *testing.T) {
	src := lambdaSource(t)
	a, err := holder.NewAssignment([]int{8, 8, 8}, []float64{1, 2.5, 3}, src.Lookup)
	require.NoError(t, err)

	r, err := a.DerivativeRight(0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(r, 1), "weight 1 cannot shrink")

	b := func(x float64) float64 {
		v, err := src.Lookup(8, x)
		require.NoError(t, err)
		return v
	}
	sigma := func(n float64) float64 { return ((n+1)*b(n) - n*b(n+1)) / 8 }

	r, err = a.DerivativeRight(1)
	require.NoError(t, err)
	assert.InDelta(t, sigma(2), r, 1e-15)
	l, err := a.DerivativeLeft(1)
	require.NoError(t, err)
	assert.InDelta(t, sigma(2), l, 1e-15, "inside (2,3) both sides share a piece")

	r, err = a.DerivativeRight(2)
	require.NoError(t, err)
	assert.InDelta(t, sigma(2), r, 1e-15)
	l, err = a.DerivativeLeft(2)
	require.NoError(t, err)
	assert.InDelta(t, sigma(3), l, 1e-15)
}

// TestRebalance snaps the limiting coordinate and conserves Σ 1/a.
func TestRebalance(t *testing.T) {
	src := lambdaSource(t)
	a, err := holder.NewAssignment([]int{5, 6, 7}, []float64{2.5, 4.2, 5}, src.Lookup)
	require.NoError(t, err)
	before := reciprocalSum(a.Weights())

	// di = 1/2 − 1/2.5 = 0.1, dj = 1/4.2 − 1/5 ≈ 0.038: j lands on 5.
	require.NoError(t, a.Rebalance(0, 1))
	w := a.Weights()
	assert.Equal(t, 5.0, w[1])
	assert.Equal(t, 5.0, w[2], "untouched")
	assert.Less(t, w[0], 2.5)
	assert.InDelta(t, before, reciprocalSum(w), 1e-12)

	// Now i lands on 2 exactly.
	a, err = holder.NewAssignment([]int{5, 6}, []float64{2.1, 1.9}, src.Lookup)
	require.NoError(t, err)
	require.NoError(t, a.Rebalance(0, 1))
	w = a.Weights()
	assert.Equal(t, 2.0, w[0])
	assert.InDelta(t, 1/2.1+1/1.9, reciprocalSum(w), 1e-12)

	assert.True(t, errs.HasAssertionFailure(a.Rebalance(1, 1)))
}

// TestOptimize_ReferenceK: finite φ, no worse than the seed, Σ 1/a = 1.
func TestOptimize_ReferenceK(t *testing.T) {
	src := lambdaSource(t)

	seed, err := holder.Seed(referenceK, src.Lookup)
	require.NoError(t, err)
	phiSeed, err := seed.Exponent()
	require.NoError(t, err)

	phi, res, err := holder.ComputeExponent(referenceK, src.Lookup)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Gap, holder.DefaultEpsilon)
	assert.Less(t, res.Iterations, 100)
	assert.False(t, math.IsInf(phi, 0) || math.IsNaN(phi))
	assert.LessOrEqual(t, phi, phiSeed)
	assert.InDelta(t, 1.4471750533, phiSeed, 1e-8)
	assert.InDelta(t, 1.4454213729, phi, 1e-8)
	assert.Equal(t, 12, res.Iterations)

	weights := make([]float64, len(res.Coefficients))
	for i, c := range res.Coefficients {
		assert.Equal(t, referenceK[i], c.K)
		assert.GreaterOrEqual(t, c.Weight, 1.0)
		weights[i] = c.Weight
	}
	assert.InDelta(t, 1.0, reciprocalSum(weights), 1e-12)
}

// TestOptimize_TwoExponents meets on the integer 2.
func TestOptimize_TwoExponents(t *testing.T) {
	src := lambdaSource(t)
	phi, res, err := holder.ComputeExponent([]int{8, 9}, src.Lookup)
	require.NoError(t, err)
	require.Len(t, res.Coefficients, 2)
	assert.InDelta(t, 2.0, res.Coefficients[0].Weight, 1e-12)
	assert.InDelta(t, 2.0, res.Coefficients[1].Weight, 1e-12)
	assert.InDelta(t, 2.0/16+2.0/18, phi, 1e-12)
}

// TestOptimize_TraceConservation: each swap touches only I and J.
func TestOptimize_TraceConservation(t *testing.T) {
	src := lambdaSource(t)
	seed, err := holder.Seed(referenceK, src.Lookup)
	require.NoError(t, err)
	prev := seed.Weights()

	var steps []holder.Step
	_, err = holder.Optimize(referenceK, src.Lookup, holder.WithTrace(func(s holder.Step) {
		steps = append(steps, s)
	}))
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	for n, s := range steps {
		assert.Equal(t, n+1, s.Iteration)
		assert.NotEqual(t, s.I, s.J)
		assert.Greater(t, s.Gap, 0.0)
		assert.InDelta(t, 1.0, reciprocalSum(s.Weights), 1e-12)
		for q := range s.Weights {
			if q != s.I && q != s.J {
				assert.Equal(t, prev[q], s.Weights[q], "step %d coordinate %d", s.Iteration, q)
			}
		}
		assert.Contains(t, []holder.Decision{holder.SwapDistinct, holder.SwapSharedLeft, holder.SwapSharedRight}, s.Decision)
		prev = s.Weights
	}
}

// TestOptimize_DidNotConverge returns the last assignment and warns.
func TestOptimize_DidNotConverge(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	res, err := holder.Optimize(referenceK, lambdaSource(t).Lookup,
		holder.WithMaxIterations(1),
		holder.WithLogger(zap.New(core)))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrDidNotConverge)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Coefficients, len(referenceK))
	assert.Equal(t, 1, logs.Len())

	phi, _, err := holder.ComputeExponent(referenceK, lambdaSource(t).Lookup, holder.WithMaxIterations(1))
	assert.ErrorIs(t, err, errs.ErrDidNotConverge)
	assert.Greater(t, phi, 0.0)
}

// TestOptimize_NuSource runs the same loop over ν bounds.
func TestOptimize_NuSource(t *testing.T) {
	var tables []*table.Table
	for _, k := range []int{8, 9, 10} {
		lam, err := lambda.Build(k, 1, 120, nil)
		require.NoError(t, err)
		ls, err := interp.NewLambdaSource([]*table.Table{lam}, interp.WithFallback(false))
		require.NoError(t, err)
		tb, err := nu.Build(3, k, 0, 60, ls.Lookup, nil)
		require.NoError(t, err)
		tables = append(tables, tb)
	}
	src, err := interp.NewNuSource(3, tables)
	require.NoError(t, err)

	phi, res, err := holder.ComputeExponent([]int{8, 9, 10}, src.Lookup)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 0.37597, phi, 1e-4)
}

// TestOptimize_SingleAndInvalid covers degenerate inputs.
func TestOptimize_SingleAndInvalid(t *testing.T) {
	src := lambdaSource(t)

	res, err := holder.Optimize([]int{7}, src.Lookup)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	require.Len(t, res.Coefficients, 1)
	assert.Equal(t, 7, res.Coefficients[0].K)
	assert.InDelta(t, 1.0, res.Coefficients[0].Weight, 1e-15)

	_, err = holder.Optimize(nil, src.Lookup)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = holder.Optimize([]int{5, 0}, src.Lookup)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = holder.Optimize([]int{5, 6}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = holder.NewAssignment([]int{5}, []float64{0.5}, src.Lookup)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = holder.Exponent([]holder.Coefficient{{K: 5, Weight: 0}}, src.Lookup)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	// Lookup errors propagate.
	_, err = holder.Optimize([]int{3, 5}, src.Lookup)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	assert.Panics(t, func() { holder.WithMaxIterations(0) })
	assert.Panics(t, func() { holder.WithEpsilon(-1) })
	assert.Equal(t, "shared-left", holder.SwapSharedLeft.String())
}
