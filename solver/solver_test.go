package solver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/gaugeworks/dynrat/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadratic(x float64) (float64, error)      { return x*x - 2, nil }
func quadraticPrime(x float64) (float64, error) { return 2 * x, nil }

// TestNewton_AnalyticDerivative verifies convergence to sqrt(2) with the
// analytic derivative supplied.
func TestNewton_AnalyticDerivative(t *testing.T) {
	opts := solver.Options{Tol: 1e-10, MaxIter: 50}

	res, err := solver.Newton(quadratic, quadraticPrime, 1.0, opts)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-9)
	assert.Greater(t, res.Iterations, 0)
}

// TestNewton_SecantFallback verifies convergence without a derivative.
func TestNewton_SecantFallback(t *testing.T) {
	opts := solver.Options{Tol: 1e-10, MaxIter: 50}

	res, err := solver.Newton(quadratic, nil, 1.0, opts)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, math.Sqrt2, res.Root, 1e-9)
}

// TestNewton_Deterministic checks that identical inputs give identical
// (root, iterations, converged) outcomes.
func TestNewton_Deterministic(t *testing.T) {
	opts := solver.Options{Tol: 1e-8, MaxIter: 50}

	first, err1 := solver.Newton(quadratic, quadraticPrime, 3.0, opts)
	second, err2 := solver.Newton(quadratic, quadraticPrime, 3.0, opts)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

// TestNewton_NotConverged exhausts the budget on a slowly converging start.
func TestNewton_NotConverged(t *testing.T) {
	opts := solver.Options{Tol: 1e-12, MaxIter: 2}

	res, err := solver.Newton(quadratic, quadraticPrime, 1000.0, opts)
	assert.ErrorIs(t, err, solver.ErrNotConverged)
	assert.False(t, res.Converged)
	assert.True(t, math.IsNaN(res.Root), "failed solve carries a NaN sentinel root")
	assert.Equal(t, 2, res.Iterations)
}

// TestNewton_ZeroDerivative hits a stationary point of the zero function.
func TestNewton_ZeroDerivative(t *testing.T) {
	f := func(x float64) (float64, error) { return x*x + 1, nil }
	df := func(x float64) (float64, error) { return 2 * x, nil }

	res, err := solver.Newton(f, df, 0.0, solver.DefaultOptions())
	assert.ErrorIs(t, err, solver.ErrZeroDerivative)
	assert.False(t, res.Converged)
}

// TestNewton_NonFinite verifies a NaN residual is a hard failure.
func TestNewton_NonFinite(t *testing.T) {
	f := func(x float64) (float64, error) { return math.Sqrt(-1 - x*x), nil }
	df := func(x float64) (float64, error) { return 1, nil }

	res, err := solver.Newton(f, df, 1.0, solver.DefaultOptions())
	assert.ErrorIs(t, err, solver.ErrNonFinite)
	assert.False(t, res.Converged)
}

// TestNewton_FuncErrorPassthrough verifies caller errors are propagated
// unwrapped so engine sentinels survive errors.Is.
func TestNewton_FuncErrorPassthrough(t *testing.T) {
	sentinel := errors.New("engine: unphysical state")
	f := func(x float64) (float64, error) { return 0, sentinel }

	_, err := solver.Newton(f, nil, 1.0, solver.DefaultOptions())
	assert.ErrorIs(t, err, sentinel)
}

// TestNewton_BadOptions rejects non-positive tolerance or budget.
func TestNewton_BadOptions(t *testing.T) {
	_, err := solver.Newton(quadratic, nil, 1.0, solver.Options{Tol: 0, MaxIter: 10})
	assert.Error(t, err)
	_, err = solver.Newton(quadratic, nil, 1.0, solver.Options{Tol: 1e-6, MaxIter: 0})
	assert.Error(t, err)
	_, err = solver.Newton(nil, nil, 1.0, solver.DefaultOptions())
	assert.ErrorIs(t, err, solver.ErrNilFunc)
}
