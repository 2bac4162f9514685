package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotConverged indicates the iteration budget was exhausted before
	// the step size dropped below tolerance.
	ErrNotConverged = errors.New("solver: failed to converge within iteration budget")

	// ErrZeroDerivative indicates the (analytic or secant) derivative
	// vanished at a trial point, leaving no usable Newton step.
	ErrZeroDerivative = errors.New("solver: derivative vanished at trial point")

	// ErrNonFinite indicates a trial value, residual, or derivative became
	// NaN or infinite during iteration.
	ErrNonFinite = errors.New("solver: non-finite value during iteration")

	// ErrNilFunc indicates a nil zero function.
	ErrNilFunc = errors.New("solver: zero function must be non-nil")
)

// Physical convergence tolerances for the two solve directions.
const (
	// TolDischarge is the discharge tolerance, in cfs.
	TolDischarge = 1.0
	// TolStage is the stage tolerance, in feet.
	TolStage = 0.1
)

// Func evaluates a zero function (or its derivative) at a trial value.
// Returning an error aborts the iteration immediately; the error is
// propagated unwrapped so callers can match engine sentinels with errors.Is.
type Func func(x float64) (float64, error)

// Options configures a single root solve.
type Options struct {
	// Tol is the convergence tolerance on the step size, in the physical
	// units of the unknown.
	Tol float64

	// MaxIter bounds the number of iterations.
	MaxIter int
}

// DefaultOptions returns the solver defaults: 50 iterations and a
// discharge-scale tolerance of 1.0.
func DefaultOptions() Options {
	return Options{Tol: TolDischarge, MaxIter: 50}
}

// Result reports the outcome of one root solve. A failed solve carries a
// NaN root with Converged == false.
type Result struct {
	Root       float64
	Iterations int
	Converged  bool
}

// Newton finds a root of f starting from x0. When df is non-nil it is used
// as the analytic derivative of f; otherwise a secant update estimates the
// derivative from successive residuals at a small performance cost.
//
// The returned error is nil only when Result.Converged is true. Errors from
// f or df pass through unwrapped; solver-level failures wrap ErrNonFinite,
// ErrZeroDerivative, or ErrNotConverged.
func Newton(f, df Func, x0 float64, opts Options) (Result, error) {
	if f == nil {
		return failed(0), ErrNilFunc
	}
	if opts.Tol <= 0 || opts.MaxIter <= 0 {
		return failed(0), fmt.Errorf("solver: tolerance and iteration budget must be positive (tol=%g, maxIter=%d)", opts.Tol, opts.MaxIter)
	}
	if df != nil {
		return newtonRaphson(f, df, x0, opts)
	}
	return secant(f, x0, opts)
}

func newtonRaphson(f, df Func, x0 float64, opts Options) (Result, error) {
	p0 := x0
	for i := 0; i < opts.MaxIter; i++ {
		fval, err := f(p0)
		if err != nil {
			return failed(i), err
		}
		if fval == 0 {
			return Result{Root: p0, Iterations: i, Converged: true}, nil
		}
		fder, err := df(p0)
		if err != nil {
			return failed(i), err
		}
		if !isFinite(fval) || !isFinite(fder) {
			return failed(i), fmt.Errorf("%w: f(%g)=%g, f'(%g)=%g", ErrNonFinite, p0, fval, p0, fder)
		}
		if fder == 0 {
			return failed(i), fmt.Errorf("%w: at x=%g after %d iterations", ErrZeroDerivative, p0, i)
		}
		p := p0 - fval/fder
		if !isFinite(p) {
			return failed(i), fmt.Errorf("%w: trial value %g", ErrNonFinite, p)
		}
		if math.Abs(p-p0) < opts.Tol {
			return Result{Root: p, Iterations: i + 1, Converged: true}, nil
		}
		p0 = p
	}
	return failed(opts.MaxIter), fmt.Errorf("%w: %d iterations, tol=%g", ErrNotConverged, opts.MaxIter, opts.Tol)
}

func secant(f Func, x0 float64, opts Options) (Result, error) {
	// Second starting point offset by a small relative perturbation.
	const eps = 1e-4
	p0 := x0
	p1 := x0 * (1 + eps)
	if p1 >= 0 {
		p1 += eps
	} else {
		p1 -= eps
	}

	q0, err := f(p0)
	if err != nil {
		return failed(0), err
	}
	q1, err := f(p1)
	if err != nil {
		return failed(0), err
	}
	if math.Abs(q1) < math.Abs(q0) {
		p0, p1 = p1, p0
		q0, q1 = q1, q0
	}
	for i := 0; i < opts.MaxIter; i++ {
		if !isFinite(q0) || !isFinite(q1) {
			return failed(i), fmt.Errorf("%w: residuals f(%g)=%g, f(%g)=%g", ErrNonFinite, p0, q0, p1, q1)
		}
		if q1 == q0 {
			if p1 != p0 {
				return failed(i), fmt.Errorf("%w: secant between x=%g and x=%g", ErrZeroDerivative, p0, p1)
			}
			return Result{Root: p1, Iterations: i, Converged: true}, nil
		}
		p := p1 - q1*(p1-p0)/(q1-q0)
		if !isFinite(p) {
			return failed(i), fmt.Errorf("%w: trial value %g", ErrNonFinite, p)
		}
		if math.Abs(p-p1) < opts.Tol {
			return Result{Root: p, Iterations: i + 1, Converged: true}, nil
		}
		p0, q0 = p1, q1
		p1 = p
		if q1, err = f(p1); err != nil {
			return failed(i + 1), err
		}
	}
	return failed(opts.MaxIter), fmt.Errorf("%w: %d iterations, tol=%g", ErrNotConverged, opts.MaxIter, opts.Tol)
}

func failed(iters int) Result {
	return Result{Root: math.NaN(), Iterations: iters, Converged: false}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
