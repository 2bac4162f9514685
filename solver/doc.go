// Package solver provides a scalar Newton–Raphson root finder with a secant
// fallback, tuned for the per-time-step zero functions of the loop-rating
// engines.
//
// The tolerance is expressed in the physical units of the unknown (cfs for
// discharge, feet for stage), not as a relative residual: iteration stops
// when the step size |xₖ₊₁ − xₖ| falls below Options.Tol. Non-finite trial
// values and degenerate derivatives are hard failures, reported distinctly
// from iteration-budget exhaustion so callers can tell an unphysical input
// state from a slowly converging one.
//
// The solver performs no I/O and keeps no state between calls; it is safe
// for concurrent use from independent runs.
package solver
