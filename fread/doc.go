// Package fread implements the per-time-step zero functions of Fread's
// dynamic loop-rating method (Fread, D.L., 1973, A dynamic model of
// stage-discharge relations affected by changing discharge: NOAA Technical
// Memorandum NWS HYDRO-16).
//
// 🚀 What it does
//
//	A static rating curve maps one stage to one discharge. During unsteady
//	flow the true relation loops: the rising limb carries more water than
//	the falling limb at the same stage. Fread's method corrects the steady
//	(normal-flow) relation with a single lumped momentum/continuity term,
//	expressed as a scalar zero function solved once per time step.
//
// ✨ Two algebraically equivalent formulations are provided:
//
//   - CoefficientEngine — the coefficient expansion (eq. 15): the residual
//     f(Q) = Q − L2·√(L3 + L4/Q + L5·Q + L6·Q²) with an analytic derivative.
//     Solves for discharge given stage.
//   - CelerityEngine — the direct momentum-balance residual with a kinematic
//     wave-celerity term, selected from four interchangeable computation
//     methods (CelerityMethod). Solves in either direction (discharge or
//     stage unknown).
//
// Both engines evaluate hydraulic properties through a section.Table and are
// immutable after construction; a single engine may serve any number of
// concurrent runs.
//
// Failure semantics: a residual, derivative, or intermediate term that is
// NaN or infinite signals a physically invalid state (near-zero area, dry
// section). It is a hard failure carried as a *NonFiniteError, which names
// the offending terms and matches ErrNonFiniteResidual under errors.Is.
package fread
