package fread

import (
	"math"

	"github.com/gaugeworks/dynrat/section"
	"github.com/gaugeworks/dynrat/solver"
	"go.uber.org/zap"
)

// minAbsDelta floors the finite differences of the DQDA celerity method so a
// vanishing ΔQ or ΔA cannot blow up the quotient.
const minAbsDelta = 1e-9

// dkdaStep is the full width of the symmetric stage perturbation used by the
// DKDA celerity method (±0.005 ft around the current stage).
const dkdaStep = 0.01

// CelerityEngine evaluates the DYNPOUND momentum-balance residual
//
//	f = (1/gA)·dQ/dt − β·(2Q/gA²)·dA/dt + (1 − β·B·Q²/gA³)·∂h/∂tₖ + (Q/K)² − S₀
//
// with the kinematic partial ∂h/∂tₖ = −(1/c)·dh/dt − (2/3)·S₀/r² and wave
// celerity c computed by the configured CelerityMethod. The same residual
// serves both solve directions; only the identity of the unknown changes.
type CelerityEngine struct {
	sect   *section.Table
	params ChannelParams
	method CelerityMethod
	log    *zap.SugaredLogger
}

// NewCelerityEngine validates params and the method selector and returns an
// immutable engine. The table must carry wetted perimeter (for the kinematic
// factor) and conveyance (for the friction slope and the DKDA method).
func NewCelerityEngine(sect *section.Table, params ChannelParams, method CelerityMethod, opts ...Option) (*CelerityEngine, error) {
	if sect == nil {
		return nil, ErrNilSection
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch method {
	case CelerityDKDA, CelerityConstK, CelerityK, CelerityDQDA:
	default:
		return nil, ErrUnknownCelerityMethod
	}
	if !sect.HasWettedPerimeter() || !sect.HasConveyance() {
		return nil, ErrMissingConveyance
	}
	s := newSettings(opts)
	return &CelerityEngine{sect: sect, params: params, method: method, log: s.log}, nil
}

// Method returns the configured celerity computation method.
func (e *CelerityEngine) Method() CelerityMethod { return e.method }

// KinematicFactor computes K = 5/3 − (2/3)·(A/(B·P))·dP/dh using a backward
// difference of wetted perimeter between the current and previous stage,
// substituting the no-change limit 5/3 when the stages coincide. A negative
// K is physically suspect and logged, but not an error.
func (e *CelerityEngine) KinematicFactor(h, hPrime float64) (float64, error) {
	dh := h - hPrime
	if dh == 0 {
		return 5.0 / 3.0, nil
	}
	b, err := e.sect.TopWidth(h)
	if err != nil {
		return math.NaN(), err
	}
	p, err := e.sect.WettedPerimeter(h)
	if err != nil {
		return math.NaN(), err
	}
	pPrime, err := e.sect.WettedPerimeter(hPrime)
	if err != nil {
		return math.NaN(), err
	}
	a, err := e.sect.Area(h)
	if err != nil {
		return math.NaN(), err
	}
	dPdh := (p - pPrime) / dh
	k := 5.0/3.0 - 2.0/3.0*(a/(b*p))*dPdh
	if k < 0 {
		e.log.Warnw("kinematic factor is negative", "k", k, "stage", h, "stagePrev", hPrime)
	}
	return k, nil
}

// Celerity computes the flood-wave celerity for a trial state by the
// configured method.
func (e *CelerityEngine) Celerity(h, hPrime, q, qPrime float64) (float64, error) {
	switch e.method {
	case CelerityConstK:
		a, err := e.sect.Area(h)
		if err != nil {
			return math.NaN(), err
		}
		return 1.7 * q / a, nil

	case CelerityK:
		a, err := e.sect.Area(h)
		if err != nil {
			return math.NaN(), err
		}
		k, err := e.KinematicFactor(h, hPrime)
		if err != nil {
			return math.NaN(), err
		}
		return k * q / a, nil

	case CelerityDQDA:
		a, err := e.sect.Area(h)
		if err != nil {
			return math.NaN(), err
		}
		aPrime, err := e.sect.Area(hPrime)
		if err != nil {
			return math.NaN(), err
		}
		dq := floorDelta(q - qPrime)
		da := floorDelta(a - aPrime)
		return dq / da, nil

	default: // CelerityDKDA
		aUp, err := e.sect.Area(h + dkdaStep/2)
		if err != nil {
			return math.NaN(), err
		}
		aDown, err := e.sect.Area(h - dkdaStep/2)
		if err != nil {
			return math.NaN(), err
		}
		kUp, err := e.sect.Conveyance(h + dkdaStep/2)
		if err != nil {
			return math.NaN(), err
		}
		kDown, err := e.sect.Conveyance(h - dkdaStep/2)
		if err != nil {
			return math.NaN(), err
		}
		return math.Sqrt(e.params.BedSlope) * (kUp - kDown) / (aUp - aDown), nil
	}
}

// floorDelta keeps the magnitude of a finite difference above minAbsDelta,
// preserving its sign; an exact zero floors positive.
func floorDelta(d float64) float64 {
	if d == 0 {
		return minAbsDelta
	}
	if math.Abs(d) < minAbsDelta {
		return math.Copysign(minAbsDelta, d)
	}
	return d
}

// ZeroFunc evaluates the momentum-balance residual for a trial state. Every
// additive term and the kinematic partial are checked for finiteness
// individually; a non-finite residual is returned as a *NonFiniteError
// naming the offending terms.
func (e *CelerityEngine) ZeroFunc(h, hPrime, q, qPrime float64) (float64, error) {
	a, err := e.sect.Area(h)
	if err != nil {
		return math.NaN(), err
	}
	aPrime, err := e.sect.Area(hPrime)
	if err != nil {
		return math.NaN(), err
	}
	beta, err := e.sect.VelDistFactor(h)
	if err != nil {
		return math.NaN(), err
	}
	b, err := e.sect.TopWidth(h)
	if err != nil {
		return math.NaN(), err
	}
	k, err := e.sect.Conveyance(h)
	if err != nil {
		return math.NaN(), err
	}
	c, err := e.Celerity(h, hPrime, q, qPrime)
	if err != nil {
		return math.NaN(), err
	}

	dt := e.params.TimeStep
	s0 := e.params.BedSlope
	r2 := e.params.SlopeRatio * e.params.SlopeRatio

	dh := h - hPrime
	dq := q - qPrime
	da := a - aPrime

	yPartial := -1/c*dh/dt - 2.0/3.0*s0/r2

	term1 := 1 / (Gravity * a) * dq / dt
	term2 := beta * (2 * q) / (Gravity * a * a) * da / dt
	term3 := (1 - beta*b*q*q/(Gravity*a*a*a)) * yPartial
	frictionSlope := (q / k) * (q / k)

	f := term1 - term2 + term3 + frictionSlope - s0
	if !isFinite(f) {
		nf := &NonFiniteError{Stage: h, Discharge: q}
		for _, t := range []struct {
			name  string
			value float64
		}{
			{"term1", term1},
			{"term2", term2},
			{"term3", term3},
			{"yPartial", yPartial},
			{"frictionSlope", frictionSlope},
		} {
			if !isFinite(t.value) {
				nf.Terms = append(nf.Terms, t.name)
			}
		}
		e.log.Errorw("momentum residual is not finite",
			"stage", h, "discharge", q,
			"term1", term1, "term2", term2, "term3", term3,
			"yPartial", yPartial, "frictionSlope", frictionSlope,
			"celerity", c)
		return math.NaN(), nf
	}
	return f, nil
}

// DischargeFuncs returns the residual as a closure over the trial discharge.
// There is no analytic derivative in this formulation; the nil derivative
// selects the solver's secant fallback.
func (e *CelerityEngine) DischargeFuncs(h, hPrime, qPrime float64) (f, df solver.Func, err error) {
	f = func(q float64) (float64, error) { return e.ZeroFunc(h, hPrime, q, qPrime) }
	return f, nil, nil
}

// StageFuncs returns the residual as a closure over the trial stage, for the
// stage-from-discharge direction. The dependence on stage is implicit
// through the table lookups, so only a secant derivative is available.
func (e *CelerityEngine) StageFuncs(q, qPrime, hPrime float64) (f, df solver.Func, err error) {
	f = func(h float64) (float64, error) { return e.ZeroFunc(h, hPrime, q, qPrime) }
	return f, nil, nil
}
