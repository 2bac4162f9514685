package fread

import (
	"fmt"
	"math"

	"github.com/gaugeworks/dynrat/section"
	"github.com/gaugeworks/dynrat/solver"
	"go.uber.org/zap"
)

// CoefficientEngine evaluates the DYNMOD coefficient expansion of the
// loop-rating zero function (eq. 15 of Fread 1973):
//
//	f(Q) = Q − L2·√(L3 + L4/Q + L5·Q + L6·Q²)
//
// The five coefficients depend only on the driving stage pair and the
// previous discharge, so they are computed once per time step and shared by
// every Newton iteration. The engine solves for discharge given stage; the
// stage-unknown direction uses CelerityEngine, where the dependence on the
// unknown is implicit through the table lookups.
type CoefficientEngine struct {
	sect   *section.Table
	params ChannelParams
	log    *zap.SugaredLogger
}

// NewCoefficientEngine validates params and returns an immutable engine
// backed by sect.
func NewCoefficientEngine(sect *section.Table, params ChannelParams, opts ...Option) (*CoefficientEngine, error) {
	if sect == nil {
		return nil, ErrNilSection
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := newSettings(opts)
	return &CoefficientEngine{sect: sect, params: params, log: s.log}, nil
}

// coefficients carries the per-step constants of the expansion.
type coefficients struct {
	l2, l3, l4, l5, l6 float64
}

// radicand L0 and its q-derivative L1.
func (c coefficients) l0(q float64) float64 { return c.l3 + c.l4/q + c.l5*q + c.l6*q*q }
func (c coefficients) l1(q float64) float64 { return -c.l4/(q*q) + c.l5 + 2*c.l6*q }

// KinematicFactor computes the dimensionless correction factor
// K = 5/3 − (2/3)·(A/B²)·dB/dh using a backward difference of top width
// between the current and previous stage. When the stages coincide the
// difference quotient is undefined and K takes its no-change limit 5/3.
func (e *CoefficientEngine) KinematicFactor(h, hPrime float64) (float64, error) {
	dh := h - hPrime
	if dh == 0 {
		return 5.0 / 3.0, nil
	}
	b, err := e.sect.TopWidth(h)
	if err != nil {
		return math.NaN(), err
	}
	bPrime, err := e.sect.TopWidth(hPrime)
	if err != nil {
		return math.NaN(), err
	}
	a, err := e.sect.Area(h)
	if err != nil {
		return math.NaN(), err
	}
	dBdh := (b - bPrime) / dh
	return 5.0/3.0 - 2.0/3.0*(a/(b*b))*dBdh, nil
}

// coefficients evaluates L2–L6 for one time step.
func (e *CoefficientEngine) coefficients(h, hPrime, qPrime float64) (coefficients, error) {
	var c coefficients

	a, err := e.sect.Area(h)
	if err != nil {
		return c, err
	}
	b, err := e.sect.TopWidth(h)
	if err != nil {
		return c, err
	}
	n, err := e.sect.Roughness(h)
	if err != nil {
		return c, err
	}
	aPrime, err := e.sect.Area(hPrime)
	if err != nil {
		return c, err
	}
	k, err := e.KinematicFactor(h, hPrime)
	if err != nil {
		return c, err
	}

	s0 := e.params.BedSlope
	r2 := e.params.SlopeRatio * e.params.SlopeRatio
	dt := e.params.TimeStep
	dhdt := (h - hPrime) / dt

	c.l2 = 1.486 * a * math.Pow(a/b, 2.0/3.0) / n
	c.l3 = s0 + 2.0/3.0*s0/r2 + qPrime/(Gravity*aPrime*dt)
	c.l4 = a * dhdt / k
	c.l5 = (1-1/k)*b*dhdt/(Gravity*a*a) - 1/(Gravity*a*dt)
	c.l6 = -2.0 / 3.0 * (s0 * b) / (r2 * Gravity * a * a * a)

	return c, nil
}

// ZeroFunc evaluates the residual for a full trial state: current stage and
// discharge against the previous step's pair. Intended for diagnostics and
// cross-checking a converged root; the iterative path goes through
// DischargeFuncs so the coefficients are not recomputed per iteration.
func (e *CoefficientEngine) ZeroFunc(h, hPrime, q, qPrime float64) (float64, error) {
	c, err := e.coefficients(h, hPrime, qPrime)
	if err != nil {
		return math.NaN(), err
	}
	return e.residual(c, h, q)
}

func (e *CoefficientEngine) residual(c coefficients, h, q float64) (float64, error) {
	f := q - c.l2*math.Sqrt(c.l0(q))
	if !isFinite(f) {
		e.log.Errorw("coefficient residual is not finite",
			"stage", h, "discharge", q, "radicand", c.l0(q))
		return math.NaN(), &NonFiniteError{Stage: h, Discharge: q}
	}
	return f, nil
}

func (e *CoefficientEngine) derivative(c coefficients, h, q float64) (float64, error) {
	d := 1 - 0.5*c.l2*c.l1(q)/math.Sqrt(c.l0(q))
	if !isFinite(d) {
		e.log.Errorw("coefficient residual derivative is not finite",
			"stage", h, "discharge", q, "radicand", c.l0(q))
		return math.NaN(), &NonFiniteError{Stage: h, Discharge: q}
	}
	return d, nil
}

// DischargeFuncs precomputes the step coefficients and returns the residual
// and its analytic derivative as closures over the trial discharge, ready
// for solver.Newton.
func (e *CoefficientEngine) DischargeFuncs(h, hPrime, qPrime float64) (f, df solver.Func, err error) {
	c, err := e.coefficients(h, hPrime, qPrime)
	if err != nil {
		return nil, nil, fmt.Errorf("fread: coefficient setup at stage %g: %w", h, err)
	}
	f = func(q float64) (float64, error) { return e.residual(c, h, q) }
	df = func(q float64) (float64, error) { return e.derivative(c, h, q) }
	return f, df, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
