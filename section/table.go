package section

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// manningConst is the US-customary conversion constant in Manning's equation.
const manningConst = 1.486

// Table is an immutable stage-indexed lookup of cross section properties.
// All query methods interpolate linearly between tabulated stages.
type Table struct {
	stage []float64

	area      curve
	topWidth  curve
	roughness curve

	// optional properties; zero-valued curve when absent
	wettedPerim   curve
	conveyance    curve
	velDistFactor curve

	extrapolate bool
}

// curve is one stage-indexed property backed by a gonum piecewise-linear
// interpolant. xs/ys are retained for end-segment extrapolation.
type curve struct {
	pl interp.PiecewiseLinear
	xs []float64
	ys []float64
}

func (c *curve) ok() bool { return len(c.xs) > 0 }

func newCurve(stage, values []float64) (curve, error) {
	var c curve
	if err := c.pl.Fit(stage, values); err != nil {
		return curve{}, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	c.xs = stage
	c.ys = values
	return c, nil
}

// NewTable validates p, builds one interpolant per property, and returns an
// immutable Table. Stage must be strictly ascending with at least two points;
// every provided companion sequence must match stage's length. Stage, Area,
// TopWidth and Roughness are required.
func NewTable(p Properties, opts ...Option) (*Table, error) {
	n := len(p.Stage)
	if n < 2 {
		return nil, fmt.Errorf("%w: stage needs at least two points, got %d", ErrInvalidTable, n)
	}
	for i := 1; i < n; i++ {
		if !(p.Stage[i] > p.Stage[i-1]) {
			return nil, fmt.Errorf("%w: stage not strictly ascending at index %d", ErrInvalidTable, i)
		}
	}
	if err := checkLen("area", p.Area, n, true); err != nil {
		return nil, err
	}
	if err := checkLen("top width", p.TopWidth, n, true); err != nil {
		return nil, err
	}
	if err := checkLen("roughness", p.Roughness, n, true); err != nil {
		return nil, err
	}
	if err := checkLen("wetted perimeter", p.WettedPerimeter, n, false); err != nil {
		return nil, err
	}
	if err := checkLen("conveyance", p.Conveyance, n, false); err != nil {
		return nil, err
	}
	if err := checkLen("velocity-distribution factor", p.VelDistFactor, n, false); err != nil {
		return nil, err
	}

	t := &Table{stage: clone(p.Stage)}
	for _, o := range opts {
		o(t)
	}

	var err error
	if t.area, err = newCurve(t.stage, clone(p.Area)); err != nil {
		return nil, err
	}
	if t.topWidth, err = newCurve(t.stage, clone(p.TopWidth)); err != nil {
		return nil, err
	}
	if t.roughness, err = newCurve(t.stage, clone(p.Roughness)); err != nil {
		return nil, err
	}
	if p.WettedPerimeter != nil {
		if t.wettedPerim, err = newCurve(t.stage, clone(p.WettedPerimeter)); err != nil {
			return nil, err
		}
	}

	switch {
	case p.Conveyance != nil:
		if t.conveyance, err = newCurve(t.stage, clone(p.Conveyance)); err != nil {
			return nil, err
		}
	case p.WettedPerimeter != nil:
		// Derive conveyance from Manning's equation at each tabulated stage.
		k := make([]float64, n)
		for i := range k {
			r := p.Area[i] / p.WettedPerimeter[i]
			k[i] = manningConst / p.Roughness[i] * p.Area[i] * math.Pow(r, 2.0/3.0)
		}
		if t.conveyance, err = newCurve(t.stage, k); err != nil {
			return nil, err
		}
	}

	beta := p.VelDistFactor
	if beta == nil {
		beta = make([]float64, n)
		for i := range beta {
			beta[i] = 1.0
		}
	} else {
		beta = clone(beta)
	}
	if t.velDistFactor, err = newCurve(t.stage, beta); err != nil {
		return nil, err
	}

	return t, nil
}

// FromGeometry builds a Table from a geometry source. The provider is
// queried once; the resulting Table holds no reference to it.
func FromGeometry(g GeometryProvider, opts ...Option) (*Table, error) {
	p, err := g.HydraulicProperties()
	if err != nil {
		return nil, fmt.Errorf("section: geometry provider: %w", err)
	}
	return NewTable(p, opts...)
}

func checkLen(name string, s []float64, n int, required bool) error {
	if s == nil {
		if required {
			return fmt.Errorf("%w: %s is required", ErrInvalidTable, name)
		}
		return nil
	}
	if len(s) != n {
		return fmt.Errorf("%w: %s has %d points, stage has %d", ErrInvalidTable, name, len(s), n)
	}
	return nil
}

func clone(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

// MinStage returns the lowest tabulated stage.
func (t *Table) MinStage() float64 { return t.stage[0] }

// MaxStage returns the highest tabulated stage.
func (t *Table) MaxStage() float64 { return t.stage[len(t.stage)-1] }

// Extrapolates reports whether out-of-range queries extend the end segments
// instead of failing with ErrOutOfDomain.
func (t *Table) Extrapolates() bool { return t.extrapolate }

// HasWettedPerimeter reports whether the table carries a wetted perimeter
// sequence. Conveyance is present whenever wetted perimeter is (derived via
// Manning's equation when the geometry source omitted it).
func (t *Table) HasWettedPerimeter() bool { return t.wettedPerim.ok() }

// HasConveyance reports whether conveyance queries are supported.
func (t *Table) HasConveyance() bool { return t.conveyance.ok() }

// Area returns the cross section area at stage, in square feet.
func (t *Table) Area(stage float64) (float64, error) {
	return t.eval(&t.area, stage)
}

// TopWidth returns the water-surface width at stage, in feet.
func (t *Table) TopWidth(stage float64) (float64, error) {
	return t.eval(&t.topWidth, stage)
}

// WettedPerimeter returns the wetted perimeter at stage, in feet.
func (t *Table) WettedPerimeter(stage float64) (float64, error) {
	if !t.wettedPerim.ok() {
		return math.NaN(), fmt.Errorf("%w: wetted perimeter", ErrMissingProperty)
	}
	return t.eval(&t.wettedPerim, stage)
}

// Conveyance returns the section conveyance at stage, in cfs.
func (t *Table) Conveyance(stage float64) (float64, error) {
	if !t.conveyance.ok() {
		return math.NaN(), fmt.Errorf("%w: conveyance", ErrMissingProperty)
	}
	return t.eval(&t.conveyance, stage)
}

// Roughness returns Manning's n at stage.
func (t *Table) Roughness(stage float64) (float64, error) {
	return t.eval(&t.roughness, stage)
}

// VelDistFactor returns the velocity-distribution factor (beta) at stage.
func (t *Table) VelDistFactor(stage float64) (float64, error) {
	return t.eval(&t.velDistFactor, stage)
}

func (t *Table) eval(c *curve, stage float64) (float64, error) {
	lo, hi := t.MinStage(), t.MaxStage()
	if stage >= lo && stage <= hi {
		return c.pl.Predict(stage), nil
	}
	if !t.extrapolate {
		return math.NaN(), fmt.Errorf("%w: stage %g outside [%g, %g]", ErrOutOfDomain, stage, lo, hi)
	}
	// Extend the end segment. Predict alone would clamp to the end value.
	n := len(c.xs)
	if stage < lo {
		slope := (c.ys[1] - c.ys[0]) / (c.xs[1] - c.xs[0])
		return c.ys[0] + slope*(stage-c.xs[0]), nil
	}
	slope := (c.ys[n-1] - c.ys[n-2]) / (c.xs[n-1] - c.xs[n-2])
	return c.ys[n-1] + slope*(stage-c.xs[n-1]), nil
}
