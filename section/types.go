package section

import "errors"

var (
	// ErrInvalidTable indicates malformed construction input: fewer than two
	// stage points, stage not strictly ascending, or a companion sequence
	// whose length disagrees with stage.
	ErrInvalidTable = errors.New("section: invalid property table")

	// ErrOutOfDomain indicates a query stage outside [MinStage, MaxStage]
	// on a table built without extrapolation.
	ErrOutOfDomain = errors.New("section: stage outside table domain")

	// ErrMissingProperty indicates a query for a property the table was not
	// built with (e.g. wetted perimeter on an area/top-width-only table).
	ErrMissingProperty = errors.New("section: property not available")
)

// Properties carries the parallel property sequences used to build a Table.
//
// Stage, Area, TopWidth and Roughness are required. WettedPerimeter is
// required only when the celerity-form zero function will query it.
// Conveyance may be omitted when WettedPerimeter and Roughness are present;
// it is then derived from Manning's equation at each tabulated stage.
// VelDistFactor defaults to 1.0 at every stage when omitted.
type Properties struct {
	Stage           []float64
	Area            []float64
	TopWidth        []float64
	Roughness       []float64
	WettedPerimeter []float64
	Conveyance      []float64
	VelDistFactor   []float64
}

// GeometryProvider supplies tabulated properties for a set of stage values.
// It is consumed exactly once, at table construction time; geometry
// construction from raw coordinate data lives outside this package.
type GeometryProvider interface {
	// HydraulicProperties returns the property sequences evaluated at the
	// provider's own stage discretization.
	HydraulicProperties() (Properties, error)
}

// Option configures a Table before construction.
type Option func(*Table)

// WithExtrapolation extends out-of-range queries linearly along the end
// segments of the table instead of returning ErrOutOfDomain.
func WithExtrapolation() Option {
	return func(t *Table) { t.extrapolate = true }
}
