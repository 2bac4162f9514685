package fread

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Gravity is the gravitational acceleration, in ft/s².
const Gravity = 32.2

var (
	// ErrBadParams indicates channel parameters that violate their
	// positivity constraints.
	ErrBadParams = errors.New("fread: invalid channel parameters")

	// ErrNonFiniteResidual indicates the zero function produced a NaN or
	// infinite value; the current step is unrecoverable.
	ErrNonFiniteResidual = errors.New("fread: zero function produced a non-finite value")

	// ErrUnknownCelerityMethod indicates a celerity selector outside the
	// enumerated set.
	ErrUnknownCelerityMethod = errors.New("fread: unknown celerity method")

	// ErrNilSection indicates a nil hydraulic property table.
	ErrNilSection = errors.New("fread: section table must be non-nil")

	// ErrMissingConveyance indicates the celerity engine was given a table
	// without conveyance/wetted-perimeter sequences.
	ErrMissingConveyance = errors.New("fread: celerity engine requires conveyance and wetted perimeter")
)

// CelerityMethod selects how the celerity engine computes the kinematic
// flood-wave celerity c.
type CelerityMethod int

const (
	// CelerityDKDA differences conveyance against area over a small
	// symmetric stage perturbation: c = √S₀·ΔK/ΔA. The default.
	CelerityDKDA CelerityMethod = iota

	// CelerityConstK uses the fixed Fread coefficient: c = 1.7·Q/A.
	CelerityConstK

	// CelerityK recomputes the kinematic factor each step: c = K·Q/A.
	CelerityK

	// CelerityDQDA differences discharge against area between the current
	// and previous step: c = ΔQ/ΔA, with underflow floors on both deltas.
	CelerityDQDA
)

// String returns the configuration-file spelling of the method.
func (m CelerityMethod) String() string {
	switch m {
	case CelerityDKDA:
		return "dkda"
	case CelerityConstK:
		return "const-k"
	case CelerityK:
		return "k"
	case CelerityDQDA:
		return "dqda"
	default:
		return fmt.Sprintf("CelerityMethod(%d)", int(m))
	}
}

// ParseCelerityMethod maps a configuration string onto a CelerityMethod.
func ParseCelerityMethod(s string) (CelerityMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dkda", "":
		return CelerityDKDA, nil
	case "const-k", "const k", "constk":
		return CelerityConstK, nil
	case "k":
		return CelerityK, nil
	case "dqda":
		return CelerityDQDA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCelerityMethod, s)
	}
}

// ChannelParams holds the fixed channel quantities shared by both engines.
type ChannelParams struct {
	// BedSlope is the channel bed slope S₀ (dimensionless, > 0).
	BedSlope float64

	// SlopeRatio is the ratio of bed slope to average wave slope (> 0).
	// See the rslope package for its estimation from a typical flood.
	SlopeRatio float64

	// TimeStep is the series time step, in seconds (> 0).
	TimeStep float64
}

// Validate reports ErrBadParams unless every field is positive.
func (p ChannelParams) Validate() error {
	if !(p.BedSlope > 0) {
		return fmt.Errorf("%w: bed slope %g must be positive", ErrBadParams, p.BedSlope)
	}
	if !(p.SlopeRatio > 0) {
		return fmt.Errorf("%w: slope ratio %g must be positive", ErrBadParams, p.SlopeRatio)
	}
	if !(p.TimeStep > 0) {
		return fmt.Errorf("%w: time step %g must be positive", ErrBadParams, p.TimeStep)
	}
	return nil
}

// NonFiniteError reports a non-finite zero-function evaluation along with
// the names of the intermediate terms that went non-finite, preserving the
// per-term diagnostic granularity of the momentum-balance residual.
type NonFiniteError struct {
	// Terms names the non-finite intermediates (term1, term2, term3,
	// yPartial, frictionSlope), in evaluation order.
	Terms []string
	// Stage and Discharge are the trial state that produced the failure.
	Stage     float64
	Discharge float64
}

func (e *NonFiniteError) Error() string {
	if len(e.Terms) == 0 {
		return fmt.Sprintf("%v (h=%g, q=%g)", ErrNonFiniteResidual, e.Stage, e.Discharge)
	}
	return fmt.Sprintf("%v (h=%g, q=%g): non-finite terms: %s",
		ErrNonFiniteResidual, e.Stage, e.Discharge, strings.Join(e.Terms, ", "))
}

// Unwrap lets errors.Is match ErrNonFiniteResidual.
func (e *NonFiniteError) Unwrap() error { return ErrNonFiniteResidual }

// Option adjusts engine construction.
type Option func(*settings)

type settings struct {
	log *zap.SugaredLogger
}

// WithLogger attaches a structured logger for convergence and diagnostic
// messages. Engines default to a no-op logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *settings) { s.log = log }
}

func newSettings(opts []Option) settings {
	s := settings{log: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(&s)
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	return s
}
