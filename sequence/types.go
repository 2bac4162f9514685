package sequence

import (
	"errors"
	"fmt"
	"time"

	"github.com/gaugeworks/dynrat/solver"
	"go.uber.org/zap"
)

var (
	// ErrShortSeries indicates fewer than two driving observations; the
	// first observation only seeds the march and produces no output.
	ErrShortSeries = errors.New("sequence: driving series needs at least two observations")

	// ErrLengthMismatch indicates timestamp and value slices of unequal length.
	ErrLengthMismatch = errors.New("sequence: times and values must have equal length")

	// ErrNilEngine indicates a nil zero-function engine.
	ErrNilEngine = errors.New("sequence: engine must be non-nil")
)

// RunState is the lifecycle state of a sequencing run.
type RunState int

const (
	// Ready — constructed, not yet stepped.
	Ready RunState = iota
	// Stepping — the march is in progress.
	Stepping
	// Completed — every index was attempted (all solved, or flagged
	// individually under ContinueOnFailure).
	Completed
	// Halted — a failure stopped the march; later indices are sentinel.
	Halted
)

func (s RunState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Stepping:
		return "stepping"
	case Completed:
		return "completed"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// FailurePolicy fixes what happens to the steps after a failed solve.
type FailurePolicy int

const (
	// HaltOnFailure sentinels every index after the first failure.
	HaltOnFailure FailurePolicy = iota
	// ContinueOnFailure keeps stepping, warm-starting from the last valid
	// output and flagging each failed index independently.
	ContinueOnFailure
)

func (p FailurePolicy) String() string {
	switch p {
	case HaltOnFailure:
		return "halt"
	case ContinueOnFailure:
		return "continue"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// StepResult is one computed value aligned to one driving timestamp. A
// failed step carries a NaN value with Converged == false.
type StepResult struct {
	Time       time.Time
	Value      float64
	Iterations int
	Converged  bool
}

// Run is the outcome of one sequencing run: an ordered sequence of
// StepResults aligned one-for-one with the driving series minus its seed
// point.
type Run struct {
	// State is Completed or Halted once the march returns.
	State RunState

	// Steps holds one result per driving observation after the first.
	Steps []StepResult

	// FirstFailure is the index into Steps of the first failed solve, or
	// -1 when every step converged.
	FirstFailure int

	// Solved counts the converged steps.
	Solved int

	// Err is the cause of the first failure, nil when FirstFailure == -1.
	Err error
}

// FirstFailureTime returns the driving timestamp of the first failed step.
func (r *Run) FirstFailureTime() (time.Time, bool) {
	if r.FirstFailure < 0 {
		return time.Time{}, false
	}
	return r.Steps[r.FirstFailure].Time, true
}

// Values returns the computed values in driving order, NaN sentinels
// included.
func (r *Run) Values() []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Value
	}
	return out
}

// Times returns the timestamps aligned with Values.
func (r *Run) Times() []time.Time {
	out := make([]time.Time, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Time
	}
	return out
}

// Options configures a sequencer.
type Options struct {
	// Policy fixes the failure transition. Default HaltOnFailure.
	Policy FailurePolicy

	// Solver bounds each per-step Newton solve. A zero value takes the
	// direction's default (1.0 cfs or 0.1 ft, 50 iterations).
	Solver solver.Options

	// StepHook, when non-nil, is invoked after every step (converged or
	// sentinel) with its index into the run. Drives progress reporting.
	StepHook func(index int, step StepResult)

	// Logger receives failure diagnostics. Defaults to a no-op logger.
	Logger *zap.SugaredLogger
}

// DischargeEngine supplies the per-step zero function for the
// discharge-from-stage direction. Both fread engines satisfy it.
type DischargeEngine interface {
	DischargeFuncs(h, hPrime, qPrime float64) (f, df solver.Func, err error)
}

// StageEngine supplies the per-step zero function for the
// stage-from-discharge direction (the celerity formulation).
type StageEngine interface {
	StageFuncs(q, qPrime, hPrime float64) (f, df solver.Func, err error)
}
