package sequence

import (
	"math"
	"time"

	"github.com/gaugeworks/dynrat/solver"
	"go.uber.org/zap"
)

// DischargeSequencer solves a discharge series from a measured stage series.
type DischargeSequencer struct {
	eng  DischargeEngine
	opts Options
}

// NewDischargeSequencer wires an engine to the discharge-from-stage march.
func NewDischargeSequencer(eng DischargeEngine, opts Options) (*DischargeSequencer, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}
	return &DischargeSequencer{eng: eng, opts: normalize(opts, solver.TolDischarge)}, nil
}

// Run marches over the stage series, solving one discharge per observation
// after the first. q0 seeds both the warm start and the prior discharge of
// the first solve. The returned error covers input-contract violations
// only; per-step failures are reported in the Run.
func (s *DischargeSequencer) Run(times []time.Time, stage []float64, q0 float64) (*Run, error) {
	step := func(cur, prev, prior float64) (solver.Func, solver.Func, error) {
		return s.eng.DischargeFuncs(cur, prev, prior)
	}
	return march(times, stage, q0, step, s.opts)
}

// StageSequencer solves a stage series from a discharge series — the dual
// direction, used for round-trip verification and for gauges where
// discharge is the measured variable.
type StageSequencer struct {
	eng  StageEngine
	opts Options
}

// NewStageSequencer wires an engine to the stage-from-discharge march.
func NewStageSequencer(eng StageEngine, opts Options) (*StageSequencer, error) {
	if eng == nil {
		return nil, ErrNilEngine
	}
	return &StageSequencer{eng: eng, opts: normalize(opts, solver.TolStage)}, nil
}

// Run marches over the discharge series, solving one stage per observation
// after the first. h0 seeds both the warm start and the prior stage of the
// first solve.
func (s *StageSequencer) Run(times []time.Time, discharge []float64, h0 float64) (*Run, error) {
	step := func(cur, prev, prior float64) (solver.Func, solver.Func, error) {
		return s.eng.StageFuncs(cur, prev, prior)
	}
	return march(times, discharge, h0, step, s.opts)
}

func normalize(opts Options, tol float64) Options {
	if opts.Solver.Tol <= 0 {
		opts.Solver.Tol = tol
	}
	if opts.Solver.MaxIter <= 0 {
		opts.Solver.MaxIter = 50
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return opts
}

// march is the sequential state machine shared by both directions. step
// builds the zero function for (current driving value, previous driving
// value, prior solved output).
func march(times []time.Time, driving []float64, seed float64,
	step func(cur, prev, prior float64) (solver.Func, solver.Func, error),
	opts Options) (*Run, error) {

	if len(times) != len(driving) {
		return nil, ErrLengthMismatch
	}
	if len(driving) < 2 {
		return nil, ErrShortSeries
	}

	run := &Run{
		State:        Stepping,
		Steps:        make([]StepResult, len(driving)-1),
		FirstFailure: -1,
	}

	warm := seed  // initial guess for the next solve
	prior := seed // prior-state output fed to the zero function
	halted := false

	for i := 1; i < len(driving); i++ {
		idx := i - 1
		run.Steps[idx] = StepResult{Time: times[i], Value: math.NaN()}

		if halted {
			if opts.StepHook != nil {
				opts.StepHook(idx, run.Steps[idx])
			}
			continue
		}

		f, df, err := step(driving[i], driving[i-1], prior)
		var res solver.Result
		if err == nil {
			res, err = solver.Newton(f, df, warm, opts.Solver)
		}

		switch {
		case err == nil && res.Converged && !math.IsNaN(res.Root):
			run.Steps[idx] = StepResult{
				Time:       times[i],
				Value:      res.Root,
				Iterations: res.Iterations,
				Converged:  true,
			}
			run.Solved++
			warm, prior = res.Root, res.Root

		default:
			if err == nil {
				err = solver.ErrNotConverged
			}
			run.Steps[idx].Iterations = res.Iterations
			if run.FirstFailure < 0 {
				run.FirstFailure = idx
				run.Err = err
				opts.Logger.Errorw("step failed",
					"index", idx, "time", times[i], "driving", driving[i], "error", err)
			}
			if opts.Policy == HaltOnFailure {
				halted = true
			}
			// ContinueOnFailure: warm and prior stay at the last valid
			// output; the driving pair still advances.
		}

		if opts.StepHook != nil {
			opts.StepHook(idx, run.Steps[idx])
		}
	}

	if halted {
		run.State = Halted
	} else {
		run.State = Completed
	}
	return run, nil
}
