// Package sequence drives a loop-rating engine across an ordered time
// series, chaining one root solve per step.
//
// Each step's converged output becomes the next step's warm start and
// prior-state input, so a run is inherently serial: step i cannot begin
// before step i−1 resolves. Independent runs (other gauges, other windows)
// may execute concurrently since engines and tables are immutable and the
// sequencer keeps no state between Run calls.
//
// A run is a small state machine: Ready → Stepping → Completed | Halted.
// When a step fails (non-finite residual, exhausted iteration budget) its
// output is a NaN sentinel and the failure policy decides what follows:
//
//   - HaltOnFailure (default) — every later index is also sentinel; once the
//     warm-start chain is broken, propagating forward compounds error.
//   - ContinueOnFailure — later steps are attempted, warm-started from the
//     last valid output, and flagged individually.
//
// Either way the Run reports the index and timestamp of first failure and
// how many steps solved; a failing run never aborts the batch silently.
package sequence
