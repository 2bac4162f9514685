// Package dynrat computes continuous discharge records for river gauges
// whose stage–discharge relation forms a loop during unsteady flow,
// using the dynamic rating method of Fread (1973).
//
// 🚀 What is dynrat?
//
//	A library (and companion command) that solves, at every time step of
//	a stage record, a one-dimensional nonlinear equation derived from the
//	momentum equation — producing the discharge hydrograph a fixed rating
//	curve cannot:
//		• section/    — stage-indexed cross section property tables
//		• fread/      — the two zero-function formulations and their
//		                kinematic celerity variants
//		• solver/     — Newton–Raphson with a secant fallback, tuned to
//		                physical tolerances
//		• sequence/   — warm-started marching over a time series with
//		                explicit failure policies
//		• timeseries/ — Aquarius CSV and NWIS RDB ingestion, regridding,
//		                and goodness-of-fit statistics
//		• rslope/     — the bed-to-wave slope ratio of a typical flood
//		• plots/      — hydrograph, loop-rating, and error figures
//
// ✨ Why dynrat?
//
//   - Direction-agnostic — discharge from stage, or stage from discharge
//   - Honest failure handling — halted runs tell you where and why
//   - Pure Go numerics on gonum, no external solver dependencies
//
// The cmd/dynrat command wires the packages together behind a YAML run
// configuration; see config for the schema.
package dynrat
