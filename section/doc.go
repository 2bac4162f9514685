// Package section provides stage-indexed hydraulic properties of a single
// channel cross section.
//
// A Table owns parallel, stage-sorted sequences of cross section properties
// (area, top width, wetted perimeter, conveyance, Manning roughness and the
// velocity-distribution factor) and answers point queries by piecewise-linear
// interpolation. Tables are built once from a geometry source and are
// immutable afterwards, so a single Table may be shared by any number of
// concurrent solver runs.
//
// Out-of-range queries are a policy choice, made explicit at construction:
//
//   - default      — any stage outside [MinStage, MaxStage] returns ErrOutOfDomain.
//   - WithExtrapolation() — stages beyond the table ends are extended linearly
//     along the first/last segment slope. Never a silent clamp.
//
// Complexity: construction O(n) per property; each query O(log n).
package section
