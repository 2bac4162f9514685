// Package rslope estimates the ratio of channel bed slope to the average
// slope of a typical flood wave (eq. 13 of Fread 1973). The ratio is a
// fixed channel parameter of the loop-rating engines; it is computed once
// from a representative historical flood, not per time step.
package rslope

import (
	"errors"
	"fmt"
)

// waveConst folds the unit conversions of eq. 13 (days to seconds, wave
// length from travel time) into a single coefficient.
const waveConst = 56200.0

// ErrBadFlood indicates typical-flood inputs that violate the equation's
// assumptions (non-rising flood, non-positive slope or duration).
var ErrBadFlood = errors.New("rslope: invalid typical-flood description")

// AreaProvider supplies cross section area by stage; section.Table
// satisfies it.
type AreaProvider interface {
	Area(stage float64) (float64, error)
}

// SlopeRatio computes r = S₀/S_w for a typical flood rising from stage h0
// (discharge q0) to peak stage hp (discharge qp) over tDiff days, on a
// channel with bed slope s0. The mean area is evaluated at the mean of the
// two stages.
func SlopeRatio(h0, hp, q0, qp, s0 float64, sect AreaProvider, tDiff float64) (float64, error) {
	if hp <= h0 {
		return 0, fmt.Errorf("%w: peak stage %g must exceed starting stage %g", ErrBadFlood, hp, h0)
	}
	if s0 <= 0 || tDiff <= 0 {
		return 0, fmt.Errorf("%w: bed slope %g and rise duration %g must be positive", ErrBadFlood, s0, tDiff)
	}

	aMean, err := sect.Area((h0 + hp) / 2)
	if err != nil {
		return 0, err
	}

	r := waveConst * (qp + q0) / ((hp - h0) * aMean)
	return r * tDiff * s0, nil
}
