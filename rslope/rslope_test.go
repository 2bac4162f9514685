package rslope_test

import (
	"testing"

	"github.com/gaugeworks/dynrat/rslope"
	"github.com/gaugeworks/dynrat/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideTable(t *testing.T) *section.Table {
	t.Helper()
	// Wide channel: area grows 2000 ft² per foot of stage.
	tbl, err := section.NewTable(section.Properties{
		Stage:     []float64{0, 30},
		Area:      []float64{0, 60000},
		TopWidth:  []float64{2000, 2000},
		Roughness: []float64{0.035, 0.035},
	})
	require.NoError(t, err)
	return tbl
}

// TestSlopeRatio checks eq. 13 against a hand computation on the typical
// flood of a large river gauge.
func TestSlopeRatio(t *testing.T) {
	tbl := wideTable(t)

	h0, hp := 4.68, 24.18
	q0, qp := 129000.0, 396000.0
	bedSlope := 0.00011
	tDiff := 7.58 // days of rise to peak

	r, err := rslope.SlopeRatio(h0, hp, q0, qp, bedSlope, tbl, tDiff)
	require.NoError(t, err)

	aMean := 2000 * (h0 + hp) / 2
	want := 56200 * (qp + q0) / ((hp - h0) * aMean) * tDiff * bedSlope
	assert.InDelta(t, want, r, 1e-9)
	assert.Greater(t, r, 1.0, "large slow rivers have wave slopes well below bed slope")
}

// TestSlopeRatio_Validation rejects non-rising floods and bad parameters.
func TestSlopeRatio_Validation(t *testing.T) {
	tbl := wideTable(t)

	_, err := rslope.SlopeRatio(24.18, 4.68, 1, 2, 0.001, tbl, 7)
	assert.ErrorIs(t, err, rslope.ErrBadFlood)

	_, err = rslope.SlopeRatio(1, 2, 1, 2, 0, tbl, 7)
	assert.ErrorIs(t, err, rslope.ErrBadFlood)

	_, err = rslope.SlopeRatio(1, 2, 1, 2, 0.001, tbl, 0)
	assert.ErrorIs(t, err, rslope.ErrBadFlood)

	// Mean stage outside the table domain propagates the table error.
	_, err = rslope.SlopeRatio(25, 40, 1, 2, 0.001, tbl, 7)
	assert.ErrorIs(t, err, section.ErrOutOfDomain)
}
