package plots_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gaugeworks/dynrat/plots"
	"github.com/gaugeworks/dynrat/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(t *testing.T, n int, amp, offset float64) *timeseries.Series {
	t.Helper()
	epoch := time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	values := make([]float64, n)
	for i := range times {
		times[i] = epoch.Add(time.Duration(i) * time.Hour)
		values[i] = offset + amp*math.Sin(float64(i)/float64(n)*2*math.Pi)
	}
	s, err := timeseries.New(times, values)
	require.NoError(t, err)
	return s
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

// TestHydrograph renders computed and reference traces to a file.
func TestHydrograph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyd.png")
	computed := sine(t, 48, 100000, 250000)
	reference := sine(t, 48, 98000, 251000)

	require.NoError(t, plots.Hydrograph(path, "St. Louis", "discharge (cfs)", computed, reference))
	assertPNG(t, path)

	// Reference is optional.
	solo := filepath.Join(t.TempDir(), "solo.png")
	require.NoError(t, plots.Hydrograph(solo, "St. Louis", "discharge (cfs)", computed, nil))
	assertPNG(t, solo)
}

// TestLoopRating pairs stage and discharge by timestamp and overlays
// field measurements when supplied.
func TestLoopRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.png")
	stage := sine(t, 48, 10, 15)
	discharge := sine(t, 48, 100000, 250000)

	require.NoError(t, plots.LoopRating(path, "loop rating", stage, discharge, nil))
	assertPNG(t, path)

	meas := &timeseries.Measurements{
		Stage:     sine(t, 5, 8, 15),
		Discharge: sine(t, 5, 90000, 240000),
		Numbers:   []string{"1", "2", "3", "4", "5"},
	}
	withMeas := filepath.Join(t.TempDir(), "loop_meas.png")
	require.NoError(t, plots.LoopRating(withMeas, "loop rating", stage, discharge, meas))
	assertPNG(t, withMeas)
}

// TestRelativeError renders an error trace.
func TestRelativeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relerr.png")
	require.NoError(t, plots.RelativeError(path, "relative error", sine(t, 48, 3, 0)))
	assertPNG(t, path)
}

// TestNoPoints rejects all-missing input instead of writing an empty plot.
func TestNoPoints(t *testing.T) {
	epoch := time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)
	blank, err := timeseries.New(
		[]time.Time{epoch, epoch.Add(time.Hour)},
		[]float64{math.NaN(), math.NaN()})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "blank.png")
	err = plots.Hydrograph(path, "blank", "y", blank, nil)
	assert.ErrorIs(t, err, plots.ErrNoPoints)
	assert.NoFileExists(t, path)
}
