package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gaugeworks/dynrat/config"
	"github.com/gaugeworks/dynrat/fread"
	"github.com/gaugeworks/dynrat/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimal = `
gauge: St. Louis
bed_slope: 0.00011
slope_ratio: 5.5
time_step: 900
seed: 129000
section_csv: xs.csv
series_csv: stage.csv
output_csv: q.csv
`

// TestLoad_Defaults parses a minimal configuration and checks the
// normalized defaults.
func TestLoad_Defaults(t *testing.T) {
	r, err := config.Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "discharge", r.Direction)
	assert.Equal(t, "celerity", r.Formulation)
	assert.Equal(t, fread.CelerityDKDA, r.Celerity())
	assert.Equal(t, sequence.HaltOnFailure, r.Policy())
	assert.False(t, r.Extrapolate)

	p := r.Params()
	assert.Equal(t, 0.00011, p.BedSlope)
	assert.Equal(t, 5.5, p.SlopeRatio)
	assert.Equal(t, 900.0, p.TimeStep)
}

// TestLoad_FullRun parses every optional field.
func TestLoad_FullRun(t *testing.T) {
	r, err := config.Load(writeConfig(t, minimal+`
direction: stage
celerity_method: dqda
failure_policy: continue
extrapolate: true
reference_csv: rated.csv
measurements_rdb: meas.rdb
hydrograph_png: hyd.png
loop_png: loop.png
debug: true
`))
	require.NoError(t, err)

	assert.Equal(t, "stage", r.Direction)
	assert.Equal(t, fread.CelerityDQDA, r.Celerity())
	assert.Equal(t, sequence.ContinueOnFailure, r.Policy())
	assert.True(t, r.Extrapolate)
	assert.Equal(t, "rated.csv", r.ReferenceCSV)
	assert.Equal(t, "meas.rdb", r.MeasurementsRDB)
	assert.True(t, r.Debug)
}

// TestLoad_Rejections covers the validation failure modes.
func TestLoad_Rejections(t *testing.T) {
	cases := map[string]string{
		"unknown key":          minimal + "no_such_key: 1\n",
		"bad direction":        minimal + "direction: sideways\n",
		"bad formulation":      minimal + "formulation: kinematic\n",
		"stage + coefficient":  minimal + "direction: stage\nformulation: coefficient\n",
		"bad celerity":         minimal + "celerity_method: warp\n",
		"bad policy":           minimal + "failure_policy: retry\n",
		"non-positive slope":   "bed_slope: 0\nslope_ratio: 5\ntime_step: 900\nsection_csv: a\nseries_csv: b\noutput_csv: c\n",
		"missing section path": "bed_slope: 0.001\nslope_ratio: 5\ntime_step: 900\nseries_csv: b\noutput_csv: c\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			assert.ErrorIs(t, err, config.ErrBadConfig)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, config.ErrBadConfig)
}
