package timeseries_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gaugeworks/dynrat/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestReadAquariusCSV parses a small export with one missing value.
func TestReadAquariusCSV(t *testing.T) {
	path := writeFile(t, "stage.csv",
		"DateTime,Value,Grade\n"+
			"2019-04-01 00:00:00,4.68,good\n"+
			"2019-04-01 01:00:00,,missing\n"+
			"2019-04-01 02:00:00,4.92,good\n")

	s, err := timeseries.ReadAquariusCSV(path)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	ts, v := s.At(0)
	assert.Equal(t, time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, 4.68, v)

	_, v = s.At(1)
	assert.True(t, math.IsNaN(v), "blank observation reads as missing")
	assert.Equal(t, 1, s.NullCount())
}

// TestReadAquariusCSV_Malformed covers the format failure modes.
func TestReadAquariusCSV_Malformed(t *testing.T) {
	noValue := writeFile(t, "novalue.csv", "DateTime,Stage\n2019-04-01,4.68\n")
	_, err := timeseries.ReadAquariusCSV(noValue)
	assert.ErrorIs(t, err, timeseries.ErrBadFormat)

	badTime := writeFile(t, "badtime.csv", "DateTime,Value\nnot-a-time,4.68\n")
	_, err = timeseries.ReadAquariusCSV(badTime)
	assert.ErrorIs(t, err, timeseries.ErrBadFormat)

	empty := writeFile(t, "empty.csv", "DateTime,Value\n")
	_, err = timeseries.ReadAquariusCSV(empty)
	assert.ErrorIs(t, err, timeseries.ErrBadFormat)
}

// TestWriteCSV_RoundTrip writes a series and reads it back.
func TestWriteCSV_RoundTrip(t *testing.T) {
	s := mustSeries(t, hourly(3), []float64{100, math.NaN(), 120})
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, s.WriteCSV(path, "Value"))

	back, err := timeseries.ReadAquariusCSV(path)
	require.NoError(t, err)
	require.Equal(t, 3, back.Len())
	assert.Equal(t, s.Times(), back.Times())
	assert.Equal(t, 100.0, back.Values()[0])
	assert.True(t, math.IsNaN(back.Values()[1]))
	assert.Equal(t, 120.0, back.Values()[2])
}

// TestReadNWISRDB parses comment lines, the format row, timezone
// conversion, and missing values.
func TestReadNWISRDB(t *testing.T) {
	rdb := "# U.S. Geological Survey field measurements\n" +
		"# retrieved for testing\n" +
		"measurement_nu\tmeasurement_dt\ttz_cd\tgage_height_va\tdischarge_va\n" +
		"6s\t19d\t6s\t12s\t12s\n" +
		"101\t2019-01-15 08:00\tEST\t4.68\t129000\n" +
		"102\t2019-04-15 09:30\tEDT\t10.21\t\n" +
		"103\t2019-05-02 07:45\tEDT\t24.18\t396000\n"
	path := writeFile(t, "meas.rdb", rdb)

	m, err := timeseries.ReadNWISRDB(path)
	require.NoError(t, err)
	require.Equal(t, 3, m.Stage.Len())
	assert.Equal(t, []string{"101", "102", "103"}, m.Numbers)

	// 08:00 EST (standard time, mid-January) is 13:00 UTC.
	ts, h := m.Stage.At(0)
	assert.Equal(t, time.Date(2019, time.January, 15, 13, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, 4.68, h)

	// 09:30 EDT is 13:30 UTC.
	ts, _ = m.Stage.At(1)
	assert.Equal(t, time.Date(2019, time.April, 15, 13, 30, 0, 0, time.UTC), ts)

	_, q := m.Discharge.At(1)
	assert.True(t, math.IsNaN(q), "blank discharge reads as missing")

	_, q = m.Discharge.At(2)
	assert.Equal(t, 396000.0, q)
}

// TestReadNWISRDB_Empty rejects a file with no data rows.
func TestReadNWISRDB_Empty(t *testing.T) {
	path := writeFile(t, "empty.rdb",
		"measurement_nu\tmeasurement_dt\ttz_cd\tgage_height_va\tdischarge_va\n6s\t19d\t6s\t12s\t12s\n")
	_, err := timeseries.ReadNWISRDB(path)
	assert.ErrorIs(t, err, timeseries.ErrBadFormat)
}
