package timeseries

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the timestamp spellings seen in Aquarius exports.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrBadFormat, s)
}

// ReadAquariusCSV reads a time series from an Aquarius CSV export: the
// first column is the timestamp, and a "Value" column carries the
// observation. Unparseable values become NaN (missing); an unparseable
// timestamp is an error.
func ReadAquariusCSV(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: no data rows in %s", ErrBadFormat, path)
	}

	valueCol := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "Value") {
			valueCol = i
			break
		}
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("%w: no Value column in %s", ErrBadFormat, path)
	}

	times := make([]time.Time, 0, len(records)-1)
	values := make([]float64, 0, len(records)-1)
	for _, rec := range records[1:] {
		ts, err := parseTime(rec[0])
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[valueCol]), 64)
		if err != nil {
			v = math.NaN()
		}
		times = append(times, ts)
		values = append(values, v)
	}
	return New(times, values)
}

// WriteCSV writes the series as a two-column CSV with a DateTime index
// column and the given value label. Missing observations are written as
// empty fields.
func (s *Series) WriteCSV(path, label string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"DateTime", label}); err != nil {
		return err
	}
	for i, ts := range s.times {
		field := ""
		if !math.IsNaN(s.values[i]) {
			field = strconv.FormatFloat(s.values[i], 'g', -1, 64)
		}
		if err := w.Write([]string{ts.UTC().Format(time.RFC3339), field}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
