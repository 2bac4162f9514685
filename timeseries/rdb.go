package timeseries

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// rdbTimeZones maps the NWIS tz_cd column onto IANA zone names, so local
// measurement times convert to UTC across daylight-saving transitions.
var rdbTimeZones = map[string]string{
	"EST": "EST5EDT", "EDT": "EST5EDT",
	"CST": "CST6CDT", "CDT": "CST6CDT",
	"MST": "MST7MDT", "MDT": "MST7MDT",
	"PST": "PST8PDT", "PDT": "PST8PDT",
	"": "UTC",
}

// Measurements holds the discrete field measurements parsed from an NWIS
// RDB file: paired stage and discharge series plus the measurement numbers
// aligned with them.
type Measurements struct {
	Stage     *Series
	Discharge *Series
	Numbers   []string
}

// ReadNWISRDB parses an NWIS field-measurement RDB file: '#' comment lines,
// a tab-separated header, a format row, then tab-separated data rows.
// Rows without a parseable timestamp are skipped; unparseable stage or
// discharge values become NaN. Rows are sorted by time and duplicate
// timestamps keep the first occurrence.
func ReadNWISRDB(path string) (*Measurements, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		header = strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		break
	}
	if header == nil {
		return nil, fmt.Errorf("%w: no header in %s", ErrBadFormat, path)
	}
	// The line after the header is the RDB column-format row.
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing format row in %s", ErrBadFormat, path)
	}

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}
	dtCol := col("measurement_dt")
	numCol := col("measurement_nu")
	tzCol := col("tz_cd")
	hCol := col("gage_height_va")
	qCol := col("discharge_va")
	if dtCol < 0 || numCol < 0 || hCol < 0 || qCol < 0 {
		return nil, fmt.Errorf("%w: missing measurement columns in %s", ErrBadFormat, path)
	}

	type row struct {
		ts   time.Time
		h, q float64
		num  string
	}
	var rows []row

	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
		if dtCol >= len(fields) {
			continue
		}

		loc := time.UTC
		if tzCol >= 0 && tzCol < len(fields) {
			zone, ok := rdbTimeZones[strings.TrimSpace(fields[tzCol])]
			if !ok {
				zone = "UTC"
			}
			if l, err := time.LoadLocation(zone); err == nil {
				loc = l
			}
		}
		ts, err := parseTimeIn(fields[dtCol], loc)
		if err != nil {
			continue
		}

		r := row{ts: ts.UTC(), h: math.NaN(), q: math.NaN()}
		if hCol < len(fields) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(fields[hCol]), 64); err == nil {
				r.h = v
			}
		}
		if qCol < len(fields) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(fields[qCol]), 64); err == nil {
				r.q = v
			}
		}
		if numCol < len(fields) {
			r.num = strings.TrimSpace(fields[numCol])
		}
		rows = append(rows, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no measurements in %s", ErrBadFormat, path)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

	times := make([]time.Time, 0, len(rows))
	h := make([]float64, 0, len(rows))
	q := make([]float64, 0, len(rows))
	nums := make([]string, 0, len(rows))
	for _, r := range rows {
		if len(times) > 0 && !r.ts.After(times[len(times)-1]) {
			continue
		}
		times = append(times, r.ts)
		h = append(h, r.h)
		q = append(q, r.q)
		nums = append(nums, r.num)
	}

	stage, err := New(times, h)
	if err != nil {
		return nil, err
	}
	discharge, err := New(times, q)
	if err != nil {
		return nil, err
	}
	return &Measurements{Stage: stage, Discharge: discharge, Numbers: nums}, nil
}

func parseTimeIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrBadFormat, s)
}
