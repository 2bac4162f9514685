package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrEmptySeries indicates construction with no observations.
	ErrEmptySeries = errors.New("timeseries: series must have at least one observation")

	// ErrLengthMismatch indicates time and value slices of unequal length.
	ErrLengthMismatch = errors.New("timeseries: times and values must have equal length")

	// ErrUnsorted indicates timestamps that are not strictly increasing.
	ErrUnsorted = errors.New("timeseries: timestamps must be strictly increasing")

	// ErrNoOverlap indicates two series with no common timestamps.
	ErrNoOverlap = errors.New("timeseries: series have no timestamps in common")

	// ErrBadFormat indicates an unparseable input file.
	ErrBadFormat = errors.New("timeseries: malformed input")

	// ErrBadStep indicates a non-positive resampling step.
	ErrBadStep = errors.New("timeseries: resample step must be positive")
)

// Series is an immutable, time-ordered sequence of observations. Missing
// observations are NaN values.
type Series struct {
	times  []time.Time
	values []float64
}

// New copies times and values into a Series. Timestamps must be strictly
// increasing; values may contain NaN for missing observations.
func New(times []time.Time, values []float64) (*Series, error) {
	if len(times) != len(values) {
		return nil, ErrLengthMismatch
	}
	if len(times) == 0 {
		return nil, ErrEmptySeries
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("%w: index %d (%v then %v)", ErrUnsorted, i, times[i-1], times[i])
		}
	}
	s := &Series{
		times:  make([]time.Time, len(times)),
		values: make([]float64, len(values)),
	}
	copy(s.times, times)
	copy(s.values, values)
	return s, nil
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.times) }

// At returns the i-th observation.
func (s *Series) At(i int) (time.Time, float64) { return s.times[i], s.values[i] }

// Times returns a copy of the timestamps.
func (s *Series) Times() []time.Time {
	out := make([]time.Time, len(s.times))
	copy(out, s.times)
	return out
}

// Values returns a copy of the observed values.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// NullCount returns the number of missing (NaN) observations.
func (s *Series) NullCount() int {
	n := 0
	for _, v := range s.values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// TimeStep returns the spacing of the first two observations. For series
// produced by Resample this is the series frequency.
func (s *Series) TimeStep() (time.Duration, error) {
	if len(s.times) < 2 {
		return 0, ErrEmptySeries
	}
	return s.times[1].Sub(s.times[0]), nil
}

// Fill returns a new Series with this series' missing observations replaced
// by other's value at the same timestamp, where present.
func (s *Series) Fill(other *Series) *Series {
	byTime := other.index()
	values := make([]float64, len(s.values))
	copy(values, s.values)
	for i, v := range values {
		if !math.IsNaN(v) {
			continue
		}
		if j, ok := byTime[s.times[i].UnixNano()]; ok {
			values[i] = other.values[j]
		}
	}
	out, _ := New(s.times, values)
	return out
}

// SubsetTime returns the observations within [start, end]. A zero start or
// end leaves that side unbounded.
func (s *Series) SubsetTime(start, end time.Time) (*Series, error) {
	var times []time.Time
	var values []float64
	for i, ts := range s.times {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		times = append(times, ts)
		values = append(values, s.values[i])
	}
	if len(times) == 0 {
		return nil, ErrEmptySeries
	}
	return New(times, values)
}

// Resample regrids the series onto a fixed step from the first observation
// to the last. Target times without an exact source observation become NaN;
// with interpolate set, interior gaps are filled by time-weighted linear
// interpolation between the nearest finite neighbors.
func (s *Series) Resample(step time.Duration, interpolate bool) (*Series, error) {
	if step <= 0 {
		return nil, ErrBadStep
	}
	byTime := s.index()

	var times []time.Time
	var values []float64
	last := s.times[len(s.times)-1]
	for ts := s.times[0]; !ts.After(last); ts = ts.Add(step) {
		v := math.NaN()
		if j, ok := byTime[ts.UnixNano()]; ok {
			v = s.values[j]
		}
		times = append(times, ts)
		values = append(values, v)
	}
	if interpolate {
		interpolateGaps(times, values)
	}
	return New(times, values)
}

// interpolateGaps fills interior NaN runs linearly in time. Leading and
// trailing gaps have no second anchor and stay NaN.
func interpolateGaps(times []time.Time, values []float64) {
	prev := -1 // index of the last finite value
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			t0, v0 := times[prev], values[prev]
			span := times[i].Sub(t0).Seconds()
			for j := prev + 1; j < i; j++ {
				frac := times[j].Sub(t0).Seconds() / span
				values[j] = v0 + frac*(v-v0)
			}
		}
		prev = i
	}
}

func (s *Series) index() map[int64]int {
	m := make(map[int64]int, len(s.times))
	for i, ts := range s.times {
		m[ts.UnixNano()] = i
	}
	return m
}
