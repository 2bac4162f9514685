package timeseries

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// errorPairs collects (computed − reference) errors over the exact
// timestamp intersection of the two series, skipping non-finite pairs.
func (s *Series) errorPairs(ref *Series) (times []int, errs []float64, refs []float64, err error) {
	byTime := ref.index()
	for i, ts := range s.times {
		j, ok := byTime[ts.UnixNano()]
		if !ok {
			continue
		}
		c, r := s.values[i], ref.values[j]
		if math.IsNaN(c) || math.IsNaN(r) || math.IsInf(c, 0) || math.IsInf(r, 0) {
			continue
		}
		times = append(times, i)
		errs = append(errs, c-r)
		refs = append(refs, r)
	}
	if len(errs) == 0 {
		return nil, nil, nil, ErrNoOverlap
	}
	return times, errs, refs, nil
}

// MeanError returns the mean of (s − ref) over their common timestamps.
// With relative set, each error is expressed as a percentage of the
// reference value before averaging.
func (s *Series) MeanError(ref *Series, relative bool) (float64, error) {
	_, errs, refs, err := s.errorPairs(ref)
	if err != nil {
		return math.NaN(), err
	}
	if relative {
		for i := range errs {
			errs[i] = 100 * errs[i] / refs[i]
		}
	}
	return stat.Mean(errs, nil), nil
}

// RMSE returns the root-mean-square error of s against ref over their
// common timestamps.
func (s *Series) RMSE(ref *Series) (float64, error) {
	_, errs, _, err := s.errorPairs(ref)
	if err != nil {
		return math.NaN(), err
	}
	sq := make([]float64, len(errs))
	for i, e := range errs {
		sq[i] = e * e
	}
	return math.Sqrt(stat.Mean(sq, nil)), nil
}

// RelativeError returns a new Series of percentage errors of s against ref
// at their common timestamps.
func (s *Series) RelativeError(ref *Series) (*Series, error) {
	idx, errs, refs, err := s.errorPairs(ref)
	if err != nil {
		return nil, err
	}
	outTimes := make([]time.Time, len(idx))
	outVals := make([]float64, len(idx))
	for k, i := range idx {
		outTimes[k] = s.times[i]
		outVals[k] = 100 * errs[k] / refs[k]
	}
	return New(outTimes, outVals)
}
