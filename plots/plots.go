// Package plots renders the standard figures of a loop-rating run:
// computed-versus-reference hydrographs, the stage–discharge loop, and
// the relative error trace.
package plots

import (
	"errors"
	"image/color"

	"github.com/gaugeworks/dynrat/timeseries"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoPoints indicates that no finite observation pairs were available
// to draw.
var ErrNoPoints = errors.New("plots: no finite points to draw")

var (
	computedColor  = color.RGBA{R: 255, A: 255}
	referenceColor = color.RGBA{B: 255, A: 255}
)

// timeXYs converts a series to plot points, x in unix seconds, dropping
// missing observations.
func timeXYs(s *timeseries.Series) plotter.XYs {
	times, values := s.Times(), s.Values()
	xys := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if v != v { // NaN
			continue
		}
		xys = append(xys, plotter.XY{X: float64(times[i].Unix()), Y: v})
	}
	return xys
}

func timeLine(s *timeseries.Series) (*plotter.Line, error) {
	xys := timeXYs(s)
	if len(xys) == 0 {
		return nil, ErrNoPoints
	}
	return plotter.NewLine(xys)
}

func newTimePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02\n15:04"}
	p.Y.Label.Text = yLabel
	return p
}

// Hydrograph saves a computed time series, optionally against a
// reference series, to a PNG file.
func Hydrograph(path, title, yLabel string, computed, reference *timeseries.Series) error {
	p := newTimePlot(title, yLabel)

	lc, err := timeLine(computed)
	if err != nil {
		return err
	}
	lc.Color = computedColor
	p.Add(lc)
	p.Legend.Add("computed", lc)

	if reference != nil {
		lr, err := timeLine(reference)
		if err != nil {
			return err
		}
		lr.Color = referenceColor
		p.Add(lr)
		p.Legend.Add("reference", lr)
	}
	p.Legend.Top = true

	return p.Save(12*vg.Inch, 4*vg.Inch, path)
}

// LoopRating saves the stage–discharge trajectory to a PNG file, with
// field measurements overlaid as points when supplied. Pairs are matched
// by timestamp; steps missing either variable are skipped.
func LoopRating(path, title string, stage, discharge *timeseries.Series, meas *timeseries.Measurements) error {
	byTime := make(map[int64]float64, discharge.Len())
	qt, qv := discharge.Times(), discharge.Values()
	for i, q := range qv {
		if q == q {
			byTime[qt[i].UnixNano()] = q
		}
	}

	ht, hv := stage.Times(), stage.Values()
	xys := make(plotter.XYs, 0, len(hv))
	for i, h := range hv {
		q, ok := byTime[ht[i].UnixNano()]
		if !ok || h != h {
			continue
		}
		xys = append(xys, plotter.XY{X: q, Y: h})
	}
	if len(xys) == 0 {
		return ErrNoPoints
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = computedColor

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "discharge (cfs)"
	p.Y.Label.Text = "stage (ft)"
	p.Add(line, plotter.NewGrid())
	p.Legend.Add("computed", line)

	if meas != nil {
		pts := measuredXYs(meas)
		if len(pts) > 0 {
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return err
			}
			scatter.Color = referenceColor
			p.Add(scatter)
			p.Legend.Add("measured", scatter)
		}
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// measuredXYs pairs field-measurement stage and discharge by index,
// dropping visits where either value is missing.
func measuredXYs(m *timeseries.Measurements) plotter.XYs {
	hv, qv := m.Stage.Values(), m.Discharge.Values()
	xys := make(plotter.XYs, 0, len(hv))
	for i, h := range hv {
		if i >= len(qv) {
			break
		}
		q := qv[i]
		if h != h || q != q {
			continue
		}
		xys = append(xys, plotter.XY{X: q, Y: h})
	}
	return xys
}

// RelativeError saves a relative error trace, in percent, to a PNG file.
func RelativeError(path, title string, relErr *timeseries.Series) error {
	p := newTimePlot(title, "relative error (%)")

	line, err := timeLine(relErr)
	if err != nil {
		return err
	}
	line.Color = computedColor
	p.Add(line, plotter.NewGrid())

	return p.Save(12*vg.Inch, 4*vg.Inch, path)
}
