// Command dynrat computes a discharge time series from measured stage
// (or stage from measured discharge) with the dynamic loop-rating
// method, as described by a YAML run configuration.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gaugeworks/dynrat/config"
	"github.com/gaugeworks/dynrat/fread"
	"github.com/gaugeworks/dynrat/internal/logging"
	"github.com/gaugeworks/dynrat/plots"
	"github.com/gaugeworks/dynrat/section"
	"github.com/gaugeworks/dynrat/sequence"
	"github.com/gaugeworks/dynrat/timeseries"
	"github.com/gosuri/uiprogress"
	"go.uber.org/zap"
)

func main() {
	cfgFile := flag.String("config", "run.yaml", "path to the run configuration")
	debug := flag.Bool("debug", false, "turn on debugging output")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynrat: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(*debug || cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynrat: can't initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Errorw("run failed", "gauge", cfg.Gauge, "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Run, log *zap.SugaredLogger) error {
	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}

	driving, err := timeseries.ReadAquariusCSV(cfg.SeriesCSV)
	if err != nil {
		return err
	}
	log.Infow("loaded driving series",
		"gauge", cfg.Gauge, "observations", driving.Len(), "missing", driving.NullCount())

	result, err := march(cfg, tbl, driving, log)
	if err != nil {
		return err
	}

	computed, err := timeseries.New(result.Times(), result.Values())
	if err != nil {
		return err
	}
	if err := computed.WriteCSV(cfg.OutputCSV, outputLabel(cfg)); err != nil {
		return err
	}

	report(cfg, result, computed, log)

	if result.State == sequence.Halted {
		return result.Err
	}
	return nil
}

// march builds the configured engine and sequencer and steps through the
// driving series behind a progress bar.
func march(cfg *config.Run, tbl *section.Table, driving *timeseries.Series, log *zap.SugaredLogger) (*sequence.Run, error) {
	params := cfg.Params()
	engineOpts := []fread.Option{fread.WithLogger(log)}

	n := driving.Len() - 1
	uiprogress.Start()
	bar := uiprogress.AddBar(n).AppendCompleted().PrependElapsed()
	defer uiprogress.Stop()

	opts := sequence.Options{
		Policy:   cfg.Policy(),
		Logger:   log,
		StepHook: func(int, sequence.StepResult) { bar.Incr() },
	}

	if cfg.Direction == "stage" {
		eng, err := fread.NewCelerityEngine(tbl, params, cfg.Celerity(), engineOpts...)
		if err != nil {
			return nil, err
		}
		seq, err := sequence.NewStageSequencer(eng, opts)
		if err != nil {
			return nil, err
		}
		return seq.Run(driving.Times(), driving.Values(), cfg.Seed)
	}

	var eng sequence.DischargeEngine
	var err error
	if cfg.Formulation == "coefficient" {
		eng, err = fread.NewCoefficientEngine(tbl, params, engineOpts...)
	} else {
		eng, err = fread.NewCelerityEngine(tbl, params, cfg.Celerity(), engineOpts...)
	}
	if err != nil {
		return nil, err
	}
	seq, err := sequence.NewDischargeSequencer(eng, opts)
	if err != nil {
		return nil, err
	}
	return seq.Run(driving.Times(), driving.Values(), cfg.Seed)
}

// report prints the run summary and, when a reference series is
// configured, goodness-of-fit statistics and the optional plots.
func report(cfg *config.Run, result *sequence.Run, computed *timeseries.Series, log *zap.SugaredLogger) {
	fmt.Printf("%s: %s, %d/%d steps solved\n",
		cfg.Gauge, result.State, result.Solved, len(result.Steps))
	if ts, ok := result.FirstFailureTime(); ok {
		fmt.Printf("first failure at %s: %v\n", ts, result.Err)
	}

	var reference *timeseries.Series
	if cfg.ReferenceCSV != "" {
		var err error
		reference, err = timeseries.ReadAquariusCSV(cfg.ReferenceCSV)
		if err != nil {
			log.Warnw("skipping reference comparison", "error", err)
			reference = nil
		}
	}

	if reference != nil {
		if me, err := computed.MeanError(reference, false); err == nil {
			fmt.Printf("mean error:          %10.1f\n", me)
		}
		if mre, err := computed.MeanError(reference, true); err == nil {
			fmt.Printf("mean relative error: %9.2f%%\n", mre)
		}
		if rmse, err := computed.RMSE(reference); err == nil {
			fmt.Printf("rmse:                %10.1f\n", rmse)
		}
	}

	if cfg.HydrographPNG != "" {
		if err := plots.Hydrograph(cfg.HydrographPNG, cfg.Gauge, outputLabel(cfg), computed, reference); err != nil {
			log.Warnw("hydrograph plot failed", "error", err)
		}
	}
	if cfg.LoopPNG != "" {
		if err := loopPlot(cfg, computed, log); err != nil {
			log.Warnw("loop plot failed", "error", err)
		}
	}
}

// loopPlot pairs the computed series with the driving series re-read from
// disk, oriented by run direction, with optional field measurements.
func loopPlot(cfg *config.Run, computed *timeseries.Series, log *zap.SugaredLogger) error {
	driving, err := timeseries.ReadAquariusCSV(cfg.SeriesCSV)
	if err != nil {
		return err
	}
	stage, discharge := driving, computed
	if cfg.Direction == "stage" {
		stage, discharge = computed, driving
	}

	var meas *timeseries.Measurements
	if cfg.MeasurementsRDB != "" {
		meas, err = timeseries.ReadNWISRDB(cfg.MeasurementsRDB)
		if err != nil {
			log.Warnw("skipping measurement overlay", "error", err)
			meas = nil
		}
	}
	return plots.LoopRating(cfg.LoopPNG, cfg.Gauge, stage, discharge, meas)
}

func outputLabel(cfg *config.Run) string {
	if cfg.Direction == "stage" {
		return "Stage"
	}
	return "Discharge"
}

// loadTable reads the cross section property table. The CSV carries a
// header naming stage, area, top_width, and roughness plus any of
// wetted_perimeter, conveyance, and beta; unnamed extra columns are
// ignored.
func loadTable(cfg *config.Run) (*section.Table, error) {
	f, err := os.Open(cfg.SectionCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", cfg.SectionCSV, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var p section.Properties
	columns := map[string]*[]float64{
		"stage":            &p.Stage,
		"area":             &p.Area,
		"top_width":        &p.TopWidth,
		"roughness":        &p.Roughness,
		"wetted_perimeter": &p.WettedPerimeter,
		"conveyance":       &p.Conveyance,
		"beta":             &p.VelDistFactor,
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.SectionCSV, err)
		}
		for name, dst := range columns {
			i, ok := cols[name]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: column %s: %w", cfg.SectionCSV, name, err)
			}
			*dst = append(*dst, v)
		}
	}
	var opts []section.Option
	if cfg.Extrapolate {
		opts = append(opts, section.WithExtrapolation())
	}
	return section.NewTable(p, opts...)
}
