// Package config loads and validates the YAML description of one
// loop-rating run: channel parameters, solver direction and formulation,
// failure policy, and the file paths of its inputs and outputs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gaugeworks/dynrat/fread"
	"github.com/gaugeworks/dynrat/sequence"
	"gopkg.in/yaml.v3"
)

// ErrBadConfig indicates a missing, unreadable, or invalid configuration.
var ErrBadConfig = errors.New("config: invalid run configuration")

// Run is one gauge computation, as described by a YAML file.
type Run struct {
	// Gauge labels the run in logs and plot titles.
	Gauge string `yaml:"gauge"`

	// Direction selects the unknown: "discharge" (from measured stage,
	// the default) or "stage" (from measured discharge).
	Direction string `yaml:"direction"`

	// Formulation selects the zero function: "celerity" (default) or
	// "coefficient". The stage direction requires the celerity form.
	Formulation string `yaml:"formulation"`

	// CelerityMethod is one of dkda (default), const-k, k, dqda.
	CelerityMethod string `yaml:"celerity_method"`

	BedSlope   float64 `yaml:"bed_slope"`
	SlopeRatio float64 `yaml:"slope_ratio"`
	// TimeStep is the series time step, in seconds.
	TimeStep float64 `yaml:"time_step"`

	// Seed is the starting value of the unknown variable (q0 or h0).
	Seed float64 `yaml:"seed"`

	// FailurePolicy is "halt" (default) or "continue".
	FailurePolicy string `yaml:"failure_policy"`

	// Extrapolate allows table queries beyond the tabulated stage range.
	Extrapolate bool `yaml:"extrapolate"`

	// SectionCSV tabulates the cross section properties by stage.
	SectionCSV string `yaml:"section_csv"`
	// SeriesCSV is the driving time series (Aquarius CSV export).
	SeriesCSV string `yaml:"series_csv"`
	// OutputCSV receives the computed series.
	OutputCSV string `yaml:"output_csv"`

	// ReferenceCSV, when set, is compared against the computed series for
	// goodness-of-fit reporting and plotting.
	ReferenceCSV string `yaml:"reference_csv"`

	// MeasurementsRDB, when set, overlays NWIS field measurements on the
	// loop-rating plot.
	MeasurementsRDB string `yaml:"measurements_rdb"`

	// HydrographPNG and LoopPNG, when set, receive plot output.
	HydrographPNG string `yaml:"hydrograph_png"`
	LoopPNG       string `yaml:"loop_png"`

	// Debug enables development logging.
	Debug bool `yaml:"debug"`
}

// Load reads, decodes, and validates a run configuration. Unknown YAML
// keys are rejected so typos fail loudly.
func Load(path string) (*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var r Run
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate normalizes defaults and checks every field's constraints.
func (r *Run) Validate() error {
	switch strings.ToLower(r.Direction) {
	case "":
		r.Direction = "discharge"
	case "discharge", "stage":
		r.Direction = strings.ToLower(r.Direction)
	default:
		return fmt.Errorf("%w: direction must be discharge or stage, got %q", ErrBadConfig, r.Direction)
	}

	switch strings.ToLower(r.Formulation) {
	case "":
		r.Formulation = "celerity"
	case "celerity", "coefficient":
		r.Formulation = strings.ToLower(r.Formulation)
	default:
		return fmt.Errorf("%w: formulation must be celerity or coefficient, got %q", ErrBadConfig, r.Formulation)
	}
	if r.Direction == "stage" && r.Formulation != "celerity" {
		return fmt.Errorf("%w: the stage direction requires the celerity formulation", ErrBadConfig)
	}

	if _, err := fread.ParseCelerityMethod(r.CelerityMethod); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if err := r.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	switch strings.ToLower(r.FailurePolicy) {
	case "":
		r.FailurePolicy = "halt"
	case "halt", "continue":
		r.FailurePolicy = strings.ToLower(r.FailurePolicy)
	default:
		return fmt.Errorf("%w: failure_policy must be halt or continue, got %q", ErrBadConfig, r.FailurePolicy)
	}

	for name, path := range map[string]string{
		"section_csv": r.SectionCSV,
		"series_csv":  r.SeriesCSV,
		"output_csv":  r.OutputCSV,
	} {
		if path == "" {
			return fmt.Errorf("%w: %s is required", ErrBadConfig, name)
		}
	}
	return nil
}

// Params returns the channel parameters of the run.
func (r *Run) Params() fread.ChannelParams {
	return fread.ChannelParams{
		BedSlope:   r.BedSlope,
		SlopeRatio: r.SlopeRatio,
		TimeStep:   r.TimeStep,
	}
}

// Celerity returns the parsed celerity method. Call after Validate.
func (r *Run) Celerity() fread.CelerityMethod {
	m, _ := fread.ParseCelerityMethod(r.CelerityMethod)
	return m
}

// Policy returns the parsed failure policy. Call after Validate.
func (r *Run) Policy() sequence.FailurePolicy {
	if r.FailurePolicy == "continue" {
		return sequence.ContinueOnFailure
	}
	return sequence.HaltOnFailure
}
