package section_test

import (
	"fmt"

	"github.com/gaugeworks/dynrat/section"
)

// ExampleTable interpolates hydraulic properties for a trapezoidal
// channel tabulated at three stages.
func ExampleTable() {
	tbl, err := section.NewTable(section.Properties{
		Stage:     []float64{0, 5, 10},
		Area:      []float64{0, 275, 650},
		TopWidth:  []float64{50, 60, 70},
		Roughness: []float64{0.035, 0.035, 0.030},
	})
	if err != nil {
		panic(err)
	}

	a, _ := tbl.Area(7.5)
	b, _ := tbl.TopWidth(7.5)
	fmt.Printf("area %.1f ft², top width %.1f ft\n", a, b)

	_, err = tbl.Area(12)
	fmt.Println(err)

	// Output:
	// area 462.5 ft², top width 65.0 ft
	// section: stage outside table domain: stage 12 outside [0, 10]
}
