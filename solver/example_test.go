package solver_test

import (
	"fmt"

	"github.com/gaugeworks/dynrat/solver"
)

// ExampleNewton finds √612 with the analytic derivative supplied, then
// again with the secant fallback.
func ExampleNewton() {
	f := func(x float64) (float64, error) { return x*x - 612, nil }
	df := func(x float64) (float64, error) { return 2 * x, nil }

	opts := solver.Options{Tol: 1e-9, MaxIter: 50}

	res, err := solver.Newton(f, df, 10, opts)
	if err != nil {
		panic(err)
	}
	fmt.Printf("newton: %.4f\n", res.Root)

	res, err = solver.Newton(f, nil, 10, opts)
	if err != nil {
		panic(err)
	}
	fmt.Printf("secant: %.4f\n", res.Root)

	// Output:
	// newton: 24.7386
	// secant: 24.7386
}
