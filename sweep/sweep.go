// Package sweep drives the outer k=1..K loop: for each k it asks an
// epoch coordinator for m(k), seeded from m(k-1) per invariant I1, and
// streams a plateau point whenever m strictly increases.
package sweep

import (
	"fmt"
	"io"

	"github.com/bitRAKE/math/epoch"
)

// Point is one emitted plateau: the least m(k) is strictly greater
// than m(k-1).
type Point struct {
	K uint64
	M uint64
}

// Driver owns the coordinator used for every k in the sweep and an
// optional progress callback, reported once per k after it resolves.
type Driver struct {
	Coordinator *epoch.Coordinator
	Progress    func(k, m, kMax uint64)
}

// Run sweeps k = 1..kMax, writing a header comment line followed by one
// "<k>, <m>" line per plateau point to out, per spec.md section 6's
// stdout contract. It returns the full plateau sequence alongside
// whatever the writer produced, so callers that want the points without
// re-parsing stdout (e.g. tests) can use them directly.
func (d *Driver) Run(out io.Writer, kMax uint64) ([]Point, error) {
	if _, err := fmt.Fprintf(out, "; m(k) plateau points for k=1..%d\n", kMax); err != nil {
		return nil, err
	}

	var points []Point
	var mPrev uint64
	haveEmitted := false
	var lastEmitted uint64

	for k := uint64(1); k <= kMax; k++ {
		m, err := d.Coordinator.Solve(k, mPrev)
		if err != nil {
			return points, err
		}
		if k > 1 && m < mPrev {
			panic("sweep: m(k) regressed below m(k-1)")
		}

		if d.Progress != nil {
			d.Progress(k, m, kMax)
		}

		if !haveEmitted || m != lastEmitted {
			if _, err := fmt.Fprintf(out, "%d, %d\n", k, m); err != nil {
				return points, err
			}
			points = append(points, Point{K: k, M: m})
			lastEmitted = m
			haveEmitted = true
		}

		mPrev = m
	}
	return points, nil
}
