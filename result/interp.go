// Package result reads simulation output map files and extracts fields on
// planes, points and transects: a lazily accumulated per-time-step cache
// over the face and edge tables, a vertical slice engine with linear
// extrapolation, and turbine-relative query helpers.
package result

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// linear1D is a piecewise-linear interpolant that extends the boundary
// segments linearly outside the sampled range, rather than clamping.
// Input pairs are sorted by abscissa; NaN pairs are dropped and duplicate
// abscissae are deduplicated keeping the first pair after sorting.
type linear1D struct {
	pl     interp.PiecewiseLinear
	x0, x1 float64
	s0, s1 float64 // boundary segment slopes
	y0, y1 float64
}

var errTooFewSamples = errors.New(
	"at least two distinct samples are required to interpolate")

func newLinear1D(xs, ys []float64) (*linear1D, error) {
	if len(xs) != len(ys) {
		panic("interpolation inputs have different lengths")
	}

	type pair struct{ x, y float64 }
	pairs := make([]pair, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pairs = append(pairs, pair{xs[i], ys[i]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].x < pairs[j].x
	})

	var (
		cx = make([]float64, 0, len(pairs))
		cy = make([]float64, 0, len(pairs))
	)
	for _, p := range pairs {
		if len(cx) > 0 && p.x == cx[len(cx)-1] {
			continue
		}
		cx = append(cx, p.x)
		cy = append(cy, p.y)
	}
	if len(cx) < 2 {
		return nil, errTooFewSamples
	}

	f := &linear1D{
		x0: cx[0],
		x1: cx[len(cx)-1],
		y0: cy[0],
		y1: cy[len(cy)-1],
		s0: (cy[1] - cy[0]) / (cx[1] - cx[0]),
		s1: (cy[len(cy)-1] - cy[len(cy)-2]) / (cx[len(cx)-1] - cx[len(cx)-2]),
	}
	if err := f.pl.Fit(cx, cy); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *linear1D) at(x float64) float64 {
	switch {
	case x < f.x0:
		return f.y0 + f.s0*(x-f.x0)
	case x > f.x1:
		return f.y1 + f.s1*(x-f.x1)
	default:
		return f.pl.Predict(x)
	}
}
