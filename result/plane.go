package result

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Plane is a planar slice of the results at one vertical level and time.
// When Points is false the slice lies on the face-centre grid: X and Y are
// the grid axes and each field holds len(X)*len(Y) row-major values. When
// Points is true the slice was interpolated onto caller-supplied positions:
// X and Y are per-sample coordinates and each field holds one value per
// sample.
type Plane struct {
	Time   time.Time
	Coord  string // name of the fixed vertical coordinate
	Level  float64
	X, Y   []float64
	Points bool
	Fields map[string][]float64
}

// Grid returns a gridded field as a len(X) by len(Y) matrix.
func (p *Plane) Grid(name string) *mat.Dense {
	if p.Points {
		panic("plane holds point samples, not a grid")
	}
	vals, ok := p.Fields[name]
	if !ok {
		panic(fmt.Sprintf("plane has no field %q", name))
	}
	return mat.NewDense(len(p.X), len(p.Y), vals)
}

// interpAt resamples the gridded plane onto the given positions with
// bilinear interpolation. Positions outside the grid yield NaN.
func (p *Plane) interpAt(x, y []float64) (*Plane, error) {
	if p.Points {
		panic("plane holds point samples, not a grid")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"x and y have different lengths (%d != %d)", len(x), len(y))
	}

	out := &Plane{
		Time:   p.Time,
		Coord:  p.Coord,
		Level:  p.Level,
		X:      append([]float64(nil), x...),
		Y:      append([]float64(nil), y...),
		Points: true,
		Fields: make(map[string][]float64, len(p.Fields)),
	}
	for name, vals := range p.Fields {
		samples := make([]float64, len(x))
		for i := range x {
			samples[i] = bilinear(p.X, p.Y, vals, x[i], y[i])
		}
		out.Fields[name] = samples
	}
	return out, nil
}

// bilinear evaluates the row-major grid at (x, y), returning NaN outside
// the axes' extents.
func bilinear(xs, ys, grid []float64, x, y float64) float64 {
	ix, fx, ok := bracket(xs, x)
	if !ok {
		return math.NaN()
	}
	iy, fy, ok := bracket(ys, y)
	if !ok {
		return math.NaN()
	}

	var (
		ny  = len(ys)
		jx  = min(ix+1, len(xs)-1)
		jy  = min(iy+1, len(ys)-1)
		v00 = grid[ix*ny+iy]
		v01 = grid[ix*ny+jy]
		v10 = grid[jx*ny+iy]
		v11 = grid[jx*ny+jy]
	)
	return v00*(1-fx)*(1-fy) + v10*fx*(1-fy) + v01*(1-fx)*fy + v11*fx*fy
}

// bracket locates v on the ascending axis, returning the lower cell index
// and the fractional position within the cell.
func bracket(axis []float64, v float64) (i int, frac float64, ok bool) {
	if v < axis[0] || v > axis[len(axis)-1] {
		return 0, 0, false
	}
	if len(axis) == 1 {
		return 0, 0, true
	}
	i = sort.SearchFloat64s(axis, v)
	if i == len(axis)-1 || (i > 0 && axis[i] != v) {
		i--
	}
	frac = (v - axis[i]) / (axis[i+1] - axis[i])
	return i, frac, true
}
