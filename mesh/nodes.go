package mesh

import (
	"gonum.org/v1/gonum/floats"

	"github.com/Data-Only-Greater/d3d-cec-verify/utils"
)

// GenerateGridXY produces the x and y coordinates of a rectangular node
// lattice spanning [x0, x0+xsize] and [y0, y0+ysize] with steps dx and dy.
// When a step does not divide the extent exactly, one extra coordinate is
// appended at the exact far edge, producing an irregular last cell rather
// than overshooting: the lattice always covers the requested extent.
func GenerateGridXY(x0, y0, xsize, ysize, dx, dy float64) (xs, ys []float64) {
	ncols := int(xsize / dx)
	nrows := int(ysize / dy)

	x1 := x0 + xsize
	y1 := y0 + ysize

	xs = make([]float64, ncols+1)
	floats.Span(xs, x0, x0+dx*float64(ncols))
	ys = make([]float64, nrows+1)
	floats.Span(ys, y0, y0+dy*float64(nrows))

	if !utils.IsClose(xs[len(xs)-1], x1) {
		xs = append(xs, x1)
	}
	if !utils.IsClose(ys[len(ys)-1], y1) {
		ys = append(ys, y1)
	}
	return
}
