package geometry

import (
	"math"

	"github.com/ctessum/geom"
)

// IsParallel reports whether the segments a0-a1 and b0-b1 have parallel
// direction vectors, within tol on the cross product.
func IsParallel(a0, a1, b0, b1 geom.Point, tol float64) bool {
	ax, ay := a1.X-a0.X, a1.Y-a0.Y
	bx, by := b1.X-b0.X, b1.Y-b0.Y
	return math.Abs(ax*by-ay*bx) < tol
}

// SegmentIntersection returns the intersection point of the segments p0-p1
// and q0-q1, endpoints inclusive. Parallel or disjoint segments report
// ok == false.
func SegmentIntersection(p0, p1, q0, q1 geom.Point) (pt geom.Point, ok bool) {
	rx, ry := p1.X-p0.X, p1.Y-p0.Y
	sx, sy := q1.X-q0.X, q1.Y-q0.Y

	den := rx*sy - ry*sx
	if math.Abs(den) < 1e-12 {
		return
	}

	qpx, qpy := q0.X-p0.X, q0.Y-p0.Y
	t := (qpx*sy - qpy*sx) / den
	u := (qpx*ry - qpy*rx) / den

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return
	}

	pt = geom.Point{X: p0.X + t*rx, Y: p0.Y + t*ry}
	ok = true
	return
}
