package geometry

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPossiblyIntersecting(t *testing.T) {
	poly := Box(0, 0, 2, 2)
	bounds := []*geom.Bounds{
		{Min: geom.Point{X: 1, Y: 1}, Max: geom.Point{X: 1, Y: 1}},
		{Min: geom.Point{X: 5, Y: 5}, Max: geom.Point{X: 6, Y: 6}},
		{Min: geom.Point{X: 2.00005, Y: 1}, Max: geom.Point{X: 2.00005, Y: 1}},
	}
	mask := PossiblyIntersecting(bounds, poly, 1e-4)
	assert.Equal(t, []bool{true, false, true}, mask)
}

func TestPointsInPolygon(t *testing.T) {
	poly := Box(0, 0, 2, 2)
	points := []geom.Point{
		{X: 1, Y: 1},
		{X: 3, Y: 1},
		{X: 0, Y: 0},
		{X: 2, Y: 1},
	}
	mask := PointsInPolygon(points, poly)
	// Boundary points count as inside
	assert.Equal(t, []bool{true, false, true, true}, mask)
}

func TestPointsInPolygonIgnoresHoles(t *testing.T) {
	poly := Box(0, 0, 4, 4)
	hole := []geom.Point{
		{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}, {X: 1, Y: 1},
	}
	poly = append(poly, hole)

	mask := PointsInPolygon([]geom.Point{{X: 2, Y: 2}}, poly)
	assert.Equal(t, []bool{true}, mask)
}

func TestAsPolygonList(t *testing.T) {
	var (
		a = Box(0, 0, 1, 1)
		b = Box(2, 0, 3, 1)
	)

	list, err := AsPolygonList(a)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = AsPolygonList(geom.MultiPolygon{a, b})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = AsPolygonList([]interface{}{a, geom.MultiPolygon{a, b}})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = AsPolygonList(geom.Point{X: 1, Y: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Polygon")
}

func TestPolygonsBounds(t *testing.T) {
	bounds := PolygonsBounds([]geom.Polygon{
		Box(0, 0, 1, 1),
		Box(-2, 3, 0.5, 5),
	})
	assert.Equal(t, geom.Point{X: -2, Y: 0}, bounds.Min)
	assert.Equal(t, geom.Point{X: 1, Y: 5}, bounds.Max)
}

func TestBoxClosed(t *testing.T) {
	poly := Box(0, 1, 2, 3)
	ring := poly[0]
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
}

func TestIsParallel(t *testing.T) {
	var (
		o  = geom.Point{X: 0, Y: 0}
		px = geom.Point{X: 2, Y: 0}
		py = geom.Point{X: 0, Y: 2}
	)
	assert.True(t, IsParallel(o, px, geom.Point{X: 1, Y: 1},
		geom.Point{X: 5, Y: 1}, 1e-9))
	assert.False(t, IsParallel(o, px, o, py, 1e-9))
}

func TestSegmentIntersection(t *testing.T) {
	pt, ok := SegmentIntersection(
		geom.Point{X: 0, Y: 0}, geom.Point{X: 2, Y: 2},
		geom.Point{X: 0, Y: 2}, geom.Point{X: 2, Y: 0})
	require.True(t, ok)
	assert.InDelta(t, 1, pt.X, 1e-12)
	assert.InDelta(t, 1, pt.Y, 1e-12)

	// Touching at an endpoint counts
	pt, ok = SegmentIntersection(
		geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0},
		geom.Point{X: 1, Y: 0}, geom.Point{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 1, Y: 0}, pt)

	// Parallel segments never intersect
	_, ok = SegmentIntersection(
		geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0},
		geom.Point{X: 0, Y: 1}, geom.Point{X: 1, Y: 1})
	assert.False(t, ok)

	// Lines cross outside the segment extents
	_, ok = SegmentIntersection(
		geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0},
		geom.Point{X: 5, Y: -1}, geom.Point{X: 5, Y: 1})
	assert.False(t, ok)
}
