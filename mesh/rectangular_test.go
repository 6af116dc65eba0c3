package mesh

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Only-Greater/d3d-cec-verify/geometry"
)

func TestGenerateGridTwoByTwo(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))

	assert.Equal(t, 9, r.Geom.Dim.NumNode)
	assert.Equal(t, 12, r.Geom.Dim.NumEdge)
	assert.Equal(t, 4, r.Geom.Dim.NumFace)

	faces, ok := r.Geom.IntsArray(FaceNodes)
	require.True(t, ok)
	for _, corners := range faces {
		seen := make(map[int]bool)
		for _, id := range corners {
			assert.GreaterOrEqual(t, id, 1)
			assert.LessOrEqual(t, id, r.Geom.Dim.NumNode)
			assert.False(t, seen[id], "duplicate corner in face")
			seen[id] = true
		}
	}
}

func TestGenerateGridIrregularLastColumn(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2.5, 1, 1, 1))

	// Three columns (widths 1, 1, 0.5) by one row
	assert.Equal(t, 8, r.Geom.Dim.NumNode)
	assert.Equal(t, 3, r.Geom.Dim.NumFace)

	faceX, ok := r.Geom.Floats(FaceX)
	require.True(t, ok)
	assert.InDelta(t, 2.25, faceX[2], 1e-12)
}

func TestGenerateGridMerge(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 1, 1, 1, 1))
	require.NoError(t, r.GenerateGrid(2, 0, 1, 1, 1, 1))

	assert.Equal(t, 8, r.Geom.Dim.NumNode)
	assert.Equal(t, 8, r.Geom.Dim.NumEdge)
	assert.Equal(t, 2, r.Geom.Dim.NumFace)

	edges, ok := r.Geom.IntsArray(EdgeNodes)
	require.True(t, ok)
	for _, e := range edges[4:] {
		assert.Greater(t, e[0], 4)
		assert.Greater(t, e[1], 4)
	}
}

func TestGenerateWithinPolygonRectangle(t *testing.T) {
	r := NewRectangular()
	poly := geometry.Box(0, 0, 2, 2)
	require.NoError(t, r.GenerateWithinPolygon(poly, 1, 1))

	assert.Equal(t, 9, r.Geom.Dim.NumNode)
	assert.Equal(t, 12, r.Geom.Dim.NumEdge)
	assert.Equal(t, 4, r.Geom.Dim.NumFace)
}

func TestClipMeshByPolygonCovering(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))
	require.NoError(t, r.ClipMeshByPolygon(geometry.Box(-1, -1, 3, 3), false))

	// A polygon covering the whole mesh changes nothing
	assert.Equal(t, 9, r.Geom.Dim.NumNode)
	assert.Equal(t, 12, r.Geom.Dim.NumEdge)
	assert.Equal(t, 4, r.Geom.Dim.NumFace)
}

func TestClipMeshByPolygonFirstColumn(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))
	require.NoError(t, r.ClipMeshByPolygon(geometry.Box(0, 0, 1, 2), false))

	assert.Equal(t, 6, r.Geom.Dim.NumNode)
	assert.Equal(t, 7, r.Geom.Dim.NumEdge)
	assert.Equal(t, 2, r.Geom.Dim.NumFace)

	// Only the first column of cells survives
	faceX, ok := r.Geom.Floats(FaceX)
	require.True(t, ok)
	for _, fx := range faceX {
		assert.InDelta(t, 0.5, fx, 1e-12)
	}

	// Node numbering is compact and the connectivity stays in range
	nodeX, _ := r.Geom.Floats(NodeX)
	edges, ok := r.Geom.IntsArray(EdgeNodes)
	require.True(t, ok)
	for _, e := range edges {
		assert.GreaterOrEqual(t, e[0], 1)
		assert.LessOrEqual(t, e[0], len(nodeX))
		assert.GreaterOrEqual(t, e[1], 1)
		assert.LessOrEqual(t, e[1], len(nodeX))
	}
}

func TestClipMeshByPolygonKeepOutside(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 3, 1, 1, 1))
	require.NoError(t, r.ClipMeshByPolygon(
		geometry.Box(-0.5, -0.5, 1.5, 1.5), true))

	// Cells whose corners all lie outside the polygon survive
	assert.Equal(t, 1, r.Geom.Dim.NumFace)
	faceX, _ := r.Geom.Floats(FaceX)
	assert.InDelta(t, 2.5, faceX[0], 1e-12)
}

func TestClipMeshByPolygonEmpty(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))
	err := r.ClipMeshByPolygon(geometry.Box(10, 10, 11, 11), false)
	assert.ErrorIs(t, err, ErrEmptyClip)
}

func TestClipNodes(t *testing.T) {
	var (
		xnodes = []float64{0, 1, 2, 0, 1, 2}
		ynodes = []float64{0, 0, 0, 1, 1, 1}
		edges  = [][2]int{
			{1, 2}, {2, 3}, {4, 5}, {5, 6}, {1, 4}, {2, 5}, {3, 6},
		}
	)
	polys := []geom.Polygon{geometry.Box(-0.5, -0.5, 1.5, 1.5)}
	xOut, yOut, edgesOut := ClipNodes(xnodes, ynodes, edges, polys, false)

	assert.Equal(t, []float64{0, 1, 0, 1}, xOut)
	assert.Equal(t, []float64{0, 0, 1, 1}, yOut)
	assert.Equal(t, [][2]int{{1, 2}, {3, 4}, {1, 3}, {2, 4}}, edgesOut)
}

func TestAltitudeConstant(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))
	require.NoError(t, r.AltitudeConstant(-2, AtFace))

	faceZ, ok := r.Geom.Floats(FaceZ)
	require.True(t, ok)
	require.Len(t, faceZ, 4)
	for _, z := range faceZ {
		assert.Equal(t, -2.0, z)
	}

	require.NoError(t, r.AltitudeConstant(math.NaN(), AtNode))
	nodeZ, ok := r.Geom.Floats(NodeZ)
	require.True(t, ok)
	assert.True(t, math.IsNaN(nodeZ[0]))
}

func TestFacesToCentroid(t *testing.T) {
	r := NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))
	require.NoError(t, r.FacesToCentroid())

	faceX, _ := r.Geom.Floats(FaceX)
	faceY, _ := r.Geom.Floats(FaceY)
	centres := make(map[[2]float64]bool)
	for i := range faceX {
		centres[[2]float64{faceX[i], faceY[i]}] = true
	}
	for _, want := range [][2]float64{
		{0.5, 0.5}, {1.5, 0.5}, {0.5, 1.5}, {1.5, 1.5},
	} {
		assert.True(t, centres[want], "missing centroid %v", want)
	}
}
