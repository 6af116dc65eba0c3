package mesh

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Data-Only-Greater/d3d-cec-verify/geometry"
	"github.com/Data-Only-Greater/d3d-cec-verify/utils"
)

// Location selects the mesh entity an attribute operation applies to.
type Location int

const (
	AtFace Location = iota
	AtNode
	AtEdge
)

func (l Location) String() string {
	switch l {
	case AtFace:
		return "face"
	case AtNode:
		return "node"
	default:
		return "edge"
	}
}

// Mesh2D wraps a MeshGeom under construction. A failed construction step
// leaves no usable mesh; callers must not persist after an error.
type Mesh2D struct {
	FillValueZ float64
	Geom       *MeshGeom
}

func NewMesh2D() *Mesh2D {
	return &Mesh2D{
		FillValueZ: FillZ,
		Geom:       NewMeshGeom(MeshGeomDim{}),
	}
}

// AltitudeConstant fills the altitude attribute of every entity at the
// given location with a single repeated value. NaN acts as the "no terrain
// data" sentinel.
func (m *Mesh2D) AltitudeConstant(value float64, where Location) error {
	var (
		attr  Attr
		count int
	)
	switch where {
	case AtFace:
		attr, count = FaceZ, m.Geom.Dim.NumFace
	case AtNode:
		attr, count = NodeZ, m.Geom.Dim.NumNode
	case AtEdge:
		attr, count = EdgeZ, m.Geom.Dim.NumEdge
	}
	return m.Geom.SetFloats(attr, utils.ConstArray(count, value))
}

// FacesToCentroid recomputes the face coordinates as the centroid of each
// face's corner nodes, replacing the cell-centre positions assigned during
// generation.
func (m *Mesh2D) FacesToCentroid() error {
	var (
		nodeX, _ = m.Geom.Floats(NodeX)
		nodeY, _ = m.Geom.Floats(NodeY)
	)
	faceNodes, ok := m.Geom.IntsArray(FaceNodes)
	if !ok {
		return fmt.Errorf("mesh has no face connectivity")
	}

	faceX := make([]float64, len(faceNodes))
	faceY := make([]float64, len(faceNodes))
	for i, corners := range faceNodes {
		var sx, sy float64
		n := 0
		for _, id := range corners {
			if id == FillNode {
				continue
			}
			sx += nodeX[id-1]
			sy += nodeY[id-1]
			n++
		}
		faceX[i] = sx / float64(n)
		faceY[i] = sy / float64(n)
	}

	if err := m.Geom.SetFloats(FaceX, faceX); err != nil {
		return err
	}
	return m.Geom.SetFloats(FaceY, faceY)
}

// Rectangular builds quadrilateral meshes over rectangular extents. Face
// connectivity is derived by searching for the four corner nodes of each
// cell centre; this keeps the topology construction in-process rather than
// delegating to an external face-finding library.
type Rectangular struct {
	Mesh2D
}

func NewRectangular() *Rectangular {
	r := &Rectangular{Mesh2D: *NewMesh2D()}
	r.Geom.Dim.MaxNumFaceNodes = 4
	return r
}

// GenerateGrid generates a rectangular grid from the origin (x0, y0) and
// size (xsize, ysize) with cell sizes (dx, dy), and merges it into the
// mesh. The last row and column are shrunk when dx or dy do not divide the
// extent exactly.
func (r *Rectangular) GenerateGrid(x0, y0, xsize, ysize, dx, dy float64) error {
	geometries, err := buildGrid(x0, y0, xsize, ysize, dx, dy)
	if err != nil {
		return err
	}
	return r.Geom.AddFromOther(geometries)
}

// GenerateWithinPolygon generates a grid covering the bounding rectangle of
// the given polygon(s) and clips it, retaining only the faces whose corner
// nodes all lie inside. The polygon argument accepts a Polygon, a
// MultiPolygon, or a (nested) list of either.
func (r *Rectangular) GenerateWithinPolygon(polygon interface{},
	dx, dy float64) error {
	polygons, err := geometry.AsPolygonList(polygon)
	if err != nil {
		return err
	}

	logrus.Infof("generating grid with cell size %gx%g m", dx, dy)
	bounds := geometry.PolygonsBounds(polygons)
	x0, y0 := bounds.Min.X, bounds.Min.Y
	xsize := bounds.Max.X - bounds.Min.X
	ysize := bounds.Max.Y - bounds.Min.Y

	geometries, err := buildGrid(x0, y0, xsize, ysize, dx, dy)
	if err != nil {
		return err
	}
	if err := clipGeom(geometries, polygons, false); err != nil {
		return err
	}
	return r.Geom.AddFromOther(geometries)
}

// buildGrid constructs a standalone MeshGeom for one rectangular extent.
func buildGrid(x0, y0, xsize, ysize, dx, dy float64) (geometries *MeshGeom,
	err error) {
	xs, ys := GenerateGridXY(x0, y0, xsize, ysize, dx, dy)
	var (
		nx = len(xs)
		ny = len(ys)
	)

	// Spacing of the last row and column, which may be irregular
	c0 := xs[nx-1] - xs[nx-2]
	c1 := ys[ny-1] - ys[ny-2]

	// Nodes in row-major order, 1-based
	nodeX := make([]float64, nx*ny)
	nodeY := make([]float64, nx*ny)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			nodeX[iy*nx+ix] = xs[ix]
			nodeY[iy*nx+ix] = ys[iy]
		}
	}

	// Unit segments between lattice-adjacent nodes
	var edgeNodes []int
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx-1; ix++ {
			edgeNodes = append(edgeNodes, iy*nx+ix+1, iy*nx+ix+2)
		}
	}
	for iy := 0; iy < ny-1; iy++ {
		for ix := 0; ix < nx; ix++ {
			edgeNodes = append(edgeNodes, (iy+1)*nx+ix+1, iy*nx+ix+1)
		}
	}
	numEdge := len(edgeNodes) / 2

	// Cell centres as midpoints of consecutive lattice coordinates
	faceXs := make([]float64, nx-1)
	for i := range faceXs {
		faceXs[i] = (xs[i] + xs[i+1]) / 2
	}
	faceYs := make([]float64, ny-1)
	for i := range faceYs {
		faceYs[i] = (ys[i] + ys[i+1]) / 2
	}

	var (
		faceX, faceY []float64
		faceNodes    []int
	)
	x1 := xs[nx-1]
	y1 := ys[ny-1]
	for _, fx := range faceXs {
		for _, fy := range faceYs {
			corners, cerr := faceCorners(xs, ys, fx, fy, dx, dy, x1, y1, c0, c1)
			if cerr != nil {
				err = cerr
				return
			}
			faceX = append(faceX, fx)
			faceY = append(faceY, fy)
			faceNodes = append(faceNodes, corners[:]...)
		}
	}

	geometries = NewMeshGeom(MeshGeomDim{
		NumNode:         nx * ny,
		NumEdge:         numEdge,
		NumFace:         len(faceX),
		MaxNumFaceNodes: 4,
	})
	for _, set := range []struct {
		attr Attr
		vals []float64
	}{
		{NodeX, nodeX},
		{NodeY, nodeY},
		{FaceX, faceX},
		{FaceY, faceY},
	} {
		if err = geometries.SetFloats(set.attr, set.vals); err != nil {
			return
		}
	}
	if err = geometries.SetInts(EdgeNodes, edgeNodes); err != nil {
		return
	}
	err = geometries.SetInts(FaceNodes, faceNodes)
	return
}

// faceCorners finds the four corner node indices of the face centred at
// (fx, fy) by searching for the lattice nodes at each corner offset. The
// search window is half a cell, shrunk to the last row or column size at
// the far boundaries. A missing corner means the grid is malformed.
func faceCorners(xs, ys []float64, fx, fy, dx, dy, x1, y1, c0,
	c1 float64) (corners [4]int, err error) {
	shiftX := dx / 2
	shiftY := dy / 2

	if fx+shiftX > x1 {
		shiftX = c0 / 2
	}
	if fy+shiftY > y1 {
		shiftY = c1 / 2
	}

	search := [4][2]float64{
		{-shiftX, -shiftY},
		{shiftX, -shiftY},
		{shiftX, shiftY},
		{-shiftX, shiftY},
	}

	for i, shift := range search {
		var id int
		id, err = findNode(xs, ys, fx+shift[0], fy+shift[1])
		if err != nil {
			return
		}
		corners[i] = id
	}
	return
}

// findNode returns the 1-based row-major index of the lattice node matching
// (cx, cy) within floating tolerance.
func findNode(xs, ys []float64, cx, cy float64) (int, error) {
	ix, err := matchCoord(xs, cx)
	if err != nil {
		return 0, err
	}
	iy, err := matchCoord(ys, cy)
	if err != nil {
		return 0, err
	}
	return iy*len(xs) + ix + 1, nil
}

func matchCoord(coords []float64, v float64) (int, error) {
	found := -1
	for i, c := range coords {
		if !utils.IsClose(c, v) {
			continue
		}
		if found >= 0 {
			return 0, fmt.Errorf("multiple matching indices for %g", v)
		}
		found = i
	}
	if found < 0 {
		return 0, fmt.Errorf("corner node not found at %g", v)
	}
	return found, nil
}
