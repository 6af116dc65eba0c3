package result

import (
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/Data-Only-Greater/d3d-cec-verify/geometry"
)

// edgeRow is one cached sample: an edge at one vertical layer of one
// loaded time step.
type edgeRow struct {
	t      int
	k      int
	p0, p1 geom.Point
	n0, n1 float64 // unit normal, oriented from the first adjacent face
	u1     float64 // edge-normal velocity
}

// EdgeSample is one edge of an extracted layer.
type EdgeSample struct {
	P0, P1 geom.Point
	N0, N1 float64
	U1     float64
}

// PointSample is an edge value located at a transect intersection.
type PointSample struct {
	Point geom.Point
	U1    float64
}

// Edges extracts results on the edges of the simulation grid. Time steps
// are loaded on first use and accumulated. Not safe for concurrent use.
type Edges struct {
	TimeStepResolver

	tSteps map[int]time.Time
	rows   []edgeRow
}

func NewEdges(mapPath string, nSteps int) *Edges {
	return &Edges{
		TimeStepResolver: TimeStepResolver{MapPath: mapPath, NSteps: nSteps},
		tSteps:           make(map[int]time.Time),
	}
}

func (e *Edges) loadTStep(t int) error {
	if _, done := e.tSteps[t]; done {
		return nil
	}
	logrus.Debugf("loading edges for time step %d from %s", t, e.MapPath)

	m, err := openMap(e.MapPath)
	if err != nil {
		return err
	}
	defer m.Close()

	times, err := m.times()
	if err != nil {
		return err
	}

	nodeX, err := m.floats("mesh2d_node_x", nil, nil)
	if err != nil {
		return err
	}
	nodeY, err := m.floats("mesh2d_node_y", nil, nil)
	if err != nil {
		return err
	}
	faceX, err := m.floats("mesh2d_face_x", nil, nil)
	if err != nil {
		return err
	}
	faceY, err := m.floats("mesh2d_face_y", nil, nil)
	if err != nil {
		return err
	}
	edgeNodes, err := m.ints("mesh2d_edge_nodes")
	if err != nil {
		return err
	}
	edgeFaces, err := m.ints("mesh2d_edge_faces")
	if err != nil {
		return err
	}
	layerSigma, err := m.floats("mesh2d_layer_sigma", nil, nil)
	if err != nil {
		return err
	}
	var (
		nEdges  = len(edgeNodes) / 2
		nLayers = len(layerSigma)
	)

	u1, err := m.floats("mesh2d_u1",
		[]int{t, 0, 0}, []int{t + 1, nEdges, nLayers})
	if err != nil {
		return err
	}

	for iedge := 0; iedge < nEdges; iedge++ {
		var (
			p0 = geom.Point{
				X: nodeX[edgeNodes[2*iedge]-1],
				Y: nodeY[edgeNodes[2*iedge]-1],
			}
			p1 = geom.Point{
				X: nodeX[edgeNodes[2*iedge+1]-1],
				Y: nodeY[edgeNodes[2*iedge+1]-1],
			}
		)
		n0, n1 := edgeNormal(p0, p1,
			edgeFaces[2*iedge], edgeFaces[2*iedge+1], faceX, faceY)

		for k := 0; k < nLayers; k++ {
			e.rows = append(e.rows, edgeRow{
				t:  t,
				k:  k,
				p0: p0,
				p1: p1,
				n0: n0,
				n1: n1,
				u1: u1[iedge*nLayers+k],
			})
		}
	}
	e.tSteps[t] = times[t]
	return nil
}

// edgeNormal orients the edge's unit normal from the first adjacent face
// toward the second. A missing neighbour (mesh exterior) is replaced by
// the edge midpoint.
func edgeNormal(p0, p1 geom.Point, face0, face1 int,
	faceX, faceY []float64) (float64, float64) {
	var (
		nx = -(p1.Y - p0.Y)
		ny = p1.X - p0.X
	)

	side := func(face int) (float64, float64) {
		iface := face - 1
		if iface < 0 || iface >= len(faceX) {
			return (p0.X + p1.X) / 2, (p0.Y + p1.Y) / 2
		}
		return faceX[iface], faceY[iface]
	}
	f0x, f0y := side(face0)
	f1x, f1y := side(face1)

	dot := (f1x-f0x)*nx + (f1y-f0y)*ny
	nx *= dot
	ny *= dot

	norm := math.Hypot(nx, ny)
	return nx / norm, ny / norm
}

// ExtractK returns every edge of the grid at the given layer, with its
// normal vector and edge-normal velocity.
func (e *Edges) ExtractK(tStep, k int) ([]EdgeSample, error) {
	t, err := e.ResolveTStep(tStep)
	if err != nil {
		return nil, err
	}
	if err := e.loadTStep(t); err != nil {
		return nil, err
	}

	var out []EdgeSample
	for _, r := range e.rows {
		if r.t != t || r.k != k {
			continue
		}
		out = append(out, EdgeSample{
			P0: r.p0,
			P1: r.p1,
			N0: r.n0,
			N1: r.n1,
			U1: r.u1,
		})
	}
	return out, nil
}

// ExtractKAlong intersects the edges of the given layer with a transect
// polyline and returns the edge-normal velocity at each crossing point.
// Coincident crossings are deduplicated.
func (e *Edges) ExtractKAlong(tStep, k int,
	line []geom.Point) ([]PointSample, error) {
	samples, err := e.ExtractK(tStep, k)
	if err != nil {
		return nil, err
	}

	var (
		out  []PointSample
		seen = make(map[geom.Point]bool)
	)
	for _, s := range samples {
		for i := 0; i+1 < len(line); i++ {
			pt, ok := geometry.SegmentIntersection(s.P0, s.P1,
				line[i], line[i+1])
			if !ok || seen[pt] {
				continue
			}
			seen[pt] = true
			out = append(out, PointSample{Point: pt, U1: s.U1})
		}
	}
	return out, nil
}
