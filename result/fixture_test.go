package result

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/require"

	"github.com/Data-Only-Greater/d3d-cec-verify/mesh"
)

// testMap describes the synthetic two-step map file used across the result
// tests: a 2x2 mesh over [0, 2] squared with three sigma layers.
//
//	depth(t)        = 2 + t/2
//	ucx(t, k)       = 2 + sigma_k + t
//	ucy             = 0.1
//	ucz             = 0.01
//	u1(edge, k)     = edge + k/10
//	turkin1         = 0.05 (one NaN, filled from its neighbours)
var (
	testLayerSigma     = []float64{-0.75, -0.5, -0.25}
	testInterfaceSigma = []float64{-1, -2.0 / 3, -1.0 / 3, 0}
)

func testDepth(t int) float64 { return 2 + 0.5*float64(t) }

func testUcx(t, k int) float64 { return 2 + testLayerSigma[k] + float64(t) }

// writeTestMap builds the project layout with output/FlowFM_map.nc and
// returns the project directory.
func writeTestMap(t *testing.T, withTKE bool) string {
	t.Helper()

	r := mesh.NewRectangular()
	require.NoError(t, r.GenerateGrid(0, 0, 2, 2, 1, 1))
	var (
		g            = r.Geom
		nodeX, _     = g.Floats(mesh.NodeX)
		nodeY, _     = g.Floats(mesh.NodeY)
		faceX, _     = g.Floats(mesh.FaceX)
		faceY, _     = g.Floats(mesh.FaceY)
		edgeNodes, _ = g.IntsArray(mesh.EdgeNodes)
		faceNodes, _ = g.IntsArray(mesh.FaceNodes)
	)
	var (
		nNodes      = g.Dim.NumNode
		nEdges      = g.Dim.NumEdge
		nFaces      = g.Dim.NumFace
		nLayers     = len(testLayerSigma)
		nInterfaces = len(testInterfaceSigma)
		nTimes      = 2
	)

	// Adjacent faces per edge, fill for the mesh exterior
	sides := make(map[mesh.EdgeKey][]int32)
	for i, corners := range faceNodes {
		for j := range corners {
			k := mesh.NewEdgeKey(corners[j], corners[(j+1)%len(corners)])
			sides[k] = append(sides[k], int32(i+1))
		}
	}
	edgeFaces := make([]int32, 0, 2*nEdges)
	for _, e := range edgeNodes {
		s := sides[mesh.NewEdgeKey(e[0], e[1])]
		for len(s) < 2 {
			s = append(s, -999)
		}
		edgeFaces = append(edgeFaces, s[0], s[1])
	}

	h := cdf.NewHeader(
		[]string{"time", "mesh2d_nNodes", "mesh2d_nEdges", "mesh2d_nFaces",
			"mesh2d_nLayers", "mesh2d_nInterfaces", "Two"},
		[]int{nTimes, nNodes, nEdges, nFaces, nLayers, nInterfaces, 2})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "seconds since 2001-01-01 00:00:00")
	h.AddVariable("mesh2d_node_x", []string{"mesh2d_nNodes"}, []float64{0})
	h.AddVariable("mesh2d_node_y", []string{"mesh2d_nNodes"}, []float64{0})
	h.AddVariable("mesh2d_face_x", []string{"mesh2d_nFaces"}, []float64{0})
	h.AddVariable("mesh2d_face_y", []string{"mesh2d_nFaces"}, []float64{0})
	h.AddVariable("mesh2d_edge_nodes",
		[]string{"mesh2d_nEdges", "Two"}, []int32{0})
	h.AddVariable("mesh2d_edge_faces",
		[]string{"mesh2d_nEdges", "Two"}, []int32{0})
	h.AddVariable("mesh2d_layer_sigma",
		[]string{"mesh2d_nLayers"}, []float64{0})
	h.AddVariable("mesh2d_interface_sigma",
		[]string{"mesh2d_nInterfaces"}, []float64{0})
	h.AddVariable("mesh2d_waterdepth",
		[]string{"time", "mesh2d_nFaces"}, []float64{0})
	for _, name := range []string{"mesh2d_ucx", "mesh2d_ucy", "mesh2d_ucz"} {
		h.AddVariable(name,
			[]string{"time", "mesh2d_nFaces", "mesh2d_nLayers"}, []float64{0})
	}
	h.AddVariable("mesh2d_u1",
		[]string{"time", "mesh2d_nEdges", "mesh2d_nLayers"}, []float64{0})
	if withTKE {
		h.AddVariable("mesh2d_turkin1",
			[]string{"time", "mesh2d_nEdges", "mesh2d_nInterfaces"},
			[]float64{0})
	}
	h.Define()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "output"), 0o755))
	fid, err := os.Create(filepath.Join(dir, "output", "FlowFM_map.nc"))
	require.NoError(t, err)
	defer fid.Close()

	f, err := cdf.Create(fid, h)
	require.NoError(t, err)

	put := func(name string, vals interface{}) {
		end := f.Header.Lengths(name)
		start := make([]int, len(end))
		_, err := f.Writer(name, start, end).Write(vals)
		require.NoError(t, err)
	}

	put("time", []float64{3600, 7200})
	put("mesh2d_node_x", nodeX)
	put("mesh2d_node_y", nodeY)
	put("mesh2d_face_x", faceX)
	put("mesh2d_face_y", faceY)
	put("mesh2d_layer_sigma", testLayerSigma)
	put("mesh2d_interface_sigma", testInterfaceSigma)

	flatEdges := make([]int32, 0, 2*nEdges)
	for _, e := range edgeNodes {
		flatEdges = append(flatEdges, int32(e[0]), int32(e[1]))
	}
	put("mesh2d_edge_nodes", flatEdges)
	put("mesh2d_edge_faces", edgeFaces)

	depth := make([]float64, nTimes*nFaces)
	for ti := 0; ti < nTimes; ti++ {
		for fi := 0; fi < nFaces; fi++ {
			depth[ti*nFaces+fi] = testDepth(ti)
		}
	}
	put("mesh2d_waterdepth", depth)

	var (
		ucx = make([]float64, nTimes*nFaces*nLayers)
		ucy = make([]float64, nTimes*nFaces*nLayers)
		ucz = make([]float64, nTimes*nFaces*nLayers)
	)
	for ti := 0; ti < nTimes; ti++ {
		for fi := 0; fi < nFaces; fi++ {
			for k := 0; k < nLayers; k++ {
				i := (ti*nFaces+fi)*nLayers + k
				ucx[i] = testUcx(ti, k)
				ucy[i] = 0.1
				ucz[i] = 0.01
			}
		}
	}
	put("mesh2d_ucx", ucx)
	put("mesh2d_ucy", ucy)
	put("mesh2d_ucz", ucz)

	u1 := make([]float64, nTimes*nEdges*nLayers)
	for ti := 0; ti < nTimes; ti++ {
		for ei := 0; ei < nEdges; ei++ {
			for k := 0; k < nLayers; k++ {
				u1[(ti*nEdges+ei)*nLayers+k] = float64(ei) + 0.1*float64(k)
			}
		}
	}
	put("mesh2d_u1", u1)

	if withTKE {
		tke := make([]float64, nTimes*nEdges*nInterfaces)
		for i := range tke {
			tke[i] = 0.05
		}
		tke[0] = math.NaN()
		put("mesh2d_turkin1", tke)
	}
	return dir
}
