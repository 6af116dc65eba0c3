// Package grid persists generated meshes in the two on-disk formats the
// solver consumes: a CF/UGRID netCDF file for the flexible mesh engine and
// the legacy structured grid file pair.
package grid

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"

	"github.com/Data-Only-Greater/d3d-cec-verify/geometry"
	"github.com/Data-Only-Greater/d3d-cec-verify/mesh"
)

// UGRID dimension names understood by the solver GUI.
const (
	dimTwo          = "Two"
	dimMaxFaceNodes = "max_nmesh2d_face_nodes"
	dimEdges        = "mesh2d_nEdges"
	dimFaces        = "mesh2d_nFaces"
	dimNodes        = "mesh2d_nNodes"
)

// WriteFM writes the mesh to path as a CF/UGRID netCDF file. Altitude data
// must be assigned to the nodes or the faces before writing.
func WriteFM(path string, m *mesh.Mesh2D) (err error) {
	logrus.Infof("writing flexible mesh grid to %s", path)
	var w *os.File
	if w, err = os.Create(path); err != nil {
		return fmt.Errorf("creating %s: %v", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return writeFM(w, m)
}

func writeFM(w cdf.ReaderWriterAt, m *mesh.Mesh2D) error {
	g := m.Geom
	if !g.IsAllocated(mesh.NodeZ) && !g.IsAllocated(mesh.FaceZ) {
		return errors.New("assign altitude values either to nodes or faces")
	}

	h := cdf.NewHeader(
		[]string{dimTwo, dimMaxFaceNodes, dimEdges, dimFaces, dimNodes},
		[]int{2, g.Dim.MaxNumFaceNodes, g.Dim.NumEdge, g.Dim.NumFace,
			g.Dim.NumNode})
	h.AddAttribute("", "Conventions", "CF-1.8 UGRID-1.0 Deltares-0.10")

	h.AddVariable("mesh2d", []string{}, []int32{0})
	h.AddAttribute("mesh2d", "long_name", "Topology data of 2D network")
	h.AddAttribute("mesh2d", "topology_dimension", []int32{2})
	h.AddAttribute("mesh2d", "cf_role", "mesh_topology")
	h.AddAttribute("mesh2d", "node_coordinates",
		"mesh2d_node_x mesh2d_node_y")
	h.AddAttribute("mesh2d", "node_dimension", dimNodes)
	h.AddAttribute("mesh2d", "edge_coordinates",
		"mesh2d_edge_x mesh2d_edge_y")
	h.AddAttribute("mesh2d", "edge_dimension", dimEdges)
	h.AddAttribute("mesh2d", "edge_node_connectivity", "mesh2d_edge_nodes")
	h.AddAttribute("mesh2d", "face_node_connectivity", "mesh2d_face_nodes")
	h.AddAttribute("mesh2d", "max_face_nodes_dimension", dimMaxFaceNodes)
	h.AddAttribute("mesh2d", "face_dimension", dimFaces)
	h.AddAttribute("mesh2d", "face_coordinates", "mesh2d_face_x mesh2d_face_y")

	for _, v := range []struct {
		name, axis, location, dim string
	}{
		{"mesh2d_node_x", "x", "node", dimNodes},
		{"mesh2d_node_y", "y", "node", dimNodes},
		{"mesh2d_node_z", "z", "node", dimNodes},
		{"mesh2d_face_x", "x", "face", dimFaces},
		{"mesh2d_face_y", "y", "face", dimFaces},
		{"mesh2d_face_z", "z", "face", dimFaces},
	} {
		h.AddVariable(v.name, []string{v.dim}, []float64{0})
		if v.axis == "z" {
			h.AddAttribute(v.name, "standard_name", "altitude")
			h.AddAttribute(v.name, "_FillValue", []float64{mesh.FillZ})
			h.AddAttribute(v.name, "coordinates",
				fmt.Sprintf("mesh2d_%s_x mesh2d_%s_y", v.location, v.location))
		} else {
			h.AddAttribute(v.name, "standard_name",
				fmt.Sprintf("projection_%s_coordinate", v.axis))
		}
		h.AddAttribute(v.name, "units", "m")
		h.AddAttribute(v.name, "mesh", "mesh2d")
		h.AddAttribute(v.name, "location", v.location)
		h.AddAttribute(v.name, "long_name",
			fmt.Sprintf("%s-coordinate of mesh %ss", v.axis, v.location))
	}

	h.AddVariable("mesh2d_edge_nodes", []string{dimEdges, dimTwo}, []int32{0})
	h.AddAttribute("mesh2d_edge_nodes", "cf_role", "edge_node_connectivity")
	h.AddAttribute("mesh2d_edge_nodes", "long_name",
		"maps every edge to the two nodes that it connects")
	h.AddAttribute("mesh2d_edge_nodes", "start_index", []int32{1})
	h.AddAttribute("mesh2d_edge_nodes", "location", "edge")
	h.AddAttribute("mesh2d_edge_nodes", "mesh", "mesh2d")
	h.AddAttribute("mesh2d_edge_nodes", "_FillValue", []int32{mesh.FillNode})

	h.AddVariable("mesh2d_face_nodes",
		[]string{dimFaces, dimMaxFaceNodes}, []int32{0})
	h.AddAttribute("mesh2d_face_nodes", "cf_role", "face_node_connectivity")
	h.AddAttribute("mesh2d_face_nodes", "long_name",
		"maps every face to the nodes that it defines")
	h.AddAttribute("mesh2d_face_nodes", "start_index", []int32{1})
	h.AddAttribute("mesh2d_face_nodes", "location", "face")
	h.AddAttribute("mesh2d_face_nodes", "mesh", "mesh2d")
	h.AddAttribute("mesh2d_face_nodes", "_FillValue", []int32{mesh.FillNode})

	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("creating netCDF header: %v", err)
	}

	nodeX, _ := g.Floats(mesh.NodeX)
	nodeY, _ := g.Floats(mesh.NodeY)
	faceX, _ := g.Floats(mesh.FaceX)
	faceY, _ := g.Floats(mesh.FaceY)
	edgeNodes, _ := g.Ints(mesh.EdgeNodes)
	faceNodes, _ := g.Ints(mesh.FaceNodes)

	for _, v := range []struct {
		name string
		vals []float64
	}{
		{"mesh2d_node_x", nodeX},
		{"mesh2d_node_y", nodeY},
		{"mesh2d_node_z", fillAltitude(g, mesh.NodeZ, g.Dim.NumNode)},
		{"mesh2d_face_x", faceX},
		{"mesh2d_face_y", faceY},
		{"mesh2d_face_z", fillAltitude(g, mesh.FaceZ, g.Dim.NumFace)},
	} {
		if err := putFloats(f, v.name, v.vals); err != nil {
			return err
		}
	}
	if err := putInts(f, "mesh2d_edge_nodes", edgeNodes); err != nil {
		return err
	}
	return putInts(f, "mesh2d_face_nodes", faceNodes)
}

// fillAltitude returns the altitude values for the given attribute, or the
// fill value repeated when the attribute was never assigned.
func fillAltitude(g *mesh.MeshGeom, a mesh.Attr, n int) []float64 {
	if vals, ok := g.Floats(a); ok {
		return vals
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = mesh.FillZ
	}
	return vals
}

func putFloats(f *cdf.File, name string, vals []float64) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(vals); err != nil {
		return fmt.Errorf("writing %s: %v", name, err)
	}
	return nil
}

func putInts(f *cdf.File, name string, vals []int) error {
	vals32 := make([]int32, len(vals))
	for i, v := range vals {
		vals32[i] = int32(v)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(vals32); err != nil {
		return fmt.Errorf("writing %s: %v", name, err)
	}
	return nil
}

// Extent of the standard flume domain, in metres.
const (
	DefaultX0 = 0.0
	DefaultX1 = 18.0
	DefaultY0 = 1.0
	DefaultY1 = 5.0
)

// WriteFMRectangle generates a flexible mesh over the rectangular domain
// (x0, y0) to (x1, y1) with cell sizes (dx, dy) and writes it to path.
// Faces carry no terrain data; the altitude is left for the model to set.
func WriteFMRectangle(path string, dx, dy, x0, x1, y0, y1 float64) error {
	r := mesh.NewRectangular()
	poly := geometry.Box(x0, y0, x1, y1)
	if err := r.GenerateWithinPolygon(poly, dx, dy); err != nil {
		return err
	}
	if err := r.AltitudeConstant(math.NaN(), mesh.AtFace); err != nil {
		return err
	}
	return WriteFM(path, &r.Mesh2D)
}
