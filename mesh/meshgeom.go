// Package mesh builds 2-D quadrilateral meshes for rectangular flume
// domains: a regular node lattice, edge and face connectivity derived by
// corner search, optional clipping against arbitrary polygons, and a typed
// multi-array container that accumulates the result for the file writers.
package mesh

import (
	"fmt"
)

const (
	// FillNode marks an unused slot in a face-node connectivity row, for
	// faces with fewer corners than MaxNumFaceNodes.
	FillNode = -999
	// FillZ is the altitude fill value understood by the mesh consumers.
	FillZ = -999.0
)

// MeshGeomDim carries the dimension counters that govern attribute sizes.
type MeshGeomDim struct {
	NumNode         int
	NumEdge         int
	NumFace         int
	MaxNumFaceNodes int
}

// Attr enumerates the attribute slots of a MeshGeom. The set is fixed at
// compile time; each attribute's size is the product of the dimensions
// declared for it in attrSpecs.
type Attr int

const (
	NodeX Attr = iota
	NodeY
	NodeZ
	EdgeX
	EdgeY
	EdgeZ
	FaceX
	FaceY
	FaceZ
	EdgeNodes
	FaceNodes
	numAttrs
)

type dim int

const (
	dimNode dim = iota
	dimEdge
	dimFace
	dimMaxFaceNodes
	dimTwo // literal 2, the endpoints of an edge
)

type attrSpec struct {
	name    string
	dims    []dim
	isInt   bool // integer-valued (connectivity) rather than coordinate
	isIndex bool // values are 1-based node references, shifted on merge
}

var attrSpecs = [numAttrs]attrSpec{
	NodeX:     {name: "nodex", dims: []dim{dimNode}},
	NodeY:     {name: "nodey", dims: []dim{dimNode}},
	NodeZ:     {name: "nodez", dims: []dim{dimNode}},
	EdgeX:     {name: "edgex", dims: []dim{dimEdge}},
	EdgeY:     {name: "edgey", dims: []dim{dimEdge}},
	EdgeZ:     {name: "edgez", dims: []dim{dimEdge}},
	FaceX:     {name: "facex", dims: []dim{dimFace}},
	FaceY:     {name: "facey", dims: []dim{dimFace}},
	FaceZ:     {name: "facez", dims: []dim{dimFace}},
	EdgeNodes: {name: "edge_nodes", dims: []dim{dimEdge, dimTwo}, isInt: true, isIndex: true},
	FaceNodes: {name: "face_nodes", dims: []dim{dimFace, dimMaxFaceNodes}, isInt: true, isIndex: true},
}

func (a Attr) String() string { return attrSpecs[a].name }

// MeshGeom is a dynamically sized struct-of-arrays mesh container. Attribute
// arrays are allocated lazily on first write and sized from the dimension
// counters current at that moment; a size mismatch on assignment is an
// error, never silently truncated.
type MeshGeom struct {
	Dim MeshGeomDim

	floats    [numAttrs][]float64
	ints      [numAttrs][]int
	allocated [numAttrs]bool
}

func NewMeshGeom(dim MeshGeomDim) *MeshGeom {
	return &MeshGeom{Dim: dim}
}

func (m *MeshGeom) dimLen(d dim) int {
	switch d {
	case dimNode:
		return m.Dim.NumNode
	case dimEdge:
		return m.Dim.NumEdge
	case dimFace:
		return m.Dim.NumFace
	case dimMaxFaceNodes:
		return m.Dim.MaxNumFaceNodes
	default:
		return 2
	}
}

// Size returns the required length of the attribute's backing array given
// the current dimension counters.
func (m *MeshGeom) Size(a Attr) int {
	size := 1
	for _, d := range attrSpecs[a].dims {
		size *= m.dimLen(d)
	}
	return size
}

// Allocate sizes the attribute's backing array, discarding prior contents.
func (m *MeshGeom) Allocate(a Attr) {
	n := m.Size(a)
	if attrSpecs[a].isInt {
		m.ints[a] = make([]int, n)
	} else {
		m.floats[a] = make([]float64, n)
	}
	m.allocated[a] = true
}

// IsAllocated reports whether the attribute has been written.
func (m *MeshGeom) IsAllocated(a Attr) bool { return m.allocated[a] }

// SetFloats allocates and bulk-assigns a coordinate attribute. The value
// count must equal the size computed from the current dimensions.
func (m *MeshGeom) SetFloats(a Attr, values []float64) error {
	if attrSpecs[a].isInt {
		panic(fmt.Sprintf("attribute %q is integer valued", a))
	}
	if size := m.Size(a); size != len(values) {
		return fmt.Errorf(
			"size of values (%d) does not match allocated size (%d) for %q",
			len(values), size, a)
	}
	m.floats[a] = append([]float64(nil), values...)
	m.allocated[a] = true
	return nil
}

// SetInts allocates and bulk-assigns a connectivity attribute.
func (m *MeshGeom) SetInts(a Attr, values []int) error {
	if !attrSpecs[a].isInt {
		panic(fmt.Sprintf("attribute %q is float valued", a))
	}
	if size := m.Size(a); size != len(values) {
		return fmt.Errorf(
			"size of values (%d) does not match allocated size (%d) for %q",
			len(values), size, a)
	}
	m.ints[a] = append([]int(nil), values...)
	m.allocated[a] = true
	return nil
}

// Floats returns the stored values of a coordinate attribute. The second
// return is false when the attribute was never allocated; that is a normal
// outcome for optional attributes, not an error.
func (m *MeshGeom) Floats(a Attr) ([]float64, bool) {
	if attrSpecs[a].isInt {
		panic(fmt.Sprintf("attribute %q is integer valued", a))
	}
	if !m.allocated[a] {
		return nil, false
	}
	return m.floats[a], true
}

// Ints returns the stored values of a connectivity attribute, flattened.
func (m *MeshGeom) Ints(a Attr) ([]int, bool) {
	if !attrSpecs[a].isInt {
		panic(fmt.Sprintf("attribute %q is float valued", a))
	}
	if !m.allocated[a] {
		return nil, false
	}
	return m.ints[a], true
}

// IntsArray returns a connectivity attribute reshaped to its declared
// two-dimensional form (rows by the leading dimension).
func (m *MeshGeom) IntsArray(a Attr) ([][]int, bool) {
	flat, ok := m.Ints(a)
	if !ok {
		return nil, false
	}
	spec := attrSpecs[a]
	cols := m.dimLen(spec.dims[len(spec.dims)-1])
	rows := len(flat) / cols
	out := make([][]int, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols]
	}
	return out, true
}

// AddFromOther merges another mesh into this one. Dimension counters are
// summed and attribute arrays concatenated; node references in the incoming
// connectivity are shifted by the pre-merge node count so they stay valid in
// the combined mesh. The fill sentinel is never shifted. Meshes with
// differing MaxNumFaceNodes cannot be merged.
func (m *MeshGeom) AddFromOther(other *MeshGeom) error {
	if m.Empty() {
		m.Dim.MaxNumFaceNodes = other.Dim.MaxNumFaceNodes
	}
	if m.Dim.MaxNumFaceNodes != other.Dim.MaxNumFaceNodes {
		return fmt.Errorf(
			"the maximum number of face nodes differs between the meshes "+
				"(%d != %d)", m.Dim.MaxNumFaceNodes, other.Dim.MaxNumFaceNodes)
	}

	startNode := m.Dim.NumNode
	m.Dim.NumNode += other.Dim.NumNode
	m.Dim.NumEdge += other.Dim.NumEdge
	m.Dim.NumFace += other.Dim.NumFace

	for a := Attr(0); a < numAttrs; a++ {
		if !other.allocated[a] {
			continue
		}
		spec := attrSpecs[a]
		if spec.isInt {
			combined := append([]int(nil), m.ints[a]...)
			for _, v := range other.ints[a] {
				if spec.isIndex && v != FillNode {
					v += startNode
				}
				combined = append(combined, v)
			}
			if size := m.Size(a); size != len(combined) {
				return fmt.Errorf(
					"size of values (%d) does not match allocated size (%d) "+
						"for %q after merge", len(combined), size, a)
			}
			m.ints[a] = combined
		} else {
			combined := append([]float64(nil), m.floats[a]...)
			combined = append(combined, other.floats[a]...)
			if size := m.Size(a); size != len(combined) {
				return fmt.Errorf(
					"size of values (%d) does not match allocated size (%d) "+
						"for %q after merge", len(combined), size, a)
			}
			m.floats[a] = combined
		}
		m.allocated[a] = true
	}
	return nil
}

// Empty reports whether the mesh has no nodes.
func (m *MeshGeom) Empty() bool { return m.Dim.NumNode == 0 }
