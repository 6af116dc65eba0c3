package mesh

import (
	"errors"
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/Data-Only-Greater/d3d-cec-verify/geometry"
)

// ErrEmptyClip reports that clipping removed every face, leaving nothing to
// mesh. The caller must not persist a mesh after this error.
var ErrEmptyClip = errors.New("clipping the grid does not leave any nodes")

// ClipMeshByPolygon clips the built mesh against the given polygon(s),
// keeping the faces inside, or outside when keepOutside is set. The
// polygon argument accepts a Polygon, a MultiPolygon, or a (nested) list
// of either.
func (m *Mesh2D) ClipMeshByPolygon(polygon interface{},
	keepOutside bool) error {
	polygons, err := geometry.AsPolygonList(polygon)
	if err != nil {
		return err
	}
	logrus.Info("clipping 2D mesh by polygon")
	return clipGeom(m.Geom, polygons, keepOutside)
}

// ClipNodes retains the nodes lying inside any of the given polygons (or
// outside all of them when keepOutside is set) and the edges with both
// endpoints retained, then iteratively strips nodes left dangling on a
// single edge. The surviving coordinates are compacted and the edge list
// remapped to the new contiguous 1-based numbering.
func ClipNodes(xnodes, ynodes []float64, edgeNodes [][2]int,
	polygons []geom.Polygon, keepOutside bool) (xOut, yOut []float64,
	edgesOut [][2]int) {
	kept := clipSelect(xnodes, ynodes, edgeNodes, polygons, keepOutside)

	nodeIDs := uniqueNodes(kept)
	remap := make(map[int]int, len(nodeIDs))
	for newID, oldID := range nodeIDs {
		remap[oldID] = newID + 1
		xOut = append(xOut, xnodes[oldID-1])
		yOut = append(yOut, ynodes[oldID-1])
	}

	edgesOut = make([][2]int, len(kept))
	for i, e := range kept {
		edgesOut[i] = [2]int{remap[e[0]], remap[e[1]]}
	}
	return
}

// clipSelect marks the nodes to keep and returns the surviving edges in the
// original 1-based numbering.
func clipSelect(xnodes, ynodes []float64, edgeNodes [][2]int,
	polygons []geom.Polygon, keepOutside bool) (kept [][2]int) {
	logrus.Info("selecting nodes within polygon")
	points := make([]geom.Point, len(xnodes))
	for i := range xnodes {
		points[i] = geom.Point{X: xnodes[i], Y: ynodes[i]}
	}

	inside := make([]bool, len(points))
	for _, poly := range polygons {
		for i, in := range geometry.PointsInPolygon(points, poly) {
			inside[i] = inside[i] || in
		}
	}
	if keepOutside {
		for i := range inside {
			inside[i] = !inside[i]
		}
	}

	// Keep edges with both endpoints marked
	for _, e := range edgeNodes {
		if inside[e[0]-1] && inside[e[1]-1] {
			kept = append(kept, e)
		}
	}

	// Strip nodes referenced by exactly one edge, repeating until none
	// remain. Each pass removes at least one edge, so this terminates.
	logrus.Info("removing edges with only a single node within the clip area")
	for {
		count := make(map[int]int)
		for _, e := range kept {
			count[e[0]]++
			count[e[1]]++
		}
		var next [][2]int
		for _, e := range kept {
			if count[e[0]] == 1 || count[e[1]] == 1 {
				continue
			}
			next = append(next, e)
		}
		if len(next) == len(kept) {
			break
		}
		kept = next
	}
	return
}

// clipGeom clips a built MeshGeom in place: nodes and edges are clipped
// against the polygons, then the faces are re-derived by checking each
// face's corner pairs against the surviving edge set. Faces with any
// missing edge are discarded; edges belonging to no surviving face are
// discarded with them. Everything is reindexed to contiguous 1-based
// numbering.
func clipGeom(g *MeshGeom, polygons []geom.Polygon, keepOutside bool) error {
	var (
		xnodes, _ = g.Floats(NodeX)
		ynodes, _ = g.Floats(NodeY)
	)
	faceX, ok := g.Floats(FaceX)
	if !ok {
		return errors.New("mesh has no face coordinates")
	}
	faceY, _ := g.Floats(FaceY)
	edgeNodes, ok := g.IntsArray(EdgeNodes)
	if !ok {
		return errors.New("mesh has no edge connectivity")
	}
	faceNodes, ok := g.IntsArray(FaceNodes)
	if !ok {
		return errors.New("mesh has no face connectivity")
	}

	edges := make([][2]int, len(edgeNodes))
	for i, e := range edgeNodes {
		edges[i] = [2]int{e[0], e[1]}
	}

	logrus.Info("clipping nodes")
	kept := clipSelect(xnodes, ynodes, edges, polygons, keepOutside)

	edgeSet := make(map[EdgeKey]bool, len(kept))
	for _, e := range kept {
		edgeSet[NewEdgeKey(e[0], e[1])] = true
	}

	// A face survives when every side, taken as an order-independent pair
	// of consecutive corners, is still present in the edge set.
	logrus.Info("removing incomplete faces")
	var (
		liveFaces [][]int
		liveX     []float64
		liveY     []float64
		faceEdges = make(map[EdgeKey]bool)
	)
	for i, corners := range faceNodes {
		live := corners
		for j, id := range corners {
			if id == FillNode {
				live = corners[:j]
				break
			}
		}
		whole := len(live) > 0
		for j := range live {
			k := NewEdgeKey(live[j], live[(j+1)%len(live)])
			if !edgeSet[k] {
				whole = false
				break
			}
		}
		if !whole {
			continue
		}
		liveFaces = append(liveFaces, corners)
		liveX = append(liveX, faceX[i])
		liveY = append(liveY, faceY[i])
		for j := range live {
			faceEdges[NewEdgeKey(live[j], live[(j+1)%len(live)])] = true
		}
	}
	if len(liveFaces) == 0 {
		return ErrEmptyClip
	}

	// Drop edges that are no longer part of any face
	var liveEdges [][2]int
	for _, e := range kept {
		if faceEdges[NewEdgeKey(e[0], e[1])] {
			liveEdges = append(liveEdges, e)
		}
	}

	// Compact the nodes still referenced by a face and remap everything
	nodeIDs := nodesOfFaces(liveFaces)
	remap := make(map[int]int, len(nodeIDs))
	var (
		newX = make([]float64, len(nodeIDs))
		newY = make([]float64, len(nodeIDs))
	)
	for newID, oldID := range nodeIDs {
		remap[oldID] = newID + 1
		newX[newID] = xnodes[oldID-1]
		newY[newID] = ynodes[oldID-1]
	}

	flatEdges := make([]int, 0, 2*len(liveEdges))
	for _, e := range liveEdges {
		flatEdges = append(flatEdges, remap[e[0]], remap[e[1]])
	}
	flatFaces := make([]int, 0, len(liveFaces)*g.Dim.MaxNumFaceNodes)
	for _, corners := range liveFaces {
		for _, id := range corners {
			if id == FillNode {
				flatFaces = append(flatFaces, FillNode)
			} else {
				flatFaces = append(flatFaces, remap[id])
			}
		}
	}

	logrus.Info("updating mesh with clipped nodes, edges and faces")
	g.Dim.NumNode = len(nodeIDs)
	g.Dim.NumEdge = len(liveEdges)
	g.Dim.NumFace = len(liveFaces)

	for _, set := range []struct {
		attr Attr
		vals []float64
	}{
		{NodeX, newX},
		{NodeY, newY},
		{FaceX, liveX},
		{FaceY, liveY},
	} {
		if err := g.SetFloats(set.attr, set.vals); err != nil {
			return err
		}
	}
	if err := g.SetInts(EdgeNodes, flatEdges); err != nil {
		return err
	}
	return g.SetInts(FaceNodes, flatFaces)
}

func uniqueNodes(edges [][2]int) (ids []int) {
	seen := make(map[int]bool)
	for _, e := range edges {
		for _, id := range e {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return
}

func nodesOfFaces(faces [][]int) (ids []int) {
	seen := make(map[int]bool)
	for _, corners := range faces {
		for _, id := range corners {
			if id == FillNode || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return
}
