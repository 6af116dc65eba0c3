package result

import (
	"math"
)

// faceTKE maps the turbulent kinetic energy stored at the edges onto the
// face centres for one time step, returning row-major face-by-layer values.
// The map file stores the quantity per edge and vertical interface; it is
// first interpolated onto the layer levels per edge, then each face takes
// the quadrilateral-centre average of its edges with equal 0.25 weight.
// Faces on the mesh exterior have fewer than four edges and keep the same
// weight, biasing their estimate low.
func faceTKE(m *mapFile, t, nFaces, nLayers int,
	layerSigma []float64) ([]float64, error) {
	interfaceSigma, err := m.floats("mesh2d_interface_sigma", nil, nil)
	if err != nil {
		return nil, err
	}
	nInterfaces := len(interfaceSigma)

	edgeNodes, err := m.ints("mesh2d_edge_nodes")
	if err != nil {
		return nil, err
	}
	edgeFaces, err := m.ints("mesh2d_edge_faces")
	if err != nil {
		return nil, err
	}
	nodeX, err := m.floats("mesh2d_node_x", nil, nil)
	if err != nil {
		return nil, err
	}
	nodeY, err := m.floats("mesh2d_node_y", nil, nil)
	if err != nil {
		return nil, err
	}
	nEdges := len(edgeNodes) / 2

	turkin, err := m.floats("mesh2d_turkin1",
		[]int{t, 0, 0}, []int{t + 1, nEdges, nInterfaces})
	if err != nil {
		return nil, err
	}

	// Edge midpoints for the nearest-neighbour fill
	var (
		midX = make([]float64, nEdges)
		midY = make([]float64, nEdges)
	)
	for e := 0; e < nEdges; e++ {
		var (
			n0 = edgeNodes[2*e] - 1
			n1 = edgeNodes[2*e+1] - 1
		)
		midX[e] = (nodeX[n0] + nodeX[n1]) / 2
		midY[e] = (nodeY[n0] + nodeY[n1]) / 2
	}

	// Missing values are filled from the nearest edge at the same
	// interface level before any averaging.
	for l := 0; l < nInterfaces; l++ {
		var known []int
		for e := 0; e < nEdges; e++ {
			if !math.IsNaN(turkin[e*nInterfaces+l]) {
				known = append(known, e)
			}
		}
		if len(known) == 0 || len(known) == nEdges {
			continue
		}
		for e := 0; e < nEdges; e++ {
			if !math.IsNaN(turkin[e*nInterfaces+l]) {
				continue
			}
			best, bestDist := -1, math.Inf(1)
			for _, o := range known {
				var (
					dx = midX[o] - midX[e]
					dy = midY[o] - midY[e]
					d  = dx*dx + dy*dy
				)
				if d < bestDist {
					best, bestDist = o, d
				}
			}
			turkin[e*nInterfaces+l] = turkin[best*nInterfaces+l]
		}
	}

	// Interpolate each edge's interface values onto the layer levels
	edgeLayer := make([]float64, nEdges*nLayers)
	for e := 0; e < nEdges; e++ {
		f, err := newLinear1D(interfaceSigma,
			turkin[e*nInterfaces:(e+1)*nInterfaces])
		if err != nil {
			for k := 0; k < nLayers; k++ {
				edgeLayer[e*nLayers+k] = math.NaN()
			}
			continue
		}
		for k := 0; k < nLayers; k++ {
			edgeLayer[e*nLayers+k] = f.at(layerSigma[k])
		}
	}

	// Quadrilateral-centre average onto the faces
	out := make([]float64, nFaces*nLayers)
	for e := 0; e < nEdges; e++ {
		for _, side := range [2]int{edgeFaces[2*e], edgeFaces[2*e+1]} {
			iface := side - 1
			if iface < 0 || iface >= nFaces {
				continue
			}
			for k := 0; k < nLayers; k++ {
				out[iface*nLayers+k] += 0.25 * edgeLayer[e*nLayers+k]
			}
		}
	}
	return out, nil
}
