package result

import (
	"fmt"
	"path/filepath"
	"time"
)

// Result opens a completed simulation project and exposes its output: the
// domain limits, the output timestamps and the face and edge extractors.
type Result struct {
	MapPath string
	XLim    [2]float64
	YLim    [2]float64
	Times   []time.Time
	Faces   *Faces
	Edges   *Edges
}

// NewResult reads the map file summary of the project at projectPath. The
// map file location defaults to output/FlowFM_map.nc under the project;
// pass relativeMapParts to override it.
func NewResult(projectPath string,
	relativeMapParts ...string) (*Result, error) {
	if len(relativeMapParts) == 0 {
		relativeMapParts = []string{"output", "FlowFM_map.nc"}
	}
	mapPath := filepath.Join(
		append([]string{projectPath}, relativeMapParts...)...)

	m, err := openMap(mapPath)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	nodeX, err := m.floats("mesh2d_node_x", nil, nil)
	if err != nil {
		return nil, err
	}
	nodeY, err := m.floats("mesh2d_node_y", nil, nil)
	if err != nil {
		return nil, err
	}
	times, err := m.times()
	if err != nil {
		return nil, err
	}

	r := &Result{
		MapPath: mapPath,
		XLim:    minMax(nodeX),
		YLim:    minMax(nodeY),
		Times:   times,
	}
	r.Faces = NewFaces(mapPath, len(times), r.XLim[1])
	r.Edges = NewEdges(mapPath, len(times))
	return r, nil
}

func (r *Result) String() string {
	return fmt.Sprintf("Result(mapPath=%q)", r.MapPath)
}

func minMax(vals []float64) [2]float64 {
	lim := [2]float64{vals[0], vals[0]}
	for _, v := range vals[1:] {
		if v < lim[0] {
			lim[0] = v
		}
		if v > lim[1] {
			lim[1] = v
		}
	}
	return lim
}
