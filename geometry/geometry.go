// Package geometry provides the polygon containment and bounding box tests
// used when clipping generated meshes, plus segment helpers for sampling
// edge results along a transect.
package geometry

import (
	"fmt"

	"github.com/ctessum/geom"
)

// PossiblyIntersecting is a fast reject test. It returns a mask over the
// candidate bounding boxes marking those that could intersect the bounding
// box of g, expanded by buffer on all sides. Exact containment tests are
// only run on the survivors.
func PossiblyIntersecting(bounds []*geom.Bounds, g geom.Geom,
	buffer float64) (mask []bool) {
	gb := g.Bounds()
	mask = make([]bool, len(bounds))
	for i, b := range bounds {
		mask[i] = b.Min.X-buffer < gb.Max.X &&
			b.Max.X+buffer > gb.Min.X &&
			b.Min.Y-buffer < gb.Max.Y &&
			b.Max.Y+buffer > gb.Min.Y
	}
	return
}

// PointsInPolygon returns a mask aligned to points marking those inside the
// given polygon. Only the exterior ring is tested: points lying inside a
// hole still report true. Candidates are pruned with a bounding box test
// before the exact containment check.
func PointsInPolygon(points []geom.Point, polygon geom.Polygon) (mask []bool) {
	bounds := make([]*geom.Bounds, len(points))
	for i, p := range points {
		bounds[i] = &geom.Bounds{Min: p, Max: p}
	}
	mask = PossiblyIntersecting(bounds, polygon, 1e-4)

	exterior := geom.Polygon{polygon[0]}
	for i, p := range points {
		if !mask[i] {
			continue
		}
		mask[i] = p.Within(exterior) != geom.Outside
	}
	return
}

// AsPolygonList normalizes a Polygon, a MultiPolygon, or a (possibly
// nested) list of either into a flat list of simple polygons.
func AsPolygonList(geometry interface{}) ([]geom.Polygon, error) {
	switch g := geometry.(type) {
	case geom.Polygon:
		return []geom.Polygon{g}, nil
	case geom.MultiPolygon:
		return []geom.Polygon(g), nil
	case []geom.Polygon:
		return g, nil
	case []interface{}:
		var list []geom.Polygon
		for _, item := range g {
			sub, err := AsPolygonList(item)
			if err != nil {
				return nil, err
			}
			list = append(list, sub...)
		}
		return list, nil
	default:
		return nil, fmt.Errorf(
			"expected Polygon, MultiPolygon or list of either, got %T",
			geometry)
	}
}

// PolygonsBounds returns the joint bounding box of the given polygons.
func PolygonsBounds(polygons []geom.Polygon) *geom.Bounds {
	b := polygons[0].Bounds()
	bounds := &geom.Bounds{Min: b.Min, Max: b.Max}
	for _, p := range polygons[1:] {
		pb := p.Bounds()
		if pb.Min.X < bounds.Min.X {
			bounds.Min.X = pb.Min.X
		}
		if pb.Min.Y < bounds.Min.Y {
			bounds.Min.Y = pb.Min.Y
		}
		if pb.Max.X > bounds.Max.X {
			bounds.Max.X = pb.Max.X
		}
		if pb.Max.Y > bounds.Max.Y {
			bounds.Max.Y = pb.Max.Y
		}
	}
	return bounds
}

// Box returns the rectangle with the given corners as a closed polygon.
func Box(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
		{X: x0, Y: y0},
	}}
}
