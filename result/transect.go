package result

import (
	"fmt"

	"github.com/ctessum/geom"
)

// Transect is a measurement line at a fixed z-level, optionally carrying
// reference values (experimental data) at each position.
type Transect struct {
	Z      float64
	X, Y   []float64
	Values []float64
}

// NewTransect validates that the coordinate sequences (and values, when
// given) have matching lengths.
func NewTransect(z float64, x, y, values []float64) (*Transect, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"length of x and y must match (%d != %d)", len(x), len(y))
	}
	if values != nil && len(values) != len(x) {
		return nil, fmt.Errorf(
			"length of values must match x and y (%d != %d)",
			len(values), len(x))
	}
	return &Transect{Z: z, X: x, Y: y, Values: values}, nil
}

// Line returns the transect positions as a polyline.
func (t *Transect) Line() []geom.Point {
	line := make([]geom.Point, len(t.X))
	for i := range t.X {
		line[i] = geom.Point{X: t.X[i], Y: t.Y[i]}
	}
	return line
}
