package utils

import (
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	closeRel = 1e-5
	closeAbs = 1e-8
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// IsClose reports approximate equality with the tolerances used throughout
// the mesh construction (coordinate matching, grid coverage checks).
func IsClose(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, closeAbs, closeRel)
}
