package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateGridXYExactDivision(t *testing.T) {
	xs, ys := GenerateGridXY(0, 0, 2, 2, 1, 1)
	assert.Equal(t, []float64{0, 1, 2}, xs)
	assert.Equal(t, []float64{0, 1, 2}, ys)
}

func TestGenerateGridXYIrregularLastCell(t *testing.T) {
	xs, ys := GenerateGridXY(0, 1, 1, 0.8, 0.3, 0.3)

	// First and last coordinates land exactly on the requested extent
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 1.0, xs[len(xs)-1])
	assert.Equal(t, 1.0, ys[0])
	assert.Equal(t, 1.8, ys[len(ys)-1])

	// Interior deltas equal the step, except possibly the last
	for i := 0; i < len(xs)-2; i++ {
		assert.InDelta(t, 0.3, xs[i+1]-xs[i], 1e-12)
	}
	assert.Len(t, xs, 5)
	assert.InDelta(t, 0.1, xs[4]-xs[3], 1e-12)
}

func TestGenerateGridXYCoverage(t *testing.T) {
	cases := []struct {
		x0, y0, xsize, ysize, dx, dy float64
	}{
		{0, 0, 18, 4, 1, 1},
		{0, 1, 18, 4, 0.5, 0.25},
		{-3, -3, 7.3, 2.9, 1.1, 0.7},
	}
	for _, tc := range cases {
		xs, ys := GenerateGridXY(tc.x0, tc.y0, tc.xsize, tc.ysize, tc.dx, tc.dy)
		assert.InDelta(t, tc.x0, xs[0], 1e-12)
		assert.InDelta(t, tc.x0+tc.xsize, xs[len(xs)-1], 1e-9)
		assert.InDelta(t, tc.y0, ys[0], 1e-12)
		assert.InDelta(t, tc.y0+tc.ysize, ys[len(ys)-1], 1e-9)
	}
}
