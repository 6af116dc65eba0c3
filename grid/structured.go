package grid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Data-Only-Greater/d3d-cec-verify/mesh"
)

// etaPrefixLen is the width of the " ETA=" label plus the row number, which
// continuation lines must pad to.
const etaPrefixLen = 13

// makeEta formats one coordinate block of a structured grid file: one ETA
// record per grid row, five values per physical line, continuation lines
// indented under the record label.
func makeEta(xs, ys []float64,
	values func(i, j, nnums int) []float64) (lines []string) {
	for i := range ys {
		msg := fmt.Sprintf(" ETA=%5d   ", i+1)
		for j := 0; 5*j < len(xs); j++ {
			nnums := len(xs) - 5*j
			if nnums > 5 {
				nnums = 5
			}
			var fields []string
			for _, v := range values(i, j, nnums) {
				fields = append(fields, fmt.Sprintf("%.17E", v))
			}
			lines = append(lines, msg+strings.Join(fields, "   "))
			msg = strings.Repeat(" ", etaPrefixLen)
		}
	}
	return
}

// MakeEtaX formats the x-coordinate block: each row lists the x lattice
// coordinates in order.
func MakeEtaX(xs, ys []float64) []string {
	return makeEta(xs, ys, func(i, j, nnums int) []float64 {
		return xs[5*j : 5*j+nnums]
	})
}

// MakeEtaY formats the y-coordinate block: each row repeats its own y
// coordinate once per x lattice position.
func MakeEtaY(xs, ys []float64) []string {
	return makeEta(xs, ys, func(i, j, nnums int) []float64 {
		row := make([]float64, nnums)
		for k := range row {
			row[k] = ys[i]
		}
		return row
	})
}

// makeGrd assembles the full grid-coordinate file contents.
func makeGrd(xs, ys []float64) []string {
	lines := []string{
		"Coordinate System = Cartesian",
		fmt.Sprintf("%8d%8d", len(xs), len(ys)),
		" 0 0 0",
	}
	lines = append(lines, MakeEtaX(xs, ys)...)
	lines = append(lines, MakeEtaY(xs, ys)...)
	return lines
}

// makeEnc assembles the grid enclosure: the domain rectangle traced as a
// closed polygon in grid indices.
func makeEnc(xs, ys []float64) []string {
	var (
		m = len(xs) + 1
		n = len(ys) + 1
	)
	corners := [5][2]int{
		{1, 1},
		{m, 1},
		{m, n},
		{1, n},
		{1, 1},
	}
	lines := make([]string, len(corners))
	for i, c := range corners {
		lines[i] = fmt.Sprintf("%6d%6d", c[0], c[1])
	}
	return lines
}

// WriteStructuredRectangle writes the legacy structured grid file pair
// (d3d.grd and d3d.enc) for a rectangular domain (x0, y0) to (x1, y1) with
// cell sizes (dx, dy), into the given directory.
func WriteStructuredRectangle(dir string, dx, dy, x0, x1, y0, y1 float64) error {
	xs, ys := mesh.GenerateGridXY(x0, y0, x1-x0, y1-y0, dx, dy)

	grdPath := filepath.Join(dir, "d3d.grd")
	logrus.Infof("writing structured grid to %s", grdPath)
	if err := writeLines(grdPath, makeGrd(xs, ys)); err != nil {
		return err
	}

	encPath := filepath.Join(dir, "d3d.enc")
	logrus.Infof("writing grid enclosure to %s", encPath)
	return writeLines(encPath, makeEnc(xs, ys))
}

func writeLines(path string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}
