package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Only-Greater/d3d-cec-verify/cases"
	"github.com/Data-Only-Greater/d3d-cec-verify/result"
)

func TestRunGridDefaults(t *testing.T) {
	dir := t.TempDir()
	gm := &GridModel{OutDir: dir, FM: true, Structured: true}
	require.NoError(t, RunGrid(gm))

	for _, name := range []string{"FlowFM_net.nc", "d3d.grd", "d3d.enc"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunGridFromCaseFile(t *testing.T) {
	dir := t.TempDir()
	cs := cases.NewCaseStudy()
	cs.DX = cases.Nums{1, 0.5}
	cs.DY = cases.Nums{1, 0.5}
	caseFile := filepath.Join(dir, "cases.yaml")
	require.NoError(t, cs.ToYAML(caseFile))

	gm := &GridModel{CaseFile: caseFile, OutDir: dir, Index: 1, FM: true}
	require.NoError(t, RunGrid(gm))

	_, err := os.Stat(filepath.Join(dir, "FlowFM_net.nc"))
	assert.NoError(t, err)
}

func TestRunGridIndexOutOfRange(t *testing.T) {
	gm := &GridModel{OutDir: t.TempDir(), Index: 1}
	err := RunGrid(gm)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestWritePlaneCSV(t *testing.T) {
	p := &result.Plane{
		Time:  time.Date(2001, 1, 1, 1, 0, 0, 0, time.UTC),
		Coord: "z",
		Level: -1,
		X:     []float64{0.5, 1.5},
		Y:     []float64{0.5},
		Fields: map[string][]float64{
			"ucx": {1.5, 2.5},
			"ucy": {0.1, 0.1},
		},
	}

	var sb strings.Builder
	require.NoError(t, writePlaneCSV(&sb, p))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x,y,ucx,ucy", lines[0])
	assert.Equal(t, "0.5,0.5,1.5,0.1", lines[1])
	assert.Equal(t, "1.5,0.5,2.5,0.1", lines[2])
}
