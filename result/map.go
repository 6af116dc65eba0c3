package result

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ctessum/cdf"
)

// mapFile wraps read access to a solver output map file (netCDF).
type mapFile struct {
	fid *os.File
	f   *cdf.File
}

func openMap(path string) (*mapFile, error) {
	fid, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %v", path, err)
	}
	f, err := cdf.Open(fid)
	if err != nil {
		fid.Close()
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	return &mapFile{fid: fid, f: f}, nil
}

func (m *mapFile) Close() error { return m.fid.Close() }

func (m *mapFile) has(name string) bool {
	for _, v := range m.f.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// size returns the length of the variable's leading dimension.
func (m *mapFile) size(name string) int {
	return m.f.Header.Lengths(name)[0]
}

// floats reads a variable hyperslab as float64 values. Nil begin and end
// select the whole variable.
func (m *mapFile) floats(name string, begin, end []int) ([]float64, error) {
	if begin == nil {
		end = m.f.Header.Lengths(name)
		begin = make([]int, len(end))
	}
	n := 1
	for i := range end {
		n *= end[i] - begin[i]
	}
	buf := make([]float64, n)
	if _, err := m.f.Reader(name, begin, end).Read(buf); err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	return buf, nil
}

// ints reads an integer variable in full.
func (m *mapFile) ints(name string) ([]int, error) {
	end := m.f.Header.Lengths(name)
	begin := make([]int, len(end))
	n := 1
	for i := range end {
		n *= end[i] - begin[i]
	}
	buf := make([]int32, n)
	if _, err := m.f.Reader(name, begin, end).Read(buf); err != nil {
		return nil, fmt.Errorf("reading %s: %v", name, err)
	}
	out := make([]int, n)
	for i, v := range buf {
		out[i] = int(v)
	}
	return out, nil
}

// times reads the simulation output timestamps, interpreting the "seconds
// since <epoch>" units attribute.
func (m *mapFile) times() ([]time.Time, error) {
	units, _ := m.f.Header.GetAttribute("time", "units").(string)
	epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	seconds, err := m.floats("time", nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(seconds))
	for i, s := range seconds {
		out[i] = epoch.Add(time.Duration(s * float64(time.Second)))
	}
	return out, nil
}

func parseTimeUnits(units string) (time.Time, error) {
	const prefix = "seconds since "
	if !strings.HasPrefix(units, prefix) {
		return time.Time{}, fmt.Errorf(
			"unsupported time units %q", units)
	}
	epoch, err := time.Parse("2006-01-02 15:04:05",
		strings.TrimPrefix(units, prefix))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time units %q: %v", units, err)
	}
	return epoch, nil
}
