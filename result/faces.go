package result

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Data-Only-Greater/d3d-cec-verify/cases"
	"github.com/Data-Only-Greater/d3d-cec-verify/utils"
)

// faceRow is one cached sample: a face centre at one vertical layer of one
// loaded time step.
type faceRow struct {
	t     int
	x, y  float64
	z     float64 // geometric layer level, sigma scaled by the water depth
	sigma float64
	k     int
	depth float64
	u     float64
	v     float64
	w     float64
	tke   float64 // NaN when the map file has no edge turbulence table
}

// Faces extracts results at the faces of the simulation grid. Time steps
// are loaded on first use and accumulated; the cache only grows. Not safe
// for concurrent use.
type Faces struct {
	TimeStepResolver
	XMax float64

	hasTKE bool
	tSteps map[int]time.Time
	rows   []faceRow
}

func NewFaces(mapPath string, nSteps int, xmax float64) *Faces {
	return &Faces{
		TimeStepResolver: TimeStepResolver{MapPath: mapPath, NSteps: nSteps},
		XMax:             xmax,
		tSteps:           make(map[int]time.Time),
	}
}

// loadTStep pulls one full snapshot of per-face rows from the map file.
// Re-requesting an already cached step is a no-op.
func (f *Faces) loadTStep(t int) error {
	if _, done := f.tSteps[t]; done {
		return nil
	}
	logrus.Debugf("loading faces for time step %d from %s", t, f.MapPath)

	m, err := openMap(f.MapPath)
	if err != nil {
		return err
	}
	defer m.Close()

	times, err := m.times()
	if err != nil {
		return err
	}

	faceX, err := m.floats("mesh2d_face_x", nil, nil)
	if err != nil {
		return err
	}
	faceY, err := m.floats("mesh2d_face_y", nil, nil)
	if err != nil {
		return err
	}
	layerSigma, err := m.floats("mesh2d_layer_sigma", nil, nil)
	if err != nil {
		return err
	}
	var (
		nFaces  = len(faceX)
		nLayers = len(layerSigma)
	)

	depth, err := m.floats("mesh2d_waterdepth",
		[]int{t, 0}, []int{t + 1, nFaces})
	if err != nil {
		return err
	}
	vel := make(map[string][]float64, 3)
	for _, name := range []string{"mesh2d_ucx", "mesh2d_ucy", "mesh2d_ucz"} {
		if vel[name], err = m.floats(name,
			[]int{t, 0, 0}, []int{t + 1, nFaces, nLayers}); err != nil {
			return err
		}
	}

	tke := make([]float64, nFaces*nLayers)
	for i := range tke {
		tke[i] = math.NaN()
	}
	if m.has("mesh2d_turkin1") {
		f.hasTKE = true
		if tke, err = faceTKE(m, t, nFaces, nLayers, layerSigma); err != nil {
			return err
		}
	}

	for iface := 0; iface < nFaces; iface++ {
		for k := 0; k < nLayers; k++ {
			f.rows = append(f.rows, faceRow{
				t:     t,
				x:     faceX[iface],
				y:     faceY[iface],
				z:     layerSigma[k] * depth[iface],
				sigma: layerSigma[k],
				k:     k,
				depth: depth[iface],
				u:     vel["mesh2d_ucx"][iface*nLayers+k],
				v:     vel["mesh2d_ucy"][iface*nLayers+k],
				w:     vel["mesh2d_ucz"][iface*nLayers+k],
				tke:   tke[iface*nLayers+k],
			})
		}
	}
	f.tSteps[t] = times[t]
	return nil
}

// ExtractZ extracts the fields on the plane at geometric level z. With x
// and y given (both or neither) the plane is further interpolated onto the
// supplied positions.
func (f *Faces) ExtractZ(tStep int, z float64, x, y []float64) (*Plane, error) {
	return f.extract(tStep, "z", z, x, y)
}

// ExtractSigma extracts the fields on the plane at normalized vertical
// level sigma, mirroring ExtractZ.
func (f *Faces) ExtractSigma(tStep int, sigma float64,
	x, y []float64) (*Plane, error) {
	return f.extract(tStep, "sigma", sigma, x, y)
}

func (f *Faces) extract(tStep int, coord string, level float64,
	x, y []float64) (*Plane, error) {
	if (x == nil) != (y == nil) {
		return nil, errors.New("x and y must both be set")
	}

	t, err := f.ResolveTStep(tStep)
	if err != nil {
		return nil, err
	}
	if err := f.loadTStep(t); err != nil {
		return nil, err
	}

	plane, err := f.slice(t, coord, level)
	if err != nil {
		return nil, err
	}
	if x == nil {
		return plane, nil
	}
	return plane.interpAt(x, y)
}

// slice interpolates every (x, y) column of the cached table to the given
// vertical level: first the other vertical coordinate is evaluated at the
// level, then each field is interpolated along the normalized coordinate.
func (f *Faces) slice(t int, coord string, level float64) (*Plane, error) {
	var (
		other  = map[string]string{"z": "sigma", "sigma": "z"}[coord]
		fields = []string{other, "u", "v", "w"}
	)
	if f.hasTKE {
		fields = append(fields, "tke")
	}

	plane := f.newPlane(t, coord, level, fields)
	ny := len(plane.Y)

	for key, rows := range f.columns(t) {
		var (
			abscissa = make([]float64, len(rows)) // query coordinate samples
			sigma    = make([]float64, len(rows))
		)
		for i, r := range rows {
			sigma[i] = r.sigma
			if coord == "z" {
				abscissa[i] = r.z
			} else {
				abscissa[i] = r.sigma
			}
		}

		toSigma, err := newLinear1D(abscissa, sigma)
		if err != nil {
			return nil, fmt.Errorf(
				"interpolating column (%g, %g): %v", key[0], key[1], err)
		}
		atSigma := toSigma.at(level)

		ix := sort.SearchFloat64s(plane.X, key[0])
		iy := sort.SearchFloat64s(plane.Y, key[1])
		for _, name := range fields {
			vals := make([]float64, len(rows))
			for i, r := range rows {
				switch name {
				case "z":
					vals[i] = r.z
				case "sigma":
					vals[i] = r.sigma
				case "u":
					vals[i] = r.u
				case "v":
					vals[i] = r.v
				case "w":
					vals[i] = r.w
				case "tke":
					vals[i] = r.tke
				}
			}
			field, err := newLinear1D(sigma, vals)
			if err != nil {
				return nil, fmt.Errorf(
					"interpolating column (%g, %g): %v", key[0], key[1], err)
			}
			plane.Fields[name][ix*ny+iy] = field.at(atSigma)
		}
	}
	return plane, nil
}

// ExtractDepth extracts the water depth at each face centre for the
// requested time step. The depth does not vary with the vertical level.
func (f *Faces) ExtractDepth(tStep int) (*Plane, error) {
	t, err := f.ResolveTStep(tStep)
	if err != nil {
		return nil, err
	}
	if err := f.loadTStep(t); err != nil {
		return nil, err
	}

	plane := f.newPlane(t, "k", 0, []string{"depth"})
	ny := len(plane.Y)
	for key, rows := range f.columns(t) {
		ix := sort.SearchFloat64s(plane.X, key[0])
		iy := sort.SearchFloat64s(plane.Y, key[1])
		plane.Fields["depth"][ix*ny+iy] = rows[0].depth
	}
	return plane, nil
}

// newPlane builds an all-NaN gridded plane spanning the face centres of
// the cached time step.
func (f *Faces) newPlane(t int, coord string, level float64,
	fields []string) *Plane {
	var (
		xset = make(map[float64]bool)
		yset = make(map[float64]bool)
	)
	for _, r := range f.rows {
		if r.t != t {
			continue
		}
		xset[r.x] = true
		yset[r.y] = true
	}

	plane := &Plane{
		Time:   f.tSteps[t],
		Coord:  coord,
		Level:  level,
		X:      sortedKeys(xset),
		Y:      sortedKeys(yset),
		Fields: make(map[string][]float64, len(fields)),
	}
	n := len(plane.X) * len(plane.Y)
	for _, name := range fields {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = math.NaN()
		}
		plane.Fields[name] = vals
	}
	return plane
}

// columns groups the cached rows of one time step by face centre.
func (f *Faces) columns(t int) map[[2]float64][]faceRow {
	cols := make(map[[2]float64][]faceRow)
	for _, r := range f.rows {
		if r.t != t {
			continue
		}
		key := [2]float64{r.x, r.y}
		cols[key] = append(cols[key], r)
	}
	return cols
}

func sortedKeys(set map[float64]bool) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}

// ExtractTurbineCentre extracts the fields at the turbine position of the
// given single case, optionally shifted by the offsets.
func (f *Faces) ExtractTurbineCentre(tStep int, c *cases.CaseStudy,
	offsetX, offsetY, offsetZ float64) (*Plane, error) {
	if err := checkSingleCase(c); err != nil {
		return nil, err
	}
	return f.ExtractZ(tStep,
		c.TurbPosZ.At(0)+offsetZ,
		[]float64{c.TurbPosX.At(0) + offsetX},
		[]float64{c.TurbPosY.At(0) + offsetY})
}

// ExtractTurbineCentreline extracts the fields along the turbine
// centreline, stepping xStep metres downstream from the turbine position
// to the domain's maximum x value.
func (f *Faces) ExtractTurbineCentreline(tStep int, c *cases.CaseStudy,
	xStep, offsetX, offsetY, offsetZ float64) (*Plane, error) {
	if err := checkSingleCase(c); err != nil {
		return nil, err
	}

	var x []float64
	for v := c.TurbPosX.At(0) + offsetX; v < f.XMax; v += xStep {
		x = append(x, v)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf(
			"centreline start %g is beyond the domain maximum %g",
			c.TurbPosX.At(0)+offsetX, f.XMax)
	}
	if utils.IsClose(x[len(x)-1]+xStep, f.XMax) {
		x = append(x, f.XMax)
	}
	y := make([]float64, len(x))
	for i := range y {
		y[i] = c.TurbPosY.At(0) + offsetY
	}

	return f.ExtractZ(tStep, c.TurbPosZ.At(0)+offsetZ, x, y)
}

// ExtractTurbineZ extracts the z-plane intersecting the turbine centre at
// the face centres.
func (f *Faces) ExtractTurbineZ(tStep int, c *cases.CaseStudy,
	offsetZ float64) (*Plane, error) {
	if err := checkSingleCase(c); err != nil {
		return nil, err
	}
	return f.ExtractZ(tStep, c.TurbPosZ.At(0)+offsetZ, nil, nil)
}

func checkSingleCase(c *cases.CaseStudy) error {
	if c.Len() != 1 {
		return errors.New("case study must have length one")
	}
	return nil
}
