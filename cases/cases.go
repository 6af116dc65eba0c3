// Package cases defines the parameter records for single or multiple case
// studies: grid spacings, domain extent, turbine position and the solver
// tuning constants, with YAML round tripping for storage alongside results.
package cases

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/sirupsen/logrus"
)

// CaseStudy defines the variables of one or more case studies. Fields given
// multiple values must all have the same length; single values broadcast
// over every case.
type CaseStudy struct {
	DX    Nums `json:"dx"`    // grid spacing in x-direction, in metres
	DY    Nums `json:"dy"`    // grid spacing in y-direction, in metres
	Sigma Nums `json:"sigma"` // number of vertical layers

	X0 Nums `json:"x0"` // minimum x-value, in metres
	X1 Nums `json:"x1"` // maximum x-value, in metres
	Y0 Nums `json:"y0"` // minimum y-value, in metres
	Y1 Nums `json:"y1"` // maximum y-value, in metres

	BedLevel Nums `json:"bed_level"` // uniform bed level, in metres
	DtMax    Nums `json:"dt_max"`    // maximum time step, in seconds
	DtInit   Nums `json:"dt_init"`   // initial (or fixed) time step, in seconds

	TurbPosX Nums `json:"turb_pos_x"` // turbine x-position, in metres
	TurbPosY Nums `json:"turb_pos_y"` // turbine y-position, in metres
	TurbPosZ Nums `json:"turb_pos_z"` // turbine z-position, in metres

	// inlet boundary discharge, in cubic metres per second
	Discharge Nums `json:"discharge"`

	// uniform bed roughness coefficient, as a Manning number
	BedRoughness Nums `json:"bed_roughness"`

	HorizontalEddyViscosity   Nums `json:"horizontal_eddy_viscosity"`
	HorizontalEddyDiffusivity Nums `json:"horizontal_eddy_diffusivity"`
	VerticalEddyViscosity     Nums `json:"vertical_eddy_viscosity"`
	VerticalEddyDiffusivity   Nums `json:"vertical_eddy_diffusivity"`

	SimulateTurbines Bools `json:"simulate_turbines"`

	// turbine turbulence model, either "delft" or "canopy"
	TurbineTurbulenceModel Strings `json:"turbine_turbulence_model"`

	// canopy model coefficients
	BetaP Nums `json:"beta_p"`
	BetaD Nums `json:"beta_d"`
	CEpp  Nums `json:"c_epp"`
	CEpd  Nums `json:"c_epd"`

	HorizontalMomentumFilter Bools `json:"horizontal_momentum_filter"`

	// interval for simulation progress output, in seconds of simulation
	// time; empty disables progress output
	StatsInterval Nums `json:"stats_interval,omitempty"`

	// interval for restart file output, in seconds of simulation time
	RestartInterval Nums `json:"restart_interval"`
}

// NewCaseStudy returns a single case with the standard flume values.
func NewCaseStudy() *CaseStudy {
	return &CaseStudy{
		DX:                        Nums{1},
		DY:                        Nums{1},
		Sigma:                     Nums{3},
		X0:                        Nums{0},
		X1:                        Nums{18},
		Y0:                        Nums{1},
		Y1:                        Nums{5},
		BedLevel:                  Nums{-2},
		DtMax:                     Nums{1},
		DtInit:                    Nums{1},
		TurbPosX:                  Nums{6},
		TurbPosY:                  Nums{3},
		TurbPosZ:                  Nums{-1},
		Discharge:                 Nums{6.0574},
		BedRoughness:              Nums{0.023},
		HorizontalEddyViscosity:   Nums{1e-06},
		HorizontalEddyDiffusivity: Nums{1e-06},
		VerticalEddyViscosity:     Nums{1e-06},
		VerticalEddyDiffusivity:   Nums{1e-06},
		SimulateTurbines:          Bools{true},
		TurbineTurbulenceModel:    Strings{"delft"},
		BetaP:                     Nums{1},
		BetaD:                     Nums{1.84},
		CEpp:                      Nums{0.77},
		CEpd:                      Nums{0.13},
		HorizontalMomentumFilter:  Bools{true},
		RestartInterval:           Nums{0},
	}
}

// NewMycekStudy returns a case matching the Mycek flume experiment: the
// standard values with the domain and turbine position fixed.
func NewMycekStudy() *CaseStudy {
	return NewCaseStudy()
}

type fieldLen struct {
	name string
	n    int
}

func (c *CaseStudy) fieldLens() []fieldLen {
	return []fieldLen{
		{"dx", c.DX.Len()},
		{"dy", c.DY.Len()},
		{"sigma", c.Sigma.Len()},
		{"x0", c.X0.Len()},
		{"x1", c.X1.Len()},
		{"y0", c.Y0.Len()},
		{"y1", c.Y1.Len()},
		{"bed_level", c.BedLevel.Len()},
		{"dt_max", c.DtMax.Len()},
		{"dt_init", c.DtInit.Len()},
		{"turb_pos_x", c.TurbPosX.Len()},
		{"turb_pos_y", c.TurbPosY.Len()},
		{"turb_pos_z", c.TurbPosZ.Len()},
		{"discharge", c.Discharge.Len()},
		{"bed_roughness", c.BedRoughness.Len()},
		{"horizontal_eddy_viscosity", c.HorizontalEddyViscosity.Len()},
		{"horizontal_eddy_diffusivity", c.HorizontalEddyDiffusivity.Len()},
		{"vertical_eddy_viscosity", c.VerticalEddyViscosity.Len()},
		{"vertical_eddy_diffusivity", c.VerticalEddyDiffusivity.Len()},
		{"simulate_turbines", c.SimulateTurbines.Len()},
		{"turbine_turbulence_model", c.TurbineTurbulenceModel.Len()},
		{"beta_p", c.BetaP.Len()},
		{"beta_d", c.BetaD.Len()},
		{"c_epp", c.CEpp.Len()},
		{"c_epd", c.CEpd.Len()},
		{"horizontal_momentum_filter", c.HorizontalMomentumFilter.Len()},
		{"stats_interval", c.StatsInterval.Len()},
		{"restart_interval", c.RestartInterval.Len()},
	}
}

// Validate checks that every multi-valued field has the same length.
func (c *CaseStudy) Validate() error {
	var multi []fieldLen
	for _, f := range c.fieldLens() {
		if f.n > 1 {
			multi = append(multi, f)
		}
	}
	if len(multi) < 2 {
		return nil
	}
	want := multi[0].n
	equal := true
	for _, f := range multi[1:] {
		if f.n != want {
			equal = false
			break
		}
	}
	if equal {
		return nil
	}

	var b strings.Builder
	b.WriteString("multi valued variables have non-equal lengths:")
	for _, f := range multi {
		fmt.Fprintf(&b, "\n%28s: %d", f.name, f.n)
	}
	return fmt.Errorf("%s", b.String())
}

// Len returns the number of cases the record represents.
func (c *CaseStudy) Len() int {
	for _, f := range c.fieldLens() {
		if f.n > 1 {
			return f.n
		}
	}
	return 1
}

// At returns the single case at the given index. Negative indices count
// from the end.
func (c *CaseStudy) At(index int) (*CaseStudy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.Len()
	if index < -n || index > n-1 {
		return nil, fmt.Errorf("index %d out of range for %d cases", index, n)
	}
	if index < 0 {
		index += n
	}

	single := &CaseStudy{
		DX:                        numAt(c.DX, index),
		DY:                        numAt(c.DY, index),
		Sigma:                     numAt(c.Sigma, index),
		X0:                        numAt(c.X0, index),
		X1:                        numAt(c.X1, index),
		Y0:                        numAt(c.Y0, index),
		Y1:                        numAt(c.Y1, index),
		BedLevel:                  numAt(c.BedLevel, index),
		DtMax:                     numAt(c.DtMax, index),
		DtInit:                    numAt(c.DtInit, index),
		TurbPosX:                  numAt(c.TurbPosX, index),
		TurbPosY:                  numAt(c.TurbPosY, index),
		TurbPosZ:                  numAt(c.TurbPosZ, index),
		Discharge:                 numAt(c.Discharge, index),
		BedRoughness:              numAt(c.BedRoughness, index),
		HorizontalEddyViscosity:   numAt(c.HorizontalEddyViscosity, index),
		HorizontalEddyDiffusivity: numAt(c.HorizontalEddyDiffusivity, index),
		VerticalEddyViscosity:     numAt(c.VerticalEddyViscosity, index),
		VerticalEddyDiffusivity:   numAt(c.VerticalEddyDiffusivity, index),
		SimulateTurbines:          boolAt(c.SimulateTurbines, index),
		TurbineTurbulenceModel:    stringAt(c.TurbineTurbulenceModel, index),
		BetaP:                     numAt(c.BetaP, index),
		BetaD:                     numAt(c.BetaD, index),
		CEpp:                      numAt(c.CEpp, index),
		CEpd:                      numAt(c.CEpd, index),
		HorizontalMomentumFilter:  boolAt(c.HorizontalMomentumFilter, index),
		StatsInterval:             numAt(c.StatsInterval, index),
		RestartInterval:           numAt(c.RestartInterval, index),
	}
	return single, nil
}

func numAt(v Nums, i int) Nums {
	if len(v) == 0 {
		return nil
	}
	return Nums{v.At(i)}
}

func boolAt(v Bools, i int) Bools {
	if len(v) == 0 {
		return nil
	}
	return Bools{v.At(i)}
}

func stringAt(v Strings, i int) Strings {
	if len(v) == 0 {
		return nil
	}
	return Strings{v.At(i)}
}

// FromYAML reads a case study from a YAML file.
func FromYAML(path string) (*CaseStudy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	c := new(CaseStudy)
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ToYAML writes the case study to a YAML file.
func (c *CaseStudy) ToYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	logrus.Infof("writing case study to %s", path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}
