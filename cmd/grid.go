/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Data-Only-Greater/d3d-cec-verify/cases"
	"github.com/Data-Only-Greater/d3d-cec-verify/grid"
)

type GridModel struct {
	CaseFile   string
	OutDir     string
	Index      int
	Structured bool
	FM         bool
}

// GridCmd represents the grid command
var GridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Write grid files for a rectangular flume domain",
	Long: `
Writes the grid files for one case of a case study: a UGRID flexible
mesh network file, legacy structured grid files, or both.

d3d-cec-verify grid -c cases.yaml -o project`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			gm  = &GridModel{}
		)
		if gm.CaseFile, err = cmd.Flags().GetString("caseFile"); err != nil {
			panic(err)
		}
		if gm.OutDir, err = cmd.Flags().GetString("outDir"); err != nil {
			panic(err)
		}
		gm.Index, _ = cmd.Flags().GetInt("index")
		gm.Structured, _ = cmd.Flags().GetBool("structured")
		gm.FM, _ = cmd.Flags().GetBool("fm")
		if err = RunGrid(gm); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(GridCmd)
	GridCmd.Flags().StringP("caseFile", "c", "", "YAML case study file; the standard flume case when omitted")
	GridCmd.Flags().StringP("outDir", "o", ".", "directory to write the grid files into")
	GridCmd.Flags().IntP("index", "i", 0, "which case of a multi valued study to use")
	GridCmd.Flags().Bool("structured", false, "write legacy structured grid files (d3d.grd, d3d.enc)")
	GridCmd.Flags().Bool("fm", true, "write the flexible mesh network file (FlowFM_net.nc)")
}

func RunGrid(gm *GridModel) error {
	cs := cases.NewCaseStudy()
	if len(gm.CaseFile) != 0 {
		var err error
		if cs, err = cases.FromYAML(gm.CaseFile); err != nil {
			return err
		}
	}
	if err := cs.Validate(); err != nil {
		return err
	}
	c, err := cs.At(gm.Index)
	if err != nil {
		return err
	}

	var (
		dx, dy = c.DX.At(0), c.DY.At(0)
		x0, x1 = c.X0.At(0), c.X1.At(0)
		y0, y1 = c.Y0.At(0), c.Y1.At(0)
	)
	if gm.FM {
		path := filepath.Join(gm.OutDir, "FlowFM_net.nc")
		if err := grid.WriteFMRectangle(
			path, dx, dy, x0, x1, y0, y1); err != nil {
			return err
		}
		logrus.WithField("path", path).Info("wrote flexible mesh network")
	}
	if gm.Structured {
		if err := grid.WriteStructuredRectangle(
			gm.OutDir, dx, dy, x0, x1, y0, y1); err != nil {
			return err
		}
		logrus.WithField("dir", gm.OutDir).Info("wrote structured grid")
	}
	return nil
}
