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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Data-Only-Greater/d3d-cec-verify/result"
)

type ExtractModel struct {
	ProjectDir string
	TStep      int
	Coord      string
	Level      float64
	OutFile    string
}

// ExtractCmd represents the extract command
var ExtractCmd = &cobra.Command{
	Use:   "extract <projectDir>",
	Short: "Slice a completed simulation at a fixed vertical level",
	Long: `
Extracts the face-centre fields of a completed simulation on a plane of
constant z or sigma and writes them as CSV.

d3d-cec-verify extract project -t -1 -z -1`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		em := &ExtractModel{ProjectDir: args[0], Coord: "z"}
		em.TStep, _ = cmd.Flags().GetInt("tstep")
		em.OutFile, _ = cmd.Flags().GetString("outFile")
		if cmd.Flags().Changed("sigma") {
			em.Coord = "sigma"
			em.Level, _ = cmd.Flags().GetFloat64("sigma")
		} else {
			em.Level, _ = cmd.Flags().GetFloat64("z")
		}
		if err := RunExtract(em); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(ExtractCmd)
	ExtractCmd.Flags().IntP("tstep", "t", -1, "time step to slice, negative counts from the end")
	ExtractCmd.Flags().Float64P("z", "z", -1, "z-level of the slice, in metres")
	ExtractCmd.Flags().Float64P("sigma", "s", 0, "sigma-level of the slice, overrides -z when given")
	ExtractCmd.Flags().StringP("outFile", "o", "", "CSV output file; stdout when omitted")
}

func RunExtract(em *ExtractModel) error {
	r, err := result.NewResult(em.ProjectDir)
	if err != nil {
		return err
	}

	var plane *result.Plane
	switch em.Coord {
	case "sigma":
		plane, err = r.Faces.ExtractSigma(em.TStep, em.Level, nil, nil)
	default:
		plane, err = r.Faces.ExtractZ(em.TStep, em.Level, nil, nil)
	}
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if len(em.OutFile) != 0 {
		fid, err := os.Create(em.OutFile)
		if err != nil {
			return err
		}
		defer fid.Close()
		out = fid
	}
	return writePlaneCSV(out, plane)
}

// writePlaneCSV emits one row per face-centre position with the fields in
// name order.
func writePlaneCSV(w io.Writer, p *result.Plane) error {
	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintf(w,
		"x,y,%s\n", strings.Join(names, ",")); err != nil {
		return err
	}
	ny := len(p.Y)
	for i := range p.X {
		for j := range p.Y {
			row := make([]string, 0, len(names)+2)
			row = append(row,
				fmt.Sprintf("%g", p.X[i]), fmt.Sprintf("%g", p.Y[j]))
			for _, name := range names {
				row = append(row,
					fmt.Sprintf("%g", p.Fields[name][i*ny+j]))
			}
			if _, err := fmt.Fprintln(w, strings.Join(row, ",")); err != nil {
				return err
			}
		}
	}
	return nil
}
