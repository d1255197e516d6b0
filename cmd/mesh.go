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
	"errors"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/pqtorus/InputParameters"
	"github.com/notargets/pqtorus/mesh"
	"github.com/notargets/pqtorus/theta"
	"github.com/notargets/pqtorus/utils"
)

type MeshReport struct {
	Title               string
	Lattice             [2]float64
	Roots               [3]float64
	M, G2, G3           float64
	GridSize            int
	Domain              string
	Wrap                bool
	Projection          [3][4]float64
	Stats               mesh.Stats
	EulerCharacteristic int
	BoundsMin           mgl64.Vec3
	BoundsMax           mgl64.Vec3
	Vertices            []mgl64.Vec3
	Faces               [][4]int
	Warning             string `json:",omitempty"`
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Sample and embed a grid on the torus, writing the vertices and faces",
	Long: `
Samples an n×n grid on the half-period rectangle (or the full cell with --full),
embeds it with the projection built at the basepoint and writes a YAML or JSON
report. Parameters come from an input file (-I) and are overridden by flags.

########################################
Title: "Test Case"
P: 2
Q: 3
GridSize: 32
Domain: full # or half
Wrap: true
Basepoint: [0.6667, 1.0] # optional
########################################`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			tp     *InputParameters.TorusParameters
			report *MeshReport
		)
		if tp, err = meshParameters(cmd); err != nil {
			return
		}
		switch prof, _ := cmd.Flags().GetString("profile"); prof {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		case "":
		default:
			return fmt.Errorf("unknown profile mode %q, want cpu or mem", prof)
		}
		verbose := viper.GetBool("verbose")
		if verbose {
			tp.Print()
		}
		start := time.Now()
		if report, err = Mesh(tp); err != nil {
			return
		}
		if verbose {
			fmt.Printf("%d vertices, %d faces in %v, %s\n",
				len(report.Vertices), len(report.Faces), time.Since(start), utils.GetMemUsage())
			fmt.Printf("perturbed samples = %d, pole warnings = %d, max relative residual = %8.3e\n",
				report.Stats.Perturbed, report.Stats.PoleWarnings, report.Stats.MaxResidual)
		}
		if report.Warning != "" {
			warnf(cmd, "warning: %s\n", report.Warning)
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			return writeReport(report, out)
		}
		return printReport(cmd, report)
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	addLatticeFlags(MeshCmd)
	MeshCmd.Flags().IntP("gridSize", "n", 32, "number of samples along each side")
	MeshCmd.Flags().Bool("wrap", false, "connect the last row and column back to the first")
	MeshCmd.Flags().Bool("full", false, "sample the full period cell instead of the half-period rectangle")
	MeshCmd.Flags().Float64("offset", 0.5, "sample offset in grid cells, 0 places a sample on the pole at z = 0")
	MeshCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with torus parameters")
	MeshCmd.Flags().StringP("output", "o", "", "report file, .yaml or .json, default is YAML on stdout")
	MeshCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
}

func meshParameters(cmd *cobra.Command) (tp *InputParameters.TorusParameters, err error) {
	var (
		data []byte
	)
	tp = InputParameters.NewTorusParameters()
	if file, _ := cmd.Flags().GetString("inputConditionsFile"); file != "" {
		if data, err = ioutil.ReadFile(file); err != nil {
			return
		}
		if err = tp.Parse(data); err != nil {
			return
		}
	}
	flags := cmd.Flags()
	if flags.Changed("p") || tp.P == 0 {
		tp.P, _ = flags.GetFloat64("p")
	}
	if flags.Changed("q") || tp.Q == 0 {
		tp.Q, _ = flags.GetFloat64("q")
	}
	if flags.Changed("degree") {
		tp.Degree, _ = flags.GetInt("degree")
	}
	if flags.Changed("convention") {
		tp.Convention, _ = flags.GetString("convention")
	}
	if flags.Changed("gridSize") {
		tp.GridSize, _ = flags.GetInt("gridSize")
	}
	if flags.Changed("wrap") {
		tp.Wrap, _ = flags.GetBool("wrap")
	}
	if full, _ := flags.GetBool("full"); full {
		tp.Domain = mesh.FullPeriod.String()
	}
	if flags.Changed("offset") {
		tp.Offset, _ = flags.GetFloat64("offset")
	}
	if w := viper.GetInt("workers"); w > 0 {
		tp.Workers = w
	}
	fo := functionOptions()
	if tp.PoleEpsilon == 0 {
		tp.PoleEpsilon = fo.PoleEpsilon
	}
	if tp.PoleRadius == 0 {
		tp.PoleRadius = fo.PoleWarningRadius
	}
	tp.Modular = tp.Modular || viper.GetBool("modular")
	err = tp.Validate()
	return
}

// Mesh generates the torus described by tp and collects the report
func Mesh(tp *InputParameters.TorusParameters) (report *MeshReport, err error) {
	var (
		opts mesh.Options
		et   *mesh.EmbeddedTorus
	)
	if opts, err = tp.MeshOptions(); err != nil {
		return
	}
	et, err = mesh.Generate(tp.Lattice(), opts)
	if err != nil && !errors.Is(err, theta.ErrNonConvergence) {
		return
	}
	report = &MeshReport{
		Title:               tp.Title,
		Lattice:             [2]float64{et.Lattice.P, et.Lattice.Q},
		Roots:               et.Invariants.Roots(),
		M:                   et.Invariants.M,
		G2:                  et.Invariants.G2,
		G3:                  et.Invariants.G3,
		GridSize:            et.GridSize,
		Domain:              et.Domain.String(),
		Wrap:                et.Wrap,
		Stats:               et.Stats,
		EulerCharacteristic: et.EulerCharacteristic(),
		Vertices:            et.Vertices,
		Faces:               et.Faces,
	}
	for i := 0; i < 3; i++ {
		report.Projection[i] = et.Projection.Row(i)
	}
	report.BoundsMin, report.BoundsMax = et.Bounds()
	if err != nil {
		report.Warning = err.Error()
	}
	return report, nil
}
