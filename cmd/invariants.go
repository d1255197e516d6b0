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

	"github.com/spf13/cobra"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/theta"
)

type InvariantsReport struct {
	P, Q         float64
	E1, E2, E3   float64
	M, Mp        float64
	G2, G3       float64
	Discriminant float64
	J            float64
	K, Kp        float64
	Warning      string `json:",omitempty"`
}

// InvariantsCmd represents the invariants command
var InvariantsCmd = &cobra.Command{
	Use:   "invariants",
	Short: "Print e1, e2, e3, m, g2, g3 and the quarter periods of a lattice",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			l      lattice.Lattice
			report *InvariantsReport
		)
		if l, err = latticeFromFlags(cmd); err != nil {
			return
		}
		if report, err = Invariants(l); err != nil {
			return
		}
		if report.Warning != "" {
			warnf(cmd, "warning: %s\n", report.Warning)
		}
		if eis, _ := cmd.Flags().GetInt("eisenstein"); eis > 0 {
			g2, g3 := lattice.EisensteinInvariants(l, eis)
			fmt.Fprintf(cmd.ErrOrStderr(), "Eisenstein sums (nMax = %d): g2 = %.12g, g3 = %.12g\n",
				eis, real(g2), real(g3))
		}
		return printReport(cmd, report)
	},
}

func init() {
	rootCmd.AddCommand(InvariantsCmd)
	addLatticeFlags(InvariantsCmd)
	InvariantsCmd.Flags().StringP("output", "o", "yaml", "output format: yaml or json")
	InvariantsCmd.Flags().Int("eisenstein", 0, "cross-check g2, g3 with lattice sums of this half-width")
}

// Invariants computes the report for l. A theta non-convergence becomes a
// warning on the report.
func Invariants(l lattice.Lattice) (report *InvariantsReport, err error) {
	var (
		inv lattice.Invariants
	)
	inv, err = l.Invariants(invariantOptions()...)
	if err != nil && !errors.Is(err, theta.ErrNonConvergence) {
		return
	}
	report = &InvariantsReport{
		P:            l.P,
		Q:            l.Q,
		E1:           inv.E1,
		E2:           inv.E2,
		E3:           inv.E3,
		M:            inv.M,
		Mp:           inv.Mp,
		G2:           inv.G2,
		G3:           inv.G3,
		Discriminant: inv.Discriminant(),
		J:            inv.J(),
	}
	if err != nil {
		report.Warning = err.Error()
	}
	// K' diverges at m = 1 and K at m = 0
	if inv.M > 0 && inv.Mp > 0 {
		report.K, report.Kp, err = inv.Parameter().QuarterPeriods()
	} else {
		err = nil
	}
	return
}
