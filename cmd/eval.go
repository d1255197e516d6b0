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

	"github.com/spf13/cobra"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/theta"
	"github.com/notargets/pqtorus/weierstrass"
)

type complexValue [2]float64

func newComplexValue(z complex128) complexValue {
	return complexValue{real(z), imag(z)}
}

type EvalReport struct {
	Z, P, PPrime, PSecond complexValue
	Residual              complexValue
	Perturbed             bool
	Warnings              []string `json:",omitempty"`
}

// EvalCmd represents the eval command
var EvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate ℘, ℘′, ℘″ and the differential equation residual at z",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			l      lattice.Lattice
			report *EvalReport
		)
		if l, err = latticeFromFlags(cmd); err != nil {
			return
		}
		re, _ := cmd.Flags().GetFloat64("re")
		im, _ := cmd.Flags().GetFloat64("im")
		if report, err = Eval(l, complex(re, im)); err != nil {
			return
		}
		for _, w := range report.Warnings {
			warnf(cmd, "warning: %s\n", w)
		}
		return printReport(cmd, report)
	},
}

func init() {
	rootCmd.AddCommand(EvalCmd)
	addLatticeFlags(EvalCmd)
	EvalCmd.Flags().Float64("re", 0.5, "real part of z")
	EvalCmd.Flags().Float64("im", 0.7, "imaginary part of z")
	EvalCmd.Flags().StringP("output", "o", "yaml", "output format: yaml or json")
}

// Eval evaluates ℘ at z. Pole proximity and theta non-convergence are
// reported as warnings.
func Eval(l lattice.Lattice, z complex128) (report *EvalReport, err error) {
	var (
		inv      lattice.Invariants
		v        weierstrass.Values
		warnings []string
	)
	inv, err = l.Invariants(invariantOptions()...)
	if err != nil {
		if !errors.Is(err, theta.ErrNonConvergence) {
			return
		}
		warnings = append(warnings, err.Error())
	}
	f := weierstrass.NewFunction(inv, functionOptions())
	v, err = f.Eval(z)
	if err != nil {
		if !errors.Is(err, weierstrass.ErrPoleProximity) {
			return
		}
		warnings = append(warnings, err.Error())
	}
	report = &EvalReport{
		Z:         newComplexValue(z),
		P:         newComplexValue(v.P),
		PPrime:    newComplexValue(v.PPrime),
		PSecond:   newComplexValue(v.PSecond),
		Residual:  newComplexValue(f.ResidualOf(v)),
		Perturbed: v.Perturbed,
		Warnings:  warnings,
	}
	return report, nil
}
