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
	"math"
	"math/cmplx"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/pqtorus/jacobi"
	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/mesh"
	"github.com/notargets/pqtorus/projection"
	"github.com/notargets/pqtorus/theta"
	"github.com/notargets/pqtorus/weierstrass"
)

type CheckResult struct {
	Name      string
	Value     float64
	Tolerance float64
	Pass      bool
}

func newCheck(name string, value, tol float64) CheckResult {
	return CheckResult{Name: name, Value: value, Tolerance: tol, Pass: value <= tol}
}

// VerifyCmd represents the verify command
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the numerical self checks for a lattice and print a pass/fail table",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			l       lattice.Lattice
			results []CheckResult
			failed  int
		)
		if l, err = latticeFromFlags(cmd); err != nil {
			return
		}
		n, _ := cmd.Flags().GetInt("gridSize")
		if results, err = RunChecks(l, n); err != nil {
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-28s %12s %12s  %s\n", "check", "value", "tolerance", "result")
		for _, r := range results {
			status := "pass"
			if !r.Pass {
				status = "FAIL"
				failed++
			}
			fmt.Fprintf(out, "%-28s %12.4e %12.4e  %s\n", r.Name, r.Value, r.Tolerance, status)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(results))
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(VerifyCmd)
	addLatticeFlags(VerifyCmd)
	VerifyCmd.Flags().IntP("gridSize", "n", 9, "samples along each side of the test grid")
}

// RunChecks evaluates the invariant, symmetry, differential equation and
// projection properties of l on an n×n grid over the period cell.
func RunChecks(l lattice.Lattice, n int) (results []CheckResult, err error) {
	var (
		inv lattice.Invariants
		f   *weierstrass.Function
	)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", mesh.ErrGridSize, n)
	}
	inv, err = l.Invariants(invariantOptions()...)
	if err != nil && !errors.Is(err, theta.ErrNonConvergence) {
		return
	}
	err = nil
	f = weierstrass.NewFunction(inv, functionOptions())
	add := func(name string, value, tol float64) {
		results = append(results, newCheck(name, value, tol))
	}
	bool2f := func(b bool) float64 {
		if b {
			return 0
		}
		return 1
	}

	add("e1 + e2 + e3", math.Abs(inv.RootSum()), 1.e-9)
	add("e1 > e2 > e3", bool2f(inv.E1 > inv.E2 && inv.E2 > inv.E3), 0)
	if inv.M > 0 && inv.Mp > 0 {
		K, Kp, _ := inv.Parameter().QuarterPeriods()
		r := inv.SqrtE13()
		add("sqrt(e1-e3)·p = K(m)", math.Abs(r*l.P-K)/K, 1.e-12)
		add("sqrt(e1-e3)·q = K(1-m)", math.Abs(r*l.Q-Kp)/Kp, 1.e-12)
	}
	if c, thErr := theta.ConstantsModular(l.Tau()); thErr == nil {
		add("theta3⁴ = theta2⁴ + theta4⁴", cmplx.Abs(theta.JacobiIdentityResidual(c)), 1.e-12)
	}
	g2, _ := lattice.EisensteinInvariants(l, 40)
	add("Eisenstein g2", math.Abs(real(g2)-inv.G2)/math.Max(1, math.Abs(inv.G2)), 1.e-3)

	var (
		even, odd, resid, pythag, modular float64
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			z := complex(2*l.P*(float64(i)+0.5)/float64(n), 2*l.Q*(float64(j)+0.5)/float64(n))
			v, _ := f.Eval(z)
			vm, _ := f.Eval(-z)
			even = math.Max(even, cmplx.Abs(vm.P-v.P))
			odd = math.Max(odd, cmplx.Abs(vm.PPrime+v.PPrime))
			resid = math.Max(resid, f.RelativeResidual(v))
			sn, cn, dn, jErr := inv.Parameter().Complex(z * complex(inv.SqrtE13(), 0))
			if jErr != nil {
				return nil, jErr
			}
			p1, p2 := jacobi.Identities(sn, cn, dn, inv.M)
			scale := math.Max(1, cmplx.Abs(sn*sn))
			pythag = math.Max(pythag, cmplx.Abs(p1)/scale)
			modular = math.Max(modular, cmplx.Abs(p2)/scale)
		}
	}
	add("℘(-z) = ℘(z)", even, 1.e-8)
	add("℘′(-z) = -℘′(z)", odd, 1.e-8)
	add("differential equation", resid, 1.e-8)
	add("sn² + cn² = 1", pythag, 1.e-10)
	add("dn² + m·sn² = 1", modular, 1.e-10)

	z0 := projection.DefaultBasepoint(l)
	ps, sErr := weierstrass.LatticeSum(z0, l, 40)
	if sErr == nil {
		add("lattice sum ℘(z0)", cmplx.Abs(ps-f.P(z0))/math.Max(1, cmplx.Abs(ps)), 1.e-4)
	}
	pr, dErr := projection.NewDefaultProjector(f, nil)
	A, bErr := projection.Build(f, z0)
	add("default projection", bool2f(dErr == nil && bErr == nil && pr.A.Equal(A)), 0)

	sq, sqErr := lattice.ComputeInvariants(l.P, l.P, invariantOptions()...)
	if sqErr == nil {
		add("square lattice g3", math.Abs(sq.G3), 1.e-6)
	}

	et, gErr := mesh.Generate(l, mesh.Options{GridSize: n, Domain: mesh.FullPeriod, Wrap: true, Offset: 0.5,
		Function: functionOptions(), Invariants: invariantOptions()})
	if gErr != nil && !errors.Is(gErr, theta.ErrNonConvergence) {
		return nil, gErr
	}
	add("wrapped mesh Euler characteristic", math.Abs(float64(et.EulerCharacteristic())), 0)
	var bad bool
	for _, v := range et.Vertices {
		bad = bad || floats.HasNaN(v[:]) || math.IsInf(floats.Norm(v[:], math.Inf(1)), 0)
	}
	add("finite vertices", bool2f(!bad), 0)
	return
}
