package weierstrass

import (
	"errors"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/theta"
)

// ForLattice computes the invariants of (p, q) and returns ℘ for them. A
// theta non-convergence is returned with a usable Function.
func ForLattice(p, q float64, opts Options, invOpts ...lattice.Option) (f *Function, err error) {
	var (
		inv lattice.Invariants
	)
	inv, err = lattice.ComputeInvariants(p, q, invOpts...)
	if err != nil && !errors.Is(err, theta.ErrNonConvergence) {
		return
	}
	f = NewFunction(inv, opts)
	return
}

func evalAt(z complex128, p, q float64) (f *Function, v Values, err error) {
	var (
		evalErr error
	)
	if f, err = ForLattice(p, q, DefaultOptions()); f == nil {
		return
	}
	v, evalErr = f.Eval(z)
	err = errors.Join(err, evalErr)
	return
}

// Wp returns ℘(z) for the lattice with half-periods p and q·i
func Wp(z complex128, p, q float64) (complex128, error) {
	_, v, err := evalAt(z, p, q)
	return v.P, err
}

func WpPrime(z complex128, p, q float64) (complex128, error) {
	_, v, err := evalAt(z, p, q)
	return v.PPrime, err
}

// VerifyDifferentialEquation returns (℘′)² - 4℘³ + g2℘ + g3 at z
func VerifyDifferentialEquation(z complex128, p, q float64) (complex128, error) {
	f, v, err := evalAt(z, p, q)
	if f == nil {
		return 0, err
	}
	return f.ResidualOf(v), err
}
