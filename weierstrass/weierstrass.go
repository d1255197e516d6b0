// Package weierstrass evaluates the Weierstrass ℘ function of a rectangular
// lattice and its derivatives through the Jacobi representation
//
//	℘(z) = e3 + (e1-e3)/sn²(z√(e1-e3) | m)
package weierstrass

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/notargets/pqtorus/jacobi"
	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/utils"
)

const DefaultPoleWarningRadius = 1.e-9

var ErrPoleProximity = errors.New("evaluation point is near a lattice point")

// PoleProximity is a non-fatal diagnostic returned alongside a perturbed value
type PoleProximity struct {
	Z, Nearest complex128
	Distance   float64
}

func (pp *PoleProximity) Error() string {
	return fmt.Sprintf("%s: z = %v is %.3g from %v", ErrPoleProximity, pp.Z, pp.Distance, pp.Nearest)
}

func (pp *PoleProximity) Unwrap() error { return ErrPoleProximity }

type Options struct {
	PoleEpsilon       float64 // |sn| threshold for the argument perturbation
	PoleWarningRadius float64 // distance to the lattice that raises PoleProximity
}

func DefaultOptions() Options {
	return Options{
		PoleEpsilon:       jacobi.DefaultPoleEpsilon,
		PoleWarningRadius: DefaultPoleWarningRadius,
	}
}

// Function is ℘ for a fixed set of invariants. It holds no mutable state and
// may be shared between goroutines.
type Function struct {
	Inv   lattice.Invariants
	opts  Options
	param jacobi.Parameter
	e13   float64 // e1 - e3
	r     float64 // √(e1-e3)
	r3    float64 // (e1-e3)^{3/2}
}

type Values struct {
	Z                  complex128
	P, PPrime, PSecond complex128
	Perturbed          bool // sn was displaced off a zero
}

func NewFunction(inv lattice.Invariants, opts Options) (f *Function) {
	if !(opts.PoleEpsilon > 0) {
		opts.PoleEpsilon = jacobi.DefaultPoleEpsilon
	}
	if !(opts.PoleWarningRadius >= 0) {
		opts.PoleWarningRadius = DefaultPoleWarningRadius
	}
	e13 := inv.E1 - inv.E3
	f = &Function{
		Inv:   inv,
		opts:  opts,
		param: inv.Parameter(),
		e13:   e13,
		r:     math.Sqrt(e13),
		r3:    e13 * math.Sqrt(e13),
	}
	return
}

func (f *Function) Options() Options { return f.opts }

// Eval computes ℘, ℘′ and ℘″ at z. Near a lattice point the perturbed values
// are returned together with a *PoleProximity.
func (f *Function) Eval(z complex128) (v Values, err error) {
	var (
		sn, cn, dn complex128
		sn2        complex128
	)
	v.Z = z
	U := z * complex(f.r, 0)
	if sn, cn, dn, v.Perturbed, err = f.param.SnSafe(U, f.opts.PoleEpsilon); err != nil {
		return
	}
	sn2 = sn * sn
	if v.P, err = utils.SafeDiv(complex(f.e13, 0), sn2); err != nil {
		err = f.poleError(z)
		return
	}
	v.P += complex(f.Inv.E3, 0)
	if v.PPrime, err = utils.SafeDiv(complex(-2*f.r3, 0)*cn*dn, sn2*sn); err != nil {
		err = f.poleError(z)
		return
	}
	v.PSecond = 6*v.P*v.P - complex(f.Inv.G2/2, 0)
	if d := f.Inv.Lattice.DistanceToLattice(z); d <= f.opts.PoleWarningRadius {
		err = &PoleProximity{Z: z, Nearest: f.Inv.Lattice.NearestPoint(z), Distance: d}
	}
	return
}

func (f *Function) poleError(z complex128) error {
	return &PoleProximity{
		Z:        z,
		Nearest:  f.Inv.Lattice.NearestPoint(z),
		Distance: f.Inv.Lattice.DistanceToLattice(z),
	}
}

// P returns ℘(z), discarding pole diagnostics
func (f *Function) P(z complex128) complex128 {
	v, _ := f.Eval(z)
	return v.P
}

func (f *Function) PPrime(z complex128) complex128 {
	v, _ := f.Eval(z)
	return v.PPrime
}

// PSecond is 6℘² - g2/2
func (f *Function) PSecond(z complex128) complex128 {
	v, _ := f.Eval(z)
	return v.PSecond
}

// Residual is (℘′)² - 4℘³ + g2℘ + g3 at z
func (f *Function) Residual(z complex128) complex128 {
	v, _ := f.Eval(z)
	return f.ResidualOf(v)
}

func (f *Function) ResidualOf(v Values) complex128 {
	g2, g3 := complex(f.Inv.G2, 0), complex(f.Inv.G3, 0)
	return v.PPrime*v.PPrime - 4*v.P*v.P*v.P + g2*v.P + g3
}

// RelativeResidual scales the residual by the size of the terms it cancels,
// which keeps it meaningful close to the poles.
func (f *Function) RelativeResidual(v Values) float64 {
	scale := math.Max(1, math.Max(utils.Abs2(v.PPrime), 4*math.Pow(cmplx.Abs(v.P), 3)))
	return cmplx.Abs(f.ResidualOf(v)) / scale
}
