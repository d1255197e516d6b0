package weierstrass

import (
	"fmt"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/utils"
)

// LatticeSum evaluates ℘(z) = 1/z² + Σ′[1/(z-ω)² - 1/ω²] over the lattice
// points with |m|, |n| <= nMax.
func LatticeSum(z complex128, l lattice.Lattice, nMax int) (p complex128, err error) {
	if p, err = utils.SafeDiv(1, z*z); err != nil {
		return 0, fmt.Errorf("%w: z = %v", ErrPoleProximity, z)
	}
	for _, w := range l.Points(nMax) {
		d := z - w
		if d == 0 {
			return 0, fmt.Errorf("%w: z = %v", ErrPoleProximity, z)
		}
		p += 1/(d*d) - 1/(w*w)
	}
	return
}

// LatticeSumPrime evaluates ℘′(z) = -2Σ 1/(z-ω)³
func LatticeSumPrime(z complex128, l lattice.Lattice, nMax int) (pp complex128, err error) {
	var (
		d complex128
	)
	for _, w := range append(l.Points(nMax), 0) {
		if d = z - w; d == 0 {
			return 0, fmt.Errorf("%w: z = %v", ErrPoleProximity, z)
		}
		pp += 1 / (d * d * d)
	}
	pp *= -2
	return
}

// AddValues returns ℘(z1+z2) from the values at z1 and z2 by the addition
// theorem. It fails when ℘(z1) = ℘(z2), i.e. z1 = ±z2 on the torus.
func AddValues(a, b Values) (p complex128, err error) {
	var (
		ratio complex128
	)
	if ratio, err = utils.SafeDiv(a.PPrime-b.PPrime, a.P-b.P); err != nil {
		err = fmt.Errorf("addition of %v and %v: %w", a.Z, b.Z, err)
		return
	}
	p = 0.25*ratio*ratio - a.P - b.P
	return
}

// Duplicate returns ℘(2z) = (℘″/2℘′)² - 2℘. It fails at the half-periods
// where ℘′ vanishes.
func Duplicate(v Values) (p complex128, err error) {
	var (
		ratio complex128
	)
	if ratio, err = utils.SafeDiv(v.PSecond, 2*v.PPrime); err != nil {
		err = fmt.Errorf("duplication at %v: %w", v.Z, err)
		return
	}
	p = ratio*ratio - 2*v.P
	return
}
