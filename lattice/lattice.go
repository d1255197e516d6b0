// Package lattice describes rectangular lattices and their Weierstrass
// invariants.
//
// A Lattice{P, Q} has half-periods ω₁ = P and ω₃ = Q·i. The periods of the
// associated ℘ are 2P and 2Q·i, so ℘ has its poles on 2Pℤ + 2Qiℤ.
package lattice

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidLattice = errors.New("invalid lattice")

type Lattice struct {
	P, Q float64
}

func New(p, q float64) (l Lattice, err error) {
	l = Lattice{P: p, Q: q}
	err = l.Validate()
	return
}

func (l Lattice) Validate() error {
	check := func(name string, v float64) error {
		switch {
		case math.IsNaN(v), math.IsInf(v, 0):
			return fmt.Errorf("%w: %s = %v is not finite", ErrInvalidLattice, name, v)
		case v <= 0:
			return fmt.Errorf("%w: %s = %v must be positive", ErrInvalidLattice, name, v)
		}
		return nil
	}
	if err := check("p", l.P); err != nil {
		return err
	}
	return check("q", l.Q)
}

// Tau is the period ratio ω₃/ω₁ = i·q/p
func (l Lattice) Tau() complex128 {
	return complex(0, l.Q/l.P)
}

func (l Lattice) HalfPeriods() (w1, w3 complex128) {
	return complex(l.P, 0), complex(0, l.Q)
}

func (l Lattice) Periods() (p1, p2 complex128) {
	return complex(2*l.P, 0), complex(0, 2*l.Q)
}

// Point returns m·2p + n·2qi
func (l Lattice) Point(m, n int) complex128 {
	return complex(2*l.P*float64(m), 2*l.Q*float64(n))
}

// Points lists the nonzero lattice points with |m|, |n| <= nMax
func (l Lattice) Points(nMax int) (pts []complex128) {
	if nMax < 1 {
		return
	}
	pts = make([]complex128, 0, (2*nMax+1)*(2*nMax+1)-1)
	for m := -nMax; m <= nMax; m++ {
		for n := -nMax; n <= nMax; n++ {
			if m == 0 && n == 0 {
				continue
			}
			pts = append(pts, l.Point(m, n))
		}
	}
	return
}

func (l Lattice) NearestPoint(z complex128) complex128 {
	m := math.Round(real(z) / (2 * l.P))
	n := math.Round(imag(z) / (2 * l.Q))
	return complex(2*l.P*m, 2*l.Q*n)
}

func (l Lattice) DistanceToLattice(z complex128) float64 {
	d := z - l.NearestPoint(z)
	return math.Hypot(real(d), imag(d))
}

func (l Lattice) String() string {
	return fmt.Sprintf("L(ω₁=%g, ω₃=%gi)", l.P, l.Q)
}

type Convention uint8

const (
	PrimaryDegreeZero     Convention = iota // L_0 is primary, L_d has half-periods p^-d, q^-d
	PrimaryDegreeMinusOne                   // L_-1 is primary, L_d has half-periods p^-(d+1), q^-(d+1)
)

var ConventionNameMap = map[string]Convention{
	"zero":     PrimaryDegreeZero,
	"0":        PrimaryDegreeZero,
	"minusone": PrimaryDegreeMinusOne,
	"-1":       PrimaryDegreeMinusOne,
}

func NewConvention(label string) (c Convention, err error) {
	var ok bool
	if c, ok = ConventionNameMap[label]; !ok {
		err = fmt.Errorf("unknown degree convention %q", label)
	}
	return
}

// Sublattice returns L_d for the given degree convention
func (l Lattice) Sublattice(d int, conv Convention) (ld Lattice, err error) {
	var (
		exp int
	)
	switch conv {
	case PrimaryDegreeZero:
		if d < 0 {
			err = fmt.Errorf("%w: degree %d must be non-negative", ErrInvalidLattice, d)
			return
		}
		exp = d
	case PrimaryDegreeMinusOne:
		if d < -1 {
			err = fmt.Errorf("%w: degree %d must be >= -1", ErrInvalidLattice, d)
			return
		}
		exp = d + 1
	default:
		err = fmt.Errorf("unknown degree convention %d", conv)
		return
	}
	if err = l.Validate(); err != nil {
		return
	}
	if exp == 0 {
		return l, nil
	}
	ld = Lattice{
		P: math.Pow(l.P, -float64(exp)),
		Q: math.Pow(l.Q, -float64(exp)),
	}
	err = ld.Validate()
	return
}
