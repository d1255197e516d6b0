package lattice

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/notargets/pqtorus/jacobi"
	"github.com/notargets/pqtorus/theta"
	"github.com/notargets/pqtorus/utils"
)

// Invariants are the Weierstrass roots and invariants of a Lattice.
// Values are read-only once computed and may be shared between goroutines.
type Invariants struct {
	Lattice    Lattice
	E1, E2, E3 float64
	M          float64 // Jacobi parameter k² = (e2-e3)/(e1-e3)
	Mp         float64 // complement 1-m = (e1-e2)/(e1-e3)
	Scale      float64 // π/(2p)
	G2, G3     float64
}

type config struct {
	modular bool
}

type Option func(*config)

// WithModularTransform evaluates the theta constants at -1/τ for lattices
// with q < p, where the direct nome approaches one.
func WithModularTransform() Option {
	return func(c *config) { c.modular = true }
}

func ComputeInvariants(p, q float64, opts ...Option) (inv Invariants, err error) {
	var (
		l Lattice
	)
	if l, err = New(p, q); err != nil {
		return
	}
	return l.Invariants(opts...)
}

// Invariants computes e1, e2, e3 from theta constants at τ = i·q/p. When a
// theta series fails to converge the invariants built from the partial sums
// are returned together with the wrapped theta.NonConvergence.
func (l Lattice) Invariants(opts ...Option) (inv Invariants, err error) {
	var (
		cfg    config
		c      theta.Constants
		thErr  error
		t2, t3 float64
		t4     float64
	)
	for _, opt := range opts {
		opt(&cfg)
	}
	if err = l.Validate(); err != nil {
		return
	}
	if cfg.modular {
		c, thErr = theta.ConstantsModular(l.Tau())
	} else {
		c, thErr = theta.ThetaConstants(l.Tau())
	}
	if thErr != nil && !errors.Is(thErr, theta.ErrNonConvergence) {
		err = fmt.Errorf("%w: %v", ErrInvalidLattice, thErr)
		return
	}
	t2, t3, t4 = real(c.T2), real(c.T3), real(c.T4)
	inv.Lattice = l
	inv.Scale = math.Pi / (2 * l.P)
	s2 := inv.Scale * inv.Scale
	inv.E1 = s2 * (utils.POW(t3, 4) + utils.POW(t4, 4)) / 3
	inv.E2 = s2 * (utils.POW(t2, 4) - utils.POW(t4, 4)) / 3
	inv.E3 = -inv.E1 - inv.E2
	if !finite(inv.E1, inv.E2, inv.E3) ||
		scalar.EqualWithinAbsOrRel(inv.E1, inv.E3, 0, utils.ROOTTOL) {
		err = fmt.Errorf("%w: degenerate roots e1 = %g, e3 = %g for %v",
			ErrInvalidLattice, inv.E1, inv.E3, l)
		return
	}
	// e2-e3 = s²θ₂⁴, e1-e2 = s²θ₄⁴ and e1-e3 = s²θ₃⁴, so both parameters keep
	// full precision when the other one is close to one
	inv.M = clamp01(utils.POW(t2/t3, 4))
	inv.Mp = clamp01(utils.POW(t4/t3, 4))
	if !scalar.EqualWithinAbs(inv.M+inv.Mp, 1, jacobi.ComplementTolerance) {
		// partial theta sums break θ₃⁴ = θ₂⁴ + θ₄⁴
		inv.Mp = 1 - inv.M
	}
	inv.G2 = -4 * (inv.E1*inv.E2 + inv.E2*inv.E3 + inv.E3*inv.E1)
	inv.G3 = 4 * inv.E1 * inv.E2 * inv.E3
	if thErr != nil {
		err = fmt.Errorf("invariants of %v: %w", l, thErr)
	}
	return
}

// Parameter is the Jacobi parameter pair (m, m') of the lattice
func (inv Invariants) Parameter() jacobi.Parameter {
	return jacobi.Parameter{M: inv.M, Mp: inv.Mp}
}

// Roots returns (e1, e2, e3)
func (inv Invariants) Roots() [3]float64 {
	return [3]float64{inv.E1, inv.E2, inv.E3}
}

// SqrtE13 is √(e1-e3), the argument scale between ℘ and sn
func (inv Invariants) SqrtE13() float64 {
	return math.Sqrt(inv.E1 - inv.E3)
}

// RootSum is e1+e2+e3, zero up to rounding
func (inv Invariants) RootSum() float64 {
	return inv.E1 + inv.E2 + inv.E3
}

// Discriminant is g2³ - 27g3²
func (inv Invariants) Discriminant() float64 {
	return utils.POW(inv.G2, 3) - 27*inv.G3*inv.G3
}

// J is Klein's invariant 1728·g2³/Δ
func (inv Invariants) J() float64 {
	return 1728 * utils.POW(inv.G2, 3) / inv.Discriminant()
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// rounding may push a parameter a hair outside [0,1]
func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
