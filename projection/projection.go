// Package projection builds the lattice-aligned 3×4 matrix that embeds the
// torus ℂ/Λ in ℝ³ through (℘, ℘′).
package projection

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/utils"
	"github.com/notargets/pqtorus/weierstrass"
)

var ErrBasepoint = errors.New("unusable projection basepoint")

// DefaultBasepoint is p/3 + i·q/3, clear of the lattice points
func DefaultBasepoint(l lattice.Lattice) complex128 {
	return complex(l.P/3, l.Q/3)
}

// Build constructs the rows a1 = p(y1, y2, y1′, y2′), a2 = q(-y2, y1, -y2′, y1′)
// from y = ℘′(z0) and y′ = ℘″(z0).
func Build(f *weierstrass.Function, z0 complex128) (A *Matrix3x4, err error) {
	var (
		v    weierstrass.Values
		p, q = f.Inv.Lattice.P, f.Inv.Lattice.Q
	)
	if v, err = f.Eval(z0); err != nil {
		err = fmt.Errorf("%w: z0 = %v: %w", ErrBasepoint, z0, err)
		return
	}
	if utils.IsBad(v.PPrime) || utils.IsBad(v.PSecond) {
		err = fmt.Errorf("%w: z0 = %v: non-finite derivatives", ErrBasepoint, z0)
		return
	}
	y1, y2 := real(v.PPrime), imag(v.PPrime)
	y1p, y2p := real(v.PSecond), imag(v.PSecond)
	A = NewMatrix3x4(
		[4]float64{p * y1, p * y2, p * y1p, p * y2p},
		[4]float64{-q * y2, q * y1, -q * y2p, q * y1p},
	)
	return
}

func BuildProjectionMatrix(p, q float64, z0 complex128) (A *Matrix3x4, err error) {
	var (
		f *weierstrass.Function
	)
	if f, err = weierstrass.ForLattice(p, q, weierstrass.DefaultOptions()); f == nil {
		return
	}
	var bErr error
	A, bErr = Build(f, z0)
	err = errors.Join(err, bErr)
	return
}

func BuildDefaultProjectionMatrix(p, q float64) (*Matrix3x4, error) {
	return BuildProjectionMatrix(p, q, DefaultBasepoint(lattice.Lattice{P: p, Q: q}))
}

// Phi returns (Re℘, Im℘, Re℘′, Im℘′) at z along with the full evaluation.
// Pole diagnostics are dropped; the perturbed value is used.
func Phi(f *weierstrass.Function, z complex128) (phi [4]float64, v weierstrass.Values) {
	v, _ = f.Eval(z)
	phi = [4]float64{real(v.P), imag(v.P), real(v.PPrime), imag(v.PPrime)}
	return
}

// Embed maps z to A·Φ(z) for the lattice (p, q)
func Embed(z complex128, p, q float64, A *Matrix3x4) (mgl64.Vec3, error) {
	f, err := weierstrass.ForLattice(p, q, weierstrass.DefaultOptions())
	if f == nil {
		return mgl64.Vec3{}, err
	}
	return NewProjector(f, A).Embed(z), err
}

// Projector pairs a ℘ evaluator with a projection matrix. Both are read-only
// so a Projector may be shared between goroutines.
type Projector struct {
	F *weierstrass.Function
	A *Matrix3x4
}

func NewProjector(f *weierstrass.Function, A *Matrix3x4) *Projector {
	return &Projector{F: f, A: A}
}

// NewDefaultProjector builds A at z0, or at the default basepoint when z0 is nil
func NewDefaultProjector(f *weierstrass.Function, z0 *complex128) (pr *Projector, err error) {
	var (
		A  *Matrix3x4
		zb = DefaultBasepoint(f.Inv.Lattice)
	)
	if z0 != nil {
		zb = *z0
	}
	if A, err = Build(f, zb); err != nil {
		return
	}
	pr = NewProjector(f, A)
	return
}

func (pr *Projector) Embed(z complex128) mgl64.Vec3 {
	x, _ := pr.EmbedValues(z)
	return x
}

func (pr *Projector) EmbedValues(z complex128) (x mgl64.Vec3, v weierstrass.Values) {
	var (
		phi [4]float64
	)
	phi, v = Phi(pr.F, z)
	x = pr.A.Apply(phi)
	return
}
