// Package jacobi evaluates the Jacobi elliptic functions sn, cn, dn for real
// and complex argument with real parameter m = k² in [0, 1].
package jacobi

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	DefaultPoleEpsilon = 1.e-12
	// RealAxisTolerance is the |Im u| below which the real routine is used
	RealAxisTolerance = 1.e-15
	// ComplementTolerance bounds |m + m' - 1| for a valid Parameter
	ComplementTolerance = 1.e-12
	machEp              = 1.11022302462515654042e-16
	maxAGM              = 24
)

var ErrParameter = errors.New("jacobi: parameter m must lie in [0, 1]")

// Parameter is m = k² together with its complement m' = 1-m. The complement
// is carried separately so that it keeps full precision as m approaches one,
// where every quantity with period K' depends on m' alone.
type Parameter struct {
	M, Mp float64
}

// NewParameter forms m' by subtraction, which is exact for m >= 1/2 but only
// as precise as m itself.
func NewParameter(m float64) Parameter {
	return Parameter{M: m, Mp: 1 - m}
}

// Complement is the parameter of the imaginary direction, (m', m)
func (p Parameter) Complement() Parameter {
	return Parameter{M: p.Mp, Mp: p.M}
}

func (p Parameter) Validate() error {
	inRange := func(v float64) bool { return !math.IsNaN(v) && v >= 0 && v <= 1 }
	if !inRange(p.M) || !inRange(p.Mp) {
		return fmt.Errorf("%w: m = %v, m' = %v", ErrParameter, p.M, p.Mp)
	}
	if !scalar.EqualWithinAbs(p.M+p.Mp, 1, ComplementTolerance) {
		return fmt.Errorf("%w: m + m' = %v", ErrParameter, p.M+p.Mp)
	}
	return nil
}

// Real computes sn, cn, dn for real u by the arithmetic-geometric mean and
// descending Landen transformation.
func Real(u, m float64) (sn, cn, dn float64, err error) {
	return NewParameter(m).Real(u)
}

func (p Parameter) Real(u float64) (sn, cn, dn float64, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	sn, cn, dn = ellpj(u, p.M, p.Mp)
	return
}

// ellpj uses the first order expansions about m = 0 and m = 1 only where the
// neglected second order term is below machine precision.
func ellpj(u, m, mp float64) (sn, cn, dn float64) {
	var (
		a, b, c [maxAGM + 2]float64
		ai, bi  float64
		phi, t  float64
		twon    float64
		i       int
	)
	switch {
	case m*u*u < machEp:
		t, bi = math.Sin(u), math.Cos(u)
		ai = 0.25 * m * (u - t*bi)
		sn = t - ai*bi
		cn = bi + ai*t
		dn = 1 - 0.5*m*t*t
		return
	case mp == 0:
		sn, cn = math.Tanh(u), 1/math.Cosh(u)
		dn = cn
		return
	case mp*math.Cosh(u)*math.Cosh(u) < machEp:
		ai = 0.25 * mp
		bi = math.Cosh(u)
		t = math.Tanh(u)
		phi = 1 / bi
		twon = bi * math.Sinh(u)
		sn = t + ai*(twon-u)/(bi*bi)
		ai *= t * phi
		cn = phi - ai*(twon-u)
		dn = phi + ai*(twon+u)
		return
	}
	a[0], b[0], c[0] = 1, math.Sqrt(mp), math.Sqrt(m)
	twon = 1
	for math.Abs(c[i]/a[i]) > machEp && i < maxAGM {
		ai, bi = a[i], b[i]
		i++
		c[i] = 0.5 * (ai - bi)
		a[i] = 0.5 * (ai + bi)
		b[i] = math.Sqrt(ai * bi)
		twon *= 2
	}
	phi = twon * a[i] * u
	for ; i > 0; i-- {
		// asin(t) via atan2, with 1-t² = cos²φ + (b/a)²sin²φ from a² - c² = b²
		s, co := math.Sincos(phi)
		t = c[i] * s / a[i]
		phi = 0.5 * (math.Atan2(t, math.Hypot(co, b[i]*s/a[i])) + phi)
	}
	sn, cn = math.Sin(phi), math.Cos(phi)
	// dn from the modular identity; cos(φ)/cos(φ₁-φ) is 0/0 at u = K
	dn = math.Sqrt(cn*cn + mp*sn*sn)
	return
}

// Complex computes sn, cn, dn at u = x + iy by the addition formulas with
// the real functions at (x, m) and (y, m'). When u sits on a pole of sn the
// argument is displaced by DefaultPoleEpsilon·(1+i).
func Complex(u complex128, m float64) (sn, cn, dn complex128, err error) {
	return NewParameter(m).Complex(u)
}

func (p Parameter) Complex(u complex128) (sn, cn, dn complex128, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	var ok bool
	if sn, cn, dn, ok = cjac(u, p); !ok {
		sn, cn, dn, _ = cjac(u+complex(DefaultPoleEpsilon, DefaultPoleEpsilon), p)
	}
	return
}

// cjac reports false when the common denominator vanishes
func cjac(u complex128, p Parameter) (sn, cn, dn complex128, ok bool) {
	x, y := real(u), imag(u)
	m := p.M
	s, c, d := ellpj(x, p.M, p.Mp)
	if math.Abs(y) < RealAxisTolerance {
		return complex(s, 0), complex(c, 0), complex(d, 0), true
	}
	s1, c1, d1 := ellpj(y, p.Mp, p.M)
	den := c1*c1 + m*s*s*s1*s1
	if den == 0 {
		return
	}
	sn = complex(s*d1, c*d*s1*c1) / complex(den, 0)
	cn = complex(c*c1, -s*d*s1*d1) / complex(den, 0)
	dn = complex(d*c1*d1, -m*s*c*s1) / complex(den, 0)
	ok = !(cmplx.IsInf(sn) || cmplx.IsNaN(sn))
	return
}

// SnSafe evaluates sn, cn, dn at u, moving to u + eps·(1+i) when |sn(u)| < eps
// so that 1/sn stays finite. perturbed reports whether the move happened.
func SnSafe(u complex128, m, eps float64) (sn, cn, dn complex128, perturbed bool, err error) {
	return NewParameter(m).SnSafe(u, eps)
}

func (p Parameter) SnSafe(u complex128, eps float64) (sn, cn, dn complex128, perturbed bool, err error) {
	if eps <= 0 {
		eps = DefaultPoleEpsilon
	}
	if sn, cn, dn, err = p.Complex(u); err != nil {
		return
	}
	if cmplx.Abs(sn) < eps {
		perturbed = true
		sn, cn, dn, err = p.Complex(u + complex(eps, eps))
	}
	return
}

// QuarterPeriods returns K(m) and K'(m) = K(1-m)
func QuarterPeriods(m float64) (K, Kp float64, err error) {
	return NewParameter(m).QuarterPeriods()
}

func (p Parameter) QuarterPeriods() (K, Kp float64, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	K, Kp = completeK(p.Mp), completeK(p.M)
	return
}

// completeK is K = π/(2·AGM(1, √m')) as a function of the complement m'
func completeK(mp float64) float64 {
	if mp == 0 {
		return math.Inf(1)
	}
	a, b := 1., math.Sqrt(mp)
	for i := 0; i < maxAGM && math.Abs(a-b) > machEp*a; i++ {
		a, b = 0.5*(a+b), math.Sqrt(a*b)
	}
	return math.Pi / (a + b)
}

// Identities returns sn²+cn²-1 and dn²+m·sn²-1
func Identities(sn, cn, dn complex128, m float64) (pythag, modular complex128) {
	sn2 := sn * sn
	pythag = sn2 + cn*cn - 1
	modular = dn*dn + complex(m, 0)*sn2 - 1
	return
}
