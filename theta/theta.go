// Package theta evaluates Jacobi theta functions and theta constants by
// truncated q-series in the nome q = exp(iπτ).
package theta

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/notargets/pqtorus/utils"
)

const (
	MaxTerms            = 100
	TermTolerance       = 1.e-15
	DivergenceThreshold = 1.e-6
)

var (
	ErrNonConvergence = errors.New("theta series did not converge")
	ErrTau            = errors.New("theta: Im(tau) must be positive")
)

// NonConvergence is returned together with the partial sum when a series
// hits MaxTerms while its terms are still above DivergenceThreshold.
type NonConvergence struct {
	Series   string
	Terms    int
	LastTerm float64
	Value    complex128
}

func (nc *NonConvergence) Error() string {
	return fmt.Sprintf("%s: %s after %d terms, last term %g",
		ErrNonConvergence, nc.Series, nc.Terms, nc.LastTerm)
}

func (nc *NonConvergence) Unwrap() error { return ErrNonConvergence }

type Constants struct {
	T2, T3, T4 complex128
}

// Nome returns q = exp(iπτ)
func Nome(tau complex128) (q complex128, err error) {
	if !(imag(tau) > 0) || math.IsInf(imag(tau), 1) {
		err = fmt.Errorf("%w: tau = %v", ErrTau, tau)
		return
	}
	q = cmplx.Exp(complex(0, math.Pi) * tau)
	return
}

// quarterNome is q^(1/4) taken as exp(iπτ/4), not the principal 4th root of q
func quarterNome(tau complex128) complex128 {
	return cmplx.Exp(complex(0, math.Pi/4) * tau)
}

// sum accumulates term(n) for n = 0,1,... under the cap/tolerance policy.
// bound(n) is the magnitude used for the stopping test.
func sum(name string, term func(n int) complex128, bound func(n int) float64) (s complex128, err error) {
	var (
		last float64
	)
	for n := 0; n < MaxTerms; n++ {
		s += term(n)
		last = bound(n)
		if last < TermTolerance {
			return
		}
	}
	if last > DivergenceThreshold {
		err = &NonConvergence{Series: name, Terms: MaxTerms, LastTerm: last, Value: s}
	}
	return
}

// Theta2 computes θ₂(0|τ) = 2q^{1/4} Σ_{n≥0} q^{n(n+1)}
func Theta2(tau complex128) (t2 complex128, err error) {
	var (
		q complex128
	)
	if q, err = Nome(tau); err != nil {
		return
	}
	aq := cmplx.Abs(q)
	s, err := sum("theta2",
		func(n int) complex128 { return powNome(q, n*(n+1)) },
		func(n int) float64 { return math.Pow(aq, float64(n*(n+1))) },
	)
	t2 = 2 * quarterNome(tau) * s
	if nc, ok := err.(*NonConvergence); ok {
		nc.Value = t2
	}
	return
}

// Theta3 computes θ₃(0|τ) = 1 + 2Σ_{n≥1} q^{n²}
func Theta3(tau complex128) (t3 complex128, err error) {
	return theta34("theta3", tau, 1)
}

// Theta4 computes θ₄(0|τ) = 1 + 2Σ_{n≥1} (-1)ⁿ q^{n²}
func Theta4(tau complex128) (t4 complex128, err error) {
	return theta34("theta4", tau, -1)
}

func theta34(name string, tau complex128, sign float64) (t complex128, err error) {
	var (
		q complex128
	)
	if q, err = Nome(tau); err != nil {
		return
	}
	aq := cmplx.Abs(q)
	// n runs from 0 for the shared loop; the series index is n+1
	s, err := sum(name,
		func(n int) complex128 {
			k := n + 1
			term := powNome(q, k*k)
			if k%2 == 1 {
				term *= complex(sign, 0)
			}
			return term
		},
		func(n int) float64 { return math.Pow(aq, float64((n+1)*(n+1))) },
	)
	t = 1 + 2*s
	if nc, ok := err.(*NonConvergence); ok {
		nc.Value = t
	}
	return
}

// Theta1 computes θ₁(u|τ) = 2q^{1/4} Σ_{n≥0} (-1)ⁿ q^{n(n+1)} sin((2n+1)πu)
func Theta1(u, tau complex128) (t1 complex128, err error) {
	var (
		q complex128
	)
	if q, err = Nome(tau); err != nil {
		return
	}
	var (
		aq = cmplx.Abs(q)
		iu = math.Abs(imag(u))
	)
	s, err := sum("theta1",
		func(n int) complex128 {
			term := powNome(q, n*(n+1)) * cmplx.Sin(complex(float64(2*n+1)*math.Pi, 0)*u)
			if n%2 == 1 {
				term = -term
			}
			return term
		},
		// |sin(x+iy)| <= cosh(y); an exact zero of sin must not end the sum
		func(n int) float64 {
			return math.Pow(aq, float64(n*(n+1))) * math.Cosh(float64(2*n+1)*math.Pi*iu)
		},
	)
	t1 = 2 * quarterNome(tau) * s
	if nc, ok := err.(*NonConvergence); ok {
		nc.Value = t1
	}
	return
}

// ThetaConstants computes θ₂, θ₃, θ₄ at argument zero. A NonConvergence from
// any series is returned after all three are evaluated.
func ThetaConstants(tau complex128) (c Constants, err error) {
	var (
		errs [3]error
	)
	if _, err = Nome(tau); err != nil {
		return
	}
	c.T2, errs[0] = Theta2(tau)
	c.T3, errs[1] = Theta3(tau)
	c.T4, errs[2] = Theta4(tau)
	err = errors.Join(errs[0], errs[1], errs[2])
	return
}

// ConstantsModular computes the same constants, evaluating at -1/τ when
// Im τ < 1 where the transformed nome is much smaller. A NonConvergence from
// that evaluation describes the series at -1/τ: its Series and Value are the
// dual constant (θ₂ at -1/τ feeds T4 and θ₄ feeds T2) before the √(-iτ)
// scaling, while the returned Constants are fully mapped back.
func ConstantsModular(tau complex128) (c Constants, err error) {
	if _, err = Nome(tau); err != nil {
		return
	}
	if imag(tau) >= 1 {
		return ThetaConstants(tau)
	}
	var (
		dual Constants
	)
	dual, err = ThetaConstants(-1 / tau)
	factor := 1 / cmplx.Sqrt(complex(0, -1)*tau)
	c.T2 = factor * dual.T4
	c.T3 = factor * dual.T3
	c.T4 = factor * dual.T2
	return
}

// JacobiIdentityResidual is θ₃⁴ - θ₂⁴ - θ₄⁴, zero for exact constants
func JacobiIdentityResidual(c Constants) complex128 {
	sq := func(z complex128) complex128 { z2 := z * z; return z2 * z2 }
	return sq(c.T3) - sq(c.T2) - sq(c.T4)
}

// powNome is q^k for non-negative k
func powNome(q complex128, k int) complex128 {
	if k == 0 {
		return 1
	}
	if imag(q) == 0 && real(q) > 0 {
		return complex(math.Pow(real(q), float64(k)), 0)
	}
	return utils.CPOW(q, k)
}
