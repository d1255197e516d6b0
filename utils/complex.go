package utils

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrZeroDivisor = errors.New("complex division by zero")

// SafeDiv returns a/b, refusing divisors of exactly zero magnitude
func SafeDiv(a, b complex128) (complex128, error) {
	if b == 0 {
		return 0, ErrZeroDivisor
	}
	q := a / b
	if IsBad(q) && !IsBad(a) && !IsBad(b) {
		// Underflowed divisor
		return q, ErrZeroDivisor
	}
	return q, nil
}

// IsBad reports NaN or Inf in either component
func IsBad(z complex128) bool {
	return math.IsNaN(real(z)) || math.IsNaN(imag(z)) ||
		math.IsInf(real(z), 0) || math.IsInf(imag(z), 0)
}

// Abs2 is |z|^2 without the square root
func Abs2(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// Near reports |a-b| <= tol
func Near(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol
}

// NearRel reports |a-b| <= tol*max(1, |a|, |b|)
func NearRel(a, b complex128, tol float64) bool {
	scale := math.Max(1, math.Max(cmplx.Abs(a), cmplx.Abs(b)))
	return cmplx.Abs(a-b) <= tol*scale
}
