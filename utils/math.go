package utils

import (
	"math"
)

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}

// CPOW is POW for complex arguments, by repeated squaring. Negative powers
// of zero return complex infinity rather than NaN.
func CPOW(z complex128, pp int) (y complex128) {
	var (
		p = pp
	)
	if p < 0 {
		p = -p
	}
	y = 1
	base := z
	for p > 0 {
		if p&1 == 1 {
			y *= base
		}
		base *= base
		p >>= 1
	}
	if pp < 0 {
		if y == 0 {
			return complex(math.Inf(1), math.Inf(1))
		}
		y = 1 / y
	}
	return
}
