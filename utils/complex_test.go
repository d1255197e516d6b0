package utils

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDiv(t *testing.T) {
	q, err := SafeDiv(complex(1, 2), complex(3, -4))
	require.NoError(t, err)
	assert.InDelta(t, -0.2, real(q), 1e-15)
	assert.InDelta(t, 0.4, imag(q), 1e-15)

	_, err = SafeDiv(1, 0)
	assert.ErrorIs(t, err, ErrZeroDivisor)

	_, err = SafeDiv(1, complex(1e-320, 0))
	assert.ErrorIs(t, err, ErrZeroDivisor)
}

func TestCPOW(t *testing.T) {
	z := complex(0.3, -1.7)
	for p := -6; p <= 9; p++ {
		expected := cmplx.Pow(z, complex(float64(p), 0))
		assert.True(t, NearRel(expected, CPOW(z, p), 1e-13), "p = %d", p)
	}
	assert.Equal(t, complex128(1), CPOW(0, 0))
	assert.True(t, IsBad(CPOW(0, -2)))
	for p := -8; p <= 12; p++ {
		assert.InDelta(t, math.Pow(1.3, float64(p)), POW(1.3, p), 1e-12)
	}
}

func TestIsNan(t *testing.T) {
	assert.False(t, IsNan(complex(1, 2)))
	assert.True(t, IsNan(complex(1, math.NaN())))
	assert.True(t, IsNan([]complex128{1, complex(math.NaN(), 0)}))
	assert.True(t, IsNan([4]float64{0, 0, math.NaN(), 0}))
	assert.False(t, IsNan([4]float64{0, 1, 2, 3}))
	assert.True(t, IsBad(complex(math.Inf(-1), 0)))
	assert.True(t, IsNan([]mgl64.Vec3{{0, 0, 0}, {math.NaN(), 0, 0}}))
	assert.True(t, Near(complex(1, 1), complex(1, 1+1e-13), 1e-12))
	assert.False(t, NearRel(complex(1e6, 0), complex(1e6+1, 0), 1e-7))
}
