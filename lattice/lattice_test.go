package lattice

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLattice(t *testing.T) {
	l, err := New(2, 3)
	require.NoError(t, err)
	assert.Equal(t, complex(0, 1.5), l.Tau())
	w1, w3 := l.HalfPeriods()
	assert.Equal(t, complex(2, 0), w1)
	assert.Equal(t, complex(0, 3), w3)
	p1, p2 := l.Periods()
	assert.Equal(t, complex(4, 0), p1)
	assert.Equal(t, complex(0, 6), p2)

	for _, pq := range [][2]float64{
		{0, 1}, {1, 0}, {-1, 2}, {2, -0.5}, {math.NaN(), 1}, {1, math.Inf(1)},
	} {
		_, err = New(pq[0], pq[1])
		assert.ErrorIs(t, err, ErrInvalidLattice, "p, q = %v", pq)
	}
}

func TestLatticePoints(t *testing.T) {
	l := Lattice{P: 1, Q: 1}
	pts := l.Points(3)
	assert.Len(t, pts, 48)
	for _, w := range pts {
		assert.NotZero(t, w)
		assert.Zero(t, math.Mod(real(w), 2))
		assert.Zero(t, math.Mod(imag(w), 2))
	}
	assert.Empty(t, l.Points(0))

	assert.Equal(t, complex(2, 2), l.NearestPoint(complex(2.1, 2.9)))
	assert.InDelta(t, cmplx.Abs(complex(0.1, 0.9)), l.DistanceToLattice(complex(2.1, 2.9)), 1e-15)
	assert.Zero(t, l.DistanceToLattice(complex(-4, 6)))
}

func TestSublattice(t *testing.T) {
	l := Lattice{P: 2, Q: 3}
	ld, err := l.Sublattice(0, PrimaryDegreeZero)
	require.NoError(t, err)
	assert.Equal(t, l, ld)

	ld, err = l.Sublattice(2, PrimaryDegreeZero)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ld.P, 1e-15)
	assert.InDelta(t, 1./9, ld.Q, 1e-15)

	_, err = l.Sublattice(-1, PrimaryDegreeZero)
	assert.ErrorIs(t, err, ErrInvalidLattice)

	ld, err = l.Sublattice(-1, PrimaryDegreeMinusOne)
	require.NoError(t, err)
	assert.Equal(t, l, ld)
	ld, err = l.Sublattice(0, PrimaryDegreeMinusOne)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ld.P, 1e-15)
	assert.InDelta(t, 1./3, ld.Q, 1e-15)

	conv, err := NewConvention("minusone")
	require.NoError(t, err)
	assert.Equal(t, PrimaryDegreeMinusOne, conv)
	_, err = NewConvention("bogus")
	assert.Error(t, err)
}
