package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/projection"
	"github.com/notargets/pqtorus/utils"
	"github.com/notargets/pqtorus/weierstrass"
)

func TestGridScenario(t *testing.T) {
	et, err := Generate(lattice.Lattice{P: 2, Q: 3}, Options{GridSize: 5})
	require.NoError(t, err)
	assert.Len(t, et.Vertices, 25)
	assert.Len(t, et.Faces, 16)
	for _, face := range et.Faces {
		for _, v := range face {
			assert.True(t, v >= 0 && v < 25)
		}
	}
	// the sample at z = 0 sits on a pole
	assert.Equal(t, 1, et.Stats.Perturbed)
	assert.Equal(t, 1, et.Stats.PoleWarnings)
	assert.False(t, utils.IsNan(et.Vertices))
	assert.Less(t, et.Stats.MaxResidual, 1.e-10)
	assert.Equal(t, 1, et.EulerCharacteristic())
	assert.True(t, utils.Near(complex(2*3./5, 3*4./5), et.Samples[3*5+4], 1.e-15))

	et, err = Generate(lattice.Lattice{P: 2, Q: 3}, Options{GridSize: 5, Offset: 0.5})
	require.NoError(t, err)
	assert.Zero(t, et.Stats.Perturbed)
	assert.Zero(t, et.Stats.PoleWarnings)
}

func TestInvalidInput(t *testing.T) {
	et, err := Generate(lattice.Lattice{P: 0, Q: 3}, Options{GridSize: 5})
	assert.ErrorIs(t, err, lattice.ErrInvalidLattice)
	assert.Nil(t, et)
	_, err = Generate(lattice.Lattice{P: 2, Q: 3}, Options{GridSize: 1})
	assert.ErrorIs(t, err, ErrGridSize)
	_, err = Generate(lattice.Lattice{P: 2, Q: 3}, Options{GridSize: 4, Degree: -2})
	assert.ErrorIs(t, err, lattice.ErrInvalidLattice)
	z0 := complex(4, 0)
	_, err = Generate(lattice.Lattice{P: 2, Q: 3}, Options{GridSize: 4, Basepoint: &z0})
	assert.ErrorIs(t, err, projection.ErrBasepoint)
}

func TestWrappedTorus(t *testing.T) {
	n := 6
	et, err := Generate(lattice.Lattice{P: 2, Q: 3},
		Options{GridSize: n, Domain: FullPeriod, Wrap: true, Offset: 0.5})
	require.NoError(t, err)
	assert.Len(t, et.Faces, n*n)
	assert.Equal(t, 2*n*n, et.NumEdges())
	assert.Equal(t, 0, et.EulerCharacteristic())

	inc := et.Incidence()
	r, c := inc.Dims()
	assert.Equal(t, n*n, r)
	assert.Equal(t, n*n, c)
	assert.Equal(t, 4*n*n, inc.NNZ())
	for k, val := range et.Valence() {
		assert.Equal(t, 4, val, "vertex %d", k)
	}

	lo, hi := et.Bounds()
	ctr := et.Centroid()
	for d := 0; d < 3; d++ {
		assert.True(t, lo[d] <= ctr[d] && ctr[d] <= hi[d])
	}
	for f := range et.Faces {
		nrm := et.FaceNormal(f)
		l := nrm.Len()
		assert.True(t, l == 0 || scalar.EqualWithinAbs(l, 1, 1.e-12), "face %d", f)
	}
}

func TestConnectivity(t *testing.T) {
	assert.Equal(t, [][4]int{{0, 2, 3, 1}}, Connectivity(2, false))
	assert.Equal(t, [][4]int{{0, 2, 3, 1}, {1, 3, 2, 0}, {2, 0, 1, 3}, {3, 1, 0, 2}}, Connectivity(2, true))
	assert.Empty(t, Connectivity(1, false))
	assert.Len(t, Connectivity(7, false), 36)
}

func TestParallelMatchesSerial(t *testing.T) {
	l := lattice.Lattice{P: 0.7, Q: 1.9}
	opts := Options{GridSize: 13, Domain: FullPeriod, Wrap: true, Offset: 0.25, Workers: 1}
	serial, err := Generate(l, opts)
	require.NoError(t, err)
	for _, workers := range []int{2, 5, 0} {
		opts.Workers = workers
		par, err := Generate(l, opts)
		require.NoError(t, err)
		assert.Equal(t, serial.Vertices, par.Vertices, "workers = %d", workers)
		assert.Equal(t, serial.Samples, par.Samples)
		assert.Equal(t, serial.Stats, par.Stats)
	}
}

func TestVerticesMatchProjector(t *testing.T) {
	l := lattice.Lattice{P: 2, Q: 3}
	et, err := Generate(l, Options{GridSize: 7, Offset: 0.5})
	require.NoError(t, err)
	f, err := weierstrass.ForLattice(2, 3, weierstrass.DefaultOptions())
	require.NoError(t, err)
	pr, err := projection.NewDefaultProjector(f, nil)
	require.NoError(t, err)
	assert.True(t, pr.A.Equal(et.Projection))
	for k, z := range et.Samples {
		x := pr.Embed(z)
		assert.True(t, x.ApproxEqualThreshold(et.Vertices[k], 1.e-12*(1+x.Len())), "k = %d", k)
	}
}

func TestSublatticeDegree(t *testing.T) {
	et, err := Generate(lattice.Lattice{P: 2, Q: 3}, Options{GridSize: 4, Degree: 1, Offset: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, et.Lattice.P, 1.e-15)
	assert.InDelta(t, 1./3, et.Lattice.Q, 1.e-15)
	assert.Equal(t, et.Lattice, et.Invariants.Lattice)

	et, err = Generate(lattice.Lattice{P: 2, Q: 3},
		Options{GridSize: 4, Degree: -1, Convention: lattice.PrimaryDegreeMinusOne, Offset: 0.5})
	require.NoError(t, err)
	assert.Equal(t, lattice.Lattice{P: 2, Q: 3}, et.Lattice)
}

func TestDomainNames(t *testing.T) {
	d, err := NewDomain("full")
	require.NoError(t, err)
	assert.Equal(t, FullPeriod, d)
	assert.Equal(t, "half", HalfPeriod.String())
	_, err = NewDomain("quarter")
	assert.Error(t, err)
	assert.Equal(t, mgl64.Vec3{}, (&EmbeddedTorus{}).Centroid())
}
