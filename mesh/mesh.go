// Package mesh samples a structured grid on the torus ℂ/Λ and embeds it in
// ℝ³ with a projection.Projector.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/projection"
	"github.com/notargets/pqtorus/theta"
	"github.com/notargets/pqtorus/utils"
	"github.com/notargets/pqtorus/weierstrass"
)

var ErrGridSize = errors.New("grid size must be at least 2")

type Domain uint8

const (
	HalfPeriod Domain = iota // z = u·p + v·q·i
	FullPeriod               // z = 2u·p + 2v·q·i, one fundamental cell
)

var DomainNameMap = map[string]Domain{
	"half":       HalfPeriod,
	"halfperiod": HalfPeriod,
	"full":       FullPeriod,
	"fullperiod": FullPeriod,
}

func (d Domain) String() string {
	switch d {
	case HalfPeriod:
		return "half"
	case FullPeriod:
		return "full"
	}
	return fmt.Sprintf("Domain(%d)", d)
}

func NewDomain(label string) (d Domain, err error) {
	var ok bool
	if d, ok = DomainNameMap[label]; !ok {
		err = fmt.Errorf("unknown domain %q", label)
	}
	return
}

type Options struct {
	GridSize   int
	Degree     int
	Convention lattice.Convention
	Basepoint  *complex128 // nil selects projection.DefaultBasepoint
	Domain     Domain
	Wrap       bool    // join the last row and column back to the first
	Offset     float64 // sample shift in cells; 0 puts a sample on z = 0
	Workers    int     // 0 selects runtime.NumCPU
	Function   weierstrass.Options
	Invariants []lattice.Option
}

// Stats summarizes the numerical health of the samples
type Stats struct {
	Perturbed    int     // samples whose sn was displaced off a zero
	PoleWarnings int     // samples within the pole warning radius
	MaxResidual  float64 // largest relative residual of (℘′)² = 4℘³ - g2℘ - g3
}

func (s *Stats) merge(o Stats) {
	s.Perturbed += o.Perturbed
	s.PoleWarnings += o.PoleWarnings
	s.MaxResidual = math.Max(s.MaxResidual, o.MaxResidual)
}

type EmbeddedTorus struct {
	Vertices   []mgl64.Vec3
	Faces      [][4]int
	Samples    []complex128
	Lattice    lattice.Lattice // the sampled lattice, L_d for the chosen degree
	Invariants lattice.Invariants
	Projection *projection.Matrix3x4
	GridSize   int
	Domain     Domain
	Wrap       bool
	Stats      Stats
}

// Generate validates the lattice, builds ℘ and the projection for the
// requested sublattice and embeds an n×n grid. Vertex (i, j) is stored at
// i·n + j. A theta non-convergence is returned together with the torus.
func Generate(l lattice.Lattice, opts Options) (et *EmbeddedTorus, err error) {
	var (
		ld  lattice.Lattice
		inv lattice.Invariants
		pr  *projection.Projector
		n   = opts.GridSize
	)
	if err = l.Validate(); err != nil {
		return
	}
	if n < 2 {
		err = fmt.Errorf("%w: %d", ErrGridSize, n)
		return
	}
	if ld, err = l.Sublattice(opts.Degree, opts.Convention); err != nil {
		return
	}
	inv, err = ld.Invariants(opts.Invariants...)
	if err != nil && !errors.Is(err, theta.ErrNonConvergence) {
		return
	}
	warn := err
	f := weierstrass.NewFunction(inv, opts.Function)
	if pr, err = projection.NewDefaultProjector(f, opts.Basepoint); err != nil {
		return
	}
	et = &EmbeddedTorus{
		Lattice:    ld,
		Invariants: inv,
		Projection: pr.A,
		GridSize:   n,
		Domain:     opts.Domain,
		Wrap:       opts.Wrap,
	}
	et.sample(pr, opts)
	et.Faces = Connectivity(n, opts.Wrap)
	err = warn
	return
}

func (et *EmbeddedTorus) samplePoint(i, j int, offset float64) complex128 {
	var (
		n    = float64(et.GridSize)
		u    = (float64(i) + offset) / n
		v    = (float64(j) + offset) / n
		p, q = et.Lattice.P, et.Lattice.Q
	)
	if et.Domain == FullPeriod {
		p, q = 2*p, 2*q
	}
	return complex(u*p, v*q)
}

// sample evaluates Φ at every grid point in parallel, then applies the
// projection to all rows at once.
func (et *EmbeddedTorus) sample(pr *projection.Projector, opts Options) {
	var (
		n     = et.GridSize
		nv    = n * n
		np    = utils.ParallelDegree(opts.Workers, nv)
		pm    = utils.NewPartitionMap(np, nv)
		Phi   = mat.NewDense(nv, 4, nil)
		stats = make([]Stats, np)
	)
	et.Samples = make([]complex128, nv)
	pm.Run(func(np, kMin, kMax int) {
		st := &stats[np]
		for k := kMin; k < kMax; k++ {
			z := et.samplePoint(k/n, k%n, opts.Offset)
			et.Samples[k] = z
			phi, v := projection.Phi(pr.F, z)
			Phi.SetRow(k, phi[:])
			if v.Perturbed {
				st.Perturbed++
			}
			if et.Lattice.DistanceToLattice(z) <= pr.F.Options().PoleWarningRadius {
				st.PoleWarnings++
			}
			st.MaxResidual = math.Max(st.MaxResidual, pr.F.RelativeResidual(v))
		}
	})
	for _, st := range stats {
		et.Stats.merge(st)
	}
	R := pr.A.ApplyAll(Phi)
	et.Vertices = make([]mgl64.Vec3, nv)
	for k := range et.Vertices {
		mat.Row(et.Vertices[k][:], k, R)
	}
}

// Connectivity returns the quads of an n×n structured grid with vertex
// (i, j) at i·n + j: (n-1)² faces, or n² when wrapped.
func Connectivity(n int, wrap bool) (faces [][4]int) {
	var (
		cells = n - 1
	)
	if wrap {
		cells = n
	}
	if cells < 1 {
		return
	}
	idx := func(i, j int) int { return (i%n)*n + j%n }
	faces = make([][4]int, 0, cells*cells)
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			faces = append(faces, [4]int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	return
}
