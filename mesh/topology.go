package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
)

// Incidence is the faces × vertices matrix with a one where a face uses a
// vertex.
func (et *EmbeddedTorus) Incidence() *sparse.CSR {
	dok := sparse.NewDOK(len(et.Faces), len(et.Vertices))
	for f, face := range et.Faces {
		for _, v := range face {
			dok.Set(f, v, 1)
		}
	}
	return dok.ToCSR()
}

// Valence counts the faces meeting at each vertex
func (et *EmbeddedTorus) Valence() (val []int) {
	val = make([]int, len(et.Vertices))
	et.Incidence().DoNonZero(func(i, j int, v float64) {
		val[j]++
	})
	return
}

func (et *EmbeddedTorus) NumEdges() int {
	edges := make(map[[2]int]struct{}, 2*len(et.Faces))
	for _, face := range et.Faces {
		for k := 0; k < 4; k++ {
			a, b := face[k], face[(k+1)%4]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = struct{}{}
		}
	}
	return len(edges)
}

// EulerCharacteristic is V - E + F; zero for the wrapped torus, one for the
// open grid.
func (et *EmbeddedTorus) EulerCharacteristic() int {
	return len(et.Vertices) - et.NumEdges() + len(et.Faces)
}

func (et *EmbeddedTorus) coords() (x, y, z []float64) {
	x = make([]float64, len(et.Vertices))
	y = make([]float64, len(et.Vertices))
	z = make([]float64, len(et.Vertices))
	for k, v := range et.Vertices {
		x[k], y[k], z[k] = v[0], v[1], v[2]
	}
	return
}

func (et *EmbeddedTorus) Bounds() (min, max mgl64.Vec3) {
	if len(et.Vertices) == 0 {
		return
	}
	x, y, z := et.coords()
	min = mgl64.Vec3{floats.Min(x), floats.Min(y), floats.Min(z)}
	max = mgl64.Vec3{floats.Max(x), floats.Max(y), floats.Max(z)}
	return
}

func (et *EmbeddedTorus) Centroid() (c mgl64.Vec3) {
	if len(et.Vertices) == 0 {
		return
	}
	x, y, z := et.coords()
	c = mgl64.Vec3{floats.Sum(x), floats.Sum(y), floats.Sum(z)}
	return c.Mul(1 / float64(len(et.Vertices)))
}

// FaceNormal is the unit normal of quad f from its diagonals, zero for a
// degenerate face.
func (et *EmbeddedTorus) FaceNormal(f int) mgl64.Vec3 {
	var (
		face = et.Faces[f]
		d1   = et.Vertices[face[2]].Sub(et.Vertices[face[0]])
		d2   = et.Vertices[face[3]].Sub(et.Vertices[face[1]])
		nrm  = d1.Cross(d2)
	)
	if l := nrm.Len(); l > 0 {
		return nrm.Mul(1 / l)
	}
	return mgl64.Vec3{}
}
