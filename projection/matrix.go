package projection

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Matrix3x4 maps Φ = (Re℘, Im℘, Re℘′, Im℘′) to ℝ³. The third row is always
// (0, 0, 0, 1). It is immutable once built.
type Matrix3x4 struct {
	m *mat.Dense
}

func NewMatrix3x4(a1, a2 [4]float64) *Matrix3x4 {
	data := make([]float64, 0, 12)
	data = append(data, a1[:]...)
	data = append(data, a2[:]...)
	data = append(data, 0, 0, 0, 1)
	return &Matrix3x4{m: mat.NewDense(3, 4, data)}
}

func (A *Matrix3x4) At(i, j int) float64 { return A.m.At(i, j) }

func (A *Matrix3x4) Row(i int) (row [4]float64) {
	mat.Row(row[:], i, A.m)
	return
}

// Dense returns a copy of the coefficients
func (A *Matrix3x4) Dense() *mat.Dense {
	return mat.DenseCopyOf(A.m)
}

func (A *Matrix3x4) Equal(B *Matrix3x4) bool {
	return mat.Equal(A.m, B.m)
}

// Apply returns A·phi
func (A *Matrix3x4) Apply(phi [4]float64) (v mgl64.Vec3) {
	var (
		x = mat.NewVecDense(4, phi[:])
		y = mat.NewVecDense(3, v[:])
	)
	y.MulVec(A.m, x)
	return
}

// ApplyAll maps the rows of an N×4 matrix of Φ samples to an N×3 matrix
func (A *Matrix3x4) ApplyAll(Phi mat.Matrix) (R *mat.Dense) {
	var (
		nr, nc = Phi.Dims()
	)
	if nc != 4 {
		panic(fmt.Errorf("dimension mismatch: %d columns, need 4", nc))
	}
	R = mat.NewDense(nr, 3, nil)
	R.Mul(Phi, A.m.T())
	return
}

func (A *Matrix3x4) String() string {
	return fmt.Sprintf("%v", mat.Formatted(A.m, mat.Squeeze()))
}
