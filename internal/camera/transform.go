package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Transform is a 4x4 homogeneous transform. Rotation and translation
// keep it affine; the lens correction row makes the product projective.
type Transform struct {
	m *mat.Dense
}

// Identity returns the 4x4 identity transform.
func Identity() Transform {
	return Transform{m: mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})}
}

// Translation returns the pinhole shift by (dx, dy, 0).
func Translation(dx, dy float64) Transform {
	return Transform{m: mat.NewDense(4, 4, []float64{
		1, 0, 0, dx,
		0, 1, 0, dy,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})}
}

// RotationZ returns a right-handed rotation about +Z by theta radians.
func RotationZ(theta float64) Transform {
	s, c := math.Sincos(theta)
	return Transform{m: mat.NewDense(4, 4, []float64{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})}
}

// LensCorrection returns the thin-lens term: identity with the last row
// set to [0, 0, -1/v, 1]. An infinite v disables the correction.
func LensCorrection(v float64) (Transform, error) {
	if v == 0 || math.IsNaN(v) {
		return Transform{}, fmt.Errorf("%w: lens distance v=%v", ErrInvalidParameter, v)
	}
	return Transform{m: mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, -1 / v, 1,
	})}, nil
}

// BuildFrameTransform composes M = L · (R(theta) · T(dx, dy)).
// The pinhole shift is applied first, in the object frame. The product
// is evaluated in this association; do not reassociate it.
func BuildFrameTransform(theta, dx, dy, v float64) (Transform, error) {
	if math.IsNaN(theta) || math.IsNaN(dx) || math.IsNaN(dy) {
		return Transform{}, fmt.Errorf("%w: theta=%v dx=%v dy=%v", ErrInvalidParameter, theta, dx, dy)
	}
	l, err := LensCorrection(v)
	if err != nil {
		return Transform{}, err
	}

	var rt mat.Dense
	rt.Mul(RotationZ(theta).m, Translation(dx, dy).m)

	var m mat.Dense
	m.Mul(l.m, &rt)
	return Transform{m: &m}, nil
}

// Mul returns t · o.
func (t Transform) Mul(o Transform) Transform {
	var m mat.Dense
	m.Mul(t.m, o.m)
	return Transform{m: &m}
}

// At returns the element at row i, column j.
func (t Transform) At(i, j int) float64 {
	return t.m.At(i, j)
}

// Dense returns a copy of the underlying matrix.
func (t Transform) Dense() *mat.Dense {
	return mat.DenseCopyOf(t.m)
}

// IsAffine reports whether the bottom row is [0, 0, 0, 1].
func (t Transform) IsAffine() bool {
	return t.m.At(3, 0) == 0 && t.m.At(3, 1) == 0 && t.m.At(3, 2) == 0 && t.m.At(3, 3) == 1
}

// Apply maps p, lifted to (x, y, z, 1), through t and returns all four
// homogeneous components.
func (t Transform) Apply(p r3.Vector) (x, y, z, w float64) {
	hp := mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1})
	var out mat.VecDense
	out.MulVec(t.m, hp)
	return out.AtVec(0), out.AtVec(1), out.AtVec(2), out.AtVec(3)
}
