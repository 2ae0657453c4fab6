package camera

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// Intrinsics holds the parameters of the camera-to-pixel mapping.
// Fx and Fy are focal lengths in pixel units; Cx and Cy the principal point.
type Intrinsics struct {
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
	Cx float64 `json:"cx"`
	Cy float64 `json:"cy"`
}

// Matrix builds the intrinsic matrix for these parameters.
func (in Intrinsics) Matrix() IntrinsicMatrix {
	return BuildIntrinsic(in.Fx, in.Fy, in.Cx, in.Cy)
}

// PrincipalPoint returns (Cx, Cy).
func (in Intrinsics) PrincipalPoint() r2.Point {
	return r2.Point{X: in.Cx, Y: in.Cy}
}

// IntrinsicMatrix is the 3x3 matrix K mapping camera-frame coordinates to
// homogeneous pixel coordinates. It is immutable once built.
type IntrinsicMatrix struct {
	m *mat.Dense
}

// BuildIntrinsic returns
//
//	[[fx, 0,  cx],
//	 [0,  fy, cy],
//	 [0,  0,  1 ]]
//
// Zero focal lengths are accepted and yield a singular matrix.
func BuildIntrinsic(fx, fy, cx, cy float64) IntrinsicMatrix {
	return IntrinsicMatrix{m: mat.NewDense(3, 3, []float64{
		fx, 0, cx,
		0, fy, cy,
		0, 0, 1,
	})}
}

// At returns the element at row i, column j.
func (k IntrinsicMatrix) At(i, j int) float64 {
	return k.m.At(i, j)
}

// Dense returns a copy of the underlying matrix.
func (k IntrinsicMatrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(k.m)
}

// Intrinsics recovers the parameters K was built from.
func (k IntrinsicMatrix) Intrinsics() Intrinsics {
	return Intrinsics{
		Fx: k.m.At(0, 0),
		Fy: k.m.At(1, 1),
		Cx: k.m.At(0, 2),
		Cy: k.m.At(1, 2),
	}
}
