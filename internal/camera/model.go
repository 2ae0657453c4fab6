package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Model is the full camera: intrinsics plus the thin-lens distance and the
// pinhole offset shared by every frame of a run.
type Model struct {
	Intrinsics    Intrinsics
	LensDistance  float64
	PinholeOffset r2.Point

	k IntrinsicMatrix
}

// NewModel builds K once so that every frame reuses it.
func NewModel(in Intrinsics, lensDistance float64, pinholeOffset r2.Point) *Model {
	return &Model{
		Intrinsics:    in,
		LensDistance:  lensDistance,
		PinholeOffset: pinholeOffset,
		k:             in.Matrix(),
	}
}

// K returns the intrinsic matrix.
func (m *Model) K() IntrinsicMatrix {
	return m.k
}

// FrameTransform builds M for rotation angle theta.
func (m *Model) FrameTransform(theta float64) (Transform, error) {
	return BuildFrameTransform(theta, m.PinholeOffset.X, m.PinholeOffset.Y, m.LensDistance)
}

// ProjectAt projects points for rotation angle theta.
func (m *Model) ProjectAt(points []r3.Vector, theta float64) (Projection, error) {
	t, err := m.FrameTransform(theta)
	if err != nil {
		return Projection{}, err
	}
	return Project(points, t, m.k), nil
}
