package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// DegeneratePoint is written in place of a point whose perspective divide
// is undefined. Both coordinates are NaN; use IsDegenerate to test for it.
var DegeneratePoint = r2.Point{X: math.NaN(), Y: math.NaN()}

// IsDegenerate reports whether p is the focal-plane sentinel.
func IsDegenerate(p r2.Point) bool {
	return math.IsNaN(p.X) && math.IsNaN(p.Y)
}

// Projection is the image of a point set. Points[i] corresponds to the
// i-th input point. Degenerate lists, in ascending order, the indices that
// hold DegeneratePoint.
type Projection struct {
	Points     []r2.Point
	Degenerate []int
}

// Valid returns the number of points with a defined pixel.
func (p Projection) Valid() int {
	return len(p.Points) - len(p.Degenerate)
}

// projector holds the scratch vectors for one projection pass.
type projector struct {
	m, k  *mat.Dense
	hp    *mat.VecDense
	cam   mat.VecDense
	pixel mat.VecDense
}

func newProjector(m Transform, k IntrinsicMatrix) *projector {
	return &projector{m: m.m, k: k.m, hp: mat.NewVecDense(4, nil)}
}

// project returns the homogeneous pixel (u, v, w) for p.
func (pr *projector) project(p r3.Vector) (u, v, w float64) {
	pr.hp.SetVec(0, p.X)
	pr.hp.SetVec(1, p.Y)
	pr.hp.SetVec(2, p.Z)
	pr.hp.SetVec(3, 1)

	pr.cam.MulVec(pr.m, pr.hp)
	// The homogeneous component of M·p is dropped before K.
	pr.pixel.MulVec(pr.k, pr.cam.SliceVec(0, 3))
	return pr.pixel.AtVec(0), pr.pixel.AtVec(1), pr.pixel.AtVec(2)
}

// Project maps every point through m, drops the homogeneous component,
// applies k and divides by depth. Points on the focal plane (depth exactly
// zero) get DegeneratePoint and are listed in Projection.Degenerate; the
// rest of the batch is unaffected.
func Project(points []r3.Vector, m Transform, k IntrinsicMatrix) Projection {
	out := Projection{Points: make([]r2.Point, len(points))}
	pr := newProjector(m, k)
	for i, p := range points {
		u, v, w := pr.project(p)
		if w == 0 {
			out.Points[i] = DegeneratePoint
			out.Degenerate = append(out.Degenerate, i)
			continue
		}
		out.Points[i] = r2.Point{X: u / w, Y: v / w}
	}
	return out
}

// ProjectPoint is the single-point form of Project. For a point on the
// focal plane it returns DegeneratePoint and an error wrapping
// ErrDegenerateProjection.
func ProjectPoint(p r3.Vector, m Transform, k IntrinsicMatrix) (r2.Point, error) {
	u, v, w := newProjector(m, k).project(p)
	if w == 0 {
		return DegeneratePoint, fmt.Errorf("%w: point %v has zero depth", ErrDegenerateProjection, p)
	}
	return r2.Point{X: u / w, Y: v / w}, nil
}
