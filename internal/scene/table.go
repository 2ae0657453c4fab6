// Package scene generates the static point clouds fed to the camera.
package scene

import "github.com/golang/geo/r3"

// TableDimensions describes the table model. All lengths share one unit.
type TableDimensions struct {
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	TopHeight    float64 `json:"top_height"`
	LegHeight    float64 `json:"leg_height"`
	LegThickness float64 `json:"leg_thickness"`
}

// Resolution is the number of samples per axis of the top surface and
// the number of samples along each leg.
type Resolution struct {
	Top int `json:"top"`
	Leg int `json:"leg"`
}

// PointCount returns how many points GenerateTable produces for r.
func (r Resolution) PointCount() int {
	n := 0
	if r.Top > 0 {
		n += r.Top * r.Top
	}
	if r.Leg > 0 {
		n += 4 * r.Leg
	}
	return n
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// n == 1 yields start; n <= 0 yields nil.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// GenerateTable samples the table top as a grid at z = TopHeight, then
// each of the four legs as a vertical line from z = 0 to LegHeight.
// Legs sit at the corners, inset by half the leg thickness. Top points
// come first (x outer, y inner), then legs in corner order
// (-x,-y), (-x,+y), (+x,-y), (+x,+y).
func GenerateTable(dims TableDimensions, res Resolution) []r3.Vector {
	points := make([]r3.Vector, 0, res.PointCount())

	halfL, halfW := dims.Length/2, dims.Width/2
	ys := Linspace(-halfW, halfW, res.Top)
	for _, x := range Linspace(-halfL, halfL, res.Top) {
		for _, y := range ys {
			points = append(points, r3.Vector{X: x, Y: y, Z: dims.TopHeight})
		}
	}

	inset := dims.LegThickness / 2
	zs := Linspace(0, dims.LegHeight, res.Leg)
	for _, cornerX := range []float64{-halfL + inset, halfL - inset} {
		for _, cornerY := range []float64{-halfW + inset, halfW - inset} {
			for _, z := range zs {
				points = append(points, r3.Vector{X: cornerX, Y: cornerY, Z: z})
			}
		}
	}
	return points
}
