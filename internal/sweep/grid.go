package sweep

import (
	"fmt"
	"iter"
	"math"
)

// Parameter is one (time, angular speed) sample.
type Parameter struct {
	Time  float64 `json:"t"`
	Speed float64 `json:"w"`
}

// Theta returns the rotation angle w·t in radians.
func (p Parameter) Theta() float64 {
	return p.Speed * p.Time
}

// Label is the legend text for p: "t=<t>, w=<w to 2dp>".
func Label(p Parameter) string {
	return fmt.Sprintf("t=%g, w=%g", p.Time, math.Round(p.Speed*100)/100)
}

// Grid is the Cartesian product Times × Speeds. Times is the outer axis,
// so index i maps to (Times[i/len(Speeds)], Speeds[i%len(Speeds)]).
type Grid struct {
	Times  []float64
	Speeds []float64
}

// Len returns |Times|·|Speeds|.
func (g Grid) Len() int {
	return len(g.Times) * len(g.Speeds)
}

// At returns the parameter at flat index i. It panics if i is out of range.
func (g Grid) At(i int) Parameter {
	if i < 0 || i >= g.Len() {
		panic(fmt.Sprintf("sweep: grid index %d out of range [0,%d)", i, g.Len()))
	}
	n := len(g.Speeds)
	return Parameter{Time: g.Times[i/n], Speed: g.Speeds[i%n]}
}

// All yields (index, parameter) in grid order. The sequence holds no
// state between calls and may be ranged over any number of times.
func (g Grid) All() iter.Seq2[int, Parameter] {
	return func(yield func(int, Parameter) bool) {
		i := 0
		for _, t := range g.Times {
			for _, w := range g.Speeds {
				if !yield(i, Parameter{Time: t, Speed: w}) {
					return
				}
				i++
			}
		}
	}
}
