package render

import (
	"image/color"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Overlay is one DrawOverlay call captured by Recorder.
type Overlay struct {
	Points []r2.Point
	Color  color.Color
	Label  string
}

// Recorder is a Renderer that keeps every call in memory. It backs tests
// and dry runs.
type Recorder struct {
	mu       sync.Mutex
	Scene    []r3.Vector
	Overlays []Overlay
	Guides   *Guides
}

func (r *Recorder) DrawScene(points []r3.Vector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Scene = append([]r3.Vector(nil), points...)
	return nil
}

func (r *Recorder) DrawOverlay(points []r2.Point, c color.Color, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Overlays = append(r.Overlays, Overlay{
		Points: append([]r2.Point(nil), points...),
		Color:  c,
		Label:  label,
	})
	return nil
}

func (r *Recorder) Finish(g Guides) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Guides = &g
	return nil
}

// Labels returns the overlay labels in draw order.
func (r *Recorder) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Overlays))
	for i, o := range r.Overlays {
		out[i] = o.Label
	}
	return out
}
