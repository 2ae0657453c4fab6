// Package render draws the table scene and the projected frames.
//
// A Renderer receives the 3D scene once, one overlay per frame, and a
// final set of guides (axis bounds and crosshairs). Non-finite points,
// including camera.DegeneratePoint, are skipped by every implementation.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/sweep"
)

// Guides are the final directives for the 2D view.
type Guides struct {
	XMin, XMax    float64
	YMin, YMax    float64
	Principal     r2.Point
	PinholeOffset r2.Point
}

// Renderer draws a scene and its projections.
type Renderer interface {
	DrawScene(points []r3.Vector) error
	DrawOverlay(points []r2.Point, c color.Color, label string) error
	Finish(g Guides) error
}

type multi []Renderer

// Multi fans every call out to rs in order. All renderers are called even
// if one fails; the errors are joined.
func Multi(rs ...Renderer) Renderer {
	return multi(rs)
}

func (m multi) DrawScene(points []r3.Vector) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.DrawScene(points))
	}
	return errors.Join(errs...)
}

func (m multi) DrawOverlay(points []r2.Point, c color.Color, label string) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.DrawOverlay(points, c, label))
	}
	return errors.Join(errs...)
}

func (m multi) Finish(g Guides) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Finish(g))
	}
	return errors.Join(errs...)
}

// finitePoints drops points with a NaN or infinite coordinate.
func finitePoints(points []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RenderSweep draws the scene, then every frame of res colored by its
// position in a viridis palette of res.Total colors, then the guides.
func RenderSweep(r Renderer, points []r3.Vector, res sweep.Result, g Guides) error {
	if err := r.DrawScene(points); err != nil {
		return fmt.Errorf("draw scene: %w", err)
	}

	palette := Viridis(res.Total)
	for _, f := range res.Frames {
		if err := r.DrawOverlay(f.Points, palette[f.ColorIndex], f.Label()); err != nil {
			return fmt.Errorf("draw frame %d: %w", f.Index, err)
		}
	}
	for _, s := range res.Skipped {
		monitoring.Debugf("render: frame %d (%s) not drawn", s.Index, sweep.Label(s.Param))
	}

	if err := r.Finish(g); err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	return nil
}
