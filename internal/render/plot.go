package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/monitoring"
)

const (
	// SceneFile and ProjectionFile are the PNG names written by PlotRenderer.
	SceneFile      = "scene.png"
	ProjectionFile = "projection.png"

	// Default 3D viewpoint, degrees.
	defaultAzimuth   = -60
	defaultElevation = 30
)

// ObliqueView maps p to the screen plane of an orthographic camera placed
// at the given azimuth (about +Z, from +X) and elevation (above the XY
// plane), both in degrees.
func ObliqueView(p r3.Vector, azimuthDeg, elevationDeg float64) r2.Point {
	sa, ca := math.Sincos(azimuthDeg * math.Pi / 180)
	se, ce := math.Sincos(elevationDeg * math.Pi / 180)
	return r2.Point{
		X: -p.X*sa + p.Y*ca,
		Y: -p.X*ca*se - p.Y*sa*se + p.Z*ce,
	}
}

// PlotRenderer writes the scene and the projection overlays as PNG files
// using gonum/plot.
type PlotRenderer struct {
	fsys fsutil.FileSystem
	dir  string

	// Azimuth and Elevation set the 3D scene viewpoint in degrees.
	Azimuth   float64
	Elevation float64
	// Width of the projection image; height follows the axis aspect.
	Width vg.Length

	scene    *plot.Plot
	proj     *plot.Plot
	overlays int
	written  []string
}

// NewPlotRenderer creates a renderer writing into dir on fsys.
func NewPlotRenderer(fsys fsutil.FileSystem, dir string) *PlotRenderer {
	proj := plot.New()
	proj.Title.Text = "2D Projection"
	proj.X.Label.Text = "x"
	proj.Y.Label.Text = "y"
	proj.Legend.Top = true
	proj.Legend.Left = false
	proj.Legend.XOffs = -10
	proj.Legend.YOffs = -10

	return &PlotRenderer{
		fsys:      fsys,
		dir:       dir,
		Azimuth:   defaultAzimuth,
		Elevation: defaultElevation,
		Width:     10 * vg.Inch,
		proj:      proj,
	}
}

// Written returns the paths written by Finish.
func (pr *PlotRenderer) Written() []string {
	return pr.written
}

// Overlays returns the number of overlays drawn so far.
func (pr *PlotRenderer) Overlays() int {
	return pr.overlays
}

func newScatter(pts plotter.XYs, c color.Color, radius vg.Length) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	return s, nil
}

// DrawScene renders points from the configured viewpoint.
func (pr *PlotRenderer) DrawScene(points []r3.Vector) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Table in 3D (azimuth %g°, elevation %g°)", pr.Azimuth, pr.Elevation)
	p.X.Label.Text = "screen x"
	p.Y.Label.Text = "screen y"

	xys := make(plotter.XYs, len(points))
	for i, v := range points {
		sp := ObliqueView(v, pr.Azimuth, pr.Elevation)
		xys[i] = plotter.XY{X: sp.X, Y: sp.Y}
	}
	if len(xys) > 0 {
		s, err := newScatter(xys, color.RGBA{B: 255, A: 255}, vg.Points(1.5))
		if err != nil {
			return fmt.Errorf("scene scatter: %w", err)
		}
		p.Add(s)
	}
	pr.scene = p
	return nil
}

// DrawOverlay adds one frame to the projection plot. Non-finite points are
// dropped; a frame with no finite points is only logged.
func (pr *PlotRenderer) DrawOverlay(points []r2.Point, c color.Color, label string) error {
	pts := finitePoints(points)
	if dropped := len(points) - len(pts); dropped > 0 {
		monitoring.Debugf("render: %s: dropped %d non-finite points", label, dropped)
	}
	if len(pts) == 0 {
		monitoring.Logf("render: %s has no drawable points", label)
		return nil
	}

	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	s, err := newScatter(xys, c, vg.Points(1))
	if err != nil {
		return fmt.Errorf("overlay %q: %w", label, err)
	}
	pr.proj.Add(s)
	pr.proj.Legend.Add(label, s)
	pr.overlays++
	return nil
}

func crosshair(at r2.Point, g Guides, c color.Color) ([]plot.Plotter, error) {
	h, err := plotter.NewLine(plotter.XYs{{X: g.XMin, Y: at.Y}, {X: g.XMax, Y: at.Y}})
	if err != nil {
		return nil, err
	}
	v, err := plotter.NewLine(plotter.XYs{{X: at.X, Y: g.YMin}, {X: at.X, Y: g.YMax}})
	if err != nil {
		return nil, err
	}
	for _, l := range []*plotter.Line{h, v} {
		l.Color = c
		l.Width = vg.Points(0.25)
	}
	return []plot.Plotter{h, v}, nil
}

// Finish applies the guides and writes both PNG files.
func (pr *PlotRenderer) Finish(g Guides) error {
	pr.proj.Add(plotter.NewGrid())

	black, err := crosshair(g.Principal, g, color.Black)
	if err != nil {
		return fmt.Errorf("principal crosshair: %w", err)
	}
	red, err := crosshair(g.PinholeOffset, g, color.RGBA{R: 255, A: 255})
	if err != nil {
		return fmt.Errorf("pinhole crosshair: %w", err)
	}
	pr.proj.Add(black...)
	pr.proj.Add(red...)

	pr.proj.X.Min, pr.proj.X.Max = g.XMin, g.XMax
	pr.proj.Y.Min, pr.proj.Y.Max = g.YMin, g.YMax

	// Equal aspect: the canvas follows the axis ratio.
	height := pr.Width * vg.Length((g.YMax-g.YMin)/(g.XMax-g.XMin))
	wt, err := pr.proj.WriterTo(pr.Width, height, "png")
	if err != nil {
		return fmt.Errorf("encode projection plot: %w", err)
	}
	path, err := writeFile(pr.fsys, pr.dir, ProjectionFile, wt)
	if err != nil {
		return err
	}
	pr.written = append(pr.written, path)

	if pr.scene != nil {
		wt, err := pr.scene.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
		if err != nil {
			return fmt.Errorf("encode scene plot: %w", err)
		}
		path, err := writeFile(pr.fsys, pr.dir, SceneFile, wt)
		if err != nil {
			return err
		}
		pr.written = append(pr.written, path)
	}
	return nil
}
