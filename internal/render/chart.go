package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/version"
)

// ChartFile is the HTML page written by ChartRenderer.
const ChartFile = "projection.html"

type chartSeries struct {
	label string
	color string
	data  []opts.ScatterData
}

// ChartRenderer writes an interactive HTML page with a rotatable 3D view
// of the scene and a 2D scatter of every overlay.
type ChartRenderer struct {
	fsys fsutil.FileSystem
	dir  string

	scene   []opts.Chart3DData
	series  []chartSeries
	written string
}

// NewChartRenderer creates a renderer writing into dir on fsys.
func NewChartRenderer(fsys fsutil.FileSystem, dir string) *ChartRenderer {
	return &ChartRenderer{fsys: fsys, dir: dir}
}

// Written returns the page path once Finish succeeds.
func (cr *ChartRenderer) Written() string {
	return cr.written
}

func (cr *ChartRenderer) DrawScene(points []r3.Vector) error {
	cr.scene = make([]opts.Chart3DData, len(points))
	for i, p := range points {
		cr.scene[i] = opts.Chart3DData{Value: []interface{}{p.X, p.Y, p.Z}}
	}
	return nil
}

func (cr *ChartRenderer) DrawOverlay(points []r2.Point, c color.Color, label string) error {
	pts := finitePoints(points)
	if len(pts) == 0 {
		return nil
	}
	data := make([]opts.ScatterData, len(pts))
	for i, p := range pts {
		data[i] = opts.ScatterData{Value: []interface{}{p.X, p.Y}}
	}
	cr.series = append(cr.series, chartSeries{label: label, color: hexColor(c), data: data})
	return nil
}

func (cr *ChartRenderer) sceneChart() *charts.Scatter3D {
	s := charts.NewScatter3D()
	s.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pinhole Projection", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Table in 3D", Subtitle: fmt.Sprintf("points=%d", len(cr.scene))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z"}),
	)
	s.AddSeries("table", cr.scene, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1f77b4"}))
	return s
}

func (cr *ChartRenderer) projectionChart(g Guides) *charts.Scatter {
	s := charts.NewScatter()
	s.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pinhole Projection", Width: "900px", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "2D Projection", Subtitle: fmt.Sprintf("frames=%d version=%s", len(cr.series), version.String())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Min: g.XMin, Max: g.XMax, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: g.YMin, Max: g.YMax, Name: "y", NameLocation: "middle", NameGap: 30}),
	)
	for _, ser := range cr.series {
		s.AddSeries(ser.label, ser.data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ser.color}),
		)
	}

	marker := func(name, c string, p r2.Point) {
		s.AddSeries(name, []opts.ScatterData{{Value: []interface{}{p.X, p.Y}, Symbol: "diamond", SymbolSize: 12}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: c}),
		)
	}
	marker("principal point", "#000000", g.Principal)
	marker("pinhole offset", "#ff0000", g.PinholeOffset)
	return s
}

// Finish writes the page.
func (cr *ChartRenderer) Finish(g Guides) error {
	page := components.NewPage()
	page.PageTitle = "Pinhole Projection"
	page.AddCharts(cr.sceneChart(), cr.projectionChart(g))

	path, err := writeFile(cr.fsys, cr.dir, ChartFile, writerFunc(func(w io.Writer) error {
		return page.Render(w)
	}))
	if err != nil {
		return err
	}
	cr.written = path
	return nil
}
