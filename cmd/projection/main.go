// Command projection renders a table seen through a rotating thin-lens
// pinhole camera over a grid of (time, angular speed) samples.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/banshee-data/pinhole/internal/config"
	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/monitoring"
	"github.com/banshee-data/pinhole/internal/render"
	"github.com/banshee-data/pinhole/internal/scene"
	"github.com/banshee-data/pinhole/internal/sweep"
	"github.com/banshee-data/pinhole/internal/timeutil"
	"github.com/banshee-data/pinhole/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a projection JSON config (built-in defaults when empty)")
	outBase     = flag.String("out", "plots", "Base output directory; a projection_<timestamp> subdirectory is created")
	timesFlag   = flag.String("times", "", "Time samples: comma list or min:max:step (overrides config)")
	speedsFlag  = flag.String("speeds", "", "Angular speed samples: comma list or min:max:step (overrides config)")
	lensFlag    = flag.Float64("lens", 6, "Lens distance v (overrides config; 0 is invalid)")
	dxFlag      = flag.Float64("dx", 2, "Pinhole offset x (overrides config)")
	dyFlag      = flag.Float64("dy", 3, "Pinhole offset y (overrides config)")
	workersFlag = flag.Int("workers", 1, "Frames projected concurrently (overrides config)")
	lenient     = flag.Bool("lenient", false, "Skip frames that fail instead of aborting")
	writeHTML   = flag.Bool("html", true, "Write the interactive HTML page")
	writePNG    = flag.Bool("png", true, "Write PNG plots")
	verbose     = flag.Bool("verbose", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func loadConfig(path string) (*config.ProjectionConfig, error) {
	if path == "" {
		return config.DefaultProjectionConfig(), nil
	}
	return config.LoadProjectionConfig(path)
}

// applyOverrides copies explicitly set flags onto cfg. set holds the names
// of the flags given on the command line.
func applyOverrides(cfg *config.ProjectionConfig, set map[string]bool) error {
	if set["times"] {
		v, err := sweep.ParseParamList(*timesFlag)
		if err != nil {
			return fmt.Errorf("invalid -times: %w", err)
		}
		cfg.TimeSamples = &config.SampleSpec{Values: v}
	}
	if set["speeds"] {
		v, err := sweep.ParseParamList(*speedsFlag)
		if err != nil {
			return fmt.Errorf("invalid -speeds: %w", err)
		}
		cfg.SpeedSamples = &config.SampleSpec{Values: v}
	}
	if set["lens"] {
		cfg.LensDistance = lensFlag
	}
	if set["dx"] {
		cfg.PinholeOffsetX = dxFlag
	}
	if set["dy"] {
		cfg.PinholeOffsetY = dyFlag
	}
	if set["workers"] {
		cfg.Workers = workersFlag
	}
	if set["lenient"] {
		strict := !*lenient
		cfg.Strict = &strict
	}
	return cfg.Validate()
}

type outputs struct {
	fsys fsutil.FileSystem
	dir  string
	html bool
	png  bool
}

func guides(cfg *config.ProjectionConfig) render.Guides {
	lim := cfg.GetAxisLimits()
	return render.Guides{
		XMin:          lim.XMin,
		XMax:          lim.XMax,
		YMin:          lim.YMin,
		YMax:          lim.YMax,
		Principal:     cfg.GetPrincipalPoint(),
		PinholeOffset: cfg.PinholeOffset(),
	}
}

// run projects the scene over the configured grid and renders the result.
// It returns the paths written.
func run(ctx context.Context, cfg *config.ProjectionConfig, out outputs) ([]string, error) {
	points := scene.GenerateTable(cfg.Table(), cfg.Mesh())
	model := cfg.CameraModel()
	grid := cfg.Grid()
	monitoring.Logf("Scene: %d points, grid %d×%d", len(points), len(grid.Times), len(grid.Speeds))

	res, err := sweep.Run(ctx, points, grid, model, cfg.SweepOptions())
	if err != nil {
		return nil, err
	}

	var (
		renderers []render.Renderer
		plotR     *render.PlotRenderer
		chartR    *render.ChartRenderer
	)
	if out.png {
		plotR = render.NewPlotRenderer(out.fsys, out.dir)
		renderers = append(renderers, plotR)
	}
	if out.html {
		chartR = render.NewChartRenderer(out.fsys, out.dir)
		renderers = append(renderers, chartR)
	}
	if len(renderers) == 0 {
		monitoring.Logf("No outputs enabled; %d frames computed", len(res.Frames))
		return nil, nil
	}

	if err := render.RenderSweep(render.Multi(renderers...), points, res, guides(cfg)); err != nil {
		return nil, err
	}

	var written []string
	if plotR != nil {
		written = append(written, plotR.Written()...)
	}
	if chartR != nil && chartR.Written() != "" {
		written = append(written, chartR.Written())
	}
	return written, nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	monitoring.SetVerbose(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyOverrides(cfg, set); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := outputs{
		fsys: fsutil.OSFileSystem{},
		dir:  render.MakeOutputDir(*outBase, timeutil.RealClock{}),
		html: *writeHTML,
		png:  *writePNG,
	}
	written, err := run(ctx, cfg, out)
	if err != nil {
		log.Fatalf("Projection failed: %v", err)
	}
	for _, path := range written {
		log.Printf("Wrote %s", path)
	}
}
