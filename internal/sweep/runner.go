package sweep

import (
	"context"
	"fmt"
	"iter"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/pinhole/internal/camera"
	"github.com/banshee-data/pinhole/internal/monitoring"
)

// Frame is the projection of the full point set for one grid parameter.
type Frame struct {
	Index int
	Param Parameter
	Theta float64
	// Points[i] is the image of input point i; focal-plane points hold
	// camera.DegeneratePoint.
	Points     []r2.Point
	Degenerate []int
	// ColorIndex is the frame's position in a palette of Result.Total colors.
	ColorIndex int
}

// Label returns the legend text for the frame.
func (f Frame) Label() string {
	return Label(f.Param)
}

// SkippedFrame records a grid point that could not be projected.
type SkippedFrame struct {
	Index int
	Param Parameter
	Err   error
}

// Result holds the frames of one run in grid order.
type Result struct {
	Frames  []Frame
	Skipped []SkippedFrame
	// Total is the grid size, and so the palette size.
	Total int
}

// Options controls a run.
type Options struct {
	// Strict aborts the run on the first frame error. Otherwise the frame
	// is skipped and recorded in Result.Skipped.
	Strict bool
	// Workers > 1 projects frames concurrently. Output order is unchanged.
	Workers int
}

func projectFrame(points []r3.Vector, model *camera.Model, i int, p Parameter) (Frame, error) {
	theta := p.Theta()
	proj, err := model.ProjectAt(points, theta)
	if err != nil {
		return Frame{}, fmt.Errorf("frame %d (%s): %w", i, Label(p), err)
	}
	if len(proj.Degenerate) > 0 {
		monitoring.Debugf("frame %d (%s): %d points on the focal plane", i, Label(p), len(proj.Degenerate))
	}
	return Frame{
		Index:      i,
		Param:      p,
		Theta:      theta,
		Points:     proj.Points,
		Degenerate: proj.Degenerate,
		ColorIndex: i,
	}, nil
}

// Frames lazily projects points for every grid parameter in grid order.
// Each step is independent, so the sequence can be restarted freely.
func Frames(points []r3.Vector, grid Grid, model *camera.Model) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for i, p := range grid.All() {
			if !yield(projectFrame(points, model, i, p)) {
				return
			}
		}
	}
}

// Run projects points over the whole grid. The point set is shared
// read-only between workers.
func Run(ctx context.Context, points []r3.Vector, grid Grid, model *camera.Model, opts Options) (Result, error) {
	total := grid.Len()
	frames := make([]Frame, total)
	errs := make([]error, total)

	if opts.Workers <= 1 {
		i := 0
		for f, err := range Frames(points, grid, model) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			if err != nil && opts.Strict {
				return Result{}, err
			}
			frames[i], errs[i] = f, err
			i++
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, p := range grid.All() {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				f, err := projectFrame(points, model, i, p)
				frames[i], errs[i] = f, err
				if err != nil && opts.Strict {
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	res := Result{Frames: make([]Frame, 0, total), Total: total}
	for i := range frames {
		if errs[i] != nil {
			monitoring.Logf("sweep: skipping %v", errs[i])
			res.Skipped = append(res.Skipped, SkippedFrame{Index: i, Param: grid.At(i), Err: errs[i]})
			continue
		}
		res.Frames = append(res.Frames, frames[i])
	}
	monitoring.Debugf("sweep: %d frames projected, %d skipped", len(res.Frames), len(res.Skipped))
	return res, nil
}
