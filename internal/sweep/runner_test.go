package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pinhole/internal/camera"
	"github.com/banshee-data/pinhole/internal/scene"
)

var (
	testTimes  = []float64{0, 2.5, 5, 7.5, 10}
	testSpeeds = []float64{0.1, 0.325, 0.55, 0.775, 1}
)

func testModel(v float64) *camera.Model {
	return camera.NewModel(camera.Intrinsics{Fx: 4, Fy: 4}, v, r2.Point{X: 2, Y: 3})
}

func testPoints() []r3.Vector {
	return scene.GenerateTable(scene.TableDimensions{
		Length: 6, Width: 3, TopHeight: 3, LegHeight: 3, LegThickness: 0.5,
	}, scene.Resolution{Top: 20, Leg: 7})
}

func TestGrid_All(t *testing.T) {
	g := Grid{Times: []float64{0, 1}, Speeds: []float64{0.5, 1, 2}}
	require.Equal(t, 6, g.Len())

	want := []Parameter{
		{0, 0.5}, {0, 1}, {0, 2},
		{1, 0.5}, {1, 1}, {1, 2},
	}

	var got []Parameter
	for i, p := range g.All() {
		assert.Equal(t, len(got), i)
		assert.Equal(t, g.At(i), p)
		got = append(got, p)
	}
	assert.Equal(t, want, got)

	// restartable
	var again []Parameter
	for _, p := range g.All() {
		again = append(again, p)
	}
	assert.Equal(t, want, again)
}

func TestGrid_EarlyStop(t *testing.T) {
	g := Grid{Times: testTimes, Speeds: testSpeeds}
	n := 0
	for range g.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestGrid_Empty(t *testing.T) {
	g := Grid{Times: testTimes}
	assert.Equal(t, 0, g.Len())
	for range g.All() {
		t.Fatal("empty grid should yield nothing")
	}
	assert.Panics(t, func() { g.At(0) })
}

func TestParameter_Theta(t *testing.T) {
	assert.Equal(t, 5.0, Parameter{Time: 10, Speed: 0.5}.Theta())
	assert.Equal(t, 0.0, Parameter{Time: 0, Speed: 1}.Theta())
}

func TestLabel(t *testing.T) {
	testCases := []struct {
		p        Parameter
		expected string
	}{
		{Parameter{Time: 0, Speed: 0.1}, "t=0, w=0.1"},
		{Parameter{Time: 2.5, Speed: 0.325}, "t=2.5, w=0.33"},
		{Parameter{Time: 10, Speed: 0.775}, "t=10, w=0.78"},
		{Parameter{Time: 7.5, Speed: 1}, "t=7.5, w=1"},
	}
	for _, tc := range testCases {
		if got := Label(tc.p); got != tc.expected {
			t.Errorf("Label(%+v) = %q, want %q", tc.p, got, tc.expected)
		}
	}
}

func TestRun_FrameCount(t *testing.T) {
	grid := Grid{Times: testTimes, Speeds: testSpeeds}
	points := testPoints()

	res, err := Run(context.Background(), points, grid, testModel(6), Options{Strict: true})
	require.NoError(t, err)
	require.Len(t, res.Frames, 25)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 25, res.Total)

	seen := make(map[Parameter]bool)
	i := 0
	for _, tm := range testTimes {
		for _, w := range testSpeeds {
			f := res.Frames[i]
			assert.Equal(t, Parameter{Time: tm, Speed: w}, f.Param)
			assert.Equal(t, i, f.Index)
			assert.Equal(t, i, f.ColorIndex)
			assert.Equal(t, w*tm, f.Theta)
			assert.Len(t, f.Points, len(points))
			assert.False(t, seen[f.Param], "duplicate parameter %+v", f.Param)
			seen[f.Param] = true
			i++
		}
	}
}

func TestRun_MatchesDirectProjection(t *testing.T) {
	grid := Grid{Times: []float64{5}, Speeds: []float64{0.55}}
	points := testPoints()
	model := testModel(6)

	res, err := Run(context.Background(), points, grid, model, Options{Strict: true})
	require.NoError(t, err)
	require.Len(t, res.Frames, 1)

	m, err := camera.BuildFrameTransform(0.55*5, 2, 3, 6)
	require.NoError(t, err)
	want := camera.Project(points, m, camera.BuildIntrinsic(4, 4, 0, 0))
	if diff := cmp.Diff(want.Points, res.Frames[0].Points); diff != "" {
		t.Errorf("frame differs from direct projection (-want +got):\n%s", diff)
	}
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	grid := Grid{Times: testTimes, Speeds: testSpeeds}
	points := testPoints()

	seq, err := Run(context.Background(), points, grid, testModel(6), Options{Strict: true})
	require.NoError(t, err)
	par, err := Run(context.Background(), points, grid, testModel(6), Options{Strict: true, Workers: 4})
	require.NoError(t, err)

	if diff := cmp.Diff(seq, par, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("parallel run differs (-seq +par):\n%s", diff)
	}
}

func TestRun_InvalidLensDistance(t *testing.T) {
	grid := Grid{Times: []float64{0, 1}, Speeds: []float64{0.5, 1}}
	points := testPoints()

	t.Run("strict aborts", func(t *testing.T) {
		for _, workers := range []int{1, 3} {
			_, err := Run(context.Background(), points, grid, testModel(0), Options{Strict: true, Workers: workers})
			require.Error(t, err)
			assert.ErrorIs(t, err, camera.ErrInvalidParameter)
		}
	})

	t.Run("lenient skips and reports", func(t *testing.T) {
		for _, workers := range []int{1, 3} {
			res, err := Run(context.Background(), points, grid, testModel(0), Options{Workers: workers})
			require.NoError(t, err)
			assert.Empty(t, res.Frames)
			require.Len(t, res.Skipped, 4)
			assert.Equal(t, 4, res.Total)
			for i, s := range res.Skipped {
				assert.Equal(t, i, s.Index)
				assert.Equal(t, grid.At(i), s.Param)
				assert.ErrorIs(t, s.Err, camera.ErrInvalidParameter)
			}
		}
	})
}

func TestRun_FocalPlanePoints(t *testing.T) {
	grid := Grid{Times: []float64{1}, Speeds: []float64{0.3}}
	points := []r3.Vector{{X: 1, Y: 1, Z: 2}, {X: 0, Y: 0, Z: 0}}

	res, err := Run(context.Background(), points, grid, testModel(6), Options{Strict: true})
	require.NoError(t, err)
	require.Len(t, res.Frames, 1)
	f := res.Frames[0]
	assert.Equal(t, []int{1}, f.Degenerate)
	assert.True(t, camera.IsDegenerate(f.Points[1]))
	assert.False(t, math.IsNaN(f.Points[0].X))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	grid := Grid{Times: testTimes, Speeds: testSpeeds}

	for _, workers := range []int{1, 4} {
		_, err := Run(ctx, testPoints(), grid, testModel(6), Options{Strict: true, Workers: workers})
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestFrames_Lazy(t *testing.T) {
	grid := Grid{Times: testTimes, Speeds: testSpeeds}
	points := testPoints()

	n := 0
	for f, err := range Frames(points, grid, testModel(6)) {
		require.NoError(t, err)
		assert.Equal(t, n, f.Index)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
