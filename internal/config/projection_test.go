package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pinhole/internal/camera"
	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/scene"
)

func TestDefaultProjectionConfig(t *testing.T) {
	cfg := DefaultProjectionConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, camera.Intrinsics{Fx: 4, Fy: 4, Cx: 0, Cy: 0}, cfg.Intrinsics())
	assert.Equal(t, 6.0, cfg.GetLensDistance())
	assert.Equal(t, r2.Point{X: 2, Y: 3}, cfg.PinholeOffset())
	assert.Equal(t, scene.TableDimensions{Length: 6, Width: 3, TopHeight: 3, LegHeight: 3, LegThickness: 0.5}, cfg.Table())
	assert.Equal(t, scene.Resolution{Top: 20, Leg: 7}, cfg.Mesh())
	assert.True(t, cfg.GetStrict())
	assert.Equal(t, 1, cfg.GetWorkers())
	assert.Equal(t, AxisLimits{XMin: -10, XMax: 15, YMin: -10, YMax: 10}, cfg.GetAxisLimits())

	assert.InDeltaSlice(t, []float64{0, 2.5, 5, 7.5, 10}, cfg.Times(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.1, 0.325, 0.55, 0.775, 1}, cfg.Speeds(), 1e-12)
	assert.Equal(t, 25, cfg.Grid().Len())
}

func TestEmptyConfigMatchesDefaults(t *testing.T) {
	empty := EmptyProjectionConfig()
	def := DefaultProjectionConfig()

	assert.Equal(t, def.Intrinsics(), empty.Intrinsics())
	assert.Equal(t, def.GetLensDistance(), empty.GetLensDistance())
	assert.Equal(t, def.PinholeOffset(), empty.PinholeOffset())
	assert.Equal(t, def.Table(), empty.Table())
	assert.Equal(t, def.Mesh(), empty.Mesh())
	assert.Equal(t, def.Times(), empty.Times())
	assert.Equal(t, def.Speeds(), empty.Speeds())
	assert.Equal(t, def.SweepOptions(), empty.SweepOptions())
	assert.Equal(t, def.GetAxisLimits(), empty.GetAxisLimits())
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultProjectionConfig()

	assert.Equal(t, def.Intrinsics(), cfg.Intrinsics())
	assert.Equal(t, def.GetLensDistance(), cfg.GetLensDistance())
	assert.Equal(t, def.PinholeOffset(), cfg.PinholeOffset())
	assert.Equal(t, def.Table(), cfg.Table())
	assert.Equal(t, def.Mesh(), cfg.Mesh())
	assert.Equal(t, def.Times(), cfg.Times())
	assert.Equal(t, def.Speeds(), cfg.Speeds())
	assert.Equal(t, def.SweepOptions(), cfg.SweepOptions())
	assert.Equal(t, def.GetAxisLimits(), cfg.GetAxisLimits())
}

func TestLoadProjectionConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.json")

	testJSON := `{
  "focal_length": 5,
  "focal_length_y": 6,
  "lens_distance": 8,
  "pinhole_offset_x": -1,
  "principal_point": {"x": 1.5, "y": -0.5},
  "table_dimensions": {"length": 4},
  "mesh_resolution": {"leg": 3},
  "time_samples": {"values": [0, 1, 2]},
  "speed_samples": {"count": 2},
  "strict": false,
  "workers": 4
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadProjectionConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, camera.Intrinsics{Fx: 5, Fy: 6, Cx: 1.5, Cy: -0.5}, cfg.Intrinsics())
	assert.Equal(t, 8.0, cfg.GetLensDistance())
	// Omitted keys keep their defaults.
	assert.Equal(t, r2.Point{X: -1, Y: 3}, cfg.PinholeOffset())
	assert.Equal(t, scene.TableDimensions{Length: 4, Width: 3, TopHeight: 3, LegHeight: 3, LegThickness: 0.5}, cfg.Table())
	assert.Equal(t, scene.Resolution{Top: 20, Leg: 3}, cfg.Mesh())
	assert.Equal(t, []float64{0, 1, 2}, cfg.Times())
	assert.InDeltaSlice(t, []float64{0.1, 1}, cfg.Speeds(), 1e-12)
	assert.False(t, cfg.GetStrict())
	assert.Equal(t, 4, cfg.GetWorkers())
}

func TestLoadProjectionConfigFS(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("cfg", 0755))
	require.NoError(t, mfs.WriteFile("cfg/lens.json", []byte(`{"lens_distance": 0}`), 0644))

	// Zero lens distance is accepted here and rejected when frames are built.
	cfg, err := LoadProjectionConfigFS(mfs, "cfg/lens.json")
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.GetLensDistance())

	_, err = cfg.CameraModel().FrameTransform(0)
	assert.ErrorIs(t, err, camera.ErrInvalidParameter)
}

func TestLoadProjectionConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"wrong_extension", "run.yaml", `{}`, ".json extension"},
		{"malformed", "run.json", `{"focal_length": `, "failed to parse"},
		{"unknown_key", "run.json", `{"focal": 4}`, "unknown field"},
		{"wrong_type", "run.json", `{"workers": "many"}`, "failed to parse"},
		{"negative_mesh", "run.json", `{"mesh_resolution": {"top": -1}}`, "mesh_resolution.top"},
		{"huge_count", "run.json", `{"time_samples": {"count": 20000}}`, "time_samples.count"},
		{"negative_table", "run.json", `{"table_dimensions": {"width": -3}}`, "table_dimensions.width"},
		{"negative_workers", "run.json", `{"workers": -2}`, "workers"},
		{"bad_axis", "run.json", `{"axis_limits": {"x_min": 5, "x_max": 5, "y_min": 0, "y_max": 1}}`, "axis_limits"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			_, err := LoadProjectionConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadProjectionConfig_MissingFile(t *testing.T) {
	_, err := LoadProjectionConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadProjectionConfig_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.json")
	big := `{"time_samples": {"values": [` + strings.Repeat("0,", 600*1024) + `0]}}`
	require.NoError(t, os.WriteFile(path, []byte(big), 0644))

	_, err := LoadProjectionConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidate_NonFinite(t *testing.T) {
	cfg := EmptyProjectionConfig()
	cfg.FocalLength = ptrFloat64(math.Inf(1))
	assert.Error(t, cfg.Validate())

	cfg = EmptyProjectionConfig()
	cfg.LensDistance = ptrFloat64(math.NaN())
	assert.Error(t, cfg.Validate())

	// Infinite lens distance disables the correction and is allowed.
	cfg = EmptyProjectionConfig()
	cfg.LensDistance = ptrFloat64(math.Inf(1))
	assert.NoError(t, cfg.Validate())
}

func TestSampleSpec_Samples(t *testing.T) {
	testCases := []struct {
		name     string
		spec     *SampleSpec
		expected []float64
	}{
		{"nil_uses_defaults", nil, []float64{0, 0.5, 1}},
		{"values_win", &SampleSpec{Count: ptrInt(9), Values: []float64{3, 1}}, []float64{3, 1}},
		{"partial_range", &SampleSpec{Stop: ptrFloat64(2)}, []float64{0, 1, 2}},
		{"single_count", &SampleSpec{Count: ptrInt(1)}, []float64{0}},
		{"zero_count", &SampleSpec{Count: ptrInt(0)}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.spec.Samples(0, 1, 3))
		})
	}
}
