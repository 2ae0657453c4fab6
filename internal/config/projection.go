package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"github.com/golang/geo/r2"

	"github.com/banshee-data/pinhole/internal/camera"
	"github.com/banshee-data/pinhole/internal/fsutil"
	"github.com/banshee-data/pinhole/internal/scene"
	"github.com/banshee-data/pinhole/internal/sweep"
)

// DefaultConfigPath is the path to the canonical projection defaults file.
const DefaultConfigPath = "config/projection.defaults.json"

const maxSampleCount = 10000

// ProjectionConfig is the root configuration for a projection run.
// Every field is optional; Get* accessors fall back to the defaults.
type ProjectionConfig struct {
	// Camera params
	FocalLength    *float64 `json:"focal_length,omitempty"`
	FocalLengthY   *float64 `json:"focal_length_y,omitempty"` // defaults to focal_length
	LensDistance   *float64 `json:"lens_distance,omitempty"`
	PinholeOffsetX *float64 `json:"pinhole_offset_x,omitempty"`
	PinholeOffsetY *float64 `json:"pinhole_offset_y,omitempty"`
	PrincipalPoint *Point   `json:"principal_point,omitempty"`

	// Scene params
	TableDimensions *TableConfig `json:"table_dimensions,omitempty"`
	MeshResolution  *MeshConfig  `json:"mesh_resolution,omitempty"`

	// Sweep params
	TimeSamples  *SampleSpec `json:"time_samples,omitempty"`
	SpeedSamples *SampleSpec `json:"speed_samples,omitempty"`
	Strict       *bool       `json:"strict,omitempty"`
	Workers      *int        `json:"workers,omitempty"`

	// Render params
	AxisLimits *AxisLimits `json:"axis_limits,omitempty"`
}

// Point is a 2D coordinate in pixel units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TableConfig mirrors scene.TableDimensions with optional fields.
type TableConfig struct {
	Length       *float64 `json:"length,omitempty"`
	Width        *float64 `json:"width,omitempty"`
	TopHeight    *float64 `json:"top_height,omitempty"`
	LegHeight    *float64 `json:"leg_height,omitempty"`
	LegThickness *float64 `json:"leg_thickness,omitempty"`
}

// MeshConfig mirrors scene.Resolution with optional fields.
type MeshConfig struct {
	Top *int `json:"top,omitempty"`
	Leg *int `json:"leg,omitempty"`
}

// SampleSpec is either an explicit list of values or count evenly spaced
// values from start to stop inclusive. Values wins when both are set.
type SampleSpec struct {
	Start  *float64  `json:"start,omitempty"`
	Stop   *float64  `json:"stop,omitempty"`
	Count  *int      `json:"count,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// AxisLimits bounds the rendered image plane.
type AxisLimits struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultProjectionConfig returns a config with every field populated.
func DefaultProjectionConfig() *ProjectionConfig {
	return &ProjectionConfig{
		FocalLength:    ptrFloat64(4),
		LensDistance:   ptrFloat64(6),
		PinholeOffsetX: ptrFloat64(2),
		PinholeOffsetY: ptrFloat64(3),
		PrincipalPoint: &Point{},
		TableDimensions: &TableConfig{
			Length:       ptrFloat64(6),
			Width:        ptrFloat64(3),
			TopHeight:    ptrFloat64(3),
			LegHeight:    ptrFloat64(3),
			LegThickness: ptrFloat64(0.5),
		},
		MeshResolution: &MeshConfig{Top: ptrInt(20), Leg: ptrInt(7)},
		TimeSamples:    &SampleSpec{Start: ptrFloat64(0), Stop: ptrFloat64(10), Count: ptrInt(5)},
		SpeedSamples:   &SampleSpec{Start: ptrFloat64(0.1), Stop: ptrFloat64(1), Count: ptrInt(5)},
		Strict:         ptrBool(true),
		Workers:        ptrInt(1),
		AxisLimits:     &AxisLimits{XMin: -10, XMax: 15, YMin: -10, YMax: 10},
	}
}

// EmptyProjectionConfig returns a ProjectionConfig with all fields nil.
func EmptyProjectionConfig() *ProjectionConfig {
	return &ProjectionConfig{}
}

// LoadProjectionConfig loads a ProjectionConfig from a JSON file on disk.
func LoadProjectionConfig(path string) (*ProjectionConfig, error) {
	return LoadProjectionConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadProjectionConfigFS loads a ProjectionConfig from fsys.
// The file must have a .json extension and be at most 1MB. Unknown keys
// are rejected. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadProjectionConfigFS(fsys fsutil.FileSystem, path string) (*ProjectionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultProjectionConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded,
// intended for test setup.
func MustLoadDefaultConfig() *ProjectionConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadProjectionConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks that the configuration values are usable. A lens
// distance of zero is not rejected here: it surfaces as
// camera.ErrInvalidParameter when frames are built, where the sweep's
// strictness decides whether it aborts the run.
func (c *ProjectionConfig) Validate() error {
	for name, v := range map[string]*float64{
		"focal_length":     c.FocalLength,
		"focal_length_y":   c.FocalLengthY,
		"pinhole_offset_x": c.PinholeOffsetX,
		"pinhole_offset_y": c.PinholeOffsetY,
	} {
		if v != nil && !finite(*v) {
			return fmt.Errorf("%s must be finite, got %f", name, *v)
		}
	}
	if c.LensDistance != nil && math.IsNaN(*c.LensDistance) {
		return fmt.Errorf("lens_distance must be a number")
	}

	if t := c.TableDimensions; t != nil {
		for name, v := range map[string]*float64{
			"length":        t.Length,
			"width":         t.Width,
			"top_height":    t.TopHeight,
			"leg_height":    t.LegHeight,
			"leg_thickness": t.LegThickness,
		} {
			if v != nil && (!finite(*v) || *v < 0) {
				return fmt.Errorf("table_dimensions.%s must be a non-negative number, got %f", name, *v)
			}
		}
	}

	if m := c.MeshResolution; m != nil {
		if m.Top != nil && (*m.Top < 0 || *m.Top > maxSampleCount) {
			return fmt.Errorf("mesh_resolution.top must be between 0 and %d, got %d", maxSampleCount, *m.Top)
		}
		if m.Leg != nil && (*m.Leg < 0 || *m.Leg > maxSampleCount) {
			return fmt.Errorf("mesh_resolution.leg must be between 0 and %d, got %d", maxSampleCount, *m.Leg)
		}
	}

	for name, s := range map[string]*SampleSpec{"time_samples": c.TimeSamples, "speed_samples": c.SpeedSamples} {
		if s == nil {
			continue
		}
		if s.Count != nil && (*s.Count < 0 || *s.Count > maxSampleCount) {
			return fmt.Errorf("%s.count must be between 0 and %d, got %d", name, maxSampleCount, *s.Count)
		}
		if len(s.Values) > maxSampleCount {
			return fmt.Errorf("%s.values has %d entries (max %d)", name, len(s.Values), maxSampleCount)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if a := c.AxisLimits; a != nil {
		if !(a.XMin < a.XMax) || !(a.YMin < a.YMax) {
			return fmt.Errorf("axis_limits must satisfy min < max, got x=[%g,%g] y=[%g,%g]", a.XMin, a.XMax, a.YMin, a.YMax)
		}
	}
	return nil
}

// GetFocalLength returns the focal_length value or the default.
func (c *ProjectionConfig) GetFocalLength() float64 {
	if c.FocalLength == nil {
		return 4
	}
	return *c.FocalLength
}

// GetFocalLengthY returns focal_length_y, falling back to focal_length.
func (c *ProjectionConfig) GetFocalLengthY() float64 {
	if c.FocalLengthY == nil {
		return c.GetFocalLength()
	}
	return *c.FocalLengthY
}

// GetLensDistance returns the lens_distance value or the default.
func (c *ProjectionConfig) GetLensDistance() float64 {
	if c.LensDistance == nil {
		return 6
	}
	return *c.LensDistance
}

// GetPinholeOffsetX returns the pinhole_offset_x value or the default.
func (c *ProjectionConfig) GetPinholeOffsetX() float64 {
	if c.PinholeOffsetX == nil {
		return 2
	}
	return *c.PinholeOffsetX
}

// GetPinholeOffsetY returns the pinhole_offset_y value or the default.
func (c *ProjectionConfig) GetPinholeOffsetY() float64 {
	if c.PinholeOffsetY == nil {
		return 3
	}
	return *c.PinholeOffsetY
}

// GetPrincipalPoint returns the principal_point value or the origin.
func (c *ProjectionConfig) GetPrincipalPoint() r2.Point {
	if c.PrincipalPoint == nil {
		return r2.Point{}
	}
	return r2.Point{X: c.PrincipalPoint.X, Y: c.PrincipalPoint.Y}
}

// GetStrict returns the strict value or the default.
func (c *ProjectionConfig) GetStrict() bool {
	if c.Strict == nil {
		return true
	}
	return *c.Strict
}

// GetWorkers returns the workers value or the default.
func (c *ProjectionConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetAxisLimits returns the axis_limits value or the default.
func (c *ProjectionConfig) GetAxisLimits() AxisLimits {
	if c.AxisLimits == nil {
		return AxisLimits{XMin: -10, XMax: 15, YMin: -10, YMax: 10}
	}
	return *c.AxisLimits
}

// PinholeOffset returns (pinhole_offset_x, pinhole_offset_y).
func (c *ProjectionConfig) PinholeOffset() r2.Point {
	return r2.Point{X: c.GetPinholeOffsetX(), Y: c.GetPinholeOffsetY()}
}

// Intrinsics returns the camera intrinsics.
func (c *ProjectionConfig) Intrinsics() camera.Intrinsics {
	pp := c.GetPrincipalPoint()
	return camera.Intrinsics{
		Fx: c.GetFocalLength(),
		Fy: c.GetFocalLengthY(),
		Cx: pp.X,
		Cy: pp.Y,
	}
}

// CameraModel builds the camera for this configuration.
func (c *ProjectionConfig) CameraModel() *camera.Model {
	return camera.NewModel(c.Intrinsics(), c.GetLensDistance(), c.PinholeOffset())
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Table returns the table dimensions.
func (c *ProjectionConfig) Table() scene.TableDimensions {
	t := c.TableDimensions
	if t == nil {
		t = &TableConfig{}
	}
	return scene.TableDimensions{
		Length:       orDefault(t.Length, 6),
		Width:        orDefault(t.Width, 3),
		TopHeight:    orDefault(t.TopHeight, 3),
		LegHeight:    orDefault(t.LegHeight, 3),
		LegThickness: orDefault(t.LegThickness, 0.5),
	}
}

// Mesh returns the scene sampling resolution.
func (c *ProjectionConfig) Mesh() scene.Resolution {
	res := scene.Resolution{Top: 20, Leg: 7}
	if m := c.MeshResolution; m != nil {
		if m.Top != nil {
			res.Top = *m.Top
		}
		if m.Leg != nil {
			res.Leg = *m.Leg
		}
	}
	return res
}

// Samples expands s, using the given defaults for unset fields.
func (s *SampleSpec) Samples(start, stop float64, count int) []float64 {
	if s == nil {
		return scene.Linspace(start, stop, count)
	}
	if len(s.Values) > 0 {
		out := make([]float64, len(s.Values))
		copy(out, s.Values)
		return out
	}
	if s.Count != nil {
		count = *s.Count
	}
	return scene.Linspace(orDefault(s.Start, start), orDefault(s.Stop, stop), count)
}

// Times returns the time samples.
func (c *ProjectionConfig) Times() []float64 {
	return c.TimeSamples.Samples(0, 10, 5)
}

// Speeds returns the angular speed samples.
func (c *ProjectionConfig) Speeds() []float64 {
	return c.SpeedSamples.Samples(0.1, 1, 5)
}

// Grid returns the sweep grid Times × Speeds.
func (c *ProjectionConfig) Grid() sweep.Grid {
	return sweep.Grid{Times: c.Times(), Speeds: c.Speeds()}
}

// SweepOptions returns the run options.
func (c *ProjectionConfig) SweepOptions() sweep.Options {
	return sweep.Options{Strict: c.GetStrict(), Workers: c.GetWorkers()}
}
