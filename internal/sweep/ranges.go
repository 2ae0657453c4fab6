// Package sweep drives the camera over a grid of (time, speed) samples
// and collects one projected frame per grid point.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxSamples bounds any single generated sample list.
const maxSamples = 10000

// RangeSpec is a closed "min:max:step" sample range.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// ParseRangeSpec parses "min:max:step". The step must be positive.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return RangeSpec{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	vals := make([]float64, 3)
	for i, name := range []string{"min", "max", "step"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return RangeSpec{}, fmt.Errorf("invalid %s value %q: %w", name, parts[i], err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 {
		return RangeSpec{}, fmt.Errorf("step must be positive, got %f", vals[2])
	}
	return RangeSpec{Min: vals[0], Max: vals[1], Step: vals[2]}, nil
}

// Values expands the range. See GenerateRange.
func (r RangeSpec) Values() []float64 {
	return GenerateRange(r.Min, r.Max, r.Step)
}

// GenerateRange returns min, min+step, ... up to max inclusive. Values are
// computed by index, not accumulation, and rounded to 1e-9 so that
// "0:10:2.5" yields exactly 0, 2.5, 5, 7.5, 10. Returns nil when
// step <= 0, min > max, or the range would exceed maxSamples values.
func GenerateRange(min, max, step float64) []float64 {
	if step <= 0 || min > max {
		return nil
	}
	count := math.Floor((max-min)/step+1e-9) + 1
	if count > maxSamples || math.IsNaN(count) {
		return nil
	}

	out := make([]float64, 0, int(count))
	for i := 0; i < int(count); i++ {
		v := math.Round((min+float64(i)*step)*1e9) / 1e9
		if v > max {
			break
		}
		out = append(out, v)
	}
	return out
}

// ParseCSVFloat64s parses a comma-separated list of floats. Empty entries
// are skipped; an empty string yields nil, nil.
func ParseCSVFloat64s(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseParamList parses either a "min:max:step" range or a
// comma-separated list of values.
func ParseParamList(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ":") {
		spec, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		return spec.Values(), nil
	}
	return ParseCSVFloat64s(s)
}
