package render

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// viridisStops samples the viridis colormap at ten evenly spaced points.
var viridisStops = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

var viridis = func() []colorful.Color {
	out := make([]colorful.Color, len(viridisStops))
	for i, hex := range viridisStops {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(fmt.Sprintf("render: bad palette color %q: %v", hex, err))
		}
		out[i] = c
	}
	return out
}()

// ViridisAt returns the viridis color at t in [0, 1], interpolated in
// CIE-Lab between stops. t is clamped.
func ViridisAt(t float64) colorful.Color {
	if t <= 0 {
		return viridis[0]
	}
	if t >= 1 {
		return viridis[len(viridis)-1]
	}
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	return viridis[i].BlendLab(viridis[i+1], pos-float64(i)).Clamped()
}

// Viridis returns n colors evenly spaced over the colormap, first and last
// included. n == 1 yields the first color.
func Viridis(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = ViridisAt(t)
	}
	return out
}

// hexColor formats c as #rrggbb.
func hexColor(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}
