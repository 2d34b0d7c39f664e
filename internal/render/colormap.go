package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/park285/heatboard/internal/domain"
)

// heatStops is the dark-to-bright gradient of the heat scale, evenly spaced
// over the value domain.
var heatStops = []string{"#2b2b2b", "#4a4a4a", "#ffa500", "#ff6b00", "#ff0000", "#ff00ff"}

// Colormap maps heat values in [0, MaxPieceWeight] onto the gradient.
// Values above the top of the scale are clamped, never rejected.
type Colormap struct {
	stops []colorful.Color
}

func NewColormap() *Colormap {
	stops := make([]colorful.Color, 0, len(heatStops))
	for _, hex := range heatStops {
		c, err := colorful.Hex(hex)
		if err != nil {
			// The stops are compile-time constants; a bad one is a bug.
			panic(err)
		}
		stops = append(stops, c)
	}
	return &Colormap{stops: stops}
}

// At returns the display color for a heat value.
func (m *Colormap) At(value int) color.RGBA {
	t := float64(value) / float64(domain.MaxPieceWeight)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	segments := len(m.stops) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	blended := m.stops[i].BlendLab(m.stops[i+1], pos-float64(i)).Clamped()
	r, g, b := blended.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
