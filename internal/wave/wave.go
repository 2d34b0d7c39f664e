// Package wave computes the per-cell intensity of the traveling highlight
// that pulses along an attack path as the phase clock advances.
package wave

import (
	"math"
	"time"

	"github.com/park285/heatboard/internal/domain"
)

const (
	// PhaseStep is the phase increment applied per tick, wrapping mod 1.0.
	PhaseStep = 0.15
	// TickInterval is the wave timer period.
	TickInterval = 50 * time.Millisecond
	// MaxPulses is how many full phase cycles run per position before the
	// highlights are cleared and ticking stops.
	MaxPulses = 3
	// visibleThreshold keeps roughly the upper half of each cell's sine arc
	// visible, which is what makes the highlight appear to travel.
	visibleThreshold = 0.35
)

// Glow is one visible cell of the wave with its intensity in (0.35, 0.8].
type Glow struct {
	Cell      domain.Square
	Intensity float64
}

// Visibility computes the visible cells of one path at the given phase.
// Cells whose intensity is at or below the threshold are absent from the
// result, not emitted with low alpha. Each path index lags the phase by
// idx/max(len,1), so the wave runs from the attacker toward the target.
func Visibility(path []domain.Square, phase float64) []Glow {
	if len(path) == 0 {
		return nil
	}
	var out []Glow
	for idx, cell := range path {
		delay := float64(idx) / float64(len(path))
		offset := math.Mod(phase-delay, 1.0)
		if offset < 0 {
			offset += 1.0
		}
		intensity := 0.3 + 0.5*math.Sin(offset*2*math.Pi)
		if intensity > visibleThreshold {
			out = append(out, Glow{Cell: cell, Intensity: intensity})
		}
	}
	return out
}

// Advance steps the phase clock by one tick. wrapped is true when the phase
// passed 1.0 and restarted, which counts as one completed pulse.
func Advance(phase float64) (next float64, wrapped bool) {
	next = math.Mod(phase+PhaseStep, 1.0)
	return next, next < phase
}
