package wave

import (
	"math"
	"testing"

	"github.com/park285/heatboard/internal/domain"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func fourCellPath() []domain.Square {
	return []domain.Square{
		{Row: 4, Col: 4}, {Row: 3, Col: 4}, {Row: 2, Col: 4}, {Row: 1, Col: 4},
	}
}

func TestVisibilityPhaseZero(t *testing.T) {
	glows := Visibility(fourCellPath(), 0)
	// Index 0 sits at exactly 0.3, at the bottom of its arc; only the last
	// cell (delay 0.75, offset 0.25) peaks above the threshold.
	if len(glows) != 1 {
		t.Fatalf("expected 1 visible cell, got %d (%v)", len(glows), glows)
	}
	if glows[0].Cell != (domain.Square{Row: 1, Col: 4}) {
		t.Fatalf("wrong visible cell: %v", glows[0].Cell)
	}
	if !approx(glows[0].Intensity, 0.8) {
		t.Fatalf("expected peak intensity 0.8, got %v", glows[0].Intensity)
	}
}

func TestVisibilityQuarterPhase(t *testing.T) {
	glows := Visibility(fourCellPath(), 0.25)
	if len(glows) != 1 {
		t.Fatalf("expected 1 visible cell, got %d (%v)", len(glows), glows)
	}
	if glows[0].Cell != (domain.Square{Row: 4, Col: 4}) {
		t.Fatalf("wave should have moved to the path head, got %v", glows[0].Cell)
	}
	if !approx(glows[0].Intensity, 0.8) {
		t.Fatalf("expected peak intensity 0.8, got %v", glows[0].Intensity)
	}
}

func TestVisibilityEmptyPath(t *testing.T) {
	if glows := Visibility(nil, 0.5); glows != nil {
		t.Fatalf("expected no glows for empty path, got %v", glows)
	}
}

func TestVisibilityIntensityBounds(t *testing.T) {
	path := fourCellPath()
	for phase := 0.0; phase < 1.0; phase += 0.01 {
		for _, g := range Visibility(path, phase) {
			if g.Intensity <= 0.35 || g.Intensity > 0.8+1e-9 {
				t.Fatalf("intensity %v out of (0.35, 0.8] at phase %v", g.Intensity, phase)
			}
		}
	}
}

func TestAdvance(t *testing.T) {
	next, wrapped := Advance(0)
	if !approx(next, PhaseStep) || wrapped {
		t.Fatalf("Advance(0) = %v wrapped=%v", next, wrapped)
	}

	next, wrapped = Advance(0.9)
	if !wrapped {
		t.Fatalf("expected wrap past 1.0, got next=%v", next)
	}
	if next >= 0.9 {
		t.Fatalf("wrapped phase should restart low, got %v", next)
	}
}

func TestAdvanceFirstWrapOnSeventhTick(t *testing.T) {
	phase := 0.0
	for tick := 1; tick <= 7; tick++ {
		var wrapped bool
		phase, wrapped = Advance(phase)
		if wrapped != (tick == 7) {
			t.Fatalf("tick %d: wrapped=%v phase=%v", tick, wrapped, phase)
		}
	}
}
