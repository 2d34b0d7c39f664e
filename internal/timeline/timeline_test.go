package timeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/park285/heatboard/internal/domain"
)

const scholarsMatePGN = `[Event "Test"]
[Site "?"]
[Result "1-0"]

1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7# 1-0
`

func buildScholarsMate(t *testing.T) *Timeline {
	t.Helper()
	game, err := LoadPGN(strings.NewReader(scholarsMatePGN))
	if err != nil {
		t.Fatalf("LoadPGN: %v", err)
	}
	tl, err := Build(game)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tl
}

func TestBuildScholarsMate(t *testing.T) {
	tl := buildScholarsMate(t)
	if tl.Len() != 8 {
		t.Fatalf("expected 8 snapshots (7 moves + initial), got %d", tl.Len())
	}

	first, err := tl.Snapshot(0)
	if err != nil {
		t.Fatalf("Snapshot(0): %v", err)
	}
	if first.Label != "Initial Position" || first.SAN != "" || first.UCI != "" {
		t.Fatalf("initial snapshot mislabeled: %+v", first)
	}

	second, err := tl.Snapshot(1)
	if err != nil {
		t.Fatalf("Snapshot(1): %v", err)
	}
	if second.Label != "Move 1: e2e4" {
		t.Fatalf("move label: %q", second.Label)
	}
	if second.SAN != "e4" {
		t.Fatalf("move SAN: %q", second.SAN)
	}

	last, err := tl.Snapshot(7)
	if err != nil {
		t.Fatalf("Snapshot(7): %v", err)
	}
	if last.Label != "Move 7: h5f7" {
		t.Fatalf("mate label: %q", last.Label)
	}
	if last.SAN != "Qxf7#" {
		t.Fatalf("mate SAN: %q", last.SAN)
	}
}

func TestSnapshotHeatValues(t *testing.T) {
	tl := buildScholarsMate(t)
	first, _ := tl.Snapshot(0)

	// Row 0 is rank 8. Black queen on d8, white king on e1, pawns on rank 2.
	if got := first.Heat[0][3]; got != 10 {
		t.Fatalf("queen heat = %d, want 10", got)
	}
	if got := first.Heat[7][4]; got != 4 {
		t.Fatalf("king heat = %d, want 4", got)
	}
	if got := first.Heat[6][0]; got != 1 {
		t.Fatalf("pawn heat = %d, want 1", got)
	}
	if got := first.Heat[4][4]; got != 0 {
		t.Fatalf("empty e4 heat = %d, want 0", got)
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	tl := buildScholarsMate(t)

	// The initial snapshot must still show the e2 pawn even though every
	// later snapshot was captured from the same replayed game.
	first, _ := tl.Snapshot(0)
	if got := first.Heat[6][4]; got != 1 {
		t.Fatalf("initial e2 heat = %d, want 1", got)
	}
	second, _ := tl.Snapshot(1)
	if got := second.Heat[6][4]; got != 0 {
		t.Fatalf("post-move e2 heat = %d, want 0", got)
	}
	if got := second.Heat[4][4]; got != 1 {
		t.Fatalf("post-move e4 heat = %d, want 1", got)
	}
}

func TestSnapshotRangeError(t *testing.T) {
	tl := buildScholarsMate(t)
	for _, index := range []int{-1, tl.Len(), tl.Len() + 5} {
		_, err := tl.Snapshot(index)
		if err == nil {
			t.Fatalf("Snapshot(%d): expected error", index)
		}
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Snapshot(%d): expected RangeError, got %v", index, err)
		}
		if rangeErr.Index != index || rangeErr.Max != tl.Len()-1 {
			t.Fatalf("RangeError fields: %+v", rangeErr)
		}
	}
}

func TestLoadPGNInvalid(t *testing.T) {
	if _, err := LoadPGN(nil); !errors.Is(err, ErrLoad) {
		t.Fatalf("nil reader: expected ErrLoad, got %v", err)
	}
	if _, err := LoadPGN(strings.NewReader("1. zz9 xx8")); !errors.Is(err, ErrLoad) {
		t.Fatalf("garbage movetext: expected ErrLoad, got %v", err)
	}
}

func TestAttackRaysInitialPosition(t *testing.T) {
	tl := buildScholarsMate(t)
	got, err := tl.AttackRays(0)
	if err != nil {
		t.Fatalf("AttackRays(0): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("no captures exist before the first move, got %v", got)
	}
}

func TestAttackRaysMatePosition(t *testing.T) {
	tl := buildScholarsMate(t)
	// After Qxf7# black has no legal moves at all, so no rays either.
	got, err := tl.AttackRays(tl.Len() - 1)
	if err != nil {
		t.Fatalf("AttackRays: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("checkmate position should yield no rays, got %v", got)
	}
}

func TestAnnotationModes(t *testing.T) {
	tl := buildScholarsMate(t)
	first, _ := tl.Snapshot(0)

	queen := domain.Square{Row: 0, Col: 3}
	if got := first.Annotation(queen, domain.LabelValues); got != "10" {
		t.Fatalf("values annotation = %q, want 10", got)
	}
	if got := first.Annotation(queen, domain.LabelSymbols); got == "" || got == "10" {
		t.Fatalf("symbols annotation should be a figurine, got %q", got)
	}
	empty := domain.Square{Row: 4, Col: 4}
	if got := first.Annotation(empty, domain.LabelValues); got != "" {
		t.Fatalf("empty cell annotation = %q, want empty", got)
	}
}
