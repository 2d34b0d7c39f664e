package rays

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/heatboard/internal/domain"
)

// positionBoard adapts a raw rules-engine position to BoardView for tests.
type positionBoard struct {
	pos *nchess.Position
}

func (b positionBoard) PieceAt(cell domain.Square) (nchess.Piece, bool) {
	piece := b.pos.Board().Piece(cell.ToChessSquare())
	return piece, piece != nchess.NoPiece
}

func playMoves(t *testing.T, game *nchess.Game, ucis ...string) {
	t.Helper()
	notation := nchess.UCINotation{}
	for _, uci := range ucis {
		mv, err := notation.Decode(game.Position(), uci)
		if err != nil {
			t.Fatalf("decode %s: %v", uci, err)
		}
		if err := game.Move(mv, nil); err != nil {
			t.Fatalf("move %s: %v", uci, err)
		}
	}
}

func TestExtractStartingPosition(t *testing.T) {
	pos := nchess.NewGame().Position()
	got := Extract(positionBoard{pos: pos}, NewPositionOracle(pos))
	if len(got) != 0 {
		t.Fatalf("no captures exist in the starting position, got %v", got)
	}
}

func TestExtractFindsPawnCapture(t *testing.T) {
	game := nchess.NewGame()
	playMoves(t, game, "e2e4", "d7d5")

	pos := game.Position()
	got := Extract(positionBoard{pos: pos}, NewPositionOracle(pos))
	if len(got) != 1 {
		t.Fatalf("expected exactly the exd5 capture, got %v", got)
	}
	want := AttackRay{
		From: domain.Square{Row: 4, Col: 4}, // e4
		To:   domain.Square{Row: 3, Col: 3}, // d5
	}
	if got[0] != want {
		t.Fatalf("ray mismatch: got %v want %v", got[0], want)
	}
}

func TestExtractOnlySideToMove(t *testing.T) {
	game := nchess.NewGame()
	playMoves(t, game, "e2e4", "d7d5", "g1f3")
	// Black to move: d5xe4 is black's only capture. Every ray must start on
	// a black piece even though white's e4 pawn also has d5 in reach.
	pos := game.Position()
	board := positionBoard{pos: pos}
	got := Extract(board, NewPositionOracle(pos))
	if len(got) == 0 {
		t.Fatalf("expected at least one black capture")
	}
	for _, ray := range got {
		mover, ok := board.PieceAt(ray.From)
		if !ok {
			t.Fatalf("ray from empty square %v", ray.From)
		}
		if mover.Color() != nchess.Black {
			t.Fatalf("ray %v does not belong to the side to move", ray)
		}
	}
}

func TestInterpolateRookLine(t *testing.T) {
	from := domain.Square{Row: 0, Col: 0}
	to := domain.Square{Row: 0, Col: 3}
	got := Interpolate(from, to)
	want := []domain.Square{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}}
	if len(got) != len(want) {
		t.Fatalf("path length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestInterpolateDiagonalBackwards(t *testing.T) {
	got := Interpolate(domain.Square{Row: 7, Col: 7}, domain.Square{Row: 4, Col: 4})
	want := []domain.Square{{Row: 7, Col: 7}, {Row: 6, Col: 6}, {Row: 5, Col: 5}, {Row: 4, Col: 4}}
	if len(got) != len(want) {
		t.Fatalf("path length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestInterpolateSameSquare(t *testing.T) {
	sq := domain.Square{Row: 2, Col: 5}
	got := Interpolate(sq, sq)
	if len(got) != 1 || got[0] != sq {
		t.Fatalf("expected single-cell path, got %v", got)
	}
}

func TestInterpolateKnightDelta(t *testing.T) {
	from := domain.Square{Row: 7, Col: 1}
	to := domain.Square{Row: 5, Col: 2}
	got := Interpolate(from, to)
	if len(got) != 3 {
		t.Fatalf("knight path should span max-axis+1 cells, got %v", got)
	}
	if got[0] != from || got[len(got)-1] != to {
		t.Fatalf("path endpoints wrong: %v", got)
	}
	for i := 1; i < len(got); i++ {
		dr := got[i].Row - got[i-1].Row
		dc := got[i].Col - got[i-1].Col
		if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
			t.Fatalf("non-adjacent step %v -> %v", got[i-1], got[i])
		}
	}
}
