// Package rays enumerates capturing moves for a position and interpolates
// the cell paths the traveling highlight follows between their endpoints.
package rays

import (
	nchess "github.com/corentings/chess/v2"
	"github.com/park285/heatboard/internal/domain"
)

// AttackRay is one legal capturing move: a piece on From can legally move to
// To, and To holds a piece of the opposing color in the same position.
type AttackRay struct {
	From domain.Square
	To   domain.Square
}

// BoardView is the read-only occupancy a snapshot exposes.
type BoardView interface {
	PieceAt(cell domain.Square) (nchess.Piece, bool)
}

// Oracle answers legality queries for the position the board view was
// captured from. Legality is entirely the rules engine's: blocked sliding
// pieces, pins, en passant and promotions all fall out of its move list.
type Oracle interface {
	// LegalTargets returns the destinations of every legal move originating
	// at from, for the side to move.
	LegalTargets(from domain.Square) []domain.Square
}

// Extract returns every capturing move available in the position: for each
// occupied square, the oracle's legal destinations filtered to those holding
// an enemy piece. It is pure; the same board and oracle always yield the
// same rays, and nothing is cached across calls.
func Extract(board BoardView, oracle Oracle) []AttackRay {
	var out []AttackRay
	for row := 0; row < domain.GridSize; row++ {
		for col := 0; col < domain.GridSize; col++ {
			from := domain.Square{Row: row, Col: col}
			mover, ok := board.PieceAt(from)
			if !ok {
				continue
			}
			for _, to := range oracle.LegalTargets(from) {
				target, occupied := board.PieceAt(to)
				if !occupied || target.Color() == mover.Color() {
					continue
				}
				out = append(out, AttackRay{From: from, To: to})
			}
		}
	}
	return out
}

// positionOracle adapts a rules-engine position to the Oracle interface.
type positionOracle struct {
	pos *nchess.Position
}

// NewPositionOracle wraps a position's legal move list.
func NewPositionOracle(pos *nchess.Position) Oracle {
	return &positionOracle{pos: pos}
}

func (o *positionOracle) LegalTargets(from domain.Square) []domain.Square {
	if o.pos == nil {
		return nil
	}
	sq := from.ToChessSquare()
	var out []domain.Square
	for _, mv := range o.pos.ValidMoves() {
		if mv.S1() != sq {
			continue
		}
		out = append(out, domain.FromChessSquare(mv.S2()))
	}
	return out
}
