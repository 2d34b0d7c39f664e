package timeline

import (
	"strconv"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/heatboard/internal/domain"
)

// Snapshot is an immutable record of one position: occupancy, the derived
// piece-value heatmap, and the label describing how the position was reached.
// The occupancy and heat grids are value arrays copied out of the working
// board at capture time, so later moves on the board never alter a snapshot.
type Snapshot struct {
	// Label is "Initial Position" for ply 0, otherwise "Move {n}: {uci}".
	Label string
	// SAN is the algebraic notation of the move that produced the position,
	// empty for the initial position.
	SAN string
	// UCI is the coordinate notation of the producing move, empty for ply 0.
	UCI string
	// Heat holds the piece weight of each occupied cell, 0 when empty.
	// Row 0 is rank 8, col 0 is file a.
	Heat [domain.GridSize][domain.GridSize]int

	pieces [domain.GridSize][domain.GridSize]nchess.Piece
	pos    *nchess.Position
}

func capture(pos *nchess.Position, label, san, uci string) *Snapshot {
	snap := &Snapshot{
		Label: label,
		SAN:   san,
		UCI:   uci,
		pos:   pos,
	}
	for i := range snap.pieces {
		for j := range snap.pieces[i] {
			snap.pieces[i][j] = nchess.NoPiece
		}
	}
	for sq, piece := range pos.Board().SquareMap() {
		cell := domain.FromChessSquare(sq)
		snap.pieces[cell.Row][cell.Col] = piece
		snap.Heat[cell.Row][cell.Col] = domain.PieceWeight(piece.Type())
	}
	return snap
}

// PieceAt returns the piece occupying a cell, if any.
func (s *Snapshot) PieceAt(cell domain.Square) (nchess.Piece, bool) {
	if !cell.InBounds() {
		return nchess.NoPiece, false
	}
	piece := s.pieces[cell.Row][cell.Col]
	return piece, piece != nchess.NoPiece
}

// Position exposes the rules-engine position the snapshot was captured from,
// for legality queries. Positions are never mutated after capture.
func (s *Snapshot) Position() *nchess.Position {
	return s.pos
}

// Annotation returns the cell text for the given label mode: a piece
// figurine, the heat value, or empty for an unoccupied cell.
func (s *Snapshot) Annotation(cell domain.Square, mode domain.LabelMode) string {
	piece, ok := s.PieceAt(cell)
	if !ok {
		return ""
	}
	if mode == domain.LabelValues {
		return strconv.Itoa(s.Heat[cell.Row][cell.Col])
	}
	return string(domain.PieceGlyph(piece))
}
