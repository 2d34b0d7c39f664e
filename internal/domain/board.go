package domain

import nchess "github.com/corentings/chess/v2"

// GridSize is the board edge length in cells.
const GridSize = 8

// Square is a grid coordinate. Row 0 is rank 8 (top of the board as drawn),
// Col 0 is file a.
type Square struct {
	Row int
	Col int
}

// FromChessSquare converts a rules-engine square to grid coordinates.
func FromChessSquare(sq nchess.Square) Square {
	return Square{
		Row: GridSize - 1 - int(sq.Rank()),
		Col: int(sq.File()),
	}
}

// ToChessSquare converts grid coordinates back to a rules-engine square.
func (s Square) ToChessSquare() nchess.Square {
	return nchess.NewSquare(nchess.File(s.Col), nchess.Rank(GridSize-1-s.Row))
}

// InBounds reports whether the square lies on the 8x8 grid.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < GridSize && s.Col >= 0 && s.Col < GridSize
}

// PieceWeight returns the heat intensity assigned to a piece kind. The king
// weighs 4, which is not a standard material value.
func PieceWeight(pt nchess.PieceType) int {
	switch pt {
	case nchess.Pawn:
		return 1
	case nchess.Knight:
		return 3
	case nchess.Bishop:
		return 3
	case nchess.Rook:
		return 5
	case nchess.King:
		return 4
	case nchess.Queen:
		return 10
	default:
		return 0
	}
}

// MaxPieceWeight is the top of the heat color scale. Values above it are
// clamped by renderers, never rejected.
const MaxPieceWeight = 10

// PieceGlyph returns the unicode figurine for a piece, or a space for
// nchess.NoPiece.
func PieceGlyph(piece nchess.Piece) rune {
	if piece == nchess.NoPiece {
		return ' '
	}
	white := piece.Color() == nchess.White
	switch piece.Type() {
	case nchess.King:
		return pick(white, '♔', '♚')
	case nchess.Queen:
		return pick(white, '♕', '♛')
	case nchess.Rook:
		return pick(white, '♖', '♜')
	case nchess.Bishop:
		return pick(white, '♗', '♝')
	case nchess.Knight:
		return pick(white, '♘', '♞')
	case nchess.Pawn:
		return pick(white, '♙', '♟')
	}
	return ' '
}

// PieceLetter returns the ASCII letter for a piece (uppercase white,
// lowercase black), used where figurine glyphs cannot be drawn.
func PieceLetter(piece nchess.Piece) rune {
	if piece == nchess.NoPiece {
		return ' '
	}
	var r rune
	switch piece.Type() {
	case nchess.King:
		r = 'K'
	case nchess.Queen:
		r = 'Q'
	case nchess.Rook:
		r = 'R'
	case nchess.Bishop:
		r = 'B'
	case nchess.Knight:
		r = 'N'
	case nchess.Pawn:
		r = 'P'
	default:
		return ' '
	}
	if piece.Color() == nchess.Black {
		r += 'a' - 'A'
	}
	return r
}

func pick(cond bool, a, b rune) rune {
	if cond {
		return a
	}
	return b
}
