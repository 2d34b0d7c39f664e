package timeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"github.com/park285/heatboard/internal/rays"
)

// Timeline is the ordered snapshot sequence for one full game: index 0 is
// always the starting position, index n the position after move n. It is
// built once per loaded game and read-only afterwards.
type Timeline struct {
	snaps        []*Snapshot
	openingCode  string
	openingTitle string
}

// LoadPGN parses a single game from PGN text.
func LoadPGN(r io.Reader) (*nchess.Game, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrLoad)
	}
	pgnOpt, err := nchess.PGN(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return nchess.NewGame(pgnOpt), nil
}

// LoadPGNFile parses a single game from a PGN file on disk.
func LoadPGNFile(path string) (*nchess.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return LoadPGN(f)
}

// Build replays the game's move list on a working board and captures an
// immutable snapshot before any move and after each one.
func Build(game *nchess.Game) (*Timeline, error) {
	if game == nil {
		return nil, fmt.Errorf("%w: nil game", ErrLoad)
	}

	t := &Timeline{}
	if eco := opening.NewBookECO().Find(game.Moves()); eco != nil {
		t.openingCode = eco.Code()
		t.openingTitle = eco.Title()
	}

	// Replay on a fresh game so each decode sees the position before the
	// move; the parsed game's own position is already at the final ply.
	replay := nchess.NewGame()
	t.snaps = append(t.snaps, capture(replay.Position(), "Initial Position", "", ""))

	notationSAN := nchess.AlgebraicNotation{}
	notationUCI := nchess.UCINotation{}
	for n, mv := range game.Moves() {
		uciText := moveUCI(mv.S1(), mv.S2(), mv.Promo())
		posBefore := replay.Position()
		decoded, err := notationUCI.Decode(posBefore, uciText)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d (%s): %v", ErrLoad, n+1, uciText, err)
		}
		san := notationSAN.Encode(posBefore, decoded)
		if err := replay.Move(decoded, nil); err != nil {
			return nil, fmt.Errorf("%w: move %d (%s): %v", ErrLoad, n+1, uciText, err)
		}
		label := fmt.Sprintf("Move %d: %s", n+1, uciText)
		t.snaps = append(t.snaps, capture(replay.Position(), label, san, uciText))
	}
	return t, nil
}

func moveUCI(from, to nchess.Square, promo nchess.PieceType) string {
	text := from.String() + to.String()
	switch promo {
	case nchess.Queen:
		text += "q"
	case nchess.Rook:
		text += "r"
	case nchess.Bishop:
		text += "b"
	case nchess.Knight:
		text += "n"
	}
	return strings.ToLower(text)
}

// Len returns the number of snapshots: move count + 1.
func (t *Timeline) Len() int {
	return len(t.snaps)
}

// Snapshot returns the snapshot at the given ply index, or a RangeError.
func (t *Timeline) Snapshot(index int) (*Snapshot, error) {
	if index < 0 || index >= len(t.snaps) {
		return nil, &RangeError{Index: index, Max: len(t.snaps) - 1}
	}
	return t.snaps[index], nil
}

// AttackRays enumerates the legal capturing moves available to the side to
// move in the snapshot at index. Rays are computed fresh on every call.
func (t *Timeline) AttackRays(index int) ([]rays.AttackRay, error) {
	snap, err := t.Snapshot(index)
	if err != nil {
		return nil, err
	}
	return rays.Extract(snap, rays.NewPositionOracle(snap.Position())), nil
}

// Opening returns the ECO code and title matched against the game's move
// list, both empty when no book line matches.
func (t *Timeline) Opening() (code, title string) {
	return t.openingCode, t.openingTitle
}
