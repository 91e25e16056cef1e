package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

func mustCoord(t *testing.T, text string) shared.Coord {
	t.Helper()
	c, err := shared.AnnotationToSquare(text)
	if err != nil {
		t.Fatalf("bad square %q: %v", text, err)
	}
	return c
}

func mustSlot(t *testing.T, text string) shared.Slot {
	t.Helper()
	s, err := shared.ParseSlot(text)
	if err != nil {
		t.Fatalf("bad slot %q: %v", text, err)
	}
	return s
}

func mustEngine(t *testing.T, fen string) *Engine {
	t.Helper()
	e, err := NewEngineFromFEN(fen)
	if err != nil {
		t.Fatalf("load %q: %v", fen, err)
	}
	return e
}

func mustMove(t *testing.T, e *Engine, from, to string) {
	t.Helper()
	if err := e.Move(MoveRequest{From: mustCoord(t, from), To: mustCoord(t, to)}); err != nil {
		t.Fatalf("move %s-%s: %v", from, to, err)
	}
}

func pieceAt(t *testing.T, e *Engine, square string) *Piece {
	t.Helper()
	return e.pos.PieceAtCoord(mustCoord(t, square))
}

// snapshot renders everything a move may touch: board slots, owners and
// rotation, and every piece on the board with its identity and rights.
func snapshot(p *Position) string {
	var b strings.Builder
	for _, bd := range p.attack {
		fmt.Fprintf(&b, "%s:%s:%v;", bd.slot, bd.owner, bd.rotated)
	}
	for _, pc := range p.AllPieces() {
		fmt.Fprintf(&b, "%d%c@%s[%v%v%v%v];", pc.ID, pc.Letter(), p.location[pc].Coord(),
			pc.HasCastlingRights, pc.HasDoubleSquareRights, pc.JustMadeDoubleSquareMove, pc.Captured)
	}
	return b.String()
}

func hasCoord(list []shared.Coord, c shared.Coord) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}
