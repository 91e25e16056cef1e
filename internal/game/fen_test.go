package game

import (
	"errors"
	"strings"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StandardFEN,
		"w1N3Ib6 k3/4/4/4|4/4/4/4|4/4/4/3K|1D/2|2/2|2/2 w - - 12 40",
		"w1W1b6B6 k3/4/4/4|4/4/4/4|P3/4/4/3K|2/2|2/2|2/2|2/2 b - a4W 0 1",
		"- k2r/4/4/4|4/4/4/4|4/4/4/K2R w - - 0 1",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			e := mustEngine(t, fen)
			if got := e.FEN(); got != fen {
				t.Fatalf("round trip\n got %q\nwant %q", got, fen)
			}
			p, active, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := PositionFEN(p, active, 0, 1); got == "" {
				t.Fatalf("empty encoding")
			}
		})
	}
}

func TestFENEnPassantAfterReply(t *testing.T) {
	e := NewEngine()
	mustMove(t, e, "a2W", "a4W")
	if got := strings.Fields(e.FEN())[4]; got != "a4W" {
		t.Fatalf("en-passant field after the double step = %q", got)
	}
	dests, err := e.LegalDestinations(mustCoord(t, "d8B"))
	if err != nil || len(dests) == 0 {
		t.Fatalf("knight destinations: %v %v", dests, err)
	}
	mustMove(t, e, "d8B", dests[0].String())

	fen := e.FEN()
	if got := strings.Fields(fen)[4]; got != "-" {
		t.Fatalf("en-passant field after the reply = %q", got)
	}
	back := mustEngine(t, fen)
	if got := back.FEN(); got != fen {
		t.Fatalf("round trip\n got %q\nwant %q", got, fen)
	}
}

func TestFENDecodesEveryPly(t *testing.T) {
	e := NewEngine()
	for ply := 0; ply < 120; ply++ {
		moves := e.LegalMoves()
		if len(moves) == 0 {
			break
		}
		m := expandPromotions(e.Position(), moves[(ply*11+5)%len(moves)])[0]
		if err := e.PlayMove(m); err != nil {
			t.Fatalf("ply %d %s: %v", ply, m.Notation(), err)
		}
		fen := e.FEN()
		back, err := NewEngineFromFEN(fen)
		if err != nil {
			t.Fatalf("ply %d %s: decode %q: %v", ply, m.Notation(), fen, err)
		}
		if got := back.FEN(); got != fen {
			t.Fatalf("ply %d: round trip\n got %q\nwant %q", ply, got, fen)
		}
		if e.Status().Terminal() {
			break
		}
	}
}

func TestFENStandardPieces(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		square string
		color  Color
		pt     PieceType
	}{
		{"z0QL1", White, Rook},
		{"a0QL1", White, Queen},
		{"d0KL1", White, King},
		{"e0KL1", White, Rook},
		{"b1W", White, Bishop},
		{"a1W", White, Knight},
		{"z9QL6", Black, Rook},
		{"a9QL6", Black, Queen},
		{"d9KL6", Black, King},
		{"d8B", Black, Knight},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			pc := pieceAt(t, e, tt.square)
			if pc == nil || pc.Color != tt.color || pc.Type != tt.pt {
				t.Fatalf("%s holds %+v", tt.square, pc)
			}
		})
	}
	if pc := pieceAt(t, e, "a2W"); !pc.HasDoubleSquareRights {
		t.Fatalf("starting pawns keep double-square rights")
	}
	for _, sq := range []string{"d0KL1", "e0KL1", "z0QL1"} {
		if pc := pieceAt(t, e, sq); !pc.HasCastlingRights {
			t.Fatalf("%s should have castling rights", sq)
		}
	}
}

func TestFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "- k3/4/4/4|4/4/4/4|4/4/4/3K w - -"},
		{"bad owner", "x1 k3/4/4/4|4/4/4/4|4/4/4/3K|2/2 w - - 0 1"},
		{"pin out of range", "w7 k3/4/4/4|4/4/4/4|4/4/4/3K|2/2 w - - 0 1"},
		{"duplicate slot", "w1w1 k3/4/4/4|4/4/4/4|4/4/4/3K|2/2|2/2 w - - 0 1"},
		{"board count", "w1 k3/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"missing king", "- 4/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"two kings", "- kk2/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"bad letter", "- kx2/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"short rank", "- k2/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"long rank", "- k4/4/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"missing rank", "- k3/4/4|4/4/4/4|4/4/4/3K w - - 0 1"},
		{"active colour", "- k3/4/4/4|4/4/4/4|4/4/4/3K x - - 0 1"},
		{"castling without rook", "- k3/4/4/4|4/4/4/4|4/4/4/3K w K - 0 1"},
		{"castling letter", "- k3/4/4/4|4/4/4/4|4/4/4/3K w X - 0 1"},
		{"en passant not a pawn", "- k3/4/4/4|4/4/4/4|4/4/4/3K w - d1W 0 1"},
		{"en passant text", "- k3/4/4/4|4/4/4/4|4/4/4/3K w - zz 0 1"},
		{"halfmove", "- k3/4/4/4|4/4/4/4|4/4/4/3K w - - -1 1"},
		{"fullmove", "- k3/4/4/4|4/4/4/4|4/4/4/3K w - - 0 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngineFromFEN(tt.fen)
			if err == nil {
				t.Fatalf("expected an error")
			}
			var fe *FormatError
			var re *RangeError
			if !errors.As(err, &fe) && !errors.As(err, &re) {
				t.Fatalf("expected a FormatError or RangeError, got %T: %v", err, err)
			}
		})
	}
}
