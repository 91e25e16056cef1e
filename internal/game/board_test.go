package game

import (
	"testing"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

func TestNewPositionMainSquares(t *testing.T) {
	p := NewPosition()
	count := 0
	for _, level := range []int{shared.WhiteLevel, shared.NeutralLevel, shared.BlackLevel} {
		lo, hi := shared.MainRankRange(level)
		for rank := lo; rank <= hi; rank++ {
			for file := 1; file <= 4; file++ {
				c := shared.C(file, level, rank)
				sq := p.SquareAt(c)
				if sq == nil {
					t.Fatalf("no square at %v", c)
				}
				if sq.Coord() != c {
					t.Fatalf("square at %v reports %v", c, sq.Coord())
				}
				if !sq.Board().IsMain() {
					t.Fatalf("square %v is not on a main board", c)
				}
				count++
			}
		}
	}
	if count != 48 {
		t.Fatalf("expected 48 main squares, got %d", count)
	}
	if sq := p.SquareAt(shared.C(0, 1, 0)); sq != nil {
		t.Fatalf("empty slot should have no squares, got %v", sq)
	}
}

func TestStandardAttackBoards(t *testing.T) {
	e := NewEngine()
	p := e.Position()
	if n := len(p.AttackBoards()); n != 4 {
		t.Fatalf("expected 4 attack boards, got %d", n)
	}
	tests := []struct {
		slot  string
		owner Owner
	}{
		{"QL1", OwnerWhite},
		{"KL1", OwnerWhite},
		{"QL6", OwnerBlack},
		{"KL6", OwnerBlack},
	}
	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			b := p.BoardAt(mustSlot(t, tt.slot))
			if b == nil {
				t.Fatalf("no board at %s", tt.slot)
			}
			if b.Owner() != tt.owner {
				t.Fatalf("owner = %v, want %v", b.Owner(), tt.owner)
			}
			if b.Label() != tt.slot {
				t.Fatalf("label = %q", b.Label())
			}
		})
	}
}

func TestSortedSquaresAndPiecesOn(t *testing.T) {
	e := NewEngine()
	p := e.Position()
	b := p.BoardAt(mustSlot(t, "QL1"))

	want := []string{"z0QL1", "a0QL1", "z1QL1", "a1QL1"}
	got := p.SortedSquares(b)
	if len(got) != len(want) {
		t.Fatalf("expected %d squares, got %d", len(want), len(got))
	}
	for i, sq := range got {
		if sq.String() != want[i] {
			t.Fatalf("square %d = %s, want %s", i, sq, want[i])
		}
	}

	types := []PieceType{Rook, Queen, Pawn, Pawn}
	pcs := p.PiecesOn(b)
	if len(pcs) != len(types) {
		t.Fatalf("expected %d pieces, got %d", len(types), len(pcs))
	}
	for i, pc := range pcs {
		if pc.Type != types[i] || pc.Color != White {
			t.Fatalf("piece %d = %v %v", i, pc.Color, pc.Type)
		}
	}
}

func TestColumnStacksLevels(t *testing.T) {
	e := NewEngine()
	p := e.Position()
	squares := p.column(shared.Column{File: 1, Rank: 1})
	if len(squares) != 2 {
		t.Fatalf("expected a1W and a1QL1, got %d squares", len(squares))
	}
	if squares[0].String() != "a1W" || squares[1].String() != "a1QL1" {
		t.Fatalf("column order = %s, %s", squares[0], squares[1])
	}
}

func TestBoardContaining(t *testing.T) {
	e := NewEngine()
	p := e.Position()
	ql1 := p.BoardAt(mustSlot(t, "QL1"))
	kl6 := p.BoardAt(mustSlot(t, "KL6"))
	tests := []struct {
		square string
		want   *Board
	}{
		{"a1W", p.MainBoard(shared.WhiteLevel)},
		{"c5N", p.MainBoard(shared.NeutralLevel)},
		{"d8B", p.MainBoard(shared.BlackLevel)},
		{"z0QL1", ql1},
		{"a1QL1", ql1},
		{"e9KL6", kl6},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			sq := p.SquareAt(mustCoord(t, tt.square))
			if sq == nil {
				t.Fatalf("no square %s", tt.square)
			}
			if got := p.BoardContaining(sq); got != tt.want {
				t.Fatalf("BoardContaining(%s) = %v, want %v", tt.square, got, tt.want)
			}
		})
	}

	sq := p.SquareAt(mustCoord(t, "z0QL1"))
	p.placeBoard(ql1, ql1.slot, true)
	if p.BoardContaining(sq) != ql1 || sq.String() != "a1QL1" {
		t.Fatalf("rotated square %s left its board", sq)
	}
}

func TestRotationMovesSquares(t *testing.T) {
	p := NewPosition()
	b, err := p.AddAttackBoard(shared.Slot{Pin: shared.Pin{Side: shared.QueenSide, Index: 1}}, OwnerWhite)
	if err != nil {
		t.Fatalf("add board: %v", err)
	}
	sq := p.SquareAt(shared.C(0, 1, 1))
	pc := p.NewPiece(White, Pawn, sq)

	p.placeBoard(b, b.slot, true)
	if got := p.SquareWithPiece(pc).String(); got != "a0QL1" {
		t.Fatalf("rotated pawn on %s, want a0QL1", got)
	}
	if p.PieceAtCoord(shared.C(1, 1, 0)) != pc {
		t.Fatalf("lookup by coordinate misses the rotated square")
	}
	p.placeBoard(b, b.slot, false)
	if got := p.SquareWithPiece(pc).String(); got != "z1QL1" {
		t.Fatalf("pawn on %s after rotating back", got)
	}
}

func TestAddAttackBoardErrors(t *testing.T) {
	p := NewPosition()
	slot := shared.Slot{Pin: shared.Pin{Side: shared.KingSide, Index: 3}, Inverted: true}
	if _, err := p.AddAttackBoard(slot, OwnerNeutral); err != nil {
		t.Fatalf("add board: %v", err)
	}
	if _, err := p.AddAttackBoard(slot, OwnerNeutral); err == nil {
		t.Fatalf("expected an error for an occupied slot")
	}
	if _, err := p.AddAttackBoard(shared.Slot{Pin: shared.Pin{Index: 7}}, OwnerNeutral); err == nil {
		t.Fatalf("expected an error for pin 7")
	}
}

func TestRemoveAttackBoardDestroysPieces(t *testing.T) {
	e := NewEngine()
	p := e.Position()
	b := p.BoardAt(mustSlot(t, "KL6"))
	pcs := p.PiecesOn(b)
	before := len(p.AllPieces())

	p.RemoveAttackBoard(b)
	if p.BoardAt(mustSlot(t, "KL6")) != nil {
		t.Fatalf("slot still bound")
	}
	if len(p.AttackBoards()) != 3 {
		t.Fatalf("expected 3 attack boards left, got %d", len(p.AttackBoards()))
	}
	for _, pc := range pcs {
		if !pc.Captured || p.SquareWithPiece(pc) != nil {
			t.Fatalf("piece %d survived its board", pc.ID)
		}
	}
	if got := len(p.AllPieces()); got != before-len(pcs) {
		t.Fatalf("expected %d pieces, got %d", before-len(pcs), got)
	}
	if p.King(Black) != nil {
		t.Fatalf("black king should be gone with KL6")
	}
}

func TestPromotionSquare(t *testing.T) {
	e := NewEngine()
	p := e.Position()
	tests := []struct {
		name  string
		color Color
		c     shared.Coord
		want  bool
	}{
		{"white last rank", White, shared.C(0, 5, 9), true},
		{"white rank 8 under a black board", White, shared.C(1, 4, 8), false},
		{"white rank 8 in the open", White, shared.C(2, 4, 8), true},
		{"white rank 7", White, shared.C(2, 4, 7), false},
		{"black last rank", Black, shared.C(0, 1, 0), true},
		{"black rank 1 under a white board", Black, shared.C(4, 0, 1), false},
		{"black rank 1 in the open", Black, shared.C(3, 0, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.isPromotionSquare(tt.color, tt.c); got != tt.want {
				t.Fatalf("isPromotionSquare = %v, want %v", got, tt.want)
			}
		})
	}
}
