package game

import (
	"fmt"
	"sort"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

// Board is either one of the three fixed main boards or a 2x2 attack board.
type Board struct {
	id      int
	main    bool
	label   shared.BoardLabel
	owner   Owner
	slot    shared.Slot
	rotated bool
	squares []*Square
}

// IsMain reports whether b is one of the three fixed boards.
func (b *Board) IsMain() bool { return b.main }

// Owner returns the attack board's controlling side. Main boards are neutral.
func (b *Board) Owner() Owner { return b.owner }

// Slot returns the pin slot of an attack board.
func (b *Board) Slot() (shared.Slot, bool) {
	if b.main {
		return shared.Slot{}, false
	}
	return b.slot, true
}

// Rotated reports whether the attack board is turned 180 degrees from the
// orientation it was created in.
func (b *Board) Rotated() bool { return b.rotated }

// Label is "W", "N", "B" for main boards and the slot text (e.g. "KL3I")
// for attack boards.
func (b *Board) Label() string {
	if b.main {
		return b.label.String()
	}
	return b.slot.String()
}

func (b *Board) String() string { return b.Label() }

// Squares returns the board's squares in creation order.
func (b *Board) Squares() []*Square { return b.squares }

// Square is a single cell. Main-board squares have fixed coordinates; the
// coordinates of attack-board squares follow the board's slot and rotation.
type Square struct {
	board *Board
	fixed shared.Coord
	df    int
	dr    int
}

func (s *Square) Board() *Board { return s.board }

// Coord returns the current coordinates of s.
func (s *Square) Coord() shared.Coord {
	b := s.board
	if b.main {
		return s.fixed
	}
	df, dr := s.df, s.dr
	if b.rotated {
		df, dr = 1-df, 1-dr
	}
	return b.slot.At(df, dr)
}

func (s *Square) String() string { return s.Coord().String() }

// Position is the board model: the boards, which square each piece stands on
// and the inverse index. Every relocation goes through put/lift so both
// indexes stay consistent across undo and redo.
type Position struct {
	mains    [3]*Board
	attack   []*Board
	slots    map[shared.Slot]*Board
	occupant map[*Square]*Piece
	location map[*Piece]*Square
	pieces   []*Piece
	nextID   int
	boardID  int
}

// NewPosition returns an empty position with the three main boards.
func NewPosition() *Position {
	p := &Position{
		slots:    make(map[shared.Slot]*Board),
		occupant: make(map[*Square]*Piece),
		location: make(map[*Piece]*Square),
		nextID:   1,
	}
	for i, level := range []int{shared.WhiteLevel, shared.NeutralLevel, shared.BlackLevel} {
		b := &Board{id: p.boardID, main: true, label: shared.BoardLabel(i), owner: OwnerNeutral}
		p.boardID++
		lo, hi := shared.MainRankRange(level)
		for rank := lo; rank <= hi; rank++ {
			for file := 1; file <= 4; file++ {
				b.squares = append(b.squares, &Square{board: b, fixed: shared.C(file, level, rank)})
			}
		}
		p.mains[i] = b
	}
	return p
}

// MainBoard returns the main board on level 0, 2 or 4.
func (p *Position) MainBoard(level int) *Board {
	idx, ok := shared.MainLevelIndex(level)
	if !ok {
		return nil
	}
	return p.mains[idx]
}

// AttackBoards returns the attack boards in creation order.
func (p *Position) AttackBoards() []*Board { return p.attack }

// BoardAt returns the attack board pinned in slot, if any.
func (p *Position) BoardAt(slot shared.Slot) *Board { return p.slots[slot] }

// AddAttackBoard creates an attack board in slot.
func (p *Position) AddAttackBoard(slot shared.Slot, owner Owner) (*Board, error) {
	if !slot.Pin.Valid() {
		return nil, &RangeError{What: "pin", Value: fmt.Sprint(slot.Pin.Index)}
	}
	if p.slots[slot] != nil {
		return nil, &FormatError{Input: slot.String(), Reason: "slot already holds an attack board"}
	}
	b := &Board{id: p.boardID, owner: owner, slot: slot}
	p.boardID++
	for dr := 0; dr <= 1; dr++ {
		for df := 0; df <= 1; df++ {
			b.squares = append(b.squares, &Square{board: b, df: df, dr: dr})
		}
	}
	p.bind(b)
	p.attack = append(p.attack, b)
	return b, nil
}

// RemoveAttackBoard detaches b from its slot; pieces on it are destroyed.
func (p *Position) RemoveAttackBoard(b *Board) {
	for _, sq := range b.squares {
		if pc := p.occupant[sq]; pc != nil {
			p.lift(pc)
			pc.Captured = true
		}
	}
	p.unbind(b)
	for i, other := range p.attack {
		if other == b {
			p.attack = append(p.attack[:i], p.attack[i+1:]...)
			break
		}
	}
}

func (p *Position) bind(b *Board) {
	if other := p.slots[b.slot]; other != nil && other != b {
		panic(fmt.Sprintf("slot %s already holds an attack board", b.slot))
	}
	p.slots[b.slot] = b
}

func (p *Position) unbind(b *Board) {
	if p.slots[b.slot] == b {
		delete(p.slots, b.slot)
	}
}

// placeBoard moves b to slot with the given rotation.
func (p *Position) placeBoard(b *Board, slot shared.Slot, rotated bool) {
	p.unbind(b)
	b.slot = slot
	b.rotated = rotated
	p.bind(b)
}

// SquareAt returns the square currently at c, or nil.
func (p *Position) SquareAt(c shared.Coord) *Square {
	if !shared.IsWithinBounds(c) {
		return nil
	}
	if shared.IsMainSquare(c) {
		b := p.MainBoard(c.Level)
		lo, _ := shared.MainRankRange(c.Level)
		return b.squares[(c.Rank-lo)*4+(c.File-1)]
	}
	slot, _, ok := shared.SlotAt(c)
	if !ok {
		return nil
	}
	b := p.slots[slot]
	if b == nil {
		return nil
	}
	for _, sq := range b.squares {
		if sq.Coord() == c {
			return sq
		}
	}
	return nil
}

// column returns every existing square projecting onto col, lowest level
// first.
func (p *Position) column(col shared.Column) []*Square {
	if !col.InBounds() {
		return nil
	}
	var out []*Square
	for level := shared.MinLevel; level <= shared.MaxLevel; level++ {
		if sq := p.SquareAt(shared.C(col.File, level, col.Rank)); sq != nil {
			out = append(out, sq)
		}
	}
	return out
}

// PieceAt returns the piece on sq, or nil.
func (p *Position) PieceAt(sq *Square) *Piece {
	if sq == nil {
		return nil
	}
	return p.occupant[sq]
}

// PieceAtCoord returns the piece at c, or nil.
func (p *Position) PieceAtCoord(c shared.Coord) *Piece { return p.PieceAt(p.SquareAt(c)) }

// SquareWithPiece returns the square pc stands on, or nil once captured.
func (p *Position) SquareWithPiece(pc *Piece) *Square { return p.location[pc] }

// BoardContaining returns the board sq belongs to.
func (p *Position) BoardContaining(sq *Square) *Board { return sq.board }

// PiecesOn lists the pieces on b in square order.
func (p *Position) PiecesOn(b *Board) []*Piece {
	var out []*Piece
	for _, sq := range p.SortedSquares(b) {
		if pc := p.occupant[sq]; pc != nil {
			out = append(out, pc)
		}
	}
	return out
}

// SortedSquares orders b's squares rank-major, file-minor, lowest first.
func (p *Position) SortedSquares(b *Board) []*Square {
	out := append([]*Square(nil), b.squares...)
	sort.Slice(out, func(i, j int) bool {
		ci, cj := out[i].Coord(), out[j].Coord()
		if ci.Rank != cj.Rank {
			return ci.Rank < cj.Rank
		}
		return ci.File < cj.File
	})
	return out
}

// Pieces lists the pieces of color on the board, ordered by ID.
func (p *Position) Pieces(color Color) []*Piece {
	var out []*Piece
	for _, pc := range p.pieces {
		if pc.Color == color && p.location[pc] != nil {
			out = append(out, pc)
		}
	}
	return out
}

// AllPieces lists every piece on the board, ordered by ID.
func (p *Position) AllPieces() []*Piece {
	var out []*Piece
	for _, pc := range p.pieces {
		if p.location[pc] != nil {
			out = append(out, pc)
		}
	}
	return out
}

// King returns color's king, or nil.
func (p *Position) King(color Color) *Piece {
	for _, pc := range p.pieces {
		if pc.Type == King && pc.Color == color && p.location[pc] != nil {
			return pc
		}
	}
	return nil
}

// NewPiece creates a piece and places it on sq.
func (p *Position) NewPiece(color Color, pt PieceType, sq *Square) *Piece {
	pc := p.newPiece(color, pt)
	p.put(pc, sq)
	return pc
}

func (p *Position) newPiece(color Color, pt PieceType) *Piece {
	pc := &Piece{ID: p.nextID, Color: color, Type: pt}
	p.nextID++
	p.pieces = append(p.pieces, pc)
	return pc
}

func (p *Position) put(pc *Piece, sq *Square) {
	if other := p.occupant[sq]; other != nil && other != pc {
		panic(fmt.Sprintf("square %s already holds piece %d", sq, other.ID))
	}
	if old := p.location[pc]; old != nil {
		delete(p.occupant, old)
	}
	p.occupant[sq] = pc
	p.location[pc] = sq
}

func (p *Position) lift(pc *Piece) *Square {
	sq := p.location[pc]
	if sq == nil {
		panic(fmt.Sprintf("piece %d is not on the board", pc.ID))
	}
	delete(p.occupant, sq)
	delete(p.location, pc)
	return sq
}

func (p *Position) swap(a, b *Piece) {
	sa, sb := p.lift(a), p.lift(b)
	p.put(a, sb)
	p.put(b, sa)
}

// passenger returns the single piece on an attack board, or nil when it is
// empty or carries more than one.
func (p *Position) passenger(b *Board) *Piece {
	pcs := p.PiecesOn(b)
	if len(pcs) != 1 {
		return nil
	}
	return pcs[0]
}

// isPromotionSquare reports whether a pawn of color standing on c promotes.
// The last rank is 9 (0 for black); rank 8 (1) counts when nothing of the
// last rank exists above the pawn's column.
func (p *Position) isPromotionSquare(color Color, c shared.Coord) bool {
	last, penultimate := shared.MaxRank, shared.MaxRank-1
	if color == Black {
		last, penultimate = shared.MinRank, shared.MinRank+1
	}
	if c.Rank == last {
		return true
	}
	return c.Rank == penultimate && len(p.column(shared.Column{File: c.File, Rank: last})) == 0
}
