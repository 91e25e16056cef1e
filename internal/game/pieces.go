package game

import "github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"

// Piece is a single chessman. Its square is never cached; ask the Position.
type Piece struct {
	ID    int
	Color Color
	Type  PieceType

	HasCastlingRights        bool
	HasDoubleSquareRights    bool
	JustMadeDoubleSquareMove bool
	Captured                 bool
}

// Letter returns the FEN letter of the piece, upper-case for white. Pawns
// that may still advance two squares are written D.
func (pc *Piece) Letter() byte {
	b := pieceBehaviors[pc.Type].character
	if pc.Type == Pawn && pc.HasDoubleSquareRights {
		b = 'D'
	}
	if pc.Color == Black {
		b += 'a' - 'A'
	}
	return b
}

type rights struct {
	castling bool
	double   bool
	justMade bool
}

func (pc *Piece) rights() rights {
	return rights{castling: pc.HasCastlingRights, double: pc.HasDoubleSquareRights, justMade: pc.JustMadeDoubleSquareMove}
}

func (pc *Piece) restoreRights(r rights) {
	pc.HasCastlingRights = r.castling
	pc.HasDoubleSquareRights = r.double
	pc.JustMadeDoubleSquareMove = r.justMade
}

// pieceBehavior is the dispatch table entry for one piece type.
type pieceBehavior struct {
	character byte
	// destinations yields pseudo-legal target squares.
	destinations func(p *Position, pc *Piece, from *Square) []*Square
	// attacks reports whether the piece hits a square dist columns away
	// along d, where d points from the target towards the piece.
	attacks func(pc *Piece, d shared.Delta, dist int) bool
	// setMoved clears the rights a move consumes and reports whether any
	// were lost.
	setMoved func(pc *Piece) bool
}

var pieceBehaviors [PieceTypeCount]pieceBehavior

func init() {
	pieceBehaviors = [PieceTypeCount]pieceBehavior{
		Pawn: {
			character:    'P',
			destinations: pawnDestinations,
			attacks: func(pc *Piece, d shared.Delta, dist int) bool {
				return dist == 1 && d.IsDiagonal() && d.DR == -pc.Color.Forward()
			},
			setMoved: func(pc *Piece) bool {
				lost := pc.HasDoubleSquareRights
				pc.HasDoubleSquareRights = false
				return lost
			},
		},
		Knight: {
			character: 'N',
			destinations: func(p *Position, pc *Piece, from *Square) []*Square {
				return p.stepDestinations(pc, from, shared.KnightOffsets[:])
			},
			attacks:  func(*Piece, shared.Delta, int) bool { return false },
			setMoved: noRights,
		},
		Bishop: {
			character: 'B',
			destinations: func(p *Position, pc *Piece, from *Square) []*Square {
				return p.slideDestinations(pc, from, shared.BishopDirections[:])
			},
			attacks:  func(_ *Piece, d shared.Delta, _ int) bool { return d.IsDiagonal() },
			setMoved: noRights,
		},
		Rook: {
			character: 'R',
			destinations: func(p *Position, pc *Piece, from *Square) []*Square {
				return p.slideDestinations(pc, from, shared.RookDirections[:])
			},
			attacks:  func(_ *Piece, d shared.Delta, _ int) bool { return !d.IsDiagonal() },
			setMoved: clearCastling,
		},
		Queen: {
			character: 'Q',
			destinations: func(p *Position, pc *Piece, from *Square) []*Square {
				return p.slideDestinations(pc, from, shared.QueenDirections[:])
			},
			attacks:  func(*Piece, shared.Delta, int) bool { return true },
			setMoved: noRights,
		},
		King: {
			character:    'K',
			destinations: kingDestinations,
			attacks:      func(_ *Piece, _ shared.Delta, dist int) bool { return dist == 1 },
			setMoved:     clearCastling,
		},
	}
}

func noRights(*Piece) bool { return false }

func clearCastling(pc *Piece) bool {
	lost := pc.HasCastlingRights
	pc.HasCastlingRights = false
	return lost
}

// setMoved consumes the piece's movement rights, including the
// double-square rights a pawn loses however it is moved.
func setMoved(pc *Piece) bool {
	lost := pieceBehaviors[pc.Type].setMoved(pc)
	if pc.Type != Pawn && pc.HasDoubleSquareRights {
		pc.HasDoubleSquareRights = false
		lost = true
	}
	return lost
}

// slideDestinations walks each direction column by column. Every square of
// a reached column is a candidate; any occupant in the column ends the ray.
func (p *Position) slideDestinations(pc *Piece, from *Square, dirs []shared.Delta) []*Square {
	var out []*Square
	for _, d := range dirs {
		col := from.Coord().Column()
		for {
			col = col.Step(d)
			squares := p.column(col)
			if len(squares) == 0 {
				break
			}
			blocked := false
			for _, sq := range squares {
				occ := p.occupant[sq]
				if occ == nil {
					out = append(out, sq)
					continue
				}
				blocked = true
				if occ.Color != pc.Color {
					out = append(out, sq)
				}
			}
			if blocked {
				break
			}
		}
	}
	return out
}

// stepDestinations yields empty or enemy-held squares one offset away.
func (p *Position) stepDestinations(pc *Piece, from *Square, offsets []shared.Delta) []*Square {
	var out []*Square
	base := from.Coord().Column()
	for _, d := range offsets {
		for _, sq := range p.column(base.Step(d)) {
			if occ := p.occupant[sq]; occ == nil || occ.Color != pc.Color {
				out = append(out, sq)
			}
		}
	}
	return out
}

func columnOccupied(p *Position, squares []*Square) bool {
	for _, sq := range squares {
		if p.occupant[sq] != nil {
			return true
		}
	}
	return false
}

func pawnDestinations(p *Position, pc *Piece, from *Square) []*Square {
	var out []*Square
	base := from.Coord().Column()
	fwd := pc.Color.Forward()

	one := p.column(base.Step(shared.Delta{DR: fwd}))
	if len(one) > 0 && !columnOccupied(p, one) {
		out = append(out, one...)
		if pc.HasDoubleSquareRights {
			two := p.column(base.Step(shared.Delta{DR: 2 * fwd}))
			if !columnOccupied(p, two) {
				out = append(out, two...)
			}
		}
	}

	for _, df := range []int{-1, 1} {
		col := base.Step(shared.Delta{DF: df, DR: fwd})
		for _, sq := range p.column(col) {
			occ := p.occupant[sq]
			switch {
			case occ != nil && occ.Color != pc.Color:
				out = append(out, sq)
			case occ == nil && p.enPassantVictimAt(pc, col) != nil:
				out = append(out, sq)
			}
		}
	}
	return out
}

// enPassantVictimAt finds an enemy pawn that just double-stepped through col.
func (p *Position) enPassantVictimAt(pc *Piece, col shared.Column) *Piece {
	behind := col.Step(shared.Delta{DR: -pc.Color.Forward()})
	for _, sq := range p.column(behind) {
		occ := p.occupant[sq]
		if occ != nil && occ.Type == Pawn && occ.Color != pc.Color && occ.JustMadeDoubleSquareMove {
			return occ
		}
	}
	return nil
}

// enPassantVictim returns the pawn captured when pc moves to to, if that
// move is an en-passant capture.
func (p *Position) enPassantVictim(pc *Piece, from, to *Square) *Piece {
	if pc.Type != Pawn || p.occupant[to] != nil || from.Coord().File == to.Coord().File {
		return nil
	}
	return p.enPassantVictimAt(pc, to.Coord().Column())
}

func kingDestinations(p *Position, pc *Piece, from *Square) []*Square {
	out := p.stepDestinations(pc, from, shared.QueenDirections[:])
	return append(out, p.castlingDestinations(pc, from)...)
}

// castlingDestinations returns the squares of rooks the king may swap with:
// the adjacent king-side rook, or the first piece found walking toward the
// queen side when it is a rook. Absent squares are skipped; anything else in
// the way blocks.
func (p *Position) castlingDestinations(king *Piece, from *Square) []*Square {
	if !king.HasCastlingRights || p.IsSquareAttacked(from, king.Color.Opposite()) {
		return nil
	}
	c := from.Coord()
	var out []*Square
	if sq := p.SquareAt(shared.C(c.File+1, c.Level, c.Rank)); sq != nil && p.castlingRook(king, sq) {
		out = append(out, sq)
	}
	for file := c.File - 1; file >= shared.MinFile; file-- {
		sq := p.SquareAt(shared.C(file, c.Level, c.Rank))
		if sq == nil {
			continue
		}
		if p.occupant[sq] == nil {
			continue
		}
		if p.castlingRook(king, sq) {
			out = append(out, sq)
		}
		break
	}
	return out
}

func (p *Position) castlingRook(king *Piece, sq *Square) bool {
	rook := p.occupant[sq]
	return rook != nil && rook.Type == Rook && rook.Color == king.Color && rook.HasCastlingRights
}

// isCastle reports whether moving pc to to is a castling swap.
func (p *Position) isCastle(pc *Piece, to *Square) bool {
	return pc.Type == King && p.castlingRook(pc, to)
}
