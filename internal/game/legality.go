package game

import "github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"

// IsSquareAttacked reports whether any piece of by attacks sq. Each of the
// eight rays is walked column by column; the pieces of the first occupied
// column are tested against their attack pattern. Knights are found through
// the offset table.
func (p *Position) IsSquareAttacked(sq *Square, by Color) bool {
	origin := sq.Coord().Column()
	for _, d := range shared.QueenDirections {
		col := origin
		for dist := 1; ; dist++ {
			col = col.Step(d)
			squares := p.column(col)
			if len(squares) == 0 {
				break
			}
			hit := false
			for _, s := range squares {
				occ := p.occupant[s]
				if occ == nil {
					continue
				}
				hit = true
				if occ.Color == by && pieceBehaviors[occ.Type].attacks(occ, d, dist) {
					return true
				}
			}
			if hit {
				break
			}
		}
	}
	for _, d := range shared.KnightOffsets {
		for _, s := range p.column(origin.Step(d)) {
			if occ := p.occupant[s]; occ != nil && occ.Color == by && occ.Type == Knight {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether color's king is attacked.
func (p *Position) InCheck(color Color) bool {
	king := p.King(color)
	if king == nil {
		return false
	}
	return p.IsSquareAttacked(p.location[king], color.Opposite())
}

// simulatePieceMove applies only the occupancy change of moving pc to to
// (castling swap, capture, en passant) and returns the function that
// reverts it.
func (p *Position) simulatePieceMove(pc *Piece, to *Square) func() {
	from := p.location[pc]
	if p.isCastle(pc, to) {
		rook := p.occupant[to]
		p.swap(pc, rook)
		return func() { p.swap(pc, rook) }
	}
	victim := p.occupant[to]
	if victim == nil {
		victim = p.enPassantVictim(pc, from, to)
	}
	var victimSq *Square
	if victim != nil {
		victimSq = p.lift(victim)
	}
	p.put(pc, to)
	return func() {
		p.put(pc, from)
		if victim != nil {
			p.put(victim, victimSq)
		}
	}
}

// wouldLeaveKingInCheck tests a hypothetical piece move without leaving
// any trace on the position.
func (p *Position) wouldLeaveKingInCheck(pc *Piece, to *Square) bool {
	revert := p.simulatePieceMove(pc, to)
	defer revert()
	return p.InCheck(pc.Color)
}

// LegalDestinations returns the squares pc may legally move to.
func (p *Position) LegalDestinations(pc *Piece) []*Square {
	from := p.location[pc]
	if from == nil {
		return nil
	}
	var out []*Square
	for _, to := range pieceBehaviors[pc.Type].destinations(p, pc, from) {
		if !p.wouldLeaveKingInCheck(pc, to) {
			out = append(out, to)
		}
	}
	return out
}

// simulateBoardMove relocates b to the target and returns the revert
// function.
func (p *Position) simulateBoardMove(b *Board, t boardTarget) func() {
	slot, rotated := b.slot, b.rotated
	p.placeBoard(b, t.slot, t.rotated(b))
	return func() { p.placeBoard(b, slot, rotated) }
}

// boardMoveLeavesKingInCheck tests a hypothetical attack-board move. When
// the ride would promote the passenger pawn the position is also tried with
// a queen and then a knight in its place; the move is legal if either
// leaves the king safe.
func (p *Position) boardMoveLeavesKingInCheck(b *Board, color Color, t boardTarget) bool {
	passenger := p.passenger(b)
	revert := p.simulateBoardMove(b, t)
	defer revert()
	if !p.InCheck(color) {
		return false
	}
	if passenger == nil || passenger.Type != Pawn || !p.isPromotionSquare(passenger.Color, p.location[passenger].Coord()) {
		return true
	}
	defer func() { passenger.Type = Pawn }()
	for _, pt := range []PieceType{Queen, Knight} {
		passenger.Type = pt
		if !p.InCheck(color) {
			return false
		}
	}
	return true
}
