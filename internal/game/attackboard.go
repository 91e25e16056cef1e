package game

import "github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"

// maxBoardRankTravel bounds how far an attack board may translate.
const maxBoardRankTravel = 4

// boardTarget is an attack-board destination: a slot, or the current slot
// turned 180 degrees.
type boardTarget struct {
	slot   shared.Slot
	rotate bool
}

func (t boardTarget) rotated(b *Board) bool {
	if t.rotate {
		return !b.rotated
	}
	return b.rotated
}

// CanMoveAttackBoard reports whether color may move b: the board carries
// exactly one piece and it is color's, or it is empty and owned by color.
func (p *Position) CanMoveAttackBoard(b *Board, color Color) bool {
	if b.main {
		return false
	}
	pcs := p.PiecesOn(b)
	switch len(pcs) {
	case 0:
		return b.owner == OwnerOf(color)
	case 1:
		return pcs[0].Color == color
	}
	return false
}

// boardDestinations lists pseudo-legal targets for b. Translation reaches
// free slots of the same orientation at pins on the same side or the same
// anchor rank, no more than one main level and four ranks away. Inversion
// flips to the other slot of the same pin. Rotation is only offered when
// the board carries a piece.
func (p *Position) boardDestinations(b *Board, color Color) []boardTarget {
	if !p.CanMoveAttackBoard(b, color) {
		return nil
	}
	cur := b.slot
	var out []boardTarget
	for _, pin := range shared.AllPins() {
		if pin == cur.Pin {
			continue
		}
		if abs(pin.MainLevel()-cur.Pin.MainLevel()) > 2 {
			continue
		}
		if pin.Side != cur.Pin.Side && pin.AnchorRank() != cur.Pin.AnchorRank() {
			continue
		}
		if abs(pin.AnchorRank()-cur.Pin.AnchorRank()) > maxBoardRankTravel {
			continue
		}
		slot := shared.Slot{Pin: pin, Inverted: cur.Inverted}
		if p.slots[slot] == nil {
			out = append(out, boardTarget{slot: slot})
		}
	}
	if flip := cur.Flip(); p.slots[flip] == nil {
		out = append(out, boardTarget{slot: flip})
	}
	if p.passenger(b) != nil {
		out = append(out, boardTarget{slot: cur, rotate: true})
	}
	return out
}

// legalBoardTargets filters boardDestinations through the check oracle.
func (p *Position) legalBoardTargets(b *Board, color Color) []boardTarget {
	var out []boardTarget
	for _, t := range p.boardDestinations(b, color) {
		if !p.boardMoveLeavesKingInCheck(b, color, t) {
			out = append(out, t)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
