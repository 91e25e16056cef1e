package game

import "fmt"

// fiftyMoveLimit is the half-move clock value that ends the game.
const fiftyMoveLimit = 100

// evaluate updates check and the terminal states after m (nil at game
// start). entry receives the repetition data of the new position.
func (e *Engine) evaluate(m Move, entry *recordEntry) {
	moves := e.pos.LegalMoves(e.active)
	e.inCheck = e.pos.InCheck(e.active)
	sig := e.signature()
	if entry != nil {
		entry.signature = sig
		entry.moveCount = len(moves)
	}
	if m != nil {
		m.setFlag(FlagCheck, e.inCheck)
		m.setFlag(FlagCheckmate, e.inCheck && len(moves) == 0)
	}

	mover := e.active.Opposite()
	switch {
	case len(moves) == 0 && e.inCheck:
		if mover == White {
			e.state = WhiteWinNormal
		} else {
			e.state = BlackWinNormal
		}
		e.lastNote = fmt.Sprintf("Checkmate - %s wins", mover)
	case len(moves) == 0:
		e.state = DrawStalemate
		e.lastNote = "Stalemate"
	case deadPosition(e.pos):
		e.state = DrawDeadPosition
		e.lastNote = "Draw - dead position"
	case e.halfmove >= fiftyMoveLimit:
		e.state = DrawFiftyMoveRule
		e.lastNote = "Draw - fifty-move rule"
	case entry != nil && e.isThreefold(sig, len(moves), entry.capture):
		e.state = DrawThreefold
		e.lastNote = "Draw - threefold repetition"
	default:
		e.lastNote = fmt.Sprintf("%s to move", capitalize(e.active.String()))
		if e.inCheck {
			e.lastNote += " (in check)"
		}
	}
}

// isThreefold compares the new position against earlier positions with the
// same side to move, back to the last capture. Positions match when the
// placement, boards and side to move agree and the same number of legal
// moves was available.
func (e *Engine) isThreefold(sig string, moveCount int, capture bool) bool {
	if capture {
		return false
	}
	// index 0 is the start position, index i+1 follows entries[i]; the new
	// position is index len(e.entries)+1.
	cur := len(e.entries) + 1
	floor := 0
	for i := len(e.entries) - 1; i >= 0; i-- {
		if e.entries[i].capture {
			floor = i + 1
			break
		}
	}
	seen := 1
	for idx := cur - 2; idx >= floor; idx -= 2 {
		s, n := e.startSig, e.startMoves
		if idx > 0 {
			s, n = e.entries[idx-1].signature, e.entries[idx-1].moveCount
		}
		if s == sig && n == moveCount {
			seen++
			if seen >= 3 {
				return true
			}
		}
	}
	return false
}

// deadPosition recognises material that can never mate: bare kings, a lone
// knight with the kings, or one bishop each on the same square colour.
func deadPosition(p *Position) bool {
	pieces := p.AllPieces()
	switch len(pieces) {
	case 2:
		return true
	case 3:
		for _, pc := range pieces {
			if pc.Type == Knight {
				return true
			}
		}
	case 4:
		var bishops []*Piece
		for _, pc := range pieces {
			switch pc.Type {
			case King:
			case Bishop:
				bishops = append(bishops, pc)
			default:
				return false
			}
		}
		if len(bishops) != 2 || bishops[0].Color == bishops[1].Color {
			return false
		}
		a := p.location[bishops[0]].Coord().Column()
		b := p.location[bishops[1]].Coord().Column()
		return a.LightSquare() == b.LightSquare()
	}
	return false
}

// insufficientMaterial reports whether color has a bare king, or a king
// with a single knight or bishop.
func insufficientMaterial(p *Position, color Color) bool {
	pieces := p.Pieces(color)
	switch len(pieces) {
	case 0, 1:
		return true
	case 2:
		for _, pc := range pieces {
			if pc.Type == Knight || pc.Type == Bishop {
				return true
			}
		}
	}
	return false
}
