package game

// LegalMoves returns every legal move of color: piece moves ordered by piece
// ID, then attack-board moves in board creation order. The moves are fresh
// and unexecuted.
func (p *Position) LegalMoves(color Color) []Move {
	var out []Move
	for _, pc := range p.Pieces(color) {
		for _, to := range p.LegalDestinations(pc) {
			out = append(out, newPieceMove(p, pc, to))
		}
	}
	for _, b := range p.attack {
		for _, t := range p.legalBoardTargets(b, color) {
			out = append(out, newBoardMove(b, color, t))
		}
	}
	return out
}

// expandPromotions returns m, or one copy per promotion piece when m
// promotes and carries no choice yet.
func expandPromotions(p *Position, m Move) []Move {
	m.resolve(p)
	if !m.Flags().Has(FlagPromotion | FlagSecondaryPromotion) {
		return []Move{m}
	}
	if _, ok := m.Promotion(); ok {
		return []Move{m}
	}
	out := make([]Move, 0, 4)
	for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
		var c Move
		switch mv := m.(type) {
		case *PieceMove:
			cp := *mv
			c = &cp
		case *AttackBoardMove:
			cp := *mv
			c = &cp
		}
		_ = c.SetPromotion(pt)
		out = append(out, c)
	}
	return out
}
