package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

// Move is a reversible command. Execute may stop half way and return a
// SuspendedForPromotionError; calling Execute again after SetPromotion
// completes it.
type Move interface {
	Player() Color
	Flags() EventFlags
	// From and To are the coordinates before and after the move. For an
	// attack-board move they follow the board's first square.
	From() shared.Coord
	To() shared.Coord
	IsAttackBoardMove() bool
	Promotion() (PieceType, bool)
	SetPromotion(pt PieceType) error
	Suspended() bool
	Notation() string
	Execute(p *Position) error
	Undo(p *Position)
	Redo(p *Position) error

	resolve(p *Position)
	setFlag(flag EventFlags, on bool)
	fits(p *Position) bool
}

type movePhase uint8

const (
	phaseIdle movePhase = iota
	phaseSuspended
	phaseDone
)

// PieceMove moves one piece, including castling swaps, captures, en passant
// and promotion.
type PieceMove struct {
	player Color
	piece  *Piece
	from   *Square
	to     *Square
	origin shared.Coord
	target shared.Coord
	flags  EventFlags

	promotion    PieceType
	hasPromotion bool

	departure string
	resolved  bool

	phase        movePhase
	captured     *Piece
	capturedFrom *Square
	partner      *Piece
	partnerPrev  rights
	prev         rights
	cleared      []*Piece
	promoted     *Piece
}

func newPieceMove(p *Position, pc *Piece, to *Square) *PieceMove {
	from := p.location[pc]
	return &PieceMove{
		player: pc.Color,
		piece:  pc,
		from:   from,
		to:     to,
		origin: from.Coord(),
		target: to.Coord(),
	}
}

func (m *PieceMove) Player() Color { return m.player }
func (m *PieceMove) Flags() EventFlags { return m.flags }
func (m *PieceMove) From() shared.Coord { return m.origin }
func (m *PieceMove) To() shared.Coord { return m.target }
func (m *PieceMove) IsAttackBoardMove() bool { return false }
func (m *PieceMove) Suspended() bool { return m.phase == phaseSuspended }
func (m *PieceMove) Piece() *Piece { return m.piece }
func (m *PieceMove) Promotion() (PieceType, bool) { return m.promotion, m.hasPromotion }

func (m *PieceMove) SetPromotion(pt PieceType) error {
	if !validPromotion(pt) {
		return ErrInvalidPromotion
	}
	m.promotion, m.hasPromotion = pt, true
	return nil
}

func (m *PieceMove) setFlag(flag EventFlags, on bool) {
	if on {
		m.flags = m.flags.With(flag)
	} else {
		m.flags = m.flags.Without(flag)
	}
}

// fits reports whether m is unplayed and still legal in p.
func (m *PieceMove) fits(p *Position) bool {
	if m.phase != phaseIdle || p.location[m.piece] != m.from || m.from.Coord() != m.origin {
		return false
	}
	for _, to := range p.LegalDestinations(m.piece) {
		if to == m.to && to.Coord() == m.target {
			return true
		}
	}
	return false
}

// resolve fills in the departure qualifier and the flags that can be known
// before execution.
func (m *PieceMove) resolve(p *Position) {
	if m.resolved {
		return
	}
	m.resolved = true
	pc := m.piece
	switch {
	case p.isCastle(pc, m.to):
		if m.target.File > m.origin.File {
			m.flags = m.flags.With(FlagCastleKingside)
		} else {
			m.flags = m.flags.With(FlagCastleQueenside)
		}
		return
	case p.occupant[m.to] != nil:
		m.flags = m.flags.With(FlagCapture)
	case p.enPassantVictim(pc, m.from, m.to) != nil:
		m.flags = m.flags.With(FlagCapture | FlagEnPassant)
	}
	if pc.Type == Pawn && p.isPromotionSquare(pc.Color, m.target) {
		m.flags = m.flags.With(FlagPromotion)
	}
	m.departure = p.departure(pc, m.from, m.to)
}

// Execute performs the move. A promotion without a recorded choice leaves
// the pawn on the last rank and returns SuspendedForPromotionError.
func (m *PieceMove) Execute(p *Position) error {
	switch m.phase {
	case phaseDone:
		return nil
	case phaseSuspended:
		return m.completePromotion(p)
	}
	if p.location[m.piece] != m.from {
		panic(fmt.Sprintf("piece %d is not on %s", m.piece.ID, m.origin))
	}
	m.resolve(p)
	pc := m.piece
	m.cleared = p.clearDoubleSquareMarks(m.player)
	m.prev = pc.rights()

	if m.flags.Has(FlagCastleKingside | FlagCastleQueenside) {
		rook := p.occupant[m.to]
		m.partner, m.partnerPrev = rook, rook.rights()
		p.swap(pc, rook)
		pc.HasCastlingRights = false
		rook.HasCastlingRights = false
		m.flags = m.flags.With(FlagRightsLost)
		m.phase = phaseDone
		return nil
	}

	victim := p.occupant[m.to]
	if victim == nil && m.flags.Has(FlagEnPassant) {
		victim = p.enPassantVictim(pc, m.from, m.to)
	}
	if victim != nil {
		m.captured = victim
		m.capturedFrom = p.lift(victim)
		victim.Captured = true
	}
	p.put(pc, m.to)
	if setMoved(pc) {
		m.flags = m.flags.With(FlagRightsLost)
	}
	if pc.Type == Pawn && abs(m.target.Rank-m.origin.Rank) == 2 {
		pc.JustMadeDoubleSquareMove = true
		m.flags = m.flags.With(FlagDoubleSquare)
	}
	if m.flags.Has(FlagPromotion) {
		m.phase = phaseSuspended
		return m.completePromotion(p)
	}
	m.phase = phaseDone
	return nil
}

func (m *PieceMove) completePromotion(p *Position) error {
	if !m.hasPromotion {
		return &SuspendedForPromotionError{Color: m.player, Square: m.target}
	}
	m.promoted = p.promote(m.piece, m.promotion, m.promoted)
	m.phase = phaseDone
	return nil
}

// Undo restores occupancy, rights, captured state and double-square marks.
func (m *PieceMove) Undo(p *Position) {
	if m.phase == phaseIdle {
		return
	}
	pc := m.piece
	if m.phase == phaseDone && m.promoted != nil && m.flags.Has(FlagPromotion) {
		p.unpromote(m.promoted, pc)
	}
	if m.partner != nil {
		p.swap(pc, m.partner)
		m.partner.restoreRights(m.partnerPrev)
		m.partner = nil
	} else {
		p.put(pc, m.from)
		if m.captured != nil {
			m.captured.Captured = false
			p.put(m.captured, m.capturedFrom)
			m.captured, m.capturedFrom = nil, nil
		}
	}
	pc.restoreRights(m.prev)
	for _, pawn := range m.cleared {
		pawn.JustMadeDoubleSquareMove = true
	}
	m.cleared = nil
	m.phase = phaseIdle
}

// Redo re-executes the move with the choices made the first time.
func (m *PieceMove) Redo(p *Position) error { return m.Execute(p) }

// Notation renders the move as {piece}{departure}{x}{square}{=X|e.p.}{+|#}.
func (m *PieceMove) Notation() string {
	var b strings.Builder
	switch {
	case m.flags.Has(FlagCastleKingside):
		b.WriteString("O-O")
	case m.flags.Has(FlagCastleQueenside):
		b.WriteString("O-O-O")
	default:
		if m.piece.Type != Pawn {
			b.WriteByte(pieceBehaviors[m.piece.Type].character)
		}
		b.WriteString(m.departure)
		if m.flags.Has(FlagCapture) {
			b.WriteByte('x')
		}
		b.WriteString(m.target.String())
		if m.flags.Has(FlagPromotion) && m.hasPromotion {
			b.WriteByte('=')
			b.WriteByte(pieceBehaviors[m.promotion].character)
		}
		if m.flags.Has(FlagEnPassant) {
			b.WriteString("e.p.")
		}
	}
	b.WriteString(checkSuffix(m.flags))
	return b.String()
}

func (m *PieceMove) String() string { return m.Notation() }

func checkSuffix(f EventFlags) string {
	switch {
	case f.Has(FlagCheckmate):
		return "#"
	case f.Has(FlagCheck):
		return "+"
	}
	return ""
}

// clearDoubleSquareMarks resets the en-passant marks of color's pawns at the
// start of its turn and returns the pawns it touched.
func (p *Position) clearDoubleSquareMarks(color Color) []*Piece {
	var out []*Piece
	for _, pc := range p.Pieces(color) {
		if pc.JustMadeDoubleSquareMove {
			pc.JustMadeDoubleSquareMove = false
			out = append(out, pc)
		}
	}
	return out
}

// promote swaps pawn for a piece of type pt on the same square. reuse is
// the piece created by an earlier execution, kept so redo restores the
// same identity.
func (p *Position) promote(pawn *Piece, pt PieceType, reuse *Piece) *Piece {
	promoted := reuse
	if promoted == nil || promoted.Type != pt {
		promoted = p.newPiece(pawn.Color, pt)
	}
	sq := p.lift(pawn)
	pawn.Captured = true
	promoted.Captured = false
	promoted.restoreRights(rights{})
	p.put(promoted, sq)
	return promoted
}

func (p *Position) unpromote(promoted, pawn *Piece) {
	sq := p.lift(promoted)
	promoted.Captured = true
	pawn.Captured = false
	p.put(pawn, sq)
}

// departure returns the shortest qualifier that tells pc apart from other
// pieces of the same type and colour that can also reach to. Pawn captures
// always name the departure file.
func (p *Position) departure(pc *Piece, from, to *Square) string {
	c := from.Coord()
	pawnCapture := pc.Type == Pawn && c.File != to.Coord().File
	var rivals []*Square
	for _, other := range p.Pieces(pc.Color) {
		if other == pc || other.Type != pc.Type {
			continue
		}
		for _, d := range p.LegalDestinations(other) {
			if d == to {
				rivals = append(rivals, p.location[other])
				break
			}
		}
	}
	if len(rivals) == 0 && !pawnCapture {
		return ""
	}

	file := string(mustFileLetter(c.File))
	rank := strconv.Itoa(c.Rank)
	board := from.board.Label()
	type qualifier struct {
		text string
		same func(o shared.Coord, sq *Square) bool
	}
	sameFile := func(o shared.Coord, _ *Square) bool { return o.File == c.File }
	sameRank := func(o shared.Coord, _ *Square) bool { return o.Rank == c.Rank }
	sameBoard := func(_ shared.Coord, sq *Square) bool { return sq.board == from.board }
	quals := []qualifier{
		{file, sameFile},
		{rank, sameRank},
		{file + rank, func(o shared.Coord, sq *Square) bool { return sameFile(o, sq) && sameRank(o, sq) }},
		{board, sameBoard},
	}
	if pawnCapture {
		quals = []qualifier{quals[0], quals[2]}
	}
	for _, q := range quals {
		unique := true
		for _, r := range rivals {
			if q.same(r.Coord(), r) {
				unique = false
				break
			}
		}
		if unique {
			return q.text
		}
	}
	return file + rank + board
}

func mustFileLetter(file int) byte {
	b, err := shared.FileLetter(file)
	if err != nil {
		panic(err)
	}
	return b
}
