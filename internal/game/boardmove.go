package game

import (
	"fmt"
	"strings"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

// RotationMark is appended to a slot to notate a rotation.
const RotationMark = "⟳"

// AttackBoardMove translates, inverts or rotates an attack board together
// with the piece it carries.
type AttackBoardMove struct {
	player      Color
	board       *Board
	fromSlot    shared.Slot
	fromRotated bool
	target      boardTarget
	origin      shared.Coord
	dest        shared.Coord
	flags       EventFlags

	promotion    PieceType
	hasPromotion bool
	resolved     bool

	phase     movePhase
	prevOwner Owner
	passenger *Piece
	prev      rights
	cleared   []*Piece
	promoted  *Piece
}

func newBoardMove(b *Board, color Color, t boardTarget) *AttackBoardMove {
	m := &AttackBoardMove{
		player:      color,
		board:       b,
		fromSlot:    b.slot,
		fromRotated: b.rotated,
		target:      t,
		origin:      b.squares[0].Coord(),
	}
	df, dr := 0, 0
	if t.rotated(b) {
		df, dr = 1, 1
	}
	m.dest = t.slot.At(df, dr)
	return m
}

func (m *AttackBoardMove) Player() Color { return m.player }
func (m *AttackBoardMove) Flags() EventFlags { return m.flags }
func (m *AttackBoardMove) From() shared.Coord { return m.origin }
func (m *AttackBoardMove) To() shared.Coord { return m.dest }
func (m *AttackBoardMove) IsAttackBoardMove() bool { return true }
func (m *AttackBoardMove) Suspended() bool { return m.phase == phaseSuspended }
func (m *AttackBoardMove) Board() *Board { return m.board }
func (m *AttackBoardMove) FromSlot() shared.Slot { return m.fromSlot }
func (m *AttackBoardMove) ToSlot() shared.Slot { return m.target.slot }
func (m *AttackBoardMove) IsRotation() bool { return m.target.rotate }
func (m *AttackBoardMove) Promotion() (PieceType, bool) { return m.promotion, m.hasPromotion }

func (m *AttackBoardMove) SetPromotion(pt PieceType) error {
	if !validPromotion(pt) {
		return ErrInvalidPromotion
	}
	m.promotion, m.hasPromotion = pt, true
	return nil
}

func (m *AttackBoardMove) setFlag(flag EventFlags, on bool) {
	if on {
		m.flags = m.flags.With(flag)
	} else {
		m.flags = m.flags.Without(flag)
	}
}

// Active reports whether the board carried a piece, which makes the move
// reset the half-move clock.
func (m *AttackBoardMove) Active() bool { return m.passenger != nil }

func (m *AttackBoardMove) fits(p *Position) bool {
	if m.phase != phaseIdle || p.slots[m.fromSlot] != m.board || m.board.rotated != m.fromRotated {
		return false
	}
	for _, t := range p.legalBoardTargets(m.board, m.player) {
		if t == m.target {
			return true
		}
	}
	return false
}

func (m *AttackBoardMove) resolve(p *Position) {
	if m.resolved {
		return
	}
	m.resolved = true
	passenger := p.passenger(m.board)
	switch {
	case m.target.rotate:
		m.flags = m.flags.With(FlagAttackBoardRotate)
	case m.target.slot.Pin == m.fromSlot.Pin:
		m.flags = m.flags.With(FlagAttackBoardInvert)
	}
	if passenger != nil && !m.target.rotate && m.board.owner != OwnerOf(m.player) {
		m.flags = m.flags.With(FlagAttackBoardClaim)
	}
	if passenger != nil && passenger.Type == Pawn {
		revert := p.simulateBoardMove(m.board, m.target)
		if p.isPromotionSquare(passenger.Color, p.location[passenger].Coord()) {
			m.flags = m.flags.With(FlagSecondaryPromotion)
		}
		revert()
	}
}

// Execute relocates the board and consumes the passenger's rights. A
// translation or inversion also claims the board for the mover; a rotation
// leaves the owner alone. A pawn carried onto its promotion rank suspends the
// move until a piece is chosen.
func (m *AttackBoardMove) Execute(p *Position) error {
	switch m.phase {
	case phaseDone:
		return nil
	case phaseSuspended:
		return m.completePromotion(p)
	}
	if m.board.slot != m.fromSlot || m.board.rotated != m.fromRotated {
		panic(fmt.Sprintf("attack board is not at %s", m.fromSlot))
	}
	m.resolve(p)
	m.cleared = p.clearDoubleSquareMarks(m.player)
	m.prevOwner = m.board.owner
	m.passenger = p.passenger(m.board)

	p.placeBoard(m.board, m.target.slot, m.target.rotated(m.board))
	if m.passenger != nil {
		if !m.target.rotate {
			m.board.owner = OwnerOf(m.player)
		}
		m.prev = m.passenger.rights()
		if setMoved(m.passenger) {
			m.flags = m.flags.With(FlagRightsLost)
		}
	}
	if m.flags.Has(FlagSecondaryPromotion) {
		m.phase = phaseSuspended
		return m.completePromotion(p)
	}
	m.phase = phaseDone
	return nil
}

func (m *AttackBoardMove) completePromotion(p *Position) error {
	if !m.hasPromotion {
		return &SuspendedForPromotionError{Color: m.player, Square: p.location[m.passenger].Coord(), Secondary: true}
	}
	m.promoted = p.promote(m.passenger, m.promotion, m.promoted)
	m.phase = phaseDone
	return nil
}

// Undo returns the board to its slot and orientation and restores the
// owner, the passenger and its rights.
func (m *AttackBoardMove) Undo(p *Position) {
	if m.phase == phaseIdle {
		return
	}
	if m.phase == phaseDone && m.promoted != nil && m.flags.Has(FlagSecondaryPromotion) {
		p.unpromote(m.promoted, m.passenger)
	}
	p.placeBoard(m.board, m.fromSlot, m.fromRotated)
	m.board.owner = m.prevOwner
	if m.passenger != nil {
		m.passenger.restoreRights(m.prev)
	}
	for _, pawn := range m.cleared {
		pawn.JustMadeDoubleSquareMove = true
	}
	m.cleared = nil
	m.phase = phaseIdle
}

func (m *AttackBoardMove) Redo(p *Position) error { return m.Execute(p) }

// Notation renders {from}-{to} or {slot}⟳. A secondary promotion is written
// P/{from}-{to}(X).
func (m *AttackBoardMove) Notation() string {
	var b strings.Builder
	if m.flags.Has(FlagSecondaryPromotion) {
		b.WriteString("P/")
	}
	b.WriteString(m.fromSlot.String())
	if m.target.rotate {
		b.WriteString(RotationMark)
	} else {
		b.WriteByte('-')
		b.WriteString(m.target.slot.String())
	}
	if m.flags.Has(FlagSecondaryPromotion) && m.hasPromotion {
		b.WriteByte('(')
		b.WriteByte(pieceBehaviors[m.promotion].character)
		b.WriteByte(')')
	}
	b.WriteString(checkSuffix(m.flags))
	return b.String()
}

func (m *AttackBoardMove) String() string { return m.Notation() }
