// Package game implements the three-level chess rules engine: the board
// model, move generation, the check oracle, the reversible move history,
// the game state machine and FEN/PGN serialization.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

// Engine owns one game: the position, the history and the turn state.
// It is not safe for concurrent use.
type Engine struct {
	pos     *Position
	history History
	entries []recordEntry

	startFEN   string
	startSig   string
	startMoves int

	state    GameState
	active   Color
	halfmove int
	fullmove int
	inCheck  bool
	offer    drawOffer
	lastNote string

	pending       Move
	pendingBefore counters

	tags Tags
}

type drawOffer struct {
	Open bool
	By   Color
	used [2]bool
}

// counters is the scalar game state saved around every move.
type counters struct {
	state    GameState
	active   Color
	halfmove int
	fullmove int
	inCheck  bool
	offer    drawOffer
	lastNote string
}

// recordEntry is one finished move of the game record.
type recordEntry struct {
	move      Move
	before    counters
	after     counters
	signature string
	moveCount int
	capture   bool
}

// MoveRequest asks for a piece move.
type MoveRequest struct {
	From         shared.Coord
	To           shared.Coord
	Promotion    PieceType
	HasPromotion bool
}

// BoardMoveRequest asks for an attack-board move. Rotate turns the board in
// place and ignores To.
type BoardMoveRequest struct {
	From         shared.Slot
	To           shared.Slot
	Rotate       bool
	Promotion    PieceType
	HasPromotion bool
}

// RelayedMove is a move delivered by a remote peer. For attack-board moves
// Start is any square of the board and End is where that square lands.
type RelayedMove struct {
	Start        shared.Coord
	End          shared.Coord
	AttackBoard  bool
	Color        Color
	Promotion    PieceType
	HasPromotion bool
}

// Clock reports the time a side has left.
type Clock interface {
	Remaining(c Color) time.Duration
}

// NewEngine returns a game at the standard starting position.
func NewEngine() *Engine {
	e, err := NewEngineFromFEN(StandardFEN)
	if err != nil {
		panic(err)
	}
	return e
}

// NewEngineFromFEN returns a game starting from fen.
func NewEngineFromFEN(fen string) (*Engine, error) {
	d, err := decodeFEN(fen)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		pos:      d.pos,
		active:   d.active,
		halfmove: d.halfmove,
		fullmove: d.fullmove,
		state:    PreGame,
		tags:     NewTags(),
	}
	e.startFEN = e.FEN()
	e.startSig = e.signature()
	e.startMoves = len(e.pos.LegalMoves(e.active))
	e.inCheck = e.pos.InCheck(e.active)
	e.lastNote = "New game"
	return e, nil
}

// Reset starts a new game from the standard position.
func (e *Engine) Reset() error { return e.LoadFEN(StandardFEN) }

// LoadFEN replaces the game with one starting at fen. On error the current
// game is left untouched.
func (e *Engine) LoadFEN(fen string) error {
	next, err := NewEngineFromFEN(fen)
	if err != nil {
		return err
	}
	*e = *next
	return nil
}

// Position exposes the board model.
func (e *Engine) Position() *Position { return e.pos }

func (e *Engine) Status() GameState { return e.state }
func (e *Engine) Turn() Color { return e.active }
func (e *Engine) InCheck() bool { return e.inCheck }
func (e *Engine) HalfmoveClock() int { return e.halfmove }
func (e *Engine) FullmoveNumber() int { return e.fullmove }
func (e *Engine) LastNote() string { return e.lastNote }
func (e *Engine) PendingPromotion() bool { return e.pending != nil }
func (e *Engine) Tags() *Tags { return &e.tags }

// DrawOffer reports an open draw offer and who made it.
func (e *Engine) DrawOffer() (Color, bool) { return e.offer.By, e.offer.Open }

// Moves returns the applied moves of the game record.
func (e *Engine) Moves() []Move {
	out := make([]Move, 0, e.history.Cursor())
	for _, entry := range e.entries[:e.applied()] {
		out = append(out, entry.move)
	}
	return out
}

// CanRedo reports whether an undone move can be replayed.
func (e *Engine) CanRedo() bool { return e.pending == nil && e.applied() < len(e.entries) }

func (e *Engine) applied() int {
	n := e.history.Cursor()
	if e.pending != nil {
		n--
	}
	return n
}

// Start leaves PreGame and evaluates the starting position. Moves start the
// game implicitly.
func (e *Engine) Start() {
	if e.state != PreGame {
		return
	}
	e.state = turnState(e.active)
	e.evaluate(nil, nil)
}

func (e *Engine) ready() error {
	e.Start()
	if e.pending != nil {
		return ErrPromotionPending
	}
	if e.state.Terminal() {
		return ErrGameOver
	}
	return nil
}

// Move plays a piece move for the side to move.
func (e *Engine) Move(req MoveRequest) error {
	if err := e.ready(); err != nil {
		return err
	}
	from := e.pos.SquareAt(req.From)
	pc := e.pos.PieceAt(from)
	if pc == nil {
		return fmt.Errorf("%s: %w", req.From, ErrNoPiece)
	}
	if pc.Color != e.active {
		return ErrNotYourTurn
	}
	desc := fmt.Sprintf("%s-%s", req.From, req.To)
	to := e.pos.SquareAt(req.To)
	if to == nil {
		return illegal(desc, "no square at destination")
	}
	found := false
	for _, sq := range e.pos.LegalDestinations(pc) {
		if sq == to {
			found = true
			break
		}
	}
	if !found {
		return illegal(desc, "%s cannot move there", pc.Type.Name())
	}
	m := newPieceMove(e.pos, pc, to)
	if req.HasPromotion {
		if err := m.SetPromotion(req.Promotion); err != nil {
			return err
		}
	}
	return e.play(m)
}

// MoveBoard plays an attack-board move for the side to move.
func (e *Engine) MoveBoard(req BoardMoveRequest) error {
	if err := e.ready(); err != nil {
		return err
	}
	b := e.pos.BoardAt(req.From)
	if b == nil {
		return fmt.Errorf("%s: %w", req.From, ErrNoAttackBoard)
	}
	desc := req.From.String() + "-" + req.To.String()
	if req.Rotate {
		desc = req.From.String() + RotationMark
	}
	if !e.pos.CanMoveAttackBoard(b, e.active) {
		return illegal(desc, "%s may not move this attack board", e.active)
	}
	want := boardTarget{slot: req.To, rotate: req.Rotate}
	if req.Rotate {
		want.slot = req.From
	}
	for _, t := range e.pos.legalBoardTargets(b, e.active) {
		if t != want {
			continue
		}
		m := newBoardMove(b, e.active, t)
		if req.HasPromotion {
			if err := m.SetPromotion(req.Promotion); err != nil {
				return err
			}
		}
		return e.play(m)
	}
	return illegal(desc, "destination unavailable")
}

// ApplyRelayedMove plays a move received from a remote peer. Moves for the
// side not on turn are rejected, which also drops duplicates.
func (e *Engine) ApplyRelayedMove(r RelayedMove) error {
	if err := e.ready(); err != nil {
		return err
	}
	if r.Color != e.active {
		return ErrNotYourTurn
	}
	if !r.AttackBoard {
		return e.Move(MoveRequest{From: r.Start, To: r.End, Promotion: r.Promotion, HasPromotion: r.HasPromotion})
	}
	sq := e.pos.SquareAt(r.Start)
	if sq == nil || sq.board.main {
		return fmt.Errorf("%s: %w", r.Start, ErrNoAttackBoard)
	}
	b := sq.board
	for _, t := range e.pos.legalBoardTargets(b, e.active) {
		df, dr := sq.df, sq.dr
		if t.rotated(b) {
			df, dr = 1-df, 1-dr
		}
		if t.slot.At(df, dr) != r.End {
			continue
		}
		m := newBoardMove(b, e.active, t)
		if r.HasPromotion {
			if err := m.SetPromotion(r.Promotion); err != nil {
				return err
			}
		}
		return e.play(m)
	}
	return illegal(fmt.Sprintf("%s-%s", r.Start, r.End), "no attack-board move lands there")
}

// PlayMove plays a move taken from LegalMoves. A move generated for an
// earlier position is rejected with an IllegalMoveError.
func (e *Engine) PlayMove(m Move) error {
	if err := e.ready(); err != nil {
		return err
	}
	if m.Player() != e.active {
		return ErrNotYourTurn
	}
	if !m.fits(e.pos) {
		return illegal(m.Notation(), "move does not fit the current position")
	}
	return e.play(m)
}

func (e *Engine) play(m Move) error {
	before := e.snapshot()
	e.entries = e.entries[:e.history.Cursor()]
	err := e.history.AddCommand(e.pos, m)
	if errors.Is(err, ErrSuspendedForPromotion) {
		e.pending = m
		e.pendingBefore = before
		e.lastNote = fmt.Sprintf("%s to choose a promotion piece", capitalize(m.Player().String()))
		return err
	}
	if err != nil {
		return err
	}
	e.finishTurn(m, before)
	return nil
}

// Promote supplies the piece for a suspended promotion and finishes the move.
func (e *Engine) Promote(pt PieceType) error {
	if e.pending == nil {
		return ErrNoPromotionPending
	}
	if err := e.pending.SetPromotion(pt); err != nil {
		return err
	}
	if err := e.pending.Execute(e.pos); err != nil {
		return err
	}
	m, before := e.pending, e.pendingBefore
	e.pending = nil
	e.finishTurn(m, before)
	return nil
}

// CancelPromotion rolls back a suspended move.
func (e *Engine) CancelPromotion() error {
	if e.pending == nil {
		return ErrNoPromotionPending
	}
	if _, err := e.history.UndoAndRemove(e.pos); err != nil {
		return err
	}
	e.pending = nil
	e.restore(e.pendingBefore)
	e.lastNote = "Promotion cancelled"
	return nil
}

func (e *Engine) finishTurn(m Move, before counters) {
	mover := m.Player()
	entry := recordEntry{move: m, before: before, capture: m.Flags().Has(FlagCapture)}

	if entry.capture || isPawnMove(m) || isActiveBoardMove(m) {
		e.halfmove = 0
	} else {
		e.halfmove++
	}
	if mover == Black {
		e.fullmove++
	}
	e.active = mover.Opposite()
	if e.offer.Open && e.offer.By != mover {
		e.offer.Open = false
	}
	e.offer.used = [2]bool{}
	e.state = turnState(e.active)

	e.evaluate(m, &entry)
	entry.after = e.snapshot()
	e.entries = append(e.entries, entry)
}

func isPawnMove(m Move) bool {
	pm, ok := m.(*PieceMove)
	return ok && pm.piece.Type == Pawn
}

func isActiveBoardMove(m Move) bool {
	bm, ok := m.(*AttackBoardMove)
	return ok && bm.Active()
}

// Undo steps back one move; the move can be redone.
func (e *Engine) Undo() error {
	if e.pending != nil {
		return ErrPromotionPending
	}
	m, err := e.history.Undo(e.pos)
	if err != nil {
		return err
	}
	e.restore(e.entries[e.history.Cursor()].before)
	e.lastNote = "Undid " + m.Notation()
	return nil
}

// Redo replays the next undone move.
func (e *Engine) Redo() error {
	if e.pending != nil {
		return ErrPromotionPending
	}
	idx := e.history.Cursor()
	if idx >= len(e.entries) {
		return ErrNothingToRedo
	}
	m, err := e.history.Redo(e.pos)
	if err != nil {
		return err
	}
	e.restore(e.entries[idx].after)
	e.lastNote = "Redid " + m.Notation()
	return nil
}

// Takeback undoes the last move and removes it from the record. A suspended
// promotion is cancelled instead.
func (e *Engine) Takeback() error {
	if e.pending != nil {
		return e.CancelPromotion()
	}
	m, err := e.history.UndoAndRemove(e.pos)
	if err != nil {
		return err
	}
	idx := e.history.Cursor()
	e.restore(e.entries[idx].before)
	e.entries = e.entries[:idx]
	e.lastNote = "Took back " + m.Notation()
	return nil
}

// Resign ends the game in favour of color's opponent.
func (e *Engine) Resign(color Color) error {
	if err := e.ready(); err != nil {
		return err
	}
	if color == White {
		e.state = WhiteResignation
	} else {
		e.state = BlackResignation
	}
	e.lastNote = fmt.Sprintf("%s resigns", capitalize(color.String()))
	return nil
}

// ReportTimeout records that color ran out of time. It is a draw when the
// opponent cannot mate.
func (e *Engine) ReportTimeout(color Color) error {
	if err := e.ready(); err != nil {
		return err
	}
	switch {
	case insufficientMaterial(e.pos, color.Opposite()):
		e.state = DrawTimeoutVsInsufficientMaterial
		e.lastNote = fmt.Sprintf("%s flagged - draw, %s cannot mate", capitalize(color.String()), color.Opposite())
	case color == White:
		e.state = WhiteTimeout
		e.lastNote = "White flagged - black wins"
	default:
		e.state = BlackTimeout
		e.lastNote = "Black flagged - white wins"
	}
	return nil
}

// CheckClock asks clock for both sides' remaining time and reports the
// first side found at zero, the side to move first.
func (e *Engine) CheckClock(clock Clock) (bool, error) {
	for _, c := range []Color{e.active, e.active.Opposite()} {
		if clock.Remaining(c) <= 0 {
			return true, e.ReportTimeout(c)
		}
	}
	return false, nil
}

// OfferDraw records a draw offer from color. Each side may offer once per
// turn.
func (e *Engine) OfferDraw(color Color) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.offer.Open || e.offer.used[color.Index()] {
		return ErrDrawOfferUnavailable
	}
	e.offer.Open, e.offer.By = true, color
	e.offer.used[color.Index()] = true
	if last := e.history.Last(); last != nil && last.Player() == color {
		last.setFlag(FlagDrawOffered, true)
	}
	e.lastNote = fmt.Sprintf("%s offers a draw", capitalize(color.String()))
	return nil
}

// AcceptDraw accepts the opponent's open offer.
func (e *Engine) AcceptDraw(color Color) error {
	if err := e.ready(); err != nil {
		return err
	}
	if !e.offer.Open || e.offer.By == color {
		return ErrNoDrawOffer
	}
	e.offer.Open = false
	e.state = DrawAgreement
	e.lastNote = "Draw agreed"
	return nil
}

// DeclineDraw rejects the opponent's open offer.
func (e *Engine) DeclineDraw(color Color) error {
	if !e.offer.Open || e.offer.By == color {
		return ErrNoDrawOffer
	}
	e.offer.Open = false
	e.lastNote = fmt.Sprintf("%s declines the draw", capitalize(color.String()))
	return nil
}

// LegalMoves lists the legal moves of the side to move.
func (e *Engine) LegalMoves() []Move {
	if e.state.Terminal() || e.pending != nil {
		return nil
	}
	return e.pos.LegalMoves(e.active)
}

// LegalDestinations lists where the piece on from may go.
func (e *Engine) LegalDestinations(from shared.Coord) ([]shared.Coord, error) {
	pc := e.pos.PieceAtCoord(from)
	if pc == nil {
		return nil, fmt.Errorf("%s: %w", from, ErrNoPiece)
	}
	var out []shared.Coord
	for _, sq := range e.pos.LegalDestinations(pc) {
		out = append(out, sq.Coord())
	}
	return out, nil
}

// BoardDestination is a legal attack-board target.
type BoardDestination struct {
	Slot   shared.Slot
	Rotate bool
}

// BoardDestinations lists where the side to move may take the board in slot.
func (e *Engine) BoardDestinations(slot shared.Slot) ([]BoardDestination, error) {
	b := e.pos.BoardAt(slot)
	if b == nil {
		return nil, fmt.Errorf("%s: %w", slot, ErrNoAttackBoard)
	}
	var out []BoardDestination
	for _, t := range e.pos.legalBoardTargets(b, e.active) {
		out = append(out, BoardDestination{Slot: t.slot, Rotate: t.rotate})
	}
	return out, nil
}

func (e *Engine) snapshot() counters {
	return counters{
		state:    e.state,
		active:   e.active,
		halfmove: e.halfmove,
		fullmove: e.fullmove,
		inCheck:  e.inCheck,
		offer:    e.offer,
		lastNote: e.lastNote,
	}
}

func (e *Engine) restore(c counters) {
	e.state = c.state
	e.active = c.active
	e.halfmove = c.halfmove
	e.fullmove = c.fullmove
	e.inCheck = c.inCheck
	e.offer = c.offer
	e.lastNote = c.lastNote
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
