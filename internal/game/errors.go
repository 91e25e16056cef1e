package game

import (
	"errors"
	"fmt"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

var (
	ErrNotYourTurn          = errors.New("not your turn")
	ErrGameOver             = errors.New("game is over")
	ErrPromotionPending     = errors.New("promotion choice pending")
	ErrNoPromotionPending   = errors.New("no promotion pending")
	ErrNothingToUndo        = errors.New("nothing to undo")
	ErrNothingToRedo        = errors.New("nothing to redo")
	ErrNoPiece              = errors.New("no piece on square")
	ErrNoAttackBoard        = errors.New("no attack board at slot")
	ErrDrawOfferUnavailable = errors.New("draw offer unavailable")
	ErrNoDrawOffer          = errors.New("no draw offer to answer")
	ErrInvalidPromotion     = errors.New("invalid promotion piece")

	// ErrSuspendedForPromotion is matched by SuspendedForPromotionError.
	ErrSuspendedForPromotion = errors.New("suspended for promotion")
)

// RangeError and FormatError come from the coordinate codec; they are
// re-exported so callers of the engine need only one import.
type (
	RangeError  = shared.RangeError
	FormatError = shared.FormatError
)

// IllegalMoveError reports a request that fails the piece rules or the
// legality filter. The position is untouched.
type IllegalMoveError struct {
	Move   string
	Reason string
}

func (e *IllegalMoveError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("illegal move %s", e.Move)
	}
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}

func illegal(move, format string, args ...any) error {
	return &IllegalMoveError{Move: move, Reason: fmt.Sprintf(format, args...)}
}

// SuspendedForPromotionError signals that a move has performed its
// relocation and waits for a promotion piece. It is not a failure.
type SuspendedForPromotionError struct {
	Color     Color
	Square    shared.Coord
	Secondary bool
}

func (e *SuspendedForPromotionError) Error() string {
	kind := "promotion"
	if e.Secondary {
		kind = "secondary promotion"
	}
	return fmt.Sprintf("%s of %s pawn at %s awaits a piece choice", kind, e.Color, e.Square)
}

func (e *SuspendedForPromotionError) Is(target error) bool { return target == ErrSuspendedForPromotion }
