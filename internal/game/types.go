package game

import (
	"fmt"
	"strings"
)

// Color is a side. White moves first.
type Color uint8

const (
	White Color = iota
	Black
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Index maps White to 0 and Black to 1 for per-side arrays.
func (c Color) Index() int { return int(c) }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Forward is the rank direction pawns of c advance in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceType names a kind of chessman; it indexes pieceBehaviors.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceTypeCount bounds the per-type dispatch tables.
const PieceTypeCount = 6

func (p PieceType) String() string {
	if int(p) < PieceTypeCount {
		return string(pieceBehaviors[p].character)
	}
	return fmt.Sprintf("piece(%d)", p)
}

// Name returns the lower-case English name of the piece type.
func (p PieceType) Name() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "?"
	}
}

// ParsePieceLetter maps an upper-case piece letter to its type.
func ParsePieceLetter(b byte) (PieceType, bool) {
	for pt := PieceType(0); pt < PieceTypeCount; pt++ {
		if pieceBehaviors[pt].character == b {
			return pt, true
		}
	}
	return 0, false
}

// ParsePromotionPiece accepts "q", "queen", "N", ... for the four legal
// promotion targets.
func ParsePromotionPiece(s string) (PieceType, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "q", "queen":
		return Queen, true
	case "r", "rook":
		return Rook, true
	case "b", "bishop":
		return Bishop, true
	case "n", "knight":
		return Knight, true
	default:
		return 0, false
	}
}

func validPromotion(pt PieceType) bool {
	return pt == Queen || pt == Rook || pt == Bishop || pt == Knight
}

// Owner is the controlling side of an attack board.
type Owner uint8

const (
	OwnerNeutral Owner = iota
	OwnerWhite
	OwnerBlack
)

// OwnerOf converts a player colour into an attack-board owner.
func OwnerOf(c Color) Owner {
	if c == White {
		return OwnerWhite
	}
	return OwnerBlack
}

func (o Owner) String() string {
	switch o {
	case OwnerWhite:
		return "white"
	case OwnerBlack:
		return "black"
	default:
		return "neutral"
	}
}

func (o Owner) letter() byte {
	switch o {
	case OwnerWhite:
		return 'w'
	case OwnerBlack:
		return 'b'
	default:
		return 'n'
	}
}

func ownerFromLetter(b byte) (Owner, bool) {
	switch b {
	case 'w', 'W':
		return OwnerWhite, true
	case 'b', 'B':
		return OwnerBlack, true
	case 'n', 'N':
		return OwnerNeutral, true
	}
	return 0, false
}

// EventFlags records what happened during a move.
type EventFlags uint32

const (
	FlagCapture EventFlags = 1 << iota
	FlagCastleKingside
	FlagCastleQueenside
	FlagDoubleSquare
	FlagEnPassant
	FlagPromotion
	FlagSecondaryPromotion
	FlagAttackBoardClaim
	FlagAttackBoardRotate
	FlagAttackBoardInvert
	FlagCheck
	FlagCheckmate
	FlagDrawOffered
	// FlagRightsLost marks that the moved piece (or the attack board's
	// passenger) gave up castling or double-square rights.
	FlagRightsLost
)

func (f EventFlags) Has(flag EventFlags) bool { return f&flag != 0 }

func (f EventFlags) With(flag EventFlags) EventFlags { return f | flag }

func (f EventFlags) Without(flag EventFlags) EventFlags { return f &^ flag }

var flagNames = [...]struct {
	flag EventFlags
	name string
}{
	{FlagCapture, "capture"},
	{FlagCastleKingside, "castle-kingside"},
	{FlagCastleQueenside, "castle-queenside"},
	{FlagDoubleSquare, "double-square"},
	{FlagEnPassant, "en-passant"},
	{FlagPromotion, "promotion"},
	{FlagSecondaryPromotion, "secondary-promotion"},
	{FlagAttackBoardClaim, "attack-board-claim"},
	{FlagAttackBoardRotate, "attack-board-rotate"},
	{FlagAttackBoardInvert, "attack-board-invert"},
	{FlagCheck, "check"},
	{FlagCheckmate, "checkmate"},
	{FlagDrawOffered, "draw-offered"},
	{FlagRightsLost, "rights-lost"},
}

// Strings lists the names of the set flags.
func (f EventFlags) Strings() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

// GameState is the state of the game state machine.
type GameState uint8

const (
	PreGame GameState = iota
	WhiteTurn
	BlackTurn
	WhiteWinNormal
	BlackWinNormal
	DrawStalemate
	DrawThreefold
	DrawFiftyMoveRule
	DrawDeadPosition
	DrawTimeoutVsInsufficientMaterial
	DrawAgreement
	WhiteResignation
	BlackResignation
	WhiteTimeout
	BlackTimeout
)

var gameStateNames = [...]string{
	PreGame:                           "pre-game",
	WhiteTurn:                         "white-turn",
	BlackTurn:                         "black-turn",
	WhiteWinNormal:                    "white-win",
	BlackWinNormal:                    "black-win",
	DrawStalemate:                     "draw-stalemate",
	DrawThreefold:                     "draw-threefold",
	DrawFiftyMoveRule:                 "draw-fifty-move",
	DrawDeadPosition:                  "draw-dead-position",
	DrawTimeoutVsInsufficientMaterial: "draw-timeout-vs-insufficient-material",
	DrawAgreement:                     "draw-agreement",
	WhiteResignation:                  "white-resigned",
	BlackResignation:                  "black-resigned",
	WhiteTimeout:                      "white-timeout",
	BlackTimeout:                      "black-timeout",
}

func (s GameState) String() string {
	if int(s) < len(gameStateNames) {
		return gameStateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// Terminal reports whether no further moves may be played.
func (s GameState) Terminal() bool { return s > BlackTurn }

// IsDraw reports whether the terminal state is drawn.
func (s GameState) IsDraw() bool {
	switch s {
	case DrawStalemate, DrawThreefold, DrawFiftyMoveRule, DrawDeadPosition,
		DrawTimeoutVsInsufficientMaterial, DrawAgreement:
		return true
	}
	return false
}

// Winner returns the winning colour of a decisive terminal state.
func (s GameState) Winner() (Color, bool) {
	switch s {
	case WhiteWinNormal, BlackResignation, BlackTimeout:
		return White, true
	case BlackWinNormal, WhiteResignation, WhiteTimeout:
		return Black, true
	}
	return 0, false
}

// Result returns the PGN result token.
func (s GameState) Result() string {
	if w, ok := s.Winner(); ok {
		if w == White {
			return "1-0"
		}
		return "0-1"
	}
	if s.IsDraw() {
		return "1/2-1/2"
	}
	return "*"
}

func turnState(c Color) GameState {
	if c == White {
		return WhiteTurn
	}
	return BlackTurn
}
