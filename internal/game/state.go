package game

import "github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"

// PieceState is a serializable representation of a piece on the board.
type PieceState struct {
	ID                       int          `json:"id"`
	Color                    string       `json:"color"`
	Type                     string       `json:"type"`
	Square                   string       `json:"square"`
	Coord                    shared.Coord `json:"coord"`
	HasCastlingRights        bool         `json:"hasCastlingRights,omitempty"`
	HasDoubleSquareRights    bool         `json:"hasDoubleSquareRights,omitempty"`
	JustMadeDoubleSquareMove bool         `json:"justMadeDoubleSquareMove,omitempty"`
}

// AttackBoardState describes one attack board.
type AttackBoardState struct {
	Slot     string `json:"slot"`
	Owner    string `json:"owner"`
	Inverted bool   `json:"inverted"`
	Rotated  bool   `json:"rotated"`
	Pieces   int    `json:"pieces"`
}

// MoveState is one entry of the move list.
type MoveState struct {
	Ply         int      `json:"ply"`
	Color       string   `json:"color"`
	Notation    string   `json:"notation"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	AttackBoard bool     `json:"attackBoard"`
	Flags       []string `json:"flags,omitempty"`
}

// BoardState is a serializable snapshot of the game.
type BoardState struct {
	FEN              string             `json:"fen"`
	Pieces           []PieceState       `json:"pieces"`
	AttackBoards     []AttackBoardState `json:"attackBoards"`
	Moves            []MoveState        `json:"moves"`
	Turn             string             `json:"turn"`
	Status           string             `json:"status"`
	Result           string             `json:"result"`
	GameOver         bool               `json:"gameOver"`
	InCheck          bool               `json:"inCheck"`
	HalfmoveClock    int                `json:"halfmoveClock"`
	FullmoveNumber   int                `json:"fullmoveNumber"`
	PendingPromotion bool               `json:"pendingPromotion"`
	DrawOfferedBy    string             `json:"drawOfferedBy,omitempty"`
	CanUndo          bool               `json:"canUndo"`
	CanRedo          bool               `json:"canRedo"`
	LastNote         string             `json:"lastNote"`
}

// State returns a snapshot of the game for display.
func (e *Engine) State() BoardState {
	s := BoardState{
		FEN:              e.FEN(),
		Pieces:           make([]PieceState, 0, 32),
		Turn:             e.active.String(),
		Status:           e.state.String(),
		Result:           e.state.Result(),
		GameOver:         e.state.Terminal(),
		InCheck:          e.inCheck,
		HalfmoveClock:    e.halfmove,
		FullmoveNumber:   e.fullmove,
		PendingPromotion: e.pending != nil,
		CanUndo:          e.pending == nil && e.applied() > 0,
		CanRedo:          e.CanRedo(),
		LastNote:         e.lastNote,
	}
	if e.offer.Open {
		s.DrawOfferedBy = e.offer.By.String()
	}
	for _, pc := range e.pos.AllPieces() {
		c := e.pos.location[pc].Coord()
		s.Pieces = append(s.Pieces, PieceState{
			ID:                       pc.ID,
			Color:                    pc.Color.String(),
			Type:                     pc.Type.Name(),
			Square:                   c.String(),
			Coord:                    c,
			HasCastlingRights:        pc.HasCastlingRights,
			HasDoubleSquareRights:    pc.HasDoubleSquareRights,
			JustMadeDoubleSquareMove: pc.JustMadeDoubleSquareMove,
		})
	}
	for _, b := range e.pos.attack {
		s.AttackBoards = append(s.AttackBoards, AttackBoardState{
			Slot:     b.slot.String(),
			Owner:    b.owner.String(),
			Inverted: b.slot.Inverted,
			Rotated:  b.rotated,
			Pieces:   len(e.pos.PiecesOn(b)),
		})
	}
	for i, m := range e.Moves() {
		s.Moves = append(s.Moves, MoveState{
			Ply:         i + 1,
			Color:       m.Player().String(),
			Notation:    m.Notation(),
			From:        m.From().String(),
			To:          m.To().String(),
			AttackBoard: m.IsAttackBoardMove(),
			Flags:       m.Flags().Strings(),
		})
	}
	return s
}
