package game

import (
	"strconv"
	"strings"

	"github.com/DJFreer92/Tri-Dimensional-Chess-2-sub000/internal/shared"
)

// StandardFEN is the opening position: four attack boards on the outer pins
// of the White and Black boards.
const StandardFEN = "w1W1b6B6 nbbn/dddd/4/4|4/4/4/4|4/4/DDDD/NBBN|DD/RQ|DD/KR|rq/dd|kr/dd w KQkq - 0 1"

type decodedFEN struct {
	pos      *Position
	active   Color
	halfmove int
	fullmove int
}

// FEN encodes the current position.
func (e *Engine) FEN() string {
	return encodeFEN(e.pos, e.active, e.halfmove, e.fullmove)
}

// signature is the part of the FEN that identifies a position for
// repetition: attack boards, placement and side to move.
func (e *Engine) signature() string {
	var b strings.Builder
	b.WriteString(encodeBoards(e.pos))
	b.WriteByte(' ')
	b.WriteString(encodePlacement(e.pos))
	b.WriteByte(' ')
	b.WriteString(activeLetter(e.active))
	return b.String()
}

// PositionFEN encodes p with the given side to move and clocks.
func PositionFEN(p *Position, active Color, halfmove, fullmove int) string {
	return encodeFEN(p, active, halfmove, fullmove)
}

func encodeFEN(p *Position, active Color, halfmove, fullmove int) string {
	fields := []string{
		encodeBoards(p),
		encodePlacement(p),
		activeLetter(active),
		encodeCastling(p),
		encodeEnPassant(p, active),
		strconv.Itoa(halfmove),
		strconv.Itoa(fullmove),
	}
	return strings.Join(fields, " ")
}

func activeLetter(c Color) string {
	if c == White {
		return "w"
	}
	return "b"
}

func encodeBoards(p *Position) string {
	if len(p.attack) == 0 {
		return "-"
	}
	var b strings.Builder
	for _, ab := range p.attack {
		letter := ab.owner.letter()
		if ab.slot.Pin.Side == shared.KingSide {
			letter -= 'a' - 'A'
		}
		b.WriteByte(letter)
		b.WriteString(strconv.Itoa(ab.slot.Pin.Index))
		if ab.slot.Inverted {
			b.WriteByte('I')
		}
	}
	return b.String()
}

// encodePlacement writes Black, Neutral and White main boards, then the
// attack boards; ranks top down, files left to right.
func encodePlacement(p *Position) string {
	boards := []*Board{p.mains[2], p.mains[1], p.mains[0]}
	boards = append(boards, p.attack...)
	parts := make([]string, 0, len(boards))
	for _, bd := range boards {
		parts = append(parts, encodeBoard(p, bd))
	}
	return strings.Join(parts, "|")
}

func encodeBoard(p *Position, bd *Board) string {
	squares := p.SortedSquares(bd)
	width := 2
	if bd.main {
		width = 4
	}
	var rows []string
	for start := 0; start < len(squares); start += width {
		var row strings.Builder
		empty := 0
		for _, sq := range squares[start : start+width] {
			pc := p.occupant[sq]
			if pc == nil {
				empty++
				continue
			}
			if empty > 0 {
				row.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			row.WriteByte(pc.Letter())
		}
		if empty > 0 {
			row.WriteString(strconv.Itoa(empty))
		}
		rows = append(rows, row.String())
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return strings.Join(rows, "/")
}

func encodeCastling(p *Position) string {
	var b strings.Builder
	for _, c := range []Color{White, Black} {
		king := p.King(c)
		if king == nil || !king.HasCastlingRights {
			continue
		}
		kc := p.location[king].Coord()
		var kingSide, queenSide bool
		for _, rook := range castlingRooks(p, king) {
			if p.location[rook].Coord().File > kc.File {
				kingSide = true
			} else {
				queenSide = true
			}
		}
		k, q := "K", "Q"
		if c == Black {
			k, q = "k", "q"
		}
		if kingSide {
			b.WriteString(k)
		}
		if queenSide {
			b.WriteString(q)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// castlingRooks returns king's rooks with rights on the king's level and
// rank.
func castlingRooks(p *Position, king *Piece) []*Piece {
	kc := p.location[king].Coord()
	var out []*Piece
	for _, pc := range p.Pieces(king.Color) {
		if pc.Type != Rook || !pc.HasCastlingRights {
			continue
		}
		c := p.location[pc].Coord()
		if c.Level == kc.Level && c.Rank == kc.Rank {
			out = append(out, pc)
		}
	}
	return out
}

// encodeEnPassant names the pawn the side to move may capture en passant.
// The mover's own marks outlive the reply and are not capturable.
func encodeEnPassant(p *Position, active Color) string {
	for _, pc := range p.Pieces(active.Opposite()) {
		if pc.Type == Pawn && pc.JustMadeDoubleSquareMove {
			return p.location[pc].Coord().String()
		}
	}
	return "-"
}

// ParseFEN validates fen and returns the position it describes.
func ParseFEN(fen string) (*Position, Color, error) {
	d, err := decodeFEN(fen)
	if err != nil {
		return nil, 0, err
	}
	return d.pos, d.active, nil
}

func decodeFEN(fen string) (*decodedFEN, error) {
	fields := strings.Fields(fen)
	if len(fields) != 7 {
		return nil, &FormatError{Input: fen, Reason: "FEN needs 7 fields"}
	}
	p := NewPosition()
	if err := decodeBoards(p, fields[0]); err != nil {
		return nil, err
	}
	if err := decodePlacement(p, fields[1]); err != nil {
		return nil, err
	}
	for _, c := range []Color{White, Black} {
		n := 0
		for _, pc := range p.Pieces(c) {
			if pc.Type == King {
				n++
			}
		}
		if n != 1 {
			return nil, &FormatError{Input: fields[1], Reason: c.String() + " must have exactly one king"}
		}
	}

	d := &decodedFEN{pos: p}
	switch fields[2] {
	case "w":
		d.active = White
	case "b":
		d.active = Black
	default:
		return nil, &FormatError{Input: fields[2], Reason: "active colour must be w or b"}
	}
	if err := decodeCastling(p, fields[3]); err != nil {
		return nil, err
	}
	if err := decodeEnPassant(p, fields[4], d.active); err != nil {
		return nil, err
	}
	var err error
	if d.halfmove, err = strconv.Atoi(fields[5]); err != nil || d.halfmove < 0 {
		return nil, &FormatError{Input: fields[5], Reason: "bad half-move clock"}
	}
	if d.fullmove, err = strconv.Atoi(fields[6]); err != nil || d.fullmove < 1 {
		return nil, &FormatError{Input: fields[6], Reason: "bad full-move number"}
	}
	return d, nil
}

func decodeBoards(p *Position, field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); {
		owner, ok := ownerFromLetter(field[i])
		if !ok || i+1 >= len(field) {
			return &FormatError{Input: field, Reason: "expected {owner}{pin}[I] attack board tokens"}
		}
		side := shared.QueenSide
		if field[i] >= 'A' && field[i] <= 'Z' {
			side = shared.KingSide
		}
		idx := int(field[i+1] - '0')
		pin := shared.Pin{Side: side, Index: idx}
		if !pin.Valid() {
			return &FormatError{Input: field, Reason: "pin must be 1-6"}
		}
		i += 2
		slot := shared.Slot{Pin: pin}
		if i < len(field) && field[i] == 'I' {
			slot.Inverted = true
			i++
		}
		if _, err := p.AddAttackBoard(slot, owner); err != nil {
			return err
		}
	}
	return nil
}

func decodePlacement(p *Position, field string) error {
	boards := []*Board{p.mains[2], p.mains[1], p.mains[0]}
	boards = append(boards, p.attack...)
	parts := strings.Split(field, "|")
	if len(parts) != len(boards) {
		return &FormatError{Input: field, Reason: "board count does not match the attack board field"}
	}
	for i, bd := range boards {
		if err := decodeBoard(p, bd, parts[i]); err != nil {
			return err
		}
	}
	return nil
}

func decodeBoard(p *Position, bd *Board, text string) error {
	width, height := 2, 2
	if bd.main {
		width, height = 4, 4
	}
	rows := strings.Split(text, "/")
	if len(rows) != height {
		return &FormatError{Input: text, Reason: "wrong number of ranks for board " + bd.Label()}
	}
	squares := p.SortedSquares(bd)
	for r, row := range rows {
		base := (height - 1 - r) * width
		file := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '1' && ch <= '9' {
				file += int(ch - '0')
				continue
			}
			if file >= width {
				return &FormatError{Input: text, Reason: "rank too long"}
			}
			color := White
			upper := ch
			if ch >= 'a' && ch <= 'z' {
				color = Black
				upper = ch - ('a' - 'A')
			}
			double := upper == 'D'
			if double {
				upper = 'P'
			}
			pt, ok := ParsePieceLetter(upper)
			if !ok {
				return &FormatError{Input: text, Reason: "unknown piece letter " + string(ch)}
			}
			pc := p.NewPiece(color, pt, squares[base+file])
			pc.HasDoubleSquareRights = double
			file++
		}
		if file != width {
			return &FormatError{Input: text, Reason: "rank has the wrong width"}
		}
	}
	return nil
}

func decodeCastling(p *Position, field string) error {
	if field == "-" {
		return nil
	}
	for _, ch := range field {
		var color Color
		var kingSide bool
		switch ch {
		case 'K':
			color, kingSide = White, true
		case 'Q':
			color = White
		case 'k':
			color, kingSide = Black, true
		case 'q':
			color = Black
		default:
			return &FormatError{Input: field, Reason: "castling must be a subset of KQkq"}
		}
		king := p.King(color)
		kc := p.location[king].Coord()
		granted := false
		for _, pc := range p.Pieces(color) {
			if pc.Type != Rook {
				continue
			}
			c := p.location[pc].Coord()
			if c.Level != kc.Level || c.Rank != kc.Rank || (c.File > kc.File) != kingSide {
				continue
			}
			pc.HasCastlingRights = true
			granted = true
		}
		if !granted {
			return &FormatError{Input: field, Reason: "no rook for castling right " + string(ch)}
		}
		king.HasCastlingRights = true
	}
	return nil
}

func decodeEnPassant(p *Position, field string, active Color) error {
	if field == "-" {
		return nil
	}
	c, err := shared.AnnotationToSquare(field)
	if err != nil {
		return err
	}
	pc := p.PieceAtCoord(c)
	if pc == nil || pc.Type != Pawn || pc.Color == active {
		return &FormatError{Input: field, Reason: "en-passant square must hold a pawn of the side that just moved"}
	}
	pc.JustMadeDoubleSquareMove = true
	return nil
}
