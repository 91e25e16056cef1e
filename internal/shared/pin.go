package shared

import (
	"fmt"
	"strings"
)

// Side distinguishes queen-side (files z-a) and king-side (files d-e) pins.
type Side uint8

const (
	QueenSide Side = iota
	KingSide
)

func (s Side) String() string {
	if s == KingSide {
		return "K"
	}
	return "Q"
}

// AnchorFile is the main-board file carrying the side's anchor squares.
func (s Side) AnchorFile() int {
	if s == KingSide {
		return 4
	}
	return 1
}

// FirstFile is the lower file of an attack board pinned on this side.
func (s Side) FirstFile() int {
	if s == KingSide {
		return 4
	}
	return 0
}

// Anchor rank of pins 1..6: White low/high, Neutral low/high, Black low/high.
var pinRanks = [...]int{1, 4, 3, 6, 5, 8}

// PinCount is the number of pins per side.
const PinCount = len(pinRanks)

// Pin is an anchor point that can hold one attack board above and one below.
type Pin struct {
	Side  Side
	Index int
}

// Valid reports whether the pin index is within 1..6.
func (p Pin) Valid() bool { return p.Index >= 1 && p.Index <= PinCount }

// MainLevel is the level of the main board carrying the anchor.
func (p Pin) MainLevel() int { return ((p.Index - 1) / 2) * 2 }

// AnchorRank is the rank of the anchor square.
func (p Pin) AnchorRank() int { return pinRanks[p.Index-1] }

// Anchor returns the coordinates of the anchor square on its main board.
func (p Pin) Anchor() Coord {
	return Coord{File: p.Side.AnchorFile(), Level: p.MainLevel(), Rank: p.AnchorRank()}
}

// Label returns the board label (QL#/KL#) of the pin.
func (p Pin) Label() BoardLabel {
	if p.Side == KingSide {
		return LabelKL1 + BoardLabel(p.Index-1)
	}
	return LabelQL1 + BoardLabel(p.Index-1)
}

func (p Pin) String() string { return p.Label().String() }

// AllPins lists every pin, queen side first.
func AllPins() []Pin {
	out := make([]Pin, 0, 2*PinCount)
	for _, side := range []Side{QueenSide, KingSide} {
		for i := 1; i <= PinCount; i++ {
			out = append(out, Pin{Side: side, Index: i})
		}
	}
	return out
}

// Slot is one of the two positions at a pin: on top of the anchor, or below
// it when the attack board is inverted.
type Slot struct {
	Pin      Pin
	Inverted bool
}

// Level of the attack board squares when pinned in this slot.
func (s Slot) Level() int {
	if s.Inverted {
		return s.Pin.MainLevel() - 1
	}
	return s.Pin.MainLevel() + 1
}

// Origin is the lowest-file, lowest-rank square of the 2x2 patch.
func (s Slot) Origin() Coord {
	rank := s.Pin.AnchorRank()
	if s.Pin.Index%2 == 1 {
		rank--
	}
	return Coord{File: s.Pin.Side.FirstFile(), Level: s.Level(), Rank: rank}
}

// At returns the coordinates of the patch square at local offset (df, dr).
func (s Slot) At(df, dr int) Coord {
	o := s.Origin()
	return Coord{File: o.File + df, Level: o.Level, Rank: o.Rank + dr}
}

// Contains reports whether c lies on the patch and returns its local offset.
func (s Slot) Contains(c Coord) (df, dr int, ok bool) {
	o := s.Origin()
	df, dr = c.File-o.File, c.Rank-o.Rank
	if c.Level != o.Level || df < 0 || df > 1 || dr < 0 || dr > 1 {
		return 0, 0, false
	}
	return df, dr, true
}

// Flip returns the opposite slot of the same pin.
func (s Slot) Flip() Slot { return Slot{Pin: s.Pin, Inverted: !s.Inverted} }

func (s Slot) String() string {
	if s.Inverted {
		return s.Pin.String() + "I"
	}
	return s.Pin.String()
}

// ParseSlot parses "QL1", "KL4I" and similar.
func ParseSlot(text string) (Slot, error) {
	body := text
	inverted := strings.HasSuffix(body, "I")
	if inverted {
		body = strings.TrimSuffix(body, "I")
	}
	label, err := ParseBoardLabel(body)
	if err != nil {
		return Slot{}, err
	}
	pin, ok := label.Pin()
	if !ok {
		return Slot{}, formatErrorf(text, "not an attack-board level")
	}
	return Slot{Pin: pin, Inverted: inverted}, nil
}

// SlotAt finds the unique slot whose patch covers c. Slots on a shared level
// never overlap, so at most one matches.
func SlotAt(c Coord) (Slot, int, bool) {
	if c.Level%2 == 0 {
		return Slot{}, 0, false
	}
	side := QueenSide
	switch c.File {
	case 0, 1:
	case 4, 5:
		side = KingSide
	default:
		return Slot{}, 0, false
	}
	for i := 1; i <= PinCount; i++ {
		for _, inv := range []bool{false, true} {
			s := Slot{Pin: Pin{Side: side, Index: i}, Inverted: inv}
			if df, dr, ok := s.Contains(c); ok {
				return s, dr*2 + df, true
			}
		}
	}
	return Slot{}, 0, false
}

// BoardLabel indexes the 15 board labels: the three main boards followed by
// the queen-side and king-side pin levels.
type BoardLabel uint8

const (
	LabelW BoardLabel = iota
	LabelN
	LabelB
	LabelQL1
	LabelQL2
	LabelQL3
	LabelQL4
	LabelQL5
	LabelQL6
	LabelKL1
	LabelKL2
	LabelKL3
	LabelKL4
	LabelKL5
	LabelKL6
)

// LabelCount is the number of distinct board labels.
const LabelCount = 15

var boardLabelNames = [LabelCount]string{
	"W", "N", "B",
	"QL1", "QL2", "QL3", "QL4", "QL5", "QL6",
	"KL1", "KL2", "KL3", "KL4", "KL5", "KL6",
}

func (b BoardLabel) String() string {
	if int(b) >= LabelCount {
		return fmt.Sprintf("board(%d)", b)
	}
	return boardLabelNames[b]
}

// IsMain reports whether the label names a main board.
func (b BoardLabel) IsMain() bool { return b <= LabelB }

// MainLevel returns the level of a main-board label.
func (b BoardLabel) MainLevel() (int, bool) {
	if !b.IsMain() {
		return 0, false
	}
	return int(b) * 2, true
}

// Pin returns the pin named by an attack-board label.
func (b BoardLabel) Pin() (Pin, bool) {
	switch {
	case b >= LabelQL1 && b <= LabelQL6:
		return Pin{Side: QueenSide, Index: int(b-LabelQL1) + 1}, true
	case b >= LabelKL1 && b <= LabelKL6:
		return Pin{Side: KingSide, Index: int(b-LabelKL1) + 1}, true
	}
	return Pin{}, false
}

// MainLabel returns the label of the main board on level.
func MainLabel(level int) (BoardLabel, error) {
	idx, ok := MainLevelIndex(level)
	if !ok {
		return 0, rangeErrorf("main level", "%d", level)
	}
	return BoardLabel(idx), nil
}

// ParseBoardLabel converts label text into a BoardLabel.
func ParseBoardLabel(text string) (BoardLabel, error) {
	for i, name := range boardLabelNames {
		if name == text {
			return BoardLabel(i), nil
		}
	}
	return 0, formatErrorf(text, "unknown board label")
}

// BoardToIndex returns the index of a board label.
func BoardToIndex(text string) (int, error) {
	label, err := ParseBoardLabel(text)
	if err != nil {
		return 0, err
	}
	return int(label), nil
}

// IndexToBoard returns the label text for a board index.
func IndexToBoard(index int) (string, error) {
	if index < 0 || index >= LabelCount {
		return "", rangeErrorf("board index", "%d", index)
	}
	return boardLabelNames[index], nil
}
