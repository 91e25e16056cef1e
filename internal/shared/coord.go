// Package shared holds the coordinate system and textual square/board
// annotation of the three-level board. Everything here is pure.
package shared

import "fmt"

// Fixed bounds of the coordinate box.
const (
	MinFile  = 0
	MaxFile  = 5
	MinRank  = 0
	MaxRank  = 9
	MinLevel = -1
	MaxLevel = 5
)

// Levels of the three main boards.
const (
	WhiteLevel   = 0
	NeutralLevel = 2
	BlackLevel   = 4
)

const fileLetters = "zabcde"

// Coord identifies a square position by file, level and rank.
type Coord struct {
	File  int `json:"file"`
	Level int `json:"level"`
	Rank  int `json:"rank"`
}

// C is shorthand for building a Coord in file, level, rank order.
func C(file, level, rank int) Coord { return Coord{File: file, Level: level, Rank: rank} }

// IsWithinBounds reports whether c lies inside the coordinate box. It says
// nothing about whether a square currently exists there.
func IsWithinBounds(c Coord) bool {
	return c.File >= MinFile && c.File <= MaxFile &&
		c.Rank >= MinRank && c.Rank <= MaxRank &&
		c.Level >= MinLevel && c.Level <= MaxLevel
}

// Column returns the vertical projection of c.
func (c Coord) Column() Column { return Column{File: c.File, Rank: c.Rank} }

func (c Coord) String() string {
	if s, err := SquareToAnnotation(c); err == nil {
		return s
	}
	return fmt.Sprintf("(%d,%d,%d)", c.File, c.Level, c.Rank)
}

// Column is a (file, rank) pair; every square of every level shares the
// column of its projection.
type Column struct {
	File int
	Rank int
}

// Step returns the column reached by moving d from col.
func (col Column) Step(d Delta) Column {
	return Column{File: col.File + d.DF, Rank: col.Rank + d.DR}
}

// InBounds reports whether the column lies inside the file/rank box.
func (col Column) InBounds() bool {
	return col.File >= MinFile && col.File <= MaxFile && col.Rank >= MinRank && col.Rank <= MaxRank
}

// LightSquare reports the colour parity used for bishop colour binding.
func (col Column) LightSquare() bool { return (col.File+col.Rank)%2 == 1 }

// FileLetter returns the letter for a file index.
func FileLetter(file int) (byte, error) {
	if file < MinFile || file > MaxFile {
		return 0, rangeErrorf("file", "%d", file)
	}
	return fileLetters[file], nil
}

// ParseFile converts a file letter into its index.
func ParseFile(b byte) (int, error) {
	for i := 0; i < len(fileLetters); i++ {
		if fileLetters[i] == b {
			return i, nil
		}
	}
	return 0, formatErrorf(string(b), "unknown file letter")
}

// MainLevelIndex maps a main-board level to 0 (White), 1 (Neutral), 2 (Black).
func MainLevelIndex(level int) (int, bool) {
	switch level {
	case WhiteLevel:
		return 0, true
	case NeutralLevel:
		return 1, true
	case BlackLevel:
		return 2, true
	}
	return 0, false
}

// MainRankRange returns the inclusive rank span of the main board on level.
func MainRankRange(level int) (lo, hi int) { return level + 1, level + 4 }

// IsMainSquare reports whether c names a square of a main board.
func IsMainSquare(c Coord) bool {
	if _, ok := MainLevelIndex(c.Level); !ok {
		return false
	}
	lo, hi := MainRankRange(c.Level)
	return c.File >= 1 && c.File <= 4 && c.Rank >= lo && c.Rank <= hi
}

// IsSquareCoord reports whether some square of the variant can ever sit at c:
// either a main-board square or a square of an attack board on some slot.
func IsSquareCoord(c Coord) bool {
	if IsMainSquare(c) {
		return true
	}
	_, _, ok := SlotAt(c)
	return ok
}
