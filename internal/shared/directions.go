package shared

// Delta is a step on the (file, rank) projection.
type Delta struct {
	DF int
	DR int
}

var (
	RookDirections = [...]Delta{
		{DF: 0, DR: 1},
		{DF: 0, DR: -1},
		{DF: 1, DR: 0},
		{DF: -1, DR: 0},
	}
	BishopDirections = [...]Delta{
		{DF: 1, DR: 1},
		{DF: -1, DR: 1},
		{DF: 1, DR: -1},
		{DF: -1, DR: -1},
	}
	KnightOffsets = [...]Delta{
		{DF: 1, DR: 2},
		{DF: 2, DR: 1},
		{DF: 2, DR: -1},
		{DF: 1, DR: -2},
		{DF: -1, DR: -2},
		{DF: -2, DR: -1},
		{DF: -2, DR: 1},
		{DF: -1, DR: 2},
	}
	// QueenDirections doubles as the king's adjacency table.
	QueenDirections = [...]Delta{
		{DF: 0, DR: 1}, {DF: 1, DR: 1}, {DF: 1, DR: 0}, {DF: 1, DR: -1},
		{DF: 0, DR: -1}, {DF: -1, DR: -1}, {DF: -1, DR: 0}, {DF: -1, DR: 1},
	}
)

// IsDiagonal reports whether d moves along both axes.
func (d Delta) IsDiagonal() bool { return d.DF != 0 && d.DR != 0 }
