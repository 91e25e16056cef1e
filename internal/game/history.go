package game

// History is the command list with a cursor. Commands before the cursor
// have been executed; those at or after it can be redone until a new
// command truncates them.
type History struct {
	commands []Move
	cursor   int
}

// Len returns the number of recorded commands, including undone ones.
func (h *History) Len() int { return len(h.commands) }

// Cursor returns how many commands are currently applied.
func (h *History) Cursor() int { return h.cursor }

// Applied returns the executed commands in order.
func (h *History) Applied() []Move { return h.commands[:h.cursor] }

// Last returns the most recently applied command, or nil.
func (h *History) Last() Move {
	if h.cursor == 0 {
		return nil
	}
	return h.commands[h.cursor-1]
}

// AddCommand drops every command at or after the cursor, appends m and
// executes it. A suspension error leaves m applied and recorded.
func (h *History) AddCommand(p *Position, m Move) error {
	h.commands = append(h.commands[:h.cursor], m)
	h.cursor++
	return m.Execute(p)
}

func (h *History) Undo(p *Position) (Move, error) {
	if h.cursor == 0 {
		return nil, ErrNothingToUndo
	}
	h.cursor--
	m := h.commands[h.cursor]
	m.Undo(p)
	return m, nil
}

func (h *History) Redo(p *Position) (Move, error) {
	if h.cursor == len(h.commands) {
		return nil, ErrNothingToRedo
	}
	m := h.commands[h.cursor]
	h.cursor++
	return m, m.Redo(p)
}

// UndoAndRemove undoes the last applied command and forgets it along with
// anything that could have been redone.
func (h *History) UndoAndRemove(p *Position) (Move, error) {
	m, err := h.Undo(p)
	if err != nil {
		return nil, err
	}
	h.commands = h.commands[:h.cursor]
	return m, nil
}

// Reset forgets every command without touching the position.
func (h *History) Reset() {
	h.commands = nil
	h.cursor = 0
}
