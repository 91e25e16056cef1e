package game

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Tags that every exported game carries, in output order.
var sevenTagRoster = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// Optional tags written after the roster when set.
var optionalTags = []string{"Annotator", "PlyCount", "TimeControl", "Time", "Termination", "Mode", "SetUp", "FEN", "Variant", "Options"}

const pgnLineWidth = 80

// Tags holds PGN tag pairs.
type Tags struct {
	values map[string]string
}

// NewTags returns the seven-tag roster with unknown values.
func NewTags() Tags {
	return Tags{values: map[string]string{
		"Event":  "?",
		"Site":   "?",
		"Date":   "????.??.??",
		"Round":  "?",
		"White":  "?",
		"Black":  "?",
		"Result": "*",
	}}
}

func (t *Tags) Get(name string) (string, bool) {
	v, ok := t.values[name]
	return v, ok
}

func (t *Tags) Set(name, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	t.values[name] = value
}

func (t *Tags) Delete(name string) { delete(t.values, name) }

// Names returns the set tag names: roster, optional tags, then any others
// alphabetically.
func (t *Tags) Names() []string {
	known := make(map[string]bool)
	var out []string
	for _, group := range [][]string{sevenTagRoster, optionalTags} {
		for _, name := range group {
			known[name] = true
			if _, ok := t.values[name]; ok {
				out = append(out, name)
			}
		}
	}
	var extra []string
	for name := range t.values {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (t Tags) clone() Tags {
	c := Tags{values: make(map[string]string, len(t.values))}
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

// PGN exports the game record with its tags.
func (e *Engine) PGN() string {
	tags := e.tags.clone()
	tags.Set("Result", e.state.Result())
	tags.Set("PlyCount", strconv.Itoa(e.applied()))
	if e.startFEN != StandardFEN {
		tags.Set("SetUp", "1")
		tags.Set("FEN", e.startFEN)
	} else {
		tags.Delete("SetUp")
		tags.Delete("FEN")
	}
	if e.state.Terminal() {
		tags.Set("Termination", termination(e.state))
	}

	var b strings.Builder
	for _, name := range tags.Names() {
		v, _ := tags.Get(name)
		fmt.Fprintf(&b, "[%s \"%s\"]\n", name, escapeTag(v))
	}
	b.WriteByte('\n')

	fields := strings.Fields(e.startFEN)
	number, _ := strconv.Atoi(fields[6])
	blackFirst := fields[2] == "b"
	var tokens []string
	for i, m := range e.Moves() {
		whiteMove := (i%2 == 0) != blackFirst
		switch {
		case whiteMove:
			tokens = append(tokens, strconv.Itoa(number)+".")
		case i == 0:
			tokens = append(tokens, strconv.Itoa(number)+"...")
		}
		tokens = append(tokens, m.Notation())
		if !whiteMove {
			number++
		}
	}
	tokens = append(tokens, e.state.Result())

	line := 0
	for i, tok := range tokens {
		if i > 0 {
			if line+1+len(tok) > pgnLineWidth {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(tok)
		line += len(tok)
	}
	b.WriteByte('\n')
	return b.String()
}

func termination(s GameState) string {
	switch s {
	case WhiteTimeout, BlackTimeout, DrawTimeoutVsInsufficientMaterial:
		return "time forfeit"
	case WhiteResignation, BlackResignation:
		return "resignation"
	case DrawAgreement:
		return "agreement"
	}
	return "normal"
}

func escapeTag(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

var (
	tagLineRe    = regexp.MustCompile(`^\[([A-Za-z0-9_]+)\s+"((?:[^"\\]|\\.)*)"\]$`)
	moveNumberRe = regexp.MustCompile(`^\d+\.+`)
	resultTokens = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "*": true}
)

// ParsePGN replays a single game.
func ParsePGN(text string) (*Engine, error) {
	tags, movetext, err := splitPGN(text)
	if err != nil {
		return nil, err
	}
	var e *Engine
	if fen, ok := tags.Get("FEN"); ok {
		if e, err = NewEngineFromFEN(fen); err != nil {
			return nil, err
		}
	} else {
		e = NewEngine()
	}
	for name, v := range tags.values {
		e.tags.Set(name, v)
	}
	for _, tok := range tokenizeMovetext(movetext) {
		if resultTokens[tok] {
			break
		}
		if err := e.PlayNotation(tok); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", e.applied()+1, tok, err)
		}
	}
	if res, ok := tags.Get("Result"); ok && !e.state.Terminal() {
		term, _ := tags.Get("Termination")
		e.applyResult(res, term)
	}
	return e, nil
}

// LoadPGN replaces the game with the one in text. On error the current game
// is left untouched.
func (e *Engine) LoadPGN(text string) error {
	next, err := ParsePGN(text)
	if err != nil {
		return err
	}
	*e = *next
	return nil
}

// PlayNotation plays the legal move whose notation matches text. Check
// marks and annotation glyphs are ignored.
func (e *Engine) PlayNotation(text string) error {
	if err := e.ready(); err != nil {
		return err
	}
	want := stripMoveSuffix(text)
	for _, m := range e.pos.LegalMoves(e.active) {
		for _, c := range expandPromotions(e.pos, m) {
			if stripMoveSuffix(c.Notation()) == want {
				return e.play(c)
			}
		}
	}
	return &IllegalMoveError{Move: text, Reason: "no legal move has this notation"}
}

// applyResult ends a game whose record stops before a natural finish.
func (e *Engine) applyResult(result, term string) {
	timeout := strings.Contains(strings.ToLower(term), "time")
	switch result {
	case "1-0":
		if timeout {
			_ = e.ReportTimeout(Black)
		} else {
			_ = e.Resign(Black)
		}
	case "0-1":
		if timeout {
			_ = e.ReportTimeout(White)
		} else {
			_ = e.Resign(White)
		}
	case "1/2-1/2":
		if timeout && insufficientMaterial(e.pos, e.active.Opposite()) {
			_ = e.ReportTimeout(e.active)
			return
		}
		e.Start()
		e.state = DrawAgreement
		e.lastNote = "Draw agreed"
	}
}

func stripMoveSuffix(s string) string {
	return strings.TrimRight(s, "+#!?")
}

// splitPGN separates the tag section from the movetext.
func splitPGN(text string) (Tags, string, error) {
	tags := Tags{values: make(map[string]string)}
	var movetext strings.Builder
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	inMoves := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !inMoves && strings.HasPrefix(line, "[") {
			m := tagLineRe.FindStringSubmatch(line)
			if m == nil {
				return Tags{}, "", &FormatError{Input: line, Reason: "malformed tag pair"}
			}
			tags.Set(m[1], unescapeTag(m[2]))
			continue
		}
		if line == "" && !inMoves {
			continue
		}
		inMoves = true
		movetext.WriteString(line)
		movetext.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Tags{}, "", err
	}
	for _, name := range sevenTagRoster {
		if _, ok := tags.Get(name); !ok {
			return Tags{}, "", &FormatError{Input: name, Reason: "missing required tag"}
		}
	}
	return tags, movetext.String(), nil
}

func unescapeTag(v string) string {
	v = strings.ReplaceAll(v, `\"`, `"`)
	return strings.ReplaceAll(v, `\\`, `\`)
}

// tokenizeMovetext drops comments, variations, NAGs and move numbers, and
// joins an en-passant suffix written apart from its move.
func tokenizeMovetext(text string) []string {
	var clean strings.Builder
	comment, variation := false, 0
	last := byte(' ')
	for _, line := range strings.Split(text, "\n") {
		for i := 0; i < len(line); i++ {
			ch := line[i]
			if comment {
				if ch == '}' {
					comment = false
				}
				continue
			}
			if ch == '{' {
				comment = true
				continue
			}
			if ch == ';' {
				break
			}
			// A parenthesis inside a token is a secondary promotion, as
			// in P/QL4-QL6(R).
			switch {
			case ch == '(' && (variation > 0 || last == ' ' || last == '\t'):
				variation++
				continue
			case ch == ')' && variation > 0:
				variation--
				continue
			case variation > 0:
				continue
			}
			clean.WriteByte(ch)
			last = ch
		}
		clean.WriteByte(' ')
		last = ' '
	}
	var out []string
	for _, tok := range strings.Fields(clean.String()) {
		if strings.HasPrefix(tok, "$") {
			continue
		}
		tok = moveNumberRe.ReplaceAllString(tok, "")
		if tok == "" {
			continue
		}
		if tok == "e.p." && len(out) > 0 {
			out[len(out)-1] += tok
			continue
		}
		out = append(out, tok)
	}
	return out
}
