// Package pgnfile reads game records from disk. Files that are not valid
// UTF-8 are decoded from a legacy 8-bit code page.
package pgnfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Charset selects how file bytes become text.
type Charset uint8

const (
	// Auto keeps valid UTF-8 and decodes anything else as Windows-1252.
	Auto Charset = iota
	UTF8
	Latin1
	Windows1252
)

func (c Charset) String() string {
	switch c {
	case UTF8:
		return "utf-8"
	case Latin1:
		return "latin1"
	case Windows1252:
		return "windows-1252"
	}
	return "auto"
}

func ParseCharset(s string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "utf-8", "utf8":
		return UTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return Latin1, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	}
	return Auto, fmt.Errorf("unknown charset %q", s)
}

func (c Charset) encoding() encoding.Encoding {
	if c == Latin1 {
		return charmap.ISO8859_1
	}
	return charmap.Windows1252
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw file bytes into text and normalises line endings.
func Decode(data []byte, cs Charset) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	var text string
	switch {
	case cs == UTF8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		text = string(data)
	case cs == Auto && utf8.Valid(data):
		text = string(data)
	default:
		r := transform.NewReader(bytes.NewReader(data), cs.encoding().NewDecoder())
		decoded, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		text = string(decoded)
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

// ReadFile reads and decodes the file at path.
func ReadFile(path string, cs Charset) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := Decode(data, cs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// SplitGames cuts a multi-game PGN text into one text per game. A tag line
// that follows movetext opens the next game.
func SplitGames(text string) []string {
	var (
		games    []string
		cur      strings.Builder
		seenMove bool
	)
	flush := func() {
		if g := strings.TrimSpace(cur.String()); g != "" {
			games = append(games, g+"\n")
		}
		cur.Reset()
		seenMove = false
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		isTag := strings.HasPrefix(trimmed, "[")
		if isTag && seenMove {
			flush()
		}
		if trimmed != "" && !isTag {
			seenMove = true
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	flush()
	return games
}

// ReadGames reads the PGN file at path and splits it into games.
func ReadGames(path string, cs Charset) ([]string, error) {
	text, err := ReadFile(path, cs)
	if err != nil {
		return nil, err
	}
	return SplitGames(text), nil
}

// ReadFENs returns the non-empty, non-comment lines of a FEN list file.
func ReadFENs(path string, cs Charset) ([]string, error) {
	text, err := ReadFile(path, cs)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// Collect lists the files under root whose extension is one of exts,
// compared case-insensitively, in sorted order.
func Collect(root string, exts ...string) ([]string, error) {
	var files []string
	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		for _, want := range exts {
			if strings.EqualFold(ext, want) {
				files = append(files, path)
				break
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
