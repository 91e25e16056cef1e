package shared

import (
	"regexp"
	"strconv"
)

var annotationRe = regexp.MustCompile(`^([zabcde])([0-9])(W|N|B|[QK]L[1-6])(I?)$`)

// SquareToAnnotation renders c as {file}{rank}{board}, e.g. "b2W" or
// "z0QL1". Squares of an inverted attack board carry a trailing "I".
func SquareToAnnotation(c Coord) (string, error) {
	if !IsWithinBounds(c) {
		return "", rangeErrorf("coordinate", "file=%d level=%d rank=%d", c.File, c.Level, c.Rank)
	}
	var label string
	if IsMainSquare(c) {
		l, err := MainLabel(c.Level)
		if err != nil {
			return "", err
		}
		label = l.String()
	} else if slot, _, ok := SlotAt(c); ok {
		label = slot.String()
	} else {
		return "", rangeErrorf("square", "no square at file=%d level=%d rank=%d", c.File, c.Level, c.Rank)
	}
	return string(fileLetters[c.File]) + strconv.Itoa(c.Rank) + label, nil
}

// AnnotationToSquare parses the output of SquareToAnnotation.
func AnnotationToSquare(text string) (Coord, error) {
	m := annotationRe.FindStringSubmatch(text)
	if m == nil {
		return Coord{}, formatErrorf(text, "expected {file}{rank}{board}")
	}
	file, err := ParseFile(m[1][0])
	if err != nil {
		return Coord{}, err
	}
	rank := int(m[2][0] - '0')
	label, err := ParseBoardLabel(m[3])
	if err != nil {
		return Coord{}, err
	}
	if level, ok := label.MainLevel(); ok {
		if m[4] != "" {
			return Coord{}, formatErrorf(text, "main boards cannot be inverted")
		}
		c := Coord{File: file, Level: level, Rank: rank}
		if !IsMainSquare(c) {
			return Coord{}, rangeErrorf("square", "%s is not on board %s", text, label)
		}
		return c, nil
	}
	pin, _ := label.Pin()
	slot := Slot{Pin: pin, Inverted: m[4] == "I"}
	o := slot.Origin()
	c := Coord{File: file, Level: o.Level, Rank: rank}
	if _, _, ok := slot.Contains(c); !ok {
		return Coord{}, rangeErrorf("square", "%s is not on board %s", text, slot)
	}
	return c, nil
}
