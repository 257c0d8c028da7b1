// Package position provides line/column and byte-offset math over template
// source text. Places are zero-based, matching the editor protocol; the
// yaml parser reports one-based coordinates and is converted at the boundary.
package position

import (
	"fmt"
	"strings"
)

// Place is a zero-based line/character position in a document.
type Place struct {
	Line      int
	Character int
}

// Range is a [Start, End] span in a document. Containment treats End
// inclusively; see Contains.
type Range struct {
	Start Place
	End   Place
}

func NewPlace(line, character int) Place {
	return Place{Line: line, Character: character}
}

// FromParser converts the parser's one-based line/column pair.
func FromParser(line, column int) Place {
	return Place{Line: line - 1, Character: column - 1}
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Before reports whether p sorts strictly before other.
func (p Place) Before(other Place) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// AtOrBefore reports whether p sorts at or before other.
func (p Place) AtOrBefore(other Place) bool {
	return p == other || p.Before(other)
}

func NewRange(start, end Place) Range {
	return Range{Start: start, End: end}
}

// PointRange returns a zero-width range anchored at p.
func PointRange(p Place) Range {
	return Range{Start: p, End: p}
}

// Contains reports whether the place falls inside the range. The end is
// treated inclusively so a cursor sitting just past the last character of a
// token still resolves to that token, which is what editors expect while the
// user is typing at the end of a word.
func (r Range) Contains(p Place) bool {
	return r.Start.AtOrBefore(p) && p.AtOrBefore(r.End)
}

// ContainsLine reports whether the line number falls inside the range's
// vertical extent, ignoring columns.
func (r Range) ContainsLine(line int) bool {
	return line >= r.Start.Line && line <= r.End.Line
}

// Union returns the smallest range covering both r and other.
func (r Range) Union(other Range) Range {
	out := r
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if out.End.Before(other.End) {
		out.End = other.End
	}
	return out
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// OffsetOf converts a place to a byte offset into text. Places past the end
// of a line clamp to the line's length; places past the last line clamp to
// the end of the text.
func OffsetOf(text string, p Place) int {
	offset := 0
	line := 0
	for line < p.Line {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
		line++
	}
	remaining := len(text) - offset
	if eol := strings.IndexByte(text[offset:], '\n'); eol >= 0 {
		remaining = eol
	}
	if p.Character > remaining {
		return offset + remaining
	}
	return offset + p.Character
}

// PlaceAt converts a byte offset into a zero-based place.
func PlaceAt(text string, offset int) Place {
	if offset > len(text) {
		offset = len(text)
	}
	line := 0
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return Place{Line: line, Character: offset - lastNewline - 1}
}

// LineText returns the text of the given zero-based line without its
// trailing newline, or "" when the line does not exist.
func LineText(text string, line int) string {
	for i, candidate := range strings.Split(text, "\n") {
		if i == line {
			return candidate
		}
	}
	return ""
}
