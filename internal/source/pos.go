package source

import (
	"fmt"
	"strings"
)

// DocID identifies an interned document. Zero is never assigned.
type DocID int

// Pos is a position in a document. Columns are UTF-8 byte offsets.
type Pos struct {
	Index uint32
	Row   uint32
	Col   uint32
}

// Advance returns the position right after text, which starts at p.
func (p Pos) Advance(text string) Pos {
	p.Index += uint32(len(text))
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		p.Row += uint32(strings.Count(text, "\n"))
		p.Col = uint32(len(text) - i - 1)
	} else {
		p.Col += uint32(len(text))
	}
	return p
}

func (p Pos) Less(q Pos) bool { return p.Index < q.Index }

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Row+1, p.Col+1) }

// Range is a half-open span [Start, End).
type Range struct {
	Start Pos
	End   Pos
}

func (r Range) IsEmpty() bool { return r.Start.Index >= r.End.Index }

// Contains reports whether p is in [Start, End).
func (r Range) Contains(p Pos) bool {
	return r.Start.Index <= p.Index && p.Index < r.End.Index
}

// Touches reports whether p is in [Start, End].
func (r Range) Touches(p Pos) bool {
	return r.Start.Index <= p.Index && p.Index <= r.End.Index
}

// Join returns the smallest range covering both.
func (r Range) Join(other Range) Range {
	if other.Start.Less(r.Start) {
		r.Start = other.Start
	}
	if r.End.Less(other.End) {
		r.End = other.End
	}
	return r
}

// Loc is a range inside a specific document.
type Loc struct {
	Doc   DocID
	Range Range
}

func (l Loc) Start() Pos { return l.Range.Start }
func (l Loc) End() Pos   { return l.Range.End }

// Less orders locations by document, then start, then end.
func (l Loc) Less(m Loc) bool {
	if l.Doc != m.Doc {
		return l.Doc < m.Doc
	}
	if l.Range.Start.Index != m.Range.Start.Index {
		return l.Range.Start.Index < m.Range.Start.Index
	}
	return l.Range.End.Index < m.Range.End.Index
}

// Compare is Less as a three-way comparison, for slices.SortFunc.
func (l Loc) Compare(m Loc) int {
	switch {
	case l.Less(m):
		return -1
	case m.Less(l):
		return 1
	}
	return 0
}

func (l Loc) String() string {
	return fmt.Sprintf("doc%d:%s-%s", l.Doc, l.Range.Start, l.Range.End)
}

// PosAt converts a byte offset into a position by scanning text.
func PosAt(text string, index int) Pos {
	if index > len(text) {
		index = len(text)
	}
	if index < 0 {
		index = 0
	}
	return Pos{}.Advance(text[:index])
}
