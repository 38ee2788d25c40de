package source

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16Col returns the UTF-16 column of p within text.
func UTF16Col(text string, p Pos) uint32 {
	start := int(p.Index - p.Col)
	end := int(p.Index)
	if start < 0 || end > len(text) || start > end {
		return p.Col
	}
	n := uint32(0)
	for _, r := range text[start:end] {
		n += uint32(utf16.RuneLen(r))
	}
	return n
}

// FromUTF16 converts an editor position (row, UTF-16 column) into a Pos.
// Rows past the end clamp to the end of text; columns past the end of the
// line clamp to the line end.
func FromUTF16(text string, row, col16 uint32) Pos {
	p := Pos{}
	i := 0
	for p.Row < row {
		j := indexByteFrom(text, i, '\n')
		if j < 0 {
			return PosAt(text, len(text))
		}
		i = j + 1
		p.Row++
	}
	p.Index = uint32(i)

	n := uint32(0)
	for i < len(text) && n < col16 {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' || r == '\r' {
			break
		}
		n += uint32(utf16.RuneLen(r))
		i += size
	}
	p.Col = uint32(i) - p.Index
	p.Index = uint32(i)
	return p
}

func indexByteFrom(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
