package analysis

import (
	"strings"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

// Format returns deletions of the indentation in front of every directive.
func (w *Workspace) Format(doc source.DocID) []TextEdit {
	a, ok := w.Doc(doc)
	if !ok || a.Tokens == nil {
		return nil
	}

	var edits []TextEdit
	for i, t := range a.Tokens {
		if t.Kind() != token.Hash {
			continue
		}
		if start, ok := indentStart(t, i == 0); ok && start.Index < t.Start().Index {
			edits = append(edits, TextEdit{
				Doc:   doc,
				Range: source.Range{Start: start, End: t.Start()},
			})
		}
	}
	return edits
}

// indentStart finds where the indentation before t begins. It fails when t
// does not start a line.
func indentStart(t *token.PToken, first bool) (source.Pos, bool) {
	start := t.Start()
	for i := len(t.Leading) - 1; i >= 0; i-- {
		trivia := t.Leading[i]
		switch trivia.Kind {
		case token.Blank:
			start = trivia.Loc.Range.Start
		case token.Newlines:
			nl := strings.LastIndexByte(trivia.Text, '\n')
			return trivia.Loc.Range.Start.Advance(trivia.Text[:nl+1]), true
		default:
			return source.Pos{}, false
		}
	}
	return start, first
}
