package analysis

import (
	"strings"
	"unicode"

	"github.com/shinyvision/hsp3ls/internal/parse"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/utils"
)

// TextEdit replaces Range of a document with NewText.
type TextEdit struct {
	Doc     source.DocID
	Range   source.Range
	NewText string
}

// renameTargets returns the symbol at pos when it can be renamed.
func (w *Workspace) renameTargets(doc source.DocID, pos source.Pos) (*Symbol, source.Loc, []source.Loc, bool) {
	sym, loc, ok := w.Locate(doc, pos)
	if !ok {
		return nil, source.Loc{}, nil, false
	}
	switch sym.Kind {
	case KindUnresolved, KindUnknown:
		return nil, source.Loc{}, nil, false
	}
	if len(sym.Defs) == 0 {
		return nil, source.Loc{}, nil, false
	}

	locs := References(sym, true)
	for _, l := range locs {
		if w.IsCommon(l.Doc) {
			return nil, source.Loc{}, nil, false
		}
	}
	return sym, loc, locs, true
}

// baseRange narrows an occurrence to the name without its @ qualifier.
func baseRange(loc source.Loc, name string) source.Range {
	r := loc.Range
	end := r.Start.Advance(name)
	if end.Index < r.End.Index {
		r.End = end
	}
	return r
}

// PrepareRename returns the range that a rename at pos would replace.
func (w *Workspace) PrepareRename(doc source.DocID, pos source.Pos) (source.Loc, bool) {
	sym, loc, _, ok := w.renameTargets(doc, pos)
	if !ok {
		return source.Loc{}, false
	}
	return source.Loc{Doc: loc.Doc, Range: baseRange(loc, sym.Name)}, true
}

// Rename returns the edits that rename the symbol at pos. It refuses when
// any occurrence lies under common/.
func (w *Workspace) Rename(doc source.DocID, pos source.Pos, newName string) ([]TextEdit, bool) {
	sym, _, locs, ok := w.renameTargets(doc, pos)
	if !ok {
		return nil, false
	}
	edits := make([]TextEdit, 0, len(locs))
	for _, l := range locs {
		edits = append(edits, TextEdit{Doc: l.Doc, Range: baseRange(l, sym.Name), NewText: newName})
	}
	return edits, true
}

// HasIncludeGuard reports whether the document starts with
// `#ifndef X` followed by `#define X`.
func (w *Workspace) HasIncludeGuard(doc source.DocID) bool {
	a, ok := w.Doc(doc)
	if !ok || a.Root == nil || len(a.Root.Stmts) < 2 {
		return false
	}
	ifndef, ok := a.Root.Stmts[0].(*parse.UnknownPreprocStmt)
	if !ok || len(ifndef.Tokens) < 2 || ifndef.Tokens[0].Text() != "ifndef" {
		return false
	}
	define, ok := a.Root.Stmts[1].(*parse.DefineStmt)
	return ok && define.Name != nil && define.Name.Text() == ifndef.Tokens[1].Text()
}

func guardName(path string) string {
	stem := utils.BaseStem(path)
	if stem == "" {
		stem = "file"
	}
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, stem) + "_included"
}

// CodeAction is a titled set of edits.
type CodeAction struct {
	Title string
	Edits []TextEdit
}

// CodeActions offers to wrap the document in an include guard when the
// cursor is at its very start and it has none.
func (w *Workspace) CodeActions(doc source.DocID, r source.Range) []CodeAction {
	a, ok := w.Doc(doc)
	if !ok || a.Lang != source.LangHSP3 || r.Start.Index != 0 || w.HasIncludeGuard(doc) {
		return nil
	}

	name := guardName(a.Path)
	end := source.PosAt(a.Text, len(a.Text))
	tail := "\n#endif\n"
	if a.Text != "" && !strings.HasSuffix(a.Text, "\n") {
		tail = "\n" + tail
	}
	return []CodeAction{{
		Title: "Add include guard",
		Edits: []TextEdit{
			{Doc: doc, NewText: "#ifndef " + name + "\n#define " + name + "\n\n"},
			{Doc: doc, Range: source.Range{Start: end, End: end}, NewText: tail},
		},
	}}
}
