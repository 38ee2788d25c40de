package analysis

import (
	"slices"
	"sort"
	"strings"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

// Locate finds the innermost name touching pos and its symbol.
func (w *Workspace) Locate(doc source.DocID, pos source.Pos) (*Symbol, source.Loc, bool) {
	a, ok := w.Doc(doc)
	if !ok || a.Phase < PhaseSymbols {
		return nil, source.Loc{}, false
	}

	var best *Occurrence
	for i := range a.Occurrences {
		o := &a.Occurrences[i]
		if pos.Index < o.Loc.Start().Index {
			break
		}
		if !o.Loc.Range.Touches(pos) {
			continue
		}
		if best == nil || o.Loc.End().Index-o.Loc.Start().Index < best.Loc.End().Index-best.Loc.Start().Index {
			best = o
		}
	}
	if best == nil {
		return nil, source.Loc{}, false
	}
	return best.Symbol, best.Loc, true
}

func sortedUnique(locs []source.Loc) []source.Loc {
	locs = slices.Clone(locs)
	slices.SortFunc(locs, source.Loc.Compare)
	return slices.Compact(locs)
}

// References returns the uses of a symbol, with its definitions when
// includeDef is set.
func References(sym *Symbol, includeDef bool) []source.Loc {
	var locs []source.Loc
	if includeDef {
		locs = append(locs, sym.Defs...)
	}
	return sortedUnique(append(locs, sym.Uses...))
}

// Highlight is an occurrence of the symbol under the cursor.
type Highlight struct {
	Loc   source.Loc
	Write bool
}

// Highlights returns the occurrences in doc of the symbol at pos.
func (w *Workspace) Highlights(doc source.DocID, pos source.Pos) []Highlight {
	sym, _, ok := w.Locate(doc, pos)
	if !ok {
		return nil
	}
	a := w.docs[doc]
	var out []Highlight
	for _, o := range a.Occurrences {
		if o.Symbol == sym {
			out = append(out, Highlight{Loc: o.Loc, Write: o.Def})
		}
	}
	return out
}

// SymbolLoc is a symbol with the location that represents it.
type SymbolLoc struct {
	Symbol *Symbol
	Loc    source.Loc
}

func symbolLoc(sym *Symbol) (source.Loc, bool) {
	switch {
	case len(sym.Defs) > 0:
		return sym.Defs[0], true
	case len(sym.Uses) > 0:
		return sym.Uses[0], true
	}
	return source.Loc{}, false
}

// DocSymbols lists the symbols defined by doc in order of appearance.
func (w *Workspace) DocSymbols(doc source.DocID) []SymbolLoc {
	a, ok := w.Doc(doc)
	if !ok {
		return nil
	}
	var out []SymbolLoc
	for _, sym := range a.Symbols {
		if sym.Kind == KindUnresolved {
			continue
		}
		if loc, ok := symbolLoc(sym); ok && loc.Doc == doc {
			out = append(out, SymbolLoc{Symbol: sym, Loc: loc})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Loc.Less(out[j].Loc) })
	return out
}

// WorkspaceSymbols finds public symbols whose name contains query,
// ignoring case.
func (w *Workspace) WorkspaceSymbols(query string) []SymbolLoc {
	query = strings.ToLower(query)
	var out []SymbolLoc
	for _, id := range w.ActiveDocs() {
		for _, sym := range w.docs[id].Symbols {
			switch sym.Kind {
			case KindParam, KindField, KindModule, KindUnknown, KindUnresolved:
				continue
			}
			if !sym.IsPublic() || !strings.Contains(strings.ToLower(sym.Name), query) {
				continue
			}
			if loc, ok := symbolLoc(sym); ok {
				out = append(out, SymbolLoc{Symbol: sym, Loc: loc})
			}
		}
	}
	return out
}

// IncludeTarget returns the document an #include at pos refers to.
func (w *Workspace) IncludeTarget(doc source.DocID, pos source.Pos) (source.DocID, bool) {
	for _, edge := range w.Includes(doc) {
		if edge.Resolved && edge.Loc.Range.Touches(pos) {
			return edge.Target, true
		}
	}
	return 0, false
}

// ScopeAt returns the module and deffunc enclosing pos.
func (w *Workspace) ScopeAt(doc source.DocID, pos source.Pos) LocalScope {
	a, ok := w.Doc(doc)
	if !ok {
		return LocalScope{}
	}
	var scope LocalScope
	for _, m := range a.Modules {
		if m.Content.Range.Touches(pos) {
			scope.Module = m.ID
		}
	}
	for _, df := range a.DefFuncs {
		if df.Module == scope.Module && df.Content.Range.Touches(pos) && df.Keyword.End().Index <= pos.Index {
			scope.DefFunc = df.ID
		}
	}
	return scope
}

// tokenIndexBefore returns the index of the last token starting before pos,
// or -1.
func (a *DocAnalysis) tokenIndexBefore(pos source.Pos) int {
	return sort.Search(len(a.Tokens), func(i int) bool {
		return a.Tokens[i].Start().Index >= pos.Index
	}) - 1
}

func insideToken(t token.Token, pos source.Pos) bool {
	r := t.Loc.Range
	switch t.Kind {
	case token.Comment:
		if strings.HasPrefix(t.Text, "/*") && strings.HasSuffix(t.Text, "*/") && len(t.Text) >= 4 {
			return r.Start.Index < pos.Index && pos.Index < r.End.Index
		}
		return r.Start.Index < pos.Index && pos.Index <= r.End.Index
	case token.Str, token.Char:
		closed := len(t.Text) >= 2 && strings.HasSuffix(t.Text, t.Text[:1])
		if strings.HasPrefix(t.Text, `{"`) {
			closed = strings.HasSuffix(t.Text, `"}`) && len(t.Text) >= 4
		}
		if closed {
			return r.Start.Index < pos.Index && pos.Index < r.End.Index
		}
		return r.Start.Index < pos.Index && pos.Index <= r.End.Index
	}
	return false
}

// InStrOrComment reports whether pos is inside a string or a comment.
func (w *Workspace) InStrOrComment(doc source.DocID, pos source.Pos) bool {
	a, ok := w.Doc(doc)
	if !ok || a.Tokens == nil {
		return false
	}
	i := a.tokenIndexBefore(pos)
	for _, j := range []int{i, i + 1} {
		if j < 0 || j >= len(a.Tokens) {
			continue
		}
		for _, t := range a.Tokens[j].All() {
			if insideToken(t, pos) {
				return true
			}
		}
	}
	return false
}

// InPreproc reports whether pos is on a line that starts with a directive.
func (w *Workspace) InPreproc(doc source.DocID, pos source.Pos) bool {
	a, ok := w.Doc(doc)
	if !ok || a.Tokens == nil {
		return false
	}
	for i := a.tokenIndexBefore(pos); i >= 0; i-- {
		switch a.Tokens[i].Kind() {
		case token.Eos:
			return false
		case token.Hash:
			return true
		}
	}
	return false
}

// SemanticTokenType is the highlighting class of a name.
type SemanticTokenType int

const (
	SemanticParameter SemanticTokenType = iota
	SemanticVariable
)

type SemanticToken struct {
	Loc  source.Loc
	Type SemanticTokenType
}

// SemanticTokens classifies the parameter and variable names of doc.
func (w *Workspace) SemanticTokens(doc source.DocID) []SemanticToken {
	a, ok := w.Doc(doc)
	if !ok {
		return nil
	}
	var out []SemanticToken
	for _, o := range a.Occurrences {
		switch o.Symbol.Kind {
		case KindParam:
			out = append(out, SemanticToken{Loc: o.Loc, Type: SemanticParameter})
		case KindStaticVar:
			out = append(out, SemanticToken{Loc: o.Loc, Type: SemanticVariable})
		}
	}
	return out
}
