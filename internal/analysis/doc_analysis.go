package analysis

import (
	"slices"

	"github.com/shinyvision/hsp3ls/internal/help"
	"github.com/shinyvision/hsp3ls/internal/parse"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

// Phase is how far the analysis of a document has progressed.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseSyntax
	PhasePreproc
	PhaseSymbols
)

func (p Phase) String() string {
	switch p {
	case PhaseSyntax:
		return "syntax"
	case PhasePreproc:
		return "preproc"
	case PhaseSymbols:
		return "symbols"
	}
	return "init"
}

// Occurrence is a name in a document bound to a symbol.
type Occurrence struct {
	Loc    source.Loc
	Symbol *Symbol
	Def    bool
}

// DocAnalysis is the analysis of one document. Its phase only moves
// forward until the text changes or the workspace invalidates it.
type DocAnalysis struct {
	Doc  source.DocID
	Path string
	Lang source.Lang
	Text string

	Phase Phase

	// Syntax.
	Tokens []*token.PToken
	Root   *parse.Root

	// Preproc.
	Includes  []Include
	Modules   []*Module
	DefFuncs  []*DefFunc
	moduleOf  map[*parse.ModuleStmt]ModuleID
	defFuncOf map[*parse.DefFuncStmt]DefFuncID
	// HelpWarnings are sections of a help source that could not be read.
	HelpWarnings []string

	// Symbols holds the preproc symbols followed by the symbols created by
	// resolution.
	Symbols           []*Symbol
	preprocSymbolsLen int

	// Symbols phase.
	Occurrences []Occurrence
}

func newDocAnalysis(doc source.DocID, path string, lang source.Lang, text string) *DocAnalysis {
	return &DocAnalysis{Doc: doc, Path: path, Lang: lang, Text: text}
}

// setText replaces the text and resets to Init.
func (a *DocAnalysis) setText(text string) {
	a.Text = text
	a.invalidate()
}

func (a *DocAnalysis) invalidate() {
	*a = DocAnalysis{Doc: a.Doc, Path: a.Path, Lang: a.Lang, Text: a.Text}
}

func (a *DocAnalysis) addSymbol(sym *Symbol) {
	sym.ID = SymbolID{Doc: a.Doc, Index: len(a.Symbols)}
	a.Symbols = append(a.Symbols, sym)
}

// PreprocSymbols returns the symbols declared by directives and labels.
func (a *DocAnalysis) PreprocSymbols() []*Symbol {
	return a.Symbols[:a.preprocSymbolsLen]
}

func (a *DocAnalysis) Module(id ModuleID) *Module {
	if id.Doc != a.Doc || id.Index < 1 || id.Index > len(a.Modules) {
		return nil
	}
	return a.Modules[id.Index-1]
}

func (a *DocAnalysis) DefFunc(id DefFuncID) *DefFunc {
	if id.Doc != a.Doc || id.Index < 1 || id.Index > len(a.DefFuncs) {
		return nil
	}
	return a.DefFuncs[id.Index-1]
}

func (a *DocAnalysis) ensureSyntax() {
	if a.Phase >= PhaseSyntax {
		return
	}
	if a.Lang == source.LangHSP3 {
		a.Tokens, a.Root = parse.ParseText(a.Doc, a.Text)
	}
	a.Phase = PhaseSyntax
}

func (a *DocAnalysis) ensurePreproc() {
	if a.Phase >= PhasePreproc {
		return
	}
	a.ensureSyntax()

	a.moduleOf = make(map[*parse.ModuleStmt]ModuleID)
	a.defFuncOf = make(map[*parse.DefFuncStmt]DefFuncID)
	switch a.Lang {
	case source.LangHSP3:
		analyzePreproc(a)
	case source.LangHelp:
		a.analyzeHelp()
	}
	a.preprocSymbolsLen = len(a.Symbols)
	a.Phase = PhasePreproc
}

// analyzeHelp turns the entries of a help source into symbols of kind
// Unknown.
func (a *DocAnalysis) analyzeHelp() {
	entries, warnings := help.Parse(a.Text)
	a.HelpWarnings = warnings

	lineStarts := []uint32{0}
	for i := 0; i < len(a.Text); i++ {
		if a.Text[i] == '\n' {
			lineStarts = append(lineStarts, uint32(i+1))
		}
	}
	for _, e := range entries {
		pos := source.Pos{Row: e.Row}
		if int(e.Row) < len(lineStarts) {
			pos.Index = lineStarts[e.Row]
		}
		def := source.Loc{Doc: a.Doc, Range: source.Range{Start: pos, End: pos}}
		params := make([]SignatureParam, 0, len(e.Params))
		for _, name := range e.Params {
			params = append(params, SignatureParam{Name: name})
		}
		a.addSymbol(&Symbol{
			Kind:       KindUnknown,
			Name:       e.Name,
			Scope:      globalScope,
			Details:    &Details{Desc: e.Description, Docs: e.Documentation},
			Signature:  &Signature{Name: e.Name, Params: params},
			preprocDef: &def,
			Defs:       []source.Loc{def},
		})
	}
}

// rollbackToPreproc drops everything resolution added.
func (a *DocAnalysis) rollbackToPreproc() {
	if a.Phase < PhaseSymbols {
		return
	}
	for _, sym := range a.Symbols[a.preprocSymbolsLen:] {
		sym.Defs, sym.Uses = nil, nil
	}
	a.Symbols = slices.Clip(a.Symbols[:a.preprocSymbolsLen])
	for _, sym := range a.Symbols {
		sym.Defs = sym.Defs[:0]
		if sym.preprocDef != nil {
			sym.Defs = append(sym.Defs, *sym.preprocDef)
		}
		sym.Uses = nil
		sym.Linked = nil
	}
	a.Occurrences = nil
	a.Phase = PhasePreproc
}

func (a *DocAnalysis) addOccurrence(sym *Symbol, loc source.Loc, def bool) {
	if def {
		sym.Defs = append(sym.Defs, loc)
	} else {
		sym.Uses = append(sym.Uses, loc)
	}
	a.Occurrences = append(a.Occurrences, Occurrence{Loc: loc, Symbol: sym, Def: def})
}

// finishSymbols sorts the occurrences by location.
func (a *DocAnalysis) finishSymbols() {
	slices.SortStableFunc(a.Occurrences, func(x, y Occurrence) int { return x.Loc.Compare(y.Loc) })
	a.Phase = PhaseSymbols
}
