package analysis

import (
	"sort"
	"strings"

	"github.com/shinyvision/hsp3ls/internal/source"
)

// CompletionItem is a candidate offered at a position. Kind is meaningless
// when Keyword is set.
type CompletionItem struct {
	Label    string
	Kind     SymbolKind
	Keyword  bool
	Detail   string
	Details  Details
	SortText string
}

var preprocKeywords = []string{
	"ctype", "global", "local", "int", "double", "str", "label", "var", "array",
}

func symbolSortPrefix(sym *Symbol) string {
	if sym.Kind == KindModule {
		return "f"
	}
	switch sym.Scope.Kind {
	case ScopeGlobal:
		return "e"
	case ScopeLocal:
		l := sym.Scope.Local
		switch {
		case !l.Module.IsZero() && !l.DefFunc.IsZero():
			return "a"
		case !l.Module.IsZero():
			return "b"
		case l.DefFunc.IsZero():
			return "c"
		}
		return "d"
	}
	return "g"
}

func helpSortPrefix(sym *Symbol, builtin bool) string {
	switch {
	case strings.HasPrefix(sym.Name, "_"):
		return "z"
	case builtin:
		return "x"
	}
	return "y"
}

// Completion lists the candidates at pos. Nothing is offered inside strings
// and comments. On a directive line only directive keywords and directive
// help entries are offered.
func (w *Workspace) Completion(doc source.DocID, pos source.Pos) []CompletionItem {
	if _, ok := w.Doc(doc); !ok || w.InStrOrComment(doc, pos) {
		return nil
	}

	var items []CompletionItem
	preproc := w.InPreproc(doc, pos)
	if preproc {
		for _, kw := range preprocKeywords {
			items = append(items, CompletionItem{Label: kw, Keyword: true, SortText: "a" + kw})
		}
	} else {
		items = w.symbolCompletion(doc, pos)
	}
	items = append(items, w.helpCompletion(preproc)...)

	sort.SliceStable(items, func(i, j int) bool { return items[i].SortText < items[j].SortText })
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item.Label] {
			continue
		}
		seen[item.Label] = true
		out = append(out, item)
	}
	return out
}

func (w *Workspace) symbolCompletion(doc source.DocID, pos source.Pos) []CompletionItem {
	scope := w.ScopeAt(doc, pos)

	var items []CompletionItem
	for _, id := range w.activeScripts() {
		for _, sym := range w.docs[id].Symbols {
			switch sym.Kind {
			case KindUnresolved, KindUnknown:
				continue
			}

			label := sym.Name
			switch sym.Scope.Kind {
			case ScopeLocal:
				l := sym.Scope.Local
				switch {
				case id == doc && l.IsVisibleTo(scope):
				case id != doc && scope.Module.IsZero() && l.IsPublic():
				default:
					continue
				}
			case ScopeNone:
				if !sym.HasNS {
					continue
				}
				label = sym.Name + "@" + sym.NS
			}

			prefix := symbolSortPrefix(sym)
			items = append(items, CompletionItem{
				Label:    label,
				Kind:     sym.Kind,
				Detail:   sym.KindLabel(),
				Details:  sym.ComputeDetails(),
				SortText: prefix + label,
			})
		}
	}
	return items
}

func (w *Workspace) helpCompletion(preproc bool) []CompletionItem {
	builtin := make(map[source.DocID]bool, len(w.builtinHelp))
	for _, id := range w.builtinHelp {
		builtin[id] = true
	}

	var items []CompletionItem
	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		if !w.active[id] || a.Lang != source.LangHelp {
			continue
		}
		for _, sym := range a.PreprocSymbols() {
			if strings.HasPrefix(sym.Name, "#") != preproc {
				continue
			}
			label := strings.TrimPrefix(sym.Name, "#")
			items = append(items, CompletionItem{
				Label:    label,
				Kind:     KindUnknown,
				Details:  sym.ComputeDetails(),
				SortText: helpSortPrefix(sym, builtin[id]) + label,
			})
		}
	}
	return items
}
