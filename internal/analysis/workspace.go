// Package analysis turns HSP3 documents into a cross-file symbol model and
// answers queries about it.
package analysis

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/tliron/commonlog"
)

// Workspace holds the analysis of every known document. Analysis is
// recomputed lazily before a query when any input changed. It is not safe
// for concurrent use.
type Workspace struct {
	docs        map[source.DocID]*DocAnalysis
	byPath      map[string]source.DocID
	byLowerPath map[string]source.DocID

	hsp3Root    string
	searchRoots []string

	dirty bool

	includes       map[source.DocID][]IncludeEdge
	active         map[source.DocID]bool
	helpLinks      map[source.DocID]source.DocID
	builtinHelp    []source.DocID
	globalEnv      env
	nsEnv          map[string]env
	envDiagnostics map[source.DocID][]Diagnostic

	logger commonlog.Logger
}

func NewWorkspace() *Workspace {
	return &Workspace{
		docs:        make(map[source.DocID]*DocAnalysis),
		byPath:      make(map[string]source.DocID),
		byLowerPath: make(map[string]source.DocID),
		logger:      commonlog.GetLoggerf("hsp3ls.analysis"),
	}
}

// SetRoots sets the HSP install directory and the extra include roots.
func (w *Workspace) SetRoots(hsp3Root string, searchRoots []string) {
	if hsp3Root != "" {
		hsp3Root = filepath.Clean(hsp3Root)
	}
	w.hsp3Root = hsp3Root
	w.searchRoots = slices.Clone(searchRoots)
	w.dirty = true
}

// SetDoc adds a document or replaces its text.
func (w *Workspace) SetDoc(doc source.DocID, path string, lang source.Lang, text string) {
	a, ok := w.docs[doc]
	switch {
	case !ok:
		a = newDocAnalysis(doc, path, lang, text)
		w.docs[doc] = a
	case a.Path != path || a.Lang != lang:
		w.forgetPath(a)
		a.Path, a.Lang = path, lang
		a.setText(text)
	case a.Text == text && a.Phase > PhaseInit:
		return
	default:
		a.setText(text)
	}
	if path != "" {
		p := filepath.Clean(path)
		w.byPath[p] = doc
		w.byLowerPath[strings.ToLower(p)] = doc
	}
	w.logger.Debugf("doc:%d set (%s)", doc, lang)
	w.dirty = true
}

// RemoveDoc forgets a document.
func (w *Workspace) RemoveDoc(doc source.DocID) {
	a, ok := w.docs[doc]
	if !ok {
		return
	}
	w.forgetPath(a)
	delete(w.docs, doc)
	w.dirty = true
}

func (w *Workspace) forgetPath(a *DocAnalysis) {
	if a.Path == "" {
		return
	}
	p := filepath.Clean(a.Path)
	if w.byPath[p] == a.Doc {
		delete(w.byPath, p)
	}
	if w.byLowerPath[strings.ToLower(p)] == a.Doc {
		delete(w.byLowerPath, strings.ToLower(p))
	}
}

func (w *Workspace) sortedDocs() []source.DocID {
	ids := make([]source.DocID, 0, len(w.docs))
	for id := range w.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// compute brings every document up to date. Everything after the preproc
// phase is rebuilt from scratch.
func (w *Workspace) compute() {
	if !w.dirty {
		return
	}

	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		a.rollbackToPreproc()
		a.ensurePreproc()
	}

	w.computeIncludes()
	w.computeActiveDocs()
	w.buildPublicEnv()

	for _, id := range w.activeScripts() {
		w.resolveDoc(w.docs[id])
	}
	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		if w.active[id] && a.Lang == source.LangHelp {
			for _, sym := range a.PreprocSymbols() {
				a.Occurrences = append(a.Occurrences, Occurrence{Loc: *sym.preprocDef, Symbol: sym, Def: true})
			}
			a.finishSymbols()
		}
	}
	w.mergeHelp()

	w.dirty = false
	w.logger.Debugf("analysed %d documents, %d active", len(w.docs), len(w.active))
}

// Doc returns the analysis of a document, up to date.
func (w *Workspace) Doc(doc source.DocID) (*DocAnalysis, bool) {
	w.compute()
	a, ok := w.docs[doc]
	return a, ok
}

// Diagnose reports the problems of one document. Lint adds the syntax lint.
func (w *Workspace) Diagnose(doc source.DocID, lint bool) []Diagnostic {
	w.compute()
	a, ok := w.docs[doc]
	if !ok || a.Lang != source.LangHSP3 || a.Root == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, edge := range w.includes[doc] {
		if edge.Resolved || edge.Excluded || edge.Optional {
			continue
		}
		diagnostics = append(diagnostics, Diagnostic{
			Code:     CodeUnresolvedInclude,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("cannot find included file %q", edge.Path),
			Loc:      edge.Loc,
		})
	}
	diagnostics = append(diagnostics, w.envDiagnostics[doc]...)
	for _, m := range a.Modules {
		if !m.Terminated {
			diagnostics = append(diagnostics, Diagnostic{
				Code:     CodeUnterminatedModule,
				Severity: SeverityWarning,
				Message:  "#module without matching #global",
				Loc:      m.Keyword,
			})
		}
	}
	diagnostics = append(diagnostics, skippedTokenDiagnostics(a.Root)...)
	if lint {
		diagnostics = append(diagnostics, syntaxLint(a.Root)...)
	}

	slices.SortStableFunc(diagnostics, func(x, y Diagnostic) int { return x.Loc.Compare(y.Loc) })
	return diagnostics
}
