package analysis

import (
	"path/filepath"
	"strings"

	"github.com/shinyvision/hsp3ls/internal/source"
)

// excludedInclude is never followed: it is a compatibility shim that the
// common headers reach transitively.
const excludedInclude = "hsp261cmp.as"

// IncludeEdge is an include directive together with its target.
type IncludeEdge struct {
	Include
	Target   source.DocID
	Resolved bool
	// Excluded is set for includes deliberately not followed.
	Excluded bool
}

func (w *Workspace) lookupPath(p string) (source.DocID, bool) {
	p = filepath.Clean(p)
	if id, ok := w.byPath[p]; ok {
		return id, true
	}
	id, ok := w.byLowerPath[strings.ToLower(p)]
	return id, ok
}

func (w *Workspace) commonDir() string {
	if w.hsp3Root == "" {
		return ""
	}
	return filepath.Join(w.hsp3Root, "common")
}

// resolveInclude looks for the target of an include of from: next to the
// including document, then in each search root, then under common/.
func (w *Workspace) resolveInclude(from *DocAnalysis, inc Include) IncludeEdge {
	edge := IncludeEdge{Include: inc}
	rel := filepath.FromSlash(normalizedIncludePath(inc.Path))
	if strings.EqualFold(filepath.Base(rel), excludedInclude) {
		edge.Excluded = true
		return edge
	}

	var dirs []string
	if from.Path != "" {
		dirs = append(dirs, filepath.Dir(from.Path))
	}
	dirs = append(dirs, w.searchRoots...)
	if dir := w.commonDir(); dir != "" {
		dirs = append(dirs, dir)
	}

	if filepath.IsAbs(rel) {
		dirs = []string{""}
	}
	for _, dir := range dirs {
		if id, ok := w.lookupPath(filepath.Join(dir, rel)); ok {
			edge.Target, edge.Resolved = id, true
			return edge
		}
	}
	return edge
}

// computeIncludes resolves the include directives of every script document.
func (w *Workspace) computeIncludes() {
	w.includes = make(map[source.DocID][]IncludeEdge, len(w.docs))
	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		if a.Lang != source.LangHSP3 {
			continue
		}
		a.ensurePreproc()
		for _, inc := range a.Includes {
			w.includes[id] = append(w.includes[id], w.resolveInclude(a, inc))
		}
	}
}

// Includes returns the resolved include edges of doc.
func (w *Workspace) Includes(doc source.DocID) []IncludeEdge {
	w.compute()
	return w.includes[doc]
}
