package analysis

import (
	"strings"

	"github.com/shinyvision/hsp3ls/internal/help"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/utils"
)

// IsCommon reports whether the document lies under <hsp3Root>/common.
func (w *Workspace) IsCommon(doc source.DocID) bool {
	a, ok := w.docs[doc]
	return ok && a.Path != "" && utils.IsUnder(a.Path, w.commonDir())
}

// computeActiveDocs finds the least set holding every script outside
// common/ that is closed under includes, then links help sources to it.
func (w *Workspace) computeActiveDocs() {
	w.active = make(map[source.DocID]bool)

	var stack []source.DocID
	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		if a.Lang == source.LangHSP3 && !w.IsCommon(id) {
			w.active[id] = true
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, edge := range w.includes[id] {
			if edge.Resolved && !w.active[edge.Target] {
				w.active[edge.Target] = true
				stack = append(stack, edge.Target)
			}
		}
	}

	w.computeHelpLinks()
}

func (w *Workspace) computeHelpLinks() {
	helpByStem := make(map[string]source.DocID)
	w.builtinHelp = w.builtinHelp[:0]
	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		if a.Lang != source.LangHelp || a.Path == "" {
			continue
		}
		stem := strings.ToLower(utils.BaseStem(a.Path))
		if _, dup := helpByStem[stem]; !dup {
			helpByStem[stem] = id
		}
		if help.IsBuiltin(a.Path) {
			w.builtinHelp = append(w.builtinHelp, id)
			w.active[id] = true
		}
	}

	w.helpLinks = make(map[source.DocID]source.DocID)
	for _, id := range w.sortedDocs() {
		a := w.docs[id]
		if !w.active[id] || a.Lang != source.LangHSP3 || a.Path == "" {
			continue
		}
		if h, ok := helpByStem[strings.ToLower(utils.BaseStem(a.Path))]; ok {
			w.helpLinks[id] = h
			w.active[h] = true
		}
	}
}

// IsActive reports whether the document takes part in the analysis.
func (w *Workspace) IsActive(doc source.DocID) bool {
	w.compute()
	return w.active[doc]
}

// ActiveDocs lists the active documents in ascending ID order.
func (w *Workspace) ActiveDocs() []source.DocID {
	w.compute()
	var out []source.DocID
	for _, id := range w.sortedDocs() {
		if w.active[id] {
			out = append(out, id)
		}
	}
	return out
}

// HelpLink returns the help source linked to a script.
func (w *Workspace) HelpLink(doc source.DocID) (source.DocID, bool) {
	w.compute()
	h, ok := w.helpLinks[doc]
	return h, ok
}
