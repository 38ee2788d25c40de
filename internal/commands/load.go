package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/shinyvision/hsp3ls/internal/scan"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/state"
)

// loaded is a workspace built from files named on the command line.
type loaded struct {
	state *state.State
	docs  []source.DocID
}

func load(ctx context.Context, opts *options, paths []string) (*loaded, error) {
	cfg := opts.config()
	st := state.NewState(cfg)
	if err := state.ScanAll(ctx, cfg, func(files []scan.File) { st.ApplyScan(files) }); err != nil {
		return nil, err
	}

	files := make([]scan.File, 0, len(paths))
	for _, p := range paths {
		p = source.CanonicalPath(p)
		text, err := scan.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		files = append(files, scan.File{Path: p, Text: text})
	}
	st.ApplyScan(files)

	l := &loaded{state: st}
	for _, f := range files {
		if id, ok := st.Registry.FindByPath(f.Path); ok {
			l.docs = append(l.docs, id)
		}
	}
	return l, nil
}

func (l *loaded) doc(id source.DocID) *source.Document {
	doc, _ := l.state.Registry.Get(id)
	return doc
}

// applyEdits applies non-overlapping edits to text.
func applyEdits(text string, edits []analysis.TextEdit) string {
	edits = slices.Clone(edits)
	slices.SortFunc(edits, func(a, b analysis.TextEdit) int {
		return int(b.Range.Start.Index) - int(a.Range.Start.Index)
	})
	for _, e := range edits {
		start, end := int(e.Range.Start.Index), int(e.Range.End.Index)
		text = text[:start] + e.NewText + text[end:]
	}
	return text
}
