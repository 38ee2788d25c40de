package state

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/shinyvision/hsp3ls/internal/config"
	"github.com/shinyvision/hsp3ls/internal/scan"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/watcher"
	"github.com/tliron/commonlog"
)

var (
	ScriptExts = []string{".hsp", ".as"}
	HelpExts   = []string{".hs"}
)

// State applies document events, scan results and watcher events to the
// registry and keeps the analysis workspace in step. Access goes through
// a Queue.
type State struct {
	Registry  *source.Registry
	Workspace *analysis.Workspace
	Config    *config.Config

	// docs with diagnostics sent to the client
	published map[source.DocID]string
	logger    commonlog.Logger
}

func NewState(cfg *config.Config) *State {
	s := &State{
		Registry:  source.NewRegistry(),
		Workspace: analysis.NewWorkspace(),
		Config:    cfg,
		published: make(map[source.DocID]string),
		logger:    commonlog.GetLoggerf("hsp3ls.state"),
	}
	s.Reconfigure()
	return s
}

// Reconfigure pushes the current roots to the workspace.
func (s *State) Reconfigure() {
	s.Workspace.SetRoots(s.Config.HSP3Root, s.Config.ResolvedSearchRoots())
}

// Open handles didOpen.
func (s *State) Open(uri string, text string, version int32) source.DocID {
	canonical, p := source.CanonicalURI(uri)
	lang := source.LangHSP3
	if p != "" {
		lang = source.LangFromPath(p)
	}
	id := s.Registry.OpenInEditor(canonical, lang, text, version)
	s.sync()
	return id
}

// Change handles didChange with the full new text.
func (s *State) Change(uri string, text string, version int32) (source.DocID, error) {
	id, ok := s.Registry.FindByURI(uri)
	if !ok {
		return 0, fmt.Errorf("%w: %s", source.ErrUnknownDocument, uri)
	}
	if err := s.Registry.Change(id, text, version); err != nil {
		return id, err
	}
	s.sync()
	return id, nil
}

// Close handles didClose.
func (s *State) Close(uri string) (source.DocID, error) {
	id, ok := s.Registry.FindByURI(uri)
	if !ok {
		return 0, fmt.Errorf("%w: %s", source.ErrUnknownDocument, uri)
	}
	if err := s.Registry.CloseInEditor(id); err != nil {
		return id, err
	}
	s.sync()
	return id, nil
}

// Text returns the current text of an open or scanned document.
func (s *State) Text(uri string) (source.DocID, string, bool) {
	id, ok := s.Registry.FindByURI(uri)
	if !ok {
		return 0, "", false
	}
	doc, _ := s.Registry.Get(id)
	return id, doc.Text, true
}

// ApplyScan registers scanned files. Editor-owned documents keep their text.
func (s *State) ApplyScan(files []scan.File) int {
	changed := 0
	for _, f := range files {
		if _, ok := s.Registry.EnsureFileOpened(f.Path, f.Text); ok {
			changed++
		}
	}
	s.sync()
	return changed
}

// ApplyWatcherEvent loads updated files and drops removed ones. It reports
// whether a full rescan is needed.
func (s *State) ApplyWatcherEvent(e watcher.Event) bool {
	if e.Disconnected {
		s.logger.Warningf("file watcher disconnected")
	}
	for _, p := range e.Updated {
		if _, err := s.Registry.LoadFile(p); err != nil {
			s.logger.Warningf("could not load %s: %v", p, err)
		}
	}
	for _, p := range e.Removed {
		id, ok := s.Registry.FindByPath(p)
		if !ok {
			continue
		}
		if doc, _ := s.Registry.Get(id); doc.Origin == source.OriginEditor {
			continue
		}
		s.Registry.Remove(id)
	}
	s.sync()
	return e.Rescan
}

// ScanAll discovers the common and help directories of the HSP3 install
// and the scripts of the workspace. The scans run on the caller's
// goroutine; the results are applied with apply, which must run on the
// queue.
func ScanAll(ctx context.Context, cfg *config.Config, apply func([]scan.File)) error {
	logger := commonlog.GetLoggerf("hsp3ls.state")
	if err := cfg.Validate(); err != nil {
		logger.Warningf("%v: common and hsphelp are not scanned", err)
	} else {
		files, err := scan.Scan(ctx, cfg.CommonDir(), ScriptExts, []string{"hsp261cmp.as"})
		if err != nil {
			return err
		}
		apply(files)

		files, err = scan.Scan(ctx, cfg.HelpDir(), HelpExts, nil)
		if err != nil {
			return err
		}
		apply(files)
	}

	if cfg.WorkspaceRoot == "" {
		return nil
	}
	files, err := scan.Scan(ctx, cfg.WorkspaceRoot, ScriptExts, nil)
	if err != nil {
		return err
	}
	apply(files)
	return nil
}

// sync drains registry changes into the workspace.
func (s *State) sync() {
	for _, c := range s.Registry.TakeChanges() {
		switch c.Kind {
		case source.DocOpened, source.DocChanged:
			doc, ok := s.Registry.Get(c.Doc)
			if !ok {
				continue
			}
			s.Workspace.SetDoc(c.Doc, doc.Path, doc.Lang, doc.Text)
		case source.DocClosed, source.DocRemoved:
			s.Workspace.RemoveDoc(c.Doc)
		}
	}
}

// URI maps a document back to the URI the client knows.
func (s *State) URI(id source.DocID) (string, bool) {
	doc, ok := s.Registry.Get(id)
	if !ok {
		return "", false
	}
	return doc.URI, true
}

// Published is the diagnostic set of one document.
type Published struct {
	Doc         source.DocID
	URI         string
	Text        string
	Version     *int32
	Diagnostics []analysis.Diagnostic
}

// Diagnostics returns the diagnostics to publish: every active script
// outside the common directory, plus an empty set for documents that had
// diagnostics before and no longer qualify.
func (s *State) Diagnostics() []Published {
	var out []Published
	next := make(map[source.DocID]string)
	for _, id := range s.Workspace.ActiveDocs() {
		doc, ok := s.Registry.Get(id)
		if !ok || doc.Lang != source.LangHSP3 || s.Workspace.IsCommon(id) {
			continue
		}
		var version *int32
		if doc.HasVersion {
			v := doc.Version
			version = &v
		}
		out = append(out, Published{
			Doc:         id,
			URI:         doc.URI,
			Text:        doc.Text,
			Version:     version,
			Diagnostics: s.Workspace.Diagnose(id, s.Config.LintEnabled),
		})
		next[id] = doc.URI
	}
	for id, uri := range s.published {
		if _, ok := next[id]; !ok {
			out = append(out, Published{Doc: id, URI: uri})
		}
	}
	s.published = next

	slices.SortFunc(out, func(a, b Published) int { return cmp.Compare(a.Doc, b.Doc) })
	return out
}
