package server

import (
	"errors"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/utils"
	"github.com/shinyvision/hsp3ls/internal/watcher"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) didOpen(_ *glsp.Context, p *protocol.DidOpenTextDocumentParams) error {
	return s.do(func() {
		s.state.Open(string(p.TextDocument.URI), p.TextDocument.Text, int32(p.TextDocument.Version))
		s.publishDiagnostics()
	})
}

func (s *Server) didChange(_ *glsp.Context, p *protocol.DidChangeTextDocumentParams) error {
	uri := string(p.TextDocument.URI)
	return s.do(func() {
		_, text, ok := s.state.Text(uri)
		if !ok {
			return
		}
		text = applyContentChanges(text, p.ContentChanges)

		_, err := s.state.Change(uri, text, int32(p.TextDocument.Version))
		switch {
		case errors.Is(err, source.ErrStaleVersion):
			return
		case err != nil:
			s.logger.Warningf("didChange: %v", err)
			return
		}
		s.publishDiagnostics()
	})
}

// applyContentChanges folds full and incremental change events into the
// full new text.
func applyContentChanges(text string, changes []any) string {
	for _, c := range changes {
		switch ch := c.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = ch.Text
		case protocol.TextDocumentContentChangeEvent:
			if ch.Range == nil {
				text = ch.Text
				continue
			}
			r := fromRange(text, *ch.Range)
			start, end := int(r.Start.Index), int(r.End.Index)
			if start <= end && end <= len(text) {
				text = text[:start] + ch.Text + text[end:]
			}
		}
	}
	return text
}

func (s *Server) didClose(_ *glsp.Context, p *protocol.DidCloseTextDocumentParams) error {
	return s.do(func() {
		if _, err := s.state.Close(string(p.TextDocument.URI)); err != nil {
			s.logger.Warningf("didClose: %v", err)
			return
		}
		s.publishDiagnostics()
	})
}

func (s *Server) didChangeConfiguration(_ *glsp.Context, p *protocol.DidChangeConfigurationParams) error {
	var watch bool
	err := s.do(func() {
		wasWatching := s.config.WatcherEnabled
		logFile := s.config.LogFile
		s.config.ApplySettings(p.Settings)
		s.followLogFile(logFile)
		s.state.Reconfigure()
		watch = !wasWatching && s.config.WatcherEnabled && s.watcher == nil && s.config.WorkspaceRoot != ""
		s.startScan()
		s.publishDiagnostics()
	})
	if err != nil {
		return err
	}
	if watch {
		s.startWatcher()
	}
	return nil
}

// didChangeWatchedFiles handles change notifications from clients that
// watch files themselves.
func (s *Server) didChangeWatchedFiles(_ *glsp.Context, p *protocol.DidChangeWatchedFilesParams) error {
	var e watcher.Event
	for _, change := range p.Changes {
		if !utils.IsFileURI(string(change.URI)) {
			continue
		}
		path := utils.UriToPath(string(change.URI))
		if int(change.Type) == int(protocol.FileChangeTypeDeleted) {
			e.Removed = append(e.Removed, path)
		} else {
			e.Updated = append(e.Updated, path)
		}
	}
	if e.IsEmpty() {
		return nil
	}
	return s.do(func() {
		s.state.ApplyWatcherEvent(e)
		s.publishDiagnostics()
	})
}
