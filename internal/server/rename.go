package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	var result any
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		loc, ok := s.state.Workspace.PrepareRename(doc, fromPosition(text, params.Position))
		if !ok {
			return
		}
		result = toRange(text, loc.Range)
	})
	return result, err
}

func (s *Server) onRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	var result *protocol.WorkspaceEdit
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		edits, ok := s.state.Workspace.Rename(doc, fromPosition(text, params.Position), params.NewName)
		if !ok {
			return
		}
		result = s.workspaceEdit(edits)
	})
	return result, err
}
