package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	var result []protocol.CodeAction
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		kind := protocol.CodeActionKindRefactor
		for _, a := range s.state.Workspace.CodeActions(doc, fromRange(text, params.Range)) {
			result = append(result, protocol.CodeAction{
				Title: a.Title,
				Kind:  &kind,
				Edit:  s.workspaceEdit(a.Edits),
			})
		}
	})
	if err != nil || len(result) == 0 {
		return nil, err
	}
	return result, nil
}
