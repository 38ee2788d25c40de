package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	var result []protocol.TextEdit
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		for _, e := range s.state.Workspace.Format(doc) {
			result = append(result, protocol.TextEdit{
				Range:   toRange(text, e.Range),
				NewText: e.NewText,
			})
		}
	})
	return result, err
}
