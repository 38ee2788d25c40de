package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	var result *protocol.Hover
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		info, ok := s.state.Workspace.Hover(doc, fromPosition(text, params.Position))
		if !ok {
			return
		}
		r := toRange(text, info.Loc.Range)
		result = &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: info.Markdown(),
			},
			Range: &r,
		}
	})
	return result, err
}
