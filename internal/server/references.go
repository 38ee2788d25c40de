package server

import (
	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	var result []protocol.Location
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		sym, _, ok := s.state.Workspace.Locate(doc, fromPosition(text, params.Position))
		if !ok {
			return
		}
		result = s.locations(analysis.References(sym, params.Context.IncludeDeclaration))
	})
	return result, err
}

func (s *Server) onDocumentHighlight(_ *glsp.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	var result []protocol.DocumentHighlight
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		for _, h := range s.state.Workspace.Highlights(doc, fromPosition(text, params.Position)) {
			kind := protocol.DocumentHighlightKindRead
			if h.Write {
				kind = protocol.DocumentHighlightKindWrite
			}
			result = append(result, protocol.DocumentHighlight{
				Range: toRange(text, h.Loc.Range),
				Kind:  &kind,
			})
		}
	})
	return result, err
}
