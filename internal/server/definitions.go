package server

import (
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	var result any
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		pos := fromPosition(text, params.Position)

		if target, ok := s.state.Workspace.IncludeTarget(doc, pos); ok {
			if loc, ok := s.location(source.Loc{Doc: target}); ok {
				result = []protocol.Location{loc}
			}
			return
		}

		sym, _, ok := s.state.Workspace.Locate(doc, pos)
		if !ok || len(sym.Defs) == 0 {
			return
		}
		if locations := s.locations(sym.Defs); len(locations) > 0 {
			result = locations
		}
	})
	return result, err
}
