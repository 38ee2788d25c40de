package server

import (
	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	var result []protocol.SymbolInformation
	err := s.do(func() {
		if !s.config.DocumentSymbolEnabled {
			return
		}
		doc, _, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		result = s.symbolInformation(s.state.Workspace.DocSymbols(doc))
	})
	if err != nil || result == nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) onWorkspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	var result []protocol.SymbolInformation
	err := s.do(func() {
		result = s.symbolInformation(s.state.Workspace.WorkspaceSymbols(params.Query))
	})
	return result, err
}

func (s *Server) symbolInformation(symbols []analysis.SymbolLoc) []protocol.SymbolInformation {
	var out []protocol.SymbolInformation
	for _, sl := range symbols {
		loc, ok := s.location(sl.Loc)
		if !ok {
			continue
		}
		out = append(out, protocol.SymbolInformation{
			Name:     sl.Symbol.Name,
			Kind:     symbolKind(sl.Symbol.Kind),
			Location: loc,
		})
	}
	return out
}
