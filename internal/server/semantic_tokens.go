package server

import (
	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// semanticTokenTypes is the legend; indices match analysis.SemanticTokenType.
var semanticTokenTypes = []string{"parameter", "variable"}

func (s *Server) onSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	var result *protocol.SemanticTokens
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		result = &protocol.SemanticTokens{
			Data: encodeSemanticTokens(text, s.state.Workspace.SemanticTokens(doc)),
		}
	})
	return result, err
}

// encodeSemanticTokens produces the relative five-integer encoding. Tokens
// spanning lines are dropped.
func encodeSemanticTokens(text string, tokens []analysis.SemanticToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevChar protocol.UInteger
	for _, t := range tokens {
		r := t.Loc.Range
		if r.Start.Row != r.End.Row {
			continue
		}
		line := protocol.UInteger(r.Start.Row)
		char := protocol.UInteger(source.UTF16Col(text, r.Start))
		length := protocol.UInteger(source.UTF16Col(text, r.End)) - char

		deltaChar := char
		if line == prevLine {
			deltaChar = char - prevChar
		}
		data = append(data, line-prevLine, deltaChar, length, protocol.UInteger(t.Type), 0)
		prevLine, prevChar = line, char
	}
	return data
}
