package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	var result *protocol.SignatureHelp
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		info, ok := s.state.Workspace.SignatureHelp(doc, fromPosition(text, params.Position))
		if !ok {
			return
		}

		// Parameter labels are offsets into the signature label, in UTF-16.
		parameters := make([]protocol.ParameterInformation, 0, len(info.Params))
		for _, p := range info.Params {
			start := utf16Len(info.Label[:p[0]])
			end := start + utf16Len(info.Label[p[0]:p[1]])
			parameters = append(parameters, protocol.ParameterInformation{
				Label: []protocol.UInteger{start, end},
			})
		}
		sig := protocol.SignatureInformation{
			Label:      info.Label,
			Parameters: parameters,
		}
		if md := detailsMarkdown(info.Details); md != "" {
			sig.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: md}
		}

		active := protocol.UInteger(0)
		param := protocol.UInteger(info.ActiveParam)
		result = &protocol.SignatureHelp{
			Signatures:      []protocol.SignatureInformation{sig},
			ActiveSignature: &active,
			ActiveParameter: &param,
		}
	})
	return result, err
}
