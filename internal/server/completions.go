package server

import (
	"strings"

	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	var items []protocol.CompletionItem
	err := s.do(func() {
		doc, text, ok := s.state.Text(string(params.TextDocument.URI))
		if !ok {
			return
		}
		for _, c := range s.state.Workspace.Completion(doc, fromPosition(text, params.Position)) {
			items = append(items, completionItem(c))
		}
	})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func completionItem(c analysis.CompletionItem) protocol.CompletionItem {
	kind := completionKind(c.Kind)
	if c.Keyword {
		kind = protocol.CompletionItemKindKeyword
	}
	item := protocol.CompletionItem{
		Label: c.Label,
		Kind:  &kind,
	}
	if c.SortText != "" {
		sortText := c.SortText
		item.SortText = &sortText
	}
	if c.Detail != "" {
		detail := c.Detail
		item.Detail = &detail
	}
	if md := detailsMarkdown(c.Details); md != "" {
		item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: md}
	}
	return item
}

// detailsMarkdown joins the description and the doc blocks with rules.
func detailsMarkdown(d analysis.Details) string {
	parts := make([]string, 0, len(d.Docs)+1)
	if d.Desc != "" {
		parts = append(parts, d.Desc)
	}
	parts = append(parts, d.Docs...)
	return strings.Join(parts, "\r\n\r\n---\r\n\r\n")
}
