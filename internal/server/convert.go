package server

import (
	"unicode/utf16"

	"github.com/shinyvision/hsp3ls/internal/analysis"
	"github.com/shinyvision/hsp3ls/internal/source"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Positions inside the analysis are UTF-8 byte columns; the protocol
// counts UTF-16 code units. Everything crossing the boundary goes through
// these helpers.

func toPosition(text string, p source.Pos) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(p.Row), Character: protocol.UInteger(source.UTF16Col(text, p))}
}

func fromPosition(text string, p protocol.Position) source.Pos {
	return source.FromUTF16(text, uint32(p.Line), uint32(p.Character))
}

func toRange(text string, r source.Range) protocol.Range {
	return protocol.Range{Start: toPosition(text, r.Start), End: toPosition(text, r.End)}
}

func fromRange(text string, r protocol.Range) source.Range {
	return source.Range{Start: fromPosition(text, r.Start), End: fromPosition(text, r.End)}
}

// utf16Len counts the UTF-16 code units of s.
func utf16Len(s string) protocol.UInteger {
	n := protocol.UInteger(0)
	for _, r := range s {
		n += protocol.UInteger(utf16.RuneLen(r))
	}
	return n
}

// location converts a loc in any registered document. Must run on the queue.
func (s *Server) location(loc source.Loc) (protocol.Location, bool) {
	doc, ok := s.state.Registry.Get(loc.Doc)
	if !ok {
		return protocol.Location{}, false
	}
	return protocol.Location{URI: protocol.DocumentUri(doc.URI), Range: toRange(doc.Text, loc.Range)}, true
}

func (s *Server) locations(locs []source.Loc) []protocol.Location {
	out := make([]protocol.Location, 0, len(locs))
	for _, loc := range locs {
		if l, ok := s.location(loc); ok {
			out = append(out, l)
		}
	}
	return out
}

// workspaceEdit groups edits per document, in first-seen order. Each group
// carries the version the edits were computed against, or nil for
// documents that are not open.
func (s *Server) workspaceEdit(edits []analysis.TextEdit) *protocol.WorkspaceEdit {
	var changes []any
	index := make(map[source.DocID]int)
	for _, e := range edits {
		doc, ok := s.state.Registry.Get(e.Doc)
		if !ok {
			continue
		}
		i, ok := index[e.Doc]
		if !ok {
			var version *protocol.Integer
			if doc.HasVersion {
				v := protocol.Integer(doc.Version)
				version = &v
			}
			i = len(changes)
			index[e.Doc] = i
			changes = append(changes, protocol.TextDocumentEdit{
				TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{
					TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(doc.URI)},
					Version:                version,
				},
			})
		}
		group := changes[i].(protocol.TextDocumentEdit)
		group.Edits = append(group.Edits, protocol.TextEdit{
			Range:   toRange(doc.Text, e.Range),
			NewText: e.NewText,
		})
		changes[i] = group
	}
	return &protocol.WorkspaceEdit{DocumentChanges: changes}
}

func symbolKind(k analysis.SymbolKind) protocol.SymbolKind {
	switch k {
	case analysis.KindLabel:
		return protocol.SymbolKindKey
	case analysis.KindConst:
		return protocol.SymbolKindConstant
	case analysis.KindEnum:
		return protocol.SymbolKindEnumMember
	case analysis.KindMacro:
		return protocol.SymbolKindConstant
	case analysis.KindDefFunc, analysis.KindDefCFunc, analysis.KindLibFunc, analysis.KindPluginCmd:
		return protocol.SymbolKindFunction
	case analysis.KindModFunc, analysis.KindModCFunc, analysis.KindComFunc:
		return protocol.SymbolKindMethod
	case analysis.KindParam:
		return protocol.SymbolKindVariable
	case analysis.KindModule:
		return protocol.SymbolKindModule
	case analysis.KindField:
		return protocol.SymbolKindField
	case analysis.KindComInterface:
		return protocol.SymbolKindInterface
	}
	return protocol.SymbolKindVariable
}

func completionKind(k analysis.SymbolKind) protocol.CompletionItemKind {
	switch k {
	case analysis.KindLabel:
		return protocol.CompletionItemKindValue
	case analysis.KindConst, analysis.KindMacro:
		return protocol.CompletionItemKindConstant
	case analysis.KindEnum:
		return protocol.CompletionItemKindEnumMember
	case analysis.KindDefFunc, analysis.KindDefCFunc, analysis.KindLibFunc, analysis.KindPluginCmd, analysis.KindUnknown:
		return protocol.CompletionItemKindFunction
	case analysis.KindModFunc, analysis.KindModCFunc, analysis.KindComFunc:
		return protocol.CompletionItemKindMethod
	case analysis.KindModule:
		return protocol.CompletionItemKindModule
	case analysis.KindField:
		return protocol.CompletionItemKindField
	case analysis.KindComInterface:
		return protocol.CompletionItemKindInterface
	}
	return protocol.CompletionItemKindVariable
}
