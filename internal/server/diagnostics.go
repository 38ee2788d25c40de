package server

import (
	"github.com/shinyvision/hsp3ls/internal/analysis"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "hsp3ls"

// publishDiagnostics sends the diagnostics of every document that has or
// had any. It must run on the queue.
func (s *Server) publishDiagnostics() {
	if s.notify == nil {
		return
	}
	for _, p := range s.state.Diagnostics() {
		var version *protocol.UInteger
		if p.Version != nil && *p.Version >= 0 {
			v := protocol.UInteger(*p.Version)
			version = &v
		}
		s.notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentUri(p.URI),
			Version:     version,
			Diagnostics: toDiagnostics(p.Text, p.Diagnostics),
		})
	}
}

func toDiagnostics(text string, diagnostics []analysis.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		severity := protocol.DiagnosticSeverityWarning
		if d.Severity == analysis.SeverityError {
			severity = protocol.DiagnosticSeverityError
		}
		src := diagnosticSource
		out = append(out, protocol.Diagnostic{
			Range:    toRange(text, d.Loc.Range),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: string(d.Code)},
			Source:   &src,
			Message:  d.Message,
		})
	}
	return out
}
