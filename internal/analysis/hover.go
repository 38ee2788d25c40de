package analysis

import (
	"fmt"
	"strings"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

// HoverInfo is what the editor shows for the name under the cursor.
type HoverInfo struct {
	Loc     source.Loc
	Title   string
	Details Details
}

// Markdown renders the hover text.
func (h HoverInfo) Markdown() string {
	var b strings.Builder
	b.WriteString(h.Title)
	if h.Details.Desc != "" {
		b.WriteString("\r\n\r\n")
		b.WriteString(h.Details.Desc)
	}
	for _, doc := range h.Details.Docs {
		b.WriteString("\r\n\r\n---\r\n\r\n")
		b.WriteString(doc)
	}
	return b.String()
}

// Hover describes the symbol at pos. Names without a definition fall back
// to the help entry of the same name.
func (w *Workspace) Hover(doc source.DocID, pos source.Pos) (HoverInfo, bool) {
	sym, loc, ok := w.Locate(doc, pos)
	if !ok {
		return HoverInfo{}, false
	}

	details := sym.ComputeDetails()
	if details.IsEmpty() || sym.Kind == KindUnresolved {
		if entry := w.builtinHelpSymbol(sym.Name); entry != nil {
			return HoverInfo{
				Loc:     loc,
				Title:   fmt.Sprintf("`%s`", sym.Name),
				Details: entry.ComputeDetails(),
			}, true
		}
	}
	return HoverInfo{
		Loc:     loc,
		Title:   fmt.Sprintf("`%s` (%s)", sym.Name, sym.KindLabel()),
		Details: details,
	}, true
}

// SignatureInfo is a rendered signature. Params are byte ranges in Label.
type SignatureInfo struct {
	Label       string
	Params      [][2]int
	ActiveParam int
	Details     Details
}

func renderSignature(sig *Signature) (string, [][2]int) {
	var b strings.Builder
	b.WriteString(sig.Name)
	if sig.CFunc {
		b.WriteString("(")
	} else if len(sig.Params) > 0 {
		b.WriteString(" ")
	}

	var params [][2]int
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		start := b.Len()
		typ := p.Type.String()
		switch {
		case typ != "" && p.Name != "":
			b.WriteString(typ + " " + p.Name)
		case typ != "":
			b.WriteString(typ)
		default:
			b.WriteString(p.Name)
		}
		params = append(params, [2]int{start, b.Len()})
	}
	if sig.CFunc {
		b.WriteString(")")
	}
	return b.String(), params
}

func (w *Workspace) signatureOf(sym *Symbol) (*Signature, Details) {
	details := sym.ComputeDetails()
	switch {
	case sym.Signature != nil:
		return sym.Signature, details
	case sym.Linked != nil && sym.Linked.Signature != nil:
		return sym.Linked.Signature, details
	}
	if entry := w.builtinHelpSymbol(sym.Name); entry != nil && len(entry.Signature.Params) > 0 {
		return entry.Signature, entry.ComputeDetails()
	}
	return nil, Details{}
}

// SignatureHelp finds the command or function call around pos and shows
// its parameters.
func (w *Workspace) SignatureHelp(doc source.DocID, pos source.Pos) (SignatureInfo, bool) {
	a, ok := w.Doc(doc)
	if !ok || a.Tokens == nil || w.InStrOrComment(doc, pos) {
		return SignatureInfo{}, false
	}

	commas, depth := 0, 0
	for i := a.tokenIndexBefore(pos); i >= 0; i-- {
		t := a.Tokens[i]
		switch t.Kind() {
		case token.RightParen:
			depth++
		case token.Comma:
			if depth == 0 {
				commas++
			}
		case token.LeftParen:
			if depth > 0 {
				depth--
				continue
			}
			if i > 0 && a.Tokens[i-1].Kind() == token.Ident {
				if info, ok := w.signatureAt(a, a.Tokens[i-1], commas); ok {
					return info, true
				}
			}
			commas = 0
		case token.Eos, token.Colon, token.LeftBrace, token.RightBrace:
			if i+1 < len(a.Tokens) {
				return w.commandSignature(a, a.Tokens[i+1], pos, commas)
			}
			return SignatureInfo{}, false
		}
		if i == 0 {
			return w.commandSignature(a, t, pos, commas)
		}
	}
	return SignatureInfo{}, false
}

func (w *Workspace) commandSignature(a *DocAnalysis, head *token.PToken, pos source.Pos, commas int) (SignatureInfo, bool) {
	if head.Kind() != token.Ident || pos.Index <= head.Loc().End().Index {
		return SignatureInfo{}, false
	}
	return w.signatureAt(a, head, commas)
}

func (w *Workspace) signatureAt(a *DocAnalysis, name *token.PToken, commas int) (SignatureInfo, bool) {
	sym, _, ok := w.Locate(a.Doc, name.Start())
	if !ok {
		return SignatureInfo{}, false
	}
	sig, details := w.signatureOf(sym)
	if sig == nil {
		return SignatureInfo{}, false
	}
	label, params := renderSignature(sig)
	return SignatureInfo{Label: label, Params: params, ActiveParam: commas, Details: details}, true
}
