package token

import "github.com/shinyvision/hsp3ls/internal/source"

// PToken is a significant token together with the trivia around it.
type PToken struct {
	Leading  []Token
	Body     Token
	Trailing []Token
}

func (t *PToken) Kind() Kind        { return t.Body.Kind }
func (t *PToken) Text() string      { return t.Body.Text }
func (t *PToken) Loc() source.Loc   { return t.Body.Loc }
func (t *PToken) Start() source.Pos { return t.Body.Loc.Range.Start }

// Behind is the end of the token including trailing trivia.
func (t *PToken) Behind() source.Pos {
	if n := len(t.Trailing); n > 0 {
		return t.Trailing[n-1].Loc.Range.End
	}
	return t.Body.Loc.Range.End
}

// Ahead is the start of the token including leading trivia.
func (t *PToken) Ahead() source.Pos {
	if len(t.Leading) > 0 {
		return t.Leading[0].Loc.Range.Start
	}
	return t.Body.Loc.Range.Start
}

// All returns leading trivia, body and trailing trivia in order.
func (t *PToken) All() []Token {
	out := make([]Token, 0, len(t.Leading)+1+len(t.Trailing))
	out = append(out, t.Leading...)
	out = append(out, t.Body)
	return append(out, t.Trailing...)
}

// Group attaches trivia to the significant tokens and inserts an Eos token
// before every newline and before the end of file.
func Group(tokens []Token) []*PToken {
	var (
		out      []*PToken
		leading  []Token
		trailing []Token
	)

	i := 0
	for i < len(tokens) {
		for i < len(tokens) && tokens[i].Kind.IsLeadingTrivia() {
			leading = append(leading, tokens[i])
			i++
		}
		if i >= len(tokens) {
			break
		}

		body := tokens[i]
		i++
		if body.Kind != Eof {
			for i < len(tokens) && tokens[i].Kind.IsTrailingTrivia() {
				trailing = append(trailing, tokens[i])
				i++
			}
		}

		if body.Kind == Eof && len(out) > 0 && out[len(out)-1].Kind() != Eos {
			out = append(out, eosAfter(out[len(out)-1]))
		}

		out = append(out, &PToken{Leading: leading, Body: body, Trailing: trailing})
		leading, trailing = nil, nil

		if body.Kind != Eof && i < len(tokens) && tokens[i].Kind == Newlines {
			out = append(out, eosAfter(out[len(out)-1]))
		}
	}

	return out
}

func eosAfter(t *PToken) *PToken {
	p := t.Behind()
	return &PToken{Body: Token{
		Kind: Eos,
		Loc:  source.Loc{Doc: t.Body.Loc.Doc, Range: source.Range{Start: p, End: p}},
	}}
}
