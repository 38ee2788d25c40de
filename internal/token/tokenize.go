package token

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shinyvision/hsp3ls/internal/source"
)

// Token is a lexeme with its location.
type Token struct {
	Kind Kind
	Text string
	Loc  source.Loc
}

type tokenizer struct {
	doc    source.DocID
	text   string
	start  int
	cur    int
	pos    source.Pos
	tokens []Token
}

func (tx *tokenizer) nth(n int) rune {
	i := tx.cur
	for ; n > 0 && i < len(tx.text); n-- {
		_, size := utf8.DecodeRuneInString(tx.text[i:])
		i += size
	}
	if i >= len(tx.text) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(tx.text[i:])
	return r
}

func (tx *tokenizer) next() rune { return tx.nth(0) }

func (tx *tokenizer) eof() bool { return tx.cur >= len(tx.text) }

func (tx *tokenizer) bump() {
	if tx.eof() {
		return
	}
	_, size := utf8.DecodeRuneInString(tx.text[tx.cur:])
	tx.cur += size
}

func (tx *tokenizer) bumpN(n int) {
	for ; n > 0; n-- {
		tx.bump()
	}
}

func (tx *tokenizer) bumpBytes(n int) {
	tx.cur += n
	if tx.cur > len(tx.text) {
		tx.cur = len(tx.text)
	}
}

func (tx *tokenizer) eat(s string) bool {
	if strings.HasPrefix(tx.text[tx.cur:], s) {
		tx.cur += len(s)
		return true
	}
	return false
}

func (tx *tokenizer) commit(kind Kind) {
	text := tx.text[tx.start:tx.cur]
	end := tx.pos.Advance(text)
	tx.tokens = append(tx.tokens, Token{
		Kind: kind,
		Text: text,
		Loc:  source.Loc{Doc: tx.doc, Range: source.Range{Start: tx.pos, End: end}},
	})
	tx.start = tx.cur
	tx.pos = end
}

type lookahead int

const (
	laEof lookahead = iota
	laNewline
	laBlank
	laSemi
	laSlashSlash
	laSlashStar
	laZeroB
	laZeroX
	laDollar
	laDigit
	laSingleQuote
	laDoubleQuote
	laHereDoc
	laIdent
	laToken
	laBad
)

func (tx *tokenizer) lookahead() (lookahead, Kind, int) {
	if tx.eof() {
		return laEof, Eof, 0
	}

	c := tx.next()
	switch c {
	case '\n':
		return laNewline, Newlines, 0
	case '\r':
		if tx.nth(1) == '\n' {
			return laNewline, Newlines, 0
		}
		return laBlank, Blank, 0
	case ' ', '\t', '　':
		return laBlank, Blank, 0
	case ';':
		return laSemi, Comment, 0
	case '0':
		switch tx.nth(1) {
		case 'b', 'B':
			return laZeroB, Number, 0
		case 'x', 'X':
			return laZeroX, Number, 0
		}
		return laDigit, Number, 0
	case '$':
		return laDollar, Number, 0
	case '\'':
		return laSingleQuote, Char, 0
	case '"':
		return laDoubleQuote, Str, 0
	case '{':
		if tx.nth(1) == '"' {
			return laHereDoc, Str, 0
		}
		return laToken, LeftBrace, 1
	case '}':
		return laToken, RightBrace, 1
	case '(':
		return laToken, LeftParen, 1
	case ')':
		return laToken, RightParen, 1
	case ':':
		return laToken, Colon, 1
	case ',':
		return laToken, Comma, 1
	case '.':
		return laToken, Dot, 1
	case '#':
		return laToken, Hash, 1
	case '%':
		return laToken, Percent, 1
	case '<':
		switch tx.nth(1) {
		case '=':
			return laToken, LeftEqual, 2
		case '<':
			return laToken, LeftShift, 2
		}
		return laToken, LeftAngle, 1
	case '>':
		switch tx.nth(1) {
		case '=':
			return laToken, RightEqual, 2
		case '>':
			return laToken, RightShift, 2
		}
		return laToken, RightAngle, 1
	case '&':
		switch tx.nth(1) {
		case '&':
			return laToken, AndAnd, 2
		case '=':
			return laToken, AndEqual, 2
		}
		return laToken, And, 1
	case '\\':
		if tx.nth(1) == '=' {
			return laToken, BackslashEqual, 2
		}
		return laToken, Backslash, 1
	case '!':
		if tx.nth(1) == '=' {
			return laToken, BangEqual, 2
		}
		return laToken, Bang, 1
	case '=':
		if tx.nth(1) == '=' {
			return laToken, EqualEqual, 2
		}
		return laToken, Equal, 1
	case '^':
		if tx.nth(1) == '=' {
			return laToken, HatEqual, 2
		}
		return laToken, Hat, 1
	case '-':
		switch tx.nth(1) {
		case '=':
			return laToken, MinusEqual, 2
		case '-':
			return laToken, MinusMinus, 2
		case '>':
			return laToken, SlimArrow, 2
		}
		return laToken, Minus, 1
	case '|':
		switch tx.nth(1) {
		case '=':
			return laToken, PipeEqual, 2
		case '|':
			return laToken, PipePipe, 2
		}
		return laToken, Pipe, 1
	case '+':
		switch tx.nth(1) {
		case '=':
			return laToken, PlusEqual, 2
		case '+':
			return laToken, PlusPlus, 2
		}
		return laToken, Plus, 1
	case '/':
		switch tx.nth(1) {
		case '/':
			return laSlashSlash, Comment, 0
		case '*':
			return laSlashStar, Comment, 0
		case '=':
			return laToken, SlashEqual, 2
		}
		return laToken, Slash, 1
	case '*':
		if tx.nth(1) == '=' {
			return laToken, StarEqual, 2
		}
		return laToken, Star, 1
	}

	switch {
	case '1' <= c && c <= '9':
		return laDigit, Number, 0
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', c == '_', c == '@':
		return laIdent, Ident, 0
	case unicode.IsSpace(c):
		return laBlank, Blank, 0
	case c >= utf8.RuneSelf && !unicode.IsControl(c) && c != utf8.RuneError:
		return laIdent, Ident, 0
	}
	return laBad, Bad, 0
}

func (tx *tokenizer) eatBlanks() {
	for !tx.eof() {
		c := tx.next()
		if c == '\n' || (c == '\r' && tx.nth(1) == '\n') {
			return
		}
		if c == ' ' || c == '\t' || c == '　' || c == '\r' || unicode.IsSpace(c) {
			tx.bump()
			continue
		}
		return
	}
}

// eatNewlines consumes newlines and the whitespace after them.
func (tx *tokenizer) eatNewlines() {
	for !tx.eof() {
		c := tx.next()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '　' || unicode.IsSpace(c) {
			tx.bump()
			continue
		}
		return
	}
}

// eatLine skips to the end of the line, leaving the newline itself.
func (tx *tokenizer) eatLine() {
	rest := tx.text[tx.cur:]
	n := strings.IndexByte(rest, '\n')
	if n < 0 {
		tx.bumpBytes(len(rest))
		return
	}
	if n >= 1 && rest[n-1] == '\r' {
		n--
	}
	tx.bumpBytes(n)
}

func (tx *tokenizer) eatWhile(pred func(rune) bool) {
	for !tx.eof() && pred(tx.next()) {
		tx.bump()
	}
}

func isDigit(c rune) bool    { return '0' <= c && c <= '9' }
func isBinDigit(c rune) bool { return c == '0' || c == '1' }
func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// eatDigitSuffix reads a fraction and an exponent after decimal digits.
func (tx *tokenizer) eatDigitSuffix() {
	if tx.eat(".") {
		tx.eatWhile(isDigit)
	}
	if c := tx.next(); c == 'e' || c == 'E' {
		tx.bump()
		if c := tx.next(); c == '+' || c == '-' {
			tx.bump()
		}
		tx.eatWhile(isDigit)
	}
}

// eatEscaped reads quoted text up to the closing quote or end of line.
func (tx *tokenizer) eatEscaped(quote rune) {
	for !tx.eof() {
		switch c := tx.next(); {
		case c == '\n' || c == '\r':
			return
		case c == '\\':
			tx.bump()
			if n := tx.next(); n != '\n' && n != '\r' {
				tx.bump()
			}
		case c == quote:
			return
		default:
			tx.bump()
		}
	}
}

func (tx *tokenizer) run() {
	for {
		la, kind, n := tx.lookahead()
		switch la {
		case laEof:
			tx.commit(Eof)
			return
		case laNewline:
			tx.eatNewlines()
			tx.commit(Newlines)
		case laBlank:
			tx.eatBlanks()
			if tx.cur == tx.start {
				tx.bump()
			}
			tx.commit(Blank)
		case laSemi:
			tx.bump()
			tx.eatLine()
			tx.commit(Comment)
		case laSlashSlash:
			tx.bumpN(2)
			tx.eatLine()
			tx.commit(Comment)
		case laSlashStar:
			tx.bumpN(2)
			if i := strings.Index(tx.text[tx.cur:], "*/"); i >= 0 {
				tx.bumpBytes(i + 2)
			} else {
				tx.bumpBytes(len(tx.text))
			}
			tx.commit(Comment)
		case laZeroB:
			tx.bumpN(2)
			tx.eatWhile(isBinDigit)
			tx.commit(Number)
		case laZeroX:
			tx.bumpN(2)
			tx.eatWhile(isHexDigit)
			tx.commit(Number)
		case laDollar:
			tx.bump()
			tx.eatWhile(isHexDigit)
			tx.commit(Number)
		case laDigit:
			tx.eatWhile(isDigit)
			tx.eatDigitSuffix()
			tx.commit(Number)
		case laSingleQuote:
			tx.bump()
			tx.eatEscaped('\'')
			tx.eat("'")
			tx.commit(Char)
		case laDoubleQuote:
			tx.bump()
			tx.eatEscaped('"')
			tx.eat(`"`)
			tx.commit(Str)
		case laHereDoc:
			tx.bumpN(2)
			if i := strings.Index(tx.text[tx.cur:], `"}`); i >= 0 {
				tx.bumpBytes(i + 2)
			} else {
				tx.bumpBytes(len(tx.text))
			}
			tx.commit(Str)
		case laIdent:
			tx.bump()
			tx.eatWhile(isIdentChar)
			tx.commit(Ident)
		case laToken:
			tx.bumpN(n)
			tx.commit(kind)
		case laBad:
			tx.bump()
			for {
				if la, _, _ := tx.lookahead(); la != laBad {
					break
				}
				tx.bump()
			}
			tx.commit(Bad)
		}
	}
}

func isIdentChar(c rune) bool {
	switch {
	case isDigit(c), 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', c == '_', c == '@':
		return true
	case c >= utf8.RuneSelf:
		return !unicode.IsControl(c) && !unicode.IsSpace(c) && c != utf8.RuneError
	}
	return false
}

// Tokenize splits text into tokens. The result always ends with Eof.
// It is deterministic and keeps no state between calls.
func Tokenize(doc source.DocID, text string) []Token {
	tx := &tokenizer{doc: doc, text: text}
	tx.run()
	return tx.tokens
}
