package parse

import (
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

// lookaheadLimit bounds the scan that tells assignments from commands.
const lookaheadLimit = 30

// parser walks the grouped token stream. Tokens it cannot place in the tree
// end up in skipped.
type parser struct {
	tokens  []*PToken
	i       int
	skipped []*PToken
}

func (p *parser) nth(n int) token.Kind {
	if p.i+n < len(p.tokens) {
		return p.tokens[p.i+n].Kind()
	}
	return token.Eof
}

func (p *parser) nthToken(n int) *PToken {
	if p.i+n < len(p.tokens) {
		return p.tokens[p.i+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() token.Kind     { return p.nth(0) }
func (p *parser) nextToken() *PToken   { return p.nthToken(0) }
func (p *parser) nextIs(s string) bool { return p.next() == token.Ident && p.nextToken().Text() == s }
func (p *parser) atEnd() bool          { return p.i >= len(p.tokens)-1 }

func (p *parser) bump() *PToken {
	t := p.tokens[p.i]
	if p.i < len(p.tokens)-1 {
		p.i++
	}
	return t
}

func (p *parser) eat(kind token.Kind) *PToken {
	if p.next() == kind {
		return p.bump()
	}
	return nil
}

func (p *parser) eatIdent(s string) *PToken {
	if p.nextIs(s) {
		return p.bump()
	}
	return nil
}

func (p *parser) skip() {
	if p.atEnd() {
		return
	}
	p.skipped = append(p.skipped, p.bump())
}

// Parse builds the syntax tree of one document. It never fails: tokens that
// fit nowhere are collected in Root.Skipped.
func Parse(tokens []*PToken) *Root {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind() != token.Eof {
		eof := &PToken{Body: token.Token{Kind: token.Eof}}
		if n := len(tokens); n > 0 {
			end := tokens[n-1].Behind()
			eof.Body.Loc = source.Loc{Doc: tokens[n-1].Loc().Doc, Range: source.Range{Start: end, End: end}}
		}
		tokens = append(tokens, eof)
	}

	p := &parser{tokens: tokens}
	var stmts []Stmt
	for !p.atEnd() {
		switch p.next() {
		case token.Eos, token.Colon, token.LeftBrace, token.RightBrace:
			p.skip()
		default:
			if stmt := p.parseStmt(); stmt != nil {
				stmts = append(stmts, stmt)
			} else {
				p.skip()
			}
		}
	}

	return &Root{Stmts: stmts, Skipped: p.skipped, Eof: p.tokens[len(p.tokens)-1]}
}

// ParseText tokenizes and parses text in one step.
func ParseText(doc source.DocID, text string) ([]*PToken, *Root) {
	tokens := token.Group(token.Tokenize(doc, text))
	return tokens, Parse(tokens)
}

func (p *parser) parseStmt() Stmt {
	switch p.next() {
	case token.Ident:
		switch p.nextToken().Text() {
		case "if":
			return p.parseIf()
		case "else":
			return nil
		}
		return p.parseExprLikeStmt()
	case token.Star:
		if l := p.parseLabel(); l != nil {
			return l
		}
		return nil
	case token.Hash:
		return p.parsePreproc()
	}
	return nil
}

func (p *parser) parseEndOfStmt() {
	for !p.next().IsEndOfStmt() {
		p.skip()
	}
}

type exprLikeStmtKind int

const (
	stmtAssign exprLikeStmtKind = iota
	stmtCommand
	stmtInvoke
)

func (p *parser) lookaheadStmt() exprLikeStmtKind {
	second := p.nth(1)
	switch {
	case second == token.LeftParen:
		return p.lookaheadAfterParen(2)
	case second == token.Dot:
		return stmtAssign
	case second == token.SlimArrow:
		return stmtInvoke
	case (second == token.Plus || second == token.Minus) && p.nth(2).IsEndOfStmt():
		return stmtAssign
	}

	switch second.OpKind() {
	case token.OpInfixOrAssign, token.OpAssign:
		return stmtAssign
	}
	return stmtCommand
}

func (p *parser) lookaheadAfterParen(i int) exprLikeStmtKind {
	balance := 1
loop:
	for {
		kind := p.nth(i)
		i++

		switch {
		case kind == token.LeftParen:
			balance++
		case kind == token.RightParen:
			if balance <= 1 {
				break loop
			}
			balance--
		case kind == token.Comma && balance == 1:
			// a comma directly inside means an array index
			return stmtAssign
		case kind == token.SlimArrow:
			return stmtInvoke
		case kind.OpKind() == token.OpAssign:
			return stmtAssign
		case kind.IsEndOfStmt():
			break loop
		case i >= lookaheadLimit:
			return stmtCommand
		}
	}

	kind := p.nth(i)
	switch {
	case (kind == token.Plus || kind == token.Minus) && p.nth(i+1).IsEndOfStmt():
		return stmtAssign
	case kind == token.SlimArrow:
		return stmtInvoke
	case kind == token.Equal:
		// `a(i) = x` is an assignment even though `=` is also a comparison
		return stmtAssign
	case kind.IsEndOfStmt():
		return stmtCommand
	}
	switch kind.OpKind() {
	case token.OpAssign, token.OpPrefixOrInfixOrAssign:
		return stmtAssign
	}
	return stmtCommand
}

func (p *parser) parseExprLikeStmt() Stmt {
	switch p.lookaheadStmt() {
	case stmtAssign:
		return p.parseAssign()
	case stmtInvoke:
		return p.parseInvoke()
	}
	return p.parseCommand()
}

func (p *parser) parseAssign() Stmt {
	left := p.parseCompound()
	if left == nil {
		return nil
	}
	stmt := &AssignStmt{Left: left}
	if p.next().IsAssignOp() {
		stmt.Op = p.bump()
	}
	stmt.Args = p.parseArgs()
	p.parseEndOfStmt()
	return stmt
}

func (p *parser) parseCommand() Stmt {
	stmt := &CommandStmt{Command: p.bump()}
	if p.nextIs("goto") || p.nextIs("gosub") {
		stmt.Jump = p.bump()
	}
	stmt.Args = p.parseArgs()
	p.parseEndOfStmt()
	return stmt
}

func (p *parser) parseInvoke() Stmt {
	left := p.parseCompound()
	if left == nil {
		return nil
	}
	stmt := &InvokeStmt{Left: left}
	stmt.Arrow = p.eat(token.SlimArrow)
	stmt.Method = p.parseAtomicExpr()
	stmt.Args = p.parseArgs()
	p.parseEndOfStmt()
	return stmt
}

func (p *parser) parseBlock() Block {
	var block Block

	for block.LeftBrace == nil {
		switch p.next() {
		case token.Eof, token.Eos, token.RightBrace:
			return block
		case token.LeftBrace:
			block.LeftBrace = p.bump()
		case token.Colon:
			p.skip()
			if stmt := p.parseStmt(); stmt != nil {
				block.OuterStmts = append(block.OuterStmts, stmt)
			}
		default:
			if p.nextIs("else") {
				return block
			}
			p.skip()
		}
	}

	for {
		switch p.next() {
		case token.Eof:
			return block
		case token.RightBrace:
			block.RightBrace = p.bump()
			return block
		case token.Eos, token.Colon:
			p.skip()
		default:
			if stmt := p.parseStmt(); stmt != nil {
				block.InnerStmts = append(block.InnerStmts, stmt)
			} else {
				p.skip()
			}
		}
	}
}

func (p *parser) parseIf() Stmt {
	stmt := &IfStmt{Command: p.bump()}
	stmt.Cond = p.parseExpr()
	stmt.Body = p.parseBlock()

	// one line break is allowed before else
	if p.next() == token.Eos && p.nth(1) == token.Ident && p.nthToken(1).Text() == "else" {
		p.skip()
	}
	if p.nextIs("else") {
		stmt.Else = p.bump()
		stmt.Alt = p.parseBlock()
	}
	p.parseEndOfStmt()
	return stmt
}
