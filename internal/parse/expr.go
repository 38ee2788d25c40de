package parse

import "github.com/shinyvision/hsp3ls/internal/token"

// Binding powers, weakest first.
const (
	bpBool = iota + 1
	bpCompare
	bpShift
	bpAddSub
	bpMulDiv
)

func bindingPower(k token.Kind) int {
	switch k {
	case token.And, token.AndAnd, token.Hat, token.Pipe, token.PipePipe:
		return bpBool
	case token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.LeftAngle, token.LeftEqual, token.RightAngle, token.RightEqual:
		return bpCompare
	case token.LeftShift, token.RightShift:
		return bpShift
	case token.Plus, token.Minus:
		return bpAddSub
	case token.Star, token.Slash, token.Backslash:
		return bpMulDiv
	}
	return 0
}

func (p *parser) parseLabel() *Label {
	star := p.eat(token.Star)
	if star == nil {
		return nil
	}
	return &Label{Star: star, Name: p.eat(token.Ident)}
}

func (p *parser) parseArgs() []Arg {
	var args []Arg
	for {
		switch p.next() {
		case token.Eof, token.Eos, token.LeftBrace, token.RightBrace, token.Colon, token.RightParen:
			return args
		case token.Comma:
			args = append(args, Arg{Comma: p.bump()})
		default:
			expr := p.parseExpr()
			if expr == nil {
				return args
			}
			args = append(args, Arg{Expr: expr, Comma: p.eat(token.Comma)})
		}
	}
}

func (p *parser) parseCompound() Compound {
	name := p.eat(token.Ident)
	if name == nil {
		return nil
	}

	switch p.next() {
	case token.Dot:
		e := &DotsExpr{Name: name}
		for p.next() == token.Dot {
			dot := p.bump()
			e.Args = append(e.Args, DotArg{Dot: dot, Expr: p.parseExpr()})
		}
		return e
	case token.LeftParen:
		e := &CallExpr{Name: name, LeftParen: p.bump()}
		e.Args = p.parseArgs()
		e.RightParen = p.eat(token.RightParen)
		return e
	}
	return &NameExpr{Name: name}
}

func (p *parser) parseAtomicExpr() Expr {
	switch p.next() {
	case token.Ident:
		if c := p.parseCompound(); c != nil {
			return c
		}
	case token.LeftParen:
		e := &ParenExpr{LeftParen: p.bump()}
		e.Body = p.parseExpr()
		e.RightParen = p.eat(token.RightParen)
		return e
	case token.Star:
		if l := p.parseLabel(); l != nil {
			return l
		}
	case token.Number, token.Char, token.Str:
		return &LiteralExpr{Token: p.bump()}
	}
	return nil
}

func (p *parser) parsePrefixExpr() Expr {
	if p.next() == token.Minus {
		e := &PrefixExpr{Prefix: p.bump()}
		e.Arg = p.parsePrefixExpr()
		return e
	}
	return p.parseAtomicExpr()
}

func (p *parser) parseInfixExpr(bp int) Expr {
	if bp > bpMulDiv {
		return p.parsePrefixExpr()
	}

	left := p.parseInfixExpr(bp + 1)
	if left == nil {
		return nil
	}
	for p.next().IsInfixOp() && bindingPower(p.next()) == bp {
		infix := p.bump()
		left = &InfixExpr{Left: left, Infix: infix, Right: p.parseInfixExpr(bp + 1)}
	}
	return left
}

func (p *parser) parseExpr() Expr {
	return p.parseInfixExpr(bpBool)
}
