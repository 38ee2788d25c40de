package parse

import "github.com/shinyvision/hsp3ls/internal/token"

func isEndOfPreproc(k token.Kind) bool {
	return k == token.Eof || k == token.Eos
}

// isDefFuncTerminator reports whether t names a directive that ends the
// body of a deffunc-like statement.
func isDefFuncTerminator(t *PToken) bool {
	if t.Kind() != token.Ident {
		return false
	}
	if _, ok := defFuncKeywords[t.Text()]; ok {
		return true
	}
	return t.Text() == "module" || t.Text() == "global"
}

func (p *parser) parseEndOfPreproc() {
	for !isEndOfPreproc(p.next()) {
		p.skip()
	}
}

func (p *parser) eatRestOfLine() []*PToken {
	var tokens []*PToken
	for !isEndOfPreproc(p.next()) {
		tokens = append(tokens, p.bump())
	}
	return tokens
}

func (p *parser) parsePrivacy() (Privacy, *PToken) {
	if p.next() != token.Ident {
		return PrivacyNone, nil
	}
	if privacy, ok := parsePrivacy(p.nextToken().Text()); ok {
		return privacy, p.bump()
	}
	return PrivacyNone, nil
}

func (p *parser) parsePreproc() Stmt {
	hash := p.eat(token.Hash)
	if hash == nil {
		return nil
	}

	keyword := p.nextToken().Text()
	if p.next() != token.Ident {
		keyword = ""
	}

	switch keyword {
	case "const":
		return p.parseConst(hash)
	case "enum":
		return p.parseEnum(hash)
	case "define":
		return p.parseDefine(hash)
	case "uselib":
		s := &UseLibStmt{Hash: hash, Keyword: p.bump()}
		s.Path = p.eat(token.Str)
		p.parseEndOfPreproc()
		return s
	case "usecom":
		s := &UseComStmt{Hash: hash, Keyword: p.bump()}
		s.Privacy, s.PrivacyToken = p.parsePrivacy()
		s.Name = p.eat(token.Ident)
		s.Args = p.eatRestOfLine()
		return s
	case "comfunc":
		s := &ComFuncStmt{Hash: hash, Keyword: p.bump()}
		s.Privacy, s.PrivacyToken = p.parsePrivacy()
		s.Name = p.eat(token.Ident)
		s.Index = p.eat(token.Number)
		s.Params = p.parseParams()
		p.parseEndOfPreproc()
		return s
	case "func", "cfunc":
		return p.parseLibFunc(hash)
	case "regcmd":
		s := &RegCmdStmt{Hash: hash, Keyword: p.bump()}
		s.Args = p.parseArgs()
		p.parseEndOfPreproc()
		return s
	case "cmd":
		s := &CmdStmt{Hash: hash, Keyword: p.bump()}
		s.Privacy, s.PrivacyToken = p.parsePrivacy()
		s.Name = p.eat(token.Ident)
		s.CommandID = p.eat(token.Number)
		p.parseEndOfPreproc()
		return s
	case "module":
		return p.parseModule(hash)
	case "global":
		return p.parseGlobal(hash)
	case "include", "addition":
		s := &IncludeStmt{Hash: hash, Keyword: p.bump(), Optional: keyword == "addition"}
		s.Path = p.eat(token.Str)
		p.parseEndOfPreproc()
		return s
	case "undef":
		s := &UndefStmt{Hash: hash, Keyword: p.bump()}
		s.Name = p.eat(token.Ident)
		p.parseEndOfPreproc()
		return s
	}

	if kind, ok := defFuncKeywords[keyword]; ok {
		return p.parseDefFunc(hash, kind)
	}
	return &UnknownPreprocStmt{Hash: hash, Tokens: p.eatRestOfLine()}
}

func (p *parser) parseConst(hash *PToken) *ConstStmt {
	s := &ConstStmt{Hash: hash, Keyword: p.bump()}
	s.Privacy, s.PrivacyToken = p.parsePrivacy()
	if p.nextIs("double") || p.nextIs("int") {
		s.Type = p.bump()
	}
	s.Name = p.eat(token.Ident)
	s.Init = p.parseExpr()
	p.parseEndOfPreproc()
	return s
}

func (p *parser) parseEnum(hash *PToken) *EnumStmt {
	s := &EnumStmt{Hash: hash, Keyword: p.bump()}
	s.Privacy, s.PrivacyToken = p.parsePrivacy()
	s.Name = p.eat(token.Ident)
	s.Equal = p.eat(token.Equal)
	s.Init = p.parseExpr()
	p.parseEndOfPreproc()
	return s
}

func (p *parser) parseMacroParams() []MacroParam {
	var params []MacroParam
	for {
		switch p.next() {
		case token.Eof, token.Eos, token.RightParen:
			return params
		}

		var param MacroParam
		param.Percent = p.eat(token.Percent)
		param.Number = p.eat(token.Number)
		if param.Equal = p.eat(token.Equal); param.Equal != nil {
			if t := p.eat(token.Percent); t != nil {
				param.Init = append(param.Init, t)
			}
			switch p.next() {
			case token.Eof, token.Eos, token.LeftParen, token.RightParen, token.Comma:
			default:
				param.Init = append(param.Init, p.bump())
			}
		}
		param.Comma = p.eat(token.Comma)
		params = append(params, param)
		if param.Comma == nil {
			return params
		}
	}
}

func (p *parser) parseDefine(hash *PToken) *DefineStmt {
	s := &DefineStmt{Hash: hash, Keyword: p.bump()}
	s.Privacy, s.PrivacyToken = p.parsePrivacy()
	s.Ctype = p.eatIdent("ctype")
	s.Name = p.eat(token.Ident)

	// a parameter list only when `(` touches the macro name
	if s.Name != nil && p.next() == token.LeftParen &&
		s.Name.Loc().Range.End.Index == p.nextToken().Start().Index {
		s.LeftParen = p.bump()
		s.Params = p.parseMacroParams()
		s.RightParen = p.eat(token.RightParen)
	}

	s.Tokens = p.eatRestOfLine()
	return s
}

func (p *parser) parseParams() []Param {
	var params []Param
	for {
		switch p.next() {
		case token.Eof, token.Eos:
			return params
		case token.Comma:
			params = append(params, Param{Comma: p.bump()})
		case token.Ident:
			var param Param
			if t, ok := ParseParamType(p.nextToken().Text()); ok {
				param.Type = t
				param.TypeToken = p.bump()
			}
			param.Name = p.eat(token.Ident)
			param.Comma = p.eat(token.Comma)
			params = append(params, param)
			if param.Comma == nil {
				return params
			}
		default:
			p.skip()
		}
	}
}

func (p *parser) parseDefFunc(hash *PToken, kind DefFuncKind) *DefFuncStmt {
	s := &DefFuncStmt{Hash: hash, Keyword: p.bump(), Kind: kind}
	s.Privacy, s.PrivacyToken = p.parsePrivacy()
	if kind != ModInit && kind != ModTerm {
		s.Name = p.eat(token.Ident)
	}
	s.OnExit = p.eatIdent("onexit")
	s.Params = p.parseParams()
	p.parseEndOfPreproc()

	for !p.atEnd() {
		switch p.next() {
		case token.Eos, token.LeftBrace, token.RightBrace, token.Colon:
			p.skip()
			continue
		case token.Hash:
			if isDefFuncTerminator(p.nthToken(1)) {
				return s
			}
		}
		if stmt := p.parseStmt(); stmt != nil {
			s.Stmts = append(s.Stmts, stmt)
		} else {
			p.skip()
		}
	}
	return s
}

func (p *parser) parseLibFunc(hash *PToken) *LibFuncStmt {
	s := &LibFuncStmt{Hash: hash, Keyword: p.bump()}
	s.Privacy, s.PrivacyToken = p.parsePrivacy()
	s.Name = p.eat(token.Ident)
	s.OnExit = p.eatIdent("onexit")
	if k := p.next(); k == token.Ident || k == token.Str {
		s.FuncName = p.bump()
	}
	s.TypeID = p.eat(token.Number)
	s.Params = p.parseParams()
	p.parseEndOfPreproc()
	return s
}

func (p *parser) parseModule(hash *PToken) *ModuleStmt {
	s := &ModuleStmt{Hash: hash, Keyword: p.bump()}
	if k := p.next(); k == token.Ident || k == token.Str {
		s.Name = p.bump()
	}
	s.Fields = p.parseParams()
	p.parseEndOfPreproc()

	for !p.atEnd() {
		switch p.next() {
		case token.Eos, token.LeftBrace, token.RightBrace, token.Colon:
			p.skip()
			continue
		case token.Hash:
			if t := p.nthToken(1); t.Kind() == token.Ident && t.Text() == "module" {
				return s
			}
		}
		switch stmt := p.parseStmt().(type) {
		case nil:
			p.skip()
		case *GlobalStmt:
			s.Global = stmt
			return s
		default:
			s.Stmts = append(s.Stmts, stmt)
		}
	}
	return s
}

func (p *parser) parseGlobal(hash *PToken) *GlobalStmt {
	s := &GlobalStmt{Hash: hash, Keyword: p.bump()}
	p.parseEndOfPreproc()
	return s
}
