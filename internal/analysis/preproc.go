package analysis

import (
	"strings"

	"github.com/shinyvision/hsp3ls/internal/parse"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

// Module is a #module block.
type Module struct {
	ID      ModuleID
	Name    string
	HasName bool
	Keyword source.Loc
	// Content runs from the # of #module to the end of #global, or to the
	// end of the enclosing region when #global is missing.
	Content    source.Loc
	Terminated bool
}

// DefFunc is a deffunc-like block.
type DefFunc struct {
	ID      DefFuncID
	Kind    parse.DefFuncKind
	Name    string
	Module  ModuleID
	Keyword source.Loc
	Content source.Loc
}

// Include is an #include or #addition edge before resolution.
type Include struct {
	// Path is the literal path as written, without quotes.
	Path     string
	Loc      source.Loc
	Optional bool
}

// normalizedIncludePath turns the literal into a slash-separated path.
// Both escaped and bare backslashes separate directories.
func normalizedIncludePath(s string) string {
	s = strings.ReplaceAll(s, `\\`, "/")
	return strings.ReplaceAll(s, `\`, "/")
}

func unquote(t *token.PToken) string {
	s := t.Text()
	if t.Kind() != token.Str {
		return s
	}
	s = strings.TrimPrefix(s, `{"`)
	s = strings.TrimSuffix(s, `"}`)
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

type preprocAnalyzer struct {
	a *DocAnalysis

	scope  LocalScope
	module *Module
}

// analyzePreproc extracts modules, deffuncs, includes and the symbols
// declared by directives and labels.
func analyzePreproc(a *DocAnalysis) {
	p := &preprocAnalyzer{a: a}
	p.stmts(a.Root.Stmts, a.Root.Eof.Start())
}

func (p *preprocAnalyzer) loc(start, end source.Pos) source.Loc {
	return source.Loc{Doc: p.a.Doc, Range: source.Range{Start: start, End: end}}
}

func (p *preprocAnalyzer) moduleName() (string, bool) {
	if p.module == nil {
		return "", false
	}
	return p.module.Name, p.module.HasName
}

func (p *preprocAnalyzer) addSymbol(kind SymbolKind, name *token.PToken, mode importMode, leader *token.PToken) *Symbol {
	if name == nil {
		return nil
	}
	moduleName, named := p.moduleName()
	ns := defScope(unquote(name), mode, p.scope, moduleName, named)

	def := name.Loc()
	sym := &Symbol{
		Kind:       kind,
		Name:       ns.base,
		Scope:      ns.scope,
		NS:         ns.ns,
		HasNS:      ns.hasNS,
		Leader:     leader,
		preprocDef: &def,
		Defs:       []source.Loc{def},
	}
	p.a.addSymbol(sym)
	return sym
}

func privacyMode(privacy parse.Privacy, def importMode) importMode {
	switch privacy {
	case parse.PrivacyGlobal:
		return importGlobal
	case parse.PrivacyLocal:
		return importLocal
	}
	return def
}

// stmts walks a statement list. end is the position the list's region
// stops at.
func (p *preprocAnalyzer) stmts(stmts []parse.Stmt, end source.Pos) {
	for i, s := range stmts {
		next := end
		if i+1 < len(stmts) {
			next = stmts[i+1].Pos()
		}
		p.stmt(s, next)
	}
}

func (p *preprocAnalyzer) stmt(s parse.Stmt, end source.Pos) {
	switch s := s.(type) {
	case *parse.Label:
		p.addSymbol(KindLabel, s.Name, importLocal, s.Star)

	case *parse.IfStmt:
		p.stmts(s.Body.Stmts(), end)
		p.stmts(s.Alt.Stmts(), end)

	case *parse.ConstStmt:
		p.addSymbol(KindConst, s.Name, privacyMode(s.Privacy, importLocal), s.Hash)

	case *parse.EnumStmt:
		p.addSymbol(KindEnum, s.Name, privacyMode(s.Privacy, importLocal), s.Hash)

	case *parse.DefineStmt:
		if sym := p.addSymbol(KindMacro, s.Name, privacyMode(s.Privacy, importLocal), s.Hash); sym != nil {
			sym.Ctype = s.Ctype != nil
		}

	case *parse.DefFuncStmt:
		p.defFunc(s, end)

	case *parse.LibFuncStmt:
		if s.OnExit != nil {
			return
		}
		if sym := p.addSymbol(KindLibFunc, s.Name, privacyMode(s.Privacy, importLocal), s.Hash); sym != nil {
			sym.Signature = &Signature{
				Name:   sym.Name,
				CFunc:  s.Keyword.Text() == "cfunc",
				Params: signatureParams(s.Params),
			}
		}

	case *parse.UseComStmt:
		p.addSymbol(KindComInterface, s.Name, privacyMode(s.Privacy, importLocal), s.Hash)

	case *parse.ComFuncStmt:
		if sym := p.addSymbol(KindComFunc, s.Name, privacyMode(s.Privacy, importGlobal), s.Hash); sym != nil {
			sym.Signature = &Signature{Name: sym.Name, Params: signatureParams(s.Params)}
		}

	case *parse.CmdStmt:
		p.addSymbol(KindPluginCmd, s.Name, privacyMode(s.Privacy, importLocal), s.Hash)

	case *parse.ModuleStmt:
		p.moduleStmt(s, end)

	case *parse.IncludeStmt:
		if s.Path == nil {
			return
		}
		p.a.Includes = append(p.a.Includes, Include{
			Path:     unquote(s.Path),
			Loc:      p.loc(s.Hash.Start(), s.Path.Loc().End()),
			Optional: s.Optional,
		})
	}
}

func signatureParams(params []parse.Param) []SignatureParam {
	var out []SignatureParam
	for _, param := range params {
		if param.TypeToken == nil && param.Name == nil {
			continue
		}
		if param.TypeToken != nil && !param.Type.TakesArg() {
			continue
		}
		sp := SignatureParam{Type: param.Type}
		if param.Name != nil {
			sp.Name = param.Name.Text()
		}
		out = append(out, sp)
	}
	return out
}

func (p *preprocAnalyzer) defFunc(s *parse.DefFuncStmt, end source.Pos) {
	a := p.a
	id := DefFuncID{Doc: a.Doc, Index: len(a.DefFuncs) + 1}
	df := &DefFunc{
		ID:      id,
		Kind:    s.Kind,
		Module:  p.scope.Module,
		Keyword: s.Keyword.Loc(),
		Content: p.loc(s.Hash.Start(), end),
	}
	a.DefFuncs = append(a.DefFuncs, df)
	a.defFuncOf[s] = id

	if s.OnExit == nil {
		kind := KindDefFunc
		switch s.Kind {
		case parse.DefCFunc:
			kind = KindDefCFunc
		case parse.ModFunc, parse.ModInit, parse.ModTerm:
			kind = KindModFunc
		case parse.ModCFunc:
			kind = KindModCFunc
		}
		if sym := p.addSymbol(kind, s.Name, privacyMode(s.Privacy, importGlobal), s.Hash); sym != nil {
			df.Name = sym.Name
			if s.Kind != parse.ModInit && s.Kind != parse.ModTerm {
				sig := &Signature{Name: sym.Name, CFunc: s.Kind.IsCFunc()}
				if s.Kind.IsMod() {
					sig.Params = append(sig.Params, SignatureParam{Type: parse.ParamModVar, Name: "thismod"})
				}
				sig.Params = append(sig.Params, signatureParams(s.Params)...)
				sym.Signature = sig
			}
		}
	}

	outer := p.scope
	p.scope = LocalScope{Module: outer.Module, DefFunc: id}
	for _, param := range s.Params {
		if sym := p.addSymbol(KindParam, param.Name, importParam, s.Hash); sym != nil {
			sym.ParamType = param.Type
		}
	}
	p.stmts(s.Stmts, end)
	p.scope = outer
}

func (p *preprocAnalyzer) moduleStmt(s *parse.ModuleStmt, end source.Pos) {
	a := p.a
	id := ModuleID{Doc: a.Doc, Index: len(a.Modules) + 1}
	m := &Module{
		ID:         id,
		Keyword:    s.Keyword.Loc(),
		Content:    p.loc(s.Hash.Start(), end),
		Terminated: s.Global != nil,
	}
	if s.Global != nil {
		m.Content.Range.End = s.Global.Keyword.Loc().End()
	}
	if s.Name != nil {
		m.Name, m.HasName = unquote(s.Name), true
	}
	a.Modules = append(a.Modules, m)
	a.moduleOf[s] = id

	outerScope, outerModule := p.scope, p.module
	p.scope, p.module = LocalScope{Module: id}, m

	p.addSymbol(KindModule, s.Name, importGlobal, s.Hash)
	for _, field := range s.Fields {
		p.addSymbol(KindField, field.Name, importLocal, s.Hash)
	}
	p.stmts(s.Stmts, m.Content.End())

	p.scope, p.module = outerScope, outerModule
}
