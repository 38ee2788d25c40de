package analysis

import (
	"fmt"

	"github.com/shinyvision/hsp3ls/internal/parse"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

type env map[string]*Symbol

func (w *Workspace) nsEnvFor(ns string) env {
	e, ok := w.nsEnv[ns]
	if !ok {
		e = make(env)
		w.nsEnv[ns] = e
	}
	return e
}

// buildPublicEnv collects the public preproc symbols of the active scripts.
// Later documents win on name clashes; the losing definition gets a warning.
func (w *Workspace) buildPublicEnv() {
	w.globalEnv = make(env)
	w.nsEnv = make(map[string]env)
	w.envDiagnostics = make(map[source.DocID][]Diagnostic)

	reported := make(map[*Symbol]bool)
	insert := func(e env, sym *Symbol) {
		if old, ok := e[sym.Name]; ok && old != sym && old.Doc() != sym.Doc() && !reported[old] {
			reported[old] = true
			w.envDiagnostics[old.Doc()] = append(w.envDiagnostics[old.Doc()], Diagnostic{
				Code:     CodeDuplicatePublicSymbol,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s is also defined in another file", old.Name),
				Loc:      *old.preprocDef,
			})
			w.logger.Warningf("duplicate public symbol %s: doc:%d shadows doc:%d", sym.Name, sym.Doc(), old.Doc())
		}
		e[sym.Name] = sym
	}

	for _, id := range w.activeScripts() {
		for _, sym := range w.docs[id].PreprocSymbols() {
			if sym.Scope.Kind == ScopeGlobal {
				insert(w.globalEnv, sym)
			}
			if sym.HasNS {
				insert(w.nsEnvFor(sym.NS), sym)
			}
		}
	}
}

func (w *Workspace) activeScripts() []source.DocID {
	var out []source.DocID
	for _, id := range w.sortedDocs() {
		if w.active[id] && w.docs[id].Lang == source.LangHSP3 {
			out = append(out, id)
		}
	}
	return out
}

// commands whose first argument is a variable being defined.
var defCommands = map[string]bool{
	"ldim":    true,
	"sdim":    true,
	"ddim":    true,
	"dim":     true,
	"dimtype": true,
	"newlab":  true,
	"newmod":  true,
	"dup":     true,
	"dupptr":  true,
	"mref":    true,
}

type docResolver struct {
	w *Workspace
	a *DocAnalysis

	local  map[LocalScope]env
	scope  LocalScope
	module *Module
}

func (w *Workspace) resolveDoc(a *DocAnalysis) {
	r := &docResolver{w: w, a: a, local: make(map[LocalScope]env)}

	for _, sym := range a.PreprocSymbols() {
		if sym.Scope.Kind == ScopeLocal && !sym.Scope.Local.IsPublic() {
			r.localEnv(sym.Scope.Local)[sym.Name] = sym
		}
		if sym.preprocDef != nil {
			a.Occurrences = append(a.Occurrences, Occurrence{Loc: *sym.preprocDef, Symbol: sym, Def: true})
		}
	}

	r.stmts(a.Root.Stmts)
	a.finishSymbols()
}

func (r *docResolver) localEnv(scope LocalScope) env {
	e, ok := r.local[scope]
	if !ok {
		e = make(env)
		r.local[scope] = e
	}
	return e
}

func (r *docResolver) moduleName() (string, bool) {
	if r.module == nil {
		return "", false
	}
	return r.module.Name, r.module.HasName
}

func (r *docResolver) lookup(n Name, scope *LocalScope, ns string, hasNS bool) *Symbol {
	if scope != nil {
		if sym := r.local[*scope][n.Base]; sym != nil {
			return sym
		}
		if !scope.DefFunc.IsZero() {
			if sym := r.local[LocalScope{Module: scope.Module}][n.Base]; sym != nil {
				return sym
			}
		}
	}
	if hasNS {
		if sym := r.w.nsEnv[ns][n.Base]; sym != nil {
			return sym
		}
	}
	if n.Qual != QualModule {
		if sym := r.w.globalEnv[n.Base]; sym != nil {
			return sym
		}
	}
	return nil
}

// fresh introduces a symbol at its first occurrence.
func (r *docResolver) fresh(kind SymbolKind, t *token.PToken) *Symbol {
	moduleName, named := r.moduleName()
	ns := defScope(t.Text(), importLocal, r.scope, moduleName, named)
	sym := &Symbol{
		Kind:   kind,
		Name:   ns.base,
		Scope:  ns.scope,
		NS:     ns.ns,
		HasNS:  ns.hasNS,
		Leader: t,
	}
	r.a.addSymbol(sym)

	switch ns.scope.Kind {
	case ScopeGlobal:
		r.w.globalEnv[sym.Name] = sym
	case ScopeLocal:
		r.localEnv(ns.scope.Local)[sym.Name] = sym
	}
	if ns.hasNS {
		r.w.nsEnvFor(ns.ns)[sym.Name] = sym
	}
	return sym
}

// name binds an identifier token. Unknown names become variables in
// variable position and unresolved commands otherwise.
func (r *docResolver) name(t *token.PToken, def, isVar bool) {
	if t == nil {
		return
	}
	moduleName, named := r.moduleName()
	n, scope, ns, hasNS := useScope(t.Text(), r.scope, moduleName, named)
	sym := r.lookup(n, scope, ns, hasNS)
	if sym == nil {
		kind := KindUnresolved
		if def || isVar {
			kind = KindStaticVar
		}
		sym = r.fresh(kind, t)
	}
	r.a.addOccurrence(sym, t.Loc(), def)
}

func (r *docResolver) stmts(stmts []parse.Stmt) {
	for _, s := range stmts {
		r.stmt(s)
	}
}

func (r *docResolver) stmt(s parse.Stmt) {
	switch s := s.(type) {
	case *parse.AssignStmt:
		r.compound(s.Left, true)
		r.args(s.Args)

	case *parse.CommandStmt:
		r.name(s.Command, false, false)
		args := s.Args
		if defCommands[s.Command.Text()] && len(args) > 0 {
			if c, ok := args[0].Expr.(parse.Compound); ok {
				r.compound(c, true)
				args = args[1:]
			}
		}
		r.args(args)

	case *parse.InvokeStmt:
		r.compound(s.Left, false)
		r.expr(s.Method)
		r.args(s.Args)

	case *parse.IfStmt:
		r.expr(s.Cond)
		r.stmts(s.Body.Stmts())
		r.stmts(s.Alt.Stmts())

	case *parse.ConstStmt:
		r.expr(s.Init)

	case *parse.EnumStmt:
		r.expr(s.Init)

	case *parse.RegCmdStmt:
		r.args(s.Args)

	case *parse.DefFuncStmt:
		outer := r.scope
		r.scope = LocalScope{Module: outer.Module, DefFunc: r.a.defFuncOf[s]}
		r.stmts(s.Stmts)
		r.scope = outer

	case *parse.ModuleStmt:
		outerScope, outerModule := r.scope, r.module
		id := r.a.moduleOf[s]
		r.scope, r.module = LocalScope{Module: id}, r.a.Module(id)
		r.stmts(s.Stmts)
		r.scope, r.module = outerScope, outerModule
	}
}

func (r *docResolver) args(args []parse.Arg) {
	for _, arg := range args {
		r.expr(arg.Expr)
	}
}

func (r *docResolver) compound(c parse.Compound, def bool) {
	switch c := c.(type) {
	case *parse.NameExpr:
		r.name(c.Name, def, true)
	case *parse.CallExpr:
		r.name(c.Name, def, true)
		r.args(c.Args)
	case *parse.DotsExpr:
		r.name(c.Name, def, true)
		for _, arg := range c.Args {
			r.expr(arg.Expr)
		}
	}
}

func (r *docResolver) expr(e parse.Expr) {
	switch e := e.(type) {
	case nil:
	case *parse.Label:
		r.name(e.Name, false, false)
	case parse.Compound:
		r.compound(e, false)
	case *parse.ParenExpr:
		r.expr(e.Body)
	case *parse.PrefixExpr:
		r.expr(e.Arg)
	case *parse.InfixExpr:
		r.expr(e.Left)
		r.expr(e.Right)
	}
}
