package parse

// Inspect traverses the statements in pre-order, calling f for every
// statement and expression. If f returns false the children of that node
// are skipped. Define bodies are token lists and are not visited.
func Inspect(stmts []Stmt, f func(Node) bool) {
	for _, s := range stmts {
		inspectStmt(s, f)
	}
}

// InspectExpr traverses a single expression.
func InspectExpr(e Expr, f func(Node) bool) {
	inspectExpr(e, f)
}

func inspectArgs(args []Arg, f func(Node) bool) {
	for _, a := range args {
		inspectExpr(a.Expr, f)
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e == nil || !f(e) {
		return
	}
	switch e := e.(type) {
	case *CallExpr:
		inspectArgs(e.Args, f)
	case *DotsExpr:
		for _, a := range e.Args {
			inspectExpr(a.Expr, f)
		}
	case *ParenExpr:
		inspectExpr(e.Body, f)
	case *PrefixExpr:
		inspectExpr(e.Arg, f)
	case *InfixExpr:
		inspectExpr(e.Left, f)
		inspectExpr(e.Right, f)
	}
}

func inspectStmt(s Stmt, f func(Node) bool) {
	if s == nil || !f(s) {
		return
	}
	switch s := s.(type) {
	case *AssignStmt:
		inspectExpr(s.Left, f)
		inspectArgs(s.Args, f)
	case *CommandStmt:
		inspectArgs(s.Args, f)
	case *InvokeStmt:
		inspectExpr(s.Left, f)
		inspectExpr(s.Method, f)
		inspectArgs(s.Args, f)
	case *IfStmt:
		inspectExpr(s.Cond, f)
		Inspect(s.Body.Stmts(), f)
		Inspect(s.Alt.Stmts(), f)
	case *ConstStmt:
		inspectExpr(s.Init, f)
	case *EnumStmt:
		inspectExpr(s.Init, f)
	case *RegCmdStmt:
		inspectArgs(s.Args, f)
	case *DefFuncStmt:
		Inspect(s.Stmts, f)
	case *ModuleStmt:
		Inspect(s.Stmts, f)
		if s.Global != nil {
			inspectStmt(s.Global, f)
		}
	}
}
