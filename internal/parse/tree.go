package parse

import (
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

type PToken = token.PToken

// Node is any statement or expression.
type Node interface {
	Pos() source.Pos
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// Compound is an expression that names something: x, x(i), x.i.
type Compound interface {
	Expr
	NameToken() *PToken
}

// Root is the result of parsing one document.
type Root struct {
	Stmts   []Stmt
	Skipped []*PToken
	Eof     *PToken
}

type Arg struct {
	Expr  Expr
	Comma *PToken
}

// Expressions.

type (
	LiteralExpr struct {
		Token *PToken
	}

	// Label is `*name`, both as a statement and as an expression.
	Label struct {
		Star *PToken
		Name *PToken
	}

	NameExpr struct {
		Name *PToken
	}

	CallExpr struct {
		Name       *PToken
		LeftParen  *PToken
		Args       []Arg
		RightParen *PToken
	}

	DotArg struct {
		Dot  *PToken
		Expr Expr
	}

	DotsExpr struct {
		Name *PToken
		Args []DotArg
	}

	ParenExpr struct {
		LeftParen  *PToken
		Body       Expr
		RightParen *PToken
	}

	PrefixExpr struct {
		Prefix *PToken
		Arg    Expr
	}

	InfixExpr struct {
		Left  Expr
		Infix *PToken
		Right Expr
	}
)

func (e *LiteralExpr) Pos() source.Pos { return e.Token.Start() }
func (e *Label) Pos() source.Pos       { return e.Star.Start() }
func (e *NameExpr) Pos() source.Pos    { return e.Name.Start() }
func (e *CallExpr) Pos() source.Pos    { return e.Name.Start() }
func (e *DotsExpr) Pos() source.Pos    { return e.Name.Start() }
func (e *ParenExpr) Pos() source.Pos   { return e.LeftParen.Start() }
func (e *PrefixExpr) Pos() source.Pos  { return e.Prefix.Start() }
func (e *InfixExpr) Pos() source.Pos   { return e.Left.Pos() }

func (*LiteralExpr) exprNode() {}
func (*Label) exprNode()       {}
func (*NameExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*DotsExpr) exprNode()    {}
func (*ParenExpr) exprNode()   {}
func (*PrefixExpr) exprNode()  {}
func (*InfixExpr) exprNode()   {}

func (e *NameExpr) NameToken() *PToken { return e.Name }
func (e *CallExpr) NameToken() *PToken { return e.Name }
func (e *DotsExpr) NameToken() *PToken { return e.Name }

// Plain statements.

type (
	AssignStmt struct {
		Left Compound
		Op   *PToken
		Args []Arg
	}

	CommandStmt struct {
		Command *PToken
		// Jump is the goto/gosub modifier of commands like oncmd.
		Jump *PToken
		Args []Arg
	}

	InvokeStmt struct {
		Left   Compound
		Arrow  *PToken
		Method Expr
		Args   []Arg
	}

	// Block is the body of an if or else: statements chained with `:` on the
	// same line, then an optional brace-delimited list.
	Block struct {
		OuterStmts []Stmt
		LeftBrace  *PToken
		InnerStmts []Stmt
		RightBrace *PToken
	}

	IfStmt struct {
		Command *PToken
		Cond    Expr
		Body    Block
		Else    *PToken
		Alt     Block
	}
)

func (s *AssignStmt) Pos() source.Pos  { return s.Left.Pos() }
func (s *CommandStmt) Pos() source.Pos { return s.Command.Start() }
func (s *InvokeStmt) Pos() source.Pos  { return s.Left.Pos() }
func (s *IfStmt) Pos() source.Pos      { return s.Command.Start() }

func (*Label) stmtNode()       {}
func (*AssignStmt) stmtNode()  {}
func (*CommandStmt) stmtNode() {}
func (*InvokeStmt) stmtNode()  {}
func (*IfStmt) stmtNode()      {}

// Stmts returns every statement of the block in source order.
func (b *Block) Stmts() []Stmt {
	out := make([]Stmt, 0, len(b.OuterStmts)+len(b.InnerStmts))
	out = append(out, b.OuterStmts...)
	return append(out, b.InnerStmts...)
}
