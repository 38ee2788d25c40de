package parse

import "github.com/shinyvision/hsp3ls/internal/source"

// Privacy is the optional global/local keyword of a declaration.
type Privacy int

const (
	PrivacyNone Privacy = iota
	PrivacyGlobal
	PrivacyLocal
)

func parsePrivacy(s string) (Privacy, bool) {
	switch s {
	case "global":
		return PrivacyGlobal, true
	case "local":
		return PrivacyLocal, true
	}
	return PrivacyNone, false
}

// DefFuncKind tells the deffunc-like keywords apart.
type DefFuncKind int

const (
	DefFuncCommand DefFuncKind = iota
	DefCFunc
	ModFunc
	ModCFunc
	ModInit
	ModTerm
)

var defFuncKeywords = map[string]DefFuncKind{
	"deffunc":  DefFuncCommand,
	"defcfunc": DefCFunc,
	"modfunc":  ModFunc,
	"modcfunc": ModCFunc,
	"modinit":  ModInit,
	"modterm":  ModTerm,
}

// IsCFunc reports whether calls use the function form f(a, b).
func (k DefFuncKind) IsCFunc() bool { return k == DefCFunc || k == ModCFunc }

// IsMod reports whether the definition receives the module instance.
func (k DefFuncKind) IsMod() bool { return k == ModFunc || k == ModCFunc }

type (
	// Param is one entry of a deffunc parameter list or module field list.
	Param struct {
		Type      ParamType
		TypeToken *PToken
		Name      *PToken
		Comma     *PToken
	}

	MacroParam struct {
		Percent *PToken
		Number  *PToken
		Equal   *PToken
		Init    []*PToken
		Comma   *PToken
	}

	ConstStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Type          *PToken
		Name          *PToken
		Init          Expr
	}

	EnumStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Name          *PToken
		Equal         *PToken
		Init          Expr
	}

	DefineStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Ctype         *PToken
		Name          *PToken
		LeftParen     *PToken
		Params        []MacroParam
		RightParen    *PToken
		Tokens        []*PToken
	}

	// DefFuncStmt covers deffunc, defcfunc, modfunc, modcfunc, modinit and
	// modterm. Its body runs to the next deffunc-like, module or global
	// directive.
	DefFuncStmt struct {
		Hash, Keyword *PToken
		Kind          DefFuncKind
		Privacy       Privacy
		PrivacyToken  *PToken
		Name          *PToken
		OnExit        *PToken
		Params        []Param
		Stmts         []Stmt
	}

	// LibFuncStmt is #func or #cfunc.
	LibFuncStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Name          *PToken
		OnExit        *PToken
		FuncName      *PToken
		TypeID        *PToken
		Params        []Param
	}

	UseLibStmt struct {
		Hash, Keyword *PToken
		Path          *PToken
	}

	UseComStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Name          *PToken
		Args          []*PToken
	}

	ComFuncStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Name          *PToken
		Index         *PToken
		Params        []Param
	}

	RegCmdStmt struct {
		Hash, Keyword *PToken
		Args          []Arg
	}

	CmdStmt struct {
		Hash, Keyword *PToken
		Privacy       Privacy
		PrivacyToken  *PToken
		Name          *PToken
		CommandID     *PToken
	}

	// ModuleStmt spans from #module to the matching #global. Global is nil
	// when the module is not terminated.
	ModuleStmt struct {
		Hash, Keyword *PToken
		Name          *PToken
		Fields        []Param
		Stmts         []Stmt
		Global        *GlobalStmt
	}

	GlobalStmt struct {
		Hash, Keyword *PToken
	}

	// IncludeStmt is #include, or #addition when Optional.
	IncludeStmt struct {
		Hash, Keyword *PToken
		Path          *PToken
		Optional      bool
	}

	UndefStmt struct {
		Hash, Keyword *PToken
		Name          *PToken
	}

	UnknownPreprocStmt struct {
		Hash   *PToken
		Tokens []*PToken
	}
)

func (s *ConstStmt) Pos() source.Pos          { return s.Hash.Start() }
func (s *EnumStmt) Pos() source.Pos           { return s.Hash.Start() }
func (s *DefineStmt) Pos() source.Pos         { return s.Hash.Start() }
func (s *DefFuncStmt) Pos() source.Pos        { return s.Hash.Start() }
func (s *LibFuncStmt) Pos() source.Pos        { return s.Hash.Start() }
func (s *UseLibStmt) Pos() source.Pos         { return s.Hash.Start() }
func (s *UseComStmt) Pos() source.Pos         { return s.Hash.Start() }
func (s *ComFuncStmt) Pos() source.Pos        { return s.Hash.Start() }
func (s *RegCmdStmt) Pos() source.Pos         { return s.Hash.Start() }
func (s *CmdStmt) Pos() source.Pos            { return s.Hash.Start() }
func (s *ModuleStmt) Pos() source.Pos         { return s.Hash.Start() }
func (s *GlobalStmt) Pos() source.Pos         { return s.Hash.Start() }
func (s *IncludeStmt) Pos() source.Pos        { return s.Hash.Start() }
func (s *UndefStmt) Pos() source.Pos          { return s.Hash.Start() }
func (s *UnknownPreprocStmt) Pos() source.Pos { return s.Hash.Start() }

func (*ConstStmt) stmtNode()          {}
func (*EnumStmt) stmtNode()           {}
func (*DefineStmt) stmtNode()         {}
func (*DefFuncStmt) stmtNode()        {}
func (*LibFuncStmt) stmtNode()        {}
func (*UseLibStmt) stmtNode()         {}
func (*UseComStmt) stmtNode()         {}
func (*ComFuncStmt) stmtNode()        {}
func (*RegCmdStmt) stmtNode()         {}
func (*CmdStmt) stmtNode()            {}
func (*ModuleStmt) stmtNode()         {}
func (*GlobalStmt) stmtNode()         {}
func (*IncludeStmt) stmtNode()        {}
func (*UndefStmt) stmtNode()          {}
func (*UnknownPreprocStmt) stmtNode() {}
