package analysis

import (
	"github.com/shinyvision/hsp3ls/internal/parse"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

type SymbolKind int

const (
	// KindUnresolved marks a name used as a command or label with no
	// definition in sight.
	KindUnresolved SymbolKind = iota
	// KindUnknown is an entry of a help source.
	KindUnknown
	KindLabel
	KindStaticVar
	KindConst
	KindEnum
	KindMacro
	KindDefFunc
	KindDefCFunc
	KindModFunc
	KindModCFunc
	KindParam
	KindModule
	KindField
	KindLibFunc
	KindPluginCmd
	KindComInterface
	KindComFunc
)

var kindNames = [...]string{
	KindUnresolved:   "unresolved",
	KindUnknown:      "unknown",
	KindLabel:        "label",
	KindStaticVar:    "variable",
	KindConst:        "constant",
	KindEnum:         "enum",
	KindMacro:        "macro",
	KindDefFunc:      "command",
	KindDefCFunc:     "function",
	KindModFunc:      "module command",
	KindModCFunc:     "module function",
	KindParam:        "parameter",
	KindModule:       "module",
	KindField:        "module variable",
	KindLibFunc:      "library function",
	KindPluginCmd:    "plugin command",
	KindComInterface: "COM interface",
	KindComFunc:      "COM method",
}

func (k SymbolKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// ModuleID identifies a #module block. Index starts at 1; the zero value
// means "outside any module".
type ModuleID struct {
	Doc   source.DocID
	Index int
}

func (m ModuleID) IsZero() bool { return m.Index == 0 }

// DefFuncID identifies a deffunc-like block. The zero value means none.
type DefFuncID struct {
	Doc   source.DocID
	Index int
}

func (f DefFuncID) IsZero() bool { return f.Index == 0 }

// LocalScope is the lexical position a name is defined or used in.
type LocalScope struct {
	Module  ModuleID
	DefFunc DefFuncID
}

// IsPublic reports whether the scope is the toplevel outside every module
// and deffunc.
func (s LocalScope) IsPublic() bool { return s.Module.IsZero() && s.DefFunc.IsZero() }

// IsVisibleTo reports whether a symbol defined in s can be seen from other.
// Names in a different module are invisible; names inside a deffunc are
// visible only in that deffunc.
func (s LocalScope) IsVisibleTo(other LocalScope) bool {
	return s.Module == other.Module && (s.DefFunc.IsZero() || s.DefFunc == other.DefFunc)
}

type ScopeKind uint8

const (
	// ScopeNone is used for names qualified with a module, which live only
	// in that module's namespace.
	ScopeNone ScopeKind = iota
	ScopeGlobal
	ScopeLocal
)

type Scope struct {
	Kind  ScopeKind
	Local LocalScope
}

var globalScope = Scope{Kind: ScopeGlobal}

func localScope(s LocalScope) Scope { return Scope{Kind: ScopeLocal, Local: s} }

// IsPublic reports whether the symbol can be referenced from other documents
// without qualification.
func (s Scope) IsPublic() bool {
	switch s.Kind {
	case ScopeGlobal:
		return true
	case ScopeLocal:
		return s.Local.IsPublic()
	}
	return false
}

func (s Scope) IsModuleLocal() bool {
	return s.Kind == ScopeLocal && !s.Local.Module.IsZero() && s.Local.DefFunc.IsZero()
}

func (s Scope) IsDefFuncLocal() bool {
	return s.Kind == ScopeLocal && !s.Local.DefFunc.IsZero()
}

func (s Scope) IsVisibleTo(other LocalScope) bool {
	return s.Kind == ScopeLocal && s.Local.IsVisibleTo(other)
}

// SymbolID locates a symbol in the symbol list of its document.
type SymbolID struct {
	Doc   source.DocID
	Index int
}

type SignatureParam struct {
	Type parse.ParamType
	Name string
}

type Signature struct {
	Name   string
	CFunc  bool
	Params []SignatureParam
}

// Details are the description and documentation shown for a symbol.
type Details struct {
	Desc string
	Docs []string
}

func (d Details) IsEmpty() bool { return d.Desc == "" && len(d.Docs) == 0 }

type Symbol struct {
	ID   SymbolID
	Kind SymbolKind
	Name string

	// Ctype is set for function-like macros.
	Ctype bool
	// ParamType is set for parameters.
	ParamType parse.ParamType

	Scope Scope
	NS    string
	HasNS bool

	// Leader is the first token of the declaring statement. Comments before
	// it become the details.
	Leader    *token.PToken
	Details   *Details
	Signature *Signature
	// Linked is the help entry attached by name.
	Linked *Symbol

	preprocDef *source.Loc

	Defs []source.Loc
	Uses []source.Loc
}

func (s *Symbol) Doc() source.DocID { return s.ID.Doc }

func (s *Symbol) IsPublic() bool { return s.Scope.IsPublic() || (s.Scope.Kind == ScopeNone && s.HasNS) }

// IsDefiner reports whether the symbol is introduced by a declaration rather
// than by its first occurrence.
func (s *Symbol) IsDefiner() bool {
	switch s.Kind {
	case KindUnresolved, KindUnknown, KindStaticVar:
		return false
	}
	return true
}

// TakesArgs reports whether uses of the symbol are followed by arguments.
func (s *Symbol) TakesArgs() bool {
	switch s.Kind {
	case KindDefFunc, KindDefCFunc, KindModFunc, KindModCFunc, KindLibFunc,
		KindPluginCmd, KindComFunc:
		return true
	case KindMacro:
		return s.Ctype
	}
	return false
}

// ComputeDetails returns explicit details, otherwise the linked help entry,
// otherwise the comments before the declaration.
func (s *Symbol) ComputeDetails() Details {
	if s.Details != nil {
		return *s.Details
	}
	if s.Linked != nil && s.Linked.Details != nil {
		return *s.Linked.Details
	}
	if s.Leader != nil {
		return calculateDetails(collectComments(s.Leader))
	}
	return Details{}
}

// KindLabel returns the kind text shown on hover, with the parameter type for
// parameters.
func (s *Symbol) KindLabel() string {
	switch {
	case s.Kind == KindParam && s.ParamType != parse.ParamNone:
		return s.ParamType.String()
	case s.Kind == KindMacro && s.Ctype:
		return "function-like macro"
	}
	return s.Kind.String()
}
