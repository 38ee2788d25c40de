package analysis

import "strings"

// Qual is the qualifier part of an identifier.
type Qual int

const (
	// Unqualified is a bare name: x
	Unqualified Qual = iota
	// QualToplevel is x@
	QualToplevel
	// QualModule is x@m
	QualModule
)

type Name struct {
	Base string
	Qual Qual
	// NS is the module name of a QualModule name.
	NS string
}

// ParseName splits an identifier at its last `@`.
func ParseName(s string) Name {
	i := strings.LastIndexByte(s, '@')
	switch {
	case i < 0:
		return Name{Base: s}
	case i == len(s)-1:
		return Name{Base: s[:i], Qual: QualToplevel}
	}
	return Name{Base: s[:i], Qual: QualModule, NS: s[i+1:]}
}

// importMode is how a declaration binds its name.
type importMode int

const (
	importGlobal importMode = iota
	importLocal
	importParam
)

type nameScopeNS struct {
	base  string
	scope Scope
	ns    string
	hasNS bool
}

// defScope decides the scope and namespace of a name at its definition.
// moduleName is the name of the enclosing module, if any.
func defScope(name string, mode importMode, local LocalScope, moduleName string, moduleNamed bool) nameScopeNS {
	n := ParseName(name)
	out := nameScopeNS{base: n.Base}

	switch {
	case mode == importParam:
		if n.Qual == Unqualified {
			out.scope = localScope(local)
		}
		return out
	case n.Qual == QualModule:
		out.ns, out.hasNS = n.NS, true
		return out
	case mode == importGlobal:
		out.scope = globalScope
	case n.Qual == QualToplevel:
		out.scope = localScope(LocalScope{})
	default:
		out.scope = localScope(LocalScope{Module: local.Module})
	}

	switch {
	case mode == importLocal && n.Qual == Unqualified && !local.Module.IsZero():
		out.ns, out.hasNS = moduleName, moduleNamed
	default:
		out.ns, out.hasNS = "", true
	}
	return out
}

// useScope decides where a name is looked up at a use site. A nil scope
// means only the namespace is searched.
func useScope(name string, local LocalScope, moduleName string, moduleNamed bool) (n Name, scope *LocalScope, ns string, hasNS bool) {
	n = ParseName(name)
	switch n.Qual {
	case Unqualified:
		scope = &local
		if local.Module.IsZero() {
			ns, hasNS = "", true
		} else {
			ns, hasNS = moduleName, moduleNamed
		}
	case QualToplevel:
		scope = &LocalScope{}
		ns, hasNS = "", true
	case QualModule:
		ns, hasNS = n.NS, true
	}
	return n, scope, ns, hasNS
}
