package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"x", Name{Base: "x"}},
		{"x@", Name{Base: "x", Qual: QualToplevel}},
		{"x@m", Name{Base: "x", Qual: QualModule, NS: "m"}},
		{"a@b@c", Name{Base: "a@b", Qual: QualModule, NS: "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseName(tt.in), tt.in)
	}
}

func TestDefScope(t *testing.T) {
	m := ModuleID{Doc: 1, Index: 1}
	df := DefFuncID{Doc: 1, Index: 2}
	inDefFunc := LocalScope{Module: m, DefFunc: df}

	tests := []struct {
		name  string
		in    string
		mode  importMode
		local LocalScope
		want  nameScopeNS
	}{
		{"param", "p", importParam, inDefFunc, nameScopeNS{base: "p", scope: localScope(inDefFunc)}},
		{"global", "f", importGlobal, inDefFunc, nameScopeNS{base: "f", scope: globalScope, hasNS: true}},
		{"local in module", "x", importLocal, inDefFunc, nameScopeNS{base: "x", scope: localScope(LocalScope{Module: m}), ns: "m", hasNS: true}},
		{"local at toplevel", "x", importLocal, LocalScope{}, nameScopeNS{base: "x", scope: localScope(LocalScope{}), hasNS: true}},
		{"explicit toplevel", "x@", importLocal, inDefFunc, nameScopeNS{base: "x", scope: localScope(LocalScope{}), hasNS: true}},
		{"module qualified", "x@n", importGlobal, LocalScope{}, nameScopeNS{base: "x", ns: "n", hasNS: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defScope(tt.in, tt.mode, tt.local, "m", true))
		})
	}
}

func TestScopeVisibility(t *testing.T) {
	m1 := ModuleID{Doc: 1, Index: 1}
	m2 := ModuleID{Doc: 1, Index: 2}
	f1 := DefFuncID{Doc: 1, Index: 1}
	f2 := DefFuncID{Doc: 1, Index: 2}

	moduleLevel := LocalScope{Module: m1}
	inF1 := LocalScope{Module: m1, DefFunc: f1}
	inF2 := LocalScope{Module: m1, DefFunc: f2}
	otherModule := LocalScope{Module: m2}

	assert.True(t, moduleLevel.IsVisibleTo(inF1))
	assert.True(t, moduleLevel.IsVisibleTo(inF2))
	assert.True(t, inF1.IsVisibleTo(inF1))
	assert.False(t, inF1.IsVisibleTo(inF2))
	assert.False(t, inF1.IsVisibleTo(moduleLevel))
	assert.False(t, moduleLevel.IsVisibleTo(otherModule))
	assert.False(t, otherModule.IsVisibleTo(moduleLevel))

	assert.True(t, LocalScope{}.IsPublic())
	assert.False(t, moduleLevel.IsPublic())
	assert.True(t, globalScope.IsPublic())
	assert.False(t, Scope{Kind: ScopeNone}.IsPublic())
}

func TestCalculateDetails(t *testing.T) {
	d := calculateDetails([]string{"// ====", "/// Adds two numbers.", "// ----", "; a: first", "; b: second"})
	assert.Equal(t, "Adds two numbers.", d.Desc)
	assert.Equal(t, []string{"a: first\r\nb: second"}, d.Docs)

	assert.True(t, calculateDetails(nil).IsEmpty())
	assert.Equal(t, Details{Desc: "only"}, calculateDetails([]string{"// only"}))
}
