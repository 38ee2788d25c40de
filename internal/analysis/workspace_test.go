package analysis

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProject = "/proj"
	testRoot    = "/hsp"
)

type fixture struct {
	w     *Workspace
	texts map[source.DocID]string
	last  source.DocID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := NewWorkspace()
	w.SetRoots(testRoot, nil)
	return &fixture{w: w, texts: make(map[source.DocID]string)}
}

// add registers a document. Relative paths are placed in the project.
func (f *fixture) add(path, text string) source.DocID {
	if !filepath.IsAbs(path) {
		path = filepath.Join(testProject, path)
	}
	f.last++
	f.w.SetDoc(f.last, path, source.LangFromPath(path), text)
	f.texts[f.last] = text
	return f.last
}

func (f *fixture) pos(doc source.DocID, row, col uint32) source.Pos {
	return source.FromUTF16(f.texts[doc], row, col)
}

func (f *fixture) locate(t *testing.T, doc source.DocID, row, col uint32) *Symbol {
	t.Helper()
	sym, _, ok := f.w.Locate(doc, f.pos(doc, row, col))
	require.True(t, ok, "no symbol at %d:%d", row, col)
	return sym
}

func TestGlobalStaticVarAcrossFiles(t *testing.T) {
	f := newFixture(t)
	main := f.add("main.hsp", "#include \"mod.hsp\"\nx = 1\n")
	mod := f.add("mod.hsp", "")

	sym := f.locate(t, main, 1, 0)
	assert.Equal(t, KindStaticVar, sym.Kind)
	assert.Equal(t, "x", sym.Name)
	assert.Equal(t, main, sym.Doc())
	assert.True(t, sym.Scope.IsPublic())
	assert.Len(t, References(sym, true), 1)

	edges := f.w.Includes(main)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Resolved)
	assert.Equal(t, mod, edges[0].Target)
}

func TestModuleLocalParameter(t *testing.T) {
	f := newFixture(t)
	lib := f.add("lib.hsp", "#module m\n#deffunc greet str s\n  mes s\n#global\n")
	main := f.add("main.hsp", "#include \"lib.hsp\"\n greet \"hi\"\n")

	s := f.locate(t, lib, 2, 6)
	assert.Equal(t, KindParam, s.Kind)
	assert.Equal(t, "s", s.Name)
	assert.True(t, s.Scope.IsDefFuncLocal())
	assert.Equal(t, "str", s.KindLabel())

	a, ok := f.w.Doc(lib)
	require.True(t, ok)
	require.Len(t, a.DefFuncs, 1)
	assert.Equal(t, a.DefFuncs[0].ID, s.Scope.Local.DefFunc)
	assert.Equal(t, "greet", a.DefFuncs[0].Name)

	refs := References(s, true)
	require.Len(t, refs, 2)
	assert.Equal(t, uint32(1), refs[0].Start().Row)
	assert.Equal(t, uint32(2), refs[1].Start().Row)

	for _, found := range f.w.WorkspaceSymbols("s") {
		assert.NotEqual(t, KindParam, found.Symbol.Kind)
	}

	greet := f.locate(t, main, 1, 2)
	assert.Equal(t, KindDefFunc, greet.Kind)
	assert.Equal(t, lib, greet.Doc())
	assert.Len(t, greet.Uses, 1)
}

func TestUnknownIdentifierBecomesStaticVar(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "foo = 42\n mes foo\n")

	def := f.locate(t, a, 0, 0)
	use := f.locate(t, a, 1, 5)
	require.Same(t, def, use)
	assert.Equal(t, KindStaticVar, def.Kind)
	assert.Len(t, def.Defs, 1)
	assert.Len(t, def.Uses, 1)

	mes := f.locate(t, a, 1, 1)
	assert.Equal(t, KindUnresolved, mes.Kind)
}

func TestReturnInLoopLint(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "repeat 3\n return\n loop\n")

	var lints []Diagnostic
	for _, d := range f.w.Diagnose(a, true) {
		if d.Code == CodeReturnInLoop {
			lints = append(lints, d)
		}
	}
	require.Len(t, lints, 1)
	assert.Equal(t, SeverityError, lints[0].Severity)
	assert.Equal(t, uint32(1), lints[0].Loc.Start().Row)
	assert.Equal(t, uint32(1), lints[0].Loc.Start().Col)

	for _, d := range f.w.Diagnose(a, false) {
		assert.NotEqual(t, CodeReturnInLoop, d.Code)
	}
}

func TestReturnAfterLoopIsFine(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "repeat 3\n break\n loop\n return\n")
	for _, d := range f.w.Diagnose(a, true) {
		assert.NotEqual(t, CodeReturnInLoop, d.Code)
	}
}

func TestRenameRefusesInCommon(t *testing.T) {
	f := newFixture(t)
	common := f.add(filepath.Join(testRoot, "common", "lib.as"), "#const s 1\n")
	main := f.add("main.hsp", "#include \"lib.as\"\nmes s\n")

	assert.True(t, f.w.IsCommon(common))
	assert.True(t, f.w.IsActive(common))

	s := f.locate(t, main, 1, 4)
	assert.Equal(t, KindConst, s.Kind)
	assert.Equal(t, common, s.Doc())

	_, ok := f.w.Rename(main, f.pos(main, 1, 4), "t")
	assert.False(t, ok)
	_, ok = f.w.PrepareRename(main, f.pos(main, 1, 4))
	assert.False(t, ok)
}

func TestIncludeCycle(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#include \"b.hsp\"\nx = 1\n")
	b := f.add("b.hsp", "#include \"a.hsp\"\nmes x\n")

	assert.Equal(t, []source.DocID{a, b}, f.w.ActiveDocs())
	assert.Len(t, f.w.Includes(a), 1)
	assert.Len(t, f.w.Includes(b), 1)

	var xs []*Symbol
	for _, doc := range []source.DocID{a, b} {
		analysis, _ := f.w.Doc(doc)
		for _, sym := range analysis.Symbols {
			if sym.Name == "x" {
				xs = append(xs, sym)
			}
		}
	}
	require.Len(t, xs, 1)
	assert.Same(t, xs[0], f.locate(t, b, 1, 4))
}

func TestCommonDocsActiveOnlyWhenIncluded(t *testing.T) {
	f := newFixture(t)
	used := f.add(filepath.Join(testRoot, "common", "used.as"), "#include \"nested.as\"\n")
	nested := f.add(filepath.Join(testRoot, "common", "nested.as"), "")
	unused := f.add(filepath.Join(testRoot, "common", "unused.as"), "")
	shim := f.add(filepath.Join(testRoot, "common", "hsp261cmp.as"), "")
	main := f.add("main.hsp", "#include \"used.as\"\n#include \"hsp261cmp.as\"\n")

	assert.Equal(t, []source.DocID{used, nested, main}, f.w.ActiveDocs())
	assert.False(t, f.w.IsActive(unused))
	assert.False(t, f.w.IsActive(shim))

	for _, d := range f.w.Diagnose(main, true) {
		assert.NotEqual(t, CodeUnresolvedInclude, d.Code)
	}
}

func TestIncludeResolutionOrder(t *testing.T) {
	f := newFixture(t)
	f.w.SetRoots(testRoot, []string{"/extra"})
	local := f.add("sub/x.as", "")
	f.add("/extra/x.as", "")
	f.add(filepath.Join(testRoot, "common", "x.as"), "")
	extraOnly := f.add("/extra/y.as", "")
	main := f.add("sub/main.hsp", "#include \"x.as\"\n#include \"Y.AS\"\n")

	edges := f.w.Includes(main)
	require.Len(t, edges, 2)
	assert.Equal(t, local, edges[0].Target)
	assert.Equal(t, extraOnly, edges[1].Target)
}

func TestDiagnostics(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#include \"missing.hsp\"\n#addition \"optional.hsp\"\n) mes 1\n#module m\nx = 1\n")

	var codes []string
	for _, d := range f.w.Diagnose(a, true) {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{CodeUnresolvedInclude, CodeInvalidTokens, CodeUnterminatedModule}, codes)
}

func TestDuplicatePublicSymbol(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#const global K 1\n")
	b := f.add("b.hsp", "#const global K 2\nmes K\n")

	k := f.locate(t, b, 1, 4)
	assert.Equal(t, b, k.Doc())

	diags := f.w.Diagnose(a, true)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeDuplicatePublicSymbol, diags[0].Code)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Empty(t, f.w.Diagnose(b, true))
}

func TestModuleNamespaces(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#module m\nx = 1\n#deffunc f\n  mes x\n  return\n#global\nx = 2\nmes x@m\n")

	inModule := f.locate(t, a, 1, 0)
	assert.True(t, inModule.Scope.IsModuleLocal())
	assert.Equal(t, "m", inModule.NS)
	assert.Same(t, inModule, f.locate(t, a, 3, 6))
	assert.Same(t, inModule, f.locate(t, a, 7, 4))

	toplevel := f.locate(t, a, 6, 0)
	assert.NotSame(t, inModule, toplevel)
	assert.True(t, toplevel.Scope.IsPublic())
}

func TestDefFuncLocalsAreInvisibleOutside(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#module m\n#deffunc f int p\n  mes p\n  return\n#deffunc g\n  mes p\n  return\n#global\n")

	p := f.locate(t, a, 2, 6)
	other := f.locate(t, a, 5, 6)
	assert.Equal(t, KindParam, p.Kind)
	assert.NotSame(t, p, other)
	assert.Equal(t, KindStaticVar, other.Kind)
}

func TestLabels(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "goto *main\n*main\n  stop\n")

	label := f.locate(t, a, 0, 7)
	assert.Equal(t, KindLabel, label.Kind)
	assert.Equal(t, "main", label.Name)
	assert.Len(t, label.Defs, 1)
	assert.Len(t, label.Uses, 1)
}

func TestDimDefinesVariable(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "dim arr, 10\narr(0) = 1\n")

	arr := f.locate(t, a, 0, 4)
	assert.Equal(t, KindStaticVar, arr.Kind)
	assert.Len(t, arr.Defs, 2)
	assert.Empty(t, arr.Uses)
}

func TestTextChangeRecomputes(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "x = 1\nmes x\n")
	require.Len(t, f.locate(t, a, 1, 4).Uses, 1)

	f.w.SetDoc(a, filepath.Join(testProject, "a.hsp"), source.LangHSP3, "x = 1\nmes x\nmes x\n")
	f.texts[a] = "x = 1\nmes x\nmes x\n"
	assert.Len(t, f.locate(t, a, 1, 4).Uses, 2)

	f.w.RemoveDoc(a)
	_, _, ok := f.w.Locate(a, f.pos(a, 0, 0))
	assert.False(t, ok)
}

type symbolTuple struct {
	Name  string
	Kind  SymbolKind
	Scope Scope
	Doc   source.DocID
}

func symbolTuples(w *Workspace) []symbolTuple {
	var out []symbolTuple
	for _, id := range w.ActiveDocs() {
		a, _ := w.Doc(id)
		for _, sym := range a.Symbols {
			out = append(out, symbolTuple{sym.Name, sym.Kind, sym.Scope, sym.Doc()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func TestAnalysisIsDeterministic(t *testing.T) {
	build := func() *Workspace {
		f := newFixture(t)
		f.add("lib.hsp", "#module m v\n#modinit int n\n  v = n\n  return\n#modcfunc get\n  return v\n#global\n")
		f.add("main.hsp", "#include \"lib.hsp\"\nnewmod o, m, 1\nmes get(o)\n*l\ngoto *l\n")
		return f.w
	}
	first, second := build(), build()

	// Rebuilding in place yields the same result too.
	second.dirty = true
	if diff := cmp.Diff(symbolTuples(first), symbolTuples(second)); diff != "" {
		t.Errorf("symbols differ (-first +second):\n%s", diff)
	}
}

func TestOccurrencesStayInActiveDocs(t *testing.T) {
	f := newFixture(t)
	f.add(filepath.Join(testRoot, "common", "unused.as"), "#const global Z 1\n")
	main := f.add("main.hsp", "mes Z\n")

	z := f.locate(t, main, 0, 4)
	assert.Equal(t, KindStaticVar, z.Kind)
	for _, loc := range append(z.Defs, z.Uses...) {
		assert.True(t, f.w.IsActive(loc.Doc))
	}
}
