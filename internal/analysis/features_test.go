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

const builtinHelp = `%index
mes
print a message
%prm
p1
p1 : text
`

func at(p source.Pos) source.Range { return source.Range{Start: p, End: p} }

func labels(items []CompletionItem) map[string]CompletionItem {
	out := make(map[string]CompletionItem, len(items))
	for _, item := range items {
		out[item.Label] = item
	}
	return out
}

func TestCompletionInsideDefFunc(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#module m\n#deffunc f int p\n  mes \n  return\n#global\nx = 1\n")

	items := labels(f.w.Completion(a, f.pos(a, 2, 6)))
	require.Contains(t, items, "p")
	assert.Equal(t, "ap", items["p"].SortText)
	assert.Equal(t, KindParam, items["p"].Kind)
	require.Contains(t, items, "f")
	assert.Equal(t, "ef", items["f"].SortText)
	require.Contains(t, items, "m")
	assert.Equal(t, "fm", items["m"].SortText)
	assert.NotContains(t, items, "x")
	assert.NotContains(t, items, "mes")
}

func TestCompletionAtToplevelSeesOtherDocs(t *testing.T) {
	f := newFixture(t)
	f.add("lib.hsp", "#const LIMIT 10\n#module m\ninner = 1\n#global\n")
	a := f.add("a.hsp", "#include \"lib.hsp\"\nhere = 1\n\n")

	items := labels(f.w.Completion(a, f.pos(a, 2, 0)))
	require.Contains(t, items, "LIMIT")
	assert.Equal(t, "cLIMIT", items["LIMIT"].SortText)
	assert.Contains(t, items, "here")
	assert.NotContains(t, items, "inner")
}

func TestCompletionSuppressedInStrings(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "mes \"abc\" ; note\n")

	assert.Empty(t, f.w.Completion(a, f.pos(a, 0, 6)))
	assert.Empty(t, f.w.Completion(a, f.pos(a, 0, 14)))
}

func TestCompletionOnDirectiveLine(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#deffunc f \n")

	items := labels(f.w.Completion(a, f.pos(a, 0, 11)))
	require.Contains(t, items, "int")
	assert.True(t, items["int"].Keyword)
	assert.Equal(t, "aint", items["int"].SortText)
	assert.NotContains(t, items, "f")
}

func TestCompletionOffersBuiltinHelp(t *testing.T) {
	f := newFixture(t)
	f.add(filepath.Join(testRoot, "hsphelp", "i_builtin.hs"), builtinHelp)
	a := f.add("a.hsp", "\n")

	items := labels(f.w.Completion(a, f.pos(a, 0, 0)))
	require.Contains(t, items, "mes")
	assert.Equal(t, "xmes", items["mes"].SortText)
	assert.Equal(t, "print a message", items["mes"].Details.Desc)
}

func TestHoverUsesComments(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "// greets someone\n// ---\n// usage: greet\n#deffunc greet\n  return\ngreet\n")

	hover, ok := f.w.Hover(a, f.pos(a, 5, 1))
	require.True(t, ok)
	assert.Equal(t, "`greet` (command)", hover.Title)
	assert.Equal(t, "greets someone", hover.Details.Desc)
	assert.Equal(t, []string{"usage: greet"}, hover.Details.Docs)
	assert.Contains(t, hover.Markdown(), "greets someone")
}

func TestHoverFallsBackToBuiltinHelp(t *testing.T) {
	f := newFixture(t)
	f.add(filepath.Join(testRoot, "hsphelp", "i_builtin.hs"), builtinHelp)
	a := f.add("a.hsp", "mes \"hi\"\n")

	hover, ok := f.w.Hover(a, f.pos(a, 0, 1))
	require.True(t, ok)
	assert.Equal(t, "`mes`", hover.Title)
	assert.Equal(t, "print a message", hover.Details.Desc)
}

func TestHelpLinkedByFileName(t *testing.T) {
	f := newFixture(t)
	hs := f.add(filepath.Join(testRoot, "hsphelp", "Mod.hs"), "%index\ngreet\nhelp says hi\n")
	f.add("mod.hsp", "#deffunc greet\n  return\n")
	a := f.add("a.hsp", "#include \"mod.hsp\"\ngreet\n")

	assert.True(t, f.w.IsActive(hs))
	hover, ok := f.w.Hover(a, f.pos(a, 1, 1))
	require.True(t, ok)
	assert.Equal(t, "help says hi", hover.Details.Desc)
}

func TestSignatureHelp(t *testing.T) {
	f := newFixture(t)
	f.add(filepath.Join(testRoot, "hsphelp", "i_builtin.hs"), builtinHelp)
	a := f.add("a.hsp", "#deffunc greet str s, int n\n  return\ngreet \"a\", 1\n#defcfunc add int x, int y\n  return x + y\nmes add(1, 2)\n")

	sig, ok := f.w.SignatureHelp(a, f.pos(a, 2, 11))
	require.True(t, ok)
	assert.Equal(t, "greet str s, int n", sig.Label)
	assert.Equal(t, [][2]int{{6, 11}, {13, 18}}, sig.Params)
	assert.Equal(t, 1, sig.ActiveParam)

	sig, ok = f.w.SignatureHelp(a, f.pos(a, 5, 11))
	require.True(t, ok)
	assert.Equal(t, "add(int x, int y)", sig.Label)
	assert.Equal(t, 1, sig.ActiveParam)

	sig, ok = f.w.SignatureHelp(a, f.pos(a, 5, 4))
	require.True(t, ok)
	assert.Equal(t, "mes p1", sig.Label)
	assert.Equal(t, 0, sig.ActiveParam)

	_, ok = f.w.SignatureHelp(a, f.pos(a, 2, 3))
	assert.False(t, ok)
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#module m\nx = 1\n#global\nmes x@m\n")

	loc, ok := f.w.PrepareRename(a, f.pos(a, 3, 5))
	require.True(t, ok)
	assert.Equal(t, uint32(4), loc.Start().Col)
	assert.Equal(t, uint32(5), loc.End().Col)

	edits, ok := f.w.Rename(a, f.pos(a, 3, 5), "y")
	require.True(t, ok)
	require.Len(t, edits, 2)
	assert.Equal(t, uint32(1), edits[0].Range.Start.Row)
	assert.Equal(t, uint32(3), edits[1].Range.Start.Row)
	assert.Equal(t, uint32(5), edits[1].Range.End.Col)
	assert.Equal(t, "y", edits[1].NewText)

	_, ok = f.w.Rename(a, f.pos(a, 3, 1), "print")
	assert.False(t, ok, "unresolved commands cannot be renamed")
}

type rowCol struct{ Row, Col uint32 }

func starts(locs []source.Loc) []rowCol {
	out := make([]rowCol, 0, len(locs))
	for _, l := range locs {
		out = append(out, rowCol{l.Start().Row, l.Start().Col})
	}
	return out
}

// applyEdits splices edits into the text of doc and re-analyses it.
func (f *fixture) applyEdits(t *testing.T, doc source.DocID, edits []TextEdit) {
	t.Helper()
	a, ok := f.w.Doc(doc)
	require.True(t, ok)
	sorted := append([]TextEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Range.Start.Index > sorted[j].Range.Start.Index })

	text := f.texts[doc]
	for _, e := range sorted {
		require.Equal(t, doc, e.Doc)
		text = text[:e.Range.Start.Index] + e.NewText + text[e.Range.End.Index:]
	}
	f.w.SetDoc(doc, a.Path, source.LangHSP3, text)
	f.texts[doc] = text
}

func TestRenameRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		row, col uint32
		newName  string
		renamed  string
	}{
		{
			name:    "module static",
			text:    "#module m\nx = 1\n#global\nmes x@m\n",
			row:     3,
			col:     4,
			newName: "yy",
			renamed: "#module m\nyy = 1\n#global\nmes yy@m\n",
		},
		{
			name:    "module deffunc",
			text:    "#module m\n#deffunc greet str s\n  mes s\n  return\n#global\ngreet \"a\"\ngreet \"b\"\n",
			row:     5,
			col:     0,
			newName: "hello",
			renamed: "#module m\n#deffunc hello str s\n  mes s\n  return\n#global\nhello \"a\"\nhello \"b\"\n",
		},
		{
			name:    "label",
			text:    "goto *main\n*main\n  gosub *main\n  stop\n",
			row:     0,
			col:     6,
			newName: "start",
			renamed: "goto *start\n*start\n  gosub *start\n  stop\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := f.add("a.hsp", tt.text)

			before := f.locate(t, a, tt.row, tt.col)
			oldName := before.Name
			defs, uses := starts(before.Defs), starts(before.Uses)

			edits, ok := f.w.Rename(a, f.pos(a, tt.row, tt.col), tt.newName)
			require.True(t, ok)
			f.applyEdits(t, a, edits)
			require.Equal(t, tt.renamed, f.texts[a])

			after := f.locate(t, a, tt.row, tt.col)
			assert.Equal(t, tt.newName, after.Name)
			assert.Equal(t, before.Kind, after.Kind)
			if diff := cmp.Diff(defs, starts(after.Defs)); diff != "" {
				t.Errorf("defs moved (-before +after):\n%s", diff)
			}
			if diff := cmp.Diff(uses, starts(after.Uses)); diff != "" {
				t.Errorf("uses moved (-before +after):\n%s", diff)
			}

			back, ok := f.w.Rename(a, f.pos(a, tt.row, tt.col), oldName)
			require.True(t, ok)
			assert.Len(t, back, len(edits))
			f.applyEdits(t, a, back)
			assert.Equal(t, tt.text, f.texts[a])
		})
	}
}

func TestFormatRemovesDirectiveIndent(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "  #const A 1\n\t#define B\nmes A\n  #undef B\nmes 1 : #undef A\n")

	edits := f.w.Format(a)
	require.Len(t, edits, 3)
	for _, e := range edits {
		assert.Empty(t, e.NewText)
		assert.Equal(t, uint32(0), e.Range.Start.Col)
	}
	assert.Equal(t, uint32(2), edits[0].Range.End.Col)
	assert.Equal(t, uint32(1), edits[1].Range.End.Col)
	assert.Equal(t, uint32(3), edits[2].Range.Start.Row)
	assert.Equal(t, uint32(2), edits[2].Range.End.Col)
}

func TestIncludeGuardCodeAction(t *testing.T) {
	f := newFixture(t)
	a := f.add("my-lib.hsp", "mes 1\n")
	guarded := f.add("guarded.hsp", "#ifndef G\n#define G\nmes 1\n#endif\n")

	actions := f.w.CodeActions(a, at(f.pos(a, 0, 0)))
	require.Len(t, actions, 1)
	require.Len(t, actions[0].Edits, 2)
	assert.Equal(t, "#ifndef my_lib_included\n#define my_lib_included\n\n", actions[0].Edits[0].NewText)
	assert.Equal(t, "\n#endif\n", actions[0].Edits[1].NewText)

	assert.Empty(t, f.w.CodeActions(a, at(f.pos(a, 0, 2))))
	assert.True(t, f.w.HasIncludeGuard(guarded))
	assert.Empty(t, f.w.CodeActions(guarded, at(f.pos(guarded, 0, 0))))
}

func TestSemanticTokens(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#deffunc f int p\n  mes p\n  return\nx = 1\n")

	counts := map[SemanticTokenType]int{}
	for _, tok := range f.w.SemanticTokens(a) {
		counts[tok.Type]++
	}
	assert.Equal(t, 2, counts[SemanticParameter])
	assert.Equal(t, 1, counts[SemanticVariable])
}

func TestDocAndWorkspaceSymbols(t *testing.T) {
	f := newFixture(t)
	a := f.add("a.hsp", "#const A 1\nx = 1\n*lbl\nmes x\n")

	var names []string
	for _, s := range f.w.DocSymbols(a) {
		names = append(names, s.Symbol.Name)
	}
	assert.Equal(t, []string{"A", "x", "lbl"}, names)

	found := f.w.WorkspaceSymbols("LB")
	require.Len(t, found, 1)
	assert.Equal(t, "lbl", found[0].Symbol.Name)
	assert.Equal(t, KindLabel, found[0].Symbol.Kind)
}

func TestIncludeTarget(t *testing.T) {
	f := newFixture(t)
	lib := f.add("lib.hsp", "")
	a := f.add("a.hsp", "#include \"lib.hsp\"\n")

	target, ok := f.w.IncludeTarget(a, f.pos(a, 0, 12))
	require.True(t, ok)
	assert.Equal(t, lib, target)

	nested := f.add("sub/foo.hsp", "")
	b := f.add("b.hsp", "#include \"sub\\foo.hsp\"\n")
	target, ok = f.w.IncludeTarget(b, f.pos(b, 0, 12))
	require.True(t, ok)
	assert.Equal(t, nested, target)
	require.Len(t, f.w.Includes(b), 1)
	assert.True(t, f.w.Includes(b)[0].Resolved)
}
