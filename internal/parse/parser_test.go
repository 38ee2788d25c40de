package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/hsp3ls/internal/token"
)

func parseText(t *testing.T, text string) *Root {
	t.Helper()
	_, root := ParseText(1, text)
	require.NotNil(t, root)
	return root
}

func significantSkipped(root *Root) []*PToken {
	var out []*PToken
	for _, tok := range root.Skipped {
		if k := tok.Kind(); k != token.Eos && k != token.Colon {
			out = append(out, tok)
		}
	}
	return out
}

func TestParseAssignAndCommand(t *testing.T) {
	root := parseText(t, "x = 1\nmes x\n")
	require.Len(t, root.Stmts, 2)

	assign, ok := root.Stmts[0].(*AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Left.NameToken().Text())
	assert.Equal(t, "=", assign.Op.Text())
	require.Len(t, assign.Args, 1)

	cmd, ok := root.Stmts[1].(*CommandStmt)
	require.True(t, ok)
	assert.Equal(t, "mes", cmd.Command.Text())
	require.Len(t, cmd.Args, 1)
	assert.Empty(t, significantSkipped(root))
}

func TestParseArrayAssignment(t *testing.T) {
	root := parseText(t, "a(1, 2) = 3\nb(i) += 1\nc.0 = 2\n")
	require.Len(t, root.Stmts, 3)
	for _, s := range root.Stmts {
		_, ok := s.(*AssignStmt)
		assert.True(t, ok, "%T", s)
	}

	call := root.Stmts[0].(*AssignStmt).Left.(*CallExpr)
	assert.Len(t, call.Args, 2)
	_, ok := root.Stmts[2].(*AssignStmt).Left.(*DotsExpr)
	assert.True(t, ok)
}

func TestParseCommandWithParenArgument(t *testing.T) {
	root := parseText(t, "mes (1 + 2) + 3\n")
	require.Len(t, root.Stmts, 1)
	cmd, ok := root.Stmts[0].(*CommandStmt)
	require.True(t, ok)
	require.Len(t, cmd.Args, 1)
	_, ok = cmd.Args[0].Expr.(*InfixExpr)
	assert.True(t, ok)
}

func TestParseIncrement(t *testing.T) {
	root := parseText(t, "i++\nj--\n")
	require.Len(t, root.Stmts, 2)
	assert.Equal(t, "++", root.Stmts[0].(*AssignStmt).Op.Text())
	assert.Equal(t, "--", root.Stmts[1].(*AssignStmt).Op.Text())
}

func TestParseGotoModifier(t *testing.T) {
	root := parseText(t, "onexit gosub *l\n*l\nreturn\n")
	require.Len(t, root.Stmts, 3)
	cmd := root.Stmts[0].(*CommandStmt)
	require.NotNil(t, cmd.Jump)
	assert.Equal(t, "gosub", cmd.Jump.Text())
	require.Len(t, cmd.Args, 1)
	_, ok := cmd.Args[0].Expr.(*Label)
	assert.True(t, ok)

	label, ok := root.Stmts[1].(*Label)
	require.True(t, ok)
	assert.Equal(t, "l", label.Name.Text())
}

func TestParseInvoke(t *testing.T) {
	root := parseText(t, "obj->\"method\" 1, 2\n")
	require.Len(t, root.Stmts, 1)
	inv, ok := root.Stmts[0].(*InvokeStmt)
	require.True(t, ok)
	require.NotNil(t, inv.Arrow)
	assert.Len(t, inv.Args, 2)
}

func TestParseIfElse(t *testing.T) {
	root := parseText(t, "if a = 1 {\n\tmes 1\n} else {\n\tmes 2\n}\nif b : c = 1 : else : c = 2\n")
	require.Len(t, root.Stmts, 2)

	first := root.Stmts[0].(*IfStmt)
	require.NotNil(t, first.Else)
	assert.Len(t, first.Body.InnerStmts, 1)
	assert.Len(t, first.Alt.InnerStmts, 1)

	second := root.Stmts[1].(*IfStmt)
	require.NotNil(t, second.Else)
	assert.Len(t, second.Body.OuterStmts, 1)
	assert.Len(t, second.Alt.OuterStmts, 1)
}

func TestParseElseOnNextLine(t *testing.T) {
	root := parseText(t, "if a {\n\tmes 1\n}\nelse {\n\tmes 2\n}\n")
	require.Len(t, root.Stmts, 1)
	stmt := root.Stmts[0].(*IfStmt)
	require.NotNil(t, stmt.Else)
	assert.Len(t, stmt.Alt.InnerStmts, 1)
}

func TestParseModuleAndDefFunc(t *testing.T) {
	root := parseText(t, "#module m a, b\n#deffunc greet str s, local t\n\tmes s\n\treturn\n#defcfunc f int x\n\treturn x\n#global\nmes 1\n")
	require.Len(t, root.Stmts, 2)

	mod, ok := root.Stmts[0].(*ModuleStmt)
	require.True(t, ok)
	assert.Equal(t, "m", mod.Name.Text())
	require.Len(t, mod.Fields, 2)
	assert.Equal(t, "a", mod.Fields[0].Name.Text())
	require.NotNil(t, mod.Global)
	require.Len(t, mod.Stmts, 2)

	greet := mod.Stmts[0].(*DefFuncStmt)
	assert.Equal(t, DefFuncCommand, greet.Kind)
	assert.Equal(t, "greet", greet.Name.Text())
	require.Len(t, greet.Params, 2)
	assert.Equal(t, ParamStr, greet.Params[0].Type)
	assert.Equal(t, "s", greet.Params[0].Name.Text())
	assert.Equal(t, Local, greet.Params[1].Type.Category())
	assert.Len(t, greet.Stmts, 2)

	f := mod.Stmts[1].(*DefFuncStmt)
	assert.True(t, f.Kind.IsCFunc())
	assert.Len(t, f.Stmts, 1)
}

func TestParseUnterminatedModule(t *testing.T) {
	root := parseText(t, "#module m\nx = 1\n")
	require.Len(t, root.Stmts, 1)
	mod := root.Stmts[0].(*ModuleStmt)
	assert.Nil(t, mod.Global)
	assert.Len(t, mod.Stmts, 1)
}

func TestParseConstEnumDefine(t *testing.T) {
	root := parseText(t, "#const global double PI 3.14\n#enum E = 1\n#define ctype max(%1, %2 = 0) ((%1) > (%2))\n#define LATER (1)\n")
	require.Len(t, root.Stmts, 4)

	c := root.Stmts[0].(*ConstStmt)
	assert.Equal(t, PrivacyGlobal, c.Privacy)
	assert.Equal(t, "double", c.Type.Text())
	assert.Equal(t, "PI", c.Name.Text())
	assert.NotNil(t, c.Init)

	e := root.Stmts[1].(*EnumStmt)
	assert.Equal(t, "E", e.Name.Text())
	assert.NotNil(t, e.Equal)

	d := root.Stmts[2].(*DefineStmt)
	assert.NotNil(t, d.Ctype)
	assert.Equal(t, "max", d.Name.Text())
	assert.Len(t, d.Params, 2)

	// `(` is separated from the name, so it belongs to the body
	later := root.Stmts[3].(*DefineStmt)
	assert.Nil(t, later.LeftParen)
	assert.Len(t, later.Tokens, 3)
}

func TestParseLibraryDirectives(t *testing.T) {
	root := parseText(t, "#uselib \"user32\"\n#func global MessageBoxA \"MessageBoxA\" int, sptr, sptr, int\n#cmd hello $000\n#regcmd \"_hsp3cmdinit@4\", \"x.dll\"\n#usecom IFoo \"{guid}\"\n#comfunc IFoo_Bar 3 int\n")
	require.Len(t, root.Stmts, 6)

	assert.Equal(t, `"user32"`, root.Stmts[0].(*UseLibStmt).Path.Text())

	fn := root.Stmts[1].(*LibFuncStmt)
	assert.Equal(t, "MessageBoxA", fn.Name.Text())
	assert.Equal(t, `"MessageBoxA"`, fn.FuncName.Text())
	assert.Len(t, fn.Params, 4)

	assert.Equal(t, "hello", root.Stmts[2].(*CmdStmt).Name.Text())
	assert.Len(t, root.Stmts[3].(*RegCmdStmt).Args, 2)
	assert.Equal(t, "IFoo", root.Stmts[4].(*UseComStmt).Name.Text())

	cf := root.Stmts[5].(*ComFuncStmt)
	assert.Equal(t, "IFoo_Bar", cf.Name.Text())
	assert.Equal(t, "3", cf.Index.Text())
}

func TestParseIncludeAndUnknown(t *testing.T) {
	root := parseText(t, "#include \"a.hsp\"\n#addition \"b.as\"\n#undef X\n#packopt name \"x\"\n")
	require.Len(t, root.Stmts, 4)

	inc := root.Stmts[0].(*IncludeStmt)
	assert.False(t, inc.Optional)
	assert.Equal(t, `"a.hsp"`, inc.Path.Text())
	assert.True(t, root.Stmts[1].(*IncludeStmt).Optional)
	assert.Equal(t, "X", root.Stmts[2].(*UndefStmt).Name.Text())
	assert.Len(t, root.Stmts[3].(*UnknownPreprocStmt).Tokens, 3)
}

func TestParseNeverFails(t *testing.T) {
	root := parseText(t, ") , } mes 1\n")
	require.NotNil(t, root.Eof)
	assert.Equal(t, token.Eof, root.Eof.Kind())
	assert.NotEmpty(t, significantSkipped(root))
}

func TestInspectVisitsNestedStatements(t *testing.T) {
	root := parseText(t, "#module m\n#deffunc f\n\tif a {\n\t\tb = c + 1\n\t}\n#global\n")

	var names []string
	Inspect(root.Stmts, func(n Node) bool {
		if e, ok := n.(*NameExpr); ok {
			names = append(names, e.Name.Text())
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
