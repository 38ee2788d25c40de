package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	text, err := Decode([]byte("\xEF\xBB\xBFmes \"hi\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "mes \"hi\"\n", text)

	text, err = Decode([]byte{'m', 'e', 's', ' ', 0x82, 0xA0})
	require.NoError(t, err)
	assert.Equal(t, "mes あ", text)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.hsp"))
	assert.ErrorIs(t, err, ErrIoUnavailable)
}

func TestUTF16Columns(t *testing.T) {
	text := "a\nあ𝄞x\n"

	p := FromUTF16(text, 1, 3)
	assert.Equal(t, Pos{Index: 9, Row: 1, Col: 7}, p)
	assert.Equal(t, uint32(3), UTF16Col(text, p))

	assert.Equal(t, Pos{Index: 10, Row: 1, Col: 8}, FromUTF16(text, 1, 99), "clamped to line end")
	assert.Equal(t, PosAt(text, len(text)), FromUTF16(text, 9, 0), "clamped to text end")
}

func TestPosAdvance(t *testing.T) {
	p := Pos{}.Advance("ab\ncd")
	assert.Equal(t, Pos{Index: 5, Row: 1, Col: 2}, p)
	assert.Equal(t, Pos{Index: 7, Row: 1, Col: 4}, p.Advance("ef"))
}

func TestRegistryEditorOwnership(t *testing.T) {
	dir := CanonicalPath(t.TempDir())
	path := filepath.Join(dir, "a.hsp")
	require.NoError(t, os.WriteFile(path, []byte("on disk\n"), 0o644))

	r := NewRegistry()
	id, fresh := r.InternPath(path)
	require.True(t, fresh)
	again, fresh := r.InternPath(filepath.Join(dir, ".", "a.hsp"))
	assert.False(t, fresh)
	assert.Equal(t, id, again)

	doc, _ := r.Get(id)
	assert.Equal(t, LangHSP3, doc.Lang)
	assert.Equal(t, OriginClosed, doc.Origin)

	r.OpenInEditor(doc.URI, LangHSP3, "typed\n", 1)
	_, changed := r.EnsureFileOpened(path, "on disk\n")
	assert.False(t, changed, "editor text wins over scans")
	assert.ErrorIs(t, r.Change(id, "older\n", 1), ErrStaleVersion)
	require.NoError(t, r.Change(id, "newer\n", 2))
	assert.Equal(t, "newer\n", doc.Text)

	require.NoError(t, r.CloseInEditor(id))
	assert.Equal(t, "on disk\n", doc.Text)
	assert.Equal(t, OriginPath, doc.Origin)
	assert.False(t, doc.HasVersion)

	assert.Equal(t, []Change{
		{Doc: id, Kind: DocOpened},
		{Doc: id, Kind: DocChanged},
		{Doc: id, Kind: DocChanged},
	}, r.TakeChanges())
	assert.Empty(t, r.TakeChanges())
}

func TestRegistryCloseWithoutFile(t *testing.T) {
	r := NewRegistry()
	uri := "file://" + filepath.ToSlash(filepath.Join(CanonicalPath(t.TempDir()), "unsaved.hsp"))
	id := r.OpenInEditor(uri, LangHSP3, "mes 1\n", 1)

	require.NoError(t, r.CloseInEditor(id))
	doc, ok := r.Get(id)
	require.True(t, ok, "the id stays registered")
	assert.Empty(t, doc.Text)
	assert.Equal(t, OriginClosed, doc.Origin)

	r.Remove(id)
	_, ok = r.FindByURI(uri)
	assert.False(t, ok)
	assert.ErrorIs(t, r.Change(id, "x", 5), ErrUnknownDocument)
}

func TestLangFromPath(t *testing.T) {
	assert.Equal(t, LangHelp, LangFromPath("/hsp/hsphelp/i_builtin.HS"))
	assert.Equal(t, LangHSP3, LangFromPath("/proj/main.as"))
}
