package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURIRoundTrip(t *testing.T) {
	p := filepath.FromSlash("/proj/sub dir/main.hsp")
	uri := PathToURI(p)
	assert.Equal(t, "file:///proj/sub%20dir/main.hsp", uri)
	assert.True(t, IsFileURI(uri))
	assert.Equal(t, p, UriToPath(uri))

	assert.False(t, IsFileURI("untitled:Untitled-1"))
	assert.Equal(t, "untitled:Untitled-1", UriToPath("untitled:Untitled-1"))
}

func TestIsUnder(t *testing.T) {
	root := filepath.FromSlash("/hsp/common")
	assert.True(t, IsUnder(root, root))
	assert.True(t, IsUnder(filepath.Join(root, "sub", "a.as"), root))
	assert.False(t, IsUnder(filepath.FromSlash("/hsp/commons/a.as"), root))
	assert.False(t, IsUnder(filepath.FromSlash("/hsp/a.as"), root))
	assert.False(t, IsUnder(filepath.FromSlash("/hsp/a.as"), ""))
}

func TestBaseStemAndAppendUnique(t *testing.T) {
	assert.Equal(t, "foo", BaseStem("a/foo.as"))
	assert.Equal(t, "i_builtin", BaseStem(filepath.FromSlash("/hsp/hsphelp/i_builtin.hs")))
	assert.Equal(t, []string{"a", "b"}, AppendUnique(AppendUnique([]string{"a"}, "b"), "a"))
}
