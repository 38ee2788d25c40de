package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/commonlog"
)

func TestRotateLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hsp3ls.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), MaxLogSize+1), 0o644))

	rotateLog(path)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	info, err := os.Stat(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, int64(MaxLogSize+1), info.Size())

	require.NoError(t, os.WriteFile(path, []byte("small"), 0o644))
	rotateLog(path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestProjectFileRedirectsLog(t *testing.T) {
	t.Cleanup(func() { commonlog.Configure(0, nil) })

	dir := t.TempDir()
	target := filepath.Join(dir, "logs", "project.log")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte("logFile: "+target+"\n"), 0o644))

	c := NewConfig()
	c.LogFile = filepath.Join(dir, "flag.log")
	c.ConfigureLogging()

	c.WorkspaceRoot = dir
	require.NoError(t, c.LoadProjectFile())
	require.Equal(t, target, c.LogFile)
	c.ConfigureLogging()

	info, err := os.Stat(target)
	require.NoError(t, err, "log file is created where the project file points")
	assert.False(t, info.IsDir())
}
