package config

import (
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// MaxLogSize is the size past which the log is rotated on startup.
const MaxLogSize = 1 << 20

// ConfigureLogging sends the log to c.LogFile, never to stdout, which
// carries the protocol. It is called again whenever LogFile changes.
func (c *Config) ConfigureLogging() {
	path := c.LogFile
	if path == "" {
		path = DefaultLogFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		rotateLog(path)
	}
	commonlog.Configure(1+c.Verbosity, &path)
}

// rotateLog keeps a single previous generation.
func rotateLog(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxLogSize {
		return
	}
	_ = os.Rename(path, path+".1")
}
