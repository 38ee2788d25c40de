package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinyvision/hsp3ls/internal/utils"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

// ProjectFile is looked up in the workspace root.
const ProjectFile = "hsp3ls.yaml"

// RootEnv names the environment variable holding the HSP3 install directory.
const RootEnv = "HSP3_ROOT"

var ErrMissingRoot = errors.New("hsp3 root is not configured")

type Config struct {
	HSP3Root              string
	SearchRoots           []string
	WorkspaceRoot         string
	LintEnabled           bool
	WatcherEnabled        bool
	DocumentSymbolEnabled bool
	LogFile               string
	Verbosity             int
}

func NewConfig() *Config {
	return &Config{
		HSP3Root:              os.Getenv(RootEnv),
		LintEnabled:           true,
		WatcherEnabled:        true,
		DocumentSymbolEnabled: true,
		LogFile:               DefaultLogFile(),
	}
}

// DefaultLogFile is the log target used when nothing else is configured.
func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), "hsp3ls", "hsp3ls.log")
}

// Options mirrors the keys accepted in hsp3ls.yaml, initializationOptions
// and the "hsp3" section of workspace settings. Nil fields are left alone.
type Options struct {
	HSP3Root              *string  `yaml:"hsp3Root"`
	SearchRoots           []string `yaml:"searchRoots"`
	LintEnabled           *bool    `yaml:"lintEnabled"`
	WatcherEnabled        *bool    `yaml:"watcherEnabled"`
	DocumentSymbolEnabled *bool    `yaml:"documentSymbolEnabled"`
	LogFile               *string  `yaml:"logFile"`
}

// Apply overlays the set fields of o.
func (c *Config) Apply(o Options) {
	if o.HSP3Root != nil && *o.HSP3Root != "" {
		c.HSP3Root = *o.HSP3Root
	}
	if o.SearchRoots != nil {
		c.SearchRoots = nil
		for _, root := range o.SearchRoots {
			if root != "" {
				c.SearchRoots = utils.AppendUnique(c.SearchRoots, root)
			}
		}
	}
	if o.LintEnabled != nil {
		c.LintEnabled = *o.LintEnabled
	}
	if o.WatcherEnabled != nil {
		c.WatcherEnabled = *o.WatcherEnabled
	}
	if o.DocumentSymbolEnabled != nil {
		c.DocumentSymbolEnabled = *o.DocumentSymbolEnabled
	}
	if o.LogFile != nil && *o.LogFile != "" {
		c.LogFile = *o.LogFile
	}
}

// LoadProjectFile applies hsp3ls.yaml from the workspace root. A missing
// file is not an error.
func (c *Config) LoadProjectFile() error {
	logger := commonlog.GetLoggerf("hsp3ls.config")
	if c.WorkspaceRoot == "" {
		return nil
	}

	path := filepath.Join(c.WorkspaceRoot, ProjectFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.Apply(o)
	logger.Infof("loaded %s", path)
	return nil
}

// ApplyMap applies loosely typed options as they arrive over JSON-RPC.
// Values of the wrong type are ignored.
func (c *Config) ApplyMap(m map[string]any) {
	var o Options
	if v, ok := m["hsp3Root"].(string); ok {
		o.HSP3Root = &v
	}
	if arr, ok := m["searchRoots"].([]any); ok {
		o.SearchRoots = []string{}
		for _, v := range arr {
			if str, ok := v.(string); ok {
				o.SearchRoots = append(o.SearchRoots, str)
			}
		}
	}
	if v, ok := m["lintEnabled"].(bool); ok {
		o.LintEnabled = &v
	}
	if v, ok := m["watcherEnabled"].(bool); ok {
		o.WatcherEnabled = &v
	}
	if v, ok := m["documentSymbolEnabled"].(bool); ok {
		o.DocumentSymbolEnabled = &v
	}
	if v, ok := m["logFile"].(string); ok {
		o.LogFile = &v
	}
	c.Apply(o)
}

// ApplySettings applies the "hsp3" section of workspace/didChangeConfiguration.
func (c *Config) ApplySettings(settings any) {
	m, ok := settings.(map[string]any)
	if !ok {
		return
	}
	if section, ok := m["hsp3"].(map[string]any); ok {
		c.ApplyMap(section)
	}
}

func (c *Config) Validate() error {
	if c.HSP3Root == "" {
		return ErrMissingRoot
	}
	return nil
}

// CommonDir is where the HSP3 installation keeps its include files.
func (c *Config) CommonDir() string {
	if c.HSP3Root == "" {
		return ""
	}
	return filepath.Join(c.HSP3Root, "common")
}

// HelpDir is where the HSP3 installation keeps its help sources.
func (c *Config) HelpDir() string {
	if c.HSP3Root == "" {
		return ""
	}
	return filepath.Join(c.HSP3Root, "hsphelp")
}

// ResolvedSearchRoots makes relative search roots absolute against the
// workspace root.
func (c *Config) ResolvedSearchRoots() []string {
	var roots []string
	for _, root := range c.SearchRoots {
		if !filepath.IsAbs(root) && c.WorkspaceRoot != "" {
			root = filepath.Join(c.WorkspaceRoot, root)
		}
		roots = utils.AppendUnique(roots, filepath.Clean(root))
	}
	return roots
}
