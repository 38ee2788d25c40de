// Package scan discovers source files on disk.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

// File is a decoded file found by Scan.
type File struct {
	Path string
	Text string
}

// ReadFile is used to load matches; replaced in tests.
var ReadFile = source.ReadFile

// Scan walks root and loads every file whose extension is in exts
// (case-insensitive). Files whose base name is in exclude are skipped, as
// are dot directories. Unreadable files are logged and left out. The
// result is sorted by path.
func Scan(ctx context.Context, root string, exts []string, exclude []string) ([]File, error) {
	logger := commonlog.GetLoggerf("hsp3ls.scan")

	paths, err := walk(ctx, root, exts, exclude)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		files = make([]File, 0, len(paths))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := ReadFile(p)
			if err != nil {
				logger.Warningf("skipping %s: %v", p, err)
				return nil
			}
			mu.Lock()
			files = append(files, File{Path: p, Text: text})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	logger.Infof("scanned %s: %d files", root, len(files))
	return files, nil
}

func walk(ctx context.Context, root string, exts []string, exclude []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if Matches(p, exts) && !excluded(d.Name(), exclude) {
			paths = append(paths, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return paths, err
}

// Matches reports whether p has one of exts.
func Matches(p string, exts []string) bool {
	ext := filepath.Ext(p)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func excluded(name string, exclude []string) bool {
	for _, e := range exclude {
		if strings.EqualFold(name, e) {
			return true
		}
	}
	return false
}
