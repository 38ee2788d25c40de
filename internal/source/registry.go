package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinyvision/hsp3ls/internal/utils"
	"github.com/tliron/commonlog"
)

// Lang tags the kind of content a document holds.
type Lang int

const (
	LangHSP3 Lang = iota
	LangHelp
)

func (l Lang) String() string {
	if l == LangHelp {
		return "hsphelp"
	}
	return "hsp3"
}

// LangFromPath picks the language from the file extension.
func LangFromPath(p string) Lang {
	if strings.EqualFold(filepath.Ext(p), ".hs") {
		return LangHelp
	}
	return LangHSP3
}

// Origin records who owns the current text of a document.
type Origin int

const (
	OriginClosed Origin = iota
	OriginEditor
	OriginPath
)

// Document is a registry entry. Its ID never changes while it is registered.
type Document struct {
	ID         DocID
	URI        string
	Path       string
	Lang       Lang
	Text       string
	Version    int32
	HasVersion bool
	Origin     Origin
}

type ChangeKind int

const (
	DocOpened ChangeKind = iota
	DocChanged
	DocClosed
	DocRemoved
)

// Change is an event the registry leaves for the orchestrator.
type Change struct {
	Doc  DocID
	Kind ChangeKind
}

// Registry interns documents and stores their text. It performs no
// analysis. It is not safe for concurrent use: the state queue owns it.
type Registry struct {
	lastID  DocID
	byURI   map[string]DocID
	docs    map[DocID]*Document
	changes []Change
	logger  commonlog.Logger

	// ReadFile loads path-owned documents; replaced in tests.
	ReadFile func(path string) (string, error)
}

func NewRegistry() *Registry {
	return &Registry{
		byURI:    make(map[string]DocID),
		docs:     make(map[DocID]*Document),
		logger:   commonlog.GetLoggerf("hsp3ls.source"),
		ReadFile: ReadFile,
	}
}

// CanonicalPath resolves "..", relative segments and symlinks when the
// filesystem permits, and only normalises the segments otherwise.
func CanonicalPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	dir, base := filepath.Split(abs)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return abs
}

// CanonicalURI canonicalises file URIs; other schemes are kept verbatim.
func CanonicalURI(uri string) (string, string) {
	if !utils.IsFileURI(uri) {
		return uri, ""
	}
	p := CanonicalPath(utils.UriToPath(uri))
	return utils.PathToURI(p), p
}

// Intern returns the ID for uri, allocating one when it is new.
func (r *Registry) Intern(uri string) (DocID, bool) {
	canonical, p := CanonicalURI(uri)
	if id, ok := r.byURI[canonical]; ok {
		return id, false
	}

	r.lastID++
	id := r.lastID
	lang := LangHSP3
	if p != "" {
		lang = LangFromPath(p)
	}
	r.docs[id] = &Document{ID: id, URI: canonical, Path: p, Lang: lang}
	r.byURI[canonical] = id
	r.logger.Debugf("intern doc:%d %s", id, canonical)
	return id, true
}

// InternPath is Intern for a filesystem path.
func (r *Registry) InternPath(p string) (DocID, bool) {
	return r.Intern(utils.PathToURI(CanonicalPath(p)))
}

func (r *Registry) Get(id DocID) (*Document, bool) {
	doc, ok := r.docs[id]
	return doc, ok
}

func (r *Registry) FindByURI(uri string) (DocID, bool) {
	canonical, _ := CanonicalURI(uri)
	id, ok := r.byURI[canonical]
	return id, ok
}

func (r *Registry) FindByPath(p string) (DocID, bool) {
	return r.FindByURI(utils.PathToURI(CanonicalPath(p)))
}

// Docs lists every registered document in ascending ID order.
func (r *Registry) Docs() []DocID {
	ids := make([]DocID, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OpenInEditor makes the editor the owner of the document.
func (r *Registry) OpenInEditor(uri string, lang Lang, text string, version int32) DocID {
	id, _ := r.Intern(uri)
	doc := r.docs[id]
	doc.Lang = lang
	doc.Text = text
	doc.Version = version
	doc.HasVersion = true
	doc.Origin = OriginEditor
	r.record(id, DocOpened)
	return id
}

// Change replaces the full text. Versions must strictly increase.
func (r *Registry) Change(id DocID, text string, version int32) error {
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("%w: doc:%d", ErrUnknownDocument, id)
	}
	if doc.HasVersion && version <= doc.Version {
		r.logger.Warningf("dropped change for %s: version %d <= %d", doc.URI, version, doc.Version)
		return fmt.Errorf("%w: %s version %d <= %d", ErrStaleVersion, doc.URI, version, doc.Version)
	}

	doc.Text = text
	doc.Version = version
	doc.HasVersion = true
	doc.Origin = OriginEditor
	r.record(id, DocChanged)
	return nil
}

// CloseInEditor hands the document back to the filesystem. It stays
// registered under the same ID even when the file is gone.
func (r *Registry) CloseInEditor(id DocID) error {
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("%w: doc:%d", ErrUnknownDocument, id)
	}

	doc.HasVersion = false
	doc.Version = 0
	if doc.Path != "" {
		text, err := r.ReadFile(doc.Path)
		if err == nil {
			doc.Text = text
			doc.Origin = OriginPath
			r.record(id, DocChanged)
			return nil
		}
		if !errors.Is(err, ErrIoUnavailable) {
			r.logger.Warningf("could not reload %s: %v", doc.Path, err)
		}
	}

	doc.Text = ""
	doc.Origin = OriginClosed
	r.record(id, DocClosed)
	return nil
}

// EnsureFileOpened registers a file found by a scan. Editor-owned
// documents keep their text. It reports whether anything changed.
func (r *Registry) EnsureFileOpened(p string, text string) (DocID, bool) {
	id, fresh := r.InternPath(p)
	doc := r.docs[id]
	switch {
	case doc.Origin == OriginEditor:
		return id, false
	case doc.Origin == OriginPath && !fresh && doc.Text == text:
		return id, false
	}

	kind := DocChanged
	if doc.Origin == OriginClosed {
		kind = DocOpened
	}
	doc.Text = text
	doc.Origin = OriginPath
	r.record(id, kind)
	return id, true
}

// LoadFile reads p from disk and registers it.
func (r *Registry) LoadFile(p string) (DocID, error) {
	text, err := r.ReadFile(p)
	if err != nil {
		return 0, err
	}
	id, _ := r.EnsureFileOpened(p, text)
	return id, nil
}

// Remove forgets the document. Downstream analyses are invalidated by the
// orchestrator when it drains the change.
func (r *Registry) Remove(id DocID) {
	doc, ok := r.docs[id]
	if !ok {
		return
	}
	delete(r.byURI, doc.URI)
	delete(r.docs, id)
	r.record(id, DocRemoved)
}

// TakeChanges returns and clears the pending change events.
func (r *Registry) TakeChanges() []Change {
	changes := r.changes
	r.changes = nil
	return changes
}

func (r *Registry) record(id DocID, kind ChangeKind) {
	r.changes = append(r.changes, Change{Doc: id, Kind: kind})
}
