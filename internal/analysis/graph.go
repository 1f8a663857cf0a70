// Package analysis implements the document graph, the processing
// queue, the parser adapter, cross-document semantic analysis, and the
// query handlers (hover, definition, references, completion,
// document/workspace symbols, signature help) that together form the
// core of the language server.
package analysis

import (
	"path"
	"strings"
	"sync"

	"github.com/awklsp/awk-languageserver/internal/document"
	"github.com/awklsp/awk-languageserver/internal/position"
)

// EditorRoot is the URI of the synthetic root document that includes
// every open editor buffer, so the reachability GC needs no special
// case for editor-owned documents (§9 Design Note).
const EditorRoot = "awklsp://editor-root"

// Graph owns every document reachable from the editor or from another
// document's @include graph. All mutation happens from the single
// event-loop goroutine that owns the processing Queue; Graph itself
// adds a mutex only to let query handlers (which run on the same
// goroutine in this implementation, but may not in every embedding)
// read safely, mirroring the teacher's plain-struct-behind-RWMutex
// pattern for incidental fields.
type Graph struct {
	mu        sync.RWMutex
	documents map[string]*document.Document
}

// NewGraph creates a graph containing only the synthetic editor root.
func NewGraph() *Graph {
	g := &Graph{documents: make(map[string]*document.Document)}
	g.documents[EditorRoot] = document.New(EditorRoot)
	return g
}

// Get returns the document for uri, if it exists.
func (g *Graph) Get(uri string) (*document.Document, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d, ok := g.documents[uri]
	return d, ok
}

// All returns every document currently in the graph, including the
// editor root.
func (g *Graph) All() []*document.Document {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*document.Document, 0, len(g.documents))
	for _, d := range g.documents {
		out = append(out, d)
	}
	return out
}

// getOrCreate returns the existing document for uri, or registers and
// returns a new empty one. The bool result is true when a new document
// was created.
func (g *Graph) getOrCreate(uri string) (*document.Document, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d, ok := g.documents[uri]; ok {
		return d, false
	}
	d := document.New(uri)
	g.documents[uri] = d
	return d, true
}

// OpenEditorDocument registers uri as opened by the editor, wiring the
// EditorRoot → uri include edge. Returns the document, creating it if
// this is the first time it has been seen.
func (g *Graph) OpenEditorDocument(uri string) *document.Document {
	doc, created := g.getOrCreate(uri)
	root, _ := g.Get(EditorRoot)

	site := position.Range{}
	root.AddInclude(uri, site)
	doc.AddIncludedBy(EditorRoot, site)
	_ = created
	return doc
}

// CloseEditorDocument removes the EditorRoot → uri edge; the document
// survives only if some other includer still references it.
func (g *Graph) CloseEditorDocument(uri string) {
	root, ok := g.Get(EditorRoot)
	if !ok {
		return
	}
	root.RemoveInclude(uri)
	if doc, ok := g.Get(uri); ok {
		doc.RemoveIncludedBy(EditorRoot)
	}
}

// IncludeResult reports the outcome of resolving one @include directive.
type IncludeResult struct {
	URI          string
	Document     *document.Document
	AlreadyKnown bool
	Err          error
}

// ErrIncludeNotFound is returned by AddInclude when no candidate path
// exists on disk.
type ErrIncludeNotFound struct {
	Filename string
}

func (e *ErrIncludeNotFound) Error() string {
	return "include not found: " + e.Filename
}

// FileExists is satisfied by internal/fsreader.Reader; kept narrow here
// so graph.go does not import the filesystem package directly.
type FileExists interface {
	FileExists(path string) bool
}

// AddInclude resolves filename (relative to includerURI's directory
// when relative is true, else against each entry of searchPath) and
// records an include edge from includerURI to the resolved document,
// per §4.1. If the target document did not already exist, it is
// registered in the graph before the caller schedules its file read —
// this is what makes include cycles safe: a second include of the same
// URI during an in-flight read observes the existing (possibly still
// empty) document instead of recursing into another read.
func (g *Graph) AddInclude(fs FileExists, includerURI string, filename string, relative bool, searchPath []string, site position.Range) IncludeResult {
	candidate, err := resolveIncludePath(fs, includerURI, filename, relative, searchPath)
	if err != nil {
		return IncludeResult{Err: err}
	}

	targetURI := "file://" + candidate
	doc, created := g.getOrCreate(targetURI)

	includer, _ := g.Get(includerURI)
	includer.AddInclude(targetURI, site)
	doc.AddIncludedBy(includerURI, site)

	return IncludeResult{URI: targetURI, Document: doc, AlreadyKnown: !created}
}

func resolveIncludePath(fs FileExists, includerURI, filename string, relative bool, searchPath []string) (string, error) {
	if !relative {
		for _, dir := range searchPath {
			candidate := path.Join(dir, filename)
			if fs.FileExists(candidate) {
				return candidate, nil
			}
		}
		return "", &ErrIncludeNotFound{Filename: filename}
	}

	includerPath := strings.TrimPrefix(includerURI, "file://")
	dir := path.Dir(includerPath)
	candidate := path.Join(dir, filename)
	if fs.FileExists(candidate) {
		return candidate, nil
	}
	for _, d := range searchPath {
		c := path.Join(d, filename)
		if fs.FileExists(c) {
			return c, nil
		}
	}
	return "", &ErrIncludeNotFound{Filename: filename}
}

// ClearIncludesFrom removes every include edge that sourceURI's
// previous parse recorded, in preparation for re-recording the edges
// its new parse discovers. Called at the start of re-parsing a
// document that may have changed its @include directives.
func (g *Graph) ClearIncludesFrom(sourceURI string) {
	source, ok := g.Get(sourceURI)
	if !ok {
		return
	}
	for targetURI := range source.Includes() {
		if target, ok := g.Get(targetURI); ok {
			target.RemoveIncludedBy(sourceURI)
		}
	}
	source.ClearIncludes()
}

// CollectOrphans removes every document (other than EditorRoot) whose
// includedBy set is empty, transitively: removing a document can empty
// out the includedBy set of documents it used to include, so those are
// checked again until a fixed point is reached (§3's liveness
// invariant, enforced at wrap-up).
func (g *Graph) CollectOrphans() []string {
	var removed []string
	for {
		g.mu.Lock()
		var dead []string
		for uri, doc := range g.documents {
			if uri == EditorRoot {
				continue
			}
			if !doc.IsLive() {
				dead = append(dead, uri)
			}
		}
		for _, uri := range dead {
			doc := g.documents[uri]
			for targetURI := range doc.Includes() {
				if target, ok := g.documents[targetURI]; ok {
					target.RemoveIncludedBy(uri)
				}
			}
			delete(g.documents, uri)
		}
		g.mu.Unlock()

		if len(dead) == 0 {
			return removed
		}
		removed = append(removed, dead...)
	}
}
