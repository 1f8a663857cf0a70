package analysis

import (
	"fmt"
	"log"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/awkparse"
	"github.com/awklsp/awk-languageserver/internal/document"
)

// FileReader is the async filesystem contract of §6: ReadFile dispatches
// path asynchronously and calls cb exactly once with either data or err;
// FileExists is synchronous. Implemented by internal/fsreader.
type FileReader interface {
	ReadFile(path string, cb func(data string, err error))
	FileExists(path string) bool
}

type queueItem struct {
	uri          string
	text         string
	openInEditor bool
}

// Queue is the single-threaded work queue of §4.4/§5: it advances only
// when no filesystem reads are outstanding, and runs wrap-up exactly
// once per drained batch.
type Queue struct {
	graph  *Graph
	reader FileReader
	config *Config

	// Publish is called once per live document at the end of each
	// wrap-up, with every diagnostic currently attached to it. Wired by
	// the server to glsp's textDocument/publishDiagnostics notification.
	Publish func(uri string, diagnostics []protocol.Diagnostic)

	mu        sync.Mutex
	items     []queueItem
	openReads int32

	validateDepth int32

	alteredDocuments           map[string]bool
	documentsWithAlteredDefs   map[string]bool
}

// NewQueue creates a queue bound to graph, reader and config.
func NewQueue(graph *Graph, reader FileReader, config *Config) *Queue {
	return &Queue{
		graph:                    graph,
		reader:                   reader,
		config:                   config,
		alteredDocuments:         make(map[string]bool),
		documentsWithAlteredDefs: make(map[string]bool),
	}
}

// Enqueue appends an item and immediately attempts to drain the queue.
func (q *Queue) Enqueue(uri, text string, openInEditor bool) {
	q.mu.Lock()
	q.items = append(q.items, queueItem{uri: uri, text: text, openInEditor: openInEditor})
	q.mu.Unlock()
	q.Drain()
}

// Drain advances the queue until it is empty and no reads are
// outstanding, at which point it runs wrap-up exactly once.
func (q *Queue) Drain() {
	for {
		if atomic.LoadInt32(&q.openReads) > 0 {
			return
		}
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			break
		}
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		q.processItem(item)
	}

	if atomic.LoadInt32(&q.openReads) == 0 {
		q.wrapUp()
	}
}

func (q *Queue) processItem(item queueItem) {
	depth := atomic.AddInt32(&q.validateDepth, 1)
	defer atomic.AddInt32(&q.validateDepth, -1)
	if depth > 1 {
		log.Printf("awklsp: re-entrant validateText observed for %s (depth %d)", item.uri, depth)
	}

	doc, _ := q.graph.Get(item.uri)
	if doc == nil {
		doc, _ = q.graph.getOrCreate(item.uri)
	}

	q.graph.ClearIncludesFrom(item.uri)
	doc.BeginParse(item.text)

	adapter := NewParserAdapter(doc, q.config)
	baseName := baseNameWithoutExt(item.uri)
	awkparse.Parse(item.text, baseName, q.config.GawkMode(), adapter)
	includes := adapter.Finish()

	q.markAltered(item.uri, adapter.DefinedFunctionSignature())

	for _, inc := range includes {
		q.resolveInclude(item.uri, inc)
	}
}

func baseNameWithoutExt(uri string) string {
	base := path.Base(uri)
	return strings.TrimSuffix(base, path.Ext(base))
}

func (q *Queue) resolveInclude(includerURI string, inc pendingInclude) {
	result := q.graph.AddInclude(q.reader, includerURI, inc.filename, inc.relative, q.config.IncludePath(), inc.site)
	if result.Err != nil {
		includer, _ := q.graph.Get(includerURI)
		if includer != nil {
			includer.ParseDiagnostics = append(includer.ParseDiagnostics, protocol.Diagnostic{
				Range:    toLSPRange(inc.site),
				Severity: severityPtr(protocol.DiagnosticSeverityError),
				Source:   strPtr("awk"),
				Message:  fmt.Sprintf("cannot find include file %q", inc.filename),
			})
		}
		return
	}
	if result.AlreadyKnown {
		return
	}

	atomic.AddInt32(&q.openReads, 1)
	filePath := strings.TrimPrefix(result.URI, "file://")
	q.reader.ReadFile(filePath, func(data string, err error) {
		atomic.AddInt32(&q.openReads, -1)
		if err != nil {
			// Filesystem read errors silently cancel the enqueue per §7;
			// the missing-include error path above already covers the
			// user-visible case for files that never existed.
			q.Drain()
			return
		}
		q.mu.Lock()
		q.items = append(q.items, queueItem{uri: result.URI, text: data})
		q.mu.Unlock()
		q.Drain()
	})
}

func (q *Queue) markAltered(uri string, definedFunctions bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.alteredDocuments[uri] = true
	if definedFunctions {
		q.documentsWithAlteredDefs[uri] = true
	}
}

// wrapUp implements §4.4's post-drain phase: close orphaned documents,
// run cross-document semantic analysis on the altered set, then publish
// diagnostics for every live document.
func (q *Queue) wrapUp() {
	q.graph.CollectOrphans()

	q.mu.Lock()
	altered := q.alteredDocuments
	withDefs := q.documentsWithAlteredDefs
	q.alteredDocuments = make(map[string]bool)
	q.documentsWithAlteredDefs = make(map[string]bool)
	q.mu.Unlock()

	if q.config.CheckFunctionCalls() {
		RunSemanticAnalysis(q.graph, altered, withDefs)
	} else {
		for uri := range altered {
			if doc, ok := q.graph.Get(uri); ok {
				doc.AnalysisDiagnostics = nil
			}
		}
	}

	if q.Publish == nil {
		return
	}
	maxProblems := q.config.MaxNumberOfProblems()
	for _, doc := range q.graph.All() {
		if doc.URI == EditorRoot {
			continue
		}
		q.Publish(doc.URI, cappedDiagnostics(doc, maxProblems))
	}
}

func cappedDiagnostics(doc *document.Document, max int) []protocol.Diagnostic {
	all := append([]protocol.Diagnostic(nil), doc.ParseDiagnostics...)
	all = append(all, doc.AnalysisDiagnostics...)
	if len(all) > max {
		all = all[:max]
	}
	return all
}
