// Package server holds the top-level Server type that wires the
// document graph, processing queue and configuration together and
// tracks the bits of editor state (workspace folders, client
// capabilities, shutdown) that live outside the analysis engine.
package server

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/fsreader"
)

// Server holds the process-wide state of the language server.
type Server struct {
	graph  *analysis.Graph
	queue  *analysis.Queue
	config *analysis.Config

	mu                 sync.RWMutex
	workspaceFolders   []string
	clientCapabilities *protocol.ClientCapabilities
	shuttingDown       bool
}

// New creates a server with a fresh document graph and processing
// queue backed by a real filesystem reader.
func New() *Server {
	graph := analysis.NewGraph()
	config := analysis.NewConfig()
	queue := analysis.NewQueue(graph, fsreader.New(), config)
	return &Server{graph: graph, queue: queue, config: config}
}

// Graph returns the document graph.
func (s *Server) Graph() *analysis.Graph {
	return s.graph
}

// Queue returns the processing queue.
func (s *Server) Queue() *analysis.Queue {
	return s.queue
}

// Config returns the analysis configuration.
func (s *Server) Config() *analysis.Config {
	return s.config
}

// IsShuttingDown reports whether Shutdown has been requested.
func (s *Server) IsShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuttingDown
}

// SetShuttingDown marks the server as shutting down.
func (s *Server) SetShuttingDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuttingDown = true
}

// SetWorkspaceFolders records the workspace folders sent at initialize
// (or updated later via workspace/didChangeWorkspaceFolders). @include
// resolution does not consult them; it searches the configured include
// path.
func (s *Server) SetWorkspaceFolders(folders []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceFolders = folders
}

// GetWorkspaceFolders returns the current workspace folders.
func (s *Server) GetWorkspaceFolders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceFolders
}

// SetClientCapabilities records the client's declared capabilities.
func (s *Server) SetClientCapabilities(capabilities *protocol.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = capabilities
}

// GetClientCapabilities returns the client's declared capabilities.
func (s *Server) GetClientCapabilities() *protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

// SupportsSnippets reports whether the client advertised snippet
// support for completion items.
func (s *Server) SupportsSnippets() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	caps := s.clientCapabilities
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.Completion == nil {
		return false
	}
	item := caps.TextDocument.Completion.CompletionItem
	if item == nil || item.SnippetSupport == nil {
		return false
	}
	return *item.SnippetSupport
}
