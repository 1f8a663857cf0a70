package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/server"
)

// DidOpen handles textDocument/didOpen: registers the buffer as an
// editor-owned document and enqueues it for parsing.
func DidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidOpen")
		return nil
	}

	uri := params.TextDocument.URI
	log.Printf("awklsp: document opened: %s (%d bytes)\n", uri, len(params.TextDocument.Text))

	srv.Graph().OpenEditorDocument(uri)
	bindPublish(srv, context)
	srv.Queue().Enqueue(uri, params.TextDocument.Text, true)
	return nil
}

// bindPublish points the queue's diagnostics callback at this request's
// notify context. The queue drains synchronously within Enqueue/Drain,
// so the context captured here is still live when wrap-up calls Publish.
func bindPublish(srv *server.Server, context *glsp.Context) {
	srv.Queue().Publish = func(uri string, diagnostics []protocol.Diagnostic) {
		PublishDiagnostics(context, uri, diagnostics)
	}
}

// DidChange handles textDocument/didChange. Sync is full-document only
// (per the advertised TextDocumentSyncKindFull), so every change event
// carries the complete new text and the last one wins.
func DidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChange")
		return nil
	}

	uri := params.TextDocument.URI
	var newText string
	for _, change := range params.ContentChanges {
		if full, ok := change.(protocol.TextDocumentContentChangeEvent); ok {
			newText = full.Text
		}
	}

	log.Printf("awklsp: document changed: %s (version %d)\n", uri, params.TextDocument.Version)
	bindPublish(srv, context)
	srv.Queue().Enqueue(uri, newText, true)
	return nil
}

// DidClose handles textDocument/didClose: drops the EditorRoot edge so
// the document is collected at the next wrap-up unless something still
// includes it.
func DidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidClose")
		return nil
	}

	uri := params.TextDocument.URI
	log.Printf("awklsp: document closed: %s\n", uri)
	srv.Graph().CloseEditorDocument(uri)
	bindPublish(srv, context)
	srv.Queue().Drain()

	if context != nil && context.Notify != nil {
		context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}
