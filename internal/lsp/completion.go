package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// Completion handles textDocument/completion.
func Completion(context *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Completion")
		return nil, nil
	}
	pos := fromLSPPosition(params.Position)
	items, err := analysis.Completion(srv.Graph(), srv.Config(), params.TextDocument.URI, pos)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ResolveCompletionItem handles completionItem/resolve. Every field this
// server can offer (detail, documentation) is already attached when the
// item is first built, so resolve is the identity function, matching the
// no-op resolve the teacher's own ResolveProvider: true wiring permits.
func ResolveCompletionItem(context *glsp.Context, params *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	return params, nil
}
