package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// References handles textDocument/references.
func References(context *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in References")
		return nil, nil
	}
	pos := fromLSPPosition(params.Position)
	return analysis.References(srv.Graph(), params.TextDocument.URI, pos, params.Context.IncludeDeclaration)
}
