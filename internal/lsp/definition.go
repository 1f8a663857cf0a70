package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// Definition handles textDocument/definition.
func Definition(context *glsp.Context, params *protocol.DefinitionParams) (interface{}, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Definition")
		return nil, nil
	}
	pos := fromLSPPosition(params.Position)
	locations, err := analysis.Definition(srv.Graph(), params.TextDocument.URI, pos)
	if err != nil || len(locations) == 0 {
		return nil, err
	}
	return locations, nil
}
