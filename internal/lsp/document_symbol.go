package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// DocumentSymbol handles textDocument/documentSymbol.
func DocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (interface{}, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DocumentSymbol")
		return nil, nil
	}
	symbols, err := analysis.DocumentSymbol(srv.Graph(), params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	return symbols, nil
}
