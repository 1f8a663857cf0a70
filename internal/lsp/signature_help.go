package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// SignatureHelp handles textDocument/signatureHelp.
func SignatureHelp(context *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in SignatureHelp")
		return nil, nil
	}
	pos := fromLSPPosition(params.Position)
	return analysis.SignatureHelp(srv.Graph(), params.TextDocument.URI, pos)
}
