package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// Hover handles textDocument/hover.
func Hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Hover")
		return nil, nil
	}
	pos := fromLSPPosition(params.Position)
	return analysis.Hover(srv.Graph(), srv.Config(), params.TextDocument.URI, pos)
}

func fromLSPPosition(p protocol.Position) position.Position {
	return position.Position{Line: int(p.Line), Character: int(p.Character)}
}
