package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/server"
)

const serverName = "awk-languageserver"
const serverVersion = "0.1.0"

// Initialize handles the LSP initialize request: records the client's
// capabilities and workspace folders, then advertises the server
// capabilities of the query layer and text-document sync.
func Initialize(context *glsp.Context, params *protocol.InitializeParams) (interface{}, error) {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in Initialize")
		return nil, nil
	}

	srv.SetClientCapabilities(&params.Capabilities)

	var folders []string
	for _, f := range params.WorkspaceFolders {
		folders = append(folders, f.URI)
	}
	if len(folders) == 0 && params.RootURI != nil {
		folders = append(folders, *params.RootURI)
	}
	srv.SetWorkspaceFolders(folders)

	changeKind := protocol.TextDocumentSyncKindFull
	trueVal := true

	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &changeKind,
		},
		HoverProvider:           &trueVal,
		DefinitionProvider:      &trueVal,
		ReferencesProvider:      &trueVal,
		DocumentSymbolProvider:  &trueVal,
		WorkspaceSymbolProvider: &trueVal,
		CompletionProvider: &protocol.CompletionOptions{
			ResolveProvider: &trueVal,
		},
		SignatureHelpProvider: &protocol.SignatureHelpOptions{
			TriggerCharacters: []string{"("},
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: strPtr(serverVersion),
		},
	}, nil
}

// Initialized handles the initialized notification; there is no
// workspace-wide indexing to kick off since every document enters the
// graph lazily via didOpen or @include resolution.
func Initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown handles the shutdown request.
func Shutdown(context *glsp.Context) error {
	srv, ok := serverInstance.(*server.Server)
	if ok && srv != nil {
		srv.SetShuttingDown()
	}
	return nil
}

func strPtr(s string) *string { return &s }
