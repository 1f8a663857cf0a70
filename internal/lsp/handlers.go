// Package lsp implements the glsp protocol handlers, one file per LSP
// method, matching the teacher's per-method file layout.
package lsp

// serverInstance holds the process-wide server, set once by SetServer
// from main and read by every handler via the serverInstance.(*server.Server)
// assertion, matching the teacher's global-plus-setter pattern exactly.
var serverInstance interface{}

// SetServer installs the server instance handlers resolve against.
func SetServer(srv interface{}) {
	serverInstance = srv
}
