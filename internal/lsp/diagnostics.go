package lsp

import (
	"log"
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// PublishDiagnostics sends one document's diagnostics to the client,
// wired as the processing queue's Publish callback.
func PublishDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	if context == nil || context.Notify == nil {
		log.Println("Warning: cannot publish diagnostics, no notify context")
		return
	}
	sorted := append([]protocol.Diagnostic(nil), diagnostics...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Range.Start.Line != sorted[j].Range.Start.Line {
			return sorted[i].Range.Start.Line < sorted[j].Range.Start.Line
		}
		return sorted[i].Range.Start.Character < sorted[j].Range.Start.Character
	})

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: sorted,
	})
}
