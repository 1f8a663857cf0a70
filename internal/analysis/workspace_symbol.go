package analysis

import (
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// WorkspaceSymbol implements §4.6's Workspace Symbol query: every function
// across every document in the graph whose name starts with query
// (case-sensitive, matching AWK's own case-sensitive identifiers).
func WorkspaceSymbol(graph *Graph, query string) ([]protocol.SymbolInformation, error) {
	var out []protocol.SymbolInformation
	for _, doc := range graph.All() {
		for _, def := range doc.AllDefinitions() {
			if def.Kind != symbol.Function || !strings.HasPrefix(def.Name, query) {
				continue
			}
			out = append(out, protocol.SymbolInformation{
				Name: def.Name,
				Kind: protocol.SymbolKindFunction,
				Location: protocol.Location{
					URI:   doc.URI,
					Range: toLSPRange(def.Range()),
				},
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Location.URI < out[j].Location.URI
	})
	return out, nil
}
