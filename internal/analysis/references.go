package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/position"
)

// References implements §4.6's References query: every usage across
// every document whose (kind, name) matches the symbol under the
// cursor, plus every non-implicit definition position when
// includeDeclaration is requested. An implicit global has no
// declaration distinct from its first use, so including it here would
// double-report that one position.
func References(graph *Graph, uri string, pos position.Position, includeDeclaration bool) ([]protocol.Location, error) {
	doc, ok := graph.Get(uri)
	if !ok {
		return nil, nil
	}
	usage, ok := doc.FindSymbolForPosition(pos)
	if !ok {
		return nil, nil
	}

	var locations []protocol.Location

	if includeDeclaration {
		for _, d := range graph.All() {
			for _, def := range d.Definitions(usage.Kind, usage.Name) {
				if def.IsImplicit {
					continue
				}
				locations = append(locations, protocol.Location{URI: d.URI, Range: toLSPRange(def.Range())})
			}
		}
	}

	for _, u := range matchingUsages(graph, usage.Kind, usage.Name) {
		locations = append(locations, protocol.Location{URI: u.URI, Range: toLSPRange(u.Range())})
	}

	return locations, nil
}
