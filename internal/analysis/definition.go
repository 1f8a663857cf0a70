package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// Definition implements §4.6's Definition query: the same aggregation
// as Hover, excluding isImplicit definitions, returning each match's
// own (position, position+len(name)) range in its owning document.
func Definition(graph *Graph, uri string, pos position.Position) ([]protocol.Location, error) {
	doc, ok := graph.Get(uri)
	if !ok {
		return nil, nil
	}
	usage, ok := doc.FindSymbolForPosition(pos)
	if !ok {
		return nil, nil
	}

	var locations []protocol.Location
	for _, d := range graph.All() {
		for _, def := range d.Definitions(usage.Kind, usage.Name) {
			if def.IsImplicit || !def.InScope(usage.Scope) {
				continue
			}
			locations = append(locations, protocol.Location{
				URI:   d.URI,
				Range: toLSPRange(def.Range()),
			})
		}
	}
	return locations, nil
}

// matchingUsages returns every usage in the graph with the given
// (kind, name), across all documents; used by References.
func matchingUsages(graph *Graph, kind symbol.Kind, name string) []symbol.Usage {
	var out []symbol.Usage
	for _, d := range graph.All() {
		for _, u := range d.Usages() {
			if u.Kind == kind && u.Name == name {
				out = append(out, u)
			}
		}
	}
	return out
}
