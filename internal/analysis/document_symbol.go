package analysis

import (
	"fmt"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// DocumentSymbol implements §4.6's Document Symbol query: every function
// defined directly in the document. Each symbol's range runs from the
// function's name to the last symbol recorded in its parameter list or
// body, falling back to just its name when no block was recorded (a
// function with no parameters and no symbols in its body).
func DocumentSymbol(graph *Graph, uri string) ([]protocol.DocumentSymbol, error) {
	doc, ok := graph.Get(uri)
	if !ok {
		return nil, nil
	}

	blockFor := make(map[*symbol.Definition]symbol.FunctionBlock)
	for _, b := range doc.FunctionBlocks() {
		blockFor[b.Function] = b
	}

	var defs []*symbol.Definition
	for _, def := range doc.AllDefinitions() {
		if def.Kind == symbol.Function {
			defs = append(defs, def)
		}
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Position.Less(defs[j].Position)
	})

	var out []protocol.DocumentSymbol
	for _, def := range defs {
		fullRange := def.Range()
		if b, ok := blockFor[def]; ok {
			fullRange = position.Range{Start: def.Position, End: b.End}
		}
		detail := fmt.Sprintf("function %s(%s)", def.Name, strings.Join(def.Parameters, ", "))
		out = append(out, protocol.DocumentSymbol{
			Name:           def.Name,
			Kind:           protocol.SymbolKindFunction,
			Detail:         &detail,
			Range:          toLSPRange(fullRange),
			SelectionRange: toLSPRange(def.Range()),
		})
	}
	return out, nil
}
