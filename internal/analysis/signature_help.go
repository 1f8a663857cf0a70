package analysis

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/builtins"
	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// SignatureHelp implements §4.6's Signature Help query: binary search for
// the nearest parameter marker at or before the cursor, reject the
// past-the-call sentinel, then resolve the callee to a user definition,
// a built-in, or a synthetic "undeclared function" signature.
func SignatureHelp(graph *Graph, uri string, pos position.Position) (*protocol.SignatureHelp, error) {
	doc, ok := graph.Get(uri)
	if !ok {
		return nil, nil
	}
	marker, ok := doc.ParameterMarkerAtOrBefore(pos)
	if !ok {
		return nil, nil
	}
	if marker.ParameterIndex == -1 && marker.Position.Less(pos) {
		return nil, nil
	}

	active := marker.ParameterIndex
	if active < 0 {
		active = 0
	}
	activeParameter := uint32(active)
	activeSignature := uint32(0)

	label, params := resolveSignatureLabel(graph, marker.FunctionName)

	sig := protocol.SignatureInformation{
		Label:      label,
		Parameters: params,
	}
	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sig},
		ActiveSignature: &activeSignature,
		ActiveParameter: &activeParameter,
	}, nil
}

func resolveSignatureLabel(graph *Graph, name string) (string, []protocol.ParameterInformation) {
	for _, doc := range graph.All() {
		for _, def := range doc.Definitions(symbol.Function, name) {
			return formatUserSignature(def), parameterInfos(def.Parameters)
		}
	}
	if b, ok := builtins.Lookup(name); ok && b.Kind == builtins.Function {
		return builtins.Signature(b), parameterInfos(b.Parameters)
	}
	return fmt.Sprintf("%s(...) — undeclared function", name), nil
}

func formatUserSignature(def *symbol.Definition) string {
	return fmt.Sprintf("function %s(%s)", def.Name, strings.Join(def.Parameters, ", "))
}

func parameterInfos(params []string) []protocol.ParameterInformation {
	var out []protocol.ParameterInformation
	for _, p := range params {
		out = append(out, protocol.ParameterInformation{Label: p})
	}
	return out
}
