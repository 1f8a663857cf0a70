package analysis

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/builtins"
	"github.com/awklsp/awk-languageserver/internal/document"
	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// calleeArity is the (parameters, firstOptional) shape both a user
// definition and a builtin can be checked against uniformly.
type calleeArity struct {
	parameterCount int
	firstOptional  int
}

// RunSemanticAnalysis implements §4.5: it computes the transitive
// closure of documentsWithAlteredDefs along includedBy edges (a change
// to a document's function signatures requires re-checking every
// document that, directly or transitively, includes it), unions in the
// altered set itself, and re-validates every function call in the
// result against its resolved callee's arity.
func RunSemanticAnalysis(graph *Graph, altered map[string]bool, documentsWithAlteredDefs map[string]bool) {
	toRecheck := make(map[string]bool)
	for uri := range documentsWithAlteredDefs {
		for _, reachable := range includerClosure(graph, uri) {
			toRecheck[reachable] = true
		}
		toRecheck[uri] = true
	}
	for uri := range altered {
		toRecheck[uri] = true
	}

	for uri := range toRecheck {
		doc, ok := graph.Get(uri)
		if !ok {
			continue
		}
		doc.AnalysisDiagnostics = nil
		checkCallArities(graph, doc)
	}
}

// includerClosure returns every document that directly or transitively
// includes uri, via BFS over includedBy edges.
func includerClosure(graph *Graph, uri string) []string {
	visited := map[string]bool{uri: true}
	queue := []string{uri}
	var out []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		doc, ok := graph.Get(cur)
		if !ok {
			continue
		}
		for includer := range doc.IncludedBy() {
			if includer == EditorRoot || visited[includer] {
				continue
			}
			visited[includer] = true
			out = append(out, includer)
			queue = append(queue, includer)
		}
	}
	return out
}

// reachableIncludes returns every document transitively included by
// doc, via BFS over includes edges, in discovery order.
func reachableIncludes(graph *Graph, startURI string) []*document.Document {
	visited := map[string]bool{startURI: true}
	queue := []string{startURI}
	var out []*document.Document

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		doc, ok := graph.Get(cur)
		if !ok {
			continue
		}
		for target := range doc.Includes() {
			if visited[target] {
				continue
			}
			visited[target] = true
			targetDoc, ok := graph.Get(target)
			if !ok {
				continue
			}
			out = append(out, targetDoc)
			queue = append(queue, target)
		}
	}
	return out
}

func checkCallArities(graph *Graph, doc *document.Document) {
	for _, call := range flattenCallSpans(doc.PositionTree()) {
		def, builtin, found := resolveCallee(graph, doc, call.Name)
		if !found {
			continue
		}

		var arity calleeArity
		if def != nil {
			arity = calleeArity{parameterCount: len(def.Parameters), firstOptional: def.FirstOptional}
		} else {
			arity = calleeArity{parameterCount: len(builtin.Parameters), firstOptional: builtin.FirstOptional}
		}

		if call.ArgCount >= arity.firstOptional && call.ArgCount <= arity.parameterCount {
			continue
		}

		msg := fmt.Sprintf("%q expects %s, got %d", call.Name, arityDescription(arity), call.ArgCount)
		doc.AnalysisDiagnostics = append(doc.AnalysisDiagnostics, protocol.Diagnostic{
			Range:    toLSPRange(position.Range{Start: call.Start, End: call.End}),
			Severity: severityPtr(protocol.DiagnosticSeverityWarning),
			Source:   strPtr("awk"),
			Message:  msg,
		})
	}
}

func arityDescription(a calleeArity) string {
	if a.firstOptional == a.parameterCount {
		return fmt.Sprintf("%d argument(s)", a.parameterCount)
	}
	return fmt.Sprintf("%d to %d argument(s)", a.firstOptional, a.parameterCount)
}

// flattenCallSpans walks the nested call-span forest in pre-order.
func flattenCallSpans(roots []*symbol.CallSpan) []*symbol.CallSpan {
	var out []*symbol.CallSpan
	var walk func(*symbol.CallSpan)
	walk = func(n *symbol.CallSpan) {
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

// resolveCallee resolves name to either a user function definition
// (preferring the calling document, then documents reachable through
// its include graph, in discovery order) or a built-in, per §4.5.
func resolveCallee(graph *Graph, doc *document.Document, name string) (*symbol.Definition, builtins.Builtin, bool) {
	if defs := doc.Definitions(symbol.Function, name); len(defs) > 0 {
		return defs[0], builtins.Builtin{}, true
	}
	for _, other := range reachableIncludes(graph, doc.URI) {
		if defs := other.Definitions(symbol.Function, name); len(defs) > 0 {
			return defs[0], builtins.Builtin{}, true
		}
	}
	if b, ok := builtins.Lookup(name); ok && b.Kind == builtins.Function {
		return nil, b, true
	}
	return nil, builtins.Builtin{}, false
}
