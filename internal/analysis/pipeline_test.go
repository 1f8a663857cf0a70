package analysis

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// noopReader satisfies FileReader for tests that never follow an
// @include, so no real filesystem access is needed.
type noopReader struct{}

func (noopReader) ReadFile(path string, cb func(data string, err error)) {
	cb("", &ErrIncludeNotFound{Filename: path})
}

func (noopReader) FileExists(path string) bool { return false }

const samplePipelineSource = `## Adds two numbers.
function add(x, y) {
	return x + y
}

BEGIN {
	total = add(1, 2)
	print total
}
`

func newPipelineGraph(t *testing.T, source string) (*Graph, *Config, string) {
	t.Helper()
	const uri = "file:///sample.awk"
	graph := NewGraph()
	config := NewConfig()
	config.Update(func(c *Config) { c.SetCheckFunctionCalls(true) })
	graph.OpenEditorDocument(uri)

	queue := NewQueue(graph, noopReader{}, config)
	queue.Enqueue(uri, source, true)
	return graph, config, uri
}

func firstUsage(t *testing.T, graph *Graph, uri, name string) symbol.Usage {
	t.Helper()
	doc, ok := graph.Get(uri)
	if !ok {
		t.Fatalf("document %s not found", uri)
	}
	for _, u := range doc.Usages() {
		if u.Name == name {
			return u
		}
	}
	t.Fatalf("no usage of %q recorded", name)
	return symbol.Usage{}
}

func TestPipelineCompletionIncludesBuiltinsAndUserFunction(t *testing.T) {
	graph, config, uri := newPipelineGraph(t, samplePipelineSource)
	doc, _ := graph.Get(uri)
	pos := doc.Usages()[0].Position

	items, err := Completion(graph, config, uri, pos)
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}

	var sawAdd, sawSubstr bool
	for _, item := range items {
		switch item.Label {
		case "add":
			sawAdd = true
		case "substr":
			sawSubstr = true
		}
	}
	if !sawAdd {
		t.Error("expected completion items to include user function add")
	}
	if !sawSubstr {
		t.Error("expected completion items to include builtin substr")
	}
}

func TestPipelineDocumentSymbolReportsFunction(t *testing.T) {
	graph, _, uri := newPipelineGraph(t, samplePipelineSource)

	syms, err := DocumentSymbol(graph, uri)
	if err != nil {
		t.Fatalf("DocumentSymbol: %v", err)
	}
	if len(syms) != 1 || syms[0].Name != "add" {
		t.Fatalf("got %+v, want one symbol named add", syms)
	}
	if syms[0].Range == syms[0].SelectionRange {
		t.Error("expected the full function range to differ from the name-only selection range")
	}
}

func TestPipelineWorkspaceSymbolMatchesPrefix(t *testing.T) {
	graph, _, _ := newPipelineGraph(t, samplePipelineSource)

	syms, err := WorkspaceSymbol(graph, "ad")
	if err != nil {
		t.Fatalf("WorkspaceSymbol: %v", err)
	}
	if len(syms) != 1 || syms[0].Name != "add" {
		t.Fatalf("got %+v, want one symbol named add", syms)
	}

	none, err := WorkspaceSymbol(graph, "zzz")
	if err != nil {
		t.Fatalf("WorkspaceSymbol: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches for an unused prefix, got %+v", none)
	}
}

func TestPipelineHoverShowsDocComment(t *testing.T) {
	graph, config, uri := newPipelineGraph(t, samplePipelineSource)
	usage := firstUsage(t, graph, uri, "add")

	hover, err := Hover(graph, config, uri, usage.Position)
	if err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if hover == nil {
		t.Fatal("expected non-nil hover for a resolved function usage")
	}
	markup, ok := hover.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("hover contents are %T, want protocol.MarkupContent", hover.Contents)
	}
	if markup.Value == "" {
		t.Error("expected non-empty hover content")
	}
	if !strings.Contains(markup.Value, "Adds two numbers.") {
		t.Errorf("hover content %q does not include the doc comment of add", markup.Value)
	}
}

func TestPipelineDefinitionResolvesToFunctionDecl(t *testing.T) {
	graph, _, uri := newPipelineGraph(t, samplePipelineSource)
	usage := firstUsage(t, graph, uri, "add")

	locs, err := Definition(graph, uri, usage.Position)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if len(locs) != 1 {
		t.Fatalf("got %d locations, want 1", len(locs))
	}
}

func TestPipelineReferencesFindsCallSite(t *testing.T) {
	graph, _, uri := newPipelineGraph(t, samplePipelineSource)
	declUsage := symbol.Usage{} // the define-site usage, located below
	doc, _ := graph.Get(uri)
	for _, u := range doc.Usages() {
		if u.Name == "add" && u.IsDefine {
			declUsage = u
		}
	}
	if declUsage.Name == "" {
		t.Fatal("expected a define-site usage for add")
	}

	locs, err := References(graph, uri, declUsage.Position, true)
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(locs) < 2 {
		t.Fatalf("got %d locations, want at least declaration + call site", len(locs))
	}
}

func TestPipelineSignatureHelpResolvesUserFunction(t *testing.T) {
	graph, _, uri := newPipelineGraph(t, samplePipelineSource)
	doc, _ := graph.Get(uri)

	marker, ok := doc.ParameterMarkerAtOrBefore(doc.Usages()[len(doc.Usages())-1].Position)
	if !ok {
		t.Fatal("expected at least one parameter marker")
	}

	help, err := SignatureHelp(graph, uri, marker.Position)
	if err != nil {
		t.Fatalf("SignatureHelp: %v", err)
	}
	if help == nil {
		t.Fatal("expected non-nil signature help at a recorded parameter marker")
	}
	if len(help.Signatures) != 1 {
		t.Fatalf("got %d signatures, want 1", len(help.Signatures))
	}
}

func TestPipelineArityMismatchProducesDiagnostic(t *testing.T) {
	const source = `function f(x, y) {
	return x + y
}

BEGIN {
	print f(1)
}
`
	graph, _, uri := newPipelineGraph(t, source)
	doc, _ := graph.Get(uri)
	if len(doc.AnalysisDiagnostics) == 0 {
		t.Error("expected an arity-mismatch diagnostic on f(1) against function f(x, y)")
	}
}
