//go:build integration
// +build integration

// Package integration exercises the query layer end to end, through the
// same Graph/Queue/Config wiring internal/server assembles, rather than
// through any one package's unit tests.
package integration

import (
	"fmt"
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/position"
)

// mapReader answers ReadFile synchronously out of an in-memory source
// map, so these tests don't depend on goroutine scheduling to observe
// a drained queue.
type mapReader struct {
	files map[string]string
}

func (r mapReader) ReadFile(path string, cb func(data string, err error)) {
	data, ok := r.files[path]
	if !ok {
		cb("", fmt.Errorf("no such file: %s", path))
		return
	}
	cb(data, nil)
}

func (r mapReader) FileExists(path string) bool {
	_, ok := r.files[path]
	return ok
}

func newTestGraph(files map[string]string) (*analysis.Graph, *analysis.Config, *analysis.Queue) {
	graph := analysis.NewGraph()
	config := analysis.NewConfig()
	queue := analysis.NewQueue(graph, mapReader{files: files}, config)
	return graph, config, queue
}

// Scenario 1: implicit global.
func TestScenarioImplicitGlobal(t *testing.T) {
	const uri = "file:///foo.awk"
	graph, _, queue := newTestGraph(nil)
	graph.OpenEditorDocument(uri)
	queue.Enqueue(uri, `BEGIN { x = 1; print y }`, true)

	doc, ok := graph.Get(uri)
	if !ok {
		t.Fatal("document not found after enqueue")
	}
	var yUsage position.Position
	found := false
	for _, u := range doc.Usages() {
		if u.Name == "y" {
			yUsage = u.Position
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a recorded usage of y")
	}

	locs, err := analysis.Definition(graph, uri, yUsage)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if len(locs) != 0 {
		t.Errorf("got %d definition locations for an implicit global, want 0", len(locs))
	}

	hover, err := analysis.Hover(graph, analysis.NewConfig(), uri, yUsage)
	if err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if hover == nil {
		t.Fatal("expected non-nil hover for y")
	}
	markup, ok := hover.Contents.(protocol.MarkupContent)
	if !ok || !strings.Contains(markup.Value, "global variable") {
		t.Errorf("hover contents = %v, want to contain %q", hover.Contents, "global variable")
	}

	refs, err := analysis.References(graph, uri, yUsage, true)
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
}

// Scenario 2: include cycle.
func TestScenarioIncludeCycle(t *testing.T) {
	files := map[string]string{
		"/a.awk": `@include "b.awk"` + "\n",
		"/b.awk": `@include "a.awk"` + "\n",
	}
	const aURI = "file:///a.awk"
	graph, _, queue := newTestGraph(files)
	graph.OpenEditorDocument(aURI)
	queue.Enqueue(aURI, files["/a.awk"], true)

	aDoc, ok := graph.Get(aURI)
	if !ok {
		t.Fatal("a.awk not found")
	}
	if _, ok := aDoc.Includes()["file:///b.awk"]; !ok {
		t.Error("expected a.awk to include b.awk")
	}
	bDoc, ok := graph.Get("file:///b.awk")
	if !ok {
		t.Fatal("b.awk not found")
	}
	if _, ok := bDoc.Includes()["file:///a.awk"]; !ok {
		t.Error("expected b.awk to include a.awk")
	}
}

// Scenario 3: arity mismatch across an include, re-checked after the
// included function's signature changes.
func TestScenarioArityMismatchAcrossInclude(t *testing.T) {
	files := map[string]string{
		"/lib.awk": "function f(x,y){return x+y}\n",
	}
	const mainURI = "file:///main.awk"
	const mainSource = "@include \"lib.awk\"\nBEGIN{print f(1)}\n"

	graph, config, queue := newTestGraph(files)
	config.Update(func(c *analysis.Config) { c.SetCheckFunctionCalls(true) })
	graph.OpenEditorDocument(mainURI)
	queue.Enqueue(mainURI, mainSource, true)

	mainDoc, ok := graph.Get(mainURI)
	if !ok {
		t.Fatal("main.awk not found")
	}
	if len(mainDoc.AnalysisDiagnostics) == 0 {
		t.Fatal("expected an arity-mismatch diagnostic on main.awk")
	}

	files["/lib.awk"] = "function f(x,y,z){return x+y+z}\n"
	queue.Enqueue("file:///lib.awk", files["/lib.awk"], false)

	mainDoc, _ = graph.Get(mainURI)
	if len(mainDoc.AnalysisDiagnostics) == 0 {
		t.Error("expected main.awk to still carry an arity-mismatch diagnostic after lib.awk grew a parameter")
	}
}

// Scenario 4: signature help past the last argument.
func TestScenarioSignatureHelpPastLastArgument(t *testing.T) {
	const uri = "file:///sig.awk"
	const source = `BEGIN { print substr("abc", 1, 2) }`
	graph, _, queue := newTestGraph(nil)
	graph.OpenEditorDocument(uri)
	queue.Enqueue(uri, source, true)

	closeParen := strings.Index(source, ")")
	if closeParen < 0 {
		t.Fatal("no closing paren in source")
	}
	pastParen := position.Position{Line: 0, Character: closeParen + 1}

	help, err := analysis.SignatureHelp(graph, uri, pastParen)
	if err != nil {
		t.Fatalf("SignatureHelp: %v", err)
	}
	if help != nil {
		t.Errorf("got signature help %+v past the closing paren, want nil", help)
	}
}

// Scenario 5: completion scoping.
func TestScenarioCompletionScoping(t *testing.T) {
	const uri = "file:///scope.awk"
	const source = "function f(a){ a\n}\nfunction g(b){ b\n}\n"
	graph, config, queue := newTestGraph(nil)
	graph.OpenEditorDocument(uri)
	queue.Enqueue(uri, source, true)

	doc, ok := graph.Get(uri)
	if !ok {
		t.Fatal("scope.awk not found")
	}
	var cursor position.Position
	found := false
	for _, u := range doc.Usages() {
		if u.Name == "a" {
			cursor = u.Position
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a recorded usage of parameter a inside f's body")
	}

	items, err := analysis.Completion(graph, config, uri, cursor)
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}

	var sawA, sawB, sawSubstr bool
	for _, item := range items {
		switch item.Label {
		case "a":
			sawA = true
		case "b":
			sawB = true
		case "substr":
			sawSubstr = true
		}
	}
	if !sawA {
		t.Error("expected completion to include parameter a, in scope at the cursor")
	}
	if sawB {
		t.Error("expected completion to exclude parameter b, a different function's parameter")
	}
	if !sawSubstr {
		t.Error("expected completion to include the builtin substr")
	}
}

// Scenario 6: mode shebang override.
func TestScenarioModeShebangOverride(t *testing.T) {
	const uri = "file:///shebang.awk"
	const source = "#!/usr/bin/gawk -f\nBEGIN { print systime() }\n"
	graph, config, queue := newTestGraph(nil)
	config.Update(func(c *analysis.Config) { c.SetGawkMode(false) })
	graph.OpenEditorDocument(uri)
	queue.Enqueue(uri, source, true)

	doc, ok := graph.Get(uri)
	if !ok {
		t.Fatal("shebang.awk not found")
	}
	if !doc.GawkMode {
		t.Fatal("expected the shebang to force gawk mode for this document despite global mode being strict")
	}

	var callPos position.Position
	found := false
	for _, u := range doc.Usages() {
		if u.Name == "systime" {
			callPos = u.Position
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a recorded usage of systime")
	}

	hover, err := analysis.Hover(graph, config, uri, callPos)
	if err != nil {
		t.Fatalf("Hover: %v", err)
	}
	if hover == nil {
		t.Fatal("expected hover on the gawk-only builtin systime")
	}
}
