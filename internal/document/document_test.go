package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

func TestEnsureImplicitGlobalCreatesOnlyOnce(t *testing.T) {
	d := New("file:///foo.awk")
	d.BeginParse("BEGIN { x = 1; print y }")

	pos := position.Position{Line: 0, Character: 23}
	def := d.EnsureImplicitGlobal("y", pos)
	if !def.IsImplicit {
		t.Fatal("expected implicit definition")
	}

	again := d.EnsureImplicitGlobal("y", position.Position{Line: 5, Character: 0})
	if again != def {
		t.Error("expected EnsureImplicitGlobal to return the existing definition, not create a second one")
	}
	if len(d.Definitions(symbol.Global, "y")) != 1 {
		t.Errorf("expected exactly one definition for y, got %d", len(d.Definitions(symbol.Global, "y")))
	}
}

func TestEnsureImplicitGlobalDoesNotOverrideExplicit(t *testing.T) {
	d := New("file:///foo.awk")
	d.BeginParse("")
	explicit := &symbol.Definition{Name: "x", Kind: symbol.Global, Position: position.Position{Line: 0, Character: 9}}
	d.AddDefinition(explicit)

	got := d.EnsureImplicitGlobal("x", position.Position{Line: 1, Character: 1})
	if got != explicit || got.IsImplicit {
		t.Error("expected the explicit definition to be returned unchanged")
	}
}

func TestFindSymbolForPosition(t *testing.T) {
	d := New("file:///foo.awk")
	d.BeginParse("BEGIN { print y }")
	d.AddUsage(symbol.Usage{Name: "y", Kind: symbol.Global, Position: position.Position{Line: 0, Character: 14}})
	d.SortUsages()

	if _, ok := d.FindSymbolForPosition(position.Position{Line: 0, Character: 14}); !ok {
		t.Error("expected match at usage start")
	}
	if _, ok := d.FindSymbolForPosition(position.Position{Line: 0, Character: 15}); !ok {
		t.Error("expected match at usage end (inclusive)")
	}
	if _, ok := d.FindSymbolForPosition(position.Position{Line: 0, Character: 16}); ok {
		t.Error("expected no match past usage end")
	}
	if _, ok := d.FindSymbolForPosition(position.Position{Line: 0, Character: 0}); ok {
		t.Error("expected no match before any usage")
	}
}

func TestUsedSymbolsStaysSorted(t *testing.T) {
	d := New("file:///foo.awk")
	d.BeginParse("")
	d.AddUsage(symbol.Usage{Name: "b", Position: position.Position{Line: 2, Character: 0}})
	d.AddUsage(symbol.Usage{Name: "a", Position: position.Position{Line: 0, Character: 0}})
	d.AddUsage(symbol.Usage{Name: "c", Position: position.Position{Line: 1, Character: 0}})
	d.SortUsages()

	usages := d.Usages()
	require.Len(t, usages, 3)
	for i := 1; i < len(usages); i++ {
		assert.False(t, usages[i].Position.Less(usages[i-1].Position), "usages not sorted: %+v", usages)
	}
}

func TestIncludeEdgesAreBidirectional(t *testing.T) {
	a := New("file:///a.awk")
	b := New("file:///b.awk")
	site := position.NewRange(position.Position{Line: 0, Character: 0}, 20)

	a.AddInclude(b.URI, site)
	b.AddIncludedBy(a.URI, site)

	_, ok := a.Includes()[b.URI]
	assert.True(t, ok, "expected a.Includes() to contain b")

	_, ok = b.IncludedBy()[a.URI]
	assert.True(t, ok, "expected b.IncludedBy() to contain a")
}

func TestIsLive(t *testing.T) {
	d := New("file:///orphan.awk")
	if d.IsLive() {
		t.Error("a document with no includers should not be live")
	}
	d.AddIncludedBy("file:///editor-root", position.Range{})
	if !d.IsLive() {
		t.Error("a document with an includer should be live")
	}
}

func TestStripDocCommentPrefix(t *testing.T) {
	raw := "## Computes totals\n## across records"
	want := "Computes totals\nacross records"
	if got := StripDocCommentPrefix(raw); got != want {
		t.Errorf("StripDocCommentPrefix() = %q, want %q", got, want)
	}
}

func TestEnclosingScope(t *testing.T) {
	d := New("file:///foo.awk")
	d.BeginParse("")
	fn := &symbol.Definition{Name: "f", Kind: symbol.Function}
	d.AddFunctionBlock(symbol.FunctionBlock{
		Start:    position.Position{Line: 1, Character: 0},
		End:      position.Position{Line: 3, Character: 0},
		Function: fn,
	})
	d.SortFunctionBlocks()

	if got := d.EnclosingScope(position.Position{Line: 2, Character: 0}); got != fn {
		t.Errorf("expected enclosing scope to be fn, got %v", got)
	}
	if got := d.EnclosingScope(position.Position{Line: 0, Character: 0}); got != nil {
		t.Errorf("expected file scope (nil) outside the block, got %v", got)
	}
}
