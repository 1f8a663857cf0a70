// Package document holds the per-file analysis state of one AWK source
// URI: its diagnostics, definition/usage tables, include edges, and the
// position-indexed structures the query layer binary-searches.
package document

import (
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// Document is the in-memory analysis state for one source file URI.
type Document struct {
	URI string

	// Text is the last text this document was parsed from.
	Text    string
	Version int

	// ParseDiagnostics come from the parser's own onMessage callbacks and
	// include-resolution failures; AnalysisDiagnostics come from
	// cross-document semantic analysis at wrap-up. They are published
	// together but cleared independently — a new parse replaces
	// ParseDiagnostics, a new wrap-up replaces AnalysisDiagnostics.
	ParseDiagnostics    []protocol.Diagnostic
	AnalysisDiagnostics []protocol.Diagnostic

	// definedSymbols[kind][name] is an ordered list of definitions,
	// ordered by the order they were recorded during the last parse.
	definedSymbols map[symbol.Kind]map[string][]*symbol.Definition

	// usedSymbols is kept sorted by position after every parse.
	usedSymbols []symbol.Usage

	// positionTree is the nested call-span tree from the last parse.
	positionTree []*symbol.CallSpan

	// parameterUsage is kept sorted by position after every parse.
	parameterUsage []symbol.ParameterMarker

	// functionBlocks is kept sorted by Start after every parse.
	functionBlocks []symbol.FunctionBlock

	// includes[includedURI] / includedBy[includerURI] hold the include-site
	// ranges for that edge; the graph package maintains both directions.
	includes   map[string][]position.Range
	includedBy map[string][]position.Range

	// GawkMode reflects the effective mode this document was last parsed
	// under: the shebang override if present, else the process-wide mode.
	GawkMode bool
}

// New creates an empty document for uri, as done when a document is
// registered ahead of its file read completing (see graph.AddInclude).
func New(uri string) *Document {
	return &Document{
		URI:        uri,
		includes:   make(map[string][]position.Range),
		includedBy: make(map[string][]position.Range),
	}
}

// BeginParse clears everything a parse repopulates, leaving edges intact.
func (d *Document) BeginParse(text string) {
	d.Text = text
	d.ParseDiagnostics = nil
	d.definedSymbols = make(map[symbol.Kind]map[string][]*symbol.Definition)
	d.usedSymbols = nil
	d.positionTree = nil
	d.parameterUsage = nil
	d.functionBlocks = nil
}

// AddDefinition appends def to the ordered list for (def.Kind, def.Name).
func (d *Document) AddDefinition(def *symbol.Definition) {
	byName, ok := d.definedSymbols[def.Kind]
	if !ok {
		byName = make(map[string][]*symbol.Definition)
		d.definedSymbols[def.Kind] = byName
	}
	byName[def.Name] = append(byName[def.Name], def)
}

// Definitions returns the ordered definitions for (kind, name).
func (d *Document) Definitions(kind symbol.Kind, name string) []*symbol.Definition {
	return d.definedSymbols[kind][name]
}

// AllDefinitions returns every definition in the document, in no
// particular cross-kind order; used by document-symbol, completion and
// workspace-symbol.
func (d *Document) AllDefinitions() []*symbol.Definition {
	var out []*symbol.Definition
	for _, byName := range d.definedSymbols {
		for _, defs := range byName {
			out = append(out, defs...)
		}
	}
	return out
}

// EnsureImplicitGlobal implements §4.2's implicit-definition rule: if no
// definition named name of kind Global exists yet in this document, a
// synthetic one is created at pos with IsImplicit = true.
func (d *Document) EnsureImplicitGlobal(name string, pos position.Position) *symbol.Definition {
	existing := d.Definitions(symbol.Global, name)
	if len(existing) > 0 {
		return existing[0]
	}
	def := &symbol.Definition{
		URI:        d.URI,
		Position:   pos,
		Kind:       symbol.Global,
		Name:       name,
		IsImplicit: true,
	}
	d.AddDefinition(def)
	return def
}

// AddUsage appends u; the caller must call SortUsages once per parse
// after all usages from that parse have been added.
func (d *Document) AddUsage(u symbol.Usage) {
	d.usedSymbols = append(d.usedSymbols, u)
}

// SortUsages restores the position-sorted invariant on usedSymbols.
func (d *Document) SortUsages() {
	sort.SliceStable(d.usedSymbols, func(i, j int) bool {
		return d.usedSymbols[i].Position.Less(d.usedSymbols[j].Position)
	})
}

// Usages returns the position-sorted usage slice.
func (d *Document) Usages() []symbol.Usage {
	return d.usedSymbols
}

// FindSymbolForPosition binary-searches usedSymbols for a usage whose
// range covers pos, per §4.6. Define-kind variants are not downgraded
// here; callers that need the base kind read u.Kind directly since
// IsDefine no longer changes Kind in this model (see symbol.Usage).
func (d *Document) FindSymbolForPosition(pos position.Position) (symbol.Usage, bool) {
	n := len(d.usedSymbols)
	idx := position.SearchSorted(n, func(i int) position.Position {
		return d.usedSymbols[i].Position
	}, pos)

	// The matching usage, if any, is at idx or just before it: usages on
	// the same line can have pos fall inside one that starts before idx.
	for _, candidate := range []int{idx, idx - 1} {
		if candidate < 0 || candidate >= n {
			continue
		}
		u := d.usedSymbols[candidate]
		if u.Range().Contains(pos) {
			return u, true
		}
	}
	return symbol.Usage{}, false
}

// AddParameterMarker appends m; callers sort once per parse via
// SortParameterUsage.
func (d *Document) AddParameterMarker(m symbol.ParameterMarker) {
	d.parameterUsage = append(d.parameterUsage, m)
}

// SortParameterUsage restores the position-sorted invariant.
func (d *Document) SortParameterUsage() {
	sort.SliceStable(d.parameterUsage, func(i, j int) bool {
		return d.parameterUsage[i].Position.Less(d.parameterUsage[j].Position)
	})
}

// ParameterMarkerAtOrBefore returns the last marker whose position is
// at or before pos, used by signature help to find the active argument.
func (d *Document) ParameterMarkerAtOrBefore(pos position.Position) (symbol.ParameterMarker, bool) {
	n := len(d.parameterUsage)
	idx := position.SearchSorted(n, func(i int) position.Position {
		return d.parameterUsage[i].Position
	}, pos)
	if idx < n && d.parameterUsage[idx].Position == pos {
		return d.parameterUsage[idx], true
	}
	if idx == 0 {
		return symbol.ParameterMarker{}, false
	}
	return d.parameterUsage[idx-1], true
}

// AddFunctionBlock appends b; callers sort once per parse via
// SortFunctionBlocks.
func (d *Document) AddFunctionBlock(b symbol.FunctionBlock) {
	d.functionBlocks = append(d.functionBlocks, b)
}

// SortFunctionBlocks restores the Start-sorted invariant.
func (d *Document) SortFunctionBlocks() {
	sort.SliceStable(d.functionBlocks, func(i, j int) bool {
		return d.functionBlocks[i].Start.Less(d.functionBlocks[j].Start)
	})
}

// EnclosingScope returns the function definition whose block contains
// pos, or nil if pos lies outside every function (file scope).
func (d *Document) EnclosingScope(pos position.Position) *symbol.Definition {
	for _, b := range d.functionBlocks {
		if !pos.Less(b.Start) && !b.End.Less(pos) {
			return b.Function
		}
	}
	return nil
}

// FunctionBlocks returns every recorded function block, Start-sorted; used
// by document-symbol to report a function's full span rather than just its
// name position.
func (d *Document) FunctionBlocks() []symbol.FunctionBlock {
	return d.functionBlocks
}

// SetPositionTree stores the finished call-span forest for this parse.
func (d *Document) SetPositionTree(roots []*symbol.CallSpan) {
	d.positionTree = roots
}

// PositionTree returns the call-span forest from the last parse.
func (d *Document) PositionTree() []*symbol.CallSpan {
	return d.positionTree
}

// AddInclude records a directed include edge of kind (this document
// includes target) with the directive's source range.
func (d *Document) AddInclude(targetURI string, site position.Range) {
	d.includes[targetURI] = append(d.includes[targetURI], site)
}

// AddIncludedBy records the inverse edge (sourceURI includes this one).
func (d *Document) AddIncludedBy(sourceURI string, site position.Range) {
	d.includedBy[sourceURI] = append(d.includedBy[sourceURI], site)
}

// RemoveIncludedBy drops every edge from sourceURI, used when sourceURI
// is re-parsed and no longer includes this document.
func (d *Document) RemoveIncludedBy(sourceURI string) {
	delete(d.includedBy, sourceURI)
}

// RemoveInclude drops every edge to targetURI.
func (d *Document) RemoveInclude(targetURI string) {
	delete(d.includes, targetURI)
}

// ClearIncludes drops every outgoing include edge, used before
// re-recording the edges a fresh parse discovers.
func (d *Document) ClearIncludes() {
	d.includes = make(map[string][]position.Range)
}

// Includes returns the set of URIs this document includes.
func (d *Document) Includes() map[string][]position.Range {
	return d.includes
}

// IncludedBy returns the set of URIs that include this document.
func (d *Document) IncludedBy() map[string][]position.Range {
	return d.includedBy
}

// IsLive reports whether this document is reachable, per §3's liveness
// invariant: a document is live iff includedBy is non-empty.
func (d *Document) IsLive() bool {
	return len(d.includedBy) > 0
}

// StripDocCommentPrefix left-aligns a collected doc-comment block: from
// every line it removes leading whitespace, a "##" marker and the
// whitespace after it. Each line is stripped on its own, so indentation
// of one line relative to another is not kept.
func StripDocCommentPrefix(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		trimmed = strings.TrimPrefix(trimmed, "##")
		lines[i] = strings.TrimLeft(trimmed, " \t")
	}
	return strings.Join(lines, "\n")
}
