package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/awkparse"
	"github.com/awklsp/awk-languageserver/internal/document"
	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// pendingInclude is one @include directive discovered during a parse,
// resolved by the queue after the parse completes (§4.4: "includes
// discovered during a parse are resolved after the current parse
// completes, in discovery order").
type pendingInclude struct {
	filename string
	relative bool
	site     position.Range
}

// ParserAdapter implements awkparse.Handler, translating the parser's
// event stream into mutations of one Document. A fresh adapter is
// created per parse (see Queue.processItem), which is the direct
// implementation of the §9 Design Note: the parser-context-as-value
// rewrite, with no global mutable callback slots to rebind and
// therefore no parseLevel guard needed.
type ParserAdapter struct {
	doc    *document.Document
	config *Config

	funcDefs map[string]*symbol.Definition

	callStack []*symbol.CallSpan
	roots     []*symbol.CallSpan

	activeCallName  string
	activeCallStack []string

	// Function-block reconstruction state (§4.3 supplement): the parser
	// contract carries a scope tag on every onDefine/onUse but has no
	// explicit function-body-open/close event, so the adapter tracks the
	// currently open function scope and extends its block's end position
	// on every event tagged with that scope, closing it on scope change
	// or end of parse.
	curScope      string
	blockStart    position.Position
	blockEnd      position.Position
	haveOpenBlock bool

	baseNameHint string
	sawFunction  bool

	includes []pendingInclude
}

// NewParserAdapter creates an adapter that mutates doc as awkparse
// drives it.
func NewParserAdapter(doc *document.Document, config *Config) *ParserAdapter {
	return &ParserAdapter{
		doc:      doc,
		config:   config,
		funcDefs: make(map[string]*symbol.Definition),
	}
}

func toPosition(line, col int) position.Position {
	return position.Position{Line: line - 1, Character: col - 1}
}

func (a *ParserAdapter) scopeDefinition(scope string) *symbol.Definition {
	if scope == "" {
		return nil
	}
	return a.funcDefs[scope]
}

func (a *ParserAdapter) OnDefine(kind symbol.Kind, scope, name string, line, col int, docComment string) {
	pos := toPosition(line, col)
	def := &symbol.Definition{
		URI:        a.doc.URI,
		Position:   pos,
		Kind:       kind,
		Name:       name,
		DocComment: document.StripDocCommentPrefix(docComment),
		Scope:      a.scopeDefinition(scope),
	}
	a.doc.AddDefinition(def)
	if kind == symbol.Function {
		a.funcDefs[name] = def
		a.sawFunction = true
	}
	a.trackScope(scope, pos)
}

func (a *ParserAdapter) OnUse(kind symbol.Kind, scope, name string, line, col int, isDefine bool) {
	pos := toPosition(line, col)
	u := symbol.Usage{
		URI:      a.doc.URI,
		Name:     name,
		Kind:     kind,
		Position: pos,
		Scope:    a.scopeDefinition(scope),
		IsDefine: isDefine,
	}
	a.doc.AddUsage(u)
	if kind == symbol.Global && !isDefine {
		a.doc.EnsureImplicitGlobal(name, pos)
	}
	a.trackScope(scope, pos)
}

func (a *ParserAdapter) OnInclude(filename string, relative bool, line, col, length int) {
	pos := toPosition(line, col)
	a.includes = append(a.includes, pendingInclude{
		filename: filename,
		relative: relative,
		site:     position.NewRange(pos, length),
	})
}

func (a *ParserAdapter) OnMessage(severity awkparse.Severity, subType, msg string, line, col, length int) {
	if subType == awkparse.SubTypeComma && !a.config.MissingSemicolonWarnings() {
		return
	}
	if subType == awkparse.SubTypeFuture && !a.config.CompatibilityWarnings() {
		return
	}

	pos := toPosition(line, col)
	diag := protocol.Diagnostic{
		Range:    protocol.Range{Start: toLSPPosition(pos), End: toLSPPosition(pos.Advance(length))},
		Severity: severityPtr(toLSPSeverity(severity)),
		Source:   strPtr("awk"),
		Message:  msg,
	}
	a.doc.ParseDiagnostics = append(a.doc.ParseDiagnostics, diag)
}

func (a *ParserAdapter) OnFunctionCall(isStart bool, name string, line, col int) {
	pos := toPosition(line, col)
	if isStart {
		span := &symbol.CallSpan{Name: name, Start: pos}
		if len(a.callStack) > 0 {
			parent := a.callStack[len(a.callStack)-1]
			parent.Children = append(parent.Children, span)
		} else {
			a.roots = append(a.roots, span)
		}
		a.callStack = append(a.callStack, span)
		a.activeCallStack = append(a.activeCallStack, name)
		a.activeCallName = name
		return
	}

	if len(a.callStack) > 0 {
		span := a.callStack[len(a.callStack)-1]
		span.End = pos
		a.callStack = a.callStack[:len(a.callStack)-1]
	}
	if len(a.activeCallStack) > 0 {
		a.activeCallStack = a.activeCallStack[:len(a.activeCallStack)-1]
	}
	if len(a.activeCallStack) > 0 {
		a.activeCallName = a.activeCallStack[len(a.activeCallStack)-1]
	} else {
		a.activeCallName = ""
	}
}

func (a *ParserAdapter) OnParameter(index int, isStart bool, line, col int) {
	if !isStart {
		return
	}
	if index >= 0 && len(a.callStack) > 0 {
		top := a.callStack[len(a.callStack)-1]
		if index+1 > top.ArgCount {
			top.ArgCount = index + 1
		}
	}
	pos := toPosition(line, col)
	a.doc.AddParameterMarker(symbol.ParameterMarker{
		FunctionName:   a.activeCallName,
		ParameterIndex: index,
		Position:       pos,
	})
}

func (a *ParserAdapter) OnArity(name string, parameters []string, firstOptional int) {
	def, ok := a.funcDefs[name]
	if !ok {
		return
	}
	def.Parameters = parameters
	def.FirstOptional = firstOptional
}

func (a *ParserAdapter) BaseNameHint(name string) {
	a.baseNameHint = name
}

func (a *ParserAdapter) FileModeHint(gawk bool) {
	a.doc.GawkMode = gawk
}

// trackScope implements the function-block reconstruction described in
// the type doc comment above.
func (a *ParserAdapter) trackScope(scope string, pos position.Position) {
	if scope == a.curScope {
		if scope != "" {
			a.blockEnd = pos
		}
		return
	}
	a.closeOpenBlock()
	a.curScope = scope
	if scope != "" {
		a.blockStart = pos
		a.blockEnd = pos
		a.haveOpenBlock = true
	}
}

func (a *ParserAdapter) closeOpenBlock() {
	if !a.haveOpenBlock {
		return
	}
	a.doc.AddFunctionBlock(symbol.FunctionBlock{
		Start:    a.blockStart,
		End:      a.blockEnd,
		Function: a.funcDefs[a.curScope],
	})
	a.haveOpenBlock = false
}

// Finish closes any still-open function block, flattens the call-span
// tree into the sorted functionBlocks/parameterUsage lists (finishing
// the position tree per §4.3), and returns the includes discovered
// during this parse for the queue to resolve.
func (a *ParserAdapter) Finish() []pendingInclude {
	a.closeOpenBlock()
	for _, span := range a.callStack {
		// An unbalanced call (parse error) still closes at end of input.
		span.End = span.Start
	}
	a.doc.SetPositionTree(a.roots)
	a.doc.SortUsages()
	a.doc.SortParameterUsage()
	a.doc.SortFunctionBlocks()
	return a.includes
}

// DefinedFunctionSignature reports whether this parse produced at least
// one function definition. The queue uses this as a simplified
// approximation of "did this parse change the document's set of
// function signatures": re-diffing the exact before/after arities would
// require keeping a shadow copy of the previous parse's definitions
// purely to decide a re-analysis trigger, whereas re-running semantic
// analysis on a document that still defines the same functions is
// harmless idempotent work. Documented as a deliberate simplification.
func (a *ParserAdapter) DefinedFunctionSignature() bool {
	return a.sawFunction
}
