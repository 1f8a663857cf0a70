// Package awkparse is a concrete producer of the callback-stream contract
// the analysis package consumes: it tokenizes and parses a practical
// subset of AWK/gawk source text and drives a Handler with define, use,
// include, message, and call/parameter position events.
//
// The real AWK grammar is out of scope as a design concern; this package
// recognizes the subset needed to exercise every event in the contract —
// BEGIN/END/pattern-action rules, function declarations, @include,
// assignment, print/printf, and nested function calls.
package awkparse

import "github.com/awklsp/awk-languageserver/internal/symbol"

// Severity mirrors the LSP diagnostic severities the adapter maps
// parser messages onto.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Message sub-types, per §6/§7/§9. The "comma" name is preserved
// verbatim per the Open Question in §9 — it is the parser's canonical
// sub-type name even though its user-facing label is "missing semicolon".
const (
	SubTypeSyntax = "syntax"
	SubTypeComma  = "comma"
	SubTypeFuture = "future"
	SubTypeCrash  = "crash"
)

// Handler receives the event stream produced by one call to Parse. A
// fresh Handler (via analysis.ParserAdapter) is bound per parse, so there
// are no global mutable callback slots to rebind between requests.
type Handler interface {
	// OnDefine announces a definition of kind at (line, col), 1-based,
	// with name, optional enclosing function scope name ("" for file
	// scope) and an already-collected, unstripped doc-comment block.
	OnDefine(kind symbol.Kind, scope string, name string, line, col int, docComment string)

	// OnUse announces a usage of kind at (line, col), 1-based. isDefine
	// is true for the usage emitted at a definition's own site.
	OnUse(kind symbol.Kind, scope string, name string, line, col int, isDefine bool)

	// OnInclude announces an @include directive. relative is true unless
	// filename begins with a path separator.
	OnInclude(filename string, relative bool, line, col, length int)

	// OnMessage announces a parser diagnostic at (line, col), 1-based,
	// spanning length characters.
	OnMessage(severity Severity, subType string, msg string, line, col, length int)

	// OnFunctionCall brackets one call expression; nested calls nest.
	OnFunctionCall(isStart bool, name string, line, col int)

	// OnParameter brackets one argument of the innermost open call.
	// Start and end events carry the zero-based argument position; after
	// the last argument, a start event with index -1 is emitted at the
	// call's closing position (the past-last-argument sentinel).
	OnParameter(index int, isStart bool, line, col int)

	// OnArity records the observed parameter list of a function
	// definition so the semantic analyzer can validate callers.
	OnArity(name string, parameters []string, firstOptional int)

	// BaseNameHint reports the name the parser associates the file with
	// for diagnostics that lack a better anchor; suppressed by the
	// caller when the file's base name ends in "Constants" (§4.7).
	BaseNameHint(name string)

	// FileModeHint reports whether this file parsed under gawk mode,
	// from a shebang override or the ambient mode passed to Parse.
	FileModeHint(gawk bool)
}
