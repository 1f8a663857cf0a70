// Package symbol defines the define/use value types shared by every
// document in the graph: SymbolDefinition and SymbolUsage, plus the kind
// enumeration AWK's implicit-definition and scoping rules are built on.
package symbol

import "github.com/awklsp/awk-languageserver/internal/position"

// Kind classifies a symbol. AWK has no separate local-declaration syntax;
// Local exists because the data model the query layer is built against
// names it explicitly, even though the concrete grammar implemented here
// (internal/awkparse) only ever produces Global, Parameter and Function.
type Kind int

const (
	Global Kind = iota
	Local
	Parameter
	Function
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global variable"
	case Local:
		return "local variable"
	case Parameter:
		return "parameter"
	case Function:
		return "function"
	default:
		return "symbol"
	}
}

// Definition is a definition-site record: a function, a global variable,
// or a function parameter. Scope is nil for file-scope definitions and
// otherwise points at the enclosing function's own Definition.
type Definition struct {
	URI        string
	Position   position.Position
	Kind       Kind
	DocComment string
	Scope      *Definition
	Name       string
	IsImplicit bool

	// Parameters and FirstOptional are populated on Kind == Function only;
	// they record the observed arity used by cross-document call checking.
	Parameters    []string
	FirstOptional int
}

// Range returns the (position, position+len(name)) span used for
// definition, reference and symbol locations.
func (d *Definition) Range() position.Range {
	return position.NewRange(d.Position, len(d.Name))
}

// Arity returns the number of declared parameters.
func (d *Definition) Arity() int {
	return len(d.Parameters)
}

// InScope reports whether a usage recorded under scope `usageScope` is
// visible to a definition enclosed by `d` itself — i.e. the definition's
// scope is either the same function or file scope (nil), per §4.2.
func (d *Definition) InScope(usageScope *Definition) bool {
	return d.Scope == nil || d.Scope == usageScope
}

// Usage is a usage-site record. IsDefine marks a usage recorded at a
// definition's own site (the "define-kind" variant of §3/§9). It is
// modeled as a boolean flag rather than a doubled enumeration, so Kind
// always holds the base kind and the query layer needs no downgrade step.
type Usage struct {
	URI      string
	Name     string
	Kind     Kind
	Position position.Position
	Scope    *Definition
	IsDefine bool
}

// Range returns the (position, position+len(name)) span covered by the
// usage, the span findSymbolForPosition binary-searches against.
func (u Usage) Range() position.Range {
	return position.NewRange(u.Position, len(u.Name))
}

// ParameterMarker is a position record marking the boundary of one
// argument of a function call, used by signature help. ParameterIndex
// is -1 for the sentinel emitted at a call's closing position.
type ParameterMarker struct {
	FunctionName   string
	ParameterIndex int
	Position       position.Position
}

// FunctionBlock is the lexical extent of one function body, used to
// resolve a cursor position to its enclosing scope.
type FunctionBlock struct {
	Start    position.Position
	End      position.Position
	Function *Definition
}

// CallSpan is one node of the nested function-call position tree built
// during a parse: a call to Name spanning [Start, End), with one child
// span per nested call appearing among its arguments.
type CallSpan struct {
	Name     string
	Start    position.Position
	End      position.Position
	// ArgCount is the highest parameter index observed for this call
	// plus one; it stays 0 for a call with no arguments.
	ArgCount int
	Children []*CallSpan
}
