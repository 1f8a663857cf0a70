package analysis

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/builtins"
	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// builtinMatchesUsage reports whether b is the right shape of builtin
// for a usage of the given symbol kind (a Function usage can only name
// a Function builtin, a Global usage only a Variable builtin).
func builtinMatchesUsage(b builtins.Builtin, kind symbol.Kind) bool {
	switch kind {
	case symbol.Function:
		return b.Kind == builtins.Function
	case symbol.Global, symbol.Local:
		return b.Kind == builtins.Variable
	default:
		return false
	}
}

func formatDefinition(def *symbol.Definition) string {
	var sb strings.Builder
	if def.Kind == symbol.Function {
		sb.WriteString(fmt.Sprintf("function %s(%s)", def.Name, strings.Join(def.Parameters, ", ")))
	} else {
		sb.WriteString(def.Kind.String())
	}
	if def.DocComment != "" {
		sb.WriteString("\n\n")
		sb.WriteString(def.DocComment)
	}
	return sb.String()
}

// Hover implements §4.6's Hover query.
func Hover(graph *Graph, config *Config, uri string, pos position.Position) (*protocol.Hover, error) {
	doc, ok := graph.Get(uri)
	if !ok {
		return nil, nil
	}
	usage, ok := doc.FindSymbolForPosition(pos)
	if !ok {
		return nil, nil
	}

	if b, ok := builtins.Lookup(usage.Name); ok && builtinMatchesUsage(b, usage.Kind) && b.Visible(doc.GawkMode || config.CompatibilityWarnings()) {
		content := builtins.Signature(b)
		if b.Description != "" {
			content += "\n\n" + b.Description
		}
		return markdownHover(content), nil
	}

	var matches []*symbol.Definition
	for _, d := range graph.All() {
		for _, def := range d.Definitions(usage.Kind, usage.Name) {
			if def.InScope(usage.Scope) {
				matches = append(matches, def)
			}
		}
	}

	if len(matches) == 0 {
		switch usage.Kind {
		case symbol.Function:
			return markdownHover(fmt.Sprintf("function %s (undefined)", usage.Name)), nil
		case symbol.Global:
			return markdownHover(fmt.Sprintf("%s (undefined)", symbol.Global.String())), nil
		default:
			return nil, nil
		}
	}

	var parts []string
	for _, def := range matches {
		parts = append(parts, formatDefinition(def))
	}
	return markdownHover(strings.Join(parts, "\n\n---\n\n")), nil
}

func markdownHover(content string) *protocol.Hover {
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}
}
