package analysis

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/builtins"
	"github.com/awklsp/awk-languageserver/internal/position"
	"github.com/awklsp/awk-languageserver/internal/symbol"
)

// Completion implements §4.6's Completion query: the union of every
// visible built-in and, for every symbol name reachable under the
// cursor's scope across all documents, one item per distinct
// non-empty doc-comment variant (or a single item if none are
// documented).
func Completion(graph *Graph, config *Config, uri string, pos position.Position) ([]protocol.CompletionItem, error) {
	doc, ok := graph.Get(uri)
	if !ok {
		return nil, nil
	}
	scope := doc.EnclosingScope(pos)

	var items []protocol.CompletionItem
	for _, b := range builtins.All(doc.GawkMode || config.CompatibilityWarnings()) {
		items = append(items, builtinCompletionItem(b))
	}

	type key struct {
		kind symbol.Kind
		name string
	}
	variants := make(map[key]map[string]bool)

	for _, d := range graph.All() {
		for _, def := range d.AllDefinitions() {
			if def.IsImplicit || !def.InScope(scope) {
				continue
			}
			k := key{kind: def.Kind, name: def.Name}
			if variants[k] == nil {
				variants[k] = make(map[string]bool)
			}
			variants[k][def.DocComment] = true
		}
	}

	for k, docs := range variants {
		var nonEmpty []string
		for doc := range docs {
			if doc != "" {
				nonEmpty = append(nonEmpty, doc)
			}
		}
		if len(nonEmpty) == 0 {
			items = append(items, symbolCompletionItem(k.kind, k.name, ""))
			continue
		}
		for _, doc := range nonEmpty {
			items = append(items, symbolCompletionItem(k.kind, k.name, doc))
		}
	}

	return items, nil
}

func builtinCompletionItem(b builtins.Builtin) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	detail := b.Name
	if b.Kind == builtins.Function {
		kind = protocol.CompletionItemKindFunction
		detail = builtins.Signature(b)
	}
	doc := b.Description
	return protocol.CompletionItem{
		Label: b.Name,
		Kind:  &kind,
		Detail: &detail,
		Documentation: &protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: doc,
		},
	}
}

func symbolCompletionItem(kind symbol.Kind, name string, docComment string) protocol.CompletionItem {
	itemKind := protocol.CompletionItemKindVariable
	detail := name
	if kind == symbol.Function {
		itemKind = protocol.CompletionItemKindFunction
		detail = fmt.Sprintf("function %s", name)
	}
	item := protocol.CompletionItem{
		Label:  name,
		Kind:   &itemKind,
		Detail: &detail,
	}
	if docComment != "" {
		item.Documentation = &protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: docComment}
	}
	return item
}
