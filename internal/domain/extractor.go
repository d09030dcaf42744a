package domain

import (
	"strings"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	m "stringscan.dev/pkg/stringscan/internal/model"
	"stringscan.dev/pkg/stringscan/internal/syntax"
)

// DefaultLocalizationFunctions are the callees whose first argument counts as localized.
var DefaultLocalizationFunctions = []string{"NSLocalizedString"}

// LiteralExtractor turns a folded syntax tree into literal occurrences.
type LiteralExtractor interface {
	// Extract returns one occurrence per string or regex literal, in source order.
	// file is the path recorded on every occurrence.
	Extract(tree *syntax.Tree, file string) []m.Occurrence
}

type literalExtractor struct {
	adapter.SyntaxAdapter
	localizers map[string]bool
}

// NewLiteralExtractor creates a LiteralExtractor that resolves positions through
// syntaxAdapter. With no functions given, DefaultLocalizationFunctions is used.
func NewLiteralExtractor(syntaxAdapter adapter.SyntaxAdapter, functions ...string) LiteralExtractor {
	if len(functions) == 0 {
		functions = DefaultLocalizationFunctions
	}

	localizers := make(map[string]bool, len(functions))
	for _, name := range functions {
		if name = strings.TrimSpace(name); name != "" {
			localizers[name] = true
		}
	}

	return &literalExtractor{
		SyntaxAdapter: syntaxAdapter,
		localizers:    localizers,
	}
}

func (e *literalExtractor) Extract(tree *syntax.Tree, file string) []m.Occurrence {
	if tree == nil || tree.Root == nil {
		return nil
	}

	var occurrences []m.Occurrence

	emit := func(n *syntax.Node, content string, localized bool) {
		line, column := e.OffsetToLineColumn(tree, e.LocationOf(tree, n))
		occurrences = append(occurrences, m.Occurrence{
			File:        file,
			Line:        line,
			Column:      column,
			Content:     content,
			IsLocalized: localized,
		})
	}

	syntax.Walk(tree.Root, syntax.Handlers{
		syntax.KindStringLiteral: func(n *syntax.Node) syntax.Action {
			emit(n, literalContent(n), e.isLocalized(n))
			// interpolated literals are not reported on their own
			return syntax.SkipChildren
		},
		syntax.KindRegexLiteral: func(n *syntax.Node) syntax.Action {
			emit(n, n.Text, false)
			return syntax.SkipChildren
		},
	})

	return occurrences
}

// isLocalized reports whether n is the first argument of a call to a localization function.
func (e *literalExtractor) isLocalized(n *syntax.Node) bool {
	call := n.Parent()
	if call == nil || call.Kind != syntax.KindCall {
		return false
	}

	callee := call.Child(0)
	if callee == nil || callee.Kind != syntax.KindIdentifier || !e.localizers[callee.Text] {
		return false
	}

	return call.Child(1) == n
}

func literalContent(n *syntax.Node) string {
	var b strings.Builder

	for _, child := range n.Children() {
		if child.Kind == syntax.KindStringText {
			b.WriteString(child.Text)
		}
	}

	return b.String()
}
