package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	m "stringscan.dev/pkg/stringscan/internal/model"
	"stringscan.dev/pkg/stringscan/internal/syntax"
)

// DefaultMaxFileSize is the largest file the syntax adapter will parse.
const DefaultMaxFileSize = 32 * 1024 * 1024

// SyntaxAdapter is the narrow parsing capability the scanner depends on.
// Implementations must be safe for concurrent use.
type SyntaxAdapter interface {
	// Language reports which grammar handles path, or LanguageUnknown.
	Language(path m.Path) m.Language

	// Parse builds a syntax tree for text. Failures wrap model.ErrParse.
	Parse(ctx context.Context, path m.Path, text []byte) (*syntax.Tree, error)

	// FoldOperators finalizes expression shapes so parent/child relations can
	// be used for classification. Failures wrap model.ErrFold.
	FoldOperators(tree *syntax.Tree) (*syntax.Tree, error)

	// LocationOf returns the byte offset where node starts.
	LocationOf(tree *syntax.Tree, node *syntax.Node) int

	// OffsetToLineColumn converts a byte offset to a 1-based line and column.
	OffsetToLineColumn(tree *syntax.Tree, offset int) (int, int)
}

// SyntaxOption configures a TreeSitterSyntaxAdapter.
type SyntaxOption func(*TreeSitterSyntaxAdapter)

// WithStrictSyntax makes any syntax error reported by a strict grammar fail the
// file. By default the parser recovers and literals outside the damaged
// regions are still extracted. Tolerant grammars never fail on syntax errors.
func WithStrictSyntax(strict bool) SyntaxOption {
	return func(a *TreeSitterSyntaxAdapter) {
		a.strict = strict
	}
}

// WithMaxFileSize sets the maximum number of bytes the adapter will parse.
func WithMaxFileSize(bytes int) SyntaxOption {
	return func(a *TreeSitterSyntaxAdapter) {
		if bytes > 0 {
			a.maxFileSize = bytes
		}
	}
}

// TreeSitterSyntaxAdapter parses Swift and C-family sources with tree-sitter
// and lowers the concrete trees into syntax.Tree values.
//
// Each Parse call creates its own tree-sitter parser, so one adapter can be
// shared by every scan worker.
type TreeSitterSyntaxAdapter struct {
	grammars    map[string]*grammar
	strict      bool
	maxFileSize int
}

// NewTreeSitterSyntaxAdapter returns an adapter with the Swift and C grammars registered.
func NewTreeSitterSyntaxAdapter(opts ...SyntaxOption) *TreeSitterSyntaxAdapter {
	a := &TreeSitterSyntaxAdapter{
		grammars:    map[string]*grammar{},
		maxFileSize: DefaultMaxFileSize,
	}

	for _, g := range []*grammar{swiftGrammar(), cGrammar()} {
		for _, ext := range g.extensions {
			a.grammars[ext] = g
		}
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Language reports which grammar handles path.
func (a *TreeSitterSyntaxAdapter) Language(path m.Path) m.Language {
	if g, ok := a.grammars[path.Ext()]; ok {
		return g.language
	}

	return m.LanguageUnknown
}

// Parse runs tree-sitter over text and lowers the result.
func (a *TreeSitterSyntaxAdapter) Parse(ctx context.Context, path m.Path, text []byte) (*syntax.Tree, error) {
	g, ok := a.grammars[path.Ext()]
	if !ok {
		return nil, fmt.Errorf("%w: %w: .%s", m.ErrParse, m.ErrUnsupportedLanguage, path.Ext())
	}

	if len(text) > a.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", m.ErrParse, len(text), a.maxFileSize)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(g.sitterLanguage())

	tsTree, err := parser.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("%w: tree-sitter: %w", m.ErrParse, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: tree-sitter returned no root node", m.ErrParse)
	}

	recovered := root.HasError()
	if recovered {
		row, column := firstErrorPoint(root)

		if err := rejectSyntaxErrors(root.Type(), g.strict && a.strict, g.strict, row, column); err != nil {
			return nil, err
		}

		slog.Debug("Recovered from syntax errors", "path", path, "language", g.language, "line", row+1)
	}

	lowered, err := g.lower(root, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", m.ErrParse, err)
	}

	return &syntax.Tree{
		Path:      path,
		Language:  g.language,
		Text:      text,
		Root:      lowered,
		Lines:     syntax.NewLineIndex(text),
		Recovered: recovered,
	}, nil
}

// FoldOperators rewrites call shapes; see syntax.Fold.
func (a *TreeSitterSyntaxAdapter) FoldOperators(tree *syntax.Tree) (*syntax.Tree, error) {
	return syntax.Fold(tree)
}

// LocationOf returns the start offset of node.
func (a *TreeSitterSyntaxAdapter) LocationOf(_ *syntax.Tree, node *syntax.Node) int {
	return node.Start
}

// OffsetToLineColumn maps offset through the tree's line index.
func (a *TreeSitterSyntaxAdapter) OffsetToLineColumn(tree *syntax.Tree, offset int) (int, int) {
	if tree.Lines == nil {
		return syntax.NewLineIndex(tree.Text).Position(offset)
	}

	return tree.Lines.Position(offset)
}

// rejectSyntaxErrors decides whether a tree with error nodes is still scanned.
// A grammar that reports errors precisely fails when the root itself is an
// error, and fails on any error when strict is set.
func rejectSyntaxErrors(rootType string, strict, preciseGrammar bool, row, column uint32) error {
	switch {
	case preciseGrammar && rootType == "ERROR":
		return fmt.Errorf("%w: no usable syntax tree, first error near %d:%d", m.ErrParse, row+1, column+1)
	case strict:
		return fmt.Errorf("%w: syntax error near %d:%d", m.ErrParse, row+1, column+1)
	}

	return nil
}

// firstErrorPoint finds the zero-based row and column of the first error or missing node.
func firstErrorPoint(root *sitter.Node) (uint32, uint32) {
	stack := []*sitter.Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type() == "ERROR" || n.IsMissing() {
			point := n.StartPoint()
			return point.Row, point.Column
		}

		if !n.HasError() {
			continue
		}

		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child != nil {
				stack = append(stack, child)
			}
		}
	}

	point := root.StartPoint()

	return point.Row, point.Column
}

// byteRange converts tree-sitter's unsigned offsets into ints.
func byteRange(n *sitter.Node) (int, int, error) {
	start, err := safecast.Conv[int](n.StartByte())
	if err != nil {
		return 0, 0, fmt.Errorf("start offset of %s: %w", n.Type(), err)
	}

	end, err := safecast.Conv[int](n.EndByte())
	if err != nil {
		return 0, 0, fmt.Errorf("end offset of %s: %w", n.Type(), err)
	}

	return start, end, nil
}
