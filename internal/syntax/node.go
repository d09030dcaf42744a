// Package syntax holds the language-neutral syntax tree the scanner walks.
//
// Parsers in the adapter layer lower their concrete trees into Node values
// tagged with a Kind; everything downstream (folding, extraction) only looks
// at kinds, so the parsing engine can be replaced without touching it.
package syntax

import (
	"fmt"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// Kind tags a node with the role it plays for literal extraction.
type Kind int

// Node kinds.
const (
	KindOther Kind = iota
	KindSourceFile
	KindStringLiteral
	KindRegexLiteral
	KindStringText
	KindInterpolation
	KindCall
	KindCallSuffix
	KindArgumentList
	KindArgument
	KindArgumentLabel
	KindIdentifier
	KindToken
	KindError
)

var kindNames = [...]string{
	KindOther:         "other",
	KindSourceFile:    "source_file",
	KindStringLiteral: "string_literal",
	KindRegexLiteral:  "regex_literal",
	KindStringText:    "string_text",
	KindInterpolation: "interpolation",
	KindCall:          "call",
	KindCallSuffix:    "call_suffix",
	KindArgumentList:  "argument_list",
	KindArgument:      "argument",
	KindArgumentLabel: "argument_label",
	KindIdentifier:    "identifier",
	KindToken:         "token",
	KindError:         "error",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one element of a syntax tree. Nodes are immutable once built.
type Node struct {
	Kind  Kind
	Type  string // grammar-specific node type, kept for diagnostics
	Start int    // byte offset of the first byte
	End   int    // byte offset just past the last byte
	Text  string // identifier name, text segment or regex pattern; empty otherwise

	children []*Node
	parent   *Node
}

// NewNode builds a node and adopts the given children.
// A child must not already belong to another node.
func NewNode(kind Kind, typ string, start, end int, text string, children ...*Node) *Node {
	n := &Node{
		Kind:     kind,
		Type:     typ,
		Start:    start,
		End:      end,
		Text:     text,
		children: children,
	}

	for _, child := range children {
		child.parent = n
	}

	return n
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in source order. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}

	return n.children[i]
}

// IsToken reports whether the node is punctuation or a keyword.
func (n *Node) IsToken() bool {
	return n.Kind == KindToken
}

// Tree is the parsed representation of a single source file.
type Tree struct {
	Path     m.Path
	Language m.Language
	Text     []byte
	Root     *Node
	Lines    *LineIndex
	Folded   bool

	// Recovered is set when the parser skipped over syntax errors.
	Recovered bool
}
