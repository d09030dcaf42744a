package syntax

import (
	"fmt"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// MaxFoldDepth bounds how deeply nested a tree may be before Fold gives up.
const MaxFoldDepth = 10_000

// Fold rewrites a freshly parsed tree into the shape the extractor relies on.
//
// Call expressions become Call nodes whose first child is the callee and whose
// remaining children are the argument expressions themselves, followed by any
// trailing closures. Argument wrappers, labels and punctuation tokens are
// dropped, so an argument's parent is always its call. The input tree is not
// modified.
//
// In a recovered tree a call without a callee is kept as a plain node instead
// of failing, since the parser may have cut it short.
func Fold(tree *Tree) (*Tree, error) {
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("%w: empty tree", m.ErrFold)
	}

	if tree.Folded {
		return tree, nil
	}

	f := folder{recovered: tree.Recovered}

	root, err := f.foldNode(tree.Root, 0)
	if err != nil {
		return nil, err
	}

	return &Tree{
		Path:      tree.Path,
		Language:  tree.Language,
		Text:      tree.Text,
		Root:      root,
		Lines:     tree.Lines,
		Folded:    true,
		Recovered: tree.Recovered,
	}, nil
}

type folder struct {
	recovered bool
}

func (f folder) foldNode(n *Node, depth int) (*Node, error) {
	if depth > MaxFoldDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d at offset %d", m.ErrFold, MaxFoldDepth, n.Start)
	}

	if n.Kind == KindCall {
		return f.foldCall(n, depth)
	}

	children, err := f.foldChildren(n.children, depth)
	if err != nil {
		return nil, err
	}

	return NewNode(n.Kind, n.Type, n.Start, n.End, n.Text, children...), nil
}

func (f folder) foldChildren(nodes []*Node, depth int) ([]*Node, error) {
	children := make([]*Node, 0, len(nodes))

	for _, child := range nodes {
		if child.IsToken() {
			continue
		}

		folded, err := f.foldNode(child, depth+1)
		if err != nil {
			return nil, err
		}

		children = append(children, folded)
	}

	return children, nil
}

func (f folder) foldCall(n *Node, depth int) (*Node, error) {
	var (
		callee    *Node
		arguments []*Node
		trailing  []*Node
	)

	for _, child := range n.children {
		switch child.Kind {
		case KindToken:
			continue
		case KindCallSuffix:
			for _, part := range child.children {
				switch part.Kind {
				case KindToken:
				case KindArgumentList:
					arguments = append(arguments, argumentValues(part)...)
				default:
					trailing = append(trailing, part)
				}
			}
		case KindArgumentList:
			arguments = append(arguments, argumentValues(child)...)
		default:
			if callee == nil {
				callee = child
			} else {
				trailing = append(trailing, child)
			}
		}
	}

	if callee == nil && f.recovered {
		children, err := f.foldChildren(n.children, depth)
		if err != nil {
			return nil, err
		}

		return NewNode(KindOther, n.Type, n.Start, n.End, n.Text, children...), nil
	}

	if callee == nil {
		return nil, fmt.Errorf("%w: call without callee at offset %d", m.ErrFold, n.Start)
	}

	parts := make([]*Node, 0, 1+len(arguments)+len(trailing))
	parts = append(parts, callee)
	parts = append(parts, arguments...)
	parts = append(parts, trailing...)

	children := make([]*Node, 0, len(parts))

	for _, part := range parts {
		folded, err := f.foldNode(part, depth+1)
		if err != nil {
			return nil, err
		}

		children = append(children, folded)
	}

	return NewNode(KindCall, n.Type, n.Start, n.End, n.Text, children...), nil
}

// argumentValues unwraps an argument list into its value expressions.
func argumentValues(list *Node) []*Node {
	values := make([]*Node, 0, len(list.children))

	for _, child := range list.children {
		switch child.Kind {
		case KindToken:
		case KindArgument:
			if value := argumentValue(child); value != nil {
				values = append(values, value)
			}
		case KindError:
			// stray tokens the grammar could not place, e.g. an Objective-C '@'
			if hasSubstance(child) {
				values = append(values, child)
			}
		default:
			values = append(values, child)
		}
	}

	return values
}

// argumentValue returns the expression of a labeled or unlabeled argument.
func argumentValue(argument *Node) *Node {
	for i := len(argument.children) - 1; i >= 0; i-- {
		child := argument.children[i]
		if child.Kind != KindToken && child.Kind != KindArgumentLabel {
			return child
		}
	}

	return nil
}

func hasSubstance(n *Node) bool {
	for _, child := range n.children {
		if !child.IsToken() {
			return true
		}
	}

	return false
}
