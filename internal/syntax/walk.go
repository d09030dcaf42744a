package syntax

// Action tells Walk how to continue after visiting a node.
type Action int

const (
	// Continue descends into the node's children.
	Continue Action = iota
	// SkipChildren moves on to the next sibling.
	SkipChildren
)

// Visitor is called for every node reached by Walk.
type Visitor interface {
	Visit(n *Node) Action
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(n *Node) Action

// Visit calls f(n).
func (f VisitorFunc) Visit(n *Node) Action {
	return f(n)
}

// Handlers dispatches on node kind. Kinds without a handler continue into their children.
type Handlers map[Kind]func(n *Node) Action

// Visit runs the handler registered for n.Kind.
func (h Handlers) Visit(n *Node) Action {
	if handler, ok := h[n.Kind]; ok {
		return handler(n)
	}

	return Continue
}

// Walk visits root and its descendants depth-first in source order.
// It uses an explicit stack so deeply nested trees do not grow the goroutine stack.
func Walk(root *Node, v Visitor) {
	if root == nil {
		return
	}

	stack := []*Node{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if v.Visit(n) == SkipChildren {
			continue
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}
