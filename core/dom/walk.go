package dom

import "iter"

// Event is one step of a depth-first traversal: a node is entered before
// its children and left after them.
type Event struct {
	Node  *Node
	Leave bool
}

// Events returns the enter/leave sequence of the subtree rooted at n.
// The sequence is lazy and can be ranged over any number of times.
func (n *Node) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		n.events(yield)
	}
}

func (n *Node) events(yield func(Event) bool) bool {
	if !yield(Event{Node: n}) {
		return false
	}
	for _, c := range n.children {
		if !c.events(yield) {
			return false
		}
	}
	return yield(Event{Node: n, Leave: true})
}

// Walk returns the nodes of the subtree rooted at n in pre-order.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// OfKind returns the pre-order nodes of the given kind below and including n.
func (n *Node) OfKind(kind Kind) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for node := range n.Walk() {
			if node.kind == kind && !yield(node) {
				return
			}
		}
	}
}

// Paragraphs returns the paragraphs of the subtree in reading order,
// including those nested in table cells.
func (n *Node) Paragraphs() iter.Seq[*Node] {
	return n.OfKind(KindParagraph)
}
