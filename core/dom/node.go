// Package dom models document content as a tree of typed nodes.
//
// The tree is rooted at a Body node. Block-level nodes (paragraphs and
// tables) sit under the body or inside table cells; inline nodes (runs,
// text, breaks) sit under paragraphs. Each kind declares the kinds it may
// contain, and AppendChild rejects anything else, so a tree built through
// this package is always structurally valid.
//
// Once a node is appended its position is fixed. Formatting attributes stay
// mutable through the per-kind property accessors because they do not
// change the tree shape.
//
// Identifiers are assigned by the caller (usually from an ids.Allocator
// owned by the document session). A tree attached to a document carries an
// Indexer that is told about every node appended below it, which keeps the
// document's id index current without re-walking the tree.
package dom

import (
	"slices"
	"strings"

	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// Indexer is notified before a subtree is linked under a node it tracks.
// Returning an error aborts the append and leaves both trees unchanged.
type Indexer interface {
	Register(parent, child *Node) error
}

// Node is one element of the content tree.
type Node struct {
	id       ids.ID
	kind     Kind
	parent   *Node
	children []*Node
	indexer  Indexer

	para  *ParagraphProps
	run   *RunProps
	table *TableProps
	cell  *CellProps
	text  string
	brk   BreakType
}

func newNode(kind Kind, id ids.ID) *Node {
	n := &Node{id: id, kind: kind}
	switch kind {
	case KindParagraph:
		n.para = &ParagraphProps{}
	case KindRun:
		n.run = &RunProps{}
	case KindTable:
		n.table = &TableProps{Borders: DefaultBorders()}
	case KindTableCell:
		n.cell = &CellProps{}
	}
	return n
}

// New creates a node of the given kind with an ordered list of children.
// Every child is checked before any is linked, so a failed New leaves the
// children detached.
func New(kind Kind, id ids.ID, children ...*Node) (*Node, error) {
	if !kind.IsValid() {
		return nil, errors.NewValidation("kind", "unknown node kind "+kind.String())
	}
	n := newNode(kind, id)
	for i, child := range children {
		if err := n.checkChild(child); err != nil {
			return nil, err
		}
		if slices.Contains(children[:i], child) {
			return nil, &errors.AlreadyExistsError{Resource: "node", ID: child.id.String()}
		}
	}
	for _, child := range children {
		child.parent = n
	}
	n.children = slices.Clone(children)
	return n, nil
}

// NewBody creates a document body node.
func NewBody(id ids.ID) *Node { return newNode(KindBody, id) }

// NewParagraph creates an empty paragraph.
func NewParagraph(id ids.ID) *Node { return newNode(KindParagraph, id) }

// NewRun creates an empty run.
func NewRun(id ids.ID) *Node { return newNode(KindRun, id) }

// NewText creates a text leaf holding s.
func NewText(id ids.ID, s string) *Node {
	n := newNode(KindText, id)
	n.text = s
	return n
}

// NewBreak creates a break leaf.
func NewBreak(id ids.ID, t BreakType) *Node {
	n := newNode(KindBreak, id)
	n.brk = t
	return n
}

// NewTable creates an empty table with default borders.
func NewTable(id ids.ID) *Node { return newNode(KindTable, id) }

// NewTableRow creates an empty table row.
func NewTableRow(id ids.ID) *Node { return newNode(KindTableRow, id) }

// NewTableCell creates an empty table cell.
func NewTableCell(id ids.ID) *Node { return newNode(KindTableCell, id) }

// ID returns the node identifier.
func (n *Node) ID() ids.ID { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the containing node, or nil for a detached root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Indexed reports whether the node belongs to a tree tracked by an Indexer.
func (n *Node) Indexed() bool { return n.indexer != nil }

// AppendChild links child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	if err := n.checkChild(child); err != nil {
		return err
	}
	if n.indexer != nil {
		if err := n.indexer.Register(n, child); err != nil {
			return err
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	if n.indexer != nil {
		child.Bind(n.indexer)
	}
	return nil
}

func (n *Node) checkChild(child *Node) error {
	if child == nil {
		return errors.NewValidation("child", "nil node")
	}
	if !n.kind.Allows(child.kind) {
		return &errors.InvalidChildKindError{
			Parent:   n.kind.String(),
			Child:    child.kind.String(),
			ParentID: n.id,
			ChildID:  child.id,
		}
	}
	if child.parent != nil || child.indexer != nil {
		return &errors.AlreadyExistsError{Resource: "node", ID: child.id.String()}
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return errors.NewValidation("child", "node "+child.id.String()+" is an ancestor of its new parent")
		}
	}
	return nil
}

// Bind attaches idx to n and its whole subtree. It is called by the
// document when it adopts a root, and by AppendChild for new subtrees.
func (n *Node) Bind(idx Indexer) {
	for node := range n.Walk() {
		node.indexer = idx
	}
}

// ParagraphProps returns the paragraph attributes, or nil for other kinds.
func (n *Node) ParagraphProps() *ParagraphProps { return n.para }

// RunProps returns the run attributes, or nil for other kinds.
func (n *Node) RunProps() *RunProps { return n.run }

// TableProps returns the table attributes, or nil for other kinds.
func (n *Node) TableProps() *TableProps { return n.table }

// CellProps returns the cell attributes, or nil for other kinds.
func (n *Node) CellProps() *CellProps { return n.cell }

// Text returns the payload of a text node.
func (n *Node) Text() string { return n.text }

// SetText replaces the payload of a text node.
func (n *Node) SetText(s string) error {
	if n.kind != KindText {
		return errors.NewValidation("text", n.kind.String()+" "+n.id.String()+" has no text payload")
	}
	n.text = s
	return nil
}

// BreakType returns the type of a break node.
func (n *Node) BreakType() BreakType { return n.brk }

// SetBreakType changes the type of a break node.
func (n *Node) SetBreakType(t BreakType) error {
	if n.kind != KindBreak {
		return errors.NewValidation("break", n.kind.String()+" "+n.id.String()+" is not a break")
	}
	n.brk = t
	return nil
}

// PlainText concatenates the text below n. Breaks become newlines and
// consecutive paragraphs are separated by a newline.
func (n *Node) PlainText() string {
	var sb strings.Builder
	paragraphs := 0
	for ev := range n.Events() {
		switch {
		case ev.Node.kind == KindParagraph && !ev.Leave:
			if paragraphs > 0 {
				sb.WriteByte('\n')
			}
			paragraphs++
		case ev.Node.kind == KindText && !ev.Leave:
			sb.WriteString(ev.Node.text)
		case ev.Node.kind == KindBreak && !ev.Leave:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
