// Package rels computes the relationship table of the main document part.
//
// The table is derived data: it is rebuilt from a finalized document on
// every serialization and never stored on the document itself.
package rels

import (
	"fmt"
	"slices"

	"github.com/tribal2/docx/core/annotation"
	"github.com/tribal2/docx/core/dom"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// Kind is the kind of a relationship.
type Kind int

const (
	CommentReference Kind = iota
	Hyperlink
	Image
)

const typeBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

// Type returns the relationship type URI written to the package.
func (k Kind) Type() string {
	switch k {
	case CommentReference:
		return typeBase + "comments"
	case Hyperlink:
		return typeBase + "hyperlink"
	case Image:
		return typeBase + "image"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case CommentReference:
		return "comment-reference"
	case Hyperlink:
		return "hyperlink"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CommentsTarget is the target of the comment-reference relationship,
// relative to the main part.
const CommentsTarget = "comments.xml"

// Entry is one relationship of the main part.
type Entry struct {
	ID       string // "rId" + ordinal
	Kind     Kind
	Target   string
	External bool
	// Anchors lists the paragraphs that reference the target, in reading
	// order. Only comment references carry anchors.
	Anchors []ids.ID
}

// Source is the finalized document the resolver reads.
type Source interface {
	Body() *dom.Node
	Resolve(id ids.ID) (*dom.Node, bool)
	Comments() []annotation.Comment
	Hyperlinks() []annotation.Hyperlink
}

// Table is the ordered relationship table.
type Table struct {
	entries []Entry
}

// Entries returns the relationships in id order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Anchors = slices.Clone(e.Anchors)
		out[i] = e
	}
	return out
}

// Len returns the number of relationships.
func (t *Table) Len() int {
	return len(t.entries)
}

// IDFor returns the id of the relationship with the given kind and target.
func (t *Table) IDFor(kind Kind, target string) (string, bool) {
	for _, e := range t.entries {
		if e.Kind == kind && e.Target == target {
			return e.ID, true
		}
	}
	return "", false
}

func (t *Table) add(kind Kind, target string, external bool) {
	t.entries = append(t.entries, Entry{
		ID:       fmt.Sprintf("rId%d", len(t.entries)+1),
		Kind:     kind,
		Target:   target,
		External: external,
	})
}

// Resolve walks the content tree in pre-order and assigns relationship ids
// in first-seen order. The first paragraph carrying a comment anchor
// creates the comment-reference entry; later anchors join its Anchors.
// Each distinct external hyperlink URL gets its own entry.
//
// An annotation that refers to a node outside the tree is a logic defect
// and fails with an InternalError.
func Resolve(src Source) (*Table, error) {
	body := src.Body()
	if body == nil {
		return nil, errors.NewInternal("rels.Resolve", "document has no body")
	}

	anchored := make(map[ids.ID]bool)
	for _, c := range src.Comments() {
		if err := inTree(src, body, c.Anchor, dom.KindParagraph); err != nil {
			return nil, errors.NewInternal("rels.Resolve", "comment %d: %v", c.ID, err)
		}
		anchored[c.Anchor] = true
	}
	links := make(map[ids.ID]string)
	for _, h := range src.Hyperlinks() {
		if err := inTree(src, body, h.Run, dom.KindRun); err != nil {
			return nil, errors.NewInternal("rels.Resolve", "hyperlink %d: %v", h.ID, err)
		}
		if h.External() {
			links[h.Run] = h.URL
		}
	}

	t := &Table{}
	commentEntry := -1
	seenURL := make(map[string]bool)
	for n := range body.Walk() {
		switch {
		case n.Kind() == dom.KindParagraph && anchored[n.ID()]:
			if commentEntry < 0 {
				t.add(CommentReference, CommentsTarget, false)
				commentEntry = len(t.entries) - 1
			}
			e := &t.entries[commentEntry]
			e.Anchors = append(e.Anchors, n.ID())
		case n.Kind() == dom.KindRun:
			url, ok := links[n.ID()]
			if ok && !seenURL[url] {
				seenURL[url] = true
				t.add(Hyperlink, url, true)
			}
		}
	}
	return t, nil
}

// inTree checks that id resolves to a node of the given kind that is
// still reachable from body.
func inTree(src Source, body *dom.Node, id ids.ID, kind dom.Kind) error {
	n, ok := src.Resolve(id)
	if !ok {
		return fmt.Errorf("node %d is not indexed", id)
	}
	if n.Kind() != kind {
		return fmt.Errorf("node %d is a %s, want %s", id, n.Kind(), kind)
	}
	for p := n; p != nil; p = p.Parent() {
		if p == body {
			return nil
		}
	}
	return fmt.Errorf("node %d is not in the content tree", id)
}
