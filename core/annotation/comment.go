// Package annotation models comments, bookmarks and hyperlinks.
//
// Annotations never own content nodes. They refer to nodes by identifier
// and are checked against a Resolver (normally the owning document) when
// they are attached, which keeps the content tree the only owner of nodes.
package annotation

import (
	"github.com/tribal2/docx/core/dom"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// Resolver looks up live content nodes by identifier.
type Resolver interface {
	Resolve(id ids.ID) (*dom.Node, bool)
}

// Comment is a finalized reviewer comment anchored to one paragraph.
type Comment struct {
	ID       ids.ID
	Author   string
	Date     string // ISO-8601, written to the package unchanged
	Initials string
	Text     string
	Anchor   ids.ID // Paragraph the comment is attached to
}

// SameAs reports whether c and other carry the same author, date and
// anchor. Identity (ID) is not compared.
func (c Comment) SameAs(other Comment) bool {
	return c.Author == other.Author && c.Date == other.Date && c.Anchor == other.Anchor
}

// CommentBuilder collects comment fields in any order. Setters overwrite
// earlier values; nothing is checked until Finalize.
type CommentBuilder struct {
	id       ids.ID
	author   *string
	date     *string
	anchor   *ids.ID
	initials string
	text     string
}

// NewComment starts a comment with the given identifier.
func NewComment(id ids.ID) *CommentBuilder {
	return &CommentBuilder{id: id}
}

// ID returns the comment identifier.
func (b *CommentBuilder) ID() ids.ID { return b.id }

// Author sets the comment author.
func (b *CommentBuilder) Author(author string) *CommentBuilder {
	b.author = &author
	return b
}

// Date sets the comment date.
func (b *CommentBuilder) Date(date string) *CommentBuilder {
	b.date = &date
	return b
}

// Anchor sets the paragraph the comment is attached to.
func (b *CommentBuilder) Anchor(paragraph ids.ID) *CommentBuilder {
	b.anchor = &paragraph
	return b
}

// Initials sets the author initials shown by word processors.
func (b *CommentBuilder) Initials(initials string) *CommentBuilder {
	b.initials = initials
	return b
}

// Text sets the comment body.
func (b *CommentBuilder) Text(text string) *CommentBuilder {
	b.text = text
	return b
}

// Missing returns the names of required fields that are unset, in the
// order author, date, anchor.
func (b *CommentBuilder) Missing() []string {
	var missing []string
	if b.author == nil {
		missing = append(missing, "author")
	}
	if b.date == nil {
		missing = append(missing, "date")
	}
	if b.anchor == nil {
		missing = append(missing, "anchor")
	}
	return missing
}

// Finalize checks the builder and returns the immutable comment.
// Completeness is checked before the anchor, so a comment missing any
// field always fails with an IncompleteCommentError.
func (b *CommentBuilder) Finalize(r Resolver) (Comment, error) {
	if missing := b.Missing(); len(missing) > 0 {
		return Comment{}, &errors.IncompleteCommentError{CommentID: b.id, Missing: missing}
	}
	if err := checkParagraph(r, "comment", b.id, *b.anchor); err != nil {
		return Comment{}, err
	}
	return Comment{
		ID:       b.id,
		Author:   *b.author,
		Date:     *b.date,
		Initials: b.initials,
		Text:     b.text,
		Anchor:   *b.anchor,
	}, nil
}

// checkParagraph verifies that anchor resolves to a paragraph.
func checkParagraph(r Resolver, resource string, id, anchor ids.ID) error {
	if r == nil {
		return &errors.DanglingAnchorError{Resource: resource, ID: id, Anchor: anchor, Reason: "has no document to resolve against"}
	}
	node, ok := r.Resolve(anchor)
	if !ok {
		return &errors.DanglingAnchorError{Resource: resource, ID: id, Anchor: anchor}
	}
	if node.Kind() != dom.KindParagraph {
		return &errors.DanglingAnchorError{
			Resource: resource,
			ID:       id,
			Anchor:   anchor,
			Reason:   "is a " + node.Kind().String() + ", not a paragraph",
		}
	}
	return nil
}
