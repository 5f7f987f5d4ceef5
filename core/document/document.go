// Package document provides the document aggregate: the owner of the
// content tree and of every annotation attached to it.
//
// A Document is one builder session. It owns its identifier allocators,
// so there is no ambient state: callers create nodes through the document
// (or assign ids themselves) and attach them explicitly. The aggregate is
// single-writer; serialize a document only while nothing mutates it.
package document

import (
	"slices"
	"time"

	"github.com/tribal2/docx/core/annotation"
	"github.com/tribal2/docx/core/dom"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// BodyID is the identifier of the body node of every document.
const BodyID = ids.Root

// Properties are the package-level core properties.
type Properties struct {
	Title       string
	Subject     string
	Creator     string
	Description string
	Created     time.Time // Zero omits the created timestamp
}

// PageMargin holds page margins in twips.
type PageMargin struct {
	Top    int
	Left   int
	Bottom int
	Right  int
	Header int
	Footer int
	Gutter int
}

// Section holds the page setup of the document's single section.
type Section struct {
	PageWidth  int // Twips
	PageHeight int // Twips
	Margin     PageMargin
}

// DefaultSection returns an A4 portrait section.
func DefaultSection() Section {
	return Section{
		PageWidth:  11906,
		PageHeight: 16838,
		Margin: PageMargin{
			Top:    1985,
			Left:   1701,
			Bottom: 1701,
			Right:  1701,
			Header: 851,
			Footer: 992,
			Gutter: 0,
		},
	}
}

// Option configures a new Document.
type Option func(*Document)

// WithIDBase sets the first identifier issued for nodes and annotations.
func WithIDBase(base ids.ID) Option {
	return func(d *Document) {
		d.nodeIDs = ids.NewAllocator(base)
		d.annotationIDs = ids.NewAllocator(base)
	}
}

// WithProperties sets the core properties.
func WithProperties(p Properties) Option {
	return func(d *Document) { d.Properties = p }
}

// WithSection sets the page setup.
func WithSection(s Section) Option {
	return func(d *Document) { d.Section = s }
}

// Document is the aggregate root.
type Document struct {
	Properties Properties
	Section    Section

	nodeIDs       *ids.Allocator
	annotationIDs *ids.Allocator

	body  *dom.Node
	index map[ids.ID]*dom.Node

	comments     []annotation.Comment
	commentIndex map[ids.ID]int

	bookmarks     []annotation.Bookmark
	bookmarkIndex map[ids.ID]int
	bookmarkNames map[string]ids.ID

	hyperlinks     []annotation.Hyperlink
	hyperlinkIndex map[ids.ID]int
	hyperlinkRuns  map[ids.ID]int
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		Section:        DefaultSection(),
		nodeIDs:        ids.NewAllocator(ids.DefaultBase),
		annotationIDs:  ids.NewAllocator(ids.DefaultBase),
		body:           dom.NewBody(BodyID),
		index:          make(map[ids.ID]*dom.Node),
		commentIndex:   make(map[ids.ID]int),
		bookmarkIndex:  make(map[ids.ID]int),
		bookmarkNames:  make(map[string]ids.ID),
		hyperlinkIndex: make(map[ids.ID]int),
		hyperlinkRuns:  make(map[ids.ID]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.index[BodyID] = d.body
	d.body.Bind(d)
	return d
}

// Body returns the root of the content tree.
func (d *Document) Body() *dom.Node {
	return d.body
}

// NewParagraph creates a detached paragraph with a fresh identifier.
func (d *Document) NewParagraph() *dom.Node { return dom.NewParagraph(d.nodeIDs.Next()) }

// NewRun creates a detached run with a fresh identifier.
func (d *Document) NewRun() *dom.Node { return dom.NewRun(d.nodeIDs.Next()) }

// NewText creates a detached text node with a fresh identifier.
func (d *Document) NewText(s string) *dom.Node { return dom.NewText(d.nodeIDs.Next(), s) }

// NewBreak creates a detached break with a fresh identifier.
func (d *Document) NewBreak(t dom.BreakType) *dom.Node { return dom.NewBreak(d.nodeIDs.Next(), t) }

// NewTable creates a detached table with a fresh identifier.
func (d *Document) NewTable() *dom.Node { return dom.NewTable(d.nodeIDs.Next()) }

// NewTableRow creates a detached table row with a fresh identifier.
func (d *Document) NewTableRow() *dom.Node { return dom.NewTableRow(d.nodeIDs.Next()) }

// NewTableCell creates a detached table cell with a fresh identifier.
func (d *Document) NewTableCell() *dom.Node { return dom.NewTableCell(d.nodeIDs.Next()) }

// NextAnnotationID issues an identifier for a bookmark or hyperlink.
func (d *Document) NextAnnotationID() ids.ID { return d.annotationIDs.Next() }

// AttachContent appends node (with its subtree) under the node identified
// by parentID.
func (d *Document) AttachContent(node *dom.Node, parentID ids.ID) error {
	parent, ok := d.index[parentID]
	if !ok {
		return &errors.UnknownParentError{ParentID: parentID}
	}
	return parent.AppendChild(node)
}

// Register implements dom.Indexer. It indexes the subtree rooted at child
// before the tree links it, rejecting identifiers that are already taken.
func (d *Document) Register(parent, child *dom.Node) error {
	if d.index[parent.ID()] != parent {
		return errors.NewInternal("document.Register", "parent %d is not indexed by this document", parent.ID())
	}
	seen := make(map[ids.ID]struct{})
	for n := range child.Walk() {
		if _, dup := d.index[n.ID()]; dup {
			return &errors.AlreadyExistsError{Resource: "node", ID: n.ID().String()}
		}
		if _, dup := seen[n.ID()]; dup {
			return &errors.AlreadyExistsError{Resource: "node", ID: n.ID().String()}
		}
		seen[n.ID()] = struct{}{}
	}
	for n := range child.Walk() {
		d.index[n.ID()] = n
		d.nodeIDs.Observe(n.ID())
	}
	return nil
}

// Resolve returns the live node with the given identifier.
func (d *Document) Resolve(id ids.ID) (*dom.Node, bool) {
	n, ok := d.index[id]
	return n, ok
}

// NodeCount returns the number of indexed nodes, including the body.
func (d *Document) NodeCount() int {
	return len(d.index)
}

// ParagraphIndex returns the reading-order position (from 0) of the
// paragraph with the given identifier, or -1.
func (d *Document) ParagraphIndex(id ids.ID) int {
	if n, ok := d.index[id]; !ok || n.Kind() != dom.KindParagraph {
		return -1
	}
	i := 0
	for p := range d.body.Paragraphs() {
		if p.ID() == id {
			return i
		}
		i++
	}
	return -1
}

// NewComment starts a comment with an allocator-assigned identifier.
func (d *Document) NewComment() *annotation.CommentBuilder {
	return annotation.NewComment(d.annotationIDs.Next())
}

// AttachComment finalizes b against this document and appends the
// comment. On failure the document is unchanged.
func (d *Document) AttachComment(b *annotation.CommentBuilder) (annotation.Comment, error) {
	c, err := b.Finalize(d)
	if err != nil {
		return annotation.Comment{}, err
	}
	if _, dup := d.commentIndex[c.ID]; dup {
		return annotation.Comment{}, &errors.DuplicateCommentIDError{CommentID: c.ID}
	}
	d.commentIndex[c.ID] = len(d.comments)
	d.comments = append(d.comments, c)
	d.annotationIDs.Observe(c.ID)
	return c, nil
}

// Comments returns the attached comments in insertion order.
func (d *Document) Comments() []annotation.Comment {
	return slices.Clone(d.comments)
}

// Comment returns the comment with the given identifier.
func (d *Document) Comment(id ids.ID) (annotation.Comment, bool) {
	i, ok := d.commentIndex[id]
	if !ok {
		return annotation.Comment{}, false
	}
	return d.comments[i], true
}

// AttachBookmark validates and appends a bookmark. Names are unique and
// the start paragraph must not follow the end paragraph.
func (d *Document) AttachBookmark(b annotation.Bookmark) error {
	if err := b.Validate(d); err != nil {
		return err
	}
	if _, dup := d.bookmarkIndex[b.ID]; dup {
		return &errors.AlreadyExistsError{Resource: "bookmark", ID: b.ID.String()}
	}
	if _, dup := d.bookmarkNames[b.Name]; dup {
		return &errors.AlreadyExistsError{Resource: "bookmark", ID: b.Name}
	}
	if d.ParagraphIndex(b.Start) > d.ParagraphIndex(b.End) {
		return errors.NewValidation("bookmark.range", "start paragraph follows end paragraph")
	}
	d.bookmarkIndex[b.ID] = len(d.bookmarks)
	d.bookmarkNames[b.Name] = b.ID
	d.bookmarks = append(d.bookmarks, b)
	d.annotationIDs.Observe(b.ID)
	return nil
}

// Bookmarks returns the attached bookmarks in insertion order.
func (d *Document) Bookmarks() []annotation.Bookmark {
	return slices.Clone(d.bookmarks)
}

// AttachHyperlink validates and appends a hyperlink. A run carries at
// most one hyperlink, and internal links must name an attached bookmark.
func (d *Document) AttachHyperlink(h annotation.Hyperlink) error {
	if err := h.Validate(d); err != nil {
		return err
	}
	if _, dup := d.hyperlinkIndex[h.ID]; dup {
		return &errors.AlreadyExistsError{Resource: "hyperlink", ID: h.ID.String()}
	}
	if _, dup := d.hyperlinkRuns[h.Run]; dup {
		return &errors.AlreadyExistsError{Resource: "hyperlink run", ID: h.Run.String()}
	}
	if !h.External() {
		if _, ok := d.bookmarkNames[h.Bookmark]; !ok {
			return errors.NewValidation("hyperlink.bookmark", "bookmark "+h.Bookmark+" is not attached")
		}
	}
	d.hyperlinkIndex[h.ID] = len(d.hyperlinks)
	d.hyperlinkRuns[h.Run] = len(d.hyperlinks)
	d.hyperlinks = append(d.hyperlinks, h)
	d.annotationIDs.Observe(h.ID)
	return nil
}

// Hyperlinks returns the attached hyperlinks in insertion order.
func (d *Document) Hyperlinks() []annotation.Hyperlink {
	return slices.Clone(d.hyperlinks)
}

// HyperlinkForRun returns the hyperlink wrapping the given run.
func (d *Document) HyperlinkForRun(run ids.ID) (annotation.Hyperlink, bool) {
	i, ok := d.hyperlinkRuns[run]
	if !ok {
		return annotation.Hyperlink{}, false
	}
	return d.hyperlinks[i], true
}

// Verify re-checks that every annotation still resolves. Attach-time
// validation should make this a no-op; the serializer calls it to catch
// defects before writing anything.
func (d *Document) Verify() error {
	for _, c := range d.comments {
		if n, ok := d.index[c.Anchor]; !ok || n.Kind() != dom.KindParagraph {
			return &errors.DanglingAnchorError{Resource: "comment", ID: c.ID, Anchor: c.Anchor}
		}
	}
	for _, b := range d.bookmarks {
		if err := b.Validate(d); err != nil {
			return err
		}
	}
	for _, h := range d.hyperlinks {
		if err := h.Validate(d); err != nil {
			return err
		}
	}
	return nil
}
