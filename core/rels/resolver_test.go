package rels

import (
	"errors"
	"slices"
	"testing"

	"github.com/tribal2/docx/core/annotation"
	"github.com/tribal2/docx/core/document"
	"github.com/tribal2/docx/core/dom"
	docxerr "github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// paragraphs appends n paragraphs, each with one run holding its ordinal
// as text, and returns the paragraph and run ids.
func paragraphs(t *testing.T, d *document.Document, n int) (ps, rs []ids.ID) {
	t.Helper()
	for i := 0; i < n; i++ {
		p, r := d.NewParagraph(), d.NewRun()
		if err := d.AttachContent(p, document.BodyID); err != nil {
			t.Fatal(err)
		}
		if err := d.AttachContent(r, p.ID()); err != nil {
			t.Fatal(err)
		}
		ps, rs = append(ps, p.ID()), append(rs, r.ID())
	}
	return ps, rs
}

func comment(t *testing.T, d *document.Document, anchor ids.ID) {
	t.Helper()
	if _, err := d.AttachComment(d.NewComment().Author("A").Date("2024-01-01").Anchor(anchor)); err != nil {
		t.Fatal(err)
	}
}

func link(t *testing.T, d *document.Document, run ids.ID, url string) {
	t.Helper()
	if err := d.AttachHyperlink(annotation.Hyperlink{ID: d.NextAnnotationID(), Run: run, URL: url}); err != nil {
		t.Fatal(err)
	}
}

func TestResolveEmpty(t *testing.T) {
	tbl, err := Resolve(document.New())
	if err != nil {
		t.Fatalf("Resolve = %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestResolveSingleComment(t *testing.T) {
	d := document.New()
	ps, _ := paragraphs(t, d, 1)
	comment(t, d, ps[0])

	tbl, err := Resolve(d)
	if err != nil {
		t.Fatalf("Resolve = %v", err)
	}
	entries := tbl.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ID != "rId1" || e.Kind != CommentReference || e.Target != CommentsTarget || e.External {
		t.Errorf("entry = %+v", e)
	}
	if !slices.Equal(e.Anchors, []ids.ID{1}) {
		t.Errorf("Anchors = %v, want [1]", e.Anchors)
	}
}

func TestResolveOrdering(t *testing.T) {
	d := document.New()
	ps, rs := paragraphs(t, d, 4)
	// Attach out of reading order; ids follow the tree, not attach order.
	comment(t, d, ps[2])
	link(t, d, rs[3], "https://b.example")
	link(t, d, rs[0], "https://a.example")
	comment(t, d, ps[1])
	link(t, d, rs[1], "https://a.example")
	comment(t, d, ps[2])

	tbl, err := Resolve(d)
	if err != nil {
		t.Fatalf("Resolve = %v", err)
	}

	tests := []struct {
		id     string
		kind   Kind
		target string
	}{
		{"rId1", Hyperlink, "https://a.example"},
		{"rId2", CommentReference, CommentsTarget},
		{"rId3", Hyperlink, "https://b.example"},
	}
	entries := tbl.Entries()
	if len(entries) != len(tests) {
		t.Fatalf("entries = %+v, want %d", entries, len(tests))
	}
	for i, tt := range tests {
		if entries[i].ID != tt.id || entries[i].Kind != tt.kind || entries[i].Target != tt.target {
			t.Errorf("entries[%d] = %+v, want %s %s %s", i, entries[i], tt.id, tt.kind, tt.target)
		}
	}
	if want := []ids.ID{ps[1], ps[2]}; !slices.Equal(entries[1].Anchors, want) {
		t.Errorf("Anchors = %v, want %v", entries[1].Anchors, want)
	}
	if id, ok := tbl.IDFor(Hyperlink, "https://b.example"); !ok || id != "rId3" {
		t.Errorf("IDFor = %q, %v, want rId3", id, ok)
	}
	if _, ok := tbl.IDFor(Image, "media/x.png"); ok {
		t.Error("IDFor(Image) found an entry")
	}
}

func TestResolveDeterministic(t *testing.T) {
	d := document.New()
	ps, rs := paragraphs(t, d, 3)
	comment(t, d, ps[0])
	link(t, d, rs[2], "https://example.com")

	first, err := Resolve(d)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Resolve(d)
		if err != nil {
			t.Fatal(err)
		}
		a, b := first.Entries(), again.Entries()
		if len(a) != len(b) {
			t.Fatalf("run %d: %d entries, want %d", i, len(b), len(a))
		}
		for j := range a {
			if a[j].ID != b[j].ID || a[j].Target != b[j].Target || !slices.Equal(a[j].Anchors, b[j].Anchors) {
				t.Fatalf("run %d: entry %d = %+v, want %+v", i, j, b[j], a[j])
			}
		}
	}
}

func TestResolveInternalBookmarkLinkHasNoEntry(t *testing.T) {
	d := document.New()
	ps, rs := paragraphs(t, d, 1)
	if err := d.AttachBookmark(annotation.Bookmark{ID: d.NextAnnotationID(), Name: "top", Start: ps[0], End: ps[0]}); err != nil {
		t.Fatal(err)
	}
	if err := d.AttachHyperlink(annotation.Hyperlink{ID: d.NextAnnotationID(), Run: rs[0], Bookmark: "top"}); err != nil {
		t.Fatal(err)
	}
	tbl, err := Resolve(d)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	d := document.New()
	ps, _ := paragraphs(t, d, 1)
	comment(t, d, ps[0])
	tbl, err := Resolve(d)
	if err != nil {
		t.Fatal(err)
	}
	tbl.Entries()[0].Anchors[0] = 99
	if got := tbl.Entries()[0].Anchors[0]; got != ps[0] {
		t.Errorf("Anchors[0] = %d after caller mutation, want %d", got, ps[0])
	}
}

// brokenSource reports a comment whose anchor is outside the tree.
type brokenSource struct {
	body     *dom.Node
	detached *dom.Node
}

func (s brokenSource) Body() *dom.Node { return s.body }

func (s brokenSource) Resolve(id ids.ID) (*dom.Node, bool) {
	switch id {
	case s.body.ID():
		return s.body, true
	case s.detached.ID():
		return s.detached, true
	}
	return nil, false
}

func (s brokenSource) Comments() []annotation.Comment {
	return []annotation.Comment{{ID: 1, Author: "A", Date: "d", Anchor: s.detached.ID()}}
}

func (s brokenSource) Hyperlinks() []annotation.Hyperlink { return nil }

func TestResolveDetachedAnchorIsInternal(t *testing.T) {
	src := brokenSource{body: dom.NewBody(0), detached: dom.NewParagraph(5)}
	_, err := Resolve(src)
	if !errors.Is(err, docxerr.ErrInternal) {
		t.Errorf("Resolve = %v, want ErrInternal", err)
	}
}

func TestKindType(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{CommentReference, "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"},
		{Hyperlink, "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"},
		{Image, "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"},
		{Kind(9), ""},
	}
	for _, tt := range tests {
		if got := tt.kind.Type(); got != tt.want {
			t.Errorf("%v.Type() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
