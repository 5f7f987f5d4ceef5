package annotation

import (
	"net/url"

	"github.com/tribal2/docx/core/dom"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// Bookmark marks a named range that starts at the beginning of one
// paragraph and ends at the end of another (possibly the same).
type Bookmark struct {
	ID    ids.ID
	Name  string
	Start ids.ID
	End   ids.ID
}

// Validate checks the bookmark against r. Reading order between Start
// and End is checked by the document, which knows paragraph positions.
func (b Bookmark) Validate(r Resolver) error {
	if b.Name == "" {
		return errors.NewValidation("bookmark.name", "name is required")
	}
	if len(b.Name) > 40 {
		return errors.NewValidation("bookmark.name", "name is longer than 40 characters")
	}
	if err := checkParagraph(r, "bookmark", b.ID, b.Start); err != nil {
		return err
	}
	return checkParagraph(r, "bookmark", b.ID, b.End)
}

// Hyperlink turns one run into a link, either to an external URL or to a
// bookmark inside the document.
type Hyperlink struct {
	ID       ids.ID
	Run      ids.ID
	URL      string
	Bookmark string
}

// External reports whether the hyperlink targets a URL.
func (h Hyperlink) External() bool {
	return h.URL != ""
}

// Validate checks the hyperlink target and that its run sits directly in
// a paragraph.
func (h Hyperlink) Validate(r Resolver) error {
	switch {
	case h.URL == "" && h.Bookmark == "":
		return errors.NewValidation("hyperlink.target", "either a URL or a bookmark is required")
	case h.URL != "" && h.Bookmark != "":
		return errors.NewValidation("hyperlink.target", "URL and bookmark are mutually exclusive")
	case h.URL != "":
		u, err := url.Parse(h.URL)
		if err != nil {
			return &errors.ValidationError{Field: "hyperlink.url", Message: err.Error(), Err: errors.ErrInvalidInput}
		}
		if !u.IsAbs() {
			return errors.NewValidation("hyperlink.url", "URL must be absolute")
		}
	}

	if r == nil {
		return &errors.DanglingAnchorError{Resource: "hyperlink", ID: h.ID, Anchor: h.Run, Reason: "has no document to resolve against"}
	}
	node, ok := r.Resolve(h.Run)
	if !ok {
		return &errors.DanglingAnchorError{Resource: "hyperlink", ID: h.ID, Anchor: h.Run}
	}
	if node.Kind() != dom.KindRun {
		return &errors.DanglingAnchorError{
			Resource: "hyperlink",
			ID:       h.ID,
			Anchor:   h.Run,
			Reason:   "is a " + node.Kind().String() + ", not a run",
		}
	}
	if p := node.Parent(); p == nil || p.Kind() != dom.KindParagraph {
		return &errors.DanglingAnchorError{Resource: "hyperlink", ID: h.ID, Anchor: h.Run, Reason: "is not inside a paragraph"}
	}
	return nil
}
