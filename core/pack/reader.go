package pack

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/xml"
)

// MaxPartSize bounds the decompressed size of a single part.
const MaxPartSize = 64 << 20

// Reader gives access to the parts of a package.
type Reader struct {
	names []string
	parts map[string][]byte
}

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Comment is a comment read back from a package.
type Comment struct {
	ID       int
	Author   string
	Date     string
	Initials string
	Text     string
	// Paragraph is the reading-order position of the anchor paragraph in
	// the main part, or -1 when the comment has no range marker.
	Paragraph int
}

// Open reads a package from memory.
func Open(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &errors.ParseError{Format: "zip", Message: "invalid package archive", Err: err}
	}
	r := &Reader{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.NewIO("open", f.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, MaxPartSize+1))
		rc.Close()
		if err != nil {
			return nil, errors.NewIO("read", f.Name, err)
		}
		if len(content) > MaxPartSize {
			return nil, errors.NewParse("zip", f.Name, "part exceeds size limit")
		}
		r.names = append(r.names, f.Name)
		r.parts[f.Name] = content
	}
	return r, nil
}

// PartNames returns part names in archive order.
func (r *Reader) PartNames() []string {
	return append([]string(nil), r.names...)
}

// Part returns the raw content of a part.
func (r *Reader) Part(name string) ([]byte, error) {
	data, ok := r.parts[name]
	if !ok {
		return nil, errors.NewNotFound("part", name)
	}
	return data, nil
}

func (r *Reader) parse(name string) (*xml.Document, error) {
	data, err := r.Part(name)
	if err != nil {
		return nil, err
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, &errors.ParseError{Format: "xml", Path: name, Message: "malformed part", Err: err}
	}
	return doc, nil
}

// ContentTypes resolves the media type of every part from the manifest:
// overrides first, then extension defaults.
func (r *Reader) ContentTypes() (map[string]string, error) {
	doc, err := r.parse(ContentTypesPart)
	if err != nil {
		return nil, err
	}
	defaults := make(map[string]string)
	nodes, err := doc.XPath("/*[local-name()='Types']/*[local-name()='Default']")
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		defaults[strings.ToLower(n.Attr("Extension"))] = n.Attr("ContentType")
	}
	overrides := make(map[string]string)
	nodes, err = doc.XPath("/*[local-name()='Types']/*[local-name()='Override']")
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		overrides[strings.TrimPrefix(n.Attr("PartName"), "/")] = n.Attr("ContentType")
	}

	types := make(map[string]string, len(r.names))
	for _, name := range r.names {
		if name == ContentTypesPart {
			continue
		}
		if ct, ok := overrides[name]; ok {
			types[name] = ct
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
		if ct, ok := defaults[ext]; ok {
			types[name] = ct
		}
	}
	return types, nil
}

// Title returns dc:title from the core properties, or "" when the
// package has no title.
func (r *Reader) Title() (string, error) {
	doc, err := r.parse(CorePropsPart)
	if err != nil {
		return "", err
	}
	n, err := doc.XPathFirst("/*[local-name()='coreProperties']/*[local-name()='title']")
	if err != nil {
		return "", err
	}
	return n.Text(), nil
}

// Relationships reads a relationships part.
func (r *Reader) Relationships(part string) ([]Relationship, error) {
	doc, err := r.parse(part)
	if err != nil {
		return nil, err
	}
	nodes, err := doc.XPath("/*[local-name()='Relationships']/*[local-name()='Relationship']")
	if err != nil {
		return nil, err
	}
	out := make([]Relationship, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Relationship{
			ID:       n.Attr("Id"),
			Type:     n.Attr("Type"),
			Target:   n.Attr("Target"),
			External: n.Attr("TargetMode") == "External",
		})
	}
	return out, nil
}

// Comments reads the comments part and locates each comment's anchor
// paragraph in the main part. A package without comments yields none.
func (r *Reader) Comments() ([]Comment, error) {
	if _, ok := r.parts[CommentsPart]; !ok {
		return nil, nil
	}
	anchors, err := r.commentAnchors()
	if err != nil {
		return nil, err
	}

	doc, err := r.parse(CommentsPart)
	if err != nil {
		return nil, err
	}
	nodes, err := doc.XPath("/*[local-name()='comments']/*[local-name()='comment']")
	if err != nil {
		return nil, err
	}
	out := make([]Comment, 0, len(nodes))
	for _, n := range nodes {
		id, err := strconv.Atoi(n.Attr("id"))
		if err != nil {
			return nil, errors.NewParse("xml", CommentsPart, fmt.Sprintf("comment id %q is not a number", n.Attr("id")))
		}
		paras, err := n.XPath("./*[local-name()='p']")
		if err != nil {
			return nil, err
		}
		lines := make([]string, len(paras))
		for i, p := range paras {
			lines[i] = p.Text()
		}
		c := Comment{
			ID:        id,
			Author:    n.Attr("author"),
			Date:      n.Attr("date"),
			Initials:  n.Attr("initials"),
			Text:      strings.Join(lines, "\n"),
			Paragraph: -1,
		}
		if pos, ok := anchors[id]; ok {
			c.Paragraph = pos
		}
		out = append(out, c)
	}
	return out, nil
}

// commentAnchors maps comment ids to the position of the paragraph that
// holds their range start.
func (r *Reader) commentAnchors() (map[int]int, error) {
	doc, err := r.parse(DocumentPart)
	if err != nil {
		return nil, err
	}
	paras, err := doc.XPath("//*[local-name()='body']//*[local-name()='p']")
	if err != nil {
		return nil, err
	}
	anchors := make(map[int]int)
	for pos, p := range paras {
		starts, err := p.XPath("./*[local-name()='commentRangeStart']")
		if err != nil {
			return nil, err
		}
		for _, s := range starts {
			if id, err := strconv.Atoi(s.Attr("id")); err == nil {
				if _, seen := anchors[id]; !seen {
					anchors[id] = pos
				}
			}
		}
	}
	return anchors, nil
}
