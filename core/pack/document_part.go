package pack

import (
	"strconv"

	"github.com/tribal2/docx/core/annotation"
	"github.com/tribal2/docx/core/document"
	"github.com/tribal2/docx/core/dom"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
	"github.com/tribal2/docx/core/rels"
)

// markers collects, per node, the annotation markup that surrounds it.
// Package ids for comments and bookmarks are insertion ordinals from 0.
type markers struct {
	comments       map[ids.ID][]int
	bookmarkStarts map[ids.ID][]bookmarkMark
	bookmarkEnds   map[ids.ID][]int
	links          map[ids.ID]annotation.Hyperlink
}

type bookmarkMark struct {
	id   int
	name string
}

func collectMarkers(doc *document.Document) markers {
	m := markers{
		comments:       make(map[ids.ID][]int),
		bookmarkStarts: make(map[ids.ID][]bookmarkMark),
		bookmarkEnds:   make(map[ids.ID][]int),
		links:          make(map[ids.ID]annotation.Hyperlink),
	}
	for i, c := range doc.Comments() {
		m.comments[c.Anchor] = append(m.comments[c.Anchor], i)
	}
	for i, b := range doc.Bookmarks() {
		m.bookmarkStarts[b.Start] = append(m.bookmarkStarts[b.Start], bookmarkMark{id: i, name: b.Name})
		m.bookmarkEnds[b.End] = append(m.bookmarkEnds[b.End], i)
	}
	for _, h := range doc.Hyperlinks() {
		m.links[h.Run] = h
	}
	return m
}

// renderDocument emits word/document.xml from a pre-order traversal of the
// content tree.
func renderDocument(doc *document.Document, table *rels.Table) ([]byte, error) {
	b := newXMLBuilder(DocumentPart)
	m := collectMarkers(doc)

	for ev := range doc.Body().Events() {
		n := ev.Node
		if ev.Leave {
			if err := leaveNode(b, doc, m, n); err != nil {
				return nil, err
			}
			continue
		}
		if err := enterNode(b, m, table, n); err != nil {
			return nil, err
		}
	}
	return b.bytes()
}

func enterNode(b *xmlBuilder, m markers, table *rels.Table, n *dom.Node) error {
	switch n.Kind() {
	case dom.KindBody:
		b.open("w:document", "xmlns:w", nsW, "xmlns:r", nsR)
		b.open("w:body")

	case dom.KindParagraph:
		b.open("w:p")
		writeParagraphProps(b, n.ParagraphProps())
		for _, bm := range m.bookmarkStarts[n.ID()] {
			b.empty("w:bookmarkStart", "w:id", strconv.Itoa(bm.id), "w:name", bm.name)
		}
		for _, c := range m.comments[n.ID()] {
			b.empty("w:commentRangeStart", "w:id", strconv.Itoa(c))
		}

	case dom.KindRun:
		if h, ok := m.links[n.ID()]; ok {
			if h.External() {
				rid, found := table.IDFor(rels.Hyperlink, h.URL)
				if !found {
					return errors.NewSerialization(DocumentPart,
						errors.NewInternal("pack.renderDocument", "no relationship for hyperlink %d", h.ID))
				}
				b.open("w:hyperlink", "r:id", rid)
			} else {
				b.open("w:hyperlink", "w:anchor", h.Bookmark)
			}
		}
		b.open("w:r")
		writeRunProps(b, n.RunProps())

	case dom.KindText:
		b.element("w:t", n.Text(), "xml:space", "preserve")

	case dom.KindBreak:
		inParagraph := n.Parent() != nil && n.Parent().Kind() == dom.KindParagraph
		if inParagraph {
			b.open("w:r")
		}
		if t := n.BreakType(); t == dom.BreakLine {
			b.empty("w:br")
		} else {
			b.empty("w:br", "w:type", t.String())
		}
		if inParagraph {
			b.close("w:r")
		}

	case dom.KindTable:
		b.open("w:tbl")
		writeTableProps(b, n)

	case dom.KindTableRow:
		b.open("w:tr")

	case dom.KindTableCell:
		b.open("w:tc")
		writeCellProps(b, n.CellProps())

	default:
		return errors.NewSerialization(DocumentPart,
			errors.NewInternal("pack.renderDocument", "unknown node kind %s", n.Kind()))
	}
	return nil
}

func leaveNode(b *xmlBuilder, doc *document.Document, m markers, n *dom.Node) error {
	switch n.Kind() {
	case dom.KindBody:
		writeSection(b, doc.Section)
		b.close("w:body")
		b.close("w:document")

	case dom.KindParagraph:
		for _, c := range m.comments[n.ID()] {
			b.empty("w:commentRangeEnd", "w:id", strconv.Itoa(c))
		}
		for _, c := range m.comments[n.ID()] {
			b.open("w:r")
			b.empty("w:commentReference", "w:id", strconv.Itoa(c))
			b.close("w:r")
		}
		for _, id := range m.bookmarkEnds[n.ID()] {
			b.empty("w:bookmarkEnd", "w:id", strconv.Itoa(id))
		}
		b.close("w:p")

	case dom.KindRun:
		b.close("w:r")
		if _, ok := m.links[n.ID()]; ok {
			b.close("w:hyperlink")
		}

	case dom.KindTable:
		b.close("w:tbl")

	case dom.KindTableRow:
		b.close("w:tr")

	case dom.KindTableCell:
		// A cell must end with a paragraph.
		if last := n.Child(n.ChildCount() - 1); last == nil || last.Kind() != dom.KindParagraph {
			b.empty("w:p")
		}
		b.close("w:tc")
	}
	return nil
}

func writeParagraphProps(b *xmlBuilder, p *dom.ParagraphProps) {
	if p == nil || p.IsZero() {
		return
	}
	b.open("w:pPr")
	if p.Style != "" {
		b.empty("w:pStyle", "w:val", p.Style)
	}
	if p.KeepNext {
		b.empty("w:keepNext")
	}
	if ind := p.Indent; ind != nil {
		attrs := []string{"w:left", strconv.Itoa(ind.Left), "w:right", strconv.Itoa(ind.Right)}
		switch ind.SpecialKind {
		case dom.SpecialFirstLine:
			attrs = append(attrs, "w:firstLine", strconv.Itoa(ind.Special))
		case dom.SpecialHanging:
			attrs = append(attrs, "w:hanging", strconv.Itoa(ind.Special))
		}
		b.empty("w:ind", attrs...)
	}
	if p.Align != dom.AlignDefault {
		b.empty("w:jc", "w:val", string(p.Align))
	}
	b.close("w:pPr")
}

func writeRunProps(b *xmlBuilder, r *dom.RunProps) {
	if r == nil || r.IsZero() {
		return
	}
	b.open("w:rPr")
	if r.Font != "" {
		b.empty("w:rFonts", "w:ascii", r.Font, "w:hAnsi", r.Font, "w:cs", r.Font)
	}
	if r.Bold {
		b.empty("w:b")
	}
	if r.Italic {
		b.empty("w:i")
	}
	if r.Strike {
		b.empty("w:strike")
	}
	if r.Color != "" {
		b.empty("w:color", "w:val", r.Color)
	}
	if r.Size > 0 {
		size := strconv.FormatUint(uint64(r.Size), 10)
		b.empty("w:sz", "w:val", size)
		b.empty("w:szCs", "w:val", size)
	}
	if r.Underline {
		b.empty("w:u", "w:val", "single")
	}
	b.close("w:rPr")
}

func writeTableProps(b *xmlBuilder, n *dom.Node) {
	props := n.TableProps()
	b.open("w:tblPr")
	if props.Width > 0 {
		b.empty("w:tblW", "w:w", strconv.Itoa(props.Width), "w:type", "dxa")
	} else {
		b.empty("w:tblW", "w:w", "0", "w:type", "auto")
	}
	first := true
	for pos, border := range props.Borders.All() {
		if first {
			b.open("w:tblBorders")
			first = false
		}
		b.empty("w:"+pos.String(),
			"w:val", string(border.Style),
			"w:sz", strconv.Itoa(border.Size),
			"w:space", strconv.Itoa(border.Space),
			"w:color", border.Color,
		)
	}
	if !first {
		b.close("w:tblBorders")
	}
	if props.Layout != dom.LayoutAutofit {
		b.empty("w:tblLayout", "w:type", string(props.Layout))
	}
	b.close("w:tblPr")

	b.open("w:tblGrid")
	for _, width := range gridColumns(n) {
		if width > 0 {
			b.empty("w:gridCol", "w:w", strconv.Itoa(width))
		} else {
			b.empty("w:gridCol")
		}
	}
	b.close("w:tblGrid")
}

// gridColumns derives the table grid from its widest row. Column widths
// come from the first row that spans that column with a single cell.
func gridColumns(table *dom.Node) []int {
	var widths []int
	for _, row := range table.Children() {
		col := 0
		for _, cell := range row.Children() {
			props := cell.CellProps()
			span := max(props.GridSpan, 1)
			for i := 0; i < span; i++ {
				if col+i >= len(widths) {
					widths = append(widths, 0)
				}
			}
			if span == 1 && widths[col] == 0 {
				widths[col] = props.Width
			}
			col += span
		}
	}
	return widths
}

func writeCellProps(b *xmlBuilder, c *dom.CellProps) {
	if c == nil || *c == (dom.CellProps{}) {
		return
	}
	b.open("w:tcPr")
	if c.Width > 0 {
		b.empty("w:tcW", "w:w", strconv.Itoa(c.Width), "w:type", "dxa")
	}
	if c.GridSpan > 1 {
		b.empty("w:gridSpan", "w:val", strconv.Itoa(c.GridSpan))
	}
	if c.VMerge != dom.VMergeNone {
		b.empty("w:vMerge", "w:val", string(c.VMerge))
	}
	if c.Shading != "" {
		b.empty("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", c.Shading)
	}
	b.close("w:tcPr")
}

func writeSection(b *xmlBuilder, s document.Section) {
	b.open("w:sectPr")
	b.empty("w:pgSz", "w:w", strconv.Itoa(s.PageWidth), "w:h", strconv.Itoa(s.PageHeight))
	mg := s.Margin
	b.empty("w:pgMar",
		"w:top", strconv.Itoa(mg.Top),
		"w:right", strconv.Itoa(mg.Right),
		"w:bottom", strconv.Itoa(mg.Bottom),
		"w:left", strconv.Itoa(mg.Left),
		"w:header", strconv.Itoa(mg.Header),
		"w:footer", strconv.Itoa(mg.Footer),
		"w:gutter", strconv.Itoa(mg.Gutter),
	)
	b.close("w:sectPr")
}
