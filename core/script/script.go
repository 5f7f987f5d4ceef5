// Package script builds documents from a small line-oriented language.
//
//	title "Quarterly report"
//	paragraph @intro align=center style="Heading1" {
//	  run bold size=32 "Hello"
//	  break
//	  run italic "World"
//	}
//	table { row { cell { paragraph { run "cell" } } } }
//	comment on @intro author "A" date "2024-01-01" text "Looks good"
//	bookmark "top" from @intro to @intro
//	link "https://example.com" on @intro 1
//
// Statements run in order against one document, so a comment, bookmark
// or link can only refer to paragraphs defined above it.
package script

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/tribal2/docx/core/annotation"
	"github.com/tribal2/docx/core/document"
	"github.com/tribal2/docx/core/dom"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/ids"
)

// Build parses src and builds the document it describes. filename is
// used in error positions only.
func Build(filename, src string, opts ...document.Option) (*document.Document, error) {
	parsed, err := scriptParser.ParseString(filename, src)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, errors.NewParse("script", perr.Position().String(), perr.Message())
		}
		return nil, errors.NewParse("script", filename, err.Error())
	}

	b := &builder{
		doc:    document.New(opts...),
		labels: make(map[string]*dom.Node),
	}
	for _, st := range parsed.Statements {
		if err := b.statement(st); err != nil {
			return nil, err
		}
	}
	return b.doc, nil
}

// BuildFile reads and builds a script file.
func BuildFile(path string, opts ...document.Option) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return Build(path, string(data), opts...)
}

type builder struct {
	doc    *document.Document
	labels map[string]*dom.Node
}

func invalid(pos lexer.Position, field, format string, args ...any) error {
	return errors.NewValidation(field, pos.String()+": "+fmt.Sprintf(format, args...))
}

func (b *builder) statement(st *statement) error {
	props := &b.doc.Properties
	switch {
	case st.Title != nil:
		props.Title = *st.Title
	case st.Subject != nil:
		props.Subject = *st.Subject
	case st.Creator != nil:
		props.Creator = *st.Creator
	case st.Description != nil:
		props.Description = *st.Description
	case st.Page != nil:
		return b.page(st.Page)
	case st.Block != nil:
		return b.block(st.Block, document.BodyID)
	case st.Comment != nil:
		return b.comment(st.Comment)
	case st.Bookmark != nil:
		return b.bookmark(st.Bookmark)
	case st.Link != nil:
		return b.link(st.Link)
	}
	return nil
}

func (b *builder) page(p *pageStmt) error {
	s := &b.doc.Section
	targets := map[string]*int{
		"width":  &s.PageWidth,
		"height": &s.PageHeight,
		"top":    &s.Margin.Top,
		"left":   &s.Margin.Left,
		"bottom": &s.Margin.Bottom,
		"right":  &s.Margin.Right,
		"header": &s.Margin.Header,
		"footer": &s.Margin.Footer,
		"gutter": &s.Margin.Gutter,
	}
	for _, a := range p.Attrs {
		target, ok := targets[a.Key]
		if !ok {
			return invalid(a.Pos, "page", "unknown attribute %q", a.Key)
		}
		n, err := a.int()
		if err != nil {
			return err
		}
		*target = n
	}
	return nil
}

func (b *builder) block(bl *block, parent ids.ID) error {
	if bl.Table != nil {
		return b.table(bl.Table, parent)
	}
	return b.paragraph(bl.Paragraph, parent)
}

func (b *builder) paragraph(ps *paragraphStmt, parent ids.ID) error {
	p := b.doc.NewParagraph()
	if err := applyParagraphAttrs(p.ParagraphProps(), ps.Attrs); err != nil {
		return err
	}
	if err := b.doc.AttachContent(p, parent); err != nil {
		return err
	}
	if ps.Label != nil {
		label := strings.TrimPrefix(*ps.Label, "@")
		if _, dup := b.labels[label]; dup {
			return invalid(ps.Pos, "label", "label @%s is already defined", label)
		}
		b.labels[label] = p
	}

	for _, in := range ps.Inlines {
		switch {
		case in.Break != nil:
			if err := b.doc.AttachContent(b.doc.NewBreak(in.Break.kind()), p.ID()); err != nil {
				return err
			}
		case in.Run != nil:
			if err := b.run(in.Run, p.ID()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) run(rs *runStmt, parent ids.ID) error {
	r := b.doc.NewRun()
	if err := applyRunAttrs(r.RunProps(), rs.Attrs); err != nil {
		return err
	}
	if err := b.doc.AttachContent(r, parent); err != nil {
		return err
	}
	for _, c := range rs.Content {
		var child *dom.Node
		if c.Break != nil {
			child = b.doc.NewBreak(c.Break.kind())
		} else {
			child = b.doc.NewText(*c.Text)
		}
		if err := b.doc.AttachContent(child, r.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) table(ts *tableStmt, parent ids.ID) error {
	t := b.doc.NewTable()
	if err := applyTableAttrs(t.TableProps(), ts.Attrs); err != nil {
		return err
	}
	if err := b.doc.AttachContent(t, parent); err != nil {
		return err
	}
	for _, rs := range ts.Rows {
		row := b.doc.NewTableRow()
		if err := b.doc.AttachContent(row, t.ID()); err != nil {
			return err
		}
		for _, cs := range rs.Cells {
			cell := b.doc.NewTableCell()
			if err := applyCellAttrs(cell.CellProps(), cs.Attrs); err != nil {
				return err
			}
			if err := b.doc.AttachContent(cell, row.ID()); err != nil {
				return err
			}
			for _, bl := range cs.Blocks {
				if err := b.block(bl, cell.ID()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (b *builder) lookup(pos lexer.Position, label string) (*dom.Node, error) {
	label = strings.TrimPrefix(label, "@")
	p, ok := b.labels[label]
	if !ok {
		return nil, invalid(pos, "label", "unknown paragraph label @%s", label)
	}
	return p, nil
}

// comment feeds the fields to a comment builder in script order, so
// repeated fields overwrite and missing ones surface as an incomplete
// comment when attached.
func (b *builder) comment(cs *commentStmt) error {
	var cb *annotation.CommentBuilder
	for _, f := range cs.Fields {
		if f.ID != nil {
			if *f.ID < 0 {
				return invalid(cs.Pos, "comment.id", "id must not be negative")
			}
			if int64(*f.ID) > math.MaxUint32 {
				return invalid(cs.Pos, "comment.id", "id %d exceeds %d", *f.ID, uint32(math.MaxUint32))
			}
			cb = annotation.NewComment(ids.ID(*f.ID))
		}
	}
	if cb == nil {
		cb = b.doc.NewComment()
	}

	for _, f := range cs.Fields {
		switch {
		case f.Anchor != nil:
			p, err := b.lookup(cs.Pos, *f.Anchor)
			if err != nil {
				return err
			}
			cb.Anchor(p.ID())
		case f.Author != nil:
			cb.Author(*f.Author)
		case f.Date != nil:
			cb.Date(*f.Date)
		case f.Initials != nil:
			cb.Initials(*f.Initials)
		case f.Text != nil:
			cb.Text(*f.Text)
		}
	}
	_, err := b.doc.AttachComment(cb)
	return err
}

func (b *builder) bookmark(bs *bookmarkStmt) error {
	start, err := b.lookup(bs.Pos, bs.Start)
	if err != nil {
		return err
	}
	end := start
	if bs.End != "" {
		if end, err = b.lookup(bs.Pos, bs.End); err != nil {
			return err
		}
	}
	return b.doc.AttachBookmark(annotation.Bookmark{
		ID:    b.doc.NextAnnotationID(),
		Name:  bs.Name,
		Start: start.ID(),
		End:   end.ID(),
	})
}

func (b *builder) link(ls *linkStmt) error {
	p, err := b.lookup(ls.Pos, ls.On)
	if err != nil {
		return err
	}
	ordinal := 1
	if ls.Run != nil {
		ordinal = *ls.Run
	}
	var run *dom.Node
	seen := 0
	for _, c := range p.Children() {
		if c.Kind() != dom.KindRun {
			continue
		}
		if seen++; seen == ordinal {
			run = c
			break
		}
	}
	if run == nil {
		return invalid(ls.Pos, "link.run", "paragraph %s has no run %d", ls.On, ordinal)
	}

	h := annotation.Hyperlink{ID: b.doc.NextAnnotationID(), Run: run.ID()}
	if name, ok := strings.CutPrefix(ls.Target, "#"); ok {
		h.Bookmark = name
	} else {
		h.URL = ls.Target
	}
	return b.doc.AttachHyperlink(h)
}

func (br *breakStmt) kind() dom.BreakType {
	if br.Type == nil {
		return dom.BreakLine
	}
	switch *br.Type {
	case "page":
		return dom.BreakPage
	case "column":
		return dom.BreakColumn
	}
	return dom.BreakLine
}

func (a *attr) flag() error {
	if a.Value != nil {
		return invalid(a.Pos, a.Key, "%s is a flag and takes no value", a.Key)
	}
	return nil
}

func (a *attr) str() (string, error) {
	if a.Value == nil {
		return "", invalid(a.Pos, a.Key, "%s needs a value", a.Key)
	}
	return a.Value.String(), nil
}

func (a *attr) int() (int, error) {
	if a.Value == nil {
		return 0, invalid(a.Pos, a.Key, "%s needs a value", a.Key)
	}
	if a.Value.Int != nil {
		return *a.Value.Int, nil
	}
	n, err := strconv.Atoi(a.Value.String())
	if err != nil {
		return 0, invalid(a.Pos, a.Key, "%s must be a number", a.Key)
	}
	return n, nil
}
