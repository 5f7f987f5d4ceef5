package script

import (
	"regexp"

	"github.com/tribal2/docx/core/dom"
)

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

func applyParagraphAttrs(p *dom.ParagraphProps, attrs []*attr) error {
	indent := func() *dom.Indent {
		if p.Indent == nil {
			p.Indent = &dom.Indent{}
		}
		return p.Indent
	}
	for _, a := range attrs {
		switch a.Key {
		case "style":
			s, err := a.str()
			if err != nil {
				return err
			}
			p.Style = s
		case "align":
			s, err := a.str()
			if err != nil {
				return err
			}
			align := dom.Alignment(s)
			if !align.IsValid() || align == dom.AlignDefault {
				return invalid(a.Pos, a.Key, "unknown alignment %q", s)
			}
			p.Align = align
		case "keep-next":
			if err := a.flag(); err != nil {
				return err
			}
			p.KeepNext = true
		case "indent-left", "indent-right", "first-line", "hanging":
			n, err := a.int()
			if err != nil {
				return err
			}
			in := indent()
			switch a.Key {
			case "indent-left":
				in.Left = n
			case "indent-right":
				in.Right = n
			case "first-line":
				in.SpecialKind, in.Special = dom.SpecialFirstLine, n
			case "hanging":
				in.SpecialKind, in.Special = dom.SpecialHanging, n
			}
		default:
			return invalid(a.Pos, "paragraph", "unknown attribute %q", a.Key)
		}
	}
	return nil
}

func applyRunAttrs(r *dom.RunProps, attrs []*attr) error {
	for _, a := range attrs {
		switch a.Key {
		case "bold", "italic", "underline", "strike":
			if err := a.flag(); err != nil {
				return err
			}
			switch a.Key {
			case "bold":
				r.Bold = true
			case "italic":
				r.Italic = true
			case "underline":
				r.Underline = true
			case "strike":
				r.Strike = true
			}
		case "size":
			n, err := a.int()
			if err != nil {
				return err
			}
			if n <= 0 {
				return invalid(a.Pos, a.Key, "size must be positive")
			}
			r.Size = uint(n)
		case "color":
			s, err := a.str()
			if err != nil {
				return err
			}
			if !hexColor.MatchString(s) {
				return invalid(a.Pos, a.Key, "color %q is not RRGGBB hex", s)
			}
			r.Color = s
		case "font":
			s, err := a.str()
			if err != nil {
				return err
			}
			r.Font = s
		default:
			return invalid(a.Pos, "run", "unknown attribute %q", a.Key)
		}
	}
	return nil
}

var borderPositions = map[string]dom.BorderPosition{
	"top":     dom.BorderTop,
	"left":    dom.BorderLeft,
	"bottom":  dom.BorderBottom,
	"right":   dom.BorderRight,
	"insideH": dom.BorderInsideH,
	"insideV": dom.BorderInsideV,
}

func applyTableAttrs(t *dom.TableProps, attrs []*attr) error {
	for _, a := range attrs {
		switch a.Key {
		case "width":
			n, err := a.int()
			if err != nil {
				return err
			}
			t.Width = n
		case "layout":
			s, err := a.str()
			if err != nil {
				return err
			}
			switch s {
			case "fixed":
				t.Layout = dom.LayoutFixed
			case "autofit":
				t.Layout = dom.LayoutAutofit
			default:
				return invalid(a.Pos, a.Key, "unknown layout %q", s)
			}
		case "borders":
			s, err := a.str()
			if err != nil {
				return err
			}
			switch s {
			case "default":
				t.Borders = dom.DefaultBorders()
			case "empty":
				t.Borders = dom.EmptyBorders()
			case "none":
				t.Borders.ClearAll()
			default:
				return invalid(a.Pos, a.Key, "unknown border set %q", s)
			}
		case "clear":
			s, err := a.str()
			if err != nil {
				return err
			}
			pos, ok := borderPositions[s]
			if !ok {
				return invalid(a.Pos, a.Key, "unknown border position %q", s)
			}
			t.Borders.Clear(pos)
		default:
			return invalid(a.Pos, "table", "unknown attribute %q", a.Key)
		}
	}
	return nil
}

func applyCellAttrs(c *dom.CellProps, attrs []*attr) error {
	for _, a := range attrs {
		switch a.Key {
		case "width":
			n, err := a.int()
			if err != nil {
				return err
			}
			c.Width = n
		case "span":
			n, err := a.int()
			if err != nil {
				return err
			}
			if n < 1 {
				return invalid(a.Pos, a.Key, "span must be at least 1")
			}
			c.GridSpan = n
		case "vmerge":
			s, err := a.str()
			if err != nil {
				return err
			}
			switch v := dom.VMerge(s); v {
			case dom.VMergeRestart, dom.VMergeContinue:
				c.VMerge = v
			default:
				return invalid(a.Pos, a.Key, "unknown vmerge %q", s)
			}
		case "shading":
			s, err := a.str()
			if err != nil {
				return err
			}
			if !hexColor.MatchString(s) {
				return invalid(a.Pos, a.Key, "shading %q is not RRGGBB hex", s)
			}
			c.Shading = s
		default:
			return invalid(a.Pos, "cell", "unknown attribute %q", a.Key)
		}
	}
	return nil
}
