package dom

import "iter"

// Alignment is a paragraph justification value.
type Alignment string

// Paragraph alignments.
const (
	AlignDefault    Alignment = ""
	AlignLeft       Alignment = "left"
	AlignCenter     Alignment = "center"
	AlignRight      Alignment = "right"
	AlignBoth       Alignment = "both"
	AlignDistribute Alignment = "distribute"
)

// IsValid reports whether a is a known alignment.
func (a Alignment) IsValid() bool {
	switch a {
	case AlignDefault, AlignLeft, AlignCenter, AlignRight, AlignBoth, AlignDistribute:
		return true
	}
	return false
}

// SpecialIndentKind selects how the first line of a paragraph is indented.
type SpecialIndentKind uint8

const (
	SpecialNone SpecialIndentKind = iota
	SpecialFirstLine
	SpecialHanging
)

// Indent holds paragraph indentation in twentieths of a point.
type Indent struct {
	Left        int
	Right       int
	SpecialKind SpecialIndentKind
	Special     int
}

// ParagraphProps are the formatting attributes of a paragraph.
type ParagraphProps struct {
	Style    string
	Align    Alignment
	Indent   *Indent
	KeepNext bool
}

// IsZero reports whether no paragraph property is set.
func (p ParagraphProps) IsZero() bool {
	return p.Style == "" && p.Align == AlignDefault && p.Indent == nil && !p.KeepNext
}

// RunProps are the character formatting attributes of a run.
type RunProps struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Size      uint   // Half-points; 0 inherits
	Color     string // RRGGBB hex
	Font      string
}

// IsZero reports whether no run property is set.
func (r RunProps) IsZero() bool {
	return r == RunProps{}
}

// BreakType selects the kind of break.
type BreakType uint8

const (
	BreakLine BreakType = iota
	BreakPage
	BreakColumn
)

// String returns the break type name used in the package.
func (b BreakType) String() string {
	switch b {
	case BreakPage:
		return "page"
	case BreakColumn:
		return "column"
	default:
		return "textWrapping"
	}
}

// BorderStyle is a table border line style.
type BorderStyle string

const (
	BorderSingle BorderStyle = "single"
	BorderDouble BorderStyle = "double"
	BorderDotted BorderStyle = "dotted"
	BorderDashed BorderStyle = "dashed"
	BorderNone   BorderStyle = "none"
	BorderNil    BorderStyle = "nil"
)

// BorderPosition identifies one border of a table.
type BorderPosition uint8

const (
	BorderTop BorderPosition = iota
	BorderLeft
	BorderBottom
	BorderRight
	BorderInsideH
	BorderInsideV
	borderPositions
)

var borderPositionNames = [borderPositions]string{"top", "left", "bottom", "right", "insideH", "insideV"}

// String returns the element name of the border position.
func (p BorderPosition) String() string {
	if p < borderPositions {
		return borderPositionNames[p]
	}
	return "unknown"
}

// Border describes one table border line.
type Border struct {
	Style BorderStyle
	Size  int // Eighths of a point
	Space int
	Color string
}

// DefaultBorder is a thin single black line.
func DefaultBorder() Border {
	return Border{Style: BorderSingle, Size: 2, Space: 0, Color: "000000"}
}

// TableBorders holds the optional borders of a table, emitted in the
// fixed order top, left, bottom, right, insideH, insideV.
type TableBorders struct {
	borders [borderPositions]Border
	present [borderPositions]bool
}

// DefaultBorders returns borders with every position set to DefaultBorder.
func DefaultBorders() TableBorders {
	var b TableBorders
	for p := BorderPosition(0); p < borderPositions; p++ {
		b.Set(p, DefaultBorder())
	}
	return b
}

// EmptyBorders returns borders with no position set.
func EmptyBorders() TableBorders {
	return TableBorders{}
}

// Set replaces the border at position p.
func (b *TableBorders) Set(p BorderPosition, border Border) {
	if p >= borderPositions {
		return
	}
	b.borders[p] = border
	b.present[p] = true
}

// Clear sets the border at p to an explicit nil border, which suppresses
// any inherited line.
func (b *TableBorders) Clear(p BorderPosition) {
	border := DefaultBorder()
	border.Style = BorderNil
	b.Set(p, border)
}

// ClearAll clears every position.
func (b *TableBorders) ClearAll() {
	for p := BorderPosition(0); p < borderPositions; p++ {
		b.Clear(p)
	}
}

// Get returns the border at p and whether it is set.
func (b TableBorders) Get(p BorderPosition) (Border, bool) {
	if p >= borderPositions {
		return Border{}, false
	}
	return b.borders[p], b.present[p]
}

// All yields the set borders in emission order.
func (b TableBorders) All() iter.Seq2[BorderPosition, Border] {
	return func(yield func(BorderPosition, Border) bool) {
		for p := BorderPosition(0); p < borderPositions; p++ {
			if !b.present[p] {
				continue
			}
			if !yield(p, b.borders[p]) {
				return
			}
		}
	}
}

// TableLayout selects the table layout algorithm.
type TableLayout string

const (
	LayoutAutofit TableLayout = ""
	LayoutFixed   TableLayout = "fixed"
)

// TableProps are the attributes of a table.
type TableProps struct {
	Borders TableBorders
	Width   int // Twips; 0 means auto
	Layout  TableLayout
}

// VMerge marks a cell as part of a vertically merged group.
type VMerge string

const (
	VMergeNone     VMerge = ""
	VMergeRestart  VMerge = "restart"
	VMergeContinue VMerge = "continue"
)

// CellProps are the attributes of a table cell.
type CellProps struct {
	Width    int // Twips; 0 means auto
	GridSpan int // Columns spanned; 0 or 1 means one
	VMerge   VMerge
	Shading  string // Fill color, RRGGBB hex
}
