package dom

import "fmt"

// Kind tags the variant of a content node.
type Kind uint8

// Node kinds.
const (
	KindBody Kind = iota
	KindParagraph
	KindRun
	KindTable
	KindTableRow
	KindTableCell
	KindText
	KindBreak
)

var kindNames = [...]string{
	KindBody:      "body",
	KindParagraph: "paragraph",
	KindRun:       "run",
	KindTable:     "table",
	KindTableRow:  "table-row",
	KindTableCell: "table-cell",
	KindText:      "text",
	KindBreak:     "break",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return int(k) < len(kindNames)
}

// allowedChildren lists, per parent kind, the kinds it may contain.
var allowedChildren = map[Kind][]Kind{
	KindBody:      {KindParagraph, KindTable},
	KindParagraph: {KindRun, KindBreak},
	KindRun:       {KindText, KindBreak},
	KindTable:     {KindTableRow},
	KindTableRow:  {KindTableCell},
	KindTableCell: {KindParagraph, KindTable},
}

// Allows reports whether a node of kind k may contain a child of kind child.
func (k Kind) Allows(child Kind) bool {
	for _, c := range allowedChildren[k] {
		if c == child {
			return true
		}
	}
	return false
}

// IsLeaf reports whether k never has children.
func (k Kind) IsLeaf() bool {
	return len(allowedChildren[k]) == 0
}
