package dom

import (
	"slices"
	"testing"

	"github.com/tribal2/docx/core/ids"
)

func mustAppend(t *testing.T, parent, child *Node) {
	t.Helper()
	if err := parent.AppendChild(child); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
}

// sampleTree builds body -> [p1 -> run -> text, table -> row -> cell -> p2].
func sampleTree(t *testing.T) *Node {
	t.Helper()
	body := NewBody(ids.Root)
	p1, r := NewParagraph(1), NewRun(2)
	mustAppend(t, r, NewText(3, "x"))
	mustAppend(t, p1, r)
	mustAppend(t, body, p1)

	tbl, row, cell, p2 := NewTable(4), NewTableRow(5), NewTableCell(6), NewParagraph(7)
	mustAppend(t, cell, p2)
	mustAppend(t, row, cell)
	mustAppend(t, tbl, row)
	mustAppend(t, body, tbl)
	return body
}

func collectIDs(seq func(func(*Node) bool)) []ids.ID {
	var out []ids.ID
	for n := range seq {
		out = append(out, n.ID())
	}
	return out
}

func TestWalkPreOrder(t *testing.T) {
	body := sampleTree(t)
	want := []ids.ID{0, 1, 2, 3, 4, 5, 6, 7}
	if got := collectIDs(body.Walk()); !slices.Equal(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkIsRestartable(t *testing.T) {
	body := sampleTree(t)
	seq := body.Walk()
	first := collectIDs(seq)
	second := collectIDs(seq)
	if !slices.Equal(first, second) {
		t.Errorf("second traversal %v differs from first %v", second, first)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	body := sampleTree(t)
	var visited int
	for n := range body.Walk() {
		visited++
		if n.ID() == 2 {
			break
		}
	}
	if visited != 3 {
		t.Errorf("visited %d nodes before break, want 3", visited)
	}
}

func TestEventsEnterLeave(t *testing.T) {
	p := NewParagraph(1)
	r := NewRun(2)
	_ = r.AppendChild(NewText(3, "a"))
	_ = p.AppendChild(r)

	type step struct {
		id    ids.ID
		leave bool
	}
	var got []step
	for ev := range p.Events() {
		got = append(got, step{ev.Node.ID(), ev.Leave})
	}
	want := []step{{1, false}, {2, false}, {3, false}, {3, true}, {2, true}, {1, true}}
	if !slices.Equal(got, want) {
		t.Errorf("Events() = %v, want %v", got, want)
	}
}

func TestParagraphsIncludesTableCells(t *testing.T) {
	body := sampleTree(t)
	if got, want := collectIDs(body.Paragraphs()), []ids.ID{1, 7}; !slices.Equal(got, want) {
		t.Errorf("Paragraphs() = %v, want %v", got, want)
	}
}

func TestTableBorders(t *testing.T) {
	b := DefaultBorders()
	b.Set(BorderLeft, Border{Style: BorderSingle, Size: 2, Color: "AAAAAA"})
	b.Clear(BorderTop)

	top, ok := b.Get(BorderTop)
	if !ok || top.Style != BorderNil {
		t.Errorf("top = %+v (set %v), want nil style", top, ok)
	}
	left, _ := b.Get(BorderLeft)
	if left.Color != "AAAAAA" {
		t.Errorf("left color = %q, want AAAAAA", left.Color)
	}

	var order []BorderPosition
	for pos := range b.All() {
		order = append(order, pos)
	}
	want := []BorderPosition{BorderTop, BorderLeft, BorderBottom, BorderRight, BorderInsideH, BorderInsideV}
	if !slices.Equal(order, want) {
		t.Errorf("All() order = %v, want %v", order, want)
	}

	empty := EmptyBorders()
	for range empty.All() {
		t.Error("EmptyBorders yielded a border")
	}

	b.ClearAll()
	for pos, border := range b.All() {
		if border.Style != BorderNil {
			t.Errorf("%s style = %q after ClearAll, want nil", pos, border.Style)
		}
	}
}

func TestNewTableHasDefaultBorders(t *testing.T) {
	tbl := NewTable(1)
	border, ok := tbl.TableProps().Borders.Get(BorderInsideV)
	if !ok || border != DefaultBorder() {
		t.Errorf("insideV = %+v (set %v), want default border", border, ok)
	}
}
