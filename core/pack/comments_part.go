package pack

import (
	"strconv"
	"strings"

	"github.com/tribal2/docx/core/annotation"
)

// renderComments emits word/comments.xml in insertion order. The date is
// written exactly as given. Each line of the comment text becomes one
// paragraph.
func renderComments(comments []annotation.Comment) ([]byte, error) {
	b := newXMLBuilder(CommentsPart)
	b.open("w:comments", "xmlns:w", nsW, "xmlns:r", nsR)
	for i, c := range comments {
		attrs := []string{"w:id", strconv.Itoa(i), "w:author", c.Author, "w:date", c.Date}
		if c.Initials != "" {
			attrs = append(attrs, "w:initials", c.Initials)
		}
		b.open("w:comment", attrs...)
		if c.Text == "" {
			b.empty("w:p")
		}
		for line := range strings.Lines(c.Text) {
			b.open("w:p")
			b.open("w:r")
			b.element("w:t", strings.TrimSuffix(line, "\n"), "xml:space", "preserve")
			b.close("w:r")
			b.close("w:p")
		}
		b.close("w:comment")
	}
	b.close("w:comments")
	return b.bytes()
}
