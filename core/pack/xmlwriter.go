package pack

import (
	"bytes"

	"github.com/tribal2/docx/core/encoding"
	"github.com/tribal2/docx/core/errors"
)

// xmlBuilder writes one part. The first character that cannot appear in
// XML 1.0 sticks as an error and is reported by bytes.
type xmlBuilder struct {
	part string
	buf  bytes.Buffer
	err  error
}

func newXMLBuilder(part string) *xmlBuilder {
	b := &xmlBuilder{part: part}
	b.buf.WriteString(xmlHeader)
	return b
}

// open writes a start tag. attrs alternate name and value.
func (b *xmlBuilder) open(name string, attrs ...string) {
	b.tag(name, attrs, false)
}

// empty writes a self-closing tag.
func (b *xmlBuilder) empty(name string, attrs ...string) {
	b.tag(name, attrs, true)
}

func (b *xmlBuilder) close(name string) {
	b.buf.WriteString("</")
	b.buf.WriteString(name)
	b.buf.WriteByte('>')
}

func (b *xmlBuilder) text(s string) {
	if !b.check(s) {
		return
	}
	b.buf.WriteString(encoding.EscapeXMLText(s))
}

// element writes a start tag, escaped text and an end tag.
func (b *xmlBuilder) element(name, text string, attrs ...string) {
	b.open(name, attrs...)
	b.text(text)
	b.close(name)
}

func (b *xmlBuilder) tag(name string, attrs []string, selfClose bool) {
	b.buf.WriteByte('<')
	b.buf.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		if !b.check(attrs[i+1]) {
			continue
		}
		b.buf.WriteByte(' ')
		b.buf.WriteString(attrs[i])
		b.buf.WriteString(`="`)
		b.buf.WriteString(encoding.EscapeXMLAttr(attrs[i+1]))
		b.buf.WriteByte('"')
	}
	if selfClose {
		b.buf.WriteString("/>")
		return
	}
	b.buf.WriteByte('>')
}

func (b *xmlBuilder) check(s string) bool {
	if b.err != nil {
		return false
	}
	if err := encoding.CheckXMLText(s); err != nil {
		b.err = err
		return false
	}
	return true
}

func (b *xmlBuilder) bytes() ([]byte, error) {
	if b.err != nil {
		return nil, errors.NewSerialization(b.part, b.err)
	}
	return b.buf.Bytes(), nil
}
