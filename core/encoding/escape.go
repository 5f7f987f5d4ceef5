// Package encoding provides XML escaping and character validation for
// package parts.
package encoding

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var textReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r", "&#xD;",
)

// EscapeXMLText escapes text content. Carriage returns are written as
// character references so end-of-line handling on read keeps them.
func EscapeXMLText(s string) string {
	return textReplacer.Replace(s)
}

var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"\t", "&#x9;",
	"\n", "&#xA;",
	"\r", "&#xD;",
)

// EscapeXMLAttr escapes text for use in double-quoted XML attributes.
// Whitespace control characters are written as character references so
// attribute value normalization does not fold them into spaces.
func EscapeXMLAttr(s string) string {
	return attrReplacer.Replace(s)
}

// IsXMLChar reports whether r matches the XML 1.0 Char production.
func IsXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// InvalidCharError reports a character that no escaping can represent.
type InvalidCharError struct {
	Rune   rune
	Offset int // Byte offset in the checked string
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("character %U at byte %d is not allowed in XML", e.Rune, e.Offset)
}

// CheckXMLText returns an *InvalidCharError for the first character of s
// that cannot appear in an XML document, including invalid UTF-8.
func CheckXMLText(s string) error {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return &InvalidCharError{Rune: r, Offset: i}
		}
		if !IsXMLChar(r) {
			return &InvalidCharError{Rune: r, Offset: i}
		}
		i += size
	}
	return nil
}
