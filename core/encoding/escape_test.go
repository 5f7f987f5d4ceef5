package encoding

import (
	"errors"
	"testing"
)

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Hello World", "Hello World"},
		{"quotes preserved", `He said "hello"`, `He said "hello"`},
		{"all three", "<script>&</script>", "&lt;script&gt;&amp;&lt;/script&gt;"},
		{"newline preserved", "a\nb", "a\nb"},
		{"carriage return", "a\rb", "a&#xD;b"},
		{"crlf", "a\r\nb", "a&#xD;\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLText(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"quotes", `say "hi"`, "say &quot;hi&quot;"},
		{"entities", "a<b & c>d", "a&lt;b &amp; c&gt;d"},
		{"whitespace controls", "a\tb\nc\rd", "a&#x9;b&#xA;c&#xD;d"},
		{"apostrophe untouched", "O'Brien", "O'Brien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeXMLAttr(tt.input)
			if got != tt.want {
				t.Errorf("EscapeXMLAttr(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsXMLChar(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'\t', true},
		{'\n', true},
		{'\r', true},
		{0x00, false},
		{0x01, false},
		{0x1F, false},
		{' ', true},
		{0xD7FF, true},
		{0xD800, false},
		{0xFFFE, false},
		{0xFFFF, false},
		{0x1F389, true},
	}

	for _, tt := range tests {
		if got := IsXMLChar(tt.r); got != tt.want {
			t.Errorf("IsXMLChar(%U) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestCheckXMLText(t *testing.T) {
	if err := CheckXMLText("Hello, 世界 🎉\n"); err != nil {
		t.Errorf("CheckXMLText(valid) = %v, want nil", err)
	}

	err := CheckXMLText("ab\x01c")
	var ice *InvalidCharError
	if !errors.As(err, &ice) {
		t.Fatalf("CheckXMLText(control) = %v, want *InvalidCharError", err)
	}
	if ice.Offset != 2 || ice.Rune != 0x01 {
		t.Errorf("InvalidCharError = %+v, want offset 2 rune U+0001", ice)
	}

	if err := CheckXMLText("a\xffb"); err == nil {
		t.Error("CheckXMLText(invalid UTF-8) = nil, want error")
	}
}
