package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tribal2/docx/core/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError error
	}{
		{"simple", "report.docx", nil},
		{"spaces", "quarterly report", nil},
		{"unicode", "résumé.docx", nil},
		{"empty", "", ErrInvalidName},
		{"too long", strings.Repeat("a", MaxNameLength+1), ErrNameTooLong},
		{"dot", ".", ErrInvalidName},
		{"dotdot", "..", ErrInvalidName},
		{"slash", "a/b", ErrInvalidName},
		{"backslash", `a\b`, ErrInvalidName},
		{"null byte", "a\x00b", ErrInvalidName},
		{"newline", "a\nb", ErrInvalidName},
		{"leading hyphen", "-rf", ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidateName(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidateName(%q) = %v, want %v", tt.input, err, tt.wantError)
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("ValidateName(%q) = %v, want invalid input", tt.input, err)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"out/report.docx", "report.docx", false},
		{"  padded.docx  ", "padded.docx", false},
		{"--flag.docx", "flag.docx", false},
		{"tab\there.docx", "tabhere.docx", false},
		{".", "", true},
		{"---", "", true},
	}
	for _, tt := range tests {
		got, err := SanitizeName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("SanitizeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{"relative", "out/doc.docx", nil},
		{"absolute", "/tmp/doc.docx", nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"null byte", "doc\x00.docx", ErrInvalidCharacter},
		{"escape", "doc\x1b.docx", ErrInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil && err != nil {
				t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestDetectFileType(t *testing.T) {
	tar := make([]byte, 600)
	copy(tar[257:], "ustar")

	tests := []struct {
		name string
		data []byte
		want FileType
	}{
		{"zip", []byte("PK\x03\x04rest"), FileTypeZip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, FileTypeXZ},
		{"gzip", []byte{0x1f, 0x8b, 0x08}, FileTypeGzip},
		{"sqlite", []byte("SQLite format 3\x00"), FileTypeSQLite},
		{"xml", []byte("  <?xml version=\"1.0\"?><a/>"), FileTypeXML},
		{"xml with bom", []byte("\ufeff<w:document/>"), FileTypeXML},
		{"text", []byte("paragraph { run \"x\" }\n"), FileTypeText},
		{"empty", nil, FileTypeUnknown},
		{"binary", tar, FileTypeUnknown},
		{"control bytes", bytes.Repeat([]byte{0x01, 0x02, 'a'}, 10), FileTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFileType(tt.data); got != tt.want {
				t.Errorf("DetectFileType() = %v, want %v", got, tt.want)
			}
		})
	}
}
