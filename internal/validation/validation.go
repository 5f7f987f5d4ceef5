// Package validation checks user-supplied names and paths before they
// reach the file system or the package store, and sniffs file content
// so commands can reject inputs that are not packages.
package validation

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tribal2/docx/core/errors"
)

// Limits on user-supplied names.
const (
	// MaxNameLength is the maximum allowed store name or file name length.
	MaxNameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Validation errors. Each one matches errors.ErrInvalidInput.
var (
	ErrInvalidName      = fmt.Errorf("%w: invalid name", errors.ErrInvalidInput)
	ErrPathTooLong      = fmt.Errorf("%w: path too long", errors.ErrInvalidInput)
	ErrNameTooLong      = fmt.Errorf("%w: name too long", errors.ErrInvalidInput)
	ErrInvalidCharacter = fmt.Errorf("%w: invalid character in path", errors.ErrInvalidInput)
	ErrEmptyPath        = fmt.Errorf("%w: path cannot be empty", errors.ErrInvalidInput)
)

// ValidateName checks that a store name is a single safe path element.
// It rejects separators, control characters and a leading hyphen.
func ValidateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidName)
		}
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: name cannot start with hyphen", ErrInvalidName)
	}
	return nil
}

// SanitizeName derives a store name from a file path. Separators become
// underscores, control characters and leading hyphens are dropped.
func SanitizeName(path string) (string, error) {
	name := strings.TrimSpace(filepath.Base(path))
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)

	var cleaned strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			cleaned.WriteRune(r)
		}
	}
	name = strings.TrimLeft(cleaned.String(), "-")

	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// ValidatePath checks an output path for length and invalid characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// FileType is a content type detected from leading bytes.
type FileType string

const (
	FileTypeZip     FileType = "zip"
	FileTypeXZ      FileType = "xz"
	FileTypeGzip    FileType = "gzip"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeXML     FileType = "xml"
	FileTypeText    FileType = "text"
	FileTypeUnknown FileType = "unknown"
)

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeSQLite, []byte("SQLite format 3")},
}

// DetectFileType reports the type of data from its first bytes.
func DetectFileType(data []byte) FileType {
	head := data[:min(len(data), 512)]
	for _, sig := range magicBytes {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.fileType
		}
	}
	if !isLikelyText(head) {
		return FileTypeUnknown
	}
	if bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n\ufeff"), []byte("<")) {
		return FileTypeXML
	}
	return FileTypeText
}

// isLikelyText reports whether more than 95% of buf is printable ASCII
// or whitespace. UTF-8 multibyte sequences count as neutral.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 || bytes.IndexByte(buf, 0) != -1 {
		return false
	}
	printable, control := 0, 0
	for _, b := range buf {
		switch {
		case b >= 0x20 && b <= 0x7e, b == '\t', b == '\n', b == '\r':
			printable++
		case b < 0x20:
			control++
		}
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
