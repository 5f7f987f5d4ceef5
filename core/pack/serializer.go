// Package pack lowers a document into a word-processing package: a zip
// container of cross-referenced XML parts.
//
// Parts are generated in a fixed sequence (main content, comments,
// relationships, manifest) and the archive is staged in memory. Nothing
// reaches the destination unless every part was produced.
package pack

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/tribal2/docx/core/document"
	"github.com/tribal2/docx/core/errors"
	"github.com/tribal2/docx/core/rels"
	"github.com/tribal2/docx/core/xml"
	"github.com/tribal2/docx/internal/logging"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// Serializer turns documents into packages. It holds no per-document
// state and may be shared between goroutines.
type Serializer struct {
	opts Options
}

// NewSerializer returns a serializer with the given options.
func NewSerializer(opts Options) *Serializer {
	return &Serializer{opts: opts}
}

// Serialize renders doc with DefaultOptions.
func Serialize(ctx context.Context, doc *document.Document) ([]byte, error) {
	return NewSerializer(DefaultOptions()).Serialize(ctx, doc)
}

// Parts renders every part of the package in archive order. The document
// must not be mutated during the call.
func (s *Serializer) Parts(ctx context.Context, doc *document.Document) ([]Part, error) {
	if doc == nil {
		return nil, errors.NewValidation("document", "document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := doc.Verify(); err != nil {
		return nil, err
	}

	table, err := rels.Resolve(doc)
	if err != nil {
		return nil, err
	}

	mainPart, err := renderDocument(doc, table)
	if err != nil {
		return nil, err
	}
	parts := []Part{{Name: DocumentPart, ContentType: DocumentMediaType, Data: mainPart}}

	if comments := doc.Comments(); len(comments) > 0 {
		data, err := renderComments(comments)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part{Name: CommentsPart, ContentType: CommentsMediaType, Data: data})
	}

	docRels, err := renderDocumentRels(table)
	if err != nil {
		return nil, err
	}
	pkgRels, err := renderPackageRels()
	if err != nil {
		return nil, err
	}
	coreProps, err := renderCoreProps(doc.Properties, mainPart)
	if err != nil {
		return nil, err
	}
	parts = append(parts,
		Part{Name: DocumentRelsPart, ContentType: RelationshipsMediaType, Data: docRels},
		Part{Name: PackageRelsPart, ContentType: RelationshipsMediaType, Data: pkgRels},
		Part{Name: CorePropsPart, ContentType: CorePropsMediaType, Data: coreProps},
	)

	manifest, err := renderContentTypes(parts)
	if err != nil {
		return nil, err
	}
	parts = append(parts, Part{Name: ContentTypesPart, ContentType: XMLMediaType, Data: manifest})

	slices.SortStableFunc(parts, func(a, b Part) int {
		return slices.Index(archiveOrder, a.Name) - slices.Index(archiveOrder, b.Name)
	})

	logger := s.opts.logger()
	for _, p := range parts {
		if s.opts.VerifyParts {
			if err := xml.Validate(p.Data).Err(); err != nil {
				return nil, errors.NewSerialization(p.Name, err)
			}
		}
		logging.PartWritten(ctx, logger, p.Name, len(p.Data))
	}
	return parts, nil
}

// Serialize renders doc into a complete package.
func (s *Serializer) Serialize(ctx context.Context, doc *document.Document) ([]byte, error) {
	parts, err := s.Parts(ctx, doc)
	if err != nil {
		logging.SerializationFailed(ctx, s.opts.logger(), err)
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeArchive(&buf, parts, s.opts); err != nil {
		err = errors.NewSerialization("archive", err)
		logging.SerializationFailed(ctx, s.opts.logger(), err)
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes doc and copies the finished package to w. Nothing is
// written to w when serialization fails.
func (s *Serializer) WriteTo(ctx context.Context, w io.Writer, doc *document.Document) (int64, error) {
	start := time.Now()
	data, err := s.Serialize(ctx, doc)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), errors.NewIO("write", "package", err)
	}
	logging.PackageWritten(ctx, s.opts.logger(), "stream", n, time.Since(start), "digest", Digest(data))
	return int64(n), nil
}

// WriteFile serializes doc to path. The package is written to a temp file
// in the same directory and renamed into place, so path either keeps its
// old content or holds the complete new package.
func (s *Serializer) WriteFile(ctx context.Context, path string, doc *document.Document) (string, error) {
	start := time.Now()
	data, err := s.Serialize(ctx, doc)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".docx-*")
	if err != nil {
		return "", errors.NewIO("create temp", dir, err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // No-op after a successful rename

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFile.Close()
		return "", errors.NewIO("write", tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		return "", errors.NewIO("close", tempPath, err)
	}
	if err := osRename(tempPath, path); err != nil {
		return "", errors.NewIO("rename", path, err)
	}

	digest := Digest(data)
	logging.PackageWritten(ctx, s.opts.logger(), path, len(data), time.Since(start), "digest", digest)
	return digest, nil
}
