package pack

// Part names inside the archive.
const (
	ContentTypesPart = "[Content_Types].xml"
	PackageRelsPart  = "_rels/.rels"
	CorePropsPart    = "docProps/core.xml"
	DocumentPart     = "word/document.xml"
	CommentsPart     = "word/comments.xml"
	DocumentRelsPart = "word/_rels/document.xml.rels"
)

// Media types declared in the content-types manifest.
const (
	DocumentMediaType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	CommentsMediaType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.comments+xml"
	CorePropsMediaType     = "application/vnd.openxmlformats-package.core-properties+xml"
	RelationshipsMediaType = "application/vnd.openxmlformats-package.relationships+xml"
	XMLMediaType           = "application/xml"
)

// Package-level relationship types.
const (
	officeDocumentType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	corePropsType      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// XML namespaces.
const (
	nsW     = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgCT = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPkgR  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCP    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC    = "http://purl.org/dc/elements/1.1/"
	nsDCT   = "http://purl.org/dc/terms/"
	nsXSI   = "http://www.w3.org/2001/XMLSchema-instance"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// archiveOrder is the fixed order of parts in the archive.
var archiveOrder = []string{
	ContentTypesPart,
	PackageRelsPart,
	CorePropsPart,
	DocumentPart,
	CommentsPart,
	DocumentRelsPart,
}

// Part is one named unit of the package.
type Part struct {
	Name        string
	ContentType string
	Data        []byte
}
