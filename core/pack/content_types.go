package pack

import (
	"path"
	"strings"
)

// defaultContentTypes maps extensions to the media types declared as
// defaults; parts with any other media type get an override.
var defaultContentTypes = []struct{ ext, contentType string }{
	{"rels", RelationshipsMediaType},
	{"xml", XMLMediaType},
}

// renderContentTypes emits the manifest for parts, in part order.
func renderContentTypes(parts []Part) ([]byte, error) {
	b := newXMLBuilder(ContentTypesPart)
	b.open("Types", "xmlns", nsPkgCT)
	for _, d := range defaultContentTypes {
		b.empty("Default", "Extension", d.ext, "ContentType", d.contentType)
	}
	for _, p := range parts {
		if p.ContentType == "" || p.ContentType == defaultContentType(p.Name) {
			continue
		}
		b.empty("Override", "PartName", "/"+p.Name, "ContentType", p.ContentType)
	}
	b.close("Types")
	return b.bytes()
}

func defaultContentType(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, d := range defaultContentTypes {
		if d.ext == ext {
			return d.contentType
		}
	}
	return ""
}
