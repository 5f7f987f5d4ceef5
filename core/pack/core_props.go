package pack

import (
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/tribal2/docx/core/document"
)

// identifierNamespace scopes package identifiers derived from content.
var identifierNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(nsW))

// PackageIdentifier derives a stable identifier from the main part, so
// the same content always carries the same dc:identifier.
func PackageIdentifier(mainPart []byte) uuid.UUID {
	sum := blake3.Sum256(mainPart)
	return uuid.NewSHA1(identifierNamespace, sum[:])
}

// renderCoreProps emits docProps/core.xml.
func renderCoreProps(p document.Properties, mainPart []byte) ([]byte, error) {
	b := newXMLBuilder(CorePropsPart)
	b.open("cp:coreProperties",
		"xmlns:cp", nsCP,
		"xmlns:dc", nsDC,
		"xmlns:dcterms", nsDCT,
		"xmlns:xsi", nsXSI,
	)
	for _, f := range []struct{ name, value string }{
		{"dc:title", p.Title},
		{"dc:subject", p.Subject},
		{"dc:creator", p.Creator},
		{"dc:description", p.Description},
	} {
		if f.value != "" {
			b.element(f.name, f.value)
		}
	}
	b.element("dc:identifier", "urn:uuid:"+PackageIdentifier(mainPart).String())
	if !p.Created.IsZero() {
		b.element("dcterms:created", p.Created.UTC().Format(time.RFC3339), "xsi:type", "dcterms:W3CDTF")
	}
	b.close("cp:coreProperties")
	return b.bytes()
}
