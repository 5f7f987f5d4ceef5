package pack

import (
	"github.com/tribal2/docx/core/rels"
)

type relationship struct {
	id, typ, target string
	external        bool
}

// renderRelationships emits a relationships part.
func renderRelationships(part string, entries []relationship) ([]byte, error) {
	b := newXMLBuilder(part)
	b.open("Relationships", "xmlns", nsPkgR)
	for _, e := range entries {
		attrs := []string{"Id", e.id, "Type", e.typ, "Target", e.target}
		if e.external {
			attrs = append(attrs, "TargetMode", "External")
		}
		b.empty("Relationship", attrs...)
	}
	b.close("Relationships")
	return b.bytes()
}

func renderDocumentRels(table *rels.Table) ([]byte, error) {
	entries := table.Entries()
	out := make([]relationship, len(entries))
	for i, e := range entries {
		out[i] = relationship{id: e.ID, typ: e.Kind.Type(), target: e.Target, external: e.External}
	}
	return renderRelationships(DocumentRelsPart, out)
}

func renderPackageRels() ([]byte, error) {
	return renderRelationships(PackageRelsPart, []relationship{
		{id: "rId1", typ: officeDocumentType, target: DocumentPart},
		{id: "rId2", typ: corePropsType, target: CorePropsPart},
	})
}
