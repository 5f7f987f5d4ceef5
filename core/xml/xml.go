// Package xml wraps xmlquery for reading package parts back and for
// checking that generated parts are well-formed.
//
// Security Notes:
//   - Entity expansion is disabled in Validate; Go's xml.Decoder never
//     fetches external entities.
//   - xmlquery parses with encoding/xml and inherits its behavior.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/tribal2/docx/core/encoding"
)

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is an element of a parsed document.
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError is a single well-formedness error.
type ValidationError struct {
	Offset  int64
	Message string
}

// Err returns the first error as a Go error, or nil.
func (r ValidationResult) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	e := r.Errors[0]
	return fmt.Errorf("offset %d: %s", e.Offset, e.Message)
}

// FormatOptions controls XML formatting behavior.
type FormatOptions struct {
	Indent string // Default two spaces
}

// Parse parses XML data.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Validate checks that data is a single well-formed XML document.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	depth, roots := 0, 0
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.fail(decoder.InputOffset(), err.Error())
			return result
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if roots != 1 {
		result.fail(decoder.InputOffset(), fmt.Sprintf("document has %d root elements, want 1", roots))
	}
	return result
}

func (r *ValidationResult) fail(offset int64, msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Offset: offset, Message: msg})
}

// Format pretty-prints XML data. Text content is kept as-is so that
// preserved whitespace in runs survives.
func Format(data []byte, opts FormatOptions) ([]byte, error) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	formatNode(&buf, doc.root, 0, opts.Indent)
	return buf.Bytes(), nil
}

func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			formatNode(w, child, depth, indent)
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			fmt.Fprintf(w, ` %s="%s"`, attr.Name.Local, encoding.EscapeXMLAttr(attr.Value))
		}
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		w.WriteString(strings.Repeat(indent, depth))
		w.WriteString("<")
		w.WriteString(qualified(n.Prefix, n.Data))
		for _, attr := range n.Attr {
			fmt.Fprintf(w, ` %s="%s"`, qualified(attr.Name.Space, attr.Name.Local), encoding.EscapeXMLAttr(attr.Value))
		}
		if n.FirstChild == nil {
			w.WriteString("/>\n")
			return
		}
		w.WriteString(">")

		elements := false
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xmlquery.ElementNode {
				elements = true
				break
			}
		}
		if elements {
			w.WriteString("\n")
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.ElementNode {
					formatNode(w, child, depth+1, indent)
				}
			}
			w.WriteString(strings.Repeat(indent, depth))
		} else {
			w.WriteString(encoding.EscapeXMLText(n.InnerText()))
		}
		fmt.Fprintf(w, "</%s>\n", qualified(n.Prefix, n.Data))
	}
}

func qualified(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes. Package parts
// are namespaced, so queries normally match on local-name().
func (d *Document) XPath(expr string) ([]*Node, error) {
	return query(d.root, expr)
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	nodes, err := query(d.root, expr)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// XPath runs a query relative to n.
func (n *Node) XPath(expr string) ([]*Node, error) {
	if n == nil || n.node == nil {
		return nil, nil
	}
	return query(n.node, expr)
}

func query(top *xmlquery.Node, expr string) ([]*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes := xmlquery.QuerySelectorAll(top, compiled)
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// Attr returns the value of the attribute with the given local name,
// ignoring its prefix.
func (n *Node) Attr(local string) string {
	v, _ := n.LookupAttr(local)
	return v
}

// LookupAttr is like Attr but reports whether the attribute is present.
func (n *Node) LookupAttr(local string) (string, bool) {
	if n == nil || n.node == nil {
		return "", false
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}
