package drawingml

import (
	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

const (
	// Namespace is the DrawingML main namespace, written with the prefix a.
	Namespace = "http://schemas.openxmlformats.org/drawingml/2006/main"
	// NamespaceRelationships qualifies r:embed, r:link and r:id.
	NamespaceRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

func node(local string, content schema.Shape, attrs ...schema.AttrDecl) *schema.Node {
	return &schema.Node{Name: schema.NS(Namespace, local), Content: content, Attrs: attrs}
}

func emptyNode(local string, attrs ...schema.AttrDecl) *schema.Node {
	return &schema.Node{Name: schema.NS(Namespace, local), Attrs: attrs}
}

func textNode(local string, c schema.Codec, attrs ...schema.AttrDecl) *schema.Node {
	return &schema.Node{Name: schema.NS(Namespace, local), Text: c, Attrs: attrs}
}

func valNode(local string, c schema.Codec) *schema.Node {
	return emptyNode(local, schema.RequiredAttr("val", c))
}

func opt(n *schema.Node) schema.Shape {
	return schema.Opt(schema.El(n))
}

func els(nodes ...*schema.Node) []schema.Shape {
	out := make([]schema.Shape, len(nodes))
	for i, n := range nodes {
		out[i] = schema.El(n)
	}
	return out
}

func relAttr(local string) schema.AttrDecl {
	return schema.NSAttr(NamespaceRelationships, local, schema.String)
}

var (
	// Extension is an a:ext entry. Its content belongs to the extension's own
	// namespace and is kept opaque.
	Extension = emptyNode("ext", schema.RequiredAttr("uri", schema.String))
	// ExtensionList is a:extLst.
	ExtensionList = node("extLst", schema.ZeroOrMore(schema.El(Extension)))
)

// isNode reports whether e was parsed or built with n, or carries n's name.
func isNode(e *schema.Element, n *schema.Node) bool {
	return e != nil && (e.Node == n || e.Name == n.Name)
}
