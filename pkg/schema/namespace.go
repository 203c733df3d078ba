package schema

import "encoding/xml"

const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Name is a namespace qualified XML name.
type Name struct {
	Space string
	Local string
}

// NS returns a Name in the given namespace.
func NS(space, local string) Name {
	return Name{Space: space, Local: local}
}

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// NamespaceDecl is an xmlns declaration as found on an element.
type NamespaceDecl struct {
	Prefix string
	URI    string
}

// nsContext is one binding in an immutable chain of namespace scopes. Extending a
// context never changes what its parent resolves to, so sibling subtrees can't see
// each other's declarations.
type nsContext struct {
	parent *nsContext
	prefix string
	uri    string
}

func (c *nsContext) with(prefix, uri string) *nsContext {
	return &nsContext{parent: c, prefix: prefix, uri: uri}
}

func (c *nsContext) withDecls(decls []NamespaceDecl) *nsContext {
	for _, d := range decls {
		c = c.with(d.Prefix, d.URI)
	}
	return c
}

// lookup resolves prefix. The empty prefix resolves to the default namespace, which
// is the empty namespace when nothing is declared.
func (c *nsContext) lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return XMLNamespace, true
	}
	for s := c; s != nil; s = s.parent {
		if s.prefix == prefix {
			return s.uri, true
		}
	}
	if prefix == "" {
		return "", true
	}
	return "", false
}

// prefixFor finds the innermost prefix that currently resolves to uri.
func (c *nsContext) prefixFor(uri string, allowDefault bool) (string, bool) {
	if uri == XMLNamespace {
		return "xml", true
	}
	for s := c; s != nil; s = s.parent {
		if s.uri != uri || uri == "" {
			continue
		}
		if s.prefix == "" && !allowDefault {
			continue
		}
		if got, _ := c.lookup(s.prefix); got == uri {
			return s.prefix, true
		}
	}
	return "", false
}

func (c *nsContext) bound(prefix string) bool {
	if prefix == "xml" || prefix == "xmlns" {
		return true
	}
	for s := c; s != nil; s = s.parent {
		if s.prefix == prefix {
			return true
		}
	}
	return false
}

// namespaceDecls splits the xmlns attributes of a raw start tag from the rest.
func namespaceDecls(attrs []xml.Attr) ([]NamespaceDecl, []xml.Attr) {
	var decls []NamespaceDecl
	var rest []xml.Attr
	for _, a := range attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			decls = append(decls, NamespaceDecl{URI: a.Value})
		case a.Name.Space == "xmlns":
			if a.Name.Local == "xml" || a.Name.Local == "xmlns" {
				continue
			}
			decls = append(decls, NamespaceDecl{Prefix: a.Name.Local, URI: a.Value})
		default:
			rest = append(rest, a)
		}
	}
	return decls, rest
}
