package schema

import (
	"encoding/xml"

	"golang.org/x/exp/slices"
)

// AttrValue is a declared attribute with its decoded value.
type AttrValue struct {
	Name  Name
	Value any
}

// Element is a typed element instance. Node is nil for opaque elements, which are
// kept verbatim because the schema does not describe them.
//
// Text is the character data before the first child. Tail is the character data that
// follows the element inside its parent. For simple content Value holds Text decoded
// by the Node's codec, and Value wins over Text when writing.
type Element struct {
	Name       Name
	Node       *Node
	Attrs      []AttrValue
	Extra      []xml.Attr
	Text       string
	Value      any
	Children   []*Element
	Tail       string
	Namespaces []NamespaceDecl
	// Prefix is the prefix the element was read with. Serialize prefers it.
	Prefix string
}

// NewElement returns an empty instance of n.
func NewElement(n *Node) *Element {
	return &Element{Name: n.Name, Node: n}
}

// NewOpaque returns an element the schema knows nothing about.
func NewOpaque(name Name) *Element {
	return &Element{Name: name}
}

// Opaque reports whether the element is kept without a schema.
func (e *Element) Opaque() bool {
	return e.Node == nil
}

// Attr returns the value of a declared attribute in no namespace.
func (e *Element) Attr(local string) (any, bool) {
	return e.AttrNS(Name{Local: local})
}

func (e *Element) AttrNS(name Name) (any, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// String returns a string valued attribute, or "" when absent.
func (e *Element) String(local string) string {
	v, _ := e.Attr(local)
	s, _ := v.(string)
	return s
}

// Int returns an integer valued attribute.
func (e *Element) Int(local string) (int64, bool) {
	v, ok := e.Attr(local)
	if !ok {
		return 0, false
	}
	n, ok := toInt64(v)
	return n, ok
}

// Bool returns a boolean attribute, or def when absent.
func (e *Element) Bool(local string, def bool) bool {
	v, ok := e.Attr(local)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// SetAttr sets a declared attribute in no namespace. Setting an undeclared name on an
// element with a Node panics; use Extra for unknown attributes.
func (e *Element) SetAttr(local string, v any) *Element {
	return e.SetAttrNS(Name{Local: local}, v)
}

func (e *Element) SetAttrNS(name Name, v any) *Element {
	idx := -1
	if e.Node != nil {
		_, i, ok := e.Node.Attr(name)
		if !ok {
			panic("schema: " + e.Name.Local + " declares no attribute " + name.String())
		}
		idx = i
	}
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = v
			return e
		}
	}
	at := len(e.Attrs)
	if idx >= 0 {
		at = slices.IndexFunc(e.Attrs, func(a AttrValue) bool {
			_, j, _ := e.Node.Attr(a.Name)
			return j > idx
		})
		if at < 0 {
			at = len(e.Attrs)
		}
	}
	e.Attrs = slices.Insert(e.Attrs, at, AttrValue{Name: name, Value: v})
	return e
}

func (e *Element) DeleteAttr(local string) {
	name := Name{Local: local}
	e.Attrs = slices.DeleteFunc(e.Attrs, func(a AttrValue) bool { return a.Name == name })
}

// Child returns the first child with the given local name.
func (e *Element) Child(local string) *Element {
	for _, c := range e.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

func (e *Element) ChildrenNamed(local string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Append adds children in order and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// SetValue sets the typed simple content.
func (e *Element) SetValue(v any) *Element {
	e.Value = v
	if e.Node != nil && e.Node.Text != nil {
		e.Text = e.Node.Text.Encode(v)
	}
	return e
}

// Walk visits e and its descendants depth first. Returning false skips the subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// textValue is the lexical simple content to write.
func (e *Element) textValue() string {
	if e.Node != nil && e.Node.Text != nil && e.Value != nil {
		return e.Node.Text.Encode(e.Value)
	}
	return e.Text
}

func (e *Element) attrCodec(name Name) Codec {
	if e.Node != nil {
		if d, _, ok := e.Node.Attr(name); ok {
			return d.Type
		}
	}
	return String
}
