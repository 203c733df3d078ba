package schema

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html/charset"
)

// Parse reads one document whose root element is described by node.
//
// Strict parsing returns the first problem as a *ParseError and no tree. Lenient
// parsing returns the tree and, when anything was wrong, a ParseErrors value. Malformed
// XML is always fatal.
func Parse(r io.Reader, node *Node, opts ...Option) (*Element, error) {
	if err := node.Compile(); err != nil {
		return nil, fmt.Errorf("compile %s: %w", node.Name.Local, err)
	}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	p := &parser{dec: dec, cfg: newParseConfig(opts)}

	start, err := p.rootStart()
	if err != nil {
		return nil, err
	}
	name, ctx, decls, err := p.open(start, nil)
	if err != nil {
		return nil, err
	}
	if name != node.Name {
		line, col := dec.InputPos()
		return nil, &ParseError{
			Kind:     ErrSchemaViolation,
			Path:     "/" + name.Local,
			Message:  "unexpected root element " + name.String(),
			Expected: []string{node.Name.Local},
			Line:     line,
			Column:   col,
		}
	}
	root, err := p.element(start, name, node, ctx, decls, "/"+name.Local)
	if err != nil {
		return nil, err
	}
	if len(p.errs) > 0 {
		return root, p.errs
	}
	return root, nil
}

// Unmarshal parses data. See Parse.
func Unmarshal(data []byte, node *Node, opts ...Option) (*Element, error) {
	return Parse(bytes.NewReader(data), node, opts...)
}

type parser struct {
	dec  *xml.Decoder
	cfg  parseConfig
	errs ParseErrors
}

func (p *parser) syntaxError(msg string) error {
	line, _ := p.dec.InputPos()
	return &xml.SyntaxError{Msg: msg, Line: line}
}

func (p *parser) rootStart() (xml.StartElement, error) {
	for {
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			return xml.StartElement{}, &ParseError{Kind: ErrSchemaViolation, Message: "document has no root element"}
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, p.syntaxError("text before root element")
			}
		case xml.EndElement:
			return xml.StartElement{}, p.syntaxError("unexpected end element </" + t.Name.Local + ">")
		}
	}
}

// open resolves a start tag's name in the scope it creates for itself.
func (p *parser) open(t xml.StartElement, ctx *nsContext) (Name, *nsContext, []NamespaceDecl, error) {
	decls, _ := namespaceDecls(t.Attr)
	ctx = ctx.withDecls(decls)
	uri, ok := ctx.lookup(t.Name.Space)
	if !ok {
		return Name{}, nil, nil, p.syntaxError("unbound namespace prefix " + t.Name.Space)
	}
	return Name{Space: uri, Local: t.Name.Local}, ctx, decls, nil
}

// report records a schema problem. In strict mode it hands the problem back so the
// caller aborts.
func (p *parser) report(e *ParseError) error {
	if p.cfg.strict {
		return e
	}
	p.cfg.logger.Warn("schema problem tolerated", "err", e.Error())
	p.errs = append(p.errs, e)
	return nil
}

func (p *parser) element(start xml.StartElement, name Name, node *Node, ctx *nsContext, decls []NamespaceDecl, path string) (*Element, error) {
	line, col := p.dec.InputPos()
	e := &Element{Name: name, Node: node, Namespaces: decls, Prefix: start.Name.Space}
	if err := p.attributes(e, start.Attr, ctx, path, line, col); err != nil {
		return nil, err
	}

	var m *matcher
	if node != nil && node.Content != nil {
		if err := node.Compile(); err != nil {
			return nil, fmt.Errorf("compile %s: %w", node.Name.Local, err)
		}
		m = node.model.start()
	}

	for {
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			return nil, p.syntaxError("unexpected EOF inside " + path)
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			cname, cctx, cdecls, err := p.open(t, ctx)
			if err != nil {
				return nil, err
			}
			cpath := path + "/" + cname.Local
			cnode, err := p.childNode(node, m, cname, cpath)
			if err != nil {
				return nil, err
			}
			child, err := p.element(t, cname, cnode, cctx, cdecls, cpath)
			if err != nil {
				return nil, err
			}
			e.Children = append(e.Children, child)
		case xml.EndElement:
			if t.Name != start.Name {
				return nil, p.syntaxError(fmt.Sprintf("element <%s> closed by </%s>", qname(start.Name), qname(t.Name)))
			}
			if err := p.finish(e, m, path, line, col); err != nil {
				return nil, err
			}
			return e, nil
		case xml.CharData:
			if n := len(e.Children); n > 0 {
				e.Children[n-1].Tail += string(t)
			} else {
				e.Text += string(t)
			}
		}
	}
}

// childNode picks the Node for a child of node. Children that the model never
// mentions are opaque.
func (p *parser) childNode(node *Node, m *matcher, name Name, path string) (*Node, error) {
	if node == nil {
		return nil, nil
	}
	if m == nil || !node.model.declares(name) {
		p.cfg.logger.Debug("preserving unknown element", "path", path, "ns", name.Space)
		return nil, nil
	}
	if n := m.step(name); n != nil {
		return n, nil
	}
	line, col := p.dec.InputPos()
	pe := &ParseError{
		Kind:     ErrSchemaViolation,
		Path:     path,
		Message:  "element out of order",
		Expected: m.expected(),
		Line:     line,
		Column:   col,
	}
	if m.conflicts(name) {
		pe.Kind = ErrUnexpectedElement
		pe.Message = "element not allowed here"
	}
	if err := p.report(pe); err != nil {
		return nil, err
	}
	return node.model.anyNode(name), nil
}

func (p *parser) attributes(e *Element, attrs []xml.Attr, ctx *nsContext, path string, line, col int) error {
	_, rest := namespaceDecls(attrs)
	for _, a := range rest {
		name := Name{Local: a.Name.Local}
		if a.Name.Space != "" {
			uri, ok := ctx.lookup(a.Name.Space)
			if !ok {
				return p.syntaxError("unbound namespace prefix " + a.Name.Space)
			}
			name.Space = uri
		}
		raw := xml.Attr{Name: xml.Name{Space: name.Space, Local: name.Local}, Value: a.Value}
		if e.Node == nil {
			e.Extra = append(e.Extra, raw)
			continue
		}
		decl, _, ok := e.Node.Attr(name)
		if !ok {
			e.Extra = append(e.Extra, raw)
			continue
		}
		v, err := decl.Type.Decode(a.Value)
		if err != nil {
			rerr := p.report(&ParseError{
				Kind:    ErrInvalidAttributeValue,
				Path:    path,
				Field:   name.Local,
				Message: err.Error(),
				Line:    line,
				Column:  col,
			})
			if rerr != nil {
				return rerr
			}
			e.Extra = append(e.Extra, raw)
			continue
		}
		e.Attrs = append(e.Attrs, AttrValue{Name: name, Value: v})
	}
	if e.Node != nil && len(e.Attrs) > 1 {
		slices.SortStableFunc(e.Attrs, func(a, b AttrValue) int {
			_, i, _ := e.Node.Attr(a.Name)
			_, j, _ := e.Node.Attr(b.Name)
			return i - j
		})
	}
	return nil
}

// finish runs the checks that can only be made once the element is closed.
func (p *parser) finish(e *Element, m *matcher, path string, line, col int) error {
	node := e.Node
	if node == nil {
		return nil
	}
	for _, d := range node.Attrs {
		if !d.Required || e.hasAttr(d.Name) {
			continue
		}
		err := p.report(&ParseError{
			Kind:    ErrSchemaViolation,
			Path:    path,
			Field:   d.Name.Local,
			Message: "missing required attribute",
			Line:    line,
			Column:  col,
		})
		if err != nil {
			return err
		}
	}

	switch {
	case node.Text != nil:
		v, err := node.Text.Decode(e.Text)
		if err != nil {
			return p.report(&ParseError{
				Kind:    ErrInvalidAttributeValue,
				Path:    path,
				Field:   "#text",
				Message: err.Error(),
				Line:    line,
				Column:  col,
			})
		}
		e.Value = v
		return nil
	case node.Content != nil:
		if !m.accepting() {
			err := p.report(&ParseError{
				Kind:     ErrSchemaViolation,
				Path:     path,
				Message:  "missing required child element",
				Expected: m.expected(),
				Line:     line,
				Column:   col,
			})
			if err != nil {
				return err
			}
		}
	}
	return p.dropFormatting(e, path, line, col)
}

// dropFormatting discards the whitespace between children of element-only or empty
// content. Other text is a violation; a lenient parse keeps it.
func (p *parser) dropFormatting(e *Element, path string, line, col int) error {
	stray := strings.TrimSpace(e.Text) != ""
	for _, c := range e.Children {
		if strings.TrimSpace(c.Tail) != "" {
			stray = true
		}
	}
	if stray {
		return p.report(&ParseError{
			Kind:    ErrSchemaViolation,
			Path:    path,
			Message: "text in element-only content",
			Line:    line,
			Column:  col,
		})
	}
	e.Text = ""
	for _, c := range e.Children {
		c.Tail = ""
	}
	return nil
}

func (e *Element) hasAttr(name Name) bool {
	if _, ok := e.AttrNS(name); ok {
		return true
	}
	return slices.ContainsFunc(e.Extra, func(a xml.Attr) bool {
		return a.Name.Space == name.Space && a.Name.Local == name.Local
	})
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// IsSchemaError reports whether err came from schema mapping rather than from XML
// syntax or I/O.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchemaViolation) || errors.Is(err, ErrInvalidAttributeValue)
}
