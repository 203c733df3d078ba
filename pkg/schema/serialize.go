package schema

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
)

// Header is the XML declaration Office writes at the top of every part.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;")
)

// Serialize writes e as a document. The only errors it returns come from w.
func Serialize(w io.Writer, e *Element, opts ...WriteOption) error {
	s := &serializer{w: bufio.NewWriter(w), cfg: newWriteConfig(opts)}
	if s.cfg.declaration {
		s.w.WriteString(Header)
	}
	s.element(e, nil, true)
	return s.w.Flush()
}

// Marshal returns the serialized form of e.
func Marshal(e *Element, opts ...WriteOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, e, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type serializer struct {
	w      *bufio.Writer
	cfg    writeConfig
	minted int
}

type scope struct {
	ctx   *nsContext
	decls []NamespaceDecl
}

func (sc *scope) declare(prefix, uri string) {
	sc.ctx = sc.ctx.with(prefix, uri)
	sc.decls = append(sc.decls, NamespaceDecl{Prefix: prefix, URI: uri})
}

func (s *serializer) element(e *Element, ctx *nsContext, root bool) {
	sc := &scope{ctx: ctx}
	for _, d := range e.Namespaces {
		if got, ok := sc.ctx.lookup(d.Prefix); !ok || got != d.URI {
			sc.declare(d.Prefix, d.URI)
		}
	}
	if root {
		s.hoist(e, sc)
	}

	prefix := ""
	if e.Name.Space == "" {
		if def, _ := sc.ctx.lookup(""); def != "" {
			sc.declare("", "")
		}
	} else if p, ok := sc.ctx.prefixFor(e.Name.Space, true); ok {
		prefix = p
	} else {
		prefix = s.choose(e.Name.Space, e.Prefix, sc.ctx)
		sc.declare(prefix, e.Name.Space)
	}

	type attr struct{ name, value string }
	var attrs []attr
	for _, a := range sortedAttrs(e) {
		attrs = append(attrs, attr{s.attrName(a.Name, sc), e.attrCodec(a.Name).Encode(a.Value)})
	}
	for _, a := range e.Extra {
		attrs = append(attrs, attr{s.attrName(Name{Space: a.Name.Space, Local: a.Name.Local}, sc), a.Value})
	}

	tag := e.Name.Local
	if prefix != "" {
		tag = prefix + ":" + e.Name.Local
	}
	s.w.WriteByte('<')
	s.w.WriteString(tag)
	for _, d := range sc.decls {
		if d.Prefix == "" {
			s.w.WriteString(` xmlns="`)
		} else {
			s.w.WriteString(` xmlns:` + d.Prefix + `="`)
		}
		attrEscaper.WriteString(s.w, d.URI)
		s.w.WriteByte('"')
	}
	for _, a := range attrs {
		s.w.WriteString(" " + a.name + `="`)
		attrEscaper.WriteString(s.w, a.value)
		s.w.WriteByte('"')
	}

	text := e.textValue()
	if len(e.Children) == 0 && text == "" {
		s.w.WriteString("/>")
		return
	}
	s.w.WriteByte('>')
	textEscaper.WriteString(s.w, text)
	for _, c := range e.Children {
		s.element(c, sc.ctx, false)
		textEscaper.WriteString(s.w, c.Tail)
	}
	s.w.WriteString("</" + tag + ">")
}

func (s *serializer) attrName(n Name, sc *scope) string {
	if n.Space == "" {
		return n.Local
	}
	p, ok := sc.ctx.prefixFor(n.Space, false)
	if !ok {
		p = s.choose(n.Space, "", sc.ctx)
		sc.declare(p, n.Space)
	}
	return p + ":" + n.Local
}

// hoist declares on the root every namespace the tree uses, so prefixes are fixed
// once for the whole document.
func (s *serializer) hoist(root *Element, sc *scope) {
	type use struct {
		uri     string
		hint    string
		prefixd bool
	}
	var order []*use
	uses := make(map[string]*use)
	note := func(uri, hint string, prefixed bool) {
		if uri == "" || uri == XMLNamespace {
			return
		}
		u, ok := uses[uri]
		if !ok {
			u = &use{uri: uri}
			uses[uri] = u
			order = append(order, u)
		}
		if u.hint == "" {
			u.hint = hint
		}
		u.prefixd = u.prefixd || prefixed
	}
	root.Walk(func(e *Element) bool {
		for _, d := range e.Namespaces {
			if d.Prefix != "" {
				note(d.URI, d.Prefix, false)
			}
		}
		note(e.Name.Space, e.Prefix, false)
		for _, a := range e.Attrs {
			note(a.Name.Space, "", true)
		}
		for _, a := range e.Extra {
			note(a.Name.Space, "", true)
		}
		return true
	})
	for _, u := range order {
		if _, ok := sc.ctx.prefixFor(u.uri, !u.prefixd); ok {
			continue
		}
		sc.declare(s.choose(u.uri, u.hint, sc.ctx), u.uri)
	}
}

// choose picks a prefix for uri that is free in ctx.
func (s *serializer) choose(uri, hint string, ctx *nsContext) string {
	for _, c := range []string{hint, s.cfg.prefixes[uri], WellKnownPrefix(uri)} {
		if c != "" && !ctx.bound(c) && !strings.HasPrefix(strings.ToLower(c), "xml") {
			return c
		}
	}
	for {
		c := fmt.Sprintf("ns%d", s.minted)
		s.minted++
		if !ctx.bound(c) {
			return c
		}
	}
}

func sortedAttrs(e *Element) []AttrValue {
	if e.Node == nil || len(e.Attrs) < 2 {
		return e.Attrs
	}
	out := slices.Clone(e.Attrs)
	slices.SortStableFunc(out, func(a, b AttrValue) int {
		_, i, _ := e.Node.Attr(a.Name)
		_, j, _ := e.Node.Attr(b.Name)
		return i - j
	})
	return out
}
