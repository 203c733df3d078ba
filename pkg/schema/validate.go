package schema

import "fmt"

// Validate checks a tree built in code against its Nodes: required attributes, the
// type of attribute values, and child order and arity. Opaque elements and children
// the model does not mention are skipped, as Parse would have kept them.
func Validate(e *Element) error {
	var errs ParseErrors
	validate(e, "/"+e.Name.Local, &errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validate(e *Element, path string, errs *ParseErrors) {
	node := e.Node
	if node == nil {
		return
	}
	if err := node.Compile(); err != nil {
		*errs = append(*errs, &ParseError{Kind: ErrInvalidSchema, Path: path, Message: err.Error()})
		return
	}
	if e.Name != node.Name {
		*errs = append(*errs, &ParseError{
			Kind:     ErrSchemaViolation,
			Path:     path,
			Message:  "element name does not match its node",
			Expected: []string{node.Name.Local},
		})
	}
	for _, a := range e.Attrs {
		decl, _, ok := node.Attr(a.Name)
		if !ok {
			*errs = append(*errs, &ParseError{Kind: ErrSchemaViolation, Path: path, Field: a.Name.Local, Message: "undeclared attribute"})
			continue
		}
		if msg := checkEncode(decl.Type, a.Value); msg != "" {
			*errs = append(*errs, &ParseError{Kind: ErrInvalidAttributeValue, Path: path, Field: a.Name.Local, Message: msg})
		}
	}
	for _, d := range node.Attrs {
		if d.Required && !e.hasAttr(d.Name) {
			*errs = append(*errs, &ParseError{Kind: ErrSchemaViolation, Path: path, Field: d.Name.Local, Message: "missing required attribute"})
		}
	}
	if node.Text != nil && e.Value != nil {
		if msg := checkEncode(node.Text, e.Value); msg != "" {
			*errs = append(*errs, &ParseError{Kind: ErrInvalidAttributeValue, Path: path, Field: "#text", Message: msg})
		}
	}
	if node.Content != nil {
		m := node.model.start()
		for _, c := range e.Children {
			if !node.model.declares(c.Name) {
				continue
			}
			if m.step(c.Name) == nil {
				kind := ErrSchemaViolation
				if m.conflicts(c.Name) {
					kind = ErrUnexpectedElement
				}
				*errs = append(*errs, &ParseError{
					Kind:     kind,
					Path:     path + "/" + c.Name.Local,
					Message:  "element not allowed here",
					Expected: m.expected(),
				})
			}
		}
		if !m.accepting() {
			*errs = append(*errs, &ParseError{
				Kind:     ErrSchemaViolation,
				Path:     path,
				Message:  "missing required child element",
				Expected: m.expected(),
			})
		}
	}
	for _, c := range e.Children {
		validate(c, path+"/"+c.Name.Local, errs)
	}
}

// checkEncode reports why v cannot be written by c, or "" when it can. The encoded
// form is decoded again so range checks apply to values built in code too.
func checkEncode(c Codec, v any) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprint(r)
		}
	}()
	if _, err := c.Decode(c.Encode(v)); err != nil {
		return err.Error()
	}
	return ""
}
