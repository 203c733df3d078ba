// Package schema maps OOXML parts onto typed element trees driven by declarative
// schema nodes.
//
// A Node describes one XML element: its qualified name, its attributes with their
// value codecs, and the shape of its content. Content is empty, simple text decoded by
// a Codec, or an element model built from the closed set of shapes Leaf, Sequence,
// Choice and Repeated. Formats such as WordprocessingML or DrawingML declare their
// vocabulary once as Nodes and reuse the same parser and serializer.
//
// # Structure Organization
//
//   - node.go: Node, AttrDecl and the Shape variants
//   - codec.go: typed attribute and text codecs
//   - contentmodel.go: Glushkov compilation of a Node's content model
//   - namespace.go: immutable namespace scopes
//   - prefixes.go: the well-known prefix table and prefix minting for Serialize
//   - element.go: Element, the typed instance produced by Parse
//   - parse.go, serialize.go, validate.go: the three operations over trees
//
// # Parsing
//
// Parse streams tokens, resolving prefixes through a namespace context that each element
// extends for its children. Children are matched against the parent's content model.
// Children whose names never occur in the model are kept as opaque subtrees so vendor
// extensions survive a round trip. Arity (missing required children and attributes) is
// checked when an element closes.
//
// Round trips preserve elements, attributes, namespaces and text. Comments, processing
// instructions and directives are not part of the tree: they are skipped when parsing
// and do not reappear when the tree is written.
//
// In strict mode the first problem aborts the parse. In lenient mode the whole tree is
// returned together with a ParseErrors value listing every problem found:
//
//	root, err := schema.Parse(r, drawingml.ThemeNode, schema.WithStrict(false))
//	var perrs schema.ParseErrors
//	if errors.As(err, &perrs) {
//	    // root is usable, perrs says what was wrong with it
//	}
//
// # Serializing
//
// Serialize writes an Element back out. Namespace prefixes are chosen once at the root:
// prefixes declared in the source win, then caller supplied prefixes, then the
// conventional OOXML prefix for the namespace, then a minted nsN prefix. Attributes are
// written in declaration order followed by unknown attributes in the order they were
// read.
package schema
