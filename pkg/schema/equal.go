package schema

// Equal reports whether two trees carry the same content. Declared values are
// compared in their written form so an int and an int64 of the same value match.
// Namespace prefixes and declarations are not compared.
func Equal(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Tail != b.Tail || len(a.Children) != len(b.Children) {
		return false
	}
	if a.textValue() != b.textValue() {
		return false
	}
	if !equalAttrs(a, b) || !equalExtra(a, b) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func equalAttrs(a, b *Element) bool {
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for _, x := range a.Attrs {
		y, ok := b.AttrNS(x.Name)
		if !ok {
			return false
		}
		c := a.attrCodec(x.Name)
		if c.Encode(x.Value) != c.Encode(y) {
			return false
		}
	}
	return true
}

func equalExtra(a, b *Element) bool {
	if len(a.Extra) != len(b.Extra) {
		return false
	}
	for i := range a.Extra {
		x, y := a.Extra[i], b.Extra[i]
		if x.Name.Space != y.Name.Space || x.Name.Local != y.Name.Local || x.Value != y.Value {
			return false
		}
	}
	return true
}
