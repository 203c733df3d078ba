package schema

import (
	"sync"
)

// Unbounded is the Max of a Repeated shape with no upper limit.
const Unbounded = -1

// AttrDecl declares one attribute of a Node.
type AttrDecl struct {
	Name     Name
	Type     Codec
	Required bool
}

// Attr declares an optional attribute in no namespace.
func Attr(local string, c Codec) AttrDecl {
	return AttrDecl{Name: Name{Local: local}, Type: c}
}

// RequiredAttr declares a required attribute in no namespace.
func RequiredAttr(local string, c Codec) AttrDecl {
	return AttrDecl{Name: Name{Local: local}, Type: c, Required: true}
}

// NSAttr declares an optional namespaced attribute such as r:embed.
func NSAttr(space, local string, c Codec) AttrDecl {
	return AttrDecl{Name: Name{Space: space, Local: local}, Type: c}
}

// Node describes one element. A Node with neither Text nor Content is empty. With
// Text set it carries simple content decoded by that codec. With Content set it
// carries element content matched against the shape. Nodes are used by pointer and
// may be shared between goroutines once built.
type Node struct {
	Name    Name
	Attrs   []AttrDecl
	Text    Codec
	Content Shape

	once      sync.Once
	model     *contentModel
	modelErr  error
	attrIndex map[Name]int
}

func (n *Node) String() string {
	return n.Name.String()
}

// Attr returns the declaration for an attribute name.
func (n *Node) Attr(name Name) (*AttrDecl, int, bool) {
	n.compile()
	i, ok := n.attrIndex[name]
	if !ok {
		return nil, -1, false
	}
	return &n.Attrs[i], i, true
}

// Compile builds the Node's content model. It is called on first use; calling it up
// front surfaces ErrInvalidSchema early.
func (n *Node) Compile() error {
	n.compile()
	return n.modelErr
}

func (n *Node) compile() {
	n.once.Do(func() {
		n.attrIndex = make(map[Name]int, len(n.Attrs))
		for i, a := range n.Attrs {
			n.attrIndex[a.Name] = i
		}
		if n.Content != nil {
			n.model, n.modelErr = buildContentModel(n.Content)
		}
	})
}

// Shape is the content model of a Node. The set of shapes is closed: Leaf, Sequence,
// Choice and Repeated.
type Shape interface {
	shape()
}

// Leaf is one child element.
type Leaf struct {
	Node *Node
}

// Sequence requires its items in order.
type Sequence struct {
	Items []Shape
}

// Choice allows exactly one of its alternatives.
type Choice struct {
	Alternatives []Shape
}

// Repeated allows Item between Min and Max times. Max may be Unbounded.
type Repeated struct {
	Item Shape
	Min  int
	Max  int
}

func (Leaf) shape()     {}
func (Sequence) shape() {}
func (Choice) shape()   {}
func (Repeated) shape() {}

func El(n *Node) Shape {
	return Leaf{Node: n}
}

func Seq(items ...Shape) Shape {
	return Sequence{Items: items}
}

func OneOf(alts ...Shape) Shape {
	return Choice{Alternatives: alts}
}

func Opt(s Shape) Shape {
	return Repeated{Item: s, Min: 0, Max: 1}
}

func ZeroOrMore(s Shape) Shape {
	return Repeated{Item: s, Min: 0, Max: Unbounded}
}

func OneOrMore(s Shape) Shape {
	return Repeated{Item: s, Min: 1, Max: Unbounded}
}

func Times(s Shape, min, max int) Shape {
	return Repeated{Item: s, Min: min, Max: max}
}

// ChoiceOf is a choice that may be taken between min and max times.
func ChoiceOf(min, max int, alts ...Shape) Shape {
	return Repeated{Item: Choice{Alternatives: alts}, Min: min, Max: max}
}

// Leaves lists every Node reachable as a direct child of the shape, in declaration
// order and without duplicates.
func Leaves(s Shape) []*Node {
	var out []*Node
	seen := make(map[*Node]bool)
	var walk func(Shape)
	walk = func(s Shape) {
		switch v := s.(type) {
		case Leaf:
			if v.Node != nil && !seen[v.Node] {
				seen[v.Node] = true
				out = append(out, v.Node)
			}
		case Sequence:
			for _, it := range v.Items {
				walk(it)
			}
		case Choice:
			for _, it := range v.Alternatives {
				walk(it)
			}
		case Repeated:
			walk(v.Item)
		}
	}
	walk(s)
	return out
}
