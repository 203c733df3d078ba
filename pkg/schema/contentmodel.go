package schema

import (
	"fmt"
	"math/bits"
)

// maxPositions bounds how far a Repeated with a finite Max may be unrolled.
const maxPositions = 1 << 14

// position is one occurrence of a child element in a content model.
type position struct {
	node *Node
	// choice is the id of the innermost Choice around the position, or -1.
	choice int
	// alt is the alternative of that choice the position belongs to.
	alt int
}

// contentModel is the Glushkov automaton of a Shape: one state per position, with
// first, last and follow sets over positions.
type contentModel struct {
	positions []position
	first     *bitset
	last      *bitset
	follow    []*bitset
	nullable  bool
	byName    map[Name][]int
}

func buildContentModel(s Shape) (*contentModel, error) {
	size, err := countPositions(s)
	if err != nil {
		return nil, err
	}
	b := &builder{size: size, follow: make([]*bitset, size)}
	for i := range b.follow {
		b.follow[i] = newBitset(size)
	}
	root, err := b.build(s, -1, 0)
	if err != nil {
		return nil, err
	}
	m := &contentModel{
		positions: b.positions,
		follow:    b.follow,
		byName:    make(map[Name][]int),
	}
	m.first, m.last, m.nullable = root.first, root.last, root.nullable
	for i, p := range m.positions {
		m.byName[p.node.Name] = append(m.byName[p.node.Name], i)
	}
	return m, nil
}

func countPositions(s Shape) (int, error) {
	switch v := s.(type) {
	case nil:
		return 0, nil
	case Leaf:
		if v.Node == nil {
			return 0, fmt.Errorf("%w: leaf without node", ErrInvalidSchema)
		}
		return 1, nil
	case Sequence:
		return countAll(v.Items)
	case Choice:
		return countAll(v.Alternatives)
	case Repeated:
		if err := checkOccurs(v); err != nil {
			return 0, err
		}
		base, err := countPositions(v.Item)
		if err != nil {
			return 0, err
		}
		copies := v.Max
		if v.Max == Unbounded {
			copies = max(v.Min, 1)
		}
		if base > 0 && copies > maxPositions/base {
			return 0, fmt.Errorf("%w: repetition of %d too large", ErrInvalidSchema, copies)
		}
		return base * copies, nil
	default:
		return 0, fmt.Errorf("%w: unsupported shape %T", ErrInvalidSchema, s)
	}
}

func countAll(items []Shape) (int, error) {
	total := 0
	for _, it := range items {
		n, err := countPositions(it)
		if err != nil {
			return 0, err
		}
		total += n
		if total > maxPositions {
			return 0, fmt.Errorf("%w: content model too large", ErrInvalidSchema)
		}
	}
	return total, nil
}

func checkOccurs(r Repeated) error {
	if r.Min < 0 {
		return fmt.Errorf("%w: negative min %d", ErrInvalidSchema, r.Min)
	}
	if r.Max != Unbounded && r.Max < r.Min {
		return fmt.Errorf("%w: max %d less than min %d", ErrInvalidSchema, r.Max, r.Min)
	}
	return nil
}

// term is a compiled subexpression.
type term struct {
	first    *bitset
	last     *bitset
	nullable bool
}

type builder struct {
	positions []position
	follow    []*bitset
	size      int
	choices   int
}

// build compiles s. Follow sets are filled in as terms are combined, so a term's
// first and last sets are final by the time they are used.
func (b *builder) build(s Shape, choice, alt int) (*term, error) {
	switch v := s.(type) {
	case nil:
		return b.epsilon(), nil
	case Leaf:
		pos := len(b.positions)
		b.positions = append(b.positions, position{node: v.Node, choice: choice, alt: alt})
		set := newBitset(b.size)
		set.set(pos)
		return &term{first: set, last: set, nullable: false}, nil
	case Sequence:
		acc := b.epsilon()
		for _, it := range v.Items {
			t, err := b.build(it, choice, alt)
			if err != nil {
				return nil, err
			}
			acc = b.seq(acc, t)
		}
		return acc, nil
	case Choice:
		id := b.choices
		b.choices++
		var acc *term
		for i, it := range v.Alternatives {
			t, err := b.build(it, id, i)
			if err != nil {
				return nil, err
			}
			acc = b.alt(acc, t)
		}
		if acc == nil {
			return b.epsilon(), nil
		}
		return acc, nil
	case Repeated:
		return b.repeat(v, choice, alt)
	default:
		return nil, fmt.Errorf("%w: unsupported shape %T", ErrInvalidSchema, s)
	}
}

func (b *builder) repeat(r Repeated, choice, alt int) (*term, error) {
	if r.Max == 0 {
		return b.epsilon(), nil
	}
	acc := b.epsilon()
	if r.Max == Unbounded {
		// x{n,} is n-1 copies of x followed by x+, and x{0,} is x*.
		for i := 0; i < r.Min-1; i++ {
			t, err := b.build(r.Item, choice, alt)
			if err != nil {
				return nil, err
			}
			acc = b.seq(acc, t)
		}
		t, err := b.build(r.Item, choice, alt)
		if err != nil {
			return nil, err
		}
		t = b.loop(t)
		if r.Min == 0 {
			t = optional(t)
		}
		return b.seq(acc, t), nil
	}
	for i := 0; i < r.Max; i++ {
		t, err := b.build(r.Item, choice, alt)
		if err != nil {
			return nil, err
		}
		if i >= r.Min {
			t = optional(t)
		}
		acc = b.seq(acc, t)
	}
	return acc, nil
}

// epsilon is the term matching the empty child sequence.
func (b *builder) epsilon() *term {
	return &term{first: newBitset(b.size), last: newBitset(b.size), nullable: true}
}

func (b *builder) seq(left, right *term) *term {
	left.last.forEach(func(p int) {
		b.follow[p].or(right.first)
	})
	first := left.first.clone()
	if left.nullable {
		first.or(right.first)
	}
	last := right.last.clone()
	if right.nullable {
		last.or(left.last)
	}
	return &term{first: first, last: last, nullable: left.nullable && right.nullable}
}

func (b *builder) alt(left, right *term) *term {
	if left == nil {
		return right
	}
	first := left.first.clone()
	first.or(right.first)
	last := left.last.clone()
	last.or(right.last)
	return &term{first: first, last: last, nullable: left.nullable || right.nullable}
}

func (b *builder) loop(t *term) *term {
	t.last.forEach(func(p int) {
		b.follow[p].or(t.first)
	})
	return t
}

func optional(t *term) *term {
	return &term{first: t.first, last: t.last, nullable: true}
}

// declares reports whether name occurs anywhere in the model.
func (m *contentModel) declares(name Name) bool {
	_, ok := m.byName[name]
	return ok
}

// anyNode returns some Node declared for name, used to keep parsing a child that
// arrived out of place.
func (m *contentModel) anyNode(name Name) *Node {
	if ps := m.byName[name]; len(ps) > 0 {
		return m.positions[ps[0]].node
	}
	return nil
}

// matcher runs the automaton over the children of one element.
type matcher struct {
	m        *contentModel
	state    *bitset // nil before the first child
	consumed *bitset
}

func (m *contentModel) start() *matcher {
	return &matcher{m: m, consumed: newBitset(len(m.positions))}
}

func (mt *matcher) candidates() *bitset {
	if mt.state == nil {
		return mt.m.first
	}
	next := newBitset(len(mt.m.positions))
	mt.state.forEach(func(p int) {
		next.or(mt.m.follow[p])
	})
	return next
}

// step feeds one child. It returns the Node the child matched, or nil when the child
// may not appear here, in which case the state is left unchanged.
func (mt *matcher) step(name Name) *Node {
	cand := mt.candidates()
	next := newBitset(len(mt.m.positions))
	for _, p := range mt.m.byName[name] {
		if cand.has(p) {
			next.set(p)
		}
	}
	if next.empty() {
		return nil
	}
	mt.state = next
	var node *Node
	next.forEach(func(p int) {
		if node == nil {
			node = mt.m.positions[p].node
		}
		mt.consumed.set(p)
	})
	return node
}

// conflicts reports whether a rejected child is rejected because it repeats a
// consumed child or because another alternative of its choice was already taken.
func (mt *matcher) conflicts(name Name) bool {
	for _, p := range mt.m.byName[name] {
		if mt.consumed.has(p) {
			return true
		}
		pos := mt.m.positions[p]
		if pos.choice < 0 {
			continue
		}
		taken := false
		mt.consumed.forEach(func(q int) {
			other := mt.m.positions[q]
			if other.choice == pos.choice && other.alt != pos.alt {
				taken = true
			}
		})
		if taken {
			return true
		}
	}
	// A second use of the same name at a different position also counts.
	found := false
	mt.consumed.forEach(func(q int) {
		if mt.m.positions[q].node.Name == name {
			found = true
		}
	})
	return found
}

func (mt *matcher) accepting() bool {
	if mt.state == nil {
		return mt.m.nullable
	}
	return mt.state.intersects(mt.m.last)
}

// expected lists the names that may come next, in declaration order.
func (mt *matcher) expected() []string {
	var out []string
	seen := make(map[Name]bool)
	mt.candidates().forEach(func(p int) {
		n := mt.m.positions[p].node.Name
		if !seen[n] {
			seen[n] = true
			out = append(out, n.Local)
		}
	})
	return out
}

type bitset struct {
	words []uint64
}

func newBitset(size int) *bitset {
	return &bitset{words: make([]uint64, (size+63)/64)}
}

func (b *bitset) set(i int) {
	b.words[i/64] |= 1 << (i % 64)
}

func (b *bitset) has(i int) bool {
	return b.words[i/64]&(1<<(i%64)) != 0
}

func (b *bitset) or(other *bitset) {
	for i := range b.words {
		if i < len(other.words) {
			b.words[i] |= other.words[i]
		}
	}
}

func (b *bitset) intersects(other *bitset) bool {
	for i := range b.words {
		if i < len(other.words) && b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

func (b *bitset) clone() *bitset {
	c := &bitset{words: make([]uint64, len(b.words))}
	copy(c.words, b.words)
	return c
}

func (b *bitset) empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b *bitset) forEach(f func(int)) {
	for i, w := range b.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			f(i*64 + bit)
			w &^= 1 << bit
		}
	}
}
