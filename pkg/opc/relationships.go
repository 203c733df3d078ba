package opc

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TargetMode tells whether a relationship points into the package or outside it.
type TargetMode int

const (
	Internal TargetMode = iota
	External
)

func (m TargetMode) String() string {
	if m == External {
		return "External"
	}
	return "Internal"
}

// ParseTargetMode accepts the TargetMode attribute; an absent attribute is Internal.
func ParseTargetMode(s string) (TargetMode, error) {
	switch s {
	case "", "Internal":
		return Internal, nil
	case "External":
		return External, nil
	}
	return Internal, fmt.Errorf("%w: invalid TargetMode %q", ErrInvalidPackageStructure, s)
}

// Relationship is one typed edge from a source part to a target.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode TargetMode
	source     string
}

// Source is the part name owning the relationship, or "/" for the package.
func (r *Relationship) Source() string {
	return r.source
}

// TargetPartName resolves an internal target to a part name.
func (r *Relationship) TargetPartName() (string, error) {
	if r.TargetMode == External {
		return "", fmt.Errorf("relationship %s targets external %s", r.ID, r.Target)
	}
	return ResolveTarget(r.source, r.Target)
}

// Target is a resolved relationship target.
type Target struct {
	ID   string
	Type string
	// Ref is the target as written in the relationships part.
	Ref  string
	Mode TargetMode
	// PartName is the resolved part for internal targets and empty for external ones.
	PartName string
}

func (r *Relationship) target() Target {
	t := Target{ID: r.ID, Type: r.Type, Ref: r.Target, Mode: r.TargetMode}
	if r.TargetMode == Internal {
		t.PartName, _ = ResolveTarget(r.source, r.Target)
	}
	return t
}

// Relationships is the ordered relationship set owned by one source.
type Relationships struct {
	source string
	rels   []*Relationship
	byID   map[string]*Relationship
	// next only grows, so a removed id is never handed out again.
	next int
}

func newRelationships(source string) *Relationships {
	return &Relationships{
		source: source,
		byID:   make(map[string]*Relationship),
		next:   1,
	}
}

func (rs *Relationships) Source() string {
	return rs.source
}

// Add appends a relationship under a freshly allocated rIdN.
func (rs *Relationships) Add(target, relType string, mode TargetMode) *Relationship {
	id := "rId" + strconv.Itoa(rs.next)
	for rs.byID[id] != nil {
		rs.next++
		id = "rId" + strconv.Itoa(rs.next)
	}
	rel, _ := rs.insert(id, target, relType, mode)
	return rel
}

func (rs *Relationships) insert(id, target, relType string, mode TargetMode) (*Relationship, error) {
	if _, dup := rs.byID[id]; dup {
		return nil, fmt.Errorf("%w: duplicate relationship id %s in %s", ErrInvalidPackageStructure, id, RelationshipsPartName(rs.source))
	}
	rel := &Relationship{ID: id, Type: relType, Target: target, TargetMode: mode, source: rs.source}
	rs.rels = append(rs.rels, rel)
	rs.byID[id] = rel
	if n, ok := relIDNumber(id); ok && n >= rs.next {
		rs.next = n + 1
	}
	return rel, nil
}

func relIDNumber(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, "rId")
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (rs *Relationships) Get(id string) (*Relationship, bool) {
	r, ok := rs.byID[id]
	return r, ok
}

// ByType returns the relationships of relType in insertion order.
func (rs *Relationships) ByType(relType string) []*Relationship {
	var out []*Relationship
	for _, r := range rs.rels {
		if r.Type == relType {
			out = append(out, r)
		}
	}
	return out
}

// FirstByType returns the first relationship of relType.
func (rs *Relationships) FirstByType(relType string) (*Relationship, bool) {
	for _, r := range rs.rels {
		if r.Type == relType {
			return r, true
		}
	}
	return nil, false
}

func (rs *Relationships) Remove(id string) bool {
	if _, ok := rs.byID[id]; !ok {
		return false
	}
	delete(rs.byID, id)
	rs.rels = slices.DeleteFunc(rs.rels, func(r *Relationship) bool { return r.ID == id })
	return true
}

// All returns the relationships in insertion order.
func (rs *Relationships) All() []*Relationship {
	return slices.Clone(rs.rels)
}

func (rs *Relationships) Len() int {
	return len(rs.rels)
}

type xmlRelationships struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Namespace    string            `xml:"xmlns,attr"`
	Relationship []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func parseRelationships(source string, data []byte) (*Relationships, error) {
	partName := RelationshipsPartName(source)
	var doc xmlRelationships
	if err := decodeXML(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackageStructure, partName, err)
	}
	rs := newRelationships(source)
	for _, r := range doc.Relationship {
		if r.ID == "" || r.Type == "" || r.Target == "" {
			return nil, fmt.Errorf("%w: %s: relationship is missing Id, Type or Target", ErrInvalidPackageStructure, partName)
		}
		mode, err := ParseTargetMode(r.TargetMode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", partName, err)
		}
		if _, err := rs.insert(r.ID, r.Target, r.Type, mode); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

func (rs *Relationships) marshal() ([]byte, error) {
	doc := xmlRelationships{Namespace: NamespaceRelationships}
	for _, r := range rs.rels {
		x := xmlRelationship{ID: r.ID, Type: r.Type, Target: r.Target}
		if r.TargetMode == External {
			x.TargetMode = External.String()
		}
		doc.Relationship = append(doc.Relationship, x)
	}
	return encodeXML(doc)
}

// RelationshipGraph holds the relationship sets of a package keyed by source.
type RelationshipGraph struct {
	sets map[string]*Relationships
}

func newRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{sets: make(map[string]*Relationships)}
}

func normalizeSource(source string) (string, error) {
	if source == "" || source == PackageRoot {
		return PackageRoot, nil
	}
	return NormalizePartName(source)
}

// Set returns the relationship set of source, creating an empty one on demand.
func (g *RelationshipGraph) Set(source string) *Relationships {
	src, err := normalizeSource(source)
	if err != nil {
		return newRelationships(source)
	}
	rs, ok := g.sets[src]
	if !ok {
		rs = newRelationships(src)
		g.sets[src] = rs
	}
	return rs
}

// Lookup returns the relationship set of source without creating it.
func (g *RelationshipGraph) Lookup(source string) (*Relationships, bool) {
	src, err := normalizeSource(source)
	if err != nil {
		return nil, false
	}
	rs, ok := g.sets[src]
	return rs, ok
}

// Add records a relationship from source and returns its new id.
func (g *RelationshipGraph) Add(source, target, relType string, mode TargetMode) (string, error) {
	if _, err := normalizeSource(source); err != nil {
		return "", err
	}
	if mode == Internal {
		if _, err := ResolveTarget(source, target); err != nil {
			return "", err
		}
	}
	return g.Set(source).Add(target, relType, mode).ID, nil
}

// Resolve looks up one relationship. A missing source or id is reported as absent.
func (g *RelationshipGraph) Resolve(source, id string) (Target, bool) {
	rs, ok := g.Lookup(source)
	if !ok {
		return Target{}, false
	}
	r, ok := rs.Get(id)
	if !ok {
		return Target{}, false
	}
	return r.target(), true
}

// ByType returns every target of relType from source in insertion order.
func (g *RelationshipGraph) ByType(source, relType string) []Target {
	rs, ok := g.Lookup(source)
	if !ok {
		return nil
	}
	var out []Target
	for _, r := range rs.ByType(relType) {
		out = append(out, r.target())
	}
	return out
}

func (g *RelationshipGraph) Remove(source, id string) bool {
	rs, ok := g.Lookup(source)
	if !ok {
		return false
	}
	return rs.Remove(id)
}

// Drop forgets the relationship set owned by source.
func (g *RelationshipGraph) Drop(source string) {
	if src, err := normalizeSource(source); err == nil {
		delete(g.sets, src)
	}
}

// Sources lists every source with a relationship set, sorted.
func (g *RelationshipGraph) Sources() []string {
	keys := maps.Keys(g.sets)
	slices.Sort(keys)
	return keys
}

func (g *RelationshipGraph) put(rs *Relationships) {
	g.sets[rs.source] = rs
}

// dangling reports every internal relationship whose target part is missing.
func (g *RelationshipGraph) dangling(exists func(string) bool) []error {
	var errs []error
	for _, src := range g.Sources() {
		if src != PackageRoot && !exists(src) {
			continue
		}
		for _, r := range g.sets[src].rels {
			if r.TargetMode == External {
				continue
			}
			name, err := r.TargetPartName()
			if err != nil || !exists(name) {
				errs = append(errs, &DanglingRelationshipError{Source: src, ID: r.ID, Target: r.Target})
			}
		}
	}
	return errs
}
