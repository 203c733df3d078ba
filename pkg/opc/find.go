package opc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// FindParts returns the parts whose names match a glob pattern, in package order.
// "*" stops at "/" and "**" crosses it, so /ppt/slides/*.xml finds the slides but not
// their relationships.
func (p *Package) FindParts(pattern string) ([]*Part, error) {
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	g, ok := p.globs.Get(pattern)
	if !ok {
		var err error
		g, err = glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("opc: bad part pattern %q: %w", pattern, err)
		}
		p.globs.Add(pattern, g)
	}
	var out []*Part
	for _, name := range p.order {
		if g.Match(name) {
			out = append(out, p.parts[name])
		}
	}
	return out, nil
}

// AddMedia stores data as the first free dir/image<N>.<ext> and makes sure a Default
// exists for the extension.
func (p *Package) AddMedia(dir string, data []byte, ext string) (*Part, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ct, known := mediaTypes[ext]
	if def, ok := p.types.Default(ext); ok {
		ct = def
	} else if !known {
		return nil, newPackageError("add media", dir, fmt.Errorf("%w: extension %q", ErrUnknownContentType, ext))
	} else {
		p.types.RegisterDefault(ext, ct)
	}
	base, err := NormalizePartName(dir)
	if err != nil {
		return nil, newPackageError("add media", dir, err)
	}
	for n := 1; ; n++ {
		name := base + "/image" + strconv.Itoa(n) + "." + ext
		if !p.exists(name) {
			return p.AddPart(name, ct, data)
		}
	}
}
