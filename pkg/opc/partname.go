package opc

import (
	"fmt"
	"path"
	"strings"
)

const (
	// ContentTypesName is the archive entry holding the content-type registry.
	ContentTypesName = "[Content_Types].xml"
	// RootRelationshipsName is the part name of the package relationships.
	RootRelationshipsName = "/_rels/.rels"
	// PackageRoot is the source name of package level relationships.
	PackageRoot = "/"
)

// NormalizePartName returns the canonical form of a part name: rooted at "/", with
// "." and ".." segments resolved and no empty segments. Part names are case
// sensitive; two names denote the same part exactly when their canonical forms are
// equal.
func NormalizePartName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || strings.HasSuffix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPartName, name)
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	depth := 0
	for _, seg := range strings.Split(name[1:], "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return "", fmt.Errorf("%w: %q climbs above the package root", ErrInvalidPartName, name)
			}
		default:
			depth++
		}
	}
	clean := path.Clean(name)
	if clean == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPartName, name)
	}
	return clean, nil
}

// RelationshipsPartName returns the name of the part holding the relationships of
// source: /word/document.xml maps to /word/_rels/document.xml.rels and the package
// root maps to /_rels/.rels.
func RelationshipsPartName(source string) string {
	if source == PackageRoot || source == "" {
		return RootRelationshipsName
	}
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}

// SourcePartName is the inverse of RelationshipsPartName. ok is false when name is not
// a relationships part.
func SourcePartName(name string) (string, bool) {
	dir, base := path.Split(name)
	if !strings.HasSuffix(base, ".rels") || !strings.HasSuffix(dir, "/_rels/") {
		return "", false
	}
	parent := strings.TrimSuffix(dir, "_rels/")
	base = strings.TrimSuffix(base, ".rels")
	if base == "" {
		if parent == "/" {
			return PackageRoot, true
		}
		return "", false
	}
	return parent + base, true
}

// IsRelationshipsPart reports whether name lives in a _rels directory with a .rels
// extension.
func IsRelationshipsPart(name string) bool {
	_, ok := SourcePartName(name)
	return ok
}

// ResolveTarget resolves a relationship target against its source part and strips
// any fragment. Absolute targets are taken from the package root.
func ResolveTarget(source, target string) (string, error) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	if target == "" {
		return "", fmt.Errorf("%w: empty relationship target", ErrInvalidPartName)
	}
	if strings.HasPrefix(target, "/") {
		return NormalizePartName(target)
	}
	base := ""
	if source != PackageRoot {
		base = path.Dir(source)
	}
	// Joined by hand so NormalizePartName still sees a reference that climbs too far.
	return NormalizePartName(base + "/" + target)
}

// RelativeTarget returns the reference from source to part in the relative form Office
// writes, for example media/image1.png from /word/document.xml.
func RelativeTarget(source, part string) string {
	if source == PackageRoot {
		return strings.TrimPrefix(part, "/")
	}
	from := strings.Split(strings.Trim(path.Dir(source), "/"), "/")
	to := strings.Split(strings.TrimPrefix(part, "/"), "/")
	if len(from) == 1 && from[0] == "" {
		from = nil
	}
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var b strings.Builder
	for range from[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}

// entryName is the ZIP entry name of a part.
func entryName(part string) string {
	return strings.TrimPrefix(part, "/")
}

func extension(name string) string {
	ext := path.Ext(name)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
