package opc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"golang.org/x/exp/slices"

	"github.com/benjaminschreck/go-msoffice-shared/internal/logging"
)

// Package is an open OPC package: a set of parts, the content-type registry and the
// relationship graph. A Package is not safe for concurrent use.
type Package struct {
	cfg   *Config
	types *ContentTypes
	rels  *RelationshipGraph
	parts map[string]*Part
	order []string
	globs *lru.Cache[string, glob.Glob]
}

func newPackage(cfg *Config) (*Package, error) {
	globs, err := lru.New[string, glob.Glob](cfg.GlobCacheSize)
	if err != nil {
		return nil, fmt.Errorf("opc: %w", err)
	}
	return &Package{
		cfg:   cfg,
		types: NewContentTypes(),
		rels:  newRelationshipGraph(),
		parts: make(map[string]*Part),
		globs: globs,
	}, nil
}

// New returns an empty package with the rels and xml Defaults registered.
func New(opts ...Option) (*Package, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	p, err := newPackage(cfg)
	if err != nil {
		return nil, err
	}
	p.types.RegisterDefault("rels", ContentTypeRelationships)
	p.types.RegisterDefault("xml", ContentTypeXML)
	return p, nil
}

// OpenBytes opens a package held in memory.
func OpenBytes(data []byte, opts ...Option) (*Package, error) {
	return Open(bytes.NewReader(data), int64(len(data)), opts...)
}

// OpenFile reads the file at path into memory and opens it.
func OpenFile(path string, opts ...Option) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newPackageError("open", path, err)
	}
	return OpenBytes(data, opts...)
}

// Open reads the archive directory, the content-type registry and every relationships
// part. Other parts stay in the archive until their bytes are requested, so r must
// remain readable for the life of the package.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Package, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	// Entry names are normalized to part names and never touch the file system, so
	// an insecure path is not an error here.
	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, newPackageError("open", "", fmt.Errorf("%w: %v", ErrCorruptArchive, err))
	}
	p, err := newPackage(cfg)
	if err != nil {
		return nil, err
	}

	var (
		typesFile *zip.File
		relsFiles = make(map[string]*zip.File)
		relsOrder []string
		seen      = make(map[string]bool)
	)
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if strings.EqualFold(strings.TrimPrefix(f.Name, "/"), ContentTypesName) {
			if typesFile != nil {
				return nil, newPackageError("open", ContentTypesName, ErrDuplicatePart)
			}
			typesFile = f
			continue
		}
		name, err := NormalizePartName(f.Name)
		if err != nil {
			return nil, newPackageError("open", f.Name, err)
		}
		if seen[name] {
			return nil, newPackageError("open", name, ErrDuplicatePart)
		}
		seen[name] = true
		if source, ok := SourcePartName(name); ok {
			relsFiles[source] = f
			relsOrder = append(relsOrder, source)
			continue
		}
		p.parts[name] = newArchivePart(name, p.types, f, cfg.MaxPartSize)
		p.order = append(p.order, name)
	}

	if typesFile == nil {
		return nil, newPackageError("open", ContentTypesName, fmt.Errorf("%w: missing %s", ErrInvalidPackageStructure, ContentTypesName))
	}
	data, err := readEntry(typesFile, cfg.MaxPartSize)
	if err != nil {
		return nil, newPackageError("open", ContentTypesName, err)
	}
	if p.types, err = parseContentTypes(data); err != nil {
		return nil, newPackageError("open", ContentTypesName, err)
	}
	for _, part := range p.parts {
		part.types = p.types
	}

	if _, ok := relsFiles[PackageRoot]; !ok {
		return nil, newPackageError("open", RootRelationshipsName, fmt.Errorf("%w: missing %s", ErrInvalidPackageStructure, RootRelationshipsName))
	}
	for _, source := range relsOrder {
		f := relsFiles[source]
		data, err := readEntry(f, cfg.MaxPartSize)
		if err != nil {
			return nil, newPackageError("open", f.Name, err)
		}
		rs, err := parseRelationships(source, data)
		if err != nil {
			return nil, newPackageError("open", f.Name, err)
		}
		p.rels.put(rs)
	}

	for _, name := range p.order {
		if _, err := p.types.Resolve(name); err == nil {
			continue
		}
		if cfg.StrictMode {
			return nil, newPackageError("open", name, ErrUnknownContentType)
		}
		logging.Warn("part has no content type", "part", name, "assumed", ContentTypeOctetStream)
		if err := p.types.RegisterOverride(name, ContentTypeOctetStream); err != nil {
			return nil, newPackageError("open", name, err)
		}
	}

	logging.Debug("opened package", "parts", len(p.order), "relationship_sets", len(relsOrder), "size", logging.Size(size))
	return p, nil
}

func readEntry(f *zip.File, limit int64) ([]byte, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s exceeds limit of %s", ErrPartTooLarge, logging.Size(int64(f.UncompressedSize64)), logging.Size(limit))
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %s", ErrPartTooLarge, logging.Size(limit))
	}
	return data, nil
}

// ContentTypes returns the package's content-type registry.
func (p *Package) ContentTypes() *ContentTypes {
	return p.types
}

// Relationships returns the package's relationship graph.
func (p *Package) Relationships() *RelationshipGraph {
	return p.rels
}

// Config returns the configuration the package was opened with.
func (p *Package) Config() Config {
	return *p.cfg
}

// Part looks a part up by name; the name is normalized first.
func (p *Package) Part(name string) (*Part, bool) {
	n, err := NormalizePartName(name)
	if err != nil {
		return nil, false
	}
	part, ok := p.parts[n]
	return part, ok
}

func (p *Package) exists(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Parts returns the parts in archive order followed by added parts.
func (p *Package) Parts() []*Part {
	out := make([]*Part, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.parts[name])
	}
	return out
}

// AddPart adds a new part. An empty contentType takes the Default for the extension;
// otherwise an Override is registered unless the Default already gives contentType.
func (p *Package) AddPart(name, contentType string, data []byte) (*Part, error) {
	n, err := NormalizePartName(name)
	if err != nil {
		return nil, newPackageError("add", name, err)
	}
	if IsRelationshipsPart(n) || strings.EqualFold(n, "/"+ContentTypesName) {
		return nil, newPackageError("add", n, fmt.Errorf("%w: reserved for package metadata", ErrInvalidPartName))
	}
	if p.exists(n) {
		return nil, newPackageError("add", n, ErrDuplicatePart)
	}
	def, hasDefault := p.types.Default(extension(n))
	switch {
	case contentType == "" && !hasDefault:
		return nil, newPackageError("add", n, ErrUnknownContentType)
	case contentType == "" || (hasDefault && def == contentType):
	default:
		if err := p.types.RegisterOverride(n, contentType); err != nil {
			return nil, newPackageError("add", n, err)
		}
	}
	part := newLoadedPart(n, p.types, data, p.cfg.MaxPartSize)
	p.parts[n] = part
	p.order = append(p.order, n)
	return part, nil
}

// RemovePart drops a part, its Override and its own relationships. Relationships in
// other parts that target it are left alone and reported by Validate.
func (p *Package) RemovePart(name string) error {
	n, err := NormalizePartName(name)
	if err != nil {
		return newPackageError("remove", name, err)
	}
	if !p.exists(n) {
		return newPackageError("remove", n, ErrPartNotFound)
	}
	delete(p.parts, n)
	p.order = slices.DeleteFunc(p.order, func(s string) bool { return s == n })
	p.types.RemoveOverride(n)
	p.rels.Drop(n)
	return nil
}

// PartRelationships returns the relationship set of a part, or of the package for "/".
func (p *Package) PartRelationships(name string) *Relationships {
	return p.rels.Set(name)
}

// RelatedPart follows an internal relationship of source.
func (p *Package) RelatedPart(source, id string) (*Part, bool) {
	t, ok := p.rels.Resolve(source, id)
	if !ok || t.Mode == External {
		return nil, false
	}
	return p.Part(t.PartName)
}

// MainPart follows the first package relationship of relType.
func (p *Package) MainPart(relType string) (*Part, bool) {
	targets := p.rels.ByType(PackageRoot, relType)
	for _, t := range targets {
		if t.Mode == Internal {
			return p.Part(t.PartName)
		}
	}
	return nil, false
}

// Validate reports every part without a content type and every internal relationship
// whose target is missing.
func (p *Package) Validate() error {
	var errs []error
	for _, name := range p.order {
		if _, err := p.types.Resolve(name); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, p.rels.dangling(p.exists)...)
	return errors.Join(errs...)
}

// Save validates the package and writes it as a ZIP archive. The archive is built in
// memory, so nothing reaches w when validation or encoding fails.
func (p *Package) Save(w io.Writer) error {
	data, err := p.encode()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return newPackageError("save", "", err)
	}
	return nil
}

// SaveFile saves the package to path.
func (p *Package) SaveFile(path string) error {
	data, err := p.encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return newPackageError("save", path, err)
	}
	return nil
}

func (p *Package) encode() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, newPackageError("save", "", err)
	}
	if _, ok := p.types.Default("rels"); !ok {
		p.types.RegisterDefault("rels", ContentTypeRelationships)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	level := p.cfg.CompressionLevel
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	method := zip.Deflate
	if level == flate.NoCompression {
		method = zip.Store
	}

	types, err := p.types.marshal(p.exists)
	if err != nil {
		return nil, newPackageError("save", ContentTypesName, err)
	}
	if err := writeEntry(zw, ContentTypesName, method, types); err != nil {
		return nil, newPackageError("save", ContentTypesName, err)
	}
	if err := p.writeRelationships(zw, PackageRoot, method, true); err != nil {
		return nil, err
	}

	for _, name := range p.order {
		part := p.parts[name]
		if err := writePart(zw, part, method); err != nil {
			return nil, newPackageError("save", name, err)
		}
		if err := p.writeRelationships(zw, name, method, false); err != nil {
			return nil, err
		}
	}

	// Relationship sets without a source part are kept so that the archive's entries
	// survive a round trip.
	for _, src := range p.rels.Sources() {
		if src == PackageRoot || p.exists(src) {
			continue
		}
		logging.Debug("writing relationships of missing part", "source", src)
		if err := p.writeRelationships(zw, src, method, false); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, newPackageError("save", "", err)
	}
	logging.Debug("saved package", "parts", len(p.order), "size", logging.Size(int64(buf.Len())))
	return buf.Bytes(), nil
}

func (p *Package) writeRelationships(zw *zip.Writer, source string, method uint16, always bool) error {
	rs, ok := p.rels.Lookup(source)
	if !ok || rs.Len() == 0 {
		if !always {
			return nil
		}
		rs = newRelationships(source)
	}
	name := RelationshipsPartName(source)
	data, err := rs.marshal()
	if err != nil {
		return newPackageError("save", name, err)
	}
	if err := writeEntry(zw, entryName(name), method, data); err != nil {
		return newPackageError("save", name, err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, method uint16, data []byte) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}

// writePart copies an unmodified archive part without decompressing it.
func writePart(zw *zip.Writer, part *Part, method uint16) error {
	src := part.rawSource()
	if src == nil {
		return writeEntry(zw, entryName(part.name), method, part.data)
	}
	fh := src.FileHeader
	fh.Name = entryName(part.name)
	fw, err := zw.CreateRaw(&fh)
	if err != nil {
		return err
	}
	raw, err := src.OpenRaw()
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, raw)
	return err
}
