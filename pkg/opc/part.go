package opc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"github.com/benjaminschreck/go-msoffice-shared/internal/logging"
)

type partState int

const (
	// partUnloaded parts are backed by their archive entry and have not been read.
	partUnloaded partState = iota
	partLoaded
)

// Part is one named byte stream of a package. Parts read from an archive stay
// unloaded until their bytes are asked for, and unmodified parts are copied to the
// output archive without being decompressed.
type Part struct {
	name    string
	types   *ContentTypes
	state   partState
	file    *zip.File
	data    []byte
	maxSize int64
	loads   int
}

func newLoadedPart(name string, types *ContentTypes, data []byte, maxSize int64) *Part {
	return &Part{name: name, types: types, state: partLoaded, data: data, maxSize: maxSize}
}

func newArchivePart(name string, types *ContentTypes, f *zip.File, maxSize int64) *Part {
	return &Part{name: name, types: types, state: partUnloaded, file: f, maxSize: maxSize}
}

// Name returns the normalized part name.
func (p *Part) Name() string {
	return p.name
}

// ContentType resolves the part's content type from the package registry, or returns
// "" when none applies.
func (p *Part) ContentType() string {
	ct, err := p.types.Resolve(p.name)
	if err != nil {
		return ""
	}
	return ct
}

// Loaded reports whether the part's bytes are in memory.
func (p *Part) Loaded() bool {
	return p.state == partLoaded
}

// Size is the uncompressed size of the part.
func (p *Part) Size() int64 {
	if p.state == partLoaded {
		return int64(len(p.data))
	}
	return int64(p.file.UncompressedSize64)
}

// Bytes returns the content of the part, reading it from the archive the first time.
func (p *Part) Bytes() ([]byte, error) {
	if p.state == partLoaded {
		return p.data, nil
	}
	if p.file.UncompressedSize64 > uint64(p.maxSize) {
		return nil, newPackageError("read", p.name, fmt.Errorf("%w: %s exceeds limit of %s",
			ErrPartTooLarge, logging.Size(int64(p.file.UncompressedSize64)), logging.Size(p.maxSize)))
	}
	rc, err := p.file.Open()
	if err != nil {
		return nil, newPackageError("read", p.name, err)
	}
	defer rc.Close()

	// The header size is not trusted; the limit is enforced on the stream too.
	data, err := io.ReadAll(io.LimitReader(rc, p.maxSize+1))
	if err != nil {
		return nil, newPackageError("read", p.name, fmt.Errorf("%w: %v", ErrCorruptArchive, err))
	}
	if int64(len(data)) > p.maxSize {
		return nil, newPackageError("read", p.name, fmt.Errorf("%w: limit is %s", ErrPartTooLarge, logging.Size(p.maxSize)))
	}
	p.data = data
	p.state = partLoaded
	p.loads++
	logging.Debug("materialized part", "part", p.name, "size", logging.Size(int64(len(data))))
	return data, nil
}

// SetBytes replaces the content of the part.
func (p *Part) SetBytes(data []byte) {
	p.data = data
	p.state = partLoaded
	p.file = nil
}

// Open streams the content without materializing it.
func (p *Part) Open() (io.ReadCloser, error) {
	if p.state == partLoaded {
		return io.NopCloser(bytes.NewReader(p.data)), nil
	}
	rc, err := p.file.Open()
	if err != nil {
		return nil, newPackageError("open", p.name, err)
	}
	return rc, nil
}

// rawSource is the archive entry that can be copied verbatim, or nil once the part
// has been modified.
func (p *Part) rawSource() *zip.File {
	return p.file
}
