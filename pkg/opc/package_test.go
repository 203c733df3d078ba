package opc

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name string
	body string
}

const (
	fixtureContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/><Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/></Types>`

	fixtureRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/><Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/></Relationships>`

	fixtureDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`

	fixtureDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/" TargetMode="External"/></Relationships>`

	fixtureCore = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>Quarterly report</dc:title><dc:creator>Ada</dc:creator><cp:lastModifiedBy>Grace</cp:lastModifiedBy><cp:revision>3</cp:revision><dcterms:created xsi:type="dcterms:W3CDTF">2024-01-02T03:04:05Z</dcterms:created><dcterms:modified xsi:type="dcterms:W3CDTF">2024-02-03T04:05:06Z</dcterms:modified></cp:coreProperties>`

	fixtureApp = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"><Template>Normal.dotm</Template><TotalTime>4</TotalTime><Pages>1</Pages><Application>Microsoft Office Word</Application><DocSecurity>0</DocSecurity><Company>Acme</Company><AppVersion>16.0000</AppVersion></Properties>`
)

var fixtureImage = "\x89PNG\r\n\x1a\n" + strings.Repeat("pixel", 800)

func fixtureEntries() []entry {
	return []entry{
		{ContentTypesName, fixtureContentTypes},
		{"_rels/.rels", fixtureRootRels},
		{"word/document.xml", fixtureDocument},
		{"word/_rels/document.xml.rels", fixtureDocumentRels},
		{"word/media/image1.png", fixtureImage},
		{"docProps/core.xml", fixtureCore},
		{"docProps/app.xml", fixtureApp},
	}
}

func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func openFixture(t *testing.T, opts ...Option) *Package {
	t.Helper()
	p, err := OpenBytes(buildZip(t, fixtureEntries()...), opts...)
	require.NoError(t, err)
	return p
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func partNames(parts []*Part) []string {
	var names []string
	for _, p := range parts {
		names = append(names, p.Name())
	}
	return names
}

func TestOpen(t *testing.T) {
	p := openFixture(t)

	assert.Equal(t, []string{
		"/word/document.xml",
		"/word/media/image1.png",
		"/docProps/core.xml",
		"/docProps/app.xml",
	}, partNames(p.Parts()))

	for _, part := range p.Parts() {
		assert.False(t, part.Loaded(), "%s is read lazily", part.Name())
	}

	doc, ok := p.Part("word/document.xml")
	require.True(t, ok)
	assert.Equal(t, ContentTypeWordDocument, doc.ContentType())
	assert.Equal(t, int64(len(fixtureDocument)), doc.Size())

	img, ok := p.Part("/word/media/image1.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", img.ContentType())

	assert.Equal(t, []string{"/", "/word/document.xml"}, p.Relationships().Sources())
}

func TestPartMaterializesOnce(t *testing.T) {
	p := openFixture(t)
	img, _ := p.Part("/word/media/image1.png")

	rc, err := img.Open()
	require.NoError(t, err)
	streamed, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, fixtureImage, string(streamed))
	assert.False(t, img.Loaded(), "streaming does not materialize")

	first, err := img.Bytes()
	require.NoError(t, err)
	second, err := img.Bytes()
	require.NoError(t, err)
	assert.Equal(t, fixtureImage, string(first))
	assert.Equal(t, first, second)
	assert.True(t, img.Loaded())
	assert.Equal(t, 1, img.loads)
}

func TestPartTooLarge(t *testing.T) {
	p := openFixture(t, WithMaxPartSize(2048))
	img, _ := p.Part("/word/media/image1.png")

	_, err := img.Bytes()
	require.ErrorIs(t, err, ErrPartTooLarge)
	assert.False(t, img.Loaded())

	var pe *PackageError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/word/media/image1.png", pe.Part)
}

func TestOpenErrors(t *testing.T) {
	full := fixtureEntries()
	without := func(name string) []entry {
		var out []entry
		for _, e := range full {
			if e.name != name {
				out = append(out, e)
			}
		}
		return out
	}

	tests := []struct {
		name    string
		data    func(t *testing.T) []byte
		opts    []Option
		wantErr error
	}{
		{
			name:    "not a zip",
			data:    func(t *testing.T) []byte { return []byte("this is not an archive") },
			wantErr: ErrCorruptArchive,
		},
		{
			name:    "missing content types",
			data:    func(t *testing.T) []byte { return buildZip(t, without(ContentTypesName)...) },
			wantErr: ErrInvalidPackageStructure,
		},
		{
			name:    "missing package relationships",
			data:    func(t *testing.T) []byte { return buildZip(t, without("_rels/.rels")...) },
			wantErr: ErrInvalidPackageStructure,
		},
		{
			name: "malformed content types",
			data: func(t *testing.T) []byte {
				return buildZip(t, append(without(ContentTypesName), entry{ContentTypesName, "<Types>"})...)
			},
			wantErr: ErrInvalidPackageStructure,
		},
		{
			name: "malformed part relationships",
			data: func(t *testing.T) []byte {
				return buildZip(t, append(without("word/_rels/document.xml.rels"),
					entry{"word/_rels/document.xml.rels", `<Relationships><Relationship Id="rId1"`})...)
			},
			wantErr: ErrInvalidPackageStructure,
		},
		{
			name: "duplicate part after normalization",
			data: func(t *testing.T) []byte {
				return buildZip(t, append(full, entry{"word/./document.xml", fixtureDocument})...)
			},
			wantErr: ErrDuplicatePart,
		},
		{
			name: "part without content type",
			data: func(t *testing.T) []byte {
				return buildZip(t, append(full, entry{"customXml/item1.bin", "data"})...)
			},
			wantErr: ErrUnknownContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenBytes(tt.data(t), tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpenLenientContentType(t *testing.T) {
	data := buildZip(t, append(fixtureEntries(), entry{"customXml/item1.bin", "data"})...)

	p, err := OpenBytes(data, WithStrict(false))
	require.NoError(t, err)
	part, ok := p.Part("/customXml/item1.bin")
	require.True(t, ok)
	assert.Equal(t, ContentTypeOctetStream, part.ContentType())
}

func TestSaveRoundTrip(t *testing.T) {
	p := openFixture(t)

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))

	assert.Equal(t, []string{
		ContentTypesName,
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/media/image1.png",
		"docProps/core.xml",
		"docProps/app.xml",
	}, entryNames(t, buf.Bytes()))

	for _, part := range p.Parts() {
		assert.False(t, part.Loaded(), "%s is copied raw", part.Name())
	}

	back, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, partNames(p.Parts()), partNames(back.Parts()))
	assert.Equal(t, p.ContentTypes().Defaults(), back.ContentTypes().Defaults())
	assert.Equal(t, p.ContentTypes().Overrides(), back.ContentTypes().Overrides())

	img, ok := back.RelatedPart("/word/document.xml", "rId1")
	require.True(t, ok)
	data, err := img.Bytes()
	require.NoError(t, err)
	assert.Equal(t, fixtureImage, string(data))

	_, ok = back.RelatedPart("/word/document.xml", "rId2")
	assert.False(t, ok, "external targets are not parts")

	link, ok := back.Relationships().Resolve("/word/document.xml", "rId2")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/", link.Ref)
	assert.Equal(t, External, link.Mode)
}

func TestSaveKeepsOrphanRelationships(t *testing.T) {
	orphan := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/></Relationships>`
	entries := append(fixtureEntries(), entry{"word/_rels/gone.xml.rels", orphan})
	p, err := OpenBytes(buildZip(t, entries...))
	require.NoError(t, err)
	require.NoError(t, p.Validate(), "sets of missing sources are not checked")

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	names := entryNames(t, buf.Bytes())
	assert.Equal(t, "word/_rels/gone.xml.rels", names[len(names)-1])

	back, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	target, ok := back.Relationships().Resolve("/word/gone.xml", "rId1")
	require.True(t, ok)
	assert.Equal(t, "/word/media/image1.png", target.PartName)
	_, ok = back.Part("/word/gone.xml")
	assert.False(t, ok)
}

func TestSaveModifiedAndAddedParts(t *testing.T) {
	p := openFixture(t)

	doc, ok := p.MainPart(RelTypeOfficeDocument)
	require.True(t, ok)
	assert.Equal(t, "/word/document.xml", doc.Name())
	changed := strings.Replace(fixtureDocument, "<w:p/>", "<w:p/><w:p/>", 1)
	doc.SetBytes([]byte(changed))

	_, err := p.AddPart("/word/styles.xml", ContentTypeWordStyles, []byte("<w:styles/>"))
	require.NoError(t, err)
	_, err = p.Relationships().Add("/word/document.xml", "styles.xml", RelTypeStyles, Internal)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	assert.Equal(t, "word/styles.xml", entryNames(t, buf.Bytes())[7])

	back, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	doc, _ = back.Part("/word/document.xml")
	data, err := doc.Bytes()
	require.NoError(t, err)
	assert.Equal(t, changed, string(data))

	styles := back.Relationships().ByType("/word/document.xml", RelTypeStyles)
	require.Len(t, styles, 1)
	assert.Equal(t, "rId3", styles[0].ID)
	assert.Equal(t, "/word/styles.xml", styles[0].PartName)
	part, _ := back.Part(styles[0].PartName)
	assert.Equal(t, ContentTypeWordStyles, part.ContentType())
}

func TestSaveStoresWithoutCompression(t *testing.T) {
	p, err := New(WithCompressionLevel(flate.NoCompression))
	require.NoError(t, err)
	_, err = p.AddPart("/data.xml", "", []byte("<data/>"))
	require.NoError(t, err)
	_, err = p.Relationships().Add(PackageRoot, "data.xml", RelTypeOfficeDocument, Internal)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method, f.Name)
	}
}

func TestRemovePart(t *testing.T) {
	p := openFixture(t)

	require.NoError(t, p.RemovePart("word/document.xml"))
	_, ok := p.Part("/word/document.xml")
	assert.False(t, ok)
	_, ok = p.ContentTypes().Override("/word/document.xml")
	assert.False(t, ok, "the Override goes with the part")
	_, ok = p.Relationships().Lookup("/word/document.xml")
	assert.False(t, ok, "the part's own relationships go with it")

	err := p.RemovePart("/word/document.xml")
	assert.ErrorIs(t, err, ErrPartNotFound)

	err = p.Validate()
	require.Error(t, err)
	assert.True(t, IsDanglingRelationship(err), "the package relationship still points at the part")
}

func TestSaveRejectsDanglingRelationship(t *testing.T) {
	p := openFixture(t)
	require.NoError(t, p.RemovePart("/word/media/image1.png"))

	err := p.Validate()
	require.Error(t, err)
	var dangling *DanglingRelationshipError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "/word/document.xml", dangling.Source)
	assert.Equal(t, "rId1", dangling.ID)

	var buf bytes.Buffer
	err = p.Save(&buf)
	assert.True(t, IsDanglingRelationship(err))
	assert.Zero(t, buf.Len(), "nothing is written when validation fails")

	require.True(t, p.Relationships().Remove("/word/document.xml", "rId1"))
	require.NoError(t, p.Save(&buf))
}

func TestAddPart(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.AddPart("/word/document.xml", ContentTypeWordDocument, []byte("<doc/>"))
	require.NoError(t, err)
	_, err = p.AddPart("/word/settings.xml", ContentTypeXML, []byte("<settings/>"))
	require.NoError(t, err)
	_, err = p.AddPart("/word/plain.xml", "", []byte("<plain/>"))
	require.NoError(t, err)

	assert.Equal(t, []Override{{PartName: "/word/document.xml", ContentType: ContentTypeWordDocument}},
		p.ContentTypes().Overrides(), "an Override is only added when the Default differs")

	tests := []struct {
		name        string
		part        string
		contentType string
		wantErr     error
	}{
		{name: "duplicate", part: "word/./document.xml", contentType: ContentTypeXML, wantErr: ErrDuplicatePart},
		{name: "invalid name", part: "../x.xml", contentType: ContentTypeXML, wantErr: ErrInvalidPartName},
		{name: "relationships part", part: "/word/_rels/document.xml.rels", contentType: ContentTypeRelationships, wantErr: ErrInvalidPartName},
		{name: "content types part", part: "/[Content_Types].xml", contentType: ContentTypeXML, wantErr: ErrInvalidPartName},
		{name: "no default for extension", part: "/bin/blob.dat", wantErr: ErrUnknownContentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.AddPart(tt.part, tt.contentType, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFindParts(t *testing.T) {
	p := openFixture(t)

	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "/word/**", want: []string{"/word/document.xml", "/word/media/image1.png"}},
		{pattern: "word/*.xml", want: []string{"/word/document.xml"}},
		{pattern: "/docProps/{core,app}.xml", want: []string{"/docProps/core.xml", "/docProps/app.xml"}},
		{pattern: "/**.png", want: []string{"/word/media/image1.png"}},
		{pattern: "/ppt/slides/*.xml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			parts, err := p.FindParts(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, partNames(parts))
		})
	}

	_, cached := p.globs.Get("/word/**")
	assert.True(t, cached)
}

func TestAddMedia(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	first, err := p.AddMedia("/word/media", []byte("one"), ".PNG")
	require.NoError(t, err)
	second, err := p.AddMedia("word/media", []byte("two"), "png")
	require.NoError(t, err)

	assert.Equal(t, "/word/media/image1.png", first.Name())
	assert.Equal(t, "/word/media/image2.png", second.Name())
	assert.Equal(t, "image/png", second.ContentType())

	ct, ok := p.ContentTypes().Default("png")
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
	assert.Empty(t, p.ContentTypes().Overrides())

	_, err = p.AddMedia("/word/media", []byte("?"), "xyz")
	assert.ErrorIs(t, err, ErrUnknownContentType)
}

func TestSaveFileAndOpenFile(t *testing.T) {
	p := openFixture(t)
	path := filepath.Join(t.TempDir(), "copy.docx")

	require.NoError(t, p.SaveFile(path))
	back, err := OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, back.Parts(), 4)

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.docx"))
	require.Error(t, err)
	assert.False(t, IsStructural(err))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSaveWriterError(t *testing.T) {
	p := openFixture(t)
	err := p.Save(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
