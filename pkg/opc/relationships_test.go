package opc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/" TargetMode="External"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image2.png"/>
</Relationships>`

func TestParseRelationships(t *testing.T) {
	rs, err := parseRelationships("/word/document.xml", []byte(documentRels))
	require.NoError(t, err)

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, "/word/document.xml", rs.Source())

	link, ok := rs.Get("rId5")
	require.True(t, ok)
	assert.Equal(t, External, link.TargetMode)
	assert.Equal(t, "/word/document.xml", link.Source())
	_, err = link.TargetPartName()
	assert.Error(t, err)

	images := rs.ByType(RelTypeImage)
	require.Len(t, images, 2)
	assert.Equal(t, "rId1", images[0].ID)
	assert.Equal(t, "rId3", images[1].ID)

	name, err := images[1].TargetPartName()
	require.NoError(t, err)
	assert.Equal(t, "/word/media/image2.png", name)
}

func TestParseRelationshipsErrors(t *testing.T) {
	wrap := func(body string) string {
		return `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + body + `</Relationships>`
	}
	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed", doc: `<Relationships>`},
		{name: "bad target mode", doc: wrap(`<Relationship Id="rId1" Type="t" Target="a.xml" TargetMode="Sideways"/>`)},
		{name: "missing id", doc: wrap(`<Relationship Type="t" Target="a.xml"/>`)},
		{name: "missing target", doc: wrap(`<Relationship Id="rId1" Type="t"/>`)},
		{name: "duplicate id", doc: wrap(`<Relationship Id="rId1" Type="t" Target="a.xml"/><Relationship Id="rId1" Type="t" Target="b.xml"/>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRelationships("/word/document.xml", []byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidPackageStructure)
		})
	}
}

func TestRelationshipIDsAreMonotonic(t *testing.T) {
	rs, err := parseRelationships("/word/document.xml", []byte(documentRels))
	require.NoError(t, err)

	r := rs.Add("media/image3.png", RelTypeImage, Internal)
	assert.Equal(t, "rId6", r.ID, "allocation starts above the largest rIdN")

	require.True(t, rs.Remove("rId6"))
	assert.False(t, rs.Remove("rId6"))
	r = rs.Add("media/image4.png", RelTypeImage, Internal)
	assert.Equal(t, "rId7", r.ID, "a removed id is not reused")

	fresh := newRelationships(PackageRoot)
	assert.Equal(t, "rId1", fresh.Add("word/document.xml", RelTypeOfficeDocument, Internal).ID)
	assert.Equal(t, "rId2", fresh.Add("docProps/core.xml", RelTypeCoreProperties, Internal).ID)
}

func TestRelationshipsMarshal(t *testing.T) {
	rs, err := parseRelationships("/word/document.xml", []byte(documentRels))
	require.NoError(t, err)

	data, err := rs.marshal()
	require.NoError(t, err)
	out := string(data)
	assert.Equal(t, 1, strings.Count(out, `TargetMode="External"`))
	assert.Contains(t, out, `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)

	back, err := parseRelationships("/word/document.xml", data)
	require.NoError(t, err)
	assert.Equal(t, rs.All(), back.All())
}

func TestRelationshipGraph(t *testing.T) {
	g := newRelationshipGraph()

	id, err := g.Add(PackageRoot, "word/document.xml", RelTypeOfficeDocument, Internal)
	require.NoError(t, err)
	assert.Equal(t, "rId1", id)

	_, err = g.Add("word/document.xml", "media/image1.png", RelTypeImage, Internal)
	require.NoError(t, err)
	_, err = g.Add("/word/document.xml", "https://example.com/", RelTypeHyperlink, External)
	require.NoError(t, err)
	_, err = g.Add("/word/document.xml", "../../x.xml", RelTypeImage, Internal)
	assert.ErrorIs(t, err, ErrInvalidPartName)

	target, ok := g.Resolve("/word/document.xml", "rId1")
	require.True(t, ok)
	assert.Equal(t, Target{ID: "rId1", Type: RelTypeImage, Ref: "media/image1.png", Mode: Internal, PartName: "/word/media/image1.png"}, target)

	target, ok = g.Resolve("/word/document.xml", "rId2")
	require.True(t, ok)
	assert.Equal(t, External, target.Mode)
	assert.Empty(t, target.PartName)

	_, ok = g.Resolve("/word/document.xml", "rId9")
	assert.False(t, ok)
	_, ok = g.Resolve("/word/missing.xml", "rId1")
	assert.False(t, ok)

	assert.Equal(t, []string{"/", "/word/document.xml"}, g.Sources())
	assert.Len(t, g.ByType(PackageRoot, RelTypeOfficeDocument), 1)
	assert.Empty(t, g.ByType("/word/missing.xml", RelTypeImage))

	assert.True(t, g.Remove("/word/document.xml", "rId1"))
	assert.False(t, g.Remove("/word/missing.xml", "rId1"))

	g.Drop("/word/document.xml")
	_, ok = g.Lookup("/word/document.xml")
	assert.False(t, ok)
	assert.Equal(t, []string{"/"}, g.Sources())
}

func TestDanglingRelationships(t *testing.T) {
	g := newRelationshipGraph()
	_, err := g.Add(PackageRoot, "word/document.xml", RelTypeOfficeDocument, Internal)
	require.NoError(t, err)
	_, err = g.Add("/word/document.xml", "media/image1.png", RelTypeImage, Internal)
	require.NoError(t, err)
	_, err = g.Add("/word/document.xml", "https://example.com/", RelTypeHyperlink, External)
	require.NoError(t, err)

	parts := map[string]bool{"/word/document.xml": true}
	errs := g.dangling(func(name string) bool { return parts[name] })
	require.Len(t, errs, 1)
	assert.True(t, IsDanglingRelationship(errs[0]))

	var dangling *DanglingRelationshipError
	require.ErrorAs(t, errs[0], &dangling)
	assert.Equal(t, "/word/document.xml", dangling.Source)
	assert.Equal(t, "rId1", dangling.ID)
	assert.Equal(t, "media/image1.png", dangling.Target)

	delete(parts, "/word/document.xml")
	errs = g.dangling(func(name string) bool { return parts[name] })
	require.Len(t, errs, 1, "sets of missing sources are not checked")
	assert.Equal(t, PackageRoot, errs[0].(*DanglingRelationshipError).Source)
}
