package opc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePartName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a/b.xml", want: "/a/b.xml"},
		{in: "/a/b.xml", want: "/a/b.xml"},
		{in: "/a/./b.xml", want: "/a/b.xml"},
		{in: "/x/../a/b.xml", want: "/a/b.xml"},
		{in: "a//b.xml", want: "/a/b.xml"},
		{in: `word\media\image1.png`, want: "/word/media/image1.png"},
		{in: "/Word/Document.xml", want: "/Word/Document.xml"},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
		{in: "/word/", wantErr: true},
		{in: "../a.xml", wantErr: true},
		{in: "/a/../../b.xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePartName(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPartName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelationshipsPartName(t *testing.T) {
	tests := []struct {
		source string
		rels   string
	}{
		{source: "/", rels: "/_rels/.rels"},
		{source: "/word/document.xml", rels: "/word/_rels/document.xml.rels"},
		{source: "/ppt/slides/slide1.xml", rels: "/ppt/slides/_rels/slide1.xml.rels"},
		{source: "/book.xml", rels: "/_rels/book.xml.rels"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.rels, RelationshipsPartName(tt.source))
			source, ok := SourcePartName(tt.rels)
			require.True(t, ok)
			assert.Equal(t, tt.source, source)
			assert.True(t, IsRelationshipsPart(tt.rels))
		})
	}

	for _, name := range []string{"/word/document.xml", "/word/rels/document.xml.rels", "/word/_rels/.rels"} {
		assert.False(t, IsRelationshipsPart(name), name)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source  string
		target  string
		want    string
		wantErr bool
	}{
		{source: "/word/document.xml", target: "media/image1.png", want: "/word/media/image1.png"},
		{source: "/word/document.xml", target: "../customXml/item1.xml", want: "/customXml/item1.xml"},
		{source: "/word/document.xml", target: "/word/styles.xml", want: "/word/styles.xml"},
		{source: "/word/document.xml", target: "footnotes.xml#_ftn1", want: "/word/footnotes.xml"},
		{source: "/", target: "word/document.xml", want: "/word/document.xml"},
		{source: "/book.xml", target: "sheet.xml", want: "/sheet.xml"},
		{source: "/word/document.xml", target: "../../outside.xml", wantErr: true},
		{source: "/word/document.xml", target: "#bookmark", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.source+" "+tt.target, func(t *testing.T) {
			got, err := ResolveTarget(tt.source, tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPartName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source string
		part   string
		want   string
	}{
		{source: "/word/document.xml", part: "/word/media/image1.png", want: "media/image1.png"},
		{source: "/ppt/slides/slide1.xml", part: "/ppt/slideLayouts/slideLayout1.xml", want: "../slideLayouts/slideLayout1.xml"},
		{source: "/", part: "/docProps/core.xml", want: "docProps/core.xml"},
		{source: "/book.xml", part: "/xl/sheet1.xml", want: "xl/sheet1.xml"},
		{source: "/word/document.xml", part: "/word/styles.xml", want: "styles.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			got := RelativeTarget(tt.source, tt.part)
			assert.Equal(t, tt.want, got)
			back, err := ResolveTarget(tt.source, got)
			require.NoError(t, err)
			assert.Equal(t, tt.part, back)
		})
	}
}
