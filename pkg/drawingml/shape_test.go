package drawingml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

const rNS = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

func roundTrip(t *testing.T, e *schema.Element, n *schema.Node) {
	t.Helper()
	out, err := schema.Marshal(e)
	require.NoError(t, err)
	back, err := schema.Unmarshal(out, n)
	require.NoError(t, err)
	assert.True(t, schema.Equal(e, back), string(out))
}

func TestNonVisualProperties(t *testing.T) {
	doc := `<a:cNvPr ` + aNS + ` ` + rNS + ` id="4" name="Picture 3" descr="Logo" hidden="1">` +
		`<a:hlinkClick r:id="rId2"/></a:cNvPr>`
	e, err := schema.Unmarshal([]byte(doc), NonVisualDrawingProps)
	require.NoError(t, err)
	require.False(t, e.Child("hlinkClick").Opaque())
	roundTrip(t, e, NonVisualDrawingProps)

	p, err := NonVisualPropertiesFromElement(e)
	require.NoError(t, err)
	assert.Equal(t, NonVisualProperties{ID: 4, Name: "Picture 3", Description: "Logo", Hidden: true}, p)

	out, err := schema.Marshal(p.Element(), schema.WithoutDeclaration())
	require.NoError(t, err)
	assert.Equal(t, `<a:cNvPr `+aNS+` id="4" name="Picture 3" descr="Logo" hidden="1"/>`, string(out))
	require.NoError(t, schema.Validate(p.Element()))

	_, err = NonVisualPropertiesFromElement(schema.NewElement(ShapeLocks))
	assert.Error(t, err)
}

func TestNonVisualShapeKinds(t *testing.T) {
	tests := []struct {
		name  string
		node  *schema.Node
		doc   string
		locks string
		want  map[string]bool
	}{
		{
			name:  "text box",
			node:  NonVisualShapeProps,
			doc:   `<a:cNvSpPr ` + aNS + ` txBox="1"><a:spLocks noGrp="1" noTextEdit="true"/></a:cNvSpPr>`,
			locks: "spLocks",
			want:  map[string]bool{"noGrp": true, "noTextEdit": true},
		},
		{
			name:  "picture",
			node:  NonVisualPictureProps,
			doc:   `<a:cNvPicPr ` + aNS + ` preferRelativeResize="0"><a:picLocks noChangeAspect="1" noCrop="0"/></a:cNvPicPr>`,
			locks: "picLocks",
			want:  map[string]bool{"noChangeAspect": true, "noCrop": false},
		},
		{
			name:  "graphic frame",
			node:  NonVisualGraphicFrameProps,
			doc:   `<a:cNvGraphicFramePr ` + aNS + `><a:graphicFrameLocks noDrilldown="1"/></a:cNvGraphicFramePr>`,
			locks: "graphicFrameLocks",
			want:  map[string]bool{"noDrilldown": true},
		},
		{
			name:  "group",
			node:  NonVisualGroupProps,
			doc:   `<a:cNvGrpSpPr ` + aNS + `><a:grpSpLocks noUngrp="1"/></a:cNvGrpSpPr>`,
			locks: "grpSpLocks",
			want:  map[string]bool{"noUngrp": true},
		},
		{
			name:  "connector",
			node:  NonVisualConnectorProps,
			doc:   `<a:cNvCxnSpPr ` + aNS + `><a:cxnSpLocks noMove="1"/><a:stCxn id="2" idx="3"/><a:endCxn id="5" idx="0"/></a:cNvCxnSpPr>`,
			locks: "cxnSpLocks",
			want:  map[string]bool{"noMove": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := schema.Unmarshal([]byte(tt.doc), tt.node)
			require.NoError(t, err)
			l := e.Child(tt.locks)
			require.NotNil(t, l)
			assert.False(t, l.Opaque())
			assert.Equal(t, tt.want, Locks(l))
			roundTrip(t, e, tt.node)
		})
	}

	assert.Empty(t, Locks(nil))
}

func TestNonVisualSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		node *schema.Node
		doc  string
	}{
		{"cNvPr without name", NonVisualDrawingProps, `<a:cNvPr ` + aNS + ` id="1"/>`},
		{"negative id", NonVisualDrawingProps, `<a:cNvPr ` + aNS + ` id="-1" name="x"/>`},
		{"bad lock flag", NonVisualShapeProps, `<a:cNvSpPr ` + aNS + `><a:spLocks noGrp="maybe"/></a:cNvSpPr>`},
		{"connection without idx", NonVisualConnectorProps, `<a:cNvCxnSpPr ` + aNS + `><a:stCxn id="2"/></a:cNvCxnSpPr>`},
		{"connections out of order", NonVisualConnectorProps, `<a:cNvCxnSpPr ` + aNS + `><a:endCxn id="2" idx="0"/><a:stCxn id="1" idx="0"/></a:cNvCxnSpPr>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Unmarshal([]byte(tt.doc), tt.node)
			require.Error(t, err)
			assert.True(t, schema.IsSchemaError(err), err.Error())
		})
	}
}

func TestGraphic(t *testing.T) {
	doc := `<a:graphic ` + aNS + `><a:graphicData uri="` + GraphicDataChart + `">` +
		`<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` + rNS + ` r:id="rId1"/>` +
		`</a:graphicData></a:graphic>`
	e, err := schema.Unmarshal([]byte(doc), Graphic)
	require.NoError(t, err)
	roundTrip(t, e, Graphic)

	uri, payload, err := GraphicPayload(e)
	require.NoError(t, err)
	assert.Equal(t, GraphicDataChart, uri)
	require.Len(t, payload, 1)
	assert.True(t, payload[0].Opaque(), "the payload belongs to its own vocabulary")
	assert.Equal(t, "chart", payload[0].Name.Local)

	built := NewGraphic(GraphicDataChart, payload[0])
	require.NoError(t, schema.Validate(built))
	assert.True(t, schema.Equal(e, built))

	_, err = schema.Unmarshal([]byte(`<a:graphic `+aNS+`/>`), Graphic)
	assert.ErrorIs(t, err, schema.ErrSchemaViolation)

	_, _, err = GraphicPayload(schema.NewElement(GraphicData))
	assert.Error(t, err)
}

func TestShapeStyle(t *testing.T) {
	doc := `<a:style ` + aNS + `>` +
		`<a:lnRef idx="2"><a:schemeClr val="accent1"><a:shade val="50000"/></a:schemeClr></a:lnRef>` +
		`<a:fillRef idx="1"><a:schemeClr val="accent1"/></a:fillRef>` +
		`<a:effectRef idx="0"/>` +
		`<a:fontRef idx="minor"><a:schemeClr val="lt1"/></a:fontRef>` +
		`</a:style>`
	e, err := schema.Unmarshal([]byte(doc), ShapeStyleNode)
	require.NoError(t, err)
	roundTrip(t, e, ShapeStyleNode)

	s, err := ShapeStyleFromElement(e)
	require.NoError(t, err)
	line := Scheme("accent1", Transform("shade", 50000))
	fill := Scheme("accent1")
	font := Scheme("lt1")
	assert.Equal(t, ShapeStyle{
		Line:   StyleRef{Index: 2, Color: &line},
		Fill:   StyleRef{Index: 1, Color: &fill},
		Effect: StyleRef{Index: 0},
		Font:   FontStyleRef{Index: "minor", Color: &font},
	}, s)

	built := s.Element()
	require.NoError(t, schema.Validate(built))
	assert.True(t, schema.Equal(e, built))

	_, err = ShapeStyleFromElement(schema.NewElement(Graphic))
	assert.Error(t, err)
}

func TestShapeStyleSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad font index", `<a:lnRef idx="0"/><a:fillRef idx="0"/><a:effectRef idx="0"/><a:fontRef idx="body"/>`},
		{"missing fontRef", `<a:lnRef idx="0"/><a:fillRef idx="0"/><a:effectRef idx="0"/>`},
		{"two colors", `<a:lnRef idx="0"><a:srgbClr val="000000"/><a:srgbClr val="FFFFFF"/></a:lnRef><a:fillRef idx="0"/><a:effectRef idx="0"/><a:fontRef idx="none"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Unmarshal([]byte(`<a:style `+aNS+`>`+tt.body+`</a:style>`), ShapeStyleNode)
			require.Error(t, err)
			assert.True(t, schema.IsSchemaError(err), err.Error())
		})
	}
}

func TestObjectDefaultsStyle(t *testing.T) {
	doc := `<a:spDef ` + aNS + `><a:spPr/><a:bodyPr/><a:lstStyle/>` +
		`<a:style><a:lnRef idx="1"/><a:fillRef idx="3"/><a:effectRef idx="2"/><a:fontRef idx="minor"/></a:style>` +
		`</a:spDef>`
	e, err := schema.Unmarshal([]byte(doc), shapeDefault)
	require.NoError(t, err)
	style := e.Child("style")
	require.NotNil(t, style)
	assert.False(t, style.Opaque())

	s, err := ShapeStyleFromElement(style)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Fill.Index)
	assert.Nil(t, s.Fill.Color)
}

func TestColorMapOverride(t *testing.T) {
	mapping := `bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
		`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"`

	master, err := schema.Unmarshal([]byte(`<a:clrMapOvr `+aNS+`><a:masterClrMapping/></a:clrMapOvr>`), ColorMapOverride)
	require.NoError(t, err)
	m, err := ColorMapOverrideFromElement(master)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.True(t, schema.Equal(master, NewColorMapOverride(nil)))

	override, err := schema.Unmarshal([]byte(`<a:clrMapOvr `+aNS+`><a:overrideClrMapping `+mapping+`/></a:clrMapOvr>`), ColorMapOverride)
	require.NoError(t, err)
	roundTrip(t, override, ColorMapOverride)
	m, err = ColorMapOverrideFromElement(override)
	require.NoError(t, err)
	assert.Len(t, m, 12)
	assert.Equal(t, "lt1", m["bg1"])
	assert.Equal(t, "folHlink", m["folHlink"])

	built := NewColorMapOverride(m)
	require.NoError(t, schema.Validate(built))
	assert.True(t, schema.Equal(override, built))

	clrMap, err := schema.Unmarshal([]byte(`<a:clrMap `+aNS+` `+mapping+`/>`), ColorMap)
	require.NoError(t, err)
	fromMap, err := ColorMapFromElement(clrMap)
	require.NoError(t, err)
	assert.Equal(t, m, fromMap)

	for name, doc := range map[string]string{
		"both mappings": `<a:clrMapOvr ` + aNS + `><a:masterClrMapping/><a:overrideClrMapping ` + mapping + `/></a:clrMapOvr>`,
		"no mapping":    `<a:clrMapOvr ` + aNS + `/>`,
		"bad alias":     `<a:clrMapOvr ` + aNS + `><a:overrideClrMapping ` + mapping[:len(mapping)-len(`folHlink="folHlink"`)] + `folHlink="bg1"/></a:clrMapOvr>`,
	} {
		_, err := schema.Unmarshal([]byte(doc), ColorMapOverride)
		assert.True(t, schema.IsSchemaError(err), name)
	}

	_, err = ColorMapOverrideFromElement(clrMap)
	assert.Error(t, err)
}
