package drawingml

import (
	"fmt"
	"math"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

// URIs carried by a:graphicData for the common graphic frame payloads.
const (
	GraphicDataChart   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	GraphicDataPicture = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	GraphicDataTable   = "http://schemas.openxmlformats.org/drawingml/2006/table"
	GraphicDataDiagram = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
)

// lockAttrs are the attributes of AG_Locking.
var lockAttrs = []string{
	"noGrp", "noSelect", "noRot", "noChangeAspect", "noMove", "noResize", "noEditPoints",
	"noAdjustHandles", "noChangeArrowheads", "noChangeShapeType",
}

func boolAttrs(names ...string) []schema.AttrDecl {
	out := make([]schema.AttrDecl, len(names))
	for i, n := range names {
		out[i] = schema.Attr(n, schema.Bool)
	}
	return out
}

func locks(local string, names ...string) *schema.Node {
	return node(local, opt(ExtensionList), boolAttrs(names...)...)
}

func connection(local string) *schema.Node {
	return emptyNode(local,
		schema.RequiredAttr("id", DrawingElementID),
		schema.RequiredAttr("idx", schema.IntRange("unsignedInt", 0, math.MaxUint32)),
	)
}

// Non-visual properties.
var (
	HyperlinkHover = hyperlink("hlinkHover")

	NonVisualDrawingProps = node("cNvPr",
		schema.Seq(opt(HyperlinkClick), opt(HyperlinkHover), opt(ExtensionList)),
		schema.RequiredAttr("id", DrawingElementID),
		schema.RequiredAttr("name", schema.String),
		schema.Attr("descr", schema.String),
		schema.Attr("hidden", schema.Bool),
		schema.Attr("title", schema.String),
	)

	ShapeLocks        = locks("spLocks", append(lockAttrs[:len(lockAttrs):len(lockAttrs)], "noTextEdit")...)
	GroupShapeLocks   = locks("grpSpLocks", "noGrp", "noUngrp", "noSelect", "noRot", "noChangeAspect", "noMove", "noResize")
	GraphicFrameLocks = locks("graphicFrameLocks", "noGrp", "noDrilldown", "noSelect", "noChangeAspect", "noMove", "noResize")
	ConnectorLocks    = locks("cxnSpLocks", lockAttrs...)
	PictureLocks      = locks("picLocks", append(lockAttrs[:len(lockAttrs):len(lockAttrs)], "noCrop")...)

	StartConnection = connection("stCxn")
	EndConnection   = connection("endCxn")

	NonVisualShapeProps = node("cNvSpPr",
		schema.Seq(opt(ShapeLocks), opt(ExtensionList)),
		schema.Attr("txBox", schema.Bool),
	)
	NonVisualGroupProps        = node("cNvGrpSpPr", schema.Seq(opt(GroupShapeLocks), opt(ExtensionList)))
	NonVisualGraphicFrameProps = node("cNvGraphicFramePr", schema.Seq(opt(GraphicFrameLocks), opt(ExtensionList)))
	NonVisualConnectorProps    = node("cNvCxnSpPr",
		schema.Seq(opt(ConnectorLocks), opt(StartConnection), opt(EndConnection), opt(ExtensionList)),
	)
	NonVisualPictureProps = node("cNvPicPr",
		schema.Seq(opt(PictureLocks), opt(ExtensionList)),
		schema.Attr("preferRelativeResize", schema.Bool),
	)
)

// Graphic frames. The payload of a:graphicData belongs to the namespace named by its
// uri and is kept opaque.
var (
	GraphicData = emptyNode("graphicData", schema.RequiredAttr("uri", schema.String))
	Graphic     = node("graphic", schema.El(GraphicData))
)

// Shape style references.
var (
	LineRef   = styleRef("lnRef")
	FillRef   = styleRef("fillRef")
	EffectRef = styleRef("effectRef")
	FontRef   = node("fontRef", schema.Opt(ColorChoice), schema.RequiredAttr("idx", FontCollectionIndex))

	ShapeStyleNode = node("style", schema.Seq(els(LineRef, FillRef, EffectRef, FontRef)...))
)

func styleRef(local string) *schema.Node {
	return node(local, schema.Opt(ColorChoice), schema.RequiredAttr("idx", StyleMatrixColumnIndex))
}

// Color mapping overrides.
var (
	MasterColorMapping   = emptyNode("masterClrMapping")
	OverrideColorMapping = colorMapping("overrideClrMapping")
	ColorMapOverride     = node("clrMapOvr", schema.OneOf(els(MasterColorMapping, OverrideColorMapping)...))
)

// NonVisualProperties is the typed view of a:cNvPr. Hyperlinks and extensions are
// not part of the view.
type NonVisualProperties struct {
	ID          int64
	Name        string
	Description string
	Title       string
	Hidden      bool
}

// NonVisualPropertiesFromElement reads a:cNvPr.
func NonVisualPropertiesFromElement(e *schema.Element) (NonVisualProperties, error) {
	if !isNode(e, NonVisualDrawingProps) {
		return NonVisualProperties{}, fmt.Errorf("drawingml: %s is not cNvPr", elementName(e))
	}
	id, ok := e.Int("id")
	if !ok {
		return NonVisualProperties{}, fmt.Errorf("drawingml: cNvPr has no id")
	}
	return NonVisualProperties{
		ID:          id,
		Name:        e.String("name"),
		Description: e.String("descr"),
		Title:       e.String("title"),
		Hidden:      e.Bool("hidden", false),
	}, nil
}

// Element builds a:cNvPr. Empty optional fields are left out.
func (p NonVisualProperties) Element() *schema.Element {
	e := schema.NewElement(NonVisualDrawingProps).SetAttr("id", p.ID).SetAttr("name", p.Name)
	if p.Description != "" {
		e.SetAttr("descr", p.Description)
	}
	if p.Hidden {
		e.SetAttr("hidden", true)
	}
	if p.Title != "" {
		e.SetAttr("title", p.Title)
	}
	return e
}

// Locks returns the lock flags set on a locking element such as a:spLocks, keyed by
// attribute name. A nil element has no locks.
func Locks(e *schema.Element) map[string]bool {
	out := make(map[string]bool)
	if e == nil {
		return out
	}
	for _, a := range e.Attrs {
		if b, ok := a.Value.(bool); ok {
			out[a.Name.Local] = b
		}
	}
	return out
}

// NewGraphic builds a:graphic around a payload identified by uri.
func NewGraphic(uri string, payload ...*schema.Element) *schema.Element {
	data := schema.NewElement(GraphicData).SetAttr("uri", uri).Append(payload...)
	return schema.NewElement(Graphic).Append(data)
}

// GraphicPayload returns the uri and the payload elements of a:graphic.
func GraphicPayload(e *schema.Element) (string, []*schema.Element, error) {
	if !isNode(e, Graphic) {
		return "", nil, fmt.Errorf("drawingml: %s is not graphic", elementName(e))
	}
	data := e.Child("graphicData")
	if data == nil {
		return "", nil, fmt.Errorf("drawingml: graphic has no graphicData")
	}
	return data.String("uri"), data.Children, nil
}

// StyleRef is a style matrix reference such as a:lnRef. Color is nil when the
// reference keeps the theme's color.
type StyleRef struct {
	Index int64
	Color *Color
}

// FontStyleRef is a:fontRef. Index is major, minor or none.
type FontStyleRef struct {
	Index string
	Color *Color
}

// ShapeStyle is the typed view of a:style.
type ShapeStyle struct {
	Line   StyleRef
	Fill   StyleRef
	Effect StyleRef
	Font   FontStyleRef
}

func refColor(e *schema.Element) (*Color, error) {
	for _, c := range e.Children {
		if _, ok := colorKind(c); ok {
			color, err := ColorFromElement(c)
			if err != nil {
				return nil, err
			}
			return &color, nil
		}
	}
	return nil, nil
}

// ShapeStyleFromElement reads a:style.
func ShapeStyleFromElement(e *schema.Element) (ShapeStyle, error) {
	if !isNode(e, ShapeStyleNode) {
		return ShapeStyle{}, fmt.Errorf("drawingml: %s is not a shape style", elementName(e))
	}
	var s ShapeStyle
	for _, r := range []struct {
		local string
		ref   *StyleRef
	}{{"lnRef", &s.Line}, {"fillRef", &s.Fill}, {"effectRef", &s.Effect}} {
		c := e.Child(r.local)
		if c == nil {
			return ShapeStyle{}, fmt.Errorf("drawingml: style has no %s", r.local)
		}
		r.ref.Index, _ = c.Int("idx")
		color, err := refColor(c)
		if err != nil {
			return ShapeStyle{}, fmt.Errorf("drawingml: style %s: %w", r.local, err)
		}
		r.ref.Color = color
	}
	font := e.Child("fontRef")
	if font == nil {
		return ShapeStyle{}, fmt.Errorf("drawingml: style has no fontRef")
	}
	s.Font.Index = font.String("idx")
	color, err := refColor(font)
	if err != nil {
		return ShapeStyle{}, fmt.Errorf("drawingml: style fontRef: %w", err)
	}
	s.Font.Color = color
	return s, nil
}

// Element builds a:style.
func (s ShapeStyle) Element() *schema.Element {
	ref := func(n *schema.Node, idx any, c *Color) *schema.Element {
		e := schema.NewElement(n).SetAttr("idx", idx)
		if c != nil {
			e.Append(c.Element())
		}
		return e
	}
	return schema.NewElement(ShapeStyleNode).Append(
		ref(LineRef, s.Line.Index, s.Line.Color),
		ref(FillRef, s.Fill.Index, s.Fill.Color),
		ref(EffectRef, s.Effect.Index, s.Effect.Color),
		ref(FontRef, s.Font.Index, s.Font.Color),
	)
}

// ColorMapFromElement reads the aliases of a:clrMap or a:overrideClrMapping.
func ColorMapFromElement(e *schema.Element) (map[string]string, error) {
	if !isNode(e, ColorMap) && !isNode(e, OverrideColorMapping) {
		return nil, fmt.Errorf("drawingml: %s is not a color mapping", elementName(e))
	}
	out := make(map[string]string, len(ColorMapAliases))
	for _, a := range ColorMapAliases {
		if v := e.String(a); v != "" {
			out[a] = v
		}
	}
	return out, nil
}

// ColorMapOverrideFromElement reads a:clrMapOvr. It returns nil when the master
// mapping applies.
func ColorMapOverrideFromElement(e *schema.Element) (map[string]string, error) {
	if !isNode(e, ColorMapOverride) {
		return nil, fmt.Errorf("drawingml: %s is not clrMapOvr", elementName(e))
	}
	if o := e.Child("overrideClrMapping"); o != nil {
		return ColorMapFromElement(o)
	}
	if e.Child("masterClrMapping") == nil {
		return nil, fmt.Errorf("drawingml: clrMapOvr has no mapping")
	}
	return nil, nil
}

// NewColorMapOverride builds a:clrMapOvr. A nil mapping selects the master mapping.
func NewColorMapOverride(m map[string]string) *schema.Element {
	e := schema.NewElement(ColorMapOverride)
	if m == nil {
		return e.Append(schema.NewElement(MasterColorMapping))
	}
	o := schema.NewElement(OverrideColorMapping)
	for _, a := range ColorMapAliases {
		if v, ok := m[a]; ok {
			o.SetAttr(a, v)
		}
	}
	return e.Append(o)
}
