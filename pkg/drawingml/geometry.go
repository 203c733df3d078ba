package drawingml

import (
	"fmt"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

func point(local string) *schema.Node {
	return emptyNode(local, schema.RequiredAttr("x", Coordinate), schema.RequiredAttr("y", Coordinate))
}

func size(local string) *schema.Node {
	return emptyNode(local, schema.RequiredAttr("cx", PositiveCoordinate), schema.RequiredAttr("cy", PositiveCoordinate))
}

var (
	Offset      = point("off")
	Extents     = size("ext")
	ChildOffset = point("chOff")
	ChildExtent = size("chExt")

	xfrmAttrs = []schema.AttrDecl{
		schema.Attr("rot", Angle),
		schema.Attr("flipH", schema.Bool),
		schema.Attr("flipV", schema.Bool),
	}

	// Transform2DNode is the a:xfrm of a shape.
	Transform2DNode = node("xfrm", schema.Seq(opt(Offset), opt(Extents)), xfrmAttrs...)
	// GroupTransform2D is the a:xfrm of a group, which also maps child coordinates.
	GroupTransform2D = node("xfrm",
		schema.Seq(opt(Offset), opt(Extents), opt(ChildOffset), opt(ChildExtent)),
		xfrmAttrs...)
)

// Shape guides and preset geometry.
var (
	GeomGuide = emptyNode("gd",
		schema.RequiredAttr("name", GeomGuideName),
		schema.RequiredAttr("fmla", GeomGuideFormula),
	)
	AdjustValueList = node("avLst", schema.ZeroOrMore(schema.El(GeomGuide)))
	GeomGuideList   = node("gdLst", schema.ZeroOrMore(schema.El(GeomGuide)))

	PresetGeometry = node("prstGeom", opt(AdjustValueList), schema.RequiredAttr("prst", ShapeType))
)

func adjPoint(local string) *schema.Node {
	return emptyNode(local, schema.RequiredAttr("x", AdjCoordinate), schema.RequiredAttr("y", AdjCoordinate))
}

// Custom geometry.
var (
	handlePos = adjPoint("pos")
	pathPoint = adjPoint("pt")

	xyHandle = node("ahXY", schema.El(handlePos),
		schema.Attr("gdRefX", GeomGuideName),
		schema.Attr("minX", AdjCoordinate),
		schema.Attr("maxX", AdjCoordinate),
		schema.Attr("gdRefY", GeomGuideName),
		schema.Attr("minY", AdjCoordinate),
		schema.Attr("maxY", AdjCoordinate),
	)
	polarHandle = node("ahPolar", schema.El(handlePos),
		schema.Attr("gdRefR", GeomGuideName),
		schema.Attr("minR", AdjCoordinate),
		schema.Attr("maxR", AdjCoordinate),
		schema.Attr("gdRefAng", GeomGuideName),
		schema.Attr("minAng", AdjAngle),
		schema.Attr("maxAng", AdjAngle),
	)
	handleList = node("ahLst", schema.ChoiceOf(0, schema.Unbounded, schema.El(xyHandle), schema.El(polarHandle)))

	connectionSite = node("cxn", schema.El(handlePos), schema.RequiredAttr("ang", AdjAngle))
	connectionList = node("cxnLst", schema.ZeroOrMore(schema.El(connectionSite)))

	textRect = emptyNode("rect",
		schema.RequiredAttr("l", AdjCoordinate),
		schema.RequiredAttr("t", AdjCoordinate),
		schema.RequiredAttr("r", AdjCoordinate),
		schema.RequiredAttr("b", AdjCoordinate),
	)

	pathClose  = emptyNode("close")
	pathMoveTo = node("moveTo", schema.El(pathPoint))
	pathLnTo   = node("lnTo", schema.El(pathPoint))
	pathArcTo  = emptyNode("arcTo",
		schema.RequiredAttr("wR", AdjCoordinate),
		schema.RequiredAttr("hR", AdjCoordinate),
		schema.RequiredAttr("stAng", AdjAngle),
		schema.RequiredAttr("swAng", AdjAngle),
	)
	pathQuadBezTo  = node("quadBezTo", schema.Times(schema.El(pathPoint), 2, 2))
	pathCubicBezTo = node("cubicBezTo", schema.Times(schema.El(pathPoint), 3, 3))

	Path2D = node("path",
		schema.ChoiceOf(0, schema.Unbounded, els(pathClose, pathMoveTo, pathLnTo, pathArcTo, pathQuadBezTo, pathCubicBezTo)...),
		schema.Attr("w", PositiveCoordinate),
		schema.Attr("h", PositiveCoordinate),
		schema.Attr("fill", PathFillMode),
		schema.Attr("stroke", schema.Bool),
		schema.Attr("extrusionOk", schema.Bool),
	)
	Path2DList = node("pathLst", schema.ZeroOrMore(schema.El(Path2D)))

	CustomGeometry = node("custGeom", schema.Seq(
		opt(AdjustValueList),
		opt(GeomGuideList),
		opt(handleList),
		opt(connectionList),
		opt(textRect),
		schema.El(Path2DList),
	))
)

// Geometry is the choice between custom and preset geometry.
var Geometry = schema.OneOf(schema.El(CustomGeometry), schema.El(PresetGeometry))

// Point is a position in EMUs.
type Point struct {
	X, Y int64
}

// Size is an extent in EMUs.
type Size struct {
	Width, Height int64
}

// Transform2D is the typed view of a:xfrm. Rotation is in 60000ths of a degree.
// Offset and Extent are nil when the element omits them.
type Transform2D struct {
	Rotation     int64
	FlipH, FlipV bool
	Offset       *Point
	Extent       *Size
}

// Transform2DFromElement reads an a:xfrm element, including the group form.
func Transform2DFromElement(e *schema.Element) (Transform2D, error) {
	if e == nil || e.Name.Local != "xfrm" {
		return Transform2D{}, fmt.Errorf("drawingml: not an xfrm element")
	}
	t := Transform2D{
		FlipH: e.Bool("flipH", false),
		FlipV: e.Bool("flipV", false),
	}
	t.Rotation, _ = e.Int("rot")
	if off := e.Child("off"); off != nil {
		x, okX := off.Int("x")
		y, okY := off.Int("y")
		if !okX || !okY {
			return t, fmt.Errorf("drawingml: xfrm offset needs x and y")
		}
		t.Offset = &Point{X: x, Y: y}
	}
	if ext := e.Child("ext"); ext != nil {
		cx, okX := ext.Int("cx")
		cy, okY := ext.Int("cy")
		if !okX || !okY {
			return t, fmt.Errorf("drawingml: xfrm extent needs cx and cy")
		}
		t.Extent = &Size{Width: cx, Height: cy}
	}
	return t, nil
}

// Element builds the a:xfrm of a shape. Default attribute values are omitted.
func (t Transform2D) Element() *schema.Element {
	e := schema.NewElement(Transform2DNode)
	if t.Rotation != 0 {
		e.SetAttr("rot", t.Rotation)
	}
	if t.FlipH {
		e.SetAttr("flipH", true)
	}
	if t.FlipV {
		e.SetAttr("flipV", true)
	}
	if t.Offset != nil {
		e.Append(schema.NewElement(Offset).SetAttr("x", t.Offset.X).SetAttr("y", t.Offset.Y))
	}
	if t.Extent != nil {
		e.Append(schema.NewElement(Extents).SetAttr("cx", t.Extent.Width).SetAttr("cy", t.Extent.Height))
	}
	return e
}
