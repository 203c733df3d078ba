package drawingml

import (
	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

func relativeRect(local string) *schema.Node {
	return emptyNode(local,
		schema.Attr("l", Percentage),
		schema.Attr("t", Percentage),
		schema.Attr("r", Percentage),
		schema.Attr("b", Percentage),
	)
}

// Fills.
var (
	NoFill    = emptyNode("noFill")
	SolidFill = node("solidFill", schema.Opt(ColorChoice))
	GroupFill = emptyNode("grpFill")

	gradientStop     = node("gs", ColorChoice, schema.RequiredAttr("pos", PositiveFixedPercentage))
	gradientStopList = node("gsLst", schema.Times(schema.El(gradientStop), 2, schema.Unbounded))
	linearShade      = emptyNode("lin", schema.Attr("ang", PositiveFixedAngle), schema.Attr("scaled", schema.Bool))
	fillToRect       = relativeRect("fillToRect")
	pathShade        = node("path", opt(fillToRect), schema.Attr("path", PathShadeType))
	tileRect         = relativeRect("tileRect")

	GradientFill = node("gradFill",
		schema.Seq(opt(gradientStopList), schema.Opt(schema.OneOf(schema.El(linearShade), schema.El(pathShade))), opt(tileRect)),
		schema.Attr("flip", TileFlipMode),
		schema.Attr("rotWithShape", schema.Bool),
	)

	PatternFill = node("pattFill",
		schema.Seq(opt(ColorNode("fgClr")), opt(ColorNode("bgClr"))),
		schema.Attr("prst", PresetPatternVal),
	)
)

// Blip effects and blip fill.
var (
	blurEffect = emptyNode("blur", schema.Attr("rad", PositiveCoordinate), schema.Attr("grow", schema.Bool))

	alphaModFix = emptyNode("alphaModFix", schema.Attr("amt", PositivePercentage))
	biLevel     = emptyNode("biLevel", schema.RequiredAttr("thresh", PositiveFixedPercentage))
	grayscale   = emptyNode("grayscl")
	luminance   = emptyNode("lum", schema.Attr("bright", FixedPercentage), schema.Attr("contrast", FixedPercentage))
	duotone     = node("duotone", schema.Times(ColorChoice, 2, 2))
	colorChange = node("clrChange",
		schema.Seq(schema.El(ColorNode("clrFrom")), schema.El(ColorNode("clrTo"))),
		schema.Attr("useA", schema.Bool),
	)

	Blip = node("blip",
		schema.Seq(
			schema.ChoiceOf(0, schema.Unbounded, els(alphaModFix, biLevel, blurEffect, colorChange, duotone, grayscale, luminance)...),
			opt(ExtensionList),
		),
		relAttr("embed"),
		relAttr("link"),
		schema.Attr("cstate", BlipCompression),
	)

	sourceRect = relativeRect("srcRect")
	fillRect   = relativeRect("fillRect")
	tile       = emptyNode("tile",
		schema.Attr("tx", Coordinate),
		schema.Attr("ty", Coordinate),
		schema.Attr("sx", Percentage),
		schema.Attr("sy", Percentage),
		schema.Attr("flip", TileFlipMode),
		schema.Attr("algn", RectAlignment),
	)
	stretch = node("stretch", opt(fillRect))

	BlipFill = node("blipFill",
		schema.Seq(opt(Blip), opt(sourceRect), schema.Opt(schema.OneOf(schema.El(tile), schema.El(stretch)))),
		schema.Attr("dpi", schema.Int),
		schema.Attr("rotWithShape", schema.Bool),
	)
)

// FillChoice is EG_FillProperties.
var FillChoice = schema.OneOf(els(NoFill, SolidFill, GradientFill, BlipFill, PatternFill, GroupFill)...)

// lineFill is EG_LineFillProperties.
var lineFill = schema.OneOf(els(NoFill, SolidFill, GradientFill, PatternFill)...)

// Lines.
var (
	presetDash = valNode("prstDash", PresetLineDashVal)
	dashStop   = emptyNode("ds", schema.RequiredAttr("d", PositivePercentage), schema.RequiredAttr("sp", PositivePercentage))
	customDash = node("custDash", schema.ZeroOrMore(schema.El(dashStop)))

	roundJoin = emptyNode("round")
	bevelJoin = emptyNode("bevel")
	miterJoin = emptyNode("miter", schema.Attr("lim", PositivePercentage))

	headEnd = lineEnd("headEnd")
	tailEnd = lineEnd("tailEnd")

	// Line is a:ln.
	Line = lineNode("ln")
)

func lineEnd(local string) *schema.Node {
	return emptyNode(local,
		schema.Attr("type", LineEndType),
		schema.Attr("w", LineEndWidth),
		schema.Attr("len", LineEndLength),
	)
}

// lineNode returns CT_LineProperties under another name, as a:uLn uses it.
func lineNode(local string) *schema.Node {
	return node(local,
		schema.Seq(
			schema.Opt(lineFill),
			schema.Opt(schema.OneOf(schema.El(presetDash), schema.El(customDash))),
			schema.Opt(schema.OneOf(els(roundJoin, bevelJoin, miterJoin)...)),
			opt(headEnd),
			opt(tailEnd),
			opt(ExtensionList),
		),
		schema.Attr("w", LineWidth),
		schema.Attr("cap", LineCap),
		schema.Attr("cmpd", CompoundLine),
		schema.Attr("algn", PenAlignment),
	)
}

// Effects. a:effectDag is not declared and is kept opaque.
var (
	fillOverlay = node("fillOverlay", FillChoice, schema.RequiredAttr("blend", BlendMode))
	glow        = node("glow", ColorChoice, schema.Attr("rad", PositiveCoordinate))
	innerShadow = node("innerShdw", ColorChoice,
		schema.Attr("blurRad", PositiveCoordinate),
		schema.Attr("dist", PositiveCoordinate),
		schema.Attr("dir", PositiveFixedAngle),
	)
	outerShadow = node("outerShdw", ColorChoice,
		schema.Attr("blurRad", PositiveCoordinate),
		schema.Attr("dist", PositiveCoordinate),
		schema.Attr("dir", PositiveFixedAngle),
		schema.Attr("sx", Percentage),
		schema.Attr("sy", Percentage),
		schema.Attr("kx", FixedAngle),
		schema.Attr("ky", FixedAngle),
		schema.Attr("algn", RectAlignment),
		schema.Attr("rotWithShape", schema.Bool),
	)
	presetShadow = node("prstShdw", ColorChoice,
		schema.RequiredAttr("prst", PresetShadowVal),
		schema.Attr("dist", PositiveCoordinate),
		schema.Attr("dir", PositiveFixedAngle),
	)
	reflection = emptyNode("reflection",
		schema.Attr("blurRad", PositiveCoordinate),
		schema.Attr("stA", PositiveFixedPercentage),
		schema.Attr("stPos", PositiveFixedPercentage),
		schema.Attr("endA", PositiveFixedPercentage),
		schema.Attr("endPos", PositiveFixedPercentage),
		schema.Attr("dist", PositiveCoordinate),
		schema.Attr("dir", PositiveFixedAngle),
		schema.Attr("fadeDir", PositiveFixedAngle),
		schema.Attr("sx", Percentage),
		schema.Attr("sy", Percentage),
		schema.Attr("kx", FixedAngle),
		schema.Attr("ky", FixedAngle),
		schema.Attr("algn", RectAlignment),
		schema.Attr("rotWithShape", schema.Bool),
	)
	softEdge = emptyNode("softEdge", schema.RequiredAttr("rad", PositiveCoordinate))

	EffectList = node("effectLst", schema.Seq(
		opt(blurEffect),
		opt(fillOverlay),
		opt(glow),
		opt(innerShadow),
		opt(outerShadow),
		opt(presetShadow),
		opt(reflection),
		opt(softEdge),
	))
)

// ShapePropertiesContent is the content of CT_ShapeProperties. Host vocabularies reuse
// it for their own spPr elements.
var ShapePropertiesContent = schema.Seq(
	opt(Transform2DNode),
	schema.Opt(Geometry),
	schema.Opt(FillChoice),
	opt(Line),
	opt(EffectList),
	opt(ExtensionList),
)

// ShapeProperties is a:spPr.
var ShapeProperties = node("spPr", ShapePropertiesContent, schema.Attr("bwMode", BlackWhiteMode))
