package drawingml

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

// percentCodec decodes ST_Percentage and its restrictions. Values are thousandths of
// a percent; the strict "12.5%" spelling is accepted and converted.
type percentCodec struct {
	name     string
	min, max int64
}

func percentRange(name string, min, max int64) schema.Codec {
	return percentCodec{name: name, min: min, max: max}
}

func (c percentCodec) Name() string { return c.name }

func (c percentCodec) Decode(s string) (any, error) {
	s = strings.TrimSpace(s)
	var n int64
	if rest, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a percentage", s)
		}
		n = int64(math.Round(f * 1000))
	} else {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a percentage", s)
		}
		n = v
	}
	if n < c.min || n > c.max {
		return nil, fmt.Errorf("%d is outside [%d, %d]", n, c.min, c.max)
	}
	return n, nil
}

func (c percentCodec) Encode(v any) string {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	default:
		panic(fmt.Sprintf("drawingml: %s codec cannot encode %T", c.Name(), v))
	}
	return strconv.FormatInt(n, 10)
}

// adjCodec decodes ST_AdjCoordinate and ST_AdjAngle: a number, or the name of a
// shape guide. Numbers decode to int64 and guide names stay strings.
type adjCodec struct {
	name   string
	number schema.Codec
}

func (c adjCodec) Name() string { return c.name }

func (c adjCodec) Decode(s string) (any, error) {
	if v, err := c.number.Decode(s); err == nil {
		return v, nil
	}
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return nil, fmt.Errorf("%q is neither a number nor a guide name", s)
	}
	return s, nil
}

func (c adjCodec) Encode(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return c.number.Encode(v)
}

const maxInt32 = math.MaxInt32

// Numeric simple types. Percentages and angles are int64 in thousandths of a percent
// and 60000ths of a degree.
var (
	Percentage              = percentRange("Percentage", math.MinInt32, maxInt32)
	PositivePercentage      = percentRange("PositivePercentage", 0, maxInt32)
	FixedPercentage         = percentRange("FixedPercentage", -100000, 100000)
	PositiveFixedPercentage = percentRange("PositiveFixedPercentage", 0, 100000)

	Angle              = schema.IntRange("Angle", math.MinInt32, maxInt32)
	FixedAngle         = schema.IntRange("FixedAngle", -5400000, 5400000)
	PositiveFixedAngle = schema.IntRange("PositiveFixedAngle", 0, 21599999)
	FOVAngle           = schema.IntRange("FOVAngle", 0, 10800000)

	Coordinate           = schema.Coordinate
	PositiveCoordinate   = schema.PositiveCoordinate
	Coordinate32         = schema.CoordinateRange("Coordinate32", math.MinInt32, maxInt32)
	PositiveCoordinate32 = schema.CoordinateRange("PositiveCoordinate32", 0, maxInt32)
	LineWidth            = schema.CoordinateRange("LineWidth", 0, 20116800)

	AdjCoordinate schema.Codec = adjCodec{name: "AdjCoordinate", number: schema.Coordinate}
	AdjAngle      schema.Codec = adjCodec{name: "AdjAngle", number: Angle}

	TextFontSize          = schema.IntRange("TextFontSize", 100, 400000)
	TextPoint             = schema.IntRange("TextPoint", -400000, 400000)
	TextNonNegativePoint  = schema.IntRange("TextNonNegativePoint", 0, 400000)
	TextMargin            = schema.CoordinateRange("TextMargin", 0, 51206400)
	TextIndent            = schema.CoordinateRange("TextIndent", -51206400, 51206400)
	TextIndentLevel       = schema.IntRange("TextIndentLevel", 0, 8)
	TextBulletSizePercent = percentRange("TextBulletSizePercent", 25000, 400000)
	TextBulletStartAtNum  = schema.IntRange("TextBulletStartAtNum", 1, 32767)
	TextSpacingPoint      = schema.IntRange("TextSpacingPoint", 0, 158400)
	TextSpacingPercent    = percentRange("TextSpacingPercent", 0, 13200000)
	TextFontScalePercent  = percentRange("TextFontScalePercent", 1000, 100000)
	TextColumnCount       = schema.IntRange("TextColumnCount", 1, 16)
	TextTypeface          = schema.String
	TextLanguageID        = schema.String
	PitchFamily           = schema.IntRange("PitchFamily", math.MinInt8, math.MaxInt8)
	Panose                = schema.String

	// GUID is the braced form used by field ids.
	GUID = schema.String
)

// Enumerations.
var (
	// SchemeColorVal names a theme color slot or a mapped alias such as bg1.
	SchemeColorVal = schema.Enum("SchemeColorVal",
		"bg1", "tx1", "bg2", "tx2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
		"hlink", "folHlink", "phClr", "dk1", "lt1", "dk2", "lt2",
	)
	// SystemColorVal names an operating system color.
	SystemColorVal = schema.Enum("SystemColorVal",
		"scrollBar", "background", "activeCaption", "inactiveCaption", "menu", "window", "windowFrame",
		"menuText", "windowText", "captionText", "activeBorder", "inactiveBorder", "appWorkspace",
		"highlight", "highlightText", "btnFace", "btnShadow", "grayText", "btnText", "inactiveCaptionText",
		"btnHighlight", "3dDkShadow", "3dLight", "infoText", "infoBk", "hotLight", "gradientActiveCaption",
		"gradientInactiveCaption", "menuHighlight", "menubar",
	)
	// PresetColorVal names one of the preset CSS style colors.
	PresetColorVal = schema.Enum("PresetColorVal",
		"aliceBlue", "antiqueWhite", "aqua", "aquamarine", "azure", "beige", "bisque", "black",
		"blanchedAlmond", "blue", "blueViolet", "brown", "burlyWood", "cadetBlue", "chartreuse",
		"chocolate", "coral", "cornflowerBlue", "cornsilk", "crimson", "cyan", "darkBlue", "darkCyan",
		"darkGoldenrod", "darkGray", "darkGrey", "darkGreen", "darkKhaki", "darkMagenta", "darkOliveGreen",
		"darkOrange", "darkOrchid", "darkRed", "darkSalmon", "darkSeaGreen", "darkSlateBlue",
		"darkSlateGray", "darkSlateGrey", "darkTurquoise", "darkViolet", "dkBlue", "dkCyan", "dkGoldenrod",
		"dkGray", "dkGrey", "dkGreen", "dkKhaki", "dkMagenta", "dkOliveGreen", "dkOrange", "dkOrchid",
		"dkRed", "dkSalmon", "dkSeaGreen", "dkSlateBlue", "dkSlateGray", "dkSlateGrey", "dkTurquoise",
		"dkViolet", "deepPink", "deepSkyBlue", "dimGray", "dimGrey", "dodgerBlue", "firebrick",
		"floralWhite", "forestGreen", "fuchsia", "gainsboro", "ghostWhite", "gold", "goldenrod", "gray",
		"grey", "green", "greenYellow", "honeydew", "hotPink", "indianRed", "indigo", "ivory", "khaki",
		"lavender", "lavenderBlush", "lawnGreen", "lemonChiffon", "lightBlue", "lightCoral", "lightCyan",
		"lightGoldenrodYellow", "lightGray", "lightGrey", "lightGreen", "lightPink", "lightSalmon",
		"lightSeaGreen", "lightSkyBlue", "lightSlateGray", "lightSlateGrey", "lightSteelBlue",
		"lightYellow", "ltBlue", "ltCoral", "ltCyan", "ltGoldenrodYellow", "ltGray", "ltGrey", "ltGreen",
		"ltPink", "ltSalmon", "ltSeaGreen", "ltSkyBlue", "ltSlateGray", "ltSlateGrey", "ltSteelBlue",
		"ltYellow", "lime", "limeGreen", "linen", "magenta", "maroon", "medAquamarine", "medBlue",
		"medOrchid", "medPurple", "medSeaGreen", "medSlateBlue", "medSpringGreen", "medTurquoise",
		"medVioletRed", "mediumAquamarine", "mediumBlue", "mediumOrchid", "mediumPurple", "mediumSeaGreen",
		"mediumSlateBlue", "mediumSpringGreen", "mediumTurquoise", "mediumVioletRed", "midnightBlue",
		"mintCream", "mistyRose", "moccasin", "navajoWhite", "navy", "oldLace", "olive", "oliveDrab",
		"orange", "orangeRed", "orchid", "paleGoldenrod", "paleGreen", "paleTurquoise", "paleVioletRed",
		"papayaWhip", "peachPuff", "peru", "pink", "plum", "powderBlue", "purple", "red", "rosyBrown",
		"royalBlue", "saddleBrown", "salmon", "sandyBrown", "seaGreen", "seaShell", "sienna", "silver",
		"skyBlue", "slateBlue", "slateGray", "slateGrey", "snow", "springGreen", "steelBlue", "tan", "teal",
		"thistle", "tomato", "turquoise", "violet", "wheat", "white", "whiteSmoke", "yellow", "yellowGreen",
	)
	// ColorSchemeIndex names one of the twelve colors of a color scheme.
	ColorSchemeIndex = schema.Enum("ColorSchemeIndex",
		"dk1", "lt1", "dk2", "lt2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
		"hlink", "folHlink",
	)
	// ShapeType names a preset geometry.
	ShapeType = schema.Enum("ShapeType",
		"line", "lineInv", "triangle", "rtTriangle", "rect", "diamond", "parallelogram", "trapezoid",
		"nonIsoscelesTrapezoid", "pentagon", "hexagon", "heptagon", "octagon", "decagon", "dodecagon",
		"star4", "star5", "star6", "star7", "star8", "star10", "star12", "star16", "star24", "star32",
		"roundRect", "round1Rect", "round2SameRect", "round2DiagRect", "snipRoundRect", "snip1Rect",
		"snip2SameRect", "snip2DiagRect", "plaque", "ellipse", "teardrop", "homePlate", "chevron",
		"pieWedge", "pie", "blockArc", "donut", "noSmoking", "rightArrow", "leftArrow", "upArrow",
		"downArrow", "stripedRightArrow", "notchedRightArrow", "bentUpArrow", "leftRightArrow",
		"upDownArrow", "leftUpArrow", "leftRightUpArrow", "quadArrow", "leftArrowCallout",
		"rightArrowCallout", "upArrowCallout", "downArrowCallout", "leftRightArrowCallout",
		"upDownArrowCallout", "quadArrowCallout", "bentArrow", "uturnArrow", "circularArrow",
		"leftCircularArrow", "leftRightCircularArrow", "curvedRightArrow", "curvedLeftArrow",
		"curvedUpArrow", "curvedDownArrow", "swooshArrow", "cube", "can", "lightningBolt", "heart", "sun",
		"moon", "smileyFace", "irregularSeal1", "irregularSeal2", "foldedCorner", "bevel", "frame",
		"halfFrame", "corner", "diagStripe", "chord", "arc", "leftBracket", "rightBracket", "leftBrace",
		"rightBrace", "bracketPair", "bracePair", "straightConnector1", "bentConnector2", "bentConnector3",
		"bentConnector4", "bentConnector5", "curvedConnector2", "curvedConnector3", "curvedConnector4",
		"curvedConnector5", "callout1", "callout2", "callout3", "accentCallout1", "accentCallout2",
		"accentCallout3", "borderCallout1", "borderCallout2", "borderCallout3", "accentBorderCallout1",
		"accentBorderCallout2", "accentBorderCallout3", "wedgeRectCallout", "wedgeRoundRectCallout",
		"wedgeEllipseCallout", "cloudCallout", "cloud", "ribbon", "ribbon2", "ellipseRibbon",
		"ellipseRibbon2", "leftRightRibbon", "verticalScroll", "horizontalScroll", "wave", "doubleWave",
		"plus", "flowChartProcess", "flowChartDecision", "flowChartInputOutput",
		"flowChartPredefinedProcess", "flowChartInternalStorage", "flowChartDocument",
		"flowChartMultidocument", "flowChartTerminator", "flowChartPreparation", "flowChartManualInput",
		"flowChartOperation", "flowChartConnector", "flowChartPunchedCard", "flowChartPunchedTape",
		"flowChartSummingJunction", "flowChartOr", "flowChartCollate", "flowChartSort", "flowChartExtract",
		"flowChartMerge", "flowChartOfflineStorage", "flowChartOnlineStorage", "flowChartMagneticTape",
		"flowChartMagneticDisk", "flowChartMagneticDrum", "flowChartDisplay", "flowChartDelay",
		"flowChartAlternateProcess", "flowChartOffpageConnector", "actionButtonBlank", "actionButtonHome",
		"actionButtonHelp", "actionButtonInformation", "actionButtonForwardNext",
		"actionButtonBackPrevious", "actionButtonEnd", "actionButtonBeginning", "actionButtonReturn",
		"actionButtonDocument", "actionButtonSound", "actionButtonMovie", "gear6", "gear9", "funnel",
		"mathPlus", "mathMinus", "mathMultiply", "mathDivide", "mathEqual", "mathNotEqual", "cornerTabs",
		"squareTabs", "plaqueTabs", "chartX", "chartStar", "chartPlus",
	)
	PresetPatternVal = schema.Enum("PresetPatternVal",
		"pct5", "pct10", "pct20", "pct25", "pct30", "pct40", "pct50", "pct60", "pct70", "pct75", "pct80",
		"pct90", "horz", "vert", "ltHorz", "ltVert", "dkHorz", "dkVert", "narHorz", "narVert", "dashHorz",
		"dashVert", "cross", "dnDiag", "upDiag", "ltDnDiag", "ltUpDiag", "dkDnDiag", "dkUpDiag", "wdDnDiag",
		"wdUpDiag", "dashDnDiag", "dashUpDiag", "diagCross", "smCheck", "lgCheck", "smGrid", "lgGrid",
		"dotGrid", "smConfetti", "lgConfetti", "horzBrick", "diagBrick", "solidDmnd", "openDmnd", "dotDmnd",
		"plaid", "sphere", "weave", "divot", "shingle", "wave", "trellis", "zigZag",
	)
	LineCap = schema.Enum("LineCap",
		"rnd", "sq", "flat",
	)
	CompoundLine = schema.Enum("CompoundLine",
		"sng", "dbl", "thickThin", "thinThick", "tri",
	)
	PenAlignment = schema.Enum("PenAlignment",
		"ctr", "in",
	)
	// PresetLineDashVal names a preset dash pattern.
	PresetLineDashVal = schema.Enum("PresetLineDashVal",
		"solid", "dot", "dash", "lgDash", "dashDot", "lgDashDot", "lgDashDotDot", "sysDash", "sysDot",
		"sysDashDot", "sysDashDotDot",
	)
	LineEndType = schema.Enum("LineEndType",
		"none", "triangle", "stealth", "diamond", "oval", "arrow",
	)
	LineEndWidth = schema.Enum("LineEndWidth",
		"sm", "med", "lg",
	)
	LineEndLength = schema.Enum("LineEndLength",
		"sm", "med", "lg",
	)
	PresetShadowVal = schema.Enum("PresetShadowVal",
		"shdw1", "shdw2", "shdw3", "shdw4", "shdw5", "shdw6", "shdw7", "shdw8", "shdw9", "shdw10", "shdw11",
		"shdw12", "shdw13", "shdw14", "shdw15", "shdw16", "shdw17", "shdw18", "shdw19", "shdw20",
	)
	BlendMode = schema.Enum("BlendMode",
		"over", "mult", "screen", "lighten", "darken",
	)
	TextUnderlineType = schema.Enum("TextUnderlineType",
		"none", "words", "sng", "dbl", "heavy", "dotted", "dottedHeavy", "dash", "dashHeavy", "dashLong",
		"dashLongHeavy", "dotDash", "dotDashHeavy", "dotDotDash", "dotDotDashHeavy", "wavy", "wavyHeavy",
		"wavyDbl",
	)
	TextStrikeType = schema.Enum("TextStrikeType",
		"noStrike", "sngStrike", "dblStrike",
	)
	TextCapsType = schema.Enum("TextCapsType",
		"none", "small", "all",
	)
	TextAlignType = schema.Enum("TextAlignType",
		"l", "ctr", "r", "just", "justLow", "dist", "thaiDist",
	)
	TextFontAlignType = schema.Enum("TextFontAlignType",
		"auto", "t", "ctr", "base", "b",
	)
	TextAnchoringType = schema.Enum("TextAnchoringType",
		"t", "ctr", "b", "just", "dist",
	)
	TextVerticalType = schema.Enum("TextVerticalType",
		"horz", "vert", "vert270", "wordArtVert", "eaVert", "mongolianVert", "wordArtVertRtl",
	)
	TextWrappingType = schema.Enum("TextWrappingType",
		"none", "square",
	)
	// TextAutonumberScheme names an automatic bullet numbering style.
	TextAutonumberScheme = schema.Enum("TextAutonumberScheme",
		"alphaLcParenBoth", "alphaUcParenBoth", "alphaLcParenR", "alphaUcParenR", "alphaLcPeriod",
		"alphaUcPeriod", "arabicParenBoth", "arabicParenR", "arabicPeriod", "arabicPlain",
		"romanLcParenBoth", "romanUcParenBoth", "romanLcParenR", "romanUcParenR", "romanLcPeriod",
		"romanUcPeriod", "circleNumDbPlain", "circleNumWdBlackPlain", "circleNumWdWhitePlain",
		"arabicDbPeriod", "arabicDbPlain", "ea1ChsPeriod", "ea1ChsPlain", "ea1ChtPeriod", "ea1ChtPlain",
		"ea1JpnChsDbPeriod", "ea1JpnKorPlain", "ea1JpnKorPeriod", "arabic1Minus", "arabic2Minus",
		"hebrew2Minus", "thaiAlphaPeriod", "thaiAlphaParenR", "thaiAlphaParenBoth", "thaiNumPeriod",
		"thaiNumParenR", "thaiNumParenBoth", "hindiAlphaPeriod", "hindiNumPeriod", "hindiNumParenR",
		"hindiAlpha1Period",
	)
	TextTabAlignType = schema.Enum("TextTabAlignType",
		"l", "ctr", "r", "dec",
	)
	TextShapeType = schema.Enum("TextShapeType",
		"textNoShape", "textPlain", "textStop", "textTriangle", "textTriangleInverted", "textChevron",
		"textChevronInverted", "textRingInside", "textRingOutside", "textArchUp", "textArchDown",
		"textCircle", "textButton", "textArchUpPour", "textArchDownPour", "textCirclePour",
		"textButtonPour", "textCurveUp", "textCurveDown", "textCanUp", "textCanDown", "textWave1",
		"textWave2", "textWave4", "textDoubleWave1", "textInflate", "textDeflate", "textInflateBottom",
		"textDeflateBottom", "textInflateTop", "textDeflateTop", "textDeflateInflate",
		"textDeflateInflateDeflate", "textFadeLeft", "textFadeUp", "textFadeRight", "textFadeDown",
		"textSlantUp", "textSlantDown", "textCascadeUp", "textCascadeDown",
	)
	TextVertOverflowType = schema.Enum("TextVertOverflowType",
		"overflow", "ellipsis", "clip",
	)
	TextHorizontalOverflowType = schema.Enum("TextHorizontalOverflowType",
		"overflow", "clip",
	)
	BlackWhiteMode = schema.Enum("BlackWhiteMode",
		"clr", "auto", "gray", "ltGray", "invGray", "grayWhite", "blackGray", "blackWhite", "black",
		"white", "hidden",
	)
	// DrawingElementID is ST_DrawingElementId, the id of cNvPr and connections.
	DrawingElementID = schema.IntRange("DrawingElementId", 0, math.MaxUint32)
	// StyleMatrixColumnIndex is ST_StyleMatrixColumnIndex, the idx of a style reference.
	StyleMatrixColumnIndex = schema.IntRange("StyleMatrixColumnIndex", 0, math.MaxUint32)

	FontCollectionIndex = schema.Enum("FontCollectionIndex",
		"major", "minor", "none",
	)
	RectAlignment = schema.Enum("RectAlignment",
		"l", "t", "r", "b", "tl", "tr", "bl", "br", "ctr",
	)
	TileFlipMode = schema.Enum("TileFlipMode",
		"none", "x", "y", "xy",
	)
	PathFillMode = schema.Enum("PathFillMode",
		"none", "norm", "lighten", "lightenLess", "darken", "darkenLess",
	)
	PathShadeType = schema.Enum("PathShadeType",
		"shape", "circle", "rect",
	)
	BlipCompression = schema.Enum("BlipCompression",
		"email", "screen", "print", "hqprint", "none",
	)
	EffectContainerType = schema.Enum("EffectContainerType", "sib", "tree")
	OnOffStyleType      = schema.Enum("OnOffStyleType", "on", "off", "def")
	GeomGuideName       = schema.String
	GeomGuideFormula    = schema.String
)
