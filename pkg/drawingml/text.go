package drawingml

import (
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

func textFont(local string) *schema.Node {
	return emptyNode(local,
		schema.RequiredAttr("typeface", TextTypeface),
		schema.Attr("panose", Panose),
		schema.Attr("pitchFamily", PitchFamily),
		schema.Attr("charset", schema.Int),
	)
}

func hyperlink(local string) *schema.Node {
	return node(local, opt(ExtensionList),
		relAttr("id"),
		schema.Attr("invalidUrl", schema.String),
		schema.Attr("action", schema.String),
		schema.Attr("tgtFrame", schema.String),
		schema.Attr("tooltip", schema.String),
		schema.Attr("history", schema.Bool),
		schema.Attr("highlightClick", schema.Bool),
		schema.Attr("endSnd", schema.Bool),
	)
}

// Fonts and hyperlinks.
var (
	LatinFont   = textFont("latin")
	EastAsian   = textFont("ea")
	ComplexFont = textFont("cs")
	SymbolFont  = textFont("sym")

	HyperlinkClick     = hyperlink("hlinkClick")
	HyperlinkMouseOver = hyperlink("hlinkMouseOver")

	highlight         = ColorNode("highlight")
	underlineLineText = emptyNode("uLnTx")
	underlineLine     = lineNode("uLn")
	underlineFillText = emptyNode("uFillTx")
	underlineFill     = node("uFill", FillChoice)
)

var charPropsAttrs = []schema.AttrDecl{
	schema.Attr("kumimoji", schema.Bool),
	schema.Attr("lang", TextLanguageID),
	schema.Attr("altLang", TextLanguageID),
	schema.Attr("sz", TextFontSize),
	schema.Attr("b", schema.Bool),
	schema.Attr("i", schema.Bool),
	schema.Attr("u", TextUnderlineType),
	schema.Attr("strike", TextStrikeType),
	schema.Attr("kern", TextNonNegativePoint),
	schema.Attr("cap", TextCapsType),
	schema.Attr("spc", TextPoint),
	schema.Attr("normalizeH", schema.Bool),
	schema.Attr("baseline", Percentage),
	schema.Attr("noProof", schema.Bool),
	schema.Attr("dirty", schema.Bool),
	schema.Attr("err", schema.Bool),
	schema.Attr("smtClean", schema.Bool),
	schema.Attr("smtId", schema.Uint),
	schema.Attr("bmk", schema.String),
}

// charProps returns CT_TextCharacterProperties under the given name.
func charProps(local string) *schema.Node {
	return node(local, schema.Seq(
		opt(Line),
		schema.Opt(FillChoice),
		opt(EffectList),
		opt(highlight),
		schema.Opt(schema.OneOf(schema.El(underlineLineText), schema.El(underlineLine))),
		schema.Opt(schema.OneOf(schema.El(underlineFillText), schema.El(underlineFill))),
		opt(LatinFont),
		opt(EastAsian),
		opt(ComplexFont),
		opt(SymbolFont),
		opt(HyperlinkClick),
		opt(HyperlinkMouseOver),
		opt(ExtensionList),
	), charPropsAttrs...)
}

var (
	RunProperties          = charProps("rPr")
	DefaultRunProperties   = charProps("defRPr")
	EndParagraphProperties = charProps("endParaRPr")
)

// Paragraph spacing and bullets.
var (
	spacingPercent = valNode("spcPct", TextSpacingPercent)
	spacingPoints  = valNode("spcPts", TextSpacingPoint)
	lineSpacing    = spacing("lnSpc")
	spaceBefore    = spacing("spcBef")
	spaceAfter     = spacing("spcAft")

	bulletColorText = emptyNode("buClrTx")
	bulletColor     = ColorNode("buClr")
	bulletSizeText  = emptyNode("buSzTx")
	bulletSizePct   = valNode("buSzPct", TextBulletSizePercent)
	bulletSizePts   = valNode("buSzPts", TextFontSize)
	bulletFontText  = emptyNode("buFontTx")
	bulletFont      = textFont("buFont")
	bulletNone      = emptyNode("buNone")
	bulletAutoNum   = emptyNode("buAutoNum",
		schema.RequiredAttr("type", TextAutonumberScheme),
		schema.Attr("startAt", TextBulletStartAtNum),
	)
	bulletChar = emptyNode("buChar", schema.RequiredAttr("char", schema.String))
	bulletBlip = node("buBlip", schema.El(Blip))

	tabStop = emptyNode("tab", schema.Attr("pos", Coordinate32), schema.Attr("algn", TextTabAlignType))
	tabList = node("tabLst", schema.ZeroOrMore(schema.El(tabStop)))
)

func spacing(local string) *schema.Node {
	return node(local, schema.OneOf(schema.El(spacingPercent), schema.El(spacingPoints)))
}

// paragraphProps returns CT_TextParagraphProperties under the given name.
func paragraphProps(local string) *schema.Node {
	return node(local,
		schema.Seq(
			opt(lineSpacing),
			opt(spaceBefore),
			opt(spaceAfter),
			schema.Opt(schema.OneOf(schema.El(bulletColorText), schema.El(bulletColor))),
			schema.Opt(schema.OneOf(els(bulletSizeText, bulletSizePct, bulletSizePts)...)),
			schema.Opt(schema.OneOf(schema.El(bulletFontText), schema.El(bulletFont))),
			schema.Opt(schema.OneOf(els(bulletNone, bulletAutoNum, bulletChar, bulletBlip)...)),
			opt(tabList),
			opt(DefaultRunProperties),
			opt(ExtensionList),
		),
		schema.Attr("marL", TextMargin),
		schema.Attr("marR", TextMargin),
		schema.Attr("lvl", TextIndentLevel),
		schema.Attr("indent", TextIndent),
		schema.Attr("algn", TextAlignType),
		schema.Attr("defTabSz", Coordinate32),
		schema.Attr("rtl", schema.Bool),
		schema.Attr("eaLnBrk", schema.Bool),
		schema.Attr("fontAlgn", TextFontAlignType),
		schema.Attr("latinLnBrk", schema.Bool),
		schema.Attr("hangingPunct", schema.Bool),
	)
}

var (
	ParagraphProperties        = paragraphProps("pPr")
	DefaultParagraphProperties = paragraphProps("defPPr")
	levelProperties            = func() []*schema.Node {
		out := make([]*schema.Node, 9)
		for i := range out {
			out[i] = paragraphProps(fmt.Sprintf("lvl%dpPr", i+1))
		}
		return out
	}()
)

// ListStyle is a:lstStyle, the default paragraph properties and those of the nine
// outline levels.
var ListStyle = func() *schema.Node {
	items := []schema.Shape{opt(DefaultParagraphProperties)}
	for _, n := range levelProperties {
		items = append(items, opt(n))
	}
	items = append(items, opt(ExtensionList))
	return node("lstStyle", schema.Seq(items...))
}()

// Runs and paragraphs.
var (
	// Text is a:t. Its value is the run text with whitespace kept.
	Text = textNode("t", schema.String)

	Run       = node("r", schema.Seq(opt(RunProperties), schema.El(Text)))
	LineBreak = node("br", opt(RunProperties))
	Field     = node("fld",
		schema.Seq(opt(RunProperties), opt(ParagraphProperties), opt(Text)),
		schema.RequiredAttr("id", GUID),
		schema.Attr("type", schema.String),
	)

	Paragraph = node("p", schema.Seq(
		opt(ParagraphProperties),
		schema.ChoiceOf(0, schema.Unbounded, els(Run, LineBreak, Field)...),
		opt(EndParagraphProperties),
	))
)

// Body properties.
var (
	presetTextWarp = node("prstTxWarp", opt(AdjustValueList), schema.RequiredAttr("prst", TextShapeType))
	noAutofit      = emptyNode("noAutofit")
	normalAutofit  = emptyNode("normAutofit",
		schema.Attr("fontScale", TextFontScalePercent),
		schema.Attr("lnSpcReduction", PositivePercentage),
	)
	shapeAutofit = emptyNode("spAutoFit")

	BodyProperties = node("bodyPr",
		schema.Seq(
			opt(presetTextWarp),
			schema.Opt(schema.OneOf(els(noAutofit, normalAutofit, shapeAutofit)...)),
			opt(ExtensionList),
		),
		schema.Attr("rot", Angle),
		schema.Attr("spcFirstLastPara", schema.Bool),
		schema.Attr("vertOverflow", TextVertOverflowType),
		schema.Attr("horzOverflow", TextHorizontalOverflowType),
		schema.Attr("vert", TextVerticalType),
		schema.Attr("wrap", TextWrappingType),
		schema.Attr("lIns", Coordinate32),
		schema.Attr("tIns", Coordinate32),
		schema.Attr("rIns", Coordinate32),
		schema.Attr("bIns", Coordinate32),
		schema.Attr("numCol", TextColumnCount),
		schema.Attr("spcCol", PositiveCoordinate32),
		schema.Attr("rtlCol", schema.Bool),
		schema.Attr("fromWordArt", schema.Bool),
		schema.Attr("anchor", TextAnchoringType),
		schema.Attr("anchorCtr", schema.Bool),
		schema.Attr("forceAA", schema.Bool),
		schema.Attr("upright", schema.Bool),
		schema.Attr("compatLnSpc", schema.Bool),
	)

	// TextBody is a:txBody.
	TextBody = node("txBody", schema.Seq(
		schema.El(BodyProperties),
		opt(ListStyle),
		schema.OneOrMore(schema.El(Paragraph)),
	))
)

// PlainText returns the text of a paragraph or text body. Paragraphs and line
// breaks become newlines.
func PlainText(e *schema.Element) string {
	var b strings.Builder
	paragraphs := 0
	e.Walk(func(c *schema.Element) bool {
		if c.Name.Space != Namespace {
			return false
		}
		switch c.Name.Local {
		case "p":
			if paragraphs > 0 {
				b.WriteByte('\n')
			}
			paragraphs++
		case "t":
			b.WriteString(c.Text)
		case "br":
			b.WriteByte('\n')
		}
		return true
	})
	return b.String()
}
