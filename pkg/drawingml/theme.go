package drawingml

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/opc"
	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

// SchemeColorNames are the twelve colors of a color scheme, in document order.
var SchemeColorNames = []string{
	"dk1", "lt1", "dk2", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// Color scheme.
var (
	schemeColorNodes = func() []*schema.Node {
		out := make([]*schema.Node, len(SchemeColorNames))
		for i, name := range SchemeColorNames {
			out[i] = ColorNode(name)
		}
		return out
	}()

	ColorSchemeNode = node("clrScheme",
		schema.Seq(append(els(schemeColorNodes...), opt(ExtensionList))...),
		schema.RequiredAttr("name", schema.String),
	)

	// ColorMap is a:clrMap, which maps the aliases bg1, tx1 and so on to scheme
	// colors.
	ColorMap = colorMapping("clrMap")
)

// ColorMapAliases are the attributes of a color mapping, in schema order.
var ColorMapAliases = []string{"bg1", "tx1", "bg2", "tx2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6", "hlink", "folHlink"}

// colorMapping is CT_ColorMapping, shared by a:clrMap and a:overrideClrMapping.
func colorMapping(local string) *schema.Node {
	attrs := make([]schema.AttrDecl, 0, len(ColorMapAliases))
	for _, a := range ColorMapAliases {
		attrs = append(attrs, schema.RequiredAttr(a, ColorSchemeIndex))
	}
	return node(local, opt(ExtensionList), attrs...)
}

// Font scheme.
var (
	supplementalFont = emptyNode("font",
		schema.RequiredAttr("script", schema.String),
		schema.RequiredAttr("typeface", TextTypeface),
	)

	MajorFont = fontCollection("majorFont")
	MinorFont = fontCollection("minorFont")

	FontScheme = node("fontScheme",
		schema.Seq(schema.El(MajorFont), schema.El(MinorFont), opt(ExtensionList)),
		schema.RequiredAttr("name", schema.String),
	)
)

func fontCollection(local string) *schema.Node {
	return node(local, schema.Seq(
		schema.El(LatinFont),
		schema.El(EastAsian),
		schema.El(ComplexFont),
		schema.ZeroOrMore(schema.El(supplementalFont)),
		opt(ExtensionList),
	))
}

// Format scheme. Each style list holds at least three entries, referenced by index
// from shape styles.
var (
	FillStyleList = node("fillStyleLst", schema.ChoiceOf(3, schema.Unbounded, FillChoice))
	LineStyleList = node("lnStyleLst", schema.Times(schema.El(Line), 3, schema.Unbounded))

	// a:scene3d and a:sp3d are kept opaque.
	effectStyle        = node("effectStyle", schema.El(EffectList))
	EffectStyleList    = node("effectStyleLst", schema.Times(schema.El(effectStyle), 3, schema.Unbounded))
	BackgroundFillList = node("bgFillStyleLst", schema.ChoiceOf(3, schema.Unbounded, FillChoice))

	FormatScheme = node("fmtScheme",
		schema.Seq(
			schema.El(FillStyleList),
			schema.El(LineStyleList),
			schema.El(EffectStyleList),
			schema.El(BackgroundFillList),
		),
		schema.Attr("name", schema.String),
	)
)

// Theme document.
var (
	ThemeElements = node("themeElements", schema.Seq(
		schema.El(ColorSchemeNode),
		schema.El(FontScheme),
		schema.El(FormatScheme),
		opt(ExtensionList),
	))

	shapeDefault = objectDefault("spDef")
	lineDefault  = objectDefault("lnDef")
	textDefault  = objectDefault("txDef")

	ObjectDefaults = node("objectDefaults", schema.Seq(opt(shapeDefault), opt(lineDefault), opt(textDefault), opt(ExtensionList)))

	extraColorScheme     = node("extraClrScheme", schema.Seq(schema.El(ColorSchemeNode), opt(ColorMap)))
	ExtraColorSchemeList = node("extraClrSchemeLst", schema.ZeroOrMore(schema.El(extraColorScheme)))

	customColor     = node("custClr", ColorChoice, schema.Attr("name", schema.String))
	CustomColorList = node("custClrLst", schema.ZeroOrMore(schema.El(customColor)))

	// ThemeNode is a:theme, the root of a theme part.
	ThemeNode = node("theme",
		schema.Seq(
			schema.El(ThemeElements),
			opt(ObjectDefaults),
			opt(ExtraColorSchemeList),
			opt(CustomColorList),
			opt(ExtensionList),
		),
		schema.Attr("name", schema.String),
	)
)

// objectDefault is CT_DefaultShapeDefinition.
func objectDefault(local string) *schema.Node {
	return node(local, schema.Seq(
		schema.El(ShapeProperties),
		schema.El(BodyProperties),
		schema.El(ListStyle),
		opt(ShapeStyleNode),
		opt(ExtensionList),
	))
}

// ErrNoTheme is returned when a package has no theme part.
var ErrNoTheme = errors.New("drawingml: no theme part")

// Theme is the summary of a theme part.
type Theme struct {
	Name        string
	ColorScheme string
	// Colors holds the scheme colors keyed by dk1, lt1 and so on.
	Colors       map[string]Color
	FontScheme   string
	MajorLatin   string
	MinorLatin   string
	FormatScheme string
}

// ThemeInfo summarises a parsed a:theme.
func ThemeInfo(e *schema.Element) (Theme, error) {
	if !isNode(e, ThemeNode) {
		return Theme{}, fmt.Errorf("drawingml: %s is not a theme", elementName(e))
	}
	t := Theme{Name: e.String("name"), Colors: make(map[string]Color)}
	elems := e.Child("themeElements")
	if elems == nil {
		return t, fmt.Errorf("drawingml: theme has no themeElements")
	}
	if cs := elems.Child("clrScheme"); cs != nil {
		t.ColorScheme = cs.String("name")
		for _, name := range SchemeColorNames {
			slot := cs.Child(name)
			if slot == nil {
				continue
			}
			c, err := ColorFromElement(slot)
			if err != nil {
				return t, fmt.Errorf("drawingml: scheme color %s: %w", name, err)
			}
			t.Colors[name] = c
		}
	}
	if fs := elems.Child("fontScheme"); fs != nil {
		t.FontScheme = fs.String("name")
		t.MajorLatin = latinTypeface(fs.Child("majorFont"))
		t.MinorLatin = latinTypeface(fs.Child("minorFont"))
	}
	if fm := elems.Child("fmtScheme"); fm != nil {
		t.FormatScheme = fm.String("name")
	}
	return t, nil
}

func latinTypeface(e *schema.Element) string {
	if e == nil {
		return ""
	}
	if l := e.Child("latin"); l != nil {
		return l.String("typeface")
	}
	return ""
}

func elementName(e *schema.Element) string {
	if e == nil {
		return "nil element"
	}
	return e.Name.Local
}

// Resolve returns the RGB value of c against the theme's color scheme. Scheme colors
// are looked up by slot, with the bg/tx aliases mapped the default way. A system color
// resolves to its lastClr. Transforms are not applied.
func (t Theme) Resolve(c Color) (uint32, bool) {
	switch c.Kind {
	case ColorSRGB:
		return c.RGB, true
	case ColorSystem:
		return c.RGB, true
	case ColorScheme:
		slot := c.Value
		switch slot {
		case "bg1":
			slot = "lt1"
		case "tx1":
			slot = "dk1"
		case "bg2":
			slot = "lt2"
		case "tx2":
			slot = "dk2"
		}
		sc, ok := t.Colors[slot]
		if !ok || sc.Kind == ColorScheme {
			return 0, false
		}
		return t.Resolve(sc)
	}
	return 0, false
}

// ParseTheme parses a theme part.
func ParseTheme(data []byte, opts ...schema.Option) (*schema.Element, error) {
	return schema.Parse(bytes.NewReader(data), ThemeNode, opts...)
}

// PackageTheme parses the theme related to the package's main part. Presentations
// relate their theme to a slide master, so the first theme part found is used when
// the main part has none.
func PackageTheme(p *opc.Package) (*schema.Element, error) {
	name, err := themePartName(p)
	if err != nil {
		return nil, err
	}
	return p.ParsePart(name, ThemeNode)
}

func themePartName(p *opc.Package) (string, error) {
	if main, ok := p.MainPart(opc.RelTypeOfficeDocument); ok {
		for _, t := range p.Relationships().ByType(main.Name(), opc.RelTypeTheme) {
			if t.Mode == opc.Internal {
				return t.PartName, nil
			}
		}
	}
	parts, err := p.FindParts("**/theme/theme*.xml")
	if err != nil {
		return "", err
	}
	for _, part := range parts {
		if part.ContentType() == opc.ContentTypeTheme {
			return part.Name(), nil
		}
	}
	return "", ErrNoTheme
}
