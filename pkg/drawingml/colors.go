package drawingml

import (
	"errors"
	"fmt"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

// ErrNoColor is returned by ColorFromElement for an element that holds no color.
var ErrNoColor = errors.New("drawingml: no color")

// Color transforms, in schema order.
var (
	tint     = valNode("tint", PositiveFixedPercentage)
	shade    = valNode("shade", PositiveFixedPercentage)
	comp     = emptyNode("comp")
	inv      = emptyNode("inv")
	gray     = emptyNode("gray")
	alpha    = valNode("alpha", PositiveFixedPercentage)
	alphaOff = valNode("alphaOff", FixedPercentage)
	alphaMod = valNode("alphaMod", PositivePercentage)
	hue      = valNode("hue", PositiveFixedAngle)
	hueOff   = valNode("hueOff", Angle)
	hueMod   = valNode("hueMod", PositivePercentage)
	sat      = valNode("sat", Percentage)
	satOff   = valNode("satOff", Percentage)
	satMod   = valNode("satMod", Percentage)
	lum      = valNode("lum", Percentage)
	lumOff   = valNode("lumOff", Percentage)
	lumMod   = valNode("lumMod", Percentage)
	red      = valNode("red", Percentage)
	redOff   = valNode("redOff", Percentage)
	redMod   = valNode("redMod", Percentage)
	green    = valNode("green", Percentage)
	greenOff = valNode("greenOff", Percentage)
	greenMod = valNode("greenMod", Percentage)
	blue     = valNode("blue", Percentage)
	blueOff  = valNode("blueOff", Percentage)
	blueMod  = valNode("blueMod", Percentage)
	gamma    = emptyNode("gamma")
	invGamma = emptyNode("invGamma")
)

var transformNodes = []*schema.Node{
	tint, shade, comp, inv, gray, alpha, alphaOff, alphaMod, hue, hueOff, hueMod,
	sat, satOff, satMod, lum, lumOff, lumMod, red, redOff, redMod,
	green, greenOff, greenMod, blue, blueOff, blueMod, gamma, invGamma,
}

// ColorTransforms is the repeated choice of the 28 transforms a color may carry.
var ColorTransforms = schema.ChoiceOf(0, schema.Unbounded, els(transformNodes...)...)

// Color models.
var (
	ScRGBColor = node("scrgbClr", ColorTransforms,
		schema.RequiredAttr("r", Percentage),
		schema.RequiredAttr("g", Percentage),
		schema.RequiredAttr("b", Percentage),
	)
	SRGBColor = node("srgbClr", ColorTransforms, schema.RequiredAttr("val", schema.HexColor))
	HSLColor  = node("hslClr", ColorTransforms,
		schema.RequiredAttr("hue", PositiveFixedAngle),
		schema.RequiredAttr("sat", Percentage),
		schema.RequiredAttr("lum", Percentage),
	)
	SystemColor = node("sysClr", ColorTransforms,
		schema.RequiredAttr("val", SystemColorVal),
		schema.Attr("lastClr", schema.HexColor),
	)
	SchemeColor = node("schemeClr", ColorTransforms, schema.RequiredAttr("val", SchemeColorVal))
	PresetColor = node("prstClr", ColorTransforms, schema.RequiredAttr("val", PresetColorVal))
)

// ColorChoice is EG_ColorChoice: exactly one color model.
var ColorChoice = schema.OneOf(els(ScRGBColor, SRGBColor, HSLColor, SystemColor, SchemeColor, PresetColor)...)

// ColorNode returns a CT_Color element such as a:dk1 or a:fgClr, holding one color.
func ColorNode(local string) *schema.Node {
	return node(local, ColorChoice)
}

// ColorKind names the color model of a Color.
type ColorKind string

const (
	ColorScRGB  ColorKind = "scrgbClr"
	ColorSRGB   ColorKind = "srgbClr"
	ColorHSL    ColorKind = "hslClr"
	ColorSystem ColorKind = "sysClr"
	ColorScheme ColorKind = "schemeClr"
	ColorPreset ColorKind = "prstClr"
)

var colorNodes = map[ColorKind]*schema.Node{
	ColorScRGB:  ScRGBColor,
	ColorSRGB:   SRGBColor,
	ColorHSL:    HSLColor,
	ColorSystem: SystemColor,
	ColorScheme: SchemeColor,
	ColorPreset: PresetColor,
}

var transformByName = func() map[string]*schema.Node {
	m := make(map[string]*schema.Node, len(transformNodes))
	for _, n := range transformNodes {
		m[n.Name.Local] = n
	}
	return m
}()

// ColorTransform is one transform applied to a color. HasVal is false for the
// transforms that take no value, such as comp and gray.
type ColorTransform struct {
	Name   string
	Val    int64
	HasVal bool
}

// Color is the typed view of one color element.
type Color struct {
	Kind ColorKind
	// RGB is the srgbClr value, or the last computed value of a sysClr.
	RGB uint32
	// HasLastClr reports whether a sysClr carries lastClr. Black is a valid lastClr.
	HasLastClr bool
	// Value is the token of a scheme, system or preset color.
	Value      string
	R, G, B    int64
	Hue        int64
	Sat, Lum   int64
	Transforms []ColorTransform
}

// SRGB returns an srgbClr color.
func SRGB(rgb uint32, transforms ...ColorTransform) Color {
	return Color{Kind: ColorSRGB, RGB: rgb, Transforms: transforms}
}

// Scheme returns a schemeClr color.
func Scheme(val string, transforms ...ColorTransform) Color {
	return Color{Kind: ColorScheme, Value: val, Transforms: transforms}
}

// Transform returns a transform with a value.
func Transform(name string, val int64) ColorTransform {
	return ColorTransform{Name: name, Val: val, HasVal: true}
}

func colorKind(e *schema.Element) (ColorKind, bool) {
	if e == nil || e.Name.Space != Namespace {
		return "", false
	}
	k := ColorKind(e.Name.Local)
	_, ok := colorNodes[k]
	return k, ok
}

// ColorFromElement reads a color element, or the color held by a wrapper such as
// a:solidFill or a:accent1.
func ColorFromElement(e *schema.Element) (Color, error) {
	if e == nil {
		return Color{}, ErrNoColor
	}
	kind, ok := colorKind(e)
	if !ok {
		for _, c := range e.Children {
			if _, ok := colorKind(c); ok {
				return ColorFromElement(c)
			}
		}
		return Color{}, fmt.Errorf("%w in %s", ErrNoColor, e.Name.Local)
	}

	c := Color{Kind: kind}
	switch kind {
	case ColorScRGB:
		c.R, _ = e.Int("r")
		c.G, _ = e.Int("g")
		c.B, _ = e.Int("b")
	case ColorSRGB:
		v, _ := e.Attr("val")
		c.RGB, _ = v.(uint32)
	case ColorHSL:
		c.Hue, _ = e.Int("hue")
		c.Sat, _ = e.Int("sat")
		c.Lum, _ = e.Int("lum")
	case ColorSystem:
		c.Value = e.String("val")
		if v, ok := e.Attr("lastClr"); ok {
			c.RGB, c.HasLastClr = v.(uint32)
		}
	case ColorScheme, ColorPreset:
		c.Value = e.String("val")
	}
	if (kind == ColorSystem || kind == ColorScheme || kind == ColorPreset) && c.Value == "" {
		return c, fmt.Errorf("drawingml: %s has no val", kind)
	}

	for _, child := range e.Children {
		if child.Name.Space != Namespace || transformByName[child.Name.Local] == nil {
			continue
		}
		t := ColorTransform{Name: child.Name.Local}
		t.Val, t.HasVal = child.Int("val")
		c.Transforms = append(c.Transforms, t)
	}
	return c, nil
}

// Element builds the color element for c.
func (c Color) Element() *schema.Element {
	n, ok := colorNodes[c.Kind]
	if !ok {
		panic("drawingml: unknown color kind " + string(c.Kind))
	}
	e := schema.NewElement(n)
	switch c.Kind {
	case ColorScRGB:
		e.SetAttr("r", c.R).SetAttr("g", c.G).SetAttr("b", c.B)
	case ColorSRGB:
		e.SetAttr("val", c.RGB)
	case ColorHSL:
		e.SetAttr("hue", c.Hue).SetAttr("sat", c.Sat).SetAttr("lum", c.Lum)
	case ColorSystem:
		e.SetAttr("val", c.Value)
		if c.HasLastClr {
			e.SetAttr("lastClr", c.RGB)
		}
	case ColorScheme, ColorPreset:
		e.SetAttr("val", c.Value)
	}
	for _, t := range c.Transforms {
		tn, ok := transformByName[t.Name]
		if !ok {
			panic("drawingml: unknown color transform " + t.Name)
		}
		te := schema.NewElement(tn)
		if t.HasVal {
			te.SetAttr("val", t.Val)
		}
		e.Append(te)
	}
	return e
}

// Wrap returns c inside a CT_Color element built from n, such as a:solidFill.
func (c Color) Wrap(n *schema.Node) *schema.Element {
	return schema.NewElement(n).Append(c.Element())
}
