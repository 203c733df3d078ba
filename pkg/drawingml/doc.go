/*
Package drawingml declares the DrawingML elements that WordprocessingML,
SpreadsheetML and PresentationML share: colors, transforms, geometry, fills, lines,
effects, text bodies, themes, non-visual shape properties, graphic frames, shape
style references and color map overrides.

Every declaration is a *schema.Node built from the engine primitives, so host
vocabularies compose them into their own nodes:

	var shapeProps = &schema.Node{
		Name:    schema.NS(pmlNS, "spPr"),
		Content: drawingml.ShapePropertiesContent,
	}

Elements the declarations leave out, such as a:effectDag and a:scene3d, are kept
opaque by the parser and written back unchanged.

# Typed views

A few structures have small typed views on top of the element tree:

	theme, err := drawingml.PackageTheme(pkg)
	info, err := drawingml.ThemeInfo(theme)
	rgb, ok := info.Resolve(drawingml.Scheme("accent1"))

Color, Transform2D, Theme, NonVisualProperties and ShapeStyle convert from
elements, and all but Theme convert back with Element. GraphicPayload and
ColorMapOverrideFromElement read graphic frames and color map overrides.
*/
package drawingml
