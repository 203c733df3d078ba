package opc

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/benjaminschreck/go-msoffice-shared/pkg/schema"
)

// w3cdtf is the date format of dcterms:created and dcterms:modified.
type w3cdtf struct{}

func (w3cdtf) Name() string { return "W3CDTF" }

func (w3cdtf) Decode(s string) (any, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a W3CDTF date", s)
}

func (c w3cdtf) Encode(v any) string {
	t, ok := v.(time.Time)
	if !ok {
		panic(fmt.Sprintf("opc: %s codec cannot encode %T", c.Name(), v))
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// W3CDTF decodes the dates in core properties into time.Time.
var W3CDTF schema.Codec = w3cdtf{}

func textNode(space, local string, c schema.Codec, attrs ...schema.AttrDecl) *schema.Node {
	return &schema.Node{Name: schema.NS(space, local), Text: c, Attrs: attrs}
}

var xsiType = schema.NSAttr(NamespaceXSI, "type", schema.String)

// Core property elements, in the order Office writes them.
var (
	coreTitle          = textNode(NamespaceDC, "title", schema.String)
	coreSubject        = textNode(NamespaceDC, "subject", schema.String)
	coreCreator        = textNode(NamespaceDC, "creator", schema.String)
	coreKeywords       = textNode(NamespaceCoreProps, "keywords", schema.String)
	coreDescription    = textNode(NamespaceDC, "description", schema.String)
	coreLastModifiedBy = textNode(NamespaceCoreProps, "lastModifiedBy", schema.String)
	coreRevision       = textNode(NamespaceCoreProps, "revision", schema.Int)
	coreLastPrinted    = textNode(NamespaceCoreProps, "lastPrinted", W3CDTF)
	coreCreated        = textNode(NamespaceDCTerms, "created", W3CDTF, xsiType)
	coreModified       = textNode(NamespaceDCTerms, "modified", W3CDTF, xsiType)
	coreCategory       = textNode(NamespaceCoreProps, "category", schema.String)
	coreContentStatus  = textNode(NamespaceCoreProps, "contentStatus", schema.String)
	coreLanguage       = textNode(NamespaceDC, "language", schema.String)
	coreIdentifier     = textNode(NamespaceDC, "identifier", schema.String)
	coreVersion        = textNode(NamespaceCoreProps, "version", schema.String)
)

// CorePropertiesNode describes docProps/core.xml. Its children may come in any order.
var CorePropertiesNode = &schema.Node{
	Name: schema.NS(NamespaceCoreProps, "coreProperties"),
	Content: schema.ChoiceOf(0, schema.Unbounded,
		schema.El(coreTitle), schema.El(coreSubject), schema.El(coreCreator),
		schema.El(coreKeywords), schema.El(coreDescription), schema.El(coreLastModifiedBy),
		schema.El(coreRevision), schema.El(coreLastPrinted), schema.El(coreCreated),
		schema.El(coreModified), schema.El(coreCategory), schema.El(coreContentStatus),
		schema.El(coreLanguage), schema.El(coreIdentifier), schema.El(coreVersion),
	),
}

var (
	appApplication = textNode(NamespaceExtendedProps, "Application", schema.String)
	appVersion     = textNode(NamespaceExtendedProps, "AppVersion", schema.String)
	appCompany     = textNode(NamespaceExtendedProps, "Company", schema.String)
	appTemplate    = textNode(NamespaceExtendedProps, "Template", schema.String)
	appTotalTime   = textNode(NamespaceExtendedProps, "TotalTime", schema.Int)
	appPages       = textNode(NamespaceExtendedProps, "Pages", schema.Int)
	appWords       = textNode(NamespaceExtendedProps, "Words", schema.Int)
	appSlides      = textNode(NamespaceExtendedProps, "Slides", schema.Int)
)

// AppPropertiesNode describes docProps/app.xml. Elements it does not declare, such as
// HeadingPairs, are kept as opaque content.
var AppPropertiesNode = &schema.Node{
	Name: schema.NS(NamespaceExtendedProps, "Properties"),
	Content: schema.ChoiceOf(0, schema.Unbounded,
		schema.El(appApplication), schema.El(appVersion), schema.El(appCompany),
		schema.El(appTemplate), schema.El(appTotalTime), schema.El(appPages),
		schema.El(appWords), schema.El(appSlides),
	),
}

// CoreProperties is the typed view of docProps/core.xml.
type CoreProperties struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	LastModifiedBy string
	Revision       int64
	Category       string
	Created        time.Time
	Modified       time.Time
}

// AppProperties is the typed view of docProps/app.xml.
type AppProperties struct {
	Application string
	AppVersion  string
	Company     string
}

func childText(e *schema.Element, n *schema.Node) string {
	for _, c := range e.Children {
		if c.Node == n {
			return c.Text
		}
	}
	return ""
}

func childValue(e *schema.Element, n *schema.Node) any {
	for _, c := range e.Children {
		if c.Node == n {
			return c.Value
		}
	}
	return nil
}

// CorePropertiesFromElement reads the typed view from a parsed core.xml.
func CorePropertiesFromElement(e *schema.Element) *CoreProperties {
	cp := &CoreProperties{
		Title:          childText(e, coreTitle),
		Subject:        childText(e, coreSubject),
		Creator:        childText(e, coreCreator),
		Keywords:       childText(e, coreKeywords),
		Description:    childText(e, coreDescription),
		LastModifiedBy: childText(e, coreLastModifiedBy),
		Category:       childText(e, coreCategory),
	}
	if v, ok := childValue(e, coreRevision).(int64); ok {
		cp.Revision = v
	}
	if v, ok := childValue(e, coreCreated).(time.Time); ok {
		cp.Created = v
	}
	if v, ok := childValue(e, coreModified).(time.Time); ok {
		cp.Modified = v
	}
	return cp
}

// Element builds core.xml from the typed view. Empty fields are left out.
func (cp *CoreProperties) Element() *schema.Element {
	root := schema.NewElement(CorePropertiesNode)
	root.Namespaces = []schema.NamespaceDecl{
		{Prefix: "cp", URI: NamespaceCoreProps},
		{Prefix: "dc", URI: NamespaceDC},
		{Prefix: "dcterms", URI: NamespaceDCTerms},
		{Prefix: "dcmitype", URI: "http://purl.org/dc/dcmitype/"},
		{Prefix: "xsi", URI: NamespaceXSI},
	}
	text := func(n *schema.Node, v string) {
		if v != "" {
			root.Append(schema.NewElement(n).SetValue(v))
		}
	}
	date := func(n *schema.Node, v time.Time) {
		if !v.IsZero() {
			root.Append(schema.NewElement(n).SetAttrNS(xsiType.Name, "dcterms:W3CDTF").SetValue(v))
		}
	}
	text(coreTitle, cp.Title)
	text(coreSubject, cp.Subject)
	text(coreCreator, cp.Creator)
	text(coreKeywords, cp.Keywords)
	text(coreDescription, cp.Description)
	text(coreLastModifiedBy, cp.LastModifiedBy)
	if cp.Revision > 0 {
		root.Append(schema.NewElement(coreRevision).SetValue(cp.Revision))
	}
	date(coreCreated, cp.Created)
	date(coreModified, cp.Modified)
	text(coreCategory, cp.Category)
	return root
}

// AppPropertiesFromElement reads the typed view from a parsed app.xml.
func AppPropertiesFromElement(e *schema.Element) *AppProperties {
	return &AppProperties{
		Application: childText(e, appApplication),
		AppVersion:  childText(e, appVersion),
		Company:     childText(e, appCompany),
	}
}

// ParsePart parses a part with node, strictly or leniently as configured for the
// package. Schema problems are scoped to the part and leave the package usable.
func (p *Package) ParsePart(name string, node *schema.Node) (*schema.Element, error) {
	part, ok := p.Part(name)
	if !ok {
		return nil, newPackageError("parse", name, ErrPartNotFound)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	e, err := schema.Parse(rc, node, schema.WithStrict(p.cfg.StrictMode))
	if err != nil {
		return e, newPackageError("parse", part.Name(), err)
	}
	return e, nil
}

// WritePart serializes e into the named part. A missing part is created with the
// Default content type of its extension.
func (p *Package) WritePart(name string, e *schema.Element) error {
	var buf bytes.Buffer
	if err := schema.Serialize(&buf, e); err != nil {
		return newPackageError("write", name, err)
	}
	if part, ok := p.Part(name); ok {
		part.SetBytes(buf.Bytes())
		return nil
	}
	_, err := p.AddPart(name, "", buf.Bytes())
	return err
}

// CoreProperties reads the part the package's core-properties relationship points to.
func (p *Package) CoreProperties() (*CoreProperties, error) {
	part, ok := p.MainPart(RelTypeCoreProperties)
	if !ok {
		return nil, newPackageError("read core properties", "", ErrPartNotFound)
	}
	e, err := p.ParsePart(part.Name(), CorePropertiesNode)
	if e == nil {
		return nil, err
	}
	return CorePropertiesFromElement(e), err
}

// AppProperties reads the part the package's extended-properties relationship points
// to.
func (p *Package) AppProperties() (*AppProperties, error) {
	part, ok := p.MainPart(RelTypeExtendedProps)
	if !ok {
		return nil, newPackageError("read app properties", "", ErrPartNotFound)
	}
	e, err := p.ParsePart(part.Name(), AppPropertiesNode)
	if e == nil {
		return nil, err
	}
	return AppPropertiesFromElement(e), err
}

// SetCoreProperties writes cp to the core-properties part, creating the part, its
// Override and the package relationship when they are missing.
func (p *Package) SetCoreProperties(cp *CoreProperties) error {
	name := "/docProps/core.xml"
	if part, ok := p.MainPart(RelTypeCoreProperties); ok {
		name = part.Name()
	} else {
		if _, err := p.AddPart(name, ContentTypeCoreProperties, nil); err != nil {
			return err
		}
		if _, err := p.rels.Add(PackageRoot, RelativeTarget(PackageRoot, name), RelTypeCoreProperties, Internal); err != nil {
			return newPackageError("write core properties", name, err)
		}
	}
	return p.WritePart(name, cp.Element())
}
