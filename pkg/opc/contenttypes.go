package opc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html/charset"
)

// Default maps a file extension to a content type.
type Default struct {
	Extension   string
	ContentType string
}

// Override maps one part to a content type.
type Override struct {
	PartName    string
	ContentType string
}

// ContentTypes is the registry stored in [Content_Types].xml. An Override for a part
// always wins over the Default for its extension.
type ContentTypes struct {
	defaults      map[string]string
	defaultOrder  []string
	overrides     map[string]string
	overrideOrder []string
}

func NewContentTypes() *ContentTypes {
	return &ContentTypes{
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
}

// RegisterDefault maps ext, matched case-insensitively and with or without a leading
// dot, to contentType. A second registration for the same extension replaces the
// first.
func (ct *ContentTypes) RegisterDefault(ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if _, ok := ct.defaults[ext]; !ok {
		ct.defaultOrder = append(ct.defaultOrder, ext)
	}
	ct.defaults[ext] = contentType
}

// RegisterOverride maps a single part to contentType.
func (ct *ContentTypes) RegisterOverride(partName, contentType string) error {
	name, err := NormalizePartName(partName)
	if err != nil {
		return err
	}
	if _, ok := ct.overrides[name]; !ok {
		ct.overrideOrder = append(ct.overrideOrder, name)
	}
	ct.overrides[name] = contentType
	return nil
}

func (ct *ContentTypes) RemoveOverride(partName string) {
	name, err := NormalizePartName(partName)
	if err != nil {
		return
	}
	if _, ok := ct.overrides[name]; !ok {
		return
	}
	delete(ct.overrides, name)
	ct.overrideOrder = slices.DeleteFunc(ct.overrideOrder, func(s string) bool { return s == name })
}

func (ct *ContentTypes) Default(ext string) (string, bool) {
	v, ok := ct.defaults[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return v, ok
}

func (ct *ContentTypes) Override(partName string) (string, bool) {
	name, err := NormalizePartName(partName)
	if err != nil {
		return "", false
	}
	v, ok := ct.overrides[name]
	return v, ok
}

// Resolve returns the content type of a part: its Override if any, otherwise the
// Default for its extension.
func (ct *ContentTypes) Resolve(partName string) (string, error) {
	name, err := NormalizePartName(partName)
	if err != nil {
		return "", err
	}
	if v, ok := ct.overrides[name]; ok {
		return v, nil
	}
	if v, ok := ct.defaults[extension(name)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownContentType, name)
}

// Defaults lists the Default entries in registration order.
func (ct *ContentTypes) Defaults() []Default {
	out := make([]Default, 0, len(ct.defaultOrder))
	for _, ext := range ct.defaultOrder {
		out = append(out, Default{Extension: ext, ContentType: ct.defaults[ext]})
	}
	return out
}

// Overrides lists the Override entries in registration order.
func (ct *ContentTypes) Overrides() []Override {
	out := make([]Override, 0, len(ct.overrideOrder))
	for _, name := range ct.overrideOrder {
		out = append(out, Override{PartName: name, ContentType: ct.overrides[name]})
	}
	return out
}

type xmlTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Namespace string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func parseContentTypes(data []byte) (*ContentTypes, error) {
	var doc xmlTypes
	if err := decodeXML(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackageStructure, ContentTypesName, err)
	}
	ct := NewContentTypes()
	for _, d := range doc.Defaults {
		if d.Extension == "" || d.ContentType == "" {
			return nil, fmt.Errorf("%w: %s: incomplete Default", ErrInvalidPackageStructure, ContentTypesName)
		}
		ct.RegisterDefault(d.Extension, d.ContentType)
	}
	for _, o := range doc.Overrides {
		if o.ContentType == "" {
			return nil, fmt.Errorf("%w: %s: incomplete Override", ErrInvalidPackageStructure, ContentTypesName)
		}
		if err := ct.RegisterOverride(o.PartName, o.ContentType); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPackageStructure, ContentTypesName, err)
		}
	}
	return ct, nil
}

// marshal writes the registry. Overrides are written only for parts that live
// reports as present.
func (ct *ContentTypes) marshal(live func(string) bool) ([]byte, error) {
	doc := xmlTypes{Namespace: NamespaceContentTypes}
	for _, d := range ct.Defaults() {
		doc.Defaults = append(doc.Defaults, xmlDefault(d))
	}
	for _, o := range ct.Overrides() {
		if live(o.PartName) {
			doc.Overrides = append(doc.Overrides, xmlOverride(o))
		}
	}
	return encodeXML(doc)
}

// decodeXML unmarshals a package level XML part, honoring a non UTF-8 declaration.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}

func encodeXML(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(xmlHeader) + len(body))
	buf.WriteString(xmlHeader)
	buf.Write(body)
	return buf.Bytes(), nil
}
