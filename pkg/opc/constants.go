package opc

import "github.com/benjaminschreck/go-msoffice-shared/pkg/schema"

const xmlHeader = schema.Header

// Package level namespaces
const (
	NamespaceContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NamespaceRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NamespaceExtendedProps = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NamespaceDocPropsTypes = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	NamespaceDC            = "http://purl.org/dc/elements/1.1/"
	NamespaceDCTerms       = "http://purl.org/dc/terms/"
	NamespaceXSI           = "http://www.w3.org/2001/XMLSchema-instance"
)

// Relationship types
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeThumbnail      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"
	RelTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	RelTypeWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelTypeSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
)

// Content types
const (
	ContentTypeRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML            = "application/xml"
	ContentTypeOctetStream    = "application/octet-stream"
	ContentTypeCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeExtendedProps  = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ContentTypeTheme          = "application/vnd.openxmlformats-officedocument.theme+xml"
	ContentTypeWordDocument   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeWordStyles     = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypePresentation   = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ContentTypeSlide          = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ContentTypeWorkbook       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ContentTypeWorksheet      = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
)

// mediaTypes is the Default content type registered by AddMedia per extension.
var mediaTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}
