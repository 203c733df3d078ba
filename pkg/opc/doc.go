// Package opc reads and writes Open Packaging Conventions containers, the ZIP based
// format shared by DOCX, XLSX and PPTX files.
//
// A Package holds three things: the parts (named byte streams), the content-type
// registry from [Content_Types].xml, and the relationship graph stored in the _rels
// parts. Parts are loaded lazily. Opening a package reads only the archive directory,
// the registry and the relationships; a part's bytes are read the first time they are
// asked for, and parts that are never modified are copied to the output archive
// without being decompressed.
//
// # Structure Organization
//
//   - partname.go: part name normalization and relationship part naming
//   - contenttypes.go: the Default/Override content-type registry
//   - relationships.go: relationship sets and the per-package graph
//   - part.go, package.go: the container itself, Open and Save
//   - find.go: glob lookup of parts and media helpers
//   - docprops.go: core and extended document properties read through pkg/schema
//   - config.go, errors.go: configuration and error types
//
// # Usage
//
//	pkg, err := opc.OpenFile("report.docx")
//	if err != nil {
//	    return err
//	}
//	doc, ok := pkg.MainPart(opc.RelTypeOfficeDocument)
//	if !ok {
//	    return errors.New("no main document")
//	}
//	data, err := doc.Bytes()
//	...
//	return pkg.SaveFile("copy.docx")
//
// # Errors
//
// Structural problems such as a corrupt archive or a missing [Content_Types].xml fail
// the whole operation. Problems inside one part, such as a schema violation found by
// ParsePart, are returned for that part only and leave the package usable. Dangling
// relationships are allowed while editing and reported by Validate and Save.
//
// # Configuration
//
// Defaults come from the OOXML_* environment variables, see ConfigFromEnvironment, and
// can be overridden per package with Option values.
package opc
