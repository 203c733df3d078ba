package schema

// wellKnownPrefixes holds the prefixes Office itself writes for common namespaces.
var wellKnownPrefixes = map[string]string{
	// Package level
	"http://schemas.openxmlformats.org/package/2006/content-types":                "ct",
	"http://schemas.openxmlformats.org/package/2006/relationships":                "rel",
	"http://schemas.openxmlformats.org/package/2006/metadata/core-properties":     "cp",
	"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties":   "ep",
	"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes":        "vt",
	"http://purl.org/dc/elements/1.1/":                                            "dc",
	"http://purl.org/dc/terms/":                                                   "dcterms",
	"http://purl.org/dc/dcmitype/":                                                "dcmitype",
	"http://www.w3.org/2001/XMLSchema-instance":                                   "xsi",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":         "r",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":                 "mc",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":                  "m",
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":                "w",
	"http://schemas.openxmlformats.org/spreadsheetml/2006/main":                   "x",
	"http://schemas.openxmlformats.org/presentationml/2006/main":                  "p",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                       "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":                    "pic",
	"http://schemas.openxmlformats.org/drawingml/2006/chart":                      "c",
	"http://schemas.openxmlformats.org/drawingml/2006/diagram":                    "dgm",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing":      "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing":         "xdr",
	"http://schemas.openxmlformats.org/drawingml/2006/chartDrawing":               "cdr",
	"http://schemas.openxmlformats.org/drawingml/2006/lockedCanvas":               "lc",
	"http://schemas.microsoft.com/office/drawing/2010/main":                       "a14",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":         "wp14",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":           "wps",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":          "wpc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":           "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":             "wpi",
	"http://schemas.microsoft.com/office/word/2010/wordml":                        "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                        "w15",
	"http://schemas.microsoft.com/office/word/2015/wordml/symex":                  "w16se",
	"http://schemas.microsoft.com/office/word/2016/wordml/cid":                    "w16cid",
	"http://schemas.microsoft.com/office/word/2018/wordml":                        "w16",
	"http://schemas.microsoft.com/office/word/2018/wordml/cex":                    "w16cex",
	"http://schemas.microsoft.com/office/word/2020/wordml/sdtdatahash":            "w16sdtdh",
	"http://schemas.microsoft.com/office/word/2023/wordml/word16du":               "w16du",
	"http://schemas.microsoft.com/office/word/2006/wordml":                        "wne",
	"http://schemas.microsoft.com/office/powerpoint/2010/main":                    "p14",
	"http://schemas.microsoft.com/office/powerpoint/2012/main":                    "p15",
	"http://schemas.microsoft.com/office/spreadsheetml/2009/9/main":               "x14",
	"http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac":                 "x14ac",
	"http://schemas.microsoft.com/office/thememl/2012/main":                       "thm15",
	"http://schemas.microsoft.com/office/drawing/2014/chartex":                    "cx",
	"http://schemas.microsoft.com/office/drawing/2016/ink":                        "aink",
	"http://schemas.microsoft.com/office/drawing/2017/model3d":                    "am3d",
	"http://schemas.microsoft.com/office/2019/extlst":                             "oel",
	"urn:schemas-microsoft-com:vml":                                               "v",
	"urn:schemas-microsoft-com:office:office":                                     "o",
	"urn:schemas-microsoft-com:office:word":                                       "w10",
	"urn:schemas-microsoft-com:office:excel":                                      "xvml",
	"urn:schemas-microsoft-com:office:powerpoint":                                 "pvml",
	XMLNamespace:                                                                  "xml",
}

// WellKnownPrefix returns the conventional prefix for an OOXML namespace, or "" when
// the namespace has none.
func WellKnownPrefix(uri string) string {
	return wellKnownPrefixes[uri]
}
