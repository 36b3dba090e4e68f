package ooxml

import "encoding/xml"

const (
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsSpreadsheetML = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsOfficeDocRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	mimeRels           = "application/vnd.openxmlformats-package.relationships+xml"
	mimeXML            = "application/xml"
	mimeWorkbook        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	mimeWorksheet       = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	mimeSharedStrings   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	mimeStyles          = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	mimeCoreProps       = "application/vnd.openxmlformats-package.core-properties+xml"
	mimeAppProps        = "application/vnd.openxmlformats-officedocument.extended-properties+xml"

	relTypeWorkbook      = nsOfficeDocRel + "/officeDocument"
	relTypeWorksheet     = nsOfficeDocRel + "/worksheet"
	relTypeSharedStrings = nsOfficeDocRel + "/sharedStrings"
	relTypeStyles        = nsOfficeDocRel + "/styles"
	relTypeCoreProps     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeAppProps      = nsOfficeDocRel + "/extended-properties"

	nsCoreProps = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC        = "http://purl.org/dc/elements/1.1/"
	nsDCTerms   = "http://purl.org/dc/terms/"
	nsXSI       = "http://www.w3.org/2001/XMLSchema-instance"
	nsAppProps  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

// Field order follows the XML attribute name, not Go convention: spec.md §5
// requires attributes to be emitted in strict lexicographic order, and
// encoding/xml serializes attributes in struct-field declaration order.
type xmlDefault struct {
	XMLName     xml.Name `xml:"Default"`
	ContentType string   `xml:"ContentType,attr"`
	Extension   string   `xml:"Extension,attr"`
}

type xmlOverride struct {
	XMLName     xml.Name `xml:"Override"`
	ContentType string   `xml:"ContentType,attr"`
	PartName    string   `xml:"PartName,attr"`
}

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"Relationship"`
	Id      string   `xml:"Id,attr"`
	Target  string   `xml:"Target,attr"`
	Type    string   `xml:"Type,attr"`
}

type xmlRelations struct {
	XMLName   xml.Name      `xml:"Relationships"`
	Xmlns     string        `xml:"xmlns,attr"`
	Relations []xmlRelation `xml:"Relationship"`
}

type xmlWorkbookSheet struct {
	XMLName xml.Name `xml:"sheet"`
	Name    string   `xml:"name,attr"`
	RId     string   `xml:"r:id,attr"`
	SheetId int      `xml:"sheetId,attr"`
	State   string   `xml:"state,attr,omitempty"`
}

type xmlWorkbookProperties struct {
	XMLName  xml.Name `xml:"workbookPr"`
	Date1904 bool     `xml:"date1904,attr,omitempty"`
}

type xmlWorkbook struct {
	XMLName    xml.Name              `xml:"workbook"`
	Xmlns      string                `xml:"xmlns,attr"`
	XmlnsR     string                `xml:"xmlns:r,attr"`
	Properties xmlWorkbookProperties `xml:"workbookPr"`
	Sheets     []xmlWorkbookSheet    `xml:"sheets>sheet"`
}

type xmlSharedStringItem struct {
	XMLName xml.Name `xml:"si"`
	T       string   `xml:"t"`
}

type xmlSharedStrings struct {
	XMLName   xml.Name              `xml:"sst"`
	Count     int                   `xml:"count,attr"`
	UniqCount int                   `xml:"uniqueCount,attr"`
	Xmlns     string                `xml:"xmlns,attr"`
	Items     []xmlSharedStringItem `xml:"si"`
}

// xmlCoreProperties is docProps/core.xml: Dublin Core metadata every OOXML
// package carries. Identifier is a random UUID stamped fresh on every write
// so two workbooks written from the same data are still distinguishable
// for document-tracking purposes.
type xmlCoreProperties struct {
	XMLName     xml.Name `xml:"cp:coreProperties"`
	XmlnsCP     string   `xml:"xmlns:cp,attr"`
	XmlnsDC     string   `xml:"xmlns:dc,attr"`
	XmlnsDCT    string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI    string   `xml:"xmlns:xsi,attr"`
	Created     xmlW3CDTF `xml:"dcterms:created"`
	Identifier  string   `xml:"dc:identifier"`
}

type xmlW3CDTF struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

type xmlAppProperties struct {
	XMLName       xml.Name `xml:"Properties"`
	Xmlns         string   `xml:"xmlns,attr"`
	Application   string   `xml:"Application"`
}
