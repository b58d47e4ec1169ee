package models

import "encoding/xml"

const (
	NamespaceXSD        = "http://www.w3.org/2001/XMLSchema"
	NamespaceXSI        = "http://www.w3.org/2001/XMLSchema-instance"
	NamespaceVDI        = "urn:VDIDataExchangeService"
	NamespaceSerializer = "http://schemas.microsoft.com/2003/10/Serialization/"
	NamespaceSOAP       = "http://schemas.xmlsoap.org/soap/envelope/"
)

// VDITransaction is the document root shared by every VDI payload. Only one
// of the collections is set for a given VDIXMLType.
type VDITransaction struct {
	XMLName            xml.Name           `xml:"VDITransaction"`
	XMLNSXsd           string             `xml:"xmlns:xsd,attr"`
	VDIXMLVersion      string             `xml:"VDIXMLVersion,attr"`
	VDIXMLType         string             `xml:"VDIXMLType,attr"`
	ProviderID         string             `xml:"ProviderID,attr"`
	ApplicationID      string             `xml:"ApplicationID,attr"`
	ApplicationVersion string             `xml:"ApplicationVersion,attr"`
	TransactionID      string             `xml:"TransactionID,attr"`
	TransactionTime    string             `xml:"TransactionTime,attr"`
	OperatorID         string             `xml:"OperatorID,attr"`
	Sales              *Sales             `xml:"Sales,omitempty"`
	MarketsCollection  *MarketsCollection `xml:"MarketsCollection,omitempty"`
	KiosksCollection   *KiosksCollection  `xml:"KiosksCollection,omitempty"`
	CashCollections    *CashCollections   `xml:"CashCollections,omitempty"`
}

type KiosksCollection struct {
	Kiosk []Kiosk `xml:"Kiosk"`
}

type Kiosk struct {
	MarketID        string `xml:"MarketID,attr"`
	KioskID         string `xml:"KioskID,attr"`
	KioskSN         string `xml:"KioskSN,attr,omitempty"`
	LastSync        string `xml:"LastSync,attr,omitempty"`
	LastTransaction string `xml:"LastTransaction,attr,omitempty"`
	CatalogVersion  string `xml:"CatalogVersion,attr,omitempty"`
}

type CashCollections struct {
	CashCollection []CashCollection `xml:"CashCollection"`
}

type CashCollection struct {
	MarketID       string `xml:"MarketID,attr"`
	KioskID        string `xml:"KioskID,attr"`
	CollectionTime string `xml:"CollectionTime,attr"`
	Amount         string `xml:"Amount,attr"`
	CollectedBy    string `xml:"CollectedBy,attr,omitempty"`
}
