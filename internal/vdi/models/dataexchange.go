package models

import "encoding/xml"

type VDIDataExchange struct {
	XMLName            xml.Name   `xml:"VDIDataExchange"`
	XMLNS              string     `xml:"xmlns,attr"`
	XMLNSNs2           string     `xml:"xmlns:ns2,attr"`
	VDIXMLVersion      string     `xml:"VDIXMLVersion"`
	VDIXMLType         string     `xml:"VDIXMLType"`
	ProviderID         string     `xml:"ProviderID"`
	ApplicationID      string     `xml:"ApplicationID"`
	ApplicationVersion string     `xml:"ApplicationVersion"`
	TransactionID      string     `xml:"TransactionID"`
	TransactionTime    string     `xml:"TransactionTime"`
	OperatorID         string     `xml:"OperatorID"`
	CompressionType    NilElement `xml:"CompressionType"`
	CompressionParam   NilElement `xml:"CompressionParam"`
	Encoding           string     `xml:"Encoding"`
	VDIXML             VDIXML     `xml:"VDIXML"`
	UserData           NilElement `xml:"UserData"`
}

// VDIXML holds the embedded transaction document as character data.
type VDIXML struct {
	XMLNSNs3 string `xml:"xmlns:ns3,attr"`
	Content  string `xml:",chardata"`
}

type NilElement struct {
	XMLNSXsi string `xml:"xmlns:xsi,attr"`
	Nil      string `xml:"xsi:nil,attr"`
}

func NewNilElement() NilElement {
	return NilElement{XMLNSXsi: NamespaceXSI, Nil: "true"}
}

// VDIDataExchangeResponse is what the inbound SOAP endpoint answers with.
type VDIDataExchangeResponse struct {
	XMLName xml.Name `xml:"VDIDataExchangeResponse"`
	XMLNS   string   `xml:"xmlns,attr"`
	Result  struct {
		ResultCode        int    `xml:"ResultCode"`
		ResultDescription string `xml:"ResultDescription"`
	} `xml:"VDIDataExchangeResult"`
}

type SOAPEnvelope struct {
	XMLName   xml.Name `xml:"soap:Envelope"`
	XMLNSSoap string   `xml:"xmlns:soap,attr"`
	Body      SOAPBody `xml:"soap:Body"`
}

type SOAPBody struct {
	Content string `xml:",innerxml"`
}
