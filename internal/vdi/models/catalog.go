package models

type MarketsCollection struct {
	Market []Market `xml:"Market"`
}

// Market is used by both mms-markets (descriptive attributes) and
// mms-products (CatalogSize with a ProductsUpdate block).
type Market struct {
	MarketID       string          `xml:"MarketID,attr"`
	MarketName     string          `xml:"MarketName,attr,omitempty"`
	MarketAddress  string          `xml:"MarketAddress,attr,omitempty"`
	MarketLocation string          `xml:"MarketLocation,attr,omitempty"`
	ClientID       string          `xml:"ClientID,attr,omitempty"`
	ClientName     string          `xml:"ClientName,attr,omitempty"`
	CatalogSize    string          `xml:"CatalogSize,attr,omitempty"`
	ProductsUpdate *ProductsUpdate `xml:"ProductsUpdate,omitempty"`
}

type ProductsUpdate struct {
	Product []Product `xml:"Product"`
}

type Product struct {
	ProductID   string        `xml:"ProductID,attr"`
	ProductName string        `xml:"ProductName,attr"`
	Price       string        `xml:"Price,attr"`
	Cost        string        `xml:"Cost,attr"`
	ProductCode string        `xml:"ProductCode,attr,omitempty"`
	Category    string        `xml:"Category,attr,omitempty"`
	Codes       *Codes        `xml:"Codes,omitempty"`
	Taxes       *ProductTaxes `xml:"Taxes,omitempty"`
	Fees        *ProductFees  `xml:"Fees,omitempty"`
}

type Codes struct {
	Code []string `xml:"Code"`
}

type ProductTaxes struct {
	Tax []ProductTax `xml:"Tax"`
}

type ProductTax struct {
	ID              string `xml:"ID,attr"`
	Name            string `xml:"Name,attr"`
	Rate            string `xml:"Rate,attr"`
	IncludedInPrice string `xml:"IncludedInPrice,attr"`
}

type ProductFees struct {
	Fee []ProductFee `xml:"Fee"`
}

type ProductFee struct {
	ID        string `xml:"ID,attr"`
	Name      string `xml:"Name,attr"`
	Value     string `xml:"Value,attr"`
	IsTaxable string `xml:"IsTaxable,attr"`
}
