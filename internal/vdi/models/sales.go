package models

type Sales struct {
	Sale []Sale `xml:"Sale"`
}

type Sale struct {
	MarketID   string   `xml:"MarketID,attr"`
	KioskID    string   `xml:"KioskID,attr"`
	ConsumerID string   `xml:"ConsumerID,attr,omitempty"`
	SaleID     string   `xml:"SaleID,attr"`
	SaleTime   string   `xml:"SaleTime,attr"`
	Summary    *Summary `xml:"Summary"`
	Items      *Items   `xml:"Items"`
	Tenders    *Tenders `xml:"Tenders"`
}

type Summary struct {
	Price    string     `xml:"Price,attr"`
	Discount string     `xml:"Discount,attr"`
	Total    string     `xml:"Total,attr"`
	Fees     *TotalOnly `xml:"Fees,omitempty"`
	Taxes    *TotalOnly `xml:"Taxes,omitempty"`
}

// TotalOnly is a Fees or Taxes element that carries nothing but its Total.
type TotalOnly struct {
	Total string `xml:"Total,attr"`
}

type Items struct {
	Item []Item `xml:"Item"`
}

type Item struct {
	ProductID string     `xml:"ProductID,attr"`
	Code      string     `xml:"Code,attr"`
	Quantity  string     `xml:"Quantity,attr"`
	Price     string     `xml:"Price,attr"`
	Cost      string     `xml:"Cost,attr"`
	Total     string     `xml:"Total,attr"`
	Fees      *TotalOnly `xml:"Fees,omitempty"`
	Taxes     *ItemTaxes `xml:"Taxes,omitempty"`
}

type ItemTaxes struct {
	Total string    `xml:"Total,attr"`
	Tax   []SaleTax `xml:"Tax"`
}

type SaleTax struct {
	Name  string `xml:"Name,attr"`
	Rate  string `xml:"Rate,attr"`
	Value string `xml:"Value,attr"`
	Count string `xml:"Count,attr"`
	Total string `xml:"Total,attr"`
}

type Tenders struct {
	Tender []Tender `xml:"Tender"`
}

type Tender struct {
	Type   string `xml:"Type,attr"`
	Amount string `xml:"Amount,attr"`
}
