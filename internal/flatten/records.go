package flatten

import (
	"database/sql"
	"encoding/json"
)

// NullFloat is a nullable REAL column that encodes to JSON as a number or
// null.
type NullFloat struct {
	sql.NullFloat64
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// NullInt is the INTEGER counterpart of NullFloat.
type NullInt struct {
	sql.NullInt64
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Int64)
}

type Transaction struct {
	TransactionID      string `db:"TransactionID" json:"transaction_id"`
	VDIXMLVersion      string `db:"VDIXMLVersion" json:"vdi_xml_version"`
	VDIXMLType         string `db:"VDIXMLType" json:"vdi_xml_type"`
	ProviderID         string `db:"ProviderID" json:"provider_id"`
	ApplicationID      string `db:"ApplicationID" json:"application_id"`
	ApplicationVersion string `db:"ApplicationVersion" json:"application_version"`
	TransactionTime    string `db:"TransactionTime" json:"transaction_time"`
	OperatorID         string `db:"OperatorID" json:"operator_id"`
}

type MarketInfo struct {
	TransactionID  string `db:"TransactionID" json:"transaction_id"`
	MarketID       string `db:"MarketID" json:"market_id"`
	MarketName     string `db:"MarketName" json:"market_name"`
	MarketAddress  string `db:"MarketAddress" json:"market_address"`
	MarketLocation string `db:"MarketLocation" json:"market_location"`
	ClientID       string `db:"ClientID" json:"client_id"`
	ClientName     string `db:"ClientName" json:"client_name"`
}

type MarketCatalog struct {
	TransactionID string `db:"TransactionID" json:"transaction_id"`
	MarketID      string `db:"MarketID" json:"market_id"`
	CatalogSize   string `db:"CatalogSize" json:"catalog_size"`
}

type Product struct {
	TransactionID string    `db:"TransactionID" json:"transaction_id"`
	MarketID      string    `db:"MarketID" json:"market_id"`
	ProductID     string    `db:"ProductID" json:"product_id"`
	ProductName   string    `db:"ProductName" json:"product_name"`
	Price         NullFloat `db:"Price" json:"price"`
	Cost          NullFloat `db:"Cost" json:"cost"`
	ProductCode   string    `db:"ProductCode" json:"product_code"`
	Category      string    `db:"Category" json:"category"`
}

type ProductCode struct {
	TransactionID string `db:"TransactionID" json:"transaction_id"`
	MarketID      string `db:"MarketID" json:"market_id"`
	ProductID     string `db:"ProductID" json:"product_id"`
	Code          string `db:"Code" json:"code"`
}

type ProductTax struct {
	TransactionID   string    `db:"TransactionID" json:"transaction_id"`
	MarketID        string    `db:"MarketID" json:"market_id"`
	ProductID       string    `db:"ProductID" json:"product_id"`
	TaxID           string    `db:"TaxID" json:"tax_id"`
	TaxName         string    `db:"TaxName" json:"tax_name"`
	TaxRate         NullFloat `db:"TaxRate" json:"tax_rate"`
	IncludedInPrice NullInt   `db:"IncludedInPrice" json:"included_in_price"`
}

type ProductFee struct {
	TransactionID string    `db:"TransactionID" json:"transaction_id"`
	MarketID      string    `db:"MarketID" json:"market_id"`
	ProductID     string    `db:"ProductID" json:"product_id"`
	FeeID         string    `db:"FeeID" json:"fee_id"`
	FeeName       string    `db:"FeeName" json:"fee_name"`
	FeeValue      NullFloat `db:"FeeValue" json:"fee_value"`
	IsTaxable     bool      `db:"IsTaxable" json:"is_taxable"`
}

// JoinedProduct is one row of the products × codes × taxes × fees join.
type JoinedProduct struct {
	TransactionID   string    `db:"TransactionID" json:"transaction_id"`
	MarketID        string    `db:"MarketID" json:"market_id"`
	ProductID       string    `db:"ProductID" json:"product_id"`
	ProductName     string    `db:"ProductName" json:"product_name"`
	Price           NullFloat `db:"Price" json:"price"`
	Cost            NullFloat `db:"Cost" json:"cost"`
	ProductCode     string    `db:"ProductCode" json:"product_code"`
	Category        string    `db:"Category" json:"category"`
	Code            string    `db:"Code" json:"code"`
	TaxID           string    `db:"TaxID" json:"tax_id"`
	TaxName         string    `db:"TaxName" json:"tax_name"`
	TaxRate         NullFloat `db:"TaxRate" json:"tax_rate"`
	IncludedInPrice NullInt   `db:"IncludedInPrice" json:"included_in_price"`
	FeeID           string    `db:"FeeID" json:"fee_id"`
	FeeName         string    `db:"FeeName" json:"fee_name"`
	FeeValue        NullFloat `db:"FeeValue" json:"fee_value"`
	IsTaxable       bool      `db:"IsTaxable" json:"is_taxable"`
}

type Sale struct {
	TransactionID string `db:"TransactionID" json:"transaction_id"`
	MarketID      string `db:"MarketID" json:"market_id"`
	KioskID       string `db:"KioskID" json:"kiosk_id"`
	ConsumerID    string `db:"ConsumerID" json:"consumer_id,omitempty"`
	SaleID        string `db:"SaleID" json:"sale_id"`
	SaleTime      string `db:"SaleTime" json:"sale_time"`
	Price         string `db:"Price" json:"price"`
	Discount      string `db:"Discount" json:"discount"`
	Total         string `db:"Total" json:"total"`
	FeesTotal     string `db:"FeesTotal" json:"fees_total,omitempty"`
	TaxesTotal    string `db:"TaxesTotal" json:"taxes_total,omitempty"`
}

type SaleItem struct {
	TransactionID string `db:"TransactionID" json:"transaction_id"`
	MarketID      string `db:"MarketID" json:"market_id"`
	SaleID        string `db:"SaleID" json:"sale_id"`
	Line          int    `db:"Line" json:"line"`
	ProductID     string `db:"ProductID" json:"product_id"`
	Code          string `db:"Code" json:"code"`
	Quantity      string `db:"Quantity" json:"quantity"`
	Price         string `db:"Price" json:"price"`
	Cost          string `db:"Cost" json:"cost"`
	Total         string `db:"Total" json:"total"`
	FeesTotal     string `db:"FeesTotal" json:"fees_total,omitempty"`
	TaxesTotal    string `db:"TaxesTotal" json:"taxes_total,omitempty"`
}

type SaleItemTax struct {
	TransactionID string `db:"TransactionID" json:"transaction_id"`
	MarketID      string `db:"MarketID" json:"market_id"`
	SaleID        string `db:"SaleID" json:"sale_id"`
	Line          int    `db:"Line" json:"line"`
	Name          string `db:"Name" json:"name"`
	Rate          string `db:"Rate" json:"rate"`
	Value         string `db:"Value" json:"value"`
	Count         string `db:"Count" json:"count"`
	Total         string `db:"Total" json:"total"`
}

type SaleTender struct {
	TransactionID string `db:"TransactionID" json:"transaction_id"`
	MarketID      string `db:"MarketID" json:"market_id"`
	SaleID        string `db:"SaleID" json:"sale_id"`
	Line          int    `db:"Line" json:"line"`
	Type          string `db:"Type" json:"type"`
	Amount        string `db:"Amount" json:"amount"`
}

type Kiosk struct {
	TransactionID   string `db:"TransactionID" json:"transaction_id"`
	MarketID        string `db:"MarketID" json:"market_id"`
	KioskID         string `db:"KioskID" json:"kiosk_id"`
	KioskSN         string `db:"KioskSN" json:"kiosk_sn"`
	LastSync        string `db:"LastSync" json:"last_sync"`
	LastTransaction string `db:"LastTransaction" json:"last_transaction"`
	CatalogVersion  string `db:"CatalogVersion" json:"catalog_version"`
}

type CashCollection struct {
	TransactionID  string `db:"TransactionID" json:"transaction_id"`
	MarketID       string `db:"MarketID" json:"market_id"`
	KioskID        string `db:"KioskID" json:"kiosk_id"`
	CollectionTime string `db:"CollectionTime" json:"collection_time"`
	Amount         string `db:"Amount" json:"amount"`
	CollectedBy    string `db:"CollectedBy" json:"collected_by"`
}
