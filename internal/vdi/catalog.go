package vdi

import (
	"fmt"
	"strings"

	"SeedWithWarehouse/internal/vdi/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MarketRecord describes one market for an mms-markets transaction.
type MarketRecord struct {
	MarketID       string `json:"market_id" validate:"required"`
	OperatorID     string `json:"operator_id"`
	ClientID       string `json:"client_id" validate:"required"`
	ClientName     string `json:"client_name" validate:"required"`
	MarketName     string `json:"market_name" validate:"required"`
	MarketAddress  string `json:"market_address"`
	MarketLocation string `json:"market_location"`
}

// ProductRecord describes one catalog entry for an mms-products transaction.
// Tax and Fee are single entries; inbound products may carry several.
type ProductRecord struct {
	MarketID    string    `json:"market_id" validate:"required"`
	CatalogSize string    `json:"catalog_size"`
	ProductID   string    `json:"product_id" validate:"required"`
	ProductName string    `json:"product_name" validate:"required"`
	Price       string    `json:"price"`
	Cost        string    `json:"cost"`
	ProductCode string    `json:"product_code"`
	Category    string    `json:"category"`
	Barcode     string    `json:"barcode"`
	Tax         *TaxEntry `json:"tax,omitempty"`
	Fee         *FeeEntry `json:"fee,omitempty"`
}

type TaxEntry struct {
	ID              string `json:"tax_id" validate:"required"`
	Name            string `json:"tax_name"`
	Rate            string `json:"tax_rate"`
	IncludedInPrice string `json:"tax_included"`
}

type FeeEntry struct {
	ID        string `json:"fee_id" validate:"required"`
	Name      string `json:"fee_name"`
	Value     string `json:"fee_value"`
	IsTaxable string `json:"fee_taxable"`
}

// MarketFromPayload resolves every market field from the request first and
// the preset second.
func MarketFromPayload(payload, preset map[string]interface{}) MarketRecord {
	get := func(name string) string { return marketFields.first(name, payload, preset) }
	return MarketRecord{
		MarketID:       get("MarketID"),
		OperatorID:     get("OperatorID"),
		ClientID:       get("ClientID"),
		ClientName:     get("ClientName"),
		MarketName:     get("MarketName"),
		MarketAddress:  get("MarketAddress"),
		MarketLocation: get("MarketLocation"),
	}
}

// ProductFromPayload is MarketFromPayload for products.
func ProductFromPayload(payload, preset map[string]interface{}) ProductRecord {
	get := func(name string) string { return productFields.first(name, payload, preset) }
	p := ProductRecord{
		MarketID:    get("MarketID"),
		CatalogSize: get("CatalogSize"),
		ProductID:   get("ProductID"),
		ProductName: get("ProductName"),
		Price:       get("Price"),
		Cost:        get("Cost"),
		ProductCode: get("ProductCode"),
		Category:    get("Category"),
		Barcode:     get("Barcode"),
	}
	if id := get("TaxID"); id != "" {
		p.Tax = &TaxEntry{ID: id, Name: get("TaxName"), Rate: get("TaxRate"), IncludedInPrice: get("IncludedInPrice")}
	}
	if id := get("FeeID"); id != "" {
		p.Fee = &FeeEntry{ID: id, Name: get("FeeName"), Value: get("FeeValue"), IsTaxable: get("IsTaxable")}
	}
	return p
}

func validateRecord(scope string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		path := fe.StructNamespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		return validationf("missing required field '%s.%s'", scope, path)
	}
	return validationf("%s", err)
}

// BuildMarketsTransaction renders an mms-markets VDITransaction.
func BuildMarketsTransaction(h Header, markets ...MarketRecord) (string, error) {
	if len(markets) == 0 {
		return "", validationf("at least one market is required")
	}
	h.Type = TypeMarkets
	if h.OperatorID == "" {
		h.OperatorID = markets[0].OperatorID
	}
	h = h.Complete()

	tx := newTransaction(h)
	tx.MarketsCollection = &models.MarketsCollection{}
	for _, m := range markets {
		if err := validateRecord("Market", m); err != nil {
			return "", err
		}
		tx.MarketsCollection.Market = append(tx.MarketsCollection.Market, models.Market{
			MarketID:       m.MarketID,
			MarketName:     m.MarketName,
			MarketAddress:  m.MarketAddress,
			MarketLocation: m.MarketLocation,
			ClientID:       m.ClientID,
			ClientName:     m.ClientName,
		})
	}
	return render(tx)
}

// BuildProductsTransaction renders an mms-products VDITransaction. Products
// are grouped under their market in first-seen order.
func BuildProductsTransaction(h Header, products ...ProductRecord) (string, error) {
	if len(products) == 0 {
		return "", validationf("at least one product is required")
	}
	h.Type = TypeProducts
	h = h.Complete()

	tx := newTransaction(h)
	tx.MarketsCollection = &models.MarketsCollection{}
	index := make(map[string]int)
	for _, p := range products {
		if err := validateRecord("Product", p); err != nil {
			return "", err
		}
		i, ok := index[p.MarketID]
		if !ok {
			catalogSize := p.CatalogSize
			if catalogSize == "" {
				catalogSize = "Full"
			}
			tx.MarketsCollection.Market = append(tx.MarketsCollection.Market, models.Market{
				MarketID:       p.MarketID,
				CatalogSize:    catalogSize,
				ProductsUpdate: &models.ProductsUpdate{},
			})
			i = len(tx.MarketsCollection.Market) - 1
			index[p.MarketID] = i
		}
		update := tx.MarketsCollection.Market[i].ProductsUpdate
		update.Product = append(update.Product, productModel(p))
	}
	return render(tx)
}

func productModel(p ProductRecord) models.Product {
	out := models.Product{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Price:       FormatCurrency(p.Price),
		Cost:        FormatCurrency(p.Cost),
		ProductCode: p.ProductCode,
		Category:    p.Category,
	}
	if p.Barcode != "" {
		out.Codes = &models.Codes{Code: []string{p.Barcode}}
	}
	if p.Tax != nil {
		included := p.Tax.IncludedInPrice
		if included == "" {
			included = "0"
		}
		out.Taxes = &models.ProductTaxes{Tax: []models.ProductTax{{
			ID:              p.Tax.ID,
			Name:            p.Tax.Name,
			Rate:            p.Tax.Rate,
			IncludedInPrice: included,
		}}}
	}
	if p.Fee != nil {
		out.Fees = &models.ProductFees{Fee: []models.ProductFee{{
			ID:        p.Fee.ID,
			Name:      p.Fee.Name,
			Value:     p.Fee.Value,
			IsTaxable: fmt.Sprint(strings.EqualFold(p.Fee.IsTaxable, "true")),
		}}}
	}
	return out
}
