package vdi

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"SeedWithWarehouse/internal/vdi/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() Header {
	return Header{
		XMLVersion:         "1",
		ProviderID:         "SWIFT",
		ApplicationID:      "SyncVdiMicromarkets.Uploader",
		ApplicationVersion: "232.0.4572.0",
		OperatorID:         "nm_swyft",
		TransactionID:      "0d6c1f4e-0000-4000-8000-000000000001",
		TransactionTime:    "2025-01-01T00:00:00.000000Z",
		Encoding:           "UTF-8",
	}
}

func exampleSale() map[string]interface{} {
	return map[string]interface{}{
		"MarketID": "1",
		"KioskID":  "1-K",
		"SaleID":   "S1",
		"SaleTime": "2025-01-01T00:00:00Z",
		"Summary":  map[string]interface{}{"Price": "10", "Discount": "0", "Total": "10"},
		"Items": map[string]interface{}{"Item": []interface{}{
			map[string]interface{}{"ProductID": "P1", "Code": "C1", "Quantity": "1", "Price": "10", "Cost": "5", "Total": "10"},
		}},
		"Tenders": map[string]interface{}{"Tender": []interface{}{
			map[string]interface{}{"Type": "CASH", "Amount": "10"},
		}},
	}
}

func unmarshalTransaction(t *testing.T, doc string) models.VDITransaction {
	var tx models.VDITransaction
	require.NoError(t, xml.Unmarshal([]byte(doc), &tx))
	return tx
}

func TestBuildSalesTransactionExample(t *testing.T) {
	Assert := assert.New(t)

	doc, err := BuildSalesTransaction(testHeader(), exampleSale())
	require.NoError(t, err)

	Assert.True(strings.HasPrefix(doc, `<?xml version="1.0" encoding="utf-8"?>`))
	Assert.Equal(1, strings.Count(doc, "<Item "))
	Assert.Equal(1, strings.Count(doc, "<Tender "))
	Assert.Contains(doc, `Price="10.00"`)
	Assert.Contains(doc, `VDIXMLType="mms-sales"`)

	tx := unmarshalTransaction(t, doc)
	require.NotNil(t, tx.Sales)
	require.Len(t, tx.Sales.Sale, 1)
	sale := tx.Sales.Sale[0]
	Assert.Equal("1", sale.MarketID)
	Assert.Equal("S1", sale.SaleID)
	Assert.Equal("10.00", sale.Summary.Price)
	Assert.Equal("0.00", sale.Summary.Discount)
	Assert.Nil(sale.Summary.Fees)
	Assert.Nil(sale.Summary.Taxes)
	Assert.Equal("5.00", sale.Items.Item[0].Cost)
	Assert.Equal("1", sale.Items.Item[0].Quantity)
	Assert.Equal("CASH", sale.Tenders.Tender[0].Type)
	Assert.Equal("10.00", sale.Tenders.Tender[0].Amount)
	Assert.Equal("0d6c1f4e-0000-4000-8000-000000000001", tx.TransactionID)
}

func TestBuildSalesTransactionAttributeOrder(t *testing.T) {
	sale := exampleSale()
	sale["consumer_id"] = "C9"

	doc, err := BuildSalesTransaction(testHeader(), sale)
	require.NoError(t, err)
	assert.Contains(t, doc, `<Sale MarketID="1" KioskID="1-K" ConsumerID="C9" SaleID="S1" SaleTime="2025-01-01T00:00:00Z">`)
	assert.Contains(t, doc, `<VDITransaction xmlns:xsd="http://www.w3.org/2001/XMLSchema" VDIXMLVersion="1" VDIXMLType="mms-sales" ProviderID="SWIFT"`)
}

func TestBuildSalesTransactionAcceptsShapes(t *testing.T) {
	shapes := map[string]interface{}{
		"bare object": exampleSale(),
		"list":        []interface{}{exampleSale(), exampleSale()},
		"wrapper":     map[string]interface{}{"Sale": []interface{}{exampleSale()}},
	}
	for name, payload := range shapes {
		t.Logf("Test shape: %s", name)
		doc, err := BuildSalesTransaction(testHeader(), payload)
		require.NoError(t, err)
		assert.NotZero(t, strings.Count(doc, "<Sale "))
	}
}

func TestBuildSalesTransactionSnakeCaseAndNumbers(t *testing.T) {
	var sale map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"market_id": 7, "kiosk_id": "7-K", "sale_id": "S7", "sale_time": "2025-02-02T10:00:00Z",
		"summary": {"price": 3.5, "discount": 0, "total": 3.5,
			"fees": {"total": 0.25}, "taxes": {"total": "0.3"}},
		"items": [{"product_id": "P", "code": "C", "quantity": 2, "price": 1.75, "cost": 1, "total": 3.5,
			"fees": {"total": "0.25"}}],
		"tenders": {"type": "CARD", "amount": 3.75}
	}`), &sale))

	doc, err := BuildSalesTransaction(testHeader(), sale)
	require.NoError(t, err)

	tx := unmarshalTransaction(t, doc)
	s := tx.Sales.Sale[0]
	assert.Equal(t, "7", s.MarketID)
	assert.Equal(t, "3.50", s.Summary.Price)
	assert.Equal(t, "0.25", s.Summary.Fees.Total)
	assert.Equal(t, "0.30", s.Summary.Taxes.Total)
	assert.Equal(t, "2", s.Items.Item[0].Quantity)
	assert.Equal(t, "0.25", s.Items.Item[0].Fees.Total)
	assert.Equal(t, "3.75", s.Tenders.Tender[0].Amount)
}

func TestBuildSalesTransactionDerivesItemTaxTotal(t *testing.T) {
	sale := exampleSale()
	item := sale["Items"].(map[string]interface{})["Item"].([]interface{})[0].(map[string]interface{})
	item["Taxes"] = map[string]interface{}{"Tax": []interface{}{
		map[string]interface{}{"name": "Tax1", "rate": "0.05", "value": "1.00", "count": "1", "total": "1.00"},
	}}

	doc, err := BuildSalesTransaction(testHeader(), sale)
	require.NoError(t, err)

	taxes := unmarshalTransaction(t, doc).Sales.Sale[0].Items.Item[0].Taxes
	require.NotNil(t, taxes)
	assert.Equal(t, "1.00", taxes.Total)
	require.Len(t, taxes.Tax, 1)
	assert.Equal(t, "Tax1", taxes.Tax[0].Name)
	assert.Equal(t, "0.05", taxes.Tax[0].Rate)
	assert.Equal(t, "1", taxes.Tax[0].Count)
}

func TestBuildSalesTransactionItemTaxShapes(t *testing.T) {
	cases := []struct {
		name  string
		taxes interface{}
		total string
		count int
	}{
		{"total only", map[string]interface{}{"Total": "0.7"}, "0.70", 0},
		{"explicit total wins", map[string]interface{}{"Total": "2", "Tax": map[string]interface{}{
			"Name": "T", "Rate": "0.1", "Value": "1", "Count": "1", "Total": "1"}}, "2.00", 1},
		{"bare list summed", []interface{}{
			map[string]interface{}{"Name": "A", "Rate": "0.1", "Value": "1", "Count": "1", "Total": "0.5"},
			map[string]interface{}{"Name": "B", "Rate": "0.1", "Value": "1", "Count": "1", "Total": "0.25"},
		}, "0.75", 2},
	}
	for _, c := range cases {
		t.Logf("Test case: %s", c.name)
		sale := exampleSale()
		item := sale["Items"].(map[string]interface{})["Item"].([]interface{})[0].(map[string]interface{})
		item["Taxes"] = c.taxes

		doc, err := BuildSalesTransaction(testHeader(), sale)
		require.NoError(t, err)
		taxes := unmarshalTransaction(t, doc).Sales.Sale[0].Items.Item[0].Taxes
		require.NotNil(t, taxes)
		assert.Equal(t, c.total, taxes.Total)
		assert.Len(t, taxes.Tax, c.count)
	}
}

func TestBuildSalesTransactionValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(map[string]interface{}) interface{}
		message string
	}{
		{"no items", func(s map[string]interface{}) interface{} {
			s["Items"] = map[string]interface{}{"Item": []interface{}{}}
			return s
		}, "Items.Item"},
		{"no tenders", func(s map[string]interface{}) interface{} {
			delete(s, "Tenders")
			return s
		}, "Tenders.Tender"},
		{"missing market", func(s map[string]interface{}) interface{} {
			delete(s, "MarketID")
			return s
		}, "Sale.MarketID"},
		{"empty string is missing", func(s map[string]interface{}) interface{} {
			s["SaleID"] = ""
			return s
		}, "Sale.SaleID"},
		{"no summary", func(s map[string]interface{}) interface{} {
			delete(s, "Summary")
			return s
		}, "summary"},
		{"missing item cost", func(s map[string]interface{}) interface{} {
			s["Items"] = []interface{}{map[string]interface{}{"ProductID": "P", "Code": "C", "Quantity": "1", "Price": "1", "Total": "1"}}
			return s
		}, "Item.Cost"},
		{"item not an object", func(s map[string]interface{}) interface{} {
			s["Items"] = []interface{}{"P1"}
			return s
		}, "each item must be an object"},
		{"tender not an object", func(s map[string]interface{}) interface{} {
			s["Tenders"] = []interface{}{42.0}
			return s
		}, "each tender must be an object"},
		{"sale not an object", func(s map[string]interface{}) interface{} {
			return []interface{}{"S1"}
		}, "each sale must be an object"},
		{"no sales", func(s map[string]interface{}) interface{} {
			return nil
		}, "at least one sale"},
	}
	for _, c := range cases {
		t.Logf("Test case: %s", c.name)
		_, err := BuildSalesTransaction(testHeader(), c.mutate(exampleSale()))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), c.message)
	}
}

func TestSalesFromRequest(t *testing.T) {
	assert.Len(t, SalesFromRequest(map[string]interface{}{"Sales": map[string]interface{}{"Sale": []interface{}{exampleSale(), exampleSale()}}}), 2)
	assert.Len(t, SalesFromRequest(map[string]interface{}{"sales": []interface{}{exampleSale()}}), 1)
	assert.Len(t, SalesFromRequest(map[string]interface{}{"sale": exampleSale()}), 1)
	assert.Empty(t, SalesFromRequest(map[string]interface{}{"other": true}))
}

func TestHeaderComplete(t *testing.T) {
	saved := now
	now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 891011000, time.FixedZone("X", 3600)) }
	defer func() { now = saved }()

	h := Header{}.Complete()
	assert.Equal(t, "2025-03-04T04:06:07.891011Z", h.TransactionTime)
	assert.Len(t, h.TransactionID, 36)
	assert.Equal(t, "1", h.XMLVersion)
	assert.Equal(t, "UTF-8", h.Encoding)

	other := Header{}.Complete()
	assert.NotEqual(t, h.TransactionID, other.TransactionID)

	fixed := testHeader().Complete()
	assert.Equal(t, testHeader(), fixed)
}
