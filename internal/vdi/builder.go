package vdi

import (
	"encoding/xml"

	"SeedWithWarehouse/internal/vdi/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// SalesFromRequest finds the sales payload in a send request: Sales or sales
// (list, object or {"Sale": ...} wrapper) first, then a single sale or Sale.
func SalesFromRequest(req map[string]interface{}) []interface{} {
	for _, key := range []string{"Sales", "sales"} {
		data, ok := req[key]
		if !ok || data == nil {
			continue
		}
		if list := normalizeList(data, "Sale"); len(list) > 0 {
			return list
		}
	}
	if single := pick(req, "sale", "Sale"); single != nil {
		return []interface{}{single}
	}
	return nil
}

// BuildSalesTransaction renders an mms-sales VDITransaction. sales may be a
// single sale object, a list of them, or a {"Sale": [...]} wrapper.
func BuildSalesTransaction(h Header, sales interface{}) (string, error) {
	h.Type = TypeSales
	h = h.Complete()

	list := normalizeList(sales, "Sale")
	if len(list) == 0 {
		return "", validationf("at least one sale is required (Sales.Sale or sales)")
	}

	tx := newTransaction(h)
	tx.Sales = &models.Sales{}
	for _, raw := range list {
		sale, err := buildSale(raw)
		if err != nil {
			return "", err
		}
		tx.Sales.Sale = append(tx.Sales.Sale, sale)
	}
	return render(tx)
}

func newTransaction(h Header) *models.VDITransaction {
	return &models.VDITransaction{
		XMLNSXsd:           models.NamespaceXSD,
		VDIXMLVersion:      h.XMLVersion,
		VDIXMLType:         h.Type,
		ProviderID:         h.ProviderID,
		ApplicationID:      h.ApplicationID,
		ApplicationVersion: h.ApplicationVersion,
		TransactionID:      h.TransactionID,
		TransactionTime:    h.TransactionTime,
		OperatorID:         h.OperatorID,
	}
}

func render(v interface{}) (string, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal vdi document")
	}
	return xmlDeclaration + string(out), nil
}

func buildSale(raw interface{}) (models.Sale, error) {
	var sale models.Sale
	src, ok := raw.(map[string]interface{})
	if !ok {
		return sale, validationf("each sale must be an object")
	}

	var err error
	if sale.MarketID, err = saleFields.required(src, "MarketID"); err != nil {
		return sale, err
	}
	if sale.KioskID, err = saleFields.required(src, "KioskID"); err != nil {
		return sale, err
	}
	if consumer := pick(src, "ConsumerID", "consumer_id"); consumer != nil {
		sale.ConsumerID, _ = stringify(consumer)
	}
	if sale.SaleID, err = saleFields.required(src, "SaleID"); err != nil {
		return sale, err
	}
	if sale.SaleTime, err = saleFields.required(src, "SaleTime"); err != nil {
		return sale, err
	}

	if sale.Summary, err = buildSummary(pick(src, "Summary", "summary")); err != nil {
		return sale, err
	}

	items := normalizeList(pick(src, "Items", "items"), "Item")
	if len(items) == 0 {
		return sale, validationf("at least one item is required (Items.Item)")
	}
	sale.Items = &models.Items{}
	for _, rawItem := range items {
		item, err := buildItem(rawItem)
		if err != nil {
			return sale, err
		}
		sale.Items.Item = append(sale.Items.Item, item)
	}

	tenders := normalizeList(pick(src, "Tenders", "tenders"), "Tender")
	if len(tenders) == 0 {
		return sale, validationf("at least one tender is required (Tenders.Tender)")
	}
	sale.Tenders = &models.Tenders{}
	for _, rawTender := range tenders {
		tender, err := buildTender(rawTender)
		if err != nil {
			return sale, err
		}
		sale.Tenders.Tender = append(sale.Tenders.Tender, tender)
	}
	return sale, nil
}

func buildSummary(raw interface{}) (*models.Summary, error) {
	src, ok := raw.(map[string]interface{})
	if !ok {
		return nil, validationf("summary data is required")
	}
	summary := &models.Summary{}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"Price", &summary.Price},
		{"Discount", &summary.Discount},
		{"Total", &summary.Total},
	} {
		v, err := summaryFields.required(src, f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = FormatCurrency(v)
	}
	summary.Fees = totalOnly(pick(src, "Fees", "fees"), "Summary.Fees")
	summary.Taxes = totalOnly(pick(src, "Taxes", "taxes"), "Summary.Taxes")
	return summary, nil
}

// totalOnly builds a Fees or Taxes element when the source object was
// supplied. A missing Total formats as zero.
func totalOnly(raw interface{}, scope string) *models.TotalOnly {
	if raw == nil {
		return nil
	}
	total, _ := totalFields(scope).lookup(raw, "Total")
	return &models.TotalOnly{Total: FormatCurrency(total)}
}

func buildItem(raw interface{}) (models.Item, error) {
	var item models.Item
	src, ok := raw.(map[string]interface{})
	if !ok {
		return item, validationf("each item must be an object")
	}

	var err error
	if item.ProductID, err = itemFields.required(src, "ProductID"); err != nil {
		return item, err
	}
	if item.Code, err = itemFields.required(src, "Code"); err != nil {
		return item, err
	}
	if item.Quantity, err = itemFields.required(src, "Quantity"); err != nil {
		return item, err
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"Price", &item.Price},
		{"Cost", &item.Cost},
		{"Total", &item.Total},
	} {
		v, err := itemFields.required(src, f.name)
		if err != nil {
			return item, err
		}
		*f.dst = FormatCurrency(v)
	}

	item.Fees = totalOnly(pick(src, "Fees", "fees"), "Item.Fees")
	if item.Taxes, err = buildItemTaxes(pick(src, "Taxes", "taxes")); err != nil {
		return item, err
	}
	return item, nil
}

// buildItemTaxes accepts either a total-only object, an itemized list, or an
// object holding both. Without an explicit total the itemized totals are
// summed.
func buildItemTaxes(raw interface{}) (*models.ItemTaxes, error) {
	if raw == nil {
		return nil, nil
	}

	var (
		total    string
		hasTotal bool
		list     []interface{}
	)
	if m, ok := raw.(map[string]interface{}); ok {
		total, hasTotal = totalFields("Item.Taxes").lookup(m, "Total")
		if tax := pick(m, "Tax", "tax"); tax != nil {
			list = normalizeList(tax, "Tax")
		}
	} else {
		list = normalizeList(raw, "Tax")
	}

	if len(list) == 0 {
		if !hasTotal {
			return nil, nil
		}
		return &models.ItemTaxes{Total: FormatCurrency(total)}, nil
	}

	taxes := &models.ItemTaxes{}
	sum := decimal.Zero
	for _, rawTax := range list {
		src, ok := rawTax.(map[string]interface{})
		if !ok {
			return nil, validationf("each tax must be an object")
		}
		var tax models.SaleTax
		var err error
		if tax.Name, err = itemTaxFields.required(src, "Name"); err != nil {
			return nil, err
		}
		rate, err := itemTaxFields.required(src, "Rate")
		if err != nil {
			return nil, err
		}
		value, err := itemTaxFields.required(src, "Value")
		if err != nil {
			return nil, err
		}
		if tax.Count, err = itemTaxFields.required(src, "Count"); err != nil {
			return nil, err
		}
		taxTotal, err := itemTaxFields.required(src, "Total")
		if err != nil {
			return nil, err
		}
		if !hasTotal {
			d, ok := parseDecimal(taxTotal)
			if !ok {
				return nil, validationf("invalid value %q for 'Item.Taxes.Tax.Total'", taxTotal)
			}
			sum = sum.Add(d)
		}
		tax.Rate = FormatCurrency(rate)
		tax.Value = FormatCurrency(value)
		tax.Total = FormatCurrency(taxTotal)
		taxes.Tax = append(taxes.Tax, tax)
	}
	if !hasTotal {
		total = sum.String()
	}
	taxes.Total = FormatCurrency(total)
	return taxes, nil
}

func buildTender(raw interface{}) (models.Tender, error) {
	var tender models.Tender
	src, ok := raw.(map[string]interface{})
	if !ok {
		return tender, validationf("each tender must be an object")
	}
	var err error
	if tender.Type, err = tenderFields.required(src, "Type"); err != nil {
		return tender, err
	}
	amount, err := tenderFields.required(src, "Amount")
	if err != nil {
		return tender, err
	}
	tender.Amount = FormatCurrency(amount)
	return tender, nil
}
