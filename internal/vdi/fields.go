package vdi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// fieldSet is a declarative table of logical field names and the payload keys
// that may carry each of them, tried in order. scope prefixes the field name
// in validation messages.
type fieldSet struct {
	scope string
	keys  map[string][]string
}

func pascalSnake(pascal, snake string) []string {
	return []string{pascal, snake}
}

var (
	saleFields = fieldSet{scope: "Sale", keys: map[string][]string{
		"MarketID":   pascalSnake("MarketID", "market_id"),
		"KioskID":    pascalSnake("KioskID", "kiosk_id"),
		"ConsumerID": pascalSnake("ConsumerID", "consumer_id"),
		"SaleID":     pascalSnake("SaleID", "sale_id"),
		"SaleTime":   pascalSnake("SaleTime", "sale_time"),
	}}
	summaryFields = fieldSet{scope: "Summary", keys: map[string][]string{
		"Price":    pascalSnake("Price", "price"),
		"Discount": pascalSnake("Discount", "discount"),
		"Total":    pascalSnake("Total", "total"),
	}}
	itemFields = fieldSet{scope: "Item", keys: map[string][]string{
		"ProductID": pascalSnake("ProductID", "product_id"),
		"Code":      pascalSnake("Code", "code"),
		"Quantity":  pascalSnake("Quantity", "quantity"),
		"Price":     pascalSnake("Price", "price"),
		"Cost":      pascalSnake("Cost", "cost"),
		"Total":     pascalSnake("Total", "total"),
	}}
	itemTaxFields = fieldSet{scope: "Item.Taxes.Tax", keys: map[string][]string{
		"Name":  pascalSnake("Name", "name"),
		"Rate":  pascalSnake("Rate", "rate"),
		"Value": pascalSnake("Value", "value"),
		"Count": pascalSnake("Count", "count"),
		"Total": pascalSnake("Total", "total"),
	}}
	tenderFields = fieldSet{scope: "Tender", keys: map[string][]string{
		"Type":   pascalSnake("Type", "type"),
		"Amount": pascalSnake("Amount", "amount"),
	}}
	marketFields = fieldSet{scope: "Market", keys: map[string][]string{
		"MarketID":       pascalSnake("MarketID", "market_id"),
		"OperatorID":     pascalSnake("OperatorID", "operator_id"),
		"ClientID":       pascalSnake("ClientID", "client_id"),
		"ClientName":     pascalSnake("ClientName", "client_name"),
		"MarketName":     pascalSnake("MarketName", "market_name"),
		"MarketAddress":  pascalSnake("MarketAddress", "market_address"),
		"MarketLocation": pascalSnake("MarketLocation", "market_location"),
	}}
	productFields = fieldSet{scope: "Product", keys: map[string][]string{
		"MarketID":        pascalSnake("MarketID", "market_id"),
		"CatalogSize":     pascalSnake("CatalogSize", "catalog_size"),
		"ProductID":       pascalSnake("ProductID", "product_id"),
		"ProductName":     pascalSnake("ProductName", "product_name"),
		"Price":           pascalSnake("Price", "price"),
		"Cost":            pascalSnake("Cost", "cost"),
		"ProductCode":     pascalSnake("ProductCode", "product_code"),
		"Category":        pascalSnake("Category", "category"),
		"Barcode":         pascalSnake("Barcode", "barcode"),
		"TaxID":           pascalSnake("TaxID", "tax_id"),
		"TaxName":         pascalSnake("TaxName", "tax_name"),
		"TaxRate":         pascalSnake("TaxRate", "tax_rate"),
		"IncludedInPrice": pascalSnake("IncludedInPrice", "tax_included"),
		"FeeID":           pascalSnake("FeeID", "fee_id"),
		"FeeName":         pascalSnake("FeeName", "fee_name"),
		"FeeValue":        pascalSnake("FeeValue", "fee_value"),
		"IsTaxable":       pascalSnake("IsTaxable", "fee_taxable"),
	}}
)

func totalFields(scope string) fieldSet {
	return fieldSet{scope: scope, keys: map[string][]string{
		"Total": pascalSnake("Total", "total"),
	}}
}

// lookup returns the first candidate value that is present in src, in string
// form. Only JSON objects are searched.
func (fs fieldSet) lookup(src interface{}, name string) (string, bool) {
	m, ok := src.(map[string]interface{})
	if !ok {
		return "", false
	}
	for _, key := range fs.keys[name] {
		v, ok := m[key]
		if !ok || !present(v) {
			continue
		}
		s, _ := stringify(v)
		return s, true
	}
	return "", false
}

func (fs fieldSet) required(src interface{}, name string) (string, error) {
	if v, ok := fs.lookup(src, name); ok {
		return v, nil
	}
	return "", validationf("missing required field '%s.%s'", fs.scope, name)
}

// first resolves name against each source in turn.
func (fs fieldSet) first(name string, sources ...map[string]interface{}) string {
	for _, src := range sources {
		if v, ok := fs.lookup(src, name); ok {
			return v
		}
	}
	return ""
}

func present(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// truthy reports whether v counts as supplied for an optional sub-object.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		return t.String() != "0"
	case map[string]interface{}:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	}
	return true
}

// pick returns the first truthy value stored under one of keys.
func pick(src map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := src[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// normalizeList accepts nil, a single object, a list, or an object wrapping
// either under its singular key, and returns a list.
func normalizeList(data interface{}, singular string) []interface{} {
	if data == nil {
		return nil
	}
	values := data
	if m, ok := data.(map[string]interface{}); ok {
		if inner, ok := m[singular]; ok {
			values = inner
		}
	}
	switch v := values.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	}
	return []interface{}{values}
}

// stringify renders scalar JSON values. The second result is false for values
// that are not scalars.
func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	}
	return fmt.Sprint(v), false
}
