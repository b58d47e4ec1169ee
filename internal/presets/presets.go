package presets

import "sort"

// Preset is a named set of payload defaults keyed the way requests key them.
type Preset map[string]interface{}

const DefaultName = "default"

var markets = map[string]Preset{
	"default": {
		"market_id":       "1",
		"operator_id":     "nm_swyft",
		"client_id":       "3436",
		"client_name":     "Bob and Associates",
		"market_name":     "Bobs Mufflers - Main Lunchroom",
		"market_address":  "550 Granite Court, Atlanta, GA, 30033",
		"market_location": "Bobs Mufflers",
	},
	"acme_painting": {
		"market_id":       "5",
		"operator_id":     "nm_swyft",
		"client_id":       "3441",
		"client_name":     "ACME INC",
		"market_name":     "Acme Painting – First Floor Breakroom",
		"market_address":  "123 ABC Street, Atlanta, GA, 30033",
		"market_location": "Acme Painting",
	},
	"woodys_barrels": {
		"market_id":       "2",
		"operator_id":     "nm_swyft",
		"client_id":       "3441",
		"client_name":     "ACME INC",
		"market_name":     "Woody's Premium Barrels - Lunchroom Ground Floor",
		"market_address":  "321 ABC Street, Atlanta, GA, 30033",
		"market_location": "Woody's Premium Barrels",
	},
}

var products = map[string]Preset{
	"default": {
		"market_id":    "1",
		"catalog_size": "Full",
		"product_id":   "602004053138",
		"product_name": "Hello Flawless Oxygen Wow Honey",
		"price":        "1.00",
		"cost":         "0.00",
		"product_code": "602004053138",
		"category":     "PHYSICAL",
		"barcode":      "602004053138",
		"tax_id":       "9120",
		"tax_name":     "Client MOR Tax",
		"tax_rate":     "0.00",
		"tax_included": "0",
		"fee_id":       "0",
		"fee_name":     "No Fee",
		"fee_value":    "0",
		"fee_taxable":  "false",
	},
	"beverage": {
		"market_id":    "1",
		"catalog_size": "Full",
		"product_id":   "819",
		"product_name": "DIET MTN Dew Bottle",
		"price":        "2.5",
		"cost":         "2.35",
		"product_code": "17",
		"category":     "Generic",
		"barcode":      "012000001345",
		"tax_id":       "1120",
		"tax_name":     "11.20 % tax",
		"tax_rate":     "0.11200",
		"tax_included": "0",
		"fee_id":       "10000",
		"fee_name":     "$1 bottle deposit",
		"fee_value":    "1",
		"fee_taxable":  "true",
	},
	"water": {
		"market_id":    "1",
		"catalog_size": "Full",
		"product_id":   "820",
		"product_name": "AQUAFINA WTR",
		"price":        "2.5",
		"cost":         "2.40",
		"product_code": "19",
		"category":     "Generic",
		"barcode":      "012000001598",
		"tax_id":       "1120",
		"tax_name":     "11.20 % tax",
		"tax_rate":     "0.11200",
		"tax_included": "0",
		"fee_id":       "10000",
		"fee_name":     "$1 bottle deposit",
		"fee_value":    "1",
		"fee_taxable":  "true",
	},
}

var sales = map[string]Preset{
	"default": {
		"operator_id": "nm_swyft",
		"provider_id": "swift",
		"market_id":   "1",
		"kiosk_id":    "1-K",
	},
}

var kiosks = map[string]Preset{
	"default": {
		"operator_id": "nm_swyft",
		"provider_id": "swift",
		"market_id":   "1",
		"kiosk_id":    "1-K",
		"kiosk_sn":    "VSH312309",
	},
}

var collections = map[string]Preset{
	"default": {
		"operator_id": "nm_swyft",
		"provider_id": "swift",
		"market_id":   "1",
		"kiosk_id":    "1-K",
	},
}

var byKind = map[string]map[string]Preset{
	"markets":     markets,
	"products":    products,
	"sales":       sales,
	"kiosks":      kiosks,
	"collections": collections,
}

// Get returns a copy of the named preset of kind. An unknown name falls back
// to the default preset; an unknown kind yields false.
func Get(kind, name string) (Preset, bool) {
	set, ok := byKind[kind]
	if !ok {
		return nil, false
	}
	p, ok := set[name]
	if !ok {
		p = set[DefaultName]
	}
	out := make(Preset, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out, true
}

// Has reports whether kind defines a preset called name.
func Has(kind, name string) bool {
	_, ok := byKind[kind][name]
	return ok
}

// Names lists the preset names of kind in sorted order.
func Names(kind string) []string {
	set := byKind[kind]
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All lists the preset names of every kind.
func All() map[string][]string {
	out := make(map[string][]string, len(byKind))
	for kind := range byKind {
		out[kind] = Names(kind)
	}
	return out
}

// Kind returns copies of every preset of kind keyed by name.
func Kind(kind string) (map[string]Preset, bool) {
	if _, ok := byKind[kind]; !ok {
		return nil, false
	}
	out := make(map[string]Preset)
	for _, name := range Names(kind) {
		out[name], _ = Get(kind, name)
	}
	return out, true
}
