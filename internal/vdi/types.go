package vdi

const (
	TypeMarkets     = "mms-markets"
	TypeProducts    = "mms-products"
	TypeSales       = "mms-sales"
	TypeKiosks      = "mms-kiosks"
	TypeCollections = "mms-collections"
)

// Types maps the short names used on the HTTP surface to VDIXMLType values.
var Types = map[string]string{
	"markets":     TypeMarkets,
	"products":    TypeProducts,
	"sales":       TypeSales,
	"kiosks":      TypeKiosks,
	"collections": TypeCollections,
}

// ResolveType accepts either a short name or a full VDIXMLType.
func ResolveType(name string) (string, bool) {
	if t, ok := Types[name]; ok {
		return t, true
	}
	for _, t := range Types {
		if t == name {
			return t, true
		}
	}
	return "", false
}
