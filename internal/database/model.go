package database

import "strings"

const (
	TypeString  = "TEXT"
	TypeFloat   = "REAL"
	TypeInteger = "INTEGER"
	TypeBoolean = "BOOLEAN"
)

const (
	TableTransactions    = "transactions"
	TableMarketsInfo     = "markets_info"
	TableMarketCatalogs  = "market_catalogs"
	TableProducts        = "products"
	TableProductCodes    = "product_codes"
	TableProductTaxes    = "product_taxes"
	TableProductFees     = "product_fees"
	TableProductsJoined  = "products_joined"
	TableSales           = "sales"
	TableSaleItems       = "sale_items"
	TableSaleItemTaxes   = "sale_item_taxes"
	TableSaleTenders     = "sale_tenders"
	TableKiosks          = "kiosks"
	TableCashCollections = "cash_collections"
)

type Column struct {
	Name string
	Type string
}

// Table is the declared schema of one destination table and the columns that
// identify a row for the insert-only merge.
type Table struct {
	Name    string
	Columns []Column
	Keys    []string
}

func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func text(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Type: TypeString}
	}
	return cols
}

func cols(groups ...[]Column) []Column {
	var out []Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var transactionColumns = text("TransactionID", "VDIXMLVersion", "VDIXMLType", "ProviderID",
	"ApplicationID", "ApplicationVersion", "TransactionTime", "OperatorID")

var productColumns = cols(
	text("TransactionID", "MarketID", "ProductID", "ProductName"),
	[]Column{{"Price", TypeFloat}, {"Cost", TypeFloat}},
	text("ProductCode", "Category"),
)

var Tables = map[string]Table{
	TableTransactions: {
		Name:    TableTransactions,
		Columns: transactionColumns,
		Keys:    []string{"TransactionID"},
	},
	TableMarketsInfo: {
		Name:    TableMarketsInfo,
		Columns: text("TransactionID", "MarketID", "MarketName", "MarketAddress", "MarketLocation", "ClientID", "ClientName"),
		Keys:    []string{"MarketID"},
	},
	TableMarketCatalogs: {
		Name:    TableMarketCatalogs,
		Columns: text("TransactionID", "MarketID", "CatalogSize"),
		Keys:    []string{"MarketID"},
	},
	TableProducts: {
		Name:    TableProducts,
		Columns: productColumns,
		Keys:    []string{"MarketID", "ProductID"},
	},
	TableProductCodes: {
		Name:    TableProductCodes,
		Columns: text("TransactionID", "MarketID", "ProductID", "Code"),
		Keys:    []string{"MarketID", "ProductID", "Code"},
	},
	TableProductTaxes: {
		Name: TableProductTaxes,
		Columns: cols(
			text("TransactionID", "MarketID", "ProductID", "TaxID", "TaxName"),
			[]Column{{"TaxRate", TypeFloat}, {"IncludedInPrice", TypeInteger}},
		),
		Keys: []string{"MarketID", "ProductID", "TaxID"},
	},
	TableProductFees: {
		Name: TableProductFees,
		Columns: cols(
			text("TransactionID", "MarketID", "ProductID", "FeeID", "FeeName"),
			[]Column{{"FeeValue", TypeFloat}, {"IsTaxable", TypeBoolean}},
		),
		Keys: []string{"MarketID", "ProductID", "FeeID"},
	},
	TableProductsJoined: {
		Name: TableProductsJoined,
		Columns: cols(
			productColumns,
			text("Code", "TaxID", "TaxName"),
			[]Column{{"TaxRate", TypeFloat}, {"IncludedInPrice", TypeInteger}},
			text("FeeID", "FeeName"),
			[]Column{{"FeeValue", TypeFloat}, {"IsTaxable", TypeBoolean}},
		),
		Keys: []string{"MarketID", "ProductID"},
	},
	TableSales: {
		Name: TableSales,
		Columns: text("TransactionID", "MarketID", "KioskID", "ConsumerID", "SaleID", "SaleTime",
			"Price", "Discount", "Total", "FeesTotal", "TaxesTotal"),
		Keys: []string{"MarketID", "SaleID"},
	},
	TableSaleItems: {
		Name: TableSaleItems,
		Columns: cols(
			text("TransactionID", "MarketID", "SaleID"),
			[]Column{{"Line", TypeInteger}},
			text("ProductID", "Code", "Quantity", "Price", "Cost", "Total", "FeesTotal", "TaxesTotal"),
		),
		Keys: []string{"MarketID", "SaleID", "Line"},
	},
	TableSaleItemTaxes: {
		Name: TableSaleItemTaxes,
		Columns: cols(
			text("TransactionID", "MarketID", "SaleID"),
			[]Column{{"Line", TypeInteger}},
			text("Name", "Rate", "Value", "Count", "Total"),
		),
		Keys: []string{"MarketID", "SaleID", "Line", "Name"},
	},
	TableSaleTenders: {
		Name: TableSaleTenders,
		Columns: cols(
			text("TransactionID", "MarketID", "SaleID"),
			[]Column{{"Line", TypeInteger}},
			text("Type", "Amount"),
		),
		Keys: []string{"MarketID", "SaleID", "Line"},
	},
	TableKiosks: {
		Name:    TableKiosks,
		Columns: text("TransactionID", "MarketID", "KioskID", "KioskSN", "LastSync", "LastTransaction", "CatalogVersion"),
		Keys:    []string{"MarketID", "KioskID"},
	},
	TableCashCollections: {
		Name:    TableCashCollections,
		Columns: text("TransactionID", "MarketID", "KioskID", "CollectionTime", "Amount", "CollectedBy"),
		Keys:    []string{"MarketID", "KioskID", "CollectionTime"},
	},
}

// LookupTable resolves a table identity such as "warehouse.vdi_products" to
// its declared schema by dropping the dataset qualifier and the prefix.
func LookupTable(id, prefix string) (Table, bool) {
	name := id
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, prefix)
	t, ok := Tables[name]
	return t, ok
}
