package flatten

import (
	"strconv"
	"strings"

	"SeedWithWarehouse/internal/database"
	"SeedWithWarehouse/internal/vdi"
	"SeedWithWarehouse/pkg/logging"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

var (
	// ErrNoMarkets marks a products transaction without a MarketsCollection.
	ErrNoMarkets = errors.New("no <MarketsCollection> in the inner VDI XML")
	// ErrInvalidValue marks an inbound numeric attribute that does not parse.
	ErrInvalidValue = errors.New("invalid numeric value")
)

// Result holds the row-sets produced from one transaction. Only the slices
// relevant to Type are populated.
type Result struct {
	Type            string           `json:"type"`
	Transaction     *Transaction     `json:"transaction,omitempty"`
	Markets         []MarketInfo     `json:"markets,omitempty"`
	MarketCatalogs  []MarketCatalog  `json:"market_catalogs,omitempty"`
	Products        []Product        `json:"products,omitempty"`
	ProductCodes    []ProductCode    `json:"product_codes,omitempty"`
	ProductTaxes    []ProductTax     `json:"product_taxes,omitempty"`
	ProductFees     []ProductFee     `json:"product_fees,omitempty"`
	Sales           []Sale           `json:"sales,omitempty"`
	SaleItems       []SaleItem       `json:"sale_items,omitempty"`
	SaleItemTaxes   []SaleItemTax    `json:"sale_item_taxes,omitempty"`
	SaleTenders     []SaleTender     `json:"sale_tenders,omitempty"`
	Kiosks          []Kiosk          `json:"kiosks,omitempty"`
	CashCollections []CashCollection `json:"cash_collections,omitempty"`
}

// RowSet pairs a destination table with the records bound for it.
type RowSet struct {
	Table   string
	Records interface{}
	Len     int
}

// RowSets lists the non-empty row-sets of the result in load order. With join
// the product tables are replaced by their inner join.
func (r *Result) RowSets(join bool) []RowSet {
	var out []RowSet
	add := func(table string, records interface{}, n int) {
		if n > 0 {
			out = append(out, RowSet{Table: table, Records: records, Len: n})
		}
	}
	if r.Transaction != nil {
		add(database.TableTransactions, []Transaction{*r.Transaction}, 1)
	}
	add(database.TableMarketsInfo, r.Markets, len(r.Markets))
	add(database.TableMarketCatalogs, r.MarketCatalogs, len(r.MarketCatalogs))
	if join {
		joined := JoinProducts(r)
		add(database.TableProductsJoined, joined, len(joined))
	} else {
		add(database.TableProducts, r.Products, len(r.Products))
		add(database.TableProductCodes, r.ProductCodes, len(r.ProductCodes))
		add(database.TableProductTaxes, r.ProductTaxes, len(r.ProductTaxes))
		add(database.TableProductFees, r.ProductFees, len(r.ProductFees))
	}
	add(database.TableSales, r.Sales, len(r.Sales))
	add(database.TableSaleItems, r.SaleItems, len(r.SaleItems))
	add(database.TableSaleItemTaxes, r.SaleItemTaxes, len(r.SaleItemTaxes))
	add(database.TableSaleTenders, r.SaleTenders, len(r.SaleTenders))
	add(database.TableKiosks, r.Kiosks, len(r.Kiosks))
	add(database.TableCashCollections, r.CashCollections, len(r.CashCollections))
	return out
}

// Flattener turns parsed VDI transactions into row-sets. With a non-nil
// SnapshotWriter every produced row-set is also written out for inspection.
type Flattener struct {
	snapshot SnapshotWriter
}

func New(snapshot SnapshotWriter) *Flattener {
	return &Flattener{snapshot: snapshot}
}

func (f *Flattener) Flatten(msg *vdi.Message) (*Result, error) {
	logger := logging.GetLogger()
	logger.Debug("Start Flattener.Flatten")
	defer logger.Debug("End Flattener.Flatten")

	if msg == nil || msg.Root == nil {
		return nil, errors.Wrap(vdi.ErrMissingElement, "no VDITransaction to flatten")
	}

	var (
		res *Result
		err error
	)
	switch msg.Type {
	case vdi.TypeMarkets:
		res = flattenMarkets(msg.Root)
	case vdi.TypeProducts:
		res, err = flattenProducts(msg.Root)
	case vdi.TypeSales:
		res, err = flattenSales(msg.Root)
	case vdi.TypeKiosks:
		res, err = flattenKiosks(msg.Root)
	case vdi.TypeCollections:
		res, err = flattenCollections(msg.Root)
	default:
		logger.Warnf("Unknown VDI type %q, nothing to flatten", msg.Type)
		return &Result{Type: msg.Type}, nil
	}
	if err != nil {
		return nil, err
	}
	res.Type = msg.Type

	if f.snapshot != nil {
		for _, set := range res.RowSets(false) {
			if err := f.snapshot.Write(msg.Type+"-"+set.Table, set.Table, set.Records); err != nil {
				logger.Errorf("failed to write snapshot %s-%s: %v", msg.Type, set.Table, err)
			}
		}
	}
	return res, nil
}

// transactionElement returns root when it is the VDITransaction, or the first
// VDITransaction below it.
func transactionElement(root *etree.Element) *etree.Element {
	if tx := vdi.FindByLocalName(root, "VDITransaction"); tx != nil {
		return tx
	}
	return root
}

// findDescendant searches below el, excluding el itself.
func findDescendant(el *etree.Element, local string) *etree.Element {
	for _, child := range el.ChildElements() {
		if found := vdi.FindByLocalName(child, local); found != nil {
			return found
		}
	}
	return nil
}

func readTransaction(tx *etree.Element) *Transaction {
	a := func(name string) string { return vdi.AttrValue(tx, name) }
	return &Transaction{
		TransactionID:      a("TransactionID"),
		VDIXMLVersion:      a("VDIXMLVersion"),
		VDIXMLType:         a("VDIXMLType"),
		ProviderID:         a("ProviderID"),
		ApplicationID:      a("ApplicationID"),
		ApplicationVersion: a("ApplicationVersion"),
		TransactionTime:    a("TransactionTime"),
		OperatorID:         a("OperatorID"),
	}
}

func flattenMarkets(root *etree.Element) *Result {
	tx := transactionElement(root)
	res := &Result{Transaction: readTransaction(tx)}
	id := res.Transaction.TransactionID

	for _, m := range vdi.Children(vdi.Child(tx, "MarketsCollection"), "Market") {
		a := func(name string) string { return vdi.AttrValue(m, name) }
		res.Markets = append(res.Markets, MarketInfo{
			TransactionID:  id,
			MarketID:       a("MarketID"),
			MarketName:     a("MarketName"),
			MarketAddress:  a("MarketAddress"),
			MarketLocation: a("MarketLocation"),
			ClientID:       a("ClientID"),
			ClientName:     a("ClientName"),
		})
	}
	return res
}

func parseFloat(el *etree.Element, name string) (NullFloat, error) {
	v := strings.TrimSpace(vdi.AttrValue(el, name))
	if v == "" {
		return NullFloat{}, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return NullFloat{}, errors.Wrapf(ErrInvalidValue, "%s %s=%q", el.Tag, name, v)
	}
	out := NullFloat{}
	out.Float64, out.Valid = f, true
	return out, nil
}

func parseInt(el *etree.Element, name string) (NullInt, error) {
	v := strings.TrimSpace(vdi.AttrValue(el, name))
	if v == "" {
		return NullInt{}, nil
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return NullInt{}, errors.Wrapf(ErrInvalidValue, "%s %s=%q", el.Tag, name, v)
	}
	out := NullInt{}
	out.Int64, out.Valid = i, true
	return out, nil
}

func flattenProducts(root *etree.Element) (*Result, error) {
	tx := transactionElement(root)
	res := &Result{Transaction: readTransaction(tx)}
	id := res.Transaction.TransactionID

	markets := vdi.Child(tx, "MarketsCollection")
	if markets == nil {
		return nil, ErrNoMarkets
	}

	for _, m := range vdi.Children(markets, "Market") {
		marketID := vdi.AttrValue(m, "MarketID")
		res.MarketCatalogs = append(res.MarketCatalogs, MarketCatalog{
			TransactionID: id,
			MarketID:      marketID,
			CatalogSize:   vdi.AttrValue(m, "CatalogSize"),
		})

		for _, p := range vdi.Children(vdi.Child(m, "ProductsUpdate"), "Product") {
			if err := res.addProduct(id, marketID, p); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

func (res *Result) addProduct(id, marketID string, p *etree.Element) error {
	productID := vdi.AttrValue(p, "ProductID")
	price, err := parseFloat(p, "Price")
	if err != nil {
		return err
	}
	cost, err := parseFloat(p, "Cost")
	if err != nil {
		return err
	}
	res.Products = append(res.Products, Product{
		TransactionID: id,
		MarketID:      marketID,
		ProductID:     productID,
		ProductName:   vdi.AttrValue(p, "ProductName"),
		Price:         price,
		Cost:          cost,
		ProductCode:   vdi.AttrValue(p, "ProductCode"),
		Category:      vdi.AttrValue(p, "Category"),
	})

	for _, c := range vdi.Children(vdi.Child(p, "Codes"), "Code") {
		res.ProductCodes = append(res.ProductCodes, ProductCode{
			TransactionID: id,
			MarketID:      marketID,
			ProductID:     productID,
			Code:          strings.TrimSpace(c.Text()),
		})
	}

	for _, t := range vdi.Children(vdi.Child(p, "Taxes"), "Tax") {
		rate, err := parseFloat(t, "Rate")
		if err != nil {
			return err
		}
		included, err := parseInt(t, "IncludedInPrice")
		if err != nil {
			return err
		}
		res.ProductTaxes = append(res.ProductTaxes, ProductTax{
			TransactionID:   id,
			MarketID:        marketID,
			ProductID:       productID,
			TaxID:           vdi.AttrValue(t, "ID"),
			TaxName:         vdi.AttrValue(t, "Name"),
			TaxRate:         rate,
			IncludedInPrice: included,
		})
	}

	for _, f := range vdi.Children(vdi.Child(p, "Fees"), "Fee") {
		value, err := parseFloat(f, "Value")
		if err != nil {
			return err
		}
		res.ProductFees = append(res.ProductFees, ProductFee{
			TransactionID: id,
			MarketID:      marketID,
			ProductID:     productID,
			FeeID:         vdi.AttrValue(f, "ID"),
			FeeName:       vdi.AttrValue(f, "Name"),
			FeeValue:      value,
			IsTaxable:     vdi.AttrValue(f, "IsTaxable") == "true",
		})
	}
	return nil
}

func requireTransaction(root *etree.Element) (*etree.Element, error) {
	tx := vdi.FindByLocalName(root, "VDITransaction")
	if tx == nil {
		return nil, errors.Wrap(vdi.ErrMissingElement, "cannot find <VDITransaction>")
	}
	return tx, nil
}

func totalOf(parent *etree.Element, local string) string {
	return vdi.AttrValue(vdi.Child(parent, local), "Total")
}

func flattenSales(root *etree.Element) (*Result, error) {
	tx, err := requireTransaction(root)
	if err != nil {
		return nil, err
	}
	res := &Result{Transaction: readTransaction(tx)}
	id := res.Transaction.TransactionID

	for _, s := range vdi.Children(findDescendant(tx, "Sales"), "Sale") {
		marketID := vdi.AttrValue(s, "MarketID")
		saleID := vdi.AttrValue(s, "SaleID")
		summary := vdi.Child(s, "Summary")
		res.Sales = append(res.Sales, Sale{
			TransactionID: id,
			MarketID:      marketID,
			KioskID:       vdi.AttrValue(s, "KioskID"),
			ConsumerID:    vdi.AttrValue(s, "ConsumerID"),
			SaleID:        saleID,
			SaleTime:      vdi.AttrValue(s, "SaleTime"),
			Price:         vdi.AttrValue(summary, "Price"),
			Discount:      vdi.AttrValue(summary, "Discount"),
			Total:         vdi.AttrValue(summary, "Total"),
			FeesTotal:     totalOf(summary, "Fees"),
			TaxesTotal:    totalOf(summary, "Taxes"),
		})

		for i, item := range vdi.Children(vdi.Child(s, "Items"), "Item") {
			line := i + 1
			a := func(name string) string { return vdi.AttrValue(item, name) }
			res.SaleItems = append(res.SaleItems, SaleItem{
				TransactionID: id,
				MarketID:      marketID,
				SaleID:        saleID,
				Line:          line,
				ProductID:     a("ProductID"),
				Code:          a("Code"),
				Quantity:      a("Quantity"),
				Price:         a("Price"),
				Cost:          a("Cost"),
				Total:         a("Total"),
				FeesTotal:     totalOf(item, "Fees"),
				TaxesTotal:    totalOf(item, "Taxes"),
			})
			for _, tax := range vdi.Children(vdi.Child(item, "Taxes"), "Tax") {
				t := func(name string) string { return vdi.AttrValue(tax, name) }
				res.SaleItemTaxes = append(res.SaleItemTaxes, SaleItemTax{
					TransactionID: id,
					MarketID:      marketID,
					SaleID:        saleID,
					Line:          line,
					Name:          t("Name"),
					Rate:          t("Rate"),
					Value:         t("Value"),
					Count:         t("Count"),
					Total:         t("Total"),
				})
			}
		}

		for i, tender := range vdi.Children(vdi.Child(s, "Tenders"), "Tender") {
			res.SaleTenders = append(res.SaleTenders, SaleTender{
				TransactionID: id,
				MarketID:      marketID,
				SaleID:        saleID,
				Line:          i + 1,
				Type:          vdi.AttrValue(tender, "Type"),
				Amount:        vdi.AttrValue(tender, "Amount"),
			})
		}
	}
	return res, nil
}

func flattenKiosks(root *etree.Element) (*Result, error) {
	tx, err := requireTransaction(root)
	if err != nil {
		return nil, err
	}
	res := &Result{Transaction: readTransaction(tx)}

	for _, k := range vdi.Children(findDescendant(tx, "KiosksCollection"), "Kiosk") {
		a := func(name string) string { return vdi.AttrValue(k, name) }
		res.Kiosks = append(res.Kiosks, Kiosk{
			TransactionID:   res.Transaction.TransactionID,
			MarketID:        a("MarketID"),
			KioskID:         a("KioskID"),
			KioskSN:         a("KioskSN"),
			LastSync:        a("LastSync"),
			LastTransaction: a("LastTransaction"),
			CatalogVersion:  a("CatalogVersion"),
		})
	}
	return res, nil
}

func flattenCollections(root *etree.Element) (*Result, error) {
	tx, err := requireTransaction(root)
	if err != nil {
		return nil, err
	}
	res := &Result{Transaction: readTransaction(tx)}

	for _, c := range vdi.Children(findDescendant(tx, "CashCollections"), "CashCollection") {
		a := func(name string) string { return vdi.AttrValue(c, name) }
		res.CashCollections = append(res.CashCollections, CashCollection{
			TransactionID:  res.Transaction.TransactionID,
			MarketID:       a("MarketID"),
			KioskID:        a("KioskID"),
			CollectionTime: a("CollectionTime"),
			Amount:         a("Amount"),
			CollectedBy:    a("CollectedBy"),
		})
	}
	return res, nil
}
