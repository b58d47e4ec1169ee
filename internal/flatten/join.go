package flatten

type productKey struct {
	TransactionID string
	MarketID      string
	ProductID     string
}

// JoinProducts inner-joins products with their codes, taxes and fees on
// (TransactionID, MarketID, ProductID). A product lacking any one of the three
// produces no rows.
func JoinProducts(res *Result) []JoinedProduct {
	if res == nil {
		return nil
	}
	codes := make(map[productKey][]ProductCode)
	for _, c := range res.ProductCodes {
		k := productKey{c.TransactionID, c.MarketID, c.ProductID}
		codes[k] = append(codes[k], c)
	}
	taxes := make(map[productKey][]ProductTax)
	for _, t := range res.ProductTaxes {
		k := productKey{t.TransactionID, t.MarketID, t.ProductID}
		taxes[k] = append(taxes[k], t)
	}
	fees := make(map[productKey][]ProductFee)
	for _, f := range res.ProductFees {
		k := productKey{f.TransactionID, f.MarketID, f.ProductID}
		fees[k] = append(fees[k], f)
	}

	var out []JoinedProduct
	for _, p := range res.Products {
		k := productKey{p.TransactionID, p.MarketID, p.ProductID}
		for _, c := range codes[k] {
			for _, t := range taxes[k] {
				for _, f := range fees[k] {
					out = append(out, JoinedProduct{
						TransactionID:   p.TransactionID,
						MarketID:        p.MarketID,
						ProductID:       p.ProductID,
						ProductName:     p.ProductName,
						Price:           p.Price,
						Cost:            p.Cost,
						ProductCode:     p.ProductCode,
						Category:        p.Category,
						Code:            c.Code,
						TaxID:           t.TaxID,
						TaxName:         t.TaxName,
						TaxRate:         t.TaxRate,
						IncludedInPrice: t.IncludedInPrice,
						FeeID:           f.FeeID,
						FeeName:         f.FeeName,
						FeeValue:        f.FeeValue,
						IsTaxable:       f.IsTaxable,
					})
				}
			}
		}
	}
	return out
}
