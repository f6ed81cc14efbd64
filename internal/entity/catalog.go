package entity

import "math"

// CatalogEntry is one known product. NormalizedName (lowercased, trimmed
// ProductName) is the join key for reconciliation.
type CatalogEntry struct {
	SKU            string  `json:"sku"`
	ProductName    string  `json:"product_name"`
	NormalizedName string  `json:"-"`
	Price          float64 `json:"price"`
	MinOrderQty    int     `json:"min_order_qty"`
	StockAvailable int     `json:"stock_available"`
}

// Round2 rounds to two decimal places, the precision used for all money
// fields (item totals and order totals).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
