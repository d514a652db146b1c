package domain

// Product is a catalog entry. Monetary fields are PKR amounts; Stock may go
// negative when a sale oversells (the POS does not floor it).
type Product struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Brand             string  `json:"brand"`
	Category          string  `json:"category"`
	Flavor            string  `json:"flavor"`
	Strength          string  `json:"strength"`
	CostPrice         float64 `json:"costPrice"`
	WholesalePrice    float64 `json:"wholesalePrice"`
	RetailPrice       float64 `json:"retailPrice"`
	Stock             int64   `json:"stock"`
	LowStockThreshold int64   `json:"lowStockThreshold"`
	Description       string  `json:"description,omitempty"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
