package domain

// StockReason codes why a product's on-hand quantity changed.
type StockReason string

const (
	ReasonRestock    StockReason = "RESTOCK"
	ReasonSale       StockReason = "SALE"
	ReasonDamage     StockReason = "DAMAGE"
	ReasonTheft      StockReason = "THEFT"
	ReasonCorrection StockReason = "CORRECTION"
	ReasonReturn     StockReason = "RETURN"
)

// StockLog is one append-only audit entry. ChangeAmount is signed (+5
// restocked, -2 damaged). ProductName is a snapshot taken when the entry is
// written.
type StockLog struct {
	ID           string      `json:"id"`
	ProductID    string      `json:"productId"`
	ProductName  string      `json:"productName"`
	ChangeAmount int64       `json:"changeAmount"`
	Reason       StockReason `json:"reason"`
	Date         string      `json:"date"`
	Notes        string      `json:"notes,omitempty"`
}
