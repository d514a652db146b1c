package domain

// PriceType selects which product price a cart line was sold at.
type PriceType string

const (
	PriceRetail    PriceType = "RETAIL"
	PriceWholesale PriceType = "WHOLESALE"
)

// CartItem is a product snapshot plus sale quantity. AppliedPrice is frozen
// at add-to-cart time and does not follow later catalog edits.
type CartItem struct {
	Product
	Quantity     int64     `json:"quantity"`
	PriceType    PriceType `json:"priceType"`
	AppliedPrice float64   `json:"appliedPrice"`
}

// InvoiceStatus tracks how much of an invoice has been settled.
type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "PAID"
	InvoicePartial InvoiceStatus = "PARTIAL"
	InvoiceUnpaid  InvoiceStatus = "UNPAID"
)

// PaymentMethod is how the customer settled (or will settle) an invoice.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "CASH"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
	PayJazzCash     PaymentMethod = "JAZZCASH"
	PayEasypaisa    PaymentMethod = "EASYPAISA"
)

// Invoice is immutable once created. CustomerName is a snapshot taken at
// checkout so later customer renames do not rewrite history. Items keep the
// order they were added to the cart.
type Invoice struct {
	ID            string        `json:"id"`
	CustomerName  string        `json:"customerName"`
	CustomerID    string        `json:"customerId,omitempty"`
	Date          string        `json:"date"`
	Items         []CartItem    `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Profit        float64       `json:"profit"`
	Status        InvoiceStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes,omitempty"`
}
