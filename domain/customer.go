package domain

// CustomerType determines the price tier offered in the POS.
type CustomerType string

const (
	CustomerRetail      CustomerType = "RETAIL"
	CustomerWholesale   CustomerType = "WHOLESALE"
	CustomerDistributor CustomerType = "DISTRIBUTOR"
)

// Customer carries a running receivable balance. Positive balance means the
// customer owes the business.
type Customer struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Type        CustomerType `json:"type"`
	Balance     float64      `json:"balance"`
	CreditLimit float64      `json:"creditLimit"`
	Tags        []string     `json:"tags"`
	Notes       string       `json:"notes,omitempty"`
}
