package domain

// ExpenseCategory is the closed set of buckets expenses are reported under.
type ExpenseCategory string

const (
	ExpenseRent        ExpenseCategory = "Rent"
	ExpenseUtilities   ExpenseCategory = "Utilities"
	ExpenseSalary      ExpenseCategory = "Salary"
	ExpenseRestocking  ExpenseCategory = "Restocking"
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseMarketing   ExpenseCategory = "Marketing"
	ExpenseOther       ExpenseCategory = "Other"
)

// ExpensePayment is how an expense was paid out.
type ExpensePayment string

const (
	ExpensePaidCash  ExpensePayment = "CASH"
	ExpensePaidBank  ExpensePayment = "BANK"
	ExpensePaidOther ExpensePayment = "OTHER"
)

// Expense is a standalone outgoing; it relates to no other entity beyond
// being summed for the dashboard.
type Expense struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Category      ExpenseCategory `json:"category"`
	Amount        float64         `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod ExpensePayment  `json:"paymentMethod"`
}
