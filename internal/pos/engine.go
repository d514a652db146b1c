package pos

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"evwcloud/m/domain"
	"evwcloud/m/internal/logger"
	"evwcloud/m/internal/store"
)

// DiscountRates is the automatic discount per customer type. Only
// distributors get one; wholesale customers share the wholesale price tier
// but receive no extra discount.
var DiscountRates = map[domain.CustomerType]float64{
	domain.CustomerRetail:      0,
	domain.CustomerWholesale:   0,
	domain.CustomerDistributor: 0.05,
}

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoCustomer       = errors.New("no customer selected")
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Engine owns every multi-entity mutation in the POS: checkout, audited
// stock adjustments, and receivable balance changes. All side effects of one
// operation commit in a single store transaction.
type Engine struct {
	store           *store.Store
	log             zerolog.Logger
	logSalesToAudit bool
	now             func() time.Time
}

// NewEngine builds the engine. When logSalesToAudit is set, checkout writes
// a SALE entry to the stock log for every deducted line in addition to the
// invoice record.
func NewEngine(st *store.Store, logSalesToAudit bool) *Engine {
	return &Engine{
		store:           st,
		log:             logger.WithComponent("pos"),
		logSalesToAudit: logSalesToAudit,
		now:             time.Now,
	}
}

// Checkout converts a cart, customer and payment selection into a committed
// invoice. In one transaction it persists the invoice (newest first),
// deducts sold quantities from every cart line that matches a catalog
// product, and, when the invoice is not fully paid, adds the full total to
// the customer's receivable balance.
//
// Stock is not floored at zero: overselling drives it negative so the count
// mismatch stays visible until corrected.
func (e *Engine) Checkout(cart []domain.CartItem, customer domain.Customer, method domain.PaymentMethod, status domain.InvoiceStatus) (domain.Invoice, error) {
	if len(cart) == 0 {
		return domain.Invoice{}, ErrEmptyCart
	}
	if customer.ID == "" {
		return domain.Invoice{}, ErrNoCustomer
	}
	if status == "" {
		status = domain.InvoicePaid
	}

	var subtotal, totalCost float64
	for _, item := range cart {
		subtotal += item.AppliedPrice * float64(item.Quantity)
		totalCost += item.CostPrice * float64(item.Quantity)
	}
	discount := subtotal * DiscountRates[customer.Type]
	total := subtotal - discount

	now := e.now()
	invoice := domain.Invoice{
		ID:            fmt.Sprintf("INV-%d", now.UnixMilli()),
		CustomerName:  customer.Name,
		CustomerID:    customer.ID,
		Date:          now.UTC().Format(time.RFC3339),
		Items:         cart,
		Subtotal:      subtotal,
		Discount:      discount,
		Tax:           0, // reserved
		Total:         total,
		Profit:        total - totalCost,
		Status:        status,
		PaymentMethod: method,
	}

	err := e.store.Transact(func(tx *store.Tx) error {
		invoices := append([]domain.Invoice{invoice}, tx.Invoices()...)
		if err := tx.SaveInvoices(invoices); err != nil {
			return err
		}

		// A cart may carry several lines for one product (say a retail and a
		// wholesale line); every line's quantity comes off the shelf.
		sold := make(map[string]int64, len(cart))
		for _, item := range cart {
			sold[item.Product.ID] += item.Quantity
		}
		products := tx.Products()
		stocked := make(map[string]string, len(sold))
		for i, p := range products {
			qty, ok := sold[p.ID]
			if !ok {
				continue
			}
			products[i].Stock = p.Stock - qty
			stocked[p.ID] = p.Name
		}
		if err := tx.SaveProducts(products); err != nil {
			return err
		}

		if e.logSalesToAudit {
			var saleLogs []domain.StockLog
			for _, item := range cart {
				name, ok := stocked[item.Product.ID]
				if !ok {
					continue
				}
				saleLogs = append(saleLogs, domain.StockLog{
					ID:           uuid.NewString(),
					ProductID:    item.Product.ID,
					ProductName:  name,
					ChangeAmount: -item.Quantity,
					Reason:       domain.ReasonSale,
					Date:         invoice.Date,
					Notes:        "Invoice " + invoice.ID,
				})
			}
			if len(saleLogs) > 0 {
				if err := tx.SaveStockLogs(append(saleLogs, tx.StockLogs()...)); err != nil {
					return err
				}
			}
		}

		if status != domain.InvoicePaid {
			// The full invoice total is credited against the customer, not a
			// partial/remaining amount.
			customers := tx.Customers()
			for i, c := range customers {
				if c.ID == customer.ID {
					customers[i].Balance = c.Balance + total
				}
			}
			if err := tx.SaveCustomers(customers); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	e.log.Info().
		Str("invoice", invoice.ID).
		Str("customer", customer.Name).
		Float64("total", total).
		Float64("profit", invoice.Profit).
		Msg("sale completed")
	return invoice, nil
}

// AdjustStock is the audited path for manual stock corrections. newStock is
// the physically counted absolute value, not a delta; the log entry records
// the signed difference. Unknown product ids report ErrProductNotFound.
func (e *Engine) AdjustStock(productID string, newStock int64, reason domain.StockReason, notes string) (domain.StockLog, error) {
	var entry domain.StockLog
	err := e.store.Transact(func(tx *store.Tx) error {
		products := tx.Products()
		idx := -1
		for i, p := range products {
			if p.ID == productID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrProductNotFound
		}

		diff := newStock - products[idx].Stock
		products[idx].Stock = newStock
		if err := tx.SaveProducts(products); err != nil {
			return err
		}

		entry = domain.StockLog{
			ID:           uuid.NewString(),
			ProductID:    productID,
			ProductName:  products[idx].Name,
			ChangeAmount: diff,
			Reason:       reason,
			Date:         e.now().UTC().Format(time.RFC3339),
			Notes:        notes,
		}
		return tx.SaveStockLogs(append([]domain.StockLog{entry}, tx.StockLogs()...))
	})
	if err != nil {
		return domain.StockLog{}, err
	}

	e.log.Info().
		Str("product", entry.ProductName).
		Int64("change", entry.ChangeAmount).
		Str("reason", string(entry.Reason)).
		Msg("stock adjusted")
	return entry, nil
}

// AdjustBalance applies a signed delta to a customer's receivable balance
// and returns the updated record.
func (e *Engine) AdjustBalance(customerID string, delta float64) (domain.Customer, error) {
	var updated domain.Customer
	err := e.store.Transact(func(tx *store.Tx) error {
		customers := tx.Customers()
		idx := -1
		for i, c := range customers {
			if c.ID == customerID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrCustomerNotFound
		}
		customers[idx].Balance += delta
		updated = customers[idx]
		return tx.SaveCustomers(customers)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return updated, nil
}

// UpsertProduct inserts a product when its id is new (assigning one if
// blank) and replaces the stored record otherwise. Field values are taken as
// given; the catalog does not second-guess prices or names.
func (e *Engine) UpsertProduct(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := e.store.Transact(func(tx *store.Tx) error {
		products := tx.Products()
		replaced := false
		for i, existing := range products {
			if existing.ID == p.ID {
				products[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			products = append(products, p)
		}
		return tx.SaveProducts(products)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// UpsertCustomer inserts or replaces a customer by id.
func (e *Engine) UpsertCustomer(c domain.Customer) (domain.Customer, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	err := e.store.Transact(func(tx *store.Tx) error {
		customers := tx.Customers()
		replaced := false
		for i, existing := range customers {
			if existing.ID == c.ID {
				customers[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			customers = append(customers, c)
		}
		return tx.SaveCustomers(customers)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// AddExpense prepends an expense to the log, filling id and date when blank.
func (e *Engine) AddExpense(exp domain.Expense) (domain.Expense, error) {
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.Date == "" {
		exp.Date = e.now().UTC().Format(time.RFC3339)
	}
	err := e.store.Transact(func(tx *store.Tx) error {
		return tx.SaveExpenses(append([]domain.Expense{exp}, tx.Expenses()...))
	})
	if err != nil {
		return domain.Expense{}, err
	}
	return exp, nil
}

// Stats aggregates every invoice, expense and product into the dashboard
// overview numbers.
func (e *Engine) Stats() domain.DashboardStats {
	var stats domain.DashboardStats
	for _, inv := range e.store.Invoices() {
		stats.TotalRevenue += inv.Total
		stats.TotalProfit += inv.Profit
	}
	for _, exp := range e.store.Expenses() {
		stats.TotalExpenses += exp.Amount
	}
	stats.NetIncome = stats.TotalProfit - stats.TotalExpenses
	for _, p := range e.store.Products() {
		if p.LowStock() {
			stats.LowStockCount++
		}
	}
	return stats
}

// TopProducts returns up to n product names ordered by stock on hand, the
// same rough proxy for movers the dashboard has always used.
func (e *Engine) TopProducts(n int) []string {
	products := e.store.Products()
	sort.SliceStable(products, func(i, j int) bool { return products[i].Stock > products[j].Stock })
	if n > len(products) {
		n = len(products)
	}
	names := make([]string, 0, n)
	for _, p := range products[:n] {
		names = append(names, p.Name)
	}
	return names
}
