package pos

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"evwcloud/m/domain"
	"evwcloud/m/internal/migrations"
	"evwcloud/m/internal/store"
)

func newTestEngine(t *testing.T, logSales bool) (*Engine, *store.Store) {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)

	st := store.New(db)
	engine := NewEngine(st, logSales)
	engine.now = func() time.Time { return time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC) }
	return engine, st
}

func testProduct() domain.Product {
	return domain.Product{
		ID:                "1",
		Name:              "VGod Cubano Black",
		SKU:               "VG-CUB-BLK-50",
		CostPrice:         2800,
		WholesalePrice:    3200,
		RetailPrice:       4000,
		Stock:             45,
		LowStockThreshold: 10,
	}
}

func cartLine(p domain.Product, qty int64, price float64) domain.CartItem {
	return domain.CartItem{Product: p, Quantity: qty, PriceType: domain.PriceRetail, AppliedPrice: price}
}

func retailCustomer() domain.Customer {
	return domain.Customer{ID: "c1", Name: "Walk-in Customer", Type: domain.CustomerRetail}
}

func TestCheckoutRetailMath(t *testing.T) {
	engine, _ := newTestEngine(t, false)

	cart := []domain.CartItem{cartLine(testProduct(), 2, 4000)}
	invoice, err := engine.Checkout(cart, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Equal(t, 8000.0, invoice.Subtotal)
	assert.Equal(t, 0.0, invoice.Discount)
	assert.Equal(t, 8000.0, invoice.Total)
	assert.Equal(t, 2400.0, invoice.Profit)
	assert.Equal(t, 0.0, invoice.Tax)
	assert.Equal(t, invoice.Subtotal-invoice.Discount, invoice.Total)
}

func TestCheckoutDistributorDiscount(t *testing.T) {
	engine, _ := newTestEngine(t, false)

	distributor := domain.Customer{ID: "d1", Name: "Karachi Vape Depot", Type: domain.CustomerDistributor}
	cart := []domain.CartItem{cartLine(testProduct(), 2, 4000)}
	invoice, err := engine.Checkout(cart, distributor, domain.PayBankTransfer, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Equal(t, 8000.0, invoice.Subtotal)
	assert.Equal(t, 400.0, invoice.Discount, "5 percent of subtotal")
	assert.Equal(t, 7600.0, invoice.Total)
	assert.Equal(t, 2000.0, invoice.Profit)
}

func TestWholesaleCustomerGetsNoDiscount(t *testing.T) {
	engine, _ := newTestEngine(t, false)

	wholesale := domain.Customer{ID: "w1", Name: "Vape Station Lahore", Type: domain.CustomerWholesale}
	cart := []domain.CartItem{cartLine(testProduct(), 2, 3200)}
	invoice, err := engine.Checkout(cart, wholesale, domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Equal(t, 0.0, invoice.Discount)
	assert.Equal(t, 6400.0, invoice.Total)
}

func TestCheckoutDeductsStock(t *testing.T) {
	engine, st := newTestEngine(t, false)

	before := st.Products()[0]
	cart := []domain.CartItem{cartLine(before, 2, before.RetailPrice)}
	_, err := engine.Checkout(cart, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	after := st.Products()[0]
	assert.Equal(t, before.Stock-2, after.Stock)
}

func TestCheckoutDeductsAcrossDuplicateLines(t *testing.T) {
	engine, st := newTestEngine(t, false)

	// Same product sold twice on one bill, once at retail and once at the
	// wholesale rate. Both lines have to come off the shelf.
	before := st.Products()[0] // stock 45
	cart := []domain.CartItem{
		cartLine(before, 2, before.RetailPrice),
		cartLine(before, 3, before.WholesalePrice),
	}
	invoice, err := engine.Checkout(cart, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Len(t, invoice.Items, 2)
	assert.Equal(t, 2*before.RetailPrice+3*before.WholesalePrice, invoice.Subtotal)
	assert.Equal(t, before.Stock-5, st.Products()[0].Stock)
}

func TestCheckoutDuplicateLinesAuditPerLine(t *testing.T) {
	engine, st := newTestEngine(t, true)

	p := testProduct()
	cart := []domain.CartItem{
		cartLine(p, 2, p.RetailPrice),
		cartLine(p, 3, p.WholesalePrice),
	}
	invoice, err := engine.Checkout(cart, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	logs := st.StockLogs()
	require.Len(t, logs, 2, "one audit entry per cart line")
	assert.Equal(t, int64(-2), logs[0].ChangeAmount)
	assert.Equal(t, int64(-3), logs[1].ChangeAmount)
	for _, l := range logs {
		assert.Equal(t, p.ID, l.ProductID)
		assert.Equal(t, domain.ReasonSale, l.Reason)
		assert.Contains(t, l.Notes, invoice.ID)
	}
}

func TestCheckoutToleratesUnknownProductLine(t *testing.T) {
	engine, st := newTestEngine(t, false)

	ghost := domain.Product{ID: "no-such-id", Name: "Phantom", RetailPrice: 100}
	cart := []domain.CartItem{cartLine(ghost, 3, 100)}
	invoice, err := engine.Checkout(cart, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Len(t, invoice.Items, 1, "the line is still invoiced")
	for _, p := range st.Products() {
		assert.NotEqual(t, "no-such-id", p.ID)
	}
}

func TestCheckoutOversellGoesNegative(t *testing.T) {
	engine, st := newTestEngine(t, false)

	p := st.Products()[1] // seeded with stock 8
	cart := []domain.CartItem{cartLine(p, 10, p.RetailPrice)}
	_, err := engine.Checkout(cart, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Equal(t, p.Stock-10, st.Products()[1].Stock, "stock is not floored at zero")
}

func TestCheckoutUnpaidCreditsFullTotal(t *testing.T) {
	engine, st := newTestEngine(t, false)

	customers := st.Customers()
	wholesale := customers[1] // Vape Station Lahore, balance 15000
	cart := []domain.CartItem{cartLine(testProduct(), 2, 3200)}

	invoice, err := engine.Checkout(cart, wholesale, domain.PayBankTransfer, domain.InvoiceUnpaid)
	require.NoError(t, err)

	after := st.Customers()[1]
	assert.Equal(t, wholesale.Balance+invoice.Total, after.Balance)
}

func TestCheckoutPaidLeavesBalanceAlone(t *testing.T) {
	engine, st := newTestEngine(t, false)

	before := st.Customers()[1]
	cart := []domain.CartItem{cartLine(testProduct(), 1, 3200)}
	_, err := engine.Checkout(cart, before, domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	assert.Equal(t, before.Balance, st.Customers()[1].Balance)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	engine, st := newTestEngine(t, false)

	stockBefore := st.Products()[0].Stock
	_, err := engine.Checkout(nil, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.ErrorIs(t, err, ErrEmptyCart)

	assert.Empty(t, st.Invoices(), "no invoice may be created")
	assert.Equal(t, stockBefore, st.Products()[0].Stock)
}

func TestCheckoutNoCustomerRejected(t *testing.T) {
	engine, _ := newTestEngine(t, false)

	cart := []domain.CartItem{cartLine(testProduct(), 1, 4000)}
	_, err := engine.Checkout(cart, domain.Customer{}, domain.PayCash, domain.InvoicePaid)
	require.ErrorIs(t, err, ErrNoCustomer)
}

func TestCheckoutPersistsInvoiceNewestFirst(t *testing.T) {
	engine, st := newTestEngine(t, false)

	first, err := engine.Checkout([]domain.CartItem{cartLine(testProduct(), 1, 4000)}, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)
	engine.now = func() time.Time { return time.Date(2024, 11, 5, 15, 0, 0, 0, time.UTC) }
	second, err := engine.Checkout([]domain.CartItem{cartLine(testProduct(), 1, 4000)}, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	invoices := st.Invoices()
	require.Len(t, invoices, 2)
	assert.Equal(t, second.ID, invoices[0].ID)
	assert.Equal(t, first.ID, invoices[1].ID)
	assert.Equal(t, "Walk-in Customer", invoices[0].CustomerName, "customer name is snapshotted")
}

func TestCheckoutSaleAuditDisabledByDefault(t *testing.T) {
	engine, st := newTestEngine(t, false)

	_, err := engine.Checkout([]domain.CartItem{cartLine(testProduct(), 2, 4000)}, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)
	assert.Empty(t, st.StockLogs(), "sale-driven deductions are not audited unless enabled")
}

func TestCheckoutSaleAuditEnabled(t *testing.T) {
	engine, st := newTestEngine(t, true)

	invoice, err := engine.Checkout([]domain.CartItem{cartLine(testProduct(), 2, 4000)}, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)

	logs := st.StockLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ReasonSale, logs[0].Reason)
	assert.Equal(t, int64(-2), logs[0].ChangeAmount)
	assert.Equal(t, "1", logs[0].ProductID)
	assert.Contains(t, logs[0].Notes, invoice.ID)
}

func TestAdjustStockAbsoluteSet(t *testing.T) {
	engine, st := newTestEngine(t, false)

	before := st.Products()[0] // stock 45
	entry, err := engine.AdjustStock(before.ID, 50, domain.ReasonRestock, "new shipment")
	require.NoError(t, err)

	assert.Equal(t, int64(50), st.Products()[0].Stock)
	assert.Equal(t, int64(50)-before.Stock, entry.ChangeAmount)
	assert.Equal(t, before.Name, entry.ProductName)
	assert.Equal(t, domain.ReasonRestock, entry.Reason)
	assert.Equal(t, "new shipment", entry.Notes)

	logs := st.StockLogs()
	require.Len(t, logs, 1, "exactly one audit entry per adjustment")
	assert.Equal(t, entry, logs[0])
}

func TestAdjustStockDownward(t *testing.T) {
	engine, st := newTestEngine(t, false)

	entry, err := engine.AdjustStock("1", 40, domain.ReasonDamage, "")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), entry.ChangeAmount)
	assert.Equal(t, int64(40), st.Products()[0].Stock)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	engine, st := newTestEngine(t, false)

	_, err := engine.AdjustStock("missing", 10, domain.ReasonCorrection, "")
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, st.StockLogs(), "failed adjustments leave no audit entry")
}

func TestAdjustBalance(t *testing.T) {
	engine, st := newTestEngine(t, false)

	before := st.Customers()[1]
	updated, err := engine.AdjustBalance(before.ID, -5000)
	require.NoError(t, err)
	assert.Equal(t, before.Balance-5000, updated.Balance)
	assert.Equal(t, updated.Balance, st.Customers()[1].Balance)

	_, err = engine.AdjustBalance("missing", 10)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestUpsertProductInsertAndReplace(t *testing.T) {
	engine, st := newTestEngine(t, false)

	created, err := engine.UpsertProduct(domain.Product{Name: "Skwezed Watermelon", SKU: "SKW-WM-3", RetailPrice: 3000})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "a blank id is assigned")
	assert.Len(t, st.Products(), 4)

	created.RetailPrice = 3300
	_, err = engine.UpsertProduct(created)
	require.NoError(t, err)

	products := st.Products()
	assert.Len(t, products, 4, "same id replaces, never duplicates")
	assert.Equal(t, 3300.0, products[3].RetailPrice)
}

func TestStats(t *testing.T) {
	engine, _ := newTestEngine(t, false)

	_, err := engine.Checkout([]domain.CartItem{cartLine(testProduct(), 2, 4000)}, retailCustomer(), domain.PayCash, domain.InvoicePaid)
	require.NoError(t, err)
	_, err = engine.AddExpense(domain.Expense{Category: domain.ExpenseMarketing, Amount: 1000, Description: "Flyers", PaymentMethod: domain.ExpensePaidCash})
	require.NoError(t, err)

	stats := engine.Stats()
	assert.Equal(t, 8000.0, stats.TotalRevenue)
	assert.Equal(t, 2400.0, stats.TotalProfit)
	assert.Equal(t, 51000.0, stats.TotalExpenses, "seed rent plus the new expense")
	assert.Equal(t, stats.TotalProfit-stats.TotalExpenses, stats.NetIncome)
	assert.Equal(t, int64(1), stats.LowStockCount, "seeded Pod Salt Nexus Pro is below threshold")
}

func TestTopProducts(t *testing.T) {
	engine, _ := newTestEngine(t, false)

	top := engine.TopProducts(2)
	require.Len(t, top, 2)
	assert.Equal(t, "Tokyo Iced Mint", top[0], "highest stock first")

	all := engine.TopProducts(10)
	assert.Len(t, all, 3, "n is clamped to the catalog size")
}

func TestAddExpensePrepends(t *testing.T) {
	engine, st := newTestEngine(t, false)

	exp, err := engine.AddExpense(domain.Expense{Category: domain.ExpenseUtilities, Amount: 7500, Description: "Electricity", PaymentMethod: domain.ExpensePaidBank})
	require.NoError(t, err)
	assert.NotEmpty(t, exp.ID)
	assert.NotEmpty(t, exp.Date)

	expenses := st.Expenses()
	require.Len(t, expenses, 2)
	assert.Equal(t, exp.ID, expenses[0].ID, "newest first")
}
