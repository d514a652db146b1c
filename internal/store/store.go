package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"evwcloud/m/domain"
	"evwcloud/m/internal/logger"
	"evwcloud/m/internal/seed"
)

// Storage keys. Each key holds one whole JSON collection; writes always
// overwrite the full document.
const (
	keyProducts  = "evw_products"
	keyCustomers = "evw_customers"
	keyInvoices  = "evw_invoices"
	keyExpenses  = "evw_expenses"
	keyStockLogs = "evw_stock_logs"
	keyProfile   = "evw_user_profile"
	keySettings  = "evw_settings"
	keyTeam      = "evw_team"
)

// Store is the single persistence handle for the POS. It is constructed once
// per process and passed into the engine and HTTP layer; reads degrade to
// seed defaults instead of failing.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
	*Tx
}

// New wraps a database connection in a Store.
func New(db *sqlx.DB) *Store {
	s := &Store{db: db, log: logger.WithComponent("store")}
	s.Tx = &Tx{store: s, q: db}
	return s
}

// Transact runs fn against a single SQLite transaction. Every write inside
// fn commits together or not at all.
func (s *Store) Transact(fn func(tx *Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&Tx{store: s, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// Tx is a read/write view over the stored collections, backed either by the
// root connection (autocommit) or by an open transaction.
type Tx struct {
	store *Store
	q     sqlx.Ext
}

// getJSON loads and decodes one key. A missing row or an unreadable document
// reports false so the caller can fall back to defaults; it never surfaces
// an error.
func (t *Tx) getJSON(key string, dest any) bool {
	var raw string
	if err := sqlx.Get(t.q, &raw, `SELECT value FROM kv_store WHERE key = $1`, key); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			t.store.log.Warn().Err(err).Str("key", key).Msg("unable to read stored document")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		t.store.log.Warn().Err(err).Str("key", key).Msg("malformed stored document, using defaults")
		return false
	}
	return true
}

func (t *Tx) putJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = t.q.Exec(`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, string(raw))
	return err
}

// Products returns the catalog, or the seed catalog when nothing usable is
// stored yet.
func (t *Tx) Products() []domain.Product {
	var products []domain.Product
	if !t.getJSON(keyProducts, &products) || products == nil {
		return seed.Products()
	}
	return products
}

func (t *Tx) SaveProducts(products []domain.Product) error {
	return t.putJSON(keyProducts, products)
}

// Customers returns the customer book, seeded with the walk-in customer.
func (t *Tx) Customers() []domain.Customer {
	var customers []domain.Customer
	if !t.getJSON(keyCustomers, &customers) || customers == nil {
		return seed.Customers()
	}
	return customers
}

func (t *Tx) SaveCustomers(customers []domain.Customer) error {
	return t.putJSON(keyCustomers, customers)
}

// Invoices returns all invoices, newest first.
func (t *Tx) Invoices() []domain.Invoice {
	var invoices []domain.Invoice
	if !t.getJSON(keyInvoices, &invoices) || invoices == nil {
		return []domain.Invoice{}
	}
	return invoices
}

func (t *Tx) SaveInvoices(invoices []domain.Invoice) error {
	return t.putJSON(keyInvoices, invoices)
}

// Expenses returns the expense list, newest first.
func (t *Tx) Expenses() []domain.Expense {
	var expenses []domain.Expense
	if !t.getJSON(keyExpenses, &expenses) || expenses == nil {
		return seed.Expenses()
	}
	return expenses
}

func (t *Tx) SaveExpenses(expenses []domain.Expense) error {
	return t.putJSON(keyExpenses, expenses)
}

// StockLogs returns the audit trail, newest first.
func (t *Tx) StockLogs() []domain.StockLog {
	var logs []domain.StockLog
	if !t.getJSON(keyStockLogs, &logs) || logs == nil {
		return []domain.StockLog{}
	}
	return logs
}

func (t *Tx) SaveStockLogs(logs []domain.StockLog) error {
	return t.putJSON(keyStockLogs, logs)
}

// UserProfile returns the signed-in operator, or nil when logged out.
func (t *Tx) UserProfile() *domain.UserProfile {
	var profile *domain.UserProfile
	if !t.getJSON(keyProfile, &profile) {
		return nil
	}
	return profile
}

// SaveUserProfile persists the operator; pass nil to log out.
func (t *Tx) SaveUserProfile(profile *domain.UserProfile) error {
	return t.putJSON(keyProfile, profile)
}

// Settings returns the admin settings document, or the EVW defaults.
func (t *Tx) Settings() domain.AdminSettings {
	var settings domain.AdminSettings
	if !t.getJSON(keySettings, &settings) {
		return seed.Settings()
	}
	return settings
}

func (t *Tx) SaveSettings(settings domain.AdminSettings) error {
	return t.putJSON(keySettings, settings)
}

// TeamMembers returns the staff list.
func (t *Tx) TeamMembers() []domain.TeamMember {
	var team []domain.TeamMember
	if !t.getJSON(keyTeam, &team) || team == nil {
		return []domain.TeamMember{}
	}
	return team
}

func (t *Tx) SaveTeamMembers(team []domain.TeamMember) error {
	return t.putJSON(keyTeam, team)
}
