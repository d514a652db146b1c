package store

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"evwcloud/m/domain"
	"evwcloud/m/internal/migrations"
	"evwcloud/m/internal/seed"
)

func newTestStore(t *testing.T) (*Store, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)
	return New(db), db
}

func TestProductsDefaultToSeed(t *testing.T) {
	st, _ := newTestStore(t)
	assert.Equal(t, seed.Products(), st.Products())
}

func TestProductsRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)

	want := []domain.Product{
		{ID: "p1", Name: "Juice Head Peach", SKU: "JH-PCH-3", Brand: "Juice Head", CostPrice: 2100, RetailPrice: 3200, Stock: 14, LowStockThreshold: 5},
		{ID: "p2", Name: "GeekVape Aegis", SKU: "GV-AEG", Brand: "GeekVape", CostPrice: 8000, RetailPrice: 12500, Stock: 3, LowStockThreshold: 2},
	}
	require.NoError(t, st.SaveProducts(want))

	got := st.Products()
	assert.Equal(t, want, got, "order and field values must survive a save/load cycle")
}

func TestMalformedDocumentFallsBackToDefault(t *testing.T) {
	st, db := newTestStore(t)

	_, err := db.Exec(`INSERT INTO kv_store (key, value) VALUES ($1, $2)`, keyProducts, `{not json`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv_store (key, value) VALUES ($1, $2)`, keyInvoices, `"wrong shape"`)
	require.NoError(t, err)

	assert.Equal(t, seed.Products(), st.Products())
	assert.Empty(t, st.Invoices())
}

func TestInvoicesDefaultEmpty(t *testing.T) {
	st, _ := newTestStore(t)
	assert.Empty(t, st.Invoices())
	assert.Empty(t, st.StockLogs())
	assert.Empty(t, st.TeamMembers())
}

func TestUserProfileLifecycle(t *testing.T) {
	st, _ := newTestStore(t)

	assert.Nil(t, st.UserProfile(), "fresh store has no operator")

	profile := &domain.UserProfile{Name: "Owner", Email: "owner@evw.pk", Role: "Admin"}
	require.NoError(t, st.SaveUserProfile(profile))
	assert.Equal(t, profile, st.UserProfile())

	// Logout stores an explicit null.
	require.NoError(t, st.SaveUserProfile(nil))
	assert.Nil(t, st.UserProfile())
}

func TestSettingsDefaultAndOverwrite(t *testing.T) {
	st, _ := newTestStore(t)

	settings := st.Settings()
	assert.Equal(t, "EVW VAPE WHOLESALE", settings.Brand.CompanyName)
	assert.Equal(t, "Meezan Bank", settings.Banking.BankName)

	settings.Brand.CompanyName = "EVW Cloud"
	require.NoError(t, st.SaveSettings(settings))
	assert.Equal(t, "EVW Cloud", st.Settings().Brand.CompanyName)
}

func TestTransactRollsBackOnError(t *testing.T) {
	st, _ := newTestStore(t)

	boom := errors.New("boom")
	err := st.Transact(func(tx *Tx) error {
		require.NoError(t, tx.SaveProducts([]domain.Product{{ID: "x", Name: "Ghost"}}))
		require.NoError(t, tx.SaveInvoices([]domain.Invoice{{ID: "INV-1"}}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, seed.Products(), st.Products(), "aborted writes must not be visible")
	assert.Empty(t, st.Invoices())
}
