package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"evwcloud/m/domain"
	"evwcloud/m/internal/seed"
)

func TestInvoiceMessage(t *testing.T) {
	inv := domain.Invoice{
		ID:            "INV-1730817000000",
		Date:          "2024-11-05T14:30:00Z",
		CustomerName:  "Vape Station Lahore",
		Total:         7600,
		PaymentMethod: domain.PayBankTransfer,
	}

	msg := InvoiceMessage(inv, seed.Settings())

	assert.Contains(t, msg, "*INVOICE FROM EVW VAPE WHOLESALE*")
	assert.Contains(t, msg, "Invoice #: INV-1730817000000")
	assert.Contains(t, msg, "Date: 05/11/2024")
	assert.Contains(t, msg, "Total: Rs. 7,600")
	assert.Contains(t, msg, "Meezan Bank")
	assert.Contains(t, msg, "PK12 MEZN 0000 1234 5678 9012")
	assert.Contains(t, msg, "Thank you for your business!")
}

func TestInvoiceMessageDeterministic(t *testing.T) {
	inv := domain.Invoice{ID: "INV-1", Date: "2024-01-02T03:04:05Z", Total: 100}
	settings := seed.Settings()
	assert.Equal(t, InvoiceMessage(inv, settings), InvoiceMessage(inv, settings))
}

func TestInviteMessage(t *testing.T) {
	member := domain.TeamMember{Name: "Ayesha", Role: "Manager", AuthProvider: "Google"}
	msg := InviteMessage(member, "EVW Cloud ERP")
	assert.Equal(t, "Hi Ayesha, you have been added to EVW Cloud ERP as Manager. Sign in with Google to access stock, invoices, and reports.", msg)
}

func TestLink(t *testing.T) {
	link := Link("+92 321 5555555", "pay Rs. 100 & thanks")
	assert.Equal(t, "https://wa.me/923215555555?text=pay+Rs.+100+%26+thanks", link)

	// No phone still yields a usable picker link.
	assert.Equal(t, "https://wa.me/?text=hi", Link("", "hi"))
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		950:      "950",
		7600:     "7,600",
		7600.5:   "7,600.5",
		1234567:  "1,234,567",
		-15000:   "-15,000",
		12000.25: "12,000.25",
	}
	for amount, want := range cases {
		assert.Equal(t, want, FormatAmount(amount), "amount %v", amount)
	}
}
