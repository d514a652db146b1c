// Package whatsapp builds the plain-text share messages and wa.me links the
// POS hands out with invoices and team invites.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"evwcloud/m/domain"
)

// InvoiceMessage renders the deterministic payment message for an invoice
// using the configured company branding and bank details.
func InvoiceMessage(inv domain.Invoice, settings domain.AdminSettings) string {
	return fmt.Sprintf(`*INVOICE FROM %s*
Invoice #: %s
Date: %s
Total: Rs. %s

Please pay to:
%s
%s

%s`,
		settings.Brand.CompanyName,
		inv.ID,
		displayDate(inv.Date),
		FormatAmount(inv.Total),
		settings.Banking.BankName,
		settings.Banking.AccountNumber,
		settings.Invoice.WhatsappFooter,
	)
}

// InviteMessage is the onboarding text sent to a newly added team member.
func InviteMessage(member domain.TeamMember, companyName string) string {
	return fmt.Sprintf("Hi %s, you have been added to %s as %s. Sign in with %s to access stock, invoices, and reports.",
		member.Name, companyName, member.Role, member.AuthProvider)
}

// Link builds a wa.me share URL. The phone may be empty, producing a link
// that lets the sender pick a recipient.
func Link(phone, text string) string {
	return "https://wa.me/" + digits(phone) + "?text=" + url.QueryEscape(text)
}

// FormatAmount renders a PKR amount with thousands separators and no
// trailing zeros, e.g. 7600 -> "7,600" and 7600.5 -> "7,600.5".
func FormatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

func displayDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("02/01/2006")
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
