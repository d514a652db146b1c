package domain

// BrandSettings control how the business presents itself on login and
// invoices.
type BrandSettings struct {
	CompanyName string `json:"companyName"`
	Tagline     string `json:"tagline"`
	BrandColor  string `json:"brandColor"`
	AccentColor string `json:"accentColor"`
}

// BankingSettings appear on invoices and in the WhatsApp payment message.
type BankingSettings struct {
	BankName      string `json:"bankName"`
	AccountTitle  string `json:"accountTitle"`
	AccountNumber string `json:"accountNumber"`
	IBAN          string `json:"iban,omitempty"`
}

// InvoiceSettings tune the invoice/share output.
type InvoiceSettings struct {
	WhatsappFooter string `json:"whatsappFooter"`
	ShowQR         bool   `json:"showQr"`
}

// AdminSettings is the whole admin control-center document, persisted as one
// object.
type AdminSettings struct {
	Brand   BrandSettings   `json:"brand"`
	Banking BankingSettings `json:"banking"`
	Invoice InvoiceSettings `json:"invoice"`
	Address string          `json:"address"`
	Phone   string          `json:"phone"`
	Email   string          `json:"email"`
}
