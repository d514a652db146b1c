package seed

import "evwcloud/m/domain"

// Built-in catalogs used whenever a store key is absent or unreadable. They
// are never written back until the first explicit save.

// Products returns the starter vape catalog.
func Products() []domain.Product {
	return []domain.Product{
		{
			ID:                "1",
			Name:              "VGod Cubano Black",
			SKU:               "VG-CUB-BLK-50",
			Brand:             "VGod",
			Category:          "Nic Salt",
			Flavor:            "Tobacco Custard",
			Strength:          "50mg",
			CostPrice:         2800,
			WholesalePrice:    3200,
			RetailPrice:       4000,
			Stock:             45,
			LowStockThreshold: 10,
			Description:       "Rich creamy tobacco flavor.",
		},
		{
			ID:                "2",
			Name:              "Pod Salt Nexus Pro",
			SKU:               "PS-NEX-MAN",
			Brand:             "Pod Salt",
			Category:          "Disposable",
			Flavor:            "Mango Ice",
			Strength:          "20mg",
			CostPrice:         1500,
			WholesalePrice:    1800,
			RetailPrice:       2500,
			Stock:             8,
			LowStockThreshold: 15,
		},
		{
			ID:                "3",
			Name:              "Tokyo Iced Mint",
			SKU:               "TOK-MINT-30",
			Brand:             "Tokyo",
			Category:          "E-Liquid",
			Flavor:            "Mint",
			Strength:          "3mg",
			CostPrice:         2200,
			WholesalePrice:    2600,
			RetailPrice:       3500,
			Stock:             120,
			LowStockThreshold: 20,
		},
	}
}

// Customers returns the default customer book, led by the walk-in customer
// the POS preselects.
func Customers() []domain.Customer {
	return []domain.Customer{
		{
			ID:   "c1",
			Name: "Walk-in Customer",
			Type: domain.CustomerRetail,
			Tags: []string{},
		},
		{
			ID:          "c2",
			Name:        "Vape Station Lahore",
			Phone:       "+92 321 5555555",
			Type:        domain.CustomerWholesale,
			Balance:     15000,
			CreditLimit: 50000,
			Tags:        []string{"Distributor", "Reliable"},
		},
	}
}

// Expenses returns the sample opening expense.
func Expenses() []domain.Expense {
	return []domain.Expense{
		{
			ID:            "e1",
			Date:          "2024-10-01T00:00:00Z",
			Category:      domain.ExpenseRent,
			Amount:        50000,
			Description:   "Shop Rent - October",
			PaymentMethod: domain.ExpensePaidBank,
		},
	}
}

// Settings returns the default admin settings with EVW company details.
func Settings() domain.AdminSettings {
	return domain.AdminSettings{
		Brand: domain.BrandSettings{
			CompanyName: "EVW VAPE WHOLESALE",
			Tagline:     "Premium vape distribution, Karachi",
			BrandColor:  "#059669",
			AccentColor: "#0f172a",
		},
		Banking: domain.BankingSettings{
			BankName:      "Meezan Bank",
			AccountTitle:  "EVW Traders",
			AccountNumber: "PK12 MEZN 0000 1234 5678 9012",
		},
		Invoice: domain.InvoiceSettings{
			WhatsappFooter: "Thank you for your business!",
			ShowQR:         true,
		},
		Address: "Shop 12, Techno City Mall, Karachi, Pakistan",
		Phone:   "+92 300 1234567",
		Email:   "sales@evw-pakistan.com",
	}
}

// Categories and Brands back the catalog edit form dropdowns.
func Categories() []string {
	return []string{"E-Liquid", "Nic Salt", "Disposable", "Device", "Pod", "Coil", "Accessory"}
}

func Brands() []string {
	return []string{"VGod", "Tokyo", "Pod Salt", "Juice Head", "Skwezed", "GeekVape", "Vaporesso", "Uwell"}
}
