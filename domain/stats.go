package domain

// DashboardStats aggregates the whole store for the overview screen.
type DashboardStats struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalProfit   float64 `json:"totalProfit"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetIncome     float64 `json:"netIncome"`
	LowStockCount int64   `json:"lowStockCount"`
}
