package model

import "github.com/shopspring/decimal"

// DailyEarnings is the earnings rollup for a single day. Cancelled
// orders are excluded; revenue is summed over price-at-order snapshots.
type DailyEarnings struct {
	Date           string          `json:"date"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
	TotalOrders    int             `json:"totalOrders"`
	TotalItemsSold int             `json:"totalItemsSold"`
}

// MonthlyEarnings is the earnings rollup for a calendar month with a
// per-day breakdown.
type MonthlyEarnings struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
	TotalOrders    int             `json:"totalOrders"`
	TotalItemsSold int             `json:"totalItemsSold"`
	DailyBreakdown []DailyEarnings `json:"dailyBreakdown"`
}

// TopProduct is one entry of the top-sellers ranking, ordered by order
// count then total quantity sold.
type TopProduct struct {
	Rank         int             `json:"rank"`
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	OrderCount   int             `json:"orderCount"`
	QuantitySold int             `json:"quantitySold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// TopProductsReport wraps a ranking with the period it covers.
type TopProductsReport struct {
	Period   string       `json:"period"`
	Limit    int          `json:"limit"`
	Products []TopProduct `json:"products"`
}

// SalesSummary is the all-time rollup with per-status order counts.
type SalesSummary struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
	StatusCounts OrderStats      `json:"orderStatusBreakdown"`
}
