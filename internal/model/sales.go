package model

// Transaction is one immutable sale record as reported by the backend.
// Different endpoints (and backend versions) disagree on field names: the
// amount may arrive as total, totalPrice, or have to be recomputed from
// unitPrice (or price) times quantity, and the date may be ISO or a
// locale-formatted string like "18 Apr 2025, 10:57 pm". Pointers preserve
// which fields were actually present.
type Transaction struct {
	ItemID     string     `json:"itemId,omitempty"`
	ItemName   string     `json:"itemName,omitempty"`
	Quantity   *FlexInt   `json:"quantity,omitempty"`
	UnitPrice  *FlexFloat `json:"unitPrice,omitempty"`
	Price      *FlexFloat `json:"price,omitempty"`
	Total      *FlexFloat `json:"total,omitempty"`
	TotalPrice *FlexFloat `json:"totalPrice,omitempty"`
	Date       string     `json:"date,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"`
}

// DailySales is one bucket of the weekly (per day) or monthly (per week)
// sales series.
type DailySales struct {
	Day        string `json:"day"`
	Date       string `json:"date"`
	Sales      int    `json:"sales"`
	StockAdded int    `json:"stockAdded"`
}

// MonthSales is one bucket of the yearly sales series.
type MonthSales struct {
	Month      string `json:"month"`
	Year       string `json:"year"`
	Sales      int    `json:"sales"`
	StockAdded int    `json:"stockAdded"`
}

// SalesData is the aggregate sales summary consumed by dashboards.
// Synthetic marks datasets generated locally because the backend was
// unreachable, so callers can tell real figures from fabricated ones.
type SalesData struct {
	WeeklySales     []DailySales `json:"weeklySales"`
	MonthlySales    []DailySales `json:"monthlySales"`
	YearlySales     []MonthSales `json:"yearlySales"`
	TopSellingItems []Item       `json:"topSellingItems"`
	LowStockItems   []Item       `json:"lowStockItems"`
	Synthetic       bool         `json:"synthetic,omitempty"`
}

// User is the minimal profile persisted alongside the session token.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
