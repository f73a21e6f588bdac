package model

// GrowthDirection classifies month-over-month revenue movement.
type GrowthDirection string

const (
	GrowthUp     GrowthDirection = "up"
	GrowthDown   GrowthDirection = "down"
	GrowthStable GrowthDirection = "stable"
)

// MonthlyRevenueBucket is one calendar month of net vendor revenue.
// Twelve buckets are computed fresh for the current year on every
// aggregation run; they are never persisted.
type MonthlyRevenueBucket struct {
	Month        string  `json:"month"`       // Jan, Feb, ...
	MonthNumber  int     `json:"monthNumber"` // 1-12
	Year         int     `json:"year"`
	Revenue      float64 `json:"revenue"`
	CurrentMonth bool    `json:"currentMonth"`
}

// TopProduct is a ranked entry in the vendor's best-seller list.
type TopProduct struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Price     float64 `json:"price"`
	UnitsSold int     `json:"unitsSold"`
}

// VendorAnalytics is the aggregated dashboard view for one vendor.
// All monetary fields are computed in USD; a separate display pass converts
// them to the vendor's selected currency.
type VendorAnalytics struct {
	Currency             string                 `json:"currency"`
	TotalOrders          int                    `json:"totalOrders"`
	PendingOrders        int                    `json:"pendingOrders"`
	DeliveredOrders      int                    `json:"deliveredOrders"`
	CancelledOrders      int                    `json:"cancelledOrders"`
	TotalRevenue         float64                `json:"totalRevenue"`
	TotalRefunds         float64                `json:"totalRefunds"`
	AverageOrderValue    float64                `json:"averageOrderValue"`
	TotalRevenueDisplay  string                 `json:"totalRevenueDisplay,omitempty"`
	TotalRefundsDisplay  string                 `json:"totalRefundsDisplay,omitempty"`
	CurrentMonthRevenue  float64                `json:"currentMonthRevenue"`
	PreviousMonthRevenue float64                `json:"previousMonthRevenue"`
	Growth               GrowthDirection        `json:"growth"`
	GrowthPercent        float64                `json:"growthPercent"`
	Monthly              []MonthlyRevenueBucket `json:"monthly"`
	TopProducts          []TopProduct           `json:"topProducts"`
}
