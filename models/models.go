package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Core Models ---

// User is the owning tenant of goods and sales. All queries filter by its id.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Goods represents an inventory item owned by a user.
type Goods struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	Name          string    `json:"name"`
	Category      *string   `json:"category,omitempty"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// Sale is an immutable sales ledger fact. The forecasting pipeline only ever
// reads these rows.
type Sale struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	GoodsID     string    `json:"goods_id"`
	Quantity    int       `json:"quantity"`
	TotalProfit float64   `json:"total_profit"`
	SaleDate    time.Time `json:"sale_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// --- Dashboard ---

// SalesChartPoint is one day of aggregated sales for the dashboard chart.
type SalesChartPoint struct {
	Date          string  `json:"date"`
	TotalQuantity int     `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
}

type TopSellingItem struct {
	Name              string  `json:"name"`
	TotalQuantitySold int     `json:"total_quantity_sold"`
	TotalProfit       float64 `json:"total_profit"`
}

type DashboardSummary struct {
	TopLowStock    []Goods           `json:"top_low_stock"`
	SalesChart     []SalesChartPoint `json:"sales_chart"`
	MonthlyRevenue float64           `json:"monthly_revenue"`
	TopSellingItem TopSellingItem    `json:"top_selling_item"`
}

// --- Chat ---

type ChatRequest struct {
	Message string `json:"message"`
}
