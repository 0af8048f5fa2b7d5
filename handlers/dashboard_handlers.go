package handlers

import (
	"context"
	"database/sql"
	"log"
	"time"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// HandleGetDashboard fetches summary data for the user's dashboard: lowest
// stock items, a per-day sales chart, monthly revenue, and the month's top
// selling item.
// GET /api/v1/dashboard?year=&month=
func HandleGetDashboard(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))

	if month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Month must be between 1 and 12"})
	}
	if year < 2000 || year > 2099 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Year must be between 2000 and 2099"})
	}

	var summary models.DashboardSummary

	// 1. Top 10 lowest-stock goods
	lowStock, err := getTopLowStockGoods(ctx, userID, 10)
	if err != nil {
		log.Printf("Error fetching low stock goods: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch low stock goods"})
	}
	summary.TopLowStock = lowStock

	// 2. Per-day sales chart for the month
	chartQuery := `
		SELECT sale_date::date AS date, SUM(quantity), COALESCE(SUM(total_profit), 0)
		FROM sales
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM sale_date) = $2
		  AND EXTRACT(MONTH FROM sale_date) = $3
		GROUP BY sale_date::date
		ORDER BY sale_date::date
	`
	rows, err := db.Query(ctx, chartQuery, userID, year, month)
	if err != nil {
		log.Printf("Error fetching sales chart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch sales chart"})
	}
	defer rows.Close()

	summary.SalesChart = []models.SalesChartPoint{}
	for rows.Next() {
		var date time.Time
		var p models.SalesChartPoint
		if err := rows.Scan(&date, &p.TotalQuantity, &p.TotalSales); err != nil {
			log.Printf("Error scanning sales chart row: %v", err)
			continue
		}
		p.Date = date.Format("2006-01-02")
		summary.SalesChart = append(summary.SalesChart, p)
	}

	// 3. Monthly revenue
	revenueQuery := `
		SELECT COALESCE(SUM(total_profit), 0)
		FROM sales
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM sale_date) = $2
		  AND EXTRACT(MONTH FROM sale_date) = $3
	`
	if err := db.QueryRow(ctx, revenueQuery, userID, year, month).Scan(&summary.MonthlyRevenue); err != nil {
		log.Printf("Error fetching monthly revenue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch monthly revenue"})
	}

	// 4. Top selling item of the month
	topQuery := `
		SELECT g.name, SUM(s.quantity), COALESCE(SUM(s.total_profit), 0)
		FROM sales s
		JOIN goods g ON s.goods_id = g.id
		WHERE s.user_id = $1
		  AND EXTRACT(YEAR FROM s.sale_date) = $2
		  AND EXTRACT(MONTH FROM s.sale_date) = $3
		GROUP BY g.name
		ORDER BY SUM(s.quantity) DESC
		LIMIT 1
	`
	err = db.QueryRow(ctx, topQuery, userID, year, month).Scan(
		&summary.TopSellingItem.Name, &summary.TopSellingItem.TotalQuantitySold, &summary.TopSellingItem.TotalProfit,
	)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("Error fetching top selling item: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch top selling item"})
		}
		summary.TopSellingItem = models.TopSellingItem{Name: "N/A"}
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

// getTopLowStockGoods returns up to limit goods ranked by ascending stock,
// the ordering the restock candidate selection uses (lowest stock = most
// urgent).
func getTopLowStockGoods(ctx context.Context, userID string, limit int) ([]models.Goods, error) {
	query := `
		SELECT id, user_id, name, category, price, stock_quantity, created_at
		FROM goods
		WHERE user_id = $1
		ORDER BY stock_quantity ASC, created_at ASC
		LIMIT $2
	`
	rows, err := database.GetDB().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goods := []models.Goods{}
	for rows.Next() {
		var g models.Goods
		var category sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &category, &g.Price, &g.StockQuantity, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Category = utils.NullStringToStringPtr(category)
		goods = append(goods, g)
	}
	return goods, rows.Err()
}
