package handlers

import (
	"context"
	"log"
	"time"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateSaleInput defines the expected input for recording a sale.
type CreateSaleInput struct {
	GoodsID  string     `json:"goods_id"`
	Quantity int        `json:"quantity"`
	SaleDate *time.Time `json:"sale_date"`
}

// HandleCreateSale records a sale and decrements the item's stock in one
// transaction. Oversell is rejected rather than driving stock negative.
// POST /api/v1/sales
func HandleCreateSale(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	var input CreateSaleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if _, err := uuid.Parse(input.GoodsID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid goods id"})
	}
	if input.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Quantity must be positive"})
	}

	saleDate := time.Now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	// Decrement stock; the quantity guard catches oversell atomically.
	var price float64
	stockQuery := `
		UPDATE goods
		SET stock_quantity = stock_quantity - $1
		WHERE id = $2 AND user_id = $3 AND stock_quantity >= $1
		RETURNING price
	`
	if err := tx.QueryRow(ctx, stockQuery, input.Quantity, input.GoodsID, userID).Scan(&price); err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Goods not found or insufficient stock"})
		}
		log.Printf("Error adjusting stock for sale: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to adjust stock"})
	}

	sale := models.Sale{
		UserID:      userID,
		GoodsID:     input.GoodsID,
		Quantity:    input.Quantity,
		TotalProfit: price * float64(input.Quantity),
		SaleDate:    saleDate,
	}

	saleQuery := `
		INSERT INTO sales (user_id, goods_id, quantity, total_profit, sale_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, saleQuery, userID, input.GoodsID, input.Quantity, sale.TotalProfit, saleDate).Scan(&sale.ID, &sale.CreatedAt); err != nil {
		log.Printf("Error creating sale: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create sale"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": sale})
}

// HandleListSales lists the user's sales, optionally filtered by goods.
// GET /api/v1/sales?page=&pageSize=&goodsId=
func HandleListSales(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	goodsID := c.Query("goodsId")
	offset := (page - 1) * pageSize

	if goodsID != "" {
		if _, err := uuid.Parse(goodsID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid goods id"})
		}
	}

	query := `
		SELECT id, user_id, goods_id, quantity, total_profit, sale_date, created_at
		FROM sales
		WHERE user_id = $1 AND ($2 = '' OR goods_id::text = $2)
		ORDER BY sale_date DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := db.Query(ctx, query, userID, goodsID, pageSize, offset)
	if err != nil {
		log.Printf("Error listing sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales"})
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.GoodsID, &s.Quantity, &s.TotalProfit, &s.SaleDate, &s.CreatedAt); err != nil {
			log.Printf("Error scanning sale: %v", err)
			continue
		}
		sales = append(sales, s)
	}

	var totalItems int
	countQuery := `SELECT COUNT(*) FROM sales WHERE user_id = $1 AND ($2 = '' OR goods_id::text = $2)`
	if err := db.QueryRow(ctx, countQuery, userID, goodsID).Scan(&totalItems); err != nil {
		log.Printf("Error counting sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count sales"})
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       sales,
		"pagination": utils.CreatePagination(totalItems, page, pageSize),
	})
}

// HandleGetSaleByID fetches one sale owned by the user.
// GET /api/v1/sales/:saleId
func HandleGetSaleByID(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	saleID := c.Params("saleId")
	if _, err := uuid.Parse(saleID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid sale id"})
	}

	query := `
		SELECT id, user_id, goods_id, quantity, total_profit, sale_date, created_at
		FROM sales
		WHERE id = $1 AND user_id = $2
	`
	var s models.Sale
	err := db.QueryRow(ctx, query, saleID, userID).Scan(&s.ID, &s.UserID, &s.GoodsID, &s.Quantity, &s.TotalProfit, &s.SaleDate, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Sale not found"})
		}
		log.Printf("Error fetching sale %s: %v", saleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sale"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": s})
}

// HandleDeleteSale removes a sale and restores the sold quantity to stock.
// DELETE /api/v1/sales/:saleId
func HandleDeleteSale(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	saleID := c.Params("saleId")
	if _, err := uuid.Parse(saleID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid sale id"})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	var goodsID string
	var quantity int
	deleteQuery := `DELETE FROM sales WHERE id = $1 AND user_id = $2 RETURNING goods_id, quantity`
	if err := tx.QueryRow(ctx, deleteQuery, saleID, userID).Scan(&goodsID, &quantity); err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Sale not found"})
		}
		log.Printf("Error deleting sale %s: %v", saleID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete sale"})
	}

	restoreQuery := `UPDATE goods SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND user_id = $3`
	if _, err := tx.Exec(ctx, restoreQuery, quantity, goodsID, userID); err != nil {
		log.Printf("Error restoring stock after sale delete: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to restore stock"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Sale deleted successfully"})
}
