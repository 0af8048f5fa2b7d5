package handlers

import (
	"context"
	"database/sql"
	"log"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateGoodsInput defines the expected input for creating a goods item.
type CreateGoodsInput struct {
	Name          string  `json:"name"`
	Category      *string `json:"category"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

// HandleListGoods lists the user's goods with pagination and optional name search.
// GET /api/v1/goods?page=&pageSize=&q=
func HandleListGoods(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 20)
	q := c.Query("q")
	offset := (page - 1) * pageSize

	query := `
		SELECT id, user_id, name, category, price, stock_quantity, created_at
		FROM goods
		WHERE user_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := db.Query(ctx, query, userID, q, pageSize, offset)
	if err != nil {
		log.Printf("Error listing goods: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve goods"})
	}
	defer rows.Close()

	goods := []models.Goods{}
	for rows.Next() {
		var g models.Goods
		var category sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &category, &g.Price, &g.StockQuantity, &g.CreatedAt); err != nil {
			log.Printf("Error scanning goods row: %v", err)
			continue
		}
		g.Category = utils.NullStringToStringPtr(category)
		goods = append(goods, g)
	}

	var totalItems int
	countQuery := `SELECT COUNT(*) FROM goods WHERE user_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')`
	if err := db.QueryRow(ctx, countQuery, userID, q).Scan(&totalItems); err != nil {
		log.Printf("Error counting goods: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count goods"})
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       goods,
		"pagination": utils.CreatePagination(totalItems, page, pageSize),
	})
}

// HandleGetGoodsByID fetches a single goods item owned by the user.
// GET /api/v1/goods/:goodsId
func HandleGetGoodsByID(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	goodsID := c.Params("goodsId")
	if _, err := uuid.Parse(goodsID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid goods id"})
	}

	g, err := getGoodsByID(context.Background(), goodsID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Goods not found"})
		}
		log.Printf("Error fetching goods %s: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve goods"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": g})
}

// HandleCreateGoods creates a new goods item for the user.
// POST /api/v1/goods
func HandleCreateGoods(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	var input CreateGoodsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if input.Name == "" || input.Price < 0 || input.StockQuantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Name is required; price and stock cannot be negative"})
	}

	query := `
		INSERT INTO goods (user_id, name, category, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	g := models.Goods{
		UserID:        userID,
		Name:          input.Name,
		Category:      input.Category,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
	}
	if err := db.QueryRow(ctx, query, userID, input.Name, input.Category, input.Price, input.StockQuantity).Scan(&g.ID, &g.CreatedAt); err != nil {
		log.Printf("Error creating goods: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create goods"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": g})
}

// HandleUpdateGoods updates an existing goods item.
// PUT /api/v1/goods/:goodsId
func HandleUpdateGoods(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	goodsID := c.Params("goodsId")
	if _, err := uuid.Parse(goodsID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid goods id"})
	}

	var input CreateGoodsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	query := `
		UPDATE goods
		SET name = $1, category = $2, price = $3, stock_quantity = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, name, category, price, stock_quantity, created_at
	`
	var g models.Goods
	var category sql.NullString
	err := db.QueryRow(ctx, query, input.Name, input.Category, input.Price, input.StockQuantity, goodsID, userID).Scan(
		&g.ID, &g.UserID, &g.Name, &category, &g.Price, &g.StockQuantity, &g.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Goods not found"})
		}
		log.Printf("Error updating goods %s: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update goods"})
	}
	g.Category = utils.NullStringToStringPtr(category)

	return c.JSON(fiber.Map{"status": "success", "data": g})
}

// HandleDeleteGoods deletes a goods item together with its sales ledger rows.
// DELETE /api/v1/goods/:goodsId
func HandleDeleteGoods(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	goodsID := c.Params("goodsId")
	if _, err := uuid.Parse(goodsID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid goods id"})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sales WHERE goods_id = $1 AND user_id = $2`, goodsID, userID); err != nil {
		log.Printf("Error deleting sales for goods %s: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete goods sales"})
	}

	tag, err := tx.Exec(ctx, `DELETE FROM goods WHERE id = $1 AND user_id = $2`, goodsID, userID)
	if err != nil {
		log.Printf("Error deleting goods %s: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete goods"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Goods not found"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Goods deleted successfully"})
}

// getGoodsByID loads one goods row scoped to its owner.
func getGoodsByID(ctx context.Context, goodsID, userID string) (*models.Goods, error) {
	query := `
		SELECT id, user_id, name, category, price, stock_quantity, created_at
		FROM goods
		WHERE id = $1 AND user_id = $2
	`
	var g models.Goods
	var category sql.NullString
	err := database.GetDB().QueryRow(ctx, query, goodsID, userID).Scan(
		&g.ID, &g.UserID, &g.Name, &category, &g.Price, &g.StockQuantity, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Category = utils.NullStringToStringPtr(category)
	return &g, nil
}
