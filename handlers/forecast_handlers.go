package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"app/config"
	"app/database"
	"app/forecast"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HandleGetForecast produces demand forecasts and restock recommendations.
//
// With goodsId it forecasts that single item; failures are surfaced directly.
// Without goodsId it picks the user's lowest-stock items (up to the configured
// candidate limit), forecasts each independently, and reports items it had to
// skip with the reason.
// GET /api/v1/forecast?goodsId=&days=
func HandleGetForecast(c *fiber.Ctx) error {
	ctx := context.Background()
	userID := c.Locals("userID").(string)

	horizon := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "days must be a positive integer"})
		}
		horizon = n
	}

	opts := forecast.Options{
		Horizon:      horizon,
		MinSpanDays:  config.AppConfig.ForecastMinSpanDays,
		MinTrainRows: config.AppConfig.ForecastMinTrainRows,
	}
	if horizon == 0 {
		opts.Horizon = config.AppConfig.ForecastHorizon
	}

	if goodsID := c.Query("goodsId"); goodsID != "" {
		return forecastSingle(ctx, c, userID, goodsID, opts)
	}
	return forecastCandidates(ctx, c, userID, opts)
}

// forecastSingle runs the pipeline for one requested item.
func forecastSingle(ctx context.Context, c *fiber.Ctx, userID, goodsID string, opts forecast.Options) error {
	if _, err := uuid.Parse(goodsID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid goods id"})
	}

	goods, err := getGoodsByID(ctx, goodsID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Goods not found"})
		}
		log.Printf("Error fetching goods %s for forecast: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve goods"})
	}

	dataset, err := getSalesDataset(ctx, goodsID, userID)
	if err != nil {
		log.Printf("Error fetching sales dataset for goods %s: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales history"})
	}

	data := goodsForecastData(goods, dataset)

	result, err := forecast.Run(dataset, goods.StockQuantity, opts)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidParameters) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
		}
		if errors.Is(err, forecast.ErrInsufficientHistory) || errors.Is(err, forecast.ErrModelFit) {
			// Terminal for this item: report the item with the reason, no forecast.
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
				"reason":  forecast.Reason(err),
				"data":    data,
			})
		}
		log.Printf("Error forecasting goods %s: %v", goodsID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Error generating forecast"})
	}

	data.IsForecasted = true
	data.Forecast = result
	return c.JSON(fiber.Map{"status": "success", "data": []models.GoodsForecast{data}})
}

// forecastCandidates runs the pipeline over the lowest-stock items. Per-item
// failures never abort the batch.
func forecastCandidates(ctx context.Context, c *fiber.Ctx, userID string, opts forecast.Options) error {
	lowStock, err := getTopLowStockGoods(ctx, userID, config.AppConfig.ForecastCandidates)
	if err != nil {
		log.Printf("Error fetching low stock goods for forecast: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve candidate goods"})
	}

	items := make([]forecast.CandidateItem, 0, len(lowStock))
	datasets := make(map[string][]forecast.DailyPoint, len(lowStock))
	for _, g := range lowStock {
		dataset, err := getSalesDataset(ctx, g.ID, userID)
		if err != nil {
			log.Printf("Error fetching sales dataset for goods %s: %v", g.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales history"})
		}
		datasets[g.ID] = dataset
		items = append(items, forecast.CandidateItem{ID: g.ID, Name: g.Name, Stock: g.StockQuantity, Sales: dataset})
	}

	forecasts, skipped := forecast.ForecastCandidates(ctx, items, opts)

	results := make(map[string]*forecast.Result, len(forecasts))
	for _, f := range forecasts {
		results[f.Item.ID] = f.Result
	}

	data := make([]models.GoodsForecast, 0, len(lowStock))
	for _, g := range lowStock {
		entry := goodsForecastData(&g, datasets[g.ID])
		if result, ok := results[g.ID]; ok {
			entry.IsForecasted = true
			entry.Forecast = result
		}
		data = append(data, entry)
	}

	skippedOut := []forecast.SkippedItem{}
	if skipped != nil {
		skippedOut = skipped
	}

	return c.JSON(fiber.Map{"status": "success", "data": data, "skipped": skippedOut})
}

func goodsForecastData(g *models.Goods, dataset []forecast.DailyPoint) models.GoodsForecast {
	return models.GoodsForecast{
		ID:            g.ID,
		Name:          g.Name,
		Category:      g.Category,
		Price:         g.Price,
		StockQuantity: g.StockQuantity,
		CreatedAt:     g.CreatedAt,
		Sales:         dataset,
	}
}

// getSalesDataset returns an item's sales aggregated per calendar day,
// ascending, most recent 50 days of activity. This is the read-only ledger
// contract the forecasting pipeline consumes.
func getSalesDataset(ctx context.Context, goodsID, userID string) ([]forecast.DailyPoint, error) {
	query := `
		SELECT sale_date::date AS date, SUM(quantity)
		FROM sales
		WHERE goods_id = $1 AND user_id = $2
		GROUP BY sale_date::date
		ORDER BY sale_date::date DESC
		LIMIT 50
	`
	rows, err := database.GetDB().Query(ctx, query, goodsID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dataset := []forecast.DailyPoint{}
	for rows.Next() {
		var p forecast.DailyPoint
		if err := rows.Scan(&p.Date, &p.Quantity); err != nil {
			return nil, err
		}
		dataset = append(dataset, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	for i, j := 0, len(dataset)-1; i < j; i, j = i+1, j-1 {
		dataset[i], dataset[j] = dataset[j], dataset[i]
	}
	return dataset, nil
}
