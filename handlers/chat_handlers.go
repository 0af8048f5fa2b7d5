package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"app/config"
	"app/database"
	"app/forecast"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const chatModel = "gemini-1.5-pro"

// HandleChat provides AI-powered inventory and sales insights based on a
// user's prompt. The flow is classify intent → fetch the user's real data for
// that intent → generate a grounded analysis, so the model never has to
// invent numbers.
// POST /api/v1/chat
func HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Message is required"})
	}

	userID := c.Locals("userID").(string)
	ctx := context.Background()

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to initialize assistant"})
	}
	defer client.Close()

	// 1. Classify the user's intent
	intent, err := classifyIntent(ctx, client, req.Message)
	if err != nil {
		log.Printf("Error classifying intent: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to understand request"})
	}

	// 2. Fetch data based on the intent
	data, err := fetchDataForIntent(ctx, intent, userID)
	if err != nil {
		log.Printf("Error fetching data for intent %s: %v", intent, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch data"})
	}

	// 3. Generate a human-readable analysis
	analysis, err := generateAnalysis(ctx, client, req.Message, intent, data)
	if err != nil {
		log.Printf("Error generating analysis: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate response"})
	}

	return c.JSON(fiber.Map{"status": "success", "intent": intent, "analysis": analysis})
}

// classifyIntent uses Gemini to determine the user's intent.
func classifyIntent(ctx context.Context, client *genai.Client, prompt string) (string, error) {
	model := client.GenerativeModel(chatModel)
	classificationPrompt := fmt.Sprintf(
		`You are an intent classification system for an inventory and sales assistant. Classify the user's prompt into exactly one of: 'inventory_overview', 'low_stock', 'sales_summary', 'top_sellers', 'restock_forecast', or 'unknown'. Reply with the label only. The user prompt is: "%s"`,
		prompt,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(classificationPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to classify intent: %w", err)
	}

	intent := strings.TrimSpace(fmt.Sprint(resp.Candidates[0].Content.Parts[0]))
	switch intent {
	case "inventory_overview", "low_stock", "sales_summary", "top_sellers", "restock_forecast":
		return intent, nil
	}
	return "unknown", nil
}

// fetchDataForIntent pulls the user's data the analysis should be grounded
// on. Only restock_forecast does real computation: it runs the forecasting
// pipeline for the lowest-stock items and reports their restock suggestions.
func fetchDataForIntent(ctx context.Context, intent, userID string) (interface{}, error) {
	db := database.GetDB()

	switch intent {
	case "inventory_overview":
		var count int
		var value float64
		query := `SELECT COUNT(*), COALESCE(SUM(price * stock_quantity), 0) FROM goods WHERE user_id = $1`
		if err := db.QueryRow(ctx, query, userID).Scan(&count, &value); err != nil {
			return nil, err
		}
		return fiber.Map{"total_items": count, "inventory_value": value}, nil

	case "low_stock":
		return getTopLowStockGoods(ctx, userID, 10)

	case "sales_summary":
		var transactions int
		var revenue float64
		query := `
			SELECT COUNT(*), COALESCE(SUM(total_profit), 0)
			FROM sales
			WHERE user_id = $1 AND sale_date >= NOW() - INTERVAL '30 days'
		`
		if err := db.QueryRow(ctx, query, userID).Scan(&transactions, &revenue); err != nil {
			return nil, err
		}
		return fiber.Map{"window_days": 30, "transactions": transactions, "revenue": revenue}, nil

	case "top_sellers":
		query := `
			SELECT g.name, SUM(s.quantity), COALESCE(SUM(s.total_profit), 0)
			FROM sales s
			JOIN goods g ON s.goods_id = g.id
			WHERE s.user_id = $1
			GROUP BY g.name
			ORDER BY SUM(s.quantity) DESC
			LIMIT 5
		`
		rows, err := db.Query(ctx, query, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		top := []models.TopSellingItem{}
		for rows.Next() {
			var item models.TopSellingItem
			if err := rows.Scan(&item.Name, &item.TotalQuantitySold, &item.TotalProfit); err != nil {
				return nil, err
			}
			top = append(top, item)
		}
		return top, rows.Err()

	case "restock_forecast":
		lowStock, err := getTopLowStockGoods(ctx, userID, 5)
		if err != nil {
			return nil, err
		}

		items := make([]forecast.CandidateItem, 0, len(lowStock))
		for _, g := range lowStock {
			dataset, err := getSalesDataset(ctx, g.ID, userID)
			if err != nil {
				return nil, err
			}
			items = append(items, forecast.CandidateItem{ID: g.ID, Name: g.Name, Stock: g.StockQuantity, Sales: dataset})
		}

		opts := forecast.Options{
			Horizon:      config.AppConfig.ForecastHorizon,
			MinSpanDays:  config.AppConfig.ForecastMinSpanDays,
			MinTrainRows: config.AppConfig.ForecastMinTrainRows,
		}
		forecasts, skipped := forecast.ForecastCandidates(ctx, items, opts)

		suggestions := []fiber.Map{}
		for _, f := range forecasts {
			suggestions = append(suggestions, fiber.Map{
				"name":             f.Item.Name,
				"current_stock":    f.Item.Stock,
				"predicted_demand": f.Result.TotalQuantity,
				"restock_quantity": f.Result.RestockQuantity,
			})
		}
		return fiber.Map{"suggestions": suggestions, "skipped": skipped}, nil
	}

	return nil, nil
}

// generateAnalysis turns the fetched data into a short grounded answer.
func generateAnalysis(ctx context.Context, client *genai.Client, prompt, intent string, data interface{}) (string, error) {
	if intent == "unknown" {
		return "I can only help with inventory, sales, and restock forecasting questions. Could you rephrase your request in those terms?", nil
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode data: %w", err)
	}

	model := client.GenerativeModel(chatModel)
	analysisPrompt := fmt.Sprintf(
		`You are an inventory and sales assistant for a small business. Answer the user's question using ONLY the data below. Be concise, mention concrete numbers, and do not invent figures.

User question: %q
Intent: %s
Data: %s`,
		prompt, intent, string(encoded),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(analysisPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate analysis: %w", err)
	}

	return strings.TrimSpace(fmt.Sprint(resp.Candidates[0].Content.Parts[0])), nil
}
