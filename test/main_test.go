package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestChatRouteShape(t *testing.T) {
	app := fiber.New()
	app.Post("/api/v1/chat", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})

	req := httptest.NewRequest("POST", "/api/v1/chat", nil)

	resp, _ := app.Test(req, 1)

	assert.Equal(t, 200, resp.StatusCode)
}

func TestForecastRouteShape(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/forecast", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "data": []string{}})
	})

	req := httptest.NewRequest("GET", "/api/v1/forecast?days=7", nil)

	resp, _ := app.Test(req, 1)

	assert.Equal(t, 200, resp.StatusCode)
}
