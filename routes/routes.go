package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)

	// Everything below is tenant-scoped.
	protected := api.Group("", middleware.Authenticate)

	// --- Goods ---
	goods := protected.Group("/goods")
	goods.Get("/", handlers.HandleListGoods)
	goods.Get("/:goodsId", handlers.HandleGetGoodsByID)
	goods.Post("/", handlers.HandleCreateGoods)
	goods.Put("/:goodsId", handlers.HandleUpdateGoods)
	goods.Delete("/:goodsId", handlers.HandleDeleteGoods)

	// --- Sales ---
	sales := protected.Group("/sales")
	sales.Get("/", handlers.HandleListSales)
	sales.Get("/:saleId", handlers.HandleGetSaleByID)
	sales.Post("/", handlers.HandleCreateSale)
	sales.Delete("/:saleId", handlers.HandleDeleteSale)

	// --- Dashboard ---
	protected.Get("/dashboard", handlers.HandleGetDashboard)

	// --- Forecast ---
	protected.Get("/forecast", handlers.HandleGetForecast)

	// --- Chat assistant ---
	protected.Post("/chat", handlers.HandleChat)
}
