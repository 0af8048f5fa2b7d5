package models

import (
	"time"

	"app/forecast"
)

// GoodsForecast is one entry of the forecast endpoint response: the item, its
// aggregated sales history, and the forecast result when one could be built.
type GoodsForecast struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Category      *string               `json:"category,omitempty"`
	Price         float64               `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	CreatedAt     time.Time             `json:"created_at"`
	Sales         []forecast.DailyPoint `json:"sales"`
	IsForecasted  bool                  `json:"is_forecasted"`
	Forecast      *forecast.Result      `json:"forecast,omitempty"`
}
