package config

import (
	"os"
	"strconv"
)

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret    string
	GeminiAPIKey string

	// Forecast tuning. The history minimums are inferred limits of the
	// model, kept configurable rather than hardcoded.
	ForecastMinSpanDays  int
	ForecastMinTrainRows int
	ForecastHorizon      int
	ForecastCandidates   int
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load fills AppConfig from the environment. Call after godotenv has run.
func Load() {
	AppConfig.JWTSecret = os.Getenv("JWT_SECRET")
	AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	AppConfig.ForecastMinSpanDays = envInt("FORECAST_MIN_SPAN_DAYS", 7)
	AppConfig.ForecastMinTrainRows = envInt("FORECAST_MIN_TRAIN_ROWS", 3)
	AppConfig.ForecastHorizon = envInt("FORECAST_HORIZON", 7)
	AppConfig.ForecastCandidates = envInt("FORECAST_CANDIDATES", 10)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
