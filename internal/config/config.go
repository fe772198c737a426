package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Nithin4045/weather-now/internal/weather/providers"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds each outbound call to Open-Meteo.
	HTTPTimeout time.Duration

	GeocodingURL string
	ForecastURL  string

	LogLevel zerolog.Level

	// WatchInterval is the default refresh period for `watch`.
	WatchInterval time.Duration
}

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("GEOCODING_URL", providers.DefaultGeocodingURL)
	v.SetDefault("FORECAST_URL", providers.DefaultForecastURL)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WATCH_INTERVAL", "5m")
	v.AutomaticEnv()

	cfg := &AppConfig{
		Port:         v.GetString("PORT"),
		GeocodingURL: v.GetString("GEOCODING_URL"),
		ForecastURL:  v.GetString("FORECAST_URL"),
	}

	timeout, err := time.ParseDuration(v.GetString("HTTP_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(v.GetString("WATCH_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: must be positive")
	}
	cfg.WatchInterval = interval

	level, err := zerolog.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}
