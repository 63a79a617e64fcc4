package service

import (
	"os"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Stripe struct {
		PublishableKey string
		SecretKey      string
	}

	Admin struct {
		APIKey string
	}

	Shipping struct {
		ConfigPath string
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/partedeuro.db"),
	}

	// Stripe
	config.Stripe.PublishableKey = getEnv("STRIPE_PUBLISHABLE_KEY", "")
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")

	// Admin
	config.Admin.APIKey = getEnv("ADMIN_API_KEY", "")

	// Shipping
	config.Shipping.ConfigPath = getEnv("SHIPPING_CONFIG_PATH", "./config/shipping.json")

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
