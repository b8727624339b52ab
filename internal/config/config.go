package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// AdminTokenPrefix is the expected prefix of a Shopify Admin API access token.
const AdminTokenPrefix = "shpat_"

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Shopify     ShopifyConfig
	Pricing     PricingConfig
	CORS        CORSConfig
}

// ShopifyConfig holds credentials for both API surfaces: the public
// Storefront API (cart + catalog) and the Admin API (draft orders).
type ShopifyConfig struct {
	ShopDomain      string
	StorefrontToken string
	AdminToken      string
	APIVersion      string
}

// PricingConfig controls where custom pricing metafields are read from.
type PricingConfig struct {
	MetafieldNamespace string
	DefaultCurrency    string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("PRICING_METAFIELD_NAMESPACE", "custom")
	viper.SetDefault("PRICING_DEFAULT_CURRENCY", "USD")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Shopify: ShopifyConfig{
			ShopDomain:      strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			StorefrontToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_STOREFRONT_TOKEN", "")),
			AdminToken:      strings.TrimSpace(getEnvOrViper("SHOPIFY_ADMIN_API_TOKEN", "")),
			APIVersion:      getEnvOrViper("SHOPIFY_API_VERSION", "2024-01"),
		},
		Pricing: PricingConfig{
			MetafieldNamespace: getEnvOrViper("PRICING_METAFIELD_NAMESPACE", "custom"),
			DefaultCurrency:    getEnvOrViper("PRICING_DEFAULT_CURRENCY", "USD"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(getEnvOrViper("CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.StorefrontToken == "" {
		return nil, fmt.Errorf("SHOPIFY_STOREFRONT_TOKEN is required")
	}

	// The admin token is checked for format here but its absence is not fatal
	// at startup: catalog and cart routes work without it, only the checkout
	// intercept needs it (and reports a configuration error when missing).
	if cfg.Shopify.AdminToken != "" && !strings.HasPrefix(cfg.Shopify.AdminToken, AdminTokenPrefix) {
		return nil, fmt.Errorf("SHOPIFY_ADMIN_API_TOKEN must start with %q", AdminTokenPrefix)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
