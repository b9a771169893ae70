package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	Port              string
	LogLevel          string
	MongoURI          string
	MongoDatabase     string
	RedisURL          string // empty disables the directory cache
	DirectoryURL      string
	DirectoryCacheTTL time.Duration
	Source            SourceShopConfig
}

// SourceShopConfig authenticates the service against the source store's admin API.
type SourceShopConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// Load reads configuration from environment variables, applying defaults that
// mirror local development.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "product_export")
	v.SetDefault("SHOPIFY_STORE_ONBOARD_URL", "http://localhost:5174")
	v.SetDefault("DIRECTORY_CACHE_TTL", "30s")
	v.SetDefault("SHOPIFY_API_VERSION", "2023-10")

	cacheTTL, err := time.ParseDuration(v.GetString("DIRECTORY_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIRECTORY_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		MongoURI:          v.GetString("MONGODB_URI"),
		MongoDatabase:     v.GetString("MONGODB_DATABASE"),
		RedisURL:          v.GetString("REDIS_URL"),
		DirectoryURL:      strings.TrimSuffix(v.GetString("SHOPIFY_STORE_ONBOARD_URL"), "/"),
		DirectoryCacheTTL: cacheTTL,
		Source: SourceShopConfig{
			ShopDomain:  normalizeShopDomain(v.GetString("SHOPIFY_SHOP")),
			AccessToken: v.GetString("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:  v.GetString("SHOPIFY_API_VERSION"),
		},
	}

	if cfg.Source.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP is required")
	}
	if cfg.Source.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

// normalizeShopDomain strips scheme and trailing slashes from a shop domain.
func normalizeShopDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}
