// Package config provides configuration loading and validation for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds server configuration loaded from environment variables.
// All external integrations are optional; the server degrades to mock or
// fallback behavior when a credential is absent.
type AppConfig struct {
	Port        int
	DatabaseURL string
	FrontendURL string

	// AI
	GroqAPIKey string
	GroqModel  string

	// Job search providers
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string
	RapidAPIKey   string

	// OAuth providers
	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURL  string
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	GitHubClientID       string
	GitHubClientSecret   string
	GitHubRedirectURL    string

	// Billing
	StripeSecretKey     string
	StripeWebhookSecret string

	// Uploads
	MaxUploadBytes int64

	// Fetching job postings from URLs
	UseBrowser bool
}

// NewAppConfig creates a new application configuration from environment
// variables. DATABASE_URL is required; everything else has a default or is
// optional.
func NewAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:        8000,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FrontendURL: getEnvDefault("FRONTEND_URL", "http://localhost:3000"),

		GroqAPIKey: os.Getenv("GROQ_API_KEY"),
		GroqModel:  getEnvDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),

		AdzunaAppID:   os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:  os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry: getEnvDefault("ADZUNA_COUNTRY", "in"),
		RapidAPIKey:   os.Getenv("RAPIDAPI_KEY"),

		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		LinkedInRedirectURL:  os.Getenv("LINKEDIN_REDIRECT_URL"),
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:    os.Getenv("GOOGLE_REDIRECT_URL"),
		GitHubClientID:       os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret:   os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:    os.Getenv("GITHUB_REDIRECT_URL"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		MaxUploadBytes: 10 << 20, // 10 MB
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if mbStr := os.Getenv("MAX_UPLOAD_MB"); mbStr != "" {
		mb, err := strconv.Atoi(mbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %v", err)
		}
		cfg.MaxUploadBytes = int64(mb) << 20
	}

	if v := os.Getenv("USE_BROWSER"); v != "" {
		useBrowser, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid USE_BROWSER: %v", err)
		}
		cfg.UseBrowser = useBrowser
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *AppConfig) normalize() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1")
	}
	return nil
}

// getEnvDefault reads an environment variable with a fallback value.
func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
