package config

import (
	"os"
	"strings"
	"time"
)

// Default remote function hosts. The development address points at the
// local functions emulator.
const (
	DefaultDevAPIBaseURL  = "http://127.0.0.1:5001/cws-desc-generator/europe-west3"
	DefaultProdAPIBaseURL = "https://europe-west3-cws-desc-generator.cloudfunctions.net"
)

// State backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Remote analysis/generation functions
	APIBaseOverride string // env: API_BASE_URL, wins over the dev/prod pair
	DevAPIBaseURL   string
	ProdAPIBaseURL  string

	// State persistence
	StateBackend string
	DatabaseURL  string
	RedisURL     string
	StateTTL     time.Duration // idle states older than this are dropped

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Background reachability probe for the remote functions; 0 disables it.
	ProbeInterval time.Duration

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Density Desk"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER

	// Limits from config.yaml, defaults when the file is absent.
	Limits Limits
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:             getEnv("ENV", "development"),
		ServerAddr:      getEnv("SERVER_ADDR", ":3000"),
		BaseURL:         strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),
		APIBaseOverride: getEnv("API_BASE_URL", ""),
		DevAPIBaseURL:   getEnv("API_DEV_BASE_URL", DefaultDevAPIBaseURL),
		ProdAPIBaseURL:  getEnv("API_PROD_BASE_URL", DefaultProdAPIBaseURL),
		StateBackend:    strings.ToLower(getEnv("STATE_BACKEND", BackendMemory)),
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost:5432/densitydesk?sslmode=disable"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StateTTL:        getDuration("STATE_TTL", 30*24*time.Hour),
		SessionSecret:   getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:     getEnv("CORS_ORIGINS", ""),
		ProbeInterval:   getDuration("PROBE_INTERVAL", 5*time.Minute),

		SiteTitle:   getEnv("SITE_TITLE", "Density Desk"),
		SiteTagline: getEnv("SITE_TAGLINE", "Keyword density and Chrome Web Store descriptions"),
		SiteFooter:  getEnv("SITE_FOOTER", "Density Desk"),

		Limits: DefaultLimits(),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// APIBaseURL returns the base URL of the remote functions: the explicit
// override if set, otherwise the development or production address.
func (c *Config) APIBaseURL() string {
	base := c.ProdAPIBaseURL
	switch {
	case c.APIBaseOverride != "":
		base = c.APIBaseOverride
	case c.IsDev():
		base = c.DevAPIBaseURL
	}
	return strings.TrimRight(base, "/")
}

// Endpoints lists the URLs of the remote operations.
type Endpoints struct {
	AnalyzeText         string
	CheckSpamRisk       string
	GenerateDescription string
	SaveAnalysis        string
	GetAnalysis         string
}

// Endpoints derives every remote operation URL from APIBaseURL.
func (c *Config) Endpoints() Endpoints {
	base := c.APIBaseURL()
	return Endpoints{
		AnalyzeText:         base + "/analyze_text",
		CheckSpamRisk:       base + "/check_spam_risk",
		GenerateDescription: base + "/generate_description",
		SaveAnalysis:        base + "/save_analysis",
		GetAnalysis:         base + "/get_analysis",
	}
}

// ShareURL returns the page link that reloads a saved analysis.
func (c *Config) ShareURL(id string) string {
	return c.BaseURL + "/?id=" + id
}
