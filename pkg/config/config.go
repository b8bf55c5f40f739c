// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// OCR backend names accepted by OCR_BACKEND.
const (
	BackendTesseract = "tesseract"
	BackendAzure     = "azure"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OCR      OCRConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	// URL is a Postgres DSN. When empty, scan results are not persisted
	// and the /invoices listing is disabled.
	URL string
}

type OCRConfig struct {
	// Backend selects the recognition engine: "tesseract" or "azure".
	Backend       string
	AzureEndpoint string
	AzureKey      string
	// Language is a backend-specific language hint ("en" for Azure,
	// "eng" for Tesseract). Empty selects the backend default.
	Language string
	// Timeout bounds each per-page recognition call.
	Timeout time.Duration
	// Enhance applies the grayscale/contrast/sharpen preprocessing chain
	// to page images before recognition.
	Enhance bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("PORT", 8080),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		OCR: OCRConfig{
			Backend:       getEnv("OCR_BACKEND", BackendTesseract),
			AzureEndpoint: getEnv("AZURE_CV_ENDPOINT", ""),
			AzureKey:      getEnv("AZURE_CV_KEY", ""),
			Language:      getEnv("OCR_LANGUAGE", ""),
			Timeout:       time.Duration(getEnvAsInt("OCR_TIMEOUT_SECONDS", 30)) * time.Second,
			Enhance:       getEnvAsBool("OCR_ENHANCE", false),
		},
	}

	switch cfg.OCR.Backend {
	case BackendTesseract:
	case BackendAzure:
		if cfg.OCR.AzureEndpoint == "" || cfg.OCR.AzureKey == "" {
			return nil, fmt.Errorf("AZURE_CV_ENDPOINT and AZURE_CV_KEY are required when OCR_BACKEND=%s", BackendAzure)
		}
	default:
		return nil, fmt.Errorf("unknown OCR_BACKEND %q", cfg.OCR.Backend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
