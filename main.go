package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"invoice-scan/pkg/config"
	"invoice-scan/pkg/handlers"
	"invoice-scan/pkg/models"
	"invoice-scan/pkg/services/ocr"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Persistence is optional: without DATABASE_URL the pipeline still
	// runs, it just keeps no history.
	var db *gorm.DB
	if cfg.Database.URL != "" {
		db, err = gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := db.AutoMigrate(&models.Invoice{}); err != nil {
			logger.Error("failed to migrate schema", "error", err)
			os.Exit(1)
		}
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		logger.Error("failed to configure OCR backend", "error", err)
		os.Exit(1)
	}
	recognizer := ocr.NewRecognizer(engine, cfg.OCR.Timeout, cfg.OCR.Enhance, logger)

	r := gin.Default()
	handlers.New(db, recognizer, logger).Register(r)

	logger.Info("starting server",
		"port", cfg.Server.Port,
		"ocr_backend", engine.Name(),
		"persistence", db != nil)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func buildEngine(cfg *config.Config) (ocr.Engine, error) {
	switch cfg.OCR.Backend {
	case config.BackendAzure:
		return ocr.NewAzureEngine(cfg.OCR.AzureEndpoint, cfg.OCR.AzureKey, cfg.OCR.Language), nil
	case config.BackendTesseract:
		if cfg.OCR.Language != "" {
			return ocr.NewTesseractEngine(cfg.OCR.Language), nil
		}
		return ocr.NewTesseractEngine(), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", cfg.OCR.Backend)
	}
}
