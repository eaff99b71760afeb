package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Nastya870/smetalab-sub001/internal/auth"
	"github.com/Nastya870/smetalab-sub001/internal/config"
	"github.com/Nastya870/smetalab-sub001/internal/db"
	"github.com/Nastya870/smetalab-sub001/internal/excel"
	httphandler "github.com/Nastya870/smetalab-sub001/internal/http"
	"github.com/Nastya870/smetalab-sub001/internal/http/middleware"
	"github.com/Nastya870/smetalab-sub001/internal/logger"
	"github.com/Nastya870/smetalab-sub001/internal/pdf"
	"github.com/Nastya870/smetalab-sub001/internal/repository"
	"github.com/Nastya870/smetalab-sub001/internal/service"
	"github.com/Nastya870/smetalab-sub001/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg.DB.DSN, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.ConnMaxLifetime, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	actRepo := repository.NewActRepository(database)
	completionRepo := repository.NewCompletionRepository(database)
	estimateRepo := repository.NewEstimateRepository(database)

	var archiver service.Archiver
	archive, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init document archive")
	}
	if archive != nil {
		archiver = archive
	}

	completionService := service.NewCompletionService(completionRepo, estimateRepo)
	actService := service.NewActService(actRepo, completionRepo, estimateRepo)
	documentService := service.NewDocumentService(
		actRepo,
		estimateRepo,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		archiver,
		cfg.Acts.VATRate,
		log,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(actService, completionService, documentService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting acts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
