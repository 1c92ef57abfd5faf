package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/prokura/procure-backend/internal/common"
	"github.com/prokura/procure-backend/internal/export"
	"github.com/prokura/procure-backend/internal/extract"
	"github.com/prokura/procure-backend/internal/llm"
	"github.com/prokura/procure-backend/internal/llm/openai"
	"github.com/prokura/procure-backend/internal/repository"
	"github.com/prokura/procure-backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	coreLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(repository.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	}, coreLog)
	if err != nil {
		logger.Fatalw("database init failed", "error", err)
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		logger.Fatalw("upload dir init failed", "dir", cfg.Uploads.Dir, "error", err)
	}

	// With no API key the extractor and classifier stay wired but answer
	// unavailable; everything else keeps working.
	var chat llm.ChatClient
	if cfg.LLM.APIKey != "" {
		chat = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, coreLog)
		logger.Infow("interpretation engine configured", "model", cfg.LLM.Model)
	} else {
		logger.Warnw("no OPENAI_API_KEY set, extraction and classification disabled")
	}

	requests := repository.NewRequestRepository(db, coreLog)
	groups := repository.NewGroupRepository(db, coreLog)

	svc := server.Services{
		Requests:   requests,
		Groups:     groups,
		Extractor:  extract.NewExtractor(chat, coreLog),
		Classifier: extract.NewClassifier(chat, coreLog),
		Export:     export.NewService(requests, coreLog),
		UploadDir:  cfg.Uploads.Dir,
		Logger:     logger,
		CoreLog:    coreLog,
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: server.NewRouter(svc, cfg.Server.CORSOrigins),
	}

	go func() {
		logger.Infow("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown incomplete", "error", err)
	}
	logger.Infow("stopped")
}
