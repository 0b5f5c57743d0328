package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hablalab/fonema/adapters/aligner"
	"github.com/hablalab/fonema/adapters/audio"
	"github.com/hablalab/fonema/adapters/stt"
	"github.com/hablalab/fonema/domain/repositories"
	"github.com/hablalab/fonema/internal/api"
	"github.com/hablalab/fonema/internal/config"
	"github.com/hablalab/fonema/lexicon"
	"github.com/hablalab/fonema/usecase"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// The dictionary is loaded once and shared read-only by all requests.
	dictionary, err := lexicon.LoadFile(cfg.Lexicon.DictionaryPath)
	if err != nil {
		logger.Fatal("failed to load pronunciation dictionary",
			zap.String("path", cfg.Lexicon.DictionaryPath),
			zap.Error(err))
	}
	logger.Info("pronunciation dictionary loaded",
		zap.String("path", cfg.Lexicon.DictionaryPath),
		zap.Int("words", dictionary.Len()))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize adapters
	normalizer := audio.NewFFmpegNormalizer(cfg.Audio.FFmpegPath, logger)
	var speechToText repositories.SpeechToText
	if cfg.Recognition.UseMock {
		speechToText = stt.NewMockSpeechToText(logger)
	} else {
		speechToText = &stt.GoogleSpeechToText{}
	}
	alignerGateway := aligner.New(cfg.Aligner.Command, cfg.Aligner.Args, logger,
		aligner.WithMaxAttempts(cfg.Aligner.MaxAttempts),
		aligner.WithAttemptTimeout(cfg.Aligner.AttemptTimeout))

	// Initialize usecase services
	scorer := usecase.NewScorer(dictionary, logger)
	scoringService := usecase.NewScoringService(
		normalizer,
		speechToText,
		alignerGateway,
		scorer,
		dictionary,
		cfg.Recognition.Locale,
		cfg.Scoring.WorkRoot,
		logger,
	)

	// Initialize API routes
	api.InitRoutes(e, scoringService, cfg.Server.AuthSecret, cfg.Scoring.RequestTimeout, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Server.ListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.String("locale", cfg.Recognition.Locale))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
