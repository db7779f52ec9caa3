package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DevarneniSindhuja/medical/analysis"
	"github.com/DevarneniSindhuja/medical/config"
	"github.com/DevarneniSindhuja/medical/data"
	"github.com/DevarneniSindhuja/medical/extractor"
	"github.com/DevarneniSindhuja/medical/formulary"
	"github.com/DevarneniSindhuja/medical/handlers"
	"github.com/DevarneniSindhuja/medical/health"
	"github.com/DevarneniSindhuja/medical/interfaces"
	"github.com/DevarneniSindhuja/medical/logging"
	"github.com/DevarneniSindhuja/medical/scheduler"
	"github.com/DevarneniSindhuja/medical/server"
	"github.com/DevarneniSindhuja/medical/validation"
	"github.com/joho/godotenv"
)

func main() {
	// Read the env variables before anything else; a missing .env is fine,
	// the environment itself may carry the settings
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	// Formulary storage and loader. A configured file path makes the
	// formulary reloadable, otherwise the embedded table is used.
	container := data.NewFormularyContainer()
	container.SetServerStartTime(time.Now())

	var loader interfaces.FormularyLoader
	fileBacked := cfg.FormularyFile != ""
	if fileBacked {
		loader = formulary.NewFileLoader(cfg.FormularyFile)
		logging.Info("Using file-backed formulary", "path", cfg.FormularyFile)
	} else {
		loader = formulary.NewDefaultLoader()
		logging.Info("Using embedded formulary")
	}

	sched := scheduler.NewScheduler(container, loader, fileBacked)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Analysis pipeline
	extractorClient := extractor.NewClient(cfg.ExtractorURL, cfg.ExtractorToken,
		time.Duration(cfg.ExtractorTimeout)*time.Second)
	analyzer := analysis.NewAnalyzer(extractorClient, container)
	validator := validation.NewInputValidator()
	healthChecker := health.NewHealthChecker(container, fileBacked)

	handler := handlers.NewHTTPHandler(container, analyzer, validator, healthChecker)
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
