package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/joho/godotenv"
)

// @title           Pavilion Comments API
// @version         1.0
// @description     Threaded comments and replies on Pavilion videos

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize logger for bootstrapping
	bootLogger, err := logger.NewLogger(&logger.Config{Level: logger.InfoLevel, Format: "console", Output: "stdout"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	configService := config.NewConfigService(bootLogger)
	cfg, err := configService.Load(".")
	if err != nil {
		bootLogger.LogFatal(err, "Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		bootLogger.LogFatal(err, "Failed to initialize application")
	}

	if err := app.Run(ctx); err != nil {
		app.logger.LogError(err, "Application error")
	}

	if err := app.Shutdown(); err != nil {
		app.logger.LogError(err, "Error during shutdown")
		os.Exit(1)
	}
}
