package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mosaic-folio/backend/api"
	"github.com/mosaic-folio/backend/config"
	"github.com/mosaic-folio/backend/database"
	"github.com/mosaic-folio/backend/models"
	"github.com/mosaic-folio/backend/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	c := config.New()

	if level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		store, err := config.NewParameterStore(ctx, config.GetString(c, "AWS_REGION", ""))
		if err == nil {
			err = config.OverlayParameters(ctx, store, prefix, c)
		}
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("path", prefix).Msg("Error loading parameters from SSM")
		}
		log.Info().Str("path", prefix).Msg("Loaded parameters from SSM")
	}

	log.Info().Str("DB_TYPE", config.GetString(c, "DB_TYPE", "")).Msg("Connecting to database...")
	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./generated"); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", true) {
		categories, err := database.ParseCategories(config.GetString(c, "CATEGORIES", ""))
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid CATEGORIES")
		}
		if err := currentDB.Migrate(context.Background(), categories); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, c, services.NewNotifier(c))
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
