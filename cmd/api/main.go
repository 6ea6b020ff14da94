package main

import (
	"os"

	"github.com/audease/audease-backend/internal/pkg/logger"
	"github.com/audease/audease-backend/internal/server"
)

// @title Audease API
// @version 1.0
// @description Multi-tenant school administration backend: student approval pipeline, role management, forms and documents.

// @contact.name API Support
// @contact.email support@audease.app

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal arrives.
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
