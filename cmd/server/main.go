package main

import (
	"fmt"
	"log"
	"os"

	"github.com/visara/backend/config"
	httpDelivery "github.com/visara/backend/internal/delivery/http"
	"github.com/visara/backend/internal/infrastructure/cache"
	"github.com/visara/backend/internal/infrastructure/embedding"
	"github.com/visara/backend/internal/infrastructure/profile"
	"github.com/visara/backend/internal/infrastructure/rewrite"
	"github.com/visara/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Visara Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Load the category profile reference table once at startup
	profiles, err := profile.Load(cfg.Profiles.Path)
	if err != nil {
		log.Fatalf("Failed to load category profiles: %v", err)
	}
	log.Printf("Loaded %d category profiles from %s", len(profiles.Categories()), cfg.Profiles.Path)

	// Initialize infrastructure dependencies
	vectorCache := cache.NewVectorCache(cfg.Cache.MaxEntries)
	log.Printf("Vector cache capacity: %d entries", cfg.Cache.MaxEntries)

	embedClient := embedding.NewClient(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model)
	rewriteClient := rewrite.NewClient(cfg.Rewrite.APIKey, cfg.Rewrite.BaseURL, cfg.Rewrite.Model, cfg.Rewrite.Temperature)

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		embedClient.SetDebug(true)
		rewriteClient.SetDebug(true)
		log.Printf("Provider client debug mode enabled")
	}

	log.Printf("Embedding provider: %s (model: %s)", cfg.Embedding.BaseURL, cfg.Embedding.Model)
	log.Printf("Rewrite provider: %s (model: %s)", cfg.Rewrite.BaseURL, cfg.Rewrite.Model)

	// Initialize usecase layer
	scoringService := usecase.NewScoringService(embedClient, vectorCache, usecase.ScoringConfig{
		WeaknessThreshold:  cfg.Scoring.WeaknessThreshold,
		EnableDebugLogging: debug,
	})
	rankingService := usecase.NewRankingService(scoringService, debug)
	optimizerService := usecase.NewOptimizerService(scoringService, rewriteClient, usecase.OptimizerConfig{
		MaxIterations:      cfg.Optimizer.MaxIterations,
		MinImprovement:     cfg.Optimizer.MinImprovement,
		ScoreCeiling:       cfg.Optimizer.ScoreCeiling,
		EnableDebugLogging: debug,
	})

	log.Printf("Optimizer: max_iterations=%d, min_improvement=%.1f, ceiling=%.0f",
		cfg.Optimizer.MaxIterations, cfg.Optimizer.MinImprovement, cfg.Optimizer.ScoreCeiling)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(scoringService, rankingService, optimizerService, profiles)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
