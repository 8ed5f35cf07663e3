package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/apperr"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/config"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/database"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/handlers"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/llm"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/middleware"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/ratelimit"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/router"
)

func main() {
	log.Println("🚀 Starting BrainBolt API...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	apperr.SetDevelopment(cfg.IsDevelopment())
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Rate-Limit Store ────
	store, cleanup, err := newRateLimitStore(cfg)
	if err != nil {
		log.Fatalf("✗ Rate-limit store initialization failed: %v", err)
	}
	defer cleanup()
	log.Printf("✓ Rate-limit store ready (%s)", cfg.RateLimitStore)

	// ──── Step 3: Initialize LLM Gateway ────
	gateway := newGateway(cfg)
	log.Printf("✓ LLM gateway ready (%s)", cfg.LLMProvider)

	// ──── Step 4: Handlers & Router ────
	registry := llm.NewRegistry(cfg.ModelOverrides)
	limiter := middleware.NewRateLimiter(store, cfg.RateLimitPerWindow, cfg.RateLimitWindow, cfg.UnknownClientPolicy)

	formatHandler := handlers.NewFormatHandler(gateway, registry, cfg.LLMTimeout)
	mcqHandler := handlers.NewMCQHandler(gateway, registry, cfg.LLMTimeout)
	flashcardHandler := handlers.NewFlashcardHandler(gateway, registry, cfg.LLMTimeout)
	boosterHandler := handlers.NewBoosterHandler(gateway, registry, cfg.LLMTimeout)

	r := router.New(limiter, formatHandler, mcqHandler, flashcardHandler, boosterHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ BrainBolt API ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func newRateLimitStore(cfg *config.Config) (ratelimit.Store, func(), error) {
	switch cfg.RateLimitStore {
	case "redis":
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return ratelimit.NewRedisStore(client), func() { client.Close() }, nil
	case "postgres":
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := ratelimit.NewPostgresStore(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, func() { pool.Close() }, nil
	default:
		return ratelimit.NewMemoryStore(), func() {}, nil
	}
}

func newGateway(cfg *config.Config) llm.Gateway {
	if cfg.LLMProvider == "gemini" {
		return llm.NewGeminiGateway(cfg.GeminiAPIKey)
	}
	return llm.NewOpenAIGateway(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMTimeout)
}
