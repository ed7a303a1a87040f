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

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"spaceweather-backend/internal/config"
	"spaceweather-backend/internal/database"
	"spaceweather-backend/internal/handlers"
	"spaceweather-backend/internal/logging"
	"spaceweather-backend/internal/router"
	"spaceweather-backend/internal/services"
	"spaceweather-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	if _, err := logging.Init(cfg); err != nil {
		log.Printf("✗ Log file unavailable, logging to stderr: %v", err)
	}
	log.Println("🚀 Starting Space Weather Tutor...")
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis Clients (optional) ────
	var pubsubClient *redis.Client
	var notifier services.Notifier
	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		pubsubClient = redisClients.PubSub
		notifier = services.NewRedisNotifier(redisClients.Publish)
		log.Println("✓ Redis connected, session updates via pub/sub")
	}

	// ──── Step 3: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiTemperature,
		cfg.GeminiConcurrentReqs,
	)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)

	// ──── Step 4: Sessions + WebSocket Hub ────
	var wsHub *websocket.Hub
	store := services.NewSessionStore(cfg.SessionIdleTTL, func(id uuid.UUID) {
		wsHub.CloseSession(id)
	})
	wsHub = websocket.NewHub(pubsubClient, store.Exists, services.SessionChannel)
	if notifier == nil {
		notifier = wsHub
	}
	store.Start()
	log.Printf("✓ Session store started (idle TTL %s)", cfg.SessionIdleTTL)
	log.Println("✓ WebSocket hub started")

	controller := services.NewController(geminiService, notifier)
	chatHandler := handlers.NewChatHandler(store, controller, wsHub, services.DefaultUIStrings)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(chatHandler, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // model round-trips are not bounded by us
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		store.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Space Weather Tutor ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws?session_id=<id>", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
