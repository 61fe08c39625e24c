package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/deadinside/backend/internal/config"
	"github.com/deadinside/backend/internal/handler"
	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/service/catalog"
	"github.com/deadinside/backend/internal/service/session"
	speechsvc "github.com/deadinside/backend/internal/service/speech"
	"github.com/deadinside/backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("[main] failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
	}
	defer client.Close()

	kv := store.NewRedis(client)
	conversations := store.NewConversations(kv)
	characters := store.NewCharacters(kv)
	admin := store.NewAdmin(kv)

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("[main] failed to initialize AI service: %v", err)
	}

	sessions := session.NewService(conversations, characters, aiService,
		time.Duration(cfg.AI.ReplyTimeout)*time.Second)
	catalogService := catalog.NewService(characters, aiService)

	var speechService *speechsvc.Service
	if cfg.Speech.Enabled {
		speechService = speechsvc.NewService(cfg.Speech)
	} else {
		log.Printf("[main] speech credentials missing, speech endpoints disabled")
	}

	router := handler.NewRouter(sessions, catalogService, speechService, characters, admin)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] graceful shutdown failed: %v", err)
	}
	log.Printf("[main] server stopped")
}
