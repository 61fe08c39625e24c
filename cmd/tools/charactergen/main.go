// Command charactergen seeds the character catalog from the command line.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/deadinside/backend/internal/config"
	"github.com/deadinside/backend/internal/service/ai"
	"github.com/deadinside/backend/internal/service/catalog"
	"github.com/deadinside/backend/internal/store"
)

func main() {
	theme := flag.String("theme", "", "theme to generate characters for (required)")
	count := flag.Int("count", catalog.DefaultBatchSize, "number of characters to generate")
	flag.Parse()

	if *theme == "" {
		log.Fatal("[charactergen] -theme is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("[charactergen] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[charactergen] failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("[charactergen] failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
	}
	defer client.Close()

	characters := store.NewCharacters(store.NewRedis(client))

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("[charactergen] failed to initialize AI service: %v", err)
	}

	result, err := catalog.NewService(characters, aiService).Generate(ctx, *theme, *count)
	if err != nil {
		log.Fatalf("[charactergen] generation failed: %v", err)
	}

	log.Printf("[charactergen] theme %q: requested %d, saved %d, failed %d",
		result.Theme, result.Requested, len(result.Saved), result.Failed)
	for _, ch := range result.Saved {
		log.Printf("[charactergen]   %s  %s (%s)", ch.ID, ch.Name, ch.VoiceSelection)
	}
}
