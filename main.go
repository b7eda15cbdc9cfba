package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"tldw/pkg/cache"
	"tldw/pkg/config"
	"tldw/pkg/digest"
	"tldw/pkg/extract"
	"tldw/pkg/generate"
	"tldw/pkg/history"
	"tldw/pkg/page"
	"tldw/pkg/surreal"
	"tldw/pkg/transcript"

	"github.com/joho/godotenv"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <video URL or ID>\n", os.Args[0])
		os.Exit(2)
	}

	videoID := os.Args[1]
	if !transcript.IsVideoID(videoID) {
		parsed, err := transcript.ParseVideoID(videoID)
		if err != nil {
			log.Fatalf("Not a recognizable video URL or ID: %v", err)
		}
		videoID = parsed
	}

	// Cache store: Redis when configured, in-process otherwise
	var store cache.Store
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStore, err := cache.NewRedisStore(redisURL, cfg.CacheSettings.Prefix)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Println("Using Redis summary cache")
	} else {
		store = cache.NewMemoryStore()
		log.Println("REDIS_URL not set, summaries cached in memory only")
	}
	summaryCache := cache.New(store, time.Duration(cfg.CacheSettings.TTLDays)*24*time.Hour)

	source := extract.NewTrackSource(page.NewFetcher())

	orchestrator := digest.NewOrchestrator(source, summaryCache)
	orchestrator.SetBlockSize(cfg.SamplingSettings.BlockSize)

	// Optional generator: without a key the positional strategy still works
	if apiKeys := os.Getenv("OPENAI_API_KEY"); apiKeys != "" {
		client := generate.NewClient(
			os.Getenv("OPENAI_BASE_URL"),
			apiKeys,
			cfg.GeneratorSettings.Temperature,
			generate.ModelConfig{ID: cfg.GeneratorSettings.Model, MaxTokens: cfg.GeneratorSettings.MaxTokens},
		)
		session := generate.NewSession(client)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := session.Load(ctx); err != nil {
			log.Printf("Generator unavailable, falling back to positional sampling: %v", err)
		} else {
			orchestrator.SetGeneratorSession(session)
		}
		cancel()
	} else {
		log.Println("OPENAI_API_KEY not set, using positional sampling")
	}

	// Optional summary archive (SurrealDB)
	surrealHost := os.Getenv("SURREAL_DB_HOST")
	surrealUser := os.Getenv("SURREAL_DB_USER")
	surrealPass := os.Getenv("SURREAL_DB_PASS")
	if surrealHost != "" && surrealUser != "" && surrealPass != "" {
		surrealNS := os.Getenv("SURREAL_DB_NAMESPACE")
		surrealDB := os.Getenv("SURREAL_DB_DATABASE")
		if surrealNS == "" {
			surrealNS = "tldw" // Default
		}
		if surrealDB == "" {
			surrealDB = "history" // Default
		}

		// Add protocol if missing
		if len(surrealHost) > 0 && surrealHost[:4] != "ws://" && surrealHost[:5] != "wss://" {
			surrealHost = "wss://" + surrealHost + "/rpc"
		}

		log.Printf("Connecting to SurrealDB at %s (NS: %s, DB: %s)", surrealHost, surrealNS, surrealDB)
		surrealClient, err := surreal.NewClient(surrealHost, surrealUser, surrealPass, surrealNS, surrealDB)
		if err != nil {
			log.Fatalf("Failed to connect to SurrealDB: %v", err)
		}
		defer surrealClient.Close()

		orchestrator.SetArchiver(history.NewStore(surrealClient))
	} else {
		log.Println("SurrealDB not configured, summaries are not archived")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := orchestrator.Summarize(ctx, videoID, "")
	if err != nil {
		log.Fatal(digest.Describe(err))
	}

	printSummary(result)
}

func printSummary(result *digest.Result) {
	sum := result.Summary

	title := sum.Title
	if title == "" {
		title = sum.VideoID
	}
	fmt.Printf("%s\n", title)
	if result.FromCache {
		fmt.Printf("(cached, generated %s)\n", sum.GeneratedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	for _, section := range sum.Sections {
		fmt.Printf("## %s\n", section.Title)
		for _, p := range section.Paragraphs {
			if p.Timestamp != "" {
				fmt.Printf("- [%s] %s\n", p.Timestamp, p.Text)
			} else {
				fmt.Printf("- %s\n", p.Text)
			}
		}
		fmt.Println()
	}
}
