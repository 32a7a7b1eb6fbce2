package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/bidwatch/backend/config"
	"github.com/bidwatch/backend/internal/domain"
	"github.com/bidwatch/backend/internal/infrastructure/cache"
	"github.com/bidwatch/backend/internal/infrastructure/g2b"
	"github.com/bidwatch/backend/internal/infrastructure/postgres"
	"github.com/bidwatch/backend/internal/infrastructure/telegram"
	"github.com/bidwatch/backend/internal/usecase"
)

func main() {
	daysBack := flag.Int("days-back", 0, "collection window in days (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Fail fast on missing credentials, before any network call
	if err := cfg.ValidateCollector(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	days := cfg.API.DaysBack
	if *daysBack > 0 {
		days = *daysBack
	}

	log.Printf("Starting bidwatch collector v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Window: last %d days, %d endpoints", days, len(cfg.API.Endpoints))

	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewNoticeRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	client := g2b.NewClient(cfg.API.ServiceKey, cfg.API.BaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("G2B client debug mode enabled")
	}

	endpoints := make([]domain.Endpoint, 0, len(cfg.API.Endpoints))
	for _, ep := range cfg.API.Endpoints {
		endpoints = append(endpoints, domain.Endpoint{Name: ep.Name, Path: ep.Path})
	}

	scoring := usecase.NewScoringService(usecase.ScoringPolicy{
		ExcludeKeywords:    cfg.Policy.ExcludeKeywords,
		HighIntentKeywords: cfg.Policy.HighIntentKeywords,
		FacilityKeywords:   cfg.Policy.FacilityKeywords,
		Regions:            cfg.Policy.Regions,
		HighIntentWeight:   cfg.Policy.Scoring.HighIntent,
		FacilityWeight:     cfg.Policy.Scoring.Facility,
		RegionWeight:       cfg.Policy.Scoring.RegionMatch,
	})

	collector := usecase.NewCollectService(client, repo, cache.NewSeenKeys(0), scoring, endpoints)

	result, newBids, err := collector.Collect(ctx, days)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	// Forward high-scoring new bids; delivery failures never affect
	// persisted state
	notifier := telegram.NewNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Policy.NotifyThreshold)
	sent := 0
	for _, bid := range newBids {
		if bid.Score < cfg.Policy.NotifyThreshold {
			continue
		}
		if err := notifier.NotifyBid(ctx, bid); err != nil {
			log.Printf("[NOTIFY] %s: %v", bid.Key(), err)
			continue
		}
		sent++
	}

	if len(newBids) > 0 {
		if err := notifier.NotifySummary(ctx, len(newBids), sent); err != nil {
			log.Printf("[NOTIFY] summary: %v", err)
		}
	}

	log.Printf("Run complete: seen=%d inserted=%d notified=%d errors=%d",
		result.TotalSeen, result.Inserted, sent, result.Errors)
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
