package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"

	"blogforge/api/handlers"
	"blogforge/api/router"
	"blogforge/config"
	"blogforge/db"
	_ "blogforge/docs" // swag will generate this package
	"blogforge/eventbus"
	"blogforge/gemini"
	"blogforge/images"
	"blogforge/repositories"
	"blogforge/searchconsole"
	"blogforge/services"
)

// @title           blogforge API
// @version         1.0
// @description     AI-assisted blog content pipeline: ideas, drafts, enrichment
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		log.Fatal("failed to initialize MongoDB:", err)
	}

	database := db.Database()
	ideaRepo := repositories.NewIdeaRepository(database)
	postRepo := repositories.NewPostRepository(database)
	styleRepo := repositories.NewStyleGuideRepository(database)
	counterRepo := repositories.NewUsageCounterRepository(database)
	aiLogRepo := repositories.NewAILogRepository(database)
	mediaRepo, err := repositories.NewMediaRepository(database)
	if err != nil {
		log.Fatal("failed to initialize media bucket:", err)
	}

	gem, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:        cfg.GeminiAPIKey,
		Model:         cfg.Gemini.Model,
		FallbackModel: cfg.Gemini.FallbackModel,
		ImageModel:    cfg.Gemini.ImageModel,
		MaxRetries:    cfg.Gemini.MaxRetries,
		BaseDelay:     time.Duration(cfg.Gemini.BaseDelaySeconds) * time.Second,
		Timeout:       time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
	}, aiLogRepo)
	if err != nil {
		log.Fatal("failed to initialize gemini client:", err)
	}

	acquirer := images.NewAcquirer(cfg.Images.Provider, gem)

	// Kafka is optional for the API binary: without it, drafts are enriched
	// inline after creation.
	var bus eventbus.EventBus
	if cfg.KafkaBrokers != "" {
		if err := eventbus.EnsureTopics(cfg.KafkaBrokers, services.DraftTopic, 3); err != nil {
			config.Logger.Warnf("failed to ensure eventbus topics: %v", err)
		}
		kb, err := eventbus.NewKafkaEventBus(cfg.KafkaBrokers)
		if err != nil {
			config.Logger.Warnf("event bus unavailable, enrichment will run inline: %v", err)
		} else {
			bus = kb
			defer kb.Close()
		}
	}

	ideaSvc := services.NewIdeaService(ideaRepo, postRepo, styleRepo, counterRepo, gem, cfg.Plan)
	draftSvc := services.NewDraftService(ideaRepo, postRepo, styleRepo, counterRepo,
		mediaRepo, gem, acquirer, bus, db.WithTransaction, cfg)
	styleSvc := services.NewStyleService(styleRepo, postRepo, gem, cfg.Site)

	var sc handlers.SearchConsoleFetcher
	if cfg.SearchConsole.CredentialsFile != "" && cfg.SearchConsole.SiteURL != "" {
		client, err := searchconsole.New(ctx, cfg.SearchConsole.CredentialsFile,
			cfg.SearchConsole.SiteURL, cfg.SearchConsole.Days)
		if err != nil {
			config.Logger.Warnf("search console disabled: %v", err)
		} else {
			sc = client
		}
	}

	r := router.New(router.Deps{
		Ideas:         ideaSvc,
		Drafts:        draftSvc,
		Style:         styleSvc,
		Posts:         postRepo,
		SearchConsole: sc,
	})

	handler := cors.Default().Handler(r)
	if err := http.ListenAndServe(":8080", handler); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
