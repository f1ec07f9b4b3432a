package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogforge/config"
	"blogforge/db"
	"blogforge/eventbus"
	"blogforge/events"
	"blogforge/gemini"
	"blogforge/images"
	"blogforge/repositories"
	"blogforge/services"
)

const (
	consumerGroup   = "blogforge-enricher"
	reinjectorGroup = "blogforge-enricher-reinjector"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		config.Logger.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}

	if err := eventbus.EnsureTopics(cfg.KafkaBrokers, services.DraftTopic, 3); err != nil {
		config.Logger.Errorf("failed to ensure eventbus topics: %v", err)
	}

	bus, err := eventbus.NewKafkaEventBus(cfg.KafkaBrokers)
	if err != nil {
		config.Logger.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	database := db.Database()
	ideaRepo := repositories.NewIdeaRepository(database)
	postRepo := repositories.NewPostRepository(database)
	styleRepo := repositories.NewStyleGuideRepository(database)
	counterRepo := repositories.NewUsageCounterRepository(database)
	aiLogRepo := repositories.NewAILogRepository(database)
	mediaRepo, err := repositories.NewMediaRepository(database)
	if err != nil {
		config.Logger.Errorf("failed to initialize media bucket: %v", err)
		os.Exit(1)
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
		config.Logger.Errorf("failed to initialize gemini client: %v", err)
		os.Exit(1)
	}

	acquirer := images.NewAcquirer(cfg.Images.Provider, gem)

	// The enricher never republishes draft.created itself, so its draft
	// service runs without a bus.
	draftSvc := services.NewDraftService(ideaRepo, postRepo, styleRepo, counterRepo,
		mediaRepo, gem, acquirer, nil, db.WithTransaction, cfg)

	subscribeRunner := func() error {
		return bus.Subscribe(ctx, consumerGroup, services.DraftTopic, func(ctx context.Context, ev eventbus.Event) error {
			var peek struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(ev.Payload, &peek); err != nil {
				return err
			}
			decoded, err := events.DeserializeEvent(events.EventType(peek.Type), ev.Payload)
			if err != nil {
				// Unknown or foreign event types are ignored and committed.
				config.Logger.Debugf("ignoring event on %s: %v", services.DraftTopic.Base(), err)
				return nil
			}
			switch v := decoded.(type) {
			case *events.DraftCreatedEvent:
				config.Logger.Infof("enriching draft %s (%s)", v.PostID.Hex(), v.IdeaTitle)
				if err := draftSvc.EnrichDraft(ctx, v.PostID); err != nil {
					return err
				}
				publishEnriched(ctx, bus, v.PostID)
				return nil
			default:
				return nil
			}
		})
	}

	config.Logger.Info("starting enricher service with eventbus...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := subscribeRunner(); err != nil && err != context.Canceled {
			config.Logger.Errorf("eventbus subscribe error: %v", err)
		}
	}()

	// Delayed-retry reinjection runs alongside the main consumer.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bus.StartRetryReinjector(ctx, reinjectorGroup, services.DraftTopic); err != nil && err != context.Canceled {
			config.Logger.Errorf("retry reinjector error: %v", err)
		}
	}()

	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down enricher service...")

	cancel()
	wg.Wait()

	config.Logger.Info("enricher service stopped")
}

// publishEnriched announces a finished enrichment. Failures are logged and
// dropped; the enrichment itself already committed.
func publishEnriched(ctx context.Context, bus eventbus.EventBus, postID primitive.ObjectID) {
	evt := events.DraftEnrichedEvent{
		BaseEvent: events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      events.DraftEnriched,
			Timestamp: time.Now(),
			Source:    "enricher",
			Version:   "1.0",
		},
		PostID: postID,
	}
	payload, _, err := events.SerializeEvent(evt)
	if err == nil {
		err = bus.Publish(ctx, services.DraftTopic.Base(), eventbus.Event{
			ID:      evt.ID,
			Payload: json.RawMessage(payload),
		})
	}
	if err != nil {
		config.Logger.Warnf("failed to publish draft.enriched for %s: %v", postID.Hex(), err)
	}
}
