package events

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType identifies the payload shape inside an eventbus envelope.
type EventType string

const (
	DraftCreated  EventType = "draft.created"
	DraftEnriched EventType = "draft.enriched"
)

// BaseEvent carries the fields common to every event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// DraftCreatedEvent triggers the async enrichment pipeline for a new draft.
type DraftCreatedEvent struct {
	BaseEvent
	PostID    primitive.ObjectID `json:"post_id"`
	IdeaID    primitive.ObjectID `json:"idea_id"`
	IdeaTitle string             `json:"idea_title"`
}

// DraftEnrichedEvent signals that enrichment finished for a draft.
type DraftEnrichedEvent struct {
	BaseEvent
	PostID primitive.ObjectID `json:"post_id"`
}

// SerializeEvent marshals an event and reports its type.
func SerializeEvent(event interface{}) ([]byte, EventType, error) {
	var eventType EventType

	switch e := event.(type) {
	case DraftCreatedEvent:
		eventType = e.Type
	case DraftEnrichedEvent:
		eventType = e.Type
	default:
		return nil, "", fmt.Errorf("unknown event type: %T", event)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}

	return data, eventType, nil
}

// DeserializeEvent unmarshals a payload into the struct its type names.
func DeserializeEvent(eventType EventType, data []byte) (interface{}, error) {
	var event interface{}

	switch eventType {
	case DraftCreated:
		event = &DraftCreatedEvent{}
	case DraftEnriched:
		event = &DraftEnrichedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return event, nil
}
