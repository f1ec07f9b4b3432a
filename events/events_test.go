package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSerializeDeserializeDraftCreated(t *testing.T) {
	evt := DraftCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        "evt-1",
			Type:      DraftCreated,
			Timestamp: time.Now().UTC(),
			Source:    "draft-service",
			Version:   "1.0",
		},
		PostID:    primitive.NewObjectID(),
		IdeaID:    primitive.NewObjectID(),
		IdeaTitle: "A Practical Guide to Go Testing",
	}

	data, eventType, err := SerializeEvent(evt)
	assert.NoError(t, err)
	assert.Equal(t, DraftCreated, eventType)

	decoded, err := DeserializeEvent(eventType, data)
	assert.NoError(t, err)
	got, ok := decoded.(*DraftCreatedEvent)
	assert.True(t, ok)
	assert.Equal(t, evt.PostID, got.PostID)
	assert.Equal(t, evt.IdeaTitle, got.IdeaTitle)
}

func TestSerializeDeserializeDraftEnriched(t *testing.T) {
	evt := DraftEnrichedEvent{
		BaseEvent: BaseEvent{ID: "evt-2", Type: DraftEnriched, Source: "enricher", Version: "1.0"},
		PostID:    primitive.NewObjectID(),
	}

	data, eventType, err := SerializeEvent(evt)
	assert.NoError(t, err)
	assert.Equal(t, DraftEnriched, eventType)

	decoded, err := DeserializeEvent(eventType, data)
	assert.NoError(t, err)
	got, ok := decoded.(*DraftEnrichedEvent)
	assert.True(t, ok)
	assert.Equal(t, evt.PostID, got.PostID)
}

func TestDeserializeUnknownType(t *testing.T) {
	_, err := DeserializeEvent(EventType("idea.generated"), []byte(`{}`))
	assert.Error(t, err)

	_, _, err = SerializeEvent(struct{}{})
	assert.Error(t, err)
}
