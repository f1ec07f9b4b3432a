package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTopicNames(t *testing.T) {
	topic := NewTopic("draft.events")
	assert.Equal(t, "draft.events", topic.Base())
	assert.Equal(t, "draft.events.dlq", topic.DLQ())

	retries := topic.GetRetryTopics()
	assert.Len(t, retries, len(RetryDelays))
	assert.Equal(t, "draft.events.retry.10s", retries[0])
	assert.Equal(t, "draft.events.retry.10m0s", retries[len(retries)-1])
}

func TestGetRetryTopicBounds(t *testing.T) {
	topic := NewTopic("draft.events")

	name, err := topic.GetRetryTopic(1)
	assert.NoError(t, err)
	assert.Equal(t, "draft.events.retry.10s", name)

	_, err = topic.GetRetryTopic(0)
	assert.Equal(t, ErrMaxRetryExceeded, err)
	_, err = topic.GetRetryTopic(len(RetryDelays) + 1)
	assert.Equal(t, ErrMaxRetryExceeded, err)
}

func TestParseRetryDelayFromTopicName(t *testing.T) {
	d, ok := ParseRetryDelayFromTopicName("draft.events.retry.30s")
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, d)

	_, ok = ParseRetryDelayFromTopicName("draft.events")
	assert.False(t, ok)
	_, ok = ParseRetryDelayFromTopicName("draft.events.dlq")
	assert.False(t, ok)
}

func TestJSONEventRoundTrip(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	evt, err := NewJSONEvent("evt-1", payload{Name: "draft"}, 0)
	assert.NoError(t, err)
	assert.Equal(t, "evt-1", evt.ID)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)

	out, err := DecodeJSON[payload](evt)
	assert.NoError(t, err)
	assert.Equal(t, "draft", out.Name)
}
