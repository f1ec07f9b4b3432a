package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePublisher struct {
	published []primitive.ObjectID
	scheduled []primitive.ObjectID
	at        time.Time
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, id primitive.ObjectID) error {
	f.published = append(f.published, id)
	return f.err
}

func (f *fakePublisher) Schedule(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	f.scheduled = append(f.scheduled, id)
	f.at = at
	return f.err
}

func publishRouter(store PostPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/posts/:id/publish", PublishPostHandler(store))
	r.POST("/posts/:id/schedule", SchedulePostHandler(store))
	return r
}

func TestPublishPostHandler(t *testing.T) {
	store := &fakePublisher{}
	r := publishRouter(store)
	id := primitive.NewObjectID()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/"+id.Hex()+"/publish", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []primitive.ObjectID{id}, store.published)
}

func TestPublishPostHandlerRejectsBadID(t *testing.T) {
	store := &fakePublisher{}
	r := publishRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/not-an-id/publish", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.published)
}

func TestSchedulePostHandler(t *testing.T) {
	store := &fakePublisher{}
	r := publishRouter(store)
	id := primitive.NewObjectID()

	body := `{"scheduled_for": "2026-09-15T08:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/"+id.Hex()+"/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []primitive.ObjectID{id}, store.scheduled)
	assert.Equal(t, time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC), store.at.UTC())
}

func TestSchedulePostHandlerRequiresTime(t *testing.T) {
	store := &fakePublisher{}
	r := publishRouter(store)
	id := primitive.NewObjectID()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/"+id.Hex()+"/schedule", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.scheduled)
}
