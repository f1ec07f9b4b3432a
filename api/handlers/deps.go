package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogforge/config"
	"blogforge/models"
	"blogforge/searchconsole"
)

// PostLister, PostGetter and PostPublisher are the slices of the post
// repository the handlers need directly.
type PostLister interface {
	List(ctx context.Context, status string, limit int) ([]models.Post, error)
}

type PostGetter interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
}

type PostPublisher interface {
	Publish(ctx context.Context, id primitive.ObjectID) error
	Schedule(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// SearchConsoleFetcher is satisfied by searchconsole.Client; nil when the
// install has no credentials.
type SearchConsoleFetcher interface {
	Fetch(ctx context.Context, limit int) (*searchconsole.Context, error)
}

// fetchSearchContext resolves the optional Search Console signal for idea
// generation. Fetch failures degrade to no signal.
func fetchSearchContext(c *gin.Context, sc SearchConsoleFetcher) *searchconsole.Context {
	if sc == nil || c.Query("use_search_console") != "true" {
		return nil
	}
	scCtx, err := sc.Fetch(c.Request.Context(), 10)
	if err != nil {
		config.Logger.Warnf("search console fetch failed, generating without it: %v", err)
		return nil
	}
	return scCtx
}
