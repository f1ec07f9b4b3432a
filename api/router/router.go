package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"blogforge/api/handlers"
	"blogforge/db"
	_ "blogforge/docs"
	"blogforge/repositories"
	"blogforge/services"
)

// Deps bundles everything the routes need. SearchConsole may be nil.
type Deps struct {
	Ideas         *services.IdeaService
	Drafts        *services.DraftService
	Style         *services.StyleService
	Posts         *repositories.PostRepository
	SearchConsole handlers.SearchConsoleFetcher
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/ideas", handlers.ListIdeasHandler(deps.Ideas))
		api.POST("/ideas", handlers.AddIdeaHandler(deps.Ideas))
		api.POST("/ideas/generate", handlers.GenerateIdeasHandler(deps.Ideas, deps.SearchConsole))
		api.POST("/ideas/similar", handlers.SimilarIdeasHandler(deps.Ideas))
		api.POST("/ideas/:id/archive", handlers.ArchiveIdeaHandler(deps.Ideas))
		api.POST("/ideas/:id/reject", handlers.RejectIdeaHandler(deps.Ideas))
		api.POST("/ideas/:id/draft", handlers.CreateDraftHandler(deps.Drafts))

		api.GET("/posts", handlers.ListPostsHandler(deps.Posts))
		api.GET("/posts/:id", handlers.GetPostHandler(deps.Posts))
		api.POST("/posts/:id/enrich", handlers.EnrichDraftHandler(deps.Drafts))
		api.POST("/posts/:id/publish", handlers.PublishPostHandler(deps.Posts))
		api.POST("/posts/:id/schedule", handlers.SchedulePostHandler(deps.Posts))

		api.GET("/style-guide", handlers.GetStyleGuideHandler(deps.Style))
		api.PUT("/style-guide", handlers.UpdateStyleGuideHandler(deps.Style))
		api.POST("/style-guide/analyze", handlers.AnalyzeSiteHandler(deps.Style))
	}

	return r
}
