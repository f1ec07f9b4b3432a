package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogforge/dto"
	"blogforge/errs"
	"blogforge/models"
	"blogforge/services"
)

// statusFor maps the error taxonomy onto HTTP codes.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.StyleGuideRequired, errs.ContentGenerationFailed:
		return http.StatusUnprocessableEntity
	case errs.QuotaExceeded:
		return http.StatusTooManyRequests
	case errs.IdeaNotFound:
		return http.StatusNotFound
	case errs.AlreadyClaimed:
		return http.StatusConflict
	case errs.AIUnauthenticated:
		return http.StatusBadGateway
	case errs.AIUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListIdeasHandler godoc
// @Summary      List ideas
// @Description  List ideas, optionally filtered by status
// @Tags         ideas
// @Param        status  query  string  false  "Status filter (new|drafting|drafted|rejected|archived)"
// @Produce      json
// @Success      200  {array}  dto.IdeaDTO
// @Router       /ideas [get]
func ListIdeasHandler(svc *services.IdeaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ideas, err := svc.ListIdeas(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromIdeas(ideas))
	}
}

// AddIdeaHandler godoc
// @Summary      Add a manual idea
// @Tags         ideas
// @Accept       json
// @Param        body  body  object{title=string}  true  "Idea title"
// @Produce      json
// @Success      201  {object}  dto.IdeaDTO
// @Router       /ideas [post]
func AddIdeaHandler(svc *services.IdeaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		idea, err := svc.AddManualIdea(c.Request.Context(), in.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.FromIdea(*idea))
	}
}

// GenerateIdeasHandler godoc
// @Summary      Generate ideas with AI
// @Description  Generate new post ideas, optionally steered by Search Console data
// @Tags         ideas
// @Param        count                query  int   false  "How many ideas to request"
// @Param        use_search_console   query  bool  false  "Condition the prompt on search data"
// @Produce      json
// @Success      200  {array}  dto.IdeaDTO
// @Router       /ideas/generate [post]
func GenerateIdeasHandler(svc *services.IdeaService, sc SearchConsoleFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))
		scCtx := fetchSearchContext(c, sc)
		ideas, err := svc.GenerateIdeas(c.Request.Context(), count, scCtx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromIdeas(ideas))
	}
}

// SimilarIdeasHandler godoc
// @Summary      Generate similar ideas
// @Tags         ideas
// @Accept       json
// @Param        body  body  object{title=string}  true  "Base title"
// @Produce      json
// @Success      200  {array}  dto.IdeaDTO
// @Router       /ideas/similar [post]
func SimilarIdeasHandler(svc *services.IdeaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Title string `json:"title" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ideas, err := svc.GenerateSimilarIdeas(c.Request.Context(), in.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromIdeas(ideas))
	}
}

// ArchiveIdeaHandler godoc
// @Summary      Archive an idea
// @Tags         ideas
// @Param        id  path  string  true  "ObjectID"
// @Success      204
// @Router       /ideas/{id}/archive [post]
func ArchiveIdeaHandler(svc *services.IdeaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.ArchiveIdea(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// RejectIdeaHandler godoc
// @Summary      Reject an idea
// @Tags         ideas
// @Param        id  path  string  true  "ObjectID"
// @Success      204
// @Router       /ideas/{id}/reject [post]
func RejectIdeaHandler(svc *services.IdeaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.RejectIdea(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// CreateDraftHandler godoc
// @Summary      Generate a draft from an idea
// @Description  Runs the full generation pipeline for one idea
// @Tags         drafts
// @Param        id  path  string  true  "Idea ObjectID"
// @Produce      json
// @Success      201  {object}  dto.PostDTO
// @Router       /ideas/{id}/draft [post]
func CreateDraftHandler(svc *services.DraftService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		post, err := svc.CreateDraft(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.FromPost(*post))
	}
}

// EnrichDraftHandler godoc
// @Summary      Re-run enrichment on a draft
// @Tags         drafts
// @Param        id  path  string  true  "Post ObjectID"
// @Success      204
// @Router       /posts/{id}/enrich [post]
func EnrichDraftHandler(svc *services.DraftService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := svc.EnrichDraft(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ListPostsHandler godoc
// @Summary      List posts
// @Tags         posts
// @Param        status  query  string  false  "Status filter (draft|published)"
// @Param        limit   query  int     false  "Max results"
// @Produce      json
// @Success      200  {array}  dto.PostDTO
// @Router       /posts [get]
func ListPostsHandler(store PostLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		posts, err := store.List(c.Request.Context(), c.Query("status"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromPosts(posts))
	}
}

// GetPostHandler godoc
// @Summary      Get post by id
// @Tags         posts
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Router       /posts/{id} [get]
func GetPostHandler(store PostGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		post, err := store.FindByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, dto.FromPost(*post))
	}
}

// PublishPostHandler godoc
// @Summary      Publish a draft now
// @Tags         posts
// @Param        id  path  string  true  "Post ObjectID"
// @Success      204
// @Router       /posts/{id}/publish [post]
func PublishPostHandler(store PostPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := store.Publish(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// SchedulePostHandler godoc
// @Summary      Schedule a draft for future publication
// @Tags         posts
// @Accept       json
// @Param        id    path  string                        true  "Post ObjectID"
// @Param        body  body  object{scheduled_for=string}  true  "RFC3339 publish time"
// @Success      204
// @Router       /posts/{id}/schedule [post]
func SchedulePostHandler(store PostPublisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var in struct {
			ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.Schedule(c.Request.Context(), id, in.ScheduledFor); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetStyleGuideHandler godoc
// @Summary      Get the style guide
// @Tags         style
// @Produce      json
// @Success      200  {object}  dto.StyleGuideDTO
// @Router       /style-guide [get]
func GetStyleGuideHandler(svc *services.StyleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		guide, err := svc.Get(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if guide == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "site has not been analyzed"})
			return
		}
		c.JSON(http.StatusOK, dto.FromStyleGuide(*guide))
	}
}

// AnalyzeSiteHandler godoc
// @Summary      Analyze the site's writing style
// @Tags         style
// @Produce      json
// @Success      200  {object}  dto.StyleGuideDTO
// @Router       /style-guide/analyze [post]
func AnalyzeSiteHandler(svc *services.StyleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		guide, err := svc.AnalyzeSite(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromStyleGuide(*guide))
	}
}

// UpdateStyleGuideHandler godoc
// @Summary      Manually edit the style guide
// @Tags         style
// @Accept       json
// @Param        body  body  dto.StyleGuideDTO  true  "Guide fields"
// @Success      204
// @Router       /style-guide [put]
func UpdateStyleGuideHandler(svc *services.StyleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.StyleGuideDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		guide := &models.StyleGuide{
			Tone:              in.Tone,
			SentenceStructure: in.SentenceStructure,
			ParagraphLength:   in.ParagraphLength,
			FormattingStyle:   in.FormattingStyle,
		}
		if err := svc.Update(c.Request.Context(), guide); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
