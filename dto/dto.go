package dto

import (
	"time"

	"blogforge/models"
)

// IdeaDTO is the API shape of an idea.
type IdeaDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	PostID    string    `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromIdea(i models.Idea) IdeaDTO {
	d := IdeaDTO{
		ID:        i.ID.Hex(),
		Title:     i.Title,
		Status:    i.Status,
		Source:    i.Source,
		CreatedAt: i.CreatedAt,
	}
	if i.PostID != nil {
		d.PostID = i.PostID.Hex()
	}
	return d
}

func FromIdeas(ideas []models.Idea) []IdeaDTO {
	out := make([]IdeaDTO, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, FromIdea(i))
	}
	return out
}

// PostDTO is the API shape of a draft or published post.
type PostDTO struct {
	ID               string     `json:"id"`
	IdeaID           string     `json:"idea_id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	MetaTitle        string     `json:"meta_title"`
	MetaDescription  string     `json:"meta_description"`
	FocusKeywords    []string   `json:"focus_keywords,omitempty"`
	Sources          []string   `json:"sources,omitempty"`
	FeaturedImageRef string     `json:"featured_image_ref,omitempty"`
	Permalink        string     `json:"permalink,omitempty"`
	Status           string     `json:"status"`
	ModelName        string     `json:"model_name"`
	CreatedAt        time.Time  `json:"created_at"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}

func FromPost(p models.Post) PostDTO {
	return PostDTO{
		ID:               p.ID.Hex(),
		IdeaID:           p.IdeaID.Hex(),
		Title:            p.Title,
		Content:          p.Content,
		MetaTitle:        p.MetaTitle,
		MetaDescription:  p.MetaDescription,
		FocusKeywords:    p.FocusKeywords,
		Sources:          p.Sources,
		FeaturedImageRef: p.FeaturedImageRef,
		Permalink:        p.Permalink,
		Status:           p.Status,
		ModelName:        p.ModelName,
		CreatedAt:        p.CreatedAt,
		PublishedAt:      p.PublishedAt,
	}
}

func FromPosts(posts []models.Post) []PostDTO {
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, FromPost(p))
	}
	return out
}

// StyleGuideDTO is the API shape of the style guide.
type StyleGuideDTO struct {
	Tone              string    `json:"tone"`
	SentenceStructure string    `json:"sentence_structure"`
	ParagraphLength   string    `json:"paragraph_length"`
	FormattingStyle   string    `json:"formatting_style"`
	LastAnalyzed      time.Time `json:"last_analyzed"`
}

func FromStyleGuide(g models.StyleGuide) StyleGuideDTO {
	return StyleGuideDTO{
		Tone:              g.Tone,
		SentenceStructure: g.SentenceStructure,
		ParagraphLength:   g.ParagraphLength,
		FormattingStyle:   g.FormattingStyle,
		LastAnalyzed:      g.LastAnalyzed,
	}
}
