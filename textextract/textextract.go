package textextract

import (
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"blogforge/config"
)

// Article is the extracted body of one published post.
type Article struct {
	PlainTextContent string
	TopImage         string
}

func extractWithReadability(htmlStr string) (*Article, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return nil, err
	}
	return &Article{
		PlainTextContent: article.TextContent,
		TopImage:         article.Image,
	}, nil
}

func extractWithTrafilatura(htmlStr string) (*Article, error) {
	opts := trafilatura.Options{
		IncludeImages: true,
	}

	article, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return nil, err
	}

	return &Article{
		PlainTextContent: article.ContentText,
		TopImage:         article.Metadata.Image,
	}, nil
}

func extractWithGoose(htmlStr string) (*Article, error) {
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, "")
	if err != nil {
		return nil, err
	}
	return &Article{
		PlainTextContent: article.CleanedText,
		TopImage:         article.TopImage,
	}, nil
}

// Extract runs the extractors in preference order and takes the first one
// that yields non-empty text. Readability wins most of the time; trafilatura
// and goose cover pages it chokes on.
func Extract(htmlStr string) (*Article, error) {
	extractors := []struct {
		name string
		fn   func(string) (*Article, error)
	}{
		{"readability", extractWithReadability},
		{"trafilatura", extractWithTrafilatura},
		{"goose", extractWithGoose},
	}

	var lastErr error
	for _, e := range extractors {
		article, err := e.fn(htmlStr)
		if err != nil {
			config.Logger.Warnf("extractor %s failed: %v", e.name, err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(article.PlainTextContent) != "" {
			return article, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return &Article{}, nil
}
