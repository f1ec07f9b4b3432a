package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"blogforge/config"
	"blogforge/errs"
)

const (
	maxImageBytes  = 2 << 20 // 2 MiB hard cap on downloads
	requestTimeout = 15 * time.Second
)

// Asset is one validated featured-image candidate.
type Asset struct {
	Data     []byte
	MIME     string
	Filename string
}

// Generator renders an image from a prompt; the Gemini client satisfies it.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// Acquirer finds one featured image per draft, from a stock provider or the
// generative backend. One search, one download, no retries: a post without
// an image is fine, a stalled pipeline is not.
type Acquirer struct {
	provider  string
	apiKey    string
	generator Generator
	client    *http.Client
}

func NewAcquirer(provider string, generator Generator) *Acquirer {
	key := ""
	switch provider {
	case "pexels":
		key = os.Getenv("PEXELS_API_KEY")
	case "unsplash":
		key = os.Getenv("UNSPLASH_ACCESS_KEY")
	case "pixabay":
		key = os.Getenv("PIXABAY_API_KEY")
	}
	return &Acquirer{
		provider:  provider,
		apiKey:    key,
		generator: generator,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

// Acquire returns one landscape image matching the query. NoImageFound means
// the provider had nothing; ImageRejected means the candidate failed
// validation. Callers treat both as skip-and-continue.
func (a *Acquirer) Acquire(ctx context.Context, query string) (*Asset, error) {
	if a.provider == "generative" {
		return a.generate(ctx, query)
	}

	imageURL, err := a.search(ctx, query)
	if err != nil {
		return nil, err
	}
	data, err := a.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	mime, err := validate(data)
	if err != nil {
		return nil, err
	}
	return &Asset{Data: data, MIME: mime, Filename: filenameFor(mime)}, nil
}

func (a *Acquirer) generate(ctx context.Context, query string) (*Asset, error) {
	if a.generator == nil {
		return nil, errs.New(errs.ImageGenerationUnsupported, "no generative backend configured")
	}
	prompt := fmt.Sprintf("A wide-format featured blog image about: %s. Clean, professional, no text overlays.", query)
	data, mime, err := a.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, errs.New(errs.ImageRejected, "generated image exceeds size limit").
			With("bytes", len(data))
	}
	if mime != "image/jpeg" && mime != "image/png" {
		detected, derr := validate(data)
		if derr != nil {
			return nil, derr
		}
		mime = detected
	}
	return &Asset{Data: data, MIME: mime, Filename: filenameFor(mime)}, nil
}

// search asks the configured provider for its best landscape hit.
func (a *Acquirer) search(ctx context.Context, query string) (string, error) {
	if a.apiKey == "" {
		return "", errs.New(errs.NoImageFound, "image provider has no API key").
			With("provider", a.provider)
	}

	var (
		reqURL string
		header http.Header = http.Header{}
	)
	q := url.QueryEscape(query)
	switch a.provider {
	case "pexels":
		reqURL = "https://api.pexels.com/v1/search?query=" + q + "&orientation=landscape&per_page=1"
		header.Set("Authorization", a.apiKey)
	case "unsplash":
		reqURL = "https://api.unsplash.com/search/photos?query=" + q + "&orientation=landscape&per_page=1"
		header.Set("Authorization", "Client-ID "+a.apiKey)
	case "pixabay":
		reqURL = "https://pixabay.com/api/?key=" + a.apiKey + "&q=" + q + "&orientation=horizontal&per_page=3"
	default:
		return "", errs.New(errs.NoImageFound, "unknown image provider").
			With("provider", a.provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header = header

	resp, err := a.client.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.NoImageFound, "image search failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errs.New(errs.NoImageFound, "image search failed").
			With("provider", a.provider).With("status", resp.StatusCode)
	}

	imageURL, err := a.firstHit(resp.Body)
	if err != nil {
		return "", err
	}
	return imageURL, nil
}

func (a *Acquirer) firstHit(body io.Reader) (string, error) {
	switch a.provider {
	case "pexels":
		var doc struct {
			Photos []struct {
				Src struct {
					Large string `json:"large"`
				} `json:"src"`
			} `json:"photos"`
		}
		if err := json.NewDecoder(body).Decode(&doc); err != nil {
			return "", errs.Wrap(errs.NoImageFound, "bad search response", err)
		}
		if len(doc.Photos) == 0 {
			return "", errs.New(errs.NoImageFound, "no results")
		}
		return doc.Photos[0].Src.Large, nil
	case "unsplash":
		var doc struct {
			Results []struct {
				URLs struct {
					Regular string `json:"regular"`
				} `json:"urls"`
			} `json:"results"`
		}
		if err := json.NewDecoder(body).Decode(&doc); err != nil {
			return "", errs.Wrap(errs.NoImageFound, "bad search response", err)
		}
		if len(doc.Results) == 0 {
			return "", errs.New(errs.NoImageFound, "no results")
		}
		return doc.Results[0].URLs.Regular, nil
	default: // pixabay
		var doc struct {
			Hits []struct {
				LargeImageURL string `json:"largeImageURL"`
			} `json:"hits"`
		}
		if err := json.NewDecoder(body).Decode(&doc); err != nil {
			return "", errs.Wrap(errs.NoImageFound, "bad search response", err)
		}
		if len(doc.Hits) == 0 {
			return "", errs.New(errs.NoImageFound, "no results")
		}
		return doc.Hits[0].LargeImageURL, nil
	}
}

func (a *Acquirer) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.NoImageFound, "image download failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.NoImageFound, "image download failed").
			With("status", resp.StatusCode)
	}

	// Read one byte past the cap so an oversized body is detectable.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, errs.Wrap(errs.ImageRejected, "image download truncated", err)
	}
	if len(data) > maxImageBytes {
		config.Logger.Warnf("rejecting oversized image from %s (%d bytes)", imageURL, len(data))
		return nil, errs.New(errs.ImageRejected, "image exceeds size limit").
			With("bytes", len(data))
	}
	return data, nil
}

// validate sniffs the actual bytes; file extensions and provider headers lie.
func validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.New(errs.ImageRejected, "empty image")
	}
	mime := http.DetectContentType(data)
	if mime != "image/jpeg" && mime != "image/png" {
		return "", errs.New(errs.ImageRejected, "unsupported image type").
			With("detected", mime)
	}
	return mime, nil
}

func filenameFor(mime string) string {
	if mime == "image/png" {
		return "featured.png"
	}
	return "featured.jpg"
}
