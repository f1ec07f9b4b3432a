package gemini

import (
	"context"

	"google.golang.org/genai"

	"blogforge/errs"
)

type generateImageFunc func(ctx context.Context, model, prompt string) (*genai.GenerateImagesResponse, error)

// GenerateImage renders one image for the prompt and returns the raw bytes
// plus MIME type. A missing image model means the configured provider cannot
// generate; callers treat that as a skip, not a failure.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if c.cfg.ImageModel == "" || c.generateImage == nil {
		return nil, "", errs.New(errs.ImageGenerationUnsupported, "no image model configured")
	}
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.generateImage(callCtx, c.cfg.ImageModel, prompt)
	if err != nil {
		return nil, "", classify(err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, "", errs.New(errs.NoImageFound, "model returned no image")
	}
	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return img.ImageBytes, mime, nil
}
