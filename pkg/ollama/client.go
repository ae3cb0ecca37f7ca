package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/menta2k/ui-locator/pkg/client"
)

// DefaultTimeout bounds a single classification when the caller's context
// carries no deadline. Vision models on CPU can be slow.
const DefaultTimeout = 300 * time.Second

// Client wraps the Ollama API client as a region classifier.
type Client struct {
	client *api.Client
}

// NewClient creates a new Ollama client for the given server URL.
func NewClient(ollamaURL string) (*Client, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Base URL only; paths like /api/chat are added by the SDK.
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Client{client: api.NewClient(baseURL, http.DefaultClient)}, nil
}

// ClassifyRegion sends the annotated image and asks which numbered section
// contains the target. The reply is parsed strictly: anything that is not a
// single number is client.ErrMalformedResponse, never a default cell.
func (c *Client) ClassifyRegion(ctx context.Context, model, target, imgB64 string, gridWidth int) (int, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return 0, fmt.Errorf("failed to decode base64 image: %v", err)
	}

	streamFalse := false
	options := map[string]any{}

	// Low temperature keeps the single-number reply format stable.
	modelLower := strings.ToLower(model)
	if strings.Contains(modelLower, "minicpm-v4") ||
		strings.Contains(modelLower, "minicpm-v-4") ||
		strings.Contains(modelLower, "minicpmv4") {
		options["temperature"] = 0.1
		options["num_ctx"] = 4096
	}

	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: client.SectionPrompt(target, gridWidth),
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream:  &streamFalse,
		Options: options,
	}

	var responseContent string
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ollama chat error: %w", err)
	}
	if responseContent == "" {
		return 0, fmt.Errorf("empty response from ollama: %w", client.ErrMalformedResponse)
	}

	return client.ParseCellNumber(responseContent)
}
