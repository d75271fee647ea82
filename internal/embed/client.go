// Package embed provides the HTTP client for the external embedding service.
// The service is Ollama-compatible: POST /api/embeddings with a model and
// prompt, returning a fixed-length numeric vector.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/covenant/internal/appconfig"
	"github.com/mwiater/covenant/internal/logging"
)

// ErrService marks any failure of the embedding service. Callers classify it
// with errors.Is; retry policy belongs to the pipeline, never to this client.
var ErrService = errors.New("embedding service error")

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Client requests embedding vectors from a configured host.
type Client struct {
	http    *http.Client
	host    appconfig.Host
	model   string
	timeout time.Duration
}

// NewClient constructs a Client for the embedding host named in the config.
func NewClient(cfg *appconfig.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if strings.TrimSpace(cfg.EmbeddingModel) == "" {
		return nil, errors.New("embeddingModel is required")
	}
	host, err := cfg.EmbeddingHostConfig()
	if err != nil {
		return nil, err
	}
	timeout := cfg.RequestTimeout()
	return &Client{
		http:    &http.Client{Timeout: timeout},
		host:    host,
		model:   cfg.EmbeddingModel,
		timeout: timeout,
	}, nil
}

// EmbedText requests an embedding vector for the given text. Failures are
// wrapped with ErrService; a deadline expiry additionally unwraps to
// context.DeadlineExceeded so the caller can distinguish timeouts.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host.URL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	logging.LogRequest("COVENANT->EMBED", c.host.Name, c.model, body)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrService, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrService, err)
	}
	logging.LogRequest("EMBED->COVENANT", c.host.Name, c.model, fmt.Sprintf("%d bytes", len(raw)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: %s", ErrService, resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrService, err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: response returned empty vector", ErrService)
	}

	return parsed.Embedding, nil
}
