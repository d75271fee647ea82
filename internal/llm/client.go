// Package llm provides the HTTP client for the external generation service,
// an Ollama-compatible chat endpoint invoked non-streaming with JSON output
// format enforced.
package llm

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

// ErrService marks a total failure of the generation service. Malformed model
// output is not a service error; the validator handles that.
var ErrService = errors.New("generation service error")

// Message is a single chat message sent to the generation service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Client issues chat completions against a configured host.
type Client struct {
	http    *http.Client
	host    appconfig.Host
	model   string
	timeout time.Duration
}

// NewClient constructs a Client for the generation host named in the config.
func NewClient(cfg *appconfig.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if strings.TrimSpace(cfg.GenerationModel) == "" {
		return nil, errors.New("generationModel is required")
	}
	host, err := cfg.GenerationHostConfig()
	if err != nil {
		return nil, err
	}
	timeout := cfg.RequestTimeout()
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		host:    host,
		model:   cfg.GenerationModel,
		timeout: timeout,
	}, nil
}

// Complete sends the messages to the chat endpoint with JSON output format
// enforced and returns the assistant's raw content. Failures are wrapped with
// ErrService; deadline expiry additionally unwraps to context.DeadlineExceeded.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	payload := map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   false,
		"format":   "json",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}
	logging.LogRequest("COVENANT->LLM", c.host.Name, c.model, body)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host.URL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %w", ErrService, ctxErr)
		}
		return "", fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrService, err)
	}
	logging.LogRequest("LLM->COVENANT", c.host.Name, c.model, raw)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: /api/chat returned %s: %s", ErrService, resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse response: %w", ErrService, err)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", fmt.Errorf("%w: response contained no content", ErrService)
	}

	return parsed.Message.Content, nil
}

// SystemPrompt returns the host-configured system prompt, if any.
func (c *Client) SystemPrompt() string {
	return c.host.SystemPrompt
}
