package embed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/covenant/internal/appconfig"
)

func testConfig(url string) *appconfig.Config {
	return &appconfig.Config{
		Hosts:          []appconfig.Host{{Name: "local", URL: url}},
		EmbeddingHost:  "local",
		EmbeddingModel: "nomic-embed-text",
		TimeoutSeconds: 5,
	}
}

func TestEmbedTextReturnsVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"embedding": [0.1, 0.2, 0.3]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	vec, err := client.EmbedText(context.Background(), "payment terms")
	if err != nil {
		t.Fatalf("EmbedText returned error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3-dimensional vector, got %d", len(vec))
	}
}

func TestEmbedTextServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.EmbedText(context.Background(), "payment terms")
	if !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService, got %v", err)
	}
}

func TestEmbedTextEmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding": []}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = client.EmbedText(context.Background(), "payment terms")
	if !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService for empty vector, got %v", err)
	}
}

func TestNewClientRequiresModel(t *testing.T) {
	cfg := testConfig("http://localhost:11434")
	cfg.EmbeddingModel = ""
	if _, err := NewClient(cfg); err == nil {
		t.Fatalf("expected error for missing embedding model")
	}
}
