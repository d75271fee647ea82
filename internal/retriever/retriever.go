// Package retriever converts a query into a ranked evidence set by embedding
// the query text and delegating to the evidence index.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/index"
)

// Embedder is the external embedding service boundary.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// Retriever embeds queries and ranks evidence against a snapshot.
type Retriever struct {
	embedder Embedder
}

// New constructs a Retriever over the given embedding service.
func New(embedder Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve returns the ranked evidence set for the query. An empty snapshot
// yields an empty set, not an error; embedding failures propagate unretried —
// retry policy belongs to the pipeline.
func (r *Retriever) Retrieve(ctx context.Context, snap *index.Snapshot, query contract.Query) (contract.EvidenceSet, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, fmt.Errorf("query text is empty")
	}
	if query.TopK <= 0 {
		return nil, fmt.Errorf("query topK must be greater than zero, got %d", query.TopK)
	}
	if snap == nil || snap.Len() == 0 {
		return contract.EvidenceSet{}, nil
	}

	queryVec, err := r.embedder.EmbedText(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return snap.Query(queryVec, query.TopK)
}
