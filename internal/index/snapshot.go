// Package index implements the evidence index: an immutable snapshot of
// clause embeddings supporting top-k cosine similarity lookup, plus an atomic
// store that publishes complete snapshots to readers.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mwiater/covenant/internal/contract"
)

// ErrBuild marks a failed index build, such as inconsistent embedding
// dimensions. Build failures are structural and never retried.
var ErrBuild = errors.New("index build error")

type entry struct {
	clause contract.Clause
	vector []float64
	norm   float64
}

// Snapshot is a fully built, immutable similarity index over one document's
// clauses. It is safe for concurrent queries; a rebuild produces a new
// Snapshot rather than mutating an existing one.
type Snapshot struct {
	docID     string
	dimension int
	entries   []entry
}

// Build constructs a snapshot from clauses and their embeddings. Every vector
// must share the same dimension or Build fails with ErrBuild.
func Build(docID string, clauses []contract.Clause, vectors [][]float64) (*Snapshot, error) {
	if len(clauses) != len(vectors) {
		return nil, fmt.Errorf("%w: %d clauses but %d vectors", ErrBuild, len(clauses), len(vectors))
	}

	s := &Snapshot{docID: docID}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return nil, fmt.Errorf("%w: clause %s has an empty embedding", ErrBuild, clauses[i].ID)
		}
		if s.dimension == 0 {
			s.dimension = len(vec)
		} else if len(vec) != s.dimension {
			return nil, fmt.Errorf("%w: clause %s has dimension %d, expected %d", ErrBuild, clauses[i].ID, len(vec), s.dimension)
		}
		s.entries = append(s.entries, entry{
			clause: clauses[i],
			vector: vec,
			norm:   vectorNorm(vec),
		})
	}
	return s, nil
}

// DocID returns the identifier of the indexed document.
func (s *Snapshot) DocID() string { return s.docID }

// Len returns the number of indexed clauses.
func (s *Snapshot) Len() int { return len(s.entries) }

// Dimension returns the embedding dimension of the snapshot, 0 when empty.
func (s *Snapshot) Dimension() int { return s.dimension }

// Query ranks all indexed clauses against the query vector and returns up to
// topK evidence entries, descending by score with ties broken by ascending
// clause ordinal. Asking for more results than are indexed returns everything,
// ranked. An empty snapshot yields an empty set.
func (s *Snapshot) Query(queryVec []float64, topK int) (contract.EvidenceSet, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than zero, got %d", topK)
	}
	if len(s.entries) == 0 {
		return contract.EvidenceSet{}, nil
	}
	if len(queryVec) != s.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, index has %d", len(queryVec), s.dimension)
	}

	queryNorm := vectorNorm(queryVec)
	scored := make(contract.EvidenceSet, 0, len(s.entries))
	for _, e := range s.entries {
		scored = append(scored, contract.Evidence{
			Clause: e.clause,
			Score:  cosineSimilarity(queryVec, queryNorm, e.vector, e.norm),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Clause.Ordinal < scored[j].Clause.Ordinal
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

func cosineSimilarity(a []float64, normA float64, b []float64, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}
