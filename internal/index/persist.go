package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/covenant/internal/contract"
)

// indexRecord is a single JSONL record in the persisted clause index.
type indexRecord struct {
	Doc       string        `json:"doc"`
	ClauseID  string        `json:"clause_id"`
	Ordinal   int           `json:"ordinal"`
	Text      string        `json:"text"`
	Span      contract.Span `json:"span"`
	Embedding []float64     `json:"embedding"`
}

// Save writes the snapshot to path as JSONL, one clause per line.
func Save(s *Snapshot, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)

	for _, e := range s.entries {
		record := indexRecord{
			Doc:       s.docID,
			ClauseID:  e.clause.ID,
			Ordinal:   e.clause.Ordinal,
			Text:      e.clause.Text,
			Span:      e.clause.Span,
			Embedding: e.vector,
		}
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("write index record: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}

// Load reads a JSONL index file back into a snapshot, re-validating embedding
// dimensions through Build.
func Load(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 8*1024*1024)

	var (
		docID   string
		clauses []contract.Clause
		vectors [][]float64
	)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record indexRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("parse index line %d: %w", lineNo, err)
		}
		if docID == "" {
			docID = record.Doc
		}
		clauses = append(clauses, contract.Clause{
			ID:      record.ClauseID,
			Ordinal: record.Ordinal,
			Text:    record.Text,
			Span:    record.Span,
		})
		vectors = append(vectors, record.Embedding)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	return Build(docID, clauses, vectors)
}
