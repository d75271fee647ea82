// Package contract defines the core data types shared across the pipeline:
// documents, clauses, queries, retrieved evidence, and structured answers.
package contract

// Document is an ingested contract. Content is immutable once ingested.
type Document struct {
	ID      string
	Content string
}

// Span records the byte offsets of a clause within its source document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Clause is an addressable unit of document text produced by the segmenter.
// The ID is stable across runs: it is derived from the document ID and the
// clause ordinal, never from random state.
type Clause struct {
	ID      string `json:"id"`
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
	Span    Span   `json:"span"`
}

// Query is a single user question plus retrieval parameters.
type Query struct {
	Text string
	TopK int
}

// Evidence pairs a retrieved clause with its similarity score.
type Evidence struct {
	Clause Clause
	Score  float64
}

// EvidenceSet is the ranked evidence for one query, descending by score.
type EvidenceSet []Evidence

// Contains reports whether the set includes a clause with the given ID.
func (e EvidenceSet) Contains(id string) bool {
	for _, ev := range e {
		if ev.Clause.ID == id {
			return true
		}
	}
	return false
}

// IDs returns the clause IDs in rank order.
func (e EvidenceSet) IDs() []string {
	ids := make([]string, len(e))
	for i, ev := range e {
		ids[i] = ev.Clause.ID
	}
	return ids
}

// ClauseRef cites a clause by ID together with the text snippet relied on.
type ClauseRef struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Answer is the caller-facing structured result. All fields are mandatory in
// the output contract; empty slices are serialized as [], never omitted.
type Answer struct {
	Summary           string      `json:"summary"`
	Obligations       []string    `json:"obligations"`
	Penalties         []string    `json:"penalties"`
	Risks             []string    `json:"risks"`
	SupportingClauses []ClauseRef `json:"supporting_clauses"`
}

// Normalize replaces nil slices with empty ones so the answer always
// serializes with every mandatory key present as an array.
func (a *Answer) Normalize() {
	if a.Obligations == nil {
		a.Obligations = []string{}
	}
	if a.Penalties == nil {
		a.Penalties = []string{}
	}
	if a.Risks == nil {
		a.Risks = []string{}
	}
	if a.SupportingClauses == nil {
		a.SupportingClauses = []ClauseRef{}
	}
}

// Candidate is generator output prior to schema validation. Raw preserves the
// model's exact JSON so the validator checks what was actually produced, not a
// lossy re-encoding.
type Candidate struct {
	Raw    []byte
	Answer Answer
}
