package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/extract"
	"github.com/mwiater/covenant/internal/llm"
)

type stubCompleter struct {
	response string
	err      error
	lastMsgs []llm.Message
}

func (s *stubCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	s.lastMsgs = messages
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type failingTool struct{}

func (f failingTool) Name() string                                { return "broken_tool" }
func (f failingTool) Extract(text string) (map[string]any, error) { return nil, errors.New("boom") }

func penaltyEvidence() contract.EvidenceSet {
	return contract.EvidenceSet{
		{Clause: contract.Clause{ID: "msa:1", Ordinal: 1, Text: "Payment due within 30 days"}, Score: 0.9},
		{Clause: contract.Clause{ID: "msa:2", Ordinal: 2, Text: "A $500 late fee applies after the due date"}, Score: 0.8},
	}
}

func TestGenerateParsesCandidate(t *testing.T) {
	stub := &stubCompleter{response: `{"summary":"Late payments incur a $500 fee.","obligations":["Pay within 30 days"],"penalties":["$500 late fee"],"risks":[],"supporting_clauses":[{"id":"msa:2","text":"A $500 late fee applies after the due date"}]}`}
	g := New(stub, extract.DefaultSet(), "")

	candidate, err := g.Generate(context.Background(), contract.Query{Text: "What happens if I pay late?", TopK: 2}, penaltyEvidence(), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if candidate.Answer.Summary == "" {
		t.Fatalf("expected parsed summary")
	}
	if len(candidate.Answer.SupportingClauses) != 1 || candidate.Answer.SupportingClauses[0].ID != "msa:2" {
		t.Fatalf("unexpected supporting clauses: %v", candidate.Answer.SupportingClauses)
	}
}

func TestGeneratePromptContainsEvidenceAndTools(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	g := New(stub, extract.DefaultSet(), "")

	_, err := g.Generate(context.Background(), contract.Query{Text: "penalties?", TopK: 2}, penaltyEvidence(), nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(stub.lastMsgs) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(stub.lastMsgs))
	}
	prompt := stub.lastMsgs[1].Content
	if !strings.Contains(prompt, "[clause:msa:1]") || !strings.Contains(prompt, "[clause:msa:2]") {
		t.Fatalf("prompt missing clause context: %s", prompt)
	}
	if !strings.Contains(prompt, "TOOL FINDINGS") || !strings.Contains(prompt, "extract_amount") {
		t.Fatalf("prompt missing tool findings: %s", prompt)
	}
}

func TestGenerateIncludesFeedback(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	g := New(stub, nil, "")

	feedback := []string{`supporting_clauses cites id "msa:99" which was not retrieved as evidence`}
	_, err := g.Generate(context.Background(), contract.Query{Text: "penalties?", TopK: 2}, penaltyEvidence(), feedback)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	prompt := stub.lastMsgs[1].Content
	if !strings.Contains(prompt, "FAILED VALIDATION") || !strings.Contains(prompt, "msa:99") {
		t.Fatalf("prompt missing repair feedback: %s", prompt)
	}
}

func TestGenerateToolFailureIsSoft(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	g := New(stub, []extract.Extractor{failingTool{}}, "")

	if _, err := g.Generate(context.Background(), contract.Query{Text: "penalties?", TopK: 2}, penaltyEvidence(), nil); err != nil {
		t.Fatalf("tool failure must not abort generation, got %v", err)
	}
}

func TestGenerateMalformedOutputIsNotAnError(t *testing.T) {
	stub := &stubCompleter{response: "definitely not json"}
	g := New(stub, nil, "")

	candidate, err := g.Generate(context.Background(), contract.Query{Text: "penalties?", TopK: 2}, penaltyEvidence(), nil)
	if err != nil {
		t.Fatalf("malformed output is the validator's problem, got error %v", err)
	}
	if string(candidate.Raw) != "definitely not json" {
		t.Fatalf("raw output must be preserved, got %q", candidate.Raw)
	}
}

func TestGenerateServiceErrorPropagates(t *testing.T) {
	wantErr := errors.New("unavailable")
	g := New(&stubCompleter{err: wantErr}, nil, "")

	_, err := g.Generate(context.Background(), contract.Query{Text: "penalties?", TopK: 2}, penaltyEvidence(), nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected service error to propagate, got %v", err)
	}
}

func TestGenerateEmptyEvidenceNote(t *testing.T) {
	stub := &stubCompleter{response: `{}`}
	g := New(stub, nil, "")

	_, err := g.Generate(context.Background(), contract.Query{Text: "penalties?", TopK: 2}, contract.EvidenceSet{}, nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(stub.lastMsgs[1].Content, "no clauses were retrieved") {
		t.Fatalf("prompt should flag the zero-evidence case")
	}
}
