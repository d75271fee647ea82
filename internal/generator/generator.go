// Package generator produces candidate answers constrained to retrieved
// evidence. The generator is untrusted: it aims for citation-sound output but
// the validator is what enforces it. Tool sub-calls enrich the prompt and
// fail soft; a broken tool never aborts generation.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/extract"
	"github.com/mwiater/covenant/internal/llm"
	"github.com/mwiater/covenant/internal/logging"
)

// defaultSystemPrompt constrains the model to the supplied clauses and the
// fixed output schema.
const defaultSystemPrompt = `You are a contract analysis assistant.
Answer STRICTLY based on the provided clauses; never invent facts or clause ids.
Identify obligations, penalties, risks, and financial terms.
Respond with a single JSON object containing exactly these keys:
"summary" (string), "obligations" (array of strings), "penalties" (array of strings),
"risks" (array of strings), "supporting_clauses" (array of {"id", "text"} objects).
Every supporting_clauses id must be one of the clause ids you were given.`

// Completer is the external generation service boundary.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Generator builds evidence-constrained prompts and parses candidates.
type Generator struct {
	completer    Completer
	tools        []extract.Extractor
	systemPrompt string
}

// New constructs a Generator. An empty systemPrompt selects the default.
func New(completer Completer, tools []extract.Extractor, systemPrompt string) *Generator {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &Generator{completer: completer, tools: tools, systemPrompt: systemPrompt}
}

// Generate produces a candidate answer for the query from the evidence set.
// feedback, when non-empty, carries the previous attempt's validation
// violations so the model can repair them. Generate fails only when the
// generation service fails entirely; malformed output is returned as a
// candidate for the validator to judge.
func (g *Generator) Generate(ctx context.Context, query contract.Query, evidence contract.EvidenceSet, feedback []string) (contract.Candidate, error) {
	prompt := g.buildPrompt(query, evidence, feedback)

	content, err := g.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: g.systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return contract.Candidate{}, fmt.Errorf("generate answer: %w", err)
	}

	candidate := contract.Candidate{Raw: []byte(content)}
	// Parse errors are deliberately ignored here: the validator judges the
	// raw output, and a zero Answer fails validation anyway.
	_ = json.Unmarshal(candidate.Raw, &candidate.Answer)
	return candidate, nil
}

// buildPrompt assembles the clause context, tool findings, feedback, and the
// user question into a single prompt.
func (g *Generator) buildPrompt(query contract.Query, evidence contract.EvidenceSet, feedback []string) string {
	var b strings.Builder

	b.WriteString("CLAUSES\n")
	if len(evidence) == 0 {
		b.WriteString("(no clauses were retrieved; say so in the summary and cite nothing)\n")
	}
	for _, ev := range evidence {
		fmt.Fprintf(&b, "[clause:%s] %s\n", ev.Clause.ID, strings.TrimSpace(ev.Clause.Text))
	}

	if findings := g.runTools(evidence); len(findings) > 0 {
		b.WriteString("\nTOOL FINDINGS\n")
		for _, f := range findings {
			b.WriteString(f)
			b.WriteString("\n")
		}
	}

	if len(feedback) > 0 {
		b.WriteString("\nYOUR PREVIOUS ANSWER FAILED VALIDATION\n")
		for _, violation := range feedback {
			fmt.Fprintf(&b, "- %s\n", violation)
		}
		b.WriteString("Produce a corrected answer that resolves every violation.\n")
	}

	fmt.Fprintf(&b, "\nQUESTION\n%s\n", query.Text)
	return b.String()
}

// runTools applies every extraction tool to every evidence clause. A tool
// error is logged and skipped; a nil result means the tool found nothing.
func (g *Generator) runTools(evidence contract.EvidenceSet) []string {
	var findings []string
	for _, ev := range evidence {
		for _, tool := range g.tools {
			result, err := tool.Extract(ev.Clause.Text)
			if err != nil {
				logging.LogEvent("tool %s failed on clause %s: %v", tool.Name(), ev.Clause.ID, err)
				continue
			}
			if result == nil {
				continue
			}
			encoded, err := json.Marshal(result)
			if err != nil {
				continue
			}
			findings = append(findings, fmt.Sprintf("[clause:%s] %s: %s", ev.Clause.ID, tool.Name(), encoded))
		}
	}
	return findings
}
