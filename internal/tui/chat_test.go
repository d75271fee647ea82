// internal/tui/chat_test.go
package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/covenant/internal/appconfig"
	"github.com/mwiater/covenant/internal/contract"
)

type stubAnswerer struct {
	answer contract.Answer
	err    error
	asked  []contract.Query
}

func (s *stubAnswerer) Answer(ctx context.Context, query contract.Query) (contract.Answer, error) {
	s.asked = append(s.asked, query)
	return s.answer, s.err
}

// TestChat_SubmitAndRender covers the submit, answer, and render cycle:
// entering a question starts a run, the answer message lands in the
// transcript, and the view shows the citations.
func TestChat_SubmitAndRender(t *testing.T) {
	service := &stubAnswerer{answer: contract.Answer{
		Summary:   "Late payment carries a 1.5% monthly penalty.",
		Penalties: []string{"1.5% monthly penalty"},
		SupportingClauses: []contract.ClauseRef{
			{ID: "msa:2", Text: "1.5% monthly penalty after due date"},
		},
	}}
	cfg := &appconfig.Config{TopK: 2}
	m := NewModel(context.Background(), service, cfg)

	m2, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = m2.(Model)

	m.input.SetValue("What are the penalties?")
	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(Model)
	if !m.isLoading {
		t.Fatalf("expected loading after submitting a question")
	}
	if cmd == nil {
		t.Fatalf("expected a command to run the query")
	}

	m2, _ = m.Update(answerMsg{question: "What are the penalties?", answer: service.answer})
	m = m2.(Model)
	if m.isLoading {
		t.Fatalf("expected not loading after the answer arrived")
	}
	if len(m.turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(m.turns))
	}

	transcript := m.renderTurns()
	if !strings.Contains(transcript, "What are the penalties?") {
		t.Fatalf("transcript missing question: %q", transcript)
	}
	if !strings.Contains(transcript, "msa:2") {
		t.Fatalf("transcript missing citation: %q", transcript)
	}
	if !strings.Contains(transcript, "1.5% monthly penalty") {
		t.Fatalf("transcript missing penalty text: %q", transcript)
	}
}

// TestChat_EmptyInputIgnored verifies that enter on an empty input does not
// start a run.
func TestChat_EmptyInputIgnored(t *testing.T) {
	service := &stubAnswerer{}
	m := NewModel(context.Background(), service, nil)
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = m2.(Model)

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = m2.(Model)
	if m.isLoading {
		t.Fatalf("empty input must not start a run")
	}
	if cmd != nil {
		t.Fatalf("empty input must not produce a command")
	}
}

// TestChat_FailedRunShowsError verifies that a pipeline failure is rendered
// in the transcript instead of crashing the session.
func TestChat_FailedRunShowsError(t *testing.T) {
	service := &stubAnswerer{err: errors.New("generation service unavailable")}
	m := NewModel(context.Background(), service, nil)
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = m2.(Model)

	m2, _ = m.Update(answerErr{question: "q", err: service.err})
	m = m2.(Model)
	if len(m.turns) != 1 || m.turns[0].err == nil {
		t.Fatalf("expected a failed turn, got %+v", m.turns)
	}
	if !strings.Contains(m.renderTurns(), "generation service unavailable") {
		t.Fatalf("transcript must include the failure reason")
	}
}

// TestChat_AskCmdUsesConfiguredTopK verifies the query carries the
// configured evidence size.
func TestChat_AskCmdUsesConfiguredTopK(t *testing.T) {
	service := &stubAnswerer{answer: contract.Answer{Summary: "ok"}}
	cfg := &appconfig.Config{TopK: 3}
	m := NewModel(context.Background(), service, cfg)

	msg := askCmd(m.ctx, m.service, "question", m.topK)()
	if _, ok := msg.(answerMsg); !ok {
		t.Fatalf("expected answerMsg, got %T", msg)
	}
	if len(service.asked) != 1 || service.asked[0].TopK != 3 {
		t.Fatalf("expected TopK 3, got %+v", service.asked)
	}
}
