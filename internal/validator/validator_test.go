package validator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mwiater/covenant/internal/contract"
)

func makeEvidence() contract.EvidenceSet {
	return contract.EvidenceSet{
		{Clause: contract.Clause{ID: "msa:1", Ordinal: 1, Text: "Payment due within 30 days"}, Score: 0.9},
		{Clause: contract.Clause{ID: "msa:2", Ordinal: 2, Text: "1.5% monthly penalty after due date"}, Score: 0.8},
	}
}

func makeCandidate(t *testing.T, answer contract.Answer) contract.Candidate {
	t.Helper()
	raw, err := json.Marshal(answer)
	if err != nil {
		t.Fatalf("marshal answer: %v", err)
	}
	return contract.Candidate{Raw: raw, Answer: answer}
}

func validAnswer() contract.Answer {
	return contract.Answer{
		Summary:     "A 1.5% monthly penalty applies to late payments.",
		Obligations: []string{"Pay within 30 days"},
		Penalties:   []string{"1.5% monthly penalty"},
		Risks:       []string{},
		SupportingClauses: []contract.ClauseRef{
			{ID: "msa:2", Text: "1.5% monthly penalty after due date"},
		},
	}
}

func TestValidateAcceptsSoundCandidate(t *testing.T) {
	result := Validate(makeCandidate(t, validAnswer()), makeEvidence())
	if !result.Valid {
		t.Fatalf("expected valid, got violations: %v", result.Violations)
	}
}

func TestValidateRejectsFabricatedCitation(t *testing.T) {
	answer := validAnswer()
	answer.SupportingClauses = []contract.ClauseRef{{ID: "msa:99", Text: "made up"}}
	result := Validate(makeCandidate(t, answer), makeEvidence())
	if result.Valid {
		t.Fatalf("expected invalid for fabricated citation")
	}
	found := false
	for _, v := range result.Violations {
		if strings.Contains(v, "msa:99") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected violation naming the fabricated id, got %v", result.Violations)
	}
}

func TestValidateRejectsDuplicateCitations(t *testing.T) {
	answer := validAnswer()
	answer.SupportingClauses = []contract.ClauseRef{
		{ID: "msa:2", Text: "penalty"},
		{ID: "msa:2", Text: "penalty again"},
	}
	result := Validate(makeCandidate(t, answer), makeEvidence())
	if result.Valid {
		t.Fatalf("expected invalid for duplicate citation")
	}
}

func TestValidateRejectsMissingSupportForObligations(t *testing.T) {
	answer := validAnswer()
	answer.SupportingClauses = nil
	result := Validate(makeCandidate(t, answer), makeEvidence())
	if result.Valid {
		t.Fatalf("expected invalid when obligations lack supporting clauses")
	}
}

func TestValidateRejectsMissingKeys(t *testing.T) {
	raw := []byte(`{"summary": "only a summary"}`)
	result := Validate(contract.Candidate{Raw: raw}, makeEvidence())
	if result.Valid {
		t.Fatalf("expected invalid for missing mandatory keys")
	}
	if len(result.Violations) == 0 {
		t.Fatalf("expected violations listing missing keys")
	}
}

func TestValidateRejectsNonJSONOutput(t *testing.T) {
	result := Validate(contract.Candidate{Raw: []byte("not json at all")}, makeEvidence())
	if result.Valid {
		t.Fatalf("expected invalid for non-JSON output")
	}
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	raw := []byte(`{"summary": "s", "obligations": "not an array", "penalties": [], "risks": [], "supporting_clauses": []}`)
	result := Validate(contract.Candidate{Raw: raw}, makeEvidence())
	if result.Valid {
		t.Fatalf("expected invalid for mistyped obligations")
	}
}

func TestValidateAllowsEmptyAnswerWithoutClaims(t *testing.T) {
	answer := contract.Answer{
		Summary:           "The retrieved clauses do not address this question.",
		Obligations:       []string{},
		Penalties:         []string{},
		Risks:             []string{},
		SupportingClauses: []contract.ClauseRef{},
	}
	result := Validate(makeCandidate(t, answer), makeEvidence())
	if !result.Valid {
		t.Fatalf("expected valid for empty claims, got %v", result.Violations)
	}
}
