// Package validator checks candidate answers against the fixed output schema
// and the citation-soundness contract. Validation is pure: it never mutates
// the candidate and has no side effects. Generator output is untrusted until
// it passes here.
package validator

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/covenant/internal/contract"
)

// answerSchema is the caller-facing output contract: exactly the mandatory
// keys, each correctly typed.
const answerSchema = `{
	"type": "object",
	"required": ["summary", "obligations", "penalties", "risks", "supporting_clauses"],
	"additionalProperties": false,
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"obligations": {"type": "array", "items": {"type": "string"}},
		"penalties": {"type": "array", "items": {"type": "string"}},
		"risks": {"type": "array", "items": {"type": "string"}},
		"supporting_clauses": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "text"],
				"additionalProperties": false,
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"text": {"type": "string"}
				}
			}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(answerSchema)

// Result reports the outcome of validating one candidate.
type Result struct {
	Valid      bool
	Violations []string
}

// Validate checks the candidate's raw JSON against the answer schema, then
// enforces the semantic rules the schema cannot express: supporting clauses
// must be present when obligations or penalties are claimed, every cited
// clause ID must be in the evidence set, and no ID may be cited twice.
func Validate(candidate contract.Candidate, evidence contract.EvidenceSet) Result {
	var violations []string

	schemaResult, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(candidate.Raw))
	if err != nil {
		violations = append(violations, fmt.Sprintf("output is not a valid JSON object: %v", err))
		return Result{Valid: false, Violations: violations}
	}
	if !schemaResult.Valid() {
		for _, desc := range schemaResult.Errors() {
			violations = append(violations, desc.String())
		}
	}

	answer := candidate.Answer
	if len(answer.SupportingClauses) == 0 && (len(answer.Obligations) > 0 || len(answer.Penalties) > 0) {
		violations = append(violations, "supporting_clauses must not be empty when obligations or penalties are present")
	}

	seen := make(map[string]struct{}, len(answer.SupportingClauses))
	for _, ref := range answer.SupportingClauses {
		if _, dup := seen[ref.ID]; dup {
			violations = append(violations, fmt.Sprintf("supporting_clauses cites id %q more than once", ref.ID))
			continue
		}
		seen[ref.ID] = struct{}{}
		if !evidence.Contains(ref.ID) {
			violations = append(violations, fmt.Sprintf("supporting_clauses cites id %q which was not retrieved as evidence", ref.ID))
		}
	}

	return Result{Valid: len(violations) == 0, Violations: violations}
}
