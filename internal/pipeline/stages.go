// Package pipeline implements the orchestrator: the state machine that drives
// a document through segmentation and indexing, and a query through
// retrieval, generation, and validation with a bounded repair loop. The
// orchestrator alone decides retry versus propagate; components only report
// failures.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/covenant/internal/embed"
	"github.com/mwiater/covenant/internal/index"
	"github.com/mwiater/covenant/internal/llm"
	"github.com/mwiater/covenant/internal/segmenter"
)

// Stage identifies a position in the build-time or query-time state machine.
type Stage string

const (
	StageIdle       Stage = "Idle"
	StageIngesting  Stage = "Ingesting"
	StageSegmenting Stage = "Segmenting"
	StageIndexing   Stage = "Indexing"
	StageIndexed    Stage = "Indexed"
	StageRetrieving Stage = "Retrieving"
	StageGenerating Stage = "Generating"
	StageValidating Stage = "Validating"
	StageDone       Stage = "Done"
	StageFailed     Stage = "Failed"
)

// ErrorKind classifies terminal failures for callers and retry policy.
type ErrorKind string

const (
	KindEmptyDocument             ErrorKind = "EmptyDocument"
	KindIndexBuild                ErrorKind = "IndexBuild"
	KindEmbeddingService          ErrorKind = "EmbeddingService"
	KindGenerationService         ErrorKind = "GenerationService"
	KindSchemaValidationExhausted ErrorKind = "SchemaValidationExhausted"
	KindCancelled                 ErrorKind = "Cancelled"
	KindTimeout                   ErrorKind = "Timeout"
	KindInternal                  ErrorKind = "Internal"
)

// StageError is the typed terminal failure of a run: where it happened, what
// kind it was, and, for exhausted repair loops, the last candidate's
// violations.
type StageError struct {
	Stage      Stage
	Kind       ErrorKind
	Violations []string
	Err        error
}

// Error implements error with a human-readable message naming the stage.
func (e *StageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed (%s)", e.Stage, e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Violations) > 0 {
		fmt.Fprintf(&b, "; violations: %s", strings.Join(e.Violations, "; "))
	}
	return b.String()
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e *StageError) Unwrap() error { return e.Err }

// classifyKind maps component errors onto the failure taxonomy. Cancellation
// and deadline expiry win over service wrappers so a timed-out embedding call
// classifies as Timeout, not EmbeddingService.
func classifyKind(err error) ErrorKind {
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, segmenter.ErrEmptyDocument):
		return KindEmptyDocument
	case errors.Is(err, index.ErrBuild):
		return KindIndexBuild
	case errors.Is(err, embed.ErrService):
		return KindEmbeddingService
	case errors.Is(err, llm.ErrService):
		return KindGenerationService
	default:
		return KindInternal
	}
}

// transient reports whether a failure kind is eligible for bounded retry.
// Structural failures and cancellation never retry.
func transient(kind ErrorKind) bool {
	switch kind {
	case KindEmbeddingService, KindGenerationService, KindTimeout:
		return true
	default:
		return false
	}
}
