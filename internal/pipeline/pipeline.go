package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/index"
	"github.com/mwiater/covenant/internal/logging"
	"github.com/mwiater/covenant/internal/validator"
)

// Embedder is the embedding service boundary used at index-build time.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// Retriever converts a query into a ranked evidence set.
type Retriever interface {
	Retrieve(ctx context.Context, snap *index.Snapshot, query contract.Query) (contract.EvidenceSet, error)
}

// Generator produces candidate answers, optionally steered by violation
// feedback from a prior attempt.
type Generator interface {
	Generate(ctx context.Context, query contract.Query, evidence contract.EvidenceSet, feedback []string) (contract.Candidate, error)
}

// Segmenter splits a document into clauses.
type Segmenter func(doc contract.Document, maxChars int) ([]contract.Clause, error)

// ValidateFunc checks a candidate against the evidence it was produced from.
type ValidateFunc func(candidate contract.Candidate, evidence contract.EvidenceSet) validator.Result

// Deps wires the pipeline to its collaborators and policy knobs.
type Deps struct {
	Embedder  Embedder
	Retriever Retriever
	Generator Generator
	Store     *index.Store
	Segment   Segmenter
	Validate  ValidateFunc
	// MaxClauseChars caps clause length during segmentation.
	MaxClauseChars int
	// RepairLimit is the maximum number of generator invocations per query.
	RepairLimit int
	// TransientRetries is how many times a transient service failure is
	// retried, per external call, before the run fails.
	TransientRetries int
}

// Pipeline is the orchestrator for both the build-time and query-time flows.
// It owns run state and is the only component that decides retry versus
// propagate.
type Pipeline struct {
	deps Deps
}

// New constructs a Pipeline, applying the default validator when none is
// supplied.
func New(deps Deps) (*Pipeline, error) {
	if deps.Embedder == nil || deps.Retriever == nil || deps.Generator == nil {
		return nil, errors.New("pipeline requires an embedder, retriever, and generator")
	}
	if deps.Store == nil {
		deps.Store = index.NewStore()
	}
	if deps.Validate == nil {
		deps.Validate = validator.Validate
	}
	if deps.Segment == nil {
		return nil, errors.New("pipeline requires a segmenter")
	}
	if deps.MaxClauseChars <= 0 {
		return nil, errors.New("pipeline requires a positive MaxClauseChars")
	}
	if deps.RepairLimit <= 0 {
		return nil, errors.New("pipeline requires a positive RepairLimit")
	}
	if deps.TransientRetries < 0 {
		deps.TransientRetries = 0
	}
	return &Pipeline{deps: deps}, nil
}

// Store exposes the snapshot store so callers can publish a pre-built index
// (for example, one loaded from disk).
func (p *Pipeline) Store() *index.Store { return p.deps.Store }

// IngestDocument runs the build-time flow: Ingesting -> Segmenting ->
// Indexing -> Indexed. The built snapshot is published atomically; readers
// never observe a partial index. Structural failures (empty document,
// inconsistent embedding dimensions) are fatal and not retried; embedding
// failures get the bounded transient retry.
func (p *Pipeline) IngestDocument(ctx context.Context, doc contract.Document) (*index.Snapshot, error) {
	run := newRunState()

	run.advance(StageIngesting)
	if err := ctx.Err(); err != nil {
		return nil, run.fail(classifyKind(err), nil, err)
	}
	if doc.ID == "" {
		return nil, run.fail(KindInternal, nil, errors.New("document ID is required"))
	}

	run.advance(StageSegmenting)
	clauses, err := p.deps.Segment(doc, p.deps.MaxClauseChars)
	if err != nil {
		return nil, run.fail(classifyKind(err), nil, err)
	}

	run.advance(StageIndexing)
	vectors := make([][]float64, len(clauses))
	for i, clause := range clauses {
		text := clause.Text
		err := p.withTransientRetry(ctx, run, func(ctx context.Context) error {
			vec, embedErr := p.deps.Embedder.EmbedText(ctx, text)
			if embedErr != nil {
				return embedErr
			}
			vectors[i] = vec
			return nil
		})
		if err != nil {
			return nil, run.fail(classifyKind(err), nil, fmt.Errorf("embed clause %s: %w", clause.ID, err))
		}
	}

	snapshot, err := index.Build(doc.ID, clauses, vectors)
	if err != nil {
		return nil, run.fail(classifyKind(err), nil, err)
	}
	p.deps.Store.Publish(snapshot)

	run.advance(StageIndexed)
	logging.LogEvent("indexed document %s: %d clauses, dimension %d", doc.ID, snapshot.Len(), snapshot.Dimension())
	return snapshot, nil
}

// Answer runs the query-time flow: Retrieving -> Generating -> Validating,
// looping back to Generating with violation feedback until the candidate
// validates or the repair limit is exhausted. The returned answer is always
// schema-valid and citation-sound.
func (p *Pipeline) Answer(ctx context.Context, query contract.Query) (contract.Answer, error) {
	run := newRunState()

	snapshot := p.deps.Store.Current()
	if snapshot == nil {
		return contract.Answer{}, run.fail(KindInternal, nil, errors.New("no document has been indexed"))
	}

	run.advance(StageRetrieving)
	var evidence contract.EvidenceSet
	err := p.withTransientRetry(ctx, run, func(ctx context.Context) error {
		var retrieveErr error
		evidence, retrieveErr = p.deps.Retriever.Retrieve(ctx, snapshot, query)
		return retrieveErr
	})
	if err != nil {
		return contract.Answer{}, run.fail(classifyKind(err), nil, err)
	}

	var feedback []string
	var lastViolations []string
	for attempt := 1; attempt <= p.deps.RepairLimit; attempt++ {
		run.advance(StageGenerating)
		run.RepairAttempts = attempt

		var candidate contract.Candidate
		err := p.withTransientRetry(ctx, run, func(ctx context.Context) error {
			var genErr error
			candidate, genErr = p.deps.Generator.Generate(ctx, query, evidence, feedback)
			return genErr
		})
		if err != nil {
			return contract.Answer{}, run.fail(classifyKind(err), nil, err)
		}

		run.advance(StageValidating)
		result := p.deps.Validate(candidate, evidence)
		if result.Valid {
			run.advance(StageDone)
			answer := candidate.Answer
			answer.Normalize()
			return answer, nil
		}

		lastViolations = result.Violations
		feedback = result.Violations
		logging.LogEvent("run %s attempt %d/%d invalid: %d violations", run.RunID, attempt, p.deps.RepairLimit, len(result.Violations))
	}

	return contract.Answer{}, run.fail(
		KindSchemaValidationExhausted,
		lastViolations,
		fmt.Errorf("candidate failed validation after %d attempts", p.deps.RepairLimit),
	)
}

// withTransientRetry runs op, retrying transient failures up to the
// configured bound. Structural errors and cancellation return immediately.
// This counter is per external call and distinct from the repair loop's.
func (p *Pipeline) withTransientRetry(ctx context.Context, run *RunState, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.deps.TransientRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		kind := classifyKind(lastErr)
		if !transient(kind) || errors.Is(lastErr, context.Canceled) {
			return lastErr
		}
		run.TransientAttempts++
		logging.LogEvent("run %s stage %s transient failure (%s), attempt %d/%d: %v",
			run.RunID, run.Stage, kind, attempt+1, p.deps.TransientRetries+1, lastErr)
	}
	return lastErr
}
