// internal/commands/wiring.go
package covenant

import (
	"fmt"

	"github.com/mwiater/covenant/internal/appconfig"
	"github.com/mwiater/covenant/internal/embed"
	"github.com/mwiater/covenant/internal/extract"
	"github.com/mwiater/covenant/internal/generator"
	"github.com/mwiater/covenant/internal/llm"
	"github.com/mwiater/covenant/internal/pipeline"
	"github.com/mwiater/covenant/internal/retriever"
	"github.com/mwiater/covenant/internal/segmenter"
)

// buildPipeline assembles the full pipeline from the loaded configuration:
// embedding and generation clients, retriever, extraction tools, and the
// orchestrator with its retry policy.
func buildPipeline(cfg *appconfig.Config) (*pipeline.Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	embedder, err := embed.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding client: %w", err)
	}
	completer, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("generation client: %w", err)
	}

	gen := generator.New(completer, extract.DefaultSet(), completer.SystemPrompt())

	return pipeline.New(pipeline.Deps{
		Embedder:         embedder,
		Retriever:        retriever.New(embedder),
		Generator:        gen,
		Segment:          segmenter.Segment,
		MaxClauseChars:   cfg.ClauseCharLimit(),
		RepairLimit:      cfg.RepairLimit(),
		TransientRetries: cfg.TransientRetryLimit(),
	})
}
