// internal/commands/ask.go
package covenant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/index"
	"github.com/spf13/cobra"
)

// askCmd answers a single question against the persisted clause index.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question about the indexed contract",
	Long:  `The 'ask' command retrieves the most relevant clauses from the persisted index and produces a validated, citation-sound answer.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question is required")
		}

		cfg := GetConfig()
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		snapshot, err := index.Load(cfg.IndexFilePath())
		if err != nil {
			return fmt.Errorf("load index (run 'covenant ingest' first): %w", err)
		}
		p.Store().Publish(snapshot)

		answer, err := p.Answer(context.Background(), contract.Query{
			Text: question,
			TopK: cfg.EvidenceTopK(),
		})
		if err != nil {
			return err
		}

		if JSONModeEnabled() {
			out, err := json.MarshalIndent(answer, "", "  ")
			if err != nil {
				return fmt.Errorf("encode answer: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		printAnswer(answer)
		return nil
	},
}

// printAnswer renders an answer for terminal reading.
func printAnswer(answer contract.Answer) {
	fmt.Printf("%s\n\n", answer.Summary)
	printSection("Obligations", answer.Obligations)
	printSection("Penalties", answer.Penalties)
	printSection("Risks", answer.Risks)

	if len(answer.SupportingClauses) > 0 {
		fmt.Println(successMark("Supporting clauses:"))
		for _, ref := range answer.SupportingClauses {
			fmt.Printf("  [%s] %s\n", ref.ID, ref.Text)
		}
	}
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(askCmd)
}
