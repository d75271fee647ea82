// internal/commands/ingest.go
package covenant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/index"
	"github.com/spf13/cobra"
)

var successMark = color.New(color.FgGreen).SprintFunc()
var failureMark = color.New(color.FgRed).SprintFunc()

// ingestCmd segments a contract document, embeds every clause, and persists
// the resulting index so later queries can answer against it.
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Segment and index a contract document",
	Long:  `The 'ingest' command segments a contract into clauses, embeds each clause, and writes the clause index to the configured index path.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}

		// Per-call timeouts live in the service clients; the run itself is
		// unbounded so large documents can finish.
		docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		snapshot, err := p.IngestDocument(context.Background(), contract.Document{ID: docID, Content: string(content)})
		if err != nil {
			fmt.Printf("%s ingest failed: %v\n", failureMark("✗"), err)
			return err
		}

		indexPath := cfg.IndexFilePath()
		if err := index.Save(snapshot, indexPath); err != nil {
			return fmt.Errorf("persist index: %w", err)
		}

		fmt.Printf("%s indexed %q: %d clauses (dimension %d) -> %s\n",
			successMark("✓"), docID, snapshot.Len(), snapshot.Dimension(), indexPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
