// internal/commands/chat.go
package covenant

import (
	"context"
	"fmt"

	"github.com/mwiater/covenant/internal/index"
	"github.com/mwiater/covenant/internal/tui"
	"github.com/spf13/cobra"
)

// chatCmd represents the 'chat' command, which starts an interactive
// question-answering session over the indexed contract.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive contract QA session",
	Long:  `The 'chat' command starts an interactive session where each question is answered from the persisted clause index with validated citations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		return tui.Start(ctx, p, cfg)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
