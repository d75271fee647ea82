// internal/commands/show.go
package covenant

import "github.com/spf13/cobra"

// showCmd groups read-only inspection commands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application state",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
