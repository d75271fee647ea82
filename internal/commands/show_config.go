// internal/commands/show_config.go
package covenant

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/covenant/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:            viper.GetBool("debug"),
			TopK:             viper.GetInt("topK"),
			MaxClauseChars:   viper.GetInt("maxClauseChars"),
			RepairAttempts:   viper.GetInt("repairAttempts"),
			TransientRetries: viper.GetInt("transientRetries"),
			TimeoutSeconds:   viper.GetInt("timeout"),
			IndexPath:        viper.GetString("indexPath"),
			LogFile:          viper.GetString("logFile"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)

		if DebugEnabled() {
			pp.Println(GetConfig())
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
