// internal/commands/root.go
package covenant

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/covenant/internal/appconfig"
	"github.com/mwiater/covenant/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "covenant",
	Short: "covenant — terminal-first contract QA over an evidence-constrained pipeline",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range []string{"debug", "jsonMode"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}
		for _, name := range []string{"topK", "maxClauseChars", "repairAttempts", "transientRetries", "timeout"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.Itoa(viper.GetInt(name)))
			}
		}
		for _, name := range []string{"indexPath", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("jsonMode", false, "print answers as raw JSON")
	rootCmd.PersistentFlags().Int("topK", 0, "evidence clauses retrieved per query (0 = default)")
	rootCmd.PersistentFlags().Int("maxClauseChars", 0, "maximum clause length in characters (0 = default)")
	rootCmd.PersistentFlags().Int("repairAttempts", 0, "maximum generator invocations per query (0 = default)")
	rootCmd.PersistentFlags().Int("transientRetries", 0, "retries for transient service failures (0 = default)")
	rootCmd.PersistentFlags().Int("timeout", 0, "seconds allowed per external-service call (0 = default)")
	rootCmd.PersistentFlags().String("indexPath", "", "path to the persisted clause index")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("jsonMode", rootCmd.PersistentFlags().Lookup("jsonMode"))
	_ = viper.BindPFlag("topK", rootCmd.PersistentFlags().Lookup("topK"))
	_ = viper.BindPFlag("maxClauseChars", rootCmd.PersistentFlags().Lookup("maxClauseChars"))
	_ = viper.BindPFlag("repairAttempts", rootCmd.PersistentFlags().Lookup("repairAttempts"))
	_ = viper.BindPFlag("transientRetries", rootCmd.PersistentFlags().Lookup("transientRetries"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("indexPath", rootCmd.PersistentFlags().Lookup("indexPath"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults. When the
// default path is absent, appconfig.Load resolves the legacy config.json
// location and validates it before viper re-reads from there.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			cfg, loadErr := appconfig.Load(cfgFile)
			if loadErr != nil {
				return fmt.Errorf("failed to load config: %w", loadErr)
			}
			viper.SetConfigFile(cfg.ConfigPath)
			return viper.ReadInConfig()
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// JSONModeEnabled returns true if JSON output mode is enabled.
func JSONModeEnabled() bool { return viper.GetBool("jsonMode") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
