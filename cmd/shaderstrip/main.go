package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/common"
)

var (
	// Persistent flags
	configFiles    []string // Multiple --config flags supported
	logLevel       string
	playerLogPath  string
	collectionPath []string
	reportDir      string
	noReport       bool
	quiet          bool

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "shaderstrip",
	Short: "Classify compiled shader variants against recorded whitelists",
	Long: `shaderstrip decides which compiled shader variants a build keeps.
Evidence comes from a captured player log and from pre-baked variant collections.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfiguration,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&playerLogPath, "player-log", "", "Captured player log (overrides config)")
	rootCmd.PersistentFlags().StringArrayVar(&collectionPath, "collection", nil, "Variant collection YAML file (repeatable, overrides config)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "", "Stripping report directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noReport, "no-report", false, "Do not write the stripping report")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the banner")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(validateLogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfiguration runs the startup sequence in order:
// config (defaults -> files -> env) -> flag overrides -> logger -> banner
func loadConfiguration(cmd *cobra.Command, args []string) error {
	if cmd == versionCmd {
		return nil
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("shaderstrip.toml"); err == nil {
			configFiles = append(configFiles, "shaderstrip.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	common.ApplyFlagOverrides(config, common.FlagOverrides{
		PlayerLog:   playerLogPath,
		Collections: collectionPath,
		ReportDir:   reportDir,
		LogLevel:    logLevel,
		NoReport:    noReport,
	})
	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.InitLogger(config)
	common.SetCrashDir(config.Report.Dir)

	if !quiet {
		common.PrintBanner(config, logger)
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
	return nil
}

func main() {
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
