package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/shaderstrip/internal/playerlog"
)

var validateLogCmd = &cobra.Command{
	Use:   "validate-log [file]",
	Short: "Check that a captured player log parses",
	Long: `Parses a captured player log and reports the shaders and variants it
whitelists. Without an argument the configured player log is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidateLog,
}

var validateEcho bool

func init() {
	validateLogCmd.Flags().BoolVar(&validateEcho, "echo", false, "Print the collapsed whitelist back in log format")
}

func runValidateLog(cmd *cobra.Command, args []string) error {
	path := config.Whitelists.PlayerLog
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no player log given and none configured")
	}

	entries, err := playerlog.ParseFile(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Player log is not valid")
		return err
	}

	out := cmd.OutOrStdout()
	if validateEcho {
		for _, line := range entries.Lines() {
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintf(out, "%s: %d shaders, %d variants\n", path, len(entries), entries.Variants())
	return nil
}
