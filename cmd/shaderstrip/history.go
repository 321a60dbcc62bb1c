package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/shaderstrip/internal/app"
	"github.com/ternarybob/shaderstrip/internal/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored stripping run summaries",
	RunE:  runHistory,
}

var (
	historyStage string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVar(&historyStage, "stage", "", "Only list runs of this build stage")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	var stage models.BuildStage
	if historyStage != "" {
		var err error
		if stage, err = models.ParseBuildStage(historyStage); err != nil {
			return err
		}
	}

	storage, closeHistory, err := app.OpenHistory(config, logger)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer closeHistory()

	runs, err := storage.ListRuns(cmd.Context(), stage, historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTAGE\tCOMPLETED\tSHADERS\tPROCESSED\tPASSED\tSTRIPPED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d (%.0f%%)\n",
			run.ID, run.Stage, run.CompletedAt.Format(time.RFC3339),
			run.Shaders, run.Processed, run.Passed, run.Stripped, run.StrippedRatio()*100)
	}
	return w.Flush()
}
