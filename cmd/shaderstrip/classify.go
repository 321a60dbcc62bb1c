package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/shaderstrip/internal/app"
	"github.com/ternarybob/shaderstrip/internal/manifest"
	"github.com/ternarybob/shaderstrip/internal/models"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the variant batches of a build manifest",
	Long: `Runs every batch of a TOML build manifest through the stripping rules,
prints the decisions, and flushes the stripping report once at the end.`,
	RunE: runClassify,
}

var (
	classifyManifest      string
	classifyStage         string
	classifyOut           string
	classifyCollectionOut string
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyManifest, "manifest", "m", "", "Build manifest listing candidate variant batches")
	classifyCmd.Flags().StringVar(&classifyStage, "stage", "", "Build stage (player, asset_bundles); overrides the manifest")
	classifyCmd.Flags().StringVarP(&classifyOut, "out", "o", "", "Write the filtered manifest to this path")
	classifyCmd.Flags().StringVar(&classifyCollectionOut, "collection-out", "", "Write kept variants as a variant collection YAML")
	classifyCmd.MarkFlagRequired("manifest")
}

func runClassify(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(classifyManifest)
	if err != nil {
		return err
	}

	stageValue := m.Stage
	if classifyStage != "" {
		stageValue = classifyStage
	}
	stage, err := models.ParseBuildStage(stageValue)
	if err != nil {
		return err
	}

	application, err := app.New(config, stage, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize stripping run")
		return err
	}
	defer application.Close()

	filtered := &manifest.Manifest{Stage: stage.String()}
	out := cmd.OutOrStdout()

	for _, entry := range m.Batches {
		batch := entry.Batch()
		kept := application.Process(batch)
		filtered.Batches = append(filtered.Batches, manifest.FromBatch(kept))

		fmt.Fprintf(out, "%s [%s]: kept %d of %d\n", batch.Shader, batch.Pass.Name, len(kept.Variants), len(batch.Variants))
	}

	record, err := application.Complete(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to complete stripping run: %w", err)
	}

	if classifyOut != "" {
		if err := manifest.Write(classifyOut, filtered); err != nil {
			return err
		}
		application.Logger.Info().Str("path", classifyOut).Msg("Filtered manifest stored")
	}
	if classifyCollectionOut != "" {
		if err := application.WriteCollection(classifyCollectionOut); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Shaders: %d, processed: %d, passed: %d, stripped: %d\n",
		record.Shaders, record.Processed, record.Passed, record.Stripped)
	if record.ReportPath != "" {
		fmt.Fprintf(out, "Report: %s\n", record.ReportPath)
	}
	return nil
}
