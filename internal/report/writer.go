package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/models"
)

// FileName returns the stage-qualified report file name
func FileName(stage models.BuildStage) string {
	if stage.IsPlayerBuild() {
		return "PlayerStrippingReport.txt"
	}
	return "AssetBundlesStrippingReport.txt"
}

// Writer stores rendered reports in a directory, one file per stage, overwritten per run
type Writer struct {
	dir    string
	logger arbor.ILogger
}

// NewWriter creates a Writer targeting dir
func NewWriter(dir string, logger arbor.ILogger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Path returns where the report for stage is written
func (w *Writer) Path(stage models.BuildStage) string {
	return filepath.Join(w.dir, FileName(stage))
}

// Write renders the aggregator and stores it, creating the directory when needed
func (w *Writer) Write(agg *Aggregator) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", w.dir, err)
	}

	path := w.Path(agg.Stage())
	if err := os.WriteFile(path, []byte(agg.Render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}

	if w.logger != nil {
		w.logger.Info().Str("path", path).Msg("Stripping report stored")
	}
	return path, nil
}
